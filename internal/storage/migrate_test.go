package storage

import (
	"database/sql"
	"path/filepath"
	"testing"
)

func TestMigrateUpDownUp(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "migrate-test.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := MigrateUp(db); err != nil {
		t.Fatalf("migrate up: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO tasks (id, title, due_at, priority, created_at)
		VALUES ('t1', 'x', '2026-03-01T09:00:00Z', 5, '2026-02-20T08:00:00Z')`); err != nil {
		t.Fatalf("insert after up: %v", err)
	}

	if err := MigrateDown(db); err != nil {
		t.Fatalf("migrate down: %v", err)
	}
	if _, err := db.Exec(`SELECT COUNT(*) FROM tasks`); err == nil {
		t.Fatalf("tasks table should be gone after down migration")
	}

	if err := MigrateUp(db); err != nil {
		t.Fatalf("migrate up again: %v", err)
	}
}

func TestMigrationsEnforcePriorityBounds(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "bounds-test.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := MigrateUp(db); err != nil {
		t.Fatalf("migrate up: %v", err)
	}

	if _, err := db.Exec(`INSERT INTO tasks (id, title, due_at, priority, created_at)
		VALUES ('t1', 'x', '2026-03-01T09:00:00Z', 11, '2026-02-20T08:00:00Z')`); err == nil {
		t.Fatalf("priority 11 should violate the check constraint")
	}
}

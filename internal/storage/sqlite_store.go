package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteTimeLayout = time.RFC3339Nano

// SQLiteStore persists the task list in sqlite. Save replaces the whole table
// in one transaction, keeping the same whole-list semantics as the file
// backend.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	return &SQLiteStore{db: db}, nil
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := MigrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	store, err := NewSQLiteStore(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Load(ctx context.Context) ([]Task, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, due_at, priority, completed, created_at
		FROM tasks ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Task, 0)
	for rows.Next() {
		task, scanErr := scanTask(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, task)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Save(ctx context.Context, tasks []Task) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks`); err != nil {
		return fmt.Errorf("clear tasks: %w", err)
	}
	for _, t := range tasks {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO tasks (id, title, description, due_at, priority, completed, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			t.ID, t.Title, t.Description, formatTime(t.DueAt), t.Priority, boolInt(t.Completed), formatTime(t.CreatedAt),
		); err != nil {
			return fmt.Errorf("insert task %s: %w", t.ID, err)
		}
	}
	return tx.Commit()
}

func scanTask(row interface{ Scan(...any) error }) (Task, error) {
	var (
		out       Task
		dueAt     string
		completed int
		createdAt string
	)
	if err := row.Scan(&out.ID, &out.Title, &out.Description, &dueAt, &out.Priority, &completed, &createdAt); err != nil {
		return Task{}, err
	}
	var err error
	if out.DueAt, err = parseTime(dueAt); err != nil {
		return Task{}, err
	}
	if out.CreatedAt, err = parseTime(createdAt); err != nil {
		return Task{}, err
	}
	out.Completed = completed != 0
	return out, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(sqliteTimeLayout)
}

func parseTime(raw string) (time.Time, error) {
	t, err := time.Parse(sqliteTimeLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad timestamp %q", ErrCorruptData, raw)
	}
	return t, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

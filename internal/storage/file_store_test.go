package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func sampleTasks() []Task {
	return []Task{
		{
			ID:        "task-1",
			Title:     "Pay rent",
			DueAt:     time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
			Priority:  8,
			CreatedAt: time.Date(2026, 2, 20, 8, 0, 0, 0, time.UTC),
		},
		{
			ID:          "task-2",
			Title:       "Book dentist",
			Description: "ask about the retainer",
			DueAt:       time.Date(2026, 3, 5, 14, 30, 0, 0, time.UTC),
			Priority:    3,
			Completed:   true,
			CreatedAt:   time.Date(2026, 2, 21, 10, 0, 0, 0, time.UTC),
		},
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	store := NewFileStore(path)
	ctx := context.Background()

	want := sampleTasks()
	if err := store.Save(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d tasks, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].ID != want[i].ID || got[i].Title != want[i].Title || got[i].Priority != want[i].Priority {
			t.Fatalf("task %d mismatch: %#v", i, got[i])
		}
		if !got[i].DueAt.Equal(want[i].DueAt) || !got[i].CreatedAt.Equal(want[i].CreatedAt) {
			t.Fatalf("task %d timestamps mismatch: %#v", i, got[i])
		}
		if got[i].Completed != want[i].Completed {
			t.Fatalf("task %d completed mismatch: %#v", i, got[i])
		}
	}
}

func TestFileStoreTimestampsAreISO8601(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	store := NewFileStore(path)

	if err := store.Save(context.Background(), sampleTasks()[:1]); err != nil {
		t.Fatalf("save: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if !strings.Contains(string(raw), `"dueDate": "2026-03-01T09:00:00Z"`) {
		t.Fatalf("expected RFC 3339 dueDate in payload:\n%s", raw)
	}
}

func TestFileStoreMissingFileLoadsEmpty(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "absent.json"))
	got, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty list, got %d tasks", len(got))
	}
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	_, err := NewFileStore(path).Load(context.Background())
	if !errors.Is(err, ErrCorruptData) {
		t.Fatalf("expected ErrCorruptData, got %v", err)
	}
}

func TestFileStoreSaveNilWritesEmptyList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	store := NewFileStore(path)

	if err := store.Save(context.Background(), nil); err != nil {
		t.Fatalf("save nil: %v", err)
	}
	got, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty list, got %#v", got)
	}
}

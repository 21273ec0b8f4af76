package storage

import (
	"time"

	"github.com/Gamfluent/Nag-Me/internal/model"
)

// Task is the persisted record. JSON field names and RFC 3339 timestamps are
// the on-disk contract for the file backend.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	DueAt       time.Time `json:"dueDate"`
	Priority    int       `json:"priority"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
}

func FromModel(t model.Task) Task {
	return Task{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		DueAt:       t.DueAt,
		Priority:    t.Priority,
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt,
	}
}

func (t Task) Model() model.Task {
	return model.Task{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		DueAt:       t.DueAt,
		Priority:    t.Priority,
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt,
	}
}

func FromModels(tasks []model.Task) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, FromModel(t))
	}
	return out
}

func ToModels(tasks []Task) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Model())
	}
	return out
}

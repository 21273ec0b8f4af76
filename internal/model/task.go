package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidPriority = errors.New("model: invalid task priority")

const (
	MinPriority = 1
	MaxPriority = 10
)

// Task is the canonical reminder item. The store is its sole mutator.
type Task struct {
	ID          string
	Title       string
	Description string
	DueAt       time.Time
	Priority    int
	Completed   bool
	CreatedAt   time.Time
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("model: task id is required")
	}
	if strings.TrimSpace(t.Title) == "" {
		return errors.New("model: task title is required")
	}
	if t.Priority < MinPriority || t.Priority > MaxPriority {
		return fmt.Errorf("%w: %d", ErrInvalidPriority, t.Priority)
	}
	if t.DueAt.IsZero() {
		return errors.New("model: task due_at is required")
	}
	if t.CreatedAt.IsZero() {
		return errors.New("model: task created_at is required")
	}
	return nil
}

// Draft carries the user-supplied fields for a new task. ID, Completed and
// CreatedAt are assigned by the store.
type Draft struct {
	Title       string
	Description string
	DueAt       time.Time
	Priority    int
}

func (d Draft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return errors.New("model: task title is required")
	}
	if d.Priority < MinPriority || d.Priority > MaxPriority {
		return fmt.Errorf("%w: %d", ErrInvalidPriority, d.Priority)
	}
	if d.DueAt.IsZero() {
		return errors.New("model: task due_at is required")
	}
	return nil
}

// Patch is a partial update; nil fields are left untouched.
type Patch struct {
	Title       *string
	Description *string
	DueAt       *time.Time
	Priority    *int
}

func (p Patch) Apply(t Task) Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.DueAt != nil {
		t.DueAt = *p.DueAt
	}
	if p.Priority != nil {
		t.Priority = ClampPriority(*p.Priority)
	}
	return t
}

// ClampPriority forces out-of-range input back into [MinPriority, MaxPriority].
// The UI bounds its own input; this is the defensive contract for everything
// else.
func ClampPriority(p int) int {
	if p < MinPriority {
		return MinPriority
	}
	if p > MaxPriority {
		return MaxPriority
	}
	return p
}

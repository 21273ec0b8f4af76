package storage

import (
	"context"
	"errors"
)

var ErrCorruptData = errors.New("storage: corrupt task data")

// Store persists the whole task list as one unit. Mutations always go through
// a full replace, never a partial in-place edit.
type Store interface {
	Load(ctx context.Context) ([]Task, error)
	Save(ctx context.Context, tasks []Task) error
}

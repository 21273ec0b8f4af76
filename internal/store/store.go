package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Gamfluent/Nag-Me/internal/model"
	"github.com/Gamfluent/Nag-Me/internal/notify"
	"github.com/Gamfluent/Nag-Me/internal/storage"
)

var ErrTaskNotFound = errors.New("store: task not found")

// SideEffectFunc receives failures from the best-effort half of a mutation
// (persistence, alert scheduling). The mutation itself has already committed
// by the time this runs.
type SideEffectFunc func(taskID string, err error)

// TaskStore owns the canonical task list. It is the single writer: every
// mutation updates memory, persists the whole list, then reconciles the
// task's alert registration. The reconcile step is best effort; its failures
// never roll back the mutation.
type TaskStore struct {
	mu        sync.Mutex
	tasks     []model.Task
	storage   storage.Store
	scheduler *notify.Scheduler
	log       *zap.Logger
	now       func() time.Time
	newID     func() string
	onError   SideEffectFunc
}

func NewTaskStore(st storage.Store, scheduler *notify.Scheduler, log *zap.Logger) *TaskStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &TaskStore{
		tasks:     []model.Task{},
		storage:   st,
		scheduler: scheduler,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
		newID:     uuid.NewString,
	}
}

// WithClock overrides the store's clock.
func (s *TaskStore) WithClock(now func() time.Time) *TaskStore {
	s.now = now
	return s
}

// WithIDFunc overrides id generation.
func (s *TaskStore) WithIDFunc(newID func() string) *TaskStore {
	s.newID = newID
	return s
}

// OnSideEffectError registers the side channel for post-commit failures.
func (s *TaskStore) OnSideEffectError(fn SideEffectFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onError = fn
}

// Load replaces the in-memory list with the persisted one. Called once at
// startup before any mutation.
func (s *TaskStore) Load(ctx context.Context) error {
	records, err := s.storage.Load(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = storage.ToModels(records)
	return nil
}

// Add creates a task from the draft: fresh id, creation timestamp, not
// completed. The new task is persisted and handed to the scheduler.
func (s *TaskStore) Add(ctx context.Context, draft model.Draft) (model.Task, error) {
	draft.Priority = model.ClampPriority(draft.Priority)
	if err := draft.Validate(); err != nil {
		return model.Task{}, err
	}

	s.mu.Lock()
	task := model.Task{
		ID:          s.newID(),
		Title:       draft.Title,
		Description: draft.Description,
		DueAt:       draft.DueAt,
		Priority:    draft.Priority,
		Completed:   false,
		CreatedAt:   s.now(),
	}
	s.tasks = append(s.tasks, task)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(ctx, task.ID, snapshot)
	s.syncAlert(ctx, task)
	return task, nil
}

// Update merges the patch into an existing task and re-syncs its alert with
// the post-update state. Unknown ids fail before any side effect.
func (s *TaskStore) Update(ctx context.Context, id string, patch model.Patch) (model.Task, error) {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return model.Task{}, ErrTaskNotFound
	}
	updated := patch.Apply(s.tasks[idx])
	s.tasks[idx] = updated
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(ctx, id, snapshot)
	s.syncAlert(ctx, updated)
	return updated, nil
}

// Delete removes a task and always cancels its alert registration, even when
// the task was already gone. Deleting an absent id is not an error.
func (s *TaskStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	idx := s.indexLocked(id)
	removed := idx >= 0
	var snapshot []model.Task
	if removed {
		s.tasks = append(s.tasks[:idx], s.tasks[idx+1:]...)
		snapshot = s.snapshotLocked()
	}
	s.mu.Unlock()

	if removed {
		s.persist(ctx, id, snapshot)
	}
	s.cancelAlert(ctx, id)
	return nil
}

// ToggleComplete flips the completed flag. Completing cancels the alert;
// un-completing re-syncs it with a freshly computed interval.
func (s *TaskStore) ToggleComplete(ctx context.Context, id string) (model.Task, error) {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return model.Task{}, ErrTaskNotFound
	}
	s.tasks[idx].Completed = !s.tasks[idx].Completed
	toggled := s.tasks[idx]
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(ctx, id, snapshot)
	if toggled.Completed {
		s.cancelAlert(ctx, id)
	} else {
		s.syncAlert(ctx, toggled)
	}
	return toggled, nil
}

// RescheduleAll re-establishes the task-to-alert mapping from scratch:
// global cancel, then one registration per eligible task. Used at startup and
// by the optional staleness ticker.
func (s *TaskStore) RescheduleAll(ctx context.Context) error {
	return s.scheduler.RescheduleAll(ctx, s.Tasks())
}

// Tasks returns a snapshot copy in creation order.
func (s *TaskStore) Tasks() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *TaskStore) Get(id string) (model.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.indexLocked(id); idx >= 0 {
		return s.tasks[idx], true
	}
	return model.Task{}, false
}

func (s *TaskStore) indexLocked(id string) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (s *TaskStore) snapshotLocked() []model.Task {
	out := make([]model.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// persist writes the whole list. A failed write leaves memory and disk
// diverged; the error is logged and reported, never rolled back.
func (s *TaskStore) persist(ctx context.Context, taskID string, snapshot []model.Task) {
	if err := s.storage.Save(ctx, storage.FromModels(snapshot)); err != nil {
		s.log.Error("persist task list failed",
			zap.String("task_id", taskID),
			zap.Error(err))
		s.reportSideEffect(taskID, err)
	}
}

func (s *TaskStore) syncAlert(ctx context.Context, task model.Task) {
	if err := s.scheduler.Sync(ctx, task); err != nil {
		s.log.Error("alert sync failed",
			zap.String("task_id", task.ID),
			zap.Error(err))
		s.reportSideEffect(task.ID, err)
	}
}

func (s *TaskStore) cancelAlert(ctx context.Context, taskID string) {
	if err := s.scheduler.CancelTask(ctx, taskID); err != nil {
		s.log.Error("alert cancel failed",
			zap.String("task_id", taskID),
			zap.Error(err))
		s.reportSideEffect(taskID, err)
	}
}

func (s *TaskStore) reportSideEffect(taskID string, err error) {
	s.mu.Lock()
	fn := s.onError
	s.mu.Unlock()
	if fn != nil {
		fn(taskID, err)
	}
}

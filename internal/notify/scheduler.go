package notify

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Gamfluent/Nag-Me/internal/model"
)

const fallbackBody = "No description provided"

// Permission mirrors the host platform's notification permission status. When
// denied, every scheduling call becomes a silent no-op; cancels still run so a
// revoked permission cannot strand stale registrations.
type Permission string

const (
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// Registration is one recurring alert keyed by task id. Title and body are
// snapshots taken at schedule time.
type Registration struct {
	TaskID   string
	Title    string
	Body     string
	Payload  string
	Interval time.Duration
}

// Notifier is the OS notification facility the scheduler drives. Cancel and
// CancelAll are idempotent; cancelling an unknown id is not an error.
type Notifier interface {
	Schedule(ctx context.Context, reg Registration) error
	Cancel(ctx context.Context, taskID string) error
	CancelAll(ctx context.Context) error
}

// Scheduler keeps the notifier consistent with task state: at most one active
// registration per task, cancel always issued before a new schedule.
type Scheduler struct {
	notifier   Notifier
	permission Permission
	now        func() time.Time
	log        *zap.Logger
}

func NewScheduler(notifier Notifier, permission Permission, log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{
		notifier:   notifier,
		permission: permission,
		now:        func() time.Time { return time.Now().UTC() },
		log:        log,
	}
}

// WithClock overrides the scheduler's clock.
func (s *Scheduler) WithClock(now func() time.Time) *Scheduler {
	s.now = now
	return s
}

// Sync runs the cancel-then-maybe-reschedule step for one task. The prior
// registration is cancelled unconditionally; a new one is created only when
// the task is eligible.
func (s *Scheduler) Sync(ctx context.Context, task model.Task) error {
	if err := s.notifier.Cancel(ctx, task.ID); err != nil {
		return fmt.Errorf("cancel alert for task %s: %w", task.ID, err)
	}
	return s.scheduleIfEligible(ctx, task)
}

// CancelTask drops any registration for the task id. Safe to call for tasks
// that never had one.
func (s *Scheduler) CancelTask(ctx context.Context, taskID string) error {
	if err := s.notifier.Cancel(ctx, taskID); err != nil {
		return fmt.Errorf("cancel alert for task %s: %w", taskID, err)
	}
	return nil
}

// RescheduleAll is the recovery path: cancel the whole registration set, then
// re-register every incomplete task. The global cancel completes before any
// new registration is issued so nothing stale survives.
func (s *Scheduler) RescheduleAll(ctx context.Context, tasks []model.Task) error {
	if err := s.notifier.CancelAll(ctx); err != nil {
		return fmt.Errorf("cancel all alerts: %w", err)
	}
	for _, task := range tasks {
		if task.Completed {
			continue
		}
		if err := s.scheduleIfEligible(ctx, task); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scheduler) scheduleIfEligible(ctx context.Context, task model.Task) error {
	now := s.now()
	if !Eligible(task, now) {
		s.log.Debug("task not eligible for alerts",
			zap.String("task_id", task.ID),
			zap.Bool("completed", task.Completed),
			zap.Time("due_at", task.DueAt))
		return nil
	}
	if s.permission != PermissionGranted {
		s.log.Debug("notification permission not granted, skipping schedule",
			zap.String("task_id", task.ID))
		return nil
	}

	body := task.Description
	if body == "" {
		body = fallbackBody
	}
	reg := Registration{
		TaskID:   task.ID,
		Title:    fmt.Sprintf("Task Due: %s", task.Title),
		Body:     body,
		Payload:  task.ID,
		Interval: Interval(task.Priority, task.DueAt, now),
	}
	if err := s.notifier.Schedule(ctx, reg); err != nil {
		return fmt.Errorf("schedule alert for task %s: %w", task.ID, err)
	}
	s.log.Info("alert scheduled",
		zap.String("task_id", task.ID),
		zap.Duration("interval", reg.Interval),
		zap.Time("due_at", task.DueAt))
	return nil
}

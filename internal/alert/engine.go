package alert

import (
	"container/heap"
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Gamfluent/Nag-Me/internal/notify"
)

var (
	ErrInvalidInterval = errors.New("alert: invalid repeat interval")
	ErrEngineStopped   = errors.New("alert: engine stopped")
)

// Alert is one delivered nag for a task.
type Alert struct {
	TaskID  string
	Title   string
	Body    string
	Payload string
	FiredAt time.Time
}

type queueItem struct {
	reg      notify.Registration
	nextFire time.Time
	rev      uint64
}

type alertQueue []queueItem

func (q alertQueue) Len() int { return len(q) }

func (q alertQueue) Less(i, j int) bool {
	return q[i].nextFire.Before(q[j].nextFire)
}

func (q alertQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
}

func (q *alertQueue) Push(x any) {
	*q = append(*q, x.(queueItem))
}

func (q *alertQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[0 : n-1]
	return item
}

// Engine is the in-process notification facility: recurring alerts keyed by
// task id, delivered on a buffered channel. Registering under an existing id
// replaces the prior registration; cancels are idempotent. After each fire
// the registration re-arms at its fixed interval.
type Engine struct {
	mu         sync.Mutex
	queue      alertQueue
	registered map[string]uint64
	nextRev    uint64
	out        chan Alert
	wakeup     chan struct{}
	stopCh     chan struct{}
	doneCh     chan struct{}
	started    bool
	stopped    bool
	dropped    uint64
}

func NewEngine(bufferSize int) *Engine {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Engine{
		queue:      make(alertQueue, 0),
		registered: make(map[string]uint64),
		out:        make(chan Alert, bufferSize),
		wakeup:     make(chan struct{}, 1),
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
	}
}

// C delivers fired alerts. The channel is closed when the engine stops.
func (e *Engine) C() <-chan Alert {
	return e.out
}

func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return
	}
	e.started = true
	heap.Init(&e.queue)
	go e.loop()
}

func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.started || e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	close(e.stopCh)
	e.mu.Unlock()
	<-e.doneCh
}

// Schedule registers a recurring alert for reg.TaskID, replacing any existing
// registration for that id. The first fire happens one interval from now.
func (e *Engine) Schedule(_ context.Context, reg notify.Registration) error {
	if reg.Interval <= 0 {
		return ErrInvalidInterval
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return ErrEngineStopped
	}

	e.nextRev++
	e.registered[reg.TaskID] = e.nextRev
	heap.Push(&e.queue, queueItem{
		reg:      reg,
		nextFire: time.Now().UTC().Add(reg.Interval),
		rev:      e.nextRev,
	})
	e.signalWakeup()
	return nil
}

// Cancel drops the registration for a task id. Unknown ids are a no-op; the
// superseded queue entries are discarded lazily when they surface.
func (e *Engine) Cancel(_ context.Context, taskID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.registered, taskID)
	return nil
}

// CancelAll drops every registration.
func (e *Engine) CancelAll(context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.registered = make(map[string]uint64)
	e.queue = e.queue[:0]
	e.signalWakeup()
	return nil
}

// Active returns the task ids with a live registration, sorted.
func (e *Engine) Active() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, 0, len(e.registered))
	for id := range e.registered {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (e *Engine) Dropped() uint64 {
	return atomic.LoadUint64(&e.dropped)
}

func (e *Engine) loop() {
	defer close(e.doneCh)
	defer close(e.out)

	var timer *time.Timer
	for {
		next, hasNext := e.peek()
		if !hasNext {
			select {
			case <-e.wakeup:
				continue
			case <-e.stopCh:
				return
			}
		}

		wait := time.Until(next)
		if wait < 0 {
			wait = 0
		}
		timer = resetTimer(timer, wait)

		select {
		case <-timer.C:
			due := e.popDue(time.Now().UTC())
			for _, a := range due {
				select {
				case e.out <- a:
				default:
					atomic.AddUint64(&e.dropped, 1)
				}
			}
		case <-e.wakeup:
			continue
		case <-e.stopCh:
			if timer != nil {
				stopTimer(timer)
			}
			return
		}
	}
}

func (e *Engine) signalWakeup() {
	select {
	case e.wakeup <- struct{}{}:
	default:
	}
}

func (e *Engine) peek() (time.Time, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.queue) == 0 {
		return time.Time{}, false
	}
	return e.queue[0].nextFire, true
}

// popDue pops everything due at or before now, re-arming each live
// registration one interval out and dropping cancelled or superseded entries.
func (e *Engine) popDue(now time.Time) []Alert {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Alert, 0)
	for len(e.queue) > 0 {
		if e.queue[0].nextFire.After(now) {
			break
		}
		item := heap.Pop(&e.queue).(queueItem)
		if e.registered[item.reg.TaskID] != item.rev {
			continue
		}
		out = append(out, Alert{
			TaskID:  item.reg.TaskID,
			Title:   item.reg.Title,
			Body:    item.reg.Body,
			Payload: item.reg.Payload,
			FiredAt: now,
		})
		item.nextFire = now.Add(item.reg.Interval)
		heap.Push(&e.queue, item)
	}
	return out
}

func resetTimer(timer *time.Timer, d time.Duration) *time.Timer {
	if timer == nil {
		return time.NewTimer(d)
	}
	stopTimer(timer)
	timer.Reset(d)
	return timer
}

func stopTimer(timer *time.Timer) {
	if timer == nil {
		return
	}
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
}

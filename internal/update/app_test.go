package update

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Gamfluent/Nag-Me/internal/alert"
	"github.com/Gamfluent/Nag-Me/internal/model"
	"github.com/Gamfluent/Nag-Me/internal/notify"
	"github.com/Gamfluent/Nag-Me/internal/storage"
	"github.com/Gamfluent/Nag-Me/internal/store"
)

type memStorage struct {
	records []storage.Task
}

func (m *memStorage) Load(context.Context) ([]storage.Task, error) { return m.records, nil }

func (m *memStorage) Save(_ context.Context, tasks []storage.Task) error {
	m.records = tasks
	return nil
}

type memNotifier struct {
	active map[string]notify.Registration
}

func newMemNotifier() *memNotifier {
	return &memNotifier{active: make(map[string]notify.Registration)}
}

func (m *memNotifier) Schedule(_ context.Context, reg notify.Registration) error {
	m.active[reg.TaskID] = reg
	return nil
}

func (m *memNotifier) Cancel(_ context.Context, taskID string) error {
	delete(m.active, taskID)
	return nil
}

func (m *memNotifier) CancelAll(context.Context) error {
	m.active = make(map[string]notify.Registration)
	return nil
}

func newTestModel(t *testing.T) (Model, *store.TaskStore, *memNotifier) {
	t.Helper()
	n := newMemNotifier()
	scheduler := notify.NewScheduler(n, notify.PermissionGranted, nil)
	seq := 0
	ts := store.NewTaskStore(&memStorage{}, scheduler, nil).WithIDFunc(func() string {
		seq++
		return fmt.Sprintf("task-%d", seq)
	})
	return NewModel(Options{Store: ts}), ts, n
}

func keyRunes(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestNewModelDefaults(t *testing.T) {
	m, _, _ := newTestModel(t)
	if m.CurrentView != ViewTasks {
		t.Fatalf("expected default view %q, got %q", ViewTasks, m.CurrentView)
	}
	if m.Keys.Quit != "q" || m.Keys.Add != "a" {
		t.Fatalf("unexpected default keys: %#v", m.Keys)
	}
}

func TestAddKeyOpensForm(t *testing.T) {
	m, _, _ := newTestModel(t)
	updated, _ := m.Update(keyRunes('a'))
	next := updated.(Model)
	if next.CurrentView != ViewForm || next.Form.EditingID != "" {
		t.Fatalf("expected empty add form, got view=%q editing=%q", next.CurrentView, next.Form.EditingID)
	}
}

func TestFormSubmitAddsTask(t *testing.T) {
	m, ts, n := newTestModel(t)
	m = m.openAddForm()
	m.titleInput.SetValue("Pay rent")
	m.descArea.SetValue("transfer before noon")
	m.dueInput.SetValue(time.Now().UTC().Add(10 * time.Hour).Format("2006-01-02 15:04"))
	m.priInput.SetValue("9")

	m = m.submitForm()
	if m.CurrentView != ViewTasks {
		t.Fatalf("expected to return to tasks view, got %q", m.CurrentView)
	}
	tasks := ts.Tasks()
	if len(tasks) != 1 || tasks[0].Title != "Pay rent" || tasks[0].Priority != 9 {
		t.Fatalf("unexpected store contents: %#v", tasks)
	}
	if _, ok := n.active[tasks[0].ID]; !ok {
		t.Fatalf("expected alert registration for new task")
	}
	if !strings.Contains(m.Status.Text, "added") {
		t.Fatalf("unexpected status: %q", m.Status.Text)
	}
}

func TestFormRejectsBlankTitle(t *testing.T) {
	m, ts, _ := newTestModel(t)
	m = m.openAddForm()
	m.titleInput.SetValue("   ")
	m = m.submitForm()
	if m.CurrentView != ViewForm || m.Form.Err == "" {
		t.Fatalf("expected form to stay open with an error, got view=%q err=%q", m.CurrentView, m.Form.Err)
	}
	if len(ts.Tasks()) != 0 {
		t.Fatalf("invalid form must not create a task")
	}
}

func TestToggleKeyCancelsAlert(t *testing.T) {
	m, ts, n := newTestModel(t)
	task, err := ts.Add(context.Background(), model.Draft{
		Title:    "Book dentist",
		DueAt:    time.Now().UTC().Add(2 * time.Hour),
		Priority: 8,
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, ok := n.active[task.ID]; !ok {
		t.Fatalf("precondition: task should have an alert")
	}

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{' '}})
	next := updated.(Model)
	got, _ := ts.Get(task.ID)
	if !got.Completed {
		t.Fatalf("space should toggle completion")
	}
	if _, ok := n.active[task.ID]; ok {
		t.Fatalf("completing must cancel the alert")
	}
	if !strings.Contains(next.Status.Text, "completed") {
		t.Fatalf("unexpected status: %q", next.Status.Text)
	}
}

func TestDeleteKeyRemovesTask(t *testing.T) {
	m, ts, n := newTestModel(t)
	task, err := ts.Add(context.Background(), model.Draft{
		Title:    "Water plants",
		DueAt:    time.Now().UTC().Add(time.Hour),
		Priority: 4,
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	_, _ = m.Update(keyRunes('x'))
	if _, ok := ts.Get(task.ID); ok {
		t.Fatalf("task should be deleted")
	}
	if _, ok := n.active[task.ID]; ok {
		t.Fatalf("registration should be cancelled")
	}
}

func TestAlertMsgAppendsLogAndRearms(t *testing.T) {
	m, _, _ := newTestModel(t)
	fired := alert.Alert{TaskID: "t1", Title: "Task Due: Pay rent", Payload: "t1", FiredAt: time.Now()}
	updated, _ := m.Update(AlertMsg{Alert: fired})
	next := updated.(Model)
	if len(next.AlertLog) != 1 || next.AlertLog[0].TaskID != "t1" {
		t.Fatalf("alert not logged: %#v", next.AlertLog)
	}
	if !strings.Contains(next.Status.Text, "Task Due: Pay rent") {
		t.Fatalf("unexpected status: %q", next.Status.Text)
	}
}

func TestOpenLastAlertRoutesToEditForm(t *testing.T) {
	m, ts, _ := newTestModel(t)
	task, err := ts.Add(context.Background(), model.Draft{
		Title:    "Pay rent",
		DueAt:    time.Now().UTC().Add(time.Hour),
		Priority: 7,
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	m.AlertLog = append(m.AlertLog, alert.Alert{TaskID: task.ID, Payload: task.ID})

	next := m.openLastAlert()
	if next.CurrentView != ViewForm || next.Form.EditingID != task.ID {
		t.Fatalf("expected edit form for %s, got view=%q editing=%q", task.ID, next.CurrentView, next.Form.EditingID)
	}
}

func TestOpenLastAlertIgnoresMalformedPayload(t *testing.T) {
	m, _, _ := newTestModel(t)
	m.AlertLog = append(m.AlertLog, alert.Alert{TaskID: "t1", Payload: "   "})
	next := m.openLastAlert()
	if next.CurrentView != ViewTasks {
		t.Fatalf("malformed payload must not navigate, got %q", next.CurrentView)
	}
}

func TestPaletteAddCommand(t *testing.T) {
	m, ts, _ := newTestModel(t)
	updated, _ := m.Update(keyRunes('/'))
	next := updated.(Model)
	if !next.Palette.Active {
		t.Fatalf("expected palette to open")
	}

	next.commandInput.SetValue("add Call the landlord")
	updated, _ = next.Update(tea.KeyMsg{Type: tea.KeyEnter})
	next = updated.(Model)
	if next.Palette.Active {
		t.Fatalf("palette should close after enter")
	}
	tasks := ts.Tasks()
	if len(tasks) != 1 || tasks[0].Title != "Call the landlord" {
		t.Fatalf("palette add did not create task: %#v", tasks)
	}
}

func TestPaletteRescheduleCommand(t *testing.T) {
	m, ts, n := newTestModel(t)
	for i := 0; i < 3; i++ {
		if _, err := ts.Add(context.Background(), model.Draft{
			Title:    fmt.Sprintf("task %d", i),
			DueAt:    time.Now().UTC().Add(time.Duration(i+1) * 24 * time.Hour),
			Priority: 6,
		}); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	next := m.runCommand("reschedule")
	if next.Status.IsError {
		t.Fatalf("reschedule failed: %q", next.Status.Text)
	}
	if len(n.active) != 3 {
		t.Fatalf("expected 3 registrations after resync, got %d", len(n.active))
	}
}

func TestPaletteTargetPrefixResolution(t *testing.T) {
	m, ts, _ := newTestModel(t)
	if _, err := ts.Add(context.Background(), model.Draft{
		Title:    "one",
		DueAt:    time.Now().UTC().Add(time.Hour),
		Priority: 5,
	}); err != nil {
		t.Fatalf("add: %v", err)
	}

	next := m.runCommand("done task-1")
	if next.Status.IsError {
		t.Fatalf("expected done to resolve by prefix, got %q", next.Status.Text)
	}
	got, _ := ts.Get("task-1")
	if !got.Completed {
		t.Fatalf("done command should complete the task")
	}

	next = m.runCommand("done zzz")
	if !next.Status.IsError {
		t.Fatalf("unknown prefix should surface an error")
	}
}

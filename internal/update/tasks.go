package update

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Gamfluent/Nag-Me/internal/model"
	"github.com/Gamfluent/Nag-Me/internal/notify"
	"github.com/Gamfluent/Nag-Me/internal/store"
	"github.com/Gamfluent/Nag-Me/internal/views"
)

func (m Model) tasks() []model.Task {
	if m.Store == nil {
		return nil
	}
	return m.Store.Tasks()
}

func (m Model) handleTasksKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	tasks := m.tasks()
	switch msg.String() {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(tasks)-1 {
			m.Cursor++
		}
	case "enter":
		if t, ok := m.currentTask(tasks); ok {
			return m.openEditForm(t), nil
		}
	case m.Keys.Toggle:
		if t, ok := m.currentTask(tasks); ok {
			toggled, err := m.Store.ToggleComplete(context.Background(), t.ID)
			if err != nil {
				m.Status = StatusBar{Text: err.Error(), IsError: true}
				break
			}
			if toggled.Completed {
				m.Status = StatusBar{Text: fmt.Sprintf("completed %q, alert cancelled", toggled.Title)}
			} else {
				m.Status = StatusBar{Text: fmt.Sprintf("reopened %q, alert rescheduled", toggled.Title)}
			}
		}
	case m.Keys.Delete:
		if t, ok := m.currentTask(tasks); ok {
			if err := m.Store.Delete(context.Background(), t.ID); err != nil {
				m.Status = StatusBar{Text: err.Error(), IsError: true}
				break
			}
			m.Status = StatusBar{Text: fmt.Sprintf("deleted %q", t.Title)}
			if m.Cursor > 0 {
				m.Cursor--
			}
		}
	case m.Keys.Open:
		return m.openLastAlert(), nil
	}
	m.syncSelection()
	return m, nil
}

// openLastAlert routes the most recent alert's payload to the edit view,
// the tap-on-notification path.
func (m Model) openLastAlert() Model {
	if len(m.AlertLog) == 0 {
		m.Status = StatusBar{Text: "no alerts yet"}
		return m
	}
	last := m.AlertLog[len(m.AlertLog)-1]
	m.router.HandleResponse(last.Payload)
	taskID := m.nav.take()
	if taskID == "" {
		return m
	}
	task, ok := m.Store.Get(taskID)
	if !ok {
		// Task deleted after the alert fired; nothing to open.
		return m
	}
	return m.openEditForm(task)
}

func (m *Model) syncSelection() {
	tasks := m.tasks()
	if len(tasks) == 0 {
		m.Cursor = 0
		m.SelectedTaskID = ""
		return
	}
	if m.Cursor >= len(tasks) {
		m.Cursor = len(tasks) - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
	m.SelectedTaskID = tasks[m.Cursor].ID
}

func (m Model) currentTask(tasks []model.Task) (model.Task, bool) {
	if len(tasks) == 0 || m.Cursor < 0 || m.Cursor >= len(tasks) {
		return model.Task{}, false
	}
	return tasks[m.Cursor], true
}

func (m Model) renderTasksView() string {
	tasks := m.tasks()
	now := time.Now().UTC()
	rows := make([]views.TaskRowData, 0, len(tasks))
	for _, t := range tasks {
		row := views.TaskRowData{
			ID:        t.ID,
			Title:     t.Title,
			DueIn:     formatDueIn(t.DueAt.Sub(now)),
			Priority:  t.Priority,
			Completed: t.Completed,
		}
		if notify.Eligible(t, now) {
			row.Interval = formatInterval(notify.Interval(t.Priority, t.DueAt, now))
		}
		rows = append(rows, row)
	}
	selected := m.SelectedTaskID
	if selected == "" && len(tasks) > 0 && m.Cursor < len(tasks) {
		selected = tasks[m.Cursor].ID
	}
	return views.RenderTasksPanel(views.TasksPanelData{
		Rows:       rows,
		SelectedID: selected,
		Empty:      "nothing to nag about, press 'a' to add a task",
	})
}

func statusForStoreError(err error) StatusBar {
	if errors.Is(err, store.ErrTaskNotFound) {
		return StatusBar{Text: "task not found", IsError: true}
	}
	return StatusBar{Text: err.Error(), IsError: true}
}

func formatDueIn(d time.Duration) string {
	if d < 0 {
		return "overdue"
	}
	if d < time.Hour {
		return fmt.Sprintf("in %dm", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		return fmt.Sprintf("in %dh%02dm", int(d.Hours()), int(d.Minutes())%60)
	}
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	return fmt.Sprintf("in %dd%dh", days, hours)
}

func formatInterval(d time.Duration) string {
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	if d%time.Hour == 0 {
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
	return fmt.Sprintf("%dh%02dm", int(d.Hours()), int(d.Minutes())%60)
}

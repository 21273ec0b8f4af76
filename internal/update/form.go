package update

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Gamfluent/Nag-Me/internal/model"
	"github.com/Gamfluent/Nag-Me/internal/notify"
	"github.com/Gamfluent/Nag-Me/internal/views"
)

const (
	fieldTitle = iota
	fieldDescription
	fieldDue
	fieldPriority
	fieldCount
)

var dueLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
}

func (m Model) openAddForm() Model {
	m.CurrentView = ViewForm
	m.Form = FormState{EditingID: "", Focus: fieldTitle}
	m.titleInput.SetValue("")
	m.descArea.SetValue("")
	m.dueInput.SetValue("")
	m.priInput.SetValue("5")
	m.focusFormField(fieldTitle)
	return m
}

func (m Model) openEditForm(t model.Task) Model {
	m.CurrentView = ViewForm
	m.Form = FormState{EditingID: t.ID, Focus: fieldTitle}
	m.titleInput.SetValue(t.Title)
	m.descArea.SetValue(t.Description)
	m.dueInput.SetValue(t.DueAt.UTC().Format("2006-01-02 15:04"))
	m.priInput.SetValue(strconv.Itoa(t.Priority))
	m.focusFormField(fieldTitle)
	m.SelectedTaskID = t.ID
	return m
}

func (m *Model) focusFormField(field int) {
	m.titleInput.Blur()
	m.descArea.Blur()
	m.dueInput.Blur()
	m.priInput.Blur()
	switch field {
	case fieldTitle:
		m.titleInput.Focus()
	case fieldDescription:
		m.descArea.Focus()
	case fieldDue:
		m.dueInput.Focus()
	case fieldPriority:
		m.priInput.Focus()
	}
	m.Form.Focus = field
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.CurrentView = ViewTasks
		m.Form = FormState{}
		m.Status = StatusBar{Text: "edit cancelled"}
		return m, nil
	case "tab", "down":
		if m.Form.Focus == fieldDescription && msg.String() == "down" {
			break
		}
		m.focusFormField((m.Form.Focus + 1) % fieldCount)
		return m, nil
	case "shift+tab", "up":
		if m.Form.Focus == fieldDescription && msg.String() == "up" {
			break
		}
		m.focusFormField((m.Form.Focus + fieldCount - 1) % fieldCount)
		return m, nil
	case "enter":
		if m.Form.Focus != fieldDescription {
			return m.submitForm(), nil
		}
	}

	var cmd tea.Cmd
	switch m.Form.Focus {
	case fieldTitle:
		m.titleInput, cmd = m.titleInput.Update(msg)
	case fieldDescription:
		m.descArea, cmd = m.descArea.Update(msg)
	case fieldDue:
		m.dueInput, cmd = m.dueInput.Update(msg)
	case fieldPriority:
		m.priInput, cmd = m.priInput.Update(msg)
	}
	return m, cmd
}

func (m Model) submitForm() Model {
	title := strings.TrimSpace(m.titleInput.Value())
	if title == "" {
		m.Form.Err = "title is required"
		return m
	}
	dueAt, err := parseDue(m.dueInput.Value())
	if err != nil {
		m.Form.Err = err.Error()
		return m
	}
	priority, err := parsePriority(m.priInput.Value())
	if err != nil {
		m.Form.Err = err.Error()
		return m
	}
	description := strings.TrimSpace(m.descArea.Value())

	ctx := context.Background()
	if m.Form.EditingID == "" {
		task, addErr := m.Store.Add(ctx, model.Draft{
			Title:       title,
			Description: description,
			DueAt:       dueAt,
			Priority:    priority,
		})
		if addErr != nil {
			m.Form.Err = addErr.Error()
			return m
		}
		now := time.Now().UTC()
		if notify.Eligible(task, now) {
			m.Status = StatusBar{Text: fmt.Sprintf("added %q, nagging every %s", task.Title, formatInterval(notify.Interval(task.Priority, task.DueAt, now)))}
		} else {
			m.Status = StatusBar{Text: fmt.Sprintf("added %q (already overdue, no alerts)", task.Title)}
		}
		m.SelectedTaskID = task.ID
	} else {
		patch := model.Patch{
			Title:       &title,
			Description: &description,
			DueAt:       &dueAt,
			Priority:    &priority,
		}
		task, updErr := m.Store.Update(ctx, m.Form.EditingID, patch)
		if updErr != nil {
			m.Status = statusForStoreError(updErr)
			m.CurrentView = ViewTasks
			m.Form = FormState{}
			return m
		}
		m.Status = StatusBar{Text: fmt.Sprintf("updated %q", task.Title)}
	}

	m.CurrentView = ViewTasks
	m.Form = FormState{}
	m.syncSelection()
	return m
}

func (m Model) renderFormView() string {
	heading := "add task"
	if m.Form.EditingID != "" {
		heading = fmt.Sprintf("edit task %s", shortID(m.Form.EditingID))
	}
	return views.RenderFormPanel(views.FormPanelData{
		Title: heading,
		Fields: []views.FormFieldData{
			{Label: "title", View: m.titleInput.View()},
			{Label: "description", View: m.descArea.View()},
			{Label: "due", View: m.dueInput.View()},
			{Label: "priority", View: m.priInput.View(), Error: m.Form.Err},
		},
		Footer: "[tab]next field [enter]save [esc]cancel",
	})
}

func parseDue(raw string) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("due date is required")
	}
	for _, layout := range dueLayouts {
		if t, err := time.ParseInLocation(layout, trimmed, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized due date %q", trimmed)
}

func parsePriority(raw string) (int, error) {
	p, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("priority must be a number between %d and %d", model.MinPriority, model.MaxPriority)
	}
	return model.ClampPriority(p), nil
}

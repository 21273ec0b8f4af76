package update

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Gamfluent/Nag-Me/internal/alert"
	"github.com/Gamfluent/Nag-Me/internal/views"
)

type AlertMsg struct {
	Alert alert.Alert
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type AppErrorMsg struct {
	Err error
}

type ResyncTickMsg struct {
	At time.Time
}

func waitForAlertCmd(ch <-chan alert.Alert) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		a, ok := <-ch
		if !ok {
			return nil
		}
		return AlertMsg{Alert: a}
	}
}

func resyncTickCmd(every time.Duration) tea.Cmd {
	if every <= 0 {
		return nil
	}
	return tea.Tick(every, func(t time.Time) tea.Msg { return ResyncTickMsg{At: t} })
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForAlertCmd(m.AlertCh), resyncTickCmd(m.ResyncEvery))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if m.Palette.Active {
			return m.handlePaletteKey(typed)
		}
		if m.CurrentView == ViewForm {
			return m.handleFormKey(typed)
		}

		switch typed.String() {
		case m.Keys.Palette:
			m.Palette.Active = true
			m.commandInput.Focus()
			m.commandInput.SetValue("")
			m.Status = StatusBar{Text: "command palette active"}
			return m, nil
		case m.Keys.Help:
			m.HelpVisible = !m.HelpVisible
			return m, nil
		case m.Keys.Add:
			return m.openAddForm(), nil
		case "ctrl+c", m.Keys.Quit:
			m.Quitting = true
			return m, tea.Quit
		}
		return m.handleTasksKey(typed)

	case AlertMsg:
		m = m.applyAlert(typed.Alert)
		return m, waitForAlertCmd(m.AlertCh)

	case ResyncTickMsg:
		if m.Store != nil {
			if err := m.Store.RescheduleAll(context.Background()); err != nil {
				m.Status = StatusBar{Text: fmt.Sprintf("bulk resync failed: %v", err), IsError: true}
			} else {
				m.Status = StatusBar{Text: "alerts resynced"}
			}
		}
		return m, resyncTickCmd(m.ResyncEvery)

	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil

	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
		}
		return m, nil
	}

	return m, nil
}

func (m Model) View() string {
	m = m.surfaceSideEffects()

	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}

	leftPane := ""
	switch m.CurrentView {
	case ViewTasks:
		leftPane = m.renderTasksView()
	case ViewForm:
		leftPane = m.renderFormView()
	}
	rightPane := views.RenderCommandPalette(m.Palette.Active, m.commandInput.View())
	if m.HelpVisible {
		if rightPane != "" {
			rightPane += "\n"
		}
		rightPane += m.renderHelpView()
	}

	return views.RenderApp(views.AppData{
		Header:     fmt.Sprintf("nagme | tasks: %d | selected: %s", len(m.tasks()), shortID(m.SelectedTaskID)),
		LeftPane:   leftPane,
		RightPane:  rightPane,
		StatusLine: status,
		AlertFeed:  m.renderAlertFeed(),
		Footer: fmt.Sprintf("keys: %s add | space toggle | %s delete | %s open alert | %s cmd | %s help | %s quit",
			m.Keys.Add, m.Keys.Delete, m.Keys.Open, m.Keys.Palette, m.Keys.Help, m.Keys.Quit),
	})
}

// surfaceSideEffects promotes the latest post-commit failure into the status
// bar. Reports arrive synchronously during mutations, so this runs at render
// time rather than through a message.
func (m Model) surfaceSideEffects() Model {
	if m.sideEffects == nil {
		return m
	}
	if msg, ok := m.sideEffects.take(); ok {
		m.Status = StatusBar{Text: msg, IsError: true}
	}
	return m
}

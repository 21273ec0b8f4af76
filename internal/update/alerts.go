package update

import (
	"fmt"

	"github.com/Gamfluent/Nag-Me/internal/alert"
	"github.com/Gamfluent/Nag-Me/internal/views"
)

const alertLogLimit = 20

func (m Model) applyAlert(a alert.Alert) Model {
	m.AlertLog = append(m.AlertLog, a)
	if len(m.AlertLog) > alertLogLimit {
		m.AlertLog = m.AlertLog[len(m.AlertLog)-alertLogLimit:]
	}
	m.Status = StatusBar{Text: fmt.Sprintf("%s (press '%s' to open)", a.Title, m.Keys.Open)}
	if m.DesktopEnabled && m.notifier != nil {
		if err := m.notifier.Send(a.Title, a.Body); err != nil {
			m.Status = StatusBar{Text: fmt.Sprintf("desktop notification failed: %v", err), IsError: true}
		}
	}
	return m
}

func (m Model) renderAlertFeed() string {
	entries := make([]views.AlertEntryData, 0, len(m.AlertLog))
	start := 0
	if len(m.AlertLog) > 5 {
		start = len(m.AlertLog) - 5
	}
	for _, a := range m.AlertLog[start:] {
		entries = append(entries, views.AlertEntryData{
			Title:   a.Title,
			Body:    a.Body,
			FiredAt: a.FiredAt.Format("15:04:05"),
		})
	}
	return views.RenderAlertFeed(entries)
}

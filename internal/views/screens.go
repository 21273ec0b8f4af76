package views

import (
	"fmt"
	"strings"
)

type TaskRowData struct {
	ID        string
	Title     string
	DueIn     string
	Priority  int
	Completed bool
	Interval  string
}

type TasksPanelData struct {
	Rows       []TaskRowData
	SelectedID string
	Empty      string
}

func RenderTasksPanel(data TasksPanelData) string {
	var b strings.Builder
	b.WriteString("tasks:\n")
	b.WriteString("actions: [j/k]move [a]add [enter]edit [space]toggle [x]delete [o]open alert\n")
	if len(data.Rows) == 0 {
		b.WriteString(data.Empty)
		return strings.TrimSpace(b.String())
	}
	for _, row := range data.Rows {
		marker := "  "
		if row.ID == data.SelectedID {
			marker = "> "
		}
		check := "[ ]"
		if row.Completed {
			check = "[x]"
		}
		line := fmt.Sprintf("%s%s p%-2d %-30s due %s", marker, check, row.Priority, truncate(row.Title, 30), row.DueIn)
		if row.Interval != "" {
			line += fmt.Sprintf("  nags every %s", row.Interval)
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimSpace(b.String())
}

type FormFieldData struct {
	Label string
	View  string
	Error string
}

type FormPanelData struct {
	Title  string
	Fields []FormFieldData
	Footer string
}

func RenderFormPanel(data FormPanelData) string {
	var b strings.Builder
	b.WriteString(data.Title + "\n")
	for _, f := range data.Fields {
		b.WriteString(fmt.Sprintf("%s: %s\n", f.Label, f.View))
		if f.Error != "" {
			b.WriteString("  ! " + f.Error + "\n")
		}
	}
	if data.Footer != "" {
		b.WriteString(data.Footer)
	}
	return strings.TrimSpace(b.String())
}

type AlertEntryData struct {
	Title   string
	Body    string
	FiredAt string
}

func RenderAlertFeed(entries []AlertEntryData) string {
	if len(entries) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("alerts:\n")
	for _, e := range entries {
		b.WriteString(fmt.Sprintf("  %s  %s: %s\n", e.FiredAt, e.Title, truncate(e.Body, 40)))
	}
	return strings.TrimSpace(b.String())
}

func RenderCommandPalette(active bool, inputView string) string {
	if !active {
		return ""
	}
	return "command: " + inputView + "\n(add <title> | done <id> | delete <id> | due <id> <when> | pri <id> <1-10> | reschedule)"
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

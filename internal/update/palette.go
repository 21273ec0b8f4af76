package update

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Gamfluent/Nag-Me/internal/commands"
	"github.com/Gamfluent/Nag-Me/internal/model"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Palette.Active = false
		m.commandInput.Blur()
		m.Status = StatusBar{Text: "command palette closed"}
		return m, nil
	case "enter":
		input := m.commandInput.Value()
		m.Palette.Active = false
		m.commandInput.Blur()
		return m.runCommand(input), nil
	}
	var cmd tea.Cmd
	m.commandInput, cmd = m.commandInput.Update(msg)
	return m, cmd
}

func (m Model) runCommand(input string) Model {
	cmd, err := commands.Parse(input)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m
	}
	res, err := commands.Execute(cmd, m.commandHandlers())
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m
	}
	m.Status = StatusBar{Text: res.Message}
	m.syncSelection()
	return m
}

func (m Model) commandHandlers() commands.Handlers {
	ctx := context.Background()
	return commands.Handlers{
		Add: func(args commands.AddArgs) (commands.Result, error) {
			// Palette adds default to tomorrow, medium priority; the form is
			// the place for precise input.
			task, err := m.Store.Add(ctx, model.Draft{
				Title:    args.Title,
				DueAt:    tomorrowNoon(),
				Priority: 5,
			})
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("added %q due %s", task.Title, task.DueAt.Format("Jan 2 15:04"))}, nil
		},
		Done: func(args commands.TargetArgs) (commands.Result, error) {
			task, err := m.resolveTarget(args.Target)
			if err != nil {
				return commands.Result{}, err
			}
			toggled, err := m.Store.ToggleComplete(ctx, task.ID)
			if err != nil {
				return commands.Result{}, err
			}
			verb := "reopened"
			if toggled.Completed {
				verb = "completed"
			}
			return commands.Result{Message: fmt.Sprintf("%s %q", verb, toggled.Title)}, nil
		},
		Delete: func(args commands.TargetArgs) (commands.Result, error) {
			task, err := m.resolveTarget(args.Target)
			if err != nil {
				return commands.Result{}, err
			}
			if err := m.Store.Delete(ctx, task.ID); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("deleted %q", task.Title)}, nil
		},
		Due: func(args commands.DueArgs) (commands.Result, error) {
			task, err := m.resolveTarget(args.Target)
			if err != nil {
				return commands.Result{}, err
			}
			dueAt, err := parseDue(args.When)
			if err != nil {
				return commands.Result{}, err
			}
			updated, err := m.Store.Update(ctx, task.ID, model.Patch{DueAt: &dueAt})
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("%q now due %s", updated.Title, updated.DueAt.Format("Jan 2 15:04"))}, nil
		},
		Priority: func(args commands.PriorityArgs) (commands.Result, error) {
			task, err := m.resolveTarget(args.Target)
			if err != nil {
				return commands.Result{}, err
			}
			p := model.ClampPriority(args.Priority)
			updated, err := m.Store.Update(ctx, task.ID, model.Patch{Priority: &p})
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("%q priority set to %d", updated.Title, updated.Priority)}, nil
		},
		Reschedule: func() (commands.Result, error) {
			if err := m.Store.RescheduleAll(ctx); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: "all alerts resynced"}, nil
		},
	}
}

// resolveTarget matches a task by id prefix so palette commands can use the
// short ids shown in the header.
func (m Model) resolveTarget(target string) (model.Task, error) {
	target = strings.ToLower(strings.TrimSpace(target))
	if target == "" {
		return model.Task{}, fmt.Errorf("empty task id")
	}
	var match *model.Task
	for _, t := range m.tasks() {
		if strings.HasPrefix(strings.ToLower(t.ID), target) {
			if match != nil {
				return model.Task{}, fmt.Errorf("ambiguous task id %q", target)
			}
			found := t
			match = &found
		}
	}
	if match == nil {
		return model.Task{}, fmt.Errorf("no task matches id %q", target)
	}
	return *match, nil
}

func tomorrowNoon() time.Time {
	tomorrow := time.Now().UTC().AddDate(0, 0, 1)
	return time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), 12, 0, 0, 0, time.UTC)
}

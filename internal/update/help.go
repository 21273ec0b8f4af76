package update

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/Gamfluent/Nag-Me/internal/views"
)

const helpMarkdown = `# nagme

Tasks nag you with recurring alerts. The closer the due date and the higher
the priority, the more often you get nagged:

| until due | high (8-10) | medium (5-7) | low (1-4) |
|---|---|---|---|
| within a day | 30m | 1h | 2h |
| within 3 days | 2h | 4h | 6h |
| further out | 12h | daily | 2 days |

Completing, deleting, or letting a task go overdue silences it.
`

type helpKeyMap struct {
	bindings []key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.bindings }
func (k helpKeyMap) FullHelp() [][]key.Binding { return [][]key.Binding{k.bindings} }

func (m Model) renderHelpView() string {
	bindings := []key.Binding{
		key.NewBinding(key.WithKeys(m.Keys.Add), key.WithHelp(m.Keys.Add, "add task")),
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "edit task")),
		key.NewBinding(key.WithKeys(m.Keys.Toggle), key.WithHelp("space", "toggle complete")),
		key.NewBinding(key.WithKeys(m.Keys.Delete), key.WithHelp(m.Keys.Delete, "delete task")),
		key.NewBinding(key.WithKeys(m.Keys.Open), key.WithHelp(m.Keys.Open, "open last alert")),
		key.NewBinding(key.WithKeys(m.Keys.Palette), key.WithHelp(m.Keys.Palette, "command palette")),
		key.NewBinding(key.WithKeys(m.Keys.Quit), key.WithHelp(m.Keys.Quit, "quit")),
	}
	return views.RenderMarkdown(helpMarkdown) + "\n" + m.helpModel.View(helpKeyMap{bindings: bindings})
}

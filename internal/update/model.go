package update

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/Gamfluent/Nag-Me/internal/alert"
	"github.com/Gamfluent/Nag-Me/internal/notify"
	"github.com/Gamfluent/Nag-Me/internal/store"
)

type View string

const (
	ViewTasks View = "Tasks"
	ViewForm  View = "Form"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Add     string
	Toggle  string
	Delete  string
	Open    string
	Help    string
	Quit    string
	Palette string
}

// navTarget holds the destination of a routed alert tap. It lives behind a
// pointer so the router callback survives bubbletea's value-copied model.
type navTarget struct {
	id string
}

func (n *navTarget) take() string {
	id := n.id
	n.id = ""
	return id
}

// sideEffectFeed collects post-commit failure reports from the task store so
// the next render can surface them in the status bar.
type sideEffectFeed struct {
	messages []string
}

func (f *sideEffectFeed) push(taskID string, err error) {
	f.messages = append(f.messages, fmt.Sprintf("background error for task %s: %v", shortID(taskID), err))
}

func (f *sideEffectFeed) take() (string, bool) {
	if len(f.messages) == 0 {
		return "", false
	}
	msg := f.messages[len(f.messages)-1]
	f.messages = f.messages[:0]
	return msg, true
}

type FormState struct {
	EditingID string
	Focus     int
	Err       string
}

type PaletteState struct {
	Active bool
}

type Model struct {
	CurrentView    View
	Store          *store.TaskStore
	AlertCh        <-chan alert.Alert
	Cursor         int
	SelectedTaskID string
	Form           FormState
	Palette        PaletteState
	AlertLog       []alert.Alert
	Status         StatusBar
	Keys           GlobalKeyMap
	HelpVisible    bool
	DesktopEnabled bool
	ResyncEvery    time.Duration
	Quitting       bool
	LastError      error

	notifier    DesktopNotifier
	router      *notify.Router
	nav         *navTarget
	sideEffects *sideEffectFeed

	titleInput   textinput.Model
	dueInput     textinput.Model
	priInput     textinput.Model
	descArea     textarea.Model
	commandInput textinput.Model
	helpModel    help.Model
}

type Options struct {
	Store          *store.TaskStore
	Alerts         <-chan alert.Alert
	DesktopEnabled bool
	Notifier       DesktopNotifier
	ResyncEvery    time.Duration
}

func NewModel(opts Options) Model {
	title := textinput.New()
	title.Placeholder = "title"
	title.CharLimit = 120

	due := textinput.New()
	due.Placeholder = "due (2006-01-02 15:04)"
	due.CharLimit = 32

	pri := textinput.New()
	pri.Placeholder = "priority 1-10"
	pri.CharLimit = 2

	desc := textarea.New()
	desc.Placeholder = "description (optional)"
	desc.SetHeight(3)

	command := textinput.New()
	command.Placeholder = "add <title> | done <id> | reschedule ..."

	notifier := opts.Notifier
	if notifier == nil {
		notifier = NoopDesktopNotifier{}
	}

	nav := &navTarget{}
	m := Model{
		CurrentView: ViewTasks,
		Store:       opts.Store,
		AlertCh:     opts.Alerts,
		Keys: GlobalKeyMap{
			Add:     "a",
			Toggle:  " ",
			Delete:  "x",
			Open:    "o",
			Help:    "?",
			Quit:    "q",
			Palette: "/",
		},
		DesktopEnabled: opts.DesktopEnabled,
		ResyncEvery:    opts.ResyncEvery,
		notifier:       notifier,
		nav:            nav,
		sideEffects:    &sideEffectFeed{},
		titleInput:     title,
		dueInput:       due,
		priInput:       pri,
		descArea:       desc,
		commandInput:   command,
		helpModel:      help.New(),
	}
	m.router = notify.NewRouter(func(taskID string) { nav.id = taskID })
	if opts.Store != nil {
		opts.Store.OnSideEffectError(m.sideEffects.push)
	}
	return m
}

type DesktopNotifier interface {
	Send(title, body string) error
}

type NoopDesktopNotifier struct{}

func (NoopDesktopNotifier) Send(string, string) error { return nil }

type ExecDesktopNotifier struct{}

func (ExecDesktopNotifier) Send(title, body string) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("notify-send", title, body).Run()
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(body), escapeAppleScript(title))
		return exec.Command("osascript", "-e", script).Run()
	default:
		return nil
	}
}

func escapeAppleScript(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

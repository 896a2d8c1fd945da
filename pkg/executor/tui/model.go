package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/entrhq/pagetour/pkg/executor/driver"
	"github.com/entrhq/pagetour/pkg/types"
)

// model represents the state of the tour console.
type model struct {
	// Bubble Tea components
	keys      keyMap
	help      help.Model
	progress  progress.Model
	source    viewport.Model
	gotoInput textinput.Model

	// Tour integration. dispatch returns a command that runs the tour
	// command on the loop and reports a commandResultMsg.
	events   <-chan driver.Update
	dispatch func(cmd *types.Command) tea.Cmd
	copyText func(text string) error

	// Customization
	tourName    string
	url         string
	sourceStyle string

	// Tour state
	state    driver.Snapshot
	finished bool
	outcome  types.TourEventType

	// UI state
	gotoMode   bool
	showSource bool
	toast      *toastNotification

	// Window dimensions
	width  int
	height int
	ready  bool
}

// Console settings taken from the user preferences.
type Settings struct {
	SourceStyle string
	ShowSource  bool
	ShowHelp    bool
}

// commandResultMsg reports the outcome of a dispatched tour command.
type commandResultMsg struct {
	command types.CommandType
	err     error
}

// toastMsg triggers a toast notification
type toastMsg struct {
	message string
	isError bool
}

// toastNotification represents a temporary notification message
type toastNotification struct {
	message   string
	isError   bool
	showUntil time.Time
}

const toastDuration = 3 * time.Second

func newModel(events <-chan driver.Update, dispatch func(*types.Command) tea.Cmd, settings Settings) *model {
	input := textinput.New()
	input.Placeholder = "3 or #12"
	input.Prompt = "go to step: "
	input.CharLimit = 6

	h := help.New()
	h.ShowAll = settings.ShowHelp

	return &model{
		keys:        defaultKeyMap(),
		help:        h,
		progress:    progress.New(progress.WithSolidFill(string(salmonPink)), progress.WithoutPercentage()),
		source:      viewport.New(80, 10),
		gotoInput:   input,
		events:      events,
		dispatch:    dispatch,
		copyText:    writeClipboard,
		sourceStyle: settings.SourceStyle,
		showSource:  settings.ShowSource,
	}
}

// waitForEvent reads the next tour event. It returns nil once the channel
// is closed.
func waitForEvent(events <-chan driver.Update) tea.Cmd {
	return func() tea.Msg {
		u, ok := <-events
		if !ok {
			return nil
		}
		return u
	}
}

// Init implements tea.Model.
func (m *model) Init() tea.Cmd {
	return waitForEvent(m.events)
}

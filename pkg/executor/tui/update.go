package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/entrhq/pagetour/pkg/executor/driver"
	"github.com/entrhq/pagetour/pkg/types"
)

// Update handles all state updates for the console.
// Uses pointer receiver so the component updates persist.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.handleWindowResize(msg)
		return m, nil

	case driver.Update:
		return m.handleTourEvent(msg)

	case commandResultMsg:
		if msg.err != nil {
			tuiDebugLog.Warnf("Command %s failed: %v", msg.command, msg.err)
			m.showToast(fmt.Sprintf("%s: %v", msg.command, msg.err), true)
		}
		return m, nil

	case toastMsg:
		m.showToast(msg.message, msg.isError)
		return m, nil

	case tea.KeyMsg:
		if m.gotoMode {
			return m.handleGoToKey(msg)
		}
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	if m.showSource {
		m.source, cmd = m.source.Update(msg)
	}
	return m, cmd
}

func (m *model) handleWindowResize(msg tea.WindowSizeMsg) {
	m.width = msg.Width
	m.height = msg.Height
	m.ready = true

	m.help.Width = msg.Width
	m.progress.Width = max(msg.Width-8, 10)
	m.source.Width = max(msg.Width-4, 20)
	m.source.Height = max(msg.Height/3, 5)
	m.refreshSource()
}

func (m *model) handleTourEvent(u driver.Update) (tea.Model, tea.Cmd) {
	m.state = u.State
	m.refreshSource()

	switch u.Event.Type {
	case types.EventTypeError:
		if u.Event.Error != nil {
			m.showToast(u.Event.Error.Error(), true)
		}
	case types.EventTypeBlocked:
		m.showToast("Already at the first step", false)
	case types.EventTypeCompleted, types.EventTypeExited:
		// completed is followed by exited; keep the first outcome
		if !m.finished {
			m.outcome = u.Event.Type
		}
		m.finished = true
		if u.Event.Type == types.EventTypeExited {
			return m, tea.Quit
		}
	}
	return m, waitForEvent(m.events)
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Exit):
		if m.finished || !m.state.Active {
			return m, tea.Quit
		}
		return m, m.dispatch(types.NewCommand(types.CommandExit))

	case key.Matches(msg, m.keys.Next):
		return m, m.dispatch(types.NewCommand(types.CommandNext))

	case key.Matches(msg, m.keys.Previous):
		return m, m.dispatch(types.NewCommand(types.CommandPrevious))

	case key.Matches(msg, m.keys.Refresh):
		return m, m.dispatch(types.NewCommand(types.CommandRefresh))

	case key.Matches(msg, m.keys.GoTo):
		m.gotoMode = true
		m.gotoInput.Reset()
		return m, m.gotoInput.Focus()

	case key.Matches(msg, m.keys.Copy):
		return m, m.copySelector()

	case key.Matches(msg, m.keys.Source):
		m.showSource = !m.showSource
		m.refreshSource()
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	if m.showSource {
		var cmd tea.Cmd
		m.source, cmd = m.source.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *model) handleGoToKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.gotoMode = false
		m.gotoInput.Blur()
		return m, nil
	case tea.KeyEnter:
		m.gotoMode = false
		m.gotoInput.Blur()
		cmd, err := driver.ParseGoTo(m.gotoInput.Value())
		if err != nil {
			m.showToast(err.Error(), true)
			return m, nil
		}
		return m, m.dispatch(cmd)
	}

	var cmd tea.Cmd
	m.gotoInput, cmd = m.gotoInput.Update(msg)
	return m, cmd
}

func (m *model) copySelector() tea.Cmd {
	selector := m.state.Selector
	if selector == "" {
		return func() tea.Msg {
			return toastMsg{message: "Nothing to copy", isError: true}
		}
	}
	copyText := m.copyText
	return func() tea.Msg {
		if err := copyText(selector); err != nil {
			return toastMsg{message: fmt.Sprintf("Copy failed: %v", err), isError: true}
		}
		return toastMsg{message: fmt.Sprintf("Copied %s", selector)}
	}
}

func (m *model) refreshSource() {
	if !m.showSource {
		return
	}
	content, err := highlightSource(m.state.IntroHTML, m.sourceStyle)
	if err != nil {
		tuiDebugLog.Warnf("Failed to highlight intro source: %v", err)
		content = m.state.IntroHTML
	}
	m.source.SetContent(content)
	m.source.GotoTop()
}

func (m *model) showToast(message string, isError bool) {
	m.toast = &toastNotification{
		message:   message,
		isError:   isError,
		showUntil: time.Now().Add(toastDuration),
	}
}

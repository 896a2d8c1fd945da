package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/entrhq/pagetour/pkg/executor/driver"
	"github.com/entrhq/pagetour/pkg/types"
)

// View renders the entire console.
// This is called by Bubble Tea whenever the UI needs to be redrawn.
func (m *model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	sections := []string{
		m.buildHeader(),
		m.buildTopStatus(),
		"",
		m.buildStepStatus(),
		m.buildProgress(),
		"",
		m.buildIntro(),
	}
	if m.showSource {
		sections = append(sections, "", m.buildSource())
	}
	if m.gotoMode {
		sections = append(sections, "", inputBoxStyle.Width(max(m.width-4, 20)).Render(m.gotoInput.View()))
	}
	if toast := m.renderToast(); toast != "" {
		sections = append(sections, toast)
	}
	sections = append(sections, "", m.help.View(m.keys))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// buildHeader renders the tour name
func (m *model) buildHeader() string {
	name := m.tourName
	if name == "" {
		name = "tour"
	}
	return headerStyle.Render("◆ pagetour · " + name)
}

// buildTopStatus renders the page the tour runs on
func (m *model) buildTopStatus() string {
	if m.url == "" {
		return ""
	}
	return statusBarStyle.Render(" Page: " + m.url)
}

// buildStepStatus renders the step counter and where the tooltip landed
func (m *model) buildStepStatus() string {
	if m.finished || !m.state.Active {
		return finishedStyle.Render(m.outcomeText())
	}

	line := stepStyle.Render(fmt.Sprintf("Step %d of %d", m.state.Index+1, m.state.Count))
	if m.state.Number != m.state.Index+1 {
		line += mutedStyle.Render(fmt.Sprintf("  (#%d)", m.state.Number))
	}
	if m.state.Side != "" {
		line += mutedStyle.Render("  " + formatPlacement(m.state.Side, m.state.Arrow))
	}

	selector := m.state.Selector
	if selector == "" {
		selector = "floating"
	}
	return line + "\n" + selectorStyle.Render(selector)
}

func (m *model) outcomeText() string {
	switch m.outcome {
	case types.EventTypeCompleted:
		return "✓ Tour completed"
	case types.EventTypeExited:
		return "Tour exited"
	}
	return "Waiting for the tour to start..."
}

func (m *model) buildProgress() string {
	if !m.state.Active {
		return ""
	}
	return "  " + m.progress.ViewAs(m.state.Progress/100)
}

// buildIntro renders the intro text as plain wrapped text
func (m *model) buildIntro() string {
	text := driver.PlainText(m.state.IntroHTML)
	if text == "" {
		return ""
	}
	return introStyle.Width(max(m.width-4, 20)).Render(text)
}

func (m *model) buildSource() string {
	title := OverlayTitleStyle.Render("Intro source")
	return sourceBoxStyle.Width(max(m.width-4, 20)).Render(title + "\n" + m.source.View())
}

// renderToast renders a toast notification
func (m *model) renderToast() string {
	if m.toast == nil || time.Now().After(m.toast.showUntil) {
		return ""
	}

	borderColor := mintGreen
	icon := "✓"
	if m.toast.isError {
		borderColor = lipgloss.Color("203") // Red color for errors
		icon = "✗"
	}

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Width(max(m.width-4, 20))

	return boxStyle.Render(fmt.Sprintf("%s %s", icon, m.toast.message))
}

// formatPlacement describes a resolved tooltip position.
func formatPlacement(side, arrow string) string {
	if arrow == "" {
		return side
	}
	return fmt.Sprintf("%s, arrow %s", side, strings.ReplaceAll(arrow, "-", " "))
}

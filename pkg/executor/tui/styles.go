package tui

import "github.com/charmbracelet/lipgloss"

// Color Palette
// This is the single source of truth for all console colors.
var (
	salmonPink  = lipgloss.Color("#FFB3BA") // Soft pastel salmon pink - primary accent
	coralPink   = lipgloss.Color("#FFCCCB") // Lighter coral accent - secondary
	mintGreen   = lipgloss.Color("#A8E6CF") // Soft mint green - success states
	mutedGray   = lipgloss.Color("#6B7280") // Muted gray - secondary text
	brightWhite = lipgloss.Color("#F9FAFB") // Bright white - primary text
)

// Common Styles
var (
	// Text Styles
	headerStyle = lipgloss.NewStyle().
			Foreground(salmonPink).
			Bold(true)

	stepStyle = lipgloss.NewStyle().
			Foreground(coralPink).
			Bold(true)

	selectorStyle = lipgloss.NewStyle().
			Foreground(mintGreen)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedGray)

	introStyle = lipgloss.NewStyle().
			Foreground(brightWhite).
			Padding(0, 2)

	finishedStyle = lipgloss.NewStyle().
			Foreground(mintGreen).
			Bold(true)

	// Container Styles
	statusBarStyle = lipgloss.NewStyle().
			Foreground(mutedGray).
			Padding(0, 1)

	inputBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(salmonPink).
			Padding(0, 1)

	sourceBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedGray).
			Padding(0, 1)

	// OverlayTitleStyle is used for box titles
	OverlayTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(salmonPink)
)

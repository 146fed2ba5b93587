package main

import "github.com/charmbracelet/lipgloss"

var (
	// Color palette
	primaryColor   = lipgloss.Color("#7D56F4")
	secondaryColor = lipgloss.Color("#00D7FF")
	successColor   = lipgloss.Color("#04B575")
	warningColor   = lipgloss.Color("#FFA500")
	errorColor     = lipgloss.Color("#FF4B4B")
	mutedColor     = lipgloss.Color("#666666")
	borderColor    = lipgloss.Color("#383838")

	// Header styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			Background(lipgloss.Color("#1A1A1A")).
			Padding(0, 1).
			MarginBottom(1)

	// Pane styles
	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Padding(0, 1)

	selectedRowStyle = lipgloss.NewStyle().
				Background(primaryColor).
				Foreground(lipgloss.Color("#FFFFFF")).
				Bold(true)

	cursorMarkStyle = lipgloss.NewStyle().
			Foreground(secondaryColor).
			Bold(true)

	// Utilization bar styles, picked by how full the segment is
	barLowStyle = lipgloss.NewStyle().
			Foreground(successColor)

	barMidStyle = lipgloss.NewStyle().
			Foreground(warningColor)

	barHighStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	// Status bar styles
	statusStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Background(lipgloss.Color("#1A1A1A")).
			Padding(0, 1).
			MarginTop(1)

	helpStyle = lipgloss.NewStyle().
			Foreground(secondaryColor)

	statStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	pausedStyle = lipgloss.NewStyle().
			Foreground(warningColor).
			Bold(true)
)

// barStyleFor picks the bar color for a utilization fraction.
func barStyleFor(u float64) lipgloss.Style {
	switch {
	case u < 0.5:
		return barLowStyle
	case u < 0.85:
		return barMidStyle
	default:
		return barHighStyle
	}
}

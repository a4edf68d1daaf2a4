// Package styles defines shared lipgloss styles for the overlay.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	primaryColor   = lipgloss.Color("#5FAFAF") // Teal accent
	secondaryColor = lipgloss.Color("#666666") // Gray for secondary text
	classColor     = lipgloss.Color("#87AF87") // Muted sage for on-class
	breakColor     = lipgloss.Color("#AFAF5F") // Muted olive for breaks
	changedColor   = lipgloss.Color("#AF5F5F") // Muted terracotta for substitutions

	// TitleStyle for the overlay header
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	// SubtleStyle for hints/help text
	SubtleStyle = lipgloss.NewStyle().
			Foreground(secondaryColor)

	// OnClassStyle for the current-class banner
	OnClassStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(classColor)

	// BreakStyle for break banners
	BreakStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(breakColor)

	// ChangedStyle highlights substituted slots
	ChangedStyle = lipgloss.NewStyle().
			Foreground(changedColor)

	// CurrentRowStyle marks the active timetable row
	CurrentRowStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	// CountdownStyle for the big remaining-time readout
	CountdownStyle = lipgloss.NewStyle().
			Bold(true)

	// StatusBarStyle for the bottom help bar
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(secondaryColor)

	// BoxStyle for the overlay frame
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(secondaryColor).
			Padding(1, 2)
)

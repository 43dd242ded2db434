package tui

import "github.com/charmbracelet/lipgloss"

var (
	title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("205"))

	subtitle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	tab = lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Padding(0, 1)

	activeTab = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	cell = lipgloss.NewStyle().
		Width(colWidth).
		Align(lipgloss.Center)

	focused = lipgloss.NewStyle().
		Bold(true).
		Reverse(true)

	barFill = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42"))

	barTrack = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238"))

	unmuted = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42"))

	muted = lipgloss.NewStyle().
		Foreground(lipgloss.Color("196"))

	gone = lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Strikethrough(true)

	detail = lipgloss.NewStyle().
		Foreground(lipgloss.Color("255"))
)

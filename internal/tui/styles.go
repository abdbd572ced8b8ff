package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252")).
			Underline(true)

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Background(lipgloss.Color("239"))

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	overCapStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Italic(true).
			MarginTop(1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)

	zoneStyle  = lipgloss.NewStyle().Width(38)
	aliasStyle = lipgloss.NewStyle().Width(14)
	numStyle   = lipgloss.NewStyle().Width(11).Align(lipgloss.Right)
	swapStyle  = lipgloss.NewStyle().Width(9).Align(lipgloss.Right)
)

package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	ColorFgMuted = lipgloss.Color("243")
	ColorRed     = lipgloss.Color("9")
	ColorGreen   = lipgloss.Color("10")
	ColorYellow  = lipgloss.Color("11")
	ColorCyan    = lipgloss.Color("14")
)

// Component styles
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorCyan).
			Bold(true).
			PaddingLeft(1)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(ColorYellow).
			Bold(true)

	ItemStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	InstructionsStyle = lipgloss.NewStyle().
				Foreground(ColorFgMuted).
				PaddingLeft(4)

	StatusErrorStyle = lipgloss.NewStyle().
				Foreground(ColorRed)

	StatusOKStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorFgMuted).
			PaddingLeft(1)
)

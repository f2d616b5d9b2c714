package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/grimoire/internal/ui"
)

// Styles share the console palette from package ui.
var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(ui.ColorSuccess)
	pendingStyle = lipgloss.NewStyle().Foreground(ui.ColorPending)
	accentStyle  = lipgloss.NewStyle().Foreground(ui.ColorAccent)
	rewardStyle  = lipgloss.NewStyle().Foreground(ui.ColorReward)
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle   = lipgloss.NewStyle().Foreground(ui.ColorError).Bold(true)

	selectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
	doneStyle     = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	helpStyle     = lipgloss.NewStyle().Faint(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ui.ColorBorder).
			Padding(0, 1)

	boxChecked   = "☑"
	boxUnchecked = "☐"
)

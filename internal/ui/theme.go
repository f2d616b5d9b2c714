package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Shared palette; the TUI builds its styles from the same colors.
const (
	ColorSuccess = lipgloss.Color("42")
	ColorPending = lipgloss.Color("214")
	ColorAccent  = lipgloss.Color("12")
	ColorReward  = lipgloss.Color("220")
	ColorError   = lipgloss.Color("9")
	ColorBorder  = lipgloss.Color("8")
)

// Theme bundles styles, symbols and the panel border.
type Theme struct {
	Title, Muted, Accent, Success, Error, Pending, Reward lipgloss.Style

	Border                         lipgloss.Border
	BoxUnchecked, BoxChecked       string
	SymDone, SymUnchecked, SymFail string
}

var monoBorder = lipgloss.Border{
	Top: "-", Bottom: "-", Left: "|", Right: "|",
	TopLeft: "+", TopRight: "+", BottomLeft: "+", BottomRight: "+",
}

var current = classic()

func fg(c lipgloss.TerminalColor) lipgloss.Style { return renderer.NewStyle().Foreground(c) }

func classic() Theme {
	return Theme{
		Title:   renderer.NewStyle().Bold(true),
		Muted:   renderer.NewStyle().Faint(true),
		Accent:  fg(ColorAccent),
		Success: fg(ColorSuccess),
		Error:   fg(ColorError).Bold(true),
		Pending: fg(ColorPending),
		Reward:  fg(ColorReward),

		Border:       lipgloss.NormalBorder(),
		BoxUnchecked: "☐", BoxChecked: "☑",
		SymDone: "✔", SymUnchecked: "•", SymFail: "✖",
	}
}

// SetTheme selects classic (default), neon or mono.
func SetTheme(name string) {
	switch strings.ToLower(name) {
	case "neon":
		t := classic()
		t.Title = fg(lipgloss.Color("13")).Bold(true)
		t.Accent = fg(lipgloss.Color("14"))
		t.Pending = fg(lipgloss.Color("11"))
		t.Reward = fg(lipgloss.Color("11"))
		t.Border = lipgloss.RoundedBorder()
		t.BoxUnchecked, t.BoxChecked = "◻", "◼"
		current = t
	case "mono":
		disableColor = true
		applyProfile()
		plain := renderer.NewStyle()
		current = Theme{
			Title: plain, Muted: plain, Accent: plain, Success: plain,
			Error: plain, Pending: plain, Reward: plain,
			Border:       monoBorder,
			BoxUnchecked: "[ ]", BoxChecked: "[x]",
			SymDone: "x", SymUnchecked: "-", SymFail: "!",
		}
	default:
		current = classic()
	}
}

func Current() Theme { return current }

package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	forceColor   bool
	disableColor bool

	// Out and Err are where OK/Fail/Panel print; tests redirect them.
	Out io.Writer = os.Stdout
	Err io.Writer = os.Stderr

	// renderer backs every theme style. Its profile follows the color mode,
	// not the writer, so redirected output stays plain unless forced.
	renderer = lipgloss.NewRenderer(os.Stdout)
)

func init() { applyProfile() }

// SetColorForcing overrides terminal detection.
func SetColorForcing(force, disable bool) {
	forceColor = force
	disableColor = disable
	applyProfile()
}

func applyProfile() {
	if !disableColor && (forceColor || IsTTY()) {
		renderer.SetColorProfile(termenv.ANSI256)
		return
	}
	renderer.SetColorProfile(termenv.Ascii)
}

// IsTTY reports whether stdout is a terminal.
func IsTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

// C renders s in style; plain text when colors are off.
func C(style lipgloss.Style, s string) string { return style.Render(s) }

func OK(msg string)   { fmt.Fprintln(Out, C(Current().Success, Current().SymDone+" "+msg)) }
func Fail(msg string) { fmt.Fprintln(Err, C(Current().Error, Current().SymFail+" "+msg)) }
func Info(msg string) { fmt.Fprintln(Out, C(Current().Accent, Current().SymUnchecked+" "+msg)) }

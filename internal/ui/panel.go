package ui

import (
	"fmt"
	"strings"
)

// ProgressBar renders a block bar followed by the percentage.
func ProgressBar(done, total, width int) string {
	if total <= 0 {
		total = 1
	}
	width = max(width, 5)
	filled := min(done*width/total, width)
	return fmt.Sprintf("%s%s %3d%%",
		strings.Repeat("█", filled), strings.Repeat("░", width-filled), done*100/total)
}

// Panel prints lines inside the current theme's border.
func Panel(lines []string) {
	box := renderer.NewStyle().
		Border(Current().Border).
		BorderForeground(ColorBorder).
		Padding(0, 1)
	fmt.Fprintln(Out, box.Render(strings.Join(lines, "\n")))
}

package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ProgressBar renders done/total as a bar of width cells (at least 5)
// followed by the percentage. An empty total reads as 0%.
func ProgressBar(done, total, width int) string {
	width = max(width, 5)
	pct := 0
	if total > 0 {
		pct = min(max(done, 0)*100/total, 100)
	}
	filled := width * pct / 100
	return fmt.Sprintf("%s %3d%%", strings.Repeat("█", filled)+strings.Repeat("░", width-filled), pct)
}

// Panel draws a framed box using the current theme.
func Panel(w io.Writer, lines []string) {
	t := Current()
	// visible width, ignoring colour codes
	maxw := 0
	for _, ln := range lines {
		if vw := lipgloss.Width(ln); vw > maxw {
			maxw = vw
		}
	}
	pad := func(s string) string {
		if vis := lipgloss.Width(s); vis < maxw {
			s += strings.Repeat(" ", maxw-vis)
		}
		return s
	}
	fmt.Fprintln(w, t.CornerTL+strings.Repeat(t.H, maxw+2)+t.CornerTR)
	for _, ln := range lines {
		fmt.Fprintln(w, t.V+" "+pad(ln)+" "+t.V)
	}
	fmt.Fprintln(w, t.CornerBL+strings.Repeat(t.H, maxw+2)+t.CornerBR)
}

// Truncate cuts s to max visible cells, ending in "...". Wide runes count
// as two cells.
func Truncate(s string, max int) string {
	if max < 4 || lipgloss.Width(s) <= max {
		return s
	}
	var b strings.Builder
	w := 0
	for _, r := range s {
		rw := lipgloss.Width(string(r))
		if w+rw > max-3 {
			break
		}
		b.WriteRune(r)
		w += rw
	}
	return b.String() + "..."
}

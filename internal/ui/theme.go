package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
)

// Theme bundles palette + symbols + box borders.
// All UI helpers pull from `current`.
type Theme struct {
	Name                                   string
	Title, Muted, Accent                   *color.Color
	Success, Error, Pending                *color.Color
	High, Medium, Low                      *color.Color
	BoxUnchecked, BoxChecked               string
	CornerTL, CornerTR, CornerBL, CornerBR string
	H, V                                   string
	SymDone, SymUnchecked                  string
}

var current = Dark()

// Light suits terminals with a light background.
func Light() Theme {
	return Theme{
		Name:    "light",
		Title:   color.New(color.Bold, color.FgBlack),
		Muted:   color.New(color.FgHiBlack),
		Accent:  color.New(color.FgBlue),
		Success: color.New(color.FgGreen),
		Error:   color.New(color.FgRed),
		Pending: color.New(color.FgMagenta),
		High:    color.New(color.FgRed),
		Medium:  color.New(color.FgYellow),
		Low:     color.New(color.FgGreen),

		BoxUnchecked: "☐", BoxChecked: "☑",
		CornerTL: "┌", CornerTR: "┐", CornerBL: "└", CornerBR: "┘",
		H: "─", V: "│",
		SymDone: "✔", SymUnchecked: "•",
	}
}

// Dark suits terminals with a dark background.
func Dark() Theme {
	return Theme{
		Name:    "dark",
		Title:   color.New(color.Bold, color.FgHiWhite),
		Muted:   color.New(color.FgHiBlack),
		Accent:  color.New(color.FgHiCyan),
		Success: color.New(color.FgHiGreen),
		Error:   color.New(color.FgHiRed),
		Pending: color.New(color.FgHiYellow),
		High:    color.New(color.FgHiRed),
		Medium:  color.New(color.FgHiYellow),
		Low:     color.New(color.FgHiGreen),

		BoxUnchecked: "◻", BoxChecked: "◼",
		CornerTL: "╭", CornerTR: "╮", CornerBL: "╰", CornerBR: "╯",
		H: "─", V: "│",
		SymDone: "✔", SymUnchecked: "•",
	}
}

// Resolve maps a theme name to a palette. "system" (and anything unknown)
// asks hasDark which way the terminal leans.
func Resolve(name string, hasDark func() bool) Theme {
	switch strings.ToLower(name) {
	case "light":
		return Light()
	case "dark":
		return Dark()
	}
	if hasDark == nil || hasDark() {
		return Dark()
	}
	return Light()
}

// SetTheme picks the palette for name, probing the terminal for "system".
func SetTheme(name string) {
	current = Resolve(name, lipgloss.HasDarkBackground)
}

// Expose what renderers need
func Current() Theme { return current }

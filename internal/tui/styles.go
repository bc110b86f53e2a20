package tui

import "github.com/charmbracelet/lipgloss"

// ------- styling helpers (Lip Gloss) -------

// Styles is the palette for one theme.
type Styles struct {
	Dark bool

	Title    lipgloss.Style
	Success  lipgloss.Style
	Pending  lipgloss.Style
	Accent   lipgloss.Style
	Muted    lipgloss.Style
	Error    lipgloss.Style
	Selected lipgloss.Style
	Done     lipgloss.Style
	Help     lipgloss.Style

	High, Medium, Low lipgloss.Style

	Column       lipgloss.Style
	ActiveColumn lipgloss.Style
	Panel        lipgloss.Style
	Dialog       lipgloss.Style
	Tab          lipgloss.Style
	ActiveTab    lipgloss.Style
}

const (
	boxChecked   = "☑"
	boxUnchecked = "☐"
)

// NewStyles builds the dark or light palette.
func NewStyles(dark bool) Styles {
	border, accent, pending, muted := lipgloss.Color("8"), lipgloss.Color("12"), lipgloss.Color("214"), lipgloss.Color("245")
	success, danger, medium := lipgloss.Color("42"), lipgloss.Color("9"), lipgloss.Color("214")
	if !dark {
		border, accent, pending, muted = lipgloss.Color("250"), lipgloss.Color("25"), lipgloss.Color("130"), lipgloss.Color("242")
		success, danger, medium = lipgloss.Color("28"), lipgloss.Color("160"), lipgloss.Color("166")
	}

	column := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(border).Padding(0, 1)
	return Styles{
		Dark:     dark,
		Title:    lipgloss.NewStyle().Bold(true),
		Success:  lipgloss.NewStyle().Foreground(success),
		Pending:  lipgloss.NewStyle().Foreground(pending),
		Accent:   lipgloss.NewStyle().Foreground(accent),
		Muted:    lipgloss.NewStyle().Foreground(muted),
		Error:    lipgloss.NewStyle().Foreground(danger).Bold(true),
		Selected: lipgloss.NewStyle().Bold(true).Reverse(true),
		Done:     lipgloss.NewStyle().Faint(true).Strikethrough(true),
		Help:     lipgloss.NewStyle().Faint(true),

		High:   lipgloss.NewStyle().Foreground(danger),
		Medium: lipgloss.NewStyle().Foreground(medium),
		Low:    lipgloss.NewStyle().Foreground(success),

		Column:       column,
		ActiveColumn: column.BorderForeground(accent),
		Panel:        lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(border).Padding(0, 1),
		Dialog:       lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accent).Padding(0, 1),
		Tab:          lipgloss.NewStyle().Padding(0, 1).Foreground(muted),
		ActiveTab:    lipgloss.NewStyle().Padding(0, 1).Bold(true).Underline(true).Foreground(accent),
	}
}

package ui

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

const (
	symCheck = "✔"
	symCross = "✖"
)

// SetColorForcing overrides fatih/color's terminal detection.
func SetColorForcing(force, disable bool) {
	switch {
	case disable:
		color.NoColor = true
	case force:
		color.NoColor = false
	}
}

// C paints s with c, or returns it untouched when colour is off.
func C(c *color.Color, s string) string {
	if c == nil {
		return s
	}
	return c.Sprint(s)
}

func OK(w io.Writer, msg string) {
	fmt.Fprintln(w, C(current.Success, symCheck+" "+msg))
}

func Fail(w io.Writer, msg string) {
	fmt.Fprintln(w, C(current.Error, symCross+" "+msg))
}

// Hint prints a muted follow-up line under a notice.
func Hint(w io.Writer, msg string) {
	fmt.Fprintln(w, C(current.Muted, msg))
}

// Notice prints a titled outcome, e.g. "✔ Task Created: Your task has been
// created successfully."
func Notice(w io.Writer, title, desc string, failed bool) {
	msg := title
	if desc != "" {
		msg += ": " + desc
	}
	if failed {
		Fail(w, msg)
		return
	}
	OK(w, msg)
}

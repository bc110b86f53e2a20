// Package view turns the cached task collection into what the TUI and the
// CLI render: board columns, filtered list rows and the timeline week.
// Everything here is pure.
package view

import (
	"github.com/idilsaglam/klaboard/internal/i18n"
	"github.com/idilsaglam/klaboard/internal/model"
)

// Column is one status bucket of the board.
type Column struct {
	Status   model.Status
	TitleKey string
	Tasks    []model.Task
}

// Board returns the four columns in board order. Columns are never nil.
func Board(tasks []model.Task) []Column {
	g := model.GroupByStatus(tasks)
	cols := make([]Column, 0, len(model.Statuses))
	for _, s := range model.Statuses {
		cols = append(cols, Column{
			Status:   s,
			TitleKey: i18n.StatusKey(s),
			Tasks:    g.Bucket(s),
		})
	}
	return cols
}

// Progress counts completed tasks.
func Progress(tasks []model.Task) (done, total int) {
	for _, t := range tasks {
		if t.Completed {
			done++
		}
	}
	return done, len(tasks)
}

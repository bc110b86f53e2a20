package view

import (
	"time"

	"github.com/idilsaglam/klaboard/internal/i18n"
	"github.com/idilsaglam/klaboard/internal/model"
)

// Day is one column of the timeline.
type Day struct {
	Date  time.Time
	Key   string // weekday i18n key
	Today bool
	Tasks []model.Task
}

// Week returns the seven days, Monday first, of the week containing now.
// A task lands on the day its due date falls on in now's location; tasks
// without a due date or outside the week are left out.
func Week(tasks []model.Task, now time.Time) []Day {
	start := StartOfWeek(now)
	days := make([]Day, 7)
	for i := range days {
		d := start.AddDate(0, 0, i)
		days[i] = Day{
			Date:  d,
			Key:   i18n.DayKeys[i],
			Today: sameDay(d, now),
			Tasks: []model.Task{},
		}
	}
	for _, t := range tasks {
		if t.DueDate == nil {
			continue
		}
		due := t.DueDate.In(now.Location())
		for i := range days {
			if sameDay(days[i].Date, due) {
				days[i].Tasks = append(days[i].Tasks, t)
				break
			}
		}
	}
	return days
}

// StartOfWeek is local midnight on the Monday of now's week.
func StartOfWeek(now time.Time) time.Time {
	offset := (int(now.Weekday()) + 6) % 7
	y, m, d := now.Date()
	return time.Date(y, m, d-offset, 0, 0, 0, 0, now.Location())
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

package view

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/idilsaglam/klaboard/internal/model"
)

// SortKey orders list rows.
type SortKey string

const (
	SortNone     SortKey = "none"
	SortPriority SortKey = "priority"
	SortDue      SortKey = "due"
	SortTitle    SortKey = "title"
)

// SortKeys lists the accepted sort keys.
var SortKeys = []SortKey{SortNone, SortPriority, SortDue, SortTitle}

// ParseSort accepts a sort key; empty means none.
func ParseSort(s string) (SortKey, error) {
	k := SortKey(strings.ToLower(strings.TrimSpace(s)))
	if k == "" {
		return SortNone, nil
	}
	if slices.Contains(SortKeys, k) {
		return k, nil
	}
	return "", fmt.Errorf("unknown sort %q (want none, priority, due or title)", s)
}

// Filter narrows the list view. Zero values match everything.
type Filter struct {
	Query    string
	Status   model.Status
	Priority model.Priority
	Sort     SortKey
}

// Match reports whether t passes the filter.
func (f Filter) Match(t model.Task) bool {
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.Priority != "" && t.Priority != f.Priority {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		return strings.Contains(strings.ToLower(t.Title), q) ||
			strings.Contains(strings.ToLower(t.Description), q)
	}
	return true
}

// Rows filters and sorts tasks into a new slice. Sorting is stable, so
// equal keys keep collection order.
func Rows(tasks []model.Task, f Filter) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Match(t) {
			out = append(out, t)
		}
	}

	switch f.Sort {
	case SortPriority:
		slices.SortStableFunc(out, func(a, b model.Task) int {
			return a.Priority.Rank() - b.Priority.Rank()
		})
	case SortDue:
		// Tasks without a due date go last.
		slices.SortStableFunc(out, func(a, b model.Task) int {
			switch {
			case a.DueDate == nil && b.DueDate == nil:
				return 0
			case a.DueDate == nil:
				return 1
			case b.DueDate == nil:
				return -1
			}
			return a.DueDate.Compare(*b.DueDate)
		})
	case SortTitle:
		slices.SortStableFunc(out, func(a, b model.Task) int {
			return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
		})
	}
	return out
}

// DueLabel renders a due date relative to now ("3 days from now").
func DueLabel(due *time.Time, now time.Time) string {
	if due == nil {
		return ""
	}
	return humanize.RelTime(*due, now, "ago", "from now")
}

// FormatDate renders a date the way the list and detail views show it.
func FormatDate(d *time.Time) string {
	if d == nil {
		return "-"
	}
	return d.Local().Format("Jan 2, 2006")
}

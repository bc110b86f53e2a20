package model

import (
	"fmt"
	"strings"
	"time"
)

// Priority is how urgent a task is.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Priorities lists every priority, most urgent first.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// Rank orders priorities for sorting: high < medium < low.
func (p Priority) Rank() int {
	for i, x := range Priorities {
		if x == p {
			return i
		}
	}
	return len(Priorities)
}

// ParsePriority accepts a priority name, case-insensitive.
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	for _, x := range Priorities {
		if x == p {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown priority %q (want high, medium or low)", s)
}

// Status is the workflow stage of a task.
type Status string

const (
	StatusTodo     Status = "todo"
	StatusProgress Status = "progress"
	StatusReview   Status = "review"
	StatusDone     Status = "done"
)

// Statuses lists the four buckets in board order.
var Statuses = []Status{StatusTodo, StatusProgress, StatusReview, StatusDone}

// Index returns the board column of s, or -1.
func (s Status) Index() int {
	for i, x := range Statuses {
		if x == s {
			return i
		}
	}
	return -1
}

// ParseStatus accepts a status name, case-insensitive.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if st.Index() < 0 {
		return "", fmt.Errorf("unknown status %q (want todo, progress, review or done)", s)
	}
	return st, nil
}

// ChecklistItem is one entry of a task checklist.
type ChecklistItem struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Task is the local, enriched shape of a to-do.
type Task struct {
	ID               int             `json:"id"`
	Title            string          `json:"title"`
	Description      string          `json:"description,omitempty"`
	Completed        bool            `json:"completed"`
	UserID           int             `json:"userId"`
	Priority         Priority        `json:"priority"`
	Status           Status          `json:"status"`
	StartDate        *time.Time      `json:"startDate,omitempty"`
	DueDate          *time.Time      `json:"dueDate,omitempty"`
	Checklist        []ChecklistItem `json:"checklist,omitempty"`
	CommentsCount    int             `json:"commentsCount,omitempty"`
	AttachmentsCount int             `json:"attachmentsCount,omitempty"`
	Assignees        []string        `json:"assignees,omitempty"`
}

// Clone returns a deep copy so cached tasks never share slices or dates.
func (t Task) Clone() Task {
	c := t
	if t.StartDate != nil {
		d := *t.StartDate
		c.StartDate = &d
	}
	if t.DueDate != nil {
		d := *t.DueDate
		c.DueDate = &d
	}
	if t.Checklist != nil {
		c.Checklist = append([]ChecklistItem(nil), t.Checklist...)
	}
	if t.Assignees != nil {
		c.Assignees = append([]string(nil), t.Assignees...)
	}
	return c
}

// ChecklistDone counts completed checklist entries.
func (t Task) ChecklistDone() int {
	n := 0
	for _, c := range t.Checklist {
		if c.Completed {
			n++
		}
	}
	return n
}

// CloneTasks deep-copies a task slice. A nil input stays nil.
func CloneTasks(tasks []Task) []Task {
	if tasks == nil {
		return nil
	}
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}

// Draft holds the fields a user supplies when creating a task.
// Zero values mean "not supplied".
type Draft struct {
	Title       string
	Description string
	Priority    Priority
	Status      Status
	StartDate   *time.Time
	DueDate     *time.Time
	Checklist   []ChecklistItem
}

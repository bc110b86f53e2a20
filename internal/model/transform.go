package model

import (
	"fmt"
	"time"
)

// Transform derives the local task shape from a remote record.
// Everything except the dates is a function of the record alone;
// the dates are offsets from now.
func Transform(r RemoteTodo, now time.Time) Task {
	idx := mod(r.ID, 3)

	status := Statuses[idx]
	if r.Completed {
		status = StatusDone
	}

	start := now.AddDate(0, 0, -mod(r.ID, 7)).UTC()
	due := now.AddDate(0, 0, mod(r.ID, 14)).UTC()

	return Task{
		ID:          r.ID,
		Title:       r.Todo,
		Description: "Description for task: " + r.Todo,
		Completed:   r.Completed,
		UserID:      r.UserID,
		Priority:    Priorities[idx],
		Status:      status,
		StartDate:   &start,
		DueDate:     &due,
		Checklist: []ChecklistItem{
			{ID: fmt.Sprintf("%d-1", r.ID), Text: "Review requirements", Completed: true},
			{ID: fmt.Sprintf("%d-2", r.ID), Text: "Implementation", Completed: r.Completed},
			{ID: fmt.Sprintf("%d-3", r.ID), Text: "Testing", Completed: false},
		},
		CommentsCount:    mod(r.ID, 5),
		AttachmentsCount: mod(r.ID, 3),
		Assignees:        []string{AssigneeName(r.UserID)},
	}
}

// TransformAll maps every record through Transform, keeping order.
func TransformAll(rs []RemoteTodo, now time.Time) []Task {
	out := make([]Task, 0, len(rs))
	for _, r := range rs {
		out = append(out, Transform(r, now))
	}
	return out
}

// AssigneeName is the display name for a user id.
func AssigneeName(userID int) string {
	return fmt.Sprintf("User %d", userID)
}

// mod is a non-negative remainder; the API never hands out negative ids
// but provisional ones may be large.
func mod(a, n int) int {
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}

package taskstore

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyTitle rejects a create or update before anything is applied.
	ErrEmptyTitle = errors.New("task title is empty")

	// ErrNotFound is returned by Move and Toggle for ids not in the cache.
	ErrNotFound = errors.New("task not found")

	// ErrSuperseded is returned to List callers whose fetch was cancelled by
	// a mutation or a newer Refresh. The cache was left untouched.
	ErrSuperseded = errors.New("list superseded")

	// ErrClosed is returned once Close has been called.
	ErrClosed = errors.New("store closed")
)

// MutationError is a create, update or delete that the remote rejected.
// By the time it is returned the cache has been rolled back.
type MutationError struct {
	Op     Op
	TaskID int
	Err    error
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("%s task %d: %v", e.Op, e.TaskID, e.Err)
}

func (e *MutationError) Unwrap() error { return e.Err }

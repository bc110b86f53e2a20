package remote

import (
	"errors"
	"fmt"
)

// Sentinels for each operation. Every failure returned by Client wraps one.
var (
	ErrFetch  = errors.New("failed to fetch todos")
	ErrCreate = errors.New("failed to create todo")
	ErrUpdate = errors.New("failed to update todo")
	ErrDelete = errors.New("failed to delete todo")
)

// StatusError is a non-success HTTP response.
type StatusError struct {
	Op         error // one of the sentinels above
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%v: status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%v: status %d: %s", e.Op, e.StatusCode, e.Body)
}

func (e *StatusError) Unwrap() error { return e.Op }

// opError wraps a transport or decode failure with its operation sentinel.
type opError struct {
	op  error
	err error
}

func (e *opError) Error() string { return fmt.Sprintf("%v: %v", e.op, e.err) }

// Unwrap exposes both the sentinel and the cause to errors.Is.
func (e *opError) Unwrap() []error { return []error{e.op, e.err} }

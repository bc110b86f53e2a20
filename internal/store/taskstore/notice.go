package taskstore

import "github.com/idilsaglam/klaboard/internal/model"

// Op names a store operation.
type Op string

const (
	OpFetch  Op = "fetch"
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// NoticeKind tells success from failure.
type NoticeKind int

const (
	NoticeSuccess NoticeKind = iota
	NoticeFailure
)

// Notice is a user-facing outcome of a mutation.
type Notice struct {
	Kind   NoticeKind
	Op     Op
	TaskID int
	Err    error
}

// Notifier receives mutation outcomes.
type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

// LoadState is where the cache is in its fetch lifecycle.
type LoadState int

const (
	StateIdle LoadState = iota
	StateLoading
	StateReady
	StateError
)

func (s LoadState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	}
	return "unknown"
}

// Snapshot is a copy of the cache handed to readers and subscribers.
// Version increases with every change; subscribers may receive snapshots
// out of order and should drop any older than the last one seen.
type Snapshot struct {
	Version  uint64
	Tasks    []model.Task
	State    LoadState
	Fetching bool
	Err      error
}

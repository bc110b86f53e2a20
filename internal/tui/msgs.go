package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/klaboard/internal/store/taskstore"
)

// snapshotMsg carries a store change into the event loop.
type snapshotMsg taskstore.Snapshot

// noticeMsg carries a mutation outcome.
type noticeMsg taskstore.Notice

// opDoneMsg reports a finished store call started from a key press.
type opDoneMsg struct {
	op  taskstore.Op
	err error
}

// Notifier queues store notices for the TUI. Pass it to the store with
// taskstore.WithNotifier before the program starts.
type Notifier struct {
	ch chan taskstore.Notice
}

func NewNotifier() *Notifier {
	return &Notifier{ch: make(chan taskstore.Notice, 16)}
}

// Notify never blocks; when the queue is full the notice is dropped.
func (n *Notifier) Notify(x taskstore.Notice) {
	select {
	case n.ch <- x:
	default:
	}
}

func waitNotice(n *Notifier) tea.Cmd {
	if n == nil {
		return nil
	}
	return func() tea.Msg { return noticeMsg(<-n.ch) }
}

// snapshots bridges Store.Subscribe to a channel holding only the newest
// snapshot, so a slow event loop never stalls the store.
type snapshots chan taskstore.Snapshot

func newSnapshots() snapshots { return make(snapshots, 1) }

func (c snapshots) push(s taskstore.Snapshot) {
	for {
		select {
		case c <- s:
			return
		default:
		}
		select {
		case old := <-c:
			if old.Version > s.Version {
				s = old
			}
		default:
		}
	}
}

func (c snapshots) wait() tea.Cmd {
	return func() tea.Msg { return snapshotMsg(<-c) }
}

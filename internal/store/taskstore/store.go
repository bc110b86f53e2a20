// Package taskstore is the in-memory task cache with optimistic mutations.
//
// The cache holds one collection under the key "tasks". List fills it from
// the backend; Create, Update and Delete edit it before the remote call
// returns and roll it back if that call fails. Every mutation ends with a
// background Refresh so the cache converges on server state.
package taskstore

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/idilsaglam/klaboard/internal/model"
)

const queryKey = "tasks"

// Backend is the remote to-do resource.
type Backend interface {
	List(ctx context.Context) ([]model.RemoteTodo, error)
	Create(ctx context.Context, in model.TodoInput) (model.RemoteTodo, error)
	Update(ctx context.Context, id int, in model.TodoInput) (model.RemoteTodo, error)
	Delete(ctx context.Context, id int) error
}

// Store owns the cached task collection.
type Store struct {
	backend      Backend
	notifier     Notifier
	log          *slog.Logger
	now          func() time.Time
	userID       int
	refreshAfter bool

	sf singleflight.Group

	mu         sync.Mutex
	tasks      []model.Task
	state      LoadState
	err        error
	fetching   bool
	version    uint64
	gen        atomic.Uint64 // bumped under mu to discard in-flight list results
	cancelList context.CancelFunc
	lastTempID int
	subs       map[int]func(Snapshot)
	nextSub    int
	closed     bool

	publishMu sync.Mutex

	ctx  context.Context
	stop context.CancelFunc
	bg   sync.WaitGroup
}

// Option configures a Store.
type Option func(*Store)

// WithNotifier receives success and failure notices for mutations.
func WithNotifier(n Notifier) Option {
	return func(s *Store) { s.notifier = n }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithClock replaces time.Now as the date baseline for transformed tasks
// and the source of provisional ids.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithUserID sets the owner of created tasks. Default 1.
func WithUserID(id int) Option {
	return func(s *Store) { s.userID = id }
}

// WithRefreshAfterMutation toggles the post-mutation background refresh.
// Default on.
func WithRefreshAfterMutation(on bool) Option {
	return func(s *Store) { s.refreshAfter = on }
}

// New returns an empty store over backend.
func New(backend Backend, opts ...Option) *Store {
	ctx, stop := context.WithCancel(context.Background())
	s := &Store{
		backend:      backend,
		log:          slog.New(slog.DiscardHandler),
		now:          time.Now,
		userID:       1,
		refreshAfter: true,
		subs:         make(map[int]func(Snapshot)),
		ctx:          ctx,
		stop:         stop,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Tasks returns a copy of the cached collection.
func (s *Store) Tasks() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.CloneTasks(s.tasks)
}

// Find returns a copy of the cached task with id.
func (s *Store) Find(id int) (model.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := indexOf(s.tasks, id); i >= 0 {
		return s.tasks[i].Clone(), true
	}
	return model.Task{}, false
}

// Snapshot returns the current cache and load state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Version:  s.version,
		Tasks:    model.CloneTasks(s.tasks),
		State:    s.state,
		Fetching: s.fetching,
		Err:      s.err,
	}
}

// Subscribe registers fn to receive a snapshot after every cache change.
// fn runs on the goroutine that made the change and must not call List,
// Refresh or any mutation. The returned func unsubscribes.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// publish bumps the version and fans the new snapshot out. Deliveries are
// serialized so subscribers see versions in increasing order.
func (s *Store) publish() {
	s.publishMu.Lock()
	defer s.publishMu.Unlock()

	s.mu.Lock()
	s.version++
	snap := s.snapshotLocked()
	subs := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}

func (s *Store) notify(n Notice) {
	if s.notifier != nil {
		s.notifier.Notify(n)
	}
}

// List fetches the collection and replaces the cache with it. Calls that
// overlap an in-flight fetch share its result instead of issuing another
// request. A List that a mutation or Refresh overtakes before its fetch
// starts returns ErrSuperseded and leaves the cache alone.
func (s *Store) List(ctx context.Context) ([]model.Task, error) {
	gen := s.gen.Load()
	ch := s.sf.DoChan(flightKey(gen), func() (any, error) {
		return s.fetch(gen)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		return model.CloneTasks(r.Val.([]model.Task)), nil
	}
}

// Refresh cancels any in-flight fetch and starts a new one.
func (s *Store) Refresh(ctx context.Context) ([]model.Task, error) {
	s.mu.Lock()
	s.supersedeLocked()
	s.mu.Unlock()
	return s.List(ctx)
}

// supersedeLocked makes any in-flight fetch's result stale and cancels it.
func (s *Store) supersedeLocked() {
	old := s.gen.Load()
	s.gen.Store(old + 1)
	s.sf.Forget(flightKey(old))
	if s.cancelList != nil {
		s.cancelList()
		s.cancelList = nil
	}
	s.fetching = false
}

// flightKey scopes singleflight sharing to one generation so a List issued
// after a supersede never joins a stale fetch.
func flightKey(gen uint64) string {
	return queryKey + "@" + strconv.FormatUint(gen, 10)
}

// fetch loads the collection on behalf of the List calls of generation gen.
func (s *Store) fetch(gen uint64) ([]model.Task, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	if gen != s.gen.Load() {
		s.mu.Unlock()
		s.log.Debug("list superseded before start")
		return nil, ErrSuperseded
	}
	ctx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	s.cancelList = cancel
	s.fetching = true
	if s.state != StateReady {
		s.state = StateLoading
	}
	s.mu.Unlock()
	s.publish()

	rs, err := s.backend.List(ctx)

	s.mu.Lock()
	if gen != s.gen.Load() {
		s.mu.Unlock()
		s.log.Debug("discarding superseded list", "err", err)
		return nil, ErrSuperseded
	}
	s.cancelList = nil
	s.fetching = false
	if err != nil {
		s.state = StateError
		s.err = err
		s.mu.Unlock()
		s.log.Warn("list failed", "err", err)
		s.publish()
		return nil, err
	}
	tasks := model.TransformAll(rs, s.now())
	s.tasks = tasks
	s.state = StateReady
	s.err = nil
	out := model.CloneTasks(tasks)
	s.mu.Unlock()

	s.log.Debug("list loaded", "count", len(out))
	s.publish()
	return out, nil
}

// begin cancels any in-flight fetch, snapshots the cache and applies edit
// to a copy of it, all under one lock. It returns the snapshot for rollback,
// or ErrClosed once the store is closed.
func (s *Store) begin(edit func(tasks []model.Task) []model.Task) ([]model.Task, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	s.supersedeLocked()
	prev := model.CloneTasks(s.tasks)
	s.tasks = edit(model.CloneTasks(s.tasks))
	s.mu.Unlock()
	s.publish()
	return prev, nil
}

// rollback restores the cache to prev.
func (s *Store) rollback(prev []model.Task) {
	s.mu.Lock()
	s.tasks = prev
	s.mu.Unlock()
	s.publish()
}

// settle runs the post-mutation steps shared by every operation.
func (s *Store) settle(op Op, id int, prev []model.Task, err error) error {
	defer s.refreshInBackground()
	if err != nil {
		s.rollback(prev)
		s.log.Warn("mutation failed, rolled back", "op", op, "id", id, "err", err)
		s.notify(Notice{Kind: NoticeFailure, Op: op, TaskID: id, Err: err})
		return &MutationError{Op: op, TaskID: id, Err: err}
	}
	s.log.Info("mutation applied", "op", op, "id", id)
	s.notify(Notice{Kind: NoticeSuccess, Op: op, TaskID: id})
	return nil
}

func (s *Store) refreshInBackground() {
	if !s.refreshAfter {
		return
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.bg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.bg.Done()
		_, err := s.Refresh(s.ctx)
		if err != nil && !errors.Is(err, ErrSuperseded) && !errors.Is(err, context.Canceled) && !errors.Is(err, ErrClosed) {
			s.log.Warn("background refresh failed", "err", err)
		}
	}()
}

// Create prepends a provisional task built from d, posts it, and on success
// merges the server id and derived fields into it. Supplied fields win over
// server-derived ones; an unset priority takes the server's.
func (s *Store) Create(ctx context.Context, d model.Draft) (model.Task, error) {
	d.Title = strings.TrimSpace(d.Title)
	if d.Title == "" {
		return model.Task{}, ErrEmptyTitle
	}

	var local model.Task
	prev, err := s.begin(func(tasks []model.Task) []model.Task {
		local = s.provisional(s.provisionalIDLocked(), d)
		return append([]model.Task{local.Clone()}, tasks...)
	})
	if err != nil {
		return model.Task{}, err
	}

	rt, err := s.backend.Create(ctx, model.TodoInput{
		Todo:      local.Title,
		Completed: local.Completed,
		UserID:    s.userID,
	})
	if err != nil {
		return model.Task{}, s.settle(OpCreate, local.ID, prev, err)
	}

	merged := mergeCreated(model.Transform(rt, s.now()), local, d)
	s.mu.Lock()
	if i := indexOf(s.tasks, local.ID); i >= 0 {
		s.tasks[i] = merged.Clone()
	}
	s.mu.Unlock()
	s.publish()

	return merged, s.settle(OpCreate, merged.ID, prev, nil)
}

// Update replaces the cached task with the same id by t and puts it. The
// completed flag is derived from the status.
func (s *Store) Update(ctx context.Context, t model.Task) error {
	t = t.Clone()
	t.Title = strings.TrimSpace(t.Title)
	if t.Title == "" {
		return ErrEmptyTitle
	}
	t.Completed = t.Status == model.StatusDone

	prev, err := s.begin(func(tasks []model.Task) []model.Task {
		if i := indexOf(tasks, t.ID); i >= 0 {
			tasks[i] = t.Clone()
		}
		return tasks
	})
	if err != nil {
		return err
	}

	_, err = s.backend.Update(ctx, t.ID, model.TodoInput{Todo: t.Title, Completed: t.Completed})
	return s.settle(OpUpdate, t.ID, prev, err)
}

// Delete removes the cached task with id and deletes it remotely.
func (s *Store) Delete(ctx context.Context, id int) error {
	prev, err := s.begin(func(tasks []model.Task) []model.Task {
		if i := indexOf(tasks, id); i >= 0 {
			tasks = append(tasks[:i], tasks[i+1:]...)
		}
		return tasks
	})
	if err != nil {
		return err
	}

	err = s.backend.Delete(ctx, id)
	return s.settle(OpDelete, id, prev, err)
}

// Move puts the task with id into status.
func (s *Store) Move(ctx context.Context, id int, status model.Status) error {
	t, ok := s.Find(id)
	if !ok {
		return ErrNotFound
	}
	t.Status = status
	return s.Update(ctx, t)
}

// Toggle flips completion: an open task becomes done, a done one goes back
// to todo.
func (s *Store) Toggle(ctx context.Context, id int) error {
	t, ok := s.Find(id)
	if !ok {
		return ErrNotFound
	}
	if t.Completed {
		t.Status = model.StatusTodo
	} else {
		t.Status = model.StatusDone
	}
	return s.Update(ctx, t)
}

// Wait blocks until background refreshes have finished.
func (s *Store) Wait() { s.bg.Wait() }

// Close cancels in-flight work and waits for background refreshes.
func (s *Store) Close() {
	s.mu.Lock()
	s.closed = true
	s.supersedeLocked()
	s.mu.Unlock()
	s.stop()
	s.bg.Wait()
}

func (s *Store) provisional(id int, d model.Draft) model.Task {
	priority := d.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	status := d.Status
	if status == "" {
		status = model.StatusTodo
	}
	checklist := d.Checklist
	if checklist == nil {
		checklist = []model.ChecklistItem{}
	}
	t := model.Task{
		ID:          id,
		Title:       d.Title,
		Description: d.Description,
		Completed:   status == model.StatusDone,
		UserID:      s.userID,
		Priority:    priority,
		Status:      status,
		StartDate:   d.StartDate,
		DueDate:     d.DueDate,
		Checklist:   checklist,
		Assignees:   []string{model.AssigneeName(s.userID)},
	}
	return t.Clone()
}

// provisionalIDLocked hands out a millisecond timestamp, bumped so ids stay
// unique within this store.
func (s *Store) provisionalIDLocked() int {
	id := int(s.now().UnixMilli())
	if id <= s.lastTempID {
		id = s.lastTempID + 1
	}
	s.lastTempID = id
	return id
}

func mergeCreated(server, local model.Task, d model.Draft) model.Task {
	m := server
	m.Title = local.Title
	if d.Priority != "" {
		m.Priority = d.Priority
	}
	m.Status = local.Status
	m.Completed = local.Completed
	if d.Description != "" {
		m.Description = d.Description
	}
	if d.StartDate != nil {
		m.StartDate = d.StartDate
	}
	if d.DueDate != nil {
		m.DueDate = d.DueDate
	}
	if d.Checklist != nil {
		m.Checklist = d.Checklist
	}
	return m.Clone()
}

func indexOf(tasks []model.Task, id int) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

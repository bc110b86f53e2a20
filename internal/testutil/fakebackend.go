// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"sync"

	"github.com/idilsaglam/klaboard/internal/model"
)

// ErrNotFound is returned for unknown todo ids.
var ErrNotFound = errors.New("not found")

// FakeBackend is an in-memory to-do API for testing.
type FakeBackend struct {
	mu     sync.Mutex
	todos  []model.RemoteTodo
	nextID int
	calls  map[string]int
	last   map[string]model.TodoInput

	// Error injection for testing
	ListErr   error
	CreateErr error
	UpdateErr error
	DeleteErr error

	// Gates block the matching call until a value is received (or the gate
	// is closed) or the call's context is done.
	ListGate   chan struct{}
	CreateGate chan struct{}
	UpdateGate chan struct{}
	DeleteGate chan struct{}
}

// NewFakeBackend creates an empty FakeBackend. Created todos get ids
// starting after the largest seeded one.
func NewFakeBackend() *FakeBackend {
	return &FakeBackend{
		nextID: 1,
		calls:  make(map[string]int),
		last:   make(map[string]model.TodoInput),
	}
}

// AddTodo seeds a todo.
func (f *FakeBackend) AddTodo(id int, todo string, completed bool, userID int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.todos = append(f.todos, model.RemoteTodo{ID: id, Todo: todo, Completed: completed, UserID: userID})
	if id >= f.nextID {
		f.nextID = id + 1
	}
}

// Todos returns a copy of the stored todos.
func (f *FakeBackend) Todos() []model.RemoteTodo {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.RemoteTodo(nil), f.todos...)
}

// Calls reports how many times op ("list", "create", "update", "delete")
// was entered.
func (f *FakeBackend) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

// LastInput is the body of the most recent create or update.
func (f *FakeBackend) LastInput(op string) model.TodoInput {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last[op]
}

func (f *FakeBackend) enter(op string) {
	f.mu.Lock()
	f.calls[op]++
	f.mu.Unlock()
}

func wait(ctx context.Context, gate chan struct{}) error {
	if gate == nil {
		return nil
	}
	select {
	case <-gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// List implements taskstore.Backend.
func (f *FakeBackend) List(ctx context.Context) ([]model.RemoteTodo, error) {
	f.enter("list")
	if err := wait(ctx, f.ListGate); err != nil {
		return nil, err
	}
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	return f.Todos(), nil
}

// Create implements taskstore.Backend.
func (f *FakeBackend) Create(ctx context.Context, in model.TodoInput) (model.RemoteTodo, error) {
	f.enter("create")
	if err := wait(ctx, f.CreateGate); err != nil {
		return model.RemoteTodo{}, err
	}
	if f.CreateErr != nil {
		return model.RemoteTodo{}, f.CreateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.last["create"] = in
	rt := model.RemoteTodo{ID: f.nextID, Todo: in.Todo, Completed: in.Completed, UserID: in.UserID}
	f.nextID++
	f.todos = append([]model.RemoteTodo{rt}, f.todos...)
	return rt, nil
}

// Update implements taskstore.Backend.
func (f *FakeBackend) Update(ctx context.Context, id int, in model.TodoInput) (model.RemoteTodo, error) {
	f.enter("update")
	if err := wait(ctx, f.UpdateGate); err != nil {
		return model.RemoteTodo{}, err
	}
	if f.UpdateErr != nil {
		return model.RemoteTodo{}, f.UpdateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.last["update"] = in
	for i, t := range f.todos {
		if t.ID == id {
			f.todos[i].Todo = in.Todo
			f.todos[i].Completed = in.Completed
			return f.todos[i], nil
		}
	}
	return model.RemoteTodo{}, ErrNotFound
}

// Delete implements taskstore.Backend.
func (f *FakeBackend) Delete(ctx context.Context, id int) error {
	f.enter("delete")
	if err := wait(ctx, f.DeleteGate); err != nil {
		return err
	}
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.todos {
		if t.ID == id {
			f.todos = append(f.todos[:i], f.todos[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

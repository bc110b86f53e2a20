package testutil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/idilsaglam/klaboard/internal/model"
)

// Request is what Server saw for one call.
type Request struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   model.TodoInput
	Raw    string // body as sent
}

// Server serves the to-do API contract from a FakeBackend.
// Backend errors become 500 responses; unknown ids become 404.
type Server struct {
	*httptest.Server
	Backend *FakeBackend

	mu       sync.Mutex
	requests []Request
}

// NewServer starts a Server that is closed when the test ends.
func NewServer(t *testing.T, backend *FakeBackend) *Server {
	t.Helper()
	s := &Server{Backend: backend}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /todos", s.handleList)
	mux.HandleFunc("POST /todos/add", s.handleCreate)
	mux.HandleFunc("PUT /todos/{id}", s.handleUpdate)
	mux.HandleFunc("DELETE /todos/{id}", s.handleDelete)

	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

// Requests returns every recorded request in arrival order.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

func (s *Server) record(r *http.Request, body model.TodoInput, raw []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, Request{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.RawQuery,
		Header: r.Header.Clone(),
		Body:   body,
		Raw:    string(raw),
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	s.record(r, model.TodoInput{}, nil)
	todos, err := s.Backend.List(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	limit := len(todos)
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n < limit {
			limit = n
		}
	}
	writeJSON(w, http.StatusOK, model.ListResponse{
		Todos: todos[:limit],
		Total: len(todos),
		Skip:  0,
		Limit: limit,
	})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	in, raw, ok := decode(w, r)
	s.record(r, in, raw)
	if !ok {
		return
	}
	rt, err := s.Backend.Create(r.Context(), in)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rt)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	in, raw, ok := decode(w, r)
	s.record(r, in, raw)
	if !ok {
		return
	}
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Error(w, "bad id", http.StatusBadRequest)
		return
	}
	rt, err := s.Backend.Update(r.Context(), id, in)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rt)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	s.record(r, model.TodoInput{}, nil)
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Error(w, "bad id", http.StatusBadRequest)
		return
	}
	if err := s.Backend.Delete(r.Context(), id); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "isDeleted": true})
}

func decode(w http.ResponseWriter, r *http.Request) (model.TodoInput, []byte, bool) {
	var in model.TodoInput
	raw, err := io.ReadAll(r.Body)
	if err == nil {
		err = json.Unmarshal(raw, &in)
	}
	if err != nil {
		http.Error(w, "bad body", http.StatusBadRequest)
		return in, raw, false
	}
	return in, raw, true
}

func writeErr(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	if errors.Is(err, ErrNotFound) {
		code = http.StatusNotFound
	}
	http.Error(w, err.Error(), code)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

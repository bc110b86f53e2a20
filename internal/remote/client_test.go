package remote_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/klaboard/internal/config"
	"github.com/idilsaglam/klaboard/internal/model"
	"github.com/idilsaglam/klaboard/internal/remote"
	"github.com/idilsaglam/klaboard/internal/testutil"
)

func newClient(t *testing.T, url string, opts ...remote.Option) *remote.Client {
	t.Helper()
	cfg := config.Default().API
	cfg.BaseURL = url
	cfg.RateLimit = 0
	c, err := remote.New(cfg, opts...)
	require.NoError(t, err)
	return c
}

func TestClient_List(t *testing.T) {
	fake := testutil.NewFakeBackend()
	fake.AddTodo(1, "A", false, 1)
	fake.AddTodo(2, "B", true, 3)
	srv := testutil.NewServer(t, fake)

	todos, err := newClient(t, srv.URL).List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.RemoteTodo{
		{ID: 1, Todo: "A", Completed: false, UserID: 1},
		{ID: 2, Todo: "B", Completed: true, UserID: 3},
	}, todos)

	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodGet, reqs[0].Method)
	assert.Equal(t, "/todos", reqs[0].Path)
	assert.Equal(t, "limit=30", reqs[0].Query)
	_, err = uuid.Parse(reqs[0].Header.Get("X-Request-Id"))
	assert.NoError(t, err, "request id is a uuid")
	assert.Empty(t, reqs[0].Header.Get("Authorization"))
}

func TestClient_CreateUpdateDelete(t *testing.T) {
	fake := testutil.NewFakeBackend()
	fake.AddTodo(5, "old", false, 1)
	srv := testutil.NewServer(t, fake)
	c := newClient(t, srv.URL, remote.WithToken("s3cret"))
	ctx := context.Background()

	created, err := c.Create(ctx, model.TodoInput{Todo: "new", Completed: false, UserID: 1})
	require.NoError(t, err)
	assert.Equal(t, 6, created.ID)
	assert.Equal(t, "new", created.Todo)

	updated, err := c.Update(ctx, 5, model.TodoInput{Todo: "renamed", Completed: true, UserID: 9})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Todo)
	assert.True(t, updated.Completed)

	require.NoError(t, c.Delete(ctx, 6))

	reqs := srv.Requests()
	require.Len(t, reqs, 3)

	assert.Equal(t, http.MethodPost, reqs[0].Method)
	assert.Equal(t, "/todos/add", reqs[0].Path)
	assert.Equal(t, model.TodoInput{Todo: "new", UserID: 1}, reqs[0].Body)
	assert.Equal(t, "application/json", reqs[0].Header.Get("Content-Type"))

	assert.Equal(t, http.MethodPut, reqs[1].Method)
	assert.Equal(t, "/todos/5", reqs[1].Path)
	assert.Equal(t, model.TodoInput{Todo: "renamed", Completed: true}, reqs[1].Body)
	assert.JSONEq(t, `{"todo":"new","completed":false,"userId":1}`, reqs[0].Raw)
	assert.JSONEq(t, `{"todo":"renamed","completed":true}`, reqs[1].Raw, "update omits userId")

	assert.Equal(t, http.MethodDelete, reqs[2].Method)
	assert.Equal(t, "/todos/6", reqs[2].Path)

	for _, r := range reqs {
		assert.Equal(t, "Bearer s3cret", r.Header.Get("Authorization"))
	}
}

func TestClient_StatusErrors(t *testing.T) {
	fake := testutil.NewFakeBackend()
	fake.ListErr = errors.New("boom")
	fake.CreateErr = errors.New("boom")
	fake.UpdateErr = errors.New("boom")
	fake.DeleteErr = errors.New("boom")
	srv := testutil.NewServer(t, fake)
	c := newClient(t, srv.URL)
	ctx := context.Background()

	_, err := c.List(ctx)
	assertStatus(t, err, remote.ErrFetch, http.StatusInternalServerError)

	_, err = c.Create(ctx, model.TodoInput{Todo: "x"})
	assertStatus(t, err, remote.ErrCreate, http.StatusInternalServerError)

	_, err = c.Update(ctx, 1, model.TodoInput{Todo: "x"})
	assertStatus(t, err, remote.ErrUpdate, http.StatusInternalServerError)

	err = c.Delete(ctx, 1)
	assertStatus(t, err, remote.ErrDelete, http.StatusInternalServerError)
}

func TestClient_NotFound(t *testing.T) {
	srv := testutil.NewServer(t, testutil.NewFakeBackend())
	err := newClient(t, srv.URL).Delete(context.Background(), 404)
	assertStatus(t, err, remote.ErrDelete, http.StatusNotFound)
}

func TestClient_TransportErrorKeepsSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := newClient(t, url).List(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, remote.ErrFetch)
}

func TestClient_DecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	_, err := newClient(t, srv.URL).List(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, remote.ErrFetch)
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	cfg := config.Default().API
	cfg.BaseURL = srv.URL
	cfg.Timeout = 20 * time.Millisecond
	c, err := remote.New(cfg)
	require.NoError(t, err)

	_, err = c.List(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, remote.ErrFetch)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNew_RejectsRelativeURL(t *testing.T) {
	cfg := config.Default().API
	cfg.BaseURL = "dummyjson.com"
	_, err := remote.New(cfg)
	assert.Error(t, err)
}

func assertStatus(t *testing.T, err error, op error, code int) {
	t.Helper()
	require.Error(t, err)
	assert.ErrorIs(t, err, op)
	var se *remote.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, code, se.StatusCode)
}

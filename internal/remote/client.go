// Package remote talks to the dummyjson-style to-do API.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/idilsaglam/klaboard/internal/config"
	"github.com/idilsaglam/klaboard/internal/model"
)

// maxErrorBody caps how much of a failed response ends up in errors.
const maxErrorBody = 512

// Client implements the task store's backend over HTTP.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	limiter *rate.Limiter
	limit   int
	timeout time.Duration
	token   string
	log     *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient swaps the underlying HTTP client (for testing).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithToken sends an Authorization: Bearer header on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New creates a client for the API described by cfg.
func New(cfg config.API, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url must be absolute: %q", cfg.BaseURL)
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}

	c := &Client{
		baseURL: u,
		http:    http.DefaultClient,
		limiter: rate.NewLimiter(limit, burst),
		limit:   cfg.Limit,
		timeout: cfg.Timeout,
		log:     slog.New(slog.DiscardHandler),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// List fetches the first page of todos.
func (c *Client) List(ctx context.Context) ([]model.RemoteTodo, error) {
	q := url.Values{}
	if c.limit > 0 {
		q.Set("limit", strconv.Itoa(c.limit))
	}
	var resp model.ListResponse
	if err := c.do(ctx, ErrFetch, http.MethodGet, "/todos", q, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Todos, nil
}

// Create adds a todo and returns the server's record.
func (c *Client) Create(ctx context.Context, in model.TodoInput) (model.RemoteTodo, error) {
	var out model.RemoteTodo
	if err := c.do(ctx, ErrCreate, http.MethodPost, "/todos/add", nil, in, &out); err != nil {
		return model.RemoteTodo{}, err
	}
	return out, nil
}

// updateBody is the PUT payload; the owner of a todo never changes.
type updateBody struct {
	Todo      string `json:"todo"`
	Completed bool   `json:"completed"`
}

// Update replaces the title and completion of a todo.
func (c *Client) Update(ctx context.Context, id int, in model.TodoInput) (model.RemoteTodo, error) {
	body := updateBody{Todo: in.Todo, Completed: in.Completed}
	var out model.RemoteTodo
	if err := c.do(ctx, ErrUpdate, http.MethodPut, todoPath(id), nil, body, &out); err != nil {
		return model.RemoteTodo{}, err
	}
	return out, nil
}

// Delete removes a todo. The response body is ignored.
func (c *Client) Delete(ctx context.Context, id int) error {
	return c.do(ctx, ErrDelete, http.MethodDelete, todoPath(id), nil, nil, nil)
}

func todoPath(id int) string { return "/todos/" + strconv.Itoa(id) }

// do performs one request. body is JSON-encoded when non-nil; out is decoded
// from a success response when non-nil.
func (c *Client) do(ctx context.Context, op error, method, path string, q url.Values, body, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return &opError{op: op, err: err}
	}

	u := *c.baseURL
	u.Path = c.baseURL.Path + path
	u.RawQuery = q.Encode()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return &opError{op: op, err: fmt.Errorf("encode body: %w", err)}
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), rdr)
	if err != nil {
		return &opError{op: op, err: err}
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", reqID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("request failed", "method", method, "path", path, "request_id", reqID, "err", err)
		return &opError{op: op, err: err}
	}
	defer resp.Body.Close()

	c.log.Debug("request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", reqID,
		"elapsed", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Op: op, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &opError{op: op, err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

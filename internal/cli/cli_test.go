package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/klaboard/internal/auth"
	"github.com/idilsaglam/klaboard/internal/cli"
	"github.com/idilsaglam/klaboard/internal/config"
	"github.com/idilsaglam/klaboard/internal/exitcode"
	"github.com/idilsaglam/klaboard/internal/model"
	"github.com/idilsaglam/klaboard/internal/store/jsonstore"
	"github.com/idilsaglam/klaboard/internal/store/taskstore"
	"github.com/idilsaglam/klaboard/internal/testutil"
)

type result struct {
	code int
	out  string
	err  string
}

// env is one isolated config directory plus a fake backend.
type env struct {
	t     *testing.T
	dir   string
	fake  *testutil.FakeBackend
	token string // last token handed to the factory
}

func newEnv(t *testing.T) *env {
	t.Helper()
	t.Setenv(auth.EnvToken, "")
	fake := testutil.NewFakeBackend()
	fake.AddTodo(3, "Write docs", false, 1)
	fake.AddTodo(1, "Fix bug", false, 1)
	fake.AddTodo(4, "Ship", true, 1)
	return &env{t: t, dir: t.TempDir(), fake: fake}
}

func (e *env) factory(cfg *config.Config, token string, log *slog.Logger) (taskstore.Backend, error) {
	e.token = token
	return e.fake, nil
}

func (e *env) run(args ...string) result {
	return e.runWith(e.factory, args...)
}

func (e *env) runWith(factory cli.BackendFactory, args ...string) result {
	e.t.Helper()
	var out, errOut bytes.Buffer
	args = append(args, "--config-dir", e.dir, "--no-color")
	code := cli.Run(context.Background(), args, &out, &errOut, factory)
	return result{code: code, out: out.String(), err: errOut.String()}
}

func decodeTasks(t *testing.T, s string) []model.Task {
	t.Helper()
	var tasks []model.Task
	require.NoError(t, json.Unmarshal([]byte(s), &tasks))
	return tasks
}

func titles(tasks []model.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Title)
	}
	return out
}

func TestLs_JSON(t *testing.T) {
	e := newEnv(t)
	r := e.run("ls", "--json")
	require.Equal(t, exitcode.Success, r.code, r.err)

	tasks := decodeTasks(t, r.out)
	require.Len(t, tasks, 3)
	assert.Equal(t, []string{"Write docs", "Fix bug", "Ship"}, titles(tasks))
	assert.Equal(t, model.StatusTodo, tasks[0].Status)
	assert.Equal(t, model.StatusProgress, tasks[1].Status)
	assert.Equal(t, model.StatusDone, tasks[2].Status)
	assert.Equal(t, "Description for task: Fix bug", tasks[1].Description)
}

func TestLs_FilterAndSort(t *testing.T) {
	e := newEnv(t)

	r := e.run("ls", "--json", "-s", "done")
	require.Equal(t, exitcode.Success, r.code, r.err)
	assert.Equal(t, []string{"Ship"}, titles(decodeTasks(t, r.out)))

	r = e.run("ls", "--json", "--sort", "title")
	require.Equal(t, exitcode.Success, r.code, r.err)
	assert.Equal(t, []string{"Fix bug", "Ship", "Write docs"}, titles(decodeTasks(t, r.out)))

	r = e.run("ls", "--json", "-q", "DOCS")
	require.Equal(t, exitcode.Success, r.code, r.err)
	assert.Equal(t, []string{"Write docs"}, titles(decodeTasks(t, r.out)))
}

func TestLs_Views(t *testing.T) {
	e := newEnv(t)

	r := e.run("ls")
	require.Equal(t, exitcode.Success, r.code, r.err)
	assert.Contains(t, r.out, "To-do (1)")
	assert.Contains(t, r.out, "On Progress (1)")
	assert.Contains(t, r.out, "Need Review (0)")
	assert.Contains(t, r.out, "No tasks yet")
	assert.Contains(t, r.out, "#3")
	assert.Contains(t, r.out, "Write docs")

	r = e.run("ls", "-v", "list")
	require.Equal(t, exitcode.Success, r.code, r.err)
	assert.Contains(t, r.out, "Fix bug")
	assert.Contains(t, r.out, "Tip:")

	r = e.run("ls", "-v", "timeline")
	require.Equal(t, exitcode.Success, r.code, r.err)
	assert.Contains(t, r.out, "Monday")
	assert.Contains(t, r.out, "Sunday")
}

func TestLs_UserErrors(t *testing.T) {
	e := newEnv(t)

	r := e.run("ls", "-v", "grid")
	assert.Equal(t, exitcode.UserError, r.code)
	assert.Contains(t, r.err, "unknown view")

	r = e.run("ls", "-s", "someday")
	assert.Equal(t, exitcode.UserError, r.code)
	assert.Contains(t, r.err, "unknown status")

	r = e.run("ls", "--sort", "size")
	assert.Equal(t, exitcode.UserError, r.code)

	assert.Equal(t, 0, e.fake.Calls("list"), "nothing fetched for bad input")
}

func TestLs_BackendError(t *testing.T) {
	e := newEnv(t)
	e.fake.ListErr = errors.New("connection refused")

	r := e.run("ls")
	assert.Equal(t, exitcode.BackendError, r.code)
	assert.Contains(t, r.err, "Something went wrong")
	assert.Contains(t, r.err, "connection refused")
}

func TestAdd(t *testing.T) {
	e := newEnv(t)

	r := e.run("add", "Buy", "milk", "-p", "high", "--due", "2026-04-01")
	require.Equal(t, exitcode.Success, r.code, r.err)
	assert.Contains(t, r.out, "Task Created")
	assert.Contains(t, r.out, "#5 Buy milk")

	in := e.fake.LastInput("create")
	assert.Equal(t, "Buy milk", in.Todo)
	assert.False(t, in.Completed)
	assert.Equal(t, 1, in.UserID)
	assert.Equal(t, 0, e.fake.Calls("list"))
}

func TestAdd_Errors(t *testing.T) {
	e := newEnv(t)

	r := e.run("add", "x", "-p", "urgent")
	assert.Equal(t, exitcode.UserError, r.code)

	r = e.run("add", "x", "--due", "next week")
	assert.Equal(t, exitcode.UserError, r.code)
	assert.Contains(t, r.err, "bad date")

	r = e.run("add", "  ")
	assert.Equal(t, exitcode.UserError, r.code)

	e.fake.CreateErr = errors.New("boom")
	r = e.run("add", "Buy milk")
	assert.Equal(t, exitcode.BackendError, r.code)
	assert.Contains(t, r.err, "Creation Failed")
	assert.NotContains(t, r.out, "Buy milk")
}

func TestEdit(t *testing.T) {
	e := newEnv(t)

	r := e.run("edit", "3", "-t", "Write more docs", "-s", "done")
	require.Equal(t, exitcode.Success, r.code, r.err)
	assert.Contains(t, r.out, "Task Updated")

	in := e.fake.LastInput("update")
	assert.Equal(t, "Write more docs", in.Todo)
	assert.True(t, in.Completed)

	r = e.run("edit", "99", "-t", "x")
	assert.Equal(t, exitcode.UserError, r.code)
	assert.Contains(t, r.err, "task not found")
}

func TestMvAndDone(t *testing.T) {
	e := newEnv(t)

	r := e.run("mv", "3", "review")
	require.Equal(t, exitcode.Success, r.code, r.err)
	assert.Equal(t, "Write docs", e.fake.LastInput("update").Todo)
	assert.False(t, e.fake.LastInput("update").Completed)

	r = e.run("done", "3")
	require.Equal(t, exitcode.Success, r.code, r.err)
	assert.True(t, e.fake.LastInput("update").Completed)

	r = e.run("done", "4")
	require.Equal(t, exitcode.Success, r.code, r.err)
	assert.False(t, e.fake.LastInput("update").Completed)

	r = e.run("mv", "3", "later")
	assert.Equal(t, exitcode.UserError, r.code)

	r = e.run("mv", "99", "done")
	assert.Equal(t, exitcode.UserError, r.code)
}

func TestMv_BackendFailure(t *testing.T) {
	e := newEnv(t)
	e.fake.UpdateErr = errors.New("boom")

	r := e.run("mv", "3", "done")
	assert.Equal(t, exitcode.BackendError, r.code)
	assert.Contains(t, r.err, "Update Failed")
	assert.Equal(t, 1, countLines(r.err), "failure reported once")
}

func countLines(s string) int {
	return bytes.Count([]byte(s), []byte("\n"))
}

func TestRm(t *testing.T) {
	e := newEnv(t)

	r := e.run("rm", "3")
	require.Equal(t, exitcode.Success, r.code, r.err)
	assert.Contains(t, r.out, "Task Deleted")
	assert.Len(t, e.fake.Todos(), 2)
	assert.Equal(t, 0, e.fake.Calls("list"))

	r = e.run("rm", "abc")
	assert.Equal(t, exitcode.UserError, r.code)
	assert.Contains(t, r.err, "not a task id")

	e.fake.DeleteErr = errors.New("boom")
	r = e.run("rm", "1")
	assert.Equal(t, exitcode.BackendError, r.code)
	assert.Contains(t, r.err, "Deletion Failed")
}

func TestInvalidConfig(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, os.WriteFile(filepath.Join(e.dir, config.FileName), []byte("ui:\n  default_view: grid\n"), 0o644))

	r := e.run("ls")
	assert.Equal(t, exitcode.ConfigError, r.code)
	assert.Contains(t, r.err, "ui.default_view")
	assert.Equal(t, 0, e.fake.Calls("list"))
}

func TestConfigDefaultView(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, os.WriteFile(filepath.Join(e.dir, config.FileName), []byte("ui:\n  default_view: timeline\n"), 0o644))

	r := e.run("ls")
	require.Equal(t, exitcode.Success, r.code, r.err)
	assert.Contains(t, r.out, "Monday")
}

func TestLangAndTheme(t *testing.T) {
	e := newEnv(t)

	r := e.run("lang", "fr")
	require.Equal(t, exitcode.Success, r.code, r.err)
	assert.Contains(t, r.out, "Langue: Français")

	prefs, err := jsonstore.Load(e.dir)
	require.NoError(t, err)
	assert.Equal(t, jsonstore.LangFrench, prefs.Language)

	r = e.run("ls")
	require.Equal(t, exitcode.Success, r.code, r.err)
	assert.Contains(t, r.out, "À faire (1)")

	r = e.run("lang")
	require.Equal(t, exitcode.Success, r.code, r.err)
	assert.Contains(t, r.out, "(fr)")

	r = e.run("lang", "de")
	assert.Equal(t, exitcode.UserError, r.code)

	r = e.run("theme", "dark")
	require.Equal(t, exitcode.Success, r.code, r.err)
	prefs, err = jsonstore.Load(e.dir)
	require.NoError(t, err)
	assert.Equal(t, jsonstore.ThemeDark, prefs.Theme)
	assert.Equal(t, jsonstore.LangFrench, prefs.Language, "language kept")

	r = e.run("theme", "neon")
	assert.Equal(t, exitcode.UserError, r.code)
}

func TestLoginLogout(t *testing.T) {
	e := newEnv(t)

	r := e.run("login", "Bearer s3cret")
	require.Equal(t, exitcode.Success, r.code, r.err)
	assert.FileExists(t, auth.Store{Dir: e.dir}.Path())

	r = e.run("ls")
	require.Equal(t, exitcode.Success, r.code, r.err)
	assert.Equal(t, "s3cret", e.token)

	r = e.run("logout")
	require.Equal(t, exitcode.Success, r.code, r.err)
	assert.NoFileExists(t, auth.Store{Dir: e.dir}.Path())

	r = e.run("ls")
	require.Equal(t, exitcode.Success, r.code, r.err)
	assert.Empty(t, e.token)
}

func TestConfigCommands(t *testing.T) {
	e := newEnv(t)

	r := e.run("config", "init")
	require.Equal(t, exitcode.Success, r.code, r.err)
	assert.FileExists(t, filepath.Join(e.dir, config.FileName))

	r = e.run("config", "init")
	assert.Equal(t, exitcode.ConfigError, r.code)
	assert.Contains(t, r.err, "already exists")

	r = e.run("config", "init", "-f")
	assert.Equal(t, exitcode.Success, r.code, r.err)

	r = e.run("config", "path")
	require.Equal(t, exitcode.Success, r.code, r.err)
	assert.Contains(t, r.out, filepath.Join(e.dir, config.FileName))
	assert.Contains(t, r.out, jsonstore.Path(e.dir))

	r = e.run("config", "env")
	require.Equal(t, exitcode.Success, r.code, r.err)
	assert.Contains(t, r.out, "KLABOARD_API_URL")
	assert.Contains(t, r.out, "KLABOARD_LOG_LEVEL")

	// the written defaults load cleanly
	r = e.run("ls", "--json")
	assert.Equal(t, exitcode.Success, r.code, r.err)
}

func TestConfigPath_WorksWithBrokenConfig(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, os.WriteFile(filepath.Join(e.dir, config.FileName), []byte("log:\n  level: loud\n"), 0o644))

	r := e.run("config", "path")
	assert.Equal(t, exitcode.Success, r.code, r.err)
}

func TestRemoteBackend(t *testing.T) {
	e := newEnv(t)
	srv := testutil.NewServer(t, e.fake)
	t.Setenv("KLABOARD_API_URL", srv.URL)

	r := e.runWith(cli.RemoteBackend, "login", "tok")
	require.Equal(t, exitcode.Success, r.code, r.err)

	r = e.runWith(cli.RemoteBackend, "ls", "--json")
	require.Equal(t, exitcode.Success, r.code, r.err)
	assert.Len(t, decodeTasks(t, r.out), 3)

	r = e.runWith(cli.RemoteBackend, "done", "1")
	require.Equal(t, exitcode.Success, r.code, r.err)

	reqs := srv.Requests()
	require.Len(t, reqs, 3)
	assert.Equal(t, "GET", reqs[0].Method)
	assert.Equal(t, "/todos", reqs[0].Path)
	assert.Equal(t, "limit=30", reqs[0].Query)
	assert.Equal(t, "Bearer tok", reqs[0].Header.Get("Authorization"))
	assert.Equal(t, "PUT", reqs[2].Method)
	assert.Equal(t, "/todos/1", reqs[2].Path)
	assert.True(t, reqs[2].Body.Completed)

	e.fake.ListErr = errors.New("down")
	r = e.runWith(cli.RemoteBackend, "ls")
	assert.Equal(t, exitcode.BackendError, r.code)
	assert.Contains(t, r.err, "failed to fetch todos")
}

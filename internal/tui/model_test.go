package tui

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/klaboard/internal/model"
	"github.com/idilsaglam/klaboard/internal/store/jsonstore"
	"github.com/idilsaglam/klaboard/internal/store/taskstore"
	"github.com/idilsaglam/klaboard/internal/testutil"
)

// Wednesday
var fixedNow = time.Date(2026, 3, 11, 15, 30, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

type harness struct {
	m     Model
	store *taskstore.Store
	fake  *testutil.FakeBackend
	dir   string
}

// newHarness seeds three todos: 3 lands in todo, 1 in progress and the
// completed 4 in done.
func newHarness(t *testing.T) *harness {
	t.Helper()
	fake := testutil.NewFakeBackend()
	fake.AddTodo(3, "Write docs", false, 1)
	fake.AddTodo(1, "Fix bug", false, 1)
	fake.AddTodo(4, "Ship", true, 1)

	n := NewNotifier()
	s := taskstore.New(fake,
		taskstore.WithClock(clock),
		taskstore.WithNotifier(n),
		taskstore.WithRefreshAfterMutation(false),
	)
	t.Cleanup(s.Close)

	dir := t.TempDir()
	m := New(Options{
		Store:             s,
		Notices:           n,
		PrefsDir:          dir,
		View:              "board",
		Now:               clock,
		HasDarkBackground: func() bool { return true },
	})
	t.Cleanup(m.Close)
	return &harness{m: m, store: s, fake: fake, dir: dir}
}

// send delivers msg and returns the resulting command without running it.
func (h *harness) send(msg tea.Msg) tea.Cmd {
	next, cmd := h.m.Update(msg)
	h.m = next.(Model)
	return cmd
}

func (h *harness) press(k string) {
	h.send(keyMsg(k))
}

// act sends a key that starts a store call, runs the call and feeds back
// both the outcome and the store's latest snapshot.
func (h *harness) act(t *testing.T, k string) {
	t.Helper()
	cmd := h.send(keyMsg(k))
	require.NotNil(t, cmd, "key %q started nothing", k)
	done, ok := cmd().(opDoneMsg)
	require.True(t, ok)
	h.send(done)
	h.sync()
}

func (h *harness) sync() {
	h.send(snapshotMsg(h.store.Snapshot()))
}

func (h *harness) load(t *testing.T) {
	t.Helper()
	msg := h.m.load()()
	h.send(msg)
	h.sync()
}

func (h *harness) typeText(s string) {
	h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func (h *harness) notice(t *testing.T) taskstore.Notice {
	t.Helper()
	select {
	case n := <-h.m.notices.ch:
		return n
	case <-time.After(time.Second):
		t.Fatal("no notice")
	}
	return taskstore.Notice{}
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func TestView_LoadingThenBoard(t *testing.T) {
	h := newHarness(t)
	assert.Contains(t, h.m.View(), "Loading...")

	h.load(t)
	out := h.m.View()
	assert.Contains(t, out, "To-do (1)")
	assert.Contains(t, out, "On Progress (1)")
	assert.Contains(t, out, "Need Review (0)")
	assert.Contains(t, out, "Done (1)")
	assert.Contains(t, out, "Write docs")
	assert.Contains(t, out, "No tasks yet")
}

func TestView_ErrorScreenWithoutTasks(t *testing.T) {
	h := newHarness(t)
	h.fake.ListErr = errors.New("boom")
	h.load(t)

	out := h.m.View()
	assert.Contains(t, out, "Something went wrong")
	assert.Contains(t, out, "press r to retry")

	h.fake.ListErr = nil
	h.act(t, "r")
	assert.Contains(t, h.m.View(), "To-do (1)")
}

func TestRefreshFailureKeepsTasks(t *testing.T) {
	h := newHarness(t)
	h.load(t)

	h.fake.ListErr = errors.New("boom")
	h.act(t, "r")

	assert.Len(t, h.m.snap.Tasks, 3)
	assert.True(t, h.m.statusErr)
	assert.Contains(t, h.m.status, "press r to retry")
	assert.Contains(t, h.m.View(), "Write docs")
}

func TestSwitchViews(t *testing.T) {
	h := newHarness(t)
	h.load(t)
	require.Equal(t, boardView, h.m.active)

	h.press("tab")
	assert.Equal(t, listView, h.m.active)
	assert.Contains(t, h.m.View(), "Fix bug")

	h.press("3")
	assert.Equal(t, timelineView, h.m.active)
	assert.Contains(t, h.m.View(), "March 2026")

	h.press("tab")
	assert.Equal(t, boardView, h.m.active)

	h.press("2")
	assert.Equal(t, listView, h.m.active)
	h.press("1")
	assert.Equal(t, boardView, h.m.active)
}

func TestNew_DefaultViewFromOptions(t *testing.T) {
	assert.Equal(t, timelineView, parseView("timeline"))
	assert.Equal(t, boardView, parseView("nope"))
}

func TestToggle_FollowsTaskToDoneColumn(t *testing.T) {
	h := newHarness(t)
	h.load(t)

	h.act(t, " ")

	task, ok := h.store.Find(3)
	require.True(t, ok)
	assert.True(t, task.Completed)
	assert.Equal(t, model.StatusDone, task.Status)
	assert.Equal(t, 3, h.m.col)
	assert.Equal(t, 0, h.m.row)

	n := h.notice(t)
	h.send(noticeMsg(n))
	assert.Contains(t, h.m.status, "Task Updated")
	assert.False(t, h.m.statusErr)
}

func TestMoveRight(t *testing.T) {
	h := newHarness(t)
	h.load(t)

	h.act(t, ">")

	task, _ := h.store.Find(3)
	assert.Equal(t, model.StatusProgress, task.Status)
	assert.Equal(t, "Write docs", h.fake.LastInput("update").Todo)
	assert.Equal(t, 1, h.m.col)
	assert.Contains(t, h.m.View(), "On Progress (2)")

	h.act(t, "<")
	task, _ = h.store.Find(3)
	assert.Equal(t, model.StatusTodo, task.Status)
}

func TestMoveLeftAtFirstColumnIsNoop(t *testing.T) {
	h := newHarness(t)
	h.load(t)

	h.press("<")
	assert.Equal(t, 0, h.fake.Calls("update"))
}

func TestUpdateFailureShowsNotice(t *testing.T) {
	h := newHarness(t)
	h.load(t)
	h.fake.UpdateErr = errors.New("nope")

	h.act(t, " ")

	task, _ := h.store.Find(3)
	assert.False(t, task.Completed, "rolled back")
	n := h.notice(t)
	h.send(noticeMsg(n))
	assert.True(t, h.m.statusErr)
	assert.Contains(t, h.m.status, "Update Failed")
}

func TestAddTask(t *testing.T) {
	h := newHarness(t)
	h.load(t)

	h.press("l") // on progress column
	h.press("a")
	require.Equal(t, adding, h.m.mode)
	assert.Contains(t, h.m.View(), "Create Task")

	h.typeText("Plan sprint")
	h.act(t, "enter")

	assert.Equal(t, normal, h.m.mode)
	assert.Equal(t, 1, h.fake.Calls("create"))
	tasks := h.store.Tasks()
	require.Len(t, tasks, 4)
	assert.Equal(t, "Plan sprint", tasks[0].Title)
	assert.Equal(t, model.StatusProgress, tasks[0].Status)
	assert.Contains(t, h.m.View(), "On Progress (2)")

	n := h.notice(t)
	assert.Equal(t, taskstore.OpCreate, n.Op)
}

func TestAddTask_EmptyTitle(t *testing.T) {
	h := newHarness(t)
	h.load(t)

	h.press("a")
	h.typeText("   ")
	h.press("enter")

	assert.Equal(t, adding, h.m.mode)
	assert.Equal(t, "Title cannot be empty", h.m.inputErr)
	assert.Equal(t, 0, h.fake.Calls("create"))

	h.press("esc")
	assert.Equal(t, normal, h.m.mode)
}

func TestEditTask(t *testing.T) {
	h := newHarness(t)
	h.load(t)

	h.press("e")
	require.Equal(t, editing, h.m.mode)
	assert.Equal(t, "Write docs", h.m.input.Value())

	h.typeText("!")
	h.act(t, "enter")

	assert.Equal(t, "Write docs!", h.fake.LastInput("update").Todo)
	task, _ := h.store.Find(3)
	assert.Equal(t, "Write docs!", task.Title)
}

func TestDeleteTask(t *testing.T) {
	h := newHarness(t)
	h.load(t)

	h.press("d")
	require.Equal(t, confirming, h.m.mode)
	assert.Contains(t, h.m.View(), "Are you sure you want to delete this task?")

	h.press("n")
	assert.Equal(t, normal, h.m.mode)
	assert.Equal(t, 0, h.fake.Calls("delete"))

	h.press("d")
	h.act(t, "y")
	assert.Equal(t, 1, h.fake.Calls("delete"))
	_, ok := h.store.Find(3)
	assert.False(t, ok)
	assert.Contains(t, h.m.View(), "To-do (0)")
}

func TestTimelineDetail(t *testing.T) {
	h := newHarness(t)
	h.load(t)

	h.press("3")
	assert.Equal(t, 2, h.m.day, "starts on today")
	h.press("l") // Thursday: task 1 is due

	h.press("enter")
	require.Equal(t, detail, h.m.mode)
	out := h.m.View()
	assert.Contains(t, out, "Fix bug")
	assert.Contains(t, out, "Description for task: Fix bug")
	assert.Contains(t, out, "Review requirements")
	assert.Contains(t, out, "User 1")
	assert.Contains(t, out, "1/3")

	h.press("esc")
	assert.Equal(t, normal, h.m.mode)
}

func TestToggleLanguagePersists(t *testing.T) {
	h := newHarness(t)
	h.load(t)

	h.press("L")

	assert.Contains(t, h.m.View(), "À faire (1)")
	prefs, err := jsonstore.Load(h.dir)
	require.NoError(t, err)
	assert.Equal(t, jsonstore.LangFrench, prefs.Language)

	h.press("L")
	assert.Contains(t, h.m.View(), "To-do (1)")
}

func TestToggleThemePersists(t *testing.T) {
	h := newHarness(t)
	require.True(t, h.m.styles.Dark)

	h.press("T")

	assert.False(t, h.m.styles.Dark)
	prefs, err := jsonstore.Load(h.dir)
	require.NoError(t, err)
	assert.Equal(t, jsonstore.ThemeLight, prefs.Theme)
}

func TestApplySnapshotDropsOlderVersions(t *testing.T) {
	h := newHarness(t)
	h.load(t)
	current := h.m.snap.Version

	h.send(snapshotMsg(taskstore.Snapshot{Version: current - 1}))

	assert.Equal(t, current, h.m.snap.Version)
	assert.Len(t, h.m.snap.Tasks, 3)
}

func TestSnapshotsKeepNewest(t *testing.T) {
	c := newSnapshots()
	c.push(taskstore.Snapshot{Version: 2})
	c.push(taskstore.Snapshot{Version: 1})
	c.push(taskstore.Snapshot{Version: 3})

	msg := c.wait()()
	assert.Equal(t, uint64(3), msg.(snapshotMsg).Version)
}

func TestQuit(t *testing.T) {
	h := newHarness(t)
	cmd := h.send(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestTruncateCountsCells(t *testing.T) {
	assert.Equal(t, "Ship", truncate("Ship", 4))
	assert.Equal(t, "Wri…", truncate("Write docs", 4))

	out := truncate("締め切りの確認", 8)
	assert.Equal(t, "締め切…", out)
	assert.LessOrEqual(t, lipgloss.Width(out), 8)
}

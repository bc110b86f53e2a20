// Package tui is the interactive board: three views over the task store,
// an inline task dialog, a detail panel and delete confirmation.
package tui

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/klaboard/internal/i18n"
	"github.com/idilsaglam/klaboard/internal/model"
	"github.com/idilsaglam/klaboard/internal/store/jsonstore"
	"github.com/idilsaglam/klaboard/internal/store/taskstore"
	"github.com/idilsaglam/klaboard/internal/view"
)

type viewMode int

const (
	boardView viewMode = iota
	listView
	timelineView
)

var viewKeys = [...]string{"board", "list", "timeline"}

func parseView(s string) viewMode {
	for i, k := range viewKeys {
		if k == s {
			return viewMode(i)
		}
	}
	return boardView
}

type mode int

const (
	normal mode = iota
	adding
	editing
	confirming
	detail
)

// Options wires the TUI to the application.
type Options struct {
	Store    *taskstore.Store
	Notices  *Notifier
	PrefsDir string
	Prefs    jsonstore.Prefs
	View     string
	Now      func() time.Time
	Log      *slog.Logger

	// HasDarkBackground resolves the "system" theme.
	// Defaults to lipgloss.HasDarkBackground.
	HasDarkBackground func() bool
}

// Model is the bubbletea model for the whole application.
type Model struct {
	store    *taskstore.Store
	notices  *Notifier
	snaps    snapshots
	unsub    func()
	prefsDir string
	prefs    jsonstore.Prefs
	tr       i18n.Translator
	styles   Styles
	now      func() time.Time
	log      *slog.Logger

	keys    keyMap
	help    help.Model
	spinner spinner.Model
	list    list.Model
	input   textinput.Model

	snap   taskstore.Snapshot
	active viewMode
	mode   mode

	col, row    int // board cursor
	day, dayRow int // timeline cursor
	follow      int // task id the board cursor should land on after the next snapshot
	target      int // task id the dialog, confirmation or detail panel is about

	inputErr  string
	status    string
	statusErr bool

	width, height int
}

// New builds the model and subscribes it to the store.
func New(opts Options) Model {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Log == nil {
		opts.Log = slog.New(slog.DiscardHandler)
	}
	if opts.HasDarkBackground == nil {
		opts.HasDarkBackground = lipgloss.HasDarkBackground
	}
	prefs := opts.Prefs.Normalize()

	m := Model{
		store:    opts.Store,
		notices:  opts.Notices,
		snaps:    newSnapshots(),
		prefsDir: opts.PrefsDir,
		prefs:    prefs,
		tr:       i18n.Translator{Lang: i18n.Parse(prefs.Language)},
		styles:   NewStyles(isDark(prefs.Theme, opts.HasDarkBackground)),
		now:      opts.Now,
		log:      opts.Log,
		keys:     defaultKeys(),
		help:     help.New(),
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
		active:   parseView(opts.View),
		width:    100,
		height:   30,
	}
	m.unsub = m.store.Subscribe(m.snaps.push)
	m.snap = m.store.Snapshot()

	m.list = list.New(nil, m.delegate(), m.width-4, m.height-8)
	m.list.SetShowHelp(false)
	m.list.SetShowPagination(true)
	m.list.SetShowStatusBar(true)
	m.list.SetFilteringEnabled(true)
	m.list.FilterInput.Prompt = "/ "
	m.list.SetStatusBarItemName("task", "tasks")
	m.styleList()
	m.syncList()

	m.input = textinput.New()
	m.input.Prompt = "> "
	m.input.CharLimit = 200

	m.day = todayIndex(m.now())
	return m
}

func isDark(theme string, detect func() bool) bool {
	switch theme {
	case jsonstore.ThemeLight:
		return false
	case jsonstore.ThemeDark:
		return true
	}
	return detect()
}

func todayIndex(now time.Time) int {
	for i, d := range view.Week(nil, now) {
		if d.Today {
			return i
		}
	}
	return 0
}

// Close detaches the model from the store.
func (m Model) Close() {
	if m.unsub != nil {
		m.unsub()
	}
}

// Init starts the first load and the store bridges.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.snaps.wait(), waitNotice(m.notices), m.load())
}

func (m Model) load() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		_, err := s.List(context.Background())
		return opDoneMsg{op: taskstore.OpFetch, err: err}
	}
}

func (m Model) refresh() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		_, err := s.Refresh(context.Background())
		return opDoneMsg{op: taskstore.OpFetch, err: err}
	}
}

func (m Model) run(op taskstore.Op, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return opDoneMsg{op: op, err: fn(context.Background())}
	}
}

// Update and View implement Bubble Tea's Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetSize(max(msg.Width-4, 20), max(msg.Height-8, 5))
		m.help.Width = msg.Width
		return m, nil

	case snapshotMsg:
		cmd := m.applySnapshot(taskstore.Snapshot(msg))
		return m, tea.Batch(m.snaps.wait(), cmd)

	case noticeMsg:
		m.setNotice(taskstore.Notice(msg))
		return m, waitNotice(m.notices)

	case opDoneMsg:
		m.opDone(msg)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch m.mode {
		case adding, editing:
			return m.updateInput(msg)
		case confirming:
			return m.updateConfirm(msg)
		case detail:
			return m.updateDetail(msg)
		}
		return m.updateNormal(msg)
	}

	if m.active == listView {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}
	return m, nil
}

// applySnapshot adopts s unless it is older than what we have.
func (m *Model) applySnapshot(s taskstore.Snapshot) tea.Cmd {
	if s.Version < m.snap.Version {
		return nil
	}
	m.snap = s
	if m.follow != 0 {
		m.cursorTo(m.follow)
		m.follow = 0
	}
	m.clamp()
	return m.syncList()
}

func (m *Model) opDone(msg opDoneMsg) {
	err := msg.err
	var me *taskstore.MutationError
	switch {
	case err == nil:
	case errors.Is(err, taskstore.ErrSuperseded), errors.Is(err, context.Canceled), errors.Is(err, taskstore.ErrClosed):
	case errors.As(err, &me):
		// the notifier already reported it
	case msg.op == taskstore.OpFetch:
		if len(m.snap.Tasks) > 0 {
			m.status, m.statusErr = m.tr.T("error")+" · "+m.tr.T("retryHint"), true
		}
	default:
		m.status, m.statusErr = err.Error(), true
	}
	if err != nil {
		m.log.Debug("tui op finished", "op", msg.op, "err", err)
	}
}

func (m *Model) setNotice(n taskstore.Notice) {
	failed := n.Kind == taskstore.NoticeFailure
	title, desc := i18n.NoticeKeys(string(n.Op), failed)
	sym := "✔ "
	if failed {
		sym = "✖ "
	}
	m.status = sym + m.tr.T(title) + ": " + m.tr.T(desc)
	m.statusErr = failed
}

func (m Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.active == listView && m.list.SettingFilter() {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.NextView):
		m.active = (m.active + 1) % viewMode(len(viewKeys))
		return m, nil
	case key.Matches(msg, m.keys.Board):
		m.active = boardView
		return m, nil
	case key.Matches(msg, m.keys.List):
		m.active = listView
		return m, nil
	case key.Matches(msg, m.keys.Timeline):
		m.active = timelineView
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		m.status = ""
		return m, m.refresh()
	case key.Matches(msg, m.keys.Language):
		return m.toggleLanguage()
	case key.Matches(msg, m.keys.Theme):
		return m.toggleTheme()
	case key.Matches(msg, m.keys.Add):
		return m.openDialog(adding, 0, "")
	case key.Matches(msg, m.keys.MoveLeft):
		cmd := m.move(-1)
		return m, cmd
	case key.Matches(msg, m.keys.MoveRight):
		cmd := m.move(1)
		return m, cmd
	case key.Matches(msg, m.keys.Toggle):
		cmd := m.toggle()
		return m, cmd
	case key.Matches(msg, m.keys.Edit):
		if t, ok := m.selected(); ok {
			return m.openDialog(editing, t.ID, t.Title)
		}
		return m, nil
	case key.Matches(msg, m.keys.Open):
		if t, ok := m.selected(); ok {
			m.mode, m.target = detail, t.ID
		}
		return m, nil
	case key.Matches(msg, m.keys.Delete):
		if t, ok := m.selected(); ok {
			m.mode, m.target = confirming, t.ID
		}
		return m, nil
	}

	if m.active == listView {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}
	m.navigate(msg)
	return m, nil
}

// navigate moves the board or timeline cursor.
func (m *Model) navigate(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.active == timelineView {
			m.dayRow--
		} else {
			m.row--
		}
	case key.Matches(msg, m.keys.Down):
		if m.active == timelineView {
			m.dayRow++
		} else {
			m.row++
		}
	case key.Matches(msg, m.keys.Left):
		if m.active == timelineView {
			m.day, m.dayRow = m.day-1, 0
		} else {
			m.col, m.row = m.col-1, 0
		}
	case key.Matches(msg, m.keys.Right):
		if m.active == timelineView {
			m.day, m.dayRow = m.day+1, 0
		} else {
			m.col, m.row = m.col+1, 0
		}
	}
	m.clamp()
}

func (m *Model) clamp() {
	cols := view.Board(m.snap.Tasks)
	m.col = clampInt(m.col, 0, len(cols)-1)
	m.row = clampInt(m.row, 0, len(cols[m.col].Tasks)-1)

	week := view.Week(m.snap.Tasks, m.now())
	m.day = clampInt(m.day, 0, len(week)-1)
	m.dayRow = clampInt(m.dayRow, 0, len(week[m.day].Tasks)-1)
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return min(max(v, lo), hi)
}

// cursorTo puts the board cursor on the task with id, if present.
func (m *Model) cursorTo(id int) {
	for ci, col := range view.Board(m.snap.Tasks) {
		for ri, t := range col.Tasks {
			if t.ID == id {
				m.col, m.row = ci, ri
				return
			}
		}
	}
}

// selected is the task under the cursor of the active view.
func (m Model) selected() (model.Task, bool) {
	switch m.active {
	case listView:
		if it, ok := m.list.SelectedItem().(taskItem); ok {
			return m.find(it.task.ID)
		}
	case timelineView:
		week := view.Week(m.snap.Tasks, m.now())
		if m.day < len(week) && m.dayRow < len(week[m.day].Tasks) {
			return week[m.day].Tasks[m.dayRow], true
		}
	default:
		cols := view.Board(m.snap.Tasks)
		if m.col < len(cols) && m.row < len(cols[m.col].Tasks) {
			return cols[m.col].Tasks[m.row], true
		}
	}
	return model.Task{}, false
}

func (m Model) find(id int) (model.Task, bool) {
	for _, t := range m.snap.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

func (m *Model) move(delta int) tea.Cmd {
	t, ok := m.selected()
	if !ok {
		return nil
	}
	idx := clampInt(t.Status.Index()+delta, 0, len(model.Statuses)-1)
	status := model.Statuses[idx]
	if status == t.Status {
		return nil
	}
	if m.active == boardView {
		m.follow = t.ID
	}
	s, id := m.store, t.ID
	return m.run(taskstore.OpUpdate, func(ctx context.Context) error {
		return s.Move(ctx, id, status)
	})
}

func (m *Model) toggle() tea.Cmd {
	t, ok := m.selected()
	if !ok {
		return nil
	}
	if m.active == boardView {
		m.follow = t.ID
	}
	s, id := m.store, t.ID
	return m.run(taskstore.OpUpdate, func(ctx context.Context) error {
		return s.Toggle(ctx, id)
	})
}

func (m Model) openDialog(md mode, target int, value string) (tea.Model, tea.Cmd) {
	m.mode, m.target, m.inputErr = md, target, ""
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Placeholder = m.tr.T("taskTitle")
	cmd := m.input.Focus()
	return m, cmd
}

func (m Model) closeDialog() Model {
	m.mode, m.inputErr = normal, ""
	m.input.SetValue("")
	m.input.Blur()
	return m
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m.closeDialog(), nil
	case "enter":
		title := strings.TrimSpace(m.input.Value())
		if title == "" {
			m.inputErr = m.tr.T("titleRequired")
			return m, nil
		}
		md, target := m.mode, m.target
		m = m.closeDialog()
		s := m.store
		if md == adding {
			d := model.Draft{Title: title}
			if m.active == boardView {
				d.Status = model.Statuses[m.col]
			}
			return m, m.run(taskstore.OpCreate, func(ctx context.Context) error {
				_, err := s.Create(ctx, d)
				return err
			})
		}
		t, ok := m.find(target)
		if !ok {
			return m, nil
		}
		t.Title = title
		return m, m.run(taskstore.OpUpdate, func(ctx context.Context) error {
			return s.Update(ctx, t)
		})
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		m.mode = normal
		s, id := m.store, m.target
		return m, m.run(taskstore.OpDelete, func(ctx context.Context) error {
			return s.Delete(ctx, id)
		})
	case "n", "N", "esc", "q":
		m.mode = normal
	}
	return m, nil
}

func (m Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	t, ok := m.find(m.target)
	if !ok {
		m.mode = normal
		return m, nil
	}
	switch {
	case msg.String() == "esc", key.Matches(msg, m.keys.Open), key.Matches(msg, m.keys.Quit):
		m.mode = normal
	case key.Matches(msg, m.keys.Edit):
		return m.openDialog(editing, t.ID, t.Title)
	case key.Matches(msg, m.keys.Delete):
		m.mode = confirming
	case key.Matches(msg, m.keys.Toggle):
		s, id := m.store, t.ID
		return m, m.run(taskstore.OpUpdate, func(ctx context.Context) error {
			return s.Toggle(ctx, id)
		})
	}
	return m, nil
}

func (m Model) toggleLanguage() (tea.Model, tea.Cmd) {
	lang := m.tr.Lang.Next()
	m.tr.Lang = lang
	m.prefs.Language = string(lang)
	m.savePrefs()
	m.list.SetDelegate(m.delegate())
	cmd := m.syncList()
	return m, cmd
}

func (m Model) toggleTheme() (tea.Model, tea.Cmd) {
	dark := !m.styles.Dark
	m.styles = NewStyles(dark)
	m.prefs.Theme = jsonstore.ThemeLight
	if dark {
		m.prefs.Theme = jsonstore.ThemeDark
	}
	m.savePrefs()
	m.list.SetDelegate(m.delegate())
	m.styleList()
	return m, nil
}

func (m *Model) savePrefs() {
	if m.prefsDir == "" {
		return
	}
	if err := jsonstore.Save(m.prefsDir, m.prefs); err != nil {
		m.log.Warn("save prefs", "err", err)
		m.status, m.statusErr = err.Error(), true
	}
}

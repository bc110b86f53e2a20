package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/klaboard/internal/i18n"
	"github.com/idilsaglam/klaboard/internal/model"
	"github.com/idilsaglam/klaboard/internal/store/taskstore"
	"github.com/idilsaglam/klaboard/internal/view"
)

// taskItem adapts a task to bubbles/list.Item
type taskItem struct {
	task model.Task
}

func (i taskItem) Title() string       { return i.task.Title }
func (i taskItem) Description() string { return i.task.Description }
func (i taskItem) FilterValue() string { return i.task.Title + " " + i.task.Description }

// Custom delegate to control how items render (single line)
type itemDelegate struct {
	m *Model
}

func (m Model) delegate() itemDelegate { return itemDelegate{m: &m} }

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, l *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, l list.Model, index int, item list.Item) {
	it, ok := item.(taskItem)
	if !ok {
		return
	}
	prefix := "  "
	line := d.m.taskLine(it.task, true, 48)
	if index == l.Index() {
		prefix = d.m.styles.Selected.Render("> ")
	}
	fmt.Fprintln(w, prefix+line)
}

func (m *Model) styleList() {
	m.list.Styles.Title = m.styles.Title
	m.list.Styles.HelpStyle = m.styles.Help
	m.list.Styles.PaginationStyle = m.styles.Help
}

// syncList reloads the list view's items from the current snapshot.
func (m *Model) syncList() tea.Cmd {
	rows := view.Rows(m.snap.Tasks, view.Filter{})
	items := make([]list.Item, 0, len(rows))
	for _, t := range rows {
		items = append(items, taskItem{task: t})
	}
	m.list.Title = m.tr.T("list")
	return m.list.SetItems(items)
}

func (m Model) priorityLabel(p model.Priority) string {
	st := m.styles.Low
	switch p {
	case model.PriorityHigh:
		st = m.styles.High
	case model.PriorityMedium:
		st = m.styles.Medium
	}
	return st.Render(m.tr.T(string(p)))
}

// taskLine is the one-line form used by the list and timeline views.
func (m Model) taskLine(t model.Task, withStatus bool, width int) string {
	box, title := m.styles.Muted.Render(boxUnchecked), truncate(t.Title, width)
	if t.Completed {
		box, title = m.styles.Success.Render(boxChecked), m.styles.Done.Render(title)
	}
	parts := []string{box, title, m.priorityLabel(t.Priority)}
	if withStatus {
		parts = append(parts, m.styles.Accent.Render(m.tr.T(i18n.StatusKey(t.Status))))
	}
	if t.DueDate != nil {
		parts = append(parts, m.styles.Muted.Render(view.DueLabel(t.DueDate, m.now())))
	}
	return strings.Join(parts, " ")
}

// truncate fits s into max cells, ending in an ellipsis.
func truncate(s string, max int) string {
	if max < 4 || lipgloss.Width(s) <= max {
		return s
	}
	var b strings.Builder
	w := 0
	for _, r := range s {
		rw := lipgloss.Width(string(r))
		if w+rw > max-1 {
			break
		}
		b.WriteRune(r)
		w += rw
	}
	return b.String() + "…"
}

func (m Model) View() string {
	sections := []string{m.headerView(), ""}

	tasks := m.snap.Tasks
	switch {
	case len(tasks) == 0 && m.snap.State == taskstore.StateError:
		sections = append(sections,
			m.styles.Error.Render(m.tr.T("error")),
			m.styles.Muted.Render(errText(m.snap.Err)),
			"",
			m.styles.Help.Render(m.tr.T("retryHint")))
	case len(tasks) == 0 && m.snap.State != taskstore.StateReady:
		sections = append(sections, m.spinner.View()+" "+m.tr.T("loading"))
	case m.mode == detail:
		sections = append(sections, m.detailView())
	default:
		switch m.active {
		case listView:
			sections = append(sections, m.list.View())
		case timelineView:
			sections = append(sections, m.timelineView())
		default:
			sections = append(sections, m.boardView())
		}
	}

	switch m.mode {
	case adding, editing:
		sections = append(sections, m.dialogView())
	case confirming:
		sections = append(sections, m.confirmView())
	}

	sections = append(sections, "", m.statusView(), m.styles.Help.Render(m.help.View(m.keys)))
	return m.styles.Panel.Render(strings.Join(sections, "\n"))
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func (m Model) headerView() string {
	tabs := make([]string, 0, len(viewKeys))
	for i, k := range viewKeys {
		label := fmt.Sprintf("%d %s", i+1, m.tr.T(k))
		if viewMode(i) == m.active {
			tabs = append(tabs, m.styles.ActiveTab.Render(label))
		} else {
			tabs = append(tabs, m.styles.Tab.Render(label))
		}
	}

	done, total := view.Progress(m.snap.Tasks)
	counts := fmt.Sprintf("%s %d  %s %d  %s %d",
		m.styles.Success.Render("✔"), done,
		m.styles.Pending.Render("•"), total-done,
		m.styles.Accent.Render(m.tr.T("tasks")), total,
	)
	if m.snap.Fetching && total > 0 {
		counts += " " + m.spinner.View()
	}
	return lipgloss.JoinHorizontal(lipgloss.Center,
		m.styles.Title.Render("klaboard"), "  ", strings.Join(tabs, ""), "   ", counts)
}

func (m Model) statusView() string {
	if m.status == "" {
		return ""
	}
	if m.statusErr {
		return m.styles.Error.Render(m.status)
	}
	return m.styles.Success.Render(m.status)
}

func (m Model) boardView() string {
	width := max((m.width-6)/4-2, 16)
	cols := view.Board(m.snap.Tasks)
	rendered := make([]string, 0, len(cols))
	for ci, col := range cols {
		lines := []string{m.styles.Accent.Render(fmt.Sprintf("%s (%d)", m.tr.T(col.TitleKey), len(col.Tasks))), ""}
		if len(col.Tasks) == 0 {
			lines = append(lines, m.styles.Muted.Render(m.tr.T("noTasks")))
		}
		for ri, t := range col.Tasks {
			box, title := boxUnchecked, truncate(t.Title, width-2)
			if t.Completed {
				box = boxChecked
			}
			head := box + " " + title
			switch {
			case ci == m.col && ri == m.row:
				head = m.styles.Selected.Render(head)
			case t.Completed:
				head = m.styles.Done.Render(head)
			}
			meta := m.priorityLabel(t.Priority)
			if t.DueDate != nil {
				meta += " " + m.styles.Muted.Render(view.DueLabel(t.DueDate, m.now()))
			}
			lines = append(lines, head, "  "+meta)
		}
		st := m.styles.Column
		if ci == m.col {
			st = m.styles.ActiveColumn
		}
		rendered = append(rendered, st.Width(width).Render(strings.Join(lines, "\n")))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) timelineView() string {
	week := view.Week(m.snap.Tasks, m.now())
	lines := []string{m.styles.Title.Render(week[0].Date.Format("January 2006"))}
	for di, d := range week {
		label := fmt.Sprintf("%s %d", m.tr.T(d.Key), d.Date.Day())
		switch {
		case di == m.day:
			label = m.styles.Accent.Render("▶ " + label)
		case d.Today:
			label = m.styles.Pending.Render("  " + label)
		default:
			label = "  " + label
		}
		if d.Today {
			label += m.styles.Pending.Render(" •")
		}
		lines = append(lines, label)
		if len(d.Tasks) == 0 {
			lines = append(lines, "    "+m.styles.Muted.Render(m.tr.T("noTasks")))
		}
		for ri, t := range d.Tasks {
			line := m.taskLine(t, true, 40)
			if di == m.day && ri == m.dayRow {
				line = m.styles.Selected.Render("> ") + line
			} else {
				line = "  " + line
			}
			lines = append(lines, "  "+line)
		}
	}
	return strings.Join(lines, "\n")
}

func (m Model) detailView() string {
	t, ok := m.find(m.target)
	if !ok {
		return ""
	}
	label := func(k string) string { return m.styles.Muted.Render(m.tr.T(k) + ": ") }

	lines := []string{
		m.styles.Title.Render(t.Title),
		"",
		label("status") + m.tr.T(i18n.StatusKey(t.Status)),
		label("priority") + m.priorityLabel(t.Priority),
		label("description") + t.Description,
		label("startDate") + view.FormatDate(t.StartDate),
		label("dueDate") + view.FormatDate(t.DueDate) + " " + m.styles.Muted.Render(view.DueLabel(t.DueDate, m.now())),
		"",
		label("checklist") + fmt.Sprintf("%d/%d", t.ChecklistDone(), len(t.Checklist)),
	}
	for _, c := range t.Checklist {
		box := m.styles.Muted.Render(boxUnchecked)
		if c.Completed {
			box = m.styles.Success.Render(boxChecked)
		}
		lines = append(lines, "  "+box+" "+c.Text)
	}
	lines = append(lines,
		"",
		label("comments")+fmt.Sprint(t.CommentsCount)+"   "+label("attachments")+fmt.Sprint(t.AttachmentsCount),
		label("assignee")+strings.Join(t.Assignees, ", "),
		"",
		m.styles.Help.Render("esc · e "+m.tr.T("edit")+" · d "+m.tr.T("delete")+" · space "+m.tr.T("done")),
	)
	return m.styles.Dialog.Render(strings.Join(lines, "\n"))
}

func (m Model) dialogView() string {
	title := m.tr.T("createTask")
	if m.mode == editing {
		title = m.tr.T("editTask")
	}
	if m.inputErr != "" {
		title += " · " + m.styles.Error.Render(m.inputErr)
	}
	return m.styles.Dialog.Render(title + "\n" + m.input.View())
}

func (m Model) confirmView() string {
	t, _ := m.find(m.target)
	return m.styles.Dialog.Render(fmt.Sprintf("%s\n%s\n%s",
		m.styles.Error.Render(m.tr.T("deleteTask")),
		m.tr.T("deleteConfirm")+" "+m.styles.Title.Render(t.Title),
		m.styles.Help.Render("y "+m.tr.T("delete")+" · n "+m.tr.T("cancel"))))
}

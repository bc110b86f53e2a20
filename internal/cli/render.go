package cli

import (
	"fmt"

	"github.com/idilsaglam/klaboard/internal/i18n"
	"github.com/idilsaglam/klaboard/internal/model"
	"github.com/idilsaglam/klaboard/internal/ui"
	"github.com/idilsaglam/klaboard/internal/view"
)

const maxTitle = 60

// -------------- rendering helpers --------------

func (a *App) header(tasks []model.Task) []string {
	th := ui.Current()
	done, total := view.Progress(tasks)
	head := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		ui.C(th.Title, "klaboard"),
		ui.C(th.Success, th.SymDone), done,
		ui.C(th.Pending, th.SymUnchecked), total-done,
		ui.C(th.Accent, "Total"), total,
	)
	return []string{head, ui.C(th.Muted, ui.ProgressBar(done, total, 28)), ""}
}

func (a *App) priorityLabel(p model.Priority) string {
	th := ui.Current()
	c := th.Low
	switch p {
	case model.PriorityHigh:
		c = th.High
	case model.PriorityMedium:
		c = th.Medium
	}
	return ui.C(c, "["+a.tr.T(string(p))+"]")
}

// taskLine renders one task: id, checkbox, title, priority and due date.
func (a *App) taskLine(t model.Task, withStatus bool) string {
	th := ui.Current()
	box, color := th.BoxUnchecked, th.Muted
	title := ui.Truncate(t.Title, maxTitle)
	if t.Completed {
		box, color = th.BoxChecked, th.Success
		title = ui.C(th.Muted, title)
	}
	line := fmt.Sprintf("%s %s %s %s",
		ui.C(th.Muted, fmt.Sprintf("#%-4d", t.ID)), ui.C(color, box), title, a.priorityLabel(t.Priority))
	if withStatus {
		line += " " + ui.C(th.Accent, a.tr.T(i18n.StatusKey(t.Status)))
	}
	if t.DueDate != nil {
		line += " " + ui.C(th.Muted, a.tr.T("dueDate")+" "+view.DueLabel(t.DueDate, a.Now()))
	}
	return line
}

func (a *App) flatLines(tasks []model.Task, withStatus bool) []string {
	if len(tasks) == 0 {
		return []string{ui.C(ui.Current().Muted, a.tr.T("noTasks"))}
	}
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, a.taskLine(t, withStatus))
	}
	return out
}

func (a *App) renderList(tasks []model.Task) {
	lines := a.header(tasks)
	lines = append(lines, a.flatLines(tasks, true)...)
	lines = append(lines, "", ui.C(ui.Current().Muted, "Tip: add with `klaboard add \"Buy milk\"`"))
	ui.Panel(a.Out, lines)
}

func (a *App) renderBoard(tasks []model.Task) {
	th := ui.Current()
	lines := a.header(tasks)
	for i, col := range view.Board(tasks) {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, ui.C(th.Accent, fmt.Sprintf("%s (%d)", a.tr.T(col.TitleKey), len(col.Tasks))))
		lines = append(lines, a.flatLines(col.Tasks, false)...)
	}
	ui.Panel(a.Out, lines)
}

func (a *App) renderTimeline(tasks []model.Task) {
	th := ui.Current()
	week := view.Week(tasks, a.Now())
	lines := []string{ui.C(th.Title, week[0].Date.Format("January 2006")), ""}
	for _, d := range week {
		label := fmt.Sprintf("%s %d", a.tr.T(d.Key), d.Date.Day())
		if d.Today {
			label = ui.C(th.Pending, "▶ "+label)
		} else {
			label = ui.C(th.Accent, "  "+label)
		}
		lines = append(lines, label)
		lines = append(lines, a.flatLines(d.Tasks, true)...)
	}
	ui.Panel(a.Out, lines)
}

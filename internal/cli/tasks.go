package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/klaboard/internal/config"
	"github.com/idilsaglam/klaboard/internal/exitcode"
	"github.com/idilsaglam/klaboard/internal/model"
	"github.com/idilsaglam/klaboard/internal/store/taskstore"
	"github.com/idilsaglam/klaboard/internal/ui"
	"github.com/idilsaglam/klaboard/internal/view"
)

func (a *App) lsCmd() *cobra.Command {
	var (
		viewName, status, priority, search, sortBy string
		asJSON                                     bool
	)
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List tasks as a board, a list or a week timeline",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseFilter(status, priority, search, sortBy)
			if err != nil {
				return userErr(err)
			}
			if viewName == "" {
				viewName = a.cfg.UI.DefaultView
			}
			if !slices.Contains(config.Views, viewName) {
				return userErr(fmt.Errorf("unknown view %q (want board, list or timeline)", viewName))
			}

			s, err := a.loadTasks(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			rows := view.Rows(s.Tasks(), f)
			if asJSON {
				enc := json.NewEncoder(a.Out)
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			}
			switch viewName {
			case "list":
				a.renderList(rows)
			case "timeline":
				a.renderTimeline(rows)
			default:
				a.renderBoard(rows)
			}
			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&viewName, "view", "v", "", "board, list or timeline (default from config)")
	fl.StringVarP(&status, "status", "s", "", "only tasks with this status")
	fl.StringVarP(&priority, "priority", "p", "", "only tasks with this priority")
	fl.StringVarP(&search, "search", "q", "", "match title or description")
	fl.StringVar(&sortBy, "sort", "", "none, priority, due or title")
	fl.BoolVar(&asJSON, "json", false, "print tasks as JSON")
	return cmd
}

func (a *App) addCmd() *cobra.Command {
	var status, priority, description, start, due string
	cmd := &cobra.Command{
		Use:   "add <title...>",
		Short: "Create a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d := model.Draft{
				Title:       strings.Join(args, " "),
				Description: description,
			}
			var err error
			if status != "" {
				if d.Status, err = model.ParseStatus(status); err != nil {
					return userErr(err)
				}
			}
			if priority != "" {
				if d.Priority, err = model.ParsePriority(priority); err != nil {
					return userErr(err)
				}
			}
			if d.StartDate, err = parseDate(start); err != nil {
				return userErr(err)
			}
			if d.DueDate, err = parseDate(due); err != nil {
				return userErr(err)
			}

			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			t, err := s.Create(cmd.Context(), d)
			if err != nil {
				return mutationErr(err)
			}
			ui.Hint(a.Out, fmt.Sprintf("#%d %s", t.ID, t.Title))
			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&status, "status", "s", "", "todo, progress, review or done (default todo)")
	fl.StringVarP(&priority, "priority", "p", "", "high, medium or low (default medium)")
	fl.StringVarP(&description, "description", "d", "", "task description")
	fl.StringVar(&start, "start", "", "start date (YYYY-MM-DD)")
	fl.StringVar(&due, "due", "", "due date (YYYY-MM-DD)")
	return cmd
}

func (a *App) editCmd() *cobra.Command {
	var title, description, status, priority, due string
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a task's fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := a.loadTasks(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			t, ok := s.Find(id)
			if !ok {
				return userErr(fmt.Errorf("task %d: %w", id, taskstore.ErrNotFound))
			}
			fl := cmd.Flags()
			if fl.Changed("title") {
				t.Title = title
			}
			if fl.Changed("description") {
				t.Description = description
			}
			if fl.Changed("status") {
				if t.Status, err = model.ParseStatus(status); err != nil {
					return userErr(err)
				}
			}
			if fl.Changed("priority") {
				if t.Priority, err = model.ParsePriority(priority); err != nil {
					return userErr(err)
				}
			}
			if fl.Changed("due") {
				if t.DueDate, err = parseDate(due); err != nil {
					return userErr(err)
				}
			}
			return mutationErr(s.Update(cmd.Context(), t))
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&title, "title", "t", "", "new title")
	fl.StringVarP(&description, "description", "d", "", "new description")
	fl.StringVarP(&status, "status", "s", "", "new status")
	fl.StringVarP(&priority, "priority", "p", "", "new priority")
	fl.StringVar(&due, "due", "", "new due date (YYYY-MM-DD, empty clears)")
	return cmd
}

func (a *App) mvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mv <id> <status>",
		Short: "Move a task to another status column",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			status, err := model.ParseStatus(args[1])
			if err != nil {
				return userErr(err)
			}
			s, err := a.loadTasks(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()
			return mutationErr(s.Move(cmd.Context(), id, status))
		},
	}
}

func (a *App) doneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Toggle a task between done and to-do",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := a.loadTasks(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()
			return mutationErr(s.Toggle(cmd.Context(), id))
		},
	}
}

func (a *App) rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()
			return mutationErr(s.Delete(cmd.Context(), id))
		},
	}
}

// mutationErr classifies a store mutation error. Remote failures were
// already announced by the notifier, so they exit quietly.
func mutationErr(err error) error {
	if err == nil {
		return nil
	}
	var me *taskstore.MutationError
	if errors.As(err, &me) {
		return &exitError{code: exitcode.BackendError, err: err, quiet: true}
	}
	if errors.Is(err, taskstore.ErrNotFound) || errors.Is(err, taskstore.ErrEmptyTitle) {
		return userErr(err)
	}
	return err
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, userErr(fmt.Errorf("not a task id: %q", s))
	}
	return id, nil
}

// parseDate accepts YYYY-MM-DD (local midnight) or RFC 3339. Empty is nil.
func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if t, err := time.ParseInLocation(time.DateOnly, s, time.Local); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, fmt.Errorf("bad date %q (want YYYY-MM-DD)", s)
	}
	return &t, nil
}

func parseFilter(status, priority, search, sortBy string) (view.Filter, error) {
	f := view.Filter{Query: search}
	var err error
	if status != "" {
		if f.Status, err = model.ParseStatus(status); err != nil {
			return f, err
		}
	}
	if priority != "" {
		if f.Priority, err = model.ParsePriority(priority); err != nil {
			return f, err
		}
	}
	if f.Sort, err = view.ParseSort(sortBy); err != nil {
		return f, err
	}
	return f, nil
}

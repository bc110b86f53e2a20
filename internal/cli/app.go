// Package cli is the klaboard command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/klaboard/internal/auth"
	"github.com/idilsaglam/klaboard/internal/config"
	"github.com/idilsaglam/klaboard/internal/exitcode"
	"github.com/idilsaglam/klaboard/internal/i18n"
	"github.com/idilsaglam/klaboard/internal/logging"
	"github.com/idilsaglam/klaboard/internal/remote"
	"github.com/idilsaglam/klaboard/internal/store/jsonstore"
	"github.com/idilsaglam/klaboard/internal/store/taskstore"
	"github.com/idilsaglam/klaboard/internal/ui"
)

// BackendFactory builds the store backend from config.
// Used to inject a fake backend in tests.
type BackendFactory func(cfg *config.Config, token string, log *slog.Logger) (taskstore.Backend, error)

// RemoteBackend is the production factory: an HTTP client for cfg.API.
func RemoteBackend(cfg *config.Config, token string, log *slog.Logger) (taskstore.Backend, error) {
	opts := []remote.Option{remote.WithLogger(log)}
	if token != "" {
		opts = append(opts, remote.WithToken(token))
	}
	return remote.New(cfg.API, opts...)
}

// App carries the root flags and the lazily built dependencies shared by
// every command.
type App struct {
	Out, Err io.Writer
	Factory  BackendFactory
	Now      func() time.Time

	configDir string
	debug     bool
	noColor   bool

	cfg      *config.Config
	log      *slog.Logger
	closeLog func() error
	prefs    jsonstore.Prefs
	tr       i18n.Translator
}

// NewApp returns an App writing to out and errOut.
func NewApp(out, errOut io.Writer, factory BackendFactory) *App {
	if factory == nil {
		factory = RemoteBackend
	}
	return &App{Out: out, Err: errOut, Factory: factory, Now: time.Now}
}

// exitError pins an exit code to an error.
type exitError struct {
	code  int
	err   error
	quiet bool // already reported to the user
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func userErr(err error) error   { return &exitError{code: exitcode.UserError, err: err} }
func configErr(err error) error { return &exitError{code: exitcode.ConfigError, err: err} }

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return exitcode.Success
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	var me *taskstore.MutationError
	if errors.As(err, &me) ||
		errors.Is(err, remote.ErrFetch) ||
		errors.Is(err, remote.ErrCreate) ||
		errors.Is(err, remote.ErrUpdate) ||
		errors.Is(err, remote.ErrDelete) {
		return exitcode.BackendError
	}
	return exitcode.UserError
}

// dir is the config directory in effect.
func (a *App) dir() string {
	if a.configDir != "" {
		return a.configDir
	}
	return config.DefaultDir()
}

// setup runs before every command: colour, config, logger, prefs.
func (a *App) setup(cmd *cobra.Command) error {
	ui.SetColorForcing(false, a.noColor)

	cfg, err := config.Load(a.dir())
	if err != nil {
		return configErr(err)
	}
	a.cfg = cfg

	log, closeLog, err := logging.New(cfg.Log, a.debug, a.Err)
	if err != nil {
		return configErr(err)
	}
	a.log, a.closeLog = log, closeLog

	prefs, err := jsonstore.Load(cfg.Dir)
	if err != nil {
		a.log.Warn("prefs unreadable, using defaults", "err", err)
	}
	a.applyPrefs(prefs)

	a.log.Debug("command start", "cmd", cmd.CommandPath(), "config", cfg.Path())
	return nil
}

func (a *App) applyPrefs(p jsonstore.Prefs) {
	a.prefs = p
	a.tr = i18n.Translator{Lang: i18n.Parse(p.Language)}
	ui.SetTheme(p.Theme)
}

func (a *App) teardown() {
	if a.closeLog != nil {
		_ = a.closeLog()
	}
}

// openStore builds the task store over the configured backend. Notices go
// to Out (success) and Err (failure) in the preferred language.
func (a *App) openStore(extra ...taskstore.Option) (*taskstore.Store, error) {
	token, err := auth.Store{Dir: a.cfg.Dir}.Token()
	if err != nil {
		return nil, configErr(err)
	}
	backend, err := a.Factory(a.cfg, token, a.log)
	if err != nil {
		return nil, configErr(fmt.Errorf("backend: %w", err))
	}
	opts := []taskstore.Option{
		taskstore.WithNotifier(taskstore.NotifierFunc(a.printNotice)),
		taskstore.WithLogger(a.log),
		taskstore.WithClock(a.Now),
		taskstore.WithUserID(a.cfg.Store.UserID),
		// A one-shot command exits right after the mutation.
		taskstore.WithRefreshAfterMutation(false),
	}
	return taskstore.New(backend, append(opts, extra...)...), nil
}

func (a *App) printNotice(n taskstore.Notice) {
	failed := n.Kind == taskstore.NoticeFailure
	title, desc := i18n.NoticeKeys(string(n.Op), failed)
	if failed {
		ui.Notice(a.Err, a.tr.T(title), a.tr.T(desc), true)
		return
	}
	ui.Notice(a.Out, a.tr.T(title), a.tr.T(desc), false)
}

// loadTasks opens the store and fills it. A failed fetch exits with
// exitcode.BackendError.
func (a *App) loadTasks(ctx context.Context) (*taskstore.Store, error) {
	s, err := a.openStore()
	if err != nil {
		return nil, err
	}
	if _, err := s.List(ctx); err != nil {
		s.Close()
		return nil, &exitError{code: exitcode.BackendError, err: fmt.Errorf("%s: %w", a.tr.T("error"), err)}
	}
	return s, nil
}

// Run executes args and returns the exit code.
func Run(ctx context.Context, args []string, out, errOut io.Writer, factory BackendFactory) int {
	app := NewApp(out, errOut, factory)
	root := NewRootCmd(app)
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(errOut)

	err := root.ExecuteContext(ctx)
	app.teardown()
	if err != nil {
		var ee *exitError
		if !errors.As(err, &ee) || !ee.quiet {
			ui.Fail(errOut, err.Error())
		}
		return ExitCode(err)
	}
	return exitcode.Success
}

// Execute runs the CLI against the process arguments and standard streams.
func Execute(ctx context.Context) int {
	return Run(ctx, os.Args[1:], os.Stdout, os.Stderr, RemoteBackend)
}

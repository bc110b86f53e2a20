package cli

import (
	"github.com/spf13/cobra"

	"github.com/idilsaglam/klaboard/internal/store/taskstore"
	"github.com/idilsaglam/klaboard/internal/tui"
)

func (a *App) tuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive board (default)",
		Args:  cobra.NoArgs,
		RunE:  a.runTUI,
	}
}

func (a *App) runTUI(cmd *cobra.Command, args []string) error {
	notices := tui.NewNotifier()
	s, err := a.openStore(
		taskstore.WithNotifier(notices),
		taskstore.WithRefreshAfterMutation(a.cfg.Store.RefreshAfterMutation),
	)
	if err != nil {
		return err
	}
	defer s.Close()

	a.log.Info("tui start", "api", a.cfg.API.BaseURL, "view", a.cfg.UI.DefaultView)
	return tui.Run(cmd.Context(), tui.Options{
		Store:    s,
		Notices:  notices,
		PrefsDir: a.cfg.Dir,
		Prefs:    a.prefs,
		View:     a.cfg.UI.DefaultView,
		Now:      a.Now,
		Log:      a.log,
	})
}

package cli

import (
	"github.com/spf13/cobra"

	"github.com/idilsaglam/klaboard/internal/auth"
	"github.com/idilsaglam/klaboard/internal/ui"
)

func (a *App) loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login <token>",
		Short: "Save an API bearer token",
		Long:  "Saves the token to credentials.json in the config directory. KLABOARD_TOKEN overrides it.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := (auth.Store{Dir: a.cfg.Dir}).Set(args[0]); err != nil {
				return userErr(err)
			}
			ui.OK(a.Out, "token saved")
			return nil
		},
	}
}

func (a *App) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved API token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := (auth.Store{Dir: a.cfg.Dir}).Delete(); err != nil {
				return err
			}
			ui.OK(a.Out, "token removed")
			return nil
		},
	}
}

package cli

import "github.com/spf13/cobra"

const version = "0.3.0"

// NewRootCmd builds the command tree around a. Without a subcommand it
// opens the TUI.
func NewRootCmd(a *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "klaboard",
		Short: "Terminal task board for a to-do REST API",
		Long: `klaboard shows the tasks of a to-do REST API as a board, a list or a week
timeline. Changes apply locally at once and roll back if the server refuses them.

Run it without arguments for the interactive board.`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: a.runTUI,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configDir, "config-dir", "", "configuration directory (default $XDG_CONFIG_HOME/klaboard)")
	pf.BoolVar(&a.debug, "debug", false, "log at debug level to stderr")
	pf.BoolVar(&a.noColor, "no-color", false, "disable coloured output")

	root.AddCommand(
		a.tuiCmd(),
		a.lsCmd(),
		a.addCmd(),
		a.editCmd(),
		a.mvCmd(),
		a.doneCmd(),
		a.rmCmd(),
		a.langCmd(),
		a.themeCmd(),
		a.loginCmd(),
		a.logoutCmd(),
		a.configCmd(),
	)
	return root
}

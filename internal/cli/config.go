package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/klaboard/internal/auth"
	"github.com/idilsaglam/klaboard/internal/config"
	"github.com/idilsaglam/klaboard/internal/store/jsonstore"
	"github.com/idilsaglam/klaboard/internal/ui"
)

func (a *App) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
		// These work without a valid config; skip loading it.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ui.SetColorForcing(false, a.noColor)
			return nil
		},
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default config.yaml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.WriteDefault(a.dir(), force)
			if err != nil {
				return configErr(err)
			}
			ui.OK(a.Out, "wrote "+path)
			return nil
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Show where klaboard keeps its files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := a.dir()
			fmt.Fprintf(a.Out, "config:      %s\n", filepath.Join(dir, config.FileName))
			fmt.Fprintf(a.Out, "prefs:       %s\n", jsonstore.Path(dir))
			fmt.Fprintf(a.Out, "credentials: %s\n", auth.Store{Dir: dir}.Path())
			return nil
		},
	}

	envCmd := &cobra.Command{
		Use:   "env",
		Short: "List the environment variables that override the file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			help, err := config.EnvHelp()
			if err != nil {
				return err
			}
			fmt.Fprintln(a.Out, help)
			return nil
		},
	}

	cmd.AddCommand(initCmd, pathCmd, envCmd)
	return cmd
}

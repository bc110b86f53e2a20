package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/klaboard/internal/store/jsonstore"
	"github.com/idilsaglam/klaboard/internal/ui"
)

var languageNames = map[string]string{
	jsonstore.LangEnglish: "english",
	jsonstore.LangFrench:  "french",
}

func (a *App) langCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "lang [en|fr]",
		Short:     "Show or set the interface language",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{jsonstore.LangEnglish, jsonstore.LangFrench},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				p, err := jsonstore.Update(a.cfg.Dir, func(p *jsonstore.Prefs) { p.Language = args[0] })
				if err != nil {
					return err
				}
				a.applyPrefs(p)
				ui.OK(a.Out, fmt.Sprintf("%s: %s", a.tr.T("language"), a.tr.T(languageNames[p.Language])))
				return nil
			}
			fmt.Fprintf(a.Out, "%s: %s (%s)\n", a.tr.T("language"), a.tr.T(languageNames[a.prefs.Language]), a.prefs.Language)
			return nil
		},
	}
}

func (a *App) themeCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "theme [light|dark|system]",
		Short:     "Show or set the colour theme",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{jsonstore.ThemeLight, jsonstore.ThemeDark, jsonstore.ThemeSystem},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				p, err := jsonstore.Update(a.cfg.Dir, func(p *jsonstore.Prefs) { p.Theme = args[0] })
				if err != nil {
					return err
				}
				a.applyPrefs(p)
				ui.OK(a.Out, fmt.Sprintf("%s: %s", a.tr.T("theme"), a.tr.T(p.Theme)))
				return nil
			}
			fmt.Fprintf(a.Out, "%s: %s (%s)\n", a.tr.T("theme"), a.tr.T(a.prefs.Theme), ui.Current().Name)
			return nil
		},
	}
}

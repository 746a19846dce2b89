package main

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/shameless/shameless/internal/onboarding"
	"github.com/shameless/shameless/ui"
)

var (
	phraseCopy bool

	phraseCmd = &cobra.Command{
		Use:     "phrase",
		Short:   "Show your anchor phrase",
		Long:    paragraph(fmt.Sprintf("\nShow the %s you chose during onboarding.", keyword("anchor phrase"))),
		Example: paragraph("shameless phrase\nshameless phrase --copy"),
		Args:    cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return withApp(func(a *app) error {
				return showPhrase(a, phraseCopy)
			})
		},
	}
)

func showPhrase(a *app, copyToClipboard bool) error {
	ans := a.answers()
	if ans.AnchorPhrase == "" {
		a.println(faint(a.t("phrase.none")))
		return nil
	}

	theme := ans.Theme
	if theme == "" {
		theme = onboarding.DefaultTheme
	}
	ui.DetectDarkBackground()
	style := ui.NewStyles(theme).Phrase
	a.println(style.Render(wordwrap.String(ans.AnchorPhrase, int(width)-4))) //nolint:gosec

	if copyToClipboard {
		// Copy using OSC 52
		termenv.Copy(ans.AnchorPhrase)
		// Copy using native system clipboard
		if err := clipboard.WriteAll(ans.AnchorPhrase); err != nil {
			a.logger.Debug("System clipboard unavailable", "error", err)
		}
		a.println(faint(a.t("phrase.copied")))
	}
	return nil
}

func init() {
	phraseCmd.Flags().BoolVarP(&phraseCopy, "copy", "c", false, "copy the phrase to the clipboard")
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shameless/shameless/internal/i18n"
	"github.com/shameless/shameless/internal/kv"
)

var (
	onboardReset bool

	onboardCmd = &cobra.Command{
		Use:     "onboard",
		Short:   "Choose your language, support style, theme and anchor phrase",
		Long:    paragraph(fmt.Sprintf("\nRun the %s quiz. Answers are saved as you go, so you can quit and pick up later.", keyword("onboarding"))),
		Example: paragraph("shameless onboard\nshameless onboard --reset"),
		Args:    cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return withApp(func(a *app) error {
				return runOnboarding(a, onboardReset)
			})
		},
	}
)

// rememberLanguage makes the onboarding language the interface language
// when the app offers it.
func (a *app) rememberLanguage(lang string) {
	matched := i18n.App().Match(lang)
	if err := a.store.Set(kv.KeyAppLanguage, matched); err != nil {
		a.logger.Warn("Failed to save app language", "error", err)
		return
	}
	a.lang = matched
}

func init() {
	onboardCmd.Flags().BoolVar(&onboardReset, "reset", false, "forget previous answers and start over")
}

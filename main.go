// Package main provides the entry point for the shameless CLI application.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/shameless/shameless/internal/config"
	"github.com/shameless/shameless/internal/kv"
	"github.com/shameless/shameless/internal/onboarding"
	"github.com/shameless/shameless/ui"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile string
	debug      bool
	width      uint
	isTerminal bool
	cfg        config.Config

	rootCmd = &cobra.Command{
		Use:   "shameless",
		Short: "Gentle tools for loud days",
		Long: paragraph(
			fmt.Sprintf("\nA %s for shame resilience: anchor phrases, calming media, spoken affirmations, and a journal of wins.", keyword("gentle companion")),
		),
		SilenceErrors:    false,
		SilenceUsage:     true,
		TraverseChildren: true,
		Args:             cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return validateOptions(cmd)
		},
		RunE: execute,
	}
)

func validateOptions(cmd *cobra.Command) error {
	if cmd.Flags().Changed("config") {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("unable to read config file: %w", err)
		}
	}

	var err error
	cfg, err = config.Load(viper.GetViper())
	if err != nil {
		// Still allow fixing a broken config file.
		if cmd.Name() != "config" && cmd.Name() != "man" {
			return err
		}
		log.Warn("Invalid configuration", "error", err)
	}

	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	isTerminal = term.IsTerminal(int(os.Stdout.Fd()))

	// Detect terminal width
	width = viper.GetUint("width")
	if !cmd.Flags().Changed("width") {
		if isTerminal && width == 0 {
			w, _, err := term.GetSize(int(os.Stdout.Fd()))
			if err == nil {
				width = uint(w) //nolint:gosec
			}
			if width > 100 {
				width = 100
			}
		}
		if width == 0 {
			width = 80
		}
	}
	return nil
}

// execute runs onboarding on first launch and shows the anchor phrase
// afterwards.
func execute(*cobra.Command, []string) error {
	return withApp(func(a *app) error {
		ctrl := onboarding.Resume(a.store, onboarding.WithLogger(a.logger))
		if !ctrl.Done() && isTerminal {
			return runOnboarding(a, false)
		}
		return showPhrase(a, false)
	})
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	config.SetDefaults(viper.GetViper())
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "write debug output to the log file")
	rootCmd.PersistentFlags().String("data-dir", "", "directory for the database and audio cache")
	rootCmd.PersistentFlags().String("owner", "", "whose wins to record and list")
	rootCmd.PersistentFlags().UintVarP(&width, "width", "w", 0, "word-wrap at width")

	// Config bindings
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("data_dir", rootCmd.PersistentFlags().Lookup("data-dir"))
	_ = viper.BindPFlag("owner", rootCmd.PersistentFlags().Lookup("owner"))
	_ = viper.BindPFlag("width", rootCmd.PersistentFlags().Lookup("width"))

	viper.SetDefault("width", 0)

	rootCmd.AddCommand(
		configCmd,
		manCmd,
		onboardCmd,
		phraseCmd,
		mediaCmd,
		speakCmd,
		winsCmd,
		remindersCmd,
		cacheCmd,
	)
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "shameless")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not load find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "shameless")}, dirs...)
	}

	if c := os.Getenv("SHAMELESS_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("shameless")
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", viper.ConfigFileUsed())
		return
	}

	configFile = filepath.Join(dirs[0], "shameless.yml")
	if err := ensureConfigFile(); err != nil {
		log.Error("Could not create default configuration", "error", err)
	}
}

// runOnboarding runs the interactive onboarding flow.
func runOnboarding(a *app, reset bool) error {
	if reset {
		if err := onboarding.Reset(a.store); err != nil {
			return err
		}
	}
	if !isTerminal {
		return errors.New("onboarding needs an interactive terminal")
	}

	// A skipped flow can be picked up again where it was left.
	if err := a.store.Delete(kv.KeyOnboardingSkipped); err != nil {
		return err
	}

	ui.DetectDarkBackground()
	preview := ui.NewThemePreview()
	ctrl := onboarding.Resume(a.store,
		onboarding.WithPreviewer(preview),
		onboarding.WithLogger(a.logger),
		onboarding.OnComplete(func(ans onboarding.Answers) {
			a.rememberLanguage(ans.Language)
		}),
	)
	if ctrl.Outcome() == onboarding.OutcomeCompleted {
		a.println(faint(a.t("onboarding.complete")))
		return nil
	}

	if _, err := ui.NewProgram(ctrl, preview).Run(); err != nil {
		return fmt.Errorf("unable to run tui program: %w", err)
	}

	switch ctrl.Outcome() {
	case onboarding.OutcomeCompleted:
		a.println(a.t("onboarding.complete"))
	case onboarding.OutcomeSkipped:
		a.println(faint(a.t("onboarding.skipped")))
	}
	return nil
}

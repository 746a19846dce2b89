package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/shameless/shameless/internal/cache"
	"github.com/shameless/shameless/internal/config"
	"github.com/shameless/shameless/internal/i18n"
	"github.com/shameless/shameless/internal/kv"
	"github.com/shameless/shameless/internal/media"
	"github.com/shameless/shameless/internal/onboarding"
	"github.com/shameless/shameless/internal/reminders"
	"github.com/shameless/shameless/internal/speech"
	"github.com/shameless/shameless/internal/store"
	"github.com/shameless/shameless/internal/wins"
)

// app is the composition root shared by every command. Remote clients are
// created once per process.
type app struct {
	cfg    config.Config
	store  *store.Store
	logger *log.Logger
	out    io.Writer
	lang   string

	disk         *cache.DiskStore
	mediaClient  *media.Client
	speechClient *speech.Client
}

func openApp(cfg config.Config, out io.Writer) (*app, error) {
	dbPath, err := cfg.DatabasePath()
	if err != nil {
		return nil, fmt.Errorf("unable to resolve data directory: %w", err)
	}

	logger := log.Default()
	s, err := store.Open(dbPath, store.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	a := &app{
		cfg:    cfg,
		store:  s,
		logger: logger,
		out:    out,
	}
	a.lang = a.appLanguage()
	return a, nil
}

func withApp(fn func(*app) error) error {
	a, err := openApp(cfg, os.Stdout)
	if err != nil {
		return err
	}
	defer a.Close() //nolint:errcheck
	return fn(a)
}

func (a *app) Close() error {
	var errs []error
	if a.disk != nil {
		errs = append(errs, a.disk.Close())
	}
	errs = append(errs, a.store.Close())
	return errors.Join(errs...)
}

// appLanguage returns the stored interface language, or the best match for
// the environment locale.
func (a *app) appLanguage() string {
	cat := i18n.App()
	if lang, ok, err := a.store.Get(kv.KeyAppLanguage); err == nil && ok && cat.Supports(lang) {
		return lang
	}
	var tags []string
	for _, k := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := os.Getenv(k); v != "" {
			tags = append(tags, posixLocaleTag(v))
		}
	}
	return cat.Match(tags...)
}

// posixLocaleTag turns fr_FR.UTF-8 into fr-FR.
func posixLocaleTag(v string) string {
	if i := strings.IndexAny(v, ".@"); i >= 0 {
		v = v[:i]
	}
	return strings.ReplaceAll(v, "_", "-")
}

// t formats an interface message in the app language.
func (a *app) t(key string, args ...any) string {
	return i18n.App().Format(a.lang, key, args...)
}

func (a *app) println(s string) {
	_, _ = fmt.Fprintln(a.out, s)
}

func (a *app) answers() onboarding.Answers {
	return onboarding.Resume(a.store, onboarding.WithLogger(a.logger)).Answers()
}

func (a *app) media() *media.Client {
	if a.mediaClient == nil {
		a.mediaClient = media.New(a.cfg.MediaClientConfig(), a.store, media.WithLogger(a.logger))
	}
	return a.mediaClient
}

func (a *app) speech() (*speech.Client, error) {
	if a.speechClient != nil {
		return a.speechClient, nil
	}
	dir, err := a.cfg.AudioDir()
	if err != nil {
		return nil, err
	}
	disk, err := cache.NewDiskStore(dir, a.cfg.AudioCapacity(), a.cfg.Audio.CompressionLevel)
	if err != nil {
		return nil, fmt.Errorf("unable to open audio cache: %w", err)
	}
	a.disk = disk
	a.speechClient = speech.New(a.cfg.SpeechClientConfig(), a.store, disk, speech.WithLogger(a.logger))
	return a.speechClient, nil
}

func (a *app) wins() *wins.Service {
	return wins.NewService(a.store, wins.WithLogger(a.logger))
}

func (a *app) reminders() *reminders.Service {
	return reminders.NewService(a.store, reminders.WithLogger(a.logger))
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/shameless/shameless/internal/audio"
	"github.com/shameless/shameless/internal/remote"
)

var (
	speakVoice string
	speakPlay  bool

	speakCmd = &cobra.Command{
		Use:   "speak [TEXT]",
		Short: "Hear an affirmation spoken aloud",
		Long: paragraph(fmt.Sprintf("\nTurn text into %s. Without text, your anchor phrase is spoken. Audio is cached for a day.",
			keyword("spoken audio"))),
		Example: paragraph("shameless speak --play\nshameless speak \"I am allowed to rest.\" --voice 21m00Tcm4TlvDq8ikWAM"),
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				return speak(cmd.Context(), a, strings.Join(args, " "))
			})
		},
	}
)

func speak(ctx context.Context, a *app, text string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if strings.TrimSpace(text) == "" {
		text = a.answers().AnchorPhrase
	}

	client, err := a.speech()
	if err != nil {
		return err
	}

	res := client.Synthesize(ctx, text, speakVoice, nil)
	if !res.Success {
		if errors.Is(res.Err, remote.ErrNotConfigured) {
			a.println(warning(a.t("speech.not_configured")))
			return nil
		}
		return errors.New(a.t("speech.failed", res.Error))
	}

	if res.Cached {
		a.println(faint(a.t("speech.cached")))
	}
	a.println(a.t("speech.saved", res.Audio.Path()) + faint(" ("+humanize.Bytes(uint64(res.Audio.Size()))+")")) //nolint:gosec

	if !speakPlay {
		return nil
	}

	pcfg := audio.DefaultPlayerConfig()
	pcfg.SampleRate = res.Audio.SampleRate()
	player, err := audio.NewPlayer(pcfg)
	if err != nil {
		return fmt.Errorf("unable to open audio device: %w", err)
	}
	defer player.Close() //nolint:errcheck
	player.SetLogger(a.logger)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	if err := player.Play(ctx, res.Audio); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("unable to play audio: %w", err)
	}
	return nil
}

func init() {
	speakCmd.Flags().StringVar(&speakVoice, "voice", "", "ElevenLabs voice id (default from config)")
	speakCmd.Flags().BoolVarP(&speakPlay, "play", "p", false, "play the audio after creating it")
}

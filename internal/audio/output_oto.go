//go:build !nocgo
// +build !nocgo

package audio

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/ebitengine/oto/v3"
)

// otoOutput plays PCM through a single oto context, which can only be
// created once per process.
type otoOutput struct {
	context *oto.Context
}

func newDeviceOutput(cfg PlayerConfig) (Output, error) {
	op := &oto.NewContextOptions{
		SampleRate:   cfg.SampleRate,
		ChannelCount: cfg.Channels,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   time.Duration(cfg.BufferSize) * time.Second / time.Duration(cfg.SampleRate*cfg.Channels*2),
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAudioUnavailable, err)
	}
	<-ready

	return &otoOutput{context: ctx}, nil
}

func (o *otoOutput) Play(ctx context.Context, pcm []byte) error {
	// pcm stays referenced by the reader until the player is closed.
	player := o.context.NewPlayer(bytes.NewReader(pcm))
	defer player.Close()

	player.Play()

	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()
	for player.IsPlaying() {
		select {
		case <-ctx.Done():
			player.Pause()
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return player.Err()
}

func (o *otoOutput) Close() error {
	return o.context.Suspend()
}

package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
)

var (
	// ErrUnsupportedFormat is returned for audio that is not raw PCM at the
	// player's sample rate.
	ErrUnsupportedFormat = errors.New("unsupported audio format")

	// ErrAudioUnavailable is returned when no audio device can be opened.
	ErrAudioUnavailable = errors.New("audio not available")

	// ErrPlayerClosed is returned after Close.
	ErrPlayerClosed = errors.New("player is closed")
)

// PlayerState represents the current state of the player.
type PlayerState int32

const (
	StateStopped PlayerState = iota
	StatePlaying
	StateClosed
)

// String returns the string representation of the state.
func (s PlayerState) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StatePlaying:
		return "playing"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// PlayerConfig contains configuration for the audio player.
type PlayerConfig struct {
	SampleRate int // 44100 or 48000 Hz only
	Channels   int // 1 = mono, 2 = stereo
	BufferSize int // Buffer size in bytes
}

// DefaultPlayerConfig returns the configuration matching pcm_44100 speech.
func DefaultPlayerConfig() PlayerConfig {
	return PlayerConfig{
		SampleRate: 44100,
		Channels:   1,
		BufferSize: 4096,
	}
}

// Validate checks the configuration against what oto supports reliably.
func (c PlayerConfig) Validate() error {
	if c.SampleRate != 44100 && c.SampleRate != 48000 {
		return fmt.Errorf("sample rate must be 44100 or 48000 Hz, got %d", c.SampleRate)
	}
	if c.Channels != 1 && c.Channels != 2 {
		return fmt.Errorf("channels must be 1 (mono) or 2 (stereo), got %d", c.Channels)
	}
	if c.BufferSize <= 0 {
		return errors.New("buffer size must be positive")
	}
	return nil
}

// Source is playable audio, such as a speech.AudioHandle.
type Source interface {
	Open() (io.ReadCloser, error)
	SampleRate() int
}

// Output writes PCM to a device and blocks until it has been played or ctx
// is done.
type Output interface {
	Play(ctx context.Context, pcm []byte) error
	Close() error
}

// Player plays PCM sources one at a time.
type Player struct {
	cfg    PlayerConfig
	out    Output
	logger *log.Logger
	state  atomic.Int32
}

// NewPlayer opens the system audio device.
func NewPlayer(cfg PlayerConfig) (*Player, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	out, err := newDeviceOutput(cfg)
	if err != nil {
		return nil, err
	}
	return NewPlayerWithOutput(cfg, out), nil
}

// NewPlayerWithOutput creates a player writing to out.
func NewPlayerWithOutput(cfg PlayerConfig, out Output) *Player {
	p := &Player{cfg: cfg, out: out, logger: log.Default()}
	p.state.Store(int32(StateStopped))
	return p
}

// SetLogger sets the player logger.
func (p *Player) SetLogger(l *log.Logger) {
	p.logger = l
}

// State returns the current player state.
func (p *Player) State() PlayerState {
	return PlayerState(p.state.Load())
}

// Play reads src and plays it to completion. Cancelling ctx stops playback.
func (p *Player) Play(ctx context.Context, src Source) error {
	if rate := src.SampleRate(); rate != p.cfg.SampleRate {
		return fmt.Errorf("%w: sample rate %d, player expects %d", ErrUnsupportedFormat, rate, p.cfg.SampleRate)
	}

	rc, err := src.Open()
	if err != nil {
		return fmt.Errorf("failed to open audio: %w", err)
	}
	pcm, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		return fmt.Errorf("failed to read audio: %w", err)
	}

	return p.PlayPCM(ctx, pcm)
}

// PlayPCM plays raw signed 16-bit little endian samples.
func (p *Player) PlayPCM(ctx context.Context, pcm []byte) error {
	if len(pcm) == 0 {
		return errors.New("audio data is empty")
	}
	frame := p.cfg.Channels * 2
	if len(pcm)%frame != 0 {
		// Drop a trailing partial frame.
		pcm = pcm[:len(pcm)-len(pcm)%frame]
	}

	if !p.state.CompareAndSwap(int32(StateStopped), int32(StatePlaying)) {
		if p.State() == StateClosed {
			return ErrPlayerClosed
		}
		return errors.New("player is busy")
	}
	defer p.state.CompareAndSwap(int32(StatePlaying), int32(StateStopped))

	p.logger.Debug("Playing audio", "bytes", len(pcm), "duration", Duration(len(pcm), p.cfg))
	return p.out.Play(ctx, pcm)
}

// Close releases the audio device.
func (p *Player) Close() error {
	if PlayerState(p.state.Swap(int32(StateClosed))) == StateClosed {
		return nil
	}
	return p.out.Close()
}

// Duration returns how long n bytes of PCM last under cfg.
func Duration(n int, cfg PlayerConfig) time.Duration {
	if cfg.SampleRate <= 0 || cfg.Channels <= 0 {
		return 0
	}
	samples := n / (cfg.Channels * 2)
	return time.Duration(samples) * time.Second / time.Duration(cfg.SampleRate)
}

// FormatSampleRate parses a pcm_<rate> output format. It returns 0 for
// anything else.
func FormatSampleRate(format string) int {
	rate, ok := strings.CutPrefix(format, "pcm_")
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(rate)
	if err != nil {
		return 0
	}
	return n
}

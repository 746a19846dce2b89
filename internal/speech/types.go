package speech

import (
	"errors"
	"fmt"
	"io"

	"github.com/shameless/shameless/internal/audio"
	"github.com/shameless/shameless/internal/cache"
)

// Defaults for the ElevenLabs API.
const (
	DefaultBaseURL      = "https://api.elevenlabs.io"
	DefaultVoiceID      = "21m00Tcm4TlvDq8ikWAM"
	DefaultModelID      = "eleven_multilingual_v2"
	DefaultOutputFormat = "pcm_44100"

	// MaxTextLength is the longest text accepted in one request.
	MaxTextLength = 5000
)

var (
	// ErrEmptyText is returned for empty or whitespace-only text.
	ErrEmptyText = errors.New("text is required")

	// ErrTextTooLong is returned for text over MaxTextLength characters.
	ErrTextTooLong = fmt.Errorf("text exceeds %d characters", MaxTextLength)

	// ErrNoAudioStore is returned when the client has nowhere to keep audio.
	ErrNoAudioStore = errors.New("no audio store configured")

	// ErrAudioMissing is returned when a handle's audio is no longer on disk.
	ErrAudioMissing = errors.New("audio no longer available")
)

// VoiceSettings shape the synthesized voice.
type VoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
}

// DefaultVoiceSettings returns the settings used when a caller passes none.
func DefaultVoiceSettings() VoiceSettings {
	return VoiceSettings{
		Stability:       0.5,
		SimilarityBoost: 0.75,
		Style:           0.0,
		UseSpeakerBoost: true,
	}
}

// Validate checks that every ratio lies in [0, 1].
func (v VoiceSettings) Validate() error {
	for name, val := range map[string]float64{
		"stability":        v.Stability,
		"similarity_boost": v.SimilarityBoost,
		"style":            v.Style,
	} {
		if val < 0 || val > 1 {
			return fmt.Errorf("%s must be between 0.0 and 1.0, got %.2f", name, val)
		}
	}
	return nil
}

// AudioHandle is a playable reference to synthesized audio. It is owned by
// the speech cache and stays valid until that entry expires or is cleared.
type AudioHandle struct {
	Key    string     `json:"key"`
	Format string     `json:"format"`
	Blob   cache.Blob `json:"blob"`

	disk *cache.DiskStore
}

// Path returns the file holding the audio.
func (h AudioHandle) Path() string {
	return h.Blob.Path
}

// Size returns the decoded audio size in bytes.
func (h AudioHandle) Size() int64 {
	return h.Blob.OriginalSize
}

// SampleRate returns the sample rate encoded in a pcm_<rate> format, or 0.
func (h AudioHandle) SampleRate() int {
	return audio.FormatSampleRate(h.Format)
}

// Open returns a reader over the decoded audio.
func (h AudioHandle) Open() (io.ReadCloser, error) {
	if h.disk == nil {
		return nil, ErrNoAudioStore
	}
	if !h.disk.Exists(h.Blob) {
		return nil, ErrAudioMissing
	}
	return h.disk.Open(h.Blob)
}

// Result is the outcome of a synthesis request.
type Result struct {
	Success bool
	Text    string
	VoiceID string
	Audio   *AudioHandle
	Cached  bool

	// Error is a user-facing message set when Success is false.
	Error string
	Err   error
}

func failure(text, voiceID string, err error) Result {
	return Result{
		Text:    text,
		VoiceID: voiceID,
		Error:   err.Error(),
		Err:     err,
	}
}

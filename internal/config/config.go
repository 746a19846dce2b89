// Package config holds the application settings: a viper-backed file and
// environment layer, with API credentials overlaid from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"

	"github.com/shameless/shameless/internal/media"
	"github.com/shameless/shameless/internal/speech"
)

// Config contains every application setting.
type Config struct {
	// DataDir holds the database, the audio cache and the log file.
	DataDir string `yaml:"data_dir"`
	// Owner scopes wins to one person on a shared machine.
	Owner string `yaml:"owner"`
	Debug bool   `yaml:"debug"`

	Media  MediaConfig  `yaml:"media"`
	Speech SpeechConfig `yaml:"speech"`
	Audio  AudioConfig  `yaml:"audio"`
}

// MediaConfig contains the Pixabay client settings.
type MediaConfig struct {
	APIKey            string        `yaml:"api_key"`
	BaseURL           string        `yaml:"base_url"`
	RequestsPerMinute int           `yaml:"requests_per_minute"`
	Timeout           time.Duration `yaml:"timeout"`
	FallbackCount     int           `yaml:"fallback_count"`
}

// SpeechConfig contains the ElevenLabs client settings.
type SpeechConfig struct {
	APIKey            string        `yaml:"api_key"`
	BaseURL           string        `yaml:"base_url"`
	VoiceID           string        `yaml:"voice_id"`
	ModelID           string        `yaml:"model_id"`
	OutputFormat      string        `yaml:"output_format"`
	Stability         float64       `yaml:"stability"`
	SimilarityBoost   float64       `yaml:"similarity_boost"`
	Style             float64       `yaml:"style"`
	UseSpeakerBoost   bool          `yaml:"use_speaker_boost"`
	RequestsPerMinute int           `yaml:"requests_per_minute"`
	Timeout           time.Duration `yaml:"timeout"`
}

// AudioConfig contains the on-disk audio cache settings.
type AudioConfig struct {
	CacheSizeMB      int `yaml:"cache_size_mb"`
	CompressionLevel int `yaml:"compression_level"`
}

// Secrets are the credentials read from the environment. Non-empty values
// override whatever the config file says.
type Secrets struct {
	PixabayAPIKey    string `env:"SHAMELESS_PIXABAY_API_KEY"`
	ElevenLabsAPIKey string `env:"SHAMELESS_ELEVENLABS_API_KEY"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	mc := media.DefaultConfig()
	sc := speech.DefaultConfig()

	return Config{
		DataDir: DefaultDataDir(),
		Owner:   DefaultOwner(),
		Media: MediaConfig{
			BaseURL:           mc.BaseURL,
			RequestsPerMinute: mc.RequestsPerMinute,
			Timeout:           mc.Timeout,
			FallbackCount:     mc.FallbackCount,
		},
		Speech: SpeechConfig{
			BaseURL:           sc.BaseURL,
			VoiceID:           sc.VoiceID,
			ModelID:           sc.ModelID,
			OutputFormat:      sc.OutputFormat,
			Stability:         sc.VoiceSettings.Stability,
			SimilarityBoost:   sc.VoiceSettings.SimilarityBoost,
			Style:             sc.VoiceSettings.Style,
			UseSpeakerBoost:   sc.VoiceSettings.UseSpeakerBoost,
			RequestsPerMinute: sc.RequestsPerMinute,
			Timeout:           sc.Timeout,
		},
		Audio: AudioConfig{
			CacheSizeMB:      100,
			CompressionLevel: 3,
		},
	}
}

// DefaultDataDir returns the default data directory.
func DefaultDataDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "shameless")
	}
	return filepath.Join(os.TempDir(), "shameless")
}

// DefaultOwner returns the current user name, or "me".
func DefaultOwner() string {
	for _, k := range []string{"USER", "USERNAME"} {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return "me"
}

// Validate checks if the configuration is valid.
func (c Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.DataDir) == "" {
		errs = append(errs, errors.New("data_dir is required"))
	} else if _, err := homedir.Expand(c.DataDir); err != nil {
		errs = append(errs, fmt.Errorf("data_dir: %w", err))
	}
	if strings.TrimSpace(c.Owner) == "" {
		errs = append(errs, errors.New("owner is required"))
	}

	if c.Media.RequestsPerMinute <= 0 {
		errs = append(errs, fmt.Errorf("media.requests_per_minute must be positive, got %d", c.Media.RequestsPerMinute))
	}
	if c.Media.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("media.timeout must be positive, got %s", c.Media.Timeout))
	}
	if n := c.Media.FallbackCount; n < 1 || n > media.FallbackSize() {
		errs = append(errs, fmt.Errorf("media.fallback_count must be between 1 and %d, got %d", media.FallbackSize(), n))
	}

	if c.Speech.RequestsPerMinute <= 0 {
		errs = append(errs, fmt.Errorf("speech.requests_per_minute must be positive, got %d", c.Speech.RequestsPerMinute))
	}
	if c.Speech.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("speech.timeout must be positive, got %s", c.Speech.Timeout))
	}
	if strings.TrimSpace(c.Speech.VoiceID) == "" {
		errs = append(errs, errors.New("speech.voice_id is required"))
	}
	if err := c.VoiceSettings().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("speech: %w", err))
	}

	if c.Audio.CacheSizeMB < 1 || c.Audio.CacheSizeMB > 10000 {
		errs = append(errs, fmt.Errorf("audio.cache_size_mb must be between 1 and 10000, got %d", c.Audio.CacheSizeMB))
	}
	if c.Audio.CompressionLevel < 0 || c.Audio.CompressionLevel > 22 {
		errs = append(errs, fmt.Errorf("audio.compression_level must be between 0 and 22, got %d", c.Audio.CompressionLevel))
	}

	return errors.Join(errs...)
}

// ResolvedDataDir returns DataDir with a leading ~ expanded.
func (c Config) ResolvedDataDir() (string, error) {
	return homedir.Expand(c.DataDir)
}

// DatabasePath returns the SQLite file inside the data directory.
func (c Config) DatabasePath() (string, error) {
	dir, err := c.ResolvedDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "shameless.db"), nil
}

// AudioDir returns the audio cache directory inside the data directory.
func (c Config) AudioDir() (string, error) {
	dir, err := c.ResolvedDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "audio"), nil
}

// AudioCapacity returns the audio cache capacity in bytes.
func (c Config) AudioCapacity() int64 {
	return int64(c.Audio.CacheSizeMB) * 1024 * 1024
}

// VoiceSettings returns the configured default voice settings.
func (c Config) VoiceSettings() speech.VoiceSettings {
	return speech.VoiceSettings{
		Stability:       c.Speech.Stability,
		SimilarityBoost: c.Speech.SimilarityBoost,
		Style:           c.Speech.Style,
		UseSpeakerBoost: c.Speech.UseSpeakerBoost,
	}
}

// MediaClientConfig converts the media settings for media.New.
func (c Config) MediaClientConfig() media.Config {
	return media.Config{
		APIKey:            c.Media.APIKey,
		BaseURL:           c.Media.BaseURL,
		RequestsPerMinute: c.Media.RequestsPerMinute,
		Timeout:           c.Media.Timeout,
		FallbackCount:     c.Media.FallbackCount,
	}
}

// SpeechClientConfig converts the speech settings for speech.New.
func (c Config) SpeechClientConfig() speech.Config {
	return speech.Config{
		APIKey:            c.Speech.APIKey,
		BaseURL:           c.Speech.BaseURL,
		VoiceID:           c.Speech.VoiceID,
		ModelID:           c.Speech.ModelID,
		OutputFormat:      c.Speech.OutputFormat,
		VoiceSettings:     c.VoiceSettings(),
		RequestsPerMinute: c.Speech.RequestsPerMinute,
		Timeout:           c.Speech.Timeout,
	}
}

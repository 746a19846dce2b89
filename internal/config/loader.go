package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable viper reads.
const EnvPrefix = "SHAMELESS"

// Load reads the configuration from v, overlays secrets from the
// environment and validates the result.
func Load(v *viper.Viper) (Config, error) {
	cfg := DefaultConfig()

	if v.IsSet("data_dir") {
		cfg.DataDir = v.GetString("data_dir")
	}
	if v.IsSet("owner") {
		cfg.Owner = v.GetString("owner")
	}
	if v.IsSet("debug") {
		cfg.Debug = v.GetBool("debug")
	}

	cfg.Media = loadMediaConfig(v, cfg.Media)
	cfg.Speech = loadSpeechConfig(v, cfg.Speech)
	cfg.Audio = loadAudioConfig(v, cfg.Audio)

	secrets, err := env.ParseAs[Secrets]()
	if err != nil {
		return cfg, fmt.Errorf("error parsing environment: %w", err)
	}
	if secrets.PixabayAPIKey != "" {
		cfg.Media.APIKey = secrets.PixabayAPIKey
	}
	if secrets.ElevenLabsAPIKey != "" {
		cfg.Speech.APIKey = secrets.ElevenLabsAPIKey
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func loadMediaConfig(v *viper.Viper, cfg MediaConfig) MediaConfig {
	if v.IsSet("media.api_key") {
		cfg.APIKey = v.GetString("media.api_key")
	}
	if v.IsSet("media.base_url") {
		cfg.BaseURL = v.GetString("media.base_url")
	}
	if v.IsSet("media.requests_per_minute") {
		cfg.RequestsPerMinute = v.GetInt("media.requests_per_minute")
	}
	if v.IsSet("media.timeout") {
		cfg.Timeout = v.GetDuration("media.timeout")
	}
	if v.IsSet("media.fallback_count") {
		cfg.FallbackCount = v.GetInt("media.fallback_count")
	}
	return cfg
}

func loadSpeechConfig(v *viper.Viper, cfg SpeechConfig) SpeechConfig {
	if v.IsSet("speech.api_key") {
		cfg.APIKey = v.GetString("speech.api_key")
	}
	if v.IsSet("speech.base_url") {
		cfg.BaseURL = v.GetString("speech.base_url")
	}
	if v.IsSet("speech.voice_id") {
		cfg.VoiceID = v.GetString("speech.voice_id")
	}
	if v.IsSet("speech.model_id") {
		cfg.ModelID = v.GetString("speech.model_id")
	}
	if v.IsSet("speech.output_format") {
		cfg.OutputFormat = v.GetString("speech.output_format")
	}
	if v.IsSet("speech.stability") {
		cfg.Stability = v.GetFloat64("speech.stability")
	}
	if v.IsSet("speech.similarity_boost") {
		cfg.SimilarityBoost = v.GetFloat64("speech.similarity_boost")
	}
	if v.IsSet("speech.style") {
		cfg.Style = v.GetFloat64("speech.style")
	}
	if v.IsSet("speech.use_speaker_boost") {
		cfg.UseSpeakerBoost = v.GetBool("speech.use_speaker_boost")
	}
	if v.IsSet("speech.requests_per_minute") {
		cfg.RequestsPerMinute = v.GetInt("speech.requests_per_minute")
	}
	if v.IsSet("speech.timeout") {
		cfg.Timeout = v.GetDuration("speech.timeout")
	}
	return cfg
}

func loadAudioConfig(v *viper.Viper, cfg AudioConfig) AudioConfig {
	if v.IsSet("audio.cache_size_mb") {
		cfg.CacheSizeMB = v.GetInt("audio.cache_size_mb")
	}
	if v.IsSet("audio.compression_level") {
		cfg.CompressionLevel = v.GetInt("audio.compression_level")
	}
	return cfg
}

// SetDefaults registers the default values with v and binds the
// SHAMELESS_ environment prefix.
func SetDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("data_dir", d.DataDir)
	v.SetDefault("owner", d.Owner)
	v.SetDefault("debug", d.Debug)

	v.SetDefault("media.base_url", d.Media.BaseURL)
	v.SetDefault("media.requests_per_minute", d.Media.RequestsPerMinute)
	v.SetDefault("media.timeout", d.Media.Timeout)
	v.SetDefault("media.fallback_count", d.Media.FallbackCount)

	v.SetDefault("speech.base_url", d.Speech.BaseURL)
	v.SetDefault("speech.voice_id", d.Speech.VoiceID)
	v.SetDefault("speech.model_id", d.Speech.ModelID)
	v.SetDefault("speech.output_format", d.Speech.OutputFormat)
	v.SetDefault("speech.stability", d.Speech.Stability)
	v.SetDefault("speech.similarity_boost", d.Speech.SimilarityBoost)
	v.SetDefault("speech.style", d.Speech.Style)
	v.SetDefault("speech.use_speaker_boost", d.Speech.UseSpeakerBoost)
	v.SetDefault("speech.requests_per_minute", d.Speech.RequestsPerMinute)
	v.SetDefault("speech.timeout", d.Speech.Timeout)

	v.SetDefault("audio.cache_size_mb", d.Audio.CacheSizeMB)
	v.SetDefault("audio.compression_level", d.Audio.CompressionLevel)
}

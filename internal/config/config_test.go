package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func newViper(t *testing.T, yaml string) *viper.Viper {
	t.Helper()

	v := viper.New()
	SetDefaults(v)
	v.SetConfigType("yaml")
	if err := v.ReadConfig(strings.NewReader(yaml)); err != nil {
		t.Fatalf("failed to read config: %v", err)
	}
	return v
}

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SHAMELESS_PIXABAY_API_KEY", "")
	t.Setenv("SHAMELESS_ELEVENLABS_API_KEY", "")

	cfg, err := Load(newViper(t, ""))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Media.RequestsPerMinute != 100 {
		t.Errorf("expected 100 media requests per minute, got %d", cfg.Media.RequestsPerMinute)
	}
	if cfg.Speech.VoiceID != "21m00Tcm4TlvDq8ikWAM" {
		t.Errorf("unexpected default voice %q", cfg.Speech.VoiceID)
	}
	if cfg.Speech.Stability != 0.5 || cfg.Speech.SimilarityBoost != 0.75 {
		t.Errorf("unexpected default voice settings %+v", cfg.VoiceSettings())
	}
	if cfg.Media.APIKey != "" || cfg.Speech.APIKey != "" {
		t.Error("no credentials should be configured by default")
	}
}

func TestLoadFromFile(t *testing.T) {
	t.Setenv("SHAMELESS_PIXABAY_API_KEY", "")
	t.Setenv("SHAMELESS_ELEVENLABS_API_KEY", "")

	cfg, err := Load(newViper(t, `
owner: sam
media:
  api_key: file-key
  fallback_count: 4
  timeout: 3s
speech:
  voice_id: custom-voice
  stability: 0.9
audio:
  cache_size_mb: 5
`))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Owner != "sam" {
		t.Errorf("expected owner sam, got %q", cfg.Owner)
	}
	if cfg.Media.APIKey != "file-key" {
		t.Errorf("expected file api key, got %q", cfg.Media.APIKey)
	}
	if cfg.Media.FallbackCount != 4 {
		t.Errorf("expected fallback count 4, got %d", cfg.Media.FallbackCount)
	}
	if cfg.Media.Timeout != 3*time.Second {
		t.Errorf("expected 3s timeout, got %s", cfg.Media.Timeout)
	}
	if cfg.Speech.VoiceID != "custom-voice" || cfg.Speech.Stability != 0.9 {
		t.Errorf("unexpected speech config %+v", cfg.Speech)
	}
	if cfg.AudioCapacity() != 5*1024*1024 {
		t.Errorf("unexpected audio capacity %d", cfg.AudioCapacity())
	}

	mc := cfg.MediaClientConfig()
	if mc.APIKey != "file-key" || mc.FallbackCount != 4 {
		t.Errorf("unexpected media client config %+v", mc)
	}
	sc := cfg.SpeechClientConfig()
	if sc.VoiceID != "custom-voice" || sc.VoiceSettings.Stability != 0.9 {
		t.Errorf("unexpected speech client config %+v", sc)
	}
}

func TestSecretsOverrideFile(t *testing.T) {
	t.Setenv("SHAMELESS_PIXABAY_API_KEY", "env-pixabay")
	t.Setenv("SHAMELESS_ELEVENLABS_API_KEY", "env-eleven")

	cfg, err := Load(newViper(t, "media:\n  api_key: file-key\n"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Media.APIKey != "env-pixabay" {
		t.Errorf("expected env pixabay key, got %q", cfg.Media.APIKey)
	}
	if cfg.Speech.APIKey != "env-eleven" {
		t.Errorf("expected env elevenlabs key, got %q", cfg.Speech.APIKey)
	}
}

func TestNestedEnvironmentVariables(t *testing.T) {
	t.Setenv("SHAMELESS_MEDIA_FALLBACK_COUNT", "2")

	cfg, err := Load(newViper(t, ""))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Media.FallbackCount != 2 {
		t.Errorf("expected fallback count from env, got %d", cfg.Media.FallbackCount)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"empty data dir", func(c *Config) { c.DataDir = " " }, "data_dir"},
		{"empty owner", func(c *Config) { c.Owner = "" }, "owner"},
		{"zero fallback", func(c *Config) { c.Media.FallbackCount = 0 }, "fallback_count"},
		{"too many fallback", func(c *Config) { c.Media.FallbackCount = 13 }, "fallback_count"},
		{"media rate", func(c *Config) { c.Media.RequestsPerMinute = 0 }, "media.requests_per_minute"},
		{"speech rate", func(c *Config) { c.Speech.RequestsPerMinute = -1 }, "speech.requests_per_minute"},
		{"speech timeout", func(c *Config) { c.Speech.Timeout = 0 }, "speech.timeout"},
		{"stability", func(c *Config) { c.Speech.Stability = 1.5 }, "stability"},
		{"style", func(c *Config) { c.Speech.Style = -0.1 }, "style"},
		{"voice", func(c *Config) { c.Speech.VoiceID = "" }, "voice_id"},
		{"cache size", func(c *Config) { c.Audio.CacheSizeMB = 0 }, "cache_size_mb"},
		{"compression", func(c *Config) { c.Audio.CompressionLevel = 23 }, "compression_level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error mentioning %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestResolvedPaths(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataDir = "~/shameless-data"

	dir, err := cfg.ResolvedDataDir()
	if err != nil {
		t.Fatalf("ResolvedDataDir failed: %v", err)
	}
	if strings.HasPrefix(dir, "~") {
		t.Errorf("expected ~ to be expanded, got %q", dir)
	}

	db, err := cfg.DatabasePath()
	if err != nil {
		t.Fatalf("DatabasePath failed: %v", err)
	}
	if !strings.HasSuffix(db, "shameless.db") {
		t.Errorf("unexpected database path %q", db)
	}
}

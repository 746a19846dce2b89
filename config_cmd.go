package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/charmbracelet/x/editor"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultConfig = `# directory for the database, audio cache and logs
# data_dir: "~/.cache/shameless"
# whose wins to record and list
# owner: "me"
# write debug output to the log file
debug: false

# Calming media (Pixabay)
media:
  # api_key: "your-pixabay-key"  (or SHAMELESS_PIXABAY_API_KEY)
  requests_per_minute: 100
  timeout: "10s"
  # saved nature images shown while the service is unavailable (1-12)
  fallback_count: 8

# Spoken affirmations (ElevenLabs)
speech:
  # api_key: "your-elevenlabs-key"  (or SHAMELESS_ELEVENLABS_API_KEY)
  voice_id: "21m00Tcm4TlvDq8ikWAM"
  model_id: "eleven_multilingual_v2"
  output_format: "pcm_44100"
  # voice settings, each between 0.0 and 1.0
  stability: 0.5
  similarity_boost: 0.75
  style: 0.0
  use_speaker_boost: true
  requests_per_minute: 120
  timeout: "30s"

# Audio cache
audio:
  cache_size_mb: 100
  # zstd level, 0 disables compression
  compression_level: 3
`

var configCmd = &cobra.Command{
	Use:     "config",
	Hidden:  false,
	Short:   "Edit the shameless config file",
	Long:    paragraph(fmt.Sprintf("\n%s the shameless config file. We’ll use EDITOR to determine which editor to use. If the config file doesn't exist, it will be created.", keyword("Edit"))),
	Example: paragraph("shameless config\nshameless config --config path/to/config.yml"),
	Args:    cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		if err := ensureConfigFile(); err != nil {
			return err
		}

		c, err := editor.Cmd("shameless", configFile)
		if err != nil {
			return fmt.Errorf("unable to set config file: %w", err)
		}
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		if err := c.Run(); err != nil {
			return fmt.Errorf("unable to run command: %w", err)
		}

		fmt.Println("Wrote config file to:", configFile)
		return nil
	},
}

func ensureConfigFile() error {
	if configFile == "" {
		configFile = viper.GetViper().ConfigFileUsed()
		if err := os.MkdirAll(filepath.Dir(configFile), 0o755); err != nil { //nolint:gosec
			return fmt.Errorf("could not write configuration file: %w", err)
		}
	}

	if ext := path.Ext(configFile); ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("'%s' is not a supported configuration type: use '%s' or '%s'", ext, ".yaml", ".yml")
	}

	if _, err := os.Stat(configFile); errors.Is(err, fs.ErrNotExist) {
		// File doesn't exist yet, create all necessary directories and
		// write the default config file
		if err := os.MkdirAll(filepath.Dir(configFile), 0o700); err != nil {
			return fmt.Errorf("unable create directory: %w", err)
		}

		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("unable to create config file: %w", err)
		}
		defer func() { _ = f.Close() }()

		if _, err := f.WriteString(defaultConfig); err != nil {
			return fmt.Errorf("unable to write config file: %w", err)
		}
	} else if err != nil { // some other error occurred
		return fmt.Errorf("unable to stat config file: %w", err)
	}
	return nil
}

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

const defaultConfig = `# where audio files are written: <output_dir>/<voice>/[<category>/]<key>.<extension>
output_dir: "public/audio"
extension: "mp3"

# synthesis engine: edge (edge-tts), gtts (gtts-cli) or mock
engine: "edge"
# simultaneous synthesis requests
concurrency: 5
# attempts per file; the wait after attempt n is n × retry_delay
max_attempts: 3
retry_delay: "2s"
# fixed request pacing, 0 for none
requests_per_minute: 0

# voice id (output folder) and engine voice name
voices:
  - id: dalia
    engine_voice: es-MX-DaliaNeural
  - id: jorge
    engine_voice: es-MX-JorgeNeural
  - id: paloma
    engine_voice: es-US-PalomaNeural
  - id: alonso
    engine_voice: es-US-AlonsoNeural

# data files items are extracted from; the pattern has one capture group
# (key and text) or two (key, then text)
datasets:
  - name: words
    file: "src/data/words.js"
    pattern: 'word:\s*"([^"]+)"'
    progress_every: 50
  - name: sentences
    file: "src/data/sentences.js"
    pattern: '"([^"]+)":\s*"([^"]+)"'
    category: sentence
    progress_every: 100

# synthesized audio cache, disabled while dir is empty
cache:
  dir: ""
  max_size_mb: 500
  compression_level: 3

engines:
  edge:
    binary: "edge-tts"
    timeout: "60s"
    # rate: "-10%"
    # volume: "+0%"
    # pitch: "+0Hz"
  gtts:
    binary: "gtts-cli"
    slow: false
    timeout: "30s"
  mock:
    delay: "0s"
`

var configCmd = &cobra.Command{
	Use:     "config",
	Hidden:  false,
	Short:   "Edit the spellbee-audio config file",
	Long:    paragraph(fmt.Sprintf("\n%s the spellbee-audio config file. We’ll use EDITOR to determine which editor to use. If the config file doesn't exist, it will be created.", keyword("Edit"))),
	Example: paragraph("spellbee-audio config\nspellbee-audio config --config path/to/config.yml"),
	Args:    cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		if err := ensureConfigFile(); err != nil {
			return err
		}

		c, err := editor.Cmd("spellbee-audio", configFile)
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

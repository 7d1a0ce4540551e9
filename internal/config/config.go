package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgnsrekt/spellbee-audio/internal/store"
	"github.com/dgnsrekt/spellbee-audio/internal/tts"
	"github.com/dgnsrekt/spellbee-audio/internal/tts/engines"
	"github.com/dgnsrekt/spellbee-audio/internal/ttypes"
	"github.com/go-playground/validator/v10"
)

// ErrUnknownDataset is returned when a dataset name is not configured.
var ErrUnknownDataset = errors.New("unknown dataset")

// Config holds all application configuration.
type Config struct {
	// OutputDir is the artifact root
	OutputDir string `mapstructure:"output_dir" validate:"required"`

	// Extension of written artifacts, without the dot
	Extension string `mapstructure:"extension" validate:"required,excludesall=/."`

	// Engine selects the synthesizer: edge, gtts or mock
	Engine string `mapstructure:"engine" validate:"required"`

	Concurrency int           `mapstructure:"concurrency" validate:"gte=1,lte=64"`
	MaxAttempts int           `mapstructure:"max_attempts" validate:"gte=1,lte=20"`
	RetryDelay  time.Duration `mapstructure:"retry_delay" validate:"gte=0"`

	// RequestsPerMinute paces synthesis calls; 0 disables pacing
	RequestsPerMinute int `mapstructure:"requests_per_minute" validate:"gte=0"`

	Voices   []ttypes.VoiceProfile `mapstructure:"voices" validate:"required,min=1,unique=ID,dive"`
	Datasets []ttypes.Dataset      `mapstructure:"datasets" validate:"required,min=1,unique=Name,dive"`

	Cache   CacheConfig     `mapstructure:"cache"`
	Engines engines.Options `mapstructure:"engines"`
}

// CacheConfig configures the optional synthesis cache.
type CacheConfig struct {
	// Dir enables the cache when set
	Dir string `mapstructure:"dir"`

	// MaxSizeMB bounds the cache; 0 means unlimited
	MaxSizeMB int64 `mapstructure:"max_size_mb" validate:"gte=0"`

	// CompressionLevel is the zstd level, 0 for the default
	CompressionLevel int `mapstructure:"compression_level" validate:"gte=0,lte=22"`
}

// Default returns the built-in configuration: four Spanish neural voices and
// the words and sentences datasets of the study app.
func Default() Config {
	return Config{
		OutputDir:   "public/audio",
		Extension:   store.DefaultExtension,
		Engine:      string(ttypes.EngineEdge),
		Concurrency: 5,
		MaxAttempts: 3,
		RetryDelay:  2 * time.Second,
		Voices: []ttypes.VoiceProfile{
			{ID: "dalia", EngineVoice: "es-MX-DaliaNeural"},
			{ID: "jorge", EngineVoice: "es-MX-JorgeNeural"},
			{ID: "paloma", EngineVoice: "es-US-PalomaNeural"},
			{ID: "alonso", EngineVoice: "es-US-AlonsoNeural"},
		},
		Datasets: []ttypes.Dataset{
			{
				Name:          "words",
				File:          "src/data/words.js",
				Pattern:       `word:\s*"([^"]+)"`,
				ProgressEvery: 50,
			},
			{
				Name:          "sentences",
				File:          "src/data/sentences.js",
				Pattern:       `"([^"]+)":\s*"([^"]+)"`,
				Category:      "sentence",
				ProgressEvery: 100,
			},
		},
		Cache: CacheConfig{
			MaxSizeMB:        500,
			CompressionLevel: 3,
		},
		Engines: engines.Options{
			Edge: engines.EdgeConfig{Binary: "edge-tts", Timeout: 60 * time.Second},
			GTTS: engines.GTTSConfig{Binary: "gtts-cli", Timeout: 30 * time.Second},
		},
	}
}

var validate = validator.New()

// Validate checks struct constraints and the engine name.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed on '%s'", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if _, err := tts.ValidateEngineSelection("", c.Engine); err != nil {
		return err
	}
	return nil
}

// EngineType returns the normalized engine selection.
func (c *Config) EngineType() ttypes.EngineType {
	t, _ := tts.ValidateEngineSelection("", c.Engine)
	return t
}

// Dataset returns the dataset called name.
func (c *Config) Dataset(name string) (ttypes.Dataset, error) {
	for _, d := range c.Datasets {
		if strings.EqualFold(d.Name, name) {
			return d, nil
		}
	}
	return ttypes.Dataset{}, fmt.Errorf("%w %q: configured datasets are %s",
		ErrUnknownDataset, name, strings.Join(c.DatasetNames(), ", "))
}

// DatasetNames lists the configured dataset names in order.
func (c *Config) DatasetNames() []string {
	names := make([]string, len(c.Datasets))
	for i, d := range c.Datasets {
		names[i] = d.Name
	}
	return names
}

// VoiceIDs lists the configured voice IDs in order.
func (c *Config) VoiceIDs() []string {
	ids := make([]string, len(c.Voices))
	for i, v := range c.Voices {
		ids[i] = v.ID
	}
	return ids
}

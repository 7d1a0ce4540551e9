package config

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dgnsrekt/spellbee-audio/internal/tts"
	"github.com/dgnsrekt/spellbee-audio/internal/ttypes"
	"github.com/spf13/viper"
)

func loadYAML(t *testing.T, doc string) (Config, error) {
	t.Helper()
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(strings.NewReader(doc)); err != nil {
		t.Fatalf("ReadConfig() error = %v", err)
	}
	return Load(v)
}

// TestDefaultConfig tests that default configuration is valid.
func TestDefaultConfig(t *testing.T) {
	cfg := Default()

	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should be valid: %v", err)
	}
	if cfg.Concurrency != 5 {
		t.Errorf("Concurrency = %d, want 5", cfg.Concurrency)
	}
	if cfg.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d, want 3", cfg.MaxAttempts)
	}
	if cfg.RetryDelay != 2*time.Second {
		t.Errorf("RetryDelay = %v, want 2s", cfg.RetryDelay)
	}
	if got := strings.Join(cfg.VoiceIDs(), ","); got != "dalia,jorge,paloma,alonso" {
		t.Errorf("VoiceIDs() = %s", got)
	}
	if cfg.EngineType() != ttypes.EngineEdge {
		t.Errorf("EngineType() = %q, want edge", cfg.EngineType())
	}
}

// TestConfigValidation tests configuration validation.
func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:   "valid config",
			modify: func(*Config) {},
		},
		{
			name:    "zero concurrency",
			modify:  func(c *Config) { c.Concurrency = 0 },
			wantErr: true,
			errMsg:  "Concurrency",
		},
		{
			name:    "zero attempts",
			modify:  func(c *Config) { c.MaxAttempts = 0 },
			wantErr: true,
			errMsg:  "MaxAttempts",
		},
		{
			name:    "no voices",
			modify:  func(c *Config) { c.Voices = nil },
			wantErr: true,
			errMsg:  "Voices",
		},
		{
			name: "duplicate voice id",
			modify: func(c *Config) {
				c.Voices = append(c.Voices, ttypes.VoiceProfile{ID: "dalia", EngineVoice: "es-ES-ElviraNeural"})
			},
			wantErr: true,
			errMsg:  "unique",
		},
		{
			name:    "voice id with slash",
			modify:  func(c *Config) { c.Voices[0].ID = "es/dalia" },
			wantErr: true,
			errMsg:  "excludesall",
		},
		{
			name:    "missing engine voice",
			modify:  func(c *Config) { c.Voices[1].EngineVoice = "" },
			wantErr: true,
			errMsg:  "EngineVoice",
		},
		{
			name:    "dataset without pattern",
			modify:  func(c *Config) { c.Datasets[0].Pattern = "" },
			wantErr: true,
			errMsg:  "Pattern",
		},
		{
			name:    "negative retry delay",
			modify:  func(c *Config) { c.RetryDelay = -time.Second },
			wantErr: true,
			errMsg:  "RetryDelay",
		},
		{
			name:    "invalid engine",
			modify:  func(c *Config) { c.Engine = "say" },
			wantErr: true,
			errMsg:  "invalid synthesis engine",
		},
		{
			name:   "engine alias",
			modify: func(c *Config) { c.Engine = "edge-tts" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("Validate() error = %q, want it to contain %q", err, tt.errMsg)
			}
		})
	}
}

func TestLoadEmptyUsesDefaults(t *testing.T) {
	cfg, err := Load(viper.New())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.Voices) != 4 || len(cfg.Datasets) != 2 {
		t.Errorf("Load() = %d voices, %d datasets, want 4 and 2", len(cfg.Voices), len(cfg.Datasets))
	}
	if cfg.Engines.Edge.Timeout != 60*time.Second {
		t.Errorf("edge timeout = %v, want 60s", cfg.Engines.Edge.Timeout)
	}
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := loadYAML(t, `
output_dir: out
engine: mock
concurrency: 2
max_attempts: 4
retry_delay: 500ms
voices:
  - id: elvira
    engine_voice: es-ES-ElviraNeural
engines:
  edge:
    timeout: 10s
  mock:
    delay: 5ms
cache:
  dir: /tmp/spellbee-cache
`)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.OutputDir != "out" || cfg.Concurrency != 2 || cfg.MaxAttempts != 4 {
		t.Errorf("Load() = %+v", cfg)
	}
	if cfg.RetryDelay != 500*time.Millisecond {
		t.Errorf("RetryDelay = %v, want 500ms", cfg.RetryDelay)
	}
	if len(cfg.Voices) != 1 || cfg.Voices[0].ID != "elvira" {
		t.Errorf("Voices = %+v, want only elvira", cfg.Voices)
	}
	// untouched lists keep their defaults
	if len(cfg.Datasets) != 2 {
		t.Errorf("Datasets = %d, want 2", len(cfg.Datasets))
	}
	if cfg.Engines.Edge.Timeout != 10*time.Second || cfg.Engines.Edge.Binary != "edge-tts" {
		t.Errorf("Edge = %+v", cfg.Engines.Edge)
	}
	if cfg.Engines.Mock.Delay != 5*time.Millisecond {
		t.Errorf("Mock.Delay = %v, want 5ms", cfg.Engines.Mock.Delay)
	}
	if cfg.Cache.Dir != "/tmp/spellbee-cache" || cfg.Cache.MaxSizeMB != 500 {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.EngineType() != ttypes.EngineMock {
		t.Errorf("EngineType() = %q", cfg.EngineType())
	}
}

func TestLoadInvalid(t *testing.T) {
	_, err := loadYAML(t, "engine: festival\n")
	if !errors.Is(err, tts.ErrInvalidEngine) {
		t.Errorf("Load() error = %v, want ErrInvalidEngine", err)
	}

	_, err = loadYAML(t, "voices: []\n")
	if err == nil {
		t.Error("Load() with empty voices should fail")
	}
}

func TestDataset(t *testing.T) {
	cfg := Default()

	d, err := cfg.Dataset("Sentences")
	if err != nil {
		t.Fatalf("Dataset() error = %v", err)
	}
	if d.Category != "sentence" || d.ProgressEvery != 100 {
		t.Errorf("Dataset() = %+v", d)
	}

	if _, err := cfg.Dataset("phrases"); !errors.Is(err, ErrUnknownDataset) {
		t.Errorf("Dataset() error = %v, want ErrUnknownDataset", err)
	}
}

func TestSelectVoices(t *testing.T) {
	cfg := Default()

	all, err := cfg.SelectVoices(nil)
	if err != nil || len(all) != 4 {
		t.Fatalf("SelectVoices(nil) = %d voices, %v", len(all), err)
	}

	got, err := cfg.SelectVoices([]string{"Paloma", "dalia", "paloma"})
	if err != nil {
		t.Fatalf("SelectVoices() error = %v", err)
	}
	if len(got) != 2 || got[0].ID != "paloma" || got[1].ID != "dalia" {
		t.Errorf("SelectVoices() = %+v, want paloma then dalia", got)
	}

	_, err = cfg.SelectVoices([]string{"jor"})
	if !errors.Is(err, ErrUnknownVoice) {
		t.Fatalf("SelectVoices() error = %v, want ErrUnknownVoice", err)
	}
	if !strings.Contains(err.Error(), `did you mean "jorge"`) {
		t.Errorf("SelectVoices() error = %q, want a suggestion", err)
	}
}

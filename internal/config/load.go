package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dgnsrekt/spellbee-audio/internal/ttypes"
	"github.com/dgnsrekt/spellbee-audio/utils"
	"github.com/sahilm/fuzzy"
	"github.com/spf13/viper"
)

// ErrUnknownVoice is returned when a requested voice ID is not configured.
var ErrUnknownVoice = errors.New("unknown voice")

// Load builds the configuration from v layered over Default, expands paths
// and validates the result.
func Load(v *viper.Viper) (Config, error) {
	cfg := Default()

	// Lists in the config file replace the built-in ones instead of being
	// merged into them element by element.
	if v.IsSet("voices") {
		cfg.Voices = nil
	}
	if v.IsSet("datasets") {
		cfg.Datasets = nil
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("unable to decode configuration: %w", err)
	}

	cfg.OutputDir = utils.ExpandPath(cfg.OutputDir)
	cfg.Extension = strings.TrimPrefix(cfg.Extension, ".")
	cfg.Cache.Dir = utils.ExpandPath(cfg.Cache.Dir)
	for i := range cfg.Datasets {
		cfg.Datasets[i].File = utils.ExpandPath(cfg.Datasets[i].File)
	}
	cfg.Engines.Edge.Binary = utils.ExpandPath(cfg.Engines.Edge.Binary)
	cfg.Engines.GTTS.Binary = utils.ExpandPath(cfg.Engines.GTTS.Binary)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// SelectVoices returns the configured voices named by ids, in the order
// given. An empty ids selects every voice. Unknown IDs are reported with the
// closest configured match.
func (c *Config) SelectVoices(ids []string) ([]ttypes.VoiceProfile, error) {
	if len(ids) == 0 {
		return c.Voices, nil
	}

	byID := make(map[string]ttypes.VoiceProfile, len(c.Voices))
	for _, v := range c.Voices {
		byID[strings.ToLower(v.ID)] = v
	}

	selected := make([]ttypes.VoiceProfile, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		id = strings.ToLower(strings.TrimSpace(id))
		if id == "" || seen[id] {
			continue
		}
		v, ok := byID[id]
		if !ok {
			return nil, c.unknownVoice(id)
		}
		seen[id] = true
		selected = append(selected, v)
	}

	if len(selected) == 0 {
		return c.Voices, nil
	}
	return selected, nil
}

func (c *Config) unknownVoice(id string) error {
	ids := c.VoiceIDs()
	if matches := fuzzy.Find(id, ids); len(matches) > 0 {
		return fmt.Errorf("%w %q, did you mean %q?", ErrUnknownVoice, id, matches[0].Str)
	}
	return fmt.Errorf("%w %q: configured voices are %s", ErrUnknownVoice, id, strings.Join(ids, ", "))
}

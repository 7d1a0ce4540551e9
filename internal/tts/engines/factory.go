package engines

import (
	"fmt"

	"github.com/dgnsrekt/spellbee-audio/internal/tts"
	"github.com/dgnsrekt/spellbee-audio/internal/ttypes"
)

// Options carries the per-engine configuration sections.
type Options struct {
	Edge EdgeConfig `mapstructure:"edge"`
	GTTS GTTSConfig `mapstructure:"gtts"`
	Mock MockConfig `mapstructure:"mock"`
}

// New creates the synthesizer for engineType.
func New(engineType ttypes.EngineType, opts Options) (ttypes.Synthesizer, error) {
	switch engineType {
	case ttypes.EngineEdge:
		return NewEdgeEngine(opts.Edge), nil
	case ttypes.EngineGoogle:
		return NewGTTSEngine(opts.GTTS), nil
	case ttypes.EngineMock:
		return NewMockEngine(opts.Mock), nil
	case ttypes.EngineNone:
		return nil, tts.ErrNoEngineConfigured
	default:
		return nil, fmt.Errorf("%w: %s", tts.ErrInvalidEngine, engineType)
	}
}

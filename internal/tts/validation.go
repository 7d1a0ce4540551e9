package tts

import (
	"fmt"
	"strings"

	"github.com/dgnsrekt/spellbee-audio/internal/ttypes"
)

// ValidationResult contains the result of engine validation
type ValidationResult struct {
	// Engine is the validated engine type
	Engine ttypes.EngineType

	// Available indicates if the engine is installed and usable
	Available bool

	// Error contains any validation error
	Error error

	// Guidance provides setup instructions if validation failed
	Guidance string
}

// ValidateEngineSelection resolves the engine to use. The CLI argument takes
// precedence over the configured value; aliases are normalized.
func ValidateEngineSelection(cliArg, configured string) (ttypes.EngineType, error) {
	engineType := strings.TrimSpace(cliArg)
	if engineType == "" {
		engineType = strings.TrimSpace(configured)
	}

	if engineType == "" {
		return ttypes.EngineNone, fmt.Errorf("%w\n\nPlease specify an engine:\n  spellbee-audio words --engine edge    # Microsoft neural voices (online)\n  spellbee-audio words --engine gtts    # Google Translate TTS (online)", ErrNoEngineConfigured)
	}

	switch strings.ToLower(engineType) {
	case "edge", "edge-tts":
		return ttypes.EngineEdge, nil
	case "gtts", "google":
		return ttypes.EngineGoogle, nil
	case "mock":
		return ttypes.EngineMock, nil
	default:
		return ttypes.EngineNone, fmt.Errorf("%w: %s\n\nSupported engines:\n  - edge (edge-tts)\n  - gtts (gtts-cli)\n  - mock (offline placeholder audio)", ErrInvalidEngine, engineType)
	}
}

// ValidateEngine checks that the synthesizer for engineType is usable and
// attaches install guidance when it is not.
func ValidateEngine(engineType ttypes.EngineType, s ttypes.Synthesizer) *ValidationResult {
	result := &ValidationResult{Engine: engineType}

	if err := s.Validate(); err != nil {
		result.Error = fmt.Errorf("%w: %w", ErrEngineNotAvailable, err)
		result.Guidance = installGuidance(engineType)
		return result
	}

	result.Available = true
	return result
}

func installGuidance(engineType ttypes.EngineType) string {
	switch engineType {
	case ttypes.EngineEdge:
		return `edge-tts is not installed. To install:

  pip install edge-tts

Then check that "edge-tts --list-voices" works and lists es-MX voices.`
	case ttypes.EngineGoogle:
		return `gtts-cli is not installed. To install:

  pip install gTTS

Voices for gtts are written as "lang[:tld]", e.g. "es:com.mx".`
	default:
		return ""
	}
}

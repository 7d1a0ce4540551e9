package engines

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/spellbee-audio/internal/cache"
	"github.com/dgnsrekt/spellbee-audio/internal/ttypes"
)

// AudioCache is the subset of the disk cache used by CachedEngine.
type AudioCache interface {
	Get(key string) ([]byte, bool)
	Put(key string, audio []byte) error
}

// CachedEngine serves repeated (voice, text) requests from an audio cache.
type CachedEngine struct {
	next  ttypes.Synthesizer
	cache AudioCache
	name  string
}

// Cached wraps next with c. A nil cache returns next unchanged.
func Cached(next ttypes.Synthesizer, c AudioCache) ttypes.Synthesizer {
	if c == nil {
		return next
	}
	return &CachedEngine{next: next, cache: c, name: next.Info().Name}
}

// Synthesize returns cached audio when available, otherwise calls through
// and caches a non-empty result.
func (c *CachedEngine) Synthesize(ctx context.Context, text, engineVoice string) ([]byte, error) {
	key := cache.Key(c.name, engineVoice, text)
	if audio, ok := c.cache.Get(key); ok {
		log.Debug("Cache hit", "engine", c.name, "voice", engineVoice, "size", len(audio))
		return audio, nil
	}

	audio, err := c.next.Synthesize(ctx, text, engineVoice)
	if err != nil || len(audio) == 0 {
		return audio, err
	}

	// Cache errors are non-fatal
	if err := c.cache.Put(key, audio); err != nil {
		log.Debug("Cache put failed", "engine", c.name, "error", err)
	}
	return audio, nil
}

// Info returns the wrapped engine's info.
func (c *CachedEngine) Info() ttypes.EngineInfo {
	return c.next.Info()
}

// Validate validates the wrapped engine.
func (c *CachedEngine) Validate() error {
	return c.next.Validate()
}

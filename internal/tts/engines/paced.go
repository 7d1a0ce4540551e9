package engines

import (
	"context"
	"fmt"
	"time"

	"github.com/dgnsrekt/spellbee-audio/internal/ttypes"
	"golang.org/x/time/rate"
)

// PacedEngine spaces out requests to an online engine at a fixed rate so a
// long batch does not get the client blocked. The rate never adapts.
type PacedEngine struct {
	next    ttypes.Synthesizer
	limiter *rate.Limiter
}

// Paced wraps next with a limiter allowing requestsPerMinute calls.
// A non-positive rate returns next unchanged.
func Paced(next ttypes.Synthesizer, requestsPerMinute int) ttypes.Synthesizer {
	if requestsPerMinute <= 0 {
		return next
	}
	return &PacedEngine{
		next:    next,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), 1),
	}
}

// Synthesize waits for the limiter and calls through.
func (p *PacedEngine) Synthesize(ctx context.Context, text, engineVoice string) ([]byte, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait cancelled: %w", err)
	}
	return p.next.Synthesize(ctx, text, engineVoice)
}

// Info returns the wrapped engine's info.
func (p *PacedEngine) Info() ttypes.EngineInfo {
	return p.next.Info()
}

// Validate validates the wrapped engine.
func (p *PacedEngine) Validate() error {
	return p.next.Validate()
}

package engines

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/dgnsrekt/spellbee-audio/internal/ttypes"
)

// mockHeader is an ID3v2.4 tag header with an empty body, enough for most
// players to recognise the file as MP3.
var mockHeader = []byte{'I', 'D', '3', 0x04, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}

// MockEngine produces placeholder audio without any external tool. It is
// useful to lay out an output tree or exercise the pipeline offline.
type MockEngine struct {
	delay time.Duration
	calls atomic.Int64
}

// MockConfig holds configuration for the mock engine.
type MockConfig struct {
	// Delay simulates synthesis latency
	Delay time.Duration `mapstructure:"delay"`
}

// NewMockEngine creates a mock engine.
func NewMockEngine(config MockConfig) *MockEngine {
	return &MockEngine{delay: config.Delay}
}

// Synthesize returns the ID3 header followed by voice and text.
func (e *MockEngine) Synthesize(ctx context.Context, text, engineVoice string) ([]byte, error) {
	e.calls.Add(1)

	if e.delay > 0 {
		t := time.NewTimer(e.delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-t.C:
		}
	}

	audio := make([]byte, 0, len(mockHeader)+len(engineVoice)+len(text)+1)
	audio = append(audio, mockHeader...)
	audio = append(audio, engineVoice...)
	audio = append(audio, 0)
	audio = append(audio, text...)
	return audio, nil
}

// Calls returns how many times Synthesize was invoked.
func (e *MockEngine) Calls() int64 {
	return e.calls.Load()
}

// Info returns engine capabilities.
func (e *MockEngine) Info() ttypes.EngineInfo {
	return ttypes.EngineInfo{Name: "mock", Format: "mp3"}
}

// Validate always succeeds.
func (e *MockEngine) Validate() error {
	return nil
}

var _ ttypes.Synthesizer = (*MockEngine)(nil)

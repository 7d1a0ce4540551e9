package engines

import (
	"context"
	"errors"
	"time"

	"github.com/dgnsrekt/spellbee-audio/internal/tts"
	"github.com/dgnsrekt/spellbee-audio/internal/ttypes"
)

// EdgeEngine synthesizes speech with Microsoft Edge's online neural voices
// through the edge-tts command line tool, which writes MP3 to stdout when no
// --write-media path is given.
type EdgeEngine struct {
	binary  string
	timeout time.Duration
	rate    string
	volume  string
	pitch   string
}

// EdgeConfig holds configuration for the edge engine.
type EdgeConfig struct {
	// Binary is the edge-tts executable - defaults to "edge-tts"
	Binary string `mapstructure:"binary"`

	// Timeout per synthesis call - defaults to 60s
	Timeout time.Duration `mapstructure:"timeout"`

	// Rate, Volume and Pitch are passed through when set, e.g. "-10%", "+0%", "+0Hz"
	Rate   string `mapstructure:"rate"`
	Volume string `mapstructure:"volume"`
	Pitch  string `mapstructure:"pitch"`
}

// NewEdgeEngine creates an edge-tts engine.
func NewEdgeEngine(config EdgeConfig) *EdgeEngine {
	if config.Binary == "" {
		config.Binary = "edge-tts"
	}
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}

	return &EdgeEngine{
		binary:  config.Binary,
		timeout: config.Timeout,
		rate:    config.Rate,
		volume:  config.Volume,
		pitch:   config.Pitch,
	}
}

// Synthesize runs edge-tts for text with the given neural voice
// (e.g. "es-MX-DaliaNeural") and returns the MP3 bytes.
func (e *EdgeEngine) Synthesize(ctx context.Context, text, engineVoice string) ([]byte, error) {
	if text == "" {
		return nil, tts.NewSynthesisError(tts.ErrorCodeInvalidInput, "edge", engineVoice, errors.New("text cannot be empty"))
	}

	// The = form keeps text starting with a dash from being read as a flag.
	args := []string{"--voice=" + engineVoice, "--text=" + text}
	if e.rate != "" {
		args = append(args, "--rate="+e.rate)
	}
	if e.volume != "" {
		args = append(args, "--volume="+e.volume)
	}
	if e.pitch != "" {
		args = append(args, "--pitch="+e.pitch)
	}

	audio, err := runCommand(ctx, e.timeout, e.binary, args...)
	if err != nil {
		return nil, tts.NewSynthesisError(errorCode(err), "edge", engineVoice, err)
	}
	if len(audio) == 0 {
		return nil, tts.NewSynthesisError(tts.ErrorCodeEmptyAudio, "edge", engineVoice, tts.ErrEmptyAudio)
	}

	return audio, nil
}

// Info returns engine capabilities.
func (e *EdgeEngine) Info() ttypes.EngineInfo {
	return ttypes.EngineInfo{
		Name:     "edge",
		Format:   "mp3",
		IsOnline: true,
	}
}

// Validate checks that edge-tts is installed.
func (e *EdgeEngine) Validate() error {
	return checkBinary(e.binary, "--help")
}

// errorCode maps a subprocess error to a synthesis error code.
func errorCode(err error) tts.ErrorCode {
	switch {
	case errors.Is(err, errTimeout):
		return tts.ErrorCodeEngineTimeout
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return tts.ErrorCodeCanceled
	default:
		return tts.ErrorCodeEngineFailure
	}
}

var _ ttypes.Synthesizer = (*EdgeEngine)(nil)

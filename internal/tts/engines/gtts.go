package engines

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgnsrekt/spellbee-audio/internal/tts"
	"github.com/dgnsrekt/spellbee-audio/internal/ttypes"
)

// gttsMaxTextSize is the longest text accepted in one request.
const gttsMaxTextSize = 5000

// GTTSEngine synthesizes speech with gTTS (Google Translate TTS) via gtts-cli.
// It needs no API key. Voices are written "lang[:tld]", where the tld picks
// the regional accent, e.g. "es:com.mx" or "es:us".
type GTTSEngine struct {
	binary  string
	slow    bool
	timeout time.Duration
}

// GTTSConfig holds configuration for the gTTS engine.
type GTTSConfig struct {
	// Binary is the gtts-cli executable - defaults to "gtts-cli"
	Binary string `mapstructure:"binary"`

	// Slow speech (--slow flag) - defaults to false
	Slow bool `mapstructure:"slow"`

	// Timeout per synthesis call - defaults to 30s
	Timeout time.Duration `mapstructure:"timeout"`
}

// NewGTTSEngine creates a new gTTS engine.
func NewGTTSEngine(config GTTSConfig) *GTTSEngine {
	if config.Binary == "" {
		config.Binary = "gtts-cli"
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	return &GTTSEngine{
		binary:  config.Binary,
		slow:    config.Slow,
		timeout: config.Timeout,
	}
}

// ParseGTTSVoice splits "lang[:tld]" into its parts.
func ParseGTTSVoice(voice string) (lang, tld string, err error) {
	lang, tld, _ = strings.Cut(strings.TrimSpace(voice), ":")
	if lang == "" {
		return "", "", fmt.Errorf("invalid gtts voice %q: expected lang[:tld]", voice)
	}
	return lang, tld, nil
}

// Synthesize converts text to MP3 using gtts-cli.
func (e *GTTSEngine) Synthesize(ctx context.Context, text, engineVoice string) ([]byte, error) {
	if text == "" {
		return nil, tts.NewSynthesisError(tts.ErrorCodeInvalidInput, "gtts", engineVoice, errors.New("text cannot be empty"))
	}
	if len(text) > gttsMaxTextSize {
		return nil, tts.NewSynthesisError(tts.ErrorCodeTextTooLong, "gtts", engineVoice,
			fmt.Errorf("%w: %d characters (max %d)", tts.ErrTextTooLong, len(text), gttsMaxTextSize))
	}

	lang, tld, err := ParseGTTSVoice(engineVoice)
	if err != nil {
		return nil, tts.NewSynthesisError(tts.ErrorCodeInvalidInput, "gtts", engineVoice, err)
	}

	args := []string{"-l", lang}
	if tld != "" {
		args = append(args, "--tld", tld)
	}
	if e.slow {
		args = append(args, "--slow")
	}
	args = append(args, "-o", "-", "--", text)

	audio, err := runCommand(ctx, e.timeout, e.binary, args...)
	if err != nil {
		return nil, tts.NewSynthesisError(errorCode(err), "gtts", engineVoice, err)
	}
	if len(audio) == 0 {
		return nil, tts.NewSynthesisError(tts.ErrorCodeEmptyAudio, "gtts", engineVoice, tts.ErrEmptyAudio)
	}

	return audio, nil
}

// Info returns engine capabilities.
func (e *GTTSEngine) Info() ttypes.EngineInfo {
	return ttypes.EngineInfo{
		Name:        "gtts",
		Format:      "mp3",
		MaxTextSize: gttsMaxTextSize,
		IsOnline:    true,
	}
}

// Validate checks that gtts-cli is installed.
func (e *GTTSEngine) Validate() error {
	return checkBinary(e.binary, "--help")
}

var _ ttypes.Synthesizer = (*GTTSEngine)(nil)

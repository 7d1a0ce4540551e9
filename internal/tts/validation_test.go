package tts

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dgnsrekt/spellbee-audio/internal/ttypes"
)

func TestValidateEngineSelection(t *testing.T) {
	tests := []struct {
		name       string
		cliArg     string
		configured string
		want       ttypes.EngineType
		wantErr    error
	}{
		{"CLI arg takes precedence", "gtts", "edge", ttypes.EngineGoogle, nil},
		{"google alias", "google", "", ttypes.EngineGoogle, nil},
		{"edge-tts alias", "edge-tts", "", ttypes.EngineEdge, nil},
		{"config used when no CLI arg", "", "edge", ttypes.EngineEdge, nil},
		{"case insensitive", "MOCK", "", ttypes.EngineMock, nil},
		{"nothing selected", "", "", ttypes.EngineNone, ErrNoEngineConfigured},
		{"blank selected", "  ", " ", ttypes.EngineNone, ErrNoEngineConfigured},
		{"unknown engine", "piper", "", ttypes.EngineNone, ErrInvalidEngine},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateEngineSelection(tt.cliArg, tt.configured)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Expected error %v, got %v", tt.wantErr, err)
				}
			} else if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ValidateEngineSelection() = %q, want %q", got, tt.want)
			}
		})
	}
}

type stubSynth struct {
	validateErr error
}

func (s stubSynth) Info() ttypes.EngineInfo { return ttypes.EngineInfo{Name: "stub"} }
func (s stubSynth) Validate() error         { return s.validateErr }
func (s stubSynth) Synthesize(context.Context, string, string) ([]byte, error) {
	return nil, nil
}

func TestValidateEngine(t *testing.T) {
	ok := ValidateEngine(ttypes.EngineMock, stubSynth{})
	if !ok.Available || ok.Error != nil {
		t.Errorf("Expected available engine, got %+v", ok)
	}

	bad := ValidateEngine(ttypes.EngineEdge, stubSynth{validateErr: errors.New("edge-tts not found in PATH")})
	if bad.Available {
		t.Error("Engine should not be available")
	}
	if !errors.Is(bad.Error, ErrEngineNotAvailable) {
		t.Errorf("Expected ErrEngineNotAvailable, got %v", bad.Error)
	}
	if !strings.Contains(bad.Guidance, "pip install edge-tts") {
		t.Errorf("Expected install guidance, got %q", bad.Guidance)
	}
}

func TestSynthesisError(t *testing.T) {
	cause := errors.New("exit status 1")
	err := NewSynthesisError(ErrorCodeEngineFailure, "edge", "es-MX-DaliaNeural", cause)

	if !errors.Is(err, cause) {
		t.Error("SynthesisError should unwrap to its cause")
	}
	if !strings.Contains(err.Error(), "es-MX-DaliaNeural") {
		t.Errorf("Error text should name the voice: %s", err)
	}
	if !err.IsRetryable() {
		t.Error("Engine failures should be retryable")
	}

	if NewSynthesisError(ErrorCodeTextTooLong, "gtts", "es", ErrTextTooLong).IsRetryable() {
		t.Error("Text too long should not be retryable")
	}

	var se *SynthesisError
	wrapped := errors.Join(errors.New("attempt 3"), err)
	if !errors.As(wrapped, &se) || se.Engine != "edge" {
		t.Error("errors.As should find the SynthesisError")
	}
}

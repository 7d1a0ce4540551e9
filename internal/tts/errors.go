package tts

import (
	"errors"
	"fmt"
)

// Common synthesis errors
var (
	// ErrNoEngineConfigured indicates no synthesis engine has been selected
	ErrNoEngineConfigured = errors.New("no synthesis engine configured - specify --engine edge, gtts or mock")

	// ErrInvalidEngine indicates an unknown engine was specified
	ErrInvalidEngine = errors.New("invalid synthesis engine specified")

	// ErrEngineNotAvailable indicates the selected engine is not installed or usable
	ErrEngineNotAvailable = errors.New("selected synthesis engine is not available")

	// ErrEmptyAudio indicates a synthesis call returned no audio
	ErrEmptyAudio = errors.New("empty audio produced")

	// ErrTextTooLong indicates the text exceeds the engine's limit
	ErrTextTooLong = errors.New("text too long for engine")
)

// ErrorCode identifies specific error types
type ErrorCode string

const (
	// Engine errors
	ErrorCodeEngineFailure     ErrorCode = "ENGINE_FAILURE"
	ErrorCodeEngineUnavailable ErrorCode = "ENGINE_UNAVAILABLE"
	ErrorCodeEngineTimeout     ErrorCode = "ENGINE_TIMEOUT"

	// Output errors
	ErrorCodeEmptyAudio ErrorCode = "EMPTY_AUDIO"

	// Input errors
	ErrorCodeInvalidInput ErrorCode = "INVALID_INPUT"
	ErrorCodeTextTooLong  ErrorCode = "TEXT_TOO_LONG"

	// System errors
	ErrorCodeCanceled ErrorCode = "CANCELED"
)

// SynthesisError represents a failed synthesis call with the engine and voice involved.
type SynthesisError struct {
	Code   ErrorCode
	Engine string
	Voice  string
	Cause  error
}

// NewSynthesisError creates a synthesis error.
func NewSynthesisError(code ErrorCode, engine, voice string, cause error) *SynthesisError {
	return &SynthesisError{
		Code:   code,
		Engine: engine,
		Voice:  voice,
		Cause:  cause,
	}
}

// Error implements the error interface
func (e *SynthesisError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s/%s: %v", e.Code, e.Engine, e.Voice, e.Cause)
	}
	return fmt.Sprintf("%s: %s/%s", e.Code, e.Engine, e.Voice)
}

// Unwrap returns the underlying error
func (e *SynthesisError) Unwrap() error {
	return e.Cause
}

// IsRetryable returns true if another attempt may succeed.
// Input errors never will, everything else might be transient.
func (e *SynthesisError) IsRetryable() bool {
	switch e.Code {
	case ErrorCodeInvalidInput,
		ErrorCodeTextTooLong,
		ErrorCodeCanceled:
		return false
	default:
		return true
	}
}

// Package ttypes contains shared types and interfaces for the audio pipeline.
// This package is used to break import cycles between source, store, engines and pipeline packages.
package ttypes

import (
	"context"
	"fmt"
)

// EngineType represents the synthesis engine selection
type EngineType string

const (
	// EngineEdge represents the Microsoft Edge neural voices via edge-tts
	EngineEdge EngineType = "edge"

	// EngineGoogle represents Google Translate TTS via gtts-cli
	EngineGoogle EngineType = "gtts"

	// EngineMock represents the deterministic offline mock engine
	EngineMock EngineType = "mock"

	// EngineNone represents no engine selected
	EngineNone EngineType = ""
)

// WorkItem is one unit of text to convert to audio.
type WorkItem struct {
	// Key names the artifact; unique per source, compared case-insensitively
	Key string

	// Text is the payload handed to the synthesizer
	Text string
}

// VoiceProfile is a named synthesis configuration producing one output namespace.
type VoiceProfile struct {
	// ID is the short identifier used as the storage namespace (e.g. "dalia")
	ID string `mapstructure:"id" validate:"required,excludesall=/"`

	// EngineVoice is passed verbatim to the synthesizer (e.g. "es-MX-DaliaNeural")
	EngineVoice string `mapstructure:"engine_voice" validate:"required"`
}

// String returns "id (engine voice)".
func (v VoiceProfile) String() string {
	return fmt.Sprintf("%s (%s)", v.ID, v.EngineVoice)
}

// Outcome is the terminal state of one (voice, item) conversion.
type Outcome int

const (
	// OutcomeCreated means a new non-empty artifact was written
	OutcomeCreated Outcome = iota

	// OutcomeAlreadyPresent means a non-empty artifact already existed
	OutcomeAlreadyPresent

	// OutcomeFailed means every attempt failed
	OutcomeFailed
)

// String returns the string representation of the outcome
func (o Outcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeAlreadyPresent:
		return "skipped"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is produced exactly once per (voice, item) pair.
type Result struct {
	Voice    string
	Key      string
	Outcome  Outcome
	Attempts int   // Synthesis attempts made (0 when already present)
	Bytes    int64 // Size of the written artifact
	Err      error // Last cause when Outcome is OutcomeFailed
}

// EngineInfo describes a synthesis engine.
type EngineInfo struct {
	Name        string // Engine name (e.g., "edge", "gtts")
	Format      string // Container of the produced audio (e.g., "mp3")
	MaxTextSize int    // Maximum text size in characters, 0 for unlimited
	IsOnline    bool   // Whether the engine requires internet
}

// Synthesizer converts text to encoded audio bytes for one engine voice.
// Implementations must be safe for concurrent use.
type Synthesizer interface {
	// Synthesize returns the audio for text spoken by engineVoice.
	// An empty result with a nil error is possible and callers must treat it as a failure.
	Synthesize(ctx context.Context, text, engineVoice string) ([]byte, error)

	// Info returns engine capabilities.
	Info() EngineInfo

	// Validate checks that the engine is installed and usable.
	Validate() error
}

// Dataset describes one source of items and where its artifacts go.
type Dataset struct {
	// Name identifies the dataset on the command line (e.g. "words")
	Name string `mapstructure:"name" validate:"required"`

	// File is the data file items are extracted from
	File string `mapstructure:"file" validate:"required"`

	// Pattern is a regular expression with one or two capture groups
	Pattern string `mapstructure:"pattern" validate:"required"`

	// Category is an optional subdirectory under each voice
	Category string `mapstructure:"category" validate:"excludesall=/"`

	// ProgressEvery is the number of completions between progress lines
	ProgressEvery int `mapstructure:"progress_every" validate:"gte=0"`
}

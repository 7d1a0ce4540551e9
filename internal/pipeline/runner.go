package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/spellbee-audio/internal/queue"
	"github.com/dgnsrekt/spellbee-audio/internal/tts"
	"github.com/dgnsrekt/spellbee-audio/internal/ttypes"
	"github.com/sethvargo/go-retry"
)

// DefaultMaxAttempts is the number of synthesize and write cycles tried per
// pair when none is configured.
const DefaultMaxAttempts = 3

// errNotPersisted is returned when a write succeeded but no non-empty
// artifact is found at the location afterwards.
var errNotPersisted = errors.New("artifact empty or missing after write")

// Store is where artifacts live. *store.FileStore implements it.
type Store interface {
	Location(voiceID, category, key string) string
	ExistsNonEmpty(loc string) bool
	Size(loc string) int64
	EnsureDir(loc string) error
	Write(loc string, data []byte) error
	Delete(loc string) error
}

// RunnerConfig holds the retry settings of a Runner.
type RunnerConfig struct {
	// MaxAttempts bounds the synthesize and write cycles per pair - defaults to 3
	MaxAttempts int

	// RetryDelay is the base of the linear backoff: the wait after attempt n is n × RetryDelay
	RetryDelay time.Duration

	Logger *log.Logger
}

// Runner converts a single (voice, item) pair into an artifact.
type Runner struct {
	store       Store
	synth       ttypes.Synthesizer
	gate        *queue.Gate
	maxAttempts int
	retryDelay  time.Duration
	logger      *log.Logger
}

// NewRunner creates a runner. Every synthesis call holds a slot of gate.
func NewRunner(store Store, synth ttypes.Synthesizer, gate *queue.Gate, config RunnerConfig) *Runner {
	if config.MaxAttempts < 1 {
		config.MaxAttempts = DefaultMaxAttempts
	}
	if config.RetryDelay < 0 {
		config.RetryDelay = 0
	}
	if config.Logger == nil {
		config.Logger = log.Default()
	}
	if gate == nil {
		gate = queue.NewGate(queue.DefaultCapacity)
	}

	return &Runner{
		store:       store,
		synth:       synth,
		gate:        gate,
		maxAttempts: config.MaxAttempts,
		retryDelay:  config.RetryDelay,
		logger:      config.Logger,
	}
}

// Run produces the Result for one pair. It never returns an error: failures
// are reported through Result.Outcome and Result.Err.
func (r *Runner) Run(ctx context.Context, voice ttypes.VoiceProfile, category string, item ttypes.WorkItem) ttypes.Result {
	res := ttypes.Result{Voice: voice.ID, Key: item.Key}
	loc := r.store.Location(voice.ID, category, item.Key)

	if r.store.ExistsNonEmpty(loc) {
		res.Outcome = ttypes.OutcomeAlreadyPresent
		res.Bytes = r.store.Size(loc)
		return res
	}

	backoff := retry.WithMaxRetries(uint64(r.maxAttempts-1), LinearBackoff(r.retryDelay)) //nolint:gosec
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		res.Attempts++
		n, err := r.attempt(ctx, voice, item, loc)
		if err == nil {
			res.Bytes = n
			return nil
		}

		// never leave a zero-byte file where a later run would look
		if r.store.Size(loc) == 0 {
			if derr := r.store.Delete(loc); derr != nil {
				r.logger.Warn("unable to remove empty artifact", "path", loc, "error", derr)
			}
		}

		// only cancellation ends a pair early; every other failure uses the
		// full attempt budget
		if ctx.Err() != nil {
			return ctx.Err()
		}

		r.logger.Debug("attempt failed",
			"voice", voice.ID,
			"key", item.Key,
			"attempt", res.Attempts,
			"code", errorCode(err),
			"error", err)
		return retry.RetryableError(err)
	})

	if err != nil {
		res.Outcome = ttypes.OutcomeFailed
		res.Err = err
		res.Bytes = 0
		r.logger.Debug("giving up on item",
			"voice", voice.ID,
			"key", item.Key,
			"attempts", res.Attempts,
			"error", err)
		return res
	}

	res.Outcome = ttypes.OutcomeCreated
	return res
}

// attempt runs one synthesize, write and verify cycle and returns the size
// of the stored artifact.
func (r *Runner) attempt(ctx context.Context, voice ttypes.VoiceProfile, item ttypes.WorkItem, loc string) (int64, error) {
	if err := r.gate.Acquire(ctx); err != nil {
		return 0, err
	}
	data, err := r.synth.Synthesize(ctx, item.Text, voice.EngineVoice)
	if rerr := r.gate.Release(); rerr != nil {
		r.logger.Warn("gate release failed", "error", rerr)
	}
	if err != nil {
		return 0, err
	}
	if len(data) == 0 {
		return 0, tts.NewSynthesisError(tts.ErrorCodeEmptyAudio, r.synth.Info().Name, voice.EngineVoice, tts.ErrEmptyAudio)
	}

	if err := r.store.EnsureDir(loc); err != nil {
		return 0, err
	}
	if err := r.store.Write(loc, data); err != nil {
		return 0, err
	}
	if !r.store.ExistsNonEmpty(loc) {
		return 0, fmt.Errorf("%w: %s", errNotPersisted, loc)
	}
	return r.store.Size(loc), nil
}

// errorCode names the failure class of err for logging.
func errorCode(err error) string {
	var serr *tts.SynthesisError
	if errors.As(err, &serr) {
		return string(serr.Code)
	}
	return "UNKNOWN"
}

// LinearBackoff returns a backoff whose n-th delay is n × base. It never
// stops on its own; wrap it with retry.WithMaxRetries.
func LinearBackoff(base time.Duration) retry.Backoff {
	var attempt atomic.Int64
	return retry.BackoffFunc(func() (time.Duration, bool) {
		return base * time.Duration(attempt.Add(1)), false
	})
}

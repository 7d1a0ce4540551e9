package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/spellbee-audio/internal/queue"
	"github.com/dgnsrekt/spellbee-audio/internal/source"
	"github.com/dgnsrekt/spellbee-audio/internal/ttypes"
)

// ErrIncomplete is returned by Run when at least one pair failed every attempt.
// Re-running the same dataset retries only the missing artifacts.
var ErrIncomplete = errors.New("some audio files failed to generate")

// Counts tallies outcomes.
type Counts struct {
	Created int
	Skipped int
	Failed  int
}

// Done returns the number of finished pairs.
func (c Counts) Done() int {
	return c.Created + c.Skipped + c.Failed
}

// Add records one outcome.
func (c *Counts) Add(o ttypes.Outcome) {
	switch o {
	case ttypes.OutcomeCreated:
		c.Created++
	case ttypes.OutcomeAlreadyPresent:
		c.Skipped++
	case ttypes.OutcomeFailed:
		c.Failed++
	}
}

// Merge adds other to c.
func (c *Counts) Merge(other Counts) {
	c.Created += other.Created
	c.Skipped += other.Skipped
	c.Failed += other.Failed
}

// VoiceSummary is the outcome of one voice pass.
type VoiceSummary struct {
	Voice   ttypes.VoiceProfile
	Counts  Counts
	Bytes   int64 // Bytes written by newly created artifacts
	Elapsed time.Duration
}

// Summary is the outcome of a whole run.
type Summary struct {
	RunID   string
	Dataset string
	Items   int
	Voices  []VoiceSummary
	Total   Counts
	Bytes   int64
	Elapsed time.Duration
}

// PlanEntry is the dry-run view of one voice.
type PlanEntry struct {
	Voice   ttypes.VoiceProfile
	Total   int
	Present int
	Pending int
}

// Config holds pipeline construction options.
type Config struct {
	// RunID tags log lines and the summary
	RunID string

	// Reporter receives console events; nil discards them
	Reporter Reporter

	Logger *log.Logger
}

// Pipeline runs datasets through a Runner, one voice at a time.
type Pipeline struct {
	runner   *Runner
	gate     *queue.Gate
	reporter Reporter
	logger   *log.Logger
	runID    string
}

// New creates a pipeline around runner.
func New(runner *Runner, config Config) *Pipeline {
	if config.Reporter == nil {
		config.Reporter = NopReporter{}
	}
	if config.Logger == nil {
		config.Logger = log.Default()
	}

	return &Pipeline{
		runner:   runner,
		gate:     runner.gate,
		reporter: config.Reporter,
		logger:   config.Logger,
		runID:    config.RunID,
	}
}

// LoadItems extracts the work items of ds. Zero items is an error.
func LoadItems(ds ttypes.Dataset) ([]ttypes.WorkItem, error) {
	items, err := source.Load(ds.File, ds.Pattern)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", ds.Name, err)
	}
	return items, nil
}

// Run sources the items of ds and materializes one artifact per
// (voice, item) pair. Voices are processed sequentially in the given order;
// within a voice items run concurrently, bounded by the runner's gate.
//
// The returned Summary is always complete for the voices processed. The
// error wraps ErrIncomplete when any pair failed, or the context error when
// the run was interrupted between voices.
func (p *Pipeline) Run(ctx context.Context, ds ttypes.Dataset, voices []ttypes.VoiceProfile) (Summary, error) {
	start := time.Now()
	summary := Summary{RunID: p.runID, Dataset: ds.Name}

	items, err := LoadItems(ds)
	if err != nil {
		return summary, err
	}
	summary.Items = len(items)

	p.logger.Debug("starting run",
		"dataset", ds.Name,
		"items", len(items),
		"voices", len(voices),
		"concurrency", p.gate.Capacity())
	p.reporter.Start(ds, len(items), voices)

	for _, voice := range voices {
		if err := ctx.Err(); err != nil {
			summary.Elapsed = time.Since(start)
			return summary, fmt.Errorf("run interrupted: %w", err)
		}

		vs := p.runVoice(ctx, ds, voice, items)
		summary.Voices = append(summary.Voices, vs)
		summary.Total.Merge(vs.Counts)
		summary.Bytes += vs.Bytes
	}

	summary.Elapsed = time.Since(start)
	p.reporter.Finish(ds, summary)

	stats := p.gate.Stats()
	p.logger.Debug("run finished",
		"dataset", ds.Name,
		"created", summary.Total.Created,
		"skipped", summary.Total.Skipped,
		"failed", summary.Total.Failed,
		"peak_in_flight", stats.Peak,
		"elapsed", summary.Elapsed)

	if summary.Total.Failed > 0 {
		return summary, fmt.Errorf("%w: %d of %d", ErrIncomplete,
			summary.Total.Failed, summary.Total.Done())
	}
	return summary, nil
}

// runVoice dispatches one task per item and collects the results in
// completion order. Counters are only touched by this goroutine.
func (p *Pipeline) runVoice(ctx context.Context, ds ttypes.Dataset, voice ttypes.VoiceProfile, items []ttypes.WorkItem) VoiceSummary {
	start := time.Now()
	vs := VoiceSummary{Voice: voice}
	label := progressLabel(voice.ID, ds.Category)

	p.reporter.VoiceStart(ds, voice)

	results := make(chan ttypes.Result, len(items))
	for _, item := range items {
		go func(item ttypes.WorkItem) {
			results <- p.runner.Run(ctx, voice, ds.Category, item)
		}(item)
	}

	total := len(items)
	for i := 0; i < total; i++ {
		res := <-results
		vs.Counts.Add(res.Outcome)

		switch res.Outcome {
		case ttypes.OutcomeCreated:
			vs.Bytes += res.Bytes
		case ttypes.OutcomeFailed:
			p.reporter.Failure(label, res)
		}

		done := vs.Counts.Done()
		if (ds.ProgressEvery > 0 && done%ds.ProgressEvery == 0) || done == total {
			p.reporter.Progress(label, done, total, vs.Counts)
		}
	}

	vs.Elapsed = time.Since(start)
	p.reporter.VoiceDone(vs)
	return vs
}

// Plan reports, per voice, how many artifacts of items already exist in st.
// Nothing is synthesized.
func Plan(st Store, ds ttypes.Dataset, items []ttypes.WorkItem, voices []ttypes.VoiceProfile) []PlanEntry {
	entries := make([]PlanEntry, 0, len(voices))
	for _, voice := range voices {
		e := PlanEntry{Voice: voice, Total: len(items)}
		for _, item := range items {
			if st.ExistsNonEmpty(st.Location(voice.ID, ds.Category, item.Key)) {
				e.Present++
			}
		}
		e.Pending = e.Total - e.Present
		entries = append(entries, e)
	}
	return entries
}

func progressLabel(voiceID, category string) string {
	if category == "" {
		return voiceID
	}
	return voiceID + "/" + category
}

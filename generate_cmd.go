package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/spellbee-audio/internal/cache"
	"github.com/dgnsrekt/spellbee-audio/internal/config"
	"github.com/dgnsrekt/spellbee-audio/internal/pipeline"
	"github.com/dgnsrekt/spellbee-audio/internal/queue"
	"github.com/dgnsrekt/spellbee-audio/internal/store"
	"github.com/dgnsrekt/spellbee-audio/internal/tts"
	"github.com/dgnsrekt/spellbee-audio/internal/tts/engines"
	"github.com/dgnsrekt/spellbee-audio/internal/ttypes"
	"github.com/dgnsrekt/spellbee-audio/internal/watch"
	"github.com/dgnsrekt/spellbee-audio/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

var allCmd = &cobra.Command{
	Use:   "all",
	Short: "Generate audio for every configured dataset, words first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return generate(cmd.Context(), cmd.OutOrStdout(), cfg, cfg.DatasetNames())
	},
}

func datasetCmd(name, short string) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return generate(cmd.Context(), cmd.OutOrStdout(), cfg, []string{name})
		},
	}
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return cfg, err
	}
	log.Debug("Loaded configuration",
		"engine", cfg.Engine,
		"output", cfg.OutputDir,
		"concurrency", cfg.Concurrency,
		"attempts", cfg.MaxAttempts)
	return cfg, nil
}

// generate runs the named datasets in order and, in watch mode, keeps
// regenerating them as their files change.
func generate(ctx context.Context, w io.Writer, cfg config.Config, names []string) error {
	voices, err := cfg.SelectVoices(voiceIDs)
	if err != nil {
		return err
	}

	datasets := make([]ttypes.Dataset, 0, len(names))
	for _, name := range names {
		ds, err := cfg.Dataset(name)
		if err != nil {
			return err
		}
		datasets = append(datasets, ds)
	}

	synth, closeSynth, err := newSynthesizer(cfg)
	if err != nil {
		return err
	}
	defer closeSynth()

	logger, runID := runLogger()
	fs := store.New(cfg.OutputDir, cfg.Extension)
	runner := pipeline.NewRunner(fs, synth, queue.NewGate(cfg.Concurrency), pipeline.RunnerConfig{
		MaxAttempts: cfg.MaxAttempts,
		RetryDelay:  cfg.RetryDelay,
		Logger:      logger,
	})
	p := pipeline.New(runner, pipeline.Config{
		RunID:    runID,
		Reporter: pipeline.NewConsoleReporter(w, utils.DisplayPath(cfg.OutputDir), isTerminal(w)),
		Logger:   logger,
	})

	state := newRunState(datasets)
	runErr := runDatasets(ctx, w, p, datasets, voices, state)
	if !watchMode || ctx.Err() != nil {
		return runErr
	}
	if runErr != nil && !errors.Is(runErr, pipeline.ErrIncomplete) {
		return runErr
	}

	return watchDatasets(ctx, w, p, datasets, voices, state)
}

// runState keeps the latest incomplete run of each dataset so that a watch
// session ending with files still missing exits like a single run would.
type runState struct {
	order      []string
	incomplete map[string]error
}

func newRunState(datasets []ttypes.Dataset) *runState {
	s := &runState{incomplete: make(map[string]error, len(datasets))}
	for _, ds := range datasets {
		s.order = append(s.order, ds.Name)
	}
	return s
}

// record notes the outcome of a dataset run. A complete run clears an
// earlier failure; interrupted runs and other errors leave it as it was.
func (s *runState) record(name string, err error) {
	switch {
	case err == nil:
		delete(s.incomplete, name)
	case errors.Is(err, pipeline.ErrIncomplete):
		s.incomplete[name] = err
	}
}

// err returns the incomplete run of the first dataset still missing files.
func (s *runState) err() error {
	for _, name := range s.order {
		if err, ok := s.incomplete[name]; ok {
			return err
		}
	}
	return nil
}

func runDatasets(ctx context.Context, w io.Writer, p *pipeline.Pipeline, datasets []ttypes.Dataset, voices []ttypes.VoiceProfile, state *runState) error {
	for i, ds := range datasets {
		if i > 0 {
			_, _ = fmt.Fprintln(w)
		}
		_, err := p.Run(ctx, ds, voices)
		if err != nil && !errors.Is(err, pipeline.ErrIncomplete) {
			return err
		}
		state.record(ds.Name, err)
	}
	return state.err()
}

func watchDatasets(ctx context.Context, w io.Writer, p *pipeline.Pipeline, datasets []ttypes.Dataset, voices []ttypes.VoiceProfile, state *runState) error {
	byFile := make(map[string]ttypes.Dataset, len(datasets))
	files := make([]string, 0, len(datasets))
	for _, ds := range datasets {
		abs, err := filepath.Abs(ds.File)
		if err != nil {
			return fmt.Errorf("unable to resolve %s: %w", ds.File, err)
		}
		byFile[abs] = ds
		files = append(files, abs)
	}

	watcher, err := watch.New(files, watch.DefaultDebounce, log.Default())
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, dim("Watching data files for changes, press ctrl+c to stop."))
	err = watcher.Run(ctx, func(ctx context.Context, path string) error {
		ds, ok := byFile[path]
		if !ok {
			return nil
		}
		_, _ = fmt.Fprintf(w, "\n%s changed, regenerating %s\n\n", filepath.Base(path), ds.Name)
		_, err := p.Run(ctx, ds, voices)
		state.record(ds.Name, err)
		return err
	})
	if err != nil {
		return err
	}
	return state.err()
}

// newSynthesizer builds the configured engine, checks it is installed and
// wraps it with request pacing and the synthesis cache when configured. The
// returned func releases the cache.
func newSynthesizer(cfg config.Config) (ttypes.Synthesizer, func(), error) {
	engineType := cfg.EngineType()
	synth, err := engines.New(engineType, cfg.Engines)
	if err != nil {
		return nil, nil, err
	}

	if result := tts.ValidateEngine(engineType, synth); !result.Available {
		if result.Guidance != "" {
			return nil, nil, fmt.Errorf("%w\n\n%s", result.Error, result.Guidance)
		}
		return nil, nil, result.Error
	}

	if cfg.RequestsPerMinute > 0 {
		synth = engines.Paced(synth, cfg.RequestsPerMinute)
	}

	if cfg.Cache.Dir == "" {
		return synth, func() {}, nil
	}

	dc, err := cache.NewDiskCache(cfg.Cache.Dir, cfg.Cache.MaxSizeMB*1024*1024, cfg.Cache.CompressionLevel)
	if err != nil {
		return nil, nil, err
	}
	closer := func() {
		stats := dc.Stats()
		log.Debug("synthesis cache",
			"hits", stats.Hits,
			"misses", stats.Misses,
			"hit_rate", stats.HitRate(),
			"evictions", stats.Evictions)
		if err := dc.Close(); err != nil {
			log.Warn("unable to close synthesis cache", "error", err)
		}
	}
	return engines.Cached(synth, dc), closer, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd())) //nolint:gosec
}

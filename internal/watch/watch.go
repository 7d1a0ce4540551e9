// Package watch re-runs work when data files change on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a file must stay quiet before a change fires.
// Editors often write a file in several steps.
const DefaultDebounce = 300 * time.Millisecond

// ChangeFunc is called with the path of a changed file.
type ChangeFunc func(ctx context.Context, path string) error

// Watcher watches a set of files through their parent directories, so files
// replaced by rename (as many editors save) keep being seen.
type Watcher struct {
	files    map[string]bool
	dirs     map[string]bool
	debounce time.Duration
	logger   *log.Logger
}

// New creates a watcher for paths.
func New(paths []string, debounce time.Duration, logger *log.Logger) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = log.Default()
	}

	w := &Watcher{
		files:    make(map[string]bool, len(paths)),
		dirs:     make(map[string]bool, len(paths)),
		debounce: debounce,
		logger:   logger,
	}
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("unable to resolve %s: %w", p, err)
		}
		w.files[abs] = true
		w.dirs[filepath.Dir(abs)] = true
	}
	return w, nil
}

// Run blocks until ctx is done, calling onChange once per burst of writes
// to a watched file. Errors from onChange are logged and watching goes on.
func (w *Watcher) Run(ctx context.Context, onChange ChangeFunc) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("error creating fsnotify watcher: %w", err)
	}
	defer fw.Close() //nolint:errcheck

	for dir := range w.dirs {
		if err := fw.Add(dir); err != nil {
			return fmt.Errorf("error adding %s to fsnotify watcher: %w", dir, err)
		}
		w.logger.Debug("fsnotify watching dir", "dir", dir)
	}

	pending := make(map[string]bool)
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			name, err := filepath.Abs(event.Name)
			if err != nil || !w.files[name] {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.logger.Debug("fsnotify event", "file", name, "event", event.Op)
			pending[name] = true
			timer.Reset(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Debug("fsnotify error", "error", err)

		case <-timer.C:
			for name := range pending {
				delete(pending, name)
				if err := onChange(ctx, name); err != nil {
					w.logger.Warn("re-run after change failed", "file", name, "error", err)
				}
				if ctx.Err() != nil {
					return nil
				}
			}
		}
	}
}

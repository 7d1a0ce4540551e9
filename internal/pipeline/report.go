package pipeline

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dgnsrekt/spellbee-audio/internal/ttypes"
	"github.com/dustin/go-humanize"
)

// Reporter receives the events of a run. Calls come from a single goroutine.
type Reporter interface {
	Start(ds ttypes.Dataset, items int, voices []ttypes.VoiceProfile)
	VoiceStart(ds ttypes.Dataset, voice ttypes.VoiceProfile)
	Progress(label string, done, total int, counts Counts)
	Failure(label string, res ttypes.Result)
	VoiceDone(vs VoiceSummary)
	Finish(ds ttypes.Dataset, s Summary)
}

// NopReporter discards every event.
type NopReporter struct{}

func (NopReporter) Start(ttypes.Dataset, int, []ttypes.VoiceProfile) {}
func (NopReporter) VoiceStart(ttypes.Dataset, ttypes.VoiceProfile)  {}
func (NopReporter) Progress(string, int, int, Counts)               {}
func (NopReporter) Failure(string, ttypes.Result)                   {}
func (NopReporter) VoiceDone(VoiceSummary)                          {}
func (NopReporter) Finish(ttypes.Dataset, Summary)                  {}

var (
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD75F")).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))
	headerStyle  = lipgloss.NewStyle().Bold(true)
)

// ConsoleReporter prints the line oriented progress protocol.
type ConsoleReporter struct {
	w         io.Writer
	outputDir string
	styled    bool
	mu        sync.Mutex
}

// NewConsoleReporter creates a reporter writing to w. When styled is set,
// failures, warnings and the final verdict are colored.
func NewConsoleReporter(w io.Writer, outputDir string, styled bool) *ConsoleReporter {
	return &ConsoleReporter{w: w, outputDir: outputDir, styled: styled}
}

func (c *ConsoleReporter) printf(style *lipgloss.Style, format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	line := fmt.Sprintf(format, args...)
	if c.styled && style != nil {
		line = style.Render(line)
	}
	_, _ = fmt.Fprintln(c.w, line)
}

func (c *ConsoleReporter) Start(ds ttypes.Dataset, items int, voices []ttypes.VoiceProfile) {
	names := make([]string, len(voices))
	for i, v := range voices {
		names[i] = v.String()
	}

	c.printf(nil, "Found %d unique items in %s", items, filepath.Base(ds.File))
	c.printf(nil, "Output directory: %s", c.outputDir)
	c.printf(nil, "Voices: %s", strings.Join(names, ", "))
	c.printf(nil, "Total files to generate: %d", items*len(voices))
	c.printf(nil, "")
}

func (c *ConsoleReporter) VoiceStart(ds ttypes.Dataset, voice ttypes.VoiceProfile) {
	c.printf(&headerStyle, "Generating %s: %s...", ds.Name, voice)
}

func (c *ConsoleReporter) Progress(label string, done, total int, counts Counts) {
	c.printf(nil, "  %s: %d/%d  (new: %d, cached: %d, failed: %d)",
		label, done, total, counts.Created, counts.Skipped, counts.Failed)
}

func (c *ConsoleReporter) Failure(label string, res ttypes.Result) {
	c.printf(&failStyle, "  FAIL: %s/%s after %d attempts: %v", label, res.Key, res.Attempts, res.Err)
}

func (c *ConsoleReporter) VoiceDone(vs VoiceSummary) {
	c.printf(nil, "  Done: %d new, %d cached, %d failed", vs.Counts.Created, vs.Counts.Skipped, vs.Counts.Failed)
	c.printf(nil, "")
}

func (c *ConsoleReporter) Finish(ds ttypes.Dataset, s Summary) {
	c.printf(nil, "%s", strings.Repeat("=", 50))
	c.printf(nil, "Total: %d new, %d cached, %d failed", s.Total.Created, s.Total.Skipped, s.Total.Failed)
	if s.Bytes > 0 {
		c.printf(nil, "Wrote %s of audio in %s", humanize.Bytes(uint64(s.Bytes)), s.Elapsed.Round(time.Second)) //nolint:gosec
	}

	if s.Total.Failed > 0 {
		c.printf(&warnStyle, "WARNING: %s files failed to generate. Re-run to retry.", humanize.Comma(int64(s.Total.Failed)))
		return
	}
	c.printf(&successStyle, "All %s audio files generated successfully!", ds.Name)
}

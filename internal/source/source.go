package source

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/dgnsrekt/spellbee-audio/internal/ttypes"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	// ErrNoItems is returned when a data file yields no items
	ErrNoItems = errors.New("no items found")

	// ErrBadPattern is returned when an extraction pattern has the wrong shape
	ErrBadPattern = errors.New("extraction pattern must have one or two capture groups")
)

// Extract pulls work items out of content using pattern.
//
// With one capture group the match is both key and text (word lists).
// With two groups the first is the key and the second the text
// (word → sentence maps). The first occurrence of a key wins and
// document order is preserved.
func Extract(content, pattern string) ([]ttypes.WorkItem, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid extraction pattern: %w", err)
	}

	groups := re.NumSubexp()
	if groups != 1 && groups != 2 {
		return nil, fmt.Errorf("%w: %q has %d", ErrBadPattern, pattern, groups)
	}

	lower := cases.Lower(language.Und)
	seen := make(map[string]struct{})
	var items []ttypes.WorkItem

	for _, m := range re.FindAllStringSubmatch(content, -1) {
		key := strings.TrimSpace(m[1])
		text := key
		if groups == 2 {
			text = strings.TrimSpace(m[2])
		}
		if key == "" || text == "" {
			continue
		}

		// Artifact names are the lowercased key, so two keys collide
		// exactly when their lowercased forms do.
		name := lower.String(key)
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		items = append(items, ttypes.WorkItem{Key: key, Text: text})
	}

	return items, nil
}

// Load reads path and extracts its items. It fails with ErrNoItems when
// nothing matched; an empty source is a configuration error, never retried.
func Load(path, pattern string) ([]ttypes.WorkItem, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read item source: %w", err)
	}

	items, err := Extract(string(b), pattern)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoItems, path)
	}
	return items, nil
}

package cache

import (
	"errors"
	"strings"
	"time"
)

// Common errors for cache operations
var (
	// ErrItemTooLarge is returned when an item exceeds the cache capacity
	ErrItemTooLarge = errors.New("item too large for cache")

	// ErrEmptyValue is returned when storing an empty value
	ErrEmptyValue = errors.New("refusing to cache empty value")
)

// Stats holds cache performance metrics
type Stats struct {
	Capacity  int64 // Maximum capacity in bytes, 0 for unlimited
	Size      int64 // Current size on disk in bytes
	Items     int   // Number of cached entries
	Hits      int64
	Misses    int64
	Evictions int64

	LastAccess time.Time
}

// HitRate returns hits / (hits + misses), or 0 before any lookup.
func (s Stats) HitRate() float64 {
	if s.Hits+s.Misses == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.Hits+s.Misses)
}

// Key builds the cache key for a synthesis request.
func Key(engine, voice, text string) string {
	return strings.Join([]string{engine, voice, text}, "\x00")
}

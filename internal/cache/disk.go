package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
)

const fileExt = ".zst"

// DiskCache stores compressed audio, one file per key.
type DiskCache struct {
	basePath string
	capacity int64 // Maximum size in bytes, 0 for unlimited
	size     int64 // Current size in bytes

	encoder *zstd.Encoder
	decoder *zstd.Decoder

	// Index keyed by file name, rebuilt from the directory on open
	index map[string]*diskEntry

	mu    sync.Mutex
	stats Stats
}

type diskEntry struct {
	path       string
	size       int64 // Compressed size on disk
	lastAccess time.Time
}

// NewDiskCache opens (or creates) a cache in basePath. Existing entries are
// picked up from the directory; their modification time stands in for the
// last access time.
func NewDiskCache(basePath string, capacity int64, compressionLevel int) (*DiskCache, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	if compressionLevel <= 0 {
		compressionLevel = 3
	}

	encoder, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(compressionLevel)))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		_ = encoder.Close()
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}

	dc := &DiskCache{
		basePath: basePath,
		capacity: capacity,
		encoder:  encoder,
		decoder:  decoder,
		index:    make(map[string]*diskEntry),
		stats:    Stats{Capacity: capacity},
	}

	if err := dc.scan(); err != nil {
		dc.Close()
		return nil, err
	}

	return dc, nil
}

// Get retrieves and decompresses a cached value.
func (dc *DiskCache) Get(key string) ([]byte, bool) {
	name := fileName(key)

	dc.mu.Lock()
	defer dc.mu.Unlock()

	dc.stats.LastAccess = time.Now()

	entry, ok := dc.index[name]
	if !ok {
		dc.stats.Misses++
		return nil, false
	}

	data, err := os.ReadFile(entry.path)
	if err != nil {
		dc.dropLocked(name, entry)
		dc.stats.Misses++
		return nil, false
	}

	decoded, err := dc.decoder.DecodeAll(data, nil)
	if err != nil || len(decoded) == 0 {
		// Corrupted entry
		_ = os.Remove(entry.path)
		dc.dropLocked(name, entry)
		dc.stats.Misses++
		return nil, false
	}

	entry.lastAccess = time.Now()
	_ = os.Chtimes(entry.path, entry.lastAccess, entry.lastAccess)
	dc.stats.Hits++

	return decoded, true
}

// Put compresses and stores value, evicting least recently used entries
// when the capacity would be exceeded.
func (dc *DiskCache) Put(key string, value []byte) error {
	if len(value) == 0 {
		return ErrEmptyValue
	}

	compressed := dc.encoder.EncodeAll(value, nil)
	diskSize := int64(len(compressed))
	name := fileName(key)

	dc.mu.Lock()
	defer dc.mu.Unlock()

	if dc.capacity > 0 && diskSize > dc.capacity {
		return ErrItemTooLarge
	}

	if existing, ok := dc.index[name]; ok {
		_ = os.Remove(existing.path)
		dc.dropLocked(name, existing)
	}

	for dc.capacity > 0 && dc.size+diskSize > dc.capacity && len(dc.index) > 0 {
		dc.evictOldestLocked()
	}

	path := filepath.Join(dc.basePath, name)
	if err := writeFile(path, compressed); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	dc.index[name] = &diskEntry{path: path, size: diskSize, lastAccess: time.Now()}
	dc.size += diskSize

	return nil
}

// Clear removes every cached entry.
func (dc *DiskCache) Clear() error {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	for name, entry := range dc.index {
		if err := os.Remove(entry.path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove cache file: %w", err)
		}
		delete(dc.index, name)
	}
	dc.size = 0

	return nil
}

// Stats returns cache statistics.
func (dc *DiskCache) Stats() Stats {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	stats := dc.stats
	stats.Size = dc.size
	stats.Items = len(dc.index)
	return stats
}

// Close releases the compression resources.
func (dc *DiskCache) Close() error {
	dc.decoder.Close()
	return dc.encoder.Close()
}

func (dc *DiskCache) scan() error {
	entries, err := os.ReadDir(dc.basePath)
	if err != nil {
		return fmt.Errorf("failed to read cache directory: %w", err)
	}

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), fileExt) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		dc.index[e.Name()] = &diskEntry{
			path:       filepath.Join(dc.basePath, e.Name()),
			size:       info.Size(),
			lastAccess: info.ModTime(),
		}
		dc.size += info.Size()
	}

	return nil
}

func (dc *DiskCache) dropLocked(name string, entry *diskEntry) {
	delete(dc.index, name)
	dc.size -= entry.size
}

func (dc *DiskCache) evictOldestLocked() {
	var oldestName string
	var oldest *diskEntry

	for name, entry := range dc.index {
		if oldest == nil || entry.lastAccess.Before(oldest.lastAccess) {
			oldestName, oldest = name, entry
		}
	}

	if oldest != nil {
		_ = os.Remove(oldest.path)
		dc.dropLocked(oldestName, oldest)
		dc.stats.Evictions++
	}
}

func fileName(key string) string {
	hash := sha256.Sum256([]byte(key))
	return hex.EncodeToString(hash[:]) + fileExt
}

func writeFile(path string, data []byte) error {
	f, err := os.CreateTemp(filepath.Dir(path), ".cache-*.tmp")
	if err != nil {
		return err
	}
	tmp := f.Name()

	_, err = f.Write(data)
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(tmp)
		return err
	}

	// Atomic rename
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

// Package store maps (voice, item) pairs to audio files on disk.
//
// The presence of a non-empty file at an artifact's location is the only
// record that the pair has been generated; there is no manifest.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultExtension is the file extension used when none is configured.
const DefaultExtension = "mp3"

// FileStore keeps artifacts under a root directory laid out as
// root/voice/[category/]lowercase(key).ext.
type FileStore struct {
	root string
	ext  string
}

// New creates a file store rooted at root. The directory is not created
// until the first write.
func New(root, ext string) *FileStore {
	if ext == "" {
		ext = DefaultExtension
	}
	if ext[0] == '.' {
		ext = ext[1:]
	}
	return &FileStore{root: root, ext: ext}
}

// Root returns the output root directory.
func (s *FileStore) Root() string {
	return s.root
}

// Location returns the artifact path for a voice, optional category and key.
func (s *FileStore) Location(voiceID, category, key string) string {
	// cases.Caser keeps state and is not safe for concurrent use.
	name := cases.Lower(language.Und).String(key) + "." + s.ext
	if category == "" {
		return filepath.Join(s.root, voiceID, name)
	}
	return filepath.Join(s.root, voiceID, category, name)
}

// ExistsNonEmpty reports whether loc is a regular file with at least one byte.
func (s *FileStore) ExistsNonEmpty(loc string) bool {
	info, err := os.Stat(loc)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Size() > 0
}

// Size returns the size of the file at loc, or 0 when it is missing.
func (s *FileStore) Size(loc string) int64 {
	info, err := os.Stat(loc)
	if err != nil {
		return 0
	}
	return info.Size()
}

// EnsureDir creates the parent directory of loc. Existing directories are fine.
func (s *FileStore) EnsureDir(loc string) error {
	if err := os.MkdirAll(filepath.Dir(loc), 0o755); err != nil {
		return fmt.Errorf("unable to create artifact directory: %w", err)
	}
	return nil
}

// Write stores data at loc. The bytes go to a temporary file in the same
// directory which is then renamed into place, so an interrupted write never
// leaves a truncated artifact behind.
func (s *FileStore) Write(loc string, data []byte) error {
	f, err := os.CreateTemp(filepath.Dir(loc), "."+filepath.Base(loc)+".tmp-*")
	if err != nil {
		return fmt.Errorf("unable to create temp file: %w", err)
	}
	tmp := f.Name()

	_, err = f.Write(data)
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("unable to write artifact: %w", err)
	}

	if err := os.Chmod(tmp, 0o644); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("unable to set artifact permissions: %w", err)
	}

	if err := os.Rename(tmp, loc); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("unable to move artifact into place: %w", err)
	}
	return nil
}

// Delete removes the artifact at loc. A missing file is not an error.
func (s *FileStore) Delete(loc string) error {
	if err := os.Remove(loc); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("unable to delete artifact: %w", err)
	}
	return nil
}

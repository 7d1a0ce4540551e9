// Package utils provides helpers shared by the command line and the
// configuration loader.
package utils

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
)

// ExpandPath expands tilde and all environment variables from the given path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}
	s, err := homedir.Expand(path)
	if err == nil {
		return os.ExpandEnv(s)
	}
	return os.ExpandEnv(path)
}

// DisplayPath shortens path for console output, replacing the home directory
// with a tilde.
func DisplayPath(path string) string {
	home, err := homedir.Dir()
	if err != nil || home == "" {
		return path
	}
	clean := filepath.Clean(path)
	if clean == home {
		return "~"
	}
	if rest, ok := strings.CutPrefix(clean, home+string(filepath.Separator)); ok {
		return filepath.Join("~", rest)
	}
	return path
}

package utils

import (
	"os"
	"path/filepath"
	"strings"
)

// ResolvePath anchors a configured path. "~/" expands to the home directory,
// absolute paths are returned unchanged and relative paths are joined onto
// baseDir. An empty path stays empty.
func ResolvePath(path, baseDir string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}

	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, rest)
		}
	}

	if filepath.IsAbs(path) || baseDir == "" {
		return filepath.Clean(path)
	}
	return filepath.Join(baseDir, path)
}

package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePath(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		baseDir  string
		expected string
	}{
		{
			name:     "empty",
			path:     "  ",
			baseDir:  "/base",
			expected: "",
		},
		{
			name:     "absolute path unchanged",
			path:     "/abs/history.db",
			baseDir:  "/base",
			expected: "/abs/history.db",
		},
		{
			name:     "relative path resolved",
			path:     ".brandcheck-cache",
			baseDir:  "/base",
			expected: "/base/.brandcheck-cache",
		},
		{
			name:     "parent reference",
			path:     "../shared/history.db",
			baseDir:  "/base/sub",
			expected: "/base/shared/history.db",
		},
		{
			name:     "no base dir",
			path:     "./cache",
			baseDir:  "",
			expected: "cache",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, filepath.FromSlash(tt.expected), ResolvePath(tt.path, filepath.FromSlash(tt.baseDir)))
		})
	}
}

func TestResolvePath_Home(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".cache", "brandcheck"), ResolvePath("~/.cache/brandcheck", "/base"))
}

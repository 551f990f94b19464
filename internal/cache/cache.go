package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/brandnamegen/brandcheck/internal/models"
	"github.com/klauspost/compress/zstd"
)

// fileExt marks cache entries: zstd-compressed JSON.
const fileExt = ".json.zst"

// Cache stores finished uniqueness reports on disk, one file per key.
type Cache struct {
	dir string
	ttl time.Duration
	mu  sync.Mutex
	now func() time.Time
}

type entry struct {
	StoredAt time.Time                `json:"stored_at"`
	Report   *models.UniquenessReport `json:"report"`
}

// New creates a new cache instance with the specified directory. Entries
// older than ttl are treated as misses; ttl <= 0 keeps entries forever.
func New(dir string, ttl time.Duration) *Cache {
	return &Cache{dir: dir, ttl: ttl, now: time.Now}
}

// Dir returns the cache directory.
func (c *Cache) Dir() string {
	return c.dir
}

// Key generates a unique cache key for one evaluation.
// The key is based on:
// - the title as given
// - every locale, in order
// - weights, thresholds and engine selection
// - the resolved matcher name
func Key(title string, locales []models.LocaleSpec, cfg models.UniquenessConfig, matcherName string) (string, error) {
	h := sha256.New()

	if err := writeString(h, title); err != nil {
		return "", err
	}
	if err := writeString(h, matcherName); err != nil {
		return "", err
	}

	for _, loc := range locales {
		for _, s := range []string{loc.Country, loc.HL, loc.GL, loc.LanguageCode} {
			if err := writeString(h, s); err != nil {
				return "", err
			}
		}
		if err := writeInt(h, loc.LocationCode); err != nil {
			return "", err
		}
	}

	// encoding/json sorts map keys, so the weights hash deterministically
	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("marshaling config: %w", err)
	}
	if _, err := h.Write(cfgJSON); err != nil {
		return "", err
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// Get retrieves a cached report if it exists and has not expired.
func (c *Cache) Get(key string) (*models.UniquenessReport, bool) {
	if c.dir == "" {
		return nil, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	compressed, err := os.ReadFile(c.cachePath(key))
	if err != nil {
		// Cache miss
		return nil, false
	}

	dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, false
	}
	defer dec.Close()

	data, err := dec.DecodeAll(compressed, nil)
	if err != nil {
		return nil, false
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil || e.Report == nil {
		// Invalid cache entry, treat as miss
		return nil, false
	}
	if c.ttl > 0 && c.now().Sub(e.StoredAt) > c.ttl {
		return nil, false
	}

	return e.Report, true
}

// Put stores a report in the cache.
func (c *Cache) Put(key string, report *models.UniquenessReport) error {
	if c.dir == "" {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	data, err := json.Marshal(entry{StoredAt: c.now().UTC(), Report: report})
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderConcurrency(1))
	if err != nil {
		return fmt.Errorf("creating encoder: %w", err)
	}
	defer enc.Close() //nolint:errcheck

	if err := os.WriteFile(c.cachePath(key), enc.EncodeAll(data, nil), 0644); err != nil {
		return fmt.Errorf("writing cache file: %w", err)
	}

	return nil
}

// Clear removes all cached reports.
func (c *Cache) Clear() error {
	if c.dir == "" {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := os.Stat(c.dir); os.IsNotExist(err) {
		return nil
	}

	// Safety check: only remove a directory that holds nothing but cache files
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return fmt.Errorf("reading cache directory: %w", err)
	}

	if len(entries) > 0 {
		hasValidCache := false
		for _, entry := range entries {
			if entry.IsDir() {
				return fmt.Errorf("cache directory contains subdirectories - refusing to delete for safety")
			}
			if strings.HasSuffix(entry.Name(), fileExt) {
				hasValidCache = true
			} else {
				return fmt.Errorf("cache directory contains non-cache files - refusing to delete for safety")
			}
		}
		if !hasValidCache {
			return fmt.Errorf("no valid cache files found in directory - refusing to delete for safety")
		}
	}

	return os.RemoveAll(c.dir)
}

// cachePath returns the file path for a cache key
func (c *Cache) cachePath(key string) string {
	return filepath.Join(c.dir, key+fileExt)
}

// Helper functions

func writeString(w io.Writer, s string) error {
	// Write string with null byte delimiter to prevent hash collisions
	_, err := w.Write([]byte(s + "\x00"))
	return err
}

func writeInt(w io.Writer, i int) error {
	_, err := fmt.Fprintf(w, "%d\x00", i)
	return err
}

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/brandnamegen/brandcheck/internal/cache"
	"github.com/brandnamegen/brandcheck/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheClear(t *testing.T) {
	env := newTestEnv(t)
	env.writeConfig(t, "cache:\n  dir: reports\n")

	dir := filepath.Join(env.dir, "reports")
	require.NoError(t, cache.New(dir, 0).Put("key", &models.UniquenessReport{Title: "BrandName"}))

	stdout, _, err := runCLI(t, "cache", "clear")
	require.NoError(t, err)
	assert.Equal(t, "Cache cleared: "+dir+"\n", stdout)
	assert.NoDirExists(t, dir)
}

func TestCacheClear_ExplicitDir(t *testing.T) {
	env := newTestEnv(t)

	dir := filepath.Join(env.dir, "elsewhere")
	require.NoError(t, cache.New(dir, 0).Put("key", &models.UniquenessReport{Title: "BrandName"}))

	_, _, err := runCLI(t, "cache", "clear", "--cache-dir", dir)
	require.NoError(t, err)
	assert.NoDirExists(t, dir)
}

func TestCacheClear_RefusesForeignFiles(t *testing.T) {
	env := newTestEnv(t)

	dir := filepath.Join(env.dir, "notes")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "todo.txt"), []byte("keep me"), 0o644))

	_, _, err := runCLI(t, "cache", "clear", "--cache-dir", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "clearing cache")
	assert.FileExists(t, filepath.Join(dir, "todo.txt"))
}

package main

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cityjson.yaml")
	require.NoError(t, os.WriteFile(path, []byte("relative_center: true\nvalidate_geometry: false\nworkers: 3\n"), 0o644))

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.True(t, cfg.RelativeCenter)
	assert.False(t, cfg.ValidateGeometry)
	assert.True(t, cfg.SkipErrors, "unset keys keep their defaults")
	assert.Equal(t, 3, cfg.Workers)

	t.Setenv("CITYJSON_WORKERS", "0")
	t.Setenv("CITYJSON_SKIP_ERRORS", "false")
	cfg, err = loadConfig(path)
	require.NoError(t, err)
	assert.False(t, cfg.SkipErrors)
	assert.Equal(t, runtime.NumCPU(), cfg.Workers)

	t.Setenv("CITYJSON_RELATIVE_CENTER", "maybe")
	_, err = loadConfig(path)
	assert.ErrorContains(t, err, "CITYJSON_RELATIVE_CENTER")

	_, err = loadConfig(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestParseBBox(t *testing.T) {
	box, err := parseBBox("10, 20, 30, 1, 2, 3")
	require.NoError(t, err)
	assert.Equal(t, 1.0, box.Min.X)
	assert.Equal(t, 20.0, box.Max.Y)
	assert.Equal(t, 3.0, box.Min.Z)

	_, err = parseBBox("1,2,3")
	assert.Error(t, err)
	_, err = parseBBox("1,2,3,4,5,x")
	assert.Error(t, err)
}

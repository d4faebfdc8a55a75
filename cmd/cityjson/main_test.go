package main

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const building = `{"type": "CityJSON", "version": "1.0",
  "metadata": {"referenceSystem": "urn:ogc:def:crs:EPSG::28992"},
  "CityObjects": {
    "b1": {"type": "Building", "geometry": [{"type": "MultiSurface", "lod": 1,
      "boundaries": [[[0, 1, 2, 3]]]}]},
    "b1-part": {"type": "BuildingPart", "parents": ["b1"]}
  },
  "vertices": [[155000, 463000, 0], [155010, 463000, 0], [155010, 463010, 0], [155000, 463010, 0]],
  "+lineage": {"source": "test"}
}`

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeBuilding(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "b.city.json")
	require.NoError(t, os.WriteFile(path, []byte(building), 0o644))
	return path
}

func TestRunInfo(t *testing.T) {
	path := writeBuilding(t)
	cfg := defaultConfig()
	cfg.RelativeCenter = true

	var out bytes.Buffer
	require.NoError(t, runInfo(cfg, quietLogger(), []string{path}, &out))

	text := out.String()
	assert.Contains(t, text, "reference system:  RD")
	assert.Contains(t, text, "city objects:      2 (1 roots)")
	assert.Contains(t, text, "BuildingPart")
	assert.Contains(t, text, "extension nodes:   +lineage")
	assert.Contains(t, text, "relative center:     155005.000, 463005.000")
}

func TestRunQuery(t *testing.T) {
	path := writeBuilding(t)

	var out bytes.Buffer
	args := []string{"-bbox", "155001,463001,-1,155002,463002,1", path}
	require.NoError(t, runQuery(defaultConfig(), quietLogger(), args, &out))
	assert.Equal(t, path+"\tb1\tBuilding\n", out.String())

	out.Reset()
	args = []string{"-bbox", "0,0,0,1,1,1", path}
	require.NoError(t, runQuery(defaultConfig(), quietLogger(), args, &out))
	assert.Empty(t, out.String())
}

func TestRunExport(t *testing.T) {
	path := writeBuilding(t)
	dst := filepath.Join(t.TempDir(), "out.city.json")

	require.NoError(t, runExport(defaultConfig(), quietLogger(), []string{"-out", dst, path}))
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"+lineage":{"source": "test"}`)
	assert.Contains(t, string(data), `"b1-part"`)
}

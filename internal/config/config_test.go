package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailinx/edgeunity/internal/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "edgeunity.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "operator:\n  name: sobel\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sobel", cfg.Operator.Name)
	assert.Equal(t, 1.0, cfg.Operator.Scale)
	assert.Equal(t, runtime.NumCPU(), cfg.Operator.Workers)
	assert.Equal(t, "_edges", cfg.Output.Suffix)
	assert.Equal(t, "edgeunity.db", cfg.History.Path)
	assert.Equal(t, 2, cfg.Watch.DebounceSeconds)
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
operator:
  name: parallel-sobel
  scale: 2.0
  delta: 1.5
  workers: 4
output:
  directory: /tmp/edges
  suffix: _out
metrics:
  enabled: true
  listen: ":9999"
history:
  enabled: true
  path: runs.db
watch:
  debounce_seconds: 5
  rescan_minutes: 1
  extensions: [".png", ".jpg"]
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "parallel-sobel", cfg.Operator.Name)
	assert.Equal(t, 2.0, cfg.Operator.Scale)
	assert.Equal(t, 1.5, cfg.Operator.Delta)
	assert.Equal(t, 4, cfg.Operator.Workers)
	assert.Equal(t, "/tmp/edges", cfg.Output.Directory)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, ":9999", cfg.Metrics.Listen)
	assert.Equal(t, "runs.db", cfg.History.Path)
	assert.Equal(t, []string{".png", ".jpg"}, cfg.Watch.Extensions)
	assert.Equal(t, 1, cfg.Watch.RescanMinutes)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryConfig))
}

func TestLoadRejectsUnknownOperator(t *testing.T) {
	path := writeConfig(t, "operator:\n  name: canny\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryValidation))
}

func TestLoadRejectsNegativeWorkers(t *testing.T) {
	path := writeConfig(t, "operator:\n  name: sobel\n  workers: -2\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryValidation))
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("EDGEUNITY_OPERATOR", "parallel-prewitt")
	t.Setenv("EDGEUNITY_WORKERS", "3")
	t.Setenv("EDGEUNITY_SCALE", "1.25")

	path := writeConfig(t, "operator:\n  name: sobel\n  workers: 8\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "parallel-prewitt", cfg.Operator.Name)
	assert.Equal(t, 3, cfg.Operator.Workers)
	assert.Equal(t, 1.25, cfg.Operator.Scale)
}

func TestYAMLExpansion(t *testing.T) {
	t.Setenv("EDGE_TEST_DIR", "/data/out")
	path := writeConfig(t, "operator:\n  name: sobel\noutput:\n  directory: ${EDGE_TEST_DIR}\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/out", cfg.Output.Directory)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "sobel", cfg.Operator.Name)
}

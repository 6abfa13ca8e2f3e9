// SPDX-License-Identifier: MIT
package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/katalvlaran/dimscope/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dimscope.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
log:
  level: debug
  format: json
reduction:
  method: kernel_lle
  low_dim: 3
  lle_neighbors: 6
knn:
  k: 4
  include_self: true
metrics:
  enabled: true
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "kernel_lle", cfg.Reduction.Method)
	assert.Equal(t, 3, cfg.Reduction.LowDim)
	assert.Equal(t, 6, cfg.Reduction.LLENeighbors)
	assert.Equal(t, 2.0, cfg.Reduction.KernelWidth) // default kept
	assert.Equal(t, "auto", cfg.Reduction.Backend)
	assert.Equal(t, 4, cfg.KNN.K)
	assert.True(t, cfg.KNN.IncludeSelf)
	assert.Equal(t, 2, cfg.Curve.Degree)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"method":  "reduction:\n  method: tsne\n",
		"low dim": "reduction:\n  low_dim: 0\n",
		"backend": "reduction:\n  backend: gpu\n",
		"level":   "log:\n  level: loud\n",
		"k":       "knn:\n  k: -1\n",
		"degree":  "curve:\n  degree: 5\n",
		"axis":    "curve:\n  axis: z\n",
		"yaml":    "reduction: [",
	}
	for name, body := range tests {
		body := body
		t.Run(name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, body))
			require.Error(t, err)
		})
	}

	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

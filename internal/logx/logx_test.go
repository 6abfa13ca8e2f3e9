// SPDX-License-Identifier: MIT
package logx_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/katalvlaran/dimscope/internal/logx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	l, err := logx.New("info", "json", &buf)
	require.NoError(t, err)

	l.Debug().Msg("hidden")
	l.Info().Str("method", "pca").Msg("fit done")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "fit done", rec["message"])
	assert.Equal(t, "pca", rec["method"])
	assert.Equal(t, "info", rec["level"])
}

func TestConsoleLogger(t *testing.T) {
	var buf bytes.Buffer
	l, err := logx.New("debug", "console", &buf)
	require.NoError(t, err)

	l.Debug().Int("elements", 4).Msg("loaded")
	assert.Contains(t, buf.String(), "loaded")
	assert.Contains(t, buf.String(), "elements=4")
}

func TestInvalidSettings(t *testing.T) {
	_, err := logx.New("loud", "json", &bytes.Buffer{})
	require.Error(t, err)
	_, err = logx.New("info", "xml", &bytes.Buffer{})
	require.Error(t, err)
}

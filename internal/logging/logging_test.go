package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel(" WARN "))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("chatty"))
}

func TestNew_FileReceivesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "gitlook.log")

	logger, closeFn, err := New(Options{Level: "debug", File: path})
	require.NoError(t, err)

	componentLogger := Component(logger, "listing")
	componentLogger.Debug().Int("fetched", 50).Msg("page loaded")
	logger.Trace().Msg("below level")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "listing", rec["component"])
	assert.Equal(t, "page loaded", rec["message"])
	assert.EqualValues(t, 50, rec["fetched"])
	assert.Contains(t, rec, "time")
}

func TestNew_ConsoleIsHumanReadable(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := New(Options{Level: "info", Console: &buf})
	require.NoError(t, err)

	logger.Info().Str("login", "octocat").Msg("profile loaded")
	logger.Debug().Msg("hidden")

	out := buf.String()
	assert.Contains(t, out, "profile loaded")
	assert.Contains(t, out, "login=octocat")
	assert.NotContains(t, out, "hidden")
	assert.NotContains(t, out, "\x1b[", "non-terminal output must not be coloured")
}

func TestNew_NoOutputsDiscards(t *testing.T) {
	logger, closeFn, err := New(Options{})
	require.NoError(t, err)
	assert.Equal(t, zerolog.Disabled, logger.GetLevel())
	assert.NoError(t, closeFn())
}

package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"":      slog.LevelInfo,
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := New(&buf, Options{Level: "warn", Format: "json"})
	require.NoError(t, err)
	defer closer.Close()

	logger.Info("dropped")
	logger.Warn("kept", "interview_id", "iv1")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "kept", record["msg"])
	assert.Equal(t, "iv1", record["interview_id"])
}

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := New(&buf, Options{Format: "text"})
	require.NoError(t, err)

	logger.Info("hello", "user_id", "u1")
	assert.Contains(t, buf.String(), "msg=hello user_id=u1")
}

func TestNewWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	var buf bytes.Buffer
	logger, closer, err := New(&buf, Options{File: path})
	require.NoError(t, err)

	logger.Error("boom", "error", "disk full")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"boom"`)
	assert.Equal(t, buf.String(), string(data))
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	_, _, err := New(&bytes.Buffer{}, Options{Format: "xml"})
	assert.Error(t, err)
}

func TestAutoFormatFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := New(&buf, Options{Format: "auto"})
	require.NoError(t, err)

	logger.Info("piped")
	assert.True(t, json.Valid(buf.Bytes()), buf.String())
}

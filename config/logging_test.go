package config

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := LogConfig{Level: slog.LevelInfo, JSON: true}.NewLogger(&buf)

	logger.Debug("hidden")
	logger.Info("shown", "provider", "ollama")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, "ollama", entry["provider"])

	buf.Reset()
	LogConfig{Level: slog.LevelDebug}.NewLogger(&buf).Debug("text line")
	assert.Contains(t, buf.String(), "level=DEBUG msg=\"text line\"")
}

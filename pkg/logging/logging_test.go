package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected Level
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"DEBUG", LevelDebug},
		{"Warning", LevelWarn},
		{"dEbUg", LevelDebug},
		{" error ", LevelError},
		{"", LevelInfo},
		{"trace", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, ParseLevel(tt.input))
		})
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	assert.Equal(t, FormatJSON, ParseFormat("json"))
	assert.Equal(t, FormatJSON, ParseFormat("Json"))
	assert.Equal(t, FormatText, ParseFormat("text"))
	assert.Equal(t, FormatText, ParseFormat("yaml"))
	assert.Equal(t, FormatText, ParseFormat(""))
}

func TestValidLevel(t *testing.T) {
	t.Parallel()

	assert.True(t, ValidLevel("INFO"))
	assert.False(t, ValidLevel("verbose"))
}

func TestNew_RespectsLevelAndFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(Config{Level: LevelWarn, Format: FormatJSON, Output: &buf})

	logger.Info("hidden")
	logger.Warn("shown", "collection", "EmpJob")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, "EmpJob", entry["collection"])
}

func TestNew_Mirror(t *testing.T) {
	t.Parallel()

	var console, mirror bytes.Buffer
	logger := New(Config{Level: LevelInfo, Format: FormatText, Output: &console, Mirror: &mirror})
	logger.With("component", "engine").Info("started", "port", 8000)

	assert.Contains(t, console.String(), "msg=started")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(mirror.Bytes(), &entry))
	assert.Equal(t, "engine", entry["component"])
	assert.EqualValues(t, 8000, entry["port"])
}

func TestNop(t *testing.T) {
	t.Parallel()

	logger := Nop()
	require.NotNil(t, logger)
	logger.Error("discarded")
}

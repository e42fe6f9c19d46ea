package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestVerbosityToLevel(t *testing.T) {
	tests := []struct {
		verbosity int
		want      zapcore.Level
	}{
		{-1, zapcore.WarnLevel},
		{VerbosityUser, zapcore.WarnLevel},
		{VerbosityInfo, zapcore.InfoLevel},
		{VerbosityDebug, zapcore.DebugLevel},
		{7, zapcore.DebugLevel},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, VerbosityToLevel(tt.verbosity), "verbosity %d", tt.verbosity)
	}
}

func TestInitializeWithWriter_FiltersByVerbosity(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, InitializeWithWriter(&buf, VerbosityUser, false))
	defer func() { require.NoError(t, InitializeWithWriter(&bytes.Buffer{}, VerbosityUser, false)) }()

	Infow("hidden at default verbosity")
	Logger.Warnw("visible warning", "class", "Car")
	Cleanup()

	out := buf.String()
	assert.NotContains(t, out, "hidden at default verbosity")
	assert.Contains(t, out, "visible warning")
	assert.Contains(t, out, "Car")
}

func TestInitializeWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, InitializeWithWriter(&buf, VerbosityInfo, true))
	defer func() { require.NoError(t, InitializeWithWriter(&bytes.Buffer{}, VerbosityUser, false)) }()

	Infow("built models", "count", 3)
	Cleanup()

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "built models", entry["msg"])
	assert.EqualValues(t, 3, entry["count"])
}

func TestLevelName(t *testing.T) {
	assert.Equal(t, "User", LevelName(0))
	assert.Equal(t, "Info (-v)", LevelName(1))
	assert.Equal(t, "Debug (-vv)", LevelName(5))
}

package logging

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerWithPath_Console(t *testing.T) {
	var buf bytes.Buffer
	result := NewLoggerWithPath(Config{Level: "debug", Format: FormatJSON}, &buf)
	defer result.Close()

	assert.False(t, result.UsingFile)
	l := ComponentLogger(result.Logger, "runtime")
	l.Debug().Msg("hello")

	assert.Contains(t, buf.String(), `"component":"runtime"`)
	assert.Contains(t, buf.String(), `"message":"hello"`)
}

func TestNewLoggerWithPath_LevelFallback(t *testing.T) {
	var buf bytes.Buffer
	result := NewLoggerWithPath(Config{Level: "chatty", Format: FormatJSON}, &buf)
	assert.Equal(t, zerolog.InfoLevel, result.Logger.GetLevel())

	result.Logger.Debug().Msg("hidden")
	assert.Empty(t, buf.String())
}

func TestNewLoggerWithPath_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cintel.log")
	var console bytes.Buffer

	result := NewLoggerWithPath(Config{Level: "info", File: path}, &console)
	require.True(t, result.UsingFile)
	assert.Equal(t, path, result.FilePath)

	result.Logger.Info().Msg("to file")
	require.NoError(t, result.Close())
	require.NoError(t, result.Close(), "close is idempotent")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
	assert.Empty(t, console.String())
}

func TestNewLoggerWithPath_FileFallback(t *testing.T) {
	var console bytes.Buffer
	path := filepath.Join(t.TempDir(), "missing", "dir", "cintel.log")

	result := NewLoggerWithPath(Config{File: path}, &console)
	assert.False(t, result.UsingFile)
	assert.True(t, result.FallbackUsed)
	assert.NotEmpty(t, result.FallbackReason)

	var msg bytes.Buffer
	PrintFallbackWarning(&msg, result.FallbackReason)
	assert.Contains(t, msg.String(), "Warning")
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	l := zerolog.New(&buf)
	ctx := l.WithContext(context.Background())

	log := FromContext(ctx)
	log.Info().Msg("ctx")
	assert.Contains(t, buf.String(), "ctx")

	// No logger in context: disabled, but safe to use.
	silent := FromContext(context.Background())
	silent.Info().Msg("dropped")
}

func TestNewSessionID(t *testing.T) {
	a, b := NewSessionID(), NewSessionID()
	assert.Len(t, a, 26)
	assert.NotEqual(t, a, b)
}

package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func zapLevel(t *testing.T, level string) zapcore.Level {
	t.Helper()
	parsed, err := zapcore.ParseLevel(level)
	require.NoError(t, err)
	return parsed
}

func TestNewLoggerProduction(t *testing.T) {
	logger, err := NewLogger("production", "warn")
	require.NoError(t, err)
	require.NotNil(t, logger)

	assert.False(t, logger.Core().Enabled(zapLevel(t, "info")))
	assert.True(t, logger.Core().Enabled(zapLevel(t, "error")))
}

func TestNewLoggerFallsBackToInfoOnBadLevel(t *testing.T) {
	logger, err := NewLogger("development", "chatty")
	require.NoError(t, err)

	assert.True(t, logger.Core().Enabled(zapLevel(t, "info")))
	assert.False(t, logger.Core().Enabled(zapLevel(t, "debug")))
}

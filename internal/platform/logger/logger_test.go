package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetupLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "DEBUG", "Info"} {
		logger := Setup(level)
		assert.NotNil(t, logger, "Setup(%q) should return a logger", level)
	}

	// An invalid level falls back to info rather than failing.
	logger := Setup("verbose")
	assert.NotNil(t, logger)
	assert.True(t, logger.Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, logger.Enabled(context.Background(), slog.LevelDebug))
}

func TestFromContext(t *testing.T) {
	ctx := context.Background()

	// Without an attached logger, the default is returned.
	assert.Equal(t, slog.Default(), FromContext(ctx))

	attached := slog.Default().With("component", "test")
	ctx = WithLogger(ctx, attached)
	assert.Equal(t, attached, FromContext(ctx))

	fallback := slog.Default().With("component", "fallback")
	assert.Equal(t, attached, FromContextOrDefault(ctx, fallback))
	assert.Equal(t, fallback, FromContextOrDefault(context.Background(), fallback))
	assert.Equal(t, slog.Default(), FromContextOrDefault(context.Background(), nil))
}

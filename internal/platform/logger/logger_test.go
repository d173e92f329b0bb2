package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deckard-app/deckard-api/internal/config"
)

func TestSetup(t *testing.T) {
	cases := []struct {
		name     string
		level    string
		minLevel slog.Level
	}{
		{"debug level", "debug", slog.LevelDebug},
		{"info level", "info", slog.LevelInfo},
		{"warn level", "warn", slog.LevelWarn},
		{"error level", "error", slog.LevelError},
		{"case insensitive", "DEBUG", slog.LevelDebug},
		{"invalid falls back to info", "verbose", slog.LevelInfo},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			log, err := Setup(config.ServerConfig{Port: 8080, LogLevel: tc.level})
			require.NoError(t, err)
			require.NotNil(t, log)

			assert.True(t, log.Enabled(context.Background(), tc.minLevel))
			if tc.minLevel > slog.LevelDebug {
				assert.False(t, log.Enabled(context.Background(), tc.minLevel-1))
			}
		})
	}
}

func TestContextHelpers(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	// Without a logger in the context, helpers fall back.
	assert.NotNil(t, FromContext(ctx))

	component := slog.Default().With(slog.String("component", "test"))
	assert.Same(t, component, FromContextOrDefault(ctx, component))

	// With a logger in the context, it wins.
	scoped := slog.Default().With(slog.String("trace_id", "abc"))
	ctx = WithLogger(ctx, scoped)
	assert.Same(t, scoped, FromContext(ctx))
	assert.Same(t, scoped, FromContextOrDefault(ctx, component))
}

package app_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"reelsearch/backend/internal/app"
)

func TestSetupLogger(t *testing.T) {
	ctx := context.Background()

	t.Run("DEBUG enables debug records", func(t *testing.T) {
		app.SetupLogger("DEBUG")
		assert.True(t, slog.Default().Enabled(ctx, slog.LevelDebug))
	})

	t.Run("ERROR suppresses warnings", func(t *testing.T) {
		app.SetupLogger("ERROR")
		assert.False(t, slog.Default().Enabled(ctx, slog.LevelWarn))
		assert.True(t, slog.Default().Enabled(ctx, slog.LevelError))
	})

	t.Run("unknown level falls back to info", func(t *testing.T) {
		app.SetupLogger("banana")
		assert.False(t, slog.Default().Enabled(ctx, slog.LevelDebug))
		assert.True(t, slog.Default().Enabled(ctx, slog.LevelInfo))
	})
}

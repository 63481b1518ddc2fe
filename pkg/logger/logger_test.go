package logger

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelInfo, parseLevel("INFO"))
	assert.Equal(t, slog.LevelWarn, parseLevel(" warning "))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelDebug, parseLevel(""))
	assert.Equal(t, slog.LevelDebug, parseLevel("verbose"))
}

func TestLogUsableBeforeInit(t *testing.T) {
	assert.NotPanics(t, func() {
		Log.Info("before init")
	})
}

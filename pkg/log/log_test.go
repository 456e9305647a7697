package log_test

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/dukex/flyout/pkg/log"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, log.ParseLevel(tt.in))
		})
	}
}

func TestAttrs(t *testing.T) {
	t.Parallel()

	attr := log.RunID("run-1")
	assert.Equal(t, "run_id", attr.Key)
	assert.Equal(t, "run-1", attr.Value.String())

	attr = log.Step("flight")
	assert.Equal(t, "step", attr.Key)
	assert.Equal(t, "flight", attr.Value.String())

	attr = log.Error(errors.New("boom"))
	assert.Equal(t, "boom", attr.Value.String())

	attr = log.Error(nil)
	assert.Empty(t, attr.Value.String())

	attr = log.Attempt(2, 3)
	assert.Equal(t, "attempt", attr.Key)
	assert.Len(t, attr.Value.Group(), 2)
}

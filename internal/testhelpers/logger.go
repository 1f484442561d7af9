package testhelpers

import (
	"io"
	"log/slog"
	"time"

	"github.com/myrjola/avalanchemystery/internal/logging"
)

// NewLogger creates a new logger with the given log sink such as io.Discard.
func NewLogger(logSink io.Writer) *slog.Logger {
	handler := logging.NewContextHandler(slog.NewTextHandler(logSink, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	return slog.New(handler)
}

// FixedClock returns a clock function that reports the time stored in now, which tests may advance.
func FixedClock(now *time.Time) func() time.Time {
	return func() time.Time {
		return *now
	}
}

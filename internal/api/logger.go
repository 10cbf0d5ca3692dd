package api

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cwsops/liveperson-cli/internal/debug"
)

// LevelCritical marks exhausted retries and failed bearer requests.
const LevelCritical = debug.LevelCritical

// Logger receives diagnostic events from the executor. *slog.Logger
// satisfies it.
type Logger interface {
	Log(ctx context.Context, level slog.Level, msg string, args ...any)
}

// NoopLogger discards all log messages. It is the default.
type NoopLogger struct{}

func (NoopLogger) Log(context.Context, slog.Level, string, ...any) {}

// restyLogger forwards resty's internal warnings to a Logger.
type restyLogger struct {
	logger Logger
}

func (l restyLogger) Errorf(format string, v ...any) {
	l.logger.Log(context.Background(), slog.LevelError, fmt.Sprintf(format, v...))
}

func (l restyLogger) Warnf(format string, v ...any) {
	l.logger.Log(context.Background(), slog.LevelWarn, fmt.Sprintf(format, v...))
}

func (l restyLogger) Debugf(format string, v ...any) {
	l.logger.Log(context.Background(), slog.LevelDebug, fmt.Sprintf(format, v...))
}

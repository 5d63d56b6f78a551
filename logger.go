package waypoint

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/hupe1980/waypoint/search"
)

// Logger wraps slog.Logger with waypoint-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithSearchID adds a search id field to the logger.
func (l *Logger) WithSearchID(id uint64) *Logger {
	return &Logger{
		Logger: l.Logger.With("search_id", id),
	}
}

// WithComponent adds a component field to the logger.
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("component", name),
	}
}

// LogSearch logs the outcome of a finished request.
func (l *Logger) LogSearch(ctx context.Context, r *search.Request) {
	switch r.CompleteState() {
	case search.Error:
		l.ErrorContext(ctx, "path failed",
			"search_id", r.SearchID(),
			"searched", r.SearchedNodes(),
			"error", r.Err(),
		)
	case search.Partial:
		l.WarnContext(ctx, "path partial",
			"search_id", r.SearchID(),
			"searched", r.SearchedNodes(),
			"nodes", len(r.Nodes()),
			"reason", r.ErrorMessage(),
		)
	default:
		l.DebugContext(ctx, "path found",
			"search_id", r.SearchID(),
			"searched", r.SearchedNodes(),
			"nodes", len(r.Nodes()),
			"cost", r.Cost(),
			"duration", r.Duration(),
		)
	}
}

// LogTick logs a scheduler tick.
func (l *Logger) LogTick(ctx context.Context, pending int, elapsed time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "tick failed",
			"pending", pending,
			"elapsed", elapsed,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "tick completed",
			"pending", pending,
			"elapsed", elapsed,
		)
	}
}

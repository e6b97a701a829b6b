package wikidex

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with wikidex-specific context.
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
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithSource adds a source field to the logger.
func (l *Logger) WithSource(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("source", name),
	}
}

// LogSource logs the outcome of draining one source.
func (l *Logger) LogSource(ctx context.Context, name string, pairs int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "source failed",
			"source", name,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "source drained",
		"source", name,
		"pairs", pairs,
	)
}

// LogBuild logs a completed or failed build.
func (l *Logger) LogBuild(ctx context.Context, stats BuildStats, err error) {
	switch {
	case err != nil:
		l.ErrorContext(ctx, "build failed",
			"error", err,
		)
	case stats.FailedSources > 0:
		l.WarnContext(ctx, "build completed with failed sources",
			"sources", stats.Sources,
			"failed", stats.FailedSources,
			"pairs", stats.Pairs,
			"keys", stats.Keys,
			"duration", stats.Duration,
		)
	default:
		l.InfoContext(ctx, "build completed",
			"sources", stats.Sources,
			"pairs", stats.Pairs,
			"keys", stats.Keys,
			"distinct_values", stats.DistinctValues,
			"duration", stats.Duration,
		)
	}
}

// LogLookup logs an exact lookup.
func (l *Logger) LogLookup(ctx context.Context, query string, found bool) {
	l.DebugContext(ctx, "lookup",
		"query", query,
		"found", found,
	)
}

// LogResolve logs a fuzzy resolution.
func (l *Logger) LogResolve(ctx context.Context, query string, res Result, d time.Duration, err error) {
	if err != nil {
		l.DebugContext(ctx, "resolve failed",
			"query", query,
			"duration", d,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "resolve completed",
		"query", query,
		"key", res.Key,
		"method", res.Method,
		"score", res.Score,
		"ties", res.TieSize,
		"choices", res.Choices,
		"duration", d,
	)
}

// LogDump logs a dump write.
func (l *Logger) LogDump(ctx context.Context, name string, size int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "dump failed",
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "dump written",
		"name", name,
		"bytes", size,
	)
}

// LogMilestone logs a query count milestone.
func (l *Logger) LogMilestone(ctx context.Context, count uint64) {
	l.InfoContext(ctx, "milestone reached",
		"queries", count,
	)
}

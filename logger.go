package carray

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with carray-specific context.
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
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithRank adds a rank field to the logger.
func (l *Logger) WithRank(rank int) *Logger {
	return &Logger{
		Logger: l.Logger.With("rank", rank),
	}
}

// WithShape adds a shape field to the logger.
func (l *Logger) WithShape(shape Shape) *Logger {
	return &Logger{
		Logger: l.Logger.With("shape", shape.String()),
	}
}

// LogConstruct logs an array construction.
func (l *Logger) LogConstruct(ctx context.Context, shape Shape, align, bytes int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "array construction failed",
			"rank", len(shape),
			"shape", shape.String(),
			"align", align,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "array constructed",
			"rank", len(shape),
			"shape", shape.String(),
			"align", align,
			"bytes", bytes,
		)
	}
}

// LogRelease logs the release of an array's last handle.
func (l *Logger) LogRelease(ctx context.Context, shape Shape, blocks int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "array release failed",
			"rank", len(shape),
			"shape", shape.String(),
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "array released",
			"rank", len(shape),
			"shape", shape.String(),
			"blocks", blocks,
		)
	}
}

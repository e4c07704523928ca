package tabledist

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/hupe1980/tabledist/cell"
)

// Logger wraps slog.Logger with tabledist-specific context.
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

// NewJSONLogger creates a Logger that outputs JSON-formatted logs to w.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(w io.Writer, level slog.Level) *Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs to w.
func NewTextLogger(w io.Writer, level slog.Level) *Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithMode adds the cell mode to the logger.
func (l *Logger) WithMode(m cell.Mode) *Logger {
	return &Logger{
		Logger: l.Logger.With("mode", m.String()),
	}
}

// WithOperation tags every record with the operation name.
func (l *Logger) WithOperation(op string) *Logger {
	return &Logger{
		Logger: l.Logger.With("op", op),
	}
}

// LogSized logs the allocation of the distance matrix.
func (l *Logger) LogSized(ctx context.Context, samples, pairs int, bytes int64) {
	l.DebugContext(ctx, "distance matrix allocated",
		"samples", samples,
		"pairs", pairs,
		"bytes", bytes,
	)
}

// LogProgress logs streaming progress.
func (l *Logger) LogProgress(ctx context.Context, rows int) {
	l.InfoContext(ctx, "rows processed",
		"rows", rows,
	)
}

// LogDistance logs the end of a distance run.
func (l *Logger) LogDistance(ctx context.Context, s *Summary, err error) {
	if err != nil {
		l.ErrorContext(ctx, "distance matrix failed",
			"rows", s.Rows,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "distance matrix written",
		"metric", s.Metric.String(),
		"samples", s.Samples,
		"rows", s.Rows,
		"header_rows", s.HeaderRows,
		"blank_rows", s.BlankRows,
		"duration", s.Duration.Round(time.Millisecond),
	)
}

// LogFilter logs the end of a filter run.
func (l *Logger) LogFilter(ctx context.Context, s *FilterSummary, err error) {
	if err != nil {
		l.ErrorContext(ctx, "filter failed",
			"rows", s.Report.Total(),
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "filter completed",
		"method", s.Method.String(),
		"total", s.Report.Total(),
		"kept", s.Report.Kept(),
		"dropped", s.Report.Dropped(),
		"duration", s.Duration.Round(time.Millisecond),
	)
}

package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

const redactedPlaceholder = "[redacted]"

// Logger defines the subset of slog functionality used by the toolkit. The
// interface is intentionally small so applications can provide their own
// implementation for testing or redaction policies.
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)
	With(args ...any) Logger
}

// New returns a Logger backed by the provided slog.Logger. Passing nil binds to
// slog.Default().
func New(logger *slog.Logger) Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return &slogLogger{logger: logger}
}

// Discard returns a Logger that drops every record.
func Discard() Logger {
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// NewHandler builds a slog handler writing to w. Level is one of debug, info,
// warn or error; format is text or json. Empty values select info and text.
func NewHandler(w io.Writer, level, format string) (slog.Handler, error) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "", "info":
		lvl = slog.LevelInfo
	case "debug":
		lvl = slog.LevelDebug
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		return nil, fmt.Errorf("unknown log level %q", level)
	}

	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(format) {
	case "", "text":
		return slog.NewTextHandler(w, opts), nil
	case "json":
		return slog.NewJSONHandler(w, opts), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

type slogLogger struct {
	logger *slog.Logger
}

func (l *slogLogger) Debug(ctx context.Context, msg string, args ...any) {
	l.logger.DebugContext(ctx, msg, args...)
}

func (l *slogLogger) Info(ctx context.Context, msg string, args ...any) {
	l.logger.InfoContext(ctx, msg, args...)
}

func (l *slogLogger) Warn(ctx context.Context, msg string, args ...any) {
	l.logger.WarnContext(ctx, msg, args...)
}

func (l *slogLogger) Error(ctx context.Context, msg string, args ...any) {
	l.logger.ErrorContext(ctx, msg, args...)
}

func (l *slogLogger) With(args ...any) Logger {
	return &slogLogger{logger: l.logger.With(args...)}
}

// Redacted marks attributes that contain sensitive information such as shares,
// reconstruction coefficients or derived keys. Callers must avoid logging raw
// secrets; include this attribute to record that a value was withheld.
func Redacted(key string) slog.Attr {
	return slog.String(key, redactedPlaceholder)
}

// Placeholder returns the canonical string that represents a redacted value.
func Placeholder() string {
	return redactedPlaceholder
}

// Package logging provides the leveled, structured logger the CLI's run
// command writes through; the receive loop and the preprocessing dealer
// do not log. No package in this
// module's retrieval corpus depends on a third-party structured-logging
// library, so this wraps the standard library's log/slog rather than
// inventing a dependency the corpus never reached for; see DESIGN.md.
package logging

import (
	"context"
	"log/slog"
	"os"
)

// Level mirrors slog's levels under names that read naturally at call
// sites (logging.LevelDebug, logging.LevelInfo, ...).
type Level = slog.Level

const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// Logger is a thin wrapper around *slog.Logger carrying a component name,
// so every log line from a given piece of the runtime is trivially
// filterable without repeating a "component" attribute at every call site.
type Logger struct {
	base *slog.Logger
}

// New builds a Logger writing JSON lines to os.Stderr at the given level.
// CLI commands call this once at startup; Discard gives a Logger that
// writes nothing.
func New(level Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return &Logger{base: slog.New(handler)}
}

// With returns a Logger tagging every subsequent line with component.
func (l *Logger) With(component string) *Logger {
	return &Logger{base: l.base.With("component", component)}
}

func (l *Logger) Debug(ctx context.Context, msg string, args ...any) {
	l.base.DebugContext(ctx, msg, args...)
}

func (l *Logger) Info(ctx context.Context, msg string, args ...any) {
	l.base.InfoContext(ctx, msg, args...)
}

func (l *Logger) Warn(ctx context.Context, msg string, args ...any) {
	l.base.WarnContext(ctx, msg, args...)
}

func (l *Logger) Error(ctx context.Context, msg string, args ...any) {
	l.base.ErrorContext(ctx, msg, args...)
}

// Discard returns a Logger that drops everything.
func Discard() *Logger {
	return &Logger{base: slog.New(slog.NewTextHandler(discardWriter{}, nil))}
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

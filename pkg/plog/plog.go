package plog

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// LevelDispatchHandler is a slog.Handler that writes log records to different
// handlers based on the record's level. INFO goes to one handler,
// while WARNING and above go to another.
type LevelDispatchHandler struct {
	stdoutHandler slog.Handler
	stderrHandler slog.Handler
}

// Enabled checks if the level is enabled for either of the underlying handlers.
func (h *LevelDispatchHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.stdoutHandler.Enabled(ctx, level) || h.stderrHandler.Enabled(ctx, level)
}

// Handle dispatches the record to the appropriate handler.
func (h *LevelDispatchHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelWarn {
		return h.stderrHandler.Handle(ctx, r)
	}
	return h.stdoutHandler.Handle(ctx, r)
}

// WithAttrs returns a new LevelDispatchHandler with the given attributes added.
func (h *LevelDispatchHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &LevelDispatchHandler{
		stdoutHandler: h.stdoutHandler.WithAttrs(attrs),
		stderrHandler: h.stderrHandler.WithAttrs(attrs),
	}
}

// WithGroup returns a new LevelDispatchHandler with the given group.
func (h *LevelDispatchHandler) WithGroup(name string) slog.Handler {
	return &LevelDispatchHandler{
		stdoutHandler: h.stdoutHandler.WithGroup(name),
		stderrHandler: h.stderrHandler.WithGroup(name),
	}
}

var defaultLogger *slog.Logger

func newHandler(w io.Writer, minLevel slog.Leveler) slog.Handler {
	return slog.NewTextHandler(w, &slog.HandlerOptions{Level: minLevel})
}

// newDispatchHandler writes INFO records to stdout and WARN and above to stderr.
func newDispatchHandler(stdout, stderr io.Writer) *LevelDispatchHandler {
	return &LevelDispatchHandler{
		stdoutHandler: newHandler(stdout, slog.LevelInfo),
		stderrHandler: newHandler(stderr, slog.LevelWarn),
	}
}

// SetOutput allows redirecting the logger's output, primarily for testing.
// All levels are written to w.
func SetOutput(w io.Writer) {
	defaultLogger = slog.New(newHandler(w, slog.LevelInfo))
}

func init() {
	defaultLogger = slog.New(newDispatchHandler(os.Stdout, os.Stderr))
}

// Info logs an informational message.
func Info(msg string, args ...any) {
	defaultLogger.Info(msg, args...)
}

// Warn logs a warning message.
func Warn(msg string, args ...any) {
	defaultLogger.Warn(msg, args...)
}

// Error logs an error message.
func Error(msg string, args ...any) {
	defaultLogger.Error(msg, args...)
}

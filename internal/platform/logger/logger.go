// Package logger provides structured logging for the kitchen server.
// Every score change and station outcome should be traceable through this.
package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Logger provides structured logging with context.
type Logger struct {
	z zerolog.Logger
}

// NewLogger creates a logger writing JSON lines to stdout at the given level
// ("debug", "info", "warn", "error"). Unknown levels fall back to info.
func NewLogger(level string) *Logger {
	return New(os.Stdout, level)
}

// New creates a logger writing to w.
func New(w io.Writer, level string) *Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	z := zerolog.New(w).Level(lvl).With().Timestamp().Str("svc", "kitchen").Logger()
	return &Logger{z: z}
}

// NewNopLogger discards everything. Used by tests.
func NewNopLogger() *Logger {
	return &Logger{z: zerolog.Nop()}
}

// Info logs informational messages.
func (l *Logger) Info(msg string) {
	l.z.Info().Msg(msg)
}

// Warn logs warning messages.
func (l *Logger) Warn(msg string) {
	l.z.Warn().Msg(msg)
}

// Error logs error messages.
func (l *Logger) Error(msg string, err error) {
	l.z.Error().Err(err).Msg(msg)
}

// Debug logs chatty per-tick details.
func (l *Logger) Debug(msg string) {
	l.z.Debug().Msg(msg)
}

// Event logs a gameplay event for match oversight.
func (l *Logger) Event(eventType string, actorID string, details string) {
	l.z.Info().Str("event", eventType).Str("actor", actorID).Msg(details)
}

// With returns a child logger carrying an extra field, e.g. the match ID.
func (l *Logger) With(key, value string) *Logger {
	return &Logger{z: l.z.With().Str(key, value).Logger()}
}

package logger

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// Logger wraps charm/log for structured logging
type Logger struct {
	*log.Logger
}

// New creates a new logger with the given output
func New(w io.Writer) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})
	return &Logger{Logger: l}
}

// NewWithLevel creates a logger with a specific level
func NewWithLevel(w io.Writer, level log.Level) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           level,
	})
	return &Logger{Logger: l}
}

// NewFileLogger creates a logger that writes to a file
func NewFileLogger(path string) (*Logger, func(), error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}

	l := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})

	cleanup := func() {
		f.Close()
	}

	return &Logger{Logger: l}, cleanup, nil
}

// Discard returns a logger that discards all output
func Discard() *Logger {
	return New(io.Discard)
}

// DocumentLoaded logs a successful document load
func (l *Logger) DocumentLoaded(path string, size int, blocks int) {
	l.Info("document loaded",
		"path", path,
		"size", size,
		"blocks", blocks)
}

// DocumentError logs a failed document load or parse
func (l *Logger) DocumentError(path string, err error) {
	l.Error("document error",
		"path", path,
		"error", err)
}

// QueryExecuted logs a completed query
func (l *Logger) QueryExecuted(query string, matches int, duration time.Duration) {
	l.Debug("query executed",
		"query", query,
		"matches", matches,
		"duration", duration.Round(time.Microsecond))
}

// QueryFailed logs a query that could not be parsed
func (l *Logger) QueryFailed(query string, err error) {
	l.Debug("query failed",
		"query", query,
		"error", err)
}

// SessionStarted logs the start of an interactive session
func (l *Logger) SessionStarted(id string) {
	l.Debug("session started", "session", id)
}

// SessionEnded logs the end of an interactive session
func (l *Logger) SessionEnded(id string, commands int) {
	l.Debug("session ended",
		"session", id,
		"commands", commands)
}

// ConfigLoaded logs successful config loading
func (l *Logger) ConfigLoaded(format string, wrapWidth int) {
	l.Debug("config loaded",
		"default_format", format,
		"wrap_width", wrapWidth)
}

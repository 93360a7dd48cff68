// Package telemetry carries the module's ambient observability: a leveled,
// context-scoped structured logger with data sanitization, and a metrics
// collector exportable as pretty JSON or Prometheus text. Both are safe
// for concurrent use; neither performs background work.
package telemetry

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// LoggerConfig selects level, output format, and sinks.
type LoggerConfig struct {
	// Level is the minimum level emitted: debug, info, warn, or error.
	Level string
	// Format is "json" or "console".
	Format string
	// Output is "stdout", "stderr", or empty for stdout.
	Output string
	// FilePath, when set, adds a second sink appending newline-delimited
	// JSON to the named file regardless of Format.
	FilePath string
}

// Logger wraps zerolog with the module's context-path and sanitization
// conventions. The zero value is not usable; construct with NewLogger,
// NewWriterLogger, or Nop.
type Logger struct {
	zl      zerolog.Logger
	context string
	file    *os.File
}

// NewLogger builds a logger from cfg, opening the file sink if one is
// configured. Close releases the file sink.
func NewLogger(cfg LoggerConfig) (*Logger, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	var console io.Writer
	switch cfg.Output {
	case "", "stdout":
		console = os.Stdout
	case "stderr":
		console = os.Stderr
	default:
		return nil, fmt.Errorf("telemetry: unknown log output %q", cfg.Output)
	}
	if cfg.Format == "console" {
		console = zerolog.ConsoleWriter{Out: console, TimeFormat: time.RFC3339}
	}

	l := &Logger{}
	sink := console
	if cfg.FilePath != "" {
		f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("telemetry: open log file: %w", err)
		}
		l.file = f
		sink = zerolog.MultiLevelWriter(console, f)
	}

	l.zl = zerolog.New(sink).Level(level).With().Timestamp().Logger()
	return l, nil
}

// NewWriterLogger builds a JSON logger writing to w, primarily for tests
// and embedding.
func NewWriterLogger(w io.Writer, minLevel string) (*Logger, error) {
	level, err := parseLevel(minLevel)
	if err != nil {
		return nil, err
	}
	return &Logger{zl: zerolog.New(w).Level(level).With().Timestamp().Logger()}, nil
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

func parseLevel(s string) (zerolog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return zerolog.InfoLevel, nil
	case "debug":
		return zerolog.DebugLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("telemetry: unknown log level %q", s)
	}
}

// Close releases the file sink, if any.
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// Child returns a logger whose context path extends l's by name, joined
// with a colon.
func (l *Logger) Child(name string) *Logger {
	ctx := name
	if l.context != "" {
		ctx = l.context + ":" + name
	}
	return &Logger{zl: l.zl, context: ctx, file: l.file}
}

// Context reports the logger's colon-joined context path.
func (l *Logger) Context() string { return l.context }

func (l *Logger) emit(ev *zerolog.Event, msg string, fields map[string]interface{}) {
	if l.context != "" {
		ev = ev.Str("context", l.context)
	}
	if len(fields) > 0 {
		ev = ev.Fields(SanitizeFields(fields))
	}
	ev.Msg(msg)
}

// Debug logs msg with sanitized fields at debug level. fields may be nil.
func (l *Logger) Debug(msg string, fields map[string]interface{}) {
	l.emit(l.zl.Debug(), msg, fields)
}

// Info logs msg with sanitized fields at info level.
func (l *Logger) Info(msg string, fields map[string]interface{}) {
	l.emit(l.zl.Info(), msg, fields)
}

// Warn logs msg with sanitized fields at warn level.
func (l *Logger) Warn(msg string, fields map[string]interface{}) {
	l.emit(l.zl.Warn(), msg, fields)
}

// Error logs msg with sanitized fields at error level.
func (l *Logger) Error(msg string, fields map[string]interface{}) {
	l.emit(l.zl.Error(), msg, fields)
}

// StartTimer returns a closure that, when called, logs "<op> completed"
// at debug level with the elapsed duration_ms.
func (l *Logger) StartTimer(op string) func() {
	start := time.Now()
	return func() {
		l.emit(l.zl.Debug().Str("operation", op).Int64("duration_ms", time.Since(start).Milliseconds()),
			op+" completed", nil)
	}
}

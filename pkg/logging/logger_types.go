package logging

import (
	"io"
	"sync"
	"time"
)

// Level is the severity of a log message.
type Level int

const (
	// DebugLevel carries per-request and per-algorithm detail, off in production
	DebugLevel Level = iota
	// InfoLevel is the default level
	InfoLevel
	// WarnLevel marks degraded but recoverable conditions
	WarnLevel
	// ErrorLevel marks failures that need attention
	ErrorLevel
)

// String returns the level name as it appears in log output.
func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a level name from config or flags to a Level.
// Unrecognized names default to InfoLevel.
func ParseLevel(s string) Level {
	switch s {
	case "DEBUG", "debug":
		return DebugLevel
	case "INFO", "info":
		return InfoLevel
	case "WARN", "warn", "WARNING", "warning":
		return WarnLevel
	case "ERROR", "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// Field is one structured key-value pair attached to a log message.
type Field struct {
	Key   string
	Value any
}

// Logger is the structured logger used throughout the service.
type Logger interface {
	// Debug logs a debug-level message
	Debug(msg string, fields ...Field)
	// Info logs an info-level message
	Info(msg string, fields ...Field)
	// Warn logs a warning-level message
	Warn(msg string, fields ...Field)
	// Error logs an error-level message
	Error(msg string, fields ...Field)
	// With returns a child logger carrying the given fields on every message
	With(fields ...Field) Logger
	// SetLevel sets the minimum level that gets written
	SetLevel(level Level)
	// GetLevel returns the current minimum level
	GetLevel() Level
}

// JSONLogger writes one JSON object per log line.
type JSONLogger struct {
	writer io.Writer
	level  Level
	fields []Field
	mu     sync.Mutex
}

// LogEntry is the wire shape of a single JSON log line.
type LogEntry struct {
	Time    string         `json:"time"`
	Level   string         `json:"level"`
	Message string         `json:"msg"`
	Fields  map[string]any `json:"fields,omitempty"`
}

// NopLogger discards everything. Tests use it to silence handlers.
type NopLogger struct{}

func (NopLogger) Debug(msg string, fields ...Field) {}
func (NopLogger) Info(msg string, fields ...Field)  {}
func (NopLogger) Warn(msg string, fields ...Field)  {}
func (NopLogger) Error(msg string, fields ...Field) {}
func (n NopLogger) With(fields ...Field) Logger     { return n }
func (NopLogger) SetLevel(level Level)              {}
func (NopLogger) GetLevel() Level                   { return InfoLevel }

// NewNopLogger returns a logger that discards all output.
func NewNopLogger() Logger {
	return NopLogger{}
}

// TimedOperation measures the duration of an operation, logging on completion.
type TimedOperation struct {
	logger Logger
	msg    string
	start  time.Time
	fields []Field
}

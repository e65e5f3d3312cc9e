package internal

import (
	"io"
	"log"
	"os"
	"strings"
)

// LogLevel represents different logging verbosity levels
type LogLevel int

const (
	LogLevelError LogLevel = iota
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
	LogLevelTrace
)

var levelNames = map[LogLevel]string{
	LogLevelError: "ERROR",
	LogLevelWarn:  "WARN",
	LogLevelInfo:  "INFO",
	LogLevelDebug: "DEBUG",
	LogLevelTrace: "TRACE",
}

func (l LogLevel) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "UNKNOWN"
}

// ParseLogLevel reads a level name such as "warn" or "DEBUG"
func ParseLogLevel(s string) (LogLevel, bool) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for level, n := range levelNames {
		if n == name {
			return level, true
		}
	}
	return LogLevelInfo, false
}

// Logger provides leveled logging. A component prefix such as "catalog" is
// rendered as "[catalog]" after the level tag.
type Logger struct {
	level  LogLevel
	prefix string
	out    *log.Logger
}

// NewLogger creates a new logger with the specified level
func NewLogger(level LogLevel) *Logger {
	return &Logger{level: level, out: log.Default()}
}

// NewLoggerTo creates a logger writing to w, used by tests to capture output
func NewLoggerTo(w io.Writer, level LogLevel) *Logger {
	return &Logger{level: level, out: log.New(w, "", 0)}
}

// NewDefaultLogger creates a logger based on LOG_LEVEL environment variable
func NewDefaultLogger() *Logger {
	level, _ := ParseLogLevel(os.Getenv("LOG_LEVEL"))
	return NewLogger(level)
}

// WithPrefix returns a logger sharing the level and output, tagged with a component name
func (l *Logger) WithPrefix(component string) *Logger {
	base := l.orDefault()
	return &Logger{level: base.level, prefix: "[" + component + "] ", out: base.out}
}

// Enabled reports whether messages at level are written
func (l *Logger) Enabled(level LogLevel) bool {
	return l.orDefault().level >= level
}

func (l *Logger) printf(level LogLevel, format string, args ...interface{}) {
	base := l.orDefault()
	if base.level < level {
		return
	}
	base.out.Printf("["+level.String()+"] "+base.prefix+format, args...)
}

// nil loggers write through DefaultLogger
func (l *Logger) orDefault() *Logger {
	if l == nil {
		return DefaultLogger
	}
	return l
}

// Error logs error messages
func (l *Logger) Error(format string, args ...interface{}) {
	l.printf(LogLevelError, format, args...)
}

// Warn logs warning messages
func (l *Logger) Warn(format string, args ...interface{}) {
	l.printf(LogLevelWarn, format, args...)
}

// Info logs info messages
func (l *Logger) Info(format string, args ...interface{}) {
	l.printf(LogLevelInfo, format, args...)
}

// Debug logs debug messages
func (l *Logger) Debug(format string, args ...interface{}) {
	l.printf(LogLevelDebug, format, args...)
}

// Trace logs trace messages
func (l *Logger) Trace(format string, args ...interface{}) {
	l.printf(LogLevelTrace, format, args...)
}

// GetLevel returns the current log level
func (l *Logger) GetLevel() LogLevel {
	return l.orDefault().level
}

// Global logger instance
var DefaultLogger = NewDefaultLogger()

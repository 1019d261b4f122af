package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// LogLevel selects the minimum severity written by a ParseKitLogger.
type LogLevel int

// Levels in increasing severity.
const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

// String returns the upper-case level name.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLogLevel maps a case-insensitive level name to a LogLevel.
func ParseLogLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LogLevelDebug, nil
	case "", "info":
		return LogLevelInfo, nil
	case "warn", "warning":
		return LogLevelWarn, nil
	case "error":
		return LogLevelError, nil
	default:
		return LogLevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// Logger is what sessions, loaders, the server and the CLI log through. Args
// are alternating key/value pairs as in log/slog.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// SlogAdapter lets a host's *slog.Logger serve as a Logger. *slog.Logger
// already has the right method set; the adapter only names the type.
type SlogAdapter struct {
	*slog.Logger
}

// NewSlogAdapter wraps logger, or slog.Default() when logger is nil.
func NewSlogAdapter(logger *slog.Logger) Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogAdapter{Logger: logger}
}

// ParseKitLogger is the logger used throughout parsekit. Component and
// session are single-valued and replaced by WithComponent and WithSession;
// WithContext accumulates attributes. Every With call returns a copy.
type ParseKitLogger struct {
	base      *slog.Logger
	component string
	sessionID string
}

// LoggerConfig configures construction of a ParseKitLogger.
type LoggerConfig struct {
	Level     LogLevel
	Format    string // json or text
	Output    io.Writer
	AddSource bool
	Component string
	SessionID string
}

// DefaultLoggerConfig returns a JSON info level configuration writing to
// stderr, so stdout stays free for annotation output.
func DefaultLoggerConfig() *LoggerConfig {
	return &LoggerConfig{Level: LogLevelInfo, Format: "json", Output: os.Stderr}
}

// NewLogger builds a ParseKitLogger from cfg. A nil cfg uses the defaults.
func NewLogger(cfg *LoggerConfig) *ParseKitLogger {
	if cfg == nil {
		cfg = DefaultLoggerConfig()
	}
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	hopts := &slog.HandlerOptions{Level: cfg.Level.slogLevel(), AddSource: cfg.AddSource}
	var h slog.Handler = slog.NewJSONHandler(out, hopts)
	if cfg.Format == "text" {
		h = slog.NewTextHandler(out, hopts)
	}
	return &ParseKitLogger{base: slog.New(h), component: cfg.Component, sessionID: cfg.SessionID}
}

func (l LogLevel) slogLevel() slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithContext returns a logger attaching key=value to every record.
func (l *ParseKitLogger) WithContext(key string, value any) *ParseKitLogger {
	nl := *l
	nl.base = l.base.With(key, value)
	return &nl
}

// WithComponent returns a logger tagged with component c (session, server, cli).
func (l *ParseKitLogger) WithComponent(c string) *ParseKitLogger {
	nl := *l
	nl.component = c
	return &nl
}

// WithSession returns a logger tagged with a session id.
func (l *ParseKitLogger) WithSession(sid string) *ParseKitLogger {
	nl := *l
	nl.sessionID = sid
	return &nl
}

func (l *ParseKitLogger) emit(level slog.Level, msg string, args []any) {
	ctx := context.Background()
	if !l.base.Enabled(ctx, level) {
		return
	}
	if l.sessionID != "" {
		args = append([]any{"session_id", l.sessionID}, args...)
	}
	if l.component != "" {
		args = append([]any{"component", l.component}, args...)
	}
	l.base.Log(ctx, level, msg, args...)
}

// Debug logs at debug level.
func (l *ParseKitLogger) Debug(msg string, args ...any) { l.emit(slog.LevelDebug, msg, args) }

// Info logs at info level.
func (l *ParseKitLogger) Info(msg string, args ...any) { l.emit(slog.LevelInfo, msg, args) }

// Warn logs at warn level.
func (l *ParseKitLogger) Warn(msg string, args ...any) { l.emit(slog.LevelWarn, msg, args) }

// Error logs at error level.
func (l *ParseKitLogger) Error(msg string, args ...any) { l.emit(slog.LevelError, msg, args) }

// NoOpLogger drops every record. It is the default for sessions and servers
// built without a logger.
type NoOpLogger struct{}

// Debug discards a debug message.
func (NoOpLogger) Debug(string, ...any) {}

// Info discards an informational message.
func (NoOpLogger) Info(string, ...any) {}

// Warn discards a warning message.
func (NoOpLogger) Warn(string, ...any) {}

// Error discards an error message.
func (NoOpLogger) Error(string, ...any) {}

// NewSlogLogger is shorthand for NewLogger with stderr output. An empty
// format selects JSON.
func NewSlogLogger(level LogLevel, format string, addSource bool) *ParseKitLogger {
	return NewLogger(&LoggerConfig{Level: level, Format: format, Output: os.Stderr, AddSource: addSource})
}

var (
	_ Logger = (*SlogAdapter)(nil)
	_ Logger = (*ParseKitLogger)(nil)
	_ Logger = NoOpLogger{}
)

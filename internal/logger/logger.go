// Package logger provides the structured logging sink for sysdash components.
// Packages log debug, info, warn, and error events with key/value metadata
// without being coupled to a specific logging implementation.
//
// The file-backed implementation writes one event per line:
//
//	{"time":"...","level":"WARN","msg":"collection failed","metadata":{"source":"disk"}}
//
// The engine only ever writes to a Logger; nothing reads events back.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Logger defines the interface for logging operations.
// Each method takes a message followed by alternating key/value pairs,
// e.g. l.Warn("collection failed", "source", "disk", "error", err).
type Logger interface {
	Debug(msg string, kv ...any)
	Info(msg string, kv ...any)
	Warn(msg string, kv ...any)
	Error(msg string, kv ...any)
	// With returns a logger that adds kv to every event.
	With(kv ...any) Logger
}

// Config controls the file-backed logger.
type Config struct {
	// File is the log destination. Empty discards all events.
	File string
	// Level is the minimum level (debug, info, warn, error).
	Level string
	// Format is json or text.
	Format string
}

// slogLogger implements Logger on top of log/slog.
// Metadata pairs are nested under a "metadata" group.
type slogLogger struct {
	l    *slog.Logger
	base []any
}

// New creates a logger from cfg. The returned closer releases the log file
// and must be called on shutdown. SYSDASH_DEBUG forces debug level.
func New(cfg Config) (Logger, io.Closer, error) {
	if cfg.File == "" {
		return Noop(), io.NopCloser(nil), nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}

	f, err := os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	return NewWriter(f, cfg), f, nil
}

// NewWriter creates a logger that writes events to w.
func NewWriter(w io.Writer, cfg Config) Logger {
	level := ParseLevel(cfg.Level)
	if os.Getenv("SYSDASH_DEBUG") != "" {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch cfg.Format {
	case "text":
		handler = slog.NewTextHandler(w, opts)
	default:
		handler = slog.NewJSONHandler(w, opts)
	}

	return &slogLogger{l: slog.New(handler)}
}

// ParseLevel converts a level name to a slog.Level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *slogLogger) log(level slog.Level, msg string, kv []any) {
	ctx := context.Background()
	if !l.l.Enabled(ctx, level) {
		return
	}
	fields := make([]any, 0, len(l.base)+len(kv))
	fields = append(fields, l.base...)
	fields = append(fields, kv...)
	if len(fields) == 0 {
		l.l.Log(ctx, level, msg)
		return
	}
	l.l.Log(ctx, level, msg, slog.Group("metadata", fields...))
}

func (l *slogLogger) Debug(msg string, kv ...any) { l.log(slog.LevelDebug, msg, kv) }
func (l *slogLogger) Info(msg string, kv ...any)  { l.log(slog.LevelInfo, msg, kv) }
func (l *slogLogger) Warn(msg string, kv ...any)  { l.log(slog.LevelWarn, msg, kv) }
func (l *slogLogger) Error(msg string, kv ...any) { l.log(slog.LevelError, msg, kv) }

func (l *slogLogger) With(kv ...any) Logger {
	base := make([]any, 0, len(l.base)+len(kv))
	base = append(base, l.base...)
	base = append(base, kv...)
	return &slogLogger{l: l.l, base: base}
}

// noopLogger implements Logger but discards all messages.
type noopLogger struct{}

// Noop returns a logger that discards all messages.
func Noop() Logger {
	return noopLogger{}
}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (n noopLogger) With(...any) Logger { return n }

// LogMessage represents a captured log message.
type LogMessage struct {
	Level   string
	Message string
	Fields  map[string]any
}

// BufferLogger captures log messages for testing.
// Safe for concurrent use since collectors log from their own goroutines.
type BufferLogger struct {
	mu       sync.Mutex
	Messages []LogMessage
	base     []any
	parent   *BufferLogger
}

// NewBufferLogger creates a logger that captures messages for inspection.
func NewBufferLogger() *BufferLogger {
	return &BufferLogger{
		Messages: make([]LogMessage, 0),
	}
}

func (l *BufferLogger) root() *BufferLogger {
	if l.parent != nil {
		return l.parent
	}
	return l
}

func (l *BufferLogger) add(level, msg string, kv []any) {
	fields := make(map[string]any)
	all := append(append([]any{}, l.base...), kv...)
	for i := 0; i+1 < len(all); i += 2 {
		fields[fmt.Sprint(all[i])] = all[i+1]
	}

	r := l.root()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Messages = append(r.Messages, LogMessage{Level: level, Message: msg, Fields: fields})
}

func (l *BufferLogger) Debug(msg string, kv ...any) { l.add("debug", msg, kv) }
func (l *BufferLogger) Info(msg string, kv ...any)  { l.add("info", msg, kv) }
func (l *BufferLogger) Warn(msg string, kv ...any)  { l.add("warn", msg, kv) }
func (l *BufferLogger) Error(msg string, kv ...any) { l.add("error", msg, kv) }

func (l *BufferLogger) With(kv ...any) Logger {
	return &BufferLogger{
		base:   append(append([]any{}, l.base...), kv...),
		parent: l.root(),
	}
}

// HasLevel returns true if any message was logged at the given level.
func (l *BufferLogger) HasLevel(level string) bool {
	for _, m := range l.Snapshot() {
		if m.Level == level {
			return true
		}
	}
	return false
}

// HasMessage returns true if any message contains substr.
func (l *BufferLogger) HasMessage(substr string) bool {
	for _, m := range l.Snapshot() {
		if strings.Contains(m.Message, substr) {
			return true
		}
	}
	return false
}

// Snapshot returns a copy of the captured messages.
func (l *BufferLogger) Snapshot() []LogMessage {
	r := l.root()
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]LogMessage, len(r.Messages))
	copy(out, r.Messages)
	return out
}

// Clear removes all captured messages.
func (l *BufferLogger) Clear() {
	r := l.root()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Messages = r.Messages[:0]
}

// defaultLogger is the package-level default logger.
var (
	defaultMu     sync.RWMutex
	defaultLogger = Noop()
)

// Default returns the default logger for the package.
func Default() Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetDefault sets the default logger for the package.
func SetDefault(l Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = l
}

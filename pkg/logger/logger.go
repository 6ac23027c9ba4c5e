// Package logger wraps slog with the console's output conventions and the
// request-scoped fields every log line carries.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

type ctxKey int

const (
	requestIDKey ctxKey = iota
	analystKey
)

// ContextWithRequestID returns ctx carrying the request ID.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// ContextWithAnalyst returns ctx carrying the signed-in analyst.
func ContextWithAnalyst(ctx context.Context, analyst string) context.Context {
	return context.WithValue(ctx, analystKey, analyst)
}

// RequestID returns the request ID stored in ctx, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// Logger is a structured logger wrapper around slog
type Logger struct {
	*slog.Logger
}

// Options selects the handler. Production always logs JSON at info unless
// Level overrides it; elsewhere Format "json" switches to JSON and the
// default level is debug.
type Options struct {
	Env    string
	Format string
	Level  string
}

// New creates a logger for env, reading LOG_FORMAT and LOG_LEVEL.
func New(env string, output io.Writer) *Logger {
	return NewWithOptions(Options{
		Env:    env,
		Format: os.Getenv("LOG_FORMAT"),
		Level:  os.Getenv("LOG_LEVEL"),
	}, output)
}

// NewWithOptions creates a logger from explicit options.
func NewWithOptions(o Options, output io.Writer) *Logger {
	level := slog.LevelDebug
	if o.Env == "production" {
		level = slog.LevelInfo
	}
	if o.Level != "" {
		var parsed slog.Level
		if err := parsed.UnmarshalText([]byte(o.Level)); err == nil {
			level = parsed
		}
	}

	opts := &slog.HandlerOptions{
		Level:       level,
		AddSource:   true,
		ReplaceAttr: replaceAttr,
	}

	var handler slog.Handler
	if o.Env == "production" || o.Format == "json" {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		handler = slog.NewTextHandler(output, opts)
	}
	return &Logger{Logger: slog.New(handler)}
}

// replaceAttr formats times as RFC3339 and trims sources to file:line.
func replaceAttr(_ []string, a slog.Attr) slog.Attr {
	switch a.Key {
	case slog.TimeKey:
		if t, ok := a.Value.Any().(time.Time); ok {
			a.Value = slog.StringValue(t.Format(time.RFC3339))
		}
	case slog.SourceKey:
		if src, ok := a.Value.Any().(*slog.Source); ok {
			file := src.File
			if idx := strings.LastIndex(file, "/"); idx >= 0 {
				file = file[idx+1:]
			}
			a.Value = slog.StringValue(fmt.Sprintf("%s:%d", file, src.Line))
		}
	}
	return a
}

// NewDefault creates a new logger with default settings (stdout)
func NewDefault(env string) *Logger {
	return New(env, os.Stdout)
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// WithContext adds the request ID and analyst found in ctx.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	var args []any
	if id := RequestID(ctx); id != "" {
		args = append(args, "request_id", id)
	}
	if analyst, ok := ctx.Value(analystKey).(string); ok && analyst != "" {
		args = append(args, "analyst", analyst)
	}
	if len(args) == 0 {
		return l
	}
	return &Logger{Logger: l.With(args...)}
}

// Component tags the logger with the subsystem it belongs to.
func (l *Logger) Component(name string) *Logger {
	return l.WithField("component", name)
}

// WithField creates a new logger with an additional field
func (l *Logger) WithField(key string, value any) *Logger {
	return &Logger{Logger: l.With(key, value)}
}

// WithError creates a new logger with an error field
func (l *Logger) WithError(err error) *Logger {
	return &Logger{Logger: l.With("error", err.Error())}
}

// WithDuration creates a new logger with a duration_ms field
func (l *Logger) WithDuration(d time.Duration) *Logger {
	return &Logger{Logger: l.With("duration_ms", d.Milliseconds())}
}

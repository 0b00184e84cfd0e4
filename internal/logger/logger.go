// Package logger provides structured, context-aware logging backed by zerolog.
package logger

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/optrack/internal/apperror"
)

// Level is the minimum severity a Logger emits.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel maps a config string to a Level, defaulting to info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l Level) zerolog() zerolog.Level {
	switch l {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// LoggerInterface is the logging contract used across the application.
// Args are alternating key/value pairs.
type LoggerInterface interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// The c variants skip caller frames so helpers report their call site.
	Debugc(ctx context.Context, caller int, msg string, args ...any)
	Infoc(ctx context.Context, caller int, msg string, args ...any)
	Warnc(ctx context.Context, caller int, msg string, args ...any)
	Errorc(ctx context.Context, caller int, msg string, args ...any)
}

// Events receives every record at or above Warn. Optional.
type Events struct {
	Warn  func(ctx context.Context, msg string, fields map[string]any)
	Error func(ctx context.Context, msg string, fields map[string]any)
}

// Logger implements LoggerInterface.
type Logger struct {
	zl     zerolog.Logger
	events *Events
}

var _ LoggerInterface = (*Logger)(nil)

// New creates a JSON logger writing to w.
func New(w io.Writer, level Level, serviceName string, events *Events) *Logger {
	zl := zerolog.New(w).
		Level(level.zerolog()).
		With().
		Timestamp().
		Str("service", serviceName).
		Logger()

	return &Logger{zl: zl, events: events}
}

// NewConsole creates a human-readable logger, used by the CLI tools.
func NewConsole(w io.Writer, level Level, serviceName string) *Logger {
	cw := zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	return New(cw, level, serviceName, nil)
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

func (l *Logger) Debug(ctx context.Context, msg string, args ...any) {
	l.write(ctx, zerolog.DebugLevel, 2, msg, args)
}

func (l *Logger) Info(ctx context.Context, msg string, args ...any) {
	l.write(ctx, zerolog.InfoLevel, 2, msg, args)
}

func (l *Logger) Warn(ctx context.Context, msg string, args ...any) {
	l.write(ctx, zerolog.WarnLevel, 2, msg, args)
}

func (l *Logger) Error(ctx context.Context, msg string, args ...any) {
	l.write(ctx, zerolog.ErrorLevel, 2, msg, args)
}

func (l *Logger) Debugc(ctx context.Context, caller int, msg string, args ...any) {
	l.write(ctx, zerolog.DebugLevel, caller, msg, args)
}

func (l *Logger) Infoc(ctx context.Context, caller int, msg string, args ...any) {
	l.write(ctx, zerolog.InfoLevel, caller, msg, args)
}

func (l *Logger) Warnc(ctx context.Context, caller int, msg string, args ...any) {
	l.write(ctx, zerolog.WarnLevel, caller, msg, args)
}

func (l *Logger) Errorc(ctx context.Context, caller int, msg string, args ...any) {
	l.write(ctx, zerolog.ErrorLevel, caller, msg, args)
}

func (l *Logger) write(ctx context.Context, level zerolog.Level, caller int, msg string, args []any) {
	ev := l.zl.WithLevel(level)
	if ev == nil {
		return
	}

	if _, file, line, ok := runtime.Caller(caller); ok {
		ev = ev.Str("caller", fmt.Sprintf("%s:%d", trimPath(file), line))
	}

	if ctx != nil {
		if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
			ev = ev.Str("trace_id", sc.TraceID().String()).Str("span_id", sc.SpanID().String())
		}
	}

	fields := toFields(args)
	ev.Fields(fields).Msg(msg)

	if l.events == nil {
		return
	}
	switch level {
	case zerolog.WarnLevel:
		if l.events.Warn != nil {
			l.events.Warn(ctx, msg, fields)
		}
	case zerolog.ErrorLevel:
		if l.events.Error != nil {
			l.events.Error(ctx, msg, fields)
		}
	}
}

// toFields turns key/value pairs into a map. A dangling key gets "!MISSING".
func toFields(args []any) map[string]any {
	fields := make(map[string]any, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}
		if i+1 >= len(args) {
			fields[key] = "!MISSING"
			break
		}
		if err, isErr := args[i+1].(error); isErr && err != nil {
			fields[key] = err.Error()
			if code := apperror.GetCode(err); code != apperror.CodeUnknownError {
				fields[key+"_code"] = string(code)
			}
			continue
		}
		fields[key] = args[i+1]
	}
	return fields
}

func trimPath(file string) string {
	idx := strings.LastIndexByte(file, '/')
	if idx == -1 {
		return file
	}
	idx = strings.LastIndexByte(file[:idx], '/')
	if idx == -1 {
		return file
	}
	return file[idx+1:]
}

// Package logger provides structured, leveled logging with trace correlation.
package logger

import (
	"context"
	"io"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level controls the minimum severity that gets logged.
type Level int8

const (
	LevelDebug Level = iota - 1
	LevelInfo
	LevelWarn
	LevelError
)

// LoggerInterface is the logging surface the rest of the application depends
// on. The context carries the active trace span, if any.
type LoggerInterface interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)
	With(args ...any) LoggerInterface
}

// Logger implements LoggerInterface on top of zap.
type Logger struct {
	z *zap.SugaredLogger
}

func zapLevel(l Level) zapcore.Level {
	switch l {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// New creates a JSON logger writing to w at the given level. The service name
// becomes the logger name; fields, if any, are attached to every entry.
func New(w io.Writer, level Level, service string, fields map[string]any) *Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encCfg),
		zapcore.AddSync(w),
		zapLevel(level),
	)

	z := zap.New(core).Named(service).Sugar()
	for k, v := range fields {
		z = z.With(k, v)
	}
	return &Logger{z: z}
}

// withTrace appends the trace and span IDs from ctx, when a recording span is
// present, so log lines can be joined with traces.
func withTrace(ctx context.Context, args []any) []any {
	if ctx == nil {
		return args
	}
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return args
	}
	return append(args, "trace_id", sc.TraceID().String(), "span_id", sc.SpanID().String())
}

func (l *Logger) Debug(ctx context.Context, msg string, args ...any) {
	l.z.Debugw(msg, withTrace(ctx, args)...)
}

func (l *Logger) Info(ctx context.Context, msg string, args ...any) {
	l.z.Infow(msg, withTrace(ctx, args)...)
}

func (l *Logger) Warn(ctx context.Context, msg string, args ...any) {
	l.z.Warnw(msg, withTrace(ctx, args)...)
}

func (l *Logger) Error(ctx context.Context, msg string, args ...any) {
	l.z.Errorw(msg, withTrace(ctx, args)...)
}

// With returns a logger that attaches args to every entry.
func (l *Logger) With(args ...any) LoggerInterface {
	return &Logger{z: l.z.With(args...)}
}

// Sync flushes buffered entries; call on shutdown.
func (l *Logger) Sync() error {
	return l.z.Sync()
}

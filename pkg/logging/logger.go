package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Fields is a map of structured logging fields
type Fields map[string]any

// Logger is the structured logging interface used throughout the engine
type Logger interface {
	Debug(msg string, fields ...Fields)
	Info(msg string, fields ...Fields)
	Warn(msg string, fields ...Fields)
	Error(msg string, fields ...Fields)
	WithFields(fields Fields) Logger
}

type zapLogger struct {
	base *zap.Logger
}

// NewDefaultLogger creates a logger writing JSON to stderr at info level
func NewDefaultLogger() Logger {
	return NewLogger("info")
}

// NewLogger creates a logger at the given level (debug, info, warn, error)
func NewLogger(level string) Logger {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))
	cfg.OutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true

	base, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		base = zap.NewNop()
	}

	return &zapLogger{base: base}
}

// WithFields returns a default logger pre-scoped with the given fields
func WithFields(fields Fields) Logger {
	return NewDefaultLogger().WithFields(fields)
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func (l *zapLogger) WithFields(fields Fields) Logger {
	return &zapLogger{base: l.base.With(zapFields(fields)...)}
}

func (l *zapLogger) Debug(msg string, fields ...Fields) {
	l.base.Debug(msg, mergeFields(fields)...)
}

func (l *zapLogger) Info(msg string, fields ...Fields) {
	l.base.Info(msg, mergeFields(fields)...)
}

func (l *zapLogger) Warn(msg string, fields ...Fields) {
	l.base.Warn(msg, mergeFields(fields)...)
}

func (l *zapLogger) Error(msg string, fields ...Fields) {
	l.base.Error(msg, mergeFields(fields)...)
}

func zapFields(fields Fields) []zap.Field {
	zf := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		zf = append(zf, zap.Any(k, v))
	}
	return zf
}

func mergeFields(fields []Fields) []zap.Field {
	if len(fields) == 0 {
		return nil
	}

	merged := Fields{}
	for _, f := range fields {
		for k, v := range f {
			merged[k] = v
		}
	}
	return zapFields(merged)
}

package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("info"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("garbage"))
}

func TestLoggerDoesNotPanic(t *testing.T) {
	logger := NewLogger("debug")

	assert.NotPanics(t, func() {
		logger.Debug("debug message", Fields{"k": 1})
		logger.Info("info message")
		logger.Warn("warn message", Fields{"a": 1}, Fields{"b": "two"})
		logger.Error("error message", nil)
	})

	scoped := logger.WithFields(Fields{"component": "test"})
	assert.NotNil(t, scoped)
	assert.NotPanics(t, func() { scoped.Info("scoped message") })
}

func TestMergeFields(t *testing.T) {
	merged := mergeFields([]Fields{{"a": 1, "b": 2}, {"b": 3}})
	assert.Len(t, merged, 2)

	assert.Nil(t, mergeFields(nil))
}

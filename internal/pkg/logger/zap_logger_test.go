package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLoggerAttachesModuleAndDetails(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewFromZap(zap.New(core))

	l.Warn("ChatService", "web search failed", map[string]interface{}{"error": errors.New("timeout")})
	l.Info("ChatService", "turn completed", nil)

	entries := logs.All()
	assert.Len(t, entries, 2)

	warn := entries[0]
	assert.Equal(t, zapcore.WarnLevel, warn.Level)
	assert.Equal(t, "web search failed", warn.Message)
	assert.Equal(t, "ChatService", warn.ContextMap()["module"])

	info := entries[1]
	assert.NotNil(t, info.ContextMap()["details"])
}

func TestErrorRecordsErrorRef(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewFromZap(zap.New(core))

	l.Error("Consumer", "analysis failed", map[string]interface{}{"error": "boom"})

	entry := logs.All()[0]
	assert.Equal(t, "boom", entry.ContextMap()["error_ref"])
}

func TestNopLoggerIsSafe(t *testing.T) {
	l := NewNopLogger()
	assert.NotPanics(t, func() {
		l.Debug("x", "y", nil)
		_ = l.Sync()
	})
}

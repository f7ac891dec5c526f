package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapAdapter_Fields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapAdapter(zap.New(core)).WithFields(map[string]interface{}{"component": "web"})

	log.Info("student enrolled", map[string]interface{}{
		"studentId": "1001",
		"cause":     errors.New("boom"),
	})

	entries := logs.All()
	require.Len(t, entries, 1)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "student enrolled", entries[0].Message)
	assert.Equal(t, "web", ctx["component"])
	assert.Equal(t, "1001", ctx["studentId"])
	assert.Equal(t, "boom", ctx["cause"])
}

func TestZapAdapter_WithError(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	NewZapAdapter(zap.New(core)).WithError(errors.New("store down")).Error("lookup failed", nil)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zapcore.ErrorLevel, logs.All()[0].Level)
	assert.Equal(t, "store down", logs.All()[0].ContextMap()["error"])
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"warn":    zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"info":    zapcore.InfoLevel,
		"verbose": zapcore.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), in)
	}
}

func TestNew_LevelApplied(t *testing.T) {
	l := New("warn", "json", "stderr")
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))
}

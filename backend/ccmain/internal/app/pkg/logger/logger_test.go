package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestContextLoggingAddsTraceID(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewFromZap(zap.New(core))

	ctx := WithTraceID(context.Background(), "trace-123")
	l.WarnContext(ctx, "alert publish failed", "shipment_id", "SHP1")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	assert.Equal(t, "SHP1", fields["shipment_id"])
	assert.Equal(t, "trace-123", fields["trace_id"])
}

func TestContextLoggingWithoutTraceID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := NewFromZap(zap.New(core))

	l.InfoContext(context.Background(), "shipment created")
	l.Debug("dropped below level")

	require.Equal(t, 1, logs.Len())
	_, ok := logs.All()[0].ContextMap()["trace_id"]
	assert.False(t, ok)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("verbose"))
}

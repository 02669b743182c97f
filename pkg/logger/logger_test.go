package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger_ExtractsContextFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewWithCore(core)

	ctx := WithTraceID(context.Background(), "req-1")
	ctx = WithWorkerID(ctx, 3)
	ctx = WithActionType(ctx, "spc_analyze")

	log.Infof(ctx, "processed %d jobs", 2)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "processed 2 jobs", entries[0].Message)

	fields := entries[0].ContextMap()
	assert.Equal(t, "req-1", fields["trace_id"])
	assert.Equal(t, int64(3), fields["worker_id"])
	assert.Equal(t, "spc_analyze", fields["action_type"])
	assert.NotContains(t, fields, "message_id")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("info"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("verbose"))
}

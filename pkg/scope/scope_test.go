package scope

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger(t *testing.T) {
	assert := assert.New(t)

	ctx := context.Background()
	assert.Equal(zap.L(), Logger(ctx))

	core, logs := observer.New(zapcore.DebugLevel)
	ctx = WithLogger(ctx, zap.New(core))
	ctx = With(ctx, zap.String("path", "/api/v1/write"))

	Logger(ctx).Info("hello")
	entries := logs.All()
	assert.Len(entries, 1)
	assert.Equal("/api/v1/write", entries[0].ContextMap()["path"])
}

func TestRequestLogger(t *testing.T) {
	assert := assert.New(t)

	core, logs := observer.New(zapcore.DebugLevel)
	ctx := WithLogger(context.Background(), zap.New(core))

	// no collector in context
	RequestWith(ctx, zap.Int("series", 1))
	RequestFinish(ctx, nil)
	assert.Equal(0, logs.Len())

	ctx = RequestBegin(ctx)
	RequestWith(ctx, zap.Int("series", 2))
	RequestWith(ctx, zap.Int("samples", 3))
	RequestFinish(ctx, nil)
	RequestFinish(ctx, nil)

	entries := logs.TakeAll()
	assert.Len(entries, 1)
	assert.Equal(zapcore.InfoLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	assert.Equal(int64(2), fields["series"])
	assert.Equal(int64(3), fields["samples"])
	assert.Contains(fields, "elapsed_ms")

	ctx = RequestBegin(ctx)
	RequestFinish(ctx, errors.New("boom"))
	entries = logs.TakeAll()
	assert.Len(entries, 1)
	assert.Equal(zapcore.ErrorLevel, entries[0].Level)
	assert.Equal("boom", entries[0].ContextMap()["error"])
}

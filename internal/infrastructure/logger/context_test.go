package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestContextLogger(t *testing.T) {
	t.Run("round-trips the logger through context", func(t *testing.T) {
		log := zap.NewNop()
		ctx := WithContext(context.Background(), log)
		assert.Same(t, log, FromContext(ctx))
	})

	t.Run("missing logger falls back to nop", func(t *testing.T) {
		assert.NotNil(t, FromContext(context.Background()))
	})

	t.Run("WithOrderCode enriches logger and context", func(t *testing.T) {
		core, logs := observer.New(zap.InfoLevel)
		base := zap.New(core)

		ctx, enriched := WithOrderCode(context.Background(), base, "SO1")
		enriched.Info("processing")

		assert.Equal(t, "SO1", GetOrderCode(ctx))
		require.Equal(t, 1, logs.Len())
		assert.Equal(t, "SO1", logs.All()[0].ContextMap()["order_code"])
	})

	t.Run("WithBatchID enriches logger and context", func(t *testing.T) {
		core, logs := observer.New(zap.InfoLevel)
		base := zap.New(core)

		ctx, enriched := WithBatchID(context.Background(), base, "batch-42")
		enriched.Info("batch started")

		assert.Equal(t, "batch-42", GetBatchID(ctx))
		require.Equal(t, 1, logs.Len())
		assert.Equal(t, "batch-42", logs.All()[0].ContextMap()["batch_id"])
	})

	t.Run("empty context has no codes", func(t *testing.T) {
		assert.Empty(t, GetOrderCode(context.Background()))
		assert.Empty(t, GetBatchID(context.Background()))
	})
}

func TestWithTraceContext(t *testing.T) {
	t.Run("no active span leaves the logger unchanged", func(t *testing.T) {
		log := zap.NewNop()
		assert.Same(t, log, WithTraceContext(context.Background(), log))
	})

	t.Run("trace helpers return empty without a span", func(t *testing.T) {
		assert.Empty(t, GetTraceID(context.Background()))
		assert.Empty(t, GetSpanID(context.Background()))
	})
}

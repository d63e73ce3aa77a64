package cache

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erp/invoicing/internal/domain/invoicing"
)

func TestInMemoryProductCache(t *testing.T) {
	ctx := context.Background()

	t.Run("set then get", func(t *testing.T) {
		c := NewInMemoryProductCache()
		info := invoicing.ProductInfo{MaterialCode: "MAT-A", TracksLot: true, Unit: "PCS"}

		c.Set(ctx, "A", info)
		got, ok := c.Get(ctx, "A")
		require.True(t, ok)
		assert.Equal(t, info, got)
	})

	t.Run("miss on unknown item", func(t *testing.T) {
		c := NewInMemoryProductCache()
		_, ok := c.Get(ctx, "NOPE")
		assert.False(t, ok)
	})

	t.Run("stats count hits and misses", func(t *testing.T) {
		c := NewInMemoryProductCache()
		c.Set(ctx, "A", invoicing.ProductInfo{MaterialCode: "MAT-A"})

		c.Get(ctx, "A")
		c.Get(ctx, "A")
		c.Get(ctx, "B")

		stats := c.Stats()
		assert.Equal(t, int64(2), stats.Hits)
		assert.Equal(t, int64(1), stats.Misses)
	})

	t.Run("concurrent access", func(t *testing.T) {
		c := NewInMemoryProductCache()
		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				c.Set(ctx, "A", invoicing.ProductInfo{MaterialCode: "MAT-A"})
				c.Get(ctx, "A")
			}()
		}
		wg.Wait()

		got, ok := c.Get(ctx, "A")
		require.True(t, ok)
		assert.Equal(t, "MAT-A", got.MaterialCode)
	})
}

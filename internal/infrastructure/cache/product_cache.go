package cache

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/erp/invoicing/internal/domain/invoicing"
)

// ProductCache is the shared read-only cache of product-lookup results. The
// value for a given item code is invariant, so writes are idempotent and
// last-writer-wins is acceptable. Implementations must be safe for
// concurrent reads.
type ProductCache interface {
	Get(ctx context.Context, itemCode string) (invoicing.ProductInfo, bool)
	Set(ctx context.Context, itemCode string, info invoicing.ProductInfo)
	Stats() Stats
}

// Stats reports cache effectiveness for monitoring.
type Stats struct {
	Hits   int64
	Misses int64
}

// InMemoryProductCache implements ProductCache with a sync.Map. It is an
// explicit construct, unbounded for process lifetime, which is acceptable
// for a batch job.
type InMemoryProductCache struct {
	entries sync.Map // map[string]invoicing.ProductInfo
	logger  *zap.Logger

	hits   int64
	misses int64
}

// InMemoryProductCacheOption is a functional option for configuring the cache
type InMemoryProductCacheOption func(*InMemoryProductCache)

// WithInMemoryLogger sets the logger for the cache
func WithInMemoryLogger(logger *zap.Logger) InMemoryProductCacheOption {
	return func(c *InMemoryProductCache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewInMemoryProductCache creates a new in-memory product cache
func NewInMemoryProductCache(opts ...InMemoryProductCacheOption) *InMemoryProductCache {
	c := &InMemoryProductCache{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get retrieves a product from cache
func (c *InMemoryProductCache) Get(_ context.Context, itemCode string) (invoicing.ProductInfo, bool) {
	if v, ok := c.entries.Load(itemCode); ok {
		atomic.AddInt64(&c.hits, 1)
		return v.(invoicing.ProductInfo), true
	}
	atomic.AddInt64(&c.misses, 1)
	return invoicing.ProductInfo{}, false
}

// Set stores a product in cache
func (c *InMemoryProductCache) Set(_ context.Context, itemCode string, info invoicing.ProductInfo) {
	c.entries.Store(itemCode, info)
}

// Stats returns hit/miss counters
func (c *InMemoryProductCache) Stats() Stats {
	return Stats{
		Hits:   atomic.LoadInt64(&c.hits),
		Misses: atomic.LoadInt64(&c.misses),
	}
}

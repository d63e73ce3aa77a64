package cache

import (
	"context"

	"github.com/erp/invoicing/internal/domain/invoicing"
)

// productDirectory matches the application-layer ProductDirectory port. It is
// redeclared here so the cache package does not depend on the application
// layer.
type productDirectory interface {
	Product(ctx context.Context, itemCode string) (invoicing.ProductInfo, bool, error)
}

// CachedProductDirectory is a read-through wrapper: lookups hit the cache
// first and fall back to the underlying directory, populating the cache on
// success. Negative results are not cached; an unknown item may simply not
// be synchronized yet.
type CachedProductDirectory struct {
	inner productDirectory
	cache ProductCache
}

// NewCachedProductDirectory wraps a directory with a cache.
func NewCachedProductDirectory(inner productDirectory, cache ProductCache) *CachedProductDirectory {
	return &CachedProductDirectory{inner: inner, cache: cache}
}

// Product implements the ProductDirectory port.
func (d *CachedProductDirectory) Product(ctx context.Context, itemCode string) (invoicing.ProductInfo, bool, error) {
	if info, ok := d.cache.Get(ctx, itemCode); ok {
		return info, true, nil
	}
	info, ok, err := d.inner.Product(ctx, itemCode)
	if err != nil || !ok {
		return invoicing.ProductInfo{}, ok, err
	}
	d.cache.Set(ctx, itemCode, info)
	return info, true, nil
}

package cache

import (
	"go.uber.org/zap"

	"github.com/erp/invoicing/internal/infrastructure/config"
)

// NewProductCache creates the product cache selected by configuration:
// Redis when enabled and reachable, the in-memory cache otherwise. Falling
// back keeps batch runs alive when Redis is down; the cache is an
// optimization, never a source of truth.
func NewProductCache(cfg config.RedisConfig, logger *zap.Logger) ProductCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Enabled {
		redisCache, err := NewRedisProductCache(cfg, logger)
		if err == nil {
			logger.Info("using redis product cache", zap.String("addr", cfg.Addr()))
			return redisCache
		}
		logger.Warn("redis unavailable, falling back to in-memory product cache", zap.Error(err))
	}
	return NewInMemoryProductCache(WithInMemoryLogger(logger))
}

package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/erp/invoicing/internal/domain/invoicing"
	"github.com/erp/invoicing/internal/infrastructure/config"
)

const (
	productKeyPrefix  = "invoicing:product:"
	defaultProductTTL = 12 * time.Hour
)

// RedisProductCache implements ProductCache on Redis. Suitable for
// distributed deployments where multiple batch workers share lookup results.
type RedisProductCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger

	hits   int64
	misses int64
}

// NewRedisProductCache connects to Redis and returns a cache backed by it.
func NewRedisProductCache(cfg config.RedisConfig, logger *zap.Logger) (*RedisProductCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisProductCacheWithClient(client, logger), nil
}

// NewRedisProductCacheWithClient creates a cache over an existing client.
// Useful for testing or sharing a client across components.
func NewRedisProductCacheWithClient(client *redis.Client, logger *zap.Logger) *RedisProductCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisProductCache{
		client: client,
		ttl:    defaultProductTTL,
		logger: logger,
	}
}

// Get retrieves a product from Redis. Transport errors degrade to a miss.
func (c *RedisProductCache) Get(ctx context.Context, itemCode string) (invoicing.ProductInfo, bool) {
	raw, err := c.client.Get(ctx, productKeyPrefix+itemCode).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("redis product cache get failed",
				zap.String("item_code", itemCode), zap.Error(err))
		}
		atomic.AddInt64(&c.misses, 1)
		return invoicing.ProductInfo{}, false
	}

	var info invoicing.ProductInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		c.logger.Warn("redis product cache entry corrupt",
			zap.String("item_code", itemCode), zap.Error(err))
		atomic.AddInt64(&c.misses, 1)
		return invoicing.ProductInfo{}, false
	}

	atomic.AddInt64(&c.hits, 1)
	return info, true
}

// Set stores a product in Redis with TTL. Write failures are logged, not
// surfaced; the value is invariant per key so a lost write only costs a
// future miss.
func (c *RedisProductCache) Set(ctx context.Context, itemCode string, info invoicing.ProductInfo) {
	raw, err := json.Marshal(info)
	if err != nil {
		c.logger.Warn("redis product cache marshal failed",
			zap.String("item_code", itemCode), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, productKeyPrefix+itemCode, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("redis product cache set failed",
			zap.String("item_code", itemCode), zap.Error(err))
	}
}

// Stats returns hit/miss counters
func (c *RedisProductCache) Stats() Stats {
	return Stats{
		Hits:   atomic.LoadInt64(&c.hits),
		Misses: atomic.LoadInt64(&c.misses),
	}
}

// Close closes the Redis client
func (c *RedisProductCache) Close() error {
	return c.client.Close()
}

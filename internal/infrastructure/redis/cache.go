package redis

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/shamcart/storefront/internal/core/ports"
	"github.com/sirupsen/logrus"
)

// Cache implements ports.CacheStore on Redis, for deployments that want the
// product cache shared across processes. Redis failures are swallowed and
// logged so callers see only misses, matching the in-memory store's contract.
type Cache struct {
	r          redis.Cmdable
	prefix     string
	defaultTTL time.Duration
	logger     *logrus.Logger

	hitCount  int64
	missCount int64
}

// NewCache creates a Redis-backed cache store with an optional key prefix.
func NewCache(r redis.Cmdable, prefix string, defaultTTL time.Duration, logger *logrus.Logger) *Cache {
	if defaultTTL <= 0 {
		defaultTTL = time.Hour
	}
	return &Cache{r: r, prefix: prefix, defaultTTL: defaultTTL, logger: logger}
}

func (c *Cache) namespaced(key string) string {
	if c.prefix == "" {
		return key
	}
	return c.prefix + ":" + key
}

// Get implements ports.CacheStore.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := c.r.Get(ctx, c.namespaced(key)).Bytes()
	if err == redis.Nil {
		atomic.AddInt64(&c.missCount, 1)
		return nil, false
	}
	if err != nil {
		if c.logger != nil {
			c.logger.WithError(err).WithField("key", key).Warn("cache: redis get failed, treating as miss")
		}
		atomic.AddInt64(&c.missCount, 1)
		return nil, false
	}
	atomic.AddInt64(&c.hitCount, 1)
	return val, true
}

// Set implements ports.CacheStore.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	if err := c.r.Set(ctx, c.namespaced(key), value, ttl).Err(); err != nil && c.logger != nil {
		c.logger.WithError(err).WithField("key", key).Warn("cache: redis set dropped")
	}
}

// Delete implements ports.CacheStore.
func (c *Cache) Delete(ctx context.Context, key string) {
	if err := c.r.Del(ctx, c.namespaced(key)).Err(); err != nil && c.logger != nil {
		c.logger.WithError(err).WithField("key", key).Warn("cache: redis delete failed")
	}
}

// DeletePattern implements ports.CacheStore. Redis MATCH globs already treat
// '*' as any-substring, so the pattern passes through under the prefix.
func (c *Cache) DeletePattern(ctx context.Context, pattern string) int {
	var cursor uint64
	removed := 0
	for {
		keys, next, err := c.r.Scan(ctx, cursor, c.namespaced(pattern), 200).Result()
		if err != nil {
			if c.logger != nil {
				c.logger.WithError(err).WithField("pattern", pattern).Warn("cache: redis scan failed")
			}
			return removed
		}
		if len(keys) > 0 {
			if err := c.r.Del(ctx, keys...).Err(); err == nil {
				removed += len(keys)
			}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return removed
}

// Exists implements ports.CacheStore.
func (c *Cache) Exists(ctx context.Context, key string) bool {
	n, err := c.r.Exists(ctx, c.namespaced(key)).Result()
	return err == nil && n > 0
}

// Increment implements ports.CacheStore. The default TTL is re-applied on
// every increment, same sliding-counter behavior as the memory store.
func (c *Cache) Increment(ctx context.Context, key string, delta int64) int64 {
	ns := c.namespaced(key)
	pipe := c.r.TxPipeline()
	incr := pipe.IncrBy(ctx, ns, delta)
	pipe.Expire(ctx, ns, c.defaultTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		if c.logger != nil {
			c.logger.WithError(err).WithField("key", key).Warn("cache: redis increment failed")
		}
		return 0
	}
	return incr.Val()
}

// Expire implements ports.CacheStore.
func (c *Cache) Expire(ctx context.Context, key string, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	_ = c.r.Expire(ctx, c.namespaced(key), ttl).Err()
}

// GetOrSet implements ports.CacheStore.
func (c *Cache) GetOrSet(ctx context.Context, key string, ttl time.Duration, fetch func(ctx context.Context) ([]byte, error)) ([]byte, error) {
	if value, ok := c.Get(ctx, key); ok {
		return value, nil
	}
	value, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	c.Set(ctx, key, value, ttl)
	return value, nil
}

// Stats implements ports.CacheStore. Size counts keys under the prefix;
// MaxSize is zero because capacity is Redis' concern, not the adapter's.
func (c *Cache) Stats() ports.CacheStats {
	hits := atomic.LoadInt64(&c.hitCount)
	misses := atomic.LoadInt64(&c.missCount)
	total := hits + misses
	rate := 0.0
	if total > 0 {
		rate = float64(hits) / float64(total) * 100
	}

	size := 0
	var cursor uint64
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	for {
		keys, next, err := c.r.Scan(ctx, cursor, c.namespaced("*"), 500).Result()
		if err != nil {
			break
		}
		size += len(keys)
		cursor = next
		if cursor == 0 {
			break
		}
	}

	return ports.CacheStats{Size: size, HitCount: hits, MissCount: misses, HitRate: rate}
}

// Clear implements ports.CacheStore.
func (c *Cache) Clear() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c.DeletePattern(ctx, "*")
	atomic.StoreInt64(&c.hitCount, 0)
	atomic.StoreInt64(&c.missCount, 0)
}

var _ ports.CacheStore = (*Cache)(nil)

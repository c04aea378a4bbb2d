package ports

import (
	"context"
	"time"
)

// CacheStore defines the key-value cache contract used by the caching
// repositories, the search service and operational tooling. Implementations
// must never surface internal failures to callers: a failed read degrades to
// a miss, a failed write is dropped. Only GetOrSet can return an error, and
// only the one produced by the fetch function itself.
type CacheStore interface {
	// Get returns the raw bytes for key. ok=false if absent or expired;
	// an expired entry is removed as a side effect and counted as a miss.
	Get(ctx context.Context, key string) ([]byte, bool)
	// Set stores value for key. ttl <= 0 applies the store's default TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	// Delete removes one key; absence is not an error.
	Delete(ctx context.Context, key string)
	// DeletePattern removes every key matching a glob where '*' matches any
	// substring (mid-string wildcards included). Returns the number removed.
	DeletePattern(ctx context.Context, pattern string) int
	// Exists reports whether key is present and unexpired without touching
	// the hit/miss counters.
	Exists(ctx context.Context, key string) bool
	// Increment adds delta to the integer stored at key (absent treated as 0)
	// and rewrites the entry with the default TTL, returning the new value.
	Increment(ctx context.Context, key string, delta int64) int64
	// Expire updates only the expiry of an existing entry; no-op if absent.
	Expire(ctx context.Context, key string, ttl time.Duration)
	// GetOrSet returns the cached value on hit. On miss it invokes fetch,
	// stores the result (empty results included) and returns it. A fetch
	// error propagates unchanged and nothing is cached.
	GetOrSet(ctx context.Context, key string, ttl time.Duration, fetch func(ctx context.Context) ([]byte, error)) ([]byte, error)
	// Stats returns a point-in-time snapshot of the store.
	Stats() CacheStats
	// Clear removes every entry and resets the counters.
	Clear()
}

// CacheStats is the operational snapshot exposed by the cache-admin endpoints.
type CacheStats struct {
	Size      int     `json:"size"`
	MaxSize   int     `json:"max_size"`
	HitCount  int64   `json:"hit_count"`
	MissCount int64   `json:"miss_count"`
	HitRate   float64 `json:"hit_rate"`
}

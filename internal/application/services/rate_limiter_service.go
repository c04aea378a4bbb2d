package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/shamcart/storefront/internal/core/ports"
)

// RateLimiterService implements a fixed-window limiter on top of the cache
// store, so it works unchanged against the in-memory and Redis backends.
type RateLimiterService struct {
	cache     ports.CacheStore
	limit     int
	window    time.Duration
	keyPrefix string
	logger    *logrus.Logger
}

// RateLimiterConfig groups configuration parameters for the rate limiter.
type RateLimiterConfig struct {
	RequestsPerWindow int
	Window            time.Duration
	KeyPrefix         string
}

func NewRateLimiterService(cache ports.CacheStore, cfg *RateLimiterConfig, logger *logrus.Logger) *RateLimiterService {
	limit := 120
	window := time.Minute
	prefix := "ratelimit"
	if cfg != nil {
		if cfg.RequestsPerWindow > 0 {
			limit = cfg.RequestsPerWindow
		}
		if cfg.Window > 0 {
			window = cfg.Window
		}
		if cfg.KeyPrefix != "" {
			prefix = cfg.KeyPrefix
		}
	}
	return &RateLimiterService{cache: cache, limit: limit, window: window, keyPrefix: prefix, logger: logger}
}

// Allow counts the request against the current window. The counter key is
// stamped with the window start, so each window begins at zero and stale
// counters age out on their own.
func (s *RateLimiterService) Allow(ctx context.Context, key string) (bool, int, int, time.Time, error) {
	windowStart := time.Now().Truncate(s.window)
	reset := windowStart.Add(s.window)

	counterKey := fmt.Sprintf("%s:%s:%d", s.keyPrefix, key, windowStart.Unix())
	count := s.cache.Increment(ctx, counterKey, 1)
	if count == 1 {
		// First hit in the window owns the expiry.
		s.cache.Expire(ctx, counterKey, s.window*2)
	}

	if count <= 0 {
		// Backend failure surfaces as a zero count; fail open.
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"key": key}).Warn("rate limiter: counter unavailable, allowing request")
		}
		return true, s.limit, s.limit, reset, nil
	}

	if count > int64(s.limit) {
		return false, 0, s.limit, reset, nil
	}
	return true, s.limit - int(count), s.limit, reset, nil
}

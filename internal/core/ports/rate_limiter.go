package ports

import (
	"context"
	"time"
)

// RateLimiterService limits requests per client key over a fixed window.
type RateLimiterService interface {
	// Allow reports whether the request identified by key may proceed, plus
	// the remaining budget, the window limit and when the window resets.
	Allow(ctx context.Context, key string) (allowed bool, remaining int, limit int, reset time.Time, err error)
}

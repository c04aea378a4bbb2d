package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	impl "github.com/shamcart/storefront/internal/application/services"
	"github.com/shamcart/storefront/internal/infrastructure/cache"
)

func TestRateLimiter_AllowsUpToLimit(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryStore(1000, time.Hour, nil)
	svc := impl.NewRateLimiterService(store, &impl.RateLimiterConfig{RequestsPerWindow: 3, Window: time.Minute}, nil)

	for i := 0; i < 3; i++ {
		allowed, remaining, limit, _, err := svc.Allow(ctx, "ip:1.2.3.4")
		require.NoError(t, err)
		require.True(t, allowed, "request %d within the limit", i+1)
		require.Equal(t, 3, limit)
		require.Equal(t, 2-i, remaining)
	}

	allowed, remaining, _, reset, err := svc.Allow(ctx, "ip:1.2.3.4")
	require.NoError(t, err)
	require.False(t, allowed)
	require.Equal(t, 0, remaining)
	require.False(t, reset.IsZero())
}

func TestRateLimiter_KeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryStore(1000, time.Hour, nil)
	svc := impl.NewRateLimiterService(store, &impl.RateLimiterConfig{RequestsPerWindow: 1, Window: time.Minute}, nil)

	allowed, _, _, _, err := svc.Allow(ctx, "ip:1.2.3.4")
	require.NoError(t, err)
	require.True(t, allowed)

	allowed, _, _, _, err = svc.Allow(ctx, "ip:1.2.3.4")
	require.NoError(t, err)
	require.False(t, allowed)

	allowed, _, _, _, err = svc.Allow(ctx, "ip:5.6.7.8")
	require.NoError(t, err)
	require.True(t, allowed, "a different client gets its own counter")
}

func TestRateLimiter_WindowResets(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryStore(1000, time.Hour, nil)
	// A tiny window so the test can cross a window boundary quickly.
	svc := impl.NewRateLimiterService(store, &impl.RateLimiterConfig{RequestsPerWindow: 1, Window: 50 * time.Millisecond}, nil)

	allowed, _, _, _, err := svc.Allow(ctx, "ip:1.2.3.4")
	require.NoError(t, err)
	require.True(t, allowed)

	time.Sleep(60 * time.Millisecond)

	allowed, _, _, _, err = svc.Allow(ctx, "ip:1.2.3.4")
	require.NoError(t, err)
	require.True(t, allowed, "a new window starts at zero")
}

func TestRateLimiter_Defaults(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryStore(1000, time.Hour, nil)
	svc := impl.NewRateLimiterService(store, nil, nil)

	allowed, remaining, limit, _, err := svc.Allow(ctx, "ip:1.2.3.4")
	require.NoError(t, err)
	require.True(t, allowed)
	require.Equal(t, 120, limit)
	require.Equal(t, 119, remaining)
}

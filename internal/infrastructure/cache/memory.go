package cache

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/shamcart/storefront/internal/core/ports"
	"github.com/sirupsen/logrus"
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return now.After(e.expiresAt)
}

// MemoryStore is an in-process TTL cache. Entries expire lazily on access and
// eagerly via the background sweeper; when the store grows past maxSize the
// entries closest to expiry are evicted first. All operations are safe for
// concurrent use. Internal problems never reach callers: reads degrade to
// misses, writes are dropped.
type MemoryStore struct {
	mu         sync.RWMutex
	entries    map[string]entry
	maxSize    int
	defaultTTL time.Duration

	hitCount  int64
	missCount int64

	logger *logrus.Logger

	sweepOnce sync.Once
	stopSweep chan struct{}
}

// NewMemoryStore creates a store without starting the background sweeper;
// the process bootstrap owns the sweeper lifecycle so tests can construct
// isolated instances.
func NewMemoryStore(maxSize int, defaultTTL time.Duration, logger *logrus.Logger) *MemoryStore {
	if maxSize <= 0 {
		maxSize = 10000
	}
	if defaultTTL <= 0 {
		defaultTTL = time.Hour
	}
	return &MemoryStore{
		entries:    make(map[string]entry),
		maxSize:    maxSize,
		defaultTTL: defaultTTL,
		logger:     logger,
		stopSweep:  make(chan struct{}),
	}
}

// StartSweeper launches the periodic cleanup goroutine. Safe to call once;
// stop it with Stop during shutdown.
func (s *MemoryStore) StartSweeper(interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	s.sweepOnce.Do(func() {
		go func() {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					s.Sweep()
				case <-s.stopSweep:
					return
				}
			}
		}()
	})
}

// Stop terminates the sweeper and clears the store.
func (s *MemoryStore) Stop() {
	select {
	case <-s.stopSweep:
	default:
		close(s.stopSweep)
	}
	s.Clear()
}

// Get implements ports.CacheStore.
func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool) {
	now := time.Now()

	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		s.countMiss()
		return nil, false
	}
	if e.expired(now) {
		s.mu.Lock()
		// Re-check under the write lock; a concurrent Set may have refreshed it.
		if cur, still := s.entries[key]; still && cur.expired(now) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		s.countMiss()
		return nil, false
	}

	s.countHit()
	return e.value, true
}

// Set implements ports.CacheStore. Inserting a new key into a full store
// triggers an eviction pass first.
func (s *MemoryStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[key]; !exists && len(s.entries) >= s.maxSize {
		s.evictSoonestLocked()
	}
	s.entries[key] = entry{value: value, expiresAt: time.Now().Add(ttl)}
}

// Delete implements ports.CacheStore.
func (s *MemoryStore) Delete(ctx context.Context, key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// DeletePattern implements ports.CacheStore. The pattern is a glob where '*'
// matches any substring, so key families like "product:category:<id>:*" work.
func (s *MemoryStore) DeletePattern(ctx context.Context, pattern string) int {
	matcher := compileGlob(pattern)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key := range s.entries {
		if matcher.Match(key) {
			delete(s.entries, key)
			removed++
		}
	}
	if removed > 0 && s.logger != nil {
		s.logger.WithFields(logrus.Fields{"pattern": pattern, "removed": removed}).Debug("cache: pattern delete")
	}
	return removed
}

// Exists implements ports.CacheStore; same expiry semantics as Get but does
// not affect the hit/miss counters.
func (s *MemoryStore) Exists(ctx context.Context, key string) bool {
	now := time.Now()

	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return false
	}
	if e.expired(now) {
		s.mu.Lock()
		if cur, still := s.entries[key]; still && cur.expired(now) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return false
	}
	return true
}

// Increment implements ports.CacheStore. The counter is rewritten with the
// default TTL on every call, so active counters slide rather than expire on
// their original schedule.
func (s *MemoryStore) Increment(ctx context.Context, key string, delta int64) int64 {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	var current int64
	e, exists := s.entries[key]
	if exists && !e.expired(now) {
		current, _ = strconv.ParseInt(string(e.value), 10, 64)
	}
	// New counter keys respect capacity the same way Set does;
	// bursts of window or frequency keys must not grow the store unbounded.
	if !exists && len(s.entries) >= s.maxSize {
		s.evictSoonestLocked()
	}
	next := current + delta
	s.entries[key] = entry{
		value:     []byte(strconv.FormatInt(next, 10)),
		expiresAt: now.Add(s.defaultTTL),
	}
	return next
}

// Expire implements ports.CacheStore.
func (s *MemoryStore) Expire(ctx context.Context, key string, ttl time.Duration) {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[key]; ok {
		e.expiresAt = time.Now().Add(ttl)
		s.entries[key] = e
	}
}

// GetOrSet implements ports.CacheStore. The fetch runs outside the store
// lock, so two concurrent misses for the same key may both fetch and the
// last Set wins.
func (s *MemoryStore) GetOrSet(ctx context.Context, key string, ttl time.Duration, fetch func(ctx context.Context) ([]byte, error)) ([]byte, error) {
	if value, ok := s.Get(ctx, key); ok {
		return value, nil
	}
	value, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	s.Set(ctx, key, value, ttl)
	return value, nil
}

// Sweep removes all expired entries and, if the store is still over capacity,
// evicts the entries with the nearest expiry.
func (s *MemoryStore) Sweep() {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	cleaned := 0
	for key, e := range s.entries {
		if e.expired(now) {
			delete(s.entries, key)
			cleaned++
		}
	}
	if cleaned > 0 && s.logger != nil {
		s.logger.WithField("removed", cleaned).Debug("cache: sweep removed expired entries")
	}
	if len(s.entries) > s.maxSize {
		s.evictSoonestLocked()
	}
}

// evictSoonestLocked removes the 10% of entries with the soonest expiry.
// Caller holds the write lock.
func (s *MemoryStore) evictSoonestLocked() {
	type keyed struct {
		key       string
		expiresAt time.Time
	}
	all := make([]keyed, 0, len(s.entries))
	for key, e := range s.entries {
		all = append(all, keyed{key: key, expiresAt: e.expiresAt})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].expiresAt.Before(all[j].expiresAt) })

	toRemove := s.maxSize / 10
	if toRemove < 1 {
		toRemove = 1
	}
	if toRemove > len(all) {
		toRemove = len(all)
	}
	for _, k := range all[:toRemove] {
		delete(s.entries, k.key)
	}
	if s.logger != nil {
		s.logger.WithField("removed", toRemove).Debug("cache: evicted soonest-to-expire entries")
	}
}

// Stats implements ports.CacheStore.
func (s *MemoryStore) Stats() ports.CacheStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := s.hitCount + s.missCount
	rate := 0.0
	if total > 0 {
		rate = float64(s.hitCount) / float64(total) * 100
	}
	return ports.CacheStats{
		Size:      len(s.entries),
		MaxSize:   s.maxSize,
		HitCount:  s.hitCount,
		MissCount: s.missCount,
		HitRate:   rate,
	}
}

// Clear implements ports.CacheStore.
func (s *MemoryStore) Clear() {
	s.mu.Lock()
	s.entries = make(map[string]entry)
	s.hitCount = 0
	s.missCount = 0
	s.mu.Unlock()
}

func (s *MemoryStore) countHit() {
	s.mu.Lock()
	s.hitCount++
	s.mu.Unlock()
}

func (s *MemoryStore) countMiss() {
	s.mu.Lock()
	s.missCount++
	s.mu.Unlock()
}

var _ ports.CacheStore = (*MemoryStore)(nil)

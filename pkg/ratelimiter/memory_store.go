package ratelimiter

import (
	"context"
	"sync"
	"time"
)

const (
	defaultPruneInterval = 5 * time.Minute
	defaultMaxIdle       = time.Hour
)

type bucket struct {
	tokens     int
	lastRefill time.Time
	lastAccess time.Time
}

// MemoryStore is an in-process Store. Idle buckets are pruned while serving
// requests, so it runs no background goroutine.
type MemoryStore struct {
	mu            sync.Mutex
	buckets       map[string]*bucket
	pruneInterval time.Duration
	maxIdle       time.Duration
	lastPrune     time.Time
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithPruning sets how often idle buckets are looked for and how long a
// bucket may go unused before it is dropped. A non-positive interval
// disables pruning.
func WithPruning(interval, maxIdle time.Duration) MemoryStoreOption {
	return func(ms *MemoryStore) {
		ms.pruneInterval = interval
		if maxIdle > 0 {
			ms.maxIdle = maxIdle
		}
	}
}

// NewMemoryStore creates an empty store.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	ms := &MemoryStore{
		buckets:       make(map[string]*bucket),
		pruneInterval: defaultPruneInterval,
		maxIdle:       defaultMaxIdle,
	}
	for _, opt := range opts {
		opt(ms)
	}
	return ms
}

func (ms *MemoryStore) ConsumeTokens(_ context.Context, key string, tokens int, cfg Config, now time.Time) (int, time.Time, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.prune(now)

	b, ok := ms.buckets[key]
	if !ok {
		b = &bucket{tokens: cfg.Capacity, lastRefill: now}
		ms.buckets[key] = b
	}

	// Cap the interval count so a long idle period cannot overflow.
	maxIntervals := int64(cfg.Capacity/cfg.RefillRate + 1)
	intervals := int(min(int64(now.Sub(b.lastRefill)/cfg.RefillInterval), maxIntervals))
	if intervals > 0 {
		b.tokens = min(b.tokens+intervals*cfg.RefillRate, cfg.Capacity)
		b.lastRefill = now
	}

	b.lastAccess = now
	resetAt := b.lastRefill.Add(cfg.RefillInterval)

	if b.tokens < tokens {
		return b.tokens - tokens, resetAt, nil
	}
	b.tokens -= tokens
	return b.tokens, resetAt, nil
}

func (ms *MemoryStore) Reset(_ context.Context, key string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	delete(ms.buckets, key)
	return nil
}

// Len returns the number of tracked keys.
func (ms *MemoryStore) Len() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return len(ms.buckets)
}

// prune drops idle buckets. Callers hold mu.
func (ms *MemoryStore) prune(now time.Time) {
	if ms.pruneInterval <= 0 || now.Sub(ms.lastPrune) < ms.pruneInterval {
		return
	}
	ms.lastPrune = now
	for key, b := range ms.buckets {
		if now.Sub(b.lastAccess) > ms.maxIdle {
			delete(ms.buckets, key)
		}
	}
}

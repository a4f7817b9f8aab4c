package ratelimiter_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/landing/pkg/ratelimiter"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock() *clock {
	return &clock{now: time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newBucket(t *testing.T, store ratelimiter.Store, c *clock) *ratelimiter.Bucket {
	t.Helper()
	b, err := ratelimiter.NewBucket(store, ratelimiter.Config{
		Capacity:       2,
		RefillRate:     1,
		RefillInterval: 10 * time.Second,
	}, ratelimiter.WithClock(c.Now))
	require.NoError(t, err)
	return b
}

func TestNewBucket(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  ratelimiter.Config
	}{
		{"zero capacity", ratelimiter.Config{RefillRate: 1, RefillInterval: time.Second}},
		{"zero rate", ratelimiter.Config{Capacity: 1, RefillInterval: time.Second}},
		{"zero interval", ratelimiter.Config{Capacity: 1, RefillRate: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ratelimiter.NewBucket(ratelimiter.NewMemoryStore(), tt.cfg)
			assert.ErrorIs(t, err, ratelimiter.ErrInvalidConfig)
		})
	}
}

func TestBucketAllow(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := newClock()
	b := newBucket(t, ratelimiter.NewMemoryStore(), c)

	for i := range 2 {
		res, err := b.Allow(ctx, "203.0.113.7")
		require.NoError(t, err)
		assert.True(t, res.Allowed(), "request %d", i)
		assert.Equal(t, 2, res.Limit)
	}

	res, err := b.Allow(ctx, "203.0.113.7")
	require.NoError(t, err)
	assert.False(t, res.Allowed())
	assert.Equal(t, 10*time.Second, res.RetryAfter(c.Now()))

	// Denied requests take nothing, so one interval is enough to recover.
	res, err = b.Allow(ctx, "203.0.113.7")
	require.NoError(t, err)
	assert.False(t, res.Allowed())

	other, err := b.Allow(ctx, "198.51.100.2")
	require.NoError(t, err)
	assert.True(t, other.Allowed())

	c.Advance(10 * time.Second)
	res, err = b.Allow(ctx, "203.0.113.7")
	require.NoError(t, err)
	assert.True(t, res.Allowed())
	assert.Equal(t, 0, res.Remaining)
	assert.Zero(t, res.RetryAfter(c.Now()))
}

func TestBucketRefillIsCapped(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := newClock()
	b := newBucket(t, ratelimiter.NewMemoryStore(), c)

	_, err := b.AllowN(ctx, "k", 2)
	require.NoError(t, err)

	c.Advance(24 * time.Hour)
	res, err := b.Status(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Remaining)
}

func TestBucketAllowN(t *testing.T) {
	t.Parallel()

	b := newBucket(t, ratelimiter.NewMemoryStore(), newClock())
	_, err := b.AllowN(context.Background(), "k", 0)
	assert.ErrorIs(t, err, ratelimiter.ErrInvalidTokenCount)

	res, err := b.AllowN(context.Background(), "k", 3)
	require.NoError(t, err)
	assert.False(t, res.Allowed())
}

func TestBucketReset(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	b := newBucket(t, ratelimiter.NewMemoryStore(), newClock())

	_, err := b.AllowN(ctx, "k", 2)
	require.NoError(t, err)
	require.NoError(t, b.Reset(ctx, "k"))

	res, err := b.Status(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Remaining)
}

func TestBucketCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := newBucket(t, ratelimiter.NewMemoryStore(), newClock())
	_, err := b.Allow(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryStorePrunesIdleKeys(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := newClock()
	store := ratelimiter.NewMemoryStore(ratelimiter.WithPruning(time.Minute, 5*time.Minute))
	b := newBucket(t, store, c)

	_, err := b.Allow(ctx, "idle")
	require.NoError(t, err)
	c.Advance(4 * time.Minute)
	_, err = b.Allow(ctx, "active")
	require.NoError(t, err)
	assert.Equal(t, 2, store.Len())

	c.Advance(2 * time.Minute)
	_, err = b.Allow(ctx, "active")
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStoreConcurrent(t *testing.T) {
	t.Parallel()

	b, err := ratelimiter.NewBucket(ratelimiter.NewMemoryStore(), ratelimiter.Config{
		Capacity:       50,
		RefillRate:     1,
		RefillInterval: time.Hour,
	})
	require.NoError(t, err)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := b.Allow(context.Background(), "shared")
			if err == nil && res.Allowed() {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, allowed)
}

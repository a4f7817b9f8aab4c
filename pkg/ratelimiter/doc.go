// Package ratelimiter implements token bucket rate limiting.
//
// A Bucket holds Capacity tokens per key and adds RefillRate tokens every
// RefillInterval. Each Allow takes one token; when none is left the Result
// is denied and RetryAfter says how long to wait. State lives in a Store;
// MemoryStore keeps it in process and prunes idle keys as it goes.
//
//	limiter, err := ratelimiter.NewBucket(ratelimiter.NewMemoryStore(), ratelimiter.Config{
//		Capacity:       5,
//		RefillRate:     1,
//		RefillInterval: 10 * time.Second,
//	})
//	res, err := limiter.Allow(ctx, clientip.FromContext(ctx))
//	if err == nil && !res.Allowed() {
//		// reject with 429 and Retry-After: res.RetryAfter(time.Now())
//	}
package ratelimiter

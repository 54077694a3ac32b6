package api

import (
	"math"
	"sync"
	"time"
)

type rateBucket struct {
	tokens       float64
	capacity     float64
	refillPerSec float64
	lastRefill   time.Time
}

// RateLimiter is a per-client token bucket refilled at rpm tokens per minute.
type RateLimiter struct {
	now     func() time.Time
	mu      sync.Mutex
	buckets map[string]*rateBucket
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		now:     func() time.Time { return time.Now().UTC() },
		buckets: make(map[string]*rateBucket),
	}
}

// Allow consumes one token for client. A non-positive rpm disables limiting.
// When denied, the second value is the number of seconds until a token frees.
func (r *RateLimiter) Allow(client string, rpm int) (bool, int) {
	if rpm <= 0 {
		return true, 0
	}

	now := r.now()
	capacity := float64(rpm)
	refillPerSec := capacity / 60.0

	r.mu.Lock()
	defer r.mu.Unlock()

	bucket, ok := r.buckets[client]
	if !ok {
		r.buckets[client] = &rateBucket{
			tokens:       capacity - 1,
			capacity:     capacity,
			refillPerSec: refillPerSec,
			lastRefill:   now,
		}
		return true, 0
	}

	elapsed := now.Sub(bucket.lastRefill).Seconds()
	if elapsed > 0 {
		bucket.tokens = math.Min(bucket.capacity, bucket.tokens+(elapsed*bucket.refillPerSec))
		bucket.lastRefill = now
	}
	if bucket.capacity != capacity || bucket.refillPerSec != refillPerSec {
		bucket.capacity = capacity
		bucket.refillPerSec = refillPerSec
		if bucket.tokens > bucket.capacity {
			bucket.tokens = bucket.capacity
		}
	}

	if bucket.tokens >= 1 {
		bucket.tokens -= 1
		return true, 0
	}

	deficit := 1 - bucket.tokens
	retrySeconds := int(math.Ceil(deficit / bucket.refillPerSec))
	if retrySeconds < 1 {
		retrySeconds = 1
	}
	return false, retrySeconds
}

// Prune drops buckets that have been idle long enough to be full again.
func (r *RateLimiter) Prune(idle time.Duration) int {
	cutoff := r.now().Add(-idle)
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for client, bucket := range r.buckets {
		if bucket.lastRefill.Before(cutoff) {
			delete(r.buckets, client)
			removed++
		}
	}
	return removed
}

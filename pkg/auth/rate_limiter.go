package auth

import (
	"sync"
	"time"
)

// RateLimiter provides rate limiting per key
type RateLimiter interface {
	Allow(key string) bool
	Reset(key string)
}

// TokenBucketLimiter implements token bucket rate limiting
type TokenBucketLimiter struct {
	mu       sync.Mutex
	buckets  map[string]*bucket
	rate     int           // tokens per interval
	interval time.Duration // refill interval
	capacity int           // max tokens
}

type bucket struct {
	tokens     int
	lastRefill time.Time
}

// NewTokenBucketLimiter creates a new token bucket rate limiter
func NewTokenBucketLimiter(rate int, interval time.Duration, capacity int) *TokenBucketLimiter {
	limiter := &TokenBucketLimiter{
		buckets:  make(map[string]*bucket),
		rate:     rate,
		interval: interval,
		capacity: capacity,
	}

	go limiter.cleanup()

	return limiter
}

// Allow checks if a request is allowed for the given key
func (l *TokenBucketLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	b, exists := l.buckets[key]

	if !exists {
		l.buckets[key] = &bucket{
			tokens:     l.capacity - 1,
			lastRefill: now,
		}
		return true
	}

	elapsed := now.Sub(b.lastRefill)
	refills := int(elapsed / l.interval)
	if refills > 0 {
		b.tokens += refills * l.rate
		if b.tokens > l.capacity {
			b.tokens = l.capacity
		}
		b.lastRefill = b.lastRefill.Add(time.Duration(refills) * l.interval)
	}

	if b.tokens > 0 {
		b.tokens--
		return true
	}

	return false
}

// Reset clears the bucket for a key
func (l *TokenBucketLimiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.buckets, key)
}

// cleanup removes stale buckets periodically
func (l *TokenBucketLimiter) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		l.mu.Lock()
		cutoff := time.Now().Add(-30 * time.Minute)
		for key, b := range l.buckets {
			if b.lastRefill.Before(cutoff) {
				delete(l.buckets, key)
			}
		}
		l.mu.Unlock()
	}
}

// NewIPRateLimiter creates a rate limiter suitable for per-IP limiting
func NewIPRateLimiter() *TokenBucketLimiter {
	// 100 requests per minute with burst of 20
	return NewTokenBucketLimiter(100, time.Minute, 20)
}

// NewUserRateLimiter creates a rate limiter suitable for per-user limiting
func NewUserRateLimiter() *TokenBucketLimiter {
	// 1000 requests per minute with burst of 50
	return NewTokenBucketLimiter(1000, time.Minute, 50)
}

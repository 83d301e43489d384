package ratelimiter

import (
	"sync"
	"time"
)

// RateLimiter defines the interface for rate limiting
type RateLimiter interface {
	Allow(clientIP string) bool
}

// TokenBucketRateLimiter implements a token bucket rate limiter keyed
// by client IP. Each bucket holds up to burst tokens and refills at the
// configured per-minute rate.
type TokenBucketRateLimiter struct {
	maxTokens   int
	refillRate  time.Duration
	buckets     map[string]*bucket
	mutex       sync.RWMutex
	cleanupTick time.Duration
}

// bucket represents a token bucket for a specific client
type bucket struct {
	tokens     int
	lastRefill time.Time
	mutex      sync.Mutex
}

// New creates a token bucket limiter allowing requestsPerMinute
// sustained requests with bursts of up to burst.
func New(requestsPerMinute, burst int) *TokenBucketRateLimiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 1
	}
	if burst <= 0 {
		burst = requestsPerMinute
	}

	rl := &TokenBucketRateLimiter{
		maxTokens:   burst,
		refillRate:  time.Minute / time.Duration(requestsPerMinute),
		buckets:     make(map[string]*bucket),
		cleanupTick: time.Minute * 10,
	}

	go rl.cleanupRoutine()

	return rl
}

// Allow checks if a request from the given client IP is allowed
func (rl *TokenBucketRateLimiter) Allow(clientIP string) bool {
	rl.mutex.Lock()
	b, exists := rl.buckets[clientIP]
	if !exists {
		b = &bucket{
			tokens:     rl.maxTokens,
			lastRefill: time.Now(),
		}
		rl.buckets[clientIP] = b
	}
	rl.mutex.Unlock()

	b.mutex.Lock()
	defer b.mutex.Unlock()

	// Refill tokens based on time elapsed
	now := time.Now()
	elapsed := now.Sub(b.lastRefill)
	tokensToAdd := int(elapsed / rl.refillRate)

	if tokensToAdd > 0 {
		b.tokens += tokensToAdd
		if b.tokens > rl.maxTokens {
			b.tokens = rl.maxTokens
		}
		b.lastRefill = now
	}

	if b.tokens > 0 {
		b.tokens--
		return true
	}

	return false
}

// cleanupRoutine removes old buckets that haven't been used recently
func (rl *TokenBucketRateLimiter) cleanupRoutine() {
	ticker := time.NewTicker(rl.cleanupTick)
	defer ticker.Stop()

	for range ticker.C {
		rl.cleanup()
	}
}

// cleanup removes buckets idle for more than an hour
func (rl *TokenBucketRateLimiter) cleanup() {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	cutoff := time.Now().Add(-time.Hour)

	for ip, b := range rl.buckets {
		b.mutex.Lock()
		if b.lastRefill.Before(cutoff) {
			delete(rl.buckets, ip)
		}
		b.mutex.Unlock()
	}
}

// Package ratelimit limits how often a client may hit an endpoint.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter decides whether key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// tokenBucket allows capacity requests in a burst, refilling at refillRate
// tokens per second.
type tokenBucket struct {
	capacity   int
	refillRate float64
	tokens     float64
	lastRefill time.Time
}

func (tb *tokenBucket) allow(now time.Time) bool {
	elapsed := now.Sub(tb.lastRefill)
	tb.tokens = min(float64(tb.capacity), tb.tokens+elapsed.Seconds()*tb.refillRate)
	tb.lastRefill = now

	if tb.tokens >= 1.0 {
		tb.tokens -= 1.0
		return true
	}
	return false
}

// Memory is an in-process token bucket per key.
type Memory struct {
	mu       sync.Mutex
	buckets  map[string]*tokenBucket
	capacity int
	rate     float64
	now      func() time.Time
}

// NewMemory allows limit requests per window per key.
func NewMemory(limit int, window time.Duration) *Memory {
	return &Memory{
		buckets:  make(map[string]*tokenBucket),
		capacity: limit,
		rate:     float64(limit) / window.Seconds(),
		now:      time.Now,
	}
}

func (m *Memory) Allow(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	b, ok := m.buckets[key]
	if !ok {
		b = &tokenBucket{capacity: m.capacity, refillRate: m.rate, tokens: float64(m.capacity), lastRefill: now}
		m.buckets[key] = b
	}
	return b.allow(now), nil
}

// Cleanup drops buckets that have refilled completely.
func (m *Memory) Cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for key, b := range m.buckets {
		full := b.tokens + now.Sub(b.lastRefill).Seconds()*b.refillRate
		if full >= float64(b.capacity) {
			delete(m.buckets, key)
		}
	}
}

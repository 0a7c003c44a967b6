package ratelimit

import (
	"context"
	"sync"
	"time"
)

type bucket struct {
	requests []time.Time
}

// MemoryLimiter is a sliding-window limiter kept in process memory, used when
// Redis is not configured.
type MemoryLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
}

// NewMemoryLimiter returns an in-memory limiter implementation.
func NewMemoryLimiter() Limiter {
	return &MemoryLimiter{
		buckets: make(map[string]*bucket),
	}
}

// Check enforces a sliding-window limit for the provided key.
func (m *MemoryLimiter) Check(_ context.Context, key string, limit int, window time.Duration) (*Result, error) {
	now := time.Now()
	windowStart := now.Add(-window)

	m.mu.Lock()
	defer m.mu.Unlock()

	bkt, ok := m.buckets[key]
	if !ok {
		bkt = &bucket{requests: make([]time.Time, 0, 8)}
		m.buckets[key] = bkt
	}

	bkt.requests = keepRecent(bkt.requests, windowStart)
	count := len(bkt.requests)

	allowed := count < limit
	if allowed {
		bkt.requests = append(bkt.requests, now)
		count++
	}

	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}

	result := &Result{
		Allowed:   allowed,
		Remaining: remaining,
		ResetAt:   windowStart.Add(window),
	}

	if !allowed {
		return result, ErrLimitExceeded
	}

	return result, nil
}

// Cleanup removes buckets that have been inactive for more than maxAge.
func (m *MemoryLimiter) Cleanup(maxAge time.Duration) {
	if maxAge <= 0 {
		return
	}

	cutoff := time.Now().Add(-maxAge)

	m.mu.Lock()
	defer m.mu.Unlock()

	for key, bkt := range m.buckets {
		if len(bkt.requests) == 0 || bkt.requests[len(bkt.requests)-1].Before(cutoff) {
			delete(m.buckets, key)
		}
	}
}

func keepRecent(requests []time.Time, windowStart time.Time) []time.Time {
	idx := 0
	for ; idx < len(requests); idx++ {
		if requests[idx].After(windowStart) {
			break
		}
	}

	return requests[idx:]
}

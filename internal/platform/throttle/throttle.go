// Package throttle implements fixed-window counters keyed by an arbitrary string.
package throttle

import (
	"context"
	"sync"
	"time"
)

type Limiter interface {
	// Allow records one hit for key and reports whether it is within the limit.
	Allow(ctx context.Context, key string) (bool, error)
}

type memoryLimiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	now    func() time.Time
	hits   map[string]*bucket
}

type bucket struct {
	count   int
	resetAt time.Time
}

// NewMemory returns a process-local limiter. limit <= 0 disables limiting.
func NewMemory(limit int, window time.Duration) Limiter {
	return &memoryLimiter{
		limit:  limit,
		window: window,
		now:    time.Now,
		hits:   make(map[string]*bucket),
	}
}

func (m *memoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	if m.limit <= 0 {
		return true, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	b, ok := m.hits[key]
	if !ok || !now.Before(b.resetAt) {
		b = &bucket{resetAt: now.Add(m.window)}
		m.hits[key] = b
		if len(m.hits) > 10_000 {
			m.evict(now)
		}
	}
	b.count++
	return b.count <= m.limit, nil
}

func (m *memoryLimiter) evict(now time.Time) {
	for k, b := range m.hits {
		if !now.Before(b.resetAt) {
			delete(m.hits, k)
		}
	}
}

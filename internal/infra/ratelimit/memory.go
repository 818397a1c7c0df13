package ratelimit

import (
	"context"
	"sync"
	"time"

	"gatekeeper/internal/domain/service"
)

type window struct {
	count   int
	resetAt time.Time
}

type memoryThrottle struct {
	mu      sync.Mutex
	max     int
	period  time.Duration
	now     func() time.Time
	windows map[string]*window
}

// NewMemoryThrottle counts attempts per key in a fixed window held in process memory.
func NewMemoryThrottle(maxAttempts int, period time.Duration, now func() time.Time) service.AttemptThrottle {
	return &memoryThrottle{
		max:     maxAttempts,
		period:  period,
		now:     now,
		windows: make(map[string]*window),
	}
}

func (t *memoryThrottle) Allow(_ context.Context, key string) (bool, time.Duration, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	w, ok := t.windows[key]
	if !ok || !now.Before(w.resetAt) {
		t.sweep(now)
		w = &window{resetAt: now.Add(t.period)}
		t.windows[key] = w
	}

	w.count++
	if w.count <= t.max {
		return true, 0, nil
	}

	return false, w.resetAt.Sub(now), nil
}

// sweep drops expired windows so idle keys do not accumulate.
func (t *memoryThrottle) sweep(now time.Time) {
	for k, w := range t.windows {
		if !now.Before(w.resetAt) {
			delete(t.windows, k)
		}
	}
}

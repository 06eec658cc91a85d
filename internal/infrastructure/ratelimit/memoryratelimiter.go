package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryFailureLimiter is an in-process fixed-window failure counter.
// Counters are not shared across instances; a horizontally scaled
// deployment must use the Redis limiter instead. This is a documented
// deployment constraint, not a bug.
type MemoryFailureLimiter struct {
	mu       sync.Mutex
	counters map[string]*windowCounter
	cfg      Config
	now      func() time.Time
}

type windowCounter struct {
	windowStart time.Time
	count       int
}

func NewMemoryFailureLimiter(cfg Config) *MemoryFailureLimiter {
	if cfg.MaxFailures <= 0 || cfg.Window <= 0 {
		cfg = DefaultConfig()
	}
	return &MemoryFailureLimiter{
		counters: make(map[string]*windowCounter),
		cfg:      cfg,
		now:      time.Now,
	}
}

var _ FailureLimiter = (*MemoryFailureLimiter)(nil)

func (l *MemoryFailureLimiter) Check(ctx context.Context, sourceIP string) (Decision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	counter, ok := l.counters[sourceIP]
	if !ok {
		return Decision{Allowed: true}, nil
	}

	elapsed := l.now().Sub(counter.windowStart)
	if elapsed >= l.cfg.Window {
		delete(l.counters, sourceIP)
		return Decision{Allowed: true}, nil
	}

	if counter.count < l.cfg.MaxFailures {
		return Decision{Allowed: true}, nil
	}
	return Decision{Allowed: false, RetryAfter: l.cfg.Window - elapsed}, nil
}

func (l *MemoryFailureLimiter) RecordFailure(ctx context.Context, sourceIP string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	counter, ok := l.counters[sourceIP]
	if !ok || now.Sub(counter.windowStart) >= l.cfg.Window {
		l.counters[sourceIP] = &windowCounter{windowStart: now, count: 1}
		l.pruneExpiredLocked(now)
		return nil
	}

	counter.count++
	return nil
}

// pruneExpiredLocked drops stale windows so the map doesn't grow with
// every IP that ever failed. Called with the lock held.
func (l *MemoryFailureLimiter) pruneExpiredLocked(now time.Time) {
	if len(l.counters) < 1024 {
		return
	}
	for ip, counter := range l.counters {
		if now.Sub(counter.windowStart) >= l.cfg.Window {
			delete(l.counters, ip)
		}
	}
}

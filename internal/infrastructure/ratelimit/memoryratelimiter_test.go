package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(maxFailures int, window time.Duration) (*MemoryFailureLimiter, *time.Time) {
	limiter := NewMemoryFailureLimiter(Config{MaxFailures: maxFailures, Window: window})
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return current }
	return limiter, &current
}

func TestMemoryFailureLimiter_AllowsUnderThreshold(t *testing.T) {
	limiter, _ := newTestLimiter(10, 15*time.Minute)
	ctx := context.Background()

	for i := 0; i < 9; i++ {
		require.NoError(t, limiter.RecordFailure(ctx, "203.0.113.7"))
	}

	decision, err := limiter.Check(ctx, "203.0.113.7")
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
}

func TestMemoryFailureLimiter_BlocksAtThreshold(t *testing.T) {
	limiter, _ := newTestLimiter(10, 15*time.Minute)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		require.NoError(t, limiter.RecordFailure(ctx, "203.0.113.7"))
	}

	decision, err := limiter.Check(ctx, "203.0.113.7")
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Greater(t, decision.RetryAfter, time.Duration(0))
	assert.LessOrEqual(t, decision.RetryAfter, 15*time.Minute)
}

func TestMemoryFailureLimiter_WindowExpiry(t *testing.T) {
	limiter, current := newTestLimiter(3, 15*time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, limiter.RecordFailure(ctx, "203.0.113.7"))
	}

	decision, err := limiter.Check(ctx, "203.0.113.7")
	require.NoError(t, err)
	require.False(t, decision.Allowed)

	*current = current.Add(15*time.Minute + time.Second)

	decision, err = limiter.Check(ctx, "203.0.113.7")
	require.NoError(t, err)
	assert.True(t, decision.Allowed, "expired window must admit requests again")
}

func TestMemoryFailureLimiter_IPsAreIndependent(t *testing.T) {
	limiter, _ := newTestLimiter(2, time.Minute)
	ctx := context.Background()

	require.NoError(t, limiter.RecordFailure(ctx, "203.0.113.7"))
	require.NoError(t, limiter.RecordFailure(ctx, "203.0.113.7"))

	blocked, err := limiter.Check(ctx, "203.0.113.7")
	require.NoError(t, err)
	assert.False(t, blocked.Allowed)

	other, err := limiter.Check(ctx, "198.51.100.9")
	require.NoError(t, err)
	assert.True(t, other.Allowed)
}

func TestMemoryFailureLimiter_ConcurrentAccess(t *testing.T) {
	limiter := NewMemoryFailureLimiter(Config{MaxFailures: 1000, Window: time.Minute})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				_ = limiter.RecordFailure(ctx, "203.0.113.7")
				_, _ = limiter.Check(ctx, "203.0.113.7")
			}
		}()
	}
	wg.Wait()

	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	assert.Equal(t, 500, limiter.counters["203.0.113.7"].count)
}

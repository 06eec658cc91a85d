package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisFailureLimiter is a Redis-backed fixed-window failure counter.
// All instances share the counters, so it is the correct choice for
// horizontally scaled deployments.
type RedisFailureLimiter struct {
	client *redis.Client
	cfg    Config
}

func NewRedisFailureLimiter(client *redis.Client, cfg Config) *RedisFailureLimiter {
	if cfg.MaxFailures <= 0 || cfg.Window <= 0 {
		cfg = DefaultConfig()
	}
	return &RedisFailureLimiter{client: client, cfg: cfg}
}

var _ FailureLimiter = (*RedisFailureLimiter)(nil)

// Check reports whether the source IP is currently blocked. If Redis is
// unavailable the request is allowed; losing rate limiting briefly beats
// rejecting every restore.
func (l *RedisFailureLimiter) Check(ctx context.Context, sourceIP string) (Decision, error) {
	key := l.key(sourceIP)

	count, err := l.client.Get(ctx, key).Int64()
	if err == redis.Nil {
		return Decision{Allowed: true}, nil
	}
	if err != nil {
		return Decision{Allowed: true}, fmt.Errorf("failed to read failure counter: %w", err)
	}

	if count < int64(l.cfg.MaxFailures) {
		return Decision{Allowed: true}, nil
	}

	retryAfter, err := l.client.TTL(ctx, key).Result()
	if err != nil || retryAfter < 0 {
		retryAfter = l.cfg.Window
	}
	return Decision{Allowed: false, RetryAfter: retryAfter}, nil
}

// RecordFailure atomically increments the IP's counter, starting the
// window on the first failure.
func (l *RedisFailureLimiter) RecordFailure(ctx context.Context, sourceIP string) error {
	key := l.key(sourceIP)

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("failed to increment failure counter: %w", err)
	}
	if count == 1 {
		l.client.Expire(ctx, key, l.cfg.Window)
	}
	return nil
}

func (l *RedisFailureLimiter) key(sourceIP string) string {
	bucket := time.Now().Unix() / int64(l.cfg.Window.Seconds())
	return fmt.Sprintf("restorelimit:ip:%s:%d", sourceIP, bucket)
}

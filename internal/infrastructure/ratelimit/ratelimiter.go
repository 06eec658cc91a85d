// Package ratelimit gates the restore path by counting failed recovery
// attempts per source IP over a fixed window.
package ratelimit

import (
	"context"
	"time"
)

// Decision is the outcome of a limiter check
type Decision struct {
	Allowed    bool
	RetryAfter time.Duration
}

// FailureLimiter tracks failed verification attempts per source IP.
// Check must be called before any store access on the restore path;
// RecordFailure is called after an authentication failure. Successful
// restores do not reset the counter; the window must expire on its own.
type FailureLimiter interface {
	Check(ctx context.Context, sourceIP string) (Decision, error)
	RecordFailure(ctx context.Context, sourceIP string) error
}

// Config holds the limiter tunables
type Config struct {
	MaxFailures int
	Window      time.Duration
}

// DefaultConfig blocks after 10 failed attempts within 15 minutes
func DefaultConfig() Config {
	return Config{
		MaxFailures: 10,
		Window:      15 * time.Minute,
	}
}

package domain

import (
	"context"
	"time"
)

type RateLimitDecision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RetryAfter is the whole number of seconds a denied caller should wait,
// never less than 1 so a Retry-After header stays meaningful.
func (d RateLimitDecision) RetryAfter(now time.Time) int {
	secs := int(d.ResetAt.Sub(now).Round(time.Second).Seconds())
	if secs < 1 {
		secs = 1
	}
	return secs
}

// RateLimiter counts requests in fixed, non-overlapping windows per key.
// Implementations must be safe for concurrent use. A non-nil error means
// the backing store is unavailable, not that the request is denied; the
// caller decides the failure policy.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (RateLimitDecision, error)
}

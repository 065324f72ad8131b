package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// TokenBucketLimiter never queues: a request either takes a token or is
// told how long until the next one is available.
type TokenBucketLimiter struct {
	limiter *rate.Limiter
	now     func() time.Time
}

// NewTokenBucketLimiter allows requests per window on average with the given
// burst.
func NewTokenBucketLimiter(requests int, window time.Duration, burst int) *TokenBucketLimiter {
	if requests <= 0 {
		requests = 1
	}
	if burst <= 0 {
		burst = requests
	}
	return &TokenBucketLimiter{
		limiter: rate.NewLimiter(rate.Every(window/time.Duration(requests)), burst),
		now:     time.Now,
	}
}

func (l *TokenBucketLimiter) Acquire(ctx context.Context) (Lease, error) {
	if err := ctx.Err(); err != nil {
		return Lease{}, err
	}
	now := l.now()
	r := l.limiter.ReserveN(now, 1)
	if !r.OK() {
		return Lease{}, nil
	}
	delay := r.DelayFrom(now)
	if delay == 0 {
		return acquired(), nil
	}
	// Give the token back, the caller is rejected rather than delayed.
	r.CancelAt(now)
	return rejected(delay), nil
}

// idleSince treats a full bucket as idle; a full bucket is indistinguishable
// from a fresh limiter.
func (l *TokenBucketLimiter) idleSince(time.Time) bool {
	return l.limiter.TokensAt(l.now()) >= float64(l.limiter.Burst())
}

// Package ratelimit wraps golang.org/x/time/rate with per-minute semantics.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter is a token-bucket limiter configured in events per minute.
type Limiter struct {
	limiter *rate.Limiter
}

// New creates a limiter allowing eventsPerMinute events. The burst is a
// tenth of the per-minute allowance, at least one.
func New(eventsPerMinute int) *Limiter {
	burst := eventsPerMinute / 10
	if burst < 1 {
		burst = 1
	}
	return &Limiter{
		limiter: rate.NewLimiter(perMinute(eventsPerMinute), burst),
	}
}

// NewWithBurst creates a limiter with an explicit per-second rate and burst.
func NewWithBurst(eventsPerSecond float64, burst int) *Limiter {
	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(eventsPerSecond), burst),
	}
}

// Allow reports whether an event may happen now, consuming a token if so.
func (l *Limiter) Allow() bool {
	return l.limiter.Allow()
}

// Wait blocks until a token is available or the context is cancelled.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}

// SetLimit changes the per-minute rate without resetting the bucket.
func (l *Limiter) SetLimit(eventsPerMinute int) {
	l.limiter.SetLimit(perMinute(eventsPerMinute))
}

func perMinute(n int) rate.Limit {
	return rate.Limit(float64(n) / 60.0)
}

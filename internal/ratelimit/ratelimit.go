// Package ratelimit throttles the public, unauthenticated routes per client
// address so verification codes cannot be enumerated at speed.
package ratelimit

import (
	"context"
	"log/slog"
	"time"

	"accredit/pkg/platform/circuit"
)

// Result is the outcome of one rate limit check.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
	// RetryAfter is in whole seconds and only set when the request is denied.
	RetryAfter int
	// Degraded is set when the answer came from the fallback store.
	Degraded bool
}

// Store counts requests for a key within a window.
type Store interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*Result, error)
}

// Limiter checks a shared primary store and switches to a local fallback
// while the breaker is open.
type Limiter struct {
	primary  Store
	fallback Store
	breaker  *circuit.Breaker
	logger   *slog.Logger
}

func NewLimiter(primary, fallback Store, breaker *circuit.Breaker, logger *slog.Logger) *Limiter {
	return &Limiter{primary: primary, fallback: fallback, breaker: breaker, logger: logger}
}

func (l *Limiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (*Result, error) {
	if l.breaker.Allow() {
		res, err := l.primary.Allow(ctx, key, limit, window)
		if err == nil {
			if _, change := l.breaker.RecordSuccess(); change.Closed {
				l.logger.InfoContext(ctx, "rate limit store recovered", "breaker", l.breaker.Name())
			}
			return res, nil
		}
		if _, change := l.breaker.RecordFailure(); change.Opened {
			l.logger.WarnContext(ctx, "rate limit store degraded, using in-memory fallback",
				"breaker", l.breaker.Name(),
				"error", err,
			)
		}
	}

	res, err := l.fallback.Allow(ctx, key, limit, window)
	if err != nil {
		return nil, err
	}
	res.Degraded = true
	return res, nil
}

func retryAfter(resetAt, now time.Time) int {
	secs := int(resetAt.Sub(now).Round(time.Second) / time.Second)
	if secs < 1 {
		return 1
	}
	return secs
}

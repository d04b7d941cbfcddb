package audit

import (
	"context"
	"fmt"
	"log/slog"

	"accredit/pkg/platform/circuit"
)

// FallbackStore writes to primary while it is healthy and diverts events to
// fallback once the breaker opens, so a broker outage neither loses events
// nor slows every claim down to the producer timeout.
type FallbackStore struct {
	primary  Store
	fallback Store
	breaker  *circuit.Breaker
	logger   *slog.Logger
}

func NewFallbackStore(primary, fallback Store, breaker *circuit.Breaker, logger *slog.Logger) *FallbackStore {
	return &FallbackStore{primary: primary, fallback: fallback, breaker: breaker, logger: logger}
}

func (s *FallbackStore) Append(ctx context.Context, event Event) error {
	if !s.breaker.Allow() {
		return s.appendFallback(ctx, event)
	}

	err := s.primary.Append(ctx, event)
	if err == nil {
		if _, change := s.breaker.RecordSuccess(); change.Closed {
			s.logger.InfoContext(ctx, "audit sink recovered", "breaker", s.breaker.Name())
		}
		return nil
	}

	_, change := s.breaker.RecordFailure()
	if change.Opened {
		s.logger.WarnContext(ctx, "audit sink degraded, using fallback",
			"breaker", s.breaker.Name(),
			"error", err,
		)
	}
	if fbErr := s.appendFallback(ctx, event); fbErr != nil {
		return fmt.Errorf("primary: %w; fallback: %v", err, fbErr)
	}
	return nil
}

func (s *FallbackStore) appendFallback(ctx context.Context, event Event) error {
	if err := s.fallback.Append(ctx, event); err != nil {
		return fmt.Errorf("append to fallback audit store: %w", err)
	}
	return nil
}

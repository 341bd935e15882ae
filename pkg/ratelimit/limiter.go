// Package ratelimit enforces a minimum wall-clock interval between the
// start of successive outbound requests. The interval is derived from the
// contracted requests-per-minute limit plus a configurable margin of
// error, and applies globally across all callers sharing one Limiter.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Limiter tracks the start time of the most recent request attempt and
// delays callers until at least one interval has elapsed since then.
// State is process-local and never persisted across runs. All access to
// the last-start time is serialized, so a Limiter may be shared by
// concurrent workers.
type Limiter struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
	logger   zerolog.Logger
}

// New creates a limiter with the given minimum inter-request interval.
// A non-positive interval disables waiting.
func New(interval time.Duration, logger zerolog.Logger) *Limiter {
	return &Limiter{
		interval: interval,
		logger:   logger,
	}
}

// Interval returns the configured minimum spacing.
func (l *Limiter) Interval() time.Duration {
	return l.interval
}

// Acquire blocks until at least one interval has elapsed since the last
// recorded request start, then records the current time as the new start.
// The first acquisition never waits. Returns the context error if the
// context is cancelled while waiting.
func (l *Limiter) Acquire(ctx context.Context) error {
	for {
		l.mu.Lock()
		now := time.Now()
		if l.last.IsZero() || now.Sub(l.last) >= l.interval {
			l.last = now
			l.mu.Unlock()
			return nil
		}
		wait := l.interval - now.Sub(l.last)
		l.mu.Unlock()

		l.logger.Info().
			Dur("wait", wait).
			Msg("Waiting for rate limit interval")
		Waits.Inc()
		WaitSeconds.Observe(wait.Seconds())

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// Mark records the current time as the last request start without
// waiting. Retried attempts of an in-flight request use Mark so that the
// next Acquire is spaced from the attempt that actually reached the
// network, not from the first one.
func (l *Limiter) Mark() {
	l.mu.Lock()
	l.last = time.Now()
	l.mu.Unlock()
}

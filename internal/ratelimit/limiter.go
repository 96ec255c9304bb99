// Package ratelimit implements a per-source sliding-window request throttle.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const (
	window = time.Second
	// margin keeps us safely behind the window edge after a wake-up.
	margin = 50 * time.Millisecond
)

// Limiter throttles requests to at most a configured count per rolling
// one-second window. Each upstream source gets its own instance; limiters
// are independent and make no fairness guarantee across each other.
// Throttle never fails except on context cancellation; contention is
// resolved by delay.
type Limiter struct {
	now    func() time.Time
	sleep  func(ctx context.Context, d time.Duration) error
	issued []time.Time
	limit  int
	mu     sync.Mutex
}

// New creates a limiter allowing requestsPerSecond issuances per rolling second.
func New(requestsPerSecond int) *Limiter {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 1
	}
	return &Limiter{
		limit: requestsPerSecond,
		now:   time.Now,
		sleep: sleepContext,
	}
}

// Throttle blocks until issuing a request would not exceed the configured
// ceiling, then records the issuance. Safe for concurrent use.
func (l *Limiter) Throttle(ctx context.Context) error {
	for {
		l.mu.Lock()
		now := l.now()
		l.prune(now)

		if len(l.issued) < l.limit {
			l.issued = append(l.issued, now)
			l.mu.Unlock()
			return nil
		}

		// Window is full: wait until the oldest issuance exits it.
		wait := l.issued[0].Add(window + margin).Sub(now)
		l.mu.Unlock()

		if err := l.sleep(ctx, wait); err != nil {
			return fmt.Errorf("rate limiter canceled: %w", err)
		}
	}
}

// prune drops issuance timestamps older than the rolling window.
// Caller must hold the mutex.
func (l *Limiter) prune(now time.Time) {
	cutoff := now.Add(-window)
	i := 0
	for i < len(l.issued) && !l.issued[i].After(cutoff) {
		i++
	}
	if i > 0 {
		l.issued = append(l.issued[:0], l.issued[i:]...)
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

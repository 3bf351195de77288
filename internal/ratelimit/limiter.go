package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter is a sliding-window rate limiter. Acquire blocks until issuing one
// more request would not exceed maxRequests within the trailing window.
type Limiter struct {
	mu         sync.Mutex
	maxRequest int
	window     time.Duration
	stamps     []time.Time

	// Injectable for tests
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a Limiter allowing maxRequests per window
func New(maxRequests int, window time.Duration) *Limiter {
	return &Limiter{
		maxRequest: maxRequests,
		window:     window,
		now:        time.Now,
		sleep:      sleepContext,
	}
}

// Acquire blocks until a request slot is available or ctx is cancelled.
// The timestamp is recorded only once the caller is cleared to proceed.
func (l *Limiter) Acquire(ctx context.Context) error {
	for {
		l.mu.Lock()
		now := l.now()
		l.prune(now)

		if len(l.stamps) < l.maxRequest {
			l.stamps = append(l.stamps, now)
			l.mu.Unlock()
			return nil
		}

		// Wait exactly until the oldest stamp exits the window, then re-check:
		// another caller may have taken the freed slot in the meantime.
		wait := l.stamps[0].Add(l.window).Sub(now)
		l.mu.Unlock()

		if err := l.sleep(ctx, wait); err != nil {
			return err
		}
	}
}

// prune drops stamps older than the window. Caller must hold mu.
func (l *Limiter) prune(now time.Time) {
	cutoff := now.Add(-l.window)
	i := 0
	for i < len(l.stamps) && !l.stamps[i].After(cutoff) {
		i++
	}
	if i > 0 {
		l.stamps = append(l.stamps[:0], l.stamps[i:]...)
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

package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// testClock drives the limiter deterministically: sleeps advance the clock
// instead of blocking.
type testClock struct {
	current time.Time
	slept   []time.Duration
}

func newTestClock() *testClock {
	return &testClock{current: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) now() time.Time {
	return c.current
}

func (c *testClock) sleep(_ context.Context, d time.Duration) error {
	c.slept = append(c.slept, d)
	c.current = c.current.Add(d)
	return nil
}

func newTestLimiter(maxRequests int, window time.Duration) (*Limiter, *testClock) {
	clock := newTestClock()
	l := New(maxRequests, window)
	l.now = clock.now
	l.sleep = clock.sleep
	return l, clock
}

func TestAcquireUnderLimitNeverSleeps(t *testing.T) {
	l, clock := newTestLimiter(5, 10*time.Second)

	for i := 0; i < 5; i++ {
		require.NoError(t, l.Acquire(context.Background()))
	}
	require.Empty(t, clock.slept)
}

func TestAcquireBlocksUntilOldestExpires(t *testing.T) {
	l, clock := newTestLimiter(5, 10*time.Second)
	start := clock.current

	// Fill the window, one request per second
	for i := 0; i < 5; i++ {
		require.NoError(t, l.Acquire(context.Background()))
		clock.current = clock.current.Add(time.Second)
	}

	// The sixth request is 5s after the first stamp, so it must wait exactly
	// the remaining 5s of the first stamp's window, not a full window.
	require.NoError(t, l.Acquire(context.Background()))
	require.Equal(t, []time.Duration{5 * time.Second}, clock.slept)
	require.Equal(t, start.Add(10*time.Second), clock.current)
}

func TestAcquireReusesFreedSlots(t *testing.T) {
	l, clock := newTestLimiter(3, 10*time.Second)

	for i := 0; i < 3; i++ {
		require.NoError(t, l.Acquire(context.Background()))
	}

	// Past the window everything has expired; a full burst fits again
	clock.current = clock.current.Add(11 * time.Second)
	for i := 0; i < 3; i++ {
		require.NoError(t, l.Acquire(context.Background()))
	}
	require.Empty(t, clock.slept)
}

func TestAcquireRespectsCancelledContext(t *testing.T) {
	l, _ := newTestLimiter(1, 10*time.Second)
	l.sleep = sleepContext // real sleep so cancellation is exercised

	require.NoError(t, l.Acquire(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, l.Acquire(ctx), context.Canceled)
}

func TestPruneDropsOnlyExpiredStamps(t *testing.T) {
	l, clock := newTestLimiter(10, 10*time.Second)

	require.NoError(t, l.Acquire(context.Background()))
	clock.current = clock.current.Add(6 * time.Second)
	require.NoError(t, l.Acquire(context.Background()))

	clock.current = clock.current.Add(5 * time.Second)
	l.mu.Lock()
	l.prune(clock.current)
	stamps := len(l.stamps)
	l.mu.Unlock()

	// First stamp is 11s old, second is 5s old
	require.Equal(t, 1, stamps)
}

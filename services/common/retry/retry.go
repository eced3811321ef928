// Package retry runs an operation with a bounded number of attempts and a
// configurable delay between them.
package retry

import (
	"context"
	"errors"
	"math"
	"time"
)

// Policy configures Do. Zero values fall back to one attempt, no delay, every
// error retryable and a context-aware timer sleep.
type Policy struct {
	// Attempts is the total number of calls, including the first.
	Attempts int
	// Delay returns the wait after the n-th failed attempt (n starts at 1).
	Delay func(n int) time.Duration
	// Retryable reports whether err is worth another attempt.
	Retryable func(err error) bool
	// Sleep waits for d or until ctx is done.
	Sleep func(ctx context.Context, d time.Duration) error
	// OnRetry is called before each wait.
	OnRetry func(n int, err error, delay time.Duration)
}

// MaxDelay is the ceiling for any single computed wait.
const MaxDelay = time.Duration(math.MaxInt64)

// Exponential returns base * 2^(n-1): base, 2*base, 4*base, ... The result
// saturates at MaxDelay instead of overflowing.
func Exponential(base time.Duration) func(n int) time.Duration {
	return func(n int) time.Duration {
		if n < 1 {
			n = 1
		}
		if base <= 0 {
			return 0
		}
		shift := uint(n - 1)
		if shift >= 63 || base > MaxDelay>>shift {
			return MaxDelay
		}
		return base << shift
	}
}

// TotalDelay is the sum of every wait a fully failing run of p would take.
func (p Policy) TotalDelay() time.Duration {
	if p.Delay == nil {
		return 0
	}
	var total time.Duration
	for n := 1; n < p.Attempts; n++ {
		d := p.Delay(n)
		if d > MaxDelay-total {
			return MaxDelay
		}
		total += d
	}
	return total
}

// Do calls fn until it succeeds, returns a non-retryable error, the attempts are
// exhausted, or ctx is done. The last error from fn is returned; when ctx ends the
// wait, ctx.Err() is joined to it.
func Do(ctx context.Context, p Policy, fn func(ctx context.Context, attempt int) error) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = TimerSleep
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = fn(ctx, attempt)
		if lastErr == nil {
			return nil
		}
		if p.Retryable != nil && !p.Retryable(lastErr) {
			return lastErr
		}
		if attempt == attempts {
			break
		}

		var delay time.Duration
		if p.Delay != nil {
			delay = p.Delay(attempt)
		}
		if p.OnRetry != nil {
			p.OnRetry(attempt, lastErr, delay)
		}
		if err := sleep(ctx, delay); err != nil {
			return errors.Join(lastErr, err)
		}
	}
	return lastErr
}

// TimerSleep blocks for d unless ctx is done first.
func TimerSleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

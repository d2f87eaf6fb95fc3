package github

import (
	"context"
	"sync"
	"time"
)

const (
	// DefaultBudget is the default number of calls per window.
	DefaultBudget = 60

	// DefaultWindow is the default window length.
	DefaultWindow = time.Minute
)

// RateLimiter enforces an upper bound on outbound calls per fixed time
// window. State transitions are atomic; Wait holds the lock across the
// blocking sleep because the engine drives one fetch at a time.
type RateLimiter struct {
	mu          sync.Mutex
	budget      int
	window      time.Duration
	count       int
	windowStart time.Time

	// now and sleep are swapped out in tests.
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewRateLimiter creates a fixed-window limiter allowing budget calls
// per window. Non-positive arguments fall back to the defaults.
func NewRateLimiter(budget int, window time.Duration) *RateLimiter {
	if budget <= 0 {
		budget = DefaultBudget
	}
	if window <= 0 {
		window = DefaultWindow
	}
	r := &RateLimiter{
		budget: budget,
		window: window,
		now:    time.Now,
		sleep:  sleepContext,
	}
	r.windowStart = r.now()
	return r
}

// Wait blocks until the next call may proceed, then records it.
//
// If more than one window has elapsed since the window started, a new
// window begins with no carried-over budget. If the budget is already
// spent within the current window, the caller sleeps for the time
// elapsed in the window so far, after which a fresh window begins.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	elapsed := r.now().Sub(r.windowStart)
	switch {
	case elapsed > r.window:
		r.count = 0
		r.windowStart = r.now()
	case r.count >= r.budget:
		if err := r.sleep(ctx, elapsed); err != nil {
			return err
		}
		r.count = 0
		r.windowStart = r.now()
	}

	r.count++
	return nil
}

// Budget returns the configured calls-per-window budget.
func (r *RateLimiter) Budget() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.budget
}

// Remaining returns the calls left in the current window.
func (r *RateLimiter) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.now().Sub(r.windowStart) > r.window {
		return r.budget
	}
	return r.budget - r.count
}

// sleepContext sleeps for d or until ctx is cancelled.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
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

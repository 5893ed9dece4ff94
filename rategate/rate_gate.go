/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package rategate

import (
	"context"
	"sync"
	"time"
)

// Opts represents options for RateGate.
type Opts struct {
	// Clock is used to read the current time and to wait for the window end. WallClock by default.
	Clock Clock

	// MetricsCollector receives admission, cancellation and rollover events. Nothing is collected by default.
	MetricsCollector MetricsCollector
}

// RateGate admits at most Limit() calls of Acquire per fixed window and blocks the rest.
// It is safe for concurrent use.
type RateGate struct {
	limit   int
	window  time.Duration
	clock   Clock
	metrics MetricsCollector

	mu          sync.Mutex
	count       int
	windowStart time.Time
	rolledOver  chan struct{} // closed (and replaced) on every window reset to wake up waiters
}

// Stats is a snapshot of the gate state.
type Stats struct {
	Limit       int
	Window      time.Duration
	Count       int
	WindowStart time.Time
}

// NewRateGate creates a new RateGate that admits at most limit calls per window.
func NewRateGate(window time.Duration, limit int) (*RateGate, error) {
	return NewRateGateWithOpts(window, limit, Opts{})
}

// NewRateGateWithOpts creates a new RateGate with options.
// For options that are not presented, the default values will be used.
func NewRateGateWithOpts(window time.Duration, limit int, opts Opts) (*RateGate, error) {
	if limit <= 0 || window <= 0 {
		return nil, &ConfigurationError{Limit: limit, Window: window}
	}
	if opts.Clock == nil {
		opts.Clock = WallClock
	}
	if opts.MetricsCollector == nil {
		opts.MetricsCollector = disabledMetrics{}
	}
	return &RateGate{
		limit:       limit,
		window:      window,
		clock:       opts.Clock,
		metrics:     opts.MetricsCollector,
		windowStart: opts.Clock.Now(),
		rolledOver:  make(chan struct{}),
	}, nil
}

// MustNewRateGate creates a new RateGate and panics if parameters are invalid.
func MustNewRateGate(window time.Duration, limit int) *RateGate {
	g, err := NewRateGate(window, limit)
	if err != nil {
		panic(err)
	}
	return g
}

// Limit returns the maximum number of admissions per window.
func (g *RateGate) Limit() int {
	return g.limit
}

// Window returns the window duration.
func (g *RateGate) Window() time.Duration {
	return g.window
}

// Stats returns the current state. It does not reset an elapsed window.
func (g *RateGate) Stats() Stats {
	g.mu.Lock()
	defer g.mu.Unlock()
	return Stats{Limit: g.limit, Window: g.window, Count: g.count, WindowStart: g.windowStart}
}

// Acquire blocks until the caller is admitted or ctx is done.
// It returns nil on admission and *CancellationError (wrapping ctx.Err()) otherwise.
// There is no built-in timeout: use a context with deadline to bound the wait.
func (g *RateGate) Acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		g.metrics.IncCancellations()
		return &CancellationError{Inner: err}
	}

	startedAt := g.clock.Now()
	for {
		admitted, remaining, rolledOver := g.tryAdmit()
		if admitted {
			g.metrics.IncAdmissions()
			g.metrics.ObserveWaitDuration(g.clock.Now().Sub(startedAt))
			return nil
		}

		timer := g.clock.NewTimer(remaining)
		select {
		case <-ctx.Done():
			timer.Stop()
			g.metrics.IncCancellations()
			return &CancellationError{Inner: ctx.Err()}
		case <-rolledOver:
		case <-timer.C():
		}
		timer.Stop()
	}
}

// tryAdmit returns the time left in the current window and the channel closed on the next reset when not admitted.
func (g *RateGate) tryAdmit() (admitted bool, remaining time.Duration, rolledOver <-chan struct{}) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.clock.Now()
	elapsed := now.Sub(g.windowStart)
	if elapsed >= g.window {
		g.count = 0
		g.windowStart = now
		elapsed = 0
		close(g.rolledOver)
		g.rolledOver = make(chan struct{})
		g.metrics.IncRollovers()
	}

	if g.count < g.limit {
		g.count++
		return true, 0, nil
	}
	return false, g.window - elapsed, g.rolledOver
}

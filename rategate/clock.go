/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package rategate

import "time"

// Clock is a source of time for RateGate.
type Clock interface {
	Now() time.Time
	NewTimer(d time.Duration) Timer
}

// Timer is a stoppable one-shot timer created by Clock.
type Timer interface {
	C() <-chan time.Time
	Stop() bool
}

// WallClock is the Clock backed by the time package.
var WallClock Clock = wallClock{}

type wallClock struct{}

func (wallClock) Now() time.Time {
	return time.Now()
}

func (wallClock) NewTimer(d time.Duration) Timer {
	return wallTimer{time.NewTimer(d)}
}

type wallTimer struct {
	t *time.Timer
}

func (wt wallTimer) C() <-chan time.Time {
	return wt.t.C
}

func (wt wallTimer) Stop() bool {
	return wt.t.Stop()
}

/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package service

import (
	"context"
	"errors"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	"github.com/crpt-tools/crptapi/log/logtest"
)

type mockUnit struct {
	startErr  error
	stopErr   error
	started   atomic.Bool
	stoppedAt atomic.Int32
	stopCalls atomic.Int32
}

func newMockUnit() *mockUnit {
	return &mockUnit{}
}

func (u *mockUnit) Start(fatalErr chan<- error) {
	u.started.Store(true)
	if u.startErr != nil {
		fatalErr <- u.startErr
	}
}

func (u *mockUnit) Stop(gracefully bool) error {
	u.stopCalls.Inc()
	if gracefully {
		u.stoppedAt.Store(1)
	}
	return u.stopErr
}

func TestService_Run(t *testing.T) {
	t.Run("stop by context", func(t *testing.T) {
		unit := newMockUnit()
		logger := logtest.NewRecorder()
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- New(logger, unit).Run(ctx) }()
		require.Eventually(t, unit.started.Load, time.Second, time.Millisecond*10)
		cancel()
		require.NoError(t, <-done)
		require.Equal(t, int32(1), unit.stoppedAt.Load())
		_, found := logger.FindEntry("context is done, service will be stopped")
		require.True(t, found)
	})

	t.Run("stop by signal", func(t *testing.T) {
		unit := newMockUnit()
		svc := New(logtest.NewRecorder(), unit)
		done := make(chan error, 1)
		go func() { done <- svc.Run(context.Background()) }()
		require.Eventually(t, unit.started.Load, time.Second, time.Millisecond*10)
		svc.Signals <- syscall.SIGTERM
		require.NoError(t, <-done)
		require.Equal(t, int32(1), unit.stopCalls.Load())
	})

	t.Run("fatal error", func(t *testing.T) {
		unit := newMockUnit()
		unit.startErr = errors.New("address already in use")
		err := NewWithOpts(logtest.NewRecorder(), unit, Opts{}).Run(context.Background())
		require.EqualError(t, err, "fatal error: address already in use")
		require.Equal(t, int32(0), unit.stopCalls.Load())
	})

	t.Run("stop error", func(t *testing.T) {
		unit := newMockUnit()
		unit.stopErr = errors.New("close failed")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := NewWithOpts(logtest.NewRecorder(), unit, Opts{}).Run(ctx)
		require.EqualError(t, err, "stop service gracefully: close failed")
	})
}

func TestCompositeUnit(t *testing.T) {
	t.Run("all started", func(t *testing.T) {
		units := []*mockUnit{newMockUnit(), newMockUnit()}
		cu := NewCompositeUnit(units[0], units[1])
		fatalErr := make(chan error, 1)
		cu.Start(fatalErr)
		require.Len(t, fatalErr, 0)
		require.NoError(t, cu.Stop(true))
		for _, u := range units {
			require.True(t, u.started.Load())
			require.Equal(t, int32(1), u.stoppedAt.Load())
		}
	})

	t.Run("one failed", func(t *testing.T) {
		errStart := errors.New("start failed")
		errStop := errors.New("stop failed")
		failed := newMockUnit()
		failed.startErr = errStart
		other := newMockUnit()
		other.stopErr = errStop
		cu := NewCompositeUnit(failed, other)

		fatalErr := make(chan error, 1)
		cu.Start(fatalErr)
		err := <-fatalErr
		var cuErr *CompositeUnitError
		require.ErrorAs(t, err, &cuErr)
		require.ErrorIs(t, err, errStart)
		require.ErrorIs(t, err, errStop)
		require.Equal(t, int32(1), other.stopCalls.Load())
	})
}

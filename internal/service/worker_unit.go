/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package service

import (
	"context"
	"errors"
	"time"
)

// ErrWorkerUnitStopTimeoutExceeded is returned by a graceful Stop that takes longer than the configured timeout.
var ErrWorkerUnitStopTimeoutExceeded = errors.New("worker unit stop timeout exceeded")

// WorkerUnit presents a Worker as a Unit. Stop cancels the context passed to the worker.
type WorkerUnit struct {
	worker              Worker
	gracefulStopTimeout time.Duration
	ctx                 context.Context
	cancel              context.CancelFunc
	done                chan struct{}
}

var _ Unit = (*WorkerUnit)(nil)

// WorkerUnitOpts contains optional parameters for WorkerUnit.
type WorkerUnitOpts struct {
	// GracefulStopTimeout limits the graceful Stop. Zero means waiting without limit.
	GracefulStopTimeout time.Duration
}

// NewWorkerUnit creates a new WorkerUnit.
func NewWorkerUnit(worker Worker) *WorkerUnit {
	return NewWorkerUnitWithOpts(worker, WorkerUnitOpts{})
}

// NewWorkerUnitWithOpts creates a new WorkerUnit with options.
func NewWorkerUnitWithOpts(worker Worker, opts WorkerUnitOpts) *WorkerUnit {
	ctx, cancel := context.WithCancel(context.Background())
	return &WorkerUnit{
		worker:              worker,
		gracefulStopTimeout: opts.GracefulStopTimeout,
		ctx:                 ctx,
		cancel:              cancel,
		done:                make(chan struct{}),
	}
}

// Start runs the worker and blocks until it returns. A worker error is sent to fatalErr.
func (u *WorkerUnit) Start(fatalErr chan<- error) {
	defer close(u.done)
	if err := u.worker.Run(u.ctx); err != nil {
		fatalErr <- err
	}
}

// Stop cancels the worker. A graceful Stop also waits for the worker to return.
func (u *WorkerUnit) Stop(gracefully bool) error {
	u.cancel()
	if !gracefully {
		return nil
	}
	if u.gracefulStopTimeout == 0 {
		<-u.done
		return nil
	}
	select {
	case <-u.done:
		return nil
	case <-time.After(u.gracefulStopTimeout):
		return ErrWorkerUnitStopTimeoutExceeded
	}
}

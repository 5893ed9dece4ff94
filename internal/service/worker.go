/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/crpt-tools/crptapi/log"
)

// ErrPeriodicWorkerStop may be returned by a worker to end the PeriodicWorker loop.
var ErrPeriodicWorkerStop = errors.New("stop periodic worker")

// Worker performs some (usually long-running) work.
type Worker interface {
	Run(ctx context.Context) error
}

// WorkerFunc is an adapter to allow the use of ordinary functions as Worker.
type WorkerFunc func(ctx context.Context) error

// Run implements Worker.
func (f WorkerFunc) Run(ctx context.Context) error {
	return f(ctx)
}

// PeriodicWorker runs the underlying worker with a pause between runs until the context is done.
// Errors of a run are logged and do not stop the loop.
type PeriodicWorker struct {
	worker       Worker
	logger       log.FieldLogger
	initialDelay time.Duration
	interval     time.Duration
}

// PeriodicWorkerOpts contains optional parameters for PeriodicWorker.
type PeriodicWorkerOpts struct {
	InitialDelay time.Duration
}

// NewPeriodicWorker creates a new PeriodicWorker.
func NewPeriodicWorker(worker Worker, interval time.Duration, logger log.FieldLogger) *PeriodicWorker {
	return NewPeriodicWorkerWithOpts(worker, interval, logger, PeriodicWorkerOpts{})
}

// NewPeriodicWorkerWithOpts creates a new PeriodicWorker with options.
func NewPeriodicWorkerWithOpts(
	worker Worker, interval time.Duration, logger log.FieldLogger, opts PeriodicWorkerOpts,
) *PeriodicWorker {
	return &PeriodicWorker{worker: worker, logger: logger, initialDelay: opts.InitialDelay, interval: interval}
}

// Run runs the loop. It returns nil when the context is done or the worker returns ErrPeriodicWorkerStop.
func (pw *PeriodicWorker) Run(ctx context.Context) (resErr error) {
	defer func() {
		if p := recover(); p != nil {
			const logStackSize = 8192
			stack := make([]byte, logStackSize)
			stack = stack[:runtime.Stack(stack, false)]
			pw.logger.Error(fmt.Sprintf("panic: %+v", p), log.Bytes("stack", stack))
			panic(p)
		}
		pw.logger.Info("periodic worker stopped")
	}()

	pw.logger.Infof("running periodic worker (initialDelay=%s, interval=%s)...", pw.initialDelay, pw.interval)

	timer := time.NewTimer(pw.initialDelay)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
		}

		if err := pw.worker.Run(ctx); err != nil {
			if errors.Is(err, ErrPeriodicWorkerStop) {
				return nil
			}
			pw.logger.Error("periodic worker run failed", log.Error(err))
		}
		timer.Reset(pw.interval)
	}
}

/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package service

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/crpt-tools/crptapi/log"
)

// Opts represents options for Service.
type Opts struct {
	ShutdownSignals []os.Signal
}

// Service starts a unit and stops it gracefully on a shutdown signal or when the context is done.
type Service struct {
	Unit    Unit
	Signals chan os.Signal
	Logger  log.FieldLogger
	Opts    Opts
}

// New creates a Service that stops on SIGINT and SIGTERM.
func New(logger log.FieldLogger, unit Unit) *Service {
	return NewWithOpts(logger, unit, Opts{ShutdownSignals: []os.Signal{syscall.SIGINT, syscall.SIGTERM}})
}

// NewWithOpts is a more configurable version of New.
func NewWithOpts(logger log.FieldLogger, unit Unit, opts Opts) *Service {
	return &Service{Unit: unit, Signals: make(chan os.Signal, 1), Logger: logger, Opts: opts}
}

// Run starts the unit in a separate goroutine and blocks until a fatal error occurs,
// a shutdown signal is received or the context is done.
func (s *Service) Run(ctx context.Context) error {
	fatalErr := make(chan error, 1)
	go s.Unit.Start(fatalErr)

	if len(s.Opts.ShutdownSignals) != 0 {
		signal.Notify(s.Signals, s.Opts.ShutdownSignals...)
		defer signal.Stop(s.Signals)
	}

	select {
	case <-ctx.Done():
		s.Logger.Info("context is done, service will be stopped")
	case sig := <-s.Signals:
		s.Logger.Info("service got signal", log.String("signal", sig.String()))
	case err := <-fatalErr:
		s.Logger.Error("service fatal error", log.Error(err))
		return fmt.Errorf("fatal error: %w", err)
	}

	if err := s.Unit.Stop(true); err != nil {
		return fmt.Errorf("stop service gracefully: %w", err)
	}
	return nil
}

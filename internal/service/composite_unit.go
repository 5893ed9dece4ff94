/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package service

import (
	"strings"
	"sync"

	"go.uber.org/atomic"
)

// CompositeUnit starts and stops several units together.
type CompositeUnit struct {
	Units []Unit
}

var _ Unit = (*CompositeUnit)(nil)

// NewCompositeUnit creates a new composite unit.
func NewCompositeUnit(units ...Unit) *CompositeUnit {
	return &CompositeUnit{units}
}

// Start starts every unit in its own goroutine and blocks until all Start calls return.
// If any unit fails, the rest are stopped non-gracefully and a *CompositeUnitError is sent to fatalErr.
func (cu *CompositeUnit) Start(fatalErr chan<- error) {
	unitErrs := make([]chan error, len(cu.Units))
	for i := range unitErrs {
		unitErrs[i] = make(chan error, 1)
	}

	done := make(chan bool, len(cu.Units))
	var running atomic.Int32
	running.Store(int32(len(cu.Units))) //nolint:gosec // unit count is small
	for i := range cu.Units {
		go func(i int) {
			cu.Units[i].Start(unitErrs[i])
			if len(unitErrs[i]) != 0 {
				done <- false
				return
			}
			if running.Dec() == 0 {
				done <- true
			}
		}(i)
	}

	if len(cu.Units) == 0 || <-done {
		return
	}

	stopErr := cu.Stop(false)

	var errs []error
	for _, unitErr := range unitErrs {
		select {
		case err := <-unitErr:
			errs = append(errs, err)
		default:
		}
	}
	if stopErr != nil {
		errs = append(errs, stopErr.(*CompositeUnitError).UnitErrors...)
	}
	fatalErr <- &CompositeUnitError{errs}
}

// Stop stops all units concurrently and joins their errors into a *CompositeUnitError.
func (cu *CompositeUnit) Stop(gracefully bool) error {
	results := make(chan error, len(cu.Units))

	var wg sync.WaitGroup
	for _, u := range cu.Units {
		wg.Add(1)
		go func(u Unit) {
			defer wg.Done()
			results <- u.Stop(gracefully)
		}(u)
	}
	wg.Wait()
	close(results)

	var errs []error
	for err := range results {
		if err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return &CompositeUnitError{errs}
	}
	return nil
}

// CompositeUnitError joins errors of several units.
type CompositeUnitError struct {
	UnitErrors []error
}

func (e *CompositeUnitError) Error() string {
	msgs := make([]string, 0, len(e.UnitErrors))
	for _, err := range e.UnitErrors {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Unwrap returns the joined errors, so errors.Is and errors.As look into every unit error.
func (e *CompositeUnitError) Unwrap() []error {
	return e.UnitErrors
}

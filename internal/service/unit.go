/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

// Package service runs the long-lived parts of the CLI (the metrics server and the directory watcher)
// as units with a common start/stop lifecycle.
package service

// Unit is a component with its own lifecycle.
type Unit interface {
	// Start runs the unit. It may return immediately or block for the lifetime of the unit.
	// A fatal error is written to fatalErr at most once and the channel is not used after Start returns.
	Start(fatalErr chan<- error)

	// Stop halts the unit. It may be called even if Start failed or was never called.
	Stop(gracefully bool) error
}

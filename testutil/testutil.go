/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

// Package testutil contains assertion helpers shared by the tests of the module.
package testutil

type tHelper interface {
	Helper()
}

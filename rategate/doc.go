/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

// Package rategate provides RateGate, a client-side gate that admits at most N calls
// per fixed time window and blocks the rest until the window rolls over.
//
// The window is reset lazily: there is no background timer, the reset happens when
// a caller arrives (or a blocked caller wakes up) and observes that the window has elapsed.
// Right after a reset up to N callers are admitted with no delay, i.e. the gate
// allows bursts and does not smooth the rate.
//
// Typical usage is to guard an outbound call:
//
//	gate, err := rategate.NewRateGate(time.Minute, 10)
//	if err != nil {
//		return err
//	}
//	if err = gate.Acquire(ctx); err != nil {
//		return err // ctx was cancelled while waiting
//	}
//	resp, err := submitter.Submit(ctx, payload, signature)
package rategate

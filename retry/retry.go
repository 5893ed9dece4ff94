/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

// Package retry runs operations with backoff between attempts.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// IsRetryable defines a func that can tell if error is retryable as opposed to persistent.
type IsRetryable func(error) bool

// RetryableFunc is function that does some work and can be potentially retried.
type RetryableFunc func(ctx context.Context) error

// Notify is called before every retry with the error of the failed attempt and the delay before the next one.
type Notify = backoff.Notify

// Policy defines backoff strategy.
type Policy interface {
	NewBackOff() backoff.BackOff
}

// DoWithRetry executes fn with retry according to policy p and with respect to context ctx.
// IsRetryable defines which errors lead to retry attempt (can be nil for any error).
// Notify can be used to receive notification on every retry with error and backoff delay
// (can be nil if no notifications required).
// The error of the last attempt is returned as is.
func DoWithRetry(ctx context.Context, p Policy, isRetryable IsRetryable, notify Notify, fn RetryableFunc) error {
	bctx := backoff.WithContext(p.NewBackOff(), ctx)
	op := func() error {
		err := fn(bctx.Context())
		if err != nil && isRetryable != nil && !isRetryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	return backoff.RetryNotify(op, bctx, notify)
}

// The PolicyFunc type is an adapter to allow the use of ordinary functions as retry.Policy.
type PolicyFunc func() backoff.BackOff

// NewBackOff implements retry.Policy.
func (f PolicyFunc) NewBackOff() backoff.BackOff {
	return f()
}

// ExponentialBackoffPolicyOpts represents options for ExponentialBackoffPolicy.
type ExponentialBackoffPolicyOpts struct {
	// InitialInterval is the delay before the first retry.
	InitialInterval time.Duration

	// Multiplier grows the delay after every retry. backoff.DefaultMultiplier (1.5) is used if zero.
	Multiplier float64

	// MaxInterval caps the delay. backoff.DefaultMaxInterval is used if zero.
	MaxInterval time.Duration

	// MaxRetryAttempts limits the number of retries. Zero means no limit.
	MaxRetryAttempts int
}

// ExponentialBackoffPolicy means repeat up to max times with exponentially growing delays.
type ExponentialBackoffPolicy struct {
	opts ExponentialBackoffPolicyOpts
}

// NewExponentialBackoffPolicy returns an exponential backoff policy with given initial interval and max retry attempt count.
func NewExponentialBackoffPolicy(initialInterval time.Duration, maxRetryAttempts int) ExponentialBackoffPolicy {
	return NewExponentialBackoffPolicyWithOpts(ExponentialBackoffPolicyOpts{
		InitialInterval:  initialInterval,
		MaxRetryAttempts: maxRetryAttempts,
	})
}

// NewExponentialBackoffPolicyWithOpts returns an exponential backoff policy with the provided options.
func NewExponentialBackoffPolicyWithOpts(opts ExponentialBackoffPolicyOpts) ExponentialBackoffPolicy {
	if opts.Multiplier == 0 {
		opts.Multiplier = backoff.DefaultMultiplier
	}
	if opts.MaxInterval == 0 {
		opts.MaxInterval = backoff.DefaultMaxInterval
	}
	return ExponentialBackoffPolicy{opts}
}

// NewBackOff implements retry.Policy.
func (p ExponentialBackoffPolicy) NewBackOff() backoff.BackOff {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = p.opts.InitialInterval
	eb.Multiplier = p.opts.Multiplier
	eb.MaxInterval = p.opts.MaxInterval
	eb.MaxElapsedTime = 0
	return withMaxRetries(eb, p.opts.MaxRetryAttempts)
}

// ConstantBackoffPolicy means repeat up to max times with constant interval delays.
type ConstantBackoffPolicy struct {
	interval    time.Duration
	maxAttempts int
}

// NewConstantBackoffPolicy returns a constant backoff policy with given interval and max retry attempt count.
func NewConstantBackoffPolicy(interval time.Duration, maxRetryAttempts int) ConstantBackoffPolicy {
	return ConstantBackoffPolicy{interval, maxRetryAttempts}
}

// NewBackOff implements retry.Policy.
func (p ConstantBackoffPolicy) NewBackOff() backoff.BackOff {
	return withMaxRetries(backoff.NewConstantBackOff(p.interval), p.maxAttempts)
}

func withMaxRetries(b backoff.BackOff, maxAttempts int) backoff.BackOff {
	if maxAttempts > 0 {
		b = backoff.WithMaxRetries(b, uint64(maxAttempts))
	}
	b.Reset()
	return b
}

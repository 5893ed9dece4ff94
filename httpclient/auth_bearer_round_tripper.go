/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// AuthBearerRoundTripperError is returned in RoundTrip method of AuthBearerRoundTripper
// when the token cannot be obtained.
type AuthBearerRoundTripperError struct {
	Inner error
}

func (e *AuthBearerRoundTripperError) Error() string {
	return fmt.Sprintf("auth bearer round trip: %s", e.Inner.Error())
}

// Unwrap returns the next error in the error chain.
func (e *AuthBearerRoundTripperError) Unwrap() error {
	return e.Inner
}

// ErrEmptyToken is returned by StaticTokenProvider when no token is configured.
var ErrEmptyToken = errors.New("token is empty")

// AuthProvider provides tokens for bearer authorization.
type AuthProvider interface {
	GetToken(ctx context.Context, scope ...string) (string, error)
}

// AuthProviderInvalidator is implemented by providers that cache tokens.
// Invalidate is called when the registry rejects a token with 401.
type AuthProviderInvalidator interface {
	Invalidate()
}

// AuthProviderFunc is an adapter to allow the use of ordinary functions as AuthProvider.
type AuthProviderFunc func(ctx context.Context, scope ...string) (string, error)

// GetToken implements AuthProvider.
func (f AuthProviderFunc) GetToken(ctx context.Context, scope ...string) (string, error) {
	return f(ctx, scope...)
}

// StaticTokenProvider is an AuthProvider that always returns the same token
// (e.g. the one issued by the registry and put into the configuration).
type StaticTokenProvider string

// GetToken implements AuthProvider.
func (p StaticTokenProvider) GetToken(_ context.Context, _ ...string) (string, error) {
	if p == "" {
		return "", ErrEmptyToken
	}
	return string(p), nil
}

// AuthBearerRoundTripperOpts is options for AuthBearerRoundTripper.
type AuthBearerRoundTripperOpts struct {
	TokenScope []string
}

// AuthBearerRoundTripper implements http.RoundTripper interface
// and sets Authorization HTTP header in all outgoing requests.
type AuthBearerRoundTripper struct {
	Delegate     http.RoundTripper
	AuthProvider AuthProvider
	opts         AuthBearerRoundTripperOpts
}

// NewAuthBearerRoundTripper creates a new AuthBearerRoundTripper.
func NewAuthBearerRoundTripper(delegate http.RoundTripper, authProvider AuthProvider) *AuthBearerRoundTripper {
	return NewAuthBearerRoundTripperWithOpts(delegate, authProvider, AuthBearerRoundTripperOpts{})
}

// NewAuthBearerRoundTripperWithOpts creates a new AuthBearerRoundTripper with options.
func NewAuthBearerRoundTripperWithOpts(delegate http.RoundTripper, authProvider AuthProvider,
	opts AuthBearerRoundTripperOpts) *AuthBearerRoundTripper {
	return &AuthBearerRoundTripper{delegate, authProvider, opts}
}

// RoundTrip executes a single HTTP transaction, returning a Response for the provided Request.
func (rt *AuthBearerRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("Authorization") != "" {
		return rt.Delegate.RoundTrip(req)
	}
	token, err := rt.AuthProvider.GetToken(req.Context(), rt.opts.TokenScope...)
	if err != nil {
		if req.Body != nil {
			_ = req.Body.Close() // Per RoundTripper contract.
		}
		return nil, &AuthBearerRoundTripperError{Inner: err}
	}
	req = req.Clone(req.Context()) // Per RoundTripper contract.
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := rt.Delegate.RoundTrip(req)
	if err == nil && resp.StatusCode == http.StatusUnauthorized {
		if invalidator, ok := rt.AuthProvider.(AuthProviderInvalidator); ok {
			invalidator.Invalidate()
		}
	}
	return resp, err
}

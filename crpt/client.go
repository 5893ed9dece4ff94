/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package crpt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/crpt-tools/crptapi/httpclient"
	"github.com/crpt-tools/crptapi/log"
	"github.com/crpt-tools/crptapi/retry"
)

// Gate admits submissions. *rategate.RateGate implements it.
type Gate interface {
	Acquire(ctx context.Context) error
}

// Response is the result of a successful document submission.
type Response struct {
	// Body is the registry response body.
	Body []byte

	// RequestID is shared by all attempts of the submission.
	RequestID string

	// Attempts is the number of submissions made, including the successful one.
	Attempts int
}

// ClientOpts represents options for Client.
type ClientOpts struct {
	// Logger is used for submission events. Nothing is logged by default.
	Logger log.FieldLogger

	// RetryPolicy enables retries of retryable failures (see IsRetryable). No retries by default.
	RetryPolicy retry.Policy
}

// Client submits documents to the registry through a rate gate.
// It is safe for concurrent use.
type Client struct {
	gate        Gate
	submitter   Submitter
	logger      log.FieldLogger
	retryPolicy retry.Policy
}

// NewClient creates a new Client.
func NewClient(gate Gate, submitter Submitter) *Client {
	return NewClientWithOpts(gate, submitter, ClientOpts{})
}

// NewClientWithOpts creates a new Client with options.
func NewClientWithOpts(gate Gate, submitter Submitter, opts ClientOpts) *Client {
	if opts.Logger == nil {
		opts.Logger = log.NewDisabledLogger()
	}
	return &Client{gate: gate, submitter: submitter, logger: opts.Logger, retryPolicy: opts.RetryPolicy}
}

// CreateDocumentFromJSON parses the document and submits it.
func (c *Client) CreateDocumentFromJSON(ctx context.Context, data []byte, signature string) (*Response, error) {
	doc, err := ParseDocument(data)
	if err != nil {
		return nil, err
	}
	return c.CreateDocument(ctx, doc, signature)
}

// CreateDocument submits the document. Every attempt waits for the rate gate first,
// so the registry never sees more submissions than the gate admits.
// An invalid document fails before any admission.
func (c *Client) CreateDocument(ctx context.Context, doc *Document, signature string) (*Response, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}

	requestID := httpclient.GetRequestIDFromContext(ctx)
	if requestID == "" {
		requestID = httpclient.NewRequestID()
		ctx = httpclient.NewContextWithRequestID(ctx, requestID)
	}
	logger := c.logger.With(log.String("request_id", requestID), log.String("doc_type", doc.DocType))
	ctx = httpclient.NewContextWithLogger(ctx, logger)

	var body []byte
	attempts := 0
	submit := func(ctx context.Context) error {
		attempts++
		waitStartedAt := time.Now()
		if acquireErr := c.gate.Acquire(ctx); acquireErr != nil {
			return acquireErr
		}
		logger.Debug("rate gate admitted document submission",
			log.Int("attempt", attempts), log.DurationIn(time.Since(waitStartedAt), time.Millisecond))
		var submitErr error
		body, submitErr = c.submitter.Submit(ctx, payload, signature)
		return submitErr
	}

	if c.retryPolicy == nil {
		err = submit(ctx)
	} else {
		err = retry.DoWithRetry(ctx, c.retryPolicy, IsRetryable, func(err error, delay time.Duration) {
			logger.Warn("document submission failed, retrying",
				log.Error(err), log.Int("attempt", attempts), log.Duration("delay", delay))
		}, submit)
	}
	if err != nil {
		logger.Error("document submission failed", log.Error(err), log.Int("attempts", attempts))
		return nil, err
	}

	logger.Info("document submitted", log.Int("attempts", attempts))
	return &Response{Body: body, RequestID: requestID, Attempts: attempts}, nil
}

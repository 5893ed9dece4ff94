/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package crpt

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// CreateDocumentPath is the registry endpoint for document creation.
const CreateDocumentPath = "/api/v3/lk/documents/create"

// Submitter sends a serialized document to the registry.
// It is called exactly once per rate gate admission.
type Submitter interface {
	Submit(ctx context.Context, payload []byte, signature string) ([]byte, error)
}

// SubmitterFunc is an adapter to allow the use of ordinary functions as Submitter.
type SubmitterFunc func(ctx context.Context, payload []byte, signature string) ([]byte, error)

// Submit implements Submitter.
func (f SubmitterFunc) Submit(ctx context.Context, payload []byte, signature string) ([]byte, error) {
	return f(ctx, payload, signature)
}

// HTTPSubmitter posts documents to the registry over HTTP.
type HTTPSubmitter struct {
	client   *http.Client
	endpoint string
}

var _ Submitter = (*HTTPSubmitter)(nil)

// NewHTTPSubmitter creates an HTTPSubmitter for the registry at baseURL.
func NewHTTPSubmitter(client *http.Client, baseURL string) (*HTTPSubmitter, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse registry base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("registry base URL must be http or https, got %q", baseURL)
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSubmitter{client: client, endpoint: u.JoinPath(CreateDocumentPath).String()}, nil
}

// Endpoint returns the URL documents are posted to.
func (s *HTTPSubmitter) Endpoint() string {
	return s.endpoint
}

// Submit posts the document and returns the response body.
// The document type is taken from the "doc_type" field of the payload.
func (s *HTTPSubmitter) Submit(ctx context.Context, payload []byte, signature string) ([]byte, error) {
	var head struct {
		DocType string `json:"doc_type"`
	}
	if err := json.Unmarshal(payload, &head); err != nil {
		return nil, &RequestError{fmt.Errorf("decode document payload: %w", err)}
	}
	if head.DocType == "" {
		return nil, &RequestError{errors.New("document payload has no doc_type")}
	}

	body, err := json.Marshal(NewCreateDocumentRequest(payload, signature, head.DocType))
	if err != nil {
		return nil, &RequestError{fmt.Errorf("marshal create document request: %w", err)}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &RequestError{fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send create document request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read create document response: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &ResponseError{StatusCode: resp.StatusCode, Body: respBody}
	}
	return respBody, nil
}

/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package crpt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the JSON representation of Date.
const DateLayout = "2006-01-02"

// Date is a calendar date without time and zone.
// It is encoded as "YYYY-MM-DD" and the zero value is encoded as null.
type Date struct {
	time.Time
}

// NewDate returns the Date for the given year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a date in DateLayout.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{t}, nil
}

// String returns the date in DateLayout or an empty string for the zero value.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// MarshalJSON encodes the date as "YYYY-MM-DD" or null.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(DateLayout) + `"`), nil
}

// UnmarshalJSON decodes the date from "YYYY-MM-DD", from [year, month, day] or from null.
func (d *Date) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*d = Date{}
		return nil
	}
	if len(data) > 0 && data[0] == '[' {
		var parts []int
		if err := json.Unmarshal(data, &parts); err != nil {
			return fmt.Errorf("decode date array: %w", err)
		}
		if len(parts) != 3 {
			return fmt.Errorf("date array must have 3 elements, got %d", len(parts))
		}
		*d = NewDate(parts[0], time.Month(parts[1]), parts[2])
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("decode date: %w", err)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Description holds the document description block.
type Description struct {
	ParticipantInn string `json:"participantInn" validate:"omitempty,numeric,len=10|len=12"`
}

// Product is a single item of the document.
type Product struct {
	CertificateDocument       string `json:"certificate_document"`
	CertificateDocumentDate   Date   `json:"certificate_document_date"`
	CertificateDocumentNumber string `json:"certificate_document_number"`
	OwnerInn                  string `json:"owner_inn" validate:"omitempty,numeric,len=10|len=12"`
	ProducerInn               string `json:"producer_inn" validate:"omitempty,numeric,len=10|len=12"`
	ProductionDate            Date   `json:"production_date"`
	TnvedCode                 string `json:"tnved_code" validate:"omitempty,numeric,len=10"`
	UitCode                   string `json:"uit_code"`
	UituCode                  string `json:"uitu_code"`
}

// Document is a goods introduction document submitted to the registry.
type Document struct {
	Description    *Description `json:"description" validate:"omitempty"`
	DocID          string       `json:"doc_id"`
	DocStatus      string       `json:"doc_status"`
	DocType        string       `json:"doc_type" validate:"required"`
	ImportRequest  bool         `json:"importRequest"`
	OwnerInn       string       `json:"owner_inn" validate:"omitempty,numeric,len=10|len=12"`
	ParticipantInn string       `json:"participant_inn" validate:"omitempty,numeric,len=10|len=12"`
	ProducerInn    string       `json:"producer_inn" validate:"omitempty,numeric,len=10|len=12"`
	ProductionDate Date         `json:"production_date"`
	ProductionType string       `json:"production_type"`
	Products       []Product    `json:"products" validate:"dive"`
	RegDate        Date         `json:"reg_date"`
	RegNumber      string       `json:"reg_number"`
}

// ParseDocument decodes a document from JSON and validates it.
// Unknown fields are rejected.
func ParseDocument(data []byte) (*Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, &RequestError{fmt.Errorf("decode document: %w", err)}
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate checks that the document can be submitted.
func (d *Document) Validate() error {
	return validateStruct(d)
}

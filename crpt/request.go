/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package crpt

import "encoding/base64"

// DocumentFormatManual is the only document format supported by the client.
const DocumentFormatManual = "MANUAL"

// CreateDocumentRequest is the body of the create document request.
type CreateDocumentRequest struct {
	DocumentFormat  string `json:"document_format"`
	ProductDocument string `json:"product_document"`
	Signature       string `json:"signature"`
	Type            string `json:"type"`
}

// NewCreateDocumentRequest builds the request body from the serialized document.
// Both the document and the signature are base64-encoded.
func NewCreateDocumentRequest(payload []byte, signature, docType string) CreateDocumentRequest {
	return CreateDocumentRequest{
		DocumentFormat:  DocumentFormatManual,
		ProductDocument: base64.StdEncoding.EncodeToString(payload),
		Signature:       base64.StdEncoding.EncodeToString([]byte(signature)),
		Type:            docType,
	}
}

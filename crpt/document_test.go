/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package crpt

import (
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func loadTestDocument(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile("testdata/document.json")
	require.NoError(t, err)
	return data
}

func TestParseDocument(t *testing.T) {
	doc, err := ParseDocument(loadTestDocument(t))
	require.NoError(t, err)

	require.Equal(t, "LP_INTRODUCE_GOODS", doc.DocType)
	require.Equal(t, &Description{ParticipantInn: "7701234567"}, doc.Description)
	require.True(t, doc.ImportRequest)
	require.Equal(t, NewDate(2025, time.January, 20), doc.ProductionDate)
	require.Equal(t, NewDate(2025, time.January, 21), doc.RegDate)
	require.Len(t, doc.Products, 1)
	require.Equal(t, "6403990000", doc.Products[0].TnvedCode)
	require.Equal(t, NewDate(2025, time.January, 10), doc.Products[0].CertificateDocumentDate)
}

func TestParseDocument_Errors(t *testing.T) {
	tests := []struct {
		Name       string
		Data       string
		WantFields []string
		WantErr    string
	}{
		{
			Name:       "missing doc_type",
			Data:       `{"doc_id": "doc-1"}`,
			WantFields: []string{"doc_type"},
		},
		{
			Name:       "invalid INN",
			Data:       `{"doc_type": "LP_INTRODUCE_GOODS", "owner_inn": "77AB", "producer_inn": "123"}`,
			WantFields: []string{"owner_inn", "producer_inn"},
		},
		{
			Name:       "invalid product",
			Data:       `{"doc_type": "LP_INTRODUCE_GOODS", "products": [{"tnved_code": "6403"}]}`,
			WantFields: []string{"products[0].tnved_code"},
		},
		{
			Name:       "invalid description",
			Data:       `{"doc_type": "LP_INTRODUCE_GOODS", "description": {"participantInn": "x"}}`,
			WantFields: []string{"description.participantInn"},
		},
		{
			Name:    "unknown field",
			Data:    `{"doc_type": "LP_INTRODUCE_GOODS", "comment": "rush"}`,
			WantErr: `decode document: json: unknown field "comment"`,
		},
		{
			Name:    "invalid date",
			Data:    `{"doc_type": "LP_INTRODUCE_GOODS", "reg_date": "21.01.2025"}`,
			WantErr: `decode document: parsing time "21.01.2025" as "2006-01-02": cannot parse "21.01.2025" as "2006"`,
		},
		{
			Name:    "not a JSON",
			Data:    `doc`,
			WantErr: "decode document: invalid character 'd' looking for beginning of value",
		},
	}
	for i := range tests {
		tt := tests[i]
		t.Run(tt.Name, func(t *testing.T) {
			doc, err := ParseDocument([]byte(tt.Data))
			require.Nil(t, doc)
			if tt.WantErr != "" {
				require.EqualError(t, err, tt.WantErr)
				return
			}
			var validationErr *ValidationError
			require.True(t, errors.As(err, &validationErr), "unexpected error %v", err)
			var gotFields []string
			for _, f := range validationErr.Fields {
				gotFields = append(gotFields, f.Field)
			}
			require.Equal(t, tt.WantFields, gotFields)
		})
	}
}

func TestValidationError(t *testing.T) {
	_, err := ParseDocument([]byte(`{"products": [{"tnved_code": "640399000A"}]}`))
	require.EqualError(t, err, "invalid document: doc_type is required; products[0].tnved_code must contain only digits")
}

func TestDocument_MarshalJSON(t *testing.T) {
	doc := Document{
		DocType:        "LP_INTRODUCE_GOODS",
		ProductionDate: NewDate(2025, time.March, 5),
		Products:       []Product{{UitCode: "0104600439931256"}},
	}
	data, err := json.Marshal(doc)
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &fields))
	require.Equal(t, "2025-03-05", fields["production_date"])
	require.Nil(t, fields["reg_date"])
	require.Nil(t, fields["description"])
	require.Equal(t, false, fields["importRequest"])
	for _, key := range []string{
		"doc_id", "doc_status", "doc_type", "owner_inn", "participant_inn", "producer_inn",
		"production_type", "products", "reg_number",
	} {
		require.Contains(t, fields, key)
	}

	product := fields["products"].([]interface{})[0].(map[string]interface{})
	for _, key := range []string{
		"certificate_document", "certificate_document_date", "certificate_document_number", "owner_inn",
		"producer_inn", "production_date", "tnved_code", "uit_code", "uitu_code",
	} {
		require.Contains(t, product, key)
	}

	parsed, err := ParseDocument(data)
	require.NoError(t, err)
	require.Equal(t, doc.ProductionDate, parsed.ProductionDate)
	require.True(t, parsed.RegDate.IsZero())
}

func TestDate_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		Name    string
		Data    string
		Want    Date
		WantErr bool
	}{
		{Name: "string", Data: `"2024-12-31"`, Want: NewDate(2024, time.December, 31)},
		{Name: "array", Data: `[2024, 2, 29]`, Want: NewDate(2024, time.February, 29)},
		{Name: "null", Data: `null`, Want: Date{}},
		{Name: "short array", Data: `[2024, 2]`, WantErr: true},
		{Name: "number", Data: `20241231`, WantErr: true},
		{Name: "invalid string", Data: `"2024-13-01"`, WantErr: true},
	}
	for i := range tests {
		tt := tests[i]
		t.Run(tt.Name, func(t *testing.T) {
			var d Date
			err := d.UnmarshalJSON([]byte(tt.Data))
			if tt.WantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.Want, d)
		})
	}
}

func TestDate_String(t *testing.T) {
	require.Equal(t, "", Date{}.String())
	require.Equal(t, "2025-01-02", NewDate(2025, time.January, 2).String())
}

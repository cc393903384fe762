package adapters

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/de-tools/bill-atlas/pkg/models/api"
	"github.com/de-tools/bill-atlas/pkg/models/domain"
)

func TestMapAPIDocumentToDomain_Nil(t *testing.T) {
	doc := MapAPIDocumentToDomain(nil)
	require.NotNil(t, doc)
	assert.Empty(t, doc.Entries)
	assert.Equal(t, domain.Summary{}, doc.Summary)
}

func TestDecodeDocument_Aliases(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected func(t *testing.T, doc *domain.BillingDocument)
	}{
		{
			name: "canonical fields",
			input: `{"summary":{"account":"123","invoice":"INV-1","billing_period":"Jan 2025",
				"total_charges":"$10.00","money_amounts":[],"late_fees":[],"previous_balance":[]},
				"entries":[{"name":"Alice","phone":"555-0100","money_amounts":[{"ukey":"total","amount":"$10.00"}]}],
				"pdf_filename":"jan.pdf","total_pages":3}`,
			expected: func(t *testing.T, doc *domain.BillingDocument) {
				assert.Equal(t, "123", doc.Summary.Account)
				assert.Equal(t, "INV-1", doc.Summary.Invoice)
				assert.Equal(t, "Jan 2025", doc.Summary.BillingPeriod)
				assert.Equal(t, "$10.00", doc.Summary.TotalCharges)
				assert.Equal(t, "jan.pdf", doc.FileName)
				assert.Equal(t, 3, doc.TotalPages)
				require.Len(t, doc.Entries, 1)
				assert.Equal(t, domain.EntryKey{Name: "Alice", Phone: "555-0100"}, doc.Entries[0].Key())
			},
		},
		{
			name: "alternate names",
			input: `{"summary":{"account_number":12345,"invoice_number":"INV-2"},
				"billing_period":"Feb 2025","total_charges":42.5,
				"entries":[{"text":"Bob","phone":"555-0101","total_current_charges":"$7.00"}],
				"filename":"feb.pdf"}`,
			expected: func(t *testing.T, doc *domain.BillingDocument) {
				assert.Equal(t, "12345", doc.Summary.Account)
				assert.Equal(t, "INV-2", doc.Summary.Invoice)
				assert.Equal(t, "Feb 2025", doc.Summary.BillingPeriod)
				assert.Equal(t, "42.5", doc.Summary.TotalCharges)
				assert.Equal(t, "feb.pdf", doc.FileName)
				require.Len(t, doc.Entries, 1)
				assert.Equal(t, "Bob", doc.Entries[0].Name)
				assert.Equal(t, "$7.00", doc.Entries[0].TotalCharges)
			},
		},
		{
			name: "summary money items as fallback",
			input: `{"summary":{"money_amounts":[
				{"ukey":"billing_period","amount":"Mar 2025"},
				{"ukey":"total_charges","amount":"$99.00"}]}}`,
			expected: func(t *testing.T, doc *domain.BillingDocument) {
				assert.Equal(t, "Mar 2025", doc.Summary.BillingPeriod)
				assert.Equal(t, "$99.00", doc.Summary.TotalCharges)
			},
		},
		{
			name:  "stored record wrapper",
			input: `{"file_name":"apr.pdf","json_data":"{\"summary\":{\"invoice\":\"INV-4\"}}"}`,
			expected: func(t *testing.T, doc *domain.BillingDocument) {
				assert.Equal(t, "INV-4", doc.Summary.Invoice)
				assert.Equal(t, "apr.pdf", doc.FileName)
			},
		},
		{
			name:  "null values",
			input: `{"summary":{"account":null,"due_date":null},"entries":[{"name":null,"phone":null}]}`,
			expected: func(t *testing.T, doc *domain.BillingDocument) {
				assert.Empty(t, doc.Summary.Account)
				require.Len(t, doc.Entries, 1)
				assert.Empty(t, doc.Entries[0].Name)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := DecodeDocument(strings.NewReader(tt.input))
			require.NoError(t, err)
			tt.expected(t, doc)
		})
	}
}

func TestDecodeDocuments(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		expectedCount int
		expectErr     bool
	}{
		{name: "single", input: `{"summary":{"invoice":"1"}}`, expectedCount: 1},
		{name: "array", input: `[{"summary":{"invoice":"1"}},{"summary":{"invoice":"2"}}]`, expectedCount: 2},
		{name: "envelope", input: `{"success":true,"invoices":[{"json_data":{"summary":{"invoice":"1"}}}]}`, expectedCount: 1},
		{name: "empty", input: ``, expectedCount: 0},
		{name: "null", input: `null`, expectedCount: 0},
		{name: "garbage", input: `nope`, expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs, err := DecodeDocuments(strings.NewReader(tt.input))
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, docs, tt.expectedCount)
		})
	}
}

func TestFlexString(t *testing.T) {
	var doc api.BillingDocument
	_, err := DecodeDocument(strings.NewReader(`{"total_pages":"7"}`))
	require.NoError(t, err)

	require.NoError(t, doc.TotalPages.UnmarshalJSON([]byte(`12`)))
	assert.Equal(t, 12, doc.TotalPages.Int())

	require.NoError(t, doc.TotalPages.UnmarshalJSON([]byte(`{"x":1}`)))
	assert.Equal(t, "", doc.TotalPages.String())
}

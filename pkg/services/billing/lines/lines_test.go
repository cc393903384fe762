package lines

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/de-tools/bill-atlas/pkg/models/domain"
)

func TestBreakdown(t *testing.T) {
	// Given
	doc := &domain.BillingDocument{Entries: []domain.Entry{
		{
			Name:  "Ann",
			Phone: "555-0100",
			MoneyAmounts: []domain.MoneyAmount{
				{UKey: "monthly_charges", Keyword: "Monthly Charges", Amount: "$20.00"},
				{UKey: domain.TotalUKey, Name: "Total Current Charges", Amount: "$20.00"},
			},
		},
		{Name: "O'Brien Jr.", Phone: "555-0101", MoneyAmounts: []domain.MoneyAmount{{UKey: domain.TotalUKey, Amount: "$50.00"}}},
		{Name: "Ann", Phone: "555-0102", MoneyAmounts: []domain.MoneyAmount{{UKey: domain.TotalUKey, Amount: "$5.00"}}},
	}}

	// When
	got := Breakdown(doc)

	// Then
	require.Len(t, got, 3)
	assert.Equal(t, "O'Brien Jr.", got[0].DisplayName)
	assert.Equal(t, "O_Brien_Jr__Line_Details", got[0].ExportFileName)
	assert.Equal(t, "line-detail-card-0", got[0].SectionID)

	assert.Equal(t, "Ann I", got[1].DisplayName)
	assert.Equal(t, "555-0100", got[1].Phone)
	assert.Equal(t, "Ann_I_Line_Details", got[1].ExportFileName)
	assert.Equal(t, "line-detail-card-1", got[1].SectionID)
	require.Len(t, got[1].Items, 2)
	assert.Equal(t, "Monthly Charges", got[1].Items[0].Label)
	assert.False(t, got[1].Items[0].IsTotal)
	assert.True(t, got[1].Items[1].IsTotal)

	assert.Equal(t, "Ann II", got[2].DisplayName)
	assert.Equal(t, "5", got[2].Total.String())
}

func TestBreakdown_Empty(t *testing.T) {
	assert.Empty(t, Breakdown(nil))
	assert.Empty(t, Breakdown(&domain.BillingDocument{}))
}

func TestGroup(t *testing.T) {
	subKeys := []domain.SubKey{
		{Name: "loose one"},
		{Name: "phone", Category: "Equipment", Installment: "12 of 36"},
		{Name: "plan", Category: "Plans"},
		{Name: "case", Category: "Equipment"},
		{Name: "loose two", Installment: " "},
	}

	got := Group(subKeys)

	require.Len(t, got, 3)
	assert.Equal(t, "Equipment", got[0].Category)
	assert.Equal(t, []string{"phone (12 of 36)", "case"}, labels(got[0].Items))
	assert.Equal(t, "Plans", got[1].Category)
	assert.Equal(t, "", got[2].Category)
	assert.Equal(t, []string{"loose one", "loose two"}, labels(got[2].Items))
}

func TestGroup_Empty(t *testing.T) {
	assert.Nil(t, Group(nil))
}

func labels(items []domain.SubKey) []string {
	out := make([]string, 0, len(items))
	for _, i := range items {
		out = append(out, i.Label())
	}
	return out
}

package distribution

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/de-tools/bill-atlas/pkg/models/domain"
)

func line(name, phone, total string) domain.Entry {
	return domain.Entry{
		Name:  name,
		Phone: phone,
		MoneyAmounts: []domain.MoneyAmount{
			{UKey: "monthly_charges", Amount: "$1000.00"},
			{UKey: domain.TotalUKey, Amount: total},
		},
	}
}

func TestCalculate_LateFeeShare(t *testing.T) {
	// Given
	entries := []domain.Entry{line("Ann", "555-0100", "$90.00")}
	lateFees := []domain.LateFee{{Amount: "$10.00"}}

	// When
	got := Calculate(entries, lateFees)

	// Then
	require.Len(t, got, 2)
	assert.Equal(t, "Ann", got[0].Label)
	assert.Equal(t, "90.0", got[0].Percentage)
	assert.Equal(t, Palette[0], got[0].Color)

	assert.Equal(t, LateFeeLabel, got[1].Label)
	assert.Equal(t, LateFeePhone, got[1].Phone)
	assert.Equal(t, "10.0", got[1].Percentage)
	assert.Equal(t, LateFeeColor, got[1].Color)
	assert.True(t, got[1].AccountLevel)
}

func TestCalculate_SumsToHundred(t *testing.T) {
	tests := []struct {
		name   string
		totals []string
	}{
		{name: "thirds", totals: []string{"$1.00", "$1.00", "$1.00"}},
		{name: "sevenths", totals: []string{"$1.00", "$1.00", "$1.00", "$1.00", "$1.00", "$1.00", "$1.00"}},
		{name: "skewed", totals: []string{"$999.99", "$0.01", "$0.02"}},
		{name: "many", totals: manyTotals(40)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var entries []domain.Entry
			for i, total := range tt.totals {
				entries = append(entries, line(fmt.Sprintf("L%d", i), fmt.Sprint(i), total))
			}

			got := Calculate(entries, nil)

			sum := decimal.Zero
			grand := decimal.Zero
			for _, s := range got {
				sum = sum.Add(decimal.RequireFromString(s.Percentage))
				grand = grand.Add(s.Amount)
			}
			assert.True(t, sum.Equal(decimal.NewFromInt(100)), "sum %s", sum)

			for _, s := range got {
				exact := s.Amount.Mul(decimal.NewFromInt(100)).Div(grand)
				diff := decimal.RequireFromString(s.Percentage).Sub(exact).Abs()
				assert.True(t, diff.LessThanOrEqual(decimal.RequireFromString("0.1")), "%s off by %s", s.Label, diff)
			}
		})
	}
}

func TestCalculate_EqualSharesGiveRemainderToFirst(t *testing.T) {
	entries := []domain.Entry{line("A", "1", "$1.00"), line("B", "2", "$1.00"), line("C", "3", "$1.00")}

	got := Calculate(entries, nil)

	require.Len(t, got, 3)
	assert.Equal(t, []string{"33.4", "33.3", "33.3"}, []string{got[0].Percentage, got[1].Percentage, got[2].Percentage})
	assert.Equal(t, "A", got[0].Label)
}

func TestCalculate_DropsNonPositiveAndSorts(t *testing.T) {
	entries := []domain.Entry{
		line("Small", "1", "$5.00"),
		line("Zero", "2", "$0.00"),
		line("Credit", "3", "-$3.00"),
		line("Big", "4", "$15.00"),
		{Name: "No total", Phone: "5", TotalCharges: "$50.00"},
	}

	got := Calculate(entries, []domain.LateFee{{Amount: "$0.00"}})

	require.Len(t, got, 2)
	assert.Equal(t, "Big", got[0].Label)
	assert.Equal(t, "75.0", got[0].Percentage)
	assert.Equal(t, "Small", got[1].Label)
	assert.Equal(t, "25.0", got[1].Percentage)
	assert.Equal(t, Palette[1], got[1].Color)
}

func TestCalculate_DisambiguatesBeforeSort(t *testing.T) {
	entries := []domain.Entry{
		line("Ann", "1", "$1.00"),
		line("Ann", "2", "$9.00"),
	}

	got := Calculate(entries, nil)

	require.Len(t, got, 2)
	assert.Equal(t, "Ann II", got[0].Label)
	assert.Equal(t, "Ann I", got[1].Label)
}

func TestCalculate_Empty(t *testing.T) {
	assert.Empty(t, Calculate(nil, nil))
}

func TestCalculate_PaletteCycles(t *testing.T) {
	var entries []domain.Entry
	for i := 0; i < len(Palette)+2; i++ {
		entries = append(entries, line(fmt.Sprintf("L%02d", i), "", fmt.Sprintf("$%d.00", 100-i)))
	}

	got := Calculate(entries, nil)

	require.Len(t, got, len(Palette)+2)
	assert.Equal(t, Palette[0], got[len(Palette)].Color)
	assert.Equal(t, Palette[1], got[len(Palette)+1].Color)
}

func manyTotals(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("$%d.%02d", i+1, (i*37)%100)
	}
	return out
}

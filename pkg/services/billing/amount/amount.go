package amount

import (
	"regexp"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

const Currency = money.USD

var nonNumeric = regexp.MustCompile(`[^0-9.\-]`)

// Parse reads a currency formatted string such as "$1,234.56" or "-$20.00".
// Anything that does not survive the cleanup yields zero.
func Parse(s string) decimal.Decimal {
	d, ok := TryParse(s)
	if !ok {
		return decimal.Zero
	}
	return d
}

func TryParse(s string) (decimal.Decimal, bool) {
	cleaned := nonNumeric.ReplaceAllString(s, "")
	if cleaned == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// Format renders d as USD with the sign ahead of the symbol: -$10.00.
func Format(d decimal.Decimal) string {
	cents := d.Shift(2).Round(0).IntPart()
	return money.New(cents, Currency).Display()
}

func Sum(values ...string) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(Parse(v))
	}
	return total
}

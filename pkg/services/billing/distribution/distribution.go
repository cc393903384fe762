package distribution

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/de-tools/bill-atlas/pkg/models/domain"
	"github.com/de-tools/bill-atlas/pkg/services/billing/amount"
	"github.com/de-tools/bill-atlas/pkg/services/billing/charges"
	"github.com/de-tools/bill-atlas/pkg/services/billing/naming"
)

const (
	LateFeeLabel = "Late Fees & Account Charges"
	LateFeePhone = "Account Level"
	LateFeeColor = "#FF0033"
)

var Palette = []string{
	"#0066FF", "#FFCC00", "#FF6600", "#9966FF", "#00CCFF", "#FFDD00", "#FF3366",
	"#66FF33", "#FF9900", "#6633FF", "#33FF99", "#FF0099", "#00FF66", "#00FF99",
	"#FF6633", "#3399FF", "#FFFF00", "#FF0066", "#66FFFF", "#FF3300", "#00FFFF",
}

var thousand = decimal.NewFromInt(1000)

// Calculate splits the document total across lines and account level
// charges. Only positive slices are kept; their percentages add up to 100.0.
// Shares are apportioned by largest remainder rather than rounded one by one,
// so three equal lines read 33.4, 33.3, 33.3 instead of 33.3 each.
func Calculate(entries []domain.Entry, lateFees []domain.LateFee) []domain.DistributionSlice {
	named := naming.Apply(entries, func(e domain.Entry) string { return e.Name })

	slices := make([]domain.DistributionSlice, 0, len(entries)+1)
	for _, n := range named {
		slices = append(slices, domain.DistributionSlice{
			Label:  n.DisplayName,
			Phone:  n.Item.Phone,
			Amount: amount.Parse(n.Item.TotalItemAmount()),
		})
	}
	if fees := charges.LateFeeTotal(lateFees); fees.IsPositive() {
		slices = append(slices, domain.DistributionSlice{
			Label:        LateFeeLabel,
			Phone:        LateFeePhone,
			Amount:       fees,
			AccountLevel: true,
		})
	}

	kept := slices[:0]
	for _, s := range slices {
		if s.Amount.IsPositive() {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		return []domain.DistributionSlice{}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Amount.GreaterThan(kept[j].Amount)
	})

	tenths := percentTenths(kept)
	for i := range kept {
		kept[i].Percentage = fmt.Sprintf("%d.%d", tenths[i]/10, tenths[i]%10)
		if kept[i].AccountLevel {
			kept[i].Color = LateFeeColor
		} else {
			kept[i].Color = Palette[i%len(Palette)]
		}
	}
	return kept
}

// percentTenths apportions 1000 tenths of a percent by largest remainder.
func percentTenths(slices []domain.DistributionSlice) []int64 {
	total := decimal.Zero
	for _, s := range slices {
		total = total.Add(s.Amount)
	}

	out := make([]int64, len(slices))
	remainders := make([]decimal.Decimal, len(slices))
	var assigned int64
	for i, s := range slices {
		exact := s.Amount.Mul(thousand).Div(total)
		floor := exact.Floor()
		out[i] = floor.IntPart()
		remainders[i] = exact.Sub(floor)
		assigned += out[i]
	}

	order := make([]int, len(slices))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return remainders[order[a]].GreaterThan(remainders[order[b]])
	})
	for k := 0; assigned < 1000 && k < len(order); k++ {
		out[order[k]]++
		assigned++
	}
	return out
}

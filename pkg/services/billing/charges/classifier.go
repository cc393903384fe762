package charges

import (
	"github.com/shopspring/decimal"

	"github.com/de-tools/bill-atlas/pkg/models/domain"
	"github.com/de-tools/bill-atlas/pkg/services/billing/amount"
)

const GrandTotalLabel = "Charges Grand Total (Balance Forward + Current Charges Due)"

// Classify groups a flat summary table into root nodes with their children,
// followed by the items that belong nowhere. Known children whose root is
// absent are dropped. Input order is preserved within each group.
func Classify(items []domain.SummaryItem, lateFees []domain.LateFee, t Taxonomy) domain.Hierarchy {
	h := domain.Hierarchy{Title: title(items, t)}
	if len(items) == 0 {
		return h
	}

	rootIndex := make(map[string]int)
	var roots []domain.ChargeNode
	for _, item := range items {
		if !t.isRoot(item.UKey) {
			continue
		}
		if _, dup := rootIndex[item.UKey]; !dup {
			rootIndex[item.UKey] = len(roots)
		}
		roots = append(roots, node(item))
	}

	annotation := lateFeeAnnotation(lateFees)
	var orphans []domain.ChargeNode
	for _, item := range items {
		if t.isRoot(item.UKey) {
			continue
		}
		n := node(item)
		if t.AnnotateUKey != "" && item.UKey == t.AnnotateUKey && annotation != nil {
			a := *annotation
			n.LateFees = &a
		}
		if parent, ok := t.parentOf(item.UKey); ok {
			// a known child without its root is not shown
			if idx, present := rootIndex[parent]; present {
				roots[idx].Children = append(roots[idx].Children, n)
			}
			continue
		}
		orphans = append(orphans, n)
	}

	h.Nodes = append(roots, orphans...)

	if len(t.TotalKeys) > 0 {
		total := decimal.Zero
		for _, r := range roots {
			if t.isTotalKey(r.UKey) {
				total = total.Add(r.Value)
			}
		}
		if annotation != nil {
			total = total.Add(annotation.TotalLateFees)
		}
		h.HasGrandTotal = true
		h.GrandTotal = total
		h.GrandTotalDisplay = amount.Format(total)
	}
	return h
}

// LateFeeTotal sums every late fee amount.
func LateFeeTotal(lateFees []domain.LateFee) decimal.Decimal {
	total := decimal.Zero
	for _, fee := range lateFees {
		total = total.Add(amount.Parse(fee.Amount))
	}
	return total
}

func lateFeeAnnotation(lateFees []domain.LateFee) *domain.LateFeeAnnotation {
	if len(lateFees) == 0 {
		return nil
	}
	return &domain.LateFeeAnnotation{
		HasLateFees:   true,
		TotalLateFees: LateFeeTotal(lateFees),
		LateFeeCount:  len(lateFees),
	}
}

func node(item domain.SummaryItem) domain.ChargeNode {
	sentence := item.Sentence
	if sentence == "" {
		sentence = item.Name
	}
	return domain.ChargeNode{
		UKey:     item.UKey,
		Sentence: sentence,
		Amount:   item.Amount,
		Value:    amount.Parse(item.Amount),
		Date:     item.Date,
	}
}

func title(items []domain.SummaryItem, t Taxonomy) string {
	if t.DetailTitle == "" {
		return t.Title
	}
	for _, item := range items {
		for _, k := range t.DetailKeys {
			if item.UKey == k {
				return t.DetailTitle
			}
		}
	}
	return t.Title
}

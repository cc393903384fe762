package lines

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/de-tools/bill-atlas/pkg/models/domain"
	"github.com/de-tools/bill-atlas/pkg/services/billing/amount"
	"github.com/de-tools/bill-atlas/pkg/services/billing/naming"
)

const (
	CardIDPrefix       = "line-detail-card-"
	AccountLevelCardID = "account-level-charges-card"
	exportFileSuffix   = "_Line_Details"
)

var unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9]`)

// Breakdown builds one detail card per billed line, largest total first.
func Breakdown(doc *domain.BillingDocument) []domain.LineDetail {
	if doc == nil || len(doc.Entries) == 0 {
		return []domain.LineDetail{}
	}

	named := naming.Apply(doc.Entries, func(e domain.Entry) string { return e.Name })
	out := make([]domain.LineDetail, 0, len(named))
	for _, n := range named {
		out = append(out, domain.LineDetail{
			DisplayName:    n.DisplayName,
			Name:           n.Item.Name,
			Phone:          n.Item.Phone,
			Total:          amount.Parse(n.Item.TotalItemAmount()),
			Items:          items(n.Item.MoneyAmounts),
			ExportFileName: ExportFileName(n.DisplayName),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total.GreaterThan(out[j].Total)
	})
	for i := range out {
		out[i].SectionID = CardID(i)
	}
	return out
}

func CardID(index int) string {
	return fmt.Sprintf("%s%d", CardIDPrefix, index)
}

// ExportFileName maps a display name to a file system safe base name.
func ExportFileName(displayName string) string {
	return unsafeFileChars.ReplaceAllString(displayName, "_") + exportFileSuffix
}

func items(amounts []domain.MoneyAmount) []domain.LineItem {
	out := make([]domain.LineItem, 0, len(amounts))
	for _, m := range amounts {
		out = append(out, domain.LineItem{
			UKey:      m.UKey,
			Label:     m.Label(),
			Amount:    m.Amount,
			IsTotal:   m.UKey == domain.TotalUKey,
			Groups:    Group(m.SubKeys),
			HasDetail: len(m.SubKeys) > 0,
		})
	}
	return out
}

// Group buckets sub items by category in first seen order. Items without a
// category form the last group.
func Group(subKeys []domain.SubKey) []domain.SubKeyGroup {
	if len(subKeys) == 0 {
		return nil
	}

	var (
		groups        []domain.SubKeyGroup
		index         = make(map[string]int)
		uncategorized []domain.SubKey
	)
	for _, sk := range subKeys {
		if sk.Category == "" {
			uncategorized = append(uncategorized, sk)
			continue
		}
		i, ok := index[sk.Category]
		if !ok {
			i = len(groups)
			index[sk.Category] = i
			groups = append(groups, domain.SubKeyGroup{Category: sk.Category})
		}
		groups[i].Items = append(groups[i].Items, sk)
	}
	if len(uncategorized) > 0 {
		groups = append(groups, domain.SubKeyGroup{Items: uncategorized})
	}
	return groups
}

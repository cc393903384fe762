package series

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/de-tools/bill-atlas/pkg/models/domain"
	"github.com/de-tools/bill-atlas/pkg/services/billing/amount"
	"github.com/de-tools/bill-atlas/pkg/services/billing/naming"
	"github.com/de-tools/bill-atlas/pkg/services/billing/period"
)

// EntitySeriesSet holds one gap free series per entity over a shared month grid.
type EntitySeriesSet struct {
	Periods []domain.BillingPeriodToken
	Series  []domain.EntitySeries
}

// Overall builds one point per document, ordered by billing period.
func Overall(docs []*domain.BillingDocument) []domain.OverallPoint {
	out := make([]domain.OverallPoint, 0, len(docs))
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		out = append(out, domain.OverallPoint{
			Period:  period.Normalize(doc.Summary.BillingPeriod),
			Total:   amount.Parse(doc.Summary.TotalCharges),
			Account: doc.Summary.Account,
			Invoice: doc.Summary.Invoice,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Period.TimestampMs < out[j].Period.TimestampMs
	})
	return out
}

// EntryTotal is the parsed line total of an entry, zero when absent.
func EntryTotal(e domain.Entry) decimal.Decimal {
	raw, ok := e.TotalAmount()
	if !ok {
		return decimal.Zero
	}
	return amount.Parse(raw)
}

// PerEntity emits a value for every entity in every month between the
// earliest and latest dated billing period. Months without data are zero.
func PerEntity(docs []*domain.BillingDocument) EntitySeriesSet {
	var (
		entities []domain.EntryKey
		known    = make(map[domain.EntryKey]bool)
		values   = make(map[domain.EntryKey]map[int64]decimal.Decimal)
		earliest domain.BillingPeriodToken
		latest   domain.BillingPeriodToken
	)

	for _, doc := range docs {
		if doc == nil {
			continue
		}
		tok := period.Normalize(doc.Summary.BillingPeriod)
		if tok.Dated() {
			if !earliest.Dated() || tok.TimestampMs < earliest.TimestampMs {
				earliest = tok
			}
			if !latest.Dated() || tok.TimestampMs > latest.TimestampMs {
				latest = tok
			}
		}

		for _, entry := range doc.Entries {
			key := entry.Key()
			if !known[key] {
				known[key] = true
				entities = append(entities, key)
				values[key] = make(map[int64]decimal.Decimal)
			}
			if !tok.Dated() {
				continue
			}
			if _, exists := values[key][tok.TimestampMs]; exists {
				continue
			}
			values[key][tok.TimestampMs] = EntryTotal(entry)
		}
	}

	set := EntitySeriesSet{Periods: period.MonthRange(earliest, latest)}
	named := naming.Apply(entities, func(k domain.EntryKey) string { return k.Name })
	for _, n := range named {
		s := domain.EntitySeries{
			Entity: domain.Entity{Name: n.Item.Name, Phone: n.Item.Phone, DisplayName: n.DisplayName},
			Points: make([]domain.SeriesPoint, 0, len(set.Periods)),
		}
		for _, p := range set.Periods {
			v, ok := values[n.Item][p.TimestampMs]
			if !ok {
				v = decimal.Zero
			}
			s.Points = append(s.Points, domain.SeriesPoint{Period: p, Value: v})
		}
		set.Series = append(set.Series, s)
	}
	return set
}

// Points flattens the set into chart points, entity by entity.
func (s EntitySeriesSet) Points() []domain.ChartPoint {
	out := make([]domain.ChartPoint, 0, len(s.Series)*len(s.Periods))
	for _, es := range s.Series {
		for _, p := range es.Points {
			out = append(out, domain.ChartPoint{
				Period: p.Period.Label,
				Value:  p.Value.InexactFloat64(),
				Entity: es.Entity.DisplayName,
			})
		}
	}
	return out
}

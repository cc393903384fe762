package domain

import "github.com/shopspring/decimal"

type OverallPoint struct {
	Period  BillingPeriodToken
	Total   decimal.Decimal
	Account string
	Invoice string
}

type Entity struct {
	Name        string
	Phone       string
	DisplayName string
}

type SeriesPoint struct {
	Period BillingPeriodToken
	Value  decimal.Decimal
}

type EntitySeries struct {
	Entity Entity
	Points []SeriesPoint
}

// ChartPoint is the flat shape handed to the chart collaborator.
type ChartPoint struct {
	Period string
	Value  float64
	Entity string
}

type BillRow struct {
	Invoice       string
	BillingPeriod string
	TotalCharges  string
}

type History struct {
	Account  string
	Overall  []OverallPoint
	Periods  []BillingPeriodToken
	Entities []EntitySeries
	Points   []ChartPoint
	Bills    []BillRow
}

func (h *History) Empty() bool {
	return h == nil || (len(h.Overall) == 0 && len(h.Entities) == 0)
}

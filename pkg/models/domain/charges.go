package domain

import "github.com/shopspring/decimal"

// ChargeNode is one row of a charge hierarchy. Built per render, never stored.
type ChargeNode struct {
	UKey     string
	Sentence string
	Amount   string          // original amount string, rendered as is
	Value    decimal.Decimal // parsed amount, zero when unparseable
	Date     string
	Children []ChargeNode
	LateFees *LateFeeAnnotation
}

type LateFeeAnnotation struct {
	HasLateFees   bool
	TotalLateFees decimal.Decimal
	LateFeeCount  int
}

type Hierarchy struct {
	Title             string
	Nodes             []ChargeNode
	HasGrandTotal     bool
	GrandTotal        decimal.Decimal
	GrandTotalDisplay string
}

type DistributionSlice struct {
	Label        string
	Phone        string
	Amount       decimal.Decimal
	Percentage   string // one decimal, "12.5"
	Color        string
	AccountLevel bool
}

type LineItem struct {
	UKey      string
	Label     string
	Amount    string
	IsTotal   bool
	Groups    []SubKeyGroup
	HasDetail bool
}

type SubKeyGroup struct {
	Category string
	Items    []SubKey
}

type LineDetail struct {
	DisplayName    string
	Name           string
	Phone          string
	Total          decimal.Decimal
	Items          []LineItem
	ExportFileName string
	SectionID      string
}

// InvoiceSummary is everything the results view renders for one document.
type InvoiceSummary struct {
	Account             string
	Invoice             string
	BillingPeriod       string
	DueDate             string
	TotalCharges        string
	Payments            Hierarchy
	Charges             Hierarchy
	Distribution        []DistributionSlice
	Lines               []LineDetail
	AccountLevelCharges []LateFee
	FileName            string
	TotalPages          int
	Text                string
}

func (s *InvoiceSummary) Empty() bool {
	return s == nil || (len(s.Payments.Nodes) == 0 && len(s.Charges.Nodes) == 0 && len(s.Lines) == 0)
}

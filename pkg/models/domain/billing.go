package domain

import "strings"

// BillingDocument is one parsed invoice as normalized at the input boundary.
type BillingDocument struct {
	Summary    Summary
	Entries    []Entry
	Text       string
	FileName   string
	TotalPages int
}

type Summary struct {
	Account         string
	Invoice         string
	BillingPeriod   string
	DueDate         string
	TotalCharges    string
	MoneyAmounts    []SummaryItem
	LateFees        []LateFee
	PreviousBalance []SummaryItem
}

// SummaryItem is a flat charge/credit row from the bill summary or the
// previous balance table.
type SummaryItem struct {
	UKey       string
	Sentence   string
	Name       string
	Amount     string // "$1,234.56"
	Type       string
	Date       string // mm/dd/yy, previous balance rows only
	HeaderType string
}

type LateFee struct {
	UKey     string
	Sentence string
	Name     string
	Amount   string
}

// Entry is one billed line.
type Entry struct {
	Name         string
	Phone        string
	TotalCharges string
	MoneyAmounts []MoneyAmount
}

type EntryKey struct {
	Name  string
	Phone string
}

func (e Entry) Key() EntryKey {
	return EntryKey{Name: e.Name, Phone: e.Phone}
}

type MoneyAmount struct {
	UKey    string
	Keyword string
	Name    string
	Amount  string
	SubKeys []SubKey
}

// Label returns the display label of the item.
func (m MoneyAmount) Label() string {
	if m.Name != "" {
		return m.Name
	}
	if m.Keyword != "" {
		return m.Keyword
	}
	return "Charge"
}

type SubKey struct {
	UKey        string
	Keyword     string
	Name        string
	Amount      string
	Category    string
	Installment string
	Expiration  string
	DateRange   string
	Text        string
}

func (s SubKey) Label() string {
	label := s.Name
	if label == "" {
		label = s.Keyword
	}
	if label == "" {
		label = "Sub Item"
	}
	if inst := strings.TrimSpace(s.Installment); inst != "" {
		label += " (" + inst + ")"
	}
	return label
}

const (
	TotalUKey           = "total"
	TotalCurrentCharges = "Total Current Charges"
)

// TotalAmount locates the raw amount string holding the line total.
// The "total" money item wins, then the explicit total field, then a nested
// search through sub items. The boolean is false when nothing was found.
func (e Entry) TotalAmount() (string, bool) {
	for _, m := range e.MoneyAmounts {
		if m.UKey == TotalUKey && m.Amount != "" {
			return m.Amount, true
		}
	}
	if e.TotalCharges != "" {
		return e.TotalCharges, true
	}
	for _, m := range e.MoneyAmounts {
		if m.Keyword == TotalCurrentCharges && m.Amount != "" {
			return m.Amount, true
		}
		for _, sk := range m.SubKeys {
			if (sk.UKey == TotalUKey || sk.Keyword == TotalCurrentCharges) && sk.Amount != "" {
				return sk.Amount, true
			}
		}
	}
	return "", false
}

// TotalItemAmount returns only the "total" keyed money item amount.
func (e Entry) TotalItemAmount() string {
	for _, m := range e.MoneyAmounts {
		if m.UKey == TotalUKey {
			return m.Amount
		}
	}
	return ""
}

// BillingPeriodToken is the canonical, sortable form of a billing period.
type BillingPeriodToken struct {
	Label       string
	TimestampMs int64
}

// Dated reports whether the token could be placed on a calendar.
func (t BillingPeriodToken) Dated() bool {
	return t.TimestampMs != 0
}

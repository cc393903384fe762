package store

import "time"

// BillingRecord is one cached invoice. Payload keeps the document exactly as
// it was received.
type BillingRecord struct {
	Invoice       string
	Account       string
	BillingPeriod string
	PeriodMs      int64
	FileName      string
	Payload       []byte
	LoadedAt      time.Time
}

type ExportRecord struct {
	Invoice   string
	Section   string
	FileName  string
	Location  string
	Pages     int
	CreatedAt time.Time
}

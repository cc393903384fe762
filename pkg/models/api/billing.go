package api

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// FlexString accepts a JSON string, number, bool or null.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	if data[0] == '{' || data[0] == '[' {
		// objects are not scalar values, treat as absent
		*f = ""
		return nil
	}
	*f = FlexString(data)
	return nil
}

func (f FlexString) String() string {
	return string(f)
}

func (f FlexString) Int() int {
	n, err := strconv.Atoi(string(f))
	if err != nil {
		return 0
	}
	return n
}

// BillingDocument is the wire form of a parsed invoice. Several producers
// emit the same document under different field names; all of them land here
// and are reconciled by the adapters package.
type BillingDocument struct {
	Summary       *Summary        `json:"summary"`
	Entries       []Entry         `json:"entries"`
	Text          string          `json:"text"`
	BillingPeriod FlexString      `json:"billing_period"`
	TotalCharges  FlexString      `json:"total_charges"`
	PDFFilename   string          `json:"pdf_filename"`
	Filename      string          `json:"filename"`
	FileName      string          `json:"file_name"`
	Name          string          `json:"name"`
	TotalPages    FlexString      `json:"total_pages"`
	JSONData      json.RawMessage `json:"json_data"`
}

type Summary struct {
	Account         FlexString    `json:"account"`
	AccountNumber   FlexString    `json:"account_number"`
	Invoice         FlexString    `json:"invoice"`
	InvoiceNumber   FlexString    `json:"invoice_number"`
	BillingPeriod   FlexString    `json:"billing_period"`
	DueDate         FlexString    `json:"due_date"`
	TotalCharges    FlexString    `json:"total_charges"`
	MoneyAmounts    []SummaryItem `json:"money_amounts"`
	LateFees        []LateFee     `json:"late_fees"`
	PreviousBalance []SummaryItem `json:"previous_balance"`
}

type SummaryItem struct {
	UKey       string     `json:"ukey"`
	Sentence   string     `json:"sentence"`
	Name       string     `json:"name"`
	Amount     FlexString `json:"amount"`
	Type       string     `json:"type"`
	Date       string     `json:"date"`
	HeaderType string     `json:"header_type"`
}

type LateFee struct {
	UKey     string     `json:"ukey"`
	Sentence string     `json:"sentence"`
	Name     string     `json:"name"`
	Amount   FlexString `json:"amount"`
}

type Entry struct {
	Name                FlexString    `json:"name"`
	Text                FlexString    `json:"text"`
	Phone               FlexString    `json:"phone"`
	TotalCharges        FlexString    `json:"total_charges"`
	TotalCurrentCharges FlexString    `json:"total_current_charges"`
	MoneyAmounts        []MoneyAmount `json:"money_amounts"`
}

type MoneyAmount struct {
	UKey    string     `json:"ukey"`
	Keyword string     `json:"keyword"`
	Name    string     `json:"name"`
	Amount  FlexString `json:"amount"`
	SubKeys []SubKey   `json:"sub_keys"`
}

type SubKey struct {
	UKey        string     `json:"ukey"`
	Keyword     string     `json:"keyword"`
	Name        string     `json:"name"`
	Amount      FlexString `json:"amount"`
	Category    string     `json:"category"`
	Installment FlexString `json:"installment"`
	Expiration  FlexString `json:"expiration"`
	DateRange   FlexString `json:"date_range"`
	Text        string     `json:"text"`
}

// HistoryEnvelope is the account history response of the upstream service.
type HistoryEnvelope struct {
	Success  bool              `json:"success"`
	Invoices []json.RawMessage `json:"invoices"`
}

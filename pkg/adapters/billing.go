package adapters

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/de-tools/bill-atlas/pkg/models/api"
	"github.com/de-tools/bill-atlas/pkg/models/domain"
)

const (
	ukeyBillingPeriod = "billing_period"
	ukeyTotalCharges  = "total_charges"
)

// MapAPIDocumentToDomain reconciles every known field alias into the
// canonical document. A nil document maps to an empty one.
func MapAPIDocumentToDomain(doc *api.BillingDocument) *domain.BillingDocument {
	if doc == nil {
		return &domain.BillingDocument{}
	}
	if inner := unwrapJSONData(doc.JSONData); inner != nil {
		mapped := MapAPIDocumentToDomain(inner)
		if mapped.FileName == "" {
			mapped.FileName = fileName(doc)
		}
		return mapped
	}

	out := &domain.BillingDocument{
		Text:       doc.Text,
		FileName:   fileName(doc),
		TotalPages: doc.TotalPages.Int(),
	}
	if doc.Summary != nil {
		out.Summary = mapSummary(doc.Summary)
	}
	if out.Summary.BillingPeriod == "" {
		out.Summary.BillingPeriod = strings.TrimSpace(doc.BillingPeriod.String())
	}
	if out.Summary.TotalCharges == "" {
		out.Summary.TotalCharges = strings.TrimSpace(doc.TotalCharges.String())
	}
	if out.Summary.BillingPeriod == "" {
		out.Summary.BillingPeriod = summaryAmount(out.Summary.MoneyAmounts, ukeyBillingPeriod)
	}
	if out.Summary.TotalCharges == "" {
		out.Summary.TotalCharges = summaryAmount(out.Summary.MoneyAmounts, ukeyTotalCharges)
	}

	out.Entries = make([]domain.Entry, 0, len(doc.Entries))
	for _, e := range doc.Entries {
		out.Entries = append(out.Entries, mapEntry(e))
	}
	return out
}

func mapSummary(s *api.Summary) domain.Summary {
	out := domain.Summary{
		Account:       firstNonEmpty(s.Account.String(), s.AccountNumber.String()),
		Invoice:       firstNonEmpty(s.Invoice.String(), s.InvoiceNumber.String()),
		BillingPeriod: strings.TrimSpace(s.BillingPeriod.String()),
		DueDate:       strings.TrimSpace(s.DueDate.String()),
		TotalCharges:  strings.TrimSpace(s.TotalCharges.String()),
	}
	for _, item := range s.MoneyAmounts {
		out.MoneyAmounts = append(out.MoneyAmounts, mapSummaryItem(item))
	}
	for _, item := range s.PreviousBalance {
		out.PreviousBalance = append(out.PreviousBalance, mapSummaryItem(item))
	}
	for _, fee := range s.LateFees {
		out.LateFees = append(out.LateFees, domain.LateFee{
			UKey:     fee.UKey,
			Sentence: fee.Sentence,
			Name:     fee.Name,
			Amount:   fee.Amount.String(),
		})
	}
	return out
}

func mapSummaryItem(item api.SummaryItem) domain.SummaryItem {
	return domain.SummaryItem{
		UKey:       item.UKey,
		Sentence:   item.Sentence,
		Name:       item.Name,
		Amount:     item.Amount.String(),
		Type:       item.Type,
		Date:       item.Date,
		HeaderType: item.HeaderType,
	}
}

func mapEntry(e api.Entry) domain.Entry {
	out := domain.Entry{
		Name:         strings.TrimSpace(firstNonEmpty(e.Name.String(), e.Text.String())),
		Phone:        strings.TrimSpace(e.Phone.String()),
		TotalCharges: firstNonEmpty(e.TotalCharges.String(), e.TotalCurrentCharges.String()),
	}
	for _, m := range e.MoneyAmounts {
		ma := domain.MoneyAmount{
			UKey:    m.UKey,
			Keyword: m.Keyword,
			Name:    m.Name,
			Amount:  m.Amount.String(),
		}
		for _, sk := range m.SubKeys {
			ma.SubKeys = append(ma.SubKeys, domain.SubKey{
				UKey:        sk.UKey,
				Keyword:     sk.Keyword,
				Name:        sk.Name,
				Amount:      sk.Amount.String(),
				Category:    strings.TrimSpace(sk.Category),
				Installment: sk.Installment.String(),
				Expiration:  sk.Expiration.String(),
				DateRange:   sk.DateRange.String(),
				Text:        sk.Text,
			})
		}
		out.MoneyAmounts = append(out.MoneyAmounts, ma)
	}
	return out
}

func fileName(doc *api.BillingDocument) string {
	return firstNonEmpty(doc.PDFFilename, doc.Filename, doc.FileName, doc.Name)
}

func summaryAmount(items []domain.SummaryItem, ukey string) string {
	for _, item := range items {
		if item.UKey == ukey && item.Amount != "" {
			return item.Amount
		}
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// unwrapJSONData handles stored records where the document sits under
// json_data, either as an object or as a JSON encoded string.
func unwrapJSONData(raw json.RawMessage) *api.BillingDocument {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	if raw[0] == '"' {
		var encoded string
		if err := json.Unmarshal(raw, &encoded); err != nil {
			return nil
		}
		raw = []byte(encoded)
	}
	var inner api.BillingDocument
	if err := json.Unmarshal(raw, &inner); err != nil {
		return nil
	}
	return &inner
}

// DecodeDocument reads one document from r.
func DecodeDocument(r io.Reader) (*domain.BillingDocument, error) {
	var doc api.BillingDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode billing document: %w", err)
	}
	return MapAPIDocumentToDomain(&doc), nil
}

// DecodeDocuments accepts a single document, an array of documents or the
// {"success": ..., "invoices": [...]} history envelope.
func DecodeDocuments(r io.Reader) ([]*domain.BillingDocument, error) {
	raws, err := SplitDocuments(r)
	if err != nil {
		return nil, err
	}
	docs := make([]*domain.BillingDocument, 0, len(raws))
	for i, raw := range raws {
		doc, err := DecodeDocument(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// SplitDocuments returns the raw JSON of every document in r without
// mapping them.
func SplitDocuments(r io.Reader) ([]json.RawMessage, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read billing documents: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}

	switch data[0] {
	case '[':
		var raws []json.RawMessage
		if err := json.Unmarshal(data, &raws); err != nil {
			return nil, fmt.Errorf("failed to decode billing documents: %w", err)
		}
		return raws, nil
	case '{':
		var probe map[string]json.RawMessage
		if err := json.Unmarshal(data, &probe); err != nil {
			return nil, fmt.Errorf("failed to decode billing documents: %w", err)
		}
		if _, ok := probe["invoices"]; !ok {
			return []json.RawMessage{data}, nil
		}
		var envelope api.HistoryEnvelope
		if err := json.Unmarshal(data, &envelope); err != nil {
			return nil, fmt.Errorf("failed to decode history envelope: %w", err)
		}
		return envelope.Invoices, nil
	default:
		return nil, fmt.Errorf("failed to decode billing documents: unexpected token %q", data[0])
	}
}

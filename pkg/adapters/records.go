package adapters

import (
	"bytes"
	"fmt"
	"time"

	"github.com/de-tools/bill-atlas/pkg/models/api"
	"github.com/de-tools/bill-atlas/pkg/models/domain"
	"github.com/de-tools/bill-atlas/pkg/models/store"
	"github.com/de-tools/bill-atlas/pkg/services/billing/period"
)

// MapDomainDocumentToStoreRecord keys a document for the cache. Documents
// without an invoice number fall back to fallbackKey.
func MapDomainDocumentToStoreRecord(doc *domain.BillingDocument, payload []byte, fallbackKey string, loadedAt time.Time) store.BillingRecord {
	token := period.Normalize(doc.Summary.BillingPeriod)
	invoice := firstNonEmpty(doc.Summary.Invoice, fallbackKey)
	return store.BillingRecord{
		Invoice:       invoice,
		Account:       doc.Summary.Account,
		BillingPeriod: token.Label,
		PeriodMs:      token.TimestampMs,
		FileName:      doc.FileName,
		Payload:       payload,
		LoadedAt:      loadedAt,
	}
}

func MapStoreRecordToDomain(record *store.BillingRecord) (*domain.BillingDocument, error) {
	if record == nil {
		return nil, nil
	}
	doc, err := DecodeDocument(bytes.NewReader(record.Payload))
	if err != nil {
		return nil, fmt.Errorf("cached document %s: %w", record.Invoice, err)
	}
	if doc.Summary.Invoice == "" {
		doc.Summary.Invoice = record.Invoice
	}
	return doc, nil
}

func MapDomainExportToStore(outcome domain.ExportOutcome, at time.Time) store.ExportRecord {
	return store.ExportRecord{
		Invoice:   outcome.Invoice,
		Section:   outcome.Section,
		FileName:  outcome.FileName,
		Location:  outcome.Location,
		Pages:     outcome.Pages,
		CreatedAt: at,
	}
}

func MapDomainExportToAPI(outcome domain.ExportOutcome) api.ExportAccepted {
	return api.ExportAccepted{
		Section:  outcome.Section,
		FileName: outcome.FileName,
		Location: outcome.Location,
		Pages:    outcome.Pages,
	}
}

package invoices

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/de-tools/bill-atlas/pkg/adapters"
	"github.com/de-tools/bill-atlas/pkg/models/domain"
	"github.com/de-tools/bill-atlas/pkg/models/store"
	"github.com/de-tools/bill-atlas/pkg/store/duckdb"
	"github.com/de-tools/bill-atlas/pkg/store/duckdb/documents"
)

var ErrNotFound = documents.ErrNotFound

// Library loads billing documents into the cache and reads them back in
// canonical form.
type Library interface {
	Load(ctx context.Context, r io.Reader, source string) (int, error)
	LoadDir(ctx context.Context, dir string) (int, error)
	Accounts(ctx context.Context) ([]string, error)
	Document(ctx context.Context, invoice string) (*domain.BillingDocument, error)
	AccountDocuments(ctx context.Context, account string) ([]*domain.BillingDocument, error)
	Count(ctx context.Context) (int, error)
}

type library struct {
	db    *sql.DB
	store documents.Store
	now   func() time.Time
}

func NewLibrary(db *sql.DB, store documents.Store) Library {
	return &library{db: db, store: store, now: time.Now}
}

// Load stores every document found in r. A document without an invoice
// number is keyed by its source and position.
func (l *library) Load(ctx context.Context, r io.Reader, source string) (int, error) {
	logger := zerolog.Ctx(ctx).With().Str("source", source).Logger()

	raws, err := adapters.SplitDocuments(r)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", source, err)
	}

	loadedAt := l.now().UTC()
	records := make([]store.BillingRecord, 0, len(raws))
	for i, raw := range raws {
		doc, err := adapters.DecodeDocument(bytes.NewReader(raw))
		if err != nil {
			return 0, fmt.Errorf("%s: document %d: %w", source, i, err)
		}
		fallback := fmt.Sprintf("%s#%d", filepath.Base(source), i)
		records = append(records, adapters.MapDomainDocumentToStoreRecord(doc, raw, fallback, loadedAt))
	}
	if len(records) == 0 {
		logger.Debug().Msg("no billing documents found")
		return 0, nil
	}

	err = duckdb.InTransaction(ctx, l.db, func(ctx context.Context) error {
		return l.store.Add(ctx, records)
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", source, err)
	}
	logger.Info().Int("documents", len(records)).Msg("loaded billing documents")
	return len(records), nil
}

// LoadDir loads every .json file directly inside dir, in name order.
func (l *library) LoadDir(ctx context.Context, dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	total := 0
	for _, name := range names {
		n, err := l.loadFile(ctx, filepath.Join(dir, name))
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

func (l *library) loadFile(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return l.Load(ctx, f, path)
}

func (l *library) Accounts(ctx context.Context) ([]string, error) {
	return l.store.ListAccounts(ctx)
}

func (l *library) Document(ctx context.Context, invoice string) (*domain.BillingDocument, error) {
	record, err := l.store.Get(ctx, invoice)
	if err != nil {
		return nil, err
	}
	return adapters.MapStoreRecordToDomain(record)
}

func (l *library) AccountDocuments(ctx context.Context, account string) ([]*domain.BillingDocument, error) {
	records, err := l.store.ListByAccount(ctx, account)
	if err != nil {
		return nil, err
	}
	docs := make([]*domain.BillingDocument, 0, len(records))
	for i := range records {
		doc, err := adapters.MapStoreRecordToDomain(&records[i])
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (l *library) Count(ctx context.Context) (int, error) {
	return l.store.Count(ctx)
}

package documents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/de-tools/bill-atlas/pkg/models/store"
	"github.com/de-tools/bill-atlas/pkg/store/duckdb"
)

var ErrNotFound = errors.New("billing document not found")

// Store caches raw billing documents keyed by invoice number.
type Store interface {
	Add(ctx context.Context, records []store.BillingRecord) error
	Get(ctx context.Context, invoice string) (*store.BillingRecord, error)
	ListAccounts(ctx context.Context) ([]string, error)
	ListByAccount(ctx context.Context, account string) ([]store.BillingRecord, error)
	Count(ctx context.Context) (int, error)
	LogExport(ctx context.Context, record store.ExportRecord) error
}

type documentStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &documentStore{db: db}, nil
}

// Add upserts records; a later document with the same invoice replaces the
// earlier one.
func (s *documentStore) Add(ctx context.Context, records []store.BillingRecord) error {
	if len(records) == 0 {
		return nil
	}

	query := `
		INSERT OR REPLACE INTO billing_documents (
			invoice, account, billing_period, period_ts, file_name, payload, loaded_at
		) VALUES (
			?, ?, ?, ?, ?, ?, ?
		)`

	stmt, err := duckdb.Conn(ctx, s.db).PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, record := range records {
		if record.Invoice == "" {
			return fmt.Errorf("insert record: invoice is required")
		}
		_, err = stmt.ExecContext(ctx,
			record.Invoice,
			record.Account,
			record.BillingPeriod,
			record.PeriodMs,
			record.FileName,
			string(record.Payload),
			record.LoadedAt,
		)
		if err != nil {
			return fmt.Errorf("insert record %s: %w", record.Invoice, err)
		}
	}
	return nil
}

func (s *documentStore) Get(ctx context.Context, invoice string) (*store.BillingRecord, error) {
	query := `
		SELECT invoice, account, billing_period, period_ts, file_name, CAST(payload AS VARCHAR), loaded_at
		FROM billing_documents
		WHERE invoice = ?`

	row := duckdb.Conn(ctx, s.db).QueryRowContext(ctx, query, invoice)
	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query document %s: %w", invoice, err)
	}
	return record, nil
}

func (s *documentStore) ListAccounts(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT account
		FROM billing_documents
		WHERE account <> ''
		ORDER BY account`

	rows, err := duckdb.Conn(ctx, s.db).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query accounts: %w", err)
	}
	defer rows.Close()

	accounts := make([]string, 0)
	for rows.Next() {
		var account string
		if err := rows.Scan(&account); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}
	return accounts, nil
}

// ListByAccount returns the account's documents oldest period first.
func (s *documentStore) ListByAccount(ctx context.Context, account string) ([]store.BillingRecord, error) {
	query := `
		SELECT invoice, account, billing_period, period_ts, file_name, CAST(payload AS VARCHAR), loaded_at
		FROM billing_documents
		WHERE account = ?
		ORDER BY period_ts, invoice`

	rows, err := duckdb.Conn(ctx, s.db).QueryContext(ctx, query, account)
	if err != nil {
		return nil, fmt.Errorf("query documents for %s: %w", account, err)
	}
	defer rows.Close()

	records := make([]store.BillingRecord, 0)
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return records, nil
}

func (s *documentStore) Count(ctx context.Context) (int, error) {
	var count int
	err := duckdb.Conn(ctx, s.db).QueryRowContext(ctx, `SELECT COUNT(*) FROM billing_documents`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return count, nil
}

func (s *documentStore) LogExport(ctx context.Context, record store.ExportRecord) error {
	query := `
		INSERT INTO export_log (invoice, section, file_name, location, pages, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	_, err := duckdb.Conn(ctx, s.db).ExecContext(ctx, query,
		record.Invoice,
		record.Section,
		record.FileName,
		record.Location,
		record.Pages,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert export log: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*store.BillingRecord, error) {
	var (
		record   store.BillingRecord
		fileName sql.NullString
		payload  string
	)
	err := row.Scan(
		&record.Invoice,
		&record.Account,
		&record.BillingPeriod,
		&record.PeriodMs,
		&fileName,
		&payload,
		&record.LoadedAt,
	)
	if err != nil {
		return nil, err
	}
	record.FileName = fileName.String
	record.Payload = []byte(payload)
	return &record, nil
}

package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/marcboeker/go-duckdb/v2"
)

const BillingDocumentsSchema = `
	CREATE TABLE IF NOT EXISTS billing_documents (
		invoice VARCHAR NOT NULL,
		account VARCHAR NOT NULL DEFAULT '',
		billing_period VARCHAR NOT NULL DEFAULT '',
		period_ts BIGINT NOT NULL DEFAULT 0,
		file_name VARCHAR,
		payload JSON NOT NULL,
		loaded_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (invoice)
	);
`

const ExportLogSchema = `
	CREATE TABLE IF NOT EXISTS export_log (
		invoice VARCHAR NOT NULL,
		section VARCHAR NOT NULL,
		file_name VARCHAR NOT NULL,
		location VARCHAR,
		pages INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
`

var bootQueries = []string{
	BillingDocumentsSchema,
	ExportLogSchema,
}

const MemoryPath = ":memory:"

type Settings struct {
	DbPath string
}

func NewDB(settings Settings) (*sql.DB, error) {
	path := settings.DbPath
	if path == "" {
		path = MemoryPath
	}
	c, err := duckdb.NewConnector(fmt.Sprintf("%s?threads=4", path), func(exec driver.ExecerContext) error {
		for _, query := range bootQueries {
			if _, err := exec.ExecContext(context.Background(), query, nil); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb at %s: %w", path, err)
	}

	return sql.OpenDB(c), nil
}

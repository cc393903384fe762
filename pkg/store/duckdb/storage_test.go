package duckdb

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDB_BootstrapsSchema(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "duckdb-test-*")
	require.NoError(t, err)

	defer func() {
		err := os.RemoveAll(tmpDir)
		if err != nil {
			t.Errorf("failed to cleanup test directory: %v", err)
		}
	}()

	dbPath := filepath.Join(tmpDir, "test.db")
	db, err := NewDB(Settings{
		DbPath: dbPath,
	})
	require.NoError(t, err)
	require.NotNil(t, db)

	defer func() {
		err := db.Close()
		if err != nil {
			t.Errorf("failed to close database connection: %v", err)
		}
	}()

	_, err = db.Exec(
		`INSERT INTO billing_documents (invoice, account, billing_period, period_ts, payload) VALUES (?, ?, ?, ?, ?)`,
		"INV-001", "ACC-1", "Jan 2024", int64(1704067200000), `{"summary":{}}`,
	)
	require.NoError(t, err)

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM billing_documents WHERE invoice = ?", "INV-001").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = db.Exec(
		`INSERT INTO export_log (invoice, section, file_name, pages) VALUES (?, ?, ?, ?)`,
		"INV-001", "charges-summary", "charges.pdf", 2,
	)
	require.NoError(t, err)
}

func TestNewDB_DefaultsToMemory(t *testing.T) {
	db, err := NewDB(Settings{})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM billing_documents").Scan(&count))
	assert.Zero(t, count)
}

func TestInTransaction(t *testing.T) {
	db, err := NewDB(Settings{DbPath: MemoryPath})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	insert := func(ctx context.Context, invoice string) error {
		_, err := Conn(ctx, db).ExecContext(ctx,
			`INSERT INTO billing_documents (invoice, payload) VALUES (?, ?)`, invoice, `{}`)
		return err
	}
	countRows := func() int {
		var n int
		require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM billing_documents").Scan(&n))
		return n
	}

	t.Run("commits on success", func(t *testing.T) {
		err := InTransaction(context.Background(), db, func(ctx context.Context) error {
			assert.NotNil(t, GetTransaction(ctx))
			return insert(ctx, "INV-A")
		})
		require.NoError(t, err)
		assert.Equal(t, 1, countRows())
	})

	t.Run("rolls back on error", func(t *testing.T) {
		boom := errors.New("boom")
		err := InTransaction(context.Background(), db, func(ctx context.Context) error {
			if err := insert(ctx, "INV-B"); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 1, countRows())
	})

	t.Run("reuses an outer transaction", func(t *testing.T) {
		tx, err := db.Begin()
		require.NoError(t, err)
		ctx := WithTransaction(context.Background(), tx)

		err = InTransaction(ctx, db, func(inner context.Context) error {
			assert.Same(t, tx, GetTransaction(inner))
			return nil
		})
		require.NoError(t, err)
		require.NoError(t, tx.Rollback())
	})
}

func TestConn(t *testing.T) {
	db := &sql.DB{}
	assert.Equal(t, Execer(db), Conn(context.Background(), db))
}

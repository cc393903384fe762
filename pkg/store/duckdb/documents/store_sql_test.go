package documents

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/de-tools/bill-atlas/pkg/models/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentStore_SQL(t *testing.T) {
	loadedAt := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	columns := []string{"invoice", "account", "billing_period", "period_ts", "file_name", "payload", "loaded_at"}

	tests := []struct {
		name   string
		expect func(mock sqlmock.Sqlmock)
		run    func(t *testing.T, s Store)
	}{
		{
			name: "add prepares once and executes per record",
			expect: func(mock sqlmock.Sqlmock) {
				prep := mock.ExpectPrepare(regexp.QuoteMeta("INSERT OR REPLACE INTO billing_documents"))
				prep.ExpectExec().
					WithArgs("INV-1", "ACC-1", "Jan 2024", int64(1704067200000), "a.pdf", `{}`, loadedAt).
					WillReturnResult(sqlmock.NewResult(0, 1))
				prep.ExpectExec().
					WithArgs("INV-2", "ACC-1", "Feb 2024", int64(1706745600000), "b.pdf", `{}`, loadedAt).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			run: func(t *testing.T, s Store) {
				err := s.Add(context.Background(), []store.BillingRecord{
					{Invoice: "INV-1", Account: "ACC-1", BillingPeriod: "Jan 2024", PeriodMs: 1704067200000, FileName: "a.pdf", Payload: []byte(`{}`), LoadedAt: loadedAt},
					{Invoice: "INV-2", Account: "ACC-1", BillingPeriod: "Feb 2024", PeriodMs: 1706745600000, FileName: "b.pdf", Payload: []byte(`{}`), LoadedAt: loadedAt},
				})
				assert.NoError(t, err)
			},
		},
		{
			name: "add wraps exec errors",
			expect: func(mock sqlmock.Sqlmock) {
				prep := mock.ExpectPrepare(regexp.QuoteMeta("INSERT OR REPLACE INTO billing_documents"))
				prep.ExpectExec().WillReturnError(errors.New("disk full"))
			},
			run: func(t *testing.T, s Store) {
				err := s.Add(context.Background(), []store.BillingRecord{{Invoice: "INV-1", Payload: []byte(`{}`)}})
				require.Error(t, err)
				assert.Contains(t, err.Error(), "insert record INV-1")
			},
		},
		{
			name: "get maps no rows to ErrNotFound",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta("FROM billing_documents")).
					WithArgs("INV-404").
					WillReturnRows(sqlmock.NewRows(columns))
			},
			run: func(t *testing.T, s Store) {
				_, err := s.Get(context.Background(), "INV-404")
				assert.ErrorIs(t, err, ErrNotFound)
			},
		},
		{
			name: "get tolerates a null file name",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta("FROM billing_documents")).
					WithArgs("INV-1").
					WillReturnRows(sqlmock.NewRows(columns).
						AddRow("INV-1", "ACC-1", "Jan 2024", int64(1704067200000), nil, `{"a":1}`, loadedAt))
			},
			run: func(t *testing.T, s Store) {
				got, err := s.Get(context.Background(), "INV-1")
				require.NoError(t, err)
				assert.Empty(t, got.FileName)
				assert.Equal(t, `{"a":1}`, string(got.Payload))
			},
		},
		{
			name: "list accounts surfaces query errors",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta("SELECT DISTINCT account")).
					WillReturnError(errors.New("connection reset"))
			},
			run: func(t *testing.T, s Store) {
				_, err := s.ListAccounts(context.Background())
				assert.ErrorContains(t, err, "query accounts")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.expect(mock)
			s, err := NewStore(db)
			require.NoError(t, err)

			tt.run(t, s)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

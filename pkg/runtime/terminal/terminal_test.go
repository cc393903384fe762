package terminal

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/de-tools/bill-atlas/pkg/runtime/app"
	"github.com/de-tools/bill-atlas/pkg/services/config"
	"github.com/de-tools/bill-atlas/pkg/services/report"
)

const historyJSON = `{
	"success": true,
	"invoices": [
		{
			"summary": {
				"account": "0001", "invoice": "INV-1", "billing_period": "Jan 2025",
				"money_amounts": [{"ukey": "total_charges_due", "sentence": "Total Current Charges Due", "amount": "$90.00"}]
			},
			"entries": [{"name": "Ann", "phone": "555-0100", "money_amounts": [{"ukey": "total", "amount": "$90.00"}]}]
		},
		{
			"summary": {
				"account": "0001", "invoice": "INV-2", "billing_period": "Feb 2025",
				"money_amounts": [{"ukey": "total_charges_due", "sentence": "Total Current Charges Due", "amount": "$110.00"}]
			},
			"entries": [{"name": "Ann", "phone": "555-0100", "money_amounts": [{"ukey": "total", "amount": "$110.00"}]}]
		}
	]
}`

type pngRasterizer struct{}

func (pngRasterizer) Rasterize(context.Context, string, report.RasterOptions) (*report.Raster, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 40, 40))); err != nil {
		return nil, err
	}
	return report.NewRaster(buf.Bytes())
}

type fixture struct {
	ctx  context.Context
	cli  *CLI
	out  *bytes.Buffer
	file string
}

func setupFixture(t *testing.T) fixture {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	ctx := logger.WithContext(context.Background())
	t.Setenv("BILLATLAS_EXPORT_SINK_DIR", t.TempDir())

	file := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, os.WriteFile(file, []byte(historyJSON), 0o644))

	out := &bytes.Buffer{}
	cli := NewCLI(Options{
		Output: out,
		Bootstrap: func(ctx context.Context, cfg *config.Config) (*app.App, error) {
			cfg.Export.SettleDelay = 0
			return app.New(ctx, cfg, app.Overrides{Rasterizer: pngRasterizer{}})
		},
	})
	return fixture{ctx: ctx, cli: cli, out: out, file: file}
}

func TestCLI_Summary(t *testing.T) {
	f := setupFixture(t)

	err := f.cli.ExecuteContext(f.ctx, "summary", f.file, "--invoice", "INV-2")

	require.NoError(t, err)
	assert.Contains(t, f.out.String(), "Invoice INV-2 for account 0001")
	assert.NotContains(t, f.out.String(), "Invoice INV-1")
	assert.Contains(t, f.out.String(), "Total Current Charges Due")
}

func TestCLI_SummaryUnknownInvoice(t *testing.T) {
	f := setupFixture(t)

	err := f.cli.ExecuteContext(f.ctx, "summary", f.file, "--invoice", "INV-9")

	assert.ErrorContains(t, err, "invoice INV-9 not found")
}

func TestCLI_History(t *testing.T) {
	f := setupFixture(t)

	err := f.cli.ExecuteContext(f.ctx, "history", f.file)

	require.NoError(t, err)
	out := f.out.String()
	assert.Contains(t, out, "Billing history for account 0001")
	assert.Contains(t, out, "Jan 2025")
	assert.Contains(t, out, "Feb 2025")
}

func TestCLI_HistoryMissingPath(t *testing.T) {
	f := setupFixture(t)

	err := f.cli.ExecuteContext(f.ctx, "history", filepath.Join(t.TempDir(), "missing.json"))

	assert.Error(t, err)
}

func TestCLI_Export(t *testing.T) {
	// Given
	f := setupFixture(t)
	dir := t.TempDir()

	// When
	err := f.cli.ExecuteContext(f.ctx, "export", f.file, "--invoice", "INV-2", "--section", "charges-summary", "--out", dir)

	// Then
	require.NoError(t, err)
	location := filepath.Join(dir, "INV-2_Charges_Summary.pdf")
	assert.FileExists(t, location)
	assert.Contains(t, f.out.String(), "Exported charges-summary of invoice INV-2 to "+location+" (1 pages)")
}

func TestCLI_ExportDefaultsToFirstInvoice(t *testing.T) {
	f := setupFixture(t)
	dir := t.TempDir()

	err := f.cli.ExecuteContext(f.ctx, "export", f.file, "--section", "account-information", "--out", dir)

	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "INV-1_Account_Information.pdf"))
}

func TestCLI_ExportUnknownSection(t *testing.T) {
	f := setupFixture(t)

	err := f.cli.ExecuteContext(f.ctx, "export", f.file, "--section", "nope", "--out", t.TempDir())

	assert.ErrorContains(t, err, "report section not found")
}

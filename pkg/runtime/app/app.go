package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/de-tools/bill-atlas/pkg/runtime/web/view"
	"github.com/de-tools/bill-atlas/pkg/services/billing"
	"github.com/de-tools/bill-atlas/pkg/services/config"
	"github.com/de-tools/bill-atlas/pkg/services/invoices"
	"github.com/de-tools/bill-atlas/pkg/services/report"
	"github.com/de-tools/bill-atlas/pkg/store/duckdb"
	"github.com/de-tools/bill-atlas/pkg/store/duckdb/documents"
	"github.com/de-tools/bill-atlas/pkg/store/exports"
)

// ExportBase is the URL prefix report pages post exports to.
const ExportBase = "/api/v1/invoices/" + view.InvoicePlaceholder + "/exports"

// App holds every long lived component shared by the binaries.
type App struct {
	Config   *config.Config
	DB       *sql.DB
	Store    documents.Store
	Library  invoices.Library
	Billing  billing.Service
	View     *view.ReportView
	Exporter *invoices.Exporter
}

type Overrides struct {
	Rasterizer report.Rasterizer
	Sink       exports.Sink
}

// New builds the application from cfg. Zero value overrides use the
// configured rasterizer command and sink.
func New(ctx context.Context, cfg *config.Config, overrides Overrides) (*App, error) {
	logger := zerolog.Ctx(ctx)

	db, err := duckdb.NewDB(duckdb.Settings{DbPath: cfg.Store.DbPath})
	if err != nil {
		return nil, fmt.Errorf("failed to create DuckDB instance: %w", err)
	}
	store, err := documents.NewStore(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create document store: %w", err)
	}

	sink := overrides.Sink
	if sink == nil {
		if sink, err = newSink(ctx, cfg.Export.Sink); err != nil {
			db.Close()
			return nil, err
		}
	}
	rasterizer := overrides.Rasterizer
	if rasterizer == nil {
		rasterizer = &report.CommandRasterizer{Path: cfg.Export.Rasterizer.Path, Args: cfg.Export.Rasterizer.Args}
	}

	letterhead, err := config.ResolveLetterhead(ctx, cfg.Letterhead)
	if err != nil {
		logger.Warn().Err(err).Msg("falling back to configured letterhead")
	}
	opts := report.DefaultOptions()
	opts.Letterhead = report.Letterhead{
		Name:         letterhead.Name,
		AddressLines: letterhead.AddressLines,
		LogoURL:      letterhead.LogoURL,
		LogoAlt:      letterhead.LogoAlt,
	}
	opts.SettleDelay = cfg.Export.SettleDelay
	opts.Width = cfg.Export.Width
	opts.Scale = cfg.Export.Scale
	opts.OnStateChange = func(target string, state report.State) {
		logger.Debug().Str("target", target).Str("state", state.String()).Msg("export state changed")
	}

	reportView, err := view.NewReportView(ExportBase)
	if err != nil {
		db.Close()
		return nil, err
	}

	library := invoices.NewLibrary(db, store)
	billingSvc := billing.NewService()
	writer := report.NewPDFWriter()
	exporter := invoices.NewExporter(library, billingSvc, reportView, store, func() *report.Renderer {
		return report.NewRenderer(rasterizer, writer, sink, opts)
	})

	if dir := cfg.Store.DocumentsDir; dir != "" {
		n, err := library.LoadDir(ctx, dir)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to load documents: %w", err)
		}
		logger.Info().Str("dir", dir).Int("documents", n).Msg("loaded billing documents")
	}

	return &App{
		Config:   cfg,
		DB:       db,
		Store:    store,
		Library:  library,
		Billing:  billingSvc,
		View:     reportView,
		Exporter: exporter,
	}, nil
}

func (a *App) Close() error {
	return a.DB.Close()
}

func newSink(ctx context.Context, cfg config.SinkConfig) (exports.Sink, error) {
	switch cfg.Kind {
	case exports.KindS3:
		return exports.NewS3SinkFromSettings(ctx, exports.S3Settings{
			Bucket:  cfg.Bucket,
			Prefix:  cfg.Prefix,
			Region:  cfg.Region,
			Profile: cfg.Profile,
		})
	case exports.KindLocal, "":
		return exports.NewLocalSink(cfg.Dir)
	default:
		return nil, fmt.Errorf("unknown export sink kind %q", cfg.Kind)
	}
}

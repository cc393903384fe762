package invoices

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/net/html"

	"github.com/de-tools/bill-atlas/pkg/adapters"
	"github.com/de-tools/bill-atlas/pkg/models/domain"
	"github.com/de-tools/bill-atlas/pkg/models/store"
	"github.com/de-tools/bill-atlas/pkg/services/billing"
	"github.com/de-tools/bill-atlas/pkg/services/report"
)

var ErrSectionNotFound = errors.New("report section not found")

// Pager renders an invoice summary into the page exports snapshot from.
type Pager interface {
	Page(summary *domain.InvoiceSummary) (*html.Node, error)
}

type ExportLog interface {
	LogExport(ctx context.Context, record store.ExportRecord) error
}

// Job is an export resolved against a rendered page, ready to run.
type Job struct {
	Invoice  string
	Section  string
	FileName string

	page     *html.Node
	renderer *report.Renderer
}

// Exporter renders report sections of cached invoices to documents. Each
// invoice gets its own renderer so equal section ids of different invoices
// do not block each other.
type Exporter struct {
	library     Library
	billing     billing.Service
	pager       Pager
	log         ExportLog
	newRenderer func() *report.Renderer
	now         func() time.Time

	mu        sync.Mutex
	renderers map[string]*report.Renderer
}

func NewExporter(library Library, billingSvc billing.Service, pager Pager, log ExportLog, newRenderer func() *report.Renderer) *Exporter {
	return &Exporter{
		library:     library,
		billing:     billingSvc,
		pager:       pager,
		log:         log,
		newRenderer: newRenderer,
		now:         time.Now,
		renderers:   make(map[string]*report.Renderer),
	}
}

// Prepare resolves the invoice and section. It fails fast with
// ErrExportInProgress when the section is already exporting.
func (e *Exporter) Prepare(ctx context.Context, invoice, section string) (*Job, error) {
	doc, err := e.library.Document(ctx, invoice)
	if err != nil {
		return nil, err
	}
	summary := e.billing.Summarize(ctx, doc)
	page, err := e.pager.Page(summary)
	if err != nil {
		return nil, err
	}
	if report.FindByID(page, section) == nil {
		return nil, fmt.Errorf("%s: %w", section, ErrSectionNotFound)
	}

	renderer := e.renderer(invoice)
	if renderer.State(section) != report.StateIdle {
		return nil, report.ErrExportInProgress
	}
	return &Job{
		Invoice:  invoice,
		Section:  section,
		FileName: sectionFileName(summary, section),
		page:     page,
		renderer: renderer,
	}, nil
}

func (e *Exporter) Run(ctx context.Context, job *Job) (domain.ExportOutcome, error) {
	logger := zerolog.Ctx(ctx).With().Str("invoice", job.Invoice).Logger()
	outcome := domain.ExportOutcome{Invoice: job.Invoice, Section: job.Section}

	result, err := job.renderer.Export(ctx, job.page, report.ExportRequest{Target: job.Section, FileName: job.FileName})
	if err != nil {
		return outcome, err
	}
	outcome.FileName = result.FileName
	outcome.Location = result.Location
	outcome.Pages = result.Pages
	outcome.Aborted = result.Aborted
	if result.Aborted || e.log == nil {
		return outcome, nil
	}

	if err := e.log.LogExport(ctx, adapters.MapDomainExportToStore(outcome, e.now().UTC())); err != nil {
		logger.Warn().Err(err).Msg("failed to record export")
	}
	return outcome, nil
}

func (e *Exporter) Export(ctx context.Context, invoice, section string) (domain.ExportOutcome, error) {
	job, err := e.Prepare(ctx, invoice, section)
	if err != nil {
		return domain.ExportOutcome{Invoice: invoice, Section: section}, err
	}
	return e.Run(ctx, job)
}

// Cancel stops an in flight export of section.
func (e *Exporter) Cancel(invoice, section string) bool {
	e.mu.Lock()
	renderer, ok := e.renderers[invoice]
	e.mu.Unlock()
	return ok && renderer.Cancel(section)
}

func (e *Exporter) State(invoice, section string) report.State {
	e.mu.Lock()
	renderer, ok := e.renderers[invoice]
	e.mu.Unlock()
	if !ok {
		return report.StateIdle
	}
	return renderer.State(section)
}

func (e *Exporter) renderer(invoice string) *report.Renderer {
	e.mu.Lock()
	defer e.mu.Unlock()
	r, ok := e.renderers[invoice]
	if !ok {
		r = e.newRenderer()
		e.renderers[invoice] = r
	}
	return r
}

var sectionTitles = map[string]string{
	"account-information":        "Account_Information",
	"payments-summary":           "Payments_Summary",
	"charges-summary":            "Charges_Summary",
	"charge-distribution":        "Charge_Distribution",
	"account-level-charges-card": "Account_Level_Charges",
}

func sectionFileName(summary *domain.InvoiceSummary, section string) string {
	for _, l := range summary.Lines {
		if l.SectionID == section {
			return l.ExportFileName
		}
	}
	name := section
	if title, ok := sectionTitles[section]; ok {
		name = title
	}
	if summary.Invoice != "" {
		name = summary.Invoice + "_" + name
	}
	return name
}

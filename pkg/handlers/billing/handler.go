package billing

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/de-tools/bill-atlas/pkg/adapters"
	"github.com/de-tools/bill-atlas/pkg/models/api"
	"github.com/de-tools/bill-atlas/pkg/models/domain"
	"github.com/de-tools/bill-atlas/pkg/services/billing"
	"github.com/de-tools/bill-atlas/pkg/services/invoices"
	"github.com/de-tools/bill-atlas/pkg/services/report"
)

type Exports interface {
	Prepare(ctx context.Context, invoice, section string) (*invoices.Job, error)
	Run(ctx context.Context, job *invoices.Job) (domain.ExportOutcome, error)
	Cancel(invoice, section string) bool
	State(invoice, section string) report.State
}

type View interface {
	Render(w io.Writer, summary *domain.InvoiceSummary) error
}

type Handler struct {
	library invoices.Library
	billing billing.Service
	view    View
	exports Exports

	jobs sync.WaitGroup
}

func NewHandler(library invoices.Library, billingSvc billing.Service, view View, exports Exports) *Handler {
	return &Handler{
		library: library,
		billing: billingSvc,
		view:    view,
		exports: exports,
	}
}

func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	accounts, err := h.library.Accounts(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("failed to list accounts")
		writeError(w, r, http.StatusInternalServerError, "failed to list accounts")
		return
	}
	writeJSON(w, r, http.StatusOK, accounts)
}

func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)
	account := chi.URLParam(r, "account")

	docs, err := h.library.AccountDocuments(ctx, account)
	if err != nil {
		logger.Error().Err(err).Str("account", account).Msg("failed to load account documents")
		writeError(w, r, http.StatusInternalServerError, "failed to load billing history")
		return
	}

	history := h.billing.History(ctx, docs)
	response := adapters.MapHistoryDomainToAPI(history)
	if !response.Success {
		writeJSON(w, r, http.StatusNotFound, response)
		return
	}
	writeJSON(w, r, http.StatusOK, response)
}

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, ok := h.summary(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, adapters.MapSummaryDomainToAPI(summary))
}

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	summary, ok := h.summary(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.view.Render(w, summary); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to render report")
	}
}

// StartExport accepts the export and runs it in the background. The caller
// polls GetExport for the state.
func (h *Handler) StartExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)
	invoice := chi.URLParam(r, "invoice")
	section := chi.URLParam(r, "section")

	job, err := h.exports.Prepare(ctx, invoice, section)
	switch {
	case errors.Is(err, invoices.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "invoice not found")
		return
	case errors.Is(err, invoices.ErrSectionNotFound):
		writeError(w, r, http.StatusNotFound, "report section not found")
		return
	case errors.Is(err, report.ErrExportInProgress):
		writeError(w, r, http.StatusConflict, "export already in progress")
		return
	case err != nil:
		logger.Error().Err(err).Str("invoice", invoice).Str("section", section).Msg("failed to prepare export")
		writeError(w, r, http.StatusInternalServerError, "failed to prepare export")
		return
	}

	bg := context.WithoutCancel(ctx)
	h.jobs.Add(1)
	go func() {
		defer h.jobs.Done()
		_, err := h.exports.Run(bg, job)
		switch {
		case errors.Is(err, report.ErrExportInProgress):
			// another request started the same section between Prepare and Run
			zerolog.Ctx(bg).Debug().Str("section", section).Msg("export already running")
		case err != nil:
			zerolog.Ctx(bg).Error().Err(err).Str("section", section).Msg("background export failed")
		}
	}()

	writeJSON(w, r, http.StatusAccepted, api.ExportAccepted{
		Section:  section,
		FileName: report.FileName(report.ExportRequest{Target: job.Section, FileName: job.FileName}),
	})
}

func (h *Handler) GetExport(w http.ResponseWriter, r *http.Request) {
	invoice := chi.URLParam(r, "invoice")
	section := chi.URLParam(r, "section")
	writeJSON(w, r, http.StatusOK, api.ExportStatus{
		Section: section,
		State:   h.exports.State(invoice, section).String(),
	})
}

func (h *Handler) CancelExport(w http.ResponseWriter, r *http.Request) {
	invoice := chi.URLParam(r, "invoice")
	section := chi.URLParam(r, "section")
	if !h.exports.Cancel(invoice, section) {
		writeError(w, r, http.StatusNotFound, "no export in progress")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	count, err := h.library.Count(r.Context())
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("health check failed")
		writeJSON(w, r, http.StatusServiceUnavailable, api.Health{Status: "unavailable"})
		return
	}
	writeJSON(w, r, http.StatusOK, api.Health{Status: "ok", Documents: count})
}

// Wait blocks until background exports finish.
func (h *Handler) Wait() {
	h.jobs.Wait()
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) (*domain.InvoiceSummary, bool) {
	ctx := r.Context()
	invoice := chi.URLParam(r, "invoice")

	doc, err := h.library.Document(ctx, invoice)
	if errors.Is(err, invoices.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, "invoice not found")
		return nil, false
	}
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("invoice", invoice).Msg("failed to load invoice")
		writeError(w, r, http.StatusInternalServerError, "failed to load invoice")
		return nil, false
	}
	return h.billing.Summarize(ctx, doc), true
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, api.ErrorResponse{Success: false, Error: msg})
}

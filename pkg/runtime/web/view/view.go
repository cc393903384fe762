package view

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/de-tools/bill-atlas/pkg/models/domain"
	"github.com/de-tools/bill-atlas/pkg/services/billing/amount"
	"github.com/de-tools/bill-atlas/pkg/services/billing/charges"
	"github.com/de-tools/bill-atlas/pkg/services/billing/lines"
)

const (
	AccountInformationID = "account-information"
	PaymentsSummaryID    = "payments-summary"
	ChargesSummaryID     = "charges-summary"
	DistributionID       = "charge-distribution"
	AccountLevelID       = lines.AccountLevelCardID
)

// ReportView renders an invoice summary as the results page. Every section
// carries a stable id so it can be exported on its own.
type ReportView struct {
	tmpl       *template.Template
	exportBase string
}

// InvoicePlaceholder in an export base is replaced by the escaped invoice number.
const InvoicePlaceholder = "{invoice}"

// NewReportView builds the view. exportBase is the URL prefix the export
// buttons post to; leave it empty to omit the buttons.
func NewReportView(exportBase string) (*ReportView, error) {
	t, err := template.New("report").Funcs(template.FuncMap{
		"money":   amount.Format,
		"percent": func(p string) string { return p + "%" },
		"safeCSS": func(s string) template.CSS { return template.CSS(s) },
		"exportArgs": func(base, section string) exportArgs {
			return exportArgs{Base: base, Section: section}
		},
		"grandTotalLabel": func() string { return charges.GrandTotalLabel },
	}).Parse(reportTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	return &ReportView{tmpl: t, exportBase: exportBase}, nil
}

type exportArgs struct {
	Base    string
	Section string
}

type pageData struct {
	*domain.InvoiceSummary
	ExportBase string
	Empty      bool
}

func (v *ReportView) Render(w io.Writer, summary *domain.InvoiceSummary) error {
	data := pageData{InvoiceSummary: summary, Empty: summary.Empty()}
	if summary == nil {
		data.InvoiceSummary = &domain.InvoiceSummary{}
	}
	data.ExportBase = strings.ReplaceAll(v.exportBase, InvoicePlaceholder, url.PathEscape(data.Invoice))
	return v.tmpl.Execute(w, data)
}

// Page renders the summary and parses it back into a document tree.
func (v *ReportView) Page(summary *domain.InvoiceSummary) (*html.Node, error) {
	var buf bytes.Buffer
	if err := v.Render(&buf, summary); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}
	doc, err := html.Parse(&buf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	return doc, nil
}

// Sections lists the exportable section ids for summary, in page order.
func Sections(summary *domain.InvoiceSummary) []string {
	if summary.Empty() {
		return nil
	}
	out := []string{AccountInformationID}
	if len(summary.Payments.Nodes) > 0 {
		out = append(out, PaymentsSummaryID)
	}
	if len(summary.Charges.Nodes) > 0 {
		out = append(out, ChargesSummaryID)
	}
	if len(summary.Distribution) > 0 {
		out = append(out, DistributionID)
	}
	for _, l := range summary.Lines {
		out = append(out, l.SectionID)
	}
	if len(summary.AccountLevelCharges) > 0 {
		out = append(out, AccountLevelID)
	}
	return out
}

package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/de-tools/bill-atlas/pkg/models/domain"
	"github.com/de-tools/bill-atlas/pkg/services/billing/amount"
)

type TableConfig struct {
	LabelWidth  int
	AmountWidth int
	ShareWidth  int
	PeriodWidth int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		LabelWidth:  48,
		AmountWidth: 14,
		ShareWidth:  8,
		PeriodWidth: 12,
	}
}

// Reporter prints summaries and histories as plain text tables.
type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

func (c *Reporter) funcs() template.FuncMap {
	cfg := c.config
	return template.FuncMap{
		"row": func(label, value string) string {
			return fmt.Sprintf("| %-*s | %*s |", cfg.LabelWidth, clip(label, cfg.LabelWidth), cfg.AmountWidth, value)
		},
		"indent": func(label string) string {
			return "  " + label
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+", strings.Repeat("-", cfg.LabelWidth+2), strings.Repeat("-", cfg.AmountWidth+2))
		},
		"shareRow": func(label, value, share string) string {
			return fmt.Sprintf("| %-*s | %*s | %*s |",
				cfg.LabelWidth, clip(label, cfg.LabelWidth), cfg.AmountWidth, value, cfg.ShareWidth, share+"%")
		},
		"shareSeparator": func() string {
			return fmt.Sprintf("+%s+%s+%s+",
				strings.Repeat("-", cfg.LabelWidth+2),
				strings.Repeat("-", cfg.AmountWidth+2),
				strings.Repeat("-", cfg.ShareWidth+2))
		},
		"money": amount.Format,
	}
}

const summaryTemplate = `
Invoice {{.Invoice}} for account {{.Account}}
Billing Period: {{.BillingPeriod}}{{if .DueDate}}
Due Date: {{.DueDate}}{{end}}
Total Charges: {{.TotalCharges}}
{{with .Payments}}{{if .Nodes}}
=== {{.Title}} ===
{{separator}}
{{range .Nodes}}{{row .Sentence .Amount}}
{{range .Children}}{{row (indent .Sentence) .Amount}}
{{end}}{{end}}{{separator}}
{{end}}{{end}}{{with .Charges}}{{if .Nodes}}
=== {{.Title}} ===
{{separator}}
{{range .Nodes}}{{row .Sentence .Amount}}
{{with .LateFees}}{{if .HasLateFees}}{{row (indent (printf "Late fees (%d)" .LateFeeCount)) (money .TotalLateFees)}}
{{end}}{{end}}{{range .Children}}{{row (indent .Sentence) .Amount}}
{{end}}{{end}}{{if .HasGrandTotal}}{{separator}}
{{row "Grand Total" .GrandTotalDisplay}}
{{end}}{{separator}}
{{end}}{{end}}{{if .Distribution}}
=== Charge Distribution ===
{{shareSeparator}}
{{range .Distribution}}{{shareRow .Label (money .Amount) .Percentage}}
{{end}}{{shareSeparator}}
{{end}}{{range .Lines}}
--- {{.DisplayName}}{{if .Phone}} ({{.Phone}}){{end}} ---
{{separator}}
{{range .Items}}{{row .Label .Amount}}
{{range .Groups}}{{range .Items}}{{row (indent .Label) .Amount}}
{{end}}{{end}}{{end}}{{separator}}
{{end}}`

func (c *Reporter) Summary(summary *domain.InvoiceSummary) error {
	if summary.Empty() {
		_, err := fmt.Fprintln(c.writer, "No billing data.")
		return err
	}
	t, err := template.New("summary").Funcs(c.funcs()).Parse(summaryTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}
	return t.Execute(c.writer, summary)
}

type historyView struct {
	Account string
	Overall []domain.OverallPoint
	Periods []string
	Rows    []historyRow
}

type historyRow struct {
	Label  string
	Values []string
}

const historyTemplate = `
Billing history{{if .Account}} for account {{.Account}}{{end}}
{{separator}}
{{range .Overall}}{{row .Period.Label (money .Total)}}
{{end}}{{separator}}
{{if .Rows}}
{{header .Periods}}
{{range .Rows}}{{grid .Label .Values}}
{{end}}{{end}}`

func (c *Reporter) History(h *domain.History) error {
	if h.Empty() {
		_, err := fmt.Fprintln(c.writer, "No billing history.")
		return err
	}

	data := historyView{Account: h.Account, Overall: h.Overall}
	for _, p := range h.Periods {
		data.Periods = append(data.Periods, p.Label)
	}
	for _, s := range h.Entities {
		row := historyRow{Label: s.Entity.DisplayName}
		for _, p := range s.Points {
			row.Values = append(row.Values, amount.Format(p.Value))
		}
		data.Rows = append(data.Rows, row)
	}

	cfg := c.config
	funcs := c.funcs()
	funcs["header"] = func(periods []string) string {
		var b strings.Builder
		fmt.Fprintf(&b, "%-*s", cfg.LabelWidth, "Line")
		for _, p := range periods {
			fmt.Fprintf(&b, " %*s", cfg.PeriodWidth, p)
		}
		return b.String()
	}
	funcs["grid"] = func(label string, values []string) string {
		var b strings.Builder
		fmt.Fprintf(&b, "%-*s", cfg.LabelWidth, clip(label, cfg.LabelWidth))
		for _, v := range values {
			fmt.Fprintf(&b, " %*s", cfg.PeriodWidth, v)
		}
		return b.String()
	}

	t, err := template.New("history").Funcs(funcs).Parse(historyTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}
	return t.Execute(c.writer, data)
}

func (c *Reporter) Exported(outcome domain.ExportOutcome) error {
	if outcome.Aborted {
		_, err := fmt.Fprintf(c.writer, "Export of %s was cancelled.\n", outcome.Section)
		return err
	}
	_, err := fmt.Fprintf(c.writer, "Exported %s of invoice %s to %s (%d pages)\n",
		outcome.Section, outcome.Invoice, outcome.Location, outcome.Pages)
	return err
}

func clip(s string, width int) string {
	if len(s) <= width {
		return s
	}
	return s[:width-3] + "..."
}

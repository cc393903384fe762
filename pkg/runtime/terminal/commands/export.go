package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/de-tools/bill-atlas/pkg/adapters"
	"github.com/de-tools/bill-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/bill-atlas/pkg/services/config"
	"github.com/de-tools/bill-atlas/pkg/store/exports"
)

type ExportCmd struct {
	invoice  string
	section  string
	outDir   string
	env      *Env
	reporter *export.Reporter
}

func NewExportCmd(env *Env, reporter *export.Reporter) *cobra.Command {
	ec := &ExportCmd{env: env, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "export <file.json>",
		Short: "Render one report section of an invoice to PDF",
		Args:  cobra.ExactArgs(1),
		RunE:  ec.run,
	}

	cmd.Flags().StringVar(&ec.section, "section", "", "Section id, e.g. charges-summary or line-detail-card-0")
	cmd.Flags().StringVar(&ec.invoice, "invoice", "", "Invoice number; the first document of the file when empty")
	cmd.Flags().StringVar(&ec.outDir, "out", "", "Write the PDF to this directory instead of the configured sink")

	_ = cmd.MarkFlagRequired("section")

	return cmd
}

func (ec *ExportCmd) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	path := args[0]

	invoice := ec.invoice
	if invoice == "" {
		first, err := firstInvoice(path)
		if err != nil {
			return err
		}
		invoice = first
	}

	a, err := ec.env.app(ctx, func(cfg *config.Config) {
		if ec.outDir != "" {
			cfg.Export.Sink = config.SinkConfig{Kind: exports.KindLocal, Dir: ec.outDir}
		}
	})
	if err != nil {
		return err
	}
	defer a.Close()

	if err := loadPath(ctx, a.Library, path); err != nil {
		return err
	}

	outcome, err := a.Exporter.Export(ctx, invoice, ec.section)
	if err != nil {
		return fmt.Errorf("failed to export %s of %s: %w", ec.section, invoice, err)
	}
	return ec.reporter.Exported(outcome)
}

func firstInvoice(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	docs, err := adapters.DecodeDocuments(f)
	if err != nil {
		return "", err
	}
	for _, doc := range docs {
		if doc.Summary.Invoice != "" {
			return doc.Summary.Invoice, nil
		}
	}
	return "", fmt.Errorf("no invoice number in %s; pass --invoice", path)
}

package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/de-tools/bill-atlas/pkg/adapters"
	"github.com/de-tools/bill-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/bill-atlas/pkg/services/billing"
)

type SummaryCmd struct {
	invoice  string
	billing  billing.Service
	reporter *export.Reporter
}

func NewSummaryCmd(billingSvc billing.Service, reporter *export.Reporter) *cobra.Command {
	sc := &SummaryCmd{billing: billingSvc, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "summary <file.json>",
		Short: "Print the payments, charges, distribution and line tables of an invoice",
		Args:  cobra.ExactArgs(1),
		RunE:  sc.run,
	}

	cmd.Flags().StringVar(&sc.invoice, "invoice", "", "Only print this invoice when the file holds several")

	return cmd
}

func (sc *SummaryCmd) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", args[0], err)
	}
	defer f.Close()

	docs, err := adapters.DecodeDocuments(f)
	if err != nil {
		return err
	}

	printed := 0
	for _, doc := range docs {
		if sc.invoice != "" && doc.Summary.Invoice != sc.invoice {
			continue
		}
		if err := sc.reporter.Summary(sc.billing.Summarize(ctx, doc)); err != nil {
			return err
		}
		printed++
	}
	if printed == 0 {
		if sc.invoice != "" {
			return fmt.Errorf("invoice %s not found in %s", sc.invoice, args[0])
		}
		return sc.reporter.Summary(nil)
	}
	return nil
}

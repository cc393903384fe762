package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/de-tools/bill-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/bill-atlas/pkg/services/invoices"
)

type HistoryCmd struct {
	account  string
	env      *Env
	reporter *export.Reporter
}

func NewHistoryCmd(env *Env, reporter *export.Reporter) *cobra.Command {
	hc := &HistoryCmd{env: env, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "history <files...>",
		Short: "Print month over month totals per account and line",
		Args:  cobra.MinimumNArgs(1),
		RunE:  hc.run,
	}

	cmd.Flags().StringVar(&hc.account, "account", "", "Account number; all accounts when empty")

	return cmd
}

func (hc *HistoryCmd) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := hc.env.app(ctx, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	for _, path := range args {
		if err := loadPath(ctx, a.Library, path); err != nil {
			return err
		}
	}

	accounts := []string{hc.account}
	if hc.account == "" {
		if accounts, err = a.Library.Accounts(ctx); err != nil {
			return err
		}
	}
	if len(accounts) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No accounts found.")
		return nil
	}

	for _, account := range accounts {
		docs, err := a.Library.AccountDocuments(ctx, account)
		if err != nil {
			return fmt.Errorf("failed to load documents for %s: %w", account, err)
		}
		if err := hc.reporter.History(a.Billing.History(ctx, docs)); err != nil {
			return err
		}
	}
	return nil
}

// loadPath loads a single JSON file or every JSON file of a directory.
func loadPath(ctx context.Context, library invoices.Library, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if info.IsDir() {
		_, err = library.LoadDir(ctx, path)
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	_, err = library.Load(ctx, f, path)
	return err
}

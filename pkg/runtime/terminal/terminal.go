package terminal

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/de-tools/bill-atlas/pkg/runtime/app"
	"github.com/de-tools/bill-atlas/pkg/runtime/terminal/commands"
	"github.com/de-tools/bill-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/bill-atlas/pkg/services/billing"
	"github.com/de-tools/bill-atlas/pkg/services/config"
)

// CLI represents the command-line interface
type CLI struct {
	env      *commands.Env
	reporter *export.Reporter
	rootCmd  *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Bootstrap commands.Bootstrap
	Output    io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Bootstrap == nil {
		opts.Bootstrap = func(ctx context.Context, cfg *config.Config) (*app.App, error) {
			return app.New(ctx, cfg, app.Overrides{})
		}
	}

	cli := &CLI{
		env:      &commands.Env{Bootstrap: opts.Bootstrap},
		reporter: export.NewReporter(opts.Output),
	}

	cli.rootCmd = cli.newRootCmd()
	cli.rootCmd.SetOut(opts.Output)
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

func (cli *CLI) ExecuteContext(ctx context.Context, args ...string) error {
	if args != nil {
		cli.rootCmd.SetArgs(args)
	}
	return cli.rootCmd.ExecuteContext(ctx)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "bill-atlas",
		Short:         "Telecom invoice summaries, history and section exports",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&cli.env.ConfigPath, "config", "c", "", "Path to a YAML config file")

	cmd.AddCommand(commands.NewSummaryCmd(billing.NewService(), cli.reporter))
	cmd.AddCommand(commands.NewHistoryCmd(cli.env, cli.reporter))
	cmd.AddCommand(commands.NewExportCmd(cli.env, cli.reporter))

	return cmd
}

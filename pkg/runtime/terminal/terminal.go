package terminal

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/bi-tools/kpi-pulse/pkg/runtime/terminal/commands"
	"github.com/bi-tools/kpi-pulse/pkg/runtime/terminal/export"
)

// CLI represents the command-line interface
type CLI struct {
	factory  commands.Factory
	reporter *export.Reporter
	output   io.Writer
	rootCmd  *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Factory commands.Factory
	Output  io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	cli := &CLI{
		factory:  opts.Factory,
		reporter: export.NewReporter(opts.Output),
		output:   opts.Output,
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kpi-pulse",
		Short: "KPI insight pipeline",
	}

	cmd.AddCommand(commands.NewAskCmd(cli.factory, cli.reporter))
	cmd.AddCommand(commands.NewSeedCmd(cli.factory, cli.output))
	cmd.AddCommand(commands.NewMetaCmd(cli.output))

	return cmd
}

package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/bi-tools/kpi-pulse/pkg/models/domain"
	"github.com/bi-tools/kpi-pulse/pkg/runtime/terminal/export"
	"github.com/bi-tools/kpi-pulse/pkg/services/analysis"
	kpiservice "github.com/bi-tools/kpi-pulse/pkg/services/kpi"
)

// Dependencies is what a wired command runs against.
type Dependencies struct {
	Analyzer *analysis.Analyzer
	Seeder   *kpiservice.Seeder
	Close    func()
}

// Factory builds Dependencies from a config file path.
type Factory func(ctx context.Context, configPath string) (Dependencies, error)

type AskCmd struct {
	configPath string
	question   string
	style      string
	factory    Factory
	reporter   *export.Reporter
}

func NewAskCmd(factory Factory, reporter *export.Reporter) *cobra.Command {
	ac := &AskCmd{factory: factory, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "ask",
		Short: "Answer a KPI question",
		RunE:  ac.run,
	}

	cmd.Flags().StringVar(&ac.configPath, "config", "", "Path to the configuration file")
	cmd.Flags().StringVar(&ac.question, "question", "", "Business question, e.g. \"why did revenue drop?\"")
	cmd.Flags().StringVar(&ac.style, "style", string(domain.StyleExecutive), "Report style (executive or rule_based)")

	_ = cmd.MarkFlagRequired("question")

	return cmd
}

func (ac *AskCmd) run(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
	defer cancel()

	deps, err := ac.factory(ctx, ac.configPath)
	if err != nil {
		return fmt.Errorf("failed to wire dependencies: %w", err)
	}
	if deps.Close != nil {
		defer deps.Close()
	}

	result, err := deps.Analyzer.Ask(ctx, ac.question, domain.Style(ac.style))
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	return ac.reporter.Handle(&result)
}

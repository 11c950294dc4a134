package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	kpiservice "github.com/bi-tools/kpi-pulse/pkg/services/kpi"
)

type SeedCmd struct {
	configPath string
	months     int
	scenario   string
	reset      bool
	factory    Factory
	output     io.Writer
}

func NewSeedCmd(factory Factory, output io.Writer) *cobra.Command {
	sc := &SeedCmd{factory: factory, output: output}
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Populate synthetic KPI history",
		RunE:  sc.run,
	}

	cmd.Flags().StringVar(&sc.configPath, "config", "", "Path to the configuration file")
	cmd.Flags().IntVar(&sc.months, "months", 6, "Number of months to generate (2-24)")
	cmd.Flags().StringVar(&sc.scenario, "scenario", string(kpiservice.ScenarioRevenueDrop),
		"Shock applied to the last month (revenue_drop, orders_drop, aov_drop)")
	cmd.Flags().BoolVar(&sc.reset, "reset", true, "Delete the target months before seeding")

	return cmd
}

func (sc *SeedCmd) run(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
	defer cancel()

	deps, err := sc.factory(ctx, sc.configPath)
	if err != nil {
		return fmt.Errorf("failed to wire dependencies: %w", err)
	}
	if deps.Close != nil {
		defer deps.Close()
	}

	result, err := deps.Seeder.Seed(ctx, sc.months, sc.reset, kpiservice.Scenario(sc.scenario))
	if err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}

	fmt.Fprintf(sc.output, "Seeded %d months (%s to %s), scenario %s\n",
		result.Inserted,
		result.First.Format("2006-01"),
		result.Last.Format("2006-01"),
		result.Scenario)
	return nil
}

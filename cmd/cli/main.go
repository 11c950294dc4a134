package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/bi-tools/kpi-pulse/pkg/runtime/terminal"
	"github.com/bi-tools/kpi-pulse/pkg/runtime/terminal/commands"
	"github.com/bi-tools/kpi-pulse/pkg/services/analysis"
	"github.com/bi-tools/kpi-pulse/pkg/services/config"
	kpiservice "github.com/bi-tools/kpi-pulse/pkg/services/kpi"
	"github.com/bi-tools/kpi-pulse/pkg/store/postgres"
	historystore "github.com/bi-tools/kpi-pulse/pkg/store/postgres/history"
	kpistore "github.com/bi-tools/kpi-pulse/pkg/store/postgres/kpi"
)

func main() {
	_ = godotenv.Load()

	cli := terminal.NewCLI(terminal.Options{
		Factory: wireDependencies,
		Output:  os.Stdout,
	})

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func wireDependencies(_ context.Context, configPath string) (commands.Dependencies, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return commands.Dependencies{}, fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(postgres.Settings{
		DSN:          cfg.DB.DSN,
		ConnTimeout:  cfg.DB.ConnTimeout,
		MaxOpenConns: cfg.DB.MaxOpenConns,
	})
	if err != nil {
		return commands.Dependencies{}, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	kpiStore, err := kpistore.NewStore(db, cfg.DB.QueryTimeout)
	if err != nil {
		_ = db.Close()
		return commands.Dependencies{}, fmt.Errorf("failed to create kpi store: %w", err)
	}
	history, err := historystore.NewStore(db, cfg.DB.QueryTimeout)
	if err != nil {
		_ = db.Close()
		return commands.Dependencies{}, fmt.Errorf("failed to create history store: %w", err)
	}

	analyzer := analysis.NewAnalyzer(analysis.Dependencies{
		Gateway: kpiStore,
		Scoring: cfg.Scoring,
		Sink:    history,
	})

	return commands.Dependencies{
		Analyzer: analyzer,
		Seeder:   kpiservice.NewSeeder(kpiStore),
		Close:    func() { _ = db.Close() },
	}, nil
}

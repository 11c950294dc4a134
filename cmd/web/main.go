package main

import (
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/bi-tools/kpi-pulse/pkg/server"
	"github.com/bi-tools/kpi-pulse/pkg/services/analysis"
	"github.com/bi-tools/kpi-pulse/pkg/services/config"
	"github.com/bi-tools/kpi-pulse/pkg/services/jobs"
	kpiservice "github.com/bi-tools/kpi-pulse/pkg/services/kpi"
	"github.com/bi-tools/kpi-pulse/pkg/store/postgres"
	historystore "github.com/bi-tools/kpi-pulse/pkg/store/postgres/history"
	kpistore "github.com/bi-tools/kpi-pulse/pkg/store/postgres/kpi"
)

var version = "dev"

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the KPI Pulse web server",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to the YAML config file (defaults plus KPI_* env vars when omitted)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("No .env file loaded: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(postgres.Settings{
		DSN:          cfg.DB.DSN,
		ConnTimeout:  cfg.DB.ConnTimeout,
		MaxOpenConns: cfg.DB.MaxOpenConns,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	defer db.Close()

	kpiStore, err := kpistore.NewStore(db, cfg.DB.QueryTimeout)
	if err != nil {
		return fmt.Errorf("failed to create kpi store: %w", err)
	}
	history, err := historystore.NewStore(db, cfg.DB.QueryTimeout)
	if err != nil {
		return fmt.Errorf("failed to create history store: %w", err)
	}

	analyzer := analysis.NewAnalyzer(analysis.Dependencies{
		Gateway: kpiStore,
		Scoring: cfg.Scoring,
		Sink:    history,
	})
	jobCtrl := jobs.NewController(analyzer)
	seeder := kpiservice.NewSeeder(kpiStore)

	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	logger.Info().Str("addr", addr).Str("version", version).Msg("starting kpi-pulse")
	if cfg.Auth.APIKey == "" {
		logger.Warn().Msg("API key not configured, /api/v1 is open")
	}

	api := server.NewWebAPI(logger, server.Config{
		Addr:            addr,
		APIKey:          cfg.Auth.APIKey,
		Version:         version,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Dependencies: server.Dependencies{
			Analyzer: analyzer,
			Jobs:     jobCtrl,
			KpiStore: kpiStore,
			Seeder:   seeder,
			History:  history,
			Anomaly:  cfg.Anomaly,
		},
	})

	return api.Start()
}

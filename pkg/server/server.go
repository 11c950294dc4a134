package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	analysishandlers "github.com/bi-tools/kpi-pulse/pkg/handlers/analysis"
	dashboardhandlers "github.com/bi-tools/kpi-pulse/pkg/handlers/dashboard"
	kpihandlers "github.com/bi-tools/kpi-pulse/pkg/handlers/kpi"
	metahandlers "github.com/bi-tools/kpi-pulse/pkg/handlers/meta"
	kpipulsemiddleware "github.com/bi-tools/kpi-pulse/pkg/server/middleware"
	"github.com/bi-tools/kpi-pulse/pkg/services/analysis"
	"github.com/bi-tools/kpi-pulse/pkg/services/jobs"
	kpiservice "github.com/bi-tools/kpi-pulse/pkg/services/kpi"
	"github.com/bi-tools/kpi-pulse/pkg/store/postgres/history"
	kpistore "github.com/bi-tools/kpi-pulse/pkg/store/postgres/kpi"
)

type WebAPI struct {
	router *chi.Mux
	logger *zerolog.Logger
	server *http.Server
}

type Dependencies struct {
	Analyzer analysishandlers.Analyzer
	Jobs     *jobs.Controller
	KpiStore kpistore.Store
	Seeder   *kpiservice.Seeder
	History  history.Store
	Anomaly  analysis.AnomalyConfig
}

type Config struct {
	Addr            string
	APIKey          string
	Version         string
	ShutdownTimeout time.Duration
	Dependencies    Dependencies
}

func ConfigureRouter(logger zerolog.Logger, config Config) *chi.Mux {
	deps := config.Dependencies

	analysisHandler := analysishandlers.NewHandler(deps.Analyzer, deps.Jobs).WithRecorder(deps.History)
	kpiHandler := kpihandlers.NewHandler(deps.KpiStore, deps.Seeder)
	dashboardHandler := dashboardhandlers.NewHandler(deps.KpiStore, deps.Anomaly)
	metaHandler := metahandlers.NewHandler(deps.History, deps.KpiStore, config.Version)

	router := chi.NewRouter()

	router.Use(kpipulsemiddleware.Logger(&logger))
	router.Use(chimiddleware.Recoverer)

	// Probes stay outside the key gate.
	router.Get("/health", metaHandler.Health)
	router.Get("/health/db", metaHandler.HealthDB)
	router.Get("/version", metaHandler.Version)

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(kpipulsemiddleware.APIKey(config.APIKey))

		r.Post("/ask", analysisHandler.Ask)
		r.Post("/analyze", analysisHandler.Analyze)
		r.Post("/ask/async", analysisHandler.SubmitAsync)
		r.Get("/jobs", analysisHandler.ListJobs)
		r.Get("/jobs/{id}", analysisHandler.PollJob)

		r.Get("/kpi", kpiHandler.List)
		r.Post("/kpi", kpiHandler.Upsert)
		r.Post("/kpi/seed", kpiHandler.Seed)

		r.Get("/dashboard", dashboardHandler.Dashboard)
		r.Post("/simulate", dashboardHandler.Simulate)

		r.Get("/history", metaHandler.History)
		r.Get("/meta", metaHandler.Meta)
	})

	return router
}

func NewWebAPI(logger zerolog.Logger, config Config) *WebAPI {
	router := ConfigureRouter(logger, config)

	return &WebAPI{
		router: router,
		logger: &logger,
		server: &http.Server{
			Addr:    config.Addr,
			Handler: router,
		},
	}
}

func (w *WebAPI) Start() error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-shutdown:
		w.logger.Info().Msg("shutdown initiated")

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		err := w.server.Shutdown(ctx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}

		if err != nil {
			return err
		}
	}

	return nil
}

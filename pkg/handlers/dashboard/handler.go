package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bi-tools/kpi-pulse/pkg/adapters"
	"github.com/bi-tools/kpi-pulse/pkg/handlers/respond"
	"github.com/bi-tools/kpi-pulse/pkg/models/api"
	"github.com/bi-tools/kpi-pulse/pkg/models/domain"
	"github.com/bi-tools/kpi-pulse/pkg/services/analysis"
	"github.com/bi-tools/kpi-pulse/pkg/services/query"
)

type Handler struct {
	gateway analysis.Gateway
	synth   *query.Synthesizer
	anomaly analysis.AnomalyConfig
}

func NewHandler(gateway analysis.Gateway, anomaly analysis.AnomalyConfig) *Handler {
	return &Handler{
		gateway: gateway,
		synth:   query.NewSynthesizer(),
		anomaly: anomaly,
	}
}

// Dashboard reports month-over-month movement of every metric plus
// threshold alerts. A store with fewer than two months responds with an
// explicit "insufficient_data" payload rather than an error.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	series, err := h.fetchRecent(ctx)
	if err != nil {
		respond.Error(ctx, w, err)
		return
	}

	rep, err := analysis.DetectAnomalies(series, h.anomaly)
	if errors.Is(err, domain.ErrInsufficientData) {
		respond.JSON(ctx, w, http.StatusOK, api.DashboardResponse{
			Status:    "insufficient_data",
			Changes:   []api.MetricChange{},
			Alerts:    []api.AnomalyAlert{},
			RiskBadge: string(domain.RiskLow),
		})
		return
	}
	if err != nil {
		respond.Error(ctx, w, err)
		return
	}
	respond.JSON(ctx, w, http.StatusOK, adapters.MapAnomalyReportDomainToApi(rep))
}

// Simulate answers "what if orders and AOV moved by X%" against the
// latest month.
func (h *Handler) Simulate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.SimulationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(ctx, w, "invalid request body")
		return
	}
	if req.OrdersDeltaPct < -1 || req.AOVDeltaPct < -1 {
		respond.BadRequest(ctx, w, "delta percentages cannot be below -1")
		return
	}

	series, err := h.fetchRecent(ctx)
	if err != nil {
		respond.Error(ctx, w, err)
		return
	}

	sim, err := analysis.Simulate(series, req.OrdersDeltaPct, req.AOVDeltaPct)
	if err != nil {
		respond.Error(ctx, w, err)
		return
	}
	respond.JSON(ctx, w, http.StatusOK, adapters.MapSimulationDomainToApi(sim))
}

func (h *Handler) fetchRecent(ctx context.Context) (domain.KpiSeries, error) {
	q, err := h.synth.Build(domain.Intent{
		Metric: domain.MetricRevenue,
		Range:  domain.RangeLast6Months,
	})
	if err != nil {
		return domain.KpiSeries{}, err
	}
	return h.gateway.Fetch(ctx, q)
}

package meta

import (
	"context"
	"net/http"
	"strconv"

	"github.com/bi-tools/kpi-pulse/pkg/adapters"
	"github.com/bi-tools/kpi-pulse/pkg/handlers/respond"
	"github.com/bi-tools/kpi-pulse/pkg/models/api"
	"github.com/bi-tools/kpi-pulse/pkg/models/domain"
	"github.com/bi-tools/kpi-pulse/pkg/store/postgres/history"
)

const serviceName = "kpi-pulse"

// Pinger reports database liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	history history.Store
	pinger  Pinger
	version string
}

func NewHandler(historyStore history.Store, pinger Pinger, version string) *Handler {
	if version == "" {
		version = "dev"
	}
	return &Handler{history: historyStore, pinger: pinger, version: version}
}

// Meta advertises the vocabulary clients can use.
func (h *Handler) Meta(w http.ResponseWriter, r *http.Request) {
	response := api.MetaResponse{
		Metrics: make([]string, 0, len(domain.SupportedMetrics())),
		Ranges:  make([]string, 0, len(domain.SupportedRanges())),
		Styles:  make([]string, 0, len(domain.SupportedStyles())),
		ExampleQuestions: []string{
			"Why did revenue drop last month?",
			"How are orders trending over the last 6 months?",
			"What happened to AOV last quarter?",
			"Show customer count year to date",
		},
	}
	for _, m := range domain.SupportedMetrics() {
		response.Metrics = append(response.Metrics, string(m))
	}
	for _, rng := range domain.SupportedRanges() {
		response.Ranges = append(response.Ranges, string(rng))
	}
	for _, s := range domain.SupportedStyles() {
		response.Styles = append(response.Styles, string(s))
	}
	respond.JSON(r.Context(), w, http.StatusOK, response)
}

func (h *Handler) Version(w http.ResponseWriter, r *http.Request) {
	respond.JSON(r.Context(), w, http.StatusOK, api.VersionResponse{
		Service: serviceName,
		Version: h.version,
		API:     "v1",
	})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respond.JSON(r.Context(), w, http.StatusOK, api.HealthResponse{OK: true, Service: serviceName})
}

// HealthDB is the deep check: 200 only when the database answers.
func (h *Handler) HealthDB(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.pinger.Ping(ctx); err != nil {
		respond.JSON(ctx, w, http.StatusServiceUnavailable, api.HealthResponse{OK: false, Service: serviceName})
		return
	}
	respond.JSON(ctx, w, http.StatusOK, api.HealthResponse{OK: true, Service: serviceName})
}

// History returns recent completed analyses, newest first.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respond.BadRequest(ctx, w, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	records, err := h.history.RecentAnalyses(ctx, limit)
	if err != nil {
		respond.Error(ctx, w, err)
		return
	}

	response := api.HistoryResponse{Data: make([]api.HistoryEntry, 0, len(records))}
	for _, rec := range records {
		response.Data = append(response.Data, adapters.MapAnalysisRecordStoreToApi(rec))
	}
	respond.JSON(ctx, w, http.StatusOK, response)
}

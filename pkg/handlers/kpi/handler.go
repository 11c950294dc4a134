package kpi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/bi-tools/kpi-pulse/pkg/adapters"
	"github.com/bi-tools/kpi-pulse/pkg/handlers/respond"
	"github.com/bi-tools/kpi-pulse/pkg/models/api"
	storemodels "github.com/bi-tools/kpi-pulse/pkg/models/store"
	kpiservice "github.com/bi-tools/kpi-pulse/pkg/services/kpi"
	kpistore "github.com/bi-tools/kpi-pulse/pkg/store/postgres/kpi"
)

const monthLayout = "2006-01-02"

type Handler struct {
	store  kpistore.Store
	seeder *kpiservice.Seeder
}

func NewHandler(store kpistore.Store, seeder *kpiservice.Seeder) *Handler {
	return &Handler{store: store, seeder: seeder}
}

// List returns raw monthly rows, optionally bounded by ?from= and ?to=
// (YYYY-MM-DD or YYYY-MM).
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	from, ok := parseMonthParam(r.URL.Query().Get("from"))
	if !ok {
		respond.BadRequest(ctx, w, "from must be YYYY-MM or YYYY-MM-DD")
		return
	}
	to, ok := parseMonthParam(r.URL.Query().Get("to"))
	if !ok {
		respond.BadRequest(ctx, w, "to must be YYYY-MM or YYYY-MM-DD")
		return
	}

	records, err := h.store.List(ctx, from, to)
	if err != nil {
		respond.Error(ctx, w, err)
		return
	}

	response := api.KpiListResponse{Data: make([]api.KpiPoint, 0, len(records))}
	for _, rec := range records {
		response.Data = append(response.Data, adapters.MapKpiRecordStoreToApi(rec))
	}
	respond.JSON(ctx, w, http.StatusOK, response)
}

// Upsert inserts or replaces a single month.
func (h *Handler) Upsert(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.KpiUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(ctx, w, "invalid request body")
		return
	}

	month, err := time.Parse(monthLayout, req.Month)
	if err != nil {
		respond.BadRequest(ctx, w, "month must be YYYY-MM-DD")
		return
	}
	if req.Revenue < 0 || req.Orders < 0 || req.Customers < 0 {
		respond.BadRequest(ctx, w, "revenue, orders and customers must be non-negative")
		return
	}

	record := storemodels.KpiRecord{
		Month:     month,
		Revenue:   req.Revenue,
		Orders:    req.Orders,
		Customers: req.Customers,
	}
	if err := h.store.Upsert(ctx, record); err != nil {
		respond.Error(ctx, w, err)
		return
	}
	respond.JSON(ctx, w, http.StatusOK, adapters.MapKpiRecordStoreToApi(record))
}

// Seed populates a synthetic history so the pipeline has something to
// analyze out of the box.
func (h *Handler) Seed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req := api.SeedRequest{Months: 6, Reset: true, Scenario: string(kpiservice.ScenarioRevenueDrop)}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.BadRequest(ctx, w, "invalid request body")
			return
		}
	}

	result, err := h.seeder.Seed(ctx, req.Months, req.Reset, kpiservice.Scenario(req.Scenario))
	if err != nil {
		respond.Error(ctx, w, err)
		return
	}

	respond.JSON(ctx, w, http.StatusOK, api.SeedResponse{
		Status:         "ok",
		MonthsInserted: result.Inserted,
		MonthsRange:    []string{result.First.Format(monthLayout), result.Last.Format(monthLayout)},
		Reset:          req.Reset,
		Scenario:       string(result.Scenario),
	})
}

func parseMonthParam(raw string) (*time.Time, bool) {
	if raw == "" {
		return nil, true
	}
	for _, layout := range []string{monthLayout, "2006-01"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, true
		}
	}
	return nil, false
}

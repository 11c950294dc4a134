package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bi-tools/kpi-pulse/pkg/adapters"
	"github.com/bi-tools/kpi-pulse/pkg/handlers/respond"
	"github.com/bi-tools/kpi-pulse/pkg/models/api"
	"github.com/bi-tools/kpi-pulse/pkg/models/domain"
	"github.com/bi-tools/kpi-pulse/pkg/models/store"
	"github.com/bi-tools/kpi-pulse/pkg/services/jobs"
)

// Analyzer is the synchronous pipeline surface the handler needs.
type Analyzer interface {
	Ask(ctx context.Context, question string, style domain.Style) (domain.Analysis, error)
	Analyze(ctx context.Context, in domain.Intent) (domain.Analysis, error)
}

// RequestRecorder audits question requests. Best-effort, like the
// analysis sink.
type RequestRecorder interface {
	AppendRequest(ctx context.Context, r store.RequestRecord) error
}

type Handler struct {
	analyzer Analyzer
	jobs     *jobs.Controller
	recorder RequestRecorder
	now      func() time.Time
}

func NewHandler(analyzer Analyzer, jobCtrl *jobs.Controller) *Handler {
	return &Handler{analyzer: analyzer, jobs: jobCtrl, now: time.Now}
}

// WithRecorder enables request auditing.
func (h *Handler) WithRecorder(recorder RequestRecorder) *Handler {
	h.recorder = recorder
	return h
}

func (h *Handler) record(ctx context.Context, question, mode string, started time.Time, resultErr error) {
	if h.recorder == nil {
		return
	}
	status, errText := "ok", ""
	if resultErr != nil {
		status, errText = "error", resultErr.Error()
	}
	rec := store.RequestRecord{
		RequestID: uuid.NewString(),
		Question:  question,
		Mode:      mode,
		Status:    status,
		LatencyMs: time.Since(started).Milliseconds(),
		Error:     errText,
	}
	if err := h.recorder.AppendRequest(ctx, rec); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to append request record")
	}
}

// Ask answers a free-text question synchronously.
func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(ctx, w, "invalid request body")
		return
	}
	if req.Question == "" {
		respond.BadRequest(ctx, w, "question is required")
		return
	}

	started := h.now()
	result, err := h.analyzer.Ask(ctx, req.Question, domain.Style(req.Style))
	h.record(ctx, req.Question, "sync", started, err)
	if err != nil {
		respond.Error(ctx, w, err)
		return
	}

	response := adapters.MapAnalysisDomainToApi(result)
	response.Question = req.Question
	respond.JSON(ctx, w, http.StatusOK, response)
}

// Analyze runs the pipeline for an explicit metric/range, skipping the
// parser.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(ctx, w, "invalid request body")
		return
	}

	in := domain.Intent{
		Metric: domain.Metric(req.Metric),
		Range:  domain.Range(req.Range),
		Style:  domain.Style(req.Style),
	}
	if !in.Range.Valid() {
		in.Range = domain.RangeLast3Months
	}
	if !in.Style.Valid() {
		in.Style = domain.StyleExecutive
	}

	started := h.now()
	result, err := h.analyzer.Analyze(ctx, in)
	h.record(ctx, fmt.Sprintf("%s over %s", in.Metric, in.Range), "analyze", started, err)
	if err != nil {
		respond.Error(ctx, w, err)
		return
	}
	respond.JSON(ctx, w, http.StatusOK, adapters.MapAnalysisDomainToApi(result))
}

// SubmitAsync registers a background analysis job and returns 202 with
// a poll URL.
func (h *Handler) SubmitAsync(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(ctx, w, "invalid request body")
		return
	}
	if req.Question == "" {
		respond.BadRequest(ctx, w, "question is required")
		return
	}

	started := h.now()
	id, err := h.jobs.Submit(ctx, req.Question, domain.Style(req.Style))
	h.record(ctx, req.Question, "async", started, err)
	if err != nil {
		respond.Error(ctx, w, err)
		return
	}

	respond.JSON(ctx, w, http.StatusAccepted, api.SubmitJobResponse{
		JobID:  id,
		Status: string(domain.JobPending),
		Poll:   fmt.Sprintf("/api/v1/jobs/%s", id),
	})
}

func (h *Handler) PollJob(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	job, err := h.jobs.Poll(ctx, id)
	if err != nil {
		respond.Error(ctx, w, err)
		return
	}
	respond.JSON(ctx, w, http.StatusOK, adapters.MapJobDomainToApi(job))
}

func (h *Handler) ListJobs(w http.ResponseWriter, r *http.Request) {
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

	list := h.jobs.List(ctx, limit)
	response := make([]api.JobResponse, 0, len(list))
	for _, job := range list {
		response = append(response, adapters.MapJobDomainToApi(job))
	}
	respond.JSON(ctx, w, http.StatusOK, response)
}

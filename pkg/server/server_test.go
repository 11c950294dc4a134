package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bi-tools/kpi-pulse/pkg/models/api"
	"github.com/bi-tools/kpi-pulse/pkg/models/domain"
	storemodels "github.com/bi-tools/kpi-pulse/pkg/models/store"
	"github.com/bi-tools/kpi-pulse/pkg/services/analysis"
	"github.com/bi-tools/kpi-pulse/pkg/services/jobs"
	kpiservice "github.com/bi-tools/kpi-pulse/pkg/services/kpi"
)

type mockAnalyzer struct {
	mock.Mock
}

func (m *mockAnalyzer) Ask(ctx context.Context, question string, style domain.Style) (domain.Analysis, error) {
	args := m.Called(ctx, question, style)
	result, _ := args.Get(0).(domain.Analysis)
	return result, args.Error(1)
}

func (m *mockAnalyzer) Analyze(ctx context.Context, in domain.Intent) (domain.Analysis, error) {
	args := m.Called(ctx, in)
	result, _ := args.Get(0).(domain.Analysis)
	return result, args.Error(1)
}

type mockKpiStore struct {
	mock.Mock
}

func (m *mockKpiStore) Fetch(ctx context.Context, q domain.ParameterizedQuery) (domain.KpiSeries, error) {
	args := m.Called(ctx, q)
	series, _ := args.Get(0).(domain.KpiSeries)
	return series, args.Error(1)
}

func (m *mockKpiStore) List(ctx context.Context, from, to *time.Time) ([]storemodels.KpiRecord, error) {
	args := m.Called(ctx, from, to)
	records, _ := args.Get(0).([]storemodels.KpiRecord)
	return records, args.Error(1)
}

func (m *mockKpiStore) Upsert(ctx context.Context, record storemodels.KpiRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *mockKpiStore) DeleteMonths(ctx context.Context, months []time.Time) error {
	args := m.Called(ctx, months)
	return args.Error(0)
}

func (m *mockKpiStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type mockHistoryStore struct {
	mock.Mock
}

func (m *mockHistoryStore) AppendAnalysis(ctx context.Context, a domain.Analysis) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *mockHistoryStore) AppendRequest(ctx context.Context, r storemodels.RequestRecord) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *mockHistoryStore) RecentAnalyses(ctx context.Context, limit int) ([]storemodels.AnalysisRecord, error) {
	args := m.Called(ctx, limit)
	records, _ := args.Get(0).([]storemodels.AnalysisRecord)
	return records, args.Error(1)
}

func sampleAnalysis() domain.Analysis {
	generated := time.Date(2025, time.July, 1, 10, 0, 0, 0, time.UTC)
	return domain.Analysis{
		Intent: domain.Intent{
			Metric: domain.MetricRevenue,
			Range:  domain.RangeLast3Months,
			Style:  domain.StyleExecutive,
		},
		Query: domain.ParameterizedQuery{
			Metric: domain.MetricRevenue,
			Range:  domain.RangeLast3Months,
			Text:   "SELECT month, revenue, orders, customers\nFROM kpi_monthly\nORDER BY month DESC\nLIMIT $1",
			Args:   []any{3},
		},
		Contributions: []domain.DriverContribution{
			{Driver: domain.MetricOrders, DeltaAbsolute: -21250, DeltaPercent: -0.20, Rank: 1},
			{Driver: domain.MetricAOV, DeltaAbsolute: 11250, DeltaPercent: 0.125, Rank: 2},
		},
		Signal: domain.DecisionSignal{
			RiskScore:      51,
			RiskLevel:      domain.RiskMedium,
			TrendDirection: domain.TrendDown,
		},
		Report: domain.ExecutiveReport{
			Narrative:      "REVENUE declined, driven primarily by order volume (-20.0%).",
			RiskStatement:  "Risk level is MEDIUM.",
			Recommendation: "Investigate order volume.",
			MainDriver:     domain.MetricOrders,
			GeneratedAt:    generated,
		},
	}
}

func newTestServer(t *testing.T, apiKey string) (*httptest.Server, *mockAnalyzer, *mockKpiStore, *mockHistoryStore) {
	t.Helper()

	analyzer := new(mockAnalyzer)
	store := new(mockKpiStore)
	historyMock := new(mockHistoryStore)
	historyMock.On("AppendRequest", mock.Anything, mock.Anything).Return(nil).Maybe()

	logger := zerolog.New(zerolog.NewTestWriter(t))
	router := ConfigureRouter(logger, Config{
		Addr:    ":8080",
		APIKey:  apiKey,
		Version: "test",
		Dependencies: Dependencies{
			Analyzer: analyzer,
			Jobs:     jobs.NewController(analyzer),
			KpiStore: store,
			Seeder:   kpiservice.NewSeeder(store),
			History:  historyMock,
			Anomaly:  analysis.DefaultAnomalyConfig(),
		},
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server, analyzer, store, historyMock
}

func postJSON(t *testing.T, url string, body any, headers map[string]string) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out T
	require.NoError(t, json.Unmarshal(data, &out), "body: %s", data)
	return out
}

func TestAsk_ReturnsFullReport(t *testing.T) {
	server, analyzer, _, _ := newTestServer(t, "")

	analyzer.On("Ask", mock.Anything, "why did revenue drop?", domain.Style("")).
		Return(sampleAnalysis(), nil)

	resp := postJSON(t, server.URL+"/api/v1/ask", api.AskRequest{Question: "why did revenue drop?"}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[api.AnalysisResponse](t, resp)
	assert.Equal(t, "why did revenue drop?", body.Question)
	assert.Equal(t, "revenue", body.Metric)
	assert.Equal(t, "last_3_months", body.Range)
	assert.Equal(t, 51, body.RiskScore)
	assert.Equal(t, "MEDIUM", body.RiskLevel)
	assert.Equal(t, "DOWN", body.TrendDirection)
	assert.Equal(t, "orders", body.MainDriver)
	require.Len(t, body.DriverSummary, 2)
	assert.Equal(t, 1, body.DriverSummary[0].Rank)
}

func TestAsk_MissingQuestion(t *testing.T) {
	server, _, _, _ := newTestServer(t, "")

	resp := postJSON(t, server.URL+"/api/v1/ask", api.AskRequest{}, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decode[api.ErrorResponse](t, resp)
	assert.Equal(t, "BAD_REQUEST", body.Error.Code)
}

func TestAsk_InsufficientData(t *testing.T) {
	server, analyzer, _, _ := newTestServer(t, "")

	analyzer.On("Ask", mock.Anything, "revenue?", domain.Style("")).
		Return(domain.Analysis{}, domain.ErrInsufficientData)

	resp := postJSON(t, server.URL+"/api/v1/ask", api.AskRequest{Question: "revenue?"}, nil)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	body := decode[api.ErrorResponse](t, resp)
	assert.Equal(t, "INSUFFICIENT_DATA", body.Error.Code)
}

func TestAnalyze_UnsupportedMetric(t *testing.T) {
	server, analyzer, _, _ := newTestServer(t, "")

	analyzer.On("Analyze", mock.Anything, mock.Anything).
		Return(domain.Analysis{}, domain.ErrUnsupportedMetric)

	resp := postJSON(t, server.URL+"/api/v1/analyze", api.AnalyzeRequest{Metric: "margin"}, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decode[api.ErrorResponse](t, resp)
	assert.Equal(t, "UNSUPPORTED_METRIC", body.Error.Code)
}

func TestAPIKey_GateAndBypass(t *testing.T) {
	server, analyzer, store, _ := newTestServer(t, "s3cret")

	// No key.
	resp := postJSON(t, server.URL+"/api/v1/ask", api.AskRequest{Question: "revenue?"}, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body := decode[api.ErrorResponse](t, resp)
	assert.Equal(t, "UNAUTHORIZED", body.Error.Code)

	// Wrong key.
	resp = postJSON(t, server.URL+"/api/v1/ask", api.AskRequest{Question: "revenue?"},
		map[string]string{"X-API-Key": "wrong"})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// Correct key.
	analyzer.On("Ask", mock.Anything, "revenue?", domain.Style("")).
		Return(sampleAnalysis(), nil)
	resp = postJSON(t, server.URL+"/api/v1/ask", api.AskRequest{Question: "revenue?"},
		map[string]string{"X-API-Key": "s3cret"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Probes stay open.
	store.On("Ping", mock.Anything).Return(nil)
	for _, path := range []string{"/health", "/health/db", "/version"} {
		probeResp, err := http.Get(server.URL + path)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, probeResp.StatusCode, path)
		probeResp.Body.Close()
	}
}

func TestAsyncJob_MatchesSyncResult(t *testing.T) {
	server, analyzer, _, _ := newTestServer(t, "")

	analyzer.On("Ask", mock.Anything, "why did revenue drop?", domain.Style("")).
		Return(sampleAnalysis(), nil)

	syncResp := postJSON(t, server.URL+"/api/v1/ask", api.AskRequest{Question: "why did revenue drop?"}, nil)
	require.Equal(t, http.StatusOK, syncResp.StatusCode)
	syncBody := decode[api.AnalysisResponse](t, syncResp)

	asyncResp := postJSON(t, server.URL+"/api/v1/ask/async", api.AskRequest{Question: "why did revenue drop?"}, nil)
	require.Equal(t, http.StatusAccepted, asyncResp.StatusCode)
	submitted := decode[api.SubmitJobResponse](t, asyncResp)
	require.NotEmpty(t, submitted.JobID)
	assert.Equal(t, "/api/v1/jobs/"+submitted.JobID, submitted.Poll)

	var job api.JobResponse
	require.Eventually(t, func() bool {
		pollResp, err := http.Get(server.URL + "/api/v1/jobs/" + submitted.JobID)
		if err != nil {
			return false
		}
		defer pollResp.Body.Close()
		if err := json.NewDecoder(pollResp.Body).Decode(&job); err != nil {
			return false
		}
		return job.Status == "DONE" || job.Status == "FAILED"
	}, 2*time.Second, 10*time.Millisecond)

	require.Equal(t, "DONE", job.Status)
	require.NotNil(t, job.Result)
	assert.Equal(t, syncBody, *job.Result)
}

func TestPollJob_Unknown(t *testing.T) {
	server, _, _, _ := newTestServer(t, "")

	resp, err := http.Get(server.URL + "/api/v1/jobs/nope")
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	body := decode[api.ErrorResponse](t, resp)
	assert.Equal(t, "NOT_FOUND", body.Error.Code)
}

func TestDashboard_InsufficientDataIsNotAnError(t *testing.T) {
	server, _, store, _ := newTestServer(t, "")

	store.On("Fetch", mock.Anything, mock.Anything).
		Return(domain.KpiSeries{Points: []domain.KpiPoint{{Revenue: 100}}}, nil)

	resp, err := http.Get(server.URL + "/api/v1/dashboard")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[api.DashboardResponse](t, resp)
	assert.Equal(t, "insufficient_data", body.Status)
	assert.Equal(t, "LOW", body.RiskBadge)
	assert.Empty(t, body.Alerts)
}

func TestHealthDB_Unavailable(t *testing.T) {
	server, _, store, _ := newTestServer(t, "")

	store.On("Ping", mock.Anything).Return(context.DeadlineExceeded)

	resp, err := http.Get(server.URL + "/health/db")
	require.NoError(t, err)
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	body := decode[api.HealthResponse](t, resp)
	assert.False(t, body.OK)
}

func TestMeta_AdvertisesVocabulary(t *testing.T) {
	server, _, _, _ := newTestServer(t, "")

	resp, err := http.Get(server.URL + "/api/v1/meta")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[api.MetaResponse](t, resp)
	assert.Contains(t, body.Metrics, "revenue")
	assert.Contains(t, body.Ranges, "last_3_months")
	assert.Contains(t, body.Styles, "executive")
	assert.NotEmpty(t, body.ExampleQuestions)
}

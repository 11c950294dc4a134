package history

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/bi-tools/kpi-pulse/pkg/models/domain"
	storemodels "github.com/bi-tools/kpi-pulse/pkg/models/store"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	s, err := NewStore(sqlx.NewDb(db, "sqlmock"), time.Second)
	require.NoError(t, err)
	return s, mock
}

func TestAppendAnalysis(t *testing.T) {
	s, mock := newMockStore(t)

	a := domain.Analysis{
		Intent: domain.Intent{
			Metric: domain.MetricRevenue,
			Range:  domain.RangeLast3Months,
			Style:  domain.StyleExecutive,
		},
		Query: domain.ParameterizedQuery{Text: "SELECT month FROM kpi_monthly"},
		Report: domain.ExecutiveReport{
			Narrative:      "REVENUE declined.",
			RiskStatement:  "Orders are softening.",
			Recommendation: "Review the funnel.",
		},
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO analysis_log")).
		WithArgs("revenue", "last_3_months", "executive",
			a.Query.Text, a.Report.Narrative, a.Report.RiskStatement, a.Report.Recommendation).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, s.AppendAnalysis(context.Background(), a))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppendRequest(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO request_log")).
		WithArgs("req-1", "why did revenue drop", "sync", "ok", int64(42), "").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := s.AppendRequest(context.Background(), storemodels.RequestRecord{
		RequestID: "req-1",
		Question:  "why did revenue drop",
		Mode:      "sync",
		Status:    "ok",
		LatencyMs: 42,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecentAnalyses(t *testing.T) {
	s, mock := newMockStore(t)

	created := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "metric", "range", "style", "sql_text",
		"narrative", "risk_statement", "recommendation", "created_at",
	}).AddRow(int64(7), "revenue", "last_3_months", "executive", "SELECT ...",
		"REVENUE declined.", "risk", "rec", created)

	mock.ExpectQuery(regexp.QuoteMeta("FROM analysis_log")).
		WithArgs(10).
		WillReturnRows(rows)

	records, err := s.RecentAnalyses(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, int64(7), records[0].ID)
	assert.Equal(t, "revenue", records[0].Metric)
	assert.Equal(t, created, records[0].CreatedAt)
}

func TestRecentAnalyses_DefaultLimit(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM analysis_log")).
		WithArgs(20).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "metric", "range", "style", "sql_text",
			"narrative", "risk_statement", "recommendation", "created_at",
		}))

	_, err := s.RecentAnalyses(context.Background(), 0)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

package history

import (
	"context"
	"fmt"
	"time"

	"github.com/bi-tools/kpi-pulse/pkg/models/domain"
	storemodels "github.com/bi-tools/kpi-pulse/pkg/models/store"
	"github.com/jmoiron/sqlx"
)

// Store is the append-only recorder of completed analyses and request
// outcomes. The pipeline only writes; reads back the audit endpoints.
type Store interface {
	AppendAnalysis(ctx context.Context, a domain.Analysis) error
	AppendRequest(ctx context.Context, r storemodels.RequestRecord) error
	RecentAnalyses(ctx context.Context, limit int) ([]storemodels.AnalysisRecord, error)
}

type historyStore struct {
	db      *sqlx.DB
	timeout time.Duration
}

func NewStore(db *sqlx.DB, timeout time.Duration) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return &historyStore{db: db, timeout: timeout}, nil
}

func (s *historyStore) AppendAnalysis(ctx context.Context, a domain.Analysis) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	query := `
		INSERT INTO analysis_log (metric, range, style, sql_text, narrative, risk_statement, recommendation)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	if _, err := s.db.ExecContext(ctx, query,
		string(a.Intent.Metric),
		string(a.Intent.Range),
		string(a.Intent.Style),
		a.Query.Text,
		a.Report.Narrative,
		a.Report.RiskStatement,
		a.Report.Recommendation,
	); err != nil {
		return fmt.Errorf("append analysis: %w", err)
	}
	return nil
}

func (s *historyStore) AppendRequest(ctx context.Context, r storemodels.RequestRecord) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	query := `
		INSERT INTO request_log (request_id, question, mode, status, latency_ms, error)
		VALUES ($1, $2, $3, $4, $5, $6)`

	if _, err := s.db.ExecContext(ctx, query,
		r.RequestID, r.Question, r.Mode, r.Status, r.LatencyMs, r.Error); err != nil {
		return fmt.Errorf("append request log: %w", err)
	}
	return nil
}

func (s *historyStore) RecentAnalyses(ctx context.Context, limit int) ([]storemodels.AnalysisRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	query := `
		SELECT id, metric, range, style, sql_text, narrative, risk_statement, recommendation, created_at
		FROM analysis_log
		ORDER BY id DESC
		LIMIT $1`

	var records []storemodels.AnalysisRecord
	if err := s.db.SelectContext(ctx, &records, query, limit); err != nil {
		return nil, fmt.Errorf("recent analyses: %w", err)
	}
	return records, nil
}

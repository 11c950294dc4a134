package kpi

import (
	"context"
	"fmt"
	"time"

	"github.com/bi-tools/kpi-pulse/pkg/models/domain"
	storemodels "github.com/bi-tools/kpi-pulse/pkg/models/store"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Store is the only component that touches the kpi_monthly table. Fetch
// serves the insight pipeline; the remaining methods back the CRUD and
// seeding endpoints.
type Store interface {
	Fetch(ctx context.Context, q domain.ParameterizedQuery) (domain.KpiSeries, error)
	List(ctx context.Context, from, to *time.Time) ([]storemodels.KpiRecord, error)
	Upsert(ctx context.Context, record storemodels.KpiRecord) error
	DeleteMonths(ctx context.Context, months []time.Time) error
	Ping(ctx context.Context) error
}

type kpiStore struct {
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
	return &kpiStore{db: db, timeout: timeout}, nil
}

// Fetch executes the synthesized query and returns the series oldest
// first, with AOV derived per row. A zero-row result is a valid empty
// series; any execution failure (including the enforced timeout)
// surfaces as ErrDataUnavailable.
func (s *kpiStore) Fetch(ctx context.Context, q domain.ParameterizedQuery) (domain.KpiSeries, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	rows, err := s.db.QueryxContext(ctx, q.Text, q.Args...)
	if err != nil {
		return domain.KpiSeries{}, fmt.Errorf("%w: %v", domain.ErrDataUnavailable, err)
	}
	defer rows.Close()

	var records []storemodels.KpiRecord
	for rows.Next() {
		var r storemodels.KpiRecord
		if err := rows.StructScan(&r); err != nil {
			return domain.KpiSeries{}, fmt.Errorf("%w: scan: %v", domain.ErrDataUnavailable, err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return domain.KpiSeries{}, fmt.Errorf("%w: %v", domain.ErrDataUnavailable, err)
	}

	// The query orders DESC for the LIMIT; the series is chronological.
	series := domain.KpiSeries{Points: make([]domain.KpiPoint, 0, len(records))}
	for i := len(records) - 1; i >= 0; i-- {
		series.Points = append(series.Points, toPoint(records[i]))
	}
	return series, nil
}

func (s *kpiStore) List(ctx context.Context, from, to *time.Time) ([]storemodels.KpiRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	query := `SELECT month, revenue, orders, customers FROM kpi_monthly`
	args := []any{}
	switch {
	case from != nil && to != nil:
		query += ` WHERE month >= $1 AND month <= $2`
		args = append(args, *from, *to)
	case from != nil:
		query += ` WHERE month >= $1`
		args = append(args, *from)
	case to != nil:
		query += ` WHERE month <= $1`
		args = append(args, *to)
	}
	query += ` ORDER BY month ASC`

	var records []storemodels.KpiRecord
	if err := s.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("list kpi rows: %w", err)
	}
	return records, nil
}

func (s *kpiStore) Upsert(ctx context.Context, record storemodels.KpiRecord) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	query := `
		INSERT INTO kpi_monthly (month, revenue, orders, customers)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (month) DO UPDATE SET
			revenue = EXCLUDED.revenue,
			orders = EXCLUDED.orders,
			customers = EXCLUDED.customers`

	if _, err := s.db.ExecContext(ctx, query,
		record.Month, record.Revenue, record.Orders, record.Customers); err != nil {
		return fmt.Errorf("upsert kpi row: %w", err)
	}
	return nil
}

func (s *kpiStore) DeleteMonths(ctx context.Context, months []time.Time) error {
	if len(months) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM kpi_monthly WHERE month = ANY($1)`, pq.Array(months)); err != nil {
		return fmt.Errorf("delete kpi months: %w", err)
	}
	return nil
}

func (s *kpiStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.db.PingContext(ctx)
}

// AOV is derived, never stored; 0 when orders is 0.
func toPoint(r storemodels.KpiRecord) domain.KpiPoint {
	aov := 0.0
	if r.Orders != 0 {
		aov = r.Revenue / float64(r.Orders)
	}
	return domain.KpiPoint{
		Period:    r.Month,
		Revenue:   r.Revenue,
		Orders:    float64(r.Orders),
		Customers: float64(r.Customers),
		AOV:       aov,
	}
}

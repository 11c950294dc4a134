package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const kpiMonthlySchema = `
	CREATE TABLE IF NOT EXISTS kpi_monthly (
		month DATE PRIMARY KEY,
		revenue DOUBLE PRECISION NOT NULL,
		orders BIGINT NOT NULL,
		customers BIGINT NOT NULL
	);
`

const analysisLogSchema = `
	CREATE TABLE IF NOT EXISTS analysis_log (
		id BIGSERIAL PRIMARY KEY,
		metric TEXT NOT NULL,
		range TEXT NOT NULL,
		style TEXT NOT NULL,
		sql_text TEXT NOT NULL,
		narrative TEXT NOT NULL,
		risk_statement TEXT NOT NULL,
		recommendation TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
`

const requestLogSchema = `
	CREATE TABLE IF NOT EXISTS request_log (
		id BIGSERIAL PRIMARY KEY,
		request_id TEXT NOT NULL,
		question TEXT NOT NULL,
		mode TEXT NOT NULL,
		status TEXT NOT NULL,
		latency_ms BIGINT NOT NULL,
		error TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
`

var bootQueries = []string{
	kpiMonthlySchema,
	analysisLogSchema,
	requestLogSchema,
}

type Settings struct {
	DSN          string
	ConnTimeout  time.Duration
	MaxOpenConns int
}

// NewDB opens the connection pool and ensures the schema exists.
func NewDB(settings Settings) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", settings.DSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if settings.MaxOpenConns > 0 {
		db.SetMaxOpenConns(settings.MaxOpenConns)
	}

	timeout := settings.ConnTimeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	for _, query := range bootQueries {
		if _, err := db.ExecContext(ctx, query); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
	}

	return db, nil
}

package store

import "time"

// AnalysisRecord is one appended row of the analysis_log table.
type AnalysisRecord struct {
	ID             int64     `db:"id"`
	Metric         string    `db:"metric"`
	Range          string    `db:"range"`
	Style          string    `db:"style"`
	SQL            string    `db:"sql_text"`
	Narrative      string    `db:"narrative"`
	RiskStatement  string    `db:"risk_statement"`
	Recommendation string    `db:"recommendation"`
	CreatedAt      time.Time `db:"created_at"`
}

// RequestRecord is one appended row of the request_log table.
type RequestRecord struct {
	ID        int64     `db:"id"`
	RequestID string    `db:"request_id"`
	Question  string    `db:"question"`
	Mode      string    `db:"mode"`
	Status    string    `db:"status"`
	LatencyMs int64     `db:"latency_ms"`
	Error     string    `db:"error"`
	CreatedAt time.Time `db:"created_at"`
}

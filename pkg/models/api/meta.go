package api

import "time"

type MetaResponse struct {
	Metrics          []string `json:"metrics"`
	Ranges           []string `json:"ranges"`
	Styles           []string `json:"styles"`
	ExampleQuestions []string `json:"example_questions"`
}

type VersionResponse struct {
	Service string `json:"service"`
	Version string `json:"version"`
	API     string `json:"api"`
}

type HealthResponse struct {
	OK      bool   `json:"ok"`
	Service string `json:"service"`
}

type HistoryEntry struct {
	Metric         string    `json:"metric"`
	Range          string    `json:"range"`
	Style          string    `json:"style"`
	SQL            string    `json:"sql"`
	Narrative      string    `json:"narrative"`
	RiskStatement  string    `json:"risk_statement"`
	Recommendation string    `json:"recommendation"`
	CreatedAt      time.Time `json:"created_at"`
}

type HistoryResponse struct {
	Data []HistoryEntry `json:"data"`
}

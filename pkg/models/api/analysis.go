package api

import "time"

type AskRequest struct {
	Question string `json:"question"`
	Style    string `json:"style,omitempty"`
}

type AnalyzeRequest struct {
	Metric string `json:"metric"`
	Range  string `json:"range"`
	Style  string `json:"style,omitempty"`
}

type KpiPoint struct {
	Month     string  `json:"month"`
	Revenue   float64 `json:"revenue"`
	Orders    float64 `json:"orders"`
	Customers float64 `json:"customers"`
	AOV       float64 `json:"aov"`
}

type DriverContribution struct {
	Driver        string  `json:"driver"`
	DeltaAbsolute float64 `json:"delta_absolute"`
	DeltaPercent  float64 `json:"delta_percent"`
	Rank          int     `json:"rank"`
}

type AnalysisResponse struct {
	Question       string               `json:"question,omitempty"`
	Metric         string               `json:"metric"`
	Range          string               `json:"range"`
	Style          string               `json:"style"`
	SQL            string               `json:"sql"`
	Data           []KpiPoint           `json:"data"`
	DriverSummary  []DriverContribution `json:"driver_summary"`
	RiskScore      int                  `json:"risk_score"`
	RiskLevel      string               `json:"risk_level"`
	TrendDirection string               `json:"trend_direction"`
	Narrative      string               `json:"narrative"`
	RiskStatement  string               `json:"risk_statement"`
	Recommendation string               `json:"recommendation"`
	MainDriver     string               `json:"main_driver"`
	GeneratedAt    time.Time            `json:"generated_at"`
}

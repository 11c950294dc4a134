package domain

import "time"

// DriverContribution attributes part of the primary metric's delta to a
// component driver. Ranks form a dense 1..N ordering by descending
// |DeltaAbsolute|, ties broken by name.
type DriverContribution struct {
	Driver        Metric
	DeltaAbsolute float64
	DeltaPercent  float64
	Rank          int
}

type TrendDirection string

const (
	TrendUp   TrendDirection = "UP"
	TrendDown TrendDirection = "DOWN"
	TrendFlat TrendDirection = "FLAT"
)

type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// DecisionSignal is the bounded, reproducible risk output of the rule
// engine. RiskLevel is a pure function of RiskScore.
type DecisionSignal struct {
	RiskScore      int
	RiskLevel      RiskLevel
	TrendDirection TrendDirection
}

// ExecutiveReport is the final narrative triple. Built only from the
// intent, contributions and signal; it never re-queries the store.
type ExecutiveReport struct {
	Narrative      string
	RiskStatement  string
	Recommendation string
	MainDriver     Metric
	GeneratedAt    time.Time
}

// Analysis bundles the full pipeline output for one question.
type Analysis struct {
	Intent        Intent
	Query         ParameterizedQuery
	Series        KpiSeries
	Contributions []DriverContribution
	Signal        DecisionSignal
	Report        ExecutiveReport
}

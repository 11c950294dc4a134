package domain

import "time"

// MetricChange is one metric's month-over-month movement between the two
// latest periods.
type MetricChange struct {
	Metric        Metric
	Previous      float64
	Current       float64
	Delta         float64
	PercentChange float64
}

// AnomalyAlert fires when a metric's |percent change| crosses its
// configured threshold.
type AnomalyAlert struct {
	Metric        Metric
	Direction     TrendDirection
	PercentChange float64
	Threshold     float64
}

// AnomalyReport aggregates alerts into a coarse risk badge for the
// dashboard view.
type AnomalyReport struct {
	PreviousPeriod time.Time
	CurrentPeriod  time.Time
	Changes        []MetricChange
	Alerts         []AnomalyAlert
	RiskBadge      RiskLevel
}

// Simulation is the result of a what-if scenario over the latest period,
// using revenue ≈ orders × AOV.
type Simulation struct {
	BaseOrders       float64
	BaseAOV          float64
	BaseRevenue      float64
	SimulatedOrders  float64
	SimulatedAOV     float64
	SimulatedRevenue float64
	RevenueDelta     float64
	RevenueDeltaPct  float64
}

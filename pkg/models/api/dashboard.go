package api

type MetricChange struct {
	Metric        string  `json:"metric"`
	Previous      float64 `json:"previous"`
	Current       float64 `json:"current"`
	Delta         float64 `json:"delta"`
	PercentChange float64 `json:"pct_change"`
}

type AnomalyAlert struct {
	Metric        string  `json:"metric"`
	Direction     string  `json:"direction"`
	PercentChange float64 `json:"pct_change"`
	Threshold     float64 `json:"threshold"`
	Message       string  `json:"message"`
}

type DashboardResponse struct {
	Status        string         `json:"status"`
	PreviousMonth string         `json:"previous_month,omitempty"`
	CurrentMonth  string         `json:"current_month,omitempty"`
	Changes       []MetricChange `json:"changes"`
	Alerts        []AnomalyAlert `json:"alerts"`
	RiskBadge     string         `json:"risk_badge"`
}

type SimulationRequest struct {
	OrdersDeltaPct float64 `json:"orders_delta_pct"`
	AOVDeltaPct    float64 `json:"aov_delta_pct"`
}

type SimulationResponse struct {
	Base            SimulationValues `json:"base"`
	Simulated       SimulationValues `json:"simulated"`
	RevenueDelta    float64          `json:"revenue_delta"`
	RevenueDeltaPct float64          `json:"revenue_delta_pct"`
}

type SimulationValues struct {
	Orders  float64 `json:"orders"`
	AOV     float64 `json:"aov"`
	Revenue float64 `json:"revenue"`
}

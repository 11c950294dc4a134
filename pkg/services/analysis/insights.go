package analysis

import (
	"fmt"
	"math"

	"github.com/bi-tools/kpi-pulse/pkg/models/domain"
)

// AnomalyConfig holds per-metric |percent change| thresholds for the
// dashboard anomaly detector.
type AnomalyConfig struct {
	Revenue   float64 `mapstructure:"revenue"`
	Orders    float64 `mapstructure:"orders"`
	Customers float64 `mapstructure:"customers"`
	AOV       float64 `mapstructure:"aov"`
}

func DefaultAnomalyConfig() AnomalyConfig {
	return AnomalyConfig{
		Revenue:   0.15,
		Orders:    0.12,
		Customers: 0.10,
		AOV:       0.08,
	}
}

func (c AnomalyConfig) threshold(m domain.Metric) float64 {
	switch m {
	case domain.MetricRevenue:
		return c.Revenue
	case domain.MetricOrders:
		return c.Orders
	case domain.MetricCustomers:
		return c.Customers
	case domain.MetricAOV:
		return c.AOV
	}
	return 0.10
}

// LatestChanges computes each metric's movement between the two most
// recent periods of the series.
func LatestChanges(series domain.KpiSeries) ([]domain.MetricChange, error) {
	if series.Len() < 2 {
		return nil, fmt.Errorf("%w: got %d periods, need 2", domain.ErrInsufficientData, series.Len())
	}

	prior := series.Points[series.Len()-2]
	recent := series.Points[series.Len()-1]

	changes := make([]domain.MetricChange, 0, len(domain.SupportedMetrics()))
	for _, m := range domain.SupportedMetrics() {
		prev, cur := prior.Value(m), recent.Value(m)
		delta := cur - prev
		pct := 0.0
		if prev != 0 {
			pct = delta / math.Abs(prev)
		}
		changes = append(changes, domain.MetricChange{
			Metric:        m,
			Previous:      prev,
			Current:       cur,
			Delta:         delta,
			PercentChange: pct,
		})
	}
	return changes, nil
}

// DetectAnomalies flags threshold crossings and derives the aggregate
// risk badge: a revenue drop alone is HIGH, two or more alerts are
// MEDIUM, otherwise LOW.
func DetectAnomalies(series domain.KpiSeries, cfg AnomalyConfig) (domain.AnomalyReport, error) {
	changes, err := LatestChanges(series)
	if err != nil {
		return domain.AnomalyReport{}, err
	}

	rep := domain.AnomalyReport{
		PreviousPeriod: series.Points[series.Len()-2].Period,
		CurrentPeriod:  series.Points[series.Len()-1].Period,
		Changes:        changes,
		RiskBadge:      domain.RiskLow,
	}

	for _, c := range changes {
		th := cfg.threshold(c.Metric)
		if math.Abs(c.PercentChange) < th {
			continue
		}
		direction := domain.TrendUp
		if c.PercentChange < 0 {
			direction = domain.TrendDown
		}
		rep.Alerts = append(rep.Alerts, domain.AnomalyAlert{
			Metric:        c.Metric,
			Direction:     direction,
			PercentChange: c.PercentChange,
			Threshold:     th,
		})
	}

	for _, a := range rep.Alerts {
		if a.Metric == domain.MetricRevenue && a.Direction == domain.TrendDown {
			rep.RiskBadge = domain.RiskHigh
			return rep, nil
		}
	}
	if len(rep.Alerts) >= 2 {
		rep.RiskBadge = domain.RiskMedium
	}
	return rep, nil
}

// Simulate applies percentage deltas to the latest period's orders and
// AOV and recomputes revenue as orders × AOV.
func Simulate(series domain.KpiSeries, ordersDeltaPct, aovDeltaPct float64) (domain.Simulation, error) {
	if series.Len() == 0 {
		return domain.Simulation{}, fmt.Errorf("%w: empty series", domain.ErrInsufficientData)
	}

	latest := series.Points[series.Len()-1]
	sim := domain.Simulation{
		BaseOrders:      latest.Orders,
		BaseAOV:         latest.AOV,
		BaseRevenue:     latest.Revenue,
		SimulatedOrders: latest.Orders * (1 + ordersDeltaPct),
		SimulatedAOV:    latest.AOV * (1 + aovDeltaPct),
	}
	sim.SimulatedRevenue = sim.SimulatedOrders * sim.SimulatedAOV
	sim.RevenueDelta = sim.SimulatedRevenue - sim.BaseRevenue
	if sim.BaseRevenue != 0 {
		sim.RevenueDeltaPct = sim.RevenueDelta / math.Abs(sim.BaseRevenue)
	}
	return sim, nil
}

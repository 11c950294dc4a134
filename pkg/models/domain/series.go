package domain

import "time"

// ParameterizedQuery carries the SQL text and its positional arguments.
// Text is assembled from enum-derived identifiers only; user input is
// never interpolated into it.
type ParameterizedQuery struct {
	Metric Metric
	Range  Range
	Text   string
	Args   []any
}

// KpiPoint is a single monthly observation. AOV is derived from
// revenue/orders at load time, never stored.
type KpiPoint struct {
	Period    time.Time
	Revenue   float64
	Orders    float64
	Customers float64
	AOV       float64
}

// KpiSeries is chronological with strictly increasing, unique periods.
type KpiSeries struct {
	Points []KpiPoint
}

func (s KpiSeries) Len() int { return len(s.Points) }

// Value returns the given metric's value at this point.
func (p KpiPoint) Value(m Metric) float64 {
	switch m {
	case MetricRevenue:
		return p.Revenue
	case MetricOrders:
		return p.Orders
	case MetricCustomers:
		return p.Customers
	case MetricAOV:
		return p.AOV
	}
	return 0
}

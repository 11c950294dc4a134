package insight

import (
	"fmt"
	"math"
	"sort"

	"github.com/bi-tools/kpi-pulse/pkg/models/domain"
)

// Decomposer attributes the delta of a primary metric across its
// component drivers over the two most recent comparison windows.
//
// The only composite metric is revenue = orders × AOV. Its drivers get
// the attributed share of the revenue delta as DeltaAbsolute
// (interaction term split evenly), so the contributions always sum back
// to the primary delta exactly. DeltaPercent stays the driver's own
// relative change.
type Decomposer struct{}

func NewDecomposer() *Decomposer {
	return &Decomposer{}
}

// Decompose fails with ErrInsufficientData when fewer than two distinct
// periods exist; an empty series hits the same path.
func (d *Decomposer) Decompose(series domain.KpiSeries, metric domain.Metric) ([]domain.DriverContribution, error) {
	if series.Len() < 2 {
		return nil, fmt.Errorf("%w: got %d periods, need 2", domain.ErrInsufficientData, series.Len())
	}

	prior := series.Points[series.Len()-2]
	recent := series.Points[series.Len()-1]

	var contributions []domain.DriverContribution
	if metric == domain.MetricRevenue {
		contributions = decomposeRevenue(prior, recent)
	} else {
		// orders, customers and aov have no further decomposition:
		// the metric is its own single driver.
		delta := recent.Value(metric) - prior.Value(metric)
		contributions = []domain.DriverContribution{{
			Driver:        metric,
			DeltaAbsolute: delta,
			DeltaPercent:  percentChange(prior.Value(metric), delta),
		}}
	}

	rankContributions(contributions)
	return contributions, nil
}

func decomposeRevenue(prior, recent domain.KpiPoint) []domain.DriverContribution {
	deltaOrders := recent.Orders - prior.Orders
	deltaAOV := recent.AOV - prior.AOV

	// revenue = orders × AOV, so
	//   Δrevenue = Δorders·AOV₀ + ΔAOV·orders₀ + Δorders·ΔAOV
	// and the cross term is split evenly between the two drivers.
	interaction := deltaOrders * deltaAOV / 2

	return []domain.DriverContribution{
		{
			Driver:        domain.MetricOrders,
			DeltaAbsolute: deltaOrders*prior.AOV + interaction,
			DeltaPercent:  percentChange(prior.Orders, deltaOrders),
		},
		{
			Driver:        domain.MetricAOV,
			DeltaAbsolute: deltaAOV*prior.Orders + interaction,
			DeltaPercent:  percentChange(prior.AOV, deltaAOV),
		},
	}
}

// rankContributions assigns dense 1..N ranks ordered by |DeltaAbsolute|
// descending, ties broken by driver name ascending.
func rankContributions(contributions []domain.DriverContribution) {
	sort.SliceStable(contributions, func(i, j int) bool {
		ai, aj := math.Abs(contributions[i].DeltaAbsolute), math.Abs(contributions[j].DeltaAbsolute)
		if ai != aj {
			return ai > aj
		}
		return contributions[i].Driver < contributions[j].Driver
	})
	for i := range contributions {
		contributions[i].Rank = i + 1
	}
}

// percentChange is delta/|prior|, defined as 0 when prior is 0.
func percentChange(prior, delta float64) float64 {
	if prior == 0 {
		return 0
	}
	return delta / math.Abs(prior)
}

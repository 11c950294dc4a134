package insight

import (
	"math"

	"github.com/bi-tools/kpi-pulse/pkg/models/domain"
)

// ScoringConfig holds the heuristic normalization constants for risk
// scoring. They are loaded from configuration at startup, never passed
// per call, so a given build of the service is fully reproducible.
type ScoringConfig struct {
	// DriverWeight + VolatilityWeight should sum to 1.
	DriverWeight     float64 `mapstructure:"driver_weight"`
	VolatilityWeight float64 `mapstructure:"volatility_weight"`

	// DriverFullScale is the |delta_percent| of the main driver that
	// maps to a full 100 on the driver component.
	DriverFullScale float64 `mapstructure:"driver_full_scale"`

	// CVLow..CVHigh is the coefficient-of-variation band mapped onto
	// 0..100 for the volatility component.
	CVLow  float64 `mapstructure:"cv_low"`
	CVHigh float64 `mapstructure:"cv_high"`

	// FlatEpsilon bounds the primary-metric delta still reported FLAT.
	FlatEpsilon float64 `mapstructure:"flat_epsilon"`
}

func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		DriverWeight:     0.6,
		VolatilityWeight: 0.4,
		DriverFullScale:  0.25,
		CVLow:            0.05,
		CVHigh:           0.35,
		FlatEpsilon:      1e-9,
	}
}

// SignalEngine converts a decomposition plus the series' own volatility
// into a bounded risk score and discrete level. Deterministic rule
// engine, not a learned model.
type SignalEngine struct {
	cfg ScoringConfig
}

func NewSignalEngine(cfg ScoringConfig) *SignalEngine {
	return &SignalEngine{cfg: cfg}
}

func (e *SignalEngine) Score(
	series domain.KpiSeries,
	metric domain.Metric,
	contributions []domain.DriverContribution,
) domain.DecisionSignal {
	signal := domain.DecisionSignal{
		TrendDirection: e.trend(series, metric),
	}

	driverComponent := 0.0
	if main := mainDriver(contributions); main != nil {
		driverComponent = clamp(math.Abs(main.DeltaPercent)/e.cfg.DriverFullScale*100, 0, 100)
	}

	volatilityComponent := clamp(
		(coefficientOfVariation(series, metric)-e.cfg.CVLow)/(e.cfg.CVHigh-e.cfg.CVLow)*100,
		0, 100,
	)

	score := e.cfg.DriverWeight*driverComponent + e.cfg.VolatilityWeight*volatilityComponent
	signal.RiskScore = int(math.Round(clamp(score, 0, 100)))
	signal.RiskLevel = LevelForScore(signal.RiskScore)
	return signal
}

// LevelForScore is the fixed monotone mapping from score to level.
func LevelForScore(score int) domain.RiskLevel {
	switch {
	case score < 33:
		return domain.RiskLow
	case score < 66:
		return domain.RiskMedium
	default:
		return domain.RiskHigh
	}
}

func (e *SignalEngine) trend(series domain.KpiSeries, metric domain.Metric) domain.TrendDirection {
	if series.Len() < 2 {
		return domain.TrendFlat
	}
	prior := series.Points[series.Len()-2].Value(metric)
	recent := series.Points[series.Len()-1].Value(metric)
	delta := recent - prior

	switch {
	case math.Abs(delta) <= e.cfg.FlatEpsilon:
		return domain.TrendFlat
	case delta > 0:
		return domain.TrendUp
	default:
		return domain.TrendDown
	}
}

func mainDriver(contributions []domain.DriverContribution) *domain.DriverContribution {
	for i := range contributions {
		if contributions[i].Rank == 1 {
			return &contributions[i]
		}
	}
	return nil
}

// coefficientOfVariation uses the sample standard deviation of the
// primary metric over all periods; 0 when fewer than two points or a
// non-positive mean.
func coefficientOfVariation(series domain.KpiSeries, metric domain.Metric) float64 {
	n := series.Len()
	if n < 2 {
		return 0
	}

	sum := 0.0
	for _, p := range series.Points {
		sum += p.Value(metric)
	}
	mean := sum / float64(n)
	if mean <= 0 {
		return 0
	}

	ss := 0.0
	for _, p := range series.Points {
		d := p.Value(metric) - mean
		ss += d * d
	}
	return math.Sqrt(ss/float64(n-1)) / mean
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

package query

import (
	"fmt"

	"github.com/bi-tools/kpi-pulse/pkg/models/domain"
)

// Synthesizer turns an Intent into the parameterized aggregation query
// the gateway executes. The SQL text is assembled from fixed fragments
// and enum lookups only; free text from the question never reaches it.
type Synthesizer struct{}

func NewSynthesizer() *Synthesizer {
	return &Synthesizer{}
}

// All KPI columns are always selected so downstream driver decomposition
// has what it needs regardless of the requested metric.
const baseSelect = `SELECT month, revenue, orders, customers
FROM kpi_monthly`

// Build produces the monthly-bucketed query for the intent's range.
// Fails with ErrUnsupportedMetric only when the metric enum itself is
// invalid, which is unreachable from the parser path.
func (s *Synthesizer) Build(intent domain.Intent) (domain.ParameterizedQuery, error) {
	if !intent.Metric.Valid() {
		return domain.ParameterizedQuery{}, fmt.Errorf("%w: %q", domain.ErrUnsupportedMetric, intent.Metric)
	}

	q := domain.ParameterizedQuery{
		Metric: intent.Metric,
		Range:  intent.Range,
	}

	if limit, ok := rangeLimit(intent.Range); ok {
		q.Text = baseSelect + `
ORDER BY month DESC
LIMIT $1`
		q.Args = []any{limit}
		return q, nil
	}

	// ytd: everything since the start of the current year.
	q.Text = baseSelect + `
WHERE month >= date_trunc('year', CURRENT_DATE)
ORDER BY month DESC`
	return q, nil
}

func rangeLimit(r domain.Range) (int, bool) {
	switch r {
	case domain.RangeLast2Months:
		return 2, true
	case domain.RangeLast3Months:
		return 3, true
	case domain.RangeLast6Months:
		return 6, true
	default:
		return 0, false
	}
}

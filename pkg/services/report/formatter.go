package report

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/bi-tools/kpi-pulse/pkg/models/domain"
)

// Formatter renders the structured analysis into a narrative, a risk
// statement and a recommendation. Template selection is keyed by
// (trend, risk level, main driver); any unmapped combination falls back
// to a generic triple. Fully deterministic apart from the timestamp.
type Formatter struct {
	now func() time.Time
}

func NewFormatter() *Formatter {
	return &Formatter{now: time.Now}
}

// NewFormatterWithClock pins the timestamp source, used in tests.
func NewFormatterWithClock(now func() time.Time) *Formatter {
	return &Formatter{now: now}
}

type templateKey struct {
	trend  domain.TrendDirection
	level  domain.RiskLevel
	driver domain.Metric
}

type templateTriple struct {
	narrative      string
	riskStatement  string
	recommendation string
}

// %[1]s = metric, %[2]s = driver label, %[3]s = driver pct change.
var templates = map[templateKey]templateTriple{
	{domain.TrendDown, domain.RiskHigh, domain.MetricOrders}: {
		narrative:      "%[1]s fell sharply, driven primarily by order volume (%[3]s).",
		riskStatement:  "Order volume dropped materially; demand or the conversion funnel may be weakening.",
		recommendation: "Investigate acquisition channels, conversion funnel and retention immediately.",
	},
	{domain.TrendDown, domain.RiskMedium, domain.MetricOrders}: {
		narrative:      "%[1]s declined, with order volume as the main driver (%[3]s).",
		riskStatement:  "The order trend is softening and warrants attention before it compounds.",
		recommendation: "Review the funnel and recent campaign performance; set an alert on order volume.",
	},
	{domain.TrendDown, domain.RiskHigh, domain.MetricAOV}: {
		narrative:      "%[1]s fell sharply, driven primarily by average order value (%[3]s).",
		riskStatement:  "AOV dropped materially; growth may be discount-driven and margin is at risk.",
		recommendation: "Audit discounts and product mix; protect margin before scaling spend.",
	},
	{domain.TrendDown, domain.RiskMedium, domain.MetricAOV}: {
		narrative:      "%[1]s declined, with average order value as the main driver (%[3]s).",
		riskStatement:  "AOV is slipping; pricing or mix changes are eroding value per order.",
		recommendation: "Check pricing, bundles and discounting for the most recent period.",
	},
	{domain.TrendUp, domain.RiskLow, domain.MetricOrders}: {
		narrative:      "%[1]s grew, led by order volume (%[3]s).",
		riskStatement:  "No major risk signals detected.",
		recommendation: "Double down on the channels producing order growth.",
	},
	{domain.TrendUp, domain.RiskLow, domain.MetricAOV}: {
		narrative:      "%[1]s grew, led by average order value (%[3]s).",
		riskStatement:  "No major risk signals detected.",
		recommendation: "Protect the pricing and mix gains behind the AOV lift.",
	},
	{domain.TrendFlat, domain.RiskLow, domain.MetricOrders}: {
		narrative:      "%[1]s held steady over the period.",
		riskStatement:  "No major risk signals detected.",
		recommendation: "Keep monitoring trends; identify which lever to push next.",
	},
}

var genericTemplate = templateTriple{
	narrative:      "%[1]s moved with %[2]s as the main driver (%[3]s).",
	riskStatement:  "Monitor the main driver; the current signal does not indicate acute risk.",
	recommendation: "Keep monitoring trends and investigate anomalies as they appear.",
}

// Render is a total function over the enum domain; it never fails.
func (f *Formatter) Render(
	intent domain.Intent,
	contributions []domain.DriverContribution,
	signal domain.DecisionSignal,
) domain.ExecutiveReport {
	mainDriver := intent.Metric
	mainPct := 0.0
	for _, c := range contributions {
		if c.Rank == 1 {
			mainDriver = c.Driver
			mainPct = c.DeltaPercent
			break
		}
	}

	triple, ok := templates[templateKey{signal.TrendDirection, signal.RiskLevel, mainDriver}]
	if !ok {
		triple = genericTemplate
	}

	metricLabel := strings.ToUpper(string(intent.Metric))
	driverLabel := driverLabel(mainDriver)
	pctLabel := formatPercent(mainPct)

	narrative := fmt.Sprintf(triple.narrative, metricLabel, driverLabel, pctLabel)
	if intent.Style == domain.StyleExecutive {
		narrative += " Focus on the dominant driver and monitor downside risks."
	}

	return domain.ExecutiveReport{
		Narrative:      narrative,
		RiskStatement:  triple.riskStatement,
		Recommendation: triple.recommendation,
		MainDriver:     mainDriver,
		GeneratedAt:    f.now().UTC(),
	}
}

func driverLabel(m domain.Metric) string {
	switch m {
	case domain.MetricAOV:
		return "AOV"
	case domain.MetricOrders:
		return "order volume"
	case domain.MetricCustomers:
		return "customer count"
	default:
		return string(m)
	}
}

func formatPercent(pct float64) string {
	sign := "+"
	if pct < 0 {
		sign = "-"
	}
	return fmt.Sprintf("%s%.1f%%", sign, math.Abs(pct)*100)
}

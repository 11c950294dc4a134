package intent

import (
	"strings"

	"github.com/bi-tools/kpi-pulse/pkg/models/domain"
)

// MetricSynonyms maps a metric to the phrases that select it. The outer
// slice order is the precedence order: when a question mentions several
// metrics, the first listed metric wins.
type MetricSynonyms struct {
	Metric   domain.Metric
	Synonyms []string
}

// RangePhrases works the same way for time ranges.
type RangePhrases struct {
	Range   domain.Range
	Phrases []string
}

type Parser struct {
	metrics []MetricSynonyms
	ranges  []RangePhrases
}

// NewParser builds a parser from explicit priority lists so precedence
// stays inspectable and testable in isolation.
func NewParser(metrics []MetricSynonyms, ranges []RangePhrases) *Parser {
	return &Parser{metrics: metrics, ranges: ranges}
}

// NewDefaultParser returns the parser with the standard vocabulary.
func NewDefaultParser() *Parser {
	return NewParser(DefaultMetricSynonyms(), DefaultRangePhrases())
}

func DefaultMetricSynonyms() []MetricSynonyms {
	return []MetricSynonyms{
		{domain.MetricRevenue, []string{"revenue", "sales", "income", "turnover"}},
		{domain.MetricOrders, []string{"orders", "order volume", "purchases"}},
		{domain.MetricCustomers, []string{"customers", "customer count", "buyers", "users"}},
		{domain.MetricAOV, []string{"aov", "average order value", "basket size", "order value"}},
	}
}

func DefaultRangePhrases() []RangePhrases {
	return []RangePhrases{
		{domain.RangeLast2Months, []string{"last 2 months", "last two months", "past 2 months", "last_2_months"}},
		{domain.RangeLast3Months, []string{"last 3 months", "last three months", "past 3 months", "last quarter", "last_3_months"}},
		{domain.RangeLast6Months, []string{"last 6 months", "last six months", "past 6 months", "half year", "last_6_months"}},
		{domain.RangeYTD, []string{"ytd", "year to date", "this year"}},
	}
}

/// Parse maps free text to an Intent. It never fails: unmatched metric
// resolves to revenue, unmatched range to last_3_months.
func (p *Parser) Parse(question string) domain.Intent {
	return p.ParseWithStyle(question, domain.StyleExecutive)
}

// ParseWithStyle is Parse with an explicit style request. An invalid
// style falls back to executive.
func (p *Parser) ParseWithStyle(question string, style domain.Style) domain.Intent {
	q := strings.ToLower(question)

	out := domain.Intent{
		Metric: domain.MetricRevenue,
		Range:  domain.RangeLast3Months,
		Style:  domain.StyleExecutive,
	}
	if style.Valid() {
		out.Style = style
	}

	for _, m := range p.metrics {
		if containsAny(q, m.Synonyms) {
			out.Metric = m.Metric
			break
		}
	}

	for _, r := range p.ranges {
		if containsAny(q, r.Phrases) {
			out.Range = r.Range
			break
		}
	}

	return out
}

func containsAny(q string, phrases []string) bool {
	for _, phrase := range phrases {
		if strings.Contains(q, phrase) {
			return true
		}
	}
	return false
}

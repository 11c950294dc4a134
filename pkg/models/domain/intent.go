package domain

type Metric string

const (
	MetricRevenue   Metric = "revenue"
	MetricOrders    Metric = "orders"
	MetricCustomers Metric = "customers"
	MetricAOV       Metric = "aov"
)

type Range string

const (
	RangeLast2Months Range = "last_2_months"
	RangeLast3Months Range = "last_3_months"
	RangeLast6Months Range = "last_6_months"
	RangeYTD         Range = "ytd"
)

type Style string

const (
	StyleExecutive Style = "executive"
	StyleRuleBased Style = "rule_based"
)

// Intent is the structured interpretation of a natural-language
// business question. Immutable once parsed.
type Intent struct {
	Metric Metric
	Range  Range
	Style  Style
}

func SupportedMetrics() []Metric {
	return []Metric{MetricRevenue, MetricOrders, MetricCustomers, MetricAOV}
}

func SupportedRanges() []Range {
	return []Range{RangeLast2Months, RangeLast3Months, RangeLast6Months, RangeYTD}
}

func SupportedStyles() []Style {
	return []Style{StyleExecutive, StyleRuleBased}
}

func (m Metric) Valid() bool {
	switch m {
	case MetricRevenue, MetricOrders, MetricCustomers, MetricAOV:
		return true
	}
	return false
}

func (r Range) Valid() bool {
	switch r {
	case RangeLast2Months, RangeLast3Months, RangeLast6Months, RangeYTD:
		return true
	}
	return false
}

func (s Style) Valid() bool {
	return s == StyleExecutive || s == StyleRuleBased
}

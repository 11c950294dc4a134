package adapters

import (
	"github.com/bi-tools/kpi-pulse/pkg/models/api"
	storemodels "github.com/bi-tools/kpi-pulse/pkg/models/store"
)

func MapKpiRecordStoreToApi(r storemodels.KpiRecord) api.KpiPoint {
	aov := 0.0
	if r.Orders != 0 {
		aov = r.Revenue / float64(r.Orders)
	}
	return api.KpiPoint{
		Month:     r.Month.Format(monthLayout),
		Revenue:   r.Revenue,
		Orders:    float64(r.Orders),
		Customers: float64(r.Customers),
		AOV:       aov,
	}
}

func MapAnalysisRecordStoreToApi(r storemodels.AnalysisRecord) api.HistoryEntry {
	return api.HistoryEntry{
		Metric:         r.Metric,
		Range:          r.Range,
		Style:          r.Style,
		SQL:            r.SQL,
		Narrative:      r.Narrative,
		RiskStatement:  r.RiskStatement,
		Recommendation: r.Recommendation,
		CreatedAt:      r.CreatedAt,
	}
}

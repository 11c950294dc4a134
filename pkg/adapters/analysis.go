package adapters

import (
	"github.com/bi-tools/kpi-pulse/pkg/models/api"
	"github.com/bi-tools/kpi-pulse/pkg/models/domain"
)

const monthLayout = "2006-01-02"

func MapAnalysisDomainToApi(a domain.Analysis) api.AnalysisResponse {
	out := api.AnalysisResponse{
		Metric:         string(a.Intent.Metric),
		Range:          string(a.Intent.Range),
		Style:          string(a.Intent.Style),
		SQL:            a.Query.Text,
		Data:           make([]api.KpiPoint, 0, a.Series.Len()),
		DriverSummary:  make([]api.DriverContribution, 0, len(a.Contributions)),
		RiskScore:      a.Signal.RiskScore,
		RiskLevel:      string(a.Signal.RiskLevel),
		TrendDirection: string(a.Signal.TrendDirection),
		Narrative:      a.Report.Narrative,
		RiskStatement:  a.Report.RiskStatement,
		Recommendation: a.Report.Recommendation,
		MainDriver:     string(a.Report.MainDriver),
		GeneratedAt:    a.Report.GeneratedAt,
	}

	for _, p := range a.Series.Points {
		out.Data = append(out.Data, MapKpiPointDomainToApi(p))
	}
	for _, c := range a.Contributions {
		out.DriverSummary = append(out.DriverSummary, api.DriverContribution{
			Driver:        string(c.Driver),
			DeltaAbsolute: c.DeltaAbsolute,
			DeltaPercent:  c.DeltaPercent,
			Rank:          c.Rank,
		})
	}
	return out
}

func MapKpiPointDomainToApi(p domain.KpiPoint) api.KpiPoint {
	return api.KpiPoint{
		Month:     p.Period.Format(monthLayout),
		Revenue:   p.Revenue,
		Orders:    p.Orders,
		Customers: p.Customers,
		AOV:       p.AOV,
	}
}

func MapJobDomainToApi(job domain.AnalysisJob) api.JobResponse {
	out := api.JobResponse{
		JobID:     job.ID,
		Status:    string(job.Status),
		Error:     job.Error,
		CreatedAt: job.CreatedAt,
		UpdatedAt: job.UpdatedAt,
	}
	if job.Result != nil {
		result := MapAnalysisDomainToApi(*job.Result)
		result.Question = job.Question
		out.Result = &result
	}
	return out
}

func MapAnomalyReportDomainToApi(rep domain.AnomalyReport) api.DashboardResponse {
	out := api.DashboardResponse{
		Status:        "ok",
		PreviousMonth: rep.PreviousPeriod.Format(monthLayout),
		CurrentMonth:  rep.CurrentPeriod.Format(monthLayout),
		Changes:       make([]api.MetricChange, 0, len(rep.Changes)),
		Alerts:        make([]api.AnomalyAlert, 0, len(rep.Alerts)),
		RiskBadge:     string(rep.RiskBadge),
	}

	for _, c := range rep.Changes {
		out.Changes = append(out.Changes, api.MetricChange{
			Metric:        string(c.Metric),
			Previous:      c.Previous,
			Current:       c.Current,
			Delta:         c.Delta,
			PercentChange: c.PercentChange,
		})
	}
	for _, a := range rep.Alerts {
		out.Alerts = append(out.Alerts, api.AnomalyAlert{
			Metric:        string(a.Metric),
			Direction:     string(a.Direction),
			PercentChange: a.PercentChange,
			Threshold:     a.Threshold,
			Message:       anomalyMessage(a),
		})
	}
	return out
}

func anomalyMessage(a domain.AnomalyAlert) string {
	return string(a.Metric) + " moved " + string(a.Direction) +
		" beyond its threshold"
}

func MapSimulationDomainToApi(sim domain.Simulation) api.SimulationResponse {
	return api.SimulationResponse{
		Base: api.SimulationValues{
			Orders:  sim.BaseOrders,
			AOV:     sim.BaseAOV,
			Revenue: sim.BaseRevenue,
		},
		Simulated: api.SimulationValues{
			Orders:  sim.SimulatedOrders,
			AOV:     sim.SimulatedAOV,
			Revenue: sim.SimulatedRevenue,
		},
		RevenueDelta:    sim.RevenueDelta,
		RevenueDeltaPct: sim.RevenueDeltaPct,
	}
}

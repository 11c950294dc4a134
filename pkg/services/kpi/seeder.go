package kpi

import (
	"context"
	"fmt"
	"math"
	"time"

	storemodels "github.com/bi-tools/kpi-pulse/pkg/models/store"
	kpistore "github.com/bi-tools/kpi-pulse/pkg/store/postgres/kpi"
)

type Scenario string

const (
	ScenarioRevenueDrop Scenario = "revenue_drop"
	ScenarioOrdersDrop  Scenario = "orders_drop"
	ScenarioAOVDrop     Scenario = "aov_drop"
)

const (
	minSeedMonths = 2
	maxSeedMonths = 24

	baseRevenue   = 100000.0
	baseOrders    = 1200.0
	baseCustomers = 800.0
)

// Seeder writes a synthetic KPI history with a chosen shock applied to
// the final month, so every demo question has something to find.
type Seeder struct {
	store kpistore.Store
	now   func() time.Time
}

func NewSeeder(store kpistore.Store) *Seeder {
	return &Seeder{store: store, now: time.Now}
}

type SeedResult struct {
	Inserted int
	First    time.Time
	Last     time.Time
	Scenario Scenario
}

func (s *Seeder) Seed(ctx context.Context, months int, reset bool, scenario Scenario) (SeedResult, error) {
	months = clampMonths(months)
	scenario = normalizeScenario(scenario)

	first := monthStart(s.now().UTC()).AddDate(0, -(months - 1), 0)
	list := make([]time.Time, 0, months)
	for i := 0; i < months; i++ {
		list = append(list, first.AddDate(0, i, 0))
	}

	if reset {
		if err := s.store.DeleteMonths(ctx, list); err != nil {
			return SeedResult{}, fmt.Errorf("reset seed months: %w", err)
		}
	}

	for i, month := range list {
		revenue := baseRevenue * (1 + 0.03*float64(i))
		orders := math.Floor(baseOrders * (1 + 0.02*float64(i)))
		customers := math.Floor(baseCustomers * (1 + 0.015*float64(i)))

		if i == months-1 {
			switch scenario {
			case ScenarioRevenueDrop:
				revenue *= 0.80
			case ScenarioOrdersDrop:
				orders = math.Floor(orders * 0.80)
			case ScenarioAOVDrop:
				// orders steady, revenue trimmed, so value per order falls.
				revenue *= 0.85
			}
		}

		record := storemodels.KpiRecord{
			Month:     month,
			Revenue:   math.Round(revenue*100) / 100,
			Orders:    int64(orders),
			Customers: int64(customers),
		}
		if err := s.store.Upsert(ctx, record); err != nil {
			return SeedResult{}, fmt.Errorf("seed month %s: %w", month.Format("2006-01"), err)
		}
	}

	return SeedResult{
		Inserted: months,
		First:    list[0],
		Last:     list[len(list)-1],
		Scenario: scenario,
	}, nil
}

func clampMonths(months int) int {
	if months < minSeedMonths {
		return minSeedMonths
	}
	if months > maxSeedMonths {
		return maxSeedMonths
	}
	return months
}

func normalizeScenario(s Scenario) Scenario {
	switch s {
	case ScenarioRevenueDrop, ScenarioOrdersDrop, ScenarioAOVDrop:
		return s
	default:
		return ScenarioRevenueDrop
	}
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

package kpi

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bi-tools/kpi-pulse/pkg/models/domain"
	storemodels "github.com/bi-tools/kpi-pulse/pkg/models/store"
)

type mockKpiStore struct {
	mock.Mock
}

func (m *mockKpiStore) Fetch(ctx context.Context, q domain.ParameterizedQuery) (domain.KpiSeries, error) {
	args := m.Called(ctx, q)
	series, _ := args.Get(0).(domain.KpiSeries)
	return series, args.Error(1)
}

func (m *mockKpiStore) List(ctx context.Context, from, to *time.Time) ([]storemodels.KpiRecord, error) {
	args := m.Called(ctx, from, to)
	records, _ := args.Get(0).([]storemodels.KpiRecord)
	return records, args.Error(1)
}

func (m *mockKpiStore) Upsert(ctx context.Context, record storemodels.KpiRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *mockKpiStore) DeleteMonths(ctx context.Context, months []time.Time) error {
	args := m.Called(ctx, months)
	return args.Error(0)
}

func (m *mockKpiStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func fixedSeeder(store *mockKpiStore) *Seeder {
	s := NewSeeder(store)
	s.now = func() time.Time {
		return time.Date(2025, time.June, 17, 12, 0, 0, 0, time.UTC)
	}
	return s
}

func TestSeed_WritesRequestedMonths(t *testing.T) {
	store := &mockKpiStore{}
	seeder := fixedSeeder(store)

	var records []storemodels.KpiRecord
	store.On("Upsert", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		records = append(records, args.Get(1).(storemodels.KpiRecord))
	}).Return(nil)

	result, err := seeder.Seed(context.Background(), 6, false, ScenarioRevenueDrop)
	require.NoError(t, err)

	assert.Equal(t, 6, result.Inserted)
	require.Len(t, records, 6)
	assert.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), records[0].Month)
	assert.Equal(t, time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC), records[5].Month)
	assert.Equal(t, result.First, records[0].Month)
	assert.Equal(t, result.Last, records[5].Month)
}

func TestSeed_RevenueDropHitsLastMonthOnly(t *testing.T) {
	store := &mockKpiStore{}
	seeder := fixedSeeder(store)

	var records []storemodels.KpiRecord
	store.On("Upsert", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		records = append(records, args.Get(1).(storemodels.KpiRecord))
	}).Return(nil)

	_, err := seeder.Seed(context.Background(), 3, false, ScenarioRevenueDrop)
	require.NoError(t, err)
	require.Len(t, records, 3)

	// Months grow 3% per step; the final month takes a 20% cut instead.
	assert.InDelta(t, 100000.0, records[0].Revenue, 0.01)
	assert.InDelta(t, 103000.0, records[1].Revenue, 0.01)
	assert.InDelta(t, 106000.0*0.80, records[2].Revenue, 0.01)
	assert.Greater(t, records[1].Orders, records[0].Orders)
	assert.GreaterOrEqual(t, records[2].Orders, records[1].Orders)
}

func TestSeed_OrdersDropKeepsRevenueTrend(t *testing.T) {
	store := &mockKpiStore{}
	seeder := fixedSeeder(store)

	var records []storemodels.KpiRecord
	store.On("Upsert", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		records = append(records, args.Get(1).(storemodels.KpiRecord))
	}).Return(nil)

	_, err := seeder.Seed(context.Background(), 3, false, ScenarioOrdersDrop)
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.InDelta(t, 106000.0, records[2].Revenue, 0.01)
	assert.Less(t, records[2].Orders, records[1].Orders)
}

func TestSeed_ResetDeletesTargetMonthsFirst(t *testing.T) {
	store := &mockKpiStore{}
	seeder := fixedSeeder(store)

	store.On("DeleteMonths", mock.Anything, mock.MatchedBy(func(months []time.Time) bool {
		return len(months) == 2
	})).Return(nil)
	store.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	_, err := seeder.Seed(context.Background(), 2, true, ScenarioAOVDrop)
	require.NoError(t, err)
	store.AssertCalled(t, "DeleteMonths", mock.Anything, mock.Anything)
}

func TestSeed_ClampsMonthsAndScenario(t *testing.T) {
	store := &mockKpiStore{}
	seeder := fixedSeeder(store)

	var count int
	store.On("Upsert", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		count++
	}).Return(nil)

	result, err := seeder.Seed(context.Background(), 100, false, Scenario("mystery"))
	require.NoError(t, err)
	assert.Equal(t, 24, result.Inserted)
	assert.Equal(t, 24, count)
	assert.Equal(t, ScenarioRevenueDrop, result.Scenario)

	count = 0
	store2 := &mockKpiStore{}
	store2.On("Upsert", mock.Anything, mock.Anything).Return(nil)
	result, err = fixedSeeder(store2).Seed(context.Background(), 0, false, ScenarioOrdersDrop)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Inserted)
}

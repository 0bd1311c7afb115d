package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/noah-isme/cavy-ledger/internal/dto"
	"github.com/noah-isme/cavy-ledger/internal/models"
)

func staticSource(name string, rows ...models.LocationCount) MetricSource {
	return MetricSource{Name: name, Load: func(context.Context) ([]models.LocationCount, error) { return rows, nil }}
}

func TestBuildSummaryIncludesLocationsFromAnyMetric(t *testing.T) {
	metrics, degraded := NewAggregator([]MetricSource{
		staticSource(MetricBreedingStock, models.LocationCount{Enclosure: "1", Pen: "1", Total: 8}),
		staticSource(MetricBirths),
		staticSource(MetricWeaned, models.LocationCount{Enclosure: "2", Pen: "4", Total: 6}),
		staticSource(MetricDeaths),
	}, nil, nil).Collect(context.Background())
	require.Empty(t, degraded)

	summary := BuildSummary(metrics)
	require.Len(t, summary.Locations, 2)

	only := summary.Location("2", "4")
	require.NotNil(t, only)
	assert.Equal(t, 6, only.Weaned)
	assert.Zero(t, only.BreedingStock)
	assert.Zero(t, only.Births)
	assert.Zero(t, only.Deaths)
	assert.Zero(t, only.ActiveYoung)
}

func TestBuildSummaryActiveYoungNeverNegative(t *testing.T) {
	loc := models.Location{Enclosure: "A", Pen: "1"}
	summary := BuildSummary(LocationMetrics{
		MetricBirths: {loc: 4},
		MetricWeaned: {loc: 3},
		MetricDeaths: {loc: 5},
	})

	row := summary.Location("A", "1")
	require.NotNil(t, row)
	assert.Equal(t, 0, row.ActiveYoung)
	assert.Equal(t, 1, summary.Totals.ActiveYoung)
}

func TestBuildSummaryOrdersLocationsAndGroupsEnclosures(t *testing.T) {
	metrics := LocationMetrics{MetricBirths: {
		{Enclosure: "10", Pen: "1"}: 1,
		{Enclosure: "2", Pen: "10"}: 2,
		{Enclosure: "2", Pen: "2"}:  3,
		{Enclosure: "B", Pen: "1"}:  4,
	}}

	summary := BuildSummary(metrics)

	var order []string
	for _, row := range summary.Locations {
		order = append(order, row.Enclosure+"/"+row.Pen)
	}
	assert.Equal(t, []string{"2/2", "2/10", "10/1", "B/1"}, order)

	require.Len(t, summary.Enclosures, 3)
	assert.Equal(t, "2", summary.Enclosures[0].Enclosure)
	assert.Equal(t, []string{"2", "10"}, summary.Enclosures[0].Pens)
	assert.Equal(t, 5, summary.Enclosures[0].Births)
	assert.Equal(t, 10, summary.Totals.Births)
}

func TestAggregatorDegradesFailingSource(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	agg := NewAggregator([]MetricSource{
		staticSource(MetricBirths, models.LocationCount{Enclosure: "1", Pen: "1", Total: 3}),
		{Name: MetricDeaths, Load: func(context.Context) ([]models.LocationCount, error) { return nil, errors.New("relation missing") }},
	}, NewMetricsService(), zap.New(core))

	metrics, degraded := agg.Collect(context.Background())

	assert.Equal(t, []string{MetricDeaths}, degraded)
	assert.Equal(t, 1, logs.FilterMessage("dashboard metric failed").Len())
	summary := BuildSummary(metrics)
	row := summary.Location("1", "1")
	require.NotNil(t, row)
	assert.Equal(t, 3, row.ActiveYoung)
}

func TestDashboardScenarioFromForms(t *testing.T) {
	ctx := context.Background()
	ledger := newMemLedger()
	stock := memStock{ledger}
	policy := NewLocationPolicy(stock, true, nil)

	_, err := NewStockService(stock, policy, nil, nil, nil).Create(ctx, StockForm{
		Enclosure: "3", Pen: "2", Females: intPtr(10), Males: intPtr(2), StockAgeMonths: intPtr(4),
	})
	require.NoError(t, err)

	_, err = NewBirthService(memBirths{ledger}, policy, nil, nil, nil).Record(ctx, BirthForm{
		Enclosure: "3", Pen: "2", LitterNumber: intPtr(1), BornCount: intPtr(12), BornDeadCount: intPtr(1), ParentDeathCount: intPtr(0),
	})
	require.NoError(t, err)

	_, err = NewWeaningService(memWeanings{ledger}, policy, nil, nil, nil).Record(ctx, WeaningForm{
		Enclosure: "3", Pen: "2", WeanedFemales: intPtr(5), WeanedMales: intPtr(5),
	})
	require.NoError(t, err)

	agg := NewAggregator(DashboardSources(stock, memBirths{ledger}, memWeanings{ledger}, memDeaths{ledger}), nil, nil)
	summary, hit, err := NewDashboardService(agg, nil, nil, DashboardServiceConfig{}).Summary(ctx)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Empty(t, summary.Degraded)

	row := summary.Location("3", "2")
	require.NotNil(t, row)
	assert.Equal(t, dto.LocationSummary{
		Enclosure:     "3",
		Pen:           "2",
		BreedingStock: 12,
		Births:        12,
		Weaned:        10,
		Deaths:        0,
		ActiveYoung:   2,
		BirthLosses:   1,
	}, *row)
}

func TestStockTotalsGrowByRegisteredAnimals(t *testing.T) {
	ctx := context.Background()
	ledger := newMemLedger()
	stock := memStock{ledger}
	svc := NewStockService(stock, nil, nil, nil, nil)
	agg := NewAggregator(DashboardSources(stock, memBirths{ledger}, memWeanings{ledger}, memDeaths{ledger}), nil, nil)

	before, _ := agg.Collect(ctx)
	_, err := svc.Create(ctx, StockForm{Enclosure: "5", Pen: "1", Females: intPtr(7), Males: intPtr(3), StockAgeMonths: intPtr(2)})
	require.NoError(t, err)
	after, _ := agg.Collect(ctx)

	loc := models.Location{Enclosure: "5", Pen: "1"}
	assert.Equal(t, 10, after[MetricBreedingStock][loc]-before[MetricBreedingStock][loc])
}

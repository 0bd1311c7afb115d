package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/cavy-ledger/internal/dto"
	"github.com/noah-isme/cavy-ledger/internal/models"
)

// Dashboard metric names.
const (
	MetricBreedingStock = "breeding_stock"
	MetricBirths        = "births"
	MetricWeaned        = "weaned"
	MetricDeaths        = "deaths"
	MetricBirthLosses   = "birth_losses"
)

// MetricLoader returns one metric grouped by (enclosure, pen).
type MetricLoader func(ctx context.Context) ([]models.LocationCount, error)

// MetricSource binds a metric name to the query that feeds it.
type MetricSource struct {
	Name string
	Load MetricLoader
}

// LocationMetrics maps metric name to per-location values.
type LocationMetrics map[string]map[models.Location]int

// Aggregator loads every configured metric source. A failing source never
// aborts the run: it is logged, counted and left empty.
type Aggregator struct {
	sources []MetricSource
	metrics *MetricsService
	logger  *zap.Logger
}

// NewAggregator builds an aggregator over sources, loaded in order.
func NewAggregator(sources []MetricSource, metrics *MetricsService, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{sources: sources, metrics: metrics, logger: logger}
}

// Collect runs every source. The returned slice names the sources that failed.
func (a *Aggregator) Collect(ctx context.Context) (LocationMetrics, []string) {
	out := make(LocationMetrics, len(a.sources))
	var degraded []string
	for _, src := range a.sources {
		values := map[models.Location]int{}
		out[src.Name] = values

		start := time.Now()
		rows, err := src.Load(ctx)
		a.metrics.ObserveAggregation(src.Name, time.Since(start), err != nil)
		if err != nil {
			a.logger.Warn("dashboard metric failed", zap.String("metric", src.Name), zap.Error(err))
			degraded = append(degraded, src.Name)
			continue
		}
		for _, row := range rows {
			values[row.Location()] += row.Total
		}
	}
	return out, degraded
}

// BuildSummary assembles the dashboard from per-location metrics. Locations
// are the union of every metric's keys, ordered by CompareLocations; missing
// values are zero.
func BuildSummary(metrics LocationMetrics) dto.DashboardSummary {
	seen := map[models.Location]struct{}{}
	for _, values := range metrics {
		for loc := range values {
			seen[loc] = struct{}{}
		}
	}
	locs := make([]models.Location, 0, len(seen))
	for loc := range seen {
		locs = append(locs, loc)
	}
	models.SortLocations(locs)

	summary := dto.DashboardSummary{
		Locations:  make([]dto.LocationSummary, 0, len(locs)),
		Enclosures: []dto.EnclosureSummary{},
	}
	var current *dto.EnclosureSummary

	for _, loc := range locs {
		row := dto.LocationSummary{
			Enclosure:     loc.Enclosure,
			Pen:           loc.Pen,
			BreedingStock: metrics[MetricBreedingStock][loc],
			Births:        metrics[MetricBirths][loc],
			Weaned:        metrics[MetricWeaned][loc],
			Deaths:        metrics[MetricDeaths][loc],
			BirthLosses:   metrics[MetricBirthLosses][loc],
		}
		row.ActiveYoung = floorZero(row.Births - row.Weaned - row.Deaths)
		summary.Locations = append(summary.Locations, row)

		if current == nil || current.Enclosure != loc.Enclosure {
			summary.Enclosures = append(summary.Enclosures, dto.EnclosureSummary{Enclosure: loc.Enclosure, Pens: []string{}})
			current = &summary.Enclosures[len(summary.Enclosures)-1]
		}
		current.Pens = append(current.Pens, loc.Pen)
		current.BreedingStock += row.BreedingStock
		current.Births += row.Births
		current.Weaned += row.Weaned
		current.Deaths += row.Deaths
		current.BirthLosses += row.BirthLosses
		current.ActiveYoung += row.ActiveYoung

		summary.Totals.BreedingStock += row.BreedingStock
		summary.Totals.Births += row.Births
		summary.Totals.Weaned += row.Weaned
		summary.Totals.Deaths += row.Deaths
		summary.Totals.BirthLosses += row.BirthLosses
	}
	summary.Totals.ActiveYoung = floorZero(summary.Totals.Births - summary.Totals.Weaned)

	return summary
}

func floorZero(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

type stockTotaler interface {
	LatestTotals(ctx context.Context) ([]models.LocationCount, error)
}

type locationTotaler interface {
	TotalsByLocation(ctx context.Context) ([]models.LocationCount, error)
}

type birthTotaler interface {
	locationTotaler
	LossesByLocation(ctx context.Context) ([]models.LocationCount, error)
}

// DashboardSources returns the standard metric set: the latest stock entry
// per location, births, weaned animals, post-weaning deaths and birth losses.
func DashboardSources(stock stockTotaler, births birthTotaler, weanings, deaths locationTotaler) []MetricSource {
	return []MetricSource{
		{Name: MetricBreedingStock, Load: stock.LatestTotals},
		{Name: MetricBirths, Load: births.TotalsByLocation},
		{Name: MetricWeaned, Load: weanings.TotalsByLocation},
		{Name: MetricDeaths, Load: deaths.TotalsByLocation},
		{Name: MetricBirthLosses, Load: births.LossesByLocation},
	}
}

package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/montanaflynn/stats"
	"go.uber.org/zap"

	"github.com/noah-isme/cavy-ledger/internal/dto"
	"github.com/noah-isme/cavy-ledger/internal/models"
	appErrors "github.com/noah-isme/cavy-ledger/pkg/errors"
)

type monthlyCounter interface {
	Monthly(ctx context.Context) ([]models.MonthlyCount, error)
}

type monthlyRevenue interface {
	MonthlyRevenue(ctx context.Context, saleType models.SaleType) ([]models.MonthlyAmount, error)
}

// MonthlyPoint is one historical observation.
type MonthlyPoint struct {
	Month time.Time
	Value float64
}

// Trend is a fitted line value = Intercept + Slope*x, x in 30-day months
// since Origin.
type Trend struct {
	Origin    time.Time
	Slope     float64
	Intercept float64
}

// At evaluates the trend for month, clamped at zero.
func (t Trend) At(month time.Time) float64 {
	v := t.Intercept + t.Slope*elapsedMonths(t.Origin, month)
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return v
}

// FitTrend fits a least-squares line through points. It returns false with
// fewer than two points, or when every point falls in the same month.
func FitTrend(points []MonthlyPoint) (Trend, bool) {
	if len(points) < 2 {
		return Trend{}, false
	}
	origin := points[0].Month
	for _, p := range points[1:] {
		if p.Month.Before(origin) {
			origin = p.Month
		}
	}

	series := make(stats.Series, 0, len(points))
	for _, p := range points {
		series = append(series, stats.Coordinate{X: elapsedMonths(origin, p.Month), Y: p.Value})
	}
	fitted, err := stats.LinearRegression(series)
	if err != nil || len(fitted) < 2 {
		return Trend{}, false
	}

	// The fitted series lies on the regression line; recover it from the two
	// points furthest apart on X.
	lo, hi := fitted[0], fitted[0]
	for _, c := range fitted[1:] {
		if c.X < lo.X {
			lo = c
		}
		if c.X > hi.X {
			hi = c
		}
	}
	if hi.X == lo.X {
		return Trend{}, false
	}
	slope := (hi.Y - lo.Y) / (hi.X - lo.X)
	return Trend{Origin: origin, Slope: slope, Intercept: lo.Y - slope*lo.X}, true
}

func elapsedMonths(origin, month time.Time) float64 {
	return month.Sub(origin).Hours() / 24 / 30
}

// ProjectionService extrapolates deaths, births and revenue.
type ProjectionService struct {
	births        monthlyCounter
	deaths        monthlyCounter
	revenue       monthlyRevenue
	defaultMonths int
	logger        *zap.Logger
	now           func() time.Time
}

// NewProjectionService constructs the projector.
func NewProjectionService(births, deaths monthlyCounter, revenue monthlyRevenue, defaultMonths int, logger *zap.Logger) *ProjectionService {
	if defaultMonths < 1 {
		defaultMonths = 6
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProjectionService{births: births, deaths: deaths, revenue: revenue, defaultMonths: defaultMonths, logger: logger, now: time.Now}
}

// DefaultMonths is the horizon used when the caller gives none.
func (s *ProjectionService) DefaultMonths() int {
	return s.defaultMonths
}

// Project forecasts the next months calendar months after the current one.
// Metrics with fewer than two months of history are listed as unavailable.
func (s *ProjectionService) Project(ctx context.Context, months int) (*dto.Projection, error) {
	if months < 1 {
		return nil, appErrors.Validation(map[string]string{"months": "must be 1 or greater"})
	}

	trends := map[string]*Trend{}
	var unavailable []string
	for _, metric := range []string{dto.MetricDeaths, dto.MetricBirths, dto.MetricRevenue} {
		points, err := s.history(ctx, metric)
		if err != nil {
			s.logger.Warn("projection history failed", zap.String("metric", metric), zap.Error(err))
		}
		trend, ok := FitTrend(points)
		if err != nil || !ok {
			unavailable = append(unavailable, metric)
			continue
		}
		t := trend
		trends[metric] = &t
	}

	projection := &dto.Projection{Months: months, Points: make([]dto.ProjectionPoint, 0, months), Unavailable: unavailable}
	start := startOfMonth(s.now())
	for i := 1; i <= months; i++ {
		month := start.AddDate(0, i, 0)
		projection.Points = append(projection.Points, dto.ProjectionPoint{
			Month:   month.Format("2006-01"),
			Deaths:  evaluate(trends[dto.MetricDeaths], month, 0),
			Births:  evaluate(trends[dto.MetricBirths], month, 0),
			Revenue: evaluate(trends[dto.MetricRevenue], month, 2),
		})
	}
	if len(unavailable) > 0 {
		projection.Message = fmt.Sprintf("not enough history to project %v; at least 2 months of data are needed", unavailable)
	}
	return projection, nil
}

func evaluate(t *Trend, month time.Time, decimals int) *float64 {
	if t == nil {
		return nil
	}
	scale := math.Pow(10, float64(decimals))
	v := math.Round(t.At(month)*scale) / scale
	return &v
}

func (s *ProjectionService) history(ctx context.Context, metric string) ([]MonthlyPoint, error) {
	switch metric {
	case dto.MetricDeaths:
		return countPoints(s.deaths.Monthly(ctx))
	case dto.MetricBirths:
		return countPoints(s.births.Monthly(ctx))
	default:
		rows, err := s.revenue.MonthlyRevenue(ctx, "")
		if err != nil {
			return nil, err
		}
		points := make([]MonthlyPoint, 0, len(rows))
		for _, r := range rows {
			v, _ := r.Amount.Float64()
			points = append(points, MonthlyPoint{Month: r.Month, Value: v})
		}
		return points, nil
	}
}

func countPoints(rows []models.MonthlyCount, err error) ([]MonthlyPoint, error) {
	if err != nil {
		return nil, err
	}
	points := make([]MonthlyPoint, 0, len(rows))
	for _, r := range rows {
		points = append(points, MonthlyPoint{Month: r.Month, Value: float64(r.Total)})
	}
	return points, nil
}

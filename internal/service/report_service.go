package service

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/noah-isme/cavy-ledger/internal/dto"
	"github.com/noah-isme/cavy-ledger/internal/models"
	appErrors "github.com/noah-isme/cavy-ledger/pkg/errors"
	"github.com/noah-isme/cavy-ledger/pkg/export"
)

type reportStockSource interface {
	List(ctx context.Context) ([]models.BreedingStockEntry, error)
}

type reportBirthSource interface {
	List(ctx context.Context, filter models.BirthFilter) ([]models.BirthEvent, error)
	MonthlyByLocation(ctx context.Context) ([]models.MonthlyLocationCount, error)
	MonthlyLossesByLocation(ctx context.Context) ([]models.MonthlyLocationCount, error)
}

type reportWeaningSource interface {
	List(ctx context.Context) ([]models.WeaningEvent, error)
}

type reportDeathSource interface {
	List(ctx context.Context) ([]models.PostWeaningDeathEvent, error)
	MonthlyByLocation(ctx context.Context) ([]models.MonthlyLocationCount, error)
}

type reportSaleSource interface {
	List(ctx context.Context, saleType models.SaleType) ([]models.Sale, error)
	MonthlyRevenue(ctx context.Context, saleType models.SaleType) ([]models.MonthlyAmount, error)
}

type reportExpenseSource interface {
	List(ctx context.Context) ([]models.Expense, error)
	Monthly(ctx context.Context) ([]models.MonthlyAmount, error)
}

type projector interface {
	Project(ctx context.Context, months int) (*dto.Projection, error)
	DefaultMonths() int
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

// ReportSources groups the repositories the report reads.
type ReportSources struct {
	Stock    reportStockSource
	Births   reportBirthSource
	Weanings reportWeaningSource
	Deaths   reportDeathSource
	Sales    reportSaleSource
	Expenses reportExpenseSource
}

// ReportService builds the full listing and its monthly aggregates.
type ReportService struct {
	src       ReportSources
	projector projector
	csv       csvRenderer
	logger    *zap.Logger
}

// NewReportService constructs the service.
func NewReportService(src ReportSources, projector projector, csv csvRenderer, logger *zap.Logger) *ReportService {
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{src: src, projector: projector, csv: csv, logger: logger}
}

// Report lists every table and attaches monthly aggregates and the default
// projection. Listing failures abort; aggregate failures degrade.
func (s *ReportService) Report(ctx context.Context) (*dto.Report, error) {
	report := &dto.Report{}
	var err error

	if report.BreedingStock, err = s.src.Stock.List(ctx); err != nil {
		return nil, s.storageError("breeding_stock", err)
	}
	if report.Births, err = s.src.Births.List(ctx, models.BirthFilter{}); err != nil {
		return nil, s.storageError("births", err)
	}
	if report.Weanings, err = s.src.Weanings.List(ctx); err != nil {
		return nil, s.storageError("weanings", err)
	}
	if report.Deaths, err = s.src.Deaths.List(ctx); err != nil {
		return nil, s.storageError("weaned_deaths", err)
	}
	if report.WeanedSales, err = s.src.Sales.List(ctx, models.SaleTypeWeaned); err != nil {
		return nil, s.storageError("weaned_sales", err)
	}
	if report.CullSales, err = s.src.Sales.List(ctx, models.SaleTypeCull); err != nil {
		return nil, s.storageError("cull_sales", err)
	}
	if report.Expenses, err = s.src.Expenses.List(ctx); err != nil {
		return nil, s.storageError("expenses", err)
	}

	report.Monthly, report.Degraded = s.Monthly(ctx)

	projection, err := s.projector.Project(ctx, s.projector.DefaultMonths())
	if err != nil {
		s.logger.Warn("report projection failed", zap.Error(err))
		report.Degraded = append(report.Degraded, "projection")
	} else {
		report.Projection = projection
	}
	return report, nil
}

// Monthly loads every monthly series. Failed series are empty and named in
// the returned slice.
func (s *ReportService) Monthly(ctx context.Context) (dto.MonthlyAggregates, []string) {
	var degraded []string
	locationSeries := func(name string, load func(context.Context) ([]models.MonthlyLocationCount, error)) []models.MonthlyLocationCount {
		rows, err := load(ctx)
		if err != nil {
			s.logger.Warn("monthly aggregate failed", zap.String("series", name), zap.Error(err))
			degraded = append(degraded, name)
			return []models.MonthlyLocationCount{}
		}
		return rows
	}
	amountSeries := func(name string, load func(context.Context) ([]models.MonthlyAmount, error)) []models.MonthlyAmount {
		rows, err := load(ctx)
		if err != nil {
			s.logger.Warn("monthly aggregate failed", zap.String("series", name), zap.Error(err))
			degraded = append(degraded, name)
			return []models.MonthlyAmount{}
		}
		return rows
	}
	revenue := func(t models.SaleType) func(context.Context) ([]models.MonthlyAmount, error) {
		return func(ctx context.Context) ([]models.MonthlyAmount, error) { return s.src.Sales.MonthlyRevenue(ctx, t) }
	}

	agg := dto.MonthlyAggregates{
		DeathsByLocation:      locationSeries("deaths_by_location", s.src.Deaths.MonthlyByLocation),
		BirthLossesByLocation: locationSeries("birth_losses_by_location", s.src.Births.MonthlyLossesByLocation),
		BirthsByLocation:      locationSeries("births_by_location", s.src.Births.MonthlyByLocation),
		Expenses:              amountSeries("expenses", s.src.Expenses.Monthly),
		WeanedRevenue:         amountSeries("weaned_revenue", revenue(models.SaleTypeWeaned)),
		CullRevenue:           amountSeries("cull_revenue", revenue(models.SaleTypeCull)),
	}
	return agg, degraded
}

// MonthlyCSV flattens the monthly aggregates into one CSV.
func (s *ReportService) MonthlyCSV(ctx context.Context) ([]byte, error) {
	agg, _ := s.Monthly(ctx)
	data := export.Dataset{Headers: []string{"month", "series", "enclosure", "pen", "value"}}

	addCounts := func(series string, rows []models.MonthlyLocationCount) {
		for _, r := range rows {
			data.Rows = append(data.Rows, map[string]string{
				"month": r.Month.UTC().Format("2006-01"), "series": series,
				"enclosure": r.Enclosure, "pen": r.Pen, "value": strconv.Itoa(r.Total),
			})
		}
	}
	addAmounts := func(series string, rows []models.MonthlyAmount) {
		for _, r := range rows {
			data.Rows = append(data.Rows, map[string]string{
				"month": r.Month.UTC().Format("2006-01"), "series": series, "value": r.Amount.StringFixed(2),
			})
		}
	}
	addCounts("deaths", agg.DeathsByLocation)
	addCounts("birth_losses", agg.BirthLossesByLocation)
	addCounts("births", agg.BirthsByLocation)
	addAmounts("expenses", agg.Expenses)
	addAmounts("weaned_revenue", agg.WeanedRevenue)
	addAmounts("cull_revenue", agg.CullRevenue)

	out, err := s.csv.Render(data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
	}
	return out, nil
}

func (s *ReportService) storageError(table string, err error) error {
	s.logger.Error("report listing failed", zap.String("table", table), zap.Error(err))
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load report")
}

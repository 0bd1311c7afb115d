package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/noah-isme/cavy-ledger/internal/dto"
	"github.com/noah-isme/cavy-ledger/internal/models"
	appErrors "github.com/noah-isme/cavy-ledger/pkg/errors"
)

type saleRepository interface {
	Create(ctx context.Context, s *models.Sale) error
	AnimalsSoldSince(ctx context.Context, saleType models.SaleType, since time.Time) (int, error)
	IncomeTotals(ctx context.Context) (models.SaleTotals, error)
}

// SaleForm covers both sale kinds, selected by SaleType. Weaned sales use
// FemalesSold/MalesSold; cull sales use AnimalsSold and need an origin
// location. Amount is a decimal string.
type SaleForm struct {
	SaleType            string `json:"saleType" form:"saleType" validate:"required,oneof=weaned cull"`
	Enclosure           string `json:"enclosure,omitempty" form:"enclosure"`
	Pen                 string `json:"pen,omitempty" form:"pen"`
	FemalesSold         *int   `json:"femalesSold,omitempty" form:"femalesSold" validate:"omitempty,gte=0"`
	MalesSold           *int   `json:"malesSold,omitempty" form:"malesSold" validate:"omitempty,gte=0"`
	AnimalsSold         *int   `json:"animalsSold,omitempty" form:"animalsSold" validate:"omitempty,gte=0"`
	Amount              string `json:"amount" form:"amount" validate:"required,numeric"`
	SaleDate            string `json:"saleDate,omitempty" form:"saleDate" validate:"omitempty,datetime=2006-01-02"`
	RelocateToFattening bool   `json:"relocateToFattening,omitempty" form:"relocateToFattening"`
	FatteningEnclosure  string `json:"fatteningEnclosure,omitempty" form:"fatteningEnclosure"`
	FatteningPen        string `json:"fatteningPen,omitempty" form:"fatteningPen"`
	RelocationDate      string `json:"relocationDate,omitempty" form:"relocationDate" validate:"omitempty,datetime=2006-01-02"`
	FatteningDays       *int   `json:"fatteningDays,omitempty" form:"fatteningDays" validate:"omitempty,gte=0"`
	Notes               string `json:"notes,omitempty" form:"notes"`
}

// SaleService records weaned and cull sales.
type SaleService struct {
	repo      saleRepository
	locations *LocationPolicy
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewSaleService constructs the service.
func NewSaleService(repo saleRepository, locations *LocationPolicy, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *SaleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SaleService{
		repo:      repo,
		locations: locations,
		cache:     cache,
		metrics:   metrics,
		validator: newValidator(),
		logger:    logger,
		now:       time.Now,
	}
}

// View returns the sales form with its counters.
func (s *SaleService) View(ctx context.Context) *dto.FormView {
	return &dto.FormView{Locations: s.locations.Known(ctx), Stats: s.Stats(ctx)}
}

// Stats reports animals sold and income. Failing counters are logged and zero.
func (s *SaleService) Stats(ctx context.Context) dto.SalesStats {
	now := s.now()
	stats := dto.SalesStats{
		WeanedToday: s.soldSince(ctx, models.SaleTypeWeaned, "weaned_today", startOfDay(now)),
		WeanedMonth: s.soldSince(ctx, models.SaleTypeWeaned, "weaned_month", startOfMonth(now)),
		WeanedTotal: s.soldSince(ctx, models.SaleTypeWeaned, "weaned_total", time.Time{}),
		CullMonth:   s.soldSince(ctx, models.SaleTypeCull, "cull_month", startOfMonth(now)),
		TotalIncome: decimal.Zero,
	}
	totals, err := s.repo.IncomeTotals(ctx)
	if err != nil {
		s.logger.Warn("sales stat failed", zap.String("stat", "income"), zap.Error(err))
		return stats
	}
	stats.TotalIncome = totals.Weaned.Add(totals.Cull)
	return stats
}

func (s *SaleService) soldSince(ctx context.Context, saleType models.SaleType, label string, since time.Time) int {
	n, err := s.repo.AnimalsSoldSince(ctx, saleType, since)
	if err != nil {
		s.logger.Warn("sales stat failed", zap.String("stat", label), zap.Error(err))
		return 0
	}
	return n
}

// Record validates and stores a sale of either kind.
func (s *SaleService) Record(ctx context.Context, form SaleForm) (*models.Sale, error) {
	form.Enclosure = strings.TrimSpace(form.Enclosure)
	form.Pen = strings.TrimSpace(form.Pen)
	form.FatteningEnclosure = strings.TrimSpace(form.FatteningEnclosure)
	form.FatteningPen = strings.TrimSpace(form.FatteningPen)
	if err := s.validator.Struct(form); err != nil {
		return nil, validationError(err)
	}
	amount, err := parsePositiveAmount("amount", form.Amount)
	if err != nil {
		return nil, err
	}
	date, err := parseOptionalDate(form.SaleDate, s.now().UTC())
	if err != nil {
		return nil, appErrors.Validation(map[string]string{"saleDate": "must be a date formatted 2006-01-02"})
	}

	sale := &models.Sale{
		SaleType:   models.SaleType(form.SaleType),
		SaleAmount: amount,
		SaleDate:   date,
		Enclosure:  optionalString(form.Enclosure),
		Pen:        optionalString(form.Pen),
		Notes:      optionalString(strings.TrimSpace(form.Notes)),
	}

	switch sale.SaleType {
	case models.SaleTypeWeaned:
		if err := s.weaned(form, sale); err != nil {
			return nil, err
		}
	case models.SaleTypeCull:
		if err := s.cull(ctx, form, sale); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Create(ctx, sale); err != nil {
		s.logger.Error("record sale failed", zap.String("type", form.SaleType), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save sale")
	}
	s.metrics.RecordWrite("sales_" + form.SaleType)
	s.cache.InvalidateDashboard(ctx)
	return sale, nil
}

func (s *SaleService) weaned(form SaleForm, sale *models.Sale) error {
	sale.FemalesSold = intValue(form.FemalesSold)
	sale.MalesSold = intValue(form.MalesSold)
	if sale.FemalesSold == 0 && sale.MalesSold == 0 {
		return appErrors.Validation(map[string]string{
			"femalesSold": "at least one of femalesSold or malesSold must be positive",
		})
	}
	return nil
}

func (s *SaleService) cull(ctx context.Context, form SaleForm, sale *models.Sale) error {
	fields := map[string]string{}
	if form.Enclosure == "" {
		fields["enclosure"] = "is required"
	}
	if form.Pen == "" {
		fields["pen"] = "is required"
	}
	sale.AnimalsSold = intValue(form.AnimalsSold)
	if sale.AnimalsSold <= 0 {
		fields["animalsSold"] = "must be greater than 0"
	}
	if form.RelocateToFattening {
		if form.FatteningEnclosure == "" {
			fields["fatteningEnclosure"] = "is required"
		}
		if form.FatteningPen == "" {
			fields["fatteningPen"] = "is required"
		}
		if form.RelocationDate == "" {
			fields["relocationDate"] = "is required"
		}
	}
	if len(fields) > 0 {
		return appErrors.Validation(fields)
	}

	if form.RelocateToFattening {
		moved, err := parseOptionalDate(form.RelocationDate, time.Time{})
		if err != nil {
			return appErrors.Validation(map[string]string{"relocationDate": "must be a date formatted 2006-01-02"})
		}
		sale.RelocateToFattening = true
		sale.FatteningEnclosure = optionalString(form.FatteningEnclosure)
		sale.FatteningPen = optionalString(form.FatteningPen)
		sale.RelocationDate = &moved
		sale.FatteningDays = form.FatteningDays
	}

	return s.locations.Check(ctx, models.Location{Enclosure: form.Enclosure, Pen: form.Pen})
}

func optionalString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

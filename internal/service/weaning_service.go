package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/cavy-ledger/internal/dto"
	"github.com/noah-isme/cavy-ledger/internal/models"
	appErrors "github.com/noah-isme/cavy-ledger/pkg/errors"
)

type weaningRepository interface {
	Create(ctx context.Context, w *models.WeaningEvent) error
	SumSince(ctx context.Context, since time.Time) (int, error)
}

// WeaningForm is the weaning submission.
type WeaningForm struct {
	Enclosure     string `json:"enclosure" form:"enclosure" validate:"required"`
	Pen           string `json:"pen" form:"pen" validate:"required"`
	WeanedFemales *int   `json:"weanedFemales" form:"weanedFemales" validate:"required,gte=0"`
	WeanedMales   *int   `json:"weanedMales" form:"weanedMales" validate:"required,gte=0"`
	WeanDate      string `json:"weanDate,omitempty" form:"weanDate" validate:"omitempty,datetime=2006-01-02"`
}

// WeaningService records weanings.
type WeaningService struct {
	repo      weaningRepository
	locations *LocationPolicy
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewWeaningService constructs the service.
func NewWeaningService(repo weaningRepository, locations *LocationPolicy, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *WeaningService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WeaningService{
		repo:      repo,
		locations: locations,
		cache:     cache,
		metrics:   metrics,
		validator: newValidator(),
		logger:    logger,
		now:       time.Now,
	}
}

// View returns the weaning form with today / month / total counters.
func (s *WeaningService) View(ctx context.Context) *dto.FormView {
	return &dto.FormView{Locations: s.locations.Known(ctx), Stats: s.Stats(ctx)}
}

// Stats sums weaned animals for the current UTC day, month and overall. A
// failing counter is logged and shown as zero.
func (s *WeaningService) Stats(ctx context.Context) dto.WeaningStats {
	now := s.now()
	return dto.WeaningStats{
		Today: s.sumSince(ctx, "today", startOfDay(now)),
		Month: s.sumSince(ctx, "month", startOfMonth(now)),
		Total: s.sumSince(ctx, "total", time.Time{}),
	}
}

func (s *WeaningService) sumSince(ctx context.Context, label string, since time.Time) int {
	n, err := s.repo.SumSince(ctx, since)
	if err != nil {
		s.logger.Warn("weaning stat failed", zap.String("stat", label), zap.Error(err))
		return 0
	}
	return n
}

// Record stores a weaning. At least one of the two counts must be positive.
func (s *WeaningService) Record(ctx context.Context, form WeaningForm) (*models.WeaningEvent, error) {
	form.Enclosure = strings.TrimSpace(form.Enclosure)
	form.Pen = strings.TrimSpace(form.Pen)
	if err := s.validator.Struct(form); err != nil {
		return nil, validationError(err)
	}
	if *form.WeanedFemales == 0 && *form.WeanedMales == 0 {
		return nil, appErrors.Validation(map[string]string{
			"weanedFemales": "at least one of weanedFemales or weanedMales must be positive",
		})
	}
	date, err := parseOptionalDate(form.WeanDate, s.now().UTC())
	if err != nil {
		return nil, appErrors.Validation(map[string]string{"weanDate": "must be a date formatted 2006-01-02"})
	}

	w := &models.WeaningEvent{
		Enclosure:     form.Enclosure,
		Pen:           form.Pen,
		WeanedFemales: *form.WeanedFemales,
		WeanedMales:   *form.WeanedMales,
		WeanDate:      date,
	}
	if err := s.locations.Check(ctx, models.Location{Enclosure: w.Enclosure, Pen: w.Pen}); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, w); err != nil {
		s.logger.Error("record weaning failed", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save weaning")
	}
	s.metrics.RecordWrite("weanings")
	s.cache.InvalidateDashboard(ctx)
	return w, nil
}

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

type deathRepository interface {
	Create(ctx context.Context, d *models.PostWeaningDeathEvent) error
}

// DeathForm is the post-weaning death submission.
type DeathForm struct {
	Enclosure   string `json:"enclosure" form:"enclosure" validate:"required"`
	Pen         string `json:"pen" form:"pen" validate:"required"`
	DeadFemales *int   `json:"deadFemales" form:"deadFemales" validate:"required,gte=0"`
	DeadMales   *int   `json:"deadMales" form:"deadMales" validate:"required,gte=0"`
	DeathDate   string `json:"deathDate,omitempty" form:"deathDate" validate:"omitempty,datetime=2006-01-02"`
}

// DeathService records post-weaning deaths.
type DeathService struct {
	repo      deathRepository
	locations *LocationPolicy
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewDeathService constructs the service.
func NewDeathService(repo deathRepository, locations *LocationPolicy, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *DeathService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DeathService{
		repo:      repo,
		locations: locations,
		cache:     cache,
		metrics:   metrics,
		validator: newValidator(),
		logger:    logger,
		now:       time.Now,
	}
}

// View returns the death form context.
func (s *DeathService) View(ctx context.Context) *dto.FormView {
	return &dto.FormView{Locations: s.locations.Known(ctx)}
}

// Record stores a death event.
func (s *DeathService) Record(ctx context.Context, form DeathForm) (*models.PostWeaningDeathEvent, error) {
	form.Enclosure = strings.TrimSpace(form.Enclosure)
	form.Pen = strings.TrimSpace(form.Pen)
	if err := s.validator.Struct(form); err != nil {
		return nil, validationError(err)
	}
	date, err := parseOptionalDate(form.DeathDate, s.now().UTC())
	if err != nil {
		return nil, appErrors.Validation(map[string]string{"deathDate": "must be a date formatted 2006-01-02"})
	}

	d := &models.PostWeaningDeathEvent{
		Enclosure:   form.Enclosure,
		Pen:         form.Pen,
		DeadFemales: *form.DeadFemales,
		DeadMales:   *form.DeadMales,
		DeathDate:   date,
	}
	if err := s.locations.Check(ctx, models.Location{Enclosure: d.Enclosure, Pen: d.Pen}); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, d); err != nil {
		s.logger.Error("record death failed", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save death record")
	}
	s.metrics.RecordWrite("weaned_deaths")
	s.cache.InvalidateDashboard(ctx)
	return d, nil
}

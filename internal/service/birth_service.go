package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/cavy-ledger/internal/dto"
	"github.com/noah-isme/cavy-ledger/internal/models"
	appErrors "github.com/noah-isme/cavy-ledger/pkg/errors"
)

type birthRepository interface {
	Accumulate(ctx context.Context, birth *models.BirthEvent) (*models.BirthEvent, bool, error)
	Update(ctx context.Context, birth *models.BirthEvent) error
	GetByID(ctx context.Context, id int64) (*models.BirthEvent, error)
	List(ctx context.Context, filter models.BirthFilter) ([]models.BirthEvent, error)
}

// BirthForm is the litter submission.
type BirthForm struct {
	Enclosure        string `json:"enclosure" form:"enclosure" validate:"required"`
	Pen              string `json:"pen" form:"pen" validate:"required"`
	LitterNumber     *int   `json:"litterNumber" form:"litterNumber" validate:"required,gte=0"`
	BornCount        *int   `json:"bornCount" form:"bornCount" validate:"required,gte=0"`
	BornDeadCount    *int   `json:"bornDeadCount" form:"bornDeadCount" validate:"required,gte=0"`
	ParentDeathCount *int   `json:"parentDeathCount" form:"parentDeathCount" validate:"required,gte=0"`
	BirthDate        string `json:"birthDate,omitempty" form:"birthDate" validate:"omitempty,datetime=2006-01-02"`
}

// BirthResult reports the stored litter and whether the submission created it
// or was folded into an existing row.
type BirthResult struct {
	Birth   *models.BirthEvent `json:"birth"`
	Created bool               `json:"created"`
}

// BirthService records litters.
type BirthService struct {
	repo      birthRepository
	locations *LocationPolicy
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewBirthService constructs the service.
func NewBirthService(repo birthRepository, locations *LocationPolicy, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *BirthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BirthService{
		repo:      repo,
		locations: locations,
		cache:     cache,
		metrics:   metrics,
		validator: newValidator(),
		logger:    logger,
		now:       time.Now,
	}
}

// View returns the birth form context.
func (s *BirthService) View(ctx context.Context) *dto.FormView {
	return &dto.FormView{Locations: s.locations.Known(ctx)}
}

// Record stores a litter. A repeat submission for the same enclosure, pen and
// litter number adds its counts to the stored row instead of inserting.
func (s *BirthService) Record(ctx context.Context, form BirthForm) (*BirthResult, error) {
	birth, err := s.fromForm(form)
	if err != nil {
		return nil, err
	}
	if err := s.locations.Check(ctx, birth.Location()); err != nil {
		return nil, err
	}
	stored, created, err := s.repo.Accumulate(ctx, birth)
	if err != nil {
		s.logger.Error("record birth failed", zap.String("location", birth.Location().String()), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save birth")
	}
	s.written(ctx)
	return &BirthResult{Birth: stored, Created: created}, nil
}

// Search lists births at a location. Empty filter fields match everything.
func (s *BirthService) Search(ctx context.Context, filter models.BirthFilter) ([]models.BirthEvent, error) {
	filter.Enclosure = strings.TrimSpace(filter.Enclosure)
	filter.Pen = strings.TrimSpace(filter.Pen)
	births, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to search births")
	}
	if births == nil {
		births = []models.BirthEvent{}
	}
	return births, nil
}

// Get returns one birth for editing.
func (s *BirthService) Get(ctx context.Context, id int64) (*models.BirthEvent, error) {
	birth, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "birth not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load birth")
	}
	return birth, nil
}

// Update replaces every count of a birth; nothing is accumulated.
func (s *BirthService) Update(ctx context.Context, id int64, form BirthForm) (*models.BirthEvent, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	birth, err := s.fromForm(form)
	if err != nil {
		return nil, err
	}
	if err := s.locations.Check(ctx, birth.Location()); err != nil {
		return nil, err
	}
	birth.ID = id
	birth.BirthDate = existing.BirthDate
	if err := s.repo.Update(ctx, birth); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "birth not found")
		}
		s.logger.Error("update birth failed", zap.Int64("id", id), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update birth")
	}
	s.written(ctx)
	return birth, nil
}

func (s *BirthService) fromForm(form BirthForm) (*models.BirthEvent, error) {
	form.Enclosure = strings.TrimSpace(form.Enclosure)
	form.Pen = strings.TrimSpace(form.Pen)
	if err := s.validator.Struct(form); err != nil {
		return nil, validationError(err)
	}
	date, err := parseOptionalDate(form.BirthDate, s.now().UTC())
	if err != nil {
		return nil, appErrors.Validation(map[string]string{"birthDate": "must be a date formatted 2006-01-02"})
	}
	return &models.BirthEvent{
		Enclosure:        form.Enclosure,
		Pen:              form.Pen,
		LitterNumber:     *form.LitterNumber,
		BornCount:        *form.BornCount,
		BornDeadCount:    *form.BornDeadCount,
		ParentDeathCount: *form.ParentDeathCount,
		BirthDate:        date,
	}, nil
}

func (s *BirthService) written(ctx context.Context) {
	s.metrics.RecordWrite("births")
	s.cache.InvalidateDashboard(ctx)
}

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

type stockRepository interface {
	Create(ctx context.Context, entry *models.BreedingStockEntry) error
	Update(ctx context.Context, entry *models.BreedingStockEntry) error
	GetByID(ctx context.Context, id int64) (*models.BreedingStockEntry, error)
}

// StockForm is the breeding stock submission.
type StockForm struct {
	Enclosure      string `json:"enclosure" form:"enclosure" validate:"required"`
	Pen            string `json:"pen" form:"pen" validate:"required"`
	Females        *int   `json:"females" form:"females" validate:"required,gte=0"`
	Males          *int   `json:"males" form:"males" validate:"required,gte=0"`
	StockAgeMonths *int   `json:"stockAgeMonths" form:"stockAgeMonths" validate:"required,gte=0"`
	IntakeDate     string `json:"intakeDate,omitempty" form:"intakeDate" validate:"omitempty,datetime=2006-01-02"`
}

// StockService registers and edits breeding stock.
type StockService struct {
	repo      stockRepository
	locations *LocationPolicy
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewStockService constructs the service.
func NewStockService(repo stockRepository, locations *LocationPolicy, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *StockService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockService{
		repo:      repo,
		locations: locations,
		cache:     cache,
		metrics:   metrics,
		validator: newValidator(),
		logger:    logger,
		now:       time.Now,
	}
}

// View returns the registration form context.
func (s *StockService) View(ctx context.Context) *dto.FormView {
	return &dto.FormView{Locations: s.locations.Known(ctx)}
}

// Create registers a stock cohort. Registering the same location again adds a
// newer entry which supersedes the previous one on the dashboard.
func (s *StockService) Create(ctx context.Context, form StockForm) (*models.BreedingStockEntry, error) {
	entry, err := s.fromForm(form)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		s.logger.Error("create breeding stock failed", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save breeding stock")
	}
	s.written(ctx)
	return entry, nil
}

// Get returns one entry for editing.
func (s *StockService) Get(ctx context.Context, id int64) (*models.BreedingStockEntry, error) {
	entry, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "breeding stock entry not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load breeding stock")
	}
	return entry, nil
}

// Update replaces location, counts and age of an entry; the intake date is kept.
func (s *StockService) Update(ctx context.Context, id int64, form StockForm) (*models.BreedingStockEntry, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	entry, err := s.fromForm(form)
	if err != nil {
		return nil, err
	}
	entry.ID = id
	entry.IntakeDate = existing.IntakeDate
	if err := s.repo.Update(ctx, entry); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "breeding stock entry not found")
		}
		s.logger.Error("update breeding stock failed", zap.Int64("id", id), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update breeding stock")
	}
	s.written(ctx)
	return entry, nil
}

func (s *StockService) fromForm(form StockForm) (*models.BreedingStockEntry, error) {
	form.Enclosure = strings.TrimSpace(form.Enclosure)
	form.Pen = strings.TrimSpace(form.Pen)
	if err := s.validator.Struct(form); err != nil {
		return nil, validationError(err)
	}
	intake, err := parseOptionalDate(form.IntakeDate, s.now().UTC())
	if err != nil {
		return nil, appErrors.Validation(map[string]string{"intakeDate": "must be a date formatted 2006-01-02"})
	}
	return &models.BreedingStockEntry{
		Enclosure:      form.Enclosure,
		Pen:            form.Pen,
		Females:        *form.Females,
		Males:          *form.Males,
		StockAgeMonths: *form.StockAgeMonths,
		IntakeDate:     intake,
	}, nil
}

func (s *StockService) written(ctx context.Context) {
	s.metrics.RecordWrite("breeding_stock")
	s.cache.InvalidateDashboard(ctx)
}

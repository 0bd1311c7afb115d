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

type expenseRepository interface {
	Create(ctx context.Context, e *models.Expense) error
}

// ExpenseForm is the expense submission. Amount is a decimal string.
type ExpenseForm struct {
	Description string `json:"description" form:"description" validate:"required"`
	Amount      string `json:"amount" form:"amount" validate:"required,numeric"`
	Category    string `json:"category" form:"category" validate:"required"`
	ExpenseDate string `json:"expenseDate,omitempty" form:"expenseDate" validate:"omitempty,datetime=2006-01-02"`
}

// ExpenseService records expenses.
type ExpenseService struct {
	repo      expenseRepository
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewExpenseService constructs the service.
func NewExpenseService(repo expenseRepository, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *ExpenseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExpenseService{repo: repo, cache: cache, metrics: metrics, validator: newValidator(), logger: logger, now: time.Now}
}

// View returns the expense form context.
func (s *ExpenseService) View(ctx context.Context) *dto.FormView {
	return &dto.FormView{Locations: []models.Location{}}
}

// Record stores an expense with a strictly positive amount.
func (s *ExpenseService) Record(ctx context.Context, form ExpenseForm) (*models.Expense, error) {
	form.Description = strings.TrimSpace(form.Description)
	form.Category = strings.TrimSpace(form.Category)
	if err := s.validator.Struct(form); err != nil {
		return nil, validationError(err)
	}
	amount, err := parsePositiveAmount("amount", form.Amount)
	if err != nil {
		return nil, err
	}
	date, err := parseOptionalDate(form.ExpenseDate, s.now().UTC())
	if err != nil {
		return nil, appErrors.Validation(map[string]string{"expenseDate": "must be a date formatted 2006-01-02"})
	}

	e := &models.Expense{Description: form.Description, Amount: amount, Category: form.Category, ExpenseDate: date}
	if err := s.repo.Create(ctx, e); err != nil {
		s.logger.Error("record expense failed", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save expense")
	}
	s.metrics.RecordWrite("expenses")
	s.cache.InvalidateDashboard(ctx)
	return e, nil
}

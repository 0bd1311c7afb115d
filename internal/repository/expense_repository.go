package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/cavy-ledger/internal/models"
)

// ExpenseRepository persists expenses.
type ExpenseRepository struct {
	db *sqlx.DB
}

// NewExpenseRepository creates the repository.
func NewExpenseRepository(db *sqlx.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

// Create inserts an expense.
func (r *ExpenseRepository) Create(ctx context.Context, e *models.Expense) error {
	if e.ExpenseDate.IsZero() {
		e.ExpenseDate = time.Now().UTC()
	}
	const query = `INSERT INTO expenses (description, amount, category, expense_date) VALUES ($1, $2, $3, $4) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query, e.Description, e.Amount, e.Category, e.ExpenseDate).Scan(&e.ID); err != nil {
		return fmt.Errorf("create expense: %w", err)
	}
	return nil
}

// List returns every expense ordered by date.
func (r *ExpenseRepository) List(ctx context.Context) ([]models.Expense, error) {
	const query = `SELECT id, description, amount, category, expense_date FROM expenses ORDER BY expense_date, id`
	var rows []models.Expense
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return rows, nil
}

// Total sums every expense.
func (r *ExpenseRepository) Total(ctx context.Context) (decimal.Decimal, error) {
	const query = `SELECT COALESCE(SUM(amount), 0) FROM expenses`
	var total decimal.Decimal
	if err := r.db.GetContext(ctx, &total, query); err != nil {
		return decimal.Zero, fmt.Errorf("sum expenses: %w", err)
	}
	return total, nil
}

// Monthly sums expenses per calendar month.
func (r *ExpenseRepository) Monthly(ctx context.Context) ([]models.MonthlyAmount, error) {
	const query = `SELECT date_trunc('month', expense_date) AS month, COALESCE(SUM(amount), 0) AS amount
FROM expenses GROUP BY 1 ORDER BY 1`
	var rows []models.MonthlyAmount
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("monthly expenses: %w", err)
	}
	return rows, nil
}

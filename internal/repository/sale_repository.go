package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/cavy-ledger/internal/models"
)

// SaleRepository persists weaned and cull sales in the unified sales table.
type SaleRepository struct {
	db *sqlx.DB
}

// NewSaleRepository creates the repository.
func NewSaleRepository(db *sqlx.DB) *SaleRepository {
	return &SaleRepository{db: db}
}

const saleColumns = `id, sale_type, enclosure, pen, females_sold, males_sold, animals_sold, sale_amount, sale_date,
relocate_to_fattening, fattening_enclosure, fattening_pen, relocation_date, fattening_days, notes`

// Create inserts a sale.
func (r *SaleRepository) Create(ctx context.Context, s *models.Sale) error {
	if s.SaleDate.IsZero() {
		s.SaleDate = time.Now().UTC()
	}
	const query = `INSERT INTO sales (sale_type, enclosure, pen, females_sold, males_sold, animals_sold, sale_amount, sale_date,
relocate_to_fattening, fattening_enclosure, fattening_pen, relocation_date, fattening_days, notes)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query,
		s.SaleType, s.Enclosure, s.Pen, s.FemalesSold, s.MalesSold, s.AnimalsSold, s.SaleAmount, s.SaleDate,
		s.RelocateToFattening, s.FatteningEnclosure, s.FatteningPen, s.RelocationDate, s.FatteningDays, s.Notes,
	).Scan(&s.ID); err != nil {
		return fmt.Errorf("create sale: %w", err)
	}
	return nil
}

// List returns every sale of the given type ordered by location and date.
func (r *SaleRepository) List(ctx context.Context, saleType models.SaleType) ([]models.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE sale_type = $1 ORDER BY enclosure, pen, sale_date`
	var rows []models.Sale
	if err := r.db.SelectContext(ctx, &rows, query, saleType); err != nil {
		return nil, fmt.Errorf("list %s sales: %w", saleType, err)
	}
	return rows, nil
}

// AnimalsSoldSince counts animals sold of saleType on or after since.
func (r *SaleRepository) AnimalsSoldSince(ctx context.Context, saleType models.SaleType, since time.Time) (int, error) {
	const query = `SELECT COALESCE(SUM(females_sold + males_sold + animals_sold), 0) FROM sales WHERE sale_type = $1 AND sale_date >= $2`
	var total int
	if err := r.db.GetContext(ctx, &total, query, saleType, since); err != nil {
		return 0, fmt.Errorf("count %s sales: %w", saleType, err)
	}
	return total, nil
}

// IncomeTotals sums amounts per sale type.
func (r *SaleRepository) IncomeTotals(ctx context.Context) (models.SaleTotals, error) {
	const query = `SELECT
COALESCE(SUM(sale_amount) FILTER (WHERE sale_type = 'weaned'), 0) AS weaned,
COALESCE(SUM(sale_amount) FILTER (WHERE sale_type = 'cull'), 0) AS cull
FROM sales`
	var totals models.SaleTotals
	if err := r.db.GetContext(ctx, &totals, query); err != nil {
		return models.SaleTotals{}, fmt.Errorf("sale totals: %w", err)
	}
	return totals, nil
}

// MonthlyRevenue sums sale amounts per month. An empty saleType covers both kinds.
func (r *SaleRepository) MonthlyRevenue(ctx context.Context, saleType models.SaleType) ([]models.MonthlyAmount, error) {
	query := `SELECT date_trunc('month', sale_date) AS month, COALESCE(SUM(sale_amount), 0) AS amount FROM sales`
	args := []interface{}{}
	if saleType != "" {
		query += ` WHERE sale_type = $1`
		args = append(args, saleType)
	}
	query += ` GROUP BY 1 ORDER BY 1`

	var rows []models.MonthlyAmount
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("monthly revenue: %w", err)
	}
	return rows, nil
}

package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/cavy-ledger/internal/models"
)

// DeathRepository persists post-weaning deaths.
type DeathRepository struct {
	db *sqlx.DB
}

// NewDeathRepository creates the repository.
func NewDeathRepository(db *sqlx.DB) *DeathRepository {
	return &DeathRepository{db: db}
}

// Create inserts a death event.
func (r *DeathRepository) Create(ctx context.Context, d *models.PostWeaningDeathEvent) error {
	if d.DeathDate.IsZero() {
		d.DeathDate = time.Now().UTC()
	}
	const query = `INSERT INTO weaned_deaths (enclosure, pen, dead_females, dead_males, death_date)
VALUES ($1, $2, $3, $4, $5) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query, d.Enclosure, d.Pen, d.DeadFemales, d.DeadMales, d.DeathDate).Scan(&d.ID); err != nil {
		return fmt.Errorf("create death: %w", err)
	}
	return nil
}

// List returns every death event ordered by location and date.
func (r *DeathRepository) List(ctx context.Context) ([]models.PostWeaningDeathEvent, error) {
	const query = `SELECT id, enclosure, pen, dead_females, dead_males, death_date FROM weaned_deaths ORDER BY enclosure, pen, death_date`
	var rows []models.PostWeaningDeathEvent
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list deaths: %w", err)
	}
	return rows, nil
}

// TotalsByLocation sums deaths per location.
func (r *DeathRepository) TotalsByLocation(ctx context.Context) ([]models.LocationCount, error) {
	const query = `SELECT enclosure, pen, COALESCE(SUM(dead_females + dead_males), 0) AS total FROM weaned_deaths GROUP BY enclosure, pen`
	var rows []models.LocationCount
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("death totals: %w", err)
	}
	return rows, nil
}

// TotalsSince sums deaths per location dated on or after since, keeping only
// locations whose total exceeds threshold.
func (r *DeathRepository) TotalsSince(ctx context.Context, since time.Time, threshold int) ([]models.LocationCount, error) {
	const query = `SELECT enclosure, pen, SUM(dead_females + dead_males) AS total
FROM weaned_deaths WHERE death_date >= $1
GROUP BY enclosure, pen
HAVING SUM(dead_females + dead_males) > $2`
	var rows []models.LocationCount
	if err := r.db.SelectContext(ctx, &rows, query, since, threshold); err != nil {
		return nil, fmt.Errorf("recent death totals: %w", err)
	}
	return rows, nil
}

// Monthly sums deaths per calendar month.
func (r *DeathRepository) Monthly(ctx context.Context) ([]models.MonthlyCount, error) {
	const query = `SELECT date_trunc('month', death_date) AS month, COALESCE(SUM(dead_females + dead_males), 0) AS total
FROM weaned_deaths GROUP BY 1 ORDER BY 1`
	var rows []models.MonthlyCount
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("monthly deaths: %w", err)
	}
	return rows, nil
}

// MonthlyByLocation sums deaths per month and location.
func (r *DeathRepository) MonthlyByLocation(ctx context.Context) ([]models.MonthlyLocationCount, error) {
	const query = `SELECT date_trunc('month', death_date) AS month, enclosure, pen, COALESCE(SUM(dead_females + dead_males), 0) AS total
FROM weaned_deaths GROUP BY 1, 2, 3 ORDER BY 1`
	var rows []models.MonthlyLocationCount
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("monthly deaths by location: %w", err)
	}
	return rows, nil
}

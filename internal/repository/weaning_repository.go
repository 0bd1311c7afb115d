package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/cavy-ledger/internal/models"
)

// WeaningRepository persists weaning events.
type WeaningRepository struct {
	db *sqlx.DB
}

// NewWeaningRepository creates the repository.
func NewWeaningRepository(db *sqlx.DB) *WeaningRepository {
	return &WeaningRepository{db: db}
}

// Create inserts a weaning event.
func (r *WeaningRepository) Create(ctx context.Context, w *models.WeaningEvent) error {
	if w.WeanDate.IsZero() {
		w.WeanDate = time.Now().UTC()
	}
	const query = `INSERT INTO weanings (enclosure, pen, weaned_females, weaned_males, wean_date)
VALUES ($1, $2, $3, $4, $5) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query, w.Enclosure, w.Pen, w.WeanedFemales, w.WeanedMales, w.WeanDate).Scan(&w.ID); err != nil {
		return fmt.Errorf("create weaning: %w", err)
	}
	return nil
}

// List returns every weaning ordered by location and date.
func (r *WeaningRepository) List(ctx context.Context) ([]models.WeaningEvent, error) {
	const query = `SELECT id, enclosure, pen, weaned_females, weaned_males, wean_date FROM weanings ORDER BY enclosure, pen, wean_date`
	var rows []models.WeaningEvent
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list weanings: %w", err)
	}
	return rows, nil
}

// TotalsByLocation sums weaned animals per location.
func (r *WeaningRepository) TotalsByLocation(ctx context.Context) ([]models.LocationCount, error) {
	const query = `SELECT enclosure, pen, COALESCE(SUM(weaned_females + weaned_males), 0) AS total FROM weanings GROUP BY enclosure, pen`
	var rows []models.LocationCount
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("weaning totals: %w", err)
	}
	return rows, nil
}

// SumSince sums weaned animals dated on or after since. A zero since sums everything.
func (r *WeaningRepository) SumSince(ctx context.Context, since time.Time) (int, error) {
	const query = `SELECT COALESCE(SUM(weaned_females + weaned_males), 0) FROM weanings WHERE wean_date >= $1`
	var total int
	if err := r.db.GetContext(ctx, &total, query, since); err != nil {
		return 0, fmt.Errorf("sum weanings: %w", err)
	}
	return total, nil
}

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/cavy-ledger/internal/models"
)

// StockRepository persists breeding stock entries.
type StockRepository struct {
	db *sqlx.DB
}

// NewStockRepository creates the repository.
func NewStockRepository(db *sqlx.DB) *StockRepository {
	return &StockRepository{db: db}
}

const stockColumns = `id, enclosure, pen, females, males, stock_age_months, intake_date`

// Create inserts an entry. A zero IntakeDate is stamped with the current time.
func (r *StockRepository) Create(ctx context.Context, entry *models.BreedingStockEntry) error {
	if entry.IntakeDate.IsZero() {
		entry.IntakeDate = time.Now().UTC()
	}
	const query = `INSERT INTO breeding_stock (enclosure, pen, females, males, stock_age_months, intake_date)
VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query,
		entry.Enclosure, entry.Pen, entry.Females, entry.Males, entry.StockAgeMonths, entry.IntakeDate,
	).Scan(&entry.ID); err != nil {
		return fmt.Errorf("create breeding stock: %w", err)
	}
	return nil
}

// Update replaces the editable fields of an entry. The intake date is kept.
func (r *StockRepository) Update(ctx context.Context, entry *models.BreedingStockEntry) error {
	const query = `UPDATE breeding_stock SET enclosure = :enclosure, pen = :pen, females = :females, males = :males,
stock_age_months = :stock_age_months WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, entry)
	if err != nil {
		return fmt.Errorf("update breeding stock: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// GetByID returns an entry by identifier.
func (r *StockRepository) GetByID(ctx context.Context, id int64) (*models.BreedingStockEntry, error) {
	query := `SELECT ` + stockColumns + ` FROM breeding_stock WHERE id = $1`
	var entry models.BreedingStockEntry
	if err := r.db.GetContext(ctx, &entry, query, id); err != nil {
		return nil, err
	}
	return &entry, nil
}

// List returns every entry ordered by location and intake date.
func (r *StockRepository) List(ctx context.Context) ([]models.BreedingStockEntry, error) {
	query := `SELECT ` + stockColumns + ` FROM breeding_stock ORDER BY enclosure, pen, intake_date`
	var entries []models.BreedingStockEntry
	if err := r.db.SelectContext(ctx, &entries, query); err != nil {
		return nil, fmt.Errorf("list breeding stock: %w", err)
	}
	return entries, nil
}

// Locations returns every distinct registered (enclosure, pen).
func (r *StockRepository) Locations(ctx context.Context) ([]models.Location, error) {
	const query = `SELECT DISTINCT enclosure, pen FROM breeding_stock`
	var locs []models.Location
	if err := r.db.SelectContext(ctx, &locs, query); err != nil {
		return nil, fmt.Errorf("list stock locations: %w", err)
	}
	return locs, nil
}

// Exists reports whether any entry is registered at loc.
func (r *StockRepository) Exists(ctx context.Context, loc models.Location) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM breeding_stock WHERE enclosure = $1 AND pen = $2)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, loc.Enclosure, loc.Pen); err != nil {
		return false, fmt.Errorf("check stock location: %w", err)
	}
	return exists, nil
}

// LatestTotals returns females+males of the most recent entry per location.
// Ties on intake date are broken by the higher id.
func (r *StockRepository) LatestTotals(ctx context.Context) ([]models.LocationCount, error) {
	const query = `SELECT DISTINCT ON (enclosure, pen) enclosure, pen, females + males AS total
FROM breeding_stock
ORDER BY enclosure, pen, intake_date DESC, id DESC`
	var rows []models.LocationCount
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("latest stock totals: %w", err)
	}
	return rows, nil
}

// IntakeBefore returns entries registered on or before cutoff.
func (r *StockRepository) IntakeBefore(ctx context.Context, cutoff time.Time) ([]models.BreedingStockEntry, error) {
	query := `SELECT ` + stockColumns + ` FROM breeding_stock WHERE intake_date <= $1 ORDER BY intake_date, id`
	var entries []models.BreedingStockEntry
	if err := r.db.SelectContext(ctx, &entries, query, cutoff); err != nil {
		return nil, fmt.Errorf("list aged stock: %w", err)
	}
	return entries, nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/cavy-ledger/internal/models"
)

// BirthRepository persists birth events.
type BirthRepository struct {
	db *sqlx.DB
}

// NewBirthRepository creates the repository.
func NewBirthRepository(db *sqlx.DB) *BirthRepository {
	return &BirthRepository{db: db}
}

const birthColumns = `id, enclosure, pen, litter_number, born_count, born_dead_count, parent_death_count, birth_date`

// Accumulate inserts a birth or, when a row for the same enclosure, pen and
// litter already exists, adds the submitted counts to it. It returns the
// stored row and whether it was newly created.
//
// The lookup and the update are separate statements without a lock, so two
// concurrent submissions for the same litter can lose one increment.
func (r *BirthRepository) Accumulate(ctx context.Context, birth *models.BirthEvent) (*models.BirthEvent, bool, error) {
	if birth.BirthDate.IsZero() {
		birth.BirthDate = time.Now().UTC()
	}

	const lookup = `SELECT ` + birthColumns + ` FROM births
WHERE enclosure = $1 AND pen = $2 AND litter_number = $3
ORDER BY id LIMIT 1`
	var existing models.BirthEvent
	err := r.db.GetContext(ctx, &existing, lookup, birth.Enclosure, birth.Pen, birth.LitterNumber)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if err := r.create(ctx, birth); err != nil {
			return nil, false, err
		}
		return birth, true, nil
	case err != nil:
		return nil, false, fmt.Errorf("lookup litter: %w", err)
	}

	existing.BornCount += birth.BornCount
	existing.BornDeadCount += birth.BornDeadCount
	existing.ParentDeathCount += birth.ParentDeathCount

	const update = `UPDATE births SET born_count = $1, born_dead_count = $2, parent_death_count = $3 WHERE id = $4`
	if _, err := r.db.ExecContext(ctx, update,
		existing.BornCount, existing.BornDeadCount, existing.ParentDeathCount, existing.ID,
	); err != nil {
		return nil, false, fmt.Errorf("increment litter: %w", err)
	}
	return &existing, false, nil
}

func (r *BirthRepository) create(ctx context.Context, birth *models.BirthEvent) error {
	const query = `INSERT INTO births (enclosure, pen, litter_number, born_count, born_dead_count, parent_death_count, birth_date)
VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query,
		birth.Enclosure, birth.Pen, birth.LitterNumber, birth.BornCount, birth.BornDeadCount, birth.ParentDeathCount, birth.BirthDate,
	).Scan(&birth.ID); err != nil {
		return fmt.Errorf("create birth: %w", err)
	}
	return nil
}

// Update replaces every editable field of a birth. The birth date is kept.
func (r *BirthRepository) Update(ctx context.Context, birth *models.BirthEvent) error {
	const query = `UPDATE births SET enclosure = :enclosure, pen = :pen, litter_number = :litter_number, born_count = :born_count,
born_dead_count = :born_dead_count, parent_death_count = :parent_death_count WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, birth)
	if err != nil {
		return fmt.Errorf("update birth: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// GetByID returns a birth by identifier.
func (r *BirthRepository) GetByID(ctx context.Context, id int64) (*models.BirthEvent, error) {
	query := `SELECT ` + birthColumns + ` FROM births WHERE id = $1`
	var birth models.BirthEvent
	if err := r.db.GetContext(ctx, &birth, query, id); err != nil {
		return nil, err
	}
	return &birth, nil
}

// List returns births matching filter ordered by location and date.
func (r *BirthRepository) List(ctx context.Context, filter models.BirthFilter) ([]models.BirthEvent, error) {
	where := []string{}
	args := []interface{}{}
	if filter.Enclosure != "" {
		args = append(args, filter.Enclosure)
		where = append(where, fmt.Sprintf("enclosure = $%d", len(args)))
	}
	if filter.Pen != "" {
		args = append(args, filter.Pen)
		where = append(where, fmt.Sprintf("pen = $%d", len(args)))
	}

	query := `SELECT ` + birthColumns + ` FROM births`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY enclosure, pen, birth_date"

	var births []models.BirthEvent
	if err := r.db.SelectContext(ctx, &births, query, args...); err != nil {
		return nil, fmt.Errorf("list births: %w", err)
	}
	return births, nil
}

// TotalsByLocation sums born counts per location.
func (r *BirthRepository) TotalsByLocation(ctx context.Context) ([]models.LocationCount, error) {
	const query = `SELECT enclosure, pen, COALESCE(SUM(born_count), 0) AS total FROM births GROUP BY enclosure, pen`
	var rows []models.LocationCount
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("birth totals: %w", err)
	}
	return rows, nil
}

// LossesByLocation sums born-dead and parent deaths per location.
func (r *BirthRepository) LossesByLocation(ctx context.Context) ([]models.LocationCount, error) {
	const query = `SELECT enclosure, pen, COALESCE(SUM(born_dead_count + parent_death_count), 0) AS total FROM births GROUP BY enclosure, pen`
	var rows []models.LocationCount
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("birth loss totals: %w", err)
	}
	return rows, nil
}

// Monthly sums born counts per calendar month.
func (r *BirthRepository) Monthly(ctx context.Context) ([]models.MonthlyCount, error) {
	const query = `SELECT date_trunc('month', birth_date) AS month, COALESCE(SUM(born_count), 0) AS total
FROM births GROUP BY 1 ORDER BY 1`
	var rows []models.MonthlyCount
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("monthly births: %w", err)
	}
	return rows, nil
}

// MonthlyByLocation sums born counts per month and location.
func (r *BirthRepository) MonthlyByLocation(ctx context.Context) ([]models.MonthlyLocationCount, error) {
	const query = `SELECT date_trunc('month', birth_date) AS month, enclosure, pen, COALESCE(SUM(born_count), 0) AS total
FROM births GROUP BY 1, 2, 3 ORDER BY 1`
	var rows []models.MonthlyLocationCount
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("monthly births by location: %w", err)
	}
	return rows, nil
}

// MonthlyLossesByLocation sums birth losses per month and location.
func (r *BirthRepository) MonthlyLossesByLocation(ctx context.Context) ([]models.MonthlyLocationCount, error) {
	const query = `SELECT date_trunc('month', birth_date) AS month, enclosure, pen, COALESCE(SUM(born_dead_count + parent_death_count), 0) AS total
FROM births GROUP BY 1, 2, 3 ORDER BY 1`
	var rows []models.MonthlyLocationCount
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("monthly birth losses by location: %w", err)
	}
	return rows, nil
}

// PendingWeaning returns births born on or after since whose location has no
// weaning recorded on or after the birth date.
func (r *BirthRepository) PendingWeaning(ctx context.Context, since time.Time) ([]models.BirthEvent, error) {
	const query = `SELECT b.id, b.enclosure, b.pen, b.litter_number, b.born_count, b.born_dead_count, b.parent_death_count, b.birth_date
FROM births b
WHERE b.birth_date >= $1
AND NOT EXISTS (
	SELECT 1 FROM weanings w
	WHERE w.enclosure = b.enclosure AND w.pen = b.pen AND w.wean_date >= b.birth_date
)
ORDER BY b.birth_date, b.id`
	var births []models.BirthEvent
	if err := r.db.SelectContext(ctx, &births, query, since); err != nil {
		return nil, fmt.Errorf("pending weaning: %w", err)
	}
	return births, nil
}

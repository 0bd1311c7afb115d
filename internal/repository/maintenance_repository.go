package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/cavy-ledger/internal/models"
)

// RecordTables are the user data tables, in wipe and export order.
var RecordTables = []string{
	"breeding_stock",
	"births",
	"weanings",
	"weaned_deaths",
	"sales",
	"expenses",
}

// MaintenanceRepository runs cross-table operations.
type MaintenanceRepository struct {
	db *sqlx.DB
}

// NewMaintenanceRepository creates the repository.
func NewMaintenanceRepository(db *sqlx.DB) *MaintenanceRepository {
	return &MaintenanceRepository{db: db}
}

// Ping executes a trivial query against the database.
func (r *MaintenanceRepository) Ping(ctx context.Context) error {
	var one int
	return r.db.GetContext(ctx, &one, `SELECT 1`)
}

// DeleteAll empties every record table and the notifications inside one
// transaction. Either all tables are cleared or none are.
func (r *MaintenanceRepository) DeleteAll(ctx context.Context) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin wipe: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	tables := append(append([]string{}, RecordTables...), "notifications")
	for _, table := range tables {
		if _, err = tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("wipe %s: %w", table, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit wipe: %w", err)
	}
	return nil
}

// DumpTable reads the whole table ordered by id. Columns follow the table
// definition and every value is rendered as a string; NULL becomes "".
func (r *MaintenanceRepository) DumpTable(ctx context.Context, table string) (models.TableDump, error) {
	if !isRecordTable(table) {
		return models.TableDump{}, fmt.Errorf("dump %s: unknown table", table)
	}

	rows, err := r.db.QueryxContext(ctx, `SELECT * FROM `+table+` ORDER BY id`)
	if err != nil {
		return models.TableDump{}, fmt.Errorf("dump %s: %w", table, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return models.TableDump{}, fmt.Errorf("dump %s columns: %w", table, err)
	}

	dump := models.TableDump{Table: table, Columns: columns, Rows: [][]string{}}
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return models.TableDump{}, fmt.Errorf("scan %s: %w", table, err)
		}
		record := make([]string, len(values))
		for i, v := range values {
			record[i] = formatValue(v)
		}
		dump.Rows = append(dump.Rows, record)
	}
	if err := rows.Err(); err != nil {
		return models.TableDump{}, fmt.Errorf("iterate %s: %w", table, err)
	}
	return dump, nil
}

func isRecordTable(table string) bool {
	for _, t := range RecordTables {
		if t == table {
			return true
		}
	}
	return false
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(val)
	case string:
		return val
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		return val.UTC().Format(time.RFC3339)
	case sql.RawBytes:
		return string(val)
	default:
		return fmt.Sprint(val)
	}
}

package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Tables lists every record table in dependency-free creation order.
var Tables = []string{
	"breeding_stock",
	"births",
	"weanings",
	"weaned_deaths",
	"sales",
	"expenses",
	"notifications",
	"alert_settings",
}

type migration struct {
	name string
	stmt string
}

var migrations = []migration{
	{"breeding_stock", `CREATE TABLE IF NOT EXISTS breeding_stock (
	id BIGSERIAL PRIMARY KEY,
	enclosure TEXT NOT NULL,
	pen TEXT NOT NULL,
	females INTEGER NOT NULL CHECK (females >= 0),
	males INTEGER NOT NULL CHECK (males >= 0),
	stock_age_months INTEGER NOT NULL CHECK (stock_age_months >= 0),
	intake_date TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`},
	{"breeding_stock_location_idx", `CREATE INDEX IF NOT EXISTS breeding_stock_location_idx ON breeding_stock (enclosure, pen, intake_date DESC)`},
	{"births", `CREATE TABLE IF NOT EXISTS births (
	id BIGSERIAL PRIMARY KEY,
	enclosure TEXT NOT NULL,
	pen TEXT NOT NULL,
	litter_number INTEGER NOT NULL CHECK (litter_number >= 0),
	born_count INTEGER NOT NULL CHECK (born_count >= 0),
	born_dead_count INTEGER NOT NULL DEFAULT 0 CHECK (born_dead_count >= 0),
	parent_death_count INTEGER NOT NULL DEFAULT 0 CHECK (parent_death_count >= 0),
	birth_date TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`},
	{"births_litter_idx", `CREATE INDEX IF NOT EXISTS births_litter_idx ON births (enclosure, pen, litter_number)`},
	{"weanings", `CREATE TABLE IF NOT EXISTS weanings (
	id BIGSERIAL PRIMARY KEY,
	enclosure TEXT NOT NULL,
	pen TEXT NOT NULL,
	weaned_females INTEGER NOT NULL CHECK (weaned_females >= 0),
	weaned_males INTEGER NOT NULL CHECK (weaned_males >= 0),
	wean_date TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`},
	{"weaned_deaths", `CREATE TABLE IF NOT EXISTS weaned_deaths (
	id BIGSERIAL PRIMARY KEY,
	enclosure TEXT NOT NULL,
	pen TEXT NOT NULL,
	dead_females INTEGER NOT NULL CHECK (dead_females >= 0),
	dead_males INTEGER NOT NULL CHECK (dead_males >= 0),
	death_date TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`},
	{"sales", `CREATE TABLE IF NOT EXISTS sales (
	id BIGSERIAL PRIMARY KEY,
	sale_type VARCHAR(20) NOT NULL CHECK (sale_type IN ('weaned', 'cull')),
	enclosure TEXT,
	pen TEXT,
	females_sold INTEGER NOT NULL DEFAULT 0 CHECK (females_sold >= 0),
	males_sold INTEGER NOT NULL DEFAULT 0 CHECK (males_sold >= 0),
	animals_sold INTEGER NOT NULL DEFAULT 0 CHECK (animals_sold >= 0),
	sale_amount NUMERIC(12, 2) NOT NULL CHECK (sale_amount > 0),
	sale_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	relocate_to_fattening BOOLEAN NOT NULL DEFAULT FALSE,
	fattening_enclosure TEXT,
	fattening_pen TEXT,
	relocation_date DATE,
	fattening_days INTEGER,
	notes TEXT
)`},
	{"expenses", `CREATE TABLE IF NOT EXISTS expenses (
	id BIGSERIAL PRIMARY KEY,
	description TEXT NOT NULL,
	amount NUMERIC(12, 2) NOT NULL CHECK (amount > 0),
	category TEXT NOT NULL,
	expense_date TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`},
	{"notifications", `CREATE TABLE IF NOT EXISTS notifications (
	id BIGSERIAL PRIMARY KEY,
	kind VARCHAR(50) NOT NULL CHECK (kind IN ('weaning_due', 'cull_due', 'health_alert')),
	title VARCHAR(200) NOT NULL,
	message TEXT NOT NULL,
	priority VARCHAR(20) NOT NULL CHECK (priority IN ('low', 'medium', 'high', 'urgent')),
	read BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	expires_at TIMESTAMPTZ,
	related_record_id BIGINT,
	related_record_kind VARCHAR(50)
)`},
	{"notifications_unread_idx", `CREATE INDEX IF NOT EXISTS notifications_unread_idx ON notifications (read, related_record_kind, related_record_id)`},
	{"alert_settings", `CREATE TABLE IF NOT EXISTS alert_settings (
	id BIGSERIAL PRIMARY KEY,
	alert_kind VARCHAR(50) UNIQUE NOT NULL,
	lead_days INTEGER NOT NULL DEFAULT 0,
	active BOOLEAN NOT NULL DEFAULT TRUE,
	parameters JSONB
)`},
	{"alert_settings_seed", `INSERT INTO alert_settings (alert_kind, lead_days, parameters) VALUES
	('weaning', 15, '{"min_days": 15, "max_days": 20}'),
	('cull', 360, '{"min_months": 12}'),
	('vaccination', 0, '{"interval_days": 90}'),
	('weight_check', 30, '{}'),
	('upcoming_birth', 70, '{"gestation_days": 70}')
ON CONFLICT (alert_kind) DO NOTHING`},
}

// Migrate runs the idempotent schema initializer. It is safe to call on
// every start; existing tables and seed rows are left untouched.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for _, m := range migrations {
		if _, err := db.ExecContext(ctx, m.stmt); err != nil {
			return fmt.Errorf("migrate %s: %w", m.name, err)
		}
	}
	return nil
}

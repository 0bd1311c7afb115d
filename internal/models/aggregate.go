package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LocationCount is one grouped aggregate row.
type LocationCount struct {
	Enclosure string `db:"enclosure"`
	Pen       string `db:"pen"`
	Total     int    `db:"total"`
}

// Location returns the row's (enclosure, pen).
func (c LocationCount) Location() Location {
	return Location{Enclosure: c.Enclosure, Pen: c.Pen}
}

// MonthlyCount is a count truncated to the first day of its month.
type MonthlyCount struct {
	Month time.Time `db:"month" json:"month"`
	Total int       `db:"total" json:"total"`
}

// MonthlyLocationCount is a monthly count for one location.
type MonthlyLocationCount struct {
	Month     time.Time `db:"month" json:"month"`
	Enclosure string    `db:"enclosure" json:"enclosure"`
	Pen       string    `db:"pen" json:"pen"`
	Total     int       `db:"total" json:"total"`
}

// MonthlyAmount is a money total for one month.
type MonthlyAmount struct {
	Month  time.Time       `db:"month" json:"month"`
	Amount decimal.Decimal `db:"amount" json:"amount"`
}

// SaleTotals summarises income by sale type.
type SaleTotals struct {
	Weaned decimal.Decimal `db:"weaned"`
	Cull   decimal.Decimal `db:"cull"`
}

// TableDump is the raw content of one table, columns in table order.
type TableDump struct {
	Table   string
	Columns []string
	Rows    [][]string
}

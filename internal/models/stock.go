package models

import "time"

// BreedingStockEntry is a cohort of breeding animals introduced to a location.
// The newest entry per location (by intake date, then id) is authoritative.
type BreedingStockEntry struct {
	ID             int64     `db:"id" json:"id"`
	Enclosure      string    `db:"enclosure" json:"enclosure"`
	Pen            string    `db:"pen" json:"pen"`
	Females        int       `db:"females" json:"females"`
	Males          int       `db:"males" json:"males"`
	StockAgeMonths int       `db:"stock_age_months" json:"stockAgeMonths"`
	IntakeDate     time.Time `db:"intake_date" json:"intakeDate"`
}

// Location returns the entry's (enclosure, pen).
func (e BreedingStockEntry) Location() Location {
	return Location{Enclosure: e.Enclosure, Pen: e.Pen}
}

// Total is females plus males.
func (e BreedingStockEntry) Total() int {
	return e.Females + e.Males
}

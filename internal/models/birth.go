package models

import "time"

// BirthEvent records a litter. (Enclosure, Pen, LitterNumber) acts as a
// natural key for accumulating repeat submissions.
type BirthEvent struct {
	ID               int64     `db:"id" json:"id"`
	Enclosure        string    `db:"enclosure" json:"enclosure"`
	Pen              string    `db:"pen" json:"pen"`
	LitterNumber     int       `db:"litter_number" json:"litterNumber"`
	BornCount        int       `db:"born_count" json:"bornCount"`
	BornDeadCount    int       `db:"born_dead_count" json:"bornDeadCount"`
	ParentDeathCount int       `db:"parent_death_count" json:"parentDeathCount"`
	BirthDate        time.Time `db:"birth_date" json:"birthDate"`
}

// Location returns the litter's (enclosure, pen).
func (b BirthEvent) Location() Location {
	return Location{Enclosure: b.Enclosure, Pen: b.Pen}
}

// BirthFilter narrows birth searches. Empty fields match everything.
type BirthFilter struct {
	Enclosure string
	Pen       string
}

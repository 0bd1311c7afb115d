package models

import "time"

// PostWeaningDeathEvent records deaths among weaned animals.
type PostWeaningDeathEvent struct {
	ID          int64     `db:"id" json:"id"`
	Enclosure   string    `db:"enclosure" json:"enclosure"`
	Pen         string    `db:"pen" json:"pen"`
	DeadFemales int       `db:"dead_females" json:"deadFemales"`
	DeadMales   int       `db:"dead_males" json:"deadMales"`
	DeathDate   time.Time `db:"death_date" json:"deathDate"`
}

// Total is females plus males lost.
func (d PostWeaningDeathEvent) Total() int {
	return d.DeadFemales + d.DeadMales
}

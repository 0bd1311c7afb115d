package models

import "time"

// WeaningEvent records young separated from a location.
type WeaningEvent struct {
	ID            int64     `db:"id" json:"id"`
	Enclosure     string    `db:"enclosure" json:"enclosure"`
	Pen           string    `db:"pen" json:"pen"`
	WeanedFemales int       `db:"weaned_females" json:"weanedFemales"`
	WeanedMales   int       `db:"weaned_males" json:"weanedMales"`
	WeanDate      time.Time `db:"wean_date" json:"weanDate"`
}

// Total is females plus males weaned.
func (w WeaningEvent) Total() int {
	return w.WeanedFemales + w.WeanedMales
}

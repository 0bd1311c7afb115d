package dto

import "time"

// LocationSummary is one (enclosure, pen) row of the dashboard.
type LocationSummary struct {
	Enclosure     string `json:"enclosure"`
	Pen           string `json:"pen"`
	BreedingStock int    `json:"breedingStock"`
	Births        int    `json:"births"`
	Weaned        int    `json:"weaned"`
	Deaths        int    `json:"deaths"`
	BirthLosses   int    `json:"birthLosses"`
	ActiveYoung   int    `json:"activeYoung"`
}

// EnclosureSummary sums the pens of one enclosure.
type EnclosureSummary struct {
	Enclosure     string   `json:"enclosure"`
	Pens          []string `json:"pens"`
	BreedingStock int      `json:"breedingStock"`
	Births        int      `json:"births"`
	Weaned        int      `json:"weaned"`
	Deaths        int      `json:"deaths"`
	BirthLosses   int      `json:"birthLosses"`
	ActiveYoung   int      `json:"activeYoung"`
}

// DashboardTotals are the farm-wide figures. ActiveYoung is births minus
// weaned floored at zero; deaths do not feed it at this level.
type DashboardTotals struct {
	BreedingStock int `json:"breedingStock"`
	Births        int `json:"births"`
	Weaned        int `json:"weaned"`
	Deaths        int `json:"deaths"`
	BirthLosses   int `json:"birthLosses"`
	ActiveYoung   int `json:"activeYoung"`
}

// DashboardSummary is the payload of the dashboard view. Degraded lists the
// metrics whose source failed and were reported as zero.
type DashboardSummary struct {
	Totals      DashboardTotals    `json:"totals"`
	Locations   []LocationSummary  `json:"locations"`
	Enclosures  []EnclosureSummary `json:"enclosures"`
	Degraded    []string           `json:"degraded,omitempty"`
	GeneratedAt time.Time          `json:"generatedAt"`
}

// Location returns the summary row for enclosure/pen, or nil.
func (s *DashboardSummary) Location(enclosure, pen string) *LocationSummary {
	if s == nil {
		return nil
	}
	for i := range s.Locations {
		if s.Locations[i].Enclosure == enclosure && s.Locations[i].Pen == pen {
			return &s.Locations[i]
		}
	}
	return nil
}

package dto

// Projection metric names.
const (
	MetricDeaths  = "deaths"
	MetricBirths  = "births"
	MetricRevenue = "revenue"
)

// ProjectionPoint is the forecast for one future month. A nil value means the
// metric could not be projected.
type ProjectionPoint struct {
	Month   string   `json:"month"`
	Deaths  *float64 `json:"deaths"`
	Births  *float64 `json:"births"`
	Revenue *float64 `json:"revenue"`
}

// Projection is the trend forecast over Months future months.
type Projection struct {
	Months      int               `json:"months"`
	Points      []ProjectionPoint `json:"points"`
	Unavailable []string          `json:"unavailable,omitempty"`
	Message     string            `json:"message,omitempty"`
}

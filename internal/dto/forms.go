package dto

import (
	"github.com/shopspring/decimal"

	"github.com/noah-isme/cavy-ledger/internal/models"
)

// Notice is a one-shot confirmation message carried across a redirect.
type Notice struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// FormView is what every GET form endpoint renders and what a rejected POST
// re-renders with the submitted values.
type FormView struct {
	Locations []models.Location `json:"locations"`
	Notice    *Notice           `json:"notice,omitempty"`
	Stats     interface{}       `json:"stats,omitempty"`
	Form      interface{}       `json:"form,omitempty"`
	Records   interface{}       `json:"records,omitempty"`
}

// WeaningStats are shown on the weaning form.
type WeaningStats struct {
	Today int `json:"today"`
	Month int `json:"month"`
	Total int `json:"total"`
}

// SalesStats are shown on the sales form.
type SalesStats struct {
	WeanedToday int             `json:"weanedToday"`
	WeanedMonth int             `json:"weanedMonth"`
	WeanedTotal int             `json:"weanedTotal"`
	CullMonth   int             `json:"cullMonth"`
	TotalIncome decimal.Decimal `json:"totalIncome"`
}

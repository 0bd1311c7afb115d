package dto

import (
	"github.com/shopspring/decimal"

	"github.com/noah-isme/cavy-ledger/internal/models"
)

// Balance summarises income against expenses.
type Balance struct {
	Currency     string          `json:"currency"`
	WeanedIncome decimal.Decimal `json:"weanedIncome"`
	CullIncome   decimal.Decimal `json:"cullIncome"`
	TotalIncome  decimal.Decimal `json:"totalIncome"`
	Expenses     decimal.Decimal `json:"expenses"`
	Balance      decimal.Decimal `json:"balance"`
}

// MonthlyAggregates groups the per-month series shown on the report.
type MonthlyAggregates struct {
	DeathsByLocation      []models.MonthlyLocationCount `json:"deathsByLocation"`
	BirthLossesByLocation []models.MonthlyLocationCount `json:"birthLossesByLocation"`
	BirthsByLocation      []models.MonthlyLocationCount `json:"birthsByLocation"`
	Expenses              []models.MonthlyAmount        `json:"expenses"`
	WeanedRevenue         []models.MonthlyAmount        `json:"weanedRevenue"`
	CullRevenue           []models.MonthlyAmount        `json:"cullRevenue"`
}

// Report is the full cross-table listing.
type Report struct {
	BreedingStock []models.BreedingStockEntry    `json:"breedingStock"`
	Births        []models.BirthEvent            `json:"births"`
	Weanings      []models.WeaningEvent          `json:"weanings"`
	Deaths        []models.PostWeaningDeathEvent `json:"deaths"`
	WeanedSales   []models.Sale                  `json:"weanedSales"`
	CullSales     []models.Sale                  `json:"cullSales"`
	Expenses      []models.Expense               `json:"expenses"`
	Monthly       MonthlyAggregates              `json:"monthly"`
	Projection    *Projection                    `json:"projection,omitempty"`
	Degraded      []string                       `json:"degraded,omitempty"`
}

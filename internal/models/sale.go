package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleType discriminates the unified sales table.
type SaleType string

const (
	SaleTypeWeaned SaleType = "weaned"
	SaleTypeCull   SaleType = "cull"
)

// Sale is either a weaned-animal sale (FemalesSold/MalesSold) or a cull sale
// of retired stock (AnimalsSold, origin location required).
type Sale struct {
	ID                  int64           `db:"id" json:"id"`
	SaleType            SaleType        `db:"sale_type" json:"saleType"`
	Enclosure           *string         `db:"enclosure" json:"enclosure,omitempty"`
	Pen                 *string         `db:"pen" json:"pen,omitempty"`
	FemalesSold         int             `db:"females_sold" json:"femalesSold"`
	MalesSold           int             `db:"males_sold" json:"malesSold"`
	AnimalsSold         int             `db:"animals_sold" json:"animalsSold"`
	SaleAmount          decimal.Decimal `db:"sale_amount" json:"saleAmount"`
	SaleDate            time.Time       `db:"sale_date" json:"saleDate"`
	RelocateToFattening bool            `db:"relocate_to_fattening" json:"relocateToFattening"`
	FatteningEnclosure  *string         `db:"fattening_enclosure" json:"fatteningEnclosure,omitempty"`
	FatteningPen        *string         `db:"fattening_pen" json:"fatteningPen,omitempty"`
	RelocationDate      *time.Time      `db:"relocation_date" json:"relocationDate,omitempty"`
	FatteningDays       *int            `db:"fattening_days" json:"fatteningDays,omitempty"`
	Notes               *string         `db:"notes" json:"notes,omitempty"`
}

// AnimalCount is the number of animals that left with the sale.
func (s Sale) AnimalCount() int {
	if s.SaleType == SaleTypeCull {
		return s.AnimalsSold
	}
	return s.FemalesSold + s.MalesSold
}

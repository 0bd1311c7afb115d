package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is an outgoing payment.
type Expense struct {
	ID          int64           `db:"id" json:"id"`
	Description string          `db:"description" json:"description"`
	Amount      decimal.Decimal `db:"amount" json:"amount"`
	Category    string          `db:"category" json:"category"`
	ExpenseDate time.Time       `db:"expense_date" json:"expenseDate"`
}

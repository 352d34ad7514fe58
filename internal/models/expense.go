package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is a row of the expenses table.
type Expense struct {
	ExpenseID   string          `json:"expenseID"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Description *string         `json:"description"`
	ExpenseDate time.Time       `json:"expenseDate"`
	IsDeleted   bool            `json:"isDeleted"`
	AuditFields
}

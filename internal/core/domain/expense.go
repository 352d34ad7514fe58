package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is an operating cost deducted from sales in profit reports.
type Expense struct {
	ExpenseID   string          `json:"expenseID"`             // Primary Key (UUID)
	Category    string          `json:"category"`              // Free-form grouping key
	Amount      decimal.Decimal `json:"amount"`                // Positive
	Description *string         `json:"description,omitempty"` // Nullable
	ExpenseDate time.Time       `json:"expenseDate"`
	IsDeleted   bool            `json:"isDeleted"`
	AuditFields
}

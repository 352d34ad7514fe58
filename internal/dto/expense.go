package dto

import (
	"time"

	"github.com/SscSPs/pos_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateExpenseRequest records an operating expense.
type CreateExpenseRequest struct {
	Category    string          `json:"category" binding:"required,max=64"`
	Amount      decimal.Decimal `json:"amount"`
	Description *string         `json:"description,omitempty"`
	ExpenseDate string          `json:"expenseDate,omitempty"` // YYYY-MM-DD, defaults to today
}

// ListExpensesParams are the query parameters of the expense report.
type ListExpensesParams struct {
	StartDate string `form:"startDate"`
	EndDate   string `form:"endDate"`
	Category  string `form:"category"`
}

// ExpenseResponse defines the data returned for an expense.
type ExpenseResponse struct {
	ExpenseID   string          `json:"expenseID"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Description *string         `json:"description,omitempty"`
	ExpenseDate string          `json:"expenseDate"`
	CreatedAt   time.Time       `json:"createdAt"`
	CreatedBy   string          `json:"createdBy"`
}

// ToExpenseResponse converts a domain.Expense to its DTO. The date is
// rendered in loc so it matches the calendar the expense was recorded in.
func ToExpenseResponse(e *domain.Expense, loc *time.Location) ExpenseResponse {
	return ExpenseResponse{
		ExpenseID:   e.ExpenseID,
		Category:    e.Category,
		Amount:      e.Amount,
		Description: e.Description,
		ExpenseDate: e.ExpenseDate.In(loc).Format("2006-01-02"),
		CreatedAt:   e.CreatedAt,
		CreatedBy:   e.CreatedBy,
	}
}

// ToExpenseResponses converts a slice of domain.Expense.
func ToExpenseResponses(expenses []domain.Expense, loc *time.Location) []ExpenseResponse {
	responses := make([]ExpenseResponse, len(expenses))
	for i := range expenses {
		responses[i] = ToExpenseResponse(&expenses[i], loc)
	}
	return responses
}

package services

import (
	"context"

	"github.com/SscSPs/pos_ledger/internal/core/domain"
	"github.com/SscSPs/pos_ledger/internal/dto"
)

// ExpenseSvc records operating expenses.
type ExpenseSvc interface {
	RecordExpense(ctx context.Context, req dto.CreateExpenseRequest, cashier Cashier) (*domain.Expense, error)
	SoftDeleteExpense(ctx context.Context, expenseID string, cashier Cashier) error
}

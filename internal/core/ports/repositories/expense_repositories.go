package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/pos_ledger/internal/core/domain"
)

// ExpenseReader defines read operations for expenses.
type ExpenseReader interface {
	FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error)

	// ListExpenses returns non-deleted expenses matching filter ordered by expense date.
	ListExpenses(ctx context.Context, filter domain.ExpenseFilter) ([]domain.Expense, error)
}

// ExpenseWriter defines write operations for expenses.
type ExpenseWriter interface {
	SaveExpense(ctx context.Context, expense domain.Expense) error
	SoftDeleteExpense(ctx context.Context, expenseID string, deletedBy string, deletedAt time.Time) error
}

// ExpenseRepositoryFacade combines all expense repository interfaces.
type ExpenseRepositoryFacade interface {
	ExpenseReader
	ExpenseWriter
}

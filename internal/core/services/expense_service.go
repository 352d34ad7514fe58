package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/pos_ledger/internal/apperrors"
	"github.com/SscSPs/pos_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/pos_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pos_ledger/internal/core/ports/services"
	"github.com/SscSPs/pos_ledger/internal/dto"
	"github.com/SscSPs/pos_ledger/internal/utils/pricing"
	"github.com/google/uuid"
)

type expenseService struct {
	BaseService
	expenseRepo portsrepo.ExpenseRepositoryFacade
}

// NewExpenseService creates a new ExpenseSvc.
func NewExpenseService(repo portsrepo.ExpenseRepositoryFacade, opts ...Option) portssvc.ExpenseSvc {
	return &expenseService{
		BaseService: newBaseService(opts...),
		expenseRepo: repo,
	}
}

var _ portssvc.ExpenseSvc = (*expenseService)(nil)

func (s *expenseService) RecordExpense(ctx context.Context, req dto.CreateExpenseRequest, cashier portssvc.Cashier) (*domain.Expense, error) {
	if err := validateCashier(cashier); err != nil {
		return nil, err
	}
	category := strings.TrimSpace(req.Category)
	if category == "" {
		return nil, fmt.Errorf("%w: category is required", apperrors.ErrValidation)
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}

	now := s.now()
	expenseDate := now
	if req.ExpenseDate != "" {
		d, err := time.ParseInLocation("2006-01-02", req.ExpenseDate, s.location)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid expense date, use YYYY-MM-DD", apperrors.ErrValidation)
		}
		expenseDate = d.UTC()
	}

	expense := domain.Expense{
		ExpenseID:   uuid.NewString(),
		Category:    category,
		Amount:      req.Amount.Round(pricing.MoneyPlaces),
		Description: req.Description,
		ExpenseDate: expenseDate,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     cashier.ID,
			LastUpdatedAt: now,
			LastUpdatedBy: cashier.ID,
		},
	}
	if err := s.expenseRepo.SaveExpense(ctx, expense); err != nil {
		s.LogError(ctx, err, "Failed to save expense", slog.String("category", category))
		return nil, fmt.Errorf("failed to save expense: %w", err)
	}

	s.LogInfo(ctx, "Expense recorded",
		slog.String("expense_id", expense.ExpenseID),
		slog.String("category", category),
		slog.String("amount", expense.Amount.String()))
	return &expense, nil
}

func (s *expenseService) SoftDeleteExpense(ctx context.Context, expenseID string, cashier portssvc.Cashier) error {
	if err := validateCashier(cashier); err != nil {
		return err
	}
	if err := s.expenseRepo.SoftDeleteExpense(ctx, expenseID, cashier.ID, s.now()); err != nil {
		s.LogError(ctx, err, "Failed to delete expense", slog.String("expense_id", expenseID))
		return err
	}
	return nil
}

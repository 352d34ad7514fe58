package services

import (
	"context"
	"time"

	"github.com/SscSPs/pos_ledger/internal/core/domain"
)

// ReportingService defines the read-only sales reports. from is inclusive and to
// exclusive; callers convert local calendar days to that range.
type ReportingService interface {
	// Dashboard summarises completed sales and expenses with trends and breakdowns.
	Dashboard(ctx context.Context, from, to time.Time, topN int) (*domain.Dashboard, error)

	// ProfitLoss generates the income statement for the range.
	ProfitLoss(ctx context.Context, from, to time.Time) (*domain.ProfitLossReport, error)

	// TransactionReport lists transactions matching filter with a summary.
	TransactionReport(ctx context.Context, filter domain.TransactionFilter) (*domain.TransactionReport, error)

	// ExpenseReport lists expenses matching filter with category totals.
	ExpenseReport(ctx context.Context, filter domain.ExpenseFilter) (*domain.ExpenseReport, error)
}

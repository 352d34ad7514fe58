package services

import (
	portsrepo "github.com/SscSPs/pos_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pos_ledger/internal/core/ports/services"
	"github.com/SscSPs/pos_ledger/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	opts := []Option{
		WithLocation(cfg.Location),
		WithRetryAttempts(cfg.RetryAttempts),
	}

	container := &portssvc.ServiceContainer{}

	// Numbering and inventory are building blocks of the transaction service
	container.Numbering = NewNumberingService(repos.LedgerStore, opts...)
	container.Inventory = NewInventoryService(repos.LedgerStore, cfg.AllowNegativeStock, opts...)

	container.Transaction = NewTransactionService(
		repos.LedgerStore,
		repos.CatalogRepo,
		container.Numbering,
		container.Inventory,
		cfg.TaxConfig(),
		opts...,
	)

	container.Expense = NewExpenseService(repos.ExpenseRepo, opts...)

	container.Reporting = NewReportingService(
		repos.ReportingRepo,
		repos.LedgerStore,
		repos.ExpenseRepo,
		cfg.TopProductsLimit,
		opts...,
	)

	return container
}

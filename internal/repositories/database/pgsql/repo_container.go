package pgsql

import (
	portsrepo "github.com/SscSPs/pos_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	ledgerStore := newPgxLedgerStore(dbPool)
	productRepo := newPgxProductRepository(dbPool)
	expenseRepo := newPgxExpenseRepository(dbPool)
	reportingRepo := newReportingRepository(dbPool)

	return portsrepo.RepositoryProvider{
		LedgerStore:   ledgerStore,
		CatalogRepo:   productRepo,
		ExpenseRepo:   expenseRepo,
		ReportingRepo: reportingRepo,
	}
}

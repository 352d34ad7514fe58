package memory

import portsrepo "github.com/SscSPs/pos_ledger/internal/core/ports/repositories"

// NewRepositoryProvider exposes one Store through every repository port.
func NewRepositoryProvider(store *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		LedgerStore:   store,
		CatalogRepo:   store,
		ExpenseRepo:   store,
		ReportingRepo: store,
	}
}

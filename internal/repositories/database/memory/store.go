// Package memory is a process-local implementation of every repository port.
// It backs the server when no PGSQL_URL is configured and is used by the
// service tests. A unit of work holds the write lock for its whole duration
// and stages its writes, which are published only when fn succeeds.
package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/SscSPs/pos_ledger/internal/apperrors"
	"github.com/SscSPs/pos_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/pos_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/pos_ledger/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

type Store struct {
	mu           sync.RWMutex
	products     map[string]domain.Product
	transactions map[string]domain.Transaction
	items        map[string][]domain.TransactionItem
	sequences    map[string]int64
	expenses     map[string]domain.Expense
}

var (
	_ portsrepo.LedgerStore             = (*Store)(nil)
	_ portsrepo.ProductCatalog          = (*Store)(nil)
	_ portsrepo.ExpenseRepositoryFacade = (*Store)(nil)
	_ portsrepo.ReportingRepository     = (*Store)(nil)
)

// New returns an empty store.
func New() *Store {
	return &Store{
		products:     make(map[string]domain.Product),
		transactions: make(map[string]domain.Transaction),
		items:        make(map[string][]domain.TransactionItem),
		sequences:    make(map[string]int64),
		expenses:     make(map[string]domain.Expense),
	}
}

// NewSeeded returns a store with a small demo catalog.
func NewSeeded() *Store {
	s := New()
	s.SeedProducts(
		domain.Product{ProductID: "prod-kopi-susu", Name: "Kopi Susu", SKU: "BEV-001", Price: decimal.NewFromInt(18000), Stock: 120},
		domain.Product{ProductID: "prod-teh-manis", Name: "Teh Manis", SKU: "BEV-002", Price: decimal.NewFromInt(8000), Stock: 120},
		domain.Product{ProductID: "prod-roti-bakar", Name: "Roti Bakar", SKU: "FOD-001", Price: decimal.NewFromInt(15000), Stock: 60},
		domain.Product{ProductID: "prod-nasi-goreng", Name: "Nasi Goreng", SKU: "FOD-002", Price: decimal.NewFromInt(25000), Stock: 60},
		domain.Product{ProductID: "prod-air-mineral", Name: "Air Mineral 600ml", SKU: "BEV-003", Price: decimal.NewFromInt(5000), Stock: 240},
	)
	return s
}

// SeedProducts inserts or replaces catalog entries.
func (s *Store) SeedProducts(products ...domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range products {
		s.products[p.ProductID] = p
	}
}

// Product returns the current catalog entry, including its stock.
func (s *Store) Product(productID string) (domain.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[productID]
	return p, ok
}

// WithinTx runs fn with exclusive access to the store. Writes made through tx
// are applied only if fn returns nil.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.LedgerTx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memTx{
		store:        s,
		transactions: make(map[string]domain.Transaction),
		items:        make(map[string][]domain.TransactionItem),
		sequences:    make(map[string]int64),
		stock:        make(map[string]int64),
	}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	tx.publish()
	return nil
}

func (s *Store) FindTransactionWithItems(_ context.Context, transactionID string) (*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	txn, ok := s.transactions[transactionID]
	if !ok {
		return nil, apperrors.NewNotFoundError("transaction")
	}
	txn.Items = slices.Clone(s.items[transactionID])
	if txn.Items == nil {
		txn.Items = []domain.TransactionItem{}
	}
	return &txn, nil
}

func (s *Store) ListTransactions(_ context.Context, filter domain.TransactionFilter) ([]domain.Transaction, *string, error) {
	var cursor *pagination.Cursor
	if filter.NextToken != nil && *filter.NextToken != "" {
		c, err := pagination.DecodeToken(*filter.NextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		cursor = &c
	}

	s.mu.RLock()
	matched := s.matchTransactions(filter)
	s.mu.RUnlock()

	slices.SortFunc(matched, compareNewestFirst)

	page := make([]domain.Transaction, 0, filter.Limit)
	var nextToken *string
	for _, txn := range matched {
		if cursor != nil && !cursor.After(txn.TransactionDate, txn.CreatedAt, txn.TransactionID) {
			continue
		}
		if filter.Limit > 0 && len(page) == filter.Limit {
			last := page[len(page)-1]
			token := pagination.EncodeToken(pagination.Cursor{Date: last.TransactionDate, CreatedAt: last.CreatedAt, ID: last.TransactionID})
			nextToken = &token
			break
		}
		page = append(page, txn)
	}
	return page, nextToken, nil
}

func (s *Store) SummarizeTransactions(_ context.Context, filter domain.TransactionFilter) ([]domain.BreakdownRow, error) {
	s.mu.RLock()
	matched := s.matchTransactions(filter)
	s.mu.RUnlock()

	groups := make(map[domain.TransactionStatus]*domain.BreakdownRow)
	for _, txn := range matched {
		row, ok := groups[txn.Status]
		if !ok {
			row = &domain.BreakdownRow{Key: string(txn.Status), Amount: decimal.Zero, Percentage: decimal.Zero}
			groups[txn.Status] = row
		}
		row.Count++
		row.Amount = row.Amount.Add(txn.Total)
	}

	rows := make([]domain.BreakdownRow, 0, len(groups))
	for _, status := range domain.AllStatuses {
		if row, ok := groups[status]; ok {
			rows = append(rows, *row)
		}
	}
	return rows, nil
}

// matchTransactions must be called with at least the read lock held.
func (s *Store) matchTransactions(filter domain.TransactionFilter) []domain.Transaction {
	matched := make([]domain.Transaction, 0)
	for _, txn := range s.transactions {
		if txn.IsDeleted {
			continue
		}
		if filter.From != nil && txn.TransactionDate.Before(*filter.From) {
			continue
		}
		if filter.To != nil && !txn.TransactionDate.Before(*filter.To) {
			continue
		}
		if len(filter.Statuses) > 0 && !slices.Contains(filter.Statuses, txn.Status) {
			continue
		}
		if filter.PaymentMethod != nil && txn.PaymentMethod != *filter.PaymentMethod {
			continue
		}
		if filter.CashierID != nil && txn.CashierID != *filter.CashierID {
			continue
		}
		matched = append(matched, txn)
	}
	return matched
}

func compareNewestFirst(a, b domain.Transaction) int {
	if c := b.TransactionDate.Compare(a.TransactionDate); c != 0 {
		return c
	}
	if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
		return c
	}
	return strings.Compare(b.TransactionID, a.TransactionID)
}

func (s *Store) LookupProduct(_ context.Context, productID string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[productID]
	if !ok {
		return nil, apperrors.NewNotFoundError("product")
	}
	return &p, nil
}

func (s *Store) LookupProducts(_ context.Context, productIDs []string) (map[string]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	found := make(map[string]domain.Product, len(productIDs))
	for _, id := range productIDs {
		if p, ok := s.products[id]; ok {
			found[id] = p
		}
	}
	return found, nil
}

func (s *Store) FindExpenseByID(_ context.Context, expenseID string) (*domain.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.expenses[expenseID]
	if !ok || e.IsDeleted {
		return nil, apperrors.NewNotFoundError("expense")
	}
	return &e, nil
}

func (s *Store) ListExpenses(_ context.Context, filter domain.ExpenseFilter) ([]domain.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.matchExpenses(filter), nil
}

// matchExpenses must be called with at least the read lock held.
func (s *Store) matchExpenses(filter domain.ExpenseFilter) []domain.Expense {
	matched := make([]domain.Expense, 0)
	for _, e := range s.expenses {
		if e.IsDeleted {
			continue
		}
		if filter.From != nil && e.ExpenseDate.Before(*filter.From) {
			continue
		}
		if filter.To != nil && !e.ExpenseDate.Before(*filter.To) {
			continue
		}
		if filter.Category != nil && !strings.EqualFold(e.Category, *filter.Category) {
			continue
		}
		matched = append(matched, e)
	}
	slices.SortFunc(matched, func(a, b domain.Expense) int {
		if c := a.ExpenseDate.Compare(b.ExpenseDate); c != 0 {
			return c
		}
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ExpenseID, b.ExpenseID)
	})
	return matched
}

func (s *Store) SaveExpense(_ context.Context, expense domain.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.expenses[expense.ExpenseID]; exists {
		return fmt.Errorf("%w: expense %s", apperrors.ErrDuplicate, expense.ExpenseID)
	}
	s.expenses[expense.ExpenseID] = expense
	return nil
}

func (s *Store) SoftDeleteExpense(_ context.Context, expenseID string, deletedBy string, deletedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.expenses[expenseID]
	if !ok || e.IsDeleted {
		return apperrors.NewNotFoundError("expense")
	}
	e.IsDeleted = true
	e.LastUpdatedAt = deletedAt
	e.LastUpdatedBy = deletedBy
	s.expenses[expenseID] = e
	return nil
}

func (s *Store) GetSalesSnapshot(_ context.Context, from, to time.Time) (*domain.SalesSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := &domain.SalesSnapshot{
		Transactions: make([]domain.Transaction, 0),
		Expenses:     s.matchExpenses(domain.ExpenseFilter{From: &from, To: &to}),
	}
	for _, txn := range s.matchTransactions(domain.TransactionFilter{
		From:     &from,
		To:       &to,
		Statuses: []domain.TransactionStatus{domain.StatusCompleted},
	}) {
		txn.Items = slices.Clone(s.items[txn.TransactionID])
		snap.Transactions = append(snap.Transactions, txn)
	}
	slices.SortFunc(snap.Transactions, func(a, b domain.Transaction) int {
		return compareNewestFirst(b, a)
	})
	return snap, nil
}

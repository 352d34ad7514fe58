package repositories

import (
	"context"
	"fmt"

	"github.com/SscSPs/pos_ledger/internal/apperrors"
	"github.com/SscSPs/pos_ledger/internal/core/domain"
	"github.com/SscSPs/pos_ledger/internal/utils/numbering"
)

// TransactionReader defines read operations for sale data.
type TransactionReader interface {
	// FindTransactionWithItems retrieves a header and its items read from the same
	// snapshot, including soft-deleted headers.
	FindTransactionWithItems(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactions returns a page of non-deleted transactions matching filter,
	// newest first, and a token for the next page.
	ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, *string, error)

	// SummarizeTransactions groups every non-deleted transaction matching filter
	// (ignoring paging) by status, with count and summed total. Percentages are left zero.
	SummarizeTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.BreakdownRow, error)
}

// TransactionWriter defines the header and item writes. They are only
// available inside a LedgerTx.
type TransactionWriter interface {
	// LockTransaction reads a header and holds it against concurrent writers until the unit ends.
	LockTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// InsertTransaction persists a new header.
	InsertTransaction(ctx context.Context, txn domain.Transaction) error

	// UpdateTransaction overwrites every mutable header field.
	UpdateTransaction(ctx context.Context, txn domain.Transaction) error

	// ReplaceItems deletes all items of a transaction and inserts items instead.
	ReplaceItems(ctx context.Context, transactionID string, items []domain.TransactionItem) error

	// FindItems reads the items of a transaction as seen by the unit.
	FindItems(ctx context.Context, transactionID string) ([]domain.TransactionItem, error)
}

// SequenceWriter allocates per-prefix sequence values.
type SequenceWriter interface {
	// NextSequence atomically increments the counter of prefix and returns the new value.
	// The first call for a prefix returns 1.
	NextSequence(ctx context.Context, prefix string) (int64, error)
}

// StockWriter applies stock deltas.
type StockWriter interface {
	// AdjustStock adds delta to the product's stock in one arithmetic update.
	// With allowNegative false, a result below zero fails with apperrors.ErrInsufficientStock.
	AdjustStock(ctx context.Context, productID string, delta int64, allowNegative bool) (domain.StockAdjustment, error)
}

// LedgerTx is the set of writes available inside one atomic unit.
type LedgerTx interface {
	TransactionWriter
	SequenceWriter
	StockWriter
}

// LedgerStore is the durable store of transactions, items, sequences and stock.
type LedgerStore interface {
	TransactionReader
	AtomicRunner
}

// CheckHeader is the precondition every TransactionWriter applies before
// persisting a header: the number must be a well-formed INV-/TX- number and the
// header must balance. Failures wrap apperrors.ErrConsistency.
func CheckHeader(txn domain.Transaction) error {
	if _, _, err := numbering.Parse(txn.Number); err != nil {
		return fmt.Errorf("%w: transaction %s: %v", apperrors.ErrConsistency, txn.TransactionID, err)
	}
	if err := txn.Validate(); err != nil {
		return fmt.Errorf("%w: transaction %s: %v", apperrors.ErrConsistency, txn.TransactionID, err)
	}
	return nil
}

// CheckItems applies the line invariants to items before they replace a
// transaction's lines.
func CheckItems(transactionID string, items []domain.TransactionItem) error {
	for _, item := range items {
		if item.TransactionID != transactionID {
			return fmt.Errorf("%w: item %s belongs to transaction %s, not %s",
				apperrors.ErrConsistency, item.ItemID, item.TransactionID, transactionID)
		}
		if err := item.Validate(); err != nil {
			return fmt.Errorf("%w: %v", apperrors.ErrConsistency, err)
		}
	}
	return nil
}

package memory

import (
	"context"
	"fmt"
	"slices"

	"github.com/SscSPs/pos_ledger/internal/apperrors"
	"github.com/SscSPs/pos_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/pos_ledger/internal/core/ports/repositories"
)

// memTx stages the writes of one unit. The store's write lock is held by
// WithinTx for the lifetime of a memTx, so reads fall through to the store
// maps without further locking.
type memTx struct {
	store        *Store
	transactions map[string]domain.Transaction
	items        map[string][]domain.TransactionItem
	sequences    map[string]int64
	stock        map[string]int64
}

var _ portsrepo.LedgerTx = (*memTx)(nil)

func (t *memTx) LockTransaction(_ context.Context, transactionID string) (*domain.Transaction, error) {
	if txn, ok := t.transactions[transactionID]; ok {
		return &txn, nil
	}
	txn, ok := t.store.transactions[transactionID]
	if !ok {
		return nil, apperrors.NewNotFoundError("transaction")
	}
	return &txn, nil
}

func (t *memTx) InsertTransaction(_ context.Context, txn domain.Transaction) error {
	if err := portsrepo.CheckHeader(txn); err != nil {
		return err
	}
	if _, ok := t.transactions[txn.TransactionID]; ok {
		return fmt.Errorf("%w: transaction %s", apperrors.ErrDuplicate, txn.TransactionID)
	}
	if _, ok := t.store.transactions[txn.TransactionID]; ok {
		return fmt.Errorf("%w: transaction %s", apperrors.ErrDuplicate, txn.TransactionID)
	}
	if t.numberTaken(txn.Number, txn.TransactionID) {
		return fmt.Errorf("%w: number %s already assigned", apperrors.ErrConcurrency, txn.Number)
	}
	txn.Items = nil
	t.transactions[txn.TransactionID] = txn
	return nil
}

func (t *memTx) UpdateTransaction(_ context.Context, txn domain.Transaction) error {
	_, staged := t.transactions[txn.TransactionID]
	_, stored := t.store.transactions[txn.TransactionID]
	if !staged && !stored {
		return apperrors.NewNotFoundError("transaction")
	}
	if err := portsrepo.CheckHeader(txn); err != nil {
		return err
	}
	if t.numberTaken(txn.Number, txn.TransactionID) {
		return fmt.Errorf("%w: number %s already assigned", apperrors.ErrConcurrency, txn.Number)
	}
	txn.Items = nil
	t.transactions[txn.TransactionID] = txn
	return nil
}

// numberTaken mirrors the unique index on transactions.number.
func (t *memTx) numberTaken(number, ownID string) bool {
	for id, txn := range t.transactions {
		if id != ownID && txn.Number == number {
			return true
		}
	}
	for id, txn := range t.store.transactions {
		if _, shadowed := t.transactions[id]; shadowed {
			continue
		}
		if id != ownID && txn.Number == number {
			return true
		}
	}
	return false
}

func (t *memTx) ReplaceItems(_ context.Context, transactionID string, items []domain.TransactionItem) error {
	if err := portsrepo.CheckItems(transactionID, items); err != nil {
		return err
	}
	t.items[transactionID] = slices.Clone(items)
	return nil
}

func (t *memTx) FindItems(_ context.Context, transactionID string) ([]domain.TransactionItem, error) {
	if items, ok := t.items[transactionID]; ok {
		return slices.Clone(items), nil
	}
	items := slices.Clone(t.store.items[transactionID])
	if items == nil {
		items = []domain.TransactionItem{}
	}
	return items, nil
}

func (t *memTx) NextSequence(_ context.Context, prefix string) (int64, error) {
	current, ok := t.sequences[prefix]
	if !ok {
		current = t.store.sequences[prefix]
	}
	current++
	t.sequences[prefix] = current
	return current, nil
}

func (t *memTx) AdjustStock(_ context.Context, productID string, delta int64, allowNegative bool) (domain.StockAdjustment, error) {
	product, ok := t.store.products[productID]
	if !ok {
		return domain.StockAdjustment{}, apperrors.NewNotFoundError("product")
	}
	current, staged := t.stock[productID]
	if !staged {
		current = product.Stock
	}

	next := current + delta
	if next < 0 && delta < 0 && !allowNegative {
		return domain.StockAdjustment{}, fmt.Errorf("%w: product %s has %d, needs %d",
			apperrors.ErrInsufficientStock, productID, current, -delta)
	}
	t.stock[productID] = next
	return domain.StockAdjustment{
		ProductID: productID,
		Delta:     delta,
		NewStock:  next,
		Negative:  next < 0,
	}, nil
}

// publish applies the staged writes. Called with the write lock held.
func (t *memTx) publish() {
	for id, txn := range t.transactions {
		t.store.transactions[id] = txn
	}
	for id, items := range t.items {
		t.store.items[id] = items
	}
	for prefix, v := range t.sequences {
		t.store.sequences[prefix] = v
	}
	for id, stock := range t.stock {
		p := t.store.products[id]
		p.Stock = stock
		t.store.products[id] = p
	}
}

package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/pos_ledger/internal/apperrors"
	"github.com/SscSPs/pos_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/pos_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/pos_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

// pgxLedgerTx implements the writes of one unit on an open pgx.Tx.
type pgxLedgerTx struct {
	tx pgx.Tx
}

var _ portsrepo.LedgerTx = (*pgxLedgerTx)(nil)

// LockTransaction reads a header with FOR UPDATE, blocking concurrent writers of
// the same transaction until this unit ends.
func (t *pgxLedgerTx) LockTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1 FOR UPDATE;`
	m, err := scanTransaction(t.tx.QueryRow(ctx, query, transactionID))
	if err != nil {
		return nil, notFoundOr(err, "transaction", "failed to lock transaction "+transactionID)
	}
	txn := mapping.ToDomainTransaction(m)
	return &txn, nil
}

func (t *pgxLedgerTx) InsertTransaction(ctx context.Context, txn domain.Transaction) error {
	if err := portsrepo.CheckHeader(txn); err != nil {
		return err
	}
	m := mapping.ToModelTransaction(txn)
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21);
	`
	_, err := t.tx.Exec(ctx, query,
		m.TransactionID,
		m.Number,
		m.Status,
		m.CashierID,
		m.CashierName,
		m.PaymentMethod,
		m.Subtotal,
		m.Tax,
		m.Service,
		m.Discount,
		m.Total,
		m.CashReceived,
		m.CashChange,
		m.Notes,
		m.TransactionDate,
		m.StockCommitted,
		m.IsDeleted,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return mapPgError(err, "failed to insert transaction "+m.TransactionID)
	}
	return nil
}

func (t *pgxLedgerTx) UpdateTransaction(ctx context.Context, txn domain.Transaction) error {
	if err := portsrepo.CheckHeader(txn); err != nil {
		return err
	}
	m := mapping.ToModelTransaction(txn)
	query := `
		UPDATE transactions SET
			number = $2, status = $3, payment_method = $4,
			subtotal = $5, tax = $6, service = $7, discount = $8, total = $9,
			cash_received = $10, cash_change = $11, notes = $12, transaction_date = $13,
			stock_committed = $14, is_deleted = $15,
			last_updated_at = $16, last_updated_by = $17
		WHERE transaction_id = $1;
	`
	cmdTag, err := t.tx.Exec(ctx, query,
		m.TransactionID,
		m.Number,
		m.Status,
		m.PaymentMethod,
		m.Subtotal,
		m.Tax,
		m.Service,
		m.Discount,
		m.Total,
		m.CashReceived,
		m.CashChange,
		m.Notes,
		m.TransactionDate,
		m.StockCommitted,
		m.IsDeleted,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return mapPgError(err, "failed to update transaction "+m.TransactionID)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("transaction")
	}
	return nil
}

// ReplaceItems deletes the current items and inserts the new list in one batch.
func (t *pgxLedgerTx) ReplaceItems(ctx context.Context, transactionID string, items []domain.TransactionItem) error {
	if err := portsrepo.CheckItems(transactionID, items); err != nil {
		return err
	}
	batch := &pgx.Batch{}
	batch.Queue(`DELETE FROM transaction_items WHERE transaction_id = $1;`, transactionID)

	insertQuery := `
		INSERT INTO transaction_items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	for _, item := range items {
		m := mapping.ToModelTransactionItem(item)
		batch.Queue(insertQuery,
			m.ItemID,
			m.TransactionID,
			m.ProductID,
			m.ProductName,
			m.ProductPrice,
			m.ProductSKU,
			m.Quantity,
			m.UnitPrice,
			m.Discount,
			m.Subtotal,
			m.Notes,
			m.CreatedAt,
		)
	}

	br := t.tx.SendBatch(ctx, batch)
	// Close the batch results to check for errors in each command
	if err := br.Close(); err != nil {
		return mapPgError(err, "failed to replace items for transaction "+transactionID)
	}
	return nil
}

func (t *pgxLedgerTx) FindItems(ctx context.Context, transactionID string) ([]domain.TransactionItem, error) {
	return queryItems(ctx, t.tx, transactionID)
}

// NextSequence increments the prefix counter with a single upsert; the row
// lock it takes serializes concurrent callers on the same prefix.
func (t *pgxLedgerTx) NextSequence(ctx context.Context, prefix string) (int64, error) {
	query := `
		INSERT INTO transaction_sequences (prefix, last_value)
		VALUES ($1, 1)
		ON CONFLICT (prefix) DO UPDATE SET last_value = transaction_sequences.last_value + 1
		RETURNING last_value;
	`
	var value int64
	if err := t.tx.QueryRow(ctx, query, prefix).Scan(&value); err != nil {
		return 0, mapPgError(err, "failed to allocate sequence for "+prefix)
	}
	return value, nil
}

// AdjustStock applies delta as one arithmetic UPDATE so concurrent adjustments
// never lose each other's writes.
func (t *pgxLedgerTx) AdjustStock(ctx context.Context, productID string, delta int64, allowNegative bool) (domain.StockAdjustment, error) {
	query := `
		UPDATE products
		SET stock = stock + $2, last_updated_at = NOW()
		WHERE product_id = $1 AND ($3 OR $2 >= 0 OR stock + $2 >= 0)
		RETURNING stock;
	`
	var stock int64
	err := t.tx.QueryRow(ctx, query, productID, delta, allowNegative).Scan(&stock)
	if err == nil {
		return domain.StockAdjustment{
			ProductID: productID,
			Delta:     delta,
			NewStock:  stock,
			Negative:  stock < 0,
		}, nil
	}
	if mapped := mapPgError(err, "failed to adjust stock for product "+productID); mapped != apperrors.ErrNotFound {
		return domain.StockAdjustment{}, mapped
	}

	// No row updated: either the product is missing or the floor rejected it.
	var current int64
	err = t.tx.QueryRow(ctx, `SELECT stock FROM products WHERE product_id = $1;`, productID).Scan(&current)
	if err != nil {
		return domain.StockAdjustment{}, notFoundOr(err, "product", "failed to read stock for product "+productID)
	}
	return domain.StockAdjustment{}, fmt.Errorf("%w: product %s has %d, needs %d",
		apperrors.ErrInsufficientStock, productID, current, -delta)
}

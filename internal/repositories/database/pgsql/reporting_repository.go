package pgsql

import (
	"context"
	"time"

	"github.com/SscSPs/pos_ledger/internal/apperrors"
	"github.com/SscSPs/pos_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/pos_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/pos_ledger/internal/models"
	"github.com/SscSPs/pos_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
)

// reportingRepository implements the ReportingRepository interface
type reportingRepository struct {
	BaseRepository
}

// newReportingRepository creates a new reporting repository
func newReportingRepository(db *pgxpool.Pool) portsrepo.ReportingRepository {
	return &reportingRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

// GetSalesSnapshot reads completed sales, their items and the expenses of
// [from, to) inside one REPEATABLE READ READ ONLY transaction, so a sale
// finalized mid-report is either fully in or fully out.
func (r *reportingRepository) GetSalesSnapshot(ctx context.Context, from, to time.Time) (*domain.SalesSnapshot, error) {
	tx, err := r.BeginSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE status = 'COMPLETED' AND is_deleted = FALSE
			AND transaction_date >= $1 AND transaction_date < $2
		ORDER BY transaction_date, created_at, transaction_id;
	`
	rows, err := tx.Query(ctx, query, from, to)
	if err != nil {
		return nil, mapPgError(err, "failed to query completed transactions")
	}
	txns := []domain.Transaction{}
	index := make(map[string]int)
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			rows.Close()
			return nil, apperrors.NewAppError(500, "failed to scan transaction row", err)
		}
		txn := mapping.ToDomainTransaction(m)
		txn.Items = []domain.TransactionItem{}
		index[txn.TransactionID] = len(txns)
		txns = append(txns, txn)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating transaction rows", err)
	}

	itemQuery := `
		SELECT ` + prefixedItemColumns + `
		FROM transaction_items i
		JOIN transactions t ON t.transaction_id = i.transaction_id
		WHERE t.status = 'COMPLETED' AND t.is_deleted = FALSE
			AND t.transaction_date >= $1 AND t.transaction_date < $2
		ORDER BY i.transaction_id, i.created_at, i.item_id;
	`
	itemRows, err := tx.Query(ctx, itemQuery, from, to)
	if err != nil {
		return nil, mapPgError(err, "failed to query completed transaction items")
	}
	for itemRows.Next() {
		var m models.TransactionItem
		if err := itemRows.Scan(
			&m.ItemID,
			&m.TransactionID,
			&m.ProductID,
			&m.ProductName,
			&m.ProductPrice,
			&m.ProductSKU,
			&m.Quantity,
			&m.UnitPrice,
			&m.Discount,
			&m.Subtotal,
			&m.Notes,
			&m.CreatedAt,
		); err != nil {
			itemRows.Close()
			return nil, apperrors.NewAppError(500, "failed to scan item row", err)
		}
		if i, ok := index[m.TransactionID]; ok {
			txns[i].Items = append(txns[i].Items, mapping.ToDomainTransactionItem(m))
		}
	}
	itemRows.Close()
	if err := itemRows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating item rows", err)
	}

	expenses, err := listExpenses(ctx, tx, domain.ExpenseFilter{From: &from, To: &to})
	if err != nil {
		return nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	return &domain.SalesSnapshot{
		Transactions: txns,
		Expenses:     expenses,
	}, nil
}

const prefixedItemColumns = `
	i.item_id, i.transaction_id, i.product_id, i.product_name, i.product_price, i.product_sku,
	i.quantity, i.unit_price, i.discount, i.subtotal, i.notes, i.created_at`

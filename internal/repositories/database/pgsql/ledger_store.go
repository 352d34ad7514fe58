package pgsql

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/SscSPs/pos_ledger/internal/apperrors"
	"github.com/SscSPs/pos_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/pos_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/pos_ledger/internal/models"
	"github.com/SscSPs/pos_ledger/internal/utils/mapping"
	"github.com/SscSPs/pos_ledger/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const transactionColumns = `
	transaction_id, number, status, cashier_id, cashier_name, payment_method,
	subtotal, tax, service, discount, total, cash_received, cash_change,
	notes, transaction_date, stock_committed, is_deleted,
	created_at, created_by, last_updated_at, last_updated_by`

const itemColumns = `
	item_id, transaction_id, product_id, product_name, product_price, product_sku,
	quantity, unit_price, discount, subtotal, notes, created_at`

type PgxLedgerStore struct {
	BaseRepository
}

// newPgxLedgerStore creates the repository for transactions, items, sequences and stock.
func newPgxLedgerStore(pool *pgxpool.Pool) *PgxLedgerStore {
	return &PgxLedgerStore{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxLedgerStore implements portsrepo.LedgerStore
var _ portsrepo.LedgerStore = (*PgxLedgerStore)(nil)

// WithinTx runs fn inside one READ COMMITTED database transaction. Headers are
// serialized through SELECT ... FOR UPDATE and counters through row-level
// upserts, so the default isolation level is sufficient.
func (r *PgxLedgerStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.LedgerTx) error) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	// Defer rollback in case of error
	defer r.Rollback(ctx, tx) // Will be ignored if transaction is committed successfully

	if err := fn(ctx, &pgxLedgerTx{tx: tx}); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// FindTransactionWithItems reads the header and its items from one snapshot.
func (r *PgxLedgerStore) FindTransactionWithItems(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	tx, err := r.BeginSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`
	m, err := scanTransaction(tx.QueryRow(ctx, query, transactionID))
	if err != nil {
		return nil, notFoundOr(err, "transaction", "failed to find transaction by ID "+transactionID)
	}
	items, err := queryItems(ctx, tx, transactionID)
	if err != nil {
		return nil, err
	}
	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	txn := mapping.ToDomainTransaction(m)
	txn.Items = items
	return &txn, nil
}

// ListTransactions retrieves a page of transactions using token-based pagination.
// It returns the transactions, a token for the next page, and an error.
func (r *PgxLedgerStore) ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, *string, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	// We fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	where, args := transactionFilterClause(filter)

	if filter.NextToken != nil && *filter.NextToken != "" {
		cursor, decodeErr := pagination.DecodeToken(*filter.NextToken)
		if decodeErr != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken: %v", apperrors.ErrValidation, decodeErr)
		}
		// Tuple comparison is concise and efficient in Postgres
		where += fmt.Sprintf(" AND (transaction_date, created_at, transaction_id) < ($%d, $%d, $%d)",
			len(args)+1, len(args)+2, len(args)+3)
		args = append(args, cursor.Date, cursor.CreatedAt, cursor.ID)
	}

	// Ordering is crucial and must be stable
	query := `SELECT ` + transactionColumns + ` FROM transactions ` + where +
		` ORDER BY transaction_date DESC, created_at DESC, transaction_id DESC LIMIT $` + strconv.Itoa(len(args)+1) + `;`
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, mapPgError(err, "failed to query transactions")
	}
	defer rows.Close()

	txns := make([]models.Transaction, 0, fetchLimit)
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan transaction row", err)
		}
		txns = append(txns, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating transaction rows", err)
	}

	var nextToken *string
	if len(txns) > limit {
		last := txns[limit-1]
		token := pagination.EncodeToken(pagination.Cursor{Date: last.TransactionDate, CreatedAt: last.CreatedAt, ID: last.TransactionID})
		nextToken = &token
		txns = txns[:limit]
	}

	return mapping.ToDomainTransactionSlice(txns), nextToken, nil
}

// SummarizeTransactions groups every matching transaction by status.
func (r *PgxLedgerStore) SummarizeTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.BreakdownRow, error) {
	where, args := transactionFilterClause(filter)
	query := `
		SELECT status, COUNT(*), COALESCE(SUM(total), 0)
		FROM transactions ` + where + `
		GROUP BY status;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapPgError(err, "failed to summarize transactions")
	}
	defer rows.Close()

	byStatus := make(map[domain.TransactionStatus]domain.BreakdownRow)
	for rows.Next() {
		var status string
		var count int
		var amount decimal.Decimal
		if err := rows.Scan(&status, &count, &amount); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan transaction summary row", err)
		}
		byStatus[domain.TransactionStatus(status)] = domain.BreakdownRow{
			Key:        status,
			Count:      count,
			Amount:     amount,
			Percentage: decimal.Zero,
		}
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating transaction summary rows", err)
	}

	result := make([]domain.BreakdownRow, 0, len(byStatus))
	for _, status := range domain.AllStatuses {
		if row, ok := byStatus[status]; ok {
			result = append(result, row)
		}
	}
	return result, nil
}

// transactionFilterClause builds the WHERE clause shared by listing and summary.
func transactionFilterClause(filter domain.TransactionFilter) (string, []any) {
	conds := []string{"is_deleted = FALSE"}
	args := []any{}
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.From != nil {
		add("transaction_date >= $%d", *filter.From)
	}
	if filter.To != nil {
		add("transaction_date < $%d", *filter.To)
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		add("status = ANY($%d)", statuses)
	}
	if filter.PaymentMethod != nil {
		add("payment_method = $%d", string(*filter.PaymentMethod))
	}
	if filter.CashierID != nil {
		add("cashier_id = $%d", *filter.CashierID)
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

// querier is satisfied by both the pool and a pgx.Tx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func queryItems(ctx context.Context, q querier, transactionID string) ([]domain.TransactionItem, error) {
	query := `SELECT ` + itemColumns + ` FROM transaction_items WHERE transaction_id = $1 ORDER BY created_at, item_id;`
	rows, err := q.Query(ctx, query, transactionID)
	if err != nil {
		return nil, mapPgError(err, "failed to query items for transaction "+transactionID)
	}
	defer rows.Close()

	items := []models.TransactionItem{}
	for rows.Next() {
		var m models.TransactionItem
		if err := rows.Scan(
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
			return nil, apperrors.NewAppError(500, "failed to scan item row for transaction "+transactionID, err)
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating item rows for transaction "+transactionID, err)
	}
	return mapping.ToDomainTransactionItemSlice(items), nil
}

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.Number,
		&m.Status,
		&m.CashierID,
		&m.CashierName,
		&m.PaymentMethod,
		&m.Subtotal,
		&m.Tax,
		&m.Service,
		&m.Discount,
		&m.Total,
		&m.CashReceived,
		&m.CashChange,
		&m.Notes,
		&m.TransactionDate,
		&m.StockCommitted,
		&m.IsDeleted,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// notFoundOr maps pgx.ErrNoRows to a not-found AppError for entity and any
// other error through mapPgError.
func notFoundOr(err error, entity, msg string) error {
	mapped := mapPgError(err, msg)
	if mapped == apperrors.ErrNotFound {
		return apperrors.NewNotFoundError(entity)
	}
	return mapped
}

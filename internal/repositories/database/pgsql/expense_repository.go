package pgsql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/pos_ledger/internal/apperrors"
	"github.com/SscSPs/pos_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/pos_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/pos_ledger/internal/models"
	"github.com/SscSPs/pos_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
)

const expenseColumns = `
	expense_id, category, amount, description, expense_date, is_deleted,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxExpenseRepository struct {
	BaseRepository
}

func newPgxExpenseRepository(pool *pgxpool.Pool) portsrepo.ExpenseRepositoryFacade {
	return &PgxExpenseRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.ExpenseRepositoryFacade = (*PgxExpenseRepository)(nil)

func (r *PgxExpenseRepository) SaveExpense(ctx context.Context, expense domain.Expense) error {
	m := mapping.ToModelExpense(expense)
	query := `
		INSERT INTO expenses (` + expenseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.ExpenseID,
		m.Category,
		m.Amount,
		m.Description,
		m.ExpenseDate,
		m.IsDeleted,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return mapPgError(err, "failed to insert expense "+m.ExpenseID)
	}
	return nil
}

func (r *PgxExpenseRepository) SoftDeleteExpense(ctx context.Context, expenseID string, deletedBy string, deletedAt time.Time) error {
	query := `
		UPDATE expenses
		SET is_deleted = TRUE, last_updated_at = $2, last_updated_by = $3
		WHERE expense_id = $1 AND is_deleted = FALSE;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, expenseID, deletedAt, deletedBy)
	if err != nil {
		return mapPgError(err, "failed to delete expense "+expenseID)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("expense")
	}
	return nil
}

func (r *PgxExpenseRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE expense_id = $1 AND is_deleted = FALSE;`
	var m models.Expense
	err := r.Pool.QueryRow(ctx, query, expenseID).Scan(
		&m.ExpenseID,
		&m.Category,
		&m.Amount,
		&m.Description,
		&m.ExpenseDate,
		&m.IsDeleted,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, notFoundOr(err, "expense", "failed to find expense by ID "+expenseID)
	}
	e := mapping.ToDomainExpense(m)
	return &e, nil
}

func (r *PgxExpenseRepository) ListExpenses(ctx context.Context, filter domain.ExpenseFilter) ([]domain.Expense, error) {
	return listExpenses(ctx, r.Pool, filter)
}

func listExpenses(ctx context.Context, q querier, filter domain.ExpenseFilter) ([]domain.Expense, error) {
	conds := []string{"is_deleted = FALSE"}
	args := []any{}
	if filter.From != nil {
		args = append(args, *filter.From)
		conds = append(conds, fmt.Sprintf("expense_date >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		conds = append(conds, fmt.Sprintf("expense_date < $%d", len(args)))
	}
	if filter.Category != nil {
		args = append(args, *filter.Category)
		conds = append(conds, fmt.Sprintf("LOWER(category) = LOWER($%d)", len(args)))
	}

	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE ` + strings.Join(conds, " AND ") +
		` ORDER BY expense_date, created_at, expense_id;`
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapPgError(err, "failed to query expenses")
	}
	defer rows.Close()

	expenses := []domain.Expense{}
	for rows.Next() {
		var m models.Expense
		if err := rows.Scan(
			&m.ExpenseID,
			&m.Category,
			&m.Amount,
			&m.Description,
			&m.ExpenseDate,
			&m.IsDeleted,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan expense row", err)
		}
		expenses = append(expenses, mapping.ToDomainExpense(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating expense rows", err)
	}
	return expenses, nil
}

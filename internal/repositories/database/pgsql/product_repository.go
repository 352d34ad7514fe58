package pgsql

import (
	"context"

	"github.com/SscSPs/pos_ledger/internal/apperrors"
	"github.com/SscSPs/pos_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/pos_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/pos_ledger/internal/models"
	"github.com/SscSPs/pos_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxProductRepository struct {
	BaseRepository
}

func newPgxProductRepository(pool *pgxpool.Pool) portsrepo.ProductCatalog {
	return &PgxProductRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.ProductCatalog = (*PgxProductRepository)(nil)

func (r *PgxProductRepository) LookupProduct(ctx context.Context, productID string) (*domain.Product, error) {
	query := `
		SELECT product_id, name, sku, price, stock, is_deleted
		FROM products
		WHERE product_id = $1;
	`
	var m models.Product
	err := r.Pool.QueryRow(ctx, query, productID).Scan(
		&m.ProductID,
		&m.Name,
		&m.SKU,
		&m.Price,
		&m.Stock,
		&m.IsDeleted,
	)
	if err != nil {
		return nil, notFoundOr(err, "product", "failed to find product by ID "+productID)
	}
	p := mapping.ToDomainProduct(m)
	return &p, nil
}

func (r *PgxProductRepository) LookupProducts(ctx context.Context, productIDs []string) (map[string]domain.Product, error) {
	products := make(map[string]domain.Product, len(productIDs))
	if len(productIDs) == 0 {
		return products, nil
	}

	query := `
		SELECT product_id, name, sku, price, stock, is_deleted
		FROM products
		WHERE product_id = ANY($1);
	`
	rows, err := r.Pool.Query(ctx, query, productIDs)
	if err != nil {
		return nil, mapPgError(err, "failed to query products")
	}
	defer rows.Close()

	for rows.Next() {
		var m models.Product
		if err := rows.Scan(&m.ProductID, &m.Name, &m.SKU, &m.Price, &m.Stock, &m.IsDeleted); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan product row", err)
		}
		products[m.ProductID] = mapping.ToDomainProduct(m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating product rows", err)
	}
	return products, nil
}

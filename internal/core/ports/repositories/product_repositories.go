package repositories

import (
	"context"

	"github.com/SscSPs/pos_ledger/internal/core/domain"
)

// ProductCatalog is the read-only view of the product catalog.
type ProductCatalog interface {
	// LookupProduct returns one product or apperrors.ErrNotFound.
	LookupProduct(ctx context.Context, productID string) (*domain.Product, error)

	// LookupProducts returns the products found, keyed by id. Missing ids are simply absent.
	LookupProducts(ctx context.Context, productIDs []string) (map[string]domain.Product, error)
}

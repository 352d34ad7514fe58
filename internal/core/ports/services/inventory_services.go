package services

import (
	"context"

	"github.com/SscSPs/pos_ledger/internal/core/domain"
	"github.com/SscSPs/pos_ledger/internal/core/ports/repositories"
)

// InventorySvc applies stock changes.
type InventorySvc interface {
	// AdjustStock applies delta to one product in its own atomic unit.
	AdjustStock(ctx context.Context, productID string, delta int64) (*domain.StockAdjustment, error)

	// ApplySale decrements stock for every item inside tx.
	ApplySale(ctx context.Context, tx repositories.StockWriter, items []domain.TransactionItem) ([]domain.StockAdjustment, error)

	// ReverseSale restores stock for every item inside tx.
	ReverseSale(ctx context.Context, tx repositories.StockWriter, items []domain.TransactionItem) ([]domain.StockAdjustment, error)
}

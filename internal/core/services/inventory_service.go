package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/SscSPs/pos_ledger/internal/apperrors"
	"github.com/SscSPs/pos_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/pos_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pos_ledger/internal/core/ports/services"
	"github.com/SscSPs/pos_ledger/internal/platform/metrics"
)

// inventoryService applies stock deltas as single arithmetic updates in the store.
type inventoryService struct {
	BaseService
	store         portsrepo.AtomicRunner
	allowNegative bool
}

// NewInventoryService creates a new InventorySvc. With allowNegative false a
// decrement below zero fails with apperrors.ErrInsufficientStock.
func NewInventoryService(store portsrepo.AtomicRunner, allowNegative bool, opts ...Option) portssvc.InventorySvc {
	return &inventoryService{
		BaseService:   newBaseService(opts...),
		store:         store,
		allowNegative: allowNegative,
	}
}

var _ portssvc.InventorySvc = (*inventoryService)(nil)

func (s *inventoryService) AdjustStock(ctx context.Context, productID string, delta int64) (*domain.StockAdjustment, error) {
	if productID == "" {
		return nil, fmt.Errorf("%w: product ID is required", apperrors.ErrValidation)
	}
	if delta == 0 {
		return nil, fmt.Errorf("%w: delta must not be zero", apperrors.ErrValidation)
	}

	var adj domain.StockAdjustment
	err := s.withRetry(ctx, "adjust_stock", func() error {
		return s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
			var err error
			adj, err = s.adjust(ctx, tx, productID, delta)
			return err
		})
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to adjust stock", slog.String("product_id", productID), slog.Int64("delta", delta))
		return nil, err
	}
	return &adj, nil
}

func (s *inventoryService) ApplySale(ctx context.Context, tx portsrepo.StockWriter, items []domain.TransactionItem) ([]domain.StockAdjustment, error) {
	return s.applyItems(ctx, tx, items, -1)
}

func (s *inventoryService) ReverseSale(ctx context.Context, tx portsrepo.StockWriter, items []domain.TransactionItem) ([]domain.StockAdjustment, error) {
	return s.applyItems(ctx, tx, items, 1)
}

// applyItems adjusts each product once, in product ID order so that concurrent
// sales lock rows in the same sequence.
func (s *inventoryService) applyItems(ctx context.Context, tx portsrepo.StockWriter, items []domain.TransactionItem, sign int64) ([]domain.StockAdjustment, error) {
	quantities := make(map[string]int64, len(items))
	for _, item := range items {
		quantities[item.ProductID] += item.Quantity
	}
	productIDs := make([]string, 0, len(quantities))
	for id := range quantities {
		productIDs = append(productIDs, id)
	}
	sort.Strings(productIDs)

	adjustments := make([]domain.StockAdjustment, 0, len(productIDs))
	for _, id := range productIDs {
		adj, err := s.adjust(ctx, tx, id, sign*quantities[id])
		if err != nil {
			return nil, err
		}
		adjustments = append(adjustments, adj)
	}
	return adjustments, nil
}

func (s *inventoryService) adjust(ctx context.Context, tx portsrepo.StockWriter, productID string, delta int64) (domain.StockAdjustment, error) {
	adj, err := tx.AdjustStock(ctx, productID, delta, s.allowNegative)
	if err != nil {
		return domain.StockAdjustment{}, err
	}

	direction := "in"
	if delta < 0 {
		direction = "out"
	}
	metrics.StockAdjustments.WithLabelValues(direction).Inc()

	if adj.Negative {
		metrics.NegativeStock.Inc()
		s.GetLogger(ctx).Warn("Stock below zero after adjustment",
			slog.String("product_id", productID),
			slog.Int64("delta", delta),
			slog.Int64("stock", adj.NewStock))
	}
	return adj, nil
}

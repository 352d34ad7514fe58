package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/pos_ledger/internal/apperrors"
	"github.com/SscSPs/pos_ledger/internal/core/cart"
	"github.com/SscSPs/pos_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/pos_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pos_ledger/internal/core/ports/services"
	"github.com/SscSPs/pos_ledger/internal/dto"
	"github.com/SscSPs/pos_ledger/internal/platform/metrics"
	"github.com/SscSPs/pos_ledger/internal/utils/numbering"
	"github.com/SscSPs/pos_ledger/internal/utils/pricing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// transactionService drives a sale through its lifecycle. Every mutation runs
// as one atomic unit on the ledger store with the header locked, so a failure
// leaves the previously persisted header and items untouched.
type transactionService struct {
	BaseService
	store     portsrepo.LedgerStore
	catalog   portsrepo.ProductCatalog
	numbering portssvc.NumberingSvc
	inventory portssvc.InventorySvc
	taxConfig domain.TaxConfig
}

// NewTransactionService creates a new TransactionSvcFacade. taxConfig is the
// default applied whenever the server prices a cart itself.
func NewTransactionService(
	store portsrepo.LedgerStore,
	catalog portsrepo.ProductCatalog,
	numberingSvc portssvc.NumberingSvc,
	inventorySvc portssvc.InventorySvc,
	taxConfig domain.TaxConfig,
	opts ...Option,
) portssvc.TransactionSvcFacade {
	return &transactionService{
		BaseService: newBaseService(opts...),
		store:       store,
		catalog:     catalog,
		numbering:   numberingSvc,
		inventory:   inventorySvc,
		taxConfig:   taxConfig,
	}
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

func (s *transactionService) GetTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	txn, err := s.store.FindTransactionWithItems(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.IsDeleted {
		return nil, apperrors.NewNotFoundError("transaction")
	}
	return txn, nil
}

func (s *transactionService) GetItems(ctx context.Context, transactionID string) ([]domain.TransactionItem, error) {
	txn, err := s.GetTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.Items == nil {
		return []domain.TransactionItem{}, nil
	}
	return txn.Items, nil
}

func (s *transactionService) CreateEmptyDraft(ctx context.Context, cashier portssvc.Cashier) (*domain.Transaction, error) {
	if err := validateCashier(cashier); err != nil {
		return nil, err
	}

	now := s.now()
	txn := domain.Transaction{
		TransactionID:   uuid.NewString(),
		Status:          domain.StatusDraft,
		CashierID:       cashier.ID,
		CashierName:     cashier.Name,
		PaymentMethod:   domain.PaymentCash,
		TransactionDate: now,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     cashier.ID,
			LastUpdatedAt: now,
			LastUpdatedBy: cashier.ID,
		},
	}

	err := s.withRetry(ctx, "create_draft", func() error {
		return s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
			number, err := s.numbering.NextNumberInTx(ctx, tx, numbering.Draft, now)
			if err != nil {
				return err
			}
			txn.Number = number
			return tx.InsertTransaction(ctx, txn)
		})
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create draft", slog.String("cashier_id", cashier.ID))
		return nil, err
	}
	countAllocated(numbering.Draft)

	s.LogInfo(ctx, "Draft created",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("number", txn.Number))
	txn.Items = []domain.TransactionItem{}
	return &txn, nil
}

func (s *transactionService) CreateSale(ctx context.Context, req dto.CreateSaleRequest, cashier portssvc.Cashier) (*domain.Transaction, error) {
	if err := validateCashier(cashier); err != nil {
		return nil, err
	}
	if !req.PaymentMethod.IsValid() {
		return nil, fmt.Errorf("%w: unknown payment method %q", apperrors.ErrValidation, req.PaymentMethod)
	}
	if req.GlobalDiscount.IsNegative() {
		return nil, fmt.Errorf("%w: global discount must not be negative", apperrors.ErrValidation)
	}

	taxCfg := s.taxConfig
	if req.TaxConfig != nil {
		taxCfg = req.TaxConfig.ToDomain()
	}

	products, err := s.lookupProducts(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	c := cart.New(taxCfg)
	c.PaymentMethod = req.PaymentMethod
	c.GlobalDiscount = req.GlobalDiscount
	c, err = cart.Replace(c, lineSpecs(req.Items, req.ItemDiscounts), products)
	if err != nil {
		return nil, err
	}
	if len(c.Lines) == 0 {
		return nil, fmt.Errorf("%w: a sale needs at least one item", apperrors.ErrValidation)
	}

	totals := c.Totals()
	cashReceived, cashChange, err := settlePayment(req.PaymentMethod, totals.Total, req.CashReceived, nil)
	if err != nil {
		return nil, err
	}

	now := s.now()
	txn := domain.Transaction{
		TransactionID:   uuid.NewString(),
		Status:          domain.StatusCompleted,
		CashierID:       cashier.ID,
		CashierName:     cashier.Name,
		PaymentMethod:   req.PaymentMethod,
		Subtotal:        totals.Subtotal,
		Tax:             totals.Tax,
		Service:         totals.Service,
		Discount:        totals.Discount,
		Total:           totals.Total,
		CashReceived:    cashReceived,
		CashChange:      cashChange,
		Notes:           req.Notes,
		TransactionDate: now,
		StockCommitted:  true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     cashier.ID,
			LastUpdatedAt: now,
			LastUpdatedBy: cashier.ID,
		},
	}
	items := stampItems(c.Items(), txn.TransactionID, now)

	err = s.withRetry(ctx, "create_sale", func() error {
		return s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
			number, err := s.numbering.NextNumberInTx(ctx, tx, numbering.Invoice, now)
			if err != nil {
				return err
			}
			txn.Number = number
			if err := tx.InsertTransaction(ctx, txn); err != nil {
				return err
			}
			if err := tx.ReplaceItems(ctx, txn.TransactionID, items); err != nil {
				return err
			}
			_, err = s.inventory.ApplySale(ctx, tx, items)
			return err
		})
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to record sale", slog.String("cashier_id", cashier.ID))
		return nil, err
	}

	countAllocated(numbering.Invoice)
	metrics.SalesCommitted.WithLabelValues(string(txn.PaymentMethod)).Inc()
	s.LogInfo(ctx, "Sale recorded",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("number", txn.Number),
		slog.String("total", txn.Total.String()))
	txn.Items = items
	return &txn, nil
}

func (s *transactionService) UpdateItems(ctx context.Context, transactionID string, req dto.UpdateItemsRequest, cashier portssvc.Cashier) ([]domain.TransactionItem, error) {
	if err := validateCashier(cashier); err != nil {
		return nil, err
	}

	// Resolve products before opening the unit; an unknown product aborts
	// the whole replacement with nothing written.
	products, err := s.lookupProducts(ctx, req.Items)
	if err != nil {
		return nil, err
	}
	specs := lineSpecs(req.Items, req.ItemDiscounts)

	var items []domain.TransactionItem
	err = s.withRetry(ctx, "update_items", func() error {
		return s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
			txn, err := s.lockEditable(ctx, tx, transactionID)
			if err != nil {
				return err
			}
			existing, err := tx.FindItems(ctx, transactionID)
			if err != nil {
				return err
			}

			next, err := cart.Replace(cart.FromTransaction(*txn, existing, s.taxConfig), specs, products)
			if err != nil {
				return err
			}

			now := s.now()
			items = stampItems(next.Items(), transactionID, now)
			if err := tx.ReplaceItems(ctx, transactionID, items); err != nil {
				return err
			}

			// Header totals move with the items so readers never see one without the other.
			applyTotals(txn, next.Totals())
			touch(txn, cashier, now)
			return tx.UpdateTransaction(ctx, *txn)
		})
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to update items", slog.String("transaction_id", transactionID))
		return nil, err
	}

	s.LogDebug(ctx, "Items replaced",
		slog.String("transaction_id", transactionID),
		slog.Int("item_count", len(items)))
	return items, nil
}

func (s *transactionService) UpdateTotals(ctx context.Context, transactionID string, req dto.UpdateTotalsRequest, cashier portssvc.Cashier) (*domain.Transaction, error) {
	if err := validateCashier(cashier); err != nil {
		return nil, err
	}
	totals := domain.Totals{
		Subtotal: req.Subtotal,
		Tax:      req.Tax,
		Service:  req.Service,
		Discount: req.Discount,
		Total:    req.Total,
	}
	for name, v := range map[string]decimal.Decimal{
		"subtotal": totals.Subtotal, "tax": totals.Tax, "service": totals.Service,
		"discount": totals.Discount, "total": totals.Total,
	} {
		if v.IsNegative() {
			return nil, fmt.Errorf("%w: %s must not be negative", apperrors.ErrValidation, name)
		}
	}
	if !pricing.TotalsConsistent(totals) {
		return nil, fmt.Errorf("%w: total %s does not equal subtotal + tax + service - discount",
			apperrors.ErrConsistency, totals.Total)
	}

	var result *domain.Transaction
	err := s.withRetry(ctx, "update_totals", func() error {
		return s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
			txn, err := s.lockEditable(ctx, tx, transactionID)
			if err != nil {
				return err
			}
			items, err := tx.FindItems(ctx, transactionID)
			if err != nil {
				return err
			}
			if sum := sumSubtotals(items); !domain.WithinTolerance(sum, totals.Subtotal) {
				return fmt.Errorf("%w: subtotal %s does not match item subtotals %s",
					apperrors.ErrConsistency, totals.Subtotal, sum)
			}

			applyTotals(txn, totals)
			touch(txn, cashier, s.now())
			if err := tx.UpdateTransaction(ctx, *txn); err != nil {
				return err
			}
			result = txn
			return nil
		})
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to update totals", slog.String("transaction_id", transactionID))
		return nil, err
	}
	return result, nil
}

func (s *transactionService) UpdatePayment(ctx context.Context, transactionID string, req dto.UpdatePaymentRequest, cashier portssvc.Cashier) (*domain.Transaction, error) {
	if err := validateCashier(cashier); err != nil {
		return nil, err
	}
	if !req.PaymentMethod.IsValid() {
		return nil, fmt.Errorf("%w: unknown payment method %q", apperrors.ErrValidation, req.PaymentMethod)
	}
	if req.GlobalDiscount.IsNegative() {
		return nil, fmt.Errorf("%w: global discount must not be negative", apperrors.ErrValidation)
	}

	var result *domain.Transaction
	err := s.withRetry(ctx, "update_payment", func() error {
		return s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
			txn, err := s.lockEditable(ctx, tx, transactionID)
			if err != nil {
				return err
			}
			txn.PaymentMethod = req.PaymentMethod
			txn.Discount = req.GlobalDiscount.Round(pricing.MoneyPlaces)
			txn.Total = floorZero(txn.Subtotal.Add(txn.Tax).Add(txn.Service).Sub(txn.Discount))
			touch(txn, cashier, s.now())
			if err := tx.UpdateTransaction(ctx, *txn); err != nil {
				return err
			}
			result = txn
			return nil
		})
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to update payment", slog.String("transaction_id", transactionID))
		return nil, err
	}
	return result, nil
}

func (s *transactionService) Hold(ctx context.Context, transactionID string, cashier portssvc.Cashier) (*domain.Transaction, error) {
	return s.transition(ctx, "hold", transactionID, cashier, domain.StatusPending, nil)
}

func (s *transactionService) Finalize(ctx context.Context, transactionID string, req dto.FinalizeRequest, cashier portssvc.Cashier) (*domain.Transaction, error) {
	txn, err := s.transition(ctx, "finalize", transactionID, cashier, domain.StatusPaid,
		func(ctx context.Context, tx portsrepo.LedgerTx, txn *domain.Transaction, now time.Time) error {
			items, err := tx.FindItems(ctx, txn.TransactionID)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				return fmt.Errorf("%w: cannot finalize an empty cart", apperrors.ErrValidation)
			}
			if !txn.TotalsBalance() {
				return fmt.Errorf("%w: stored totals do not balance", apperrors.ErrConsistency)
			}
			if sum := sumSubtotals(items); !domain.WithinTolerance(sum, txn.Subtotal) {
				return fmt.Errorf("%w: subtotal %s does not match item subtotals %s",
					apperrors.ErrConsistency, txn.Subtotal, sum)
			}

			cashReceived, cashChange, err := settlePayment(txn.PaymentMethod, txn.Total, req.CashReceived, req.CashChange)
			if err != nil {
				return err
			}

			number, err := s.numbering.NextNumberInTx(ctx, tx, numbering.Invoice, now)
			if err != nil {
				return err
			}

			if !txn.StockCommitted {
				if _, err := s.inventory.ApplySale(ctx, tx, items); err != nil {
					return err
				}
				txn.StockCommitted = true
			}

			txn.Number = number
			txn.CashReceived = cashReceived
			txn.CashChange = cashChange
			txn.TransactionDate = now
			if req.Notes != nil {
				txn.Notes = req.Notes
			}
			txn.Items = items
			return nil
		})
	if err != nil {
		return nil, err
	}
	countAllocated(numbering.Invoice)
	metrics.SalesCommitted.WithLabelValues(string(txn.PaymentMethod)).Inc()
	return txn, nil
}

func (s *transactionService) StartProcessing(ctx context.Context, transactionID string, cashier portssvc.Cashier) (*domain.Transaction, error) {
	return s.transition(ctx, "start_processing", transactionID, cashier, domain.StatusProcessing, nil)
}

func (s *transactionService) Complete(ctx context.Context, transactionID string, cashier portssvc.Cashier) (*domain.Transaction, error) {
	return s.transition(ctx, "complete", transactionID, cashier, domain.StatusCompleted, nil)
}

func (s *transactionService) Cancel(ctx context.Context, transactionID string, req dto.StatusChangeRequest, cashier portssvc.Cashier) (*domain.Transaction, error) {
	return s.reverse(ctx, "cancel", transactionID, req, cashier, domain.StatusCancelled)
}

func (s *transactionService) Refund(ctx context.Context, transactionID string, req dto.StatusChangeRequest, cashier portssvc.Cashier) (*domain.Transaction, error) {
	return s.reverse(ctx, "refund", transactionID, req, cashier, domain.StatusRefunded)
}

func (s *transactionService) SoftDelete(ctx context.Context, transactionID string, cashier portssvc.Cashier) error {
	if err := validateCashier(cashier); err != nil {
		return err
	}
	err := s.withRetry(ctx, "soft_delete", func() error {
		return s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
			txn, err := s.lockLive(ctx, tx, transactionID)
			if err != nil {
				return err
			}
			if txn.Status.IsTerminal() {
				return fmt.Errorf("%w: %s transactions cannot be deleted", apperrors.ErrValidation, txn.Status)
			}
			txn.IsDeleted = true
			touch(txn, cashier, s.now())
			return tx.UpdateTransaction(ctx, *txn)
		})
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to delete transaction", slog.String("transaction_id", transactionID))
		return err
	}
	s.LogInfo(ctx, "Transaction deleted", slog.String("transaction_id", transactionID))
	return nil
}

func (s *transactionService) Quote(ctx context.Context, req dto.CartQuoteRequest) (*dto.CartQuoteResponse, error) {
	c := cart.New(s.taxConfig)
	if req.TransactionID != nil {
		txn, err := s.GetTransaction(ctx, *req.TransactionID)
		if err != nil {
			return nil, err
		}
		c = cart.FromTransaction(*txn, txn.Items, s.taxConfig)
	}

	for i, editReq := range req.Edits {
		edit, err := s.toEdit(ctx, editReq)
		if err != nil {
			return nil, err
		}
		if c, err = cart.Apply(c, edit); err != nil {
			return nil, fmt.Errorf("edit %d: %w", i, err)
		}
	}

	return &dto.CartQuoteResponse{Cart: c, Totals: c.Totals()}, nil
}

func (s *transactionService) toEdit(ctx context.Context, req dto.CartEditRequest) (cart.Edit, error) {
	switch cart.EditKind(req.Kind) {
	case cart.EditAddItem:
		product, err := s.catalog.LookupProduct(ctx, req.ProductID)
		if errors.Is(err, apperrors.ErrNotFound) || (err == nil && product.IsDeleted) {
			return cart.Edit{}, fmt.Errorf("%w: product not found: %s", apperrors.ErrValidation, req.ProductID)
		}
		if err != nil {
			return cart.Edit{}, err
		}
		return cart.AddItem(*product, req.Quantity), nil
	case cart.EditSetQuantity:
		return cart.SetQuantity(req.ProductID, req.Quantity), nil
	case cart.EditSetLineDiscount:
		return cart.SetLineDiscount(req.ProductID, req.Amount), nil
	case cart.EditRemoveItem:
		return cart.RemoveItem(req.ProductID), nil
	case cart.EditSetGlobalDiscount:
		return cart.SetGlobalDiscount(req.Amount), nil
	case cart.EditSetPaymentMethod:
		return cart.SetPaymentMethod(req.PaymentMethod), nil
	case cart.EditSetTaxConfig:
		if req.TaxConfig == nil {
			return cart.Edit{}, fmt.Errorf("%w: taxConfig is required for %s", apperrors.ErrValidation, req.Kind)
		}
		return cart.SetTaxConfig(req.TaxConfig.ToDomain()), nil
	}
	return cart.Edit{}, fmt.Errorf("%w: unknown cart edit %q", apperrors.ErrValidation, req.Kind)
}

// transition moves a live transaction to target inside one unit. mutate, when
// set, runs after the state check and before the header is written.
func (s *transactionService) transition(
	ctx context.Context,
	operation string,
	transactionID string,
	cashier portssvc.Cashier,
	target domain.TransactionStatus,
	mutate func(ctx context.Context, tx portsrepo.LedgerTx, txn *domain.Transaction, now time.Time) error,
) (*domain.Transaction, error) {
	if err := validateCashier(cashier); err != nil {
		return nil, err
	}

	var result *domain.Transaction
	var from domain.TransactionStatus
	err := s.withRetry(ctx, operation, func() error {
		return s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
			txn, err := s.lockLive(ctx, tx, transactionID)
			if err != nil {
				return err
			}
			if !txn.Status.CanTransitionTo(target) {
				return fmt.Errorf("%w: cannot move transaction from %s to %s",
					apperrors.ErrValidation, txn.Status, target)
			}
			from = txn.Status

			now := s.now()
			if mutate != nil {
				if err := mutate(ctx, tx, txn, now); err != nil {
					return err
				}
			}
			txn.Status = target
			touch(txn, cashier, now)
			if err := tx.UpdateTransaction(ctx, *txn); err != nil {
				return err
			}
			result = txn
			return nil
		})
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to change transaction status",
			slog.String("transaction_id", transactionID),
			slog.String("operation", operation),
			slog.String("target", string(target)))
		return nil, err
	}

	s.LogInfo(ctx, "Transaction status changed",
		slog.String("transaction_id", transactionID),
		slog.String("number", result.Number),
		slog.String("from", string(from)),
		slog.String("to", string(target)))
	return result, nil
}

// reverse cancels or refunds, giving back any stock the sale took.
func (s *transactionService) reverse(ctx context.Context, operation, transactionID string, req dto.StatusChangeRequest, cashier portssvc.Cashier, target domain.TransactionStatus) (*domain.Transaction, error) {
	var restored bool
	txn, err := s.transition(ctx, operation, transactionID, cashier, target,
		func(ctx context.Context, tx portsrepo.LedgerTx, txn *domain.Transaction, _ time.Time) error {
			restored = false
			if txn.StockCommitted {
				items, err := tx.FindItems(ctx, txn.TransactionID)
				if err != nil {
					return err
				}
				if _, err := s.inventory.ReverseSale(ctx, tx, items); err != nil {
					return err
				}
				txn.StockCommitted = false
				restored = true
			}
			if req.Reason != nil && strings.TrimSpace(*req.Reason) != "" {
				txn.Notes = appendNote(txn.Notes, fmt.Sprintf("%s: %s", strings.ToLower(string(target)), strings.TrimSpace(*req.Reason)))
			}
			return nil
		})
	if err != nil {
		return nil, err
	}
	if restored {
		metrics.SalesReversed.WithLabelValues(string(target)).Inc()
	}
	return txn, nil
}

// lockLive locks a header and treats soft-deleted ones as missing.
func (s *transactionService) lockLive(ctx context.Context, tx portsrepo.LedgerTx, transactionID string) (*domain.Transaction, error) {
	txn, err := tx.LockTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.IsDeleted {
		return nil, apperrors.NewNotFoundError("transaction")
	}
	return txn, nil
}

func (s *transactionService) lockEditable(ctx context.Context, tx portsrepo.LedgerTx, transactionID string) (*domain.Transaction, error) {
	txn, err := s.lockLive(ctx, tx, transactionID)
	if err != nil {
		return nil, err
	}
	if !txn.Status.IsEditable() {
		return nil, fmt.Errorf("%w: %s transactions cannot be edited", apperrors.ErrValidation, txn.Status)
	}
	return txn, nil
}

func (s *transactionService) lookupProducts(ctx context.Context, lines []dto.ItemLineRequest) (map[string]domain.Product, error) {
	ids := make([]string, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ProductID)
	}
	if len(ids) == 0 {
		return map[string]domain.Product{}, nil
	}
	return s.catalog.LookupProducts(ctx, ids)
}

func validateCashier(cashier portssvc.Cashier) error {
	if cashier.ID == "" {
		return fmt.Errorf("%w: cashier is required", apperrors.ErrValidation)
	}
	return nil
}

func lineSpecs(lines []dto.ItemLineRequest, discounts map[string]decimal.Decimal) []cart.LineSpec {
	specs := make([]cart.LineSpec, 0, len(lines))
	for _, line := range lines {
		spec := cart.LineSpec{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Notes:     line.Notes,
		}
		if d, ok := discounts[line.ProductID]; ok {
			spec.Discount = &d
		}
		specs = append(specs, spec)
	}
	return specs
}

func stampItems(items []domain.TransactionItem, transactionID string, now time.Time) []domain.TransactionItem {
	for i := range items {
		items[i].ItemID = uuid.NewString()
		items[i].TransactionID = transactionID
		// Keep creation order stable for readers that sort by it.
		items[i].CreatedAt = now.Add(time.Duration(i) * time.Microsecond)
	}
	return items
}

func applyTotals(txn *domain.Transaction, t domain.Totals) {
	txn.Subtotal = t.Subtotal
	txn.Tax = t.Tax
	txn.Service = t.Service
	txn.Discount = t.Discount
	txn.Total = t.Total
}

func touch(txn *domain.Transaction, cashier portssvc.Cashier, now time.Time) {
	txn.LastUpdatedAt = now
	txn.LastUpdatedBy = cashier.ID
}

func sumSubtotals(items []domain.TransactionItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.Subtotal)
	}
	return sum
}

func floorZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// settlePayment derives the stored cash fields. Cash must cover the total;
// other methods are settled for exactly the total.
func settlePayment(method domain.PaymentMethod, total, cashReceived decimal.Decimal, claimedChange *decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	if method != domain.PaymentCash {
		return total, decimal.Zero, nil
	}
	change, err := pricing.CashChange(total, cashReceived)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	if claimedChange != nil && !domain.WithinTolerance(*claimedChange, change) {
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: cash change %s does not equal %s",
			apperrors.ErrConsistency, claimedChange.String(), change)
	}
	return cashReceived, change, nil
}

func appendNote(notes *string, line string) *string {
	if notes == nil || *notes == "" {
		return &line
	}
	joined := *notes + "\n" + line
	return &joined
}

package services

import (
	"context"

	"github.com/SscSPs/pos_ledger/internal/core/domain"
	"github.com/SscSPs/pos_ledger/internal/dto"
)

// Cashier identifies the operator performing an action.
type Cashier struct {
	ID   string
	Name string
}

// TransactionReaderSvc defines live reads of a sale for display.
type TransactionReaderSvc interface {
	// GetTransaction returns a non-deleted transaction with its items.
	GetTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// GetItems returns the items of a non-deleted transaction.
	GetItems(ctx context.Context, transactionID string) ([]domain.TransactionItem, error)
}

// TransactionWriterSvc defines the cart and lifecycle mutations.
type TransactionWriterSvc interface {
	// CreateEmptyDraft opens a DRAFT with a TX- number and zero totals.
	CreateEmptyDraft(ctx context.Context, cashier Cashier) (*domain.Transaction, error)

	// CreateSale records a COMPLETED sale with an INV- number and decrements stock once.
	CreateSale(ctx context.Context, req dto.CreateSaleRequest, cashier Cashier) (*domain.Transaction, error)

	// UpdateItems replaces the item list of a DRAFT. All-or-nothing.
	UpdateItems(ctx context.Context, transactionID string, req dto.UpdateItemsRequest, cashier Cashier) ([]domain.TransactionItem, error)

	// UpdateTotals persists pricing engine output for a DRAFT.
	UpdateTotals(ctx context.Context, transactionID string, req dto.UpdateTotalsRequest, cashier Cashier) (*domain.Transaction, error)

	// UpdatePayment sets the payment method and global discount of a DRAFT.
	UpdatePayment(ctx context.Context, transactionID string, req dto.UpdatePaymentRequest, cashier Cashier) (*domain.Transaction, error)
}

// TransactionLifecycleSvc defines the status transitions.
type TransactionLifecycleSvc interface {
	// Hold parks a DRAFT as PENDING.
	Hold(ctx context.Context, transactionID string, cashier Cashier) (*domain.Transaction, error)

	// Finalize moves DRAFT/PENDING to PAID, assigns the invoice number and decrements stock once.
	Finalize(ctx context.Context, transactionID string, req dto.FinalizeRequest, cashier Cashier) (*domain.Transaction, error)

	// StartProcessing moves PAID to PROCESSING.
	StartProcessing(ctx context.Context, transactionID string, cashier Cashier) (*domain.Transaction, error)

	// Complete moves PAID/PROCESSING to COMPLETED.
	Complete(ctx context.Context, transactionID string, cashier Cashier) (*domain.Transaction, error)

	// Cancel moves a non-completed transaction to CANCELLED, restoring stock if it was taken.
	Cancel(ctx context.Context, transactionID string, req dto.StatusChangeRequest, cashier Cashier) (*domain.Transaction, error)

	// Refund moves a paid transaction to REFUNDED, restoring stock if it was taken.
	Refund(ctx context.Context, transactionID string, req dto.StatusChangeRequest, cashier Cashier) (*domain.Transaction, error)

	// SoftDelete hides a non-terminal transaction. Stock is not touched.
	SoftDelete(ctx context.Context, transactionID string, cashier Cashier) error
}

// CartSvc previews carts without persisting them.
type CartSvc interface {
	Quote(ctx context.Context, req dto.CartQuoteRequest) (*dto.CartQuoteResponse, error)
}

// TransactionSvcFacade combines all transaction-related service interfaces.
type TransactionSvcFacade interface {
	TransactionReaderSvc
	TransactionWriterSvc
	TransactionLifecycleSvc
	CartSvc
}

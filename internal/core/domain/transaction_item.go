package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionItem is one product line of a transaction with a snapshot of the
// catalog entry at the time it was added.
type TransactionItem struct {
	ItemID        string          `json:"itemID"`          // Primary Key (UUID); not stable across draft edits
	TransactionID string          `json:"transactionID"`   // FK -> Transaction.transactionID
	ProductID     string          `json:"productID"`       // Reference only
	ProductName   string          `json:"productName"`     // Snapshot
	ProductPrice  decimal.Decimal `json:"productPrice"`    // Catalog price at snapshot time
	ProductSKU    string          `json:"productSku"`      // Snapshot
	Quantity      int64           `json:"quantity"`        // Positive
	UnitPrice     decimal.Decimal `json:"unitPrice"`       // Price charged per unit
	Discount      decimal.Decimal `json:"discount"`        // Total discount for the line, not per unit
	Subtotal      decimal.Decimal `json:"subtotal"`        // unitPrice * quantity - discount
	Notes         *string         `json:"notes,omitempty"` // Nullable
	CreatedAt     time.Time       `json:"createdAt"`
}

// Validate checks the line invariants.
func (i TransactionItem) Validate() error {
	if i.Quantity <= 0 {
		return fmt.Errorf("quantity for product %s must be positive", i.ProductID)
	}
	if i.UnitPrice.IsNegative() {
		return fmt.Errorf("unit price for product %s must not be negative", i.ProductID)
	}
	if i.Discount.IsNegative() {
		return fmt.Errorf("discount for product %s must not be negative", i.ProductID)
	}
	if i.Subtotal.IsNegative() {
		return fmt.Errorf("subtotal for product %s must not be negative", i.ProductID)
	}
	gross := i.UnitPrice.Mul(decimal.NewFromInt(i.Quantity))
	if !i.Subtotal.Equal(gross.Sub(i.Discount)) {
		return fmt.Errorf("subtotal %s for product %s does not equal %s - %s", i.Subtotal, i.ProductID, gross, i.Discount)
	}
	return nil
}

// GrossAmount is unitPrice * quantity before the line discount.
func (i TransactionItem) GrossAmount() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(i.Quantity))
}

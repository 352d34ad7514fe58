// Package cart models an in-progress sale as an immutable value. Every change
// goes through Apply, which returns a new Cart and leaves its input untouched.
package cart

import (
	"fmt"

	"github.com/SscSPs/pos_ledger/internal/apperrors"
	"github.com/SscSPs/pos_ledger/internal/core/domain"
	"github.com/SscSPs/pos_ledger/internal/utils/pricing"
	"github.com/shopspring/decimal"
)

// Line is one product entry of a cart. Discount is the total for the line.
type Line struct {
	ProductID    string          `json:"productID"`
	ProductName  string          `json:"productName"`
	ProductSKU   string          `json:"productSku"`
	ProductPrice decimal.Decimal `json:"productPrice"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	Quantity     int64           `json:"quantity"`
	Discount     decimal.Decimal `json:"discount"`
	Notes        *string         `json:"notes,omitempty"`
}

// Subtotal is unitPrice * quantity - discount.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity)).Sub(l.Discount)
}

// Cart is a snapshot of a sale being built.
type Cart struct {
	Lines          []Line               `json:"lines"`
	GlobalDiscount decimal.Decimal      `json:"globalDiscount"`
	PaymentMethod  domain.PaymentMethod `json:"paymentMethod"`
	TaxConfig      domain.TaxConfig     `json:"taxConfig"`
}

// New returns an empty cart paying in cash.
func New(cfg domain.TaxConfig) Cart {
	return Cart{PaymentMethod: domain.PaymentCash, TaxConfig: cfg}
}

// FromTransaction rebuilds the cart value of a persisted transaction.
func FromTransaction(txn domain.Transaction, items []domain.TransactionItem, cfg domain.TaxConfig) Cart {
	c := Cart{
		Lines:          make([]Line, 0, len(items)),
		GlobalDiscount: txn.Discount,
		PaymentMethod:  txn.PaymentMethod,
		TaxConfig:      cfg,
	}
	for _, item := range items {
		c.Lines = append(c.Lines, Line{
			ProductID:    item.ProductID,
			ProductName:  item.ProductName,
			ProductSKU:   item.ProductSKU,
			ProductPrice: item.ProductPrice,
			UnitPrice:    item.UnitPrice,
			Quantity:     item.Quantity,
			Discount:     item.Discount,
			Notes:        item.Notes,
		})
	}
	return c
}

// Items converts the lines into unsaved transaction items. Identity fields
// (ItemID, TransactionID, CreatedAt) are left for the caller.
func (c Cart) Items() []domain.TransactionItem {
	items := make([]domain.TransactionItem, 0, len(c.Lines))
	for _, l := range c.Lines {
		items = append(items, domain.TransactionItem{
			ProductID:    l.ProductID,
			ProductName:  l.ProductName,
			ProductPrice: l.ProductPrice,
			ProductSKU:   l.ProductSKU,
			Quantity:     l.Quantity,
			UnitPrice:    l.UnitPrice,
			Discount:     l.Discount,
			Subtotal:     l.Subtotal(),
			Notes:        l.Notes,
		})
	}
	return items
}

// Totals runs the pricing engine over the cart.
func (c Cart) Totals() domain.Totals {
	return pricing.ComputeTotals(c.Items(), c.GlobalDiscount, c.TaxConfig)
}

func (c Cart) indexOf(productID string) int {
	for i, l := range c.Lines {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}

func (c Cart) clone() Cart {
	out := c
	out.Lines = make([]Line, len(c.Lines))
	copy(out.Lines, c.Lines)
	return out
}

// EditKind names a cart mutation.
type EditKind string

const (
	EditAddItem           EditKind = "ADD_ITEM"
	EditSetQuantity       EditKind = "SET_QUANTITY"
	EditSetLineDiscount   EditKind = "SET_LINE_DISCOUNT"
	EditRemoveItem        EditKind = "REMOVE_ITEM"
	EditSetGlobalDiscount EditKind = "SET_GLOBAL_DISCOUNT"
	EditSetPaymentMethod  EditKind = "SET_PAYMENT_METHOD"
	EditSetTaxConfig      EditKind = "SET_TAX_CONFIG"
)

// Edit is one mutation. Use the constructors below to build it.
type Edit struct {
	Kind          EditKind
	Product       domain.Product
	ProductID     string
	Quantity      int64
	Amount        decimal.Decimal
	PaymentMethod domain.PaymentMethod
	TaxConfig     domain.TaxConfig
}

func AddItem(p domain.Product, quantity int64) Edit {
	return Edit{Kind: EditAddItem, Product: p, ProductID: p.ProductID, Quantity: quantity}
}

func SetQuantity(productID string, quantity int64) Edit {
	return Edit{Kind: EditSetQuantity, ProductID: productID, Quantity: quantity}
}

func SetLineDiscount(productID string, amount decimal.Decimal) Edit {
	return Edit{Kind: EditSetLineDiscount, ProductID: productID, Amount: amount}
}

func RemoveItem(productID string) Edit {
	return Edit{Kind: EditRemoveItem, ProductID: productID}
}

func SetGlobalDiscount(amount decimal.Decimal) Edit {
	return Edit{Kind: EditSetGlobalDiscount, Amount: amount}
}

func SetPaymentMethod(m domain.PaymentMethod) Edit {
	return Edit{Kind: EditSetPaymentMethod, PaymentMethod: m}
}

func SetTaxConfig(cfg domain.TaxConfig) Edit {
	return Edit{Kind: EditSetTaxConfig, TaxConfig: cfg}
}

// Apply returns the cart that results from applying e to c.
func Apply(c Cart, e Edit) (Cart, error) {
	next := c.clone()

	switch e.Kind {
	case EditAddItem:
		if e.Quantity <= 0 {
			return c, fmt.Errorf("%w: quantity must be positive", apperrors.ErrValidation)
		}
		if idx := next.indexOf(e.ProductID); idx >= 0 {
			return next.withQuantity(idx, next.Lines[idx].Quantity+e.Quantity), nil
		}
		next.Lines = append(next.Lines, Line{
			ProductID:    e.Product.ProductID,
			ProductName:  e.Product.Name,
			ProductSKU:   e.Product.SKU,
			ProductPrice: e.Product.Price,
			UnitPrice:    e.Product.Price,
			Quantity:     e.Quantity,
			Discount:     decimal.Zero,
		})
		return next, nil

	case EditSetQuantity:
		idx := next.indexOf(e.ProductID)
		if idx < 0 {
			return c, fmt.Errorf("%w: product %s is not in the cart", apperrors.ErrValidation, e.ProductID)
		}
		if e.Quantity < 0 {
			return c, fmt.Errorf("%w: quantity must not be negative", apperrors.ErrValidation)
		}
		if e.Quantity == 0 {
			next.Lines = append(next.Lines[:idx], next.Lines[idx+1:]...)
			return next, nil
		}
		return next.withQuantity(idx, e.Quantity), nil

	case EditSetLineDiscount:
		idx := next.indexOf(e.ProductID)
		if idx < 0 {
			return c, fmt.Errorf("%w: product %s is not in the cart", apperrors.ErrValidation, e.ProductID)
		}
		l := next.Lines[idx]
		if _, err := pricing.LineSubtotal(l.UnitPrice, l.Quantity, e.Amount); err != nil {
			return c, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		l.Discount = e.Amount
		next.Lines[idx] = l
		return next, nil

	case EditRemoveItem:
		idx := next.indexOf(e.ProductID)
		if idx < 0 {
			return c, fmt.Errorf("%w: product %s is not in the cart", apperrors.ErrValidation, e.ProductID)
		}
		next.Lines = append(next.Lines[:idx], next.Lines[idx+1:]...)
		return next, nil

	case EditSetGlobalDiscount:
		if e.Amount.IsNegative() {
			return c, fmt.Errorf("%w: discount must not be negative", apperrors.ErrValidation)
		}
		next.GlobalDiscount = e.Amount
		return next, nil

	case EditSetPaymentMethod:
		if !e.PaymentMethod.IsValid() {
			return c, fmt.Errorf("%w: unknown payment method %q", apperrors.ErrValidation, e.PaymentMethod)
		}
		next.PaymentMethod = e.PaymentMethod
		return next, nil

	case EditSetTaxConfig:
		if e.TaxConfig.TaxRatePercent.IsNegative() || e.TaxConfig.ServiceRatePercent.IsNegative() {
			return c, fmt.Errorf("%w: rates must not be negative", apperrors.ErrValidation)
		}
		next.TaxConfig = e.TaxConfig
		return next, nil
	}

	return c, fmt.Errorf("%w: unknown cart edit %q", apperrors.ErrValidation, e.Kind)
}

// withQuantity sets the quantity of line idx and rescales its discount so the
// per-unit discount is preserved. next must already be a clone.
func (c Cart) withQuantity(idx int, quantity int64) Cart {
	l := c.Lines[idx]
	l.Discount = pricing.RescaleLineDiscount(l.Discount, l.Quantity, quantity)
	l.Quantity = quantity
	c.Lines[idx] = l
	return c
}

// LineSpec is a requested line of a wholesale item replacement.
// A nil Discount keeps the line's previous per-unit discount.
type LineSpec struct {
	ProductID string
	Quantity  int64
	Discount  *decimal.Decimal
	Notes     *string
}

// Replace builds the cart whose lines are exactly specs, in order, snapshotting
// each product from catalog. Lines with quantity 0 are dropped. Every product
// must be present in catalog; otherwise nothing is replaced.
func Replace(c Cart, specs []LineSpec, catalog map[string]domain.Product) (Cart, error) {
	next := c.clone()
	next.Lines = make([]Line, 0, len(specs))
	seen := make(map[string]struct{}, len(specs))

	for _, spec := range specs {
		if spec.Quantity < 0 {
			return c, fmt.Errorf("%w: quantity for product %s must not be negative", apperrors.ErrValidation, spec.ProductID)
		}
		if _, dup := seen[spec.ProductID]; dup {
			return c, fmt.Errorf("%w: product %s listed more than once", apperrors.ErrValidation, spec.ProductID)
		}
		seen[spec.ProductID] = struct{}{}

		product, ok := catalog[spec.ProductID]
		if !ok || product.IsDeleted {
			return c, fmt.Errorf("%w: product not found: %s", apperrors.ErrValidation, spec.ProductID)
		}
		if spec.Quantity == 0 {
			continue
		}

		discount := decimal.Zero
		if spec.Discount != nil {
			discount = *spec.Discount
		} else if idx := c.indexOf(spec.ProductID); idx >= 0 {
			prev := c.Lines[idx]
			discount = pricing.RescaleLineDiscount(prev.Discount, prev.Quantity, spec.Quantity)
		}
		if _, err := pricing.LineSubtotal(product.Price, spec.Quantity, discount); err != nil {
			return c, fmt.Errorf("%w: product %s: %v", apperrors.ErrValidation, spec.ProductID, err)
		}

		next.Lines = append(next.Lines, Line{
			ProductID:    product.ProductID,
			ProductName:  product.Name,
			ProductSKU:   product.SKU,
			ProductPrice: product.Price,
			UnitPrice:    product.Price,
			Quantity:     spec.Quantity,
			Discount:     discount,
			Notes:        spec.Notes,
		})
	}
	return next, nil
}

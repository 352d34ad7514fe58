package pricing

import (
	"errors"
	"fmt"

	"github.com/SscSPs/pos_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// MoneyPlaces is the number of decimal places amounts derived from a
// percentage are rounded to.
const MoneyPlaces = 2

var hundred = decimal.NewFromInt(100)

var (
	ErrNonPositiveQuantity = errors.New("quantity must be positive")
	ErrNegativeDiscount    = errors.New("discount must not be negative")
	ErrDiscountExceedsLine = errors.New("discount exceeds line amount")
	ErrNegativePrice       = errors.New("unit price must not be negative")
	ErrInsufficientCash    = errors.New("cash received is less than total")
)

// LineSubtotal returns unitPrice * quantity - discount, where discount is the
// total for the line. A discount larger than the line amount is rejected
// rather than clamped.
func LineSubtotal(unitPrice decimal.Decimal, quantity int64, discount decimal.Decimal) (decimal.Decimal, error) {
	if quantity <= 0 {
		return decimal.Zero, ErrNonPositiveQuantity
	}
	if unitPrice.IsNegative() {
		return decimal.Zero, ErrNegativePrice
	}
	if discount.IsNegative() {
		return decimal.Zero, ErrNegativeDiscount
	}
	gross := unitPrice.Mul(decimal.NewFromInt(quantity))
	if discount.GreaterThan(gross) {
		return decimal.Zero, fmt.Errorf("%w: discount %s, line %s", ErrDiscountExceedsLine, discount, gross)
	}
	return gross.Sub(discount), nil
}

// RescaleLineDiscount keeps the per-unit discount rate when a line's quantity
// changes: a discount of 100 on one unit becomes 200 on two.
func RescaleLineDiscount(discount decimal.Decimal, oldQuantity, newQuantity int64) decimal.Decimal {
	if oldQuantity <= 0 || newQuantity <= 0 || discount.IsZero() {
		return decimal.Zero
	}
	return discount.Mul(decimal.NewFromInt(newQuantity)).
		Div(decimal.NewFromInt(oldQuantity)).
		Round(MoneyPlaces)
}

// PercentOf returns amount * ratePercent / 100 rounded to MoneyPlaces.
func PercentOf(amount, ratePercent decimal.Decimal) decimal.Decimal {
	return amount.Mul(ratePercent).Div(hundred).Round(MoneyPlaces)
}

// ComputeTotals derives the cart totals from its lines. It is pure and the
// result does not depend on the order of items.
func ComputeTotals(items []domain.TransactionItem, globalDiscount decimal.Decimal, cfg domain.TaxConfig) domain.Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Subtotal)
	}

	tax := decimal.Zero
	if cfg.TaxEnabled {
		tax = PercentOf(subtotal, cfg.TaxRatePercent)
	}
	service := decimal.Zero
	if cfg.ServiceEnabled {
		service = PercentOf(subtotal, cfg.ServiceRatePercent)
	}

	total := subtotal.Add(tax).Add(service).Sub(globalDiscount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return domain.Totals{
		Subtotal:    subtotal,
		Tax:         tax,
		Service:     service,
		Discount:    globalDiscount,
		Total:       total,
		CanCheckout: len(items) > 0,
	}
}

// TotalsConsistent reports whether the totals satisfy
// total == subtotal + tax + service - discount (floored at 0) within tolerance.
func TotalsConsistent(t domain.Totals) bool {
	expected := t.Subtotal.Add(t.Tax).Add(t.Service).Sub(t.Discount)
	if expected.IsNegative() {
		expected = decimal.Zero
	}
	return domain.WithinTolerance(t.Total, expected)
}

// CashChange returns cashReceived - total, rejecting underpayment.
func CashChange(total, cashReceived decimal.Decimal) (decimal.Decimal, error) {
	if cashReceived.LessThan(total) {
		return decimal.Zero, fmt.Errorf("%w: received %s, total %s", ErrInsufficientCash, cashReceived, total)
	}
	return cashReceived.Sub(total), nil
}

// Percentage returns part / whole * 100 rounded to MoneyPlaces, or 0 when whole is 0.
func Percentage(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred).Round(MoneyPlaces)
}

package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus is the lifecycle state of a sale.
type TransactionStatus string

const (
	StatusDraft      TransactionStatus = "DRAFT"
	StatusPending    TransactionStatus = "PENDING"
	StatusPaid       TransactionStatus = "PAID"
	StatusProcessing TransactionStatus = "PROCESSING"
	StatusCompleted  TransactionStatus = "COMPLETED"
	StatusCancelled  TransactionStatus = "CANCELLED"
	StatusRefunded   TransactionStatus = "REFUNDED"
)

// AllStatuses lists every status in lifecycle order.
var AllStatuses = []TransactionStatus{
	StatusDraft, StatusPending, StatusPaid, StatusProcessing,
	StatusCompleted, StatusCancelled, StatusRefunded,
}

// allowedTransitions is the state machine. Anything not listed is rejected.
var allowedTransitions = map[TransactionStatus][]TransactionStatus{
	StatusDraft:      {StatusDraft, StatusPending, StatusPaid, StatusCancelled},
	StatusPending:    {StatusPaid, StatusCancelled},
	StatusPaid:       {StatusProcessing, StatusCompleted, StatusCancelled, StatusRefunded},
	StatusProcessing: {StatusCompleted, StatusCancelled, StatusRefunded},
	StatusCompleted:  {StatusRefunded},
}

// IsValid reports whether s is a known status.
func (s TransactionStatus) IsValid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether the state machine allows moving from s to next.
func (s TransactionStatus) CanTransitionTo(next TransactionStatus) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func (s TransactionStatus) IsTerminal() bool {
	return len(allowedTransitions[s]) == 0
}

// IsEditable reports whether the cart contents may still change.
func (s TransactionStatus) IsEditable() bool {
	return s == StatusDraft
}

// PaymentMethod is how the customer paid.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "CASH"
	PaymentQRIS     PaymentMethod = "QRIS"
	PaymentCard     PaymentMethod = "CARD"
	PaymentTransfer PaymentMethod = "TRANSFER"
)

// IsValid reports whether m is a known payment method.
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentCash, PaymentQRIS, PaymentCard, PaymentTransfer:
		return true
	}
	return false
}

// Transaction is the header of a sale. Items are stored separately and
// always written in the same atomic unit as the header.
type Transaction struct {
	TransactionID   string            `json:"transactionID"`   // Primary Key (UUID)
	Number          string            `json:"number"`          // INV-YYYYMMDD-NNNN or TX-YYYYMMDD-NNNN
	Status          TransactionStatus `json:"status"`          // Lifecycle state
	CashierID       string            `json:"cashierID"`       // Operator at creation
	CashierName     string            `json:"cashierName"`     // Denormalized for historical display
	PaymentMethod   PaymentMethod     `json:"paymentMethod"`   // CASH, QRIS, CARD, TRANSFER
	Subtotal        decimal.Decimal   `json:"subtotal"`        // Sum of item subtotals
	Tax             decimal.Decimal   `json:"tax"`             //
	Service         decimal.Decimal   `json:"service"`         //
	Discount        decimal.Decimal   `json:"discount"`        // Global discount
	Total           decimal.Decimal   `json:"total"`           // subtotal + tax + service - discount
	CashReceived    decimal.Decimal   `json:"cashReceived"`    //
	CashChange      decimal.Decimal   `json:"cashChange"`      //
	Notes           *string           `json:"notes,omitempty"` // Nullable
	TransactionDate time.Time         `json:"transactionDate"` // Sale date used by reports
	StockCommitted  bool              `json:"stockCommitted"`  // Stock decremented and not yet reversed
	IsDeleted       bool              `json:"isDeleted"`       // Soft delete flag
	AuditFields
	Items []TransactionItem `json:"items,omitempty"` // Populated only by reads that ask for items
}

// TotalsBalance reports whether total == subtotal + tax + service - discount within tolerance.
func (t Transaction) TotalsBalance() bool {
	expected := t.Subtotal.Add(t.Tax).Add(t.Service).Sub(t.Discount)
	if expected.IsNegative() {
		expected = decimal.Zero
	}
	return WithinTolerance(t.Total, expected)
}

// Validate checks the header-level invariants.
func (t Transaction) Validate() error {
	if !t.Status.IsValid() {
		return fmt.Errorf("unknown transaction status %q", t.Status)
	}
	if t.PaymentMethod != "" && !t.PaymentMethod.IsValid() {
		return fmt.Errorf("unknown payment method %q", t.PaymentMethod)
	}
	for name, v := range map[string]decimal.Decimal{
		"subtotal": t.Subtotal, "tax": t.Tax, "service": t.Service,
		"discount": t.Discount, "total": t.Total,
		"cash received": t.CashReceived, "cash change": t.CashChange,
	} {
		if v.IsNegative() {
			return fmt.Errorf("%s must not be negative", name)
		}
	}
	if !t.TotalsBalance() {
		return fmt.Errorf("total %s does not equal subtotal %s + tax %s + service %s - discount %s",
			t.Total, t.Subtotal, t.Tax, t.Service, t.Discount)
	}
	return nil
}

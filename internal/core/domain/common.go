package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // Cashier / operator ID
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}

// MoneyTolerance is the largest difference (one hundredth of a currency unit)
// at which two derived amounts are still considered equal.
var MoneyTolerance = decimal.New(1, -2)

// WithinTolerance reports whether a and b differ by less than MoneyTolerance.
func WithinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThan(MoneyTolerance)
}

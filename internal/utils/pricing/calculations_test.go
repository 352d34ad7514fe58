package pricing

import (
	"testing"

	"github.com/SscSPs/pos_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func line(unitPrice, qty, discount int64) domain.TransactionItem {
	sub := d(unitPrice).Mul(d(qty)).Sub(d(discount))
	return domain.TransactionItem{
		UnitPrice: d(unitPrice),
		Quantity:  qty,
		Discount:  d(discount),
		Subtotal:  sub,
	}
}

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		name           string
		items          []domain.TransactionItem
		globalDiscount decimal.Decimal
		cfg            domain.TaxConfig
		want           domain.Totals
	}{
		{
			name:  "empty cart",
			items: nil,
			want:  domain.Totals{Subtotal: d(0), Tax: d(0), Service: d(0), Discount: d(0), Total: d(0), CanCheckout: false},
		},
		{
			name:  "single line no tax",
			items: []domain.TransactionItem{line(15000, 2, 0)},
			want:  domain.Totals{Subtotal: d(30000), Tax: d(0), Service: d(0), Discount: d(0), Total: d(30000), CanCheckout: true},
		},
		{
			name:  "ten percent tax",
			items: []domain.TransactionItem{line(15000, 2, 0)},
			cfg:   domain.TaxConfig{TaxEnabled: true, TaxRatePercent: d(10)},
			want:  domain.Totals{Subtotal: d(30000), Tax: d(3000), Service: d(0), Discount: d(0), Total: d(33000), CanCheckout: true},
		},
		{
			name:  "tax rate ignored when disabled",
			items: []domain.TransactionItem{line(15000, 2, 0)},
			cfg:   domain.TaxConfig{TaxEnabled: false, TaxRatePercent: d(10)},
			want:  domain.Totals{Subtotal: d(30000), Tax: d(0), Service: d(0), Discount: d(0), Total: d(30000), CanCheckout: true},
		},
		{
			name:           "line discount tax service and global discount",
			items:          []domain.TransactionItem{line(15000, 2, 5000), line(2000, 1, 0)},
			globalDiscount: d(1000),
			cfg:            domain.TaxConfig{TaxEnabled: true, TaxRatePercent: d(10), ServiceEnabled: true, ServiceRatePercent: d(5)},
			want:           domain.Totals{Subtotal: d(27000), Tax: d(2700), Service: d(1350), Discount: d(1000), Total: d(30050), CanCheckout: true},
		},
		{
			name:           "global discount larger than cart floors total at zero",
			items:          []domain.TransactionItem{line(1000, 1, 0)},
			globalDiscount: d(5000),
			want:           domain.Totals{Subtotal: d(1000), Tax: d(0), Service: d(0), Discount: d(5000), Total: d(0), CanCheckout: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTotals(tt.items, tt.globalDiscount, tt.cfg)
			assert.True(t, tt.want.Subtotal.Equal(got.Subtotal), "subtotal: want %s got %s", tt.want.Subtotal, got.Subtotal)
			assert.True(t, tt.want.Tax.Equal(got.Tax), "tax: want %s got %s", tt.want.Tax, got.Tax)
			assert.True(t, tt.want.Service.Equal(got.Service), "service: want %s got %s", tt.want.Service, got.Service)
			assert.True(t, tt.want.Discount.Equal(got.Discount), "discount: want %s got %s", tt.want.Discount, got.Discount)
			assert.True(t, tt.want.Total.Equal(got.Total), "total: want %s got %s", tt.want.Total, got.Total)
			assert.Equal(t, tt.want.CanCheckout, got.CanCheckout)
			assert.True(t, TotalsConsistent(got))
		})
	}
}

func TestComputeTotals_OrderIndependent(t *testing.T) {
	cfg := domain.TaxConfig{TaxEnabled: true, TaxRatePercent: decimal.RequireFromString("11")}
	a := []domain.TransactionItem{line(1999, 3, 0), line(4500, 1, 500), line(700, 7, 100)}
	b := []domain.TransactionItem{a[2], a[0], a[1]}

	first := ComputeTotals(a, d(250), cfg)
	second := ComputeTotals(b, d(250), cfg)
	again := ComputeTotals(a, d(250), cfg)

	assert.True(t, first.Total.Equal(second.Total))
	assert.True(t, first.Total.Equal(again.Total))
	assert.True(t, first.Tax.Equal(second.Tax))
}

func TestLineSubtotal(t *testing.T) {
	sub, err := LineSubtotal(d(15000), 2, d(5000))
	require.NoError(t, err)
	assert.True(t, sub.Equal(d(25000)))

	_, err = LineSubtotal(d(15000), 0, d(0))
	assert.ErrorIs(t, err, ErrNonPositiveQuantity)

	_, err = LineSubtotal(d(15000), -1, d(0))
	assert.ErrorIs(t, err, ErrNonPositiveQuantity)

	_, err = LineSubtotal(d(15000), 1, d(-1))
	assert.ErrorIs(t, err, ErrNegativeDiscount)

	_, err = LineSubtotal(d(100), 1, d(101))
	assert.ErrorIs(t, err, ErrDiscountExceedsLine)
}

func TestRescaleLineDiscount(t *testing.T) {
	assert.True(t, RescaleLineDiscount(d(100), 1, 2).Equal(d(200)))
	assert.True(t, RescaleLineDiscount(d(200), 2, 1).Equal(d(100)))
	assert.True(t, RescaleLineDiscount(d(100), 3, 2).Equal(decimal.RequireFromString("66.67")))
	assert.True(t, RescaleLineDiscount(d(0), 1, 5).IsZero())
	assert.True(t, RescaleLineDiscount(d(100), 0, 5).IsZero())
}

func TestCashChange(t *testing.T) {
	change, err := CashChange(d(33000), d(35000))
	require.NoError(t, err)
	assert.True(t, change.Equal(d(2000)))

	change, err = CashChange(d(33000), d(33000))
	require.NoError(t, err)
	assert.True(t, change.IsZero())

	_, err = CashChange(d(33000), d(30000))
	assert.ErrorIs(t, err, ErrInsufficientCash)
}

func TestPercentage(t *testing.T) {
	assert.True(t, Percentage(d(1), d(4)).Equal(d(25)))
	assert.True(t, Percentage(d(1), d(3)).Equal(decimal.RequireFromString("33.33")))
	assert.True(t, Percentage(d(5), d(0)).IsZero())
}

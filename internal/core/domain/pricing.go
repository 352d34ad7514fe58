package domain

import "github.com/shopspring/decimal"

// TaxConfig controls the percentage surcharges applied on top of the subtotal.
type TaxConfig struct {
	TaxEnabled         bool            `json:"taxEnabled"`
	TaxRatePercent     decimal.Decimal `json:"taxRatePercent"`
	ServiceEnabled     bool            `json:"serviceEnabled"`
	ServiceRatePercent decimal.Decimal `json:"serviceRatePercent"`
}

// Totals is the output of the pricing engine for a cart.
type Totals struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	Tax         decimal.Decimal `json:"tax"`
	Service     decimal.Decimal `json:"service"`
	Discount    decimal.Decimal `json:"discount"`
	Total       decimal.Decimal `json:"total"`
	CanCheckout bool            `json:"canCheckout"`
}

package domain

import "github.com/shopspring/decimal"

// Product is the read-only catalog view the lifecycle needs for line snapshots.
type Product struct {
	ProductID string          `json:"productID"`
	Name      string          `json:"name"`
	SKU       string          `json:"sku"`
	Price     decimal.Decimal `json:"price"`
	Stock     int64           `json:"stock"`
	IsDeleted bool            `json:"isDeleted"`
}

// StockAdjustment is the outcome of one atomic stock update.
type StockAdjustment struct {
	ProductID string `json:"productID"`
	Delta     int64  `json:"delta"`
	NewStock  int64  `json:"newStock"`
	Negative  bool   `json:"negative"` // Stock went below zero (oversold)
}

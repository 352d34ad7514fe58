package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a row of the transactions table (a sale header).
type Transaction struct {
	TransactionID   string          `json:"transactionID"`   // Primary Key
	Number          string          `json:"number"`          // Unique
	Status          string          `json:"status"`          // CHECK constrained
	CashierID       string          `json:"cashierID"`       //
	CashierName     string          `json:"cashierName"`     //
	PaymentMethod   string          `json:"paymentMethod"`   // CHECK constrained
	Subtotal        decimal.Decimal `json:"subtotal"`        // NUMERIC(15,2)
	Tax             decimal.Decimal `json:"tax"`             // NUMERIC(15,2)
	Service         decimal.Decimal `json:"service"`         // NUMERIC(15,2)
	Discount        decimal.Decimal `json:"discount"`        // NUMERIC(15,2)
	Total           decimal.Decimal `json:"total"`           // NUMERIC(15,2)
	CashReceived    decimal.Decimal `json:"cashReceived"`    // NUMERIC(15,2)
	CashChange      decimal.Decimal `json:"cashChange"`      // NUMERIC(15,2)
	Notes           *string         `json:"notes"`           // Nullable
	TransactionDate time.Time       `json:"transactionDate"` //
	StockCommitted  bool            `json:"stockCommitted"`  //
	IsDeleted       bool            `json:"isDeleted"`       //
	AuditFields
}

// TransactionItem is a row of the transaction_items table.
type TransactionItem struct {
	ItemID        string          `json:"itemID"`        // Primary Key
	TransactionID string          `json:"transactionID"` // FK -> transactions (ON DELETE CASCADE)
	ProductID     string          `json:"productID"`     // FK -> products
	ProductName   string          `json:"productName"`   // Snapshot
	ProductPrice  decimal.Decimal `json:"productPrice"`  // Snapshot
	ProductSKU    string          `json:"productSku"`    // Snapshot
	Quantity      int64           `json:"quantity"`      // > 0
	UnitPrice     decimal.Decimal `json:"unitPrice"`     //
	Discount      decimal.Decimal `json:"discount"`      //
	Subtotal      decimal.Decimal `json:"subtotal"`      //
	Notes         *string         `json:"notes"`         // Nullable
	CreatedAt     time.Time       `json:"createdAt"`     //
}

// Product is a row of the products table.
type Product struct {
	ProductID string          `json:"productID"`
	Name      string          `json:"name"`
	SKU       string          `json:"sku"`
	Price     decimal.Decimal `json:"price"`
	Stock     int64           `json:"stock"`
	IsDeleted bool            `json:"isDeleted"`
}

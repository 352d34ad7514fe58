package dto

import (
	"time"

	"github.com/SscSPs/pos_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ItemLineRequest is one requested cart line.
type ItemLineRequest struct {
	ProductID string  `json:"productID" binding:"required"`
	Quantity  int64   `json:"quantity" binding:"gte=0"` // 0 removes the line
	Notes     *string `json:"notes,omitempty"`
}

// UpdateItemsRequest replaces the whole item list of a draft.
// ItemDiscounts holds the total line discount per product id; products not
// listed keep their previous per-unit discount.
type UpdateItemsRequest struct {
	Items         []ItemLineRequest          `json:"items" binding:"dive"`
	ItemDiscounts map[string]decimal.Decimal `json:"itemDiscounts,omitempty"`
}

// UpdateTotalsRequest carries pricing engine output to persist.
type UpdateTotalsRequest struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Service  decimal.Decimal `json:"service"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
}

// UpdatePaymentRequest changes the payment method and global discount.
type UpdatePaymentRequest struct {
	PaymentMethod  domain.PaymentMethod `json:"paymentMethod" binding:"required,payment_method"`
	GlobalDiscount decimal.Decimal      `json:"globalDiscount"`
}

// FinalizeRequest records payment details. CashChange is optional; when sent
// it must match cashReceived - total.
type FinalizeRequest struct {
	CashReceived decimal.Decimal  `json:"cashReceived"`
	CashChange   *decimal.Decimal `json:"cashChange,omitempty"`
	Notes        *string          `json:"notes,omitempty"`
}

// StatusChangeRequest is the body of cancel and refund.
type StatusChangeRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// TaxConfigRequest overrides the configured tax and service rates.
type TaxConfigRequest struct {
	TaxEnabled         bool            `json:"taxEnabled"`
	TaxRatePercent     decimal.Decimal `json:"taxRatePercent"`
	ServiceEnabled     bool            `json:"serviceEnabled"`
	ServiceRatePercent decimal.Decimal `json:"serviceRatePercent"`
}

// ToDomain converts the request into a domain.TaxConfig.
func (r TaxConfigRequest) ToDomain() domain.TaxConfig {
	return domain.TaxConfig{
		TaxEnabled:         r.TaxEnabled,
		TaxRatePercent:     r.TaxRatePercent,
		ServiceEnabled:     r.ServiceEnabled,
		ServiceRatePercent: r.ServiceRatePercent,
	}
}

// CreateSaleRequest records a completed sale in one call.
type CreateSaleRequest struct {
	Items          []ItemLineRequest          `json:"items" binding:"required,min=1,dive"`
	ItemDiscounts  map[string]decimal.Decimal `json:"itemDiscounts,omitempty"`
	PaymentMethod  domain.PaymentMethod       `json:"paymentMethod" binding:"required,payment_method"`
	GlobalDiscount decimal.Decimal            `json:"globalDiscount"`
	CashReceived   decimal.Decimal            `json:"cashReceived"`
	Notes          *string                    `json:"notes,omitempty"`
	TaxConfig      *TaxConfigRequest          `json:"taxConfig,omitempty"`
}

// ListTransactionsParams are the query parameters of the transaction report.
type ListTransactionsParams struct {
	StartDate     string  `form:"startDate"`                            // YYYY-MM-DD, inclusive
	EndDate       string  `form:"endDate"`                              // YYYY-MM-DD, inclusive
	Status        string  `form:"status" binding:"omitempty,tx_status"` // comma separated
	PaymentMethod string  `form:"paymentMethod" binding:"omitempty,payment_method"`
	CashierID     string  `form:"cashierID"`
	Limit         int     `form:"limit" binding:"omitempty,min=1,max=100"`
	NextToken     *string `form:"nextToken"`
}

// TransactionItemResponse defines the data returned for a line item.
type TransactionItemResponse struct {
	ItemID       string          `json:"itemID"`
	ProductID    string          `json:"productID"`
	ProductName  string          `json:"productName"`
	ProductSKU   string          `json:"productSku"`
	ProductPrice decimal.Decimal `json:"productPrice"`
	Quantity     int64           `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	Discount     decimal.Decimal `json:"discount"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	Notes        *string         `json:"notes,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID   string                    `json:"transactionID"`
	Number          string                    `json:"number"`
	Status          string                    `json:"status"`
	CashierID       string                    `json:"cashierID"`
	CashierName     string                    `json:"cashierName"`
	PaymentMethod   string                    `json:"paymentMethod"`
	Subtotal        decimal.Decimal           `json:"subtotal"`
	Tax             decimal.Decimal           `json:"tax"`
	Service         decimal.Decimal           `json:"service"`
	Discount        decimal.Decimal           `json:"discount"`
	Total           decimal.Decimal           `json:"total"`
	CashReceived    decimal.Decimal           `json:"cashReceived"`
	CashChange      decimal.Decimal           `json:"cashChange"`
	Notes           *string                   `json:"notes,omitempty"`
	TransactionDate time.Time                 `json:"transactionDate"`
	CreatedAt       time.Time                 `json:"createdAt"`
	UpdatedAt       time.Time                 `json:"updatedAt"`
	Items           []TransactionItemResponse `json:"items,omitempty"`
}

// ToTransactionItemResponse converts a domain.TransactionItem to its DTO.
func ToTransactionItemResponse(item domain.TransactionItem) TransactionItemResponse {
	return TransactionItemResponse{
		ItemID:       item.ItemID,
		ProductID:    item.ProductID,
		ProductName:  item.ProductName,
		ProductSKU:   item.ProductSKU,
		ProductPrice: item.ProductPrice,
		Quantity:     item.Quantity,
		UnitPrice:    item.UnitPrice,
		Discount:     item.Discount,
		Subtotal:     item.Subtotal,
		Notes:        item.Notes,
		CreatedAt:    item.CreatedAt,
	}
}

// ToTransactionItemResponses converts a slice of items.
func ToTransactionItemResponses(items []domain.TransactionItem) []TransactionItemResponse {
	responses := make([]TransactionItemResponse, len(items))
	for i, item := range items {
		responses[i] = ToTransactionItemResponse(item)
	}
	return responses
}

// ToTransactionResponse converts a domain.Transaction (and its items, if loaded) to its DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	resp := TransactionResponse{
		TransactionID:   txn.TransactionID,
		Number:          txn.Number,
		Status:          string(txn.Status),
		CashierID:       txn.CashierID,
		CashierName:     txn.CashierName,
		PaymentMethod:   string(txn.PaymentMethod),
		Subtotal:        txn.Subtotal,
		Tax:             txn.Tax,
		Service:         txn.Service,
		Discount:        txn.Discount,
		Total:           txn.Total,
		CashReceived:    txn.CashReceived,
		CashChange:      txn.CashChange,
		Notes:           txn.Notes,
		TransactionDate: txn.TransactionDate,
		CreatedAt:       txn.CreatedAt,
		UpdatedAt:       txn.LastUpdatedAt,
	}
	if len(txn.Items) > 0 {
		resp.Items = ToTransactionItemResponses(txn.Items)
	}
	return resp
}

// ToTransactionResponses converts a slice of domain.Transaction.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txns))
	for i := range txns {
		responses[i] = ToTransactionResponse(&txns[i])
	}
	return responses
}

package dto

import (
	"github.com/SscSPs/pos_ledger/internal/core/cart"
	"github.com/SscSPs/pos_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CartEditRequest is one edit of a quote. Which fields are read depends on Kind.
type CartEditRequest struct {
	Kind          string               `json:"kind" binding:"required,oneof=ADD_ITEM SET_QUANTITY SET_LINE_DISCOUNT REMOVE_ITEM SET_GLOBAL_DISCOUNT SET_PAYMENT_METHOD SET_TAX_CONFIG"`
	ProductID     string               `json:"productID,omitempty"`
	Quantity      int64                `json:"quantity,omitempty"`
	Amount        decimal.Decimal      `json:"amount"`
	PaymentMethod domain.PaymentMethod `json:"paymentMethod,omitempty"`
	TaxConfig     *TaxConfigRequest    `json:"taxConfig,omitempty"`
}

// CartQuoteRequest previews a cart without persisting it. When TransactionID
// is set, the edits are applied on top of that draft's current contents.
type CartQuoteRequest struct {
	TransactionID *string           `json:"transactionID,omitempty"`
	Edits         []CartEditRequest `json:"edits" binding:"dive"`
}

// CartQuoteResponse is the resulting cart and its totals.
type CartQuoteResponse struct {
	Cart   cart.Cart     `json:"cart"`
	Totals domain.Totals `json:"totals"`
}

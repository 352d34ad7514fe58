package dto

// AdjustStockRequest applies a stock delta to one product.
// Positive restocks, negative removes.
type AdjustStockRequest struct {
	Delta int64   `json:"delta" binding:"required"`
	Note  *string `json:"note,omitempty"`
}

package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/pos_ledger/internal/core/ports/services"
	"github.com/SscSPs/pos_ledger/internal/dto"
	"github.com/SscSPs/pos_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

type inventoryHandler struct {
	inventoryService portssvc.InventorySvc
}

// RegisterInventoryRoutes registers the manual stock adjustment route
func RegisterInventoryRoutes(rg *gin.RouterGroup, inventoryService portssvc.InventorySvc) {
	h := &inventoryHandler{inventoryService: inventoryService}
	rg.POST("/inventory/:product_id/adjust", h.adjustStock)
}

// adjustStock godoc
// @Summary Adjust product stock
// @Description Applies a signed delta to a product's stock. Positive restocks, negative removes.
// @Tags inventory
// @Accept json
// @Produce json
// @Param product_id path string true "Product ID"
// @Param adjustment body dto.AdjustStockRequest true "Stock delta"
// @Success 200 {object} domain.StockAdjustment
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Product not found"
// @Failure 409 {object} map[string]string "Insufficient stock"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /inventory/{product_id}/adjust [post]
func (h *inventoryHandler) adjustStock(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	productID := c.Param("product_id")
	if productID == "" {
		logger.Error("Product ID missing from path for adjustStock")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product ID required in path"})
		return
	}

	var req dto.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind adjust stock request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	logger = logger.With(slog.String("product_id", productID), slog.Int64("delta", req.Delta))
	if req.Note != nil {
		logger = logger.With(slog.String("note", *req.Note))
	}

	adj, err := h.inventoryService.AdjustStock(c.Request.Context(), productID, req.Delta)
	if err != nil {
		respondError(c, logger, err, "Failed to adjust stock")
		return
	}

	logger.Info("Stock adjusted", slog.Int64("new_stock", adj.NewStock))
	c.JSON(http.StatusOK, adj)
}

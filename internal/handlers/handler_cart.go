package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/pos_ledger/internal/core/ports/services"
	"github.com/SscSPs/pos_ledger/internal/dto"
	"github.com/SscSPs/pos_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

type cartHandler struct {
	cartService portssvc.CartSvc
}

// RegisterCartRoutes registers the cart preview route
func RegisterCartRoutes(rg *gin.RouterGroup, cartService portssvc.CartSvc) {
	registerValidators()
	h := &cartHandler{cartService: cartService}
	rg.POST("/cart/quote", h.quote)
}

// quote godoc
// @Summary Preview a cart
// @Description Applies edits to an empty cart, or to a draft's current contents, and returns the cart with its totals. Nothing is persisted.
// @Tags cart
// @Accept json
// @Produce json
// @Param quote body dto.CartQuoteRequest true "Edits to apply"
// @Success 200 {object} dto.CartQuoteResponse
// @Failure 400 {object} map[string]string "Invalid edit or unknown product"
// @Failure 404 {object} map[string]string "Draft not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /cart/quote [post]
func (h *cartHandler) quote(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CartQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind cart quote request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	resp, err := h.cartService.Quote(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "Failed to quote cart")
		return
	}
	c.JSON(http.StatusOK, resp)
}

package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/SscSPs/pos_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/pos_ledger/internal/core/ports/services"
	"github.com/SscSPs/pos_ledger/internal/dto"
	"github.com/SscSPs/pos_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// transactionHandler handles HTTP requests for the sale lifecycle
type transactionHandler struct {
	transactionService portssvc.TransactionSvcFacade
}

// newTransactionHandler creates a new transactionHandler
func newTransactionHandler(ts portssvc.TransactionSvcFacade) *transactionHandler {
	return &transactionHandler{
		transactionService: ts,
	}
}

// RegisterTransactionRoutes registers routes for drafts, sales and their lifecycle
func RegisterTransactionRoutes(rg *gin.RouterGroup, transactionService portssvc.TransactionSvcFacade) {
	registerValidators()
	h := newTransactionHandler(transactionService)

	txns := rg.Group("/transactions")
	{
		txns.POST("", h.createDraft)
		txns.POST("/sale", h.createSale)
		txns.GET("/:transaction_id", h.getTransaction)
		txns.DELETE("/:transaction_id", h.deleteTransaction)
		txns.GET("/:transaction_id/items", h.getItems)
		txns.PUT("/:transaction_id/items", h.updateItems)
		txns.PUT("/:transaction_id/totals", h.updateTotals)
		txns.PUT("/:transaction_id/payment", h.updatePayment)
		txns.POST("/:transaction_id/hold", h.hold)
		txns.POST("/:transaction_id/finalize", h.finalize)
		txns.POST("/:transaction_id/processing", h.startProcessing)
		txns.POST("/:transaction_id/complete", h.complete)
		txns.POST("/:transaction_id/cancel", h.cancel)
		txns.POST("/:transaction_id/refund", h.refund)
	}
}

// cashierFromContext builds the operator from the authenticated token. It
// writes 401 and returns false when the token carried no subject.
func cashierFromContext(c *gin.Context, logger *slog.Logger) (portssvc.Cashier, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return portssvc.Cashier{}, false
	}
	return portssvc.Cashier{ID: userID, Name: middleware.GetCashierNameFromContext(c)}, true
}

// transactionIDParam reads the path ID, writing 400 when it is empty.
func transactionIDParam(c *gin.Context, logger *slog.Logger) (string, bool) {
	transactionID := c.Param("transaction_id")
	if transactionID == "" {
		logger.Error("Transaction ID missing from path")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Transaction ID required in path"})
		return "", false
	}
	return transactionID, true
}

// createDraft godoc
// @Summary Open an empty draft
// @Description Creates a DRAFT transaction with a TX- number, CASH payment and zero totals
// @Tags transactions
// @Produce json
// @Success 201 {object} dto.TransactionResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Number allocation contention"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /transactions [post]
func (h *transactionHandler) createDraft(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	cashier, ok := cashierFromContext(c, logger)
	if !ok {
		return
	}

	txn, err := h.transactionService.CreateEmptyDraft(c.Request.Context(), cashier)
	if err != nil {
		respondError(c, logger, err, "Failed to create draft")
		return
	}

	logger.Info("Draft created", slog.String("transaction_id", txn.TransactionID), slog.String("number", txn.Number))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// createSale godoc
// @Summary Record a completed sale
// @Description Prices the cart, assigns an INV- number, decrements stock and stores the sale as COMPLETED in one step
// @Tags transactions
// @Accept json
// @Produce json
// @Param sale body dto.CreateSaleRequest true "Sale details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Insufficient stock or contention"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /transactions/sale [post]
func (h *transactionHandler) createSale(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	cashier, ok := cashierFromContext(c, logger)
	if !ok {
		return
	}

	var req dto.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind create sale request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	txn, err := h.transactionService.CreateSale(c.Request.Context(), req, cashier)
	if err != nil {
		respondError(c, logger, err, "Failed to record sale")
		return
	}

	logger.Info("Sale recorded",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("number", txn.Number),
		slog.String("total", txn.Total.StringFixed(2)))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// getTransaction godoc
// @Summary Get a transaction
// @Description Returns a transaction with its items
// @Tags transactions
// @Produce json
// @Param transaction_id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /transactions/{transaction_id} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID, ok := transactionIDParam(c, logger)
	if !ok {
		return
	}

	txn, err := h.transactionService.GetTransaction(c.Request.Context(), transactionID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// getItems godoc
// @Summary List transaction items
// @Tags transactions
// @Produce json
// @Param transaction_id path string true "Transaction ID"
// @Success 200 {array} dto.TransactionItemResponse
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /transactions/{transaction_id}/items [get]
func (h *transactionHandler) getItems(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID, ok := transactionIDParam(c, logger)
	if !ok {
		return
	}

	items, err := h.transactionService.GetItems(c.Request.Context(), transactionID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve items")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionItemResponses(items))
}

// updateItems godoc
// @Summary Replace the items of a draft
// @Description Replaces the whole item list. Unknown products reject the request and nothing is written.
// @Tags transactions
// @Accept json
// @Produce json
// @Param transaction_id path string true "Transaction ID"
// @Param items body dto.UpdateItemsRequest true "New item list"
// @Success 200 {array} dto.TransactionItemResponse
// @Failure 400 {object} map[string]string "Invalid input or not a draft"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /transactions/{transaction_id}/items [put]
func (h *transactionHandler) updateItems(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID, ok := transactionIDParam(c, logger)
	if !ok {
		return
	}
	cashier, ok := cashierFromContext(c, logger)
	if !ok {
		return
	}

	var req dto.UpdateItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind update items request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	items, err := h.transactionService.UpdateItems(c.Request.Context(), transactionID, req, cashier)
	if err != nil {
		respondError(c, logger, err, "Failed to update items")
		return
	}

	logger.Info("Items replaced", slog.String("transaction_id", transactionID), slog.Int("item_count", len(items)))
	c.JSON(http.StatusOK, dto.ToTransactionItemResponses(items))
}

// updateTotals godoc
// @Summary Persist draft totals
// @Description Stores computed totals on a draft after checking they balance and match the items
// @Tags transactions
// @Accept json
// @Produce json
// @Param transaction_id path string true "Transaction ID"
// @Param totals body dto.UpdateTotalsRequest true "Totals"
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input or not a draft"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 422 {object} map[string]string "Totals inconsistent"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /transactions/{transaction_id}/totals [put]
func (h *transactionHandler) updateTotals(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID, ok := transactionIDParam(c, logger)
	if !ok {
		return
	}
	cashier, ok := cashierFromContext(c, logger)
	if !ok {
		return
	}

	var req dto.UpdateTotalsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind update totals request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	txn, err := h.transactionService.UpdateTotals(c.Request.Context(), transactionID, req, cashier)
	if err != nil {
		respondError(c, logger, err, "Failed to update totals")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// updatePayment godoc
// @Summary Set payment method and global discount
// @Tags transactions
// @Accept json
// @Produce json
// @Param transaction_id path string true "Transaction ID"
// @Param payment body dto.UpdatePaymentRequest true "Payment details"
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input or not a draft"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /transactions/{transaction_id}/payment [put]
func (h *transactionHandler) updatePayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID, ok := transactionIDParam(c, logger)
	if !ok {
		return
	}
	cashier, ok := cashierFromContext(c, logger)
	if !ok {
		return
	}

	var req dto.UpdatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind update payment request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	txn, err := h.transactionService.UpdatePayment(c.Request.Context(), transactionID, req, cashier)
	if err != nil {
		respondError(c, logger, err, "Failed to update payment")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// hold godoc
// @Summary Park a draft
// @Description Moves a DRAFT to PENDING
// @Tags transactions
// @Produce json
// @Param transaction_id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Transition not allowed"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /transactions/{transaction_id}/hold [post]
func (h *transactionHandler) hold(c *gin.Context) {
	h.simpleTransition(c, "Failed to hold transaction", h.transactionService.Hold)
}

// startProcessing godoc
// @Summary Start processing a paid order
// @Description Moves PAID to PROCESSING
// @Tags transactions
// @Produce json
// @Param transaction_id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Transition not allowed"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /transactions/{transaction_id}/processing [post]
func (h *transactionHandler) startProcessing(c *gin.Context) {
	h.simpleTransition(c, "Failed to start processing", h.transactionService.StartProcessing)
}

// complete godoc
// @Summary Complete a paid order
// @Description Moves PAID or PROCESSING to COMPLETED
// @Tags transactions
// @Produce json
// @Param transaction_id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Transition not allowed"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /transactions/{transaction_id}/complete [post]
func (h *transactionHandler) complete(c *gin.Context) {
	h.simpleTransition(c, "Failed to complete transaction", h.transactionService.Complete)
}

func (h *transactionHandler) simpleTransition(
	c *gin.Context,
	failMsg string,
	op func(ctx context.Context, transactionID string, cashier portssvc.Cashier) (*domain.Transaction, error),
) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID, ok := transactionIDParam(c, logger)
	if !ok {
		return
	}
	cashier, ok := cashierFromContext(c, logger)
	if !ok {
		return
	}

	txn, err := op(c.Request.Context(), transactionID, cashier)
	if err != nil {
		respondError(c, logger, err, failMsg)
		return
	}

	logger.Info("Transaction status changed", slog.String("transaction_id", transactionID), slog.String("status", string(txn.Status)))
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// finalize godoc
// @Summary Take payment for a draft
// @Description Moves DRAFT or PENDING to PAID, assigns the INV- number and decrements stock
// @Tags transactions
// @Accept json
// @Produce json
// @Param transaction_id path string true "Transaction ID"
// @Param payment body dto.FinalizeRequest true "Payment received"
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input, empty cart or transition not allowed"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 409 {object} map[string]string "Insufficient stock or contention"
// @Failure 422 {object} map[string]string "Totals inconsistent"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /transactions/{transaction_id}/finalize [post]
func (h *transactionHandler) finalize(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID, ok := transactionIDParam(c, logger)
	if !ok {
		return
	}
	cashier, ok := cashierFromContext(c, logger)
	if !ok {
		return
	}

	var req dto.FinalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind finalize request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	txn, err := h.transactionService.Finalize(c.Request.Context(), transactionID, req, cashier)
	if err != nil {
		respondError(c, logger, err, "Failed to finalize transaction")
		return
	}

	logger.Info("Transaction finalized",
		slog.String("transaction_id", transactionID),
		slog.String("number", txn.Number),
		slog.String("total", txn.Total.StringFixed(2)))
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// cancel godoc
// @Summary Cancel a transaction
// @Description Moves a non-completed transaction to CANCELLED and restores stock if it was taken
// @Tags transactions
// @Accept json
// @Produce json
// @Param transaction_id path string true "Transaction ID"
// @Param reason body dto.StatusChangeRequest false "Reason"
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Transition not allowed"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /transactions/{transaction_id}/cancel [post]
func (h *transactionHandler) cancel(c *gin.Context) {
	h.reversal(c, "Failed to cancel transaction", h.transactionService.Cancel)
}

// refund godoc
// @Summary Refund a paid transaction
// @Description Moves PAID, PROCESSING or COMPLETED to REFUNDED and restores stock
// @Tags transactions
// @Accept json
// @Produce json
// @Param transaction_id path string true "Transaction ID"
// @Param reason body dto.StatusChangeRequest false "Reason"
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Transition not allowed"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /transactions/{transaction_id}/refund [post]
func (h *transactionHandler) refund(c *gin.Context) {
	h.reversal(c, "Failed to refund transaction", h.transactionService.Refund)
}

func (h *transactionHandler) reversal(
	c *gin.Context,
	failMsg string,
	op func(ctx context.Context, transactionID string, req dto.StatusChangeRequest, cashier portssvc.Cashier) (*domain.Transaction, error),
) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID, ok := transactionIDParam(c, logger)
	if !ok {
		return
	}
	cashier, ok := cashierFromContext(c, logger)
	if !ok {
		return
	}

	// The body is optional.
	var req dto.StatusChangeRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Warn("Failed to bind status change request", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
			return
		}
	}

	txn, err := op(c.Request.Context(), transactionID, req, cashier)
	if err != nil {
		respondError(c, logger, err, failMsg)
		return
	}

	logger.Info("Transaction reversed", slog.String("transaction_id", transactionID), slog.String("status", string(txn.Status)))
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// deleteTransaction godoc
// @Summary Soft delete a transaction
// @Description Hides a non-terminal transaction from reads and reports. Stock is not restored.
// @Tags transactions
// @Param transaction_id path string true "Transaction ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Transaction is terminal"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /transactions/{transaction_id} [delete]
func (h *transactionHandler) deleteTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID, ok := transactionIDParam(c, logger)
	if !ok {
		return
	}
	cashier, ok := cashierFromContext(c, logger)
	if !ok {
		return
	}

	if err := h.transactionService.SoftDelete(c.Request.Context(), transactionID, cashier); err != nil {
		respondError(c, logger, err, "Failed to delete transaction")
		return
	}

	logger.Info("Transaction deleted", slog.String("transaction_id", transactionID))
	c.Status(http.StatusNoContent)
}

package handlers

import (
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/SscSPs/pos_ledger/internal/core/ports/services"
	"github.com/SscSPs/pos_ledger/internal/dto"
	"github.com/SscSPs/pos_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// expenseHandler handles HTTP requests for operating expenses
type expenseHandler struct {
	expenseService portssvc.ExpenseSvc
	location       *time.Location
}

// RegisterExpenseRoutes registers routes for recording and removing expenses
func RegisterExpenseRoutes(rg *gin.RouterGroup, expenseService portssvc.ExpenseSvc, loc *time.Location) {
	h := &expenseHandler{expenseService: expenseService, location: loc}

	expenses := rg.Group("/expenses")
	{
		expenses.POST("", h.createExpense)
		expenses.DELETE("/:expense_id", h.deleteExpense)
	}
}

// createExpense godoc
// @Summary Record an expense
// @Tags expenses
// @Accept json
// @Produce json
// @Param expense body dto.CreateExpenseRequest true "Expense details"
// @Success 201 {object} dto.ExpenseResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /expenses [post]
func (h *expenseHandler) createExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	cashier, ok := cashierFromContext(c, logger)
	if !ok {
		return
	}

	var req dto.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind create expense request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	expense, err := h.expenseService.RecordExpense(c.Request.Context(), req, cashier)
	if err != nil {
		respondError(c, logger, err, "Failed to record expense")
		return
	}

	logger.Info("Expense recorded", slog.String("expense_id", expense.ExpenseID), slog.String("category", expense.Category))
	c.JSON(http.StatusCreated, dto.ToExpenseResponse(expense, h.location))
}

// deleteExpense godoc
// @Summary Soft delete an expense
// @Tags expenses
// @Param expense_id path string true "Expense ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Expense not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /expenses/{expense_id} [delete]
func (h *expenseHandler) deleteExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	expenseID := c.Param("expense_id")
	if expenseID == "" {
		logger.Error("Expense ID missing from path for deleteExpense")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Expense ID required in path"})
		return
	}
	cashier, ok := cashierFromContext(c, logger)
	if !ok {
		return
	}

	if err := h.expenseService.SoftDeleteExpense(c.Request.Context(), expenseID, cashier); err != nil {
		respondError(c, logger, err, "Failed to delete expense")
		return
	}

	logger.Info("Expense deleted", slog.String("expense_id", expenseID))
	c.Status(http.StatusNoContent)
}

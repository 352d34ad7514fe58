package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/SscSPs/pos_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/pos_ledger/internal/core/ports/services"
	"github.com/SscSPs/pos_ledger/internal/dto"
	"github.com/SscSPs/pos_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

// reportingHandler handles HTTP requests related to sales reports
type reportingHandler struct {
	reportingService portssvc.ReportingService
	location         *time.Location
	now              func() time.Time
}

// newReportingHandler creates a new reportingHandler. Dates in queries are
// calendar days in loc.
func newReportingHandler(rs portssvc.ReportingService, loc *time.Location) *reportingHandler {
	if loc == nil {
		loc = time.Local
	}
	return &reportingHandler{
		reportingService: rs,
		location:         loc,
		now:              time.Now,
	}
}

// RegisterReportingRoutes registers routes related to sales reports
func RegisterReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService, loc *time.Location) {
	registerValidators()
	h := newReportingHandler(reportingService, loc)

	reportingGroup := rg.Group("/reports")
	{
		reportingGroup.GET("/dashboard", h.getDashboard)
		reportingGroup.GET("/profit-loss", h.getProfitLoss)
		reportingGroup.GET("/transactions", h.getTransactionReport)
		reportingGroup.GET("/expenses", h.getExpenseReport)
	}
}

// dayRange turns inclusive local calendar days into the half-open instant
// range [start 00:00, end+1 00:00) the services expect. Empty strings fall back
// to the given defaults.
func (h *reportingHandler) dayRange(startStr, endStr, defaultStart, defaultEnd string) (time.Time, time.Time, string, string, bool) {
	if startStr == "" {
		startStr = defaultStart
	}
	if endStr == "" {
		endStr = defaultEnd
	}
	start, err := time.ParseInLocation(dateLayout, startStr, h.location)
	if err != nil {
		return time.Time{}, time.Time{}, startStr, endStr, false
	}
	end, err := time.ParseInLocation(dateLayout, endStr, h.location)
	if err != nil {
		return time.Time{}, time.Time{}, startStr, endStr, false
	}
	return start, end.AddDate(0, 0, 1), startStr, endStr, true
}

// monthToDate returns the default range: first day of the current month to today.
func (h *reportingHandler) monthToDate() (string, string) {
	now := h.now().In(h.location)
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, h.location)
	return first.Format(dateLayout), now.Format(dateLayout)
}

// getDashboard godoc
// @Summary Sales dashboard
// @Description Revenue, expenses, daily trends, top products and breakdowns for completed sales in a date range
// @Tags reports
// @Produce json
// @Param startDate query string false "Start date (YYYY-MM-DD)" default(first day of current month)
// @Param endDate query string false "End date, inclusive (YYYY-MM-DD)" default(current date)
// @Param top query int false "Number of top products" default(5)
// @Success 200 {object} dto.DashboardResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /reports/dashboard [get]
func (h *reportingHandler) getDashboard(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.DateRangeParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Invalid dashboard query", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	defStart, defEnd := h.monthToDate()
	from, to, startStr, endStr, ok := h.dayRange(params.StartDate, params.EndDate, defStart, defEnd)
	if !ok {
		logger.Warn("Invalid date format", slog.String("startDate", startStr), slog.String("endDate", endStr))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format. Use YYYY-MM-DD"})
		return
	}

	logger = logger.With(slog.String("startDate", startStr), slog.String("endDate", endStr))
	logger.Info("Received request to generate dashboard")

	dashboard, err := h.reportingService.Dashboard(c.Request.Context(), from, to, params.Top)
	if err != nil {
		respondError(c, logger, err, "Failed to generate dashboard")
		return
	}

	logger.Info("Dashboard generated successfully", slog.Int("transaction_count", dashboard.TransactionCount))
	c.JSON(http.StatusOK, dto.ToDashboardResponse(dashboard, startStr, endStr))
}

// getProfitLoss godoc
// @Summary Generate profit and loss report
// @Description Gross sales, discounts, tax, service and expenses for completed sales in a date range
// @Tags reports
// @Produce json
// @Param startDate query string false "Start date (YYYY-MM-DD)" default(first day of current month)
// @Param endDate query string false "End date, inclusive (YYYY-MM-DD)" default(current date)
// @Success 200 {object} dto.ProfitLossResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /reports/profit-loss [get]
func (h *reportingHandler) getProfitLoss(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	defStart, defEnd := h.monthToDate()
	from, to, startStr, endStr, ok := h.dayRange(c.Query("startDate"), c.Query("endDate"), defStart, defEnd)
	if !ok {
		logger.Warn("Invalid date format", slog.String("startDate", startStr), slog.String("endDate", endStr))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format. Use YYYY-MM-DD"})
		return
	}

	logger = logger.With(slog.String("startDate", startStr), slog.String("endDate", endStr))
	logger.Info("Received request to generate profit and loss report")

	report, err := h.reportingService.ProfitLoss(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, logger, err, "Failed to generate profit and loss report")
		return
	}

	logger.Info("Profit and loss report generated successfully")
	c.JSON(http.StatusOK, dto.ToProfitLossResponse(report, startStr, endStr))
}

// getTransactionReport godoc
// @Summary List transactions
// @Description Pages through transactions newest first with a status summary over the whole filter
// @Tags reports
// @Produce json
// @Param startDate query string false "Start date (YYYY-MM-DD)"
// @Param endDate query string false "End date, inclusive (YYYY-MM-DD)"
// @Param status query string false "Comma separated statuses"
// @Param paymentMethod query string false "CASH, QRIS, CARD or TRANSFER"
// @Param cashierID query string false "Cashier ID"
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.TransactionReportResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /reports/transactions [get]
func (h *reportingHandler) getTransactionReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Invalid transaction report query", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	filter := domain.TransactionFilter{
		Limit:     params.Limit,
		NextToken: params.NextToken,
	}
	if params.StartDate != "" || params.EndDate != "" {
		defStart, defEnd := h.monthToDate()
		from, to, startStr, endStr, ok := h.dayRange(params.StartDate, params.EndDate, defStart, defEnd)
		if !ok {
			logger.Warn("Invalid date format", slog.String("startDate", startStr), slog.String("endDate", endStr))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format. Use YYYY-MM-DD"})
			return
		}
		filter.From, filter.To = &from, &to
	}
	for _, s := range strings.Split(params.Status, ",") {
		if s = strings.ToUpper(strings.TrimSpace(s)); s != "" {
			filter.Statuses = append(filter.Statuses, domain.TransactionStatus(s))
		}
	}
	if params.PaymentMethod != "" {
		method := domain.PaymentMethod(params.PaymentMethod)
		filter.PaymentMethod = &method
	}
	if params.CashierID != "" {
		filter.CashierID = &params.CashierID
	}

	report, err := h.reportingService.TransactionReport(c.Request.Context(), filter)
	if err != nil {
		respondError(c, logger, err, "Failed to generate transaction report")
		return
	}

	logger.Info("Transaction report generated successfully", slog.Int("count", len(report.Transactions)))
	c.JSON(http.StatusOK, dto.ToTransactionReportResponse(report))
}

// getExpenseReport godoc
// @Summary List expenses
// @Description Expenses in a date range with totals per category
// @Tags reports
// @Produce json
// @Param startDate query string false "Start date (YYYY-MM-DD)" default(first day of current month)
// @Param endDate query string false "End date, inclusive (YYYY-MM-DD)" default(current date)
// @Param category query string false "Category, case-insensitive"
// @Success 200 {object} dto.ExpenseReportResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /reports/expenses [get]
func (h *reportingHandler) getExpenseReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListExpensesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Invalid expense report query", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	defStart, defEnd := h.monthToDate()
	from, to, startStr, endStr, ok := h.dayRange(params.StartDate, params.EndDate, defStart, defEnd)
	if !ok {
		logger.Warn("Invalid date format", slog.String("startDate", startStr), slog.String("endDate", endStr))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format. Use YYYY-MM-DD"})
		return
	}

	filter := domain.ExpenseFilter{From: &from, To: &to}
	if category := strings.TrimSpace(params.Category); category != "" {
		filter.Category = &category
	}

	report, err := h.reportingService.ExpenseReport(c.Request.Context(), filter)
	if err != nil {
		respondError(c, logger, err, "Failed to generate expense report")
		return
	}

	logger.Info("Expense report generated successfully", slog.Int("count", len(report.Expenses)))
	c.JSON(http.StatusOK, dto.ToExpenseReportResponse(report, h.location))
}

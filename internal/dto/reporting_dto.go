package dto

import (
	"time"

	"github.com/SscSPs/pos_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DateRangeParams are the query parameters shared by range reports.
type DateRangeParams struct {
	StartDate string `form:"startDate"` // YYYY-MM-DD, defaults to the first day of the current month
	EndDate   string `form:"endDate"`   // YYYY-MM-DD, defaults to today
	Top       int    `form:"top" binding:"omitempty,min=1,max=50"`
}

// DashboardResponse represents the dashboard report response.
type DashboardResponse struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Summary   struct {
		TotalRevenue     decimal.Decimal `json:"totalRevenue"`
		TotalExpense     decimal.Decimal `json:"totalExpense"`
		NetProfit        decimal.Decimal `json:"netProfit"`
		TransactionCount int             `json:"transactionCount"`
	} `json:"summary"`
	DailyRevenueTrend        []domain.DailyAmount  `json:"dailyRevenueTrend"`
	DailyExpenseTrend        []domain.DailyAmount  `json:"dailyExpenseTrend"`
	TopProducts              []domain.ProductSales `json:"topProducts"`
	PaymentMethodBreakdown   []domain.BreakdownRow `json:"paymentMethodBreakdown"`
	ExpenseCategoryBreakdown []domain.BreakdownRow `json:"expenseCategoryBreakdown"`
}

// ProfitLossResponse represents the profit and loss report response.
type ProfitLossResponse struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Sales     struct {
		GrossSales decimal.Decimal `json:"grossSales"`
		Discounts  decimal.Decimal `json:"discounts"`
		NetSales   decimal.Decimal `json:"netSales"`
		Tax        decimal.Decimal `json:"tax"`
		Service    decimal.Decimal `json:"service"`
		Revenue    decimal.Decimal `json:"revenue"`
	} `json:"sales"`
	Expenses []domain.BreakdownRow `json:"expenses"`
	Summary  struct {
		TotalExpense decimal.Decimal `json:"totalExpense"`
		NetProfit    decimal.Decimal `json:"netProfit"`
		Margin       decimal.Decimal `json:"margin"`
	} `json:"summary"`
}

// TransactionReportResponse represents a page of the transaction report.
type TransactionReportResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Summary      struct {
		Count           int                   `json:"count"`
		Total           decimal.Decimal       `json:"total"`
		StatusBreakdown []domain.BreakdownRow `json:"statusBreakdown"`
	} `json:"summary"`
	NextToken *string `json:"nextToken,omitempty"`
}

// ExpenseReportResponse represents the expense report response.
type ExpenseReportResponse struct {
	Expenses          []ExpenseResponse     `json:"expenses"`
	Total             decimal.Decimal       `json:"total"`
	CategoryBreakdown []domain.BreakdownRow `json:"categoryBreakdown"`
}

// ToDashboardResponse converts a domain.Dashboard to its DTO.
func ToDashboardResponse(d *domain.Dashboard, startDate, endDate string) DashboardResponse {
	resp := DashboardResponse{
		StartDate:                startDate,
		EndDate:                  endDate,
		DailyRevenueTrend:        d.DailyRevenueTrend,
		DailyExpenseTrend:        d.DailyExpenseTrend,
		TopProducts:              d.TopProducts,
		PaymentMethodBreakdown:   d.PaymentMethodBreakdown,
		ExpenseCategoryBreakdown: d.ExpenseCategoryBreakdown,
	}
	resp.Summary.TotalRevenue = d.TotalRevenue
	resp.Summary.TotalExpense = d.TotalExpense
	resp.Summary.NetProfit = d.NetProfit
	resp.Summary.TransactionCount = d.TransactionCount
	return resp
}

// ToProfitLossResponse converts a domain.ProfitLossReport to its DTO.
func ToProfitLossResponse(r *domain.ProfitLossReport, startDate, endDate string) ProfitLossResponse {
	resp := ProfitLossResponse{
		StartDate: startDate,
		EndDate:   endDate,
		Expenses:  r.ExpenseBreakdown,
	}
	resp.Sales.GrossSales = r.GrossSales
	resp.Sales.Discounts = r.Discounts
	resp.Sales.NetSales = r.NetSales
	resp.Sales.Tax = r.Tax
	resp.Sales.Service = r.Service
	resp.Sales.Revenue = r.Revenue
	resp.Summary.TotalExpense = r.TotalExpense
	resp.Summary.NetProfit = r.NetProfit
	resp.Summary.Margin = r.Margin
	return resp
}

// ToTransactionReportResponse converts a domain.TransactionReport to its DTO.
func ToTransactionReportResponse(r *domain.TransactionReport) TransactionReportResponse {
	resp := TransactionReportResponse{
		Transactions: ToTransactionResponses(r.Transactions),
		NextToken:    r.NextToken,
	}
	resp.Summary.Count = r.Count
	resp.Summary.Total = r.Total
	resp.Summary.StatusBreakdown = r.StatusBreakdown
	return resp
}

// ToExpenseReportResponse converts a domain.ExpenseReport to its DTO.
func ToExpenseReportResponse(r *domain.ExpenseReport, loc *time.Location) ExpenseReportResponse {
	return ExpenseReportResponse{
		Expenses:          ToExpenseResponses(r.Expenses, loc),
		Total:             r.Total,
		CategoryBreakdown: r.CategoryBreakdown,
	}
}

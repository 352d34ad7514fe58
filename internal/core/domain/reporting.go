package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailyAmount is one local-calendar-day bucket of a trend.
type DailyAmount struct {
	Date   string          `json:"date"` // YYYY-MM-DD in the store's time zone
	Amount decimal.Decimal `json:"amount"`
}

// ProductSales is a top-products row.
type ProductSales struct {
	ProductID   string          `json:"productID"`
	ProductName string          `json:"productName"`
	Quantity    int64           `json:"quantity"`
	Revenue     decimal.Decimal `json:"revenue"` // Sum of line subtotals
}

// BreakdownRow is one group of a group-by with its share of the whole.
type BreakdownRow struct {
	Key        string          `json:"key"`
	Count      int             `json:"count"`
	Amount     decimal.Decimal `json:"amount"`
	Percentage decimal.Decimal `json:"percentage"` // Amount / sum of all groups * 100
}

// Dashboard summarises sales and expenses for a date range.
type Dashboard struct {
	From                     time.Time       `json:"from"`
	To                       time.Time       `json:"to"`
	TotalRevenue             decimal.Decimal `json:"totalRevenue"`
	TotalExpense             decimal.Decimal `json:"totalExpense"`
	NetProfit                decimal.Decimal `json:"netProfit"`
	TransactionCount         int             `json:"transactionCount"`
	DailyRevenueTrend        []DailyAmount   `json:"dailyRevenueTrend"`
	DailyExpenseTrend        []DailyAmount   `json:"dailyExpenseTrend"`
	TopProducts              []ProductSales  `json:"topProducts"`
	PaymentMethodBreakdown   []BreakdownRow  `json:"paymentMethodBreakdown"`
	ExpenseCategoryBreakdown []BreakdownRow  `json:"expenseCategoryBreakdown"`
}

// ProfitLossReport is the income statement for a date range.
type ProfitLossReport struct {
	From             time.Time       `json:"from"`
	To               time.Time       `json:"to"`
	GrossSales       decimal.Decimal `json:"grossSales"` // Sum of unitPrice * quantity
	Discounts        decimal.Decimal `json:"discounts"`  // Line discounts plus global discounts
	NetSales         decimal.Decimal `json:"netSales"`
	Tax              decimal.Decimal `json:"tax"`
	Service          decimal.Decimal `json:"service"`
	Revenue          decimal.Decimal `json:"revenue"` // NetSales + Tax + Service
	TotalExpense     decimal.Decimal `json:"totalExpense"`
	ExpenseBreakdown []BreakdownRow  `json:"expenseBreakdown"`
	NetProfit        decimal.Decimal `json:"netProfit"`
	Margin           decimal.Decimal `json:"margin"` // Percent of revenue
}

// TransactionFilter selects transactions for listings. Nil fields do not filter.
// From is inclusive and To exclusive.
type TransactionFilter struct {
	From          *time.Time
	To            *time.Time
	Statuses      []TransactionStatus
	PaymentMethod *PaymentMethod
	CashierID     *string
	Limit         int
	NextToken     *string
}

// TransactionReport is a page of transactions plus a summary over the whole filter.
type TransactionReport struct {
	Transactions    []Transaction   `json:"transactions"`
	Count           int             `json:"count"`
	Total           decimal.Decimal `json:"total"`
	StatusBreakdown []BreakdownRow  `json:"statusBreakdown"`
	NextToken       *string         `json:"nextToken,omitempty"`
}

// ExpenseFilter selects expenses. From is inclusive and To exclusive.
type ExpenseFilter struct {
	From     *time.Time
	To       *time.Time
	Category *string
}

// ExpenseReport lists expenses with totals per category.
type ExpenseReport struct {
	Expenses          []Expense       `json:"expenses"`
	Total             decimal.Decimal `json:"total"`
	CategoryBreakdown []BreakdownRow  `json:"categoryBreakdown"`
}

// SalesSnapshot is everything the aggregator needs for a range, read at one
// point in time so that headers, items and expenses agree with each other.
type SalesSnapshot struct {
	Transactions []Transaction // COMPLETED, not deleted, Items populated
	Expenses     []Expense     // not deleted
}

package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/SscSPs/pos_ledger/internal/apperrors"
	"github.com/SscSPs/pos_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/pos_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pos_ledger/internal/core/ports/services"
	"github.com/SscSPs/pos_ledger/internal/utils/pricing"
	"github.com/shopspring/decimal"
)

const (
	defaultTopProducts   = 5
	defaultReportPageLen = 20
	maxReportPageLen     = 100
)

// reportingService implements the ReportingService interface. It never writes.
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
	txnReader     portsrepo.TransactionReader
	expenseReader portsrepo.ExpenseReader
	topProducts   int
}

// NewReportingService creates a new reporting service. topProducts is the
// dashboard's default top-N when the caller passes zero.
func NewReportingService(
	repo portsrepo.ReportingRepository,
	txnReader portsrepo.TransactionReader,
	expenseReader portsrepo.ExpenseReader,
	topProducts int,
	opts ...Option,
) portssvc.ReportingService {
	if topProducts < 1 {
		topProducts = defaultTopProducts
	}
	return &reportingService{
		BaseService:   newBaseService(opts...),
		reportingRepo: repo,
		txnReader:     txnReader,
		expenseReader: expenseReader,
		topProducts:   topProducts,
	}
}

// Ensure reportingService implements the ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

// Dashboard generates the sales overview for [from, to).
func (s *reportingService) Dashboard(ctx context.Context, from, to time.Time, topN int) (*domain.Dashboard, error) {
	if err := validateRange(from, to); err != nil {
		return nil, err
	}
	if topN < 1 {
		topN = s.topProducts
	}

	snap, err := s.reportingRepo.GetSalesSnapshot(ctx, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve sales snapshot",
			slog.String("from", from.Format(time.RFC3339)),
			slog.String("to", to.Format(time.RFC3339)))
		return nil, fmt.Errorf("failed to retrieve sales snapshot: %w", err)
	}

	revenueByDay := make(map[string]decimal.Decimal)
	payments := newBreakdown()
	products := newProductTally()
	totalRevenue := decimal.Zero
	for _, txn := range snap.Transactions {
		totalRevenue = totalRevenue.Add(txn.Total)
		day := s.dayKey(txn.TransactionDate)
		revenueByDay[day] = revenueByDay[day].Add(txn.Total)
		payments.add(string(txn.PaymentMethod), txn.Total)
		for _, item := range txn.Items {
			products.add(item)
		}
	}

	expenseByDay := make(map[string]decimal.Decimal)
	categories := newBreakdown()
	totalExpense := decimal.Zero
	for _, e := range snap.Expenses {
		totalExpense = totalExpense.Add(e.Amount)
		day := s.dayKey(e.ExpenseDate)
		expenseByDay[day] = expenseByDay[day].Add(e.Amount)
		categories.add(e.Category, e.Amount)
	}

	report := &domain.Dashboard{
		From:                     from,
		To:                       to,
		TotalRevenue:             totalRevenue,
		TotalExpense:             totalExpense,
		NetProfit:                totalRevenue.Sub(totalExpense),
		TransactionCount:         len(snap.Transactions),
		DailyRevenueTrend:        s.trend(from, to, revenueByDay),
		DailyExpenseTrend:        s.trend(from, to, expenseByDay),
		TopProducts:              products.top(topN),
		PaymentMethodBreakdown:   payments.rows(),
		ExpenseCategoryBreakdown: categories.rows(),
	}

	s.LogInfo(ctx, "Dashboard report generated",
		slog.String("from", from.Format(time.RFC3339)),
		slog.String("to", to.Format(time.RFC3339)),
		slog.Int("transaction_count", report.TransactionCount))
	return report, nil
}

// ProfitLoss generates the income statement for [from, to).
func (s *reportingService) ProfitLoss(ctx context.Context, from, to time.Time) (*domain.ProfitLossReport, error) {
	if err := validateRange(from, to); err != nil {
		return nil, err
	}

	snap, err := s.reportingRepo.GetSalesSnapshot(ctx, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve sales snapshot",
			slog.String("from", from.Format(time.RFC3339)),
			slog.String("to", to.Format(time.RFC3339)))
		return nil, fmt.Errorf("failed to retrieve sales snapshot: %w", err)
	}

	report := &domain.ProfitLossReport{
		From:         from,
		To:           to,
		GrossSales:   decimal.Zero,
		Discounts:    decimal.Zero,
		Tax:          decimal.Zero,
		Service:      decimal.Zero,
		TotalExpense: decimal.Zero,
		Margin:       decimal.Zero,
	}
	for _, txn := range snap.Transactions {
		for _, item := range txn.Items {
			report.GrossSales = report.GrossSales.Add(item.GrossAmount())
			report.Discounts = report.Discounts.Add(item.Discount)
		}
		report.Discounts = report.Discounts.Add(appliedGlobalDiscount(txn))
		report.Tax = report.Tax.Add(txn.Tax)
		report.Service = report.Service.Add(txn.Service)
	}
	report.NetSales = report.GrossSales.Sub(report.Discounts)
	report.Revenue = report.NetSales.Add(report.Tax).Add(report.Service)

	categories := newBreakdown()
	for _, e := range snap.Expenses {
		report.TotalExpense = report.TotalExpense.Add(e.Amount)
		categories.add(e.Category, e.Amount)
	}
	report.ExpenseBreakdown = categories.rows()

	report.NetProfit = report.Revenue.Sub(report.TotalExpense)
	report.Margin = pricing.Percentage(report.NetProfit, report.Revenue)

	s.LogInfo(ctx, "Profit and loss report generated",
		slog.String("from", from.Format(time.RFC3339)),
		slog.String("to", to.Format(time.RFC3339)),
		slog.String("revenue", report.Revenue.String()),
		slog.String("net_profit", report.NetProfit.String()))
	return report, nil
}

// TransactionReport lists one page of matching transactions with a summary of all of them.
func (s *reportingService) TransactionReport(ctx context.Context, filter domain.TransactionFilter) (*domain.TransactionReport, error) {
	if filter.From != nil && filter.To != nil {
		if err := validateRange(*filter.From, *filter.To); err != nil {
			return nil, err
		}
	}
	for _, status := range filter.Statuses {
		if !status.IsValid() {
			return nil, fmt.Errorf("%w: unknown transaction status %q", apperrors.ErrValidation, status)
		}
	}
	if filter.PaymentMethod != nil && !filter.PaymentMethod.IsValid() {
		return nil, fmt.Errorf("%w: unknown payment method %q", apperrors.ErrValidation, *filter.PaymentMethod)
	}
	switch {
	case filter.Limit <= 0:
		filter.Limit = defaultReportPageLen
	case filter.Limit > maxReportPageLen:
		filter.Limit = maxReportPageLen
	}

	txns, nextToken, err := s.txnReader.ListTransactions(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions")
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	groups, err := s.txnReader.SummarizeTransactions(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to summarize transactions")
		return nil, fmt.Errorf("failed to summarize transactions: %w", err)
	}

	report := &domain.TransactionReport{
		Transactions: txns,
		Total:        decimal.Zero,
		NextToken:    nextToken,
	}
	if report.Transactions == nil {
		report.Transactions = []domain.Transaction{}
	}
	for _, g := range groups {
		report.Count += g.Count
		report.Total = report.Total.Add(g.Amount)
	}
	report.StatusBreakdown = withPercentages(groups, report.Total)

	s.LogDebug(ctx, "Transaction report generated",
		slog.Int("page_size", len(report.Transactions)),
		slog.Int("count", report.Count))
	return report, nil
}

// ExpenseReport lists matching expenses with totals per category.
func (s *reportingService) ExpenseReport(ctx context.Context, filter domain.ExpenseFilter) (*domain.ExpenseReport, error) {
	if filter.From != nil && filter.To != nil {
		if err := validateRange(*filter.From, *filter.To); err != nil {
			return nil, err
		}
	}

	expenses, err := s.expenseReader.ListExpenses(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list expenses")
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	report := &domain.ExpenseReport{
		Expenses: expenses,
		Total:    decimal.Zero,
	}
	if report.Expenses == nil {
		report.Expenses = []domain.Expense{}
	}
	categories := newBreakdown()
	for _, e := range report.Expenses {
		report.Total = report.Total.Add(e.Amount)
		categories.add(e.Category, e.Amount)
	}
	report.CategoryBreakdown = categories.rows()
	return report, nil
}

func validateRange(from, to time.Time) error {
	if !from.Before(to) {
		return fmt.Errorf("%w: start of range must be before its end", apperrors.ErrValidation)
	}
	return nil
}

func (s *reportingService) dayKey(t time.Time) string {
	return t.In(s.location).Format("2006-01-02")
}

// trend returns one bucket per local day touched by [from, to), zero-filled.
func (s *reportingService) trend(from, to time.Time, amounts map[string]decimal.Decimal) []domain.DailyAmount {
	start := from.In(s.location)
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, s.location)

	trend := []domain.DailyAmount{}
	for day.Before(to) {
		key := day.Format("2006-01-02")
		amount, ok := amounts[key]
		if !ok {
			amount = decimal.Zero
		}
		trend = append(trend, domain.DailyAmount{Date: key, Amount: amount})
		day = day.AddDate(0, 0, 1)
	}
	return trend
}

// breakdown accumulates a group-by in first-seen key order.
type breakdown struct {
	order  []string
	groups map[string]*domain.BreakdownRow
	total  decimal.Decimal
}

func newBreakdown() *breakdown {
	return &breakdown{groups: make(map[string]*domain.BreakdownRow), total: decimal.Zero}
}

func (b *breakdown) add(key string, amount decimal.Decimal) {
	row, ok := b.groups[key]
	if !ok {
		row = &domain.BreakdownRow{Key: key, Amount: decimal.Zero}
		b.groups[key] = row
		b.order = append(b.order, key)
	}
	row.Count++
	row.Amount = row.Amount.Add(amount)
	b.total = b.total.Add(amount)
}

// rows returns the groups largest amount first; equal amounts keep first-seen order.
func (b *breakdown) rows() []domain.BreakdownRow {
	rows := make([]domain.BreakdownRow, 0, len(b.order))
	for _, key := range b.order {
		rows = append(rows, *b.groups[key])
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Amount.GreaterThan(rows[j].Amount)
	})
	return withPercentages(rows, b.total)
}

func withPercentages(rows []domain.BreakdownRow, total decimal.Decimal) []domain.BreakdownRow {
	out := make([]domain.BreakdownRow, len(rows))
	for i, row := range rows {
		row.Percentage = pricing.Percentage(row.Amount, total)
		out[i] = row
	}
	return out
}

type productTally struct {
	order []string
	sales map[string]*domain.ProductSales
}

func newProductTally() *productTally {
	return &productTally{sales: make(map[string]*domain.ProductSales)}
}

func (p *productTally) add(item domain.TransactionItem) {
	row, ok := p.sales[item.ProductID]
	if !ok {
		row = &domain.ProductSales{ProductID: item.ProductID, ProductName: item.ProductName, Revenue: decimal.Zero}
		p.sales[item.ProductID] = row
		p.order = append(p.order, item.ProductID)
	}
	row.Quantity += item.Quantity
	row.Revenue = row.Revenue.Add(item.Subtotal)
}

// top returns the n best sellers by quantity. Ties keep the order in which
// products first appeared in the snapshot.
func (p *productTally) top(n int) []domain.ProductSales {
	rows := make([]domain.ProductSales, 0, len(p.order))
	for _, id := range p.order {
		rows = append(rows, *p.sales[id])
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Quantity > rows[j].Quantity
	})
	if len(rows) > n {
		rows = rows[:n]
	}
	return rows
}

// appliedGlobalDiscount is the part of the global discount that reduced the
// total. The total is floored at zero, so a discount larger than the cart only
// counts up to subtotal + tax + service.
func appliedGlobalDiscount(txn domain.Transaction) decimal.Decimal {
	applied := txn.Subtotal.Add(txn.Tax).Add(txn.Service).Sub(txn.Total)
	switch {
	case applied.IsNegative():
		return decimal.Zero
	case applied.GreaterThan(txn.Discount):
		return txn.Discount
	}
	return applied
}

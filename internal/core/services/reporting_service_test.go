package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/pos_ledger/internal/apperrors"
	"github.com/SscSPs/pos_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/pos_ledger/internal/core/ports/services"
	"github.com/SscSPs/pos_ledger/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock Reporting Repository ---
type MockReportingRepository struct {
	mock.Mock
}

func (m *MockReportingRepository) GetSalesSnapshot(ctx context.Context, from, to time.Time) (*domain.SalesSnapshot, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SalesSnapshot), args.Error(1)
}

func (m *MockReportingRepository) FindTransactionWithItems(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockReportingRepository) ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, filter)
	var txns []domain.Transaction
	if args.Get(0) != nil {
		txns = args.Get(0).([]domain.Transaction)
	}
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	return txns, next, args.Error(2)
}

func (m *MockReportingRepository) SummarizeTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.BreakdownRow, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BreakdownRow), args.Error(1)
}

func (m *MockReportingRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	args := m.Called(ctx, expenseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}

func (m *MockReportingRepository) ListExpenses(ctx context.Context, filter domain.ExpenseFilter) ([]domain.Expense, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Expense), args.Error(1)
}

// --- Test Suite ---
type ReportingServiceTestSuite struct {
	suite.Suite
	mockRepo *MockReportingRepository
	service  portssvc.ReportingService
	loc      *time.Location
	from     time.Time
	to       time.Time
}

func (suite *ReportingServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockReportingRepository)
	suite.loc = time.FixedZone("WIB", 7*60*60)
	suite.service = services.NewReportingService(suite.mockRepo, suite.mockRepo, suite.mockRepo, 2,
		services.WithLocation(suite.loc))
	// Three local days: 13, 14 and 15 June.
	suite.from = time.Date(2025, 6, 13, 0, 0, 0, 0, suite.loc)
	suite.to = time.Date(2025, 6, 16, 0, 0, 0, 0, suite.loc)
}

func item(productID, name string, unitPrice, qty, discount int64) domain.TransactionItem {
	return domain.TransactionItem{
		ProductID:   productID,
		ProductName: name,
		UnitPrice:   dec(unitPrice),
		Quantity:    qty,
		Discount:    dec(discount),
		Subtotal:    dec(unitPrice*qty - discount),
	}
}

func (suite *ReportingServiceTestSuite) snapshot() *domain.SalesSnapshot {
	return &domain.SalesSnapshot{
		Transactions: []domain.Transaction{
			{
				TransactionID:   "t1",
				Status:          domain.StatusCompleted,
				PaymentMethod:   domain.PaymentCash,
				Subtotal:        dec(36000),
				Tax:             dec(3600),
				Discount:        dec(1000),
				Total:           dec(38600),
				TransactionDate: time.Date(2025, 6, 13, 3, 0, 0, 0, time.UTC), // 10:00 local on the 13th
				Items:           []domain.TransactionItem{item("kopi", "Kopi Susu", 18000, 2, 0)},
			},
			{
				TransactionID:   "t2",
				Status:          domain.StatusCompleted,
				PaymentMethod:   domain.PaymentQRIS,
				Subtotal:        dec(58000),
				Service:         dec(2900),
				Total:           dec(60900),
				TransactionDate: time.Date(2025, 6, 14, 18, 30, 0, 0, time.UTC), // 01:30 local on the 15th
				Items: []domain.TransactionItem{
					item("roti", "Roti Bakar", 15000, 2, 2000),
					item("kopi", "Kopi Susu", 18000, 1, 0),
					item("teh", "Teh Manis", 8000, 1, 0),
				},
			},
		},
		Expenses: []domain.Expense{
			{ExpenseID: "e1", Category: "Supplies", Amount: dec(20000), ExpenseDate: time.Date(2025, 6, 12, 17, 0, 0, 0, time.UTC)},
			{ExpenseID: "e2", Category: "Rent", Amount: dec(30000), ExpenseDate: time.Date(2025, 6, 13, 17, 0, 0, 0, time.UTC)},
		},
	}
}

// --- Test Cases ---

func (suite *ReportingServiceTestSuite) TestDashboard() {
	ctx := context.Background()
	suite.mockRepo.On("GetSalesSnapshot", ctx, suite.from, suite.to).Return(suite.snapshot(), nil).Once()

	report, err := suite.service.Dashboard(ctx, suite.from, suite.to, 0)

	suite.Require().NoError(err)
	suite.True(report.TotalRevenue.Equal(dec(99500)))
	suite.True(report.TotalExpense.Equal(dec(50000)))
	suite.True(report.NetProfit.Equal(dec(49500)))
	suite.Equal(2, report.TransactionCount)

	suite.Require().Len(report.DailyRevenueTrend, 3)
	suite.Equal("2025-06-13", report.DailyRevenueTrend[0].Date)
	suite.True(report.DailyRevenueTrend[0].Amount.Equal(dec(38600)))
	suite.True(report.DailyRevenueTrend[1].Amount.IsZero(), "days without sales are zero-filled")
	suite.True(report.DailyRevenueTrend[2].Amount.Equal(dec(60900)), "days follow the store calendar")
	suite.Require().Len(report.DailyExpenseTrend, 3)
	suite.True(report.DailyExpenseTrend[0].Amount.Equal(dec(20000)))
	suite.True(report.DailyExpenseTrend[1].Amount.Equal(dec(30000)))

	suite.Require().Len(report.TopProducts, 2, "the configured default top-N applies")
	suite.Equal("kopi", report.TopProducts[0].ProductID)
	suite.Equal(int64(3), report.TopProducts[0].Quantity)
	suite.True(report.TopProducts[0].Revenue.Equal(dec(54000)))
	suite.Equal("roti", report.TopProducts[1].ProductID)

	suite.Require().Len(report.PaymentMethodBreakdown, 2)
	suite.Equal("QRIS", report.PaymentMethodBreakdown[0].Key)
	suite.True(report.PaymentMethodBreakdown[0].Percentage.Equal(decimal.RequireFromString("61.21")))
	suite.Equal("CASH", report.PaymentMethodBreakdown[1].Key)

	suite.Require().Len(report.ExpenseCategoryBreakdown, 2)
	suite.Equal("Rent", report.ExpenseCategoryBreakdown[0].Key)
	suite.True(report.ExpenseCategoryBreakdown[0].Percentage.Equal(dec(60)))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestDashboard_EmptyRange() {
	ctx := context.Background()
	suite.mockRepo.On("GetSalesSnapshot", ctx, suite.from, suite.to).
		Return(&domain.SalesSnapshot{}, nil).Once()

	report, err := suite.service.Dashboard(ctx, suite.from, suite.to, 5)

	suite.Require().NoError(err)
	suite.True(report.TotalRevenue.IsZero())
	suite.Len(report.DailyRevenueTrend, 3)
	suite.Empty(report.TopProducts)
	suite.Empty(report.PaymentMethodBreakdown)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestDashboard_InvalidRange() {
	_, err := suite.service.Dashboard(context.Background(), suite.to, suite.from, 0)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "GetSalesSnapshot", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReportingServiceTestSuite) TestDashboard_RepositoryError() {
	ctx := context.Background()
	expectedErr := errors.New("db down")
	suite.mockRepo.On("GetSalesSnapshot", ctx, suite.from, suite.to).Return(nil, expectedErr).Once()

	report, err := suite.service.Dashboard(ctx, suite.from, suite.to, 0)

	suite.Nil(report)
	suite.ErrorIs(err, expectedErr)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestProfitLoss() {
	ctx := context.Background()
	suite.mockRepo.On("GetSalesSnapshot", ctx, suite.from, suite.to).Return(suite.snapshot(), nil).Once()

	report, err := suite.service.ProfitLoss(ctx, suite.from, suite.to)

	suite.Require().NoError(err)
	// Gross 36000 + 30000 + 18000 + 8000; discounts are 2000 on a line plus 1000 global.
	suite.True(report.GrossSales.Equal(dec(92000)))
	suite.True(report.Discounts.Equal(dec(3000)))
	suite.True(report.NetSales.Equal(dec(89000)))
	suite.True(report.Tax.Equal(dec(3600)))
	suite.True(report.Service.Equal(dec(2900)))
	suite.True(report.Revenue.Equal(dec(95500)))
	suite.True(report.TotalExpense.Equal(dec(50000)))
	suite.True(report.NetProfit.Equal(dec(45500)))
	suite.True(report.Margin.Equal(decimal.RequireFromString("47.64")), "margin %s", report.Margin)
	suite.Len(report.ExpenseBreakdown, 2)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestProfitLoss_DiscountLargerThanCartMatchesDashboard() {
	ctx := context.Background()
	snap := &domain.SalesSnapshot{
		Transactions: []domain.Transaction{
			{
				TransactionID:   "t1",
				Status:          domain.StatusCompleted,
				PaymentMethod:   domain.PaymentCash,
				Subtotal:        dec(10000),
				Tax:             dec(1000),
				Service:         dec(500),
				Total:           dec(11500),
				TransactionDate: time.Date(2025, 6, 13, 3, 0, 0, 0, time.UTC),
				Items:           []domain.TransactionItem{item("kopi", "Kopi Susu", 10000, 1, 0)},
			},
			{
				TransactionID:   "t2",
				Status:          domain.StatusCompleted,
				PaymentMethod:   domain.PaymentCash,
				Subtotal:        dec(10000),
				Discount:        dec(50000),
				Total:           dec(0),
				TransactionDate: time.Date(2025, 6, 13, 4, 0, 0, 0, time.UTC),
				Items:           []domain.TransactionItem{item("roti", "Roti Bakar", 10000, 1, 0)},
			},
		},
	}
	suite.mockRepo.On("GetSalesSnapshot", ctx, suite.from, suite.to).Return(snap, nil).Twice()

	dashboard, err := suite.service.Dashboard(ctx, suite.from, suite.to, 0)
	suite.Require().NoError(err)
	report, err := suite.service.ProfitLoss(ctx, suite.from, suite.to)
	suite.Require().NoError(err)

	suite.True(dashboard.TotalRevenue.Equal(dec(11500)))
	suite.True(report.Discounts.Equal(dec(10000)), "only the discount that reduced the total counts, got %s", report.Discounts)
	suite.True(report.NetSales.Equal(dec(10000)))
	suite.True(report.Revenue.Equal(dashboard.TotalRevenue), "revenue %s", report.Revenue)
	suite.True(report.NetProfit.Equal(dec(11500)))
	suite.True(report.Margin.Equal(dec(100)))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestProfitLoss_NoRevenueHasZeroMargin() {
	ctx := context.Background()
	suite.mockRepo.On("GetSalesSnapshot", ctx, suite.from, suite.to).Return(&domain.SalesSnapshot{
		Expenses: []domain.Expense{{Category: "Rent", Amount: dec(100)}},
	}, nil).Once()

	report, err := suite.service.ProfitLoss(ctx, suite.from, suite.to)

	suite.Require().NoError(err)
	suite.True(report.Margin.IsZero())
	suite.True(report.NetProfit.Equal(dec(-100)))
}

func (suite *ReportingServiceTestSuite) TestTransactionReport() {
	ctx := context.Background()
	next := "token"
	page := []domain.Transaction{{TransactionID: "t2"}, {TransactionID: "t1"}}
	groups := []domain.BreakdownRow{
		{Key: "COMPLETED", Count: 3, Amount: dec(75000)},
		{Key: "CANCELLED", Count: 1, Amount: dec(25000)},
	}
	limitIs := func(n int) interface{} {
		return mock.MatchedBy(func(f domain.TransactionFilter) bool { return f.Limit == n })
	}
	suite.mockRepo.On("ListTransactions", ctx, limitIs(100)).Return(page, &next, nil).Once()
	suite.mockRepo.On("SummarizeTransactions", ctx, limitIs(100)).Return(groups, nil).Once()

	report, err := suite.service.TransactionReport(ctx, domain.TransactionFilter{Limit: 500})

	suite.Require().NoError(err)
	suite.Len(report.Transactions, 2)
	suite.Equal(4, report.Count)
	suite.True(report.Total.Equal(dec(100000)))
	suite.Require().NotNil(report.NextToken)
	suite.Equal("token", *report.NextToken)
	suite.True(report.StatusBreakdown[0].Percentage.Equal(dec(75)))
	suite.True(report.StatusBreakdown[1].Percentage.Equal(dec(25)))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestTransactionReport_DefaultsAndValidation() {
	ctx := context.Background()
	suite.mockRepo.On("ListTransactions", ctx, mock.MatchedBy(func(f domain.TransactionFilter) bool {
		return f.Limit == 20
	})).Return(nil, nil, nil).Once()
	suite.mockRepo.On("SummarizeTransactions", ctx, mock.Anything).Return([]domain.BreakdownRow{}, nil).Once()

	report, err := suite.service.TransactionReport(ctx, domain.TransactionFilter{})
	suite.Require().NoError(err)
	suite.NotNil(report.Transactions)
	suite.Empty(report.Transactions)
	suite.Zero(report.Count)

	_, err = suite.service.TransactionReport(ctx, domain.TransactionFilter{
		Statuses: []domain.TransactionStatus{"LOST"},
	})
	suite.ErrorIs(err, apperrors.ErrValidation)

	bad := domain.PaymentMethod("BARTER")
	_, err = suite.service.TransactionReport(ctx, domain.TransactionFilter{PaymentMethod: &bad})
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.TransactionReport(ctx, domain.TransactionFilter{From: &suite.to, To: &suite.from})
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestExpenseReport() {
	ctx := context.Background()
	filter := domain.ExpenseFilter{From: &suite.from, To: &suite.to}
	suite.mockRepo.On("ListExpenses", ctx, filter).Return(suite.snapshot().Expenses, nil).Once()

	report, err := suite.service.ExpenseReport(ctx, filter)

	suite.Require().NoError(err)
	suite.Len(report.Expenses, 2)
	suite.True(report.Total.Equal(dec(50000)))
	suite.Require().Len(report.CategoryBreakdown, 2)
	suite.Equal("Rent", report.CategoryBreakdown[0].Key)
	suite.mockRepo.AssertExpectations(suite.T())
}

// TestReportingServiceTestSuite runs the entire test suite
func TestReportingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}

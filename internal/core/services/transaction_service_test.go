package services_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/pos_ledger/internal/apperrors"
	"github.com/SscSPs/pos_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/pos_ledger/internal/core/ports/services"
	"github.com/SscSPs/pos_ledger/internal/core/services"
	"github.com/SscSPs/pos_ledger/internal/dto"
	"github.com/SscSPs/pos_ledger/internal/platform/metrics"
	"github.com/SscSPs/pos_ledger/internal/repositories/database/memory"
	"github.com/SscSPs/pos_ledger/internal/utils/numbering"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

var fixedNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func newTransactionService(store *memory.Store, allowNegative bool, tax domain.TaxConfig) portssvc.TransactionSvcFacade {
	opts := []services.Option{
		services.WithClock(func() time.Time { return fixedNow }),
		services.WithLocation(time.UTC),
	}
	numberingSvc := services.NewNumberingService(store, opts...)
	inventorySvc := services.NewInventoryService(store, allowNegative, opts...)
	return services.NewTransactionService(store, store, numberingSvc, inventorySvc, tax, opts...)
}

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

// --- Test Suite ---
type TransactionServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	store   *memory.Store
	service portssvc.TransactionSvcFacade
	cashier portssvc.Cashier
}

func (suite *TransactionServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.store = memory.New()
	suite.store.SeedProducts(
		domain.Product{ProductID: "kopi", Name: "Kopi Susu", SKU: "BEV-001", Price: dec(18000), Stock: 10},
		domain.Product{ProductID: "roti", Name: "Roti Bakar", SKU: "FOD-001", Price: dec(15000), Stock: 10},
		domain.Product{ProductID: "old", Name: "Retired", SKU: "OLD-001", Price: dec(1000), Stock: 10, IsDeleted: true},
	)
	suite.service = newTransactionService(suite.store, true, domain.TaxConfig{})
	suite.cashier = portssvc.Cashier{ID: "cashier-1", Name: "Ayu"}
}

func (suite *TransactionServiceTestSuite) stock(productID string) int64 {
	p, ok := suite.store.Product(productID)
	suite.Require().True(ok)
	return p.Stock
}

func (suite *TransactionServiceTestSuite) draftWith(lines ...dto.ItemLineRequest) *domain.Transaction {
	draft, err := suite.service.CreateEmptyDraft(suite.ctx, suite.cashier)
	suite.Require().NoError(err)
	if len(lines) > 0 {
		_, err = suite.service.UpdateItems(suite.ctx, draft.TransactionID, dto.UpdateItemsRequest{Items: lines}, suite.cashier)
		suite.Require().NoError(err)
	}
	return draft
}

// --- Test Cases ---

func (suite *TransactionServiceTestSuite) TestCreateEmptyDraft() {
	draft, err := suite.service.CreateEmptyDraft(suite.ctx, suite.cashier)

	suite.Require().NoError(err)
	suite.Equal("TX-20250615-0001", draft.Number)
	suite.Equal(domain.StatusDraft, draft.Status)
	suite.Equal(domain.PaymentCash, draft.PaymentMethod)
	suite.True(draft.Total.IsZero())
	suite.Equal("Ayu", draft.CashierName)

	_, err = suite.service.CreateEmptyDraft(suite.ctx, portssvc.Cashier{})
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *TransactionServiceTestSuite) TestCreateEmptyDraft_ConcurrentNumbersAreUnique() {
	const workers = 25
	var wg sync.WaitGroup
	numbers := make(chan string, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			draft, err := suite.service.CreateEmptyDraft(suite.ctx, suite.cashier)
			if suite.NoError(err) {
				numbers <- draft.Number
			}
		}()
	}
	wg.Wait()
	close(numbers)

	seen := make(map[string]bool)
	for n := range numbers {
		suite.False(seen[n], "number %s handed out twice", n)
		seen[n] = true
		suite.True(strings.HasPrefix(n, "TX-20250615-"))
	}
	suite.Len(seen, workers)
	suite.True(seen["TX-20250615-0025"])
}

func (suite *TransactionServiceTestSuite) TestUpdateItems_RecomputesHeaderTotals() {
	draft := suite.draftWith(dto.ItemLineRequest{ProductID: "kopi", Quantity: 2})

	txn, err := suite.service.GetTransaction(suite.ctx, draft.TransactionID)
	suite.Require().NoError(err)
	suite.Require().Len(txn.Items, 1)
	suite.True(txn.Items[0].Subtotal.Equal(dec(36000)))
	suite.True(txn.Subtotal.Equal(dec(36000)))
	suite.True(txn.Total.Equal(dec(36000)))
	suite.Equal(int64(10), suite.stock("kopi"), "drafts never touch stock")
}

func (suite *TransactionServiceTestSuite) TestUpdateItems_UnknownProductIsAllOrNothing() {
	draft := suite.draftWith(dto.ItemLineRequest{ProductID: "kopi", Quantity: 1})

	_, err := suite.service.UpdateItems(suite.ctx, draft.TransactionID, dto.UpdateItemsRequest{
		Items: []dto.ItemLineRequest{{ProductID: "kopi", Quantity: 3}, {ProductID: "ghost", Quantity: 1}},
	}, suite.cashier)
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.UpdateItems(suite.ctx, draft.TransactionID, dto.UpdateItemsRequest{
		Items: []dto.ItemLineRequest{{ProductID: "old", Quantity: 1}},
	}, suite.cashier)
	suite.ErrorIs(err, apperrors.ErrValidation)

	items, err := suite.service.GetItems(suite.ctx, draft.TransactionID)
	suite.Require().NoError(err)
	suite.Require().Len(items, 1)
	suite.Equal(int64(1), items[0].Quantity)
}

func (suite *TransactionServiceTestSuite) TestUpdateItems_KeepsDiscountPerUnit() {
	draft, err := suite.service.CreateEmptyDraft(suite.ctx, suite.cashier)
	suite.Require().NoError(err)
	_, err = suite.service.UpdateItems(suite.ctx, draft.TransactionID, dto.UpdateItemsRequest{
		Items:         []dto.ItemLineRequest{{ProductID: "kopi", Quantity: 2}},
		ItemDiscounts: map[string]decimal.Decimal{"kopi": dec(2000)},
	}, suite.cashier)
	suite.Require().NoError(err)

	items, err := suite.service.UpdateItems(suite.ctx, draft.TransactionID, dto.UpdateItemsRequest{
		Items: []dto.ItemLineRequest{{ProductID: "kopi", Quantity: 4}},
	}, suite.cashier)
	suite.Require().NoError(err)
	suite.Require().Len(items, 1)
	suite.True(items[0].Discount.Equal(dec(4000)), "discount %s", items[0].Discount)
	suite.True(items[0].Subtotal.Equal(dec(68000)))
}

func (suite *TransactionServiceTestSuite) TestUpdateTotals() {
	draft := suite.draftWith(dto.ItemLineRequest{ProductID: "kopi", Quantity: 1})
	req := dto.UpdateTotalsRequest{Subtotal: dec(18000), Tax: dec(1800), Total: dec(19800)}

	first, err := suite.service.UpdateTotals(suite.ctx, draft.TransactionID, req, suite.cashier)
	suite.Require().NoError(err)
	second, err := suite.service.UpdateTotals(suite.ctx, draft.TransactionID, req, suite.cashier)
	suite.Require().NoError(err)
	suite.True(first.Total.Equal(second.Total))
	suite.True(second.Tax.Equal(dec(1800)))

	_, err = suite.service.UpdateTotals(suite.ctx, draft.TransactionID,
		dto.UpdateTotalsRequest{Subtotal: dec(18000), Tax: dec(1800), Total: dec(20000)}, suite.cashier)
	suite.ErrorIs(err, apperrors.ErrConsistency)

	_, err = suite.service.UpdateTotals(suite.ctx, draft.TransactionID,
		dto.UpdateTotalsRequest{Subtotal: dec(17000), Total: dec(17000)}, suite.cashier)
	suite.ErrorIs(err, apperrors.ErrConsistency, "subtotal must match the items")

	_, err = suite.service.UpdateTotals(suite.ctx, draft.TransactionID,
		dto.UpdateTotalsRequest{Subtotal: dec(18000), Discount: dec(-1), Total: dec(18001)}, suite.cashier)
	suite.ErrorIs(err, apperrors.ErrValidation)

	txn, err := suite.service.GetTransaction(suite.ctx, draft.TransactionID)
	suite.Require().NoError(err)
	suite.True(txn.Total.Equal(dec(19800)), "rejected updates leave the stored totals alone")
}

func (suite *TransactionServiceTestSuite) TestUpdatePayment() {
	draft := suite.draftWith(dto.ItemLineRequest{ProductID: "kopi", Quantity: 1})

	txn, err := suite.service.UpdatePayment(suite.ctx, draft.TransactionID,
		dto.UpdatePaymentRequest{PaymentMethod: domain.PaymentQRIS, GlobalDiscount: dec(3000)}, suite.cashier)
	suite.Require().NoError(err)
	suite.Equal(domain.PaymentQRIS, txn.PaymentMethod)
	suite.True(txn.Total.Equal(dec(15000)))

	txn, err = suite.service.UpdatePayment(suite.ctx, draft.TransactionID,
		dto.UpdatePaymentRequest{PaymentMethod: domain.PaymentCard, GlobalDiscount: dec(50000)}, suite.cashier)
	suite.Require().NoError(err)
	suite.True(txn.Total.IsZero(), "total is floored at zero")

	_, err = suite.service.UpdatePayment(suite.ctx, draft.TransactionID,
		dto.UpdatePaymentRequest{PaymentMethod: "BARTER"}, suite.cashier)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *TransactionServiceTestSuite) TestFinalize_DecrementsStockOnce() {
	draft := suite.draftWith(dto.ItemLineRequest{ProductID: "kopi", Quantity: 2})

	paid, err := suite.service.Finalize(suite.ctx, draft.TransactionID, dto.FinalizeRequest{CashReceived: dec(50000)}, suite.cashier)
	suite.Require().NoError(err)
	suite.Equal(domain.StatusPaid, paid.Status)
	suite.Equal("INV-20250615-0001", paid.Number)
	suite.True(paid.CashChange.Equal(dec(14000)))
	suite.True(paid.StockCommitted)
	suite.Equal(int64(8), suite.stock("kopi"))

	_, err = suite.service.Finalize(suite.ctx, draft.TransactionID, dto.FinalizeRequest{CashReceived: dec(50000)}, suite.cashier)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Equal(int64(8), suite.stock("kopi"), "a second finalize must not decrement again")

	_, err = suite.service.UpdateItems(suite.ctx, draft.TransactionID,
		dto.UpdateItemsRequest{Items: []dto.ItemLineRequest{{ProductID: "kopi", Quantity: 5}}}, suite.cashier)
	suite.ErrorIs(err, apperrors.ErrValidation, "paid transactions are not editable")
}

func (suite *TransactionServiceTestSuite) TestFinalize_Rejections() {
	empty, err := suite.service.CreateEmptyDraft(suite.ctx, suite.cashier)
	suite.Require().NoError(err)
	_, err = suite.service.Finalize(suite.ctx, empty.TransactionID, dto.FinalizeRequest{}, suite.cashier)
	suite.ErrorIs(err, apperrors.ErrValidation)

	draft := suite.draftWith(dto.ItemLineRequest{ProductID: "kopi", Quantity: 1})
	_, err = suite.service.Finalize(suite.ctx, draft.TransactionID, dto.FinalizeRequest{CashReceived: dec(10000)}, suite.cashier)
	suite.ErrorIs(err, apperrors.ErrValidation, "cash must cover the total")

	wrongChange := dec(5000)
	_, err = suite.service.Finalize(suite.ctx, draft.TransactionID,
		dto.FinalizeRequest{CashReceived: dec(20000), CashChange: &wrongChange}, suite.cashier)
	suite.ErrorIs(err, apperrors.ErrConsistency)

	suite.Equal(int64(10), suite.stock("kopi"))
	txn, err := suite.service.GetTransaction(suite.ctx, draft.TransactionID)
	suite.Require().NoError(err)
	suite.Equal(domain.StatusDraft, txn.Status)
	suite.Equal("TX-20250615-0002", txn.Number, "failed finalizes keep the draft number")

	_, err = suite.service.Finalize(suite.ctx, "missing", dto.FinalizeRequest{}, suite.cashier)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *TransactionServiceTestSuite) TestFinalize_NonCashSettlesExactly() {
	draft := suite.draftWith(dto.ItemLineRequest{ProductID: "roti", Quantity: 1})
	_, err := suite.service.UpdatePayment(suite.ctx, draft.TransactionID,
		dto.UpdatePaymentRequest{PaymentMethod: domain.PaymentTransfer}, suite.cashier)
	suite.Require().NoError(err)

	paid, err := suite.service.Finalize(suite.ctx, draft.TransactionID, dto.FinalizeRequest{}, suite.cashier)
	suite.Require().NoError(err)
	suite.True(paid.CashReceived.Equal(dec(15000)))
	suite.True(paid.CashChange.IsZero())
}

func (suite *TransactionServiceTestSuite) TestLifecycle_CompleteThenRefundRestoresStock() {
	draft := suite.draftWith(dto.ItemLineRequest{ProductID: "kopi", Quantity: 3})
	_, err := suite.service.Finalize(suite.ctx, draft.TransactionID, dto.FinalizeRequest{CashReceived: dec(54000)}, suite.cashier)
	suite.Require().NoError(err)

	processing, err := suite.service.StartProcessing(suite.ctx, draft.TransactionID, suite.cashier)
	suite.Require().NoError(err)
	suite.Equal(domain.StatusProcessing, processing.Status)

	completed, err := suite.service.Complete(suite.ctx, draft.TransactionID, suite.cashier)
	suite.Require().NoError(err)
	suite.Equal(domain.StatusCompleted, completed.Status)
	suite.Equal(int64(7), suite.stock("kopi"))

	_, err = suite.service.Cancel(suite.ctx, draft.TransactionID, dto.StatusChangeRequest{}, suite.cashier)
	suite.ErrorIs(err, apperrors.ErrValidation, "completed sales are refunded, not cancelled")

	reason := "wrong order"
	refunded, err := suite.service.Refund(suite.ctx, draft.TransactionID, dto.StatusChangeRequest{Reason: &reason}, suite.cashier)
	suite.Require().NoError(err)
	suite.Equal(domain.StatusRefunded, refunded.Status)
	suite.False(refunded.StockCommitted)
	suite.Require().NotNil(refunded.Notes)
	suite.Contains(*refunded.Notes, "refunded: wrong order")
	suite.Equal(int64(10), suite.stock("kopi"))

	_, err = suite.service.Refund(suite.ctx, draft.TransactionID, dto.StatusChangeRequest{}, suite.cashier)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Equal(int64(10), suite.stock("kopi"), "refunded sales cannot restore twice")
}

func (suite *TransactionServiceTestSuite) TestCancel_HeldDraftLeavesStockAlone() {
	draft := suite.draftWith(dto.ItemLineRequest{ProductID: "roti", Quantity: 2})

	held, err := suite.service.Hold(suite.ctx, draft.TransactionID, suite.cashier)
	suite.Require().NoError(err)
	suite.Equal(domain.StatusPending, held.Status)

	reason := "customer left"
	cancelled, err := suite.service.Cancel(suite.ctx, draft.TransactionID, dto.StatusChangeRequest{Reason: &reason}, suite.cashier)
	suite.Require().NoError(err)
	suite.Equal(domain.StatusCancelled, cancelled.Status)
	suite.Require().NotNil(cancelled.Notes)
	suite.Equal("cancelled: customer left", *cancelled.Notes)
	suite.Equal(int64(10), suite.stock("roti"))
}

func (suite *TransactionServiceTestSuite) TestCancel_PaidRestoresStock() {
	draft := suite.draftWith(dto.ItemLineRequest{ProductID: "roti", Quantity: 4})
	_, err := suite.service.Finalize(suite.ctx, draft.TransactionID, dto.FinalizeRequest{CashReceived: dec(60000)}, suite.cashier)
	suite.Require().NoError(err)
	suite.Equal(int64(6), suite.stock("roti"))

	_, err = suite.service.Cancel(suite.ctx, draft.TransactionID, dto.StatusChangeRequest{}, suite.cashier)
	suite.Require().NoError(err)
	suite.Equal(int64(10), suite.stock("roti"))
}

func (suite *TransactionServiceTestSuite) TestSoftDelete() {
	draft := suite.draftWith(dto.ItemLineRequest{ProductID: "roti", Quantity: 1})
	suite.Require().NoError(suite.service.SoftDelete(suite.ctx, draft.TransactionID, suite.cashier))

	_, err := suite.service.GetTransaction(suite.ctx, draft.TransactionID)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	_, err = suite.service.Hold(suite.ctx, draft.TransactionID, suite.cashier)
	suite.ErrorIs(err, apperrors.ErrNotFound)

	other := suite.draftWith()
	_, err = suite.service.Cancel(suite.ctx, other.TransactionID, dto.StatusChangeRequest{}, suite.cashier)
	suite.Require().NoError(err)
	suite.ErrorIs(suite.service.SoftDelete(suite.ctx, other.TransactionID, suite.cashier), apperrors.ErrValidation)
}

func (suite *TransactionServiceTestSuite) TestCreateSale() {
	sale, err := suite.service.CreateSale(suite.ctx, dto.CreateSaleRequest{
		Items: []dto.ItemLineRequest{
			{ProductID: "kopi", Quantity: 2},
			{ProductID: "roti", Quantity: 1},
		},
		PaymentMethod:  domain.PaymentCash,
		GlobalDiscount: dec(1000),
		CashReceived:   dec(100000),
		TaxConfig:      &dto.TaxConfigRequest{TaxEnabled: true, TaxRatePercent: dec(10)},
	}, suite.cashier)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusCompleted, sale.Status)
	suite.Equal("INV-20250615-0001", sale.Number)
	suite.True(sale.Subtotal.Equal(dec(51000)))
	suite.True(sale.Tax.Equal(dec(5100)))
	suite.True(sale.Total.Equal(dec(55100)), "total %s", sale.Total)
	suite.True(sale.CashChange.Equal(dec(44900)))
	suite.True(sale.TotalsBalance())
	suite.Len(sale.Items, 2)
	suite.Equal(int64(8), suite.stock("kopi"))
	suite.Equal(int64(9), suite.stock("roti"))

	_, err = suite.service.CreateSale(suite.ctx, dto.CreateSaleRequest{
		Items:         []dto.ItemLineRequest{{ProductID: "kopi", Quantity: 1}},
		PaymentMethod: domain.PaymentCash,
		CashReceived:  dec(1000),
	}, suite.cashier)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Equal(int64(8), suite.stock("kopi"))
}

func (suite *TransactionServiceTestSuite) TestCreateSale_StrictStockRollsBackEverything() {
	store := memory.New()
	store.SeedProducts(domain.Product{ProductID: "last", Name: "Last One", Price: dec(10000), Stock: 1})
	strict := newTransactionService(store, false, domain.TaxConfig{})
	allocated := metrics.NumbersAllocated.WithLabelValues(string(numbering.Invoice))
	before := testutil.ToFloat64(allocated)

	_, err := strict.CreateSale(suite.ctx, dto.CreateSaleRequest{
		Items:         []dto.ItemLineRequest{{ProductID: "last", Quantity: 2}},
		PaymentMethod: domain.PaymentQRIS,
	}, suite.cashier)
	suite.ErrorIs(err, apperrors.ErrInsufficientStock)
	suite.Equal(before, testutil.ToFloat64(allocated))

	txns, _, err := store.ListTransactions(suite.ctx, domain.TransactionFilter{Limit: 10})
	suite.Require().NoError(err)
	suite.Empty(txns)

	sale, err := strict.CreateSale(suite.ctx, dto.CreateSaleRequest{
		Items:         []dto.ItemLineRequest{{ProductID: "last", Quantity: 1}},
		PaymentMethod: domain.PaymentQRIS,
	}, suite.cashier)
	suite.Require().NoError(err)
	suite.Equal("INV-20250615-0001", sale.Number, "the failed sale must not consume a number")
	suite.Equal(before+1, testutil.ToFloat64(allocated))
	p, _ := store.Product("last")
	suite.Equal(int64(0), p.Stock)
}

func (suite *TransactionServiceTestSuite) TestCreateSale_Concurrent() {
	const workers = 10
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := suite.service.CreateSale(suite.ctx, dto.CreateSaleRequest{
				Items:         []dto.ItemLineRequest{{ProductID: "roti", Quantity: 1}},
				PaymentMethod: domain.PaymentCard,
			}, suite.cashier)
			suite.NoError(err)
		}()
	}
	wg.Wait()

	suite.Equal(int64(0), suite.stock("roti"))
	txns, _, err := suite.store.ListTransactions(suite.ctx, domain.TransactionFilter{Limit: 100})
	suite.Require().NoError(err)
	numbers := make(map[string]bool)
	for _, txn := range txns {
		numbers[txn.Number] = true
	}
	suite.Len(numbers, workers)
}

func (suite *TransactionServiceTestSuite) TestQuote() {
	resp, err := suite.service.Quote(suite.ctx, dto.CartQuoteRequest{Edits: []dto.CartEditRequest{
		{Kind: "ADD_ITEM", ProductID: "kopi", Quantity: 2},
		{Kind: "ADD_ITEM", ProductID: "kopi", Quantity: 1},
		{Kind: "SET_LINE_DISCOUNT", ProductID: "kopi", Amount: dec(4000)},
		{Kind: "SET_TAX_CONFIG", TaxConfig: &dto.TaxConfigRequest{ServiceEnabled: true, ServiceRatePercent: dec(5)}},
	}})
	suite.Require().NoError(err)
	suite.Require().Len(resp.Cart.Lines, 1)
	suite.Equal(int64(3), resp.Cart.Lines[0].Quantity)
	suite.True(resp.Totals.Subtotal.Equal(dec(50000)))
	suite.True(resp.Totals.Service.Equal(dec(2500)))
	suite.True(resp.Totals.Total.Equal(dec(52500)))

	_, err = suite.service.Quote(suite.ctx, dto.CartQuoteRequest{Edits: []dto.CartEditRequest{
		{Kind: "ADD_ITEM", ProductID: "ghost", Quantity: 1},
	}})
	suite.ErrorIs(err, apperrors.ErrValidation)

	draft := suite.draftWith(dto.ItemLineRequest{ProductID: "roti", Quantity: 1})
	resp, err = suite.service.Quote(suite.ctx, dto.CartQuoteRequest{
		TransactionID: &draft.TransactionID,
		Edits:         []dto.CartEditRequest{{Kind: "REMOVE_ITEM", ProductID: "roti"}},
	})
	suite.Require().NoError(err)
	suite.Empty(resp.Cart.Lines)
	suite.False(resp.Totals.CanCheckout)

	items, err := suite.service.GetItems(suite.ctx, draft.TransactionID)
	suite.Require().NoError(err)
	suite.Len(items, 1, "quotes never persist")
}

// TestTransactionServiceTestSuite runs the entire test suite
func TestTransactionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionServiceTestSuite))
}

package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/pos_ledger/internal/apperrors"
	"github.com/SscSPs/pos_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/pos_ledger/internal/core/ports/services"
	"github.com/SscSPs/pos_ledger/internal/dto"
	"github.com/SscSPs/pos_ledger/internal/handlers"
	"github.com/SscSPs/pos_ledger/internal/middleware"
	"github.com/SscSPs/pos_ledger/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock TransactionService ---
type MockTransactionService struct {
	mock.Mock
}

func (m *MockTransactionService) txnResult(args mock.Arguments) (*domain.Transaction, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionService) GetTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	return m.txnResult(m.Called(ctx, transactionID))
}
func (m *MockTransactionService) GetItems(ctx context.Context, transactionID string) ([]domain.TransactionItem, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TransactionItem), args.Error(1)
}
func (m *MockTransactionService) CreateEmptyDraft(ctx context.Context, cashier portssvc.Cashier) (*domain.Transaction, error) {
	return m.txnResult(m.Called(ctx, cashier))
}
func (m *MockTransactionService) CreateSale(ctx context.Context, req dto.CreateSaleRequest, cashier portssvc.Cashier) (*domain.Transaction, error) {
	return m.txnResult(m.Called(ctx, req, cashier))
}
func (m *MockTransactionService) UpdateItems(ctx context.Context, transactionID string, req dto.UpdateItemsRequest, cashier portssvc.Cashier) ([]domain.TransactionItem, error) {
	args := m.Called(ctx, transactionID, req, cashier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TransactionItem), args.Error(1)
}
func (m *MockTransactionService) UpdateTotals(ctx context.Context, transactionID string, req dto.UpdateTotalsRequest, cashier portssvc.Cashier) (*domain.Transaction, error) {
	return m.txnResult(m.Called(ctx, transactionID, req, cashier))
}
func (m *MockTransactionService) UpdatePayment(ctx context.Context, transactionID string, req dto.UpdatePaymentRequest, cashier portssvc.Cashier) (*domain.Transaction, error) {
	return m.txnResult(m.Called(ctx, transactionID, req, cashier))
}
func (m *MockTransactionService) Hold(ctx context.Context, transactionID string, cashier portssvc.Cashier) (*domain.Transaction, error) {
	return m.txnResult(m.Called(ctx, transactionID, cashier))
}
func (m *MockTransactionService) Finalize(ctx context.Context, transactionID string, req dto.FinalizeRequest, cashier portssvc.Cashier) (*domain.Transaction, error) {
	return m.txnResult(m.Called(ctx, transactionID, req, cashier))
}
func (m *MockTransactionService) StartProcessing(ctx context.Context, transactionID string, cashier portssvc.Cashier) (*domain.Transaction, error) {
	return m.txnResult(m.Called(ctx, transactionID, cashier))
}
func (m *MockTransactionService) Complete(ctx context.Context, transactionID string, cashier portssvc.Cashier) (*domain.Transaction, error) {
	return m.txnResult(m.Called(ctx, transactionID, cashier))
}
func (m *MockTransactionService) Cancel(ctx context.Context, transactionID string, req dto.StatusChangeRequest, cashier portssvc.Cashier) (*domain.Transaction, error) {
	return m.txnResult(m.Called(ctx, transactionID, req, cashier))
}
func (m *MockTransactionService) Refund(ctx context.Context, transactionID string, req dto.StatusChangeRequest, cashier portssvc.Cashier) (*domain.Transaction, error) {
	return m.txnResult(m.Called(ctx, transactionID, req, cashier))
}
func (m *MockTransactionService) SoftDelete(ctx context.Context, transactionID string, cashier portssvc.Cashier) error {
	return m.Called(ctx, transactionID, cashier).Error(0)
}
func (m *MockTransactionService) Quote(ctx context.Context, req dto.CartQuoteRequest) (*dto.CartQuoteResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CartQuoteResponse), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.TransactionSvcFacade = (*MockTransactionService)(nil)

// --- Test Suite ---
type TransactionHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockService *MockTransactionService
	jwtSecret   string
	cashierID   string
}

// generateTestToken creates a signed cashier token for testing.
func (suite *TransactionHandlerTestSuite) generateTestToken(userID string) string {
	signed, err := utils.GenerateCashierToken(userID, "Ayu", suite.jwtSecret, time.Hour, "pos-test")
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *TransactionHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.cashierID = uuid.NewString()

	suite.mockService = new(MockTransactionService)

	v1 := suite.router.Group("/api/v1", middleware.AuthMiddleware(suite.jwtSecret, ""))
	handlers.RegisterTransactionRoutes(v1, suite.mockService)
	handlers.RegisterCartRoutes(v1, suite.mockService)
}

func (suite *TransactionHandlerTestSuite) do(method, url string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, _ := http.NewRequest(method, url, reader)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(suite.cashierID))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *TransactionHandlerTestSuite) cashier() portssvc.Cashier {
	return portssvc.Cashier{ID: suite.cashierID, Name: "Ayu"}
}

// --- Test Cases ---

func (suite *TransactionHandlerTestSuite) TestCreateDraft_Success() {
	txn := &domain.Transaction{
		TransactionID: uuid.NewString(),
		Number:        "TX-20250615-0001",
		Status:        domain.StatusDraft,
		PaymentMethod: domain.PaymentCash,
	}
	suite.mockService.On("CreateEmptyDraft", mock.Anything, suite.cashier()).Return(txn, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/transactions", nil)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.TransactionResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("TX-20250615-0001", resp.Number)
	suite.Equal("DRAFT", resp.Status)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *TransactionHandlerTestSuite) TestCreateDraft_NoToken() {
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/transactions", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockService.AssertNotCalled(suite.T(), "CreateEmptyDraft", mock.Anything, mock.Anything)
}

func (suite *TransactionHandlerTestSuite) TestGetTransaction_NotFound() {
	id := uuid.NewString()
	suite.mockService.On("GetTransaction", mock.Anything, id).
		Return(nil, apperrors.NewNotFoundError("transaction")).Once()

	w := suite.do(http.MethodGet, "/api/v1/transactions/"+id, nil)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *TransactionHandlerTestSuite) TestCreateSale_RejectsUnknownPaymentMethod() {
	body := map[string]any{
		"items":         []map[string]any{{"productID": "p1", "quantity": 1}},
		"paymentMethod": "BITCOIN",
	}

	w := suite.do(http.MethodPost, "/api/v1/transactions/sale", body)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockService.AssertNotCalled(suite.T(), "CreateSale", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionHandlerTestSuite) TestCreateSale_InsufficientStock() {
	suite.mockService.On("CreateSale", mock.Anything,
		mock.MatchedBy(func(req dto.CreateSaleRequest) bool {
			return len(req.Items) == 1 && req.PaymentMethod == domain.PaymentQRIS
		}),
		suite.cashier(),
	).Return(nil, fmt.Errorf("%w: product p1 has 0, needs 1", apperrors.ErrInsufficientStock)).Once()

	body := map[string]any{
		"items":         []map[string]any{{"productID": "p1", "quantity": 1}},
		"paymentMethod": "QRIS",
	}
	w := suite.do(http.MethodPost, "/api/v1/transactions/sale", body)

	suite.Equal(http.StatusConflict, w.Code)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *TransactionHandlerTestSuite) TestUpdateTotals_Inconsistent() {
	id := uuid.NewString()
	suite.mockService.On("UpdateTotals", mock.Anything, id, mock.AnythingOfType("dto.UpdateTotalsRequest"), suite.cashier()).
		Return(nil, fmt.Errorf("%w: total does not balance", apperrors.ErrConsistency)).Once()

	body := dto.UpdateTotalsRequest{
		Subtotal: decimal.NewFromInt(100),
		Total:    decimal.NewFromInt(90),
	}
	w := suite.do(http.MethodPut, "/api/v1/transactions/"+id+"/totals", body)

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *TransactionHandlerTestSuite) TestFinalize_Success() {
	id := uuid.NewString()
	paid := &domain.Transaction{
		TransactionID: id,
		Number:        "INV-20250615-0007",
		Status:        domain.StatusPaid,
		Total:         decimal.NewFromInt(25000),
		CashReceived:  decimal.NewFromInt(30000),
		CashChange:    decimal.NewFromInt(5000),
	}
	suite.mockService.On("Finalize", mock.Anything, id,
		mock.MatchedBy(func(req dto.FinalizeRequest) bool {
			return req.CashReceived.Equal(decimal.NewFromInt(30000))
		}),
		suite.cashier(),
	).Return(paid, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/transactions/"+id+"/finalize", map[string]any{"cashReceived": "30000"})

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.TransactionResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("INV-20250615-0007", resp.Number)
	suite.True(resp.CashChange.Equal(decimal.NewFromInt(5000)))
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *TransactionHandlerTestSuite) TestFinalize_TransitionRejected() {
	id := uuid.NewString()
	suite.mockService.On("Finalize", mock.Anything, id, mock.Anything, suite.cashier()).
		Return(nil, fmt.Errorf("%w: cannot move PAID to PAID", apperrors.ErrValidation)).Once()

	w := suite.do(http.MethodPost, "/api/v1/transactions/"+id+"/finalize", map[string]any{"cashReceived": "0"})

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TransactionHandlerTestSuite) TestCancel_WithoutBody() {
	id := uuid.NewString()
	cancelled := &domain.Transaction{TransactionID: id, Status: domain.StatusCancelled}
	suite.mockService.On("Cancel", mock.Anything, id, dto.StatusChangeRequest{}, suite.cashier()).Return(cancelled, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/transactions/"+id+"/cancel", nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *TransactionHandlerTestSuite) TestRefund_WithReason() {
	id := uuid.NewString()
	reason := "damaged"
	refunded := &domain.Transaction{TransactionID: id, Status: domain.StatusRefunded}
	suite.mockService.On("Refund", mock.Anything, id,
		mock.MatchedBy(func(req dto.StatusChangeRequest) bool { return req.Reason != nil && *req.Reason == reason }),
		suite.cashier(),
	).Return(refunded, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/transactions/"+id+"/refund", map[string]any{"reason": reason})

	suite.Equal(http.StatusOK, w.Code)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *TransactionHandlerTestSuite) TestHold_Concurrency() {
	id := uuid.NewString()
	suite.mockService.On("Hold", mock.Anything, id, suite.cashier()).Return(nil, apperrors.ErrConcurrency).Once()

	w := suite.do(http.MethodPost, "/api/v1/transactions/"+id+"/hold", nil)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *TransactionHandlerTestSuite) TestDelete_NoContent() {
	id := uuid.NewString()
	suite.mockService.On("SoftDelete", mock.Anything, id, suite.cashier()).Return(nil).Once()

	w := suite.do(http.MethodDelete, "/api/v1/transactions/"+id, nil)

	suite.Equal(http.StatusNoContent, w.Code)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *TransactionHandlerTestSuite) TestQuote_Success() {
	suite.mockService.On("Quote", mock.Anything, mock.MatchedBy(func(req dto.CartQuoteRequest) bool {
		return len(req.Edits) == 1 && req.Edits[0].Kind == "ADD_ITEM"
	})).Return(&dto.CartQuoteResponse{Totals: domain.Totals{Total: decimal.NewFromInt(10000)}}, nil).Once()

	body := map[string]any{"edits": []map[string]any{{"kind": "ADD_ITEM", "productID": "p1", "quantity": 1}}}
	w := suite.do(http.MethodPost, "/api/v1/cart/quote", body)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *TransactionHandlerTestSuite) TestQuote_UnknownEditKind() {
	body := map[string]any{"edits": []map[string]any{{"kind": "EXPLODE"}}}
	w := suite.do(http.MethodPost, "/api/v1/cart/quote", body)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockService.AssertNotCalled(suite.T(), "Quote", mock.Anything, mock.Anything)
}

// TestTransactionHandlerTestSuite runs the entire test suite
func TestTransactionHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionHandlerTestSuite))
}

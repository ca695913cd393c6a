package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/buildledger/construction_ledger/internal/apperrors"
	"github.com/buildledger/construction_ledger/internal/core/domain"
	portssvc "github.com/buildledger/construction_ledger/internal/core/ports/services"
	"github.com/buildledger/construction_ledger/internal/dto"
	"github.com/buildledger/construction_ledger/internal/handlers"
	"github.com/buildledger/construction_ledger/internal/platform/config"
)

// --- Mock AccountResolverService ---
type MockResolverService struct {
	mock.Mock
}

func (m *MockResolverService) EnsureStandardAccounts(ctx context.Context, companyID, userID string) (int, error) {
	args := m.Called(ctx, companyID, userID)
	return args.Int(0), args.Error(1)
}
func (m *MockResolverService) ResolveRoles(ctx context.Context, companyID string) (domain.RoleMap, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.RoleMap), args.Error(1)
}
func (m *MockResolverService) ListAccounts(ctx context.Context, companyID string) ([]domain.Account, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

var _ portssvc.AccountResolverSvcFacade = (*MockResolverService)(nil)

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) PostEntry(ctx context.Context, companyID, userID string, draft domain.JournalEntry) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, userID, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockLedgerService) GetEntry(ctx context.Context, companyID, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockLedgerService) FindPostedReferences(ctx context.Context, companyID string, refs []string) (map[string]struct{}, error) {
	args := m.Called(ctx, companyID, refs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]struct{}), args.Error(1)
}

var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

// --- Mock DepreciationService ---
type MockDepreciationService struct {
	mock.Mock
}

func (m *MockDepreciationService) GenerateAllDepreciationJEs(ctx context.Context, companyID, userID string, attrs domain.PropertyAttributes) (*dto.DepreciationRunResult, error) {
	args := m.Called(ctx, companyID, userID, attrs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.DepreciationRunResult), args.Error(1)
}

var _ portssvc.DepreciationSvcFacade = (*MockDepreciationService)(nil)

// --- Mock BackfillService ---
type MockBackfillService struct {
	mock.Mock
}

func (m *MockBackfillService) BackfillMissingJournalEntries(ctx context.Context, companyID, userID string) (*dto.BackfillResult, error) {
	args := m.Called(ctx, companyID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.BackfillResult), args.Error(1)
}

var _ portssvc.BackfillSvcFacade = (*MockBackfillService)(nil)

// --- Mock SectionService ---
type MockSectionService struct {
	mock.Mock
}

func (m *MockSectionService) GetSectionTransactions(ctx context.Context, companyID string, section domain.Section) (*dto.SectionTransactionSummary, error) {
	args := m.Called(ctx, companyID, section)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.SectionTransactionSummary), args.Error(1)
}

var _ portssvc.SectionSvcFacade = (*MockSectionService)(nil)

// --- Test Suite ---
type HandlerTestSuite struct {
	suite.Suite
	router           *gin.Engine
	mockResolver     *MockResolverService
	mockLedger       *MockLedgerService
	mockDepreciation *MockDepreciationService
	mockBackfill     *MockBackfillService
	mockSections     *MockSectionService
}

func (suite *HandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	handlers.RegisterBindingValidations()
	suite.router = gin.New()

	suite.mockResolver = new(MockResolverService)
	suite.mockLedger = new(MockLedgerService)
	suite.mockDepreciation = new(MockDepreciationService)
	suite.mockBackfill = new(MockBackfillService)
	suite.mockSections = new(MockSectionService)

	services := &portssvc.ServiceContainer{
		Resolver:     suite.mockResolver,
		Ledger:       suite.mockLedger,
		Depreciation: suite.mockDepreciation,
		Backfill:     suite.mockBackfill,
		Sections:     suite.mockSections,
	}
	// Production mode skips the swagger group
	handlers.RegisterRoutes(suite.router, &config.Config{IsProduction: true}, services)
}

func (suite *HandlerTestSuite) serve(method, url string, body any, userID string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	suite.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlerTestSuite) TestRunBackfill_Success() {
	result := &dto.BackfillResult{InvGenerated: 3, PayrollGenerated: 1}
	suite.mockBackfill.On("BackfillMissingJournalEntries", mock.Anything, "company-1", "user-1").
		Return(result, nil).Once()

	w := suite.serve(http.MethodPost, "/api/v1/companies/company-1/ledger/backfill", nil, "user-1")

	suite.Equal(http.StatusOK, w.Code)
	var got dto.BackfillResult
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	suite.Equal(3, got.InvGenerated)
	suite.Equal(1, got.PayrollGenerated)
	suite.mockBackfill.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestRunBackfill_MissingUserHeader() {
	w := suite.serve(http.MethodPost, "/api/v1/companies/company-1/ledger/backfill", nil, "")

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockBackfill.AssertNotCalled(suite.T(), "BackfillMissingJournalEntries")
}

func (suite *HandlerTestSuite) TestGetSectionTransactions_Success() {
	summary := &dto.SectionTransactionSummary{
		Section:           string(domain.SectionProjects),
		Transactions:      []domain.SectionTransaction{},
		TotalTransactions: 0,
		TotalDebits:       decimal.Zero,
		TotalCredits:      decimal.Zero,
		NetAmount:         decimal.Zero,
	}
	suite.mockSections.On("GetSectionTransactions", mock.Anything, "company-1", domain.SectionProjects).
		Return(summary, nil).Once()

	w := suite.serve(http.MethodGet, "/api/v1/companies/company-1/sections/projects/transactions", nil, "")

	suite.Equal(http.StatusOK, w.Code)
	suite.mockSections.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestGetSectionTransactions_UnknownSection() {
	w := suite.serve(http.MethodGet, "/api/v1/companies/company-1/sections/payoneer/transactions", nil, "")

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockSections.AssertNotCalled(suite.T(), "GetSectionTransactions")
}

func (suite *HandlerTestSuite) TestCreateJournalEntry_Unbalanced() {
	reqBody := dto.CreateJournalEntryRequest{
		EntryDate:   mustTime("2025-03-31T00:00:00Z"),
		Description: "Manual accrual",
		Lines: []dto.CreateEntryLineRequest{
			{AccountID: "acct-1", Debit: decimal.NewFromInt(100)},
			{AccountID: "acct-2", Credit: decimal.NewFromInt(90)},
		},
	}
	suite.mockLedger.On("PostEntry", mock.Anything, "company-1", "user-1", mock.Anything).
		Return(nil, apperrors.NewAppError(400, "entry does not balance", apperrors.ErrUnbalancedEntry)).Once()

	w := suite.serve(http.MethodPost, "/api/v1/companies/company-1/journal-entries", reqBody, "user-1")

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockLedger.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestCreateJournalEntry_Success() {
	reqBody := dto.CreateJournalEntryRequest{
		EntryDate:   mustTime("2025-03-31T00:00:00Z"),
		Description: "Manual accrual",
		Lines: []dto.CreateEntryLineRequest{
			{AccountID: "acct-1", Debit: decimal.NewFromInt(100)},
			{AccountID: "acct-2", Credit: decimal.NewFromInt(100)},
		},
	}
	posted := &domain.JournalEntry{
		EntryID:     "entry-1",
		CompanyID:   "company-1",
		EntryNumber: "JE-0001",
		Status:      domain.Posted,
	}
	suite.mockLedger.On("PostEntry", mock.Anything, "company-1", "user-1",
		mock.MatchedBy(func(draft domain.JournalEntry) bool {
			return draft.CompanyID == "company-1" && len(draft.Lines) == 2 && draft.Reference == nil
		})).Return(posted, nil).Once()

	w := suite.serve(http.MethodPost, "/api/v1/companies/company-1/journal-entries", reqBody, "user-1")

	suite.Equal(http.StatusCreated, w.Code)
	var got domain.JournalEntry
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	suite.Equal("JE-0001", got.EntryNumber)
	suite.mockLedger.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestGetJournalEntry_NotFound() {
	suite.mockLedger.On("GetEntry", mock.Anything, "company-1", "missing").
		Return(nil, apperrors.NewNotFoundError("journal entry missing not found")).Once()

	w := suite.serve(http.MethodGet, "/api/v1/companies/company-1/journal-entries/missing", nil, "")

	suite.Equal(http.StatusNotFound, w.Code)
	suite.mockLedger.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestListAccounts_Success() {
	accounts := []domain.Account{
		{AccountID: "acct-1", AccountNumber: "1000", Name: "Cash", AccountType: domain.Asset, NormalBalance: domain.DebitBalance, IsActive: true},
	}
	suite.mockResolver.On("ListAccounts", mock.Anything, "company-1").Return(accounts, nil).Once()

	w := suite.serve(http.MethodGet, "/api/v1/companies/company-1/accounts", nil, "")

	suite.Equal(http.StatusOK, w.Code)
	var got []dto.AccountResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	suite.Require().Len(got, 1)
	suite.Equal("1000", got[0].AccountNumber)
	suite.mockResolver.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestEnsureStandardAccounts_Success() {
	suite.mockResolver.On("EnsureStandardAccounts", mock.Anything, "company-1", "user-1").
		Return(15, nil).Once()

	w := suite.serve(http.MethodPost, "/api/v1/companies/company-1/accounts/ensure", nil, "user-1")

	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), `"created":15`)
	suite.mockResolver.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestRunDepreciation_NoUsableChart() {
	reqBody := dto.DepreciationRunRequest{
		PropertyID:    "prop-1",
		PropertyType:  "commercial",
		PurchasePrice: decimal.NewFromInt(800000),
		StartDate:     "2023-01-01",
	}
	suite.mockDepreciation.On("GenerateAllDepreciationJEs", mock.Anything, "company-1", "user-1", mock.Anything).
		Return(nil, apperrors.ErrNoUsableChart).Once()

	w := suite.serve(http.MethodPost, "/api/v1/companies/company-1/ledger/depreciation", reqBody, "user-1")

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	suite.mockDepreciation.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestRunDepreciation_BadStartDate() {
	reqBody := dto.DepreciationRunRequest{
		PropertyID:    "prop-1",
		PropertyType:  "commercial",
		PurchasePrice: decimal.NewFromInt(800000),
		StartDate:     "01/15/2023",
	}

	w := suite.serve(http.MethodPost, "/api/v1/companies/company-1/ledger/depreciation", reqBody, "user-1")

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockDepreciation.AssertNotCalled(suite.T(), "GenerateAllDepreciationJEs")
}

func (suite *HandlerTestSuite) TestPreviewSchedule() {
	reqBody := dto.ScheduleRequest{
		Basis:           decimal.NewFromInt(120000),
		UsefulLifeYears: 10,
		StartDate:       "2024-01-01",
	}

	w := suite.serve(http.MethodPost, "/api/v1/ledger/depreciation/schedule", reqBody, "")

	suite.Equal(http.StatusOK, w.Code)
	var rows []domain.DepreciationScheduleRow
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &rows))
	suite.Require().NotEmpty(rows)
	suite.Equal(2024, rows[0].Year)
	suite.True(rows[len(rows)-1].BookValue.IsZero())
}

func (suite *HandlerTestSuite) TestHealth() {
	w := suite.serve(http.MethodGet, "/health", nil, "")
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("OK", w.Body.String())
}

func mustTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

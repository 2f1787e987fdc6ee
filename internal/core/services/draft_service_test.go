package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/edmart-systems/procurement_backend/internal/apperrors"
	"github.com/edmart-systems/procurement_backend/internal/core/domain"
	portssvc "github.com/edmart-systems/procurement_backend/internal/core/ports/services"
	"github.com/edmart-systems/procurement_backend/internal/core/services"
	"github.com/edmart-systems/procurement_backend/internal/dto"
)

// --- Mock DraftRepository ---
type MockDraftRepository struct {
	mock.Mock
}

func (m *MockDraftRepository) ListManualDrafts(ctx context.Context, creatorID string) ([]domain.PurchaseOrderDraft, error) {
	args := m.Called(ctx, creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PurchaseOrderDraft), args.Error(1)
}

func (m *MockDraftRepository) FindDraftByID(ctx context.Context, creatorID, draftID string) (*domain.PurchaseOrderDraft, error) {
	args := m.Called(ctx, creatorID, draftID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PurchaseOrderDraft), args.Error(1)
}

func (m *MockDraftRepository) FindLatestAutoDraft(ctx context.Context, creatorID string) (*domain.PurchaseOrderDraft, error) {
	args := m.Called(ctx, creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PurchaseOrderDraft), args.Error(1)
}

func (m *MockDraftRepository) CountManualDrafts(ctx context.Context, creatorID string) (int64, error) {
	args := m.Called(ctx, creatorID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDraftRepository) SaveDraft(ctx context.Context, draft domain.PurchaseOrderDraft) error {
	args := m.Called(ctx, draft)
	return args.Error(0)
}

func (m *MockDraftRepository) DeleteDraft(ctx context.Context, creatorID, draftID string) (bool, error) {
	args := m.Called(ctx, creatorID, draftID)
	return args.Bool(0), args.Error(1)
}

func (m *MockDraftRepository) DeleteAllManualDrafts(ctx context.Context, creatorID string) error {
	args := m.Called(ctx, creatorID)
	return args.Error(0)
}

func (m *MockDraftRepository) DeleteAutoDraft(ctx context.Context, creatorID string) error {
	args := m.Called(ctx, creatorID)
	return args.Error(0)
}

// --- Test Suite ---
type DraftServiceTestSuite struct {
	suite.Suite
	mockRepo *MockDraftRepository
	service  portssvc.DraftSvcFacade
}

const testMaxDrafts = 10

func (suite *DraftServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockDraftRepository)
	suite.service = services.NewDraftService(suite.mockRepo, testMaxDrafts)
}

func draftRequest(kind string) dto.SaveDraftRequest {
	return dto.SaveDraftRequest{
		Kind:       kind,
		SupplierID: uuid.NewString(),
		CurrencyID: uuid.NewString(),
		Remarks:    "wip",
		Items: []dto.PurchaseOrderItemRequest{
			{ProductID: uuid.NewString(), QuantityOrdered: decimal.NewFromInt(4), UnitPrice: decimal.NewFromInt(25)},
		},
	}
}

// --- Test Cases ---

func (suite *DraftServiceTestSuite) TestSaveDraft_ManualBelowCap() {
	ctx := context.Background()
	userID := uuid.NewString()
	req := draftRequest("manual")

	suite.mockRepo.On("CountManualDrafts", ctx, userID).Return(int64(3), nil).Once()
	suite.mockRepo.On("SaveDraft", ctx, mock.MatchedBy(func(d domain.PurchaseOrderDraft) bool {
		return d.CreatorID == userID &&
			d.Kind == domain.DraftKindManual &&
			d.Payload.Version == domain.DraftPayloadVersion &&
			d.TotalAmount.Equal(decimal.NewFromInt(100)) &&
			d.SupplierID == req.SupplierID
	})).Return(nil).Once()

	draft, err := suite.service.SaveDraft(ctx, userID, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(draft)
	suite.Equal(domain.DraftKindManual, draft.Kind)
	suite.True(draft.TotalAmount.Equal(decimal.NewFromInt(100)))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *DraftServiceTestSuite) TestSaveDraft_KindDefaultsToManual() {
	ctx := context.Background()
	userID := uuid.NewString()
	req := draftRequest("")

	suite.mockRepo.On("CountManualDrafts", ctx, userID).Return(int64(0), nil).Once()
	suite.mockRepo.On("SaveDraft", ctx, mock.MatchedBy(func(d domain.PurchaseOrderDraft) bool {
		return d.Kind == domain.DraftKindManual
	})).Return(nil).Once()

	draft, err := suite.service.SaveDraft(ctx, userID, req)

	suite.Require().NoError(err)
	suite.Equal(domain.DraftKindManual, draft.Kind)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *DraftServiceTestSuite) TestSaveDraft_ManualAtCapRejected() {
	ctx := context.Background()
	userID := uuid.NewString()
	req := draftRequest("manual")

	suite.mockRepo.On("CountManualDrafts", ctx, userID).Return(int64(testMaxDrafts), nil).Once()

	draft, err := suite.service.SaveDraft(ctx, userID, req)

	suite.Require().Error(err)
	suite.Nil(draft)
	suite.ErrorIs(err, services.ErrDraftLimitReached)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveDraft", mock.Anything, mock.Anything)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *DraftServiceTestSuite) TestSaveDraft_AutoReplacesPrevious() {
	ctx := context.Background()
	userID := uuid.NewString()
	req := draftRequest("auto")

	// The previous snapshot is discarded before the insert so at most one auto draft
	// exists per user. The manual cap does not apply.
	suite.mockRepo.On("DeleteAutoDraft", ctx, userID).Return(nil).Once()
	suite.mockRepo.On("SaveDraft", ctx, mock.MatchedBy(func(d domain.PurchaseOrderDraft) bool {
		return d.Kind == domain.DraftKindAuto && d.CreatorID == userID
	})).Return(nil).Once()

	draft, err := suite.service.SaveDraft(ctx, userID, req)

	suite.Require().NoError(err)
	suite.Equal(domain.DraftKindAuto, draft.Kind)
	suite.mockRepo.AssertNotCalled(suite.T(), "CountManualDrafts", mock.Anything, mock.Anything)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *DraftServiceTestSuite) TestGetDraft_OwnershipEnforcedByLookup() {
	ctx := context.Background()
	userID := uuid.NewString()
	draftID := uuid.NewString()

	// The repository scopes the lookup by creator; another user's draft is ErrNotFound.
	suite.mockRepo.On("FindDraftByID", ctx, userID, draftID).Return(nil, apperrors.ErrNotFound).Once()

	draft, err := suite.service.GetDraft(ctx, userID, draftID)

	suite.Require().Error(err)
	suite.Nil(draft)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *DraftServiceTestSuite) TestDeleteDraft_Idempotent() {
	ctx := context.Background()
	userID := uuid.NewString()
	draftID := uuid.NewString()

	suite.mockRepo.On("DeleteDraft", ctx, userID, draftID).Return(true, nil).Once()
	suite.mockRepo.On("DeleteDraft", ctx, userID, draftID).Return(false, nil).Once()

	deleted, err := suite.service.DeleteDraft(ctx, userID, draftID)
	suite.Require().NoError(err)
	suite.True(deleted)

	deleted, err = suite.service.DeleteDraft(ctx, userID, draftID)
	suite.Require().NoError(err)
	suite.False(deleted)

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *DraftServiceTestSuite) TestListDrafts() {
	ctx := context.Background()
	userID := uuid.NewString()
	expected := []domain.PurchaseOrderDraft{
		{DraftID: uuid.NewString(), CreatorID: userID, Kind: domain.DraftKindManual},
		{DraftID: uuid.NewString(), CreatorID: userID, Kind: domain.DraftKindManual},
	}

	suite.mockRepo.On("ListManualDrafts", ctx, userID).Return(expected, nil).Once()

	drafts, err := suite.service.ListDrafts(ctx, userID)

	suite.Require().NoError(err)
	suite.Len(drafts, 2)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *DraftServiceTestSuite) TestGetLatestAutoDraft_NotFound() {
	ctx := context.Background()
	userID := uuid.NewString()

	suite.mockRepo.On("FindLatestAutoDraft", ctx, userID).Return(nil, apperrors.ErrNotFound).Once()

	draft, err := suite.service.GetLatestAutoDraft(ctx, userID)

	suite.Require().Error(err)
	suite.Nil(draft)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertExpectations(suite.T())
}

func TestDraftServiceTestSuite(t *testing.T) {
	suite.Run(t, new(DraftServiceTestSuite))
}

package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/edmart-systems/procurement_backend/internal/apperrors"
	"github.com/edmart-systems/procurement_backend/internal/core/domain"
	portssvc "github.com/edmart-systems/procurement_backend/internal/core/ports/services"
	"github.com/edmart-systems/procurement_backend/internal/core/services"
	"github.com/edmart-systems/procurement_backend/internal/dto"
	"github.com/edmart-systems/procurement_backend/internal/models"
	"github.com/edmart-systems/procurement_backend/internal/platform/config"
)

// --- Mock PurchaseOrderRepository ---
type MockPurchaseOrderRepository struct {
	mock.Mock
}

func (m *MockPurchaseOrderRepository) FindPurchaseOrderByID(ctx context.Context, poID string) (*domain.PurchaseOrder, error) {
	args := m.Called(ctx, poID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) ListPurchaseOrders(ctx context.Context, params dto.ListPurchaseOrdersParams) ([]domain.PurchaseOrder, int64, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.PurchaseOrder), args.Get(1).(int64), args.Error(2)
}

func (m *MockPurchaseOrderRepository) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPurchaseOrderRepository) SavePurchaseOrder(ctx context.Context, po domain.PurchaseOrder) error {
	args := m.Called(ctx, po)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepository) ReplacePurchaseOrderDetails(ctx context.Context, po domain.PurchaseOrder) error {
	args := m.Called(ctx, po)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepository) UpdatePurchaseOrderStatus(ctx context.Context, poID string, status domain.POStatus, approvalDate, issuedDate *time.Time, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, poID, status, approvalDate, issuedDate, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepository) FindPendingApprovalForUser(ctx context.Context, poID, approverID string) (*domain.POApproval, error) {
	args := m.Called(ctx, poID, approverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.POApproval), args.Error(1)
}

func (m *MockPurchaseOrderRepository) FindApprovalsByPOID(ctx context.Context, poID string) ([]domain.POApproval, error) {
	args := m.Called(ctx, poID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.POApproval), args.Error(1)
}

func (m *MockPurchaseOrderRepository) CreateApprovalSteps(ctx context.Context, poID string, approvers []domain.ResolvedApprover) error {
	args := m.Called(ctx, poID, approvers)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepository) UpdateApprovalStatus(ctx context.Context, approvalID string, status domain.ApprovalStatus, remarks string) error {
	args := m.Called(ctx, approvalID, status, remarks)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepository) CancelPendingApprovals(ctx context.Context, poID string) error {
	args := m.Called(ctx, poID)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockPurchaseOrderRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Mock UserReader ---
type MockUserReader struct {
	mock.Mock
}

func (m *MockUserReader) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserReader) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserReader) FindFirstActiveUserByRole(ctx context.Context, roleID int) (*domain.User, error) {
	args := m.Called(ctx, roleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// --- Mock NotificationRepository ---
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) SaveNotification(ctx context.Context, n domain.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationRepository) SaveNotificationsBatch(ctx context.Context, ns []domain.Notification) error {
	args := m.Called(ctx, ns)
	return args.Error(0)
}

func (m *MockNotificationRepository) ListNotificationsForUser(ctx context.Context, recipientID string, limit int) ([]domain.Notification, error) {
	args := m.Called(ctx, recipientID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Notification), args.Error(1)
}

func (m *MockNotificationRepository) MarkNotificationRead(ctx context.Context, recipientID, notificationID string) error {
	args := m.Called(ctx, recipientID, notificationID)
	return args.Error(0)
}

// --- Mock POEmailSender ---
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendApprovalRequestEmail(ctx context.Context, data portssvc.ApprovalRequestEmail) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}

func (m *MockEmailSender) SendRejectionEmail(ctx context.Context, data portssvc.RejectionEmail) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}

func (m *MockEmailSender) SendIssuedEmail(ctx context.Context, data portssvc.IssuedEmail) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}

func (m *MockEmailSender) SendStatusUpdateEmail(ctx context.Context, data portssvc.StatusUpdateEmail) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}

// --- Mock POPDFGenerator ---
type MockPDFGenerator struct {
	mock.Mock
}

func (m *MockPDFGenerator) GeneratePOPDF(po *domain.PurchaseOrder) ([]byte, error) {
	args := m.Called(po)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// --- Test Suite ---
type PurchaseOrderServiceTestSuite struct {
	suite.Suite
	mockPORepo    *MockPurchaseOrderRepository
	mockUserRepo  *MockUserReader
	mockNotifRepo *MockNotificationRepository
	mockEmail     *MockEmailSender
	mockPDF       *MockPDFGenerator
	chain         []config.ApprovalRole
	service       portssvc.PurchaseOrderSvcFacade
}

func (suite *PurchaseOrderServiceTestSuite) SetupTest() {
	suite.mockPORepo = new(MockPurchaseOrderRepository)
	suite.mockUserRepo = new(MockUserReader)
	suite.mockNotifRepo = new(MockNotificationRepository)
	suite.mockEmail = new(MockEmailSender)
	suite.mockPDF = new(MockPDFGenerator)
	suite.chain = []config.ApprovalRole{
		{Label: "Department", RoleID: 2},
		{Label: "Finance", RoleID: 4},
		{Label: "Procurement", RoleID: 3},
	}
	resolver := services.NewApprovalChainResolver(suite.chain, suite.mockUserRepo)
	suite.service = services.NewPurchaseOrderService(
		suite.mockPORepo, suite.mockUserRepo, suite.mockNotifRepo,
		suite.mockEmail, suite.mockPDF, resolver,
	)
}

func (suite *PurchaseOrderServiceTestSuite) assertAllExpectations() {
	suite.mockPORepo.AssertExpectations(suite.T())
	suite.mockUserRepo.AssertExpectations(suite.T())
	suite.mockNotifRepo.AssertExpectations(suite.T())
	suite.mockEmail.AssertExpectations(suite.T())
	suite.mockPDF.AssertExpectations(suite.T())
}

func activeUser(roleID int) *domain.User {
	return &domain.User{
		UserID:    uuid.NewString(),
		FirstName: "Test",
		LastName:  fmt.Sprintf("Role%d", roleID),
		Email:     fmt.Sprintf("role%d@example.com", roleID),
		RoleID:    roleID,
		IsActive:  true,
	}
}

func createRequest() dto.CreatePurchaseOrderRequest {
	return dto.CreatePurchaseOrderRequest{
		SupplierID: uuid.NewString(),
		CurrencyID: uuid.NewString(),
		Items: []dto.PurchaseOrderItemRequest{
			{ProductID: uuid.NewString(), QuantityOrdered: decimal.NewFromInt(3), UnitPrice: decimal.NewFromInt(100)},
			{ProductID: uuid.NewString(), QuantityOrdered: decimal.NewFromInt(2), UnitPrice: decimal.NewFromFloat(25.50)},
		},
	}
}

// --- Create ---

func (suite *PurchaseOrderServiceTestSuite) TestCreatePurchaseOrder_NumberFormatAndSequence() {
	ctx := context.Background()
	requesterID := uuid.NewString()
	req := createRequest()

	deptUser := activeUser(2)
	finUser := activeUser(4)
	procUser := activeUser(3)

	now := time.Now().UTC()
	expectedNumber := fmt.Sprintf("PO-%02d%02d-005", now.Year()%100, int(now.Month()))

	suite.mockPORepo.On("CountCreatedBetween", ctx, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).Return(int64(4), nil).Once()
	suite.mockPORepo.On("SavePurchaseOrder", ctx, mock.MatchedBy(func(po domain.PurchaseOrder) bool {
		return po.PONumber == expectedNumber &&
			po.Status == domain.POStatusPending &&
			po.TotalAmount.Equal(decimal.NewFromInt(351)) &&
			po.RequesterID == requesterID &&
			len(po.Items) == 2
	})).Return(nil).Once()

	suite.mockUserRepo.On("FindFirstActiveUserByRole", ctx, 2).Return(deptUser, nil).Once()
	suite.mockUserRepo.On("FindFirstActiveUserByRole", ctx, 4).Return(finUser, nil).Once()
	suite.mockUserRepo.On("FindFirstActiveUserByRole", ctx, 3).Return(procUser, nil).Once()

	suite.mockPORepo.On("CreateApprovalSteps", ctx, mock.AnythingOfType("string"), mock.MatchedBy(func(approvers []domain.ResolvedApprover) bool {
		return len(approvers) == 3 &&
			approvers[0].UserID == deptUser.UserID && approvers[0].Level == 1 &&
			approvers[1].UserID == finUser.UserID && approvers[1].Level == 2 &&
			approvers[2].UserID == procUser.UserID && approvers[2].Level == 3
	})).Return(nil).Once()

	suite.mockNotifRepo.On("SaveNotification", ctx, mock.MatchedBy(func(n domain.Notification) bool {
		return n.RecipientID == deptUser.UserID && n.Title == "New Purchase Order for Approval"
	})).Return(nil).Once()

	created := &domain.PurchaseOrder{PONumber: expectedNumber, Status: domain.POStatusPending}
	suite.mockPORepo.On("FindPurchaseOrderByID", ctx, mock.AnythingOfType("string")).Return(created, nil).Once()

	po, err := suite.service.CreatePurchaseOrder(ctx, req, requesterID)

	suite.Require().NoError(err)
	suite.Require().NotNil(po)
	suite.Equal(expectedNumber, po.PONumber)
	suite.assertAllExpectations()
}

func (suite *PurchaseOrderServiceTestSuite) TestCreatePurchaseOrder_UnstaffedRoleSkippedWithDenseLevels() {
	ctx := context.Background()
	requesterID := uuid.NewString()
	req := createRequest()

	deptUser := activeUser(2)
	procUser := activeUser(3)

	suite.mockPORepo.On("CountCreatedBetween", ctx, mock.Anything, mock.Anything).Return(int64(0), nil).Once()
	suite.mockPORepo.On("SavePurchaseOrder", ctx, mock.AnythingOfType("domain.PurchaseOrder")).Return(nil).Once()

	suite.mockUserRepo.On("FindFirstActiveUserByRole", ctx, 2).Return(deptUser, nil).Once()
	// Finance role has no active holder and is skipped; levels stay dense.
	suite.mockUserRepo.On("FindFirstActiveUserByRole", ctx, 4).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("FindFirstActiveUserByRole", ctx, 3).Return(procUser, nil).Once()

	suite.mockPORepo.On("CreateApprovalSteps", ctx, mock.AnythingOfType("string"), mock.MatchedBy(func(approvers []domain.ResolvedApprover) bool {
		return len(approvers) == 2 &&
			approvers[0].UserID == deptUser.UserID && approvers[0].Level == 1 &&
			approvers[1].UserID == procUser.UserID && approvers[1].Level == 2
	})).Return(nil).Once()

	suite.mockNotifRepo.On("SaveNotification", ctx, mock.MatchedBy(func(n domain.Notification) bool {
		return n.RecipientID == deptUser.UserID
	})).Return(nil).Once()

	suite.mockPORepo.On("FindPurchaseOrderByID", ctx, mock.AnythingOfType("string")).Return(&domain.PurchaseOrder{}, nil).Once()

	_, err := suite.service.CreatePurchaseOrder(ctx, req, requesterID)

	suite.Require().NoError(err)
	suite.assertAllExpectations()
}

func (suite *PurchaseOrderServiceTestSuite) TestCreatePurchaseOrder_RetriesOnDuplicateNumber() {
	ctx := context.Background()
	requesterID := uuid.NewString()
	req := createRequest()

	deptUser := activeUser(2)

	// First save collides with a concurrently created order; second attempt succeeds.
	suite.mockPORepo.On("CountCreatedBetween", ctx, mock.Anything, mock.Anything).Return(int64(7), nil).Once()
	suite.mockPORepo.On("SavePurchaseOrder", ctx, mock.AnythingOfType("domain.PurchaseOrder")).Return(fmt.Errorf("po number taken: %w", apperrors.ErrDuplicate)).Once()
	suite.mockPORepo.On("CountCreatedBetween", ctx, mock.Anything, mock.Anything).Return(int64(8), nil).Once()
	suite.mockPORepo.On("SavePurchaseOrder", ctx, mock.AnythingOfType("domain.PurchaseOrder")).Return(nil).Once()

	suite.mockUserRepo.On("FindFirstActiveUserByRole", ctx, 2).Return(deptUser, nil).Once()
	suite.mockUserRepo.On("FindFirstActiveUserByRole", ctx, 4).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("FindFirstActiveUserByRole", ctx, 3).Return(nil, apperrors.ErrNotFound).Once()

	suite.mockPORepo.On("CreateApprovalSteps", ctx, mock.AnythingOfType("string"), mock.AnythingOfType("[]domain.ResolvedApprover")).Return(nil).Once()
	suite.mockNotifRepo.On("SaveNotification", ctx, mock.AnythingOfType("domain.Notification")).Return(nil).Once()
	suite.mockPORepo.On("FindPurchaseOrderByID", ctx, mock.AnythingOfType("string")).Return(&domain.PurchaseOrder{}, nil).Once()

	_, err := suite.service.CreatePurchaseOrder(ctx, req, requesterID)

	suite.Require().NoError(err)
	suite.assertAllExpectations()
}

func (suite *PurchaseOrderServiceTestSuite) TestCreatePurchaseOrder_NoItems() {
	ctx := context.Background()
	req := dto.CreatePurchaseOrderRequest{SupplierID: uuid.NewString(), CurrencyID: uuid.NewString()}

	po, err := suite.service.CreatePurchaseOrder(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(po)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *PurchaseOrderServiceTestSuite) TestCreatePurchaseOrder_AllRolesUnstaffed() {
	ctx := context.Background()
	req := createRequest()

	suite.mockPORepo.On("CountCreatedBetween", ctx, mock.Anything, mock.Anything).Return(int64(0), nil).Once()
	suite.mockPORepo.On("SavePurchaseOrder", ctx, mock.AnythingOfType("domain.PurchaseOrder")).Return(nil).Once()
	suite.mockUserRepo.On("FindFirstActiveUserByRole", ctx, mock.AnythingOfType("int")).Return(nil, apperrors.ErrNotFound).Times(3)
	suite.mockPORepo.On("FindPurchaseOrderByID", ctx, mock.AnythingOfType("string")).Return(&domain.PurchaseOrder{}, nil).Once()

	// No approval steps created and no notification sent; the order just sits Pending.
	po, err := suite.service.CreatePurchaseOrder(ctx, req, uuid.NewString())

	suite.Require().NoError(err)
	suite.Require().NotNil(po)
	suite.mockPORepo.AssertNotCalled(suite.T(), "CreateApprovalSteps", mock.Anything, mock.Anything, mock.Anything)
	suite.assertAllExpectations()
}

// --- Approve ---

func makePO(poID string, status domain.POStatus) *domain.PurchaseOrder {
	requester := activeUser(1)
	return &domain.PurchaseOrder{
		POID:        poID,
		PONumber:    "PO-2608-001",
		SupplierID:  uuid.NewString(),
		RequesterID: requester.UserID,
		Status:      status,
		TotalAmount: decimal.NewFromInt(351),
		Requester:   requester,
		Supplier:    &domain.Supplier{SupplierID: uuid.NewString(), Name: "Acme Supplies", Email: "sales@acme.example"},
		Currency:    &domain.Currency{CurrencyID: uuid.NewString(), Code: "UGX"},
	}
}

func (suite *PurchaseOrderServiceTestSuite) TestApprovePurchaseOrder_IntermediateStepNotifiesNext() {
	ctx := context.Background()
	poID := uuid.NewString()
	approverID := uuid.NewString()
	nextApprover := activeUser(4)
	po := makePO(poID, domain.POStatusPending)

	step := &domain.POApproval{ApprovalID: uuid.NewString(), POID: poID, ApproverID: approverID, Level: 1, Status: domain.ApprovalStatusPending}
	afterUpdate := []domain.POApproval{
		{ApprovalID: step.ApprovalID, ApproverID: approverID, Level: 1, Status: domain.ApprovalStatusApproved},
		{ApprovalID: uuid.NewString(), ApproverID: nextApprover.UserID, Level: 2, Status: domain.ApprovalStatusPending},
	}

	suite.mockPORepo.On("FindPendingApprovalForUser", ctx, poID, approverID).Return(step, nil).Once()
	suite.mockPORepo.On("FindPurchaseOrderByID", ctx, poID).Return(po, nil).Once()
	suite.mockPORepo.On("UpdateApprovalStatus", ctx, step.ApprovalID, domain.ApprovalStatusApproved, "looks good").Return(nil).Once()
	suite.mockPORepo.On("FindApprovalsByPOID", ctx, poID).Return(afterUpdate, nil).Once()

	suite.mockNotifRepo.On("SaveNotification", ctx, mock.MatchedBy(func(n domain.Notification) bool {
		return n.RecipientID == nextApprover.UserID && n.Title == "Purchase Order Approval Required"
	})).Return(nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, nextApprover.UserID).Return(nextApprover, nil).Once()
	suite.mockEmail.On("SendApprovalRequestEmail", ctx, mock.MatchedBy(func(data portssvc.ApprovalRequestEmail) bool {
		return data.ApproverEmail == nextApprover.Email && data.PONumber == po.PONumber
	})).Return(nil).Once()

	resp, err := suite.service.ApprovePurchaseOrder(ctx, poID, approverID, "looks good")

	suite.Require().NoError(err)
	suite.Require().NotNil(resp)
	suite.True(resp.Success)
	suite.Equal("Purchase Order approved successfully", resp.Message)
	suite.Empty(resp.Warnings)
	// The order itself must stay Pending after an intermediate approval.
	suite.mockPORepo.AssertNotCalled(suite.T(), "UpdatePurchaseOrderStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.assertAllExpectations()
}

func (suite *PurchaseOrderServiceTestSuite) TestApprovePurchaseOrder_FinalStepApprovesOrder() {
	ctx := context.Background()
	poID := uuid.NewString()
	approverID := uuid.NewString()
	procUser := activeUser(3)
	po := makePO(poID, domain.POStatusPending)

	step := &domain.POApproval{ApprovalID: uuid.NewString(), POID: poID, ApproverID: approverID, Level: 3, Status: domain.ApprovalStatusPending}
	afterUpdate := []domain.POApproval{
		{Level: 1, Status: domain.ApprovalStatusApproved},
		{Level: 2, Status: domain.ApprovalStatusApproved},
		{ApprovalID: step.ApprovalID, ApproverID: approverID, Level: 3, Status: domain.ApprovalStatusApproved},
	}

	suite.mockPORepo.On("FindPendingApprovalForUser", ctx, poID, approverID).Return(step, nil).Once()
	suite.mockPORepo.On("FindPurchaseOrderByID", ctx, poID).Return(po, nil).Once()
	suite.mockPORepo.On("UpdateApprovalStatus", ctx, step.ApprovalID, domain.ApprovalStatusApproved, "").Return(nil).Once()
	suite.mockPORepo.On("FindApprovalsByPOID", ctx, poID).Return(afterUpdate, nil).Once()

	suite.mockPORepo.On("UpdatePurchaseOrderStatus", ctx, poID, domain.POStatusApproved,
		mock.AnythingOfType("*time.Time"), (*time.Time)(nil), approverID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	suite.mockUserRepo.On("FindFirstActiveUserByRole", ctx, 3).Return(procUser, nil).Once()
	suite.mockNotifRepo.On("SaveNotification", ctx, mock.MatchedBy(func(n domain.Notification) bool {
		return n.RecipientID == procUser.UserID && n.Title == "Purchase Order Fully Approved"
	})).Return(nil).Once()
	suite.mockEmail.On("SendStatusUpdateEmail", ctx, mock.MatchedBy(func(data portssvc.StatusUpdateEmail) bool {
		return data.RecipientEmail == po.Requester.Email && data.Status == string(domain.POStatusApproved)
	})).Return(nil).Once()

	resp, err := suite.service.ApprovePurchaseOrder(ctx, poID, approverID, "")

	suite.Require().NoError(err)
	suite.True(resp.Success)
	suite.Empty(resp.Warnings)
	suite.assertAllExpectations()
}

func (suite *PurchaseOrderServiceTestSuite) TestApprovePurchaseOrder_NoPendingStep() {
	ctx := context.Background()
	poID := uuid.NewString()
	approverID := uuid.NewString()

	// Covers both the second submit of a double-approve and a user not in the chain.
	suite.mockPORepo.On("FindPendingApprovalForUser", ctx, poID, approverID).Return(nil, apperrors.ErrNotFound).Once()

	resp, err := suite.service.ApprovePurchaseOrder(ctx, poID, approverID, "")

	suite.Require().Error(err)
	suite.Nil(resp)
	suite.ErrorIs(err, services.ErrNoPendingApproval)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.assertAllExpectations()
}

func (suite *PurchaseOrderServiceTestSuite) TestApprovePurchaseOrder_NotificationFailureIsWarning() {
	ctx := context.Background()
	poID := uuid.NewString()
	approverID := uuid.NewString()
	nextApprover := activeUser(4)
	po := makePO(poID, domain.POStatusPending)

	step := &domain.POApproval{ApprovalID: uuid.NewString(), POID: poID, ApproverID: approverID, Level: 1, Status: domain.ApprovalStatusPending}
	afterUpdate := []domain.POApproval{
		{Level: 1, Status: domain.ApprovalStatusApproved},
		{ApproverID: nextApprover.UserID, Level: 2, Status: domain.ApprovalStatusPending},
	}

	suite.mockPORepo.On("FindPendingApprovalForUser", ctx, poID, approverID).Return(step, nil).Once()
	suite.mockPORepo.On("FindPurchaseOrderByID", ctx, poID).Return(po, nil).Once()
	suite.mockPORepo.On("UpdateApprovalStatus", ctx, step.ApprovalID, domain.ApprovalStatusApproved, "").Return(nil).Once()
	suite.mockPORepo.On("FindApprovalsByPOID", ctx, poID).Return(afterUpdate, nil).Once()

	suite.mockNotifRepo.On("SaveNotification", ctx, mock.AnythingOfType("domain.Notification")).Return(assert.AnError).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, nextApprover.UserID).Return(nextApprover, nil).Once()
	suite.mockEmail.On("SendApprovalRequestEmail", ctx, mock.AnythingOfType("services.ApprovalRequestEmail")).Return(assert.AnError).Once()

	resp, err := suite.service.ApprovePurchaseOrder(ctx, poID, approverID, "")

	suite.Require().NoError(err)
	suite.True(resp.Success)
	suite.Len(resp.Warnings, 2)
	suite.assertAllExpectations()
}

// --- Reject ---

func (suite *PurchaseOrderServiceTestSuite) TestRejectPurchaseOrder_CancelsRemainingAndNotifiesRequester() {
	ctx := context.Background()
	poID := uuid.NewString()
	rejector := activeUser(4)
	po := makePO(poID, domain.POStatusRejected)

	step := &domain.POApproval{ApprovalID: uuid.NewString(), POID: poID, ApproverID: rejector.UserID, Level: 2, Status: domain.ApprovalStatusPending}

	suite.mockPORepo.On("FindPendingApprovalForUser", ctx, poID, rejector.UserID).Return(step, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, rejector.UserID).Return(rejector, nil).Once()
	suite.mockPORepo.On("UpdateApprovalStatus", ctx, step.ApprovalID, domain.ApprovalStatusRejected, "over budget").Return(nil).Once()
	suite.mockPORepo.On("UpdatePurchaseOrderStatus", ctx, poID, domain.POStatusRejected,
		(*time.Time)(nil), (*time.Time)(nil), rejector.UserID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockPORepo.On("CancelPendingApprovals", ctx, poID).Return(nil).Once()
	suite.mockPORepo.On("FindPurchaseOrderByID", ctx, poID).Return(po, nil).Once()

	suite.mockNotifRepo.On("SaveNotification", ctx, mock.MatchedBy(func(n domain.Notification) bool {
		return n.RecipientID == po.RequesterID && n.Title == "Purchase Order Rejected"
	})).Return(nil).Once()
	suite.mockEmail.On("SendRejectionEmail", ctx, mock.MatchedBy(func(data portssvc.RejectionEmail) bool {
		return data.RequesterEmail == po.Requester.Email && data.RejectedBy == rejector.FullName() && data.Remarks == "over budget"
	})).Return(nil).Once()

	resp, err := suite.service.RejectPurchaseOrder(ctx, poID, rejector.UserID, "over budget")

	suite.Require().NoError(err)
	suite.True(resp.Success)
	suite.Equal("Purchase Order rejected successfully", resp.Message)
	suite.Empty(resp.Warnings)
	suite.assertAllExpectations()
}

func (suite *PurchaseOrderServiceTestSuite) TestRejectPurchaseOrder_NoPendingStep() {
	ctx := context.Background()
	poID := uuid.NewString()
	approverID := uuid.NewString()

	suite.mockPORepo.On("FindPendingApprovalForUser", ctx, poID, approverID).Return(nil, apperrors.ErrNotFound).Once()

	resp, err := suite.service.RejectPurchaseOrder(ctx, poID, approverID, "")

	suite.Require().Error(err)
	suite.Nil(resp)
	suite.ErrorIs(err, services.ErrNoPendingApproval)
	suite.assertAllExpectations()
}

// --- Issue ---

func (suite *PurchaseOrderServiceTestSuite) TestIssuePurchaseOrder_Success() {
	ctx := context.Background()
	poID := uuid.NewString()
	issuerID := uuid.NewString()
	po := makePO(poID, domain.POStatusApproved)
	po.Approvals = []domain.POApproval{
		{ApproverID: uuid.NewString(), Level: 1, Status: domain.ApprovalStatusApproved},
		{ApproverID: uuid.NewString(), Level: 2, Status: domain.ApprovalStatusApproved},
	}
	pdfBytes := []byte("%PDF-1.4 test")

	suite.mockPORepo.On("FindPurchaseOrderByID", ctx, poID).Return(po, nil).Once()
	suite.mockPORepo.On("UpdatePurchaseOrderStatus", ctx, poID, domain.POStatusIssued,
		(*time.Time)(nil), mock.AnythingOfType("*time.Time"), issuerID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	// Requester plus both approvers get the issuance notification in one batch.
	suite.mockNotifRepo.On("SaveNotificationsBatch", ctx, mock.MatchedBy(func(ns []domain.Notification) bool {
		if len(ns) != 3 {
			return false
		}
		return ns[0].RecipientID == po.RequesterID && ns[0].Title == "Purchase Order Issued"
	})).Return(nil).Once()

	suite.mockPDF.On("GeneratePOPDF", po).Return(pdfBytes, nil).Once()
	suite.mockEmail.On("SendIssuedEmail", ctx, mock.MatchedBy(func(data portssvc.IssuedEmail) bool {
		return data.SupplierEmail == po.Supplier.Email && string(data.PDFAttachment) == string(pdfBytes)
	})).Return(nil).Once()

	resp, err := suite.service.IssuePurchaseOrder(ctx, poID, issuerID)

	suite.Require().NoError(err)
	suite.True(resp.Success)
	suite.Empty(resp.Warnings)
	suite.assertAllExpectations()
}

func (suite *PurchaseOrderServiceTestSuite) TestIssuePurchaseOrder_NotApproved() {
	ctx := context.Background()
	poID := uuid.NewString()
	po := makePO(poID, domain.POStatusPending)

	suite.mockPORepo.On("FindPurchaseOrderByID", ctx, poID).Return(po, nil).Once()

	resp, err := suite.service.IssuePurchaseOrder(ctx, poID, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(resp)
	suite.ErrorIs(err, services.ErrNotApproved)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockPORepo.AssertNotCalled(suite.T(), "UpdatePurchaseOrderStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.assertAllExpectations()
}

func (suite *PurchaseOrderServiceTestSuite) TestIssuePurchaseOrder_PDFFailureIsWarning() {
	ctx := context.Background()
	poID := uuid.NewString()
	issuerID := uuid.NewString()
	po := makePO(poID, domain.POStatusApproved)

	suite.mockPORepo.On("FindPurchaseOrderByID", ctx, poID).Return(po, nil).Once()
	suite.mockPORepo.On("UpdatePurchaseOrderStatus", ctx, poID, domain.POStatusIssued,
		(*time.Time)(nil), mock.AnythingOfType("*time.Time"), issuerID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockNotifRepo.On("SaveNotificationsBatch", ctx, mock.AnythingOfType("[]domain.Notification")).Return(nil).Once()
	suite.mockPDF.On("GeneratePOPDF", po).Return(nil, assert.AnError).Once()

	resp, err := suite.service.IssuePurchaseOrder(ctx, poID, issuerID)

	suite.Require().NoError(err)
	suite.True(resp.Success)
	suite.NotEmpty(resp.Warnings)
	suite.mockEmail.AssertNotCalled(suite.T(), "SendIssuedEmail", mock.Anything, mock.Anything)
	suite.assertAllExpectations()
}

// --- Update ---

func (suite *PurchaseOrderServiceTestSuite) TestUpdatePurchaseOrder_Success() {
	ctx := context.Background()
	poID := uuid.NewString()
	po := makePO(poID, domain.POStatusPending)

	req := dto.UpdatePurchaseOrderRequest{
		SupplierID: uuid.NewString(),
		CurrencyID: uuid.NewString(),
		Items: []dto.PurchaseOrderItemRequest{
			{ProductID: uuid.NewString(), QuantityOrdered: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(5)},
		},
	}

	suite.mockPORepo.On("FindPurchaseOrderByID", ctx, poID).Return(po, nil).Once()
	suite.mockPORepo.On("ReplacePurchaseOrderDetails", ctx, mock.MatchedBy(func(updated domain.PurchaseOrder) bool {
		return updated.POID == poID &&
			updated.PONumber == po.PONumber &&
			updated.TotalAmount.Equal(decimal.NewFromInt(50)) &&
			len(updated.Items) == 1
	})).Return(nil).Once()
	suite.mockPORepo.On("FindPurchaseOrderByID", ctx, poID).Return(po, nil).Once()

	updated, err := suite.service.UpdatePurchaseOrder(ctx, poID, req, po.RequesterID)

	suite.Require().NoError(err)
	suite.NotNil(updated)
	suite.assertAllExpectations()
}

func (suite *PurchaseOrderServiceTestSuite) TestUpdatePurchaseOrder_NotPending() {
	ctx := context.Background()
	poID := uuid.NewString()
	po := makePO(poID, domain.POStatusApproved)

	suite.mockPORepo.On("FindPurchaseOrderByID", ctx, poID).Return(po, nil).Once()

	req := dto.UpdatePurchaseOrderRequest{SupplierID: po.SupplierID, CurrencyID: uuid.NewString(), Items: createRequest().Items}
	updated, err := suite.service.UpdatePurchaseOrder(ctx, poID, req, po.RequesterID)

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, services.ErrNotPendingEdit)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.assertAllExpectations()
}

func (suite *PurchaseOrderServiceTestSuite) TestUpdatePurchaseOrder_NotRequester() {
	ctx := context.Background()
	poID := uuid.NewString()
	po := makePO(poID, domain.POStatusPending)

	suite.mockPORepo.On("FindPurchaseOrderByID", ctx, poID).Return(po, nil).Once()

	req := dto.UpdatePurchaseOrderRequest{SupplierID: po.SupplierID, CurrencyID: uuid.NewString(), Items: createRequest().Items}
	updated, err := suite.service.UpdatePurchaseOrder(ctx, poID, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, services.ErrNotRequesterEdit)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.assertAllExpectations()
}

// --- List ---

func (suite *PurchaseOrderServiceTestSuite) TestGetPaginatedPurchaseOrders_DefaultsApplied() {
	ctx := context.Background()
	userID := uuid.NewString()

	suite.mockPORepo.On("ListPurchaseOrders", ctx, mock.MatchedBy(func(params dto.ListPurchaseOrdersParams) bool {
		return params.Page == 1 && params.Limit == 20 && params.UserID == userID
	})).Return([]domain.PurchaseOrder{*makePO(uuid.NewString(), domain.POStatusPending)}, int64(41), nil).Once()

	resp, err := suite.service.GetPaginatedPurchaseOrders(ctx, dto.ListPurchaseOrdersParams{UserID: userID})

	suite.Require().NoError(err)
	suite.Equal(int64(41), resp.Total)
	suite.Equal(1, resp.Page)
	suite.Equal(20, resp.Limit)
	suite.Equal(3, resp.TotalPages)
	suite.Len(resp.Data, 1)
	suite.assertAllExpectations()
}

func TestPurchaseOrderServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PurchaseOrderServiceTestSuite))
}

package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/edmart-systems/procurement_backend/internal/apperrors"
	"github.com/edmart-systems/procurement_backend/internal/core/services"
	"github.com/edmart-systems/procurement_backend/internal/platform/config"
)

type ApprovalChainResolverTestSuite struct {
	suite.Suite
	mockUserRepo *MockUserReader
	resolver     *services.ApprovalChainResolver
}

func (suite *ApprovalChainResolverTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserReader)
	chain := []config.ApprovalRole{
		{Label: "Department", RoleID: 2},
		{Label: "Finance", RoleID: 4},
		{Label: "Procurement", RoleID: 3},
	}
	suite.resolver = services.NewApprovalChainResolver(chain, suite.mockUserRepo)
}

func (suite *ApprovalChainResolverTestSuite) TestResolveApprovers_FullChain() {
	ctx := context.Background()
	dept := activeUser(2)
	fin := activeUser(4)
	proc := activeUser(3)

	suite.mockUserRepo.On("FindFirstActiveUserByRole", ctx, 2).Return(dept, nil).Once()
	suite.mockUserRepo.On("FindFirstActiveUserByRole", ctx, 4).Return(fin, nil).Once()
	suite.mockUserRepo.On("FindFirstActiveUserByRole", ctx, 3).Return(proc, nil).Once()

	approvers, err := suite.resolver.ResolveApprovers(ctx)

	suite.Require().NoError(err)
	suite.Require().Len(approvers, 3)
	for i, a := range approvers {
		suite.Equal(i+1, a.Level)
	}
	suite.Equal(dept.UserID, approvers[0].UserID)
	suite.Equal(fin.UserID, approvers[1].UserID)
	suite.Equal(proc.UserID, approvers[2].UserID)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *ApprovalChainResolverTestSuite) TestResolveApprovers_MiddleRoleUnstaffed() {
	ctx := context.Background()
	dept := activeUser(2)
	proc := activeUser(3)

	suite.mockUserRepo.On("FindFirstActiveUserByRole", ctx, 2).Return(dept, nil).Once()
	suite.mockUserRepo.On("FindFirstActiveUserByRole", ctx, 4).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("FindFirstActiveUserByRole", ctx, 3).Return(proc, nil).Once()

	approvers, err := suite.resolver.ResolveApprovers(ctx)

	suite.Require().NoError(err)
	suite.Require().Len(approvers, 2)
	// Levels stay dense across the gap.
	suite.Equal(1, approvers[0].Level)
	suite.Equal(2, approvers[1].Level)
	suite.Equal(proc.UserID, approvers[1].UserID)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *ApprovalChainResolverTestSuite) TestResolveApprovers_AllUnstaffed() {
	ctx := context.Background()

	suite.mockUserRepo.On("FindFirstActiveUserByRole", ctx, mock.AnythingOfType("int")).Return(nil, apperrors.ErrNotFound).Times(3)

	approvers, err := suite.resolver.ResolveApprovers(ctx)

	suite.Require().NoError(err)
	suite.Empty(approvers)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *ApprovalChainResolverTestSuite) TestResolveApprovers_LookupErrorPropagates() {
	ctx := context.Background()
	dept := activeUser(2)

	suite.mockUserRepo.On("FindFirstActiveUserByRole", ctx, 2).Return(dept, nil).Once()
	suite.mockUserRepo.On("FindFirstActiveUserByRole", ctx, 4).Return(nil, assert.AnError).Once()

	approvers, err := suite.resolver.ResolveApprovers(ctx)

	suite.Require().Error(err)
	suite.Nil(approvers)
	suite.ErrorIs(err, assert.AnError)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *ApprovalChainResolverTestSuite) TestLastRole() {
	role, ok := suite.resolver.LastRole()
	suite.True(ok)
	suite.Equal("Procurement", role.Label)
	suite.Equal(3, role.RoleID)

	empty := services.NewApprovalChainResolver(nil, suite.mockUserRepo)
	_, ok = empty.LastRole()
	suite.False(ok)
}

func TestApprovalChainResolverTestSuite(t *testing.T) {
	suite.Run(t, new(ApprovalChainResolverTestSuite))
}

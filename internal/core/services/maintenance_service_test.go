package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/evalladares-t/transaction-service/internal/apperrors"
	"github.com/evalladares-t/transaction-service/internal/core/domain"
	portssvc "github.com/evalladares-t/transaction-service/internal/core/ports/services"
	"github.com/evalladares-t/transaction-service/internal/core/services"
)

type MaintenanceServiceTestSuite struct {
	suite.Suite
	mockRepo     *MockTransactionRepository
	mockAccounts *MockAccountGateway
	now          time.Time
	service      portssvc.MaintenanceSvcFacade
}

func (suite *MaintenanceServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockTransactionRepository)
	suite.mockAccounts = new(MockAccountGateway)
	suite.now = time.Date(2025, time.March, 1, 3, 0, 0, 0, time.UTC)
	suite.service = services.NewMaintenanceService(
		suite.mockRepo,
		suite.mockAccounts,
		services.WithMaintenanceClock(fixedClock{now: suite.now}),
		services.WithMaintenancePatchPolicy(services.AwaitPolicy{}),
	)
}

func feeAccount(accountType domain.AccountType, active bool, balance, commission int64) domain.Account {
	return domain.Account{
		AccountID:       uuid.NewString(),
		AccountType:     accountType,
		AmountAvailable: decimal.NewFromInt(balance),
		CommissionRate:  decimal.NewFromInt(commission),
		Active:          active,
	}
}

func (suite *MaintenanceServiceTestSuite) TestApplyFees_OnlyActiveCurrentAccountsCharged() {
	ctx := context.Background()
	eligible := feeAccount(domain.Current, true, 500, 10)
	inactive := feeAccount(domain.Current, false, 500, 10)
	saving := feeAccount(domain.Saving, true, 500, 10)
	fixedTerm := feeAccount(domain.FixedTerm, true, 500, 10)

	suite.mockAccounts.On("ListAccounts", ctx).
		Return([]domain.Account{inactive, eligible, saving, fixedTerm}, nil).Once()
	suite.mockAccounts.On("PatchAccountBalance", ctx, eligible.AccountID, decimal.NewFromInt(490)).
		Return(&eligible, nil).Once()
	suite.mockRepo.On("SaveTransaction", ctx, mock.MatchedBy(func(txn domain.Transaction) bool {
		return txn.AccountID == eligible.AccountID &&
			txn.TransactionType == domain.MaintenancePayment &&
			txn.Amount.Equal(decimal.NewFromInt(10)) &&
			txn.OwnerTransaction &&
			txn.Created.Equal(suite.now)
	})).Return(nil).Once()

	err := suite.service.ApplyMaintenanceFees(ctx)

	suite.Require().NoError(err)
	suite.mockAccounts.AssertExpectations(suite.T())
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockAccounts.AssertNumberOfCalls(suite.T(), "PatchAccountBalance", 1)
	suite.mockRepo.AssertNumberOfCalls(suite.T(), "SaveTransaction", 1)
}

func (suite *MaintenanceServiceTestSuite) TestApplyFees_FailureOnOneAccountDoesNotStopThePass() {
	ctx := context.Background()
	first := feeAccount(domain.Current, true, 100, 5)
	second := feeAccount(domain.Current, true, 200, 5)

	suite.mockAccounts.On("ListAccounts", ctx).
		Return([]domain.Account{first, second}, nil).Once()
	suite.mockAccounts.On("PatchAccountBalance", ctx, first.AccountID, decimal.NewFromInt(95)).
		Return(nil, assert.AnError).Once()
	suite.mockAccounts.On("PatchAccountBalance", ctx, second.AccountID, decimal.NewFromInt(195)).
		Return(&second, nil).Once()
	suite.mockRepo.On("SaveTransaction", ctx, mock.MatchedBy(func(txn domain.Transaction) bool {
		return txn.AccountID == second.AccountID
	})).Return(nil).Once()

	err := suite.service.ApplyMaintenanceFees(ctx)

	suite.Require().NoError(err)
	suite.mockAccounts.AssertExpectations(suite.T())
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *MaintenanceServiceTestSuite) TestApplyFees_PersistFailureIsIsolatedToo() {
	ctx := context.Background()
	first := feeAccount(domain.Current, true, 100, 5)
	second := feeAccount(domain.Current, true, 200, 5)

	suite.mockAccounts.On("ListAccounts", ctx).
		Return([]domain.Account{first, second}, nil).Once()
	suite.mockAccounts.On("PatchAccountBalance", ctx, first.AccountID, decimal.NewFromInt(95)).
		Return(&first, nil).Once()
	suite.mockAccounts.On("PatchAccountBalance", ctx, second.AccountID, decimal.NewFromInt(195)).
		Return(&second, nil).Once()
	suite.mockRepo.On("SaveTransaction", ctx, mock.MatchedBy(func(txn domain.Transaction) bool {
		return txn.AccountID == first.AccountID
	})).Return(assert.AnError).Once()
	suite.mockRepo.On("SaveTransaction", ctx, mock.MatchedBy(func(txn domain.Transaction) bool {
		return txn.AccountID == second.AccountID
	})).Return(nil).Once()

	err := suite.service.ApplyMaintenanceFees(ctx)

	suite.Require().NoError(err)
	suite.mockRepo.AssertNumberOfCalls(suite.T(), "SaveTransaction", 2)
}

func (suite *MaintenanceServiceTestSuite) TestApplyFees_ListFailureAbortsThePass() {
	ctx := context.Background()

	suite.mockAccounts.On("ListAccounts", ctx).
		Return(nil, apperrors.ErrRemoteUnavailable).Once()

	err := suite.service.ApplyMaintenanceFees(ctx)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrRemoteUnavailable)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything)
}

func (suite *MaintenanceServiceTestSuite) TestApplyFees_PublishesFeeEvents() {
	ctx := context.Background()
	eligible := feeAccount(domain.Current, true, 500, 10)
	publisher := new(MockPublisher)
	service := services.NewMaintenanceService(
		suite.mockRepo,
		suite.mockAccounts,
		services.WithMaintenanceClock(fixedClock{now: suite.now}),
		services.WithMaintenancePatchPolicy(services.AwaitPolicy{}),
		services.WithMaintenanceEventPublisher(publisher),
	)

	suite.mockAccounts.On("ListAccounts", ctx).
		Return([]domain.Account{eligible}, nil).Once()
	suite.mockAccounts.On("PatchAccountBalance", ctx, eligible.AccountID, decimal.NewFromInt(490)).
		Return(&eligible, nil).Once()
	suite.mockRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.Transaction")).Return(nil).Once()
	publisher.On("TransactionCreated", ctx, mock.MatchedBy(func(txn domain.Transaction) bool {
		return txn.TransactionType == domain.MaintenancePayment && txn.AccountID == eligible.AccountID
	})).Return(nil).Once()

	err := service.ApplyMaintenanceFees(ctx)

	suite.Require().NoError(err)
	publisher.AssertExpectations(suite.T())
}

func TestMaintenanceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(MaintenanceServiceTestSuite))
}

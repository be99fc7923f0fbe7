package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/jdrojas/cobranza_app/internal/apperrors"
	"github.com/jdrojas/cobranza_app/internal/core/domain"
	portssvc "github.com/jdrojas/cobranza_app/internal/core/ports/services"
	"github.com/jdrojas/cobranza_app/internal/core/services"
	"github.com/jdrojas/cobranza_app/internal/dto"
)

type LoanServiceTestSuite struct {
	suite.Suite
	mockCardRepo      *MockCardRepository
	mockClientRepo    *MockClientRepository
	mockCollectorRepo *MockCollectorRepository
	mockLedgerRepo    *MockLedgerRepository
	service           portssvc.LoanSvcFacade
}

func (suite *LoanServiceTestSuite) SetupTest() {
	suite.mockCardRepo = new(MockCardRepository)
	suite.mockClientRepo = new(MockClientRepository)
	suite.mockCollectorRepo = new(MockCollectorRepository)
	suite.mockLedgerRepo = new(MockLedgerRepository)

	position := services.NewPositionService(suite.mockCardRepo)
	ledger := services.NewLedgerService(suite.mockLedgerRepo, suite.mockCardRepo, suite.mockClientRepo, position)
	suite.service = services.NewLoanService(
		suite.mockCardRepo,
		suite.mockClientRepo,
		suite.mockCollectorRepo,
		suite.mockLedgerRepo,
		ledger,
		position,
	)
}

// expectTx wires the transaction lifecycle. The mock transaction manager
// hands out a nil pgx.Tx; the services only ever pass it through.
func (suite *LoanServiceTestSuite) expectTx() {
	suite.mockCardRepo.On("Begin", mock.Anything).Return(nil, nil)
	suite.mockCardRepo.On("Commit", mock.Anything, mock.Anything).Return(nil)
	suite.mockCardRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil)
}

func (suite *LoanServiceTestSuite) activeCard(cardCode string, clientCode int64, principal int64, position int) *domain.LoanCard {
	return &domain.LoanCard{
		CardCode:         cardCode,
		ClientCode:       clientCode,
		Principal:        principal,
		Installment:      34,
		InstallmentCount: 30,
		TermDays:         30,
		Frequency:        domain.Daily,
		IssuedAt:         time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Status:           domain.CardActive,
		Position:         position,
	}
}

func (suite *LoanServiceTestSuite) TestOpenLoan_NewClientAppendsAtEnd() {
	ctx := context.Background()
	req := dto.OpenLoanRequest{
		ClientCode:    301,
		Name:          "Marta Diaz",
		Street:        "Calle 10 #4-21",
		CollectorCode: "COB-1",
		Principal:     decimal.NewFromInt(1000),
		TermDays:      30,
		Frequency:     "DAILY",
	}

	suite.expectTx()
	suite.mockClientRepo.On("FindClientByCodeForUpdate", ctx, mock.Anything, int64(301)).
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockCollectorRepo.On("FindCollectorByCode", ctx, "COB-1").
		Return(&domain.Collector{CollectorCode: "COB-1", Name: "Pedro"}, nil).Once()
	suite.mockClientRepo.On("SaveClientInTx", ctx, mock.Anything, mock.MatchedBy(func(c domain.Client) bool {
		return c.ClientCode == 301 && c.Name == "Marta Diaz" && c.Status == domain.ClientActive
	})).Return(nil).Once()
	suite.mockCardRepo.On("MaxActivePosition", ctx, mock.Anything).Return(5, nil).Once()
	suite.mockCardRepo.On("SaveCardInTx", ctx, mock.Anything, mock.MatchedBy(func(card domain.LoanCard) bool {
		return card.ClientCode == 301 &&
			card.Principal == 1000 &&
			card.Installment == 34 &&
			card.InstallmentCount == 30 &&
			card.Position == 6 &&
			card.Status == domain.CardActive
	})).Return(nil).Once()
	suite.mockLedgerRepo.On("SaveEntryInTx", ctx, mock.Anything, mock.MatchedBy(func(e domain.LedgerEntry) bool {
		return e.Amount == 0 && e.Balance == 1000
	})).Return(nil).Once()

	grant, err := suite.service.OpenLoan(ctx, req, "admin")

	suite.Require().NoError(err)
	suite.True(grant.NewClient)
	suite.Equal(6, grant.Card.Position)
	suite.Equal(int64(34), grant.Terms.Installment)
	suite.Equal(30, grant.Terms.InstallmentCount)
	suite.mockClientRepo.AssertExpectations(suite.T())
	suite.mockCardRepo.AssertExpectations(suite.T())
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *LoanServiceTestSuite) TestOpenLoan_RejectsSecondActiveLoan() {
	ctx := context.Background()
	req := dto.OpenLoanRequest{
		ClientCode: 301,
		Principal:  decimal.NewFromInt(500),
		TermDays:   30,
		Frequency:  "DAILY",
	}
	card := suite.activeCard("TAR-301-aaaa", 301, 1000, 2)

	suite.expectTx()
	suite.mockClientRepo.On("FindClientByCodeForUpdate", ctx, mock.Anything, int64(301)).
		Return(&domain.Client{ClientCode: 301, Name: "Marta Diaz", Status: domain.ClientActive}, nil).Once()
	suite.mockCardRepo.On("FindActiveCardByClientForUpdate", ctx, mock.Anything, int64(301)).
		Return(card, nil).Once()
	suite.mockLedgerRepo.On("FindLatestEntryByCardInTx", ctx, mock.Anything, "TAR-301-aaaa").
		Return(&domain.LedgerEntry{CardCode: "TAR-301-aaaa", Amount: 50, Balance: 50}, nil).Once()

	grant, err := suite.service.OpenLoan(ctx, req, "admin")

	suite.Require().Error(err)
	suite.Nil(grant)
	suite.ErrorIs(err, apperrors.ErrActiveLoanExists)
	var activeErr *apperrors.ActiveLoanError
	suite.Require().True(errors.As(err, &activeErr))
	suite.Equal(int64(50), activeErr.Outstanding)
	suite.Equal("Marta Diaz", activeErr.ClientName)
	suite.mockCardRepo.AssertNotCalled(suite.T(), "SaveCardInTx", mock.Anything, mock.Anything, mock.Anything)
	suite.mockCardRepo.AssertCalled(suite.T(), "Rollback", mock.Anything, mock.Anything)
}

func (suite *LoanServiceTestSuite) TestOpenLoan_InsertBeforeShiftsTail() {
	ctx := context.Background()
	req := dto.OpenLoanRequest{
		ClientCode: 302,
		Principal:  decimal.NewFromInt(600),
		TermDays:   30,
		Frequency:  "DAILY",
		Insert:     &dto.InsertPositionRequest{Reference: 3, Mode: "BEFORE"},
	}

	suite.expectTx()
	suite.mockClientRepo.On("FindClientByCodeForUpdate", ctx, mock.Anything, int64(302)).
		Return(&domain.Client{ClientCode: 302, Name: "Luis Rojas", Status: domain.ClientInactive}, nil).Once()
	suite.mockCardRepo.On("FindActiveCardByClientForUpdate", ctx, mock.Anything, int64(302)).
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockCardRepo.On("FindActiveCardByPositionForUpdate", ctx, mock.Anything, 3).
		Return(suite.activeCard("TAR-900-bbbb", 900, 800, 3), nil).Once()
	suite.mockCardRepo.On("ShiftPositionsUpFrom", ctx, mock.Anything, 3).Return(nil).Once()
	suite.mockCardRepo.On("SaveCardInTx", ctx, mock.Anything, mock.MatchedBy(func(card domain.LoanCard) bool {
		return card.ClientCode == 302 && card.Position == 3
	})).Return(nil).Once()
	suite.mockLedgerRepo.On("SaveEntryInTx", ctx, mock.Anything, mock.MatchedBy(func(e domain.LedgerEntry) bool {
		return e.Amount == 0 && e.Balance == 600
	})).Return(nil).Once()
	suite.mockClientRepo.On("UpdateClientStatusInTx", ctx, mock.Anything, int64(302), domain.ClientActive, "admin", mock.Anything).
		Return(nil).Once()

	grant, err := suite.service.OpenLoan(ctx, req, "admin")

	suite.Require().NoError(err)
	suite.False(grant.NewClient)
	suite.Equal(3, grant.Card.Position)
	suite.Equal(domain.ClientActive, grant.Client.Status)
	suite.mockCardRepo.AssertExpectations(suite.T())
	suite.mockClientRepo.AssertExpectations(suite.T())
}

func (suite *LoanServiceTestSuite) TestOpenLoan_InsertAfterTakesNextSlot() {
	ctx := context.Background()
	req := dto.OpenLoanRequest{
		ClientCode: 303,
		Principal:  decimal.NewFromInt(600),
		TermDays:   30,
		Frequency:  "DAILY",
		Insert:     &dto.InsertPositionRequest{Reference: 3, Mode: "AFTER"},
	}

	suite.expectTx()
	suite.mockClientRepo.On("FindClientByCodeForUpdate", ctx, mock.Anything, int64(303)).
		Return(&domain.Client{ClientCode: 303, Status: domain.ClientActive}, nil).Once()
	suite.mockCardRepo.On("FindActiveCardByClientForUpdate", ctx, mock.Anything, int64(303)).
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockCardRepo.On("FindActiveCardByPositionForUpdate", ctx, mock.Anything, 3).
		Return(suite.activeCard("TAR-900-bbbb", 900, 800, 3), nil).Once()
	suite.mockCardRepo.On("ShiftPositionsUpFrom", ctx, mock.Anything, 4).Return(nil).Once()
	suite.mockCardRepo.On("SaveCardInTx", ctx, mock.Anything, mock.MatchedBy(func(card domain.LoanCard) bool {
		return card.Position == 4
	})).Return(nil).Once()
	suite.mockLedgerRepo.On("SaveEntryInTx", ctx, mock.Anything, mock.Anything).Return(nil).Once()

	grant, err := suite.service.OpenLoan(ctx, req, "admin")

	suite.Require().NoError(err)
	suite.Equal(4, grant.Card.Position)
	suite.mockCardRepo.AssertExpectations(suite.T())
}

func (suite *LoanServiceTestSuite) TestOpenLoan_ReferencePositionEmpty() {
	ctx := context.Background()
	req := dto.OpenLoanRequest{
		ClientCode: 304,
		Principal:  decimal.NewFromInt(600),
		TermDays:   30,
		Frequency:  "DAILY",
		Insert:     &dto.InsertPositionRequest{Reference: 9, Mode: "BEFORE"},
	}

	suite.expectTx()
	suite.mockClientRepo.On("FindClientByCodeForUpdate", ctx, mock.Anything, int64(304)).
		Return(&domain.Client{ClientCode: 304, Status: domain.ClientActive}, nil).Once()
	suite.mockCardRepo.On("FindActiveCardByClientForUpdate", ctx, mock.Anything, int64(304)).
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockCardRepo.On("FindActiveCardByPositionForUpdate", ctx, mock.Anything, 9).
		Return(nil, apperrors.ErrNotFound).Once()

	grant, err := suite.service.OpenLoan(ctx, req, "admin")

	suite.Require().Error(err)
	suite.Nil(grant)
	suite.ErrorIs(err, apperrors.ErrReferenceNotFound)
	suite.mockCardRepo.AssertNotCalled(suite.T(), "SaveCardInTx", mock.Anything, mock.Anything, mock.Anything)
	suite.mockCardRepo.AssertNotCalled(suite.T(), "ShiftPositionsUpFrom", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LoanServiceTestSuite) TestOpenLoan_RejectsFractionalPrincipal() {
	ctx := context.Background()
	req := dto.OpenLoanRequest{
		ClientCode: 305,
		Principal:  decimal.RequireFromString("1000.50"),
		TermDays:   30,
		Frequency:  "DAILY",
	}

	grant, err := suite.service.OpenLoan(ctx, req, "admin")

	suite.Require().Error(err)
	suite.Nil(grant)
	suite.ErrorIs(err, apperrors.ErrInvalidAmount)
	suite.mockCardRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

func (suite *LoanServiceTestSuite) TestRecordPayment_AppendsEntry() {
	ctx := context.Background()
	card := suite.activeCard("TAR-301-aaaa", 301, 1000, 2)
	declared := decimal.NewFromInt(300)
	req := dto.RecordPaymentRequest{
		Amount:          decimal.NewFromInt(200),
		DeclaredBalance: &declared,
	}

	suite.expectTx()
	suite.mockCardRepo.On("FindCardByCodeForUpdate", ctx, mock.Anything, "TAR-301-aaaa").
		Return(card, nil).Once()
	suite.mockLedgerRepo.On("FindLatestEntryByCardInTx", ctx, mock.Anything, "TAR-301-aaaa").
		Return(&domain.LedgerEntry{CardCode: "TAR-301-aaaa", Amount: 500, Balance: 500}, nil).Once()
	suite.mockLedgerRepo.On("SaveEntryInTx", ctx, mock.Anything, mock.MatchedBy(func(e domain.LedgerEntry) bool {
		return e.CardCode == "TAR-301-aaaa" && e.Amount == 200 && e.Balance == 300
	})).Return(nil).Once()

	receipt, err := suite.service.RecordPayment(ctx, "TAR-301-aaaa", req, "admin")

	suite.Require().NoError(err)
	suite.Equal(int64(500), receipt.PreviousBalance)
	suite.Equal(int64(300), receipt.NewBalance)
	suite.False(receipt.CardPaidOff)
	suite.mockCardRepo.AssertNotCalled(suite.T(), "RetireCardInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *LoanServiceTestSuite) TestRecordPayment_ReconciliationMismatchAppendsNothing() {
	ctx := context.Background()
	card := suite.activeCard("TAR-301-aaaa", 301, 1000, 2)
	declared := decimal.NewFromInt(250)
	req := dto.RecordPaymentRequest{
		Amount:          decimal.NewFromInt(200),
		DeclaredBalance: &declared,
	}

	suite.expectTx()
	suite.mockCardRepo.On("FindCardByCodeForUpdate", ctx, mock.Anything, "TAR-301-aaaa").
		Return(card, nil).Once()
	suite.mockLedgerRepo.On("FindLatestEntryByCardInTx", ctx, mock.Anything, "TAR-301-aaaa").
		Return(&domain.LedgerEntry{CardCode: "TAR-301-aaaa", Balance: 500}, nil).Once()

	receipt, err := suite.service.RecordPayment(ctx, "TAR-301-aaaa", req, "admin")

	suite.Require().Error(err)
	suite.Nil(receipt)
	suite.ErrorIs(err, apperrors.ErrReconciliationMismatch)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "SaveEntryInTx", mock.Anything, mock.Anything, mock.Anything)
	suite.mockCardRepo.AssertCalled(suite.T(), "Rollback", mock.Anything, mock.Anything)
}

func (suite *LoanServiceTestSuite) TestRecordPayment_RejectsPaymentAboveBalance() {
	ctx := context.Background()
	card := suite.activeCard("TAR-301-aaaa", 301, 1000, 2)
	declared := decimal.NewFromInt(0)
	req := dto.RecordPaymentRequest{
		Amount:          decimal.NewFromInt(600),
		DeclaredBalance: &declared,
	}

	suite.expectTx()
	suite.mockCardRepo.On("FindCardByCodeForUpdate", ctx, mock.Anything, "TAR-301-aaaa").
		Return(card, nil).Once()
	suite.mockLedgerRepo.On("FindLatestEntryByCardInTx", ctx, mock.Anything, "TAR-301-aaaa").
		Return(&domain.LedgerEntry{CardCode: "TAR-301-aaaa", Balance: 500}, nil).Once()

	receipt, err := suite.service.RecordPayment(ctx, "TAR-301-aaaa", req, "admin")

	suite.Require().Error(err)
	suite.Nil(receipt)
	suite.ErrorIs(err, apperrors.ErrInsufficientBalance)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "SaveEntryInTx", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LoanServiceTestSuite) TestRecordPayment_PayoffRetiresCardAndClient() {
	ctx := context.Background()
	card := suite.activeCard("TAR-301-aaaa", 301, 1000, 2)
	declared := decimal.NewFromInt(0)
	req := dto.RecordPaymentRequest{
		Amount:          decimal.NewFromInt(34),
		DeclaredBalance: &declared,
	}

	suite.expectTx()
	suite.mockCardRepo.On("FindCardByCodeForUpdate", ctx, mock.Anything, "TAR-301-aaaa").
		Return(card, nil).Once()
	suite.mockLedgerRepo.On("FindLatestEntryByCardInTx", ctx, mock.Anything, "TAR-301-aaaa").
		Return(&domain.LedgerEntry{CardCode: "TAR-301-aaaa", Balance: 34}, nil).Once()
	suite.mockLedgerRepo.On("SaveEntryInTx", ctx, mock.Anything, mock.MatchedBy(func(e domain.LedgerEntry) bool {
		return e.Amount == 34 && e.Balance == 0
	})).Return(nil).Once()
	suite.mockCardRepo.On("RetireCardInTx", ctx, mock.Anything, "TAR-301-aaaa", "admin", mock.Anything).
		Return(nil).Once()
	suite.mockCardRepo.On("ShiftPositionsDownAfter", ctx, mock.Anything, 2).Return(nil).Once()
	suite.mockClientRepo.On("UpdateClientStatusInTx", ctx, mock.Anything, int64(301), domain.ClientInactive, "admin", mock.Anything).
		Return(nil).Once()

	receipt, err := suite.service.RecordPayment(ctx, "TAR-301-aaaa", req, "admin")

	suite.Require().NoError(err)
	suite.True(receipt.CardPaidOff)
	suite.Equal(int64(0), receipt.NewBalance)
	suite.mockCardRepo.AssertExpectations(suite.T())
	suite.mockClientRepo.AssertExpectations(suite.T())
}

func (suite *LoanServiceTestSuite) TestRecordPayment_RejectsRetiredCard() {
	ctx := context.Background()
	card := suite.activeCard("TAR-301-aaaa", 301, 1000, 0)
	card.Status = domain.CardPaid
	declared := decimal.NewFromInt(100)
	req := dto.RecordPaymentRequest{
		Amount:          decimal.NewFromInt(100),
		DeclaredBalance: &declared,
	}

	suite.expectTx()
	suite.mockCardRepo.On("FindCardByCodeForUpdate", ctx, mock.Anything, "TAR-301-aaaa").
		Return(card, nil).Once()

	receipt, err := suite.service.RecordPayment(ctx, "TAR-301-aaaa", req, "admin")

	suite.Require().Error(err)
	suite.Nil(receipt)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "SaveEntryInTx", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LoanServiceTestSuite) TestRecordPayment_RetriesOnSerializationConflict() {
	ctx := context.Background()
	card := suite.activeCard("TAR-301-aaaa", 301, 1000, 2)
	declared := decimal.NewFromInt(300)
	req := dto.RecordPaymentRequest{
		Amount:          decimal.NewFromInt(200),
		DeclaredBalance: &declared,
	}

	suite.mockCardRepo.On("Begin", mock.Anything).Return(nil, nil)
	suite.mockCardRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil)
	suite.mockCardRepo.On("Commit", mock.Anything, mock.Anything).
		Return(apperrors.ErrTransactionConflict).Once()
	suite.mockCardRepo.On("Commit", mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockCardRepo.On("FindCardByCodeForUpdate", ctx, mock.Anything, "TAR-301-aaaa").
		Return(card, nil).Twice()
	suite.mockLedgerRepo.On("FindLatestEntryByCardInTx", ctx, mock.Anything, "TAR-301-aaaa").
		Return(&domain.LedgerEntry{CardCode: "TAR-301-aaaa", Balance: 500}, nil).Twice()
	suite.mockLedgerRepo.On("SaveEntryInTx", ctx, mock.Anything, mock.Anything).Return(nil).Twice()

	receipt, err := suite.service.RecordPayment(ctx, "TAR-301-aaaa", req, "admin")

	suite.Require().NoError(err)
	suite.Equal(int64(300), receipt.NewBalance)
	suite.mockCardRepo.AssertNumberOfCalls(suite.T(), "Begin", 2)
	suite.mockCardRepo.AssertExpectations(suite.T())
}

func (suite *LoanServiceTestSuite) TestDeactivateClient_RefusesOutstandingBalance() {
	ctx := context.Background()
	card := suite.activeCard("TAR-301-aaaa", 301, 1000, 4)

	suite.expectTx()
	suite.mockClientRepo.On("FindClientByCodeForUpdate", ctx, mock.Anything, int64(301)).
		Return(&domain.Client{ClientCode: 301, Status: domain.ClientActive}, nil).Once()
	suite.mockCardRepo.On("FindActiveCardByClientForUpdate", ctx, mock.Anything, int64(301)).
		Return(card, nil).Once()
	suite.mockLedgerRepo.On("FindLatestEntryByCardInTx", ctx, mock.Anything, "TAR-301-aaaa").
		Return(&domain.LedgerEntry{CardCode: "TAR-301-aaaa", Balance: 120}, nil).Once()

	client, err := suite.service.DeactivateClient(ctx, 301, "admin")

	suite.Require().Error(err)
	suite.Nil(client)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockClientRepo.AssertNotCalled(suite.T(), "UpdateClientStatusInTx",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LoanServiceTestSuite) TestDeactivateClient_RetiresZeroBalanceCard() {
	ctx := context.Background()
	card := suite.activeCard("TAR-301-aaaa", 301, 1000, 4)

	suite.expectTx()
	suite.mockClientRepo.On("FindClientByCodeForUpdate", ctx, mock.Anything, int64(301)).
		Return(&domain.Client{ClientCode: 301, Name: "Marta Diaz", Status: domain.ClientActive}, nil).Once()
	suite.mockCardRepo.On("FindActiveCardByClientForUpdate", ctx, mock.Anything, int64(301)).
		Return(card, nil).Once()
	suite.mockLedgerRepo.On("FindLatestEntryByCardInTx", ctx, mock.Anything, "TAR-301-aaaa").
		Return(&domain.LedgerEntry{CardCode: "TAR-301-aaaa", Balance: 0}, nil).Once()
	suite.mockCardRepo.On("RetireCardInTx", ctx, mock.Anything, "TAR-301-aaaa", "admin", mock.Anything).
		Return(nil).Once()
	suite.mockCardRepo.On("ShiftPositionsDownAfter", ctx, mock.Anything, 4).Return(nil).Once()
	suite.mockClientRepo.On("UpdateClientStatusInTx", ctx, mock.Anything, int64(301), domain.ClientInactive, "admin", mock.Anything).
		Return(nil).Once()

	client, err := suite.service.DeactivateClient(ctx, 301, "admin")

	suite.Require().NoError(err)
	suite.Equal(domain.ClientInactive, client.Status)
	suite.mockCardRepo.AssertExpectations(suite.T())
	suite.mockClientRepo.AssertExpectations(suite.T())
}

func (suite *LoanServiceTestSuite) TestPurgeClient_CompactsFreedPosition() {
	ctx := context.Background()
	paid := suite.activeCard("TAR-301-old1", 301, 500, 0)
	paid.Status = domain.CardPaid
	active := suite.activeCard("TAR-301-aaaa", 301, 1000, 4)

	suite.expectTx()
	suite.mockClientRepo.On("FindClientByCodeForUpdate", ctx, mock.Anything, int64(301)).
		Return(&domain.Client{ClientCode: 301, Status: domain.ClientActive}, nil).Once()
	suite.mockCardRepo.On("ListCardsByClientInTx", ctx, mock.Anything, int64(301)).
		Return([]domain.LoanCard{*paid, *active}, nil).Once()
	suite.mockLedgerRepo.On("DeleteEntriesByCardInTx", ctx, mock.Anything, "TAR-301-old1").Return(nil).Once()
	suite.mockLedgerRepo.On("DeleteEntriesByCardInTx", ctx, mock.Anything, "TAR-301-aaaa").Return(nil).Once()
	suite.mockCardRepo.On("DeleteCardsByClientInTx", ctx, mock.Anything, int64(301)).Return(nil).Once()
	suite.mockClientRepo.On("DeleteClientInTx", ctx, mock.Anything, int64(301)).Return(nil).Once()
	suite.mockCardRepo.On("ShiftPositionsDownAfter", ctx, mock.Anything, 4).Return(nil).Once()

	err := suite.service.PurgeClient(ctx, 301, "admin")

	suite.Require().NoError(err)
	suite.mockCardRepo.AssertExpectations(suite.T())
	suite.mockClientRepo.AssertExpectations(suite.T())
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *LoanServiceTestSuite) TestRefreshClientStatus_DeactivatesStaleClient() {
	ctx := context.Background()

	suite.mockClientRepo.On("FindClientByCode", ctx, int64(301)).
		Return(&domain.Client{ClientCode: 301, Status: domain.ClientActive}, nil).Once()
	suite.mockCardRepo.On("FindActiveCardByClient", ctx, int64(301)).
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockClientRepo.On("UpdateClientStatus", ctx, int64(301), domain.ClientInactive, "admin", mock.Anything).
		Return(nil).Once()

	overview, err := suite.service.RefreshClientStatus(ctx, 301, "admin")

	suite.Require().NoError(err)
	suite.Equal(domain.ClientInactive, overview.Status)
	suite.Equal(int64(0), overview.Outstanding)
	suite.Nil(overview.ActiveCard)
	suite.mockClientRepo.AssertExpectations(suite.T())
}

func TestLoanServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LoanServiceTestSuite))
}

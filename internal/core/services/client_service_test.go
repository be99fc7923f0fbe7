package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/jdrojas/cobranza_app/internal/apperrors"
	"github.com/jdrojas/cobranza_app/internal/core/domain"
	portssvc "github.com/jdrojas/cobranza_app/internal/core/ports/services"
	"github.com/jdrojas/cobranza_app/internal/core/services"
	"github.com/jdrojas/cobranza_app/internal/dto"
)

type ClientServiceTestSuite struct {
	suite.Suite
	mockClientRepo *MockClientRepository
	mockCardRepo   *MockCardRepository
	mockLedgerRepo *MockLedgerRepository
	service        portssvc.ClientSvcFacade
}

func (suite *ClientServiceTestSuite) SetupTest() {
	suite.mockClientRepo = new(MockClientRepository)
	suite.mockCardRepo = new(MockCardRepository)
	suite.mockLedgerRepo = new(MockLedgerRepository)
	suite.service = services.NewClientService(suite.mockClientRepo, suite.mockCardRepo, suite.mockLedgerRepo)
}

func (suite *ClientServiceTestSuite) TestListClients_RouteOrderWithInactiveLast() {
	ctx := context.Background()
	clients := []domain.Client{
		{ClientCode: 301, Name: "Marta Diaz", Status: domain.ClientActive},
		{ClientCode: 302, Name: "Luis Rojas", Status: domain.ClientInactive},
		{ClientCode: 303, Name: "Ana Prieto", Status: domain.ClientActive},
	}

	suite.mockClientRepo.On("ListClients", ctx).Return(clients, nil).Once()
	suite.mockCardRepo.On("FindActiveCardByClient", ctx, int64(301)).
		Return(&domain.LoanCard{CardCode: "TAR-301-aaaa", ClientCode: 301, Principal: 1000, Status: domain.CardActive, Position: 7}, nil).Once()
	suite.mockCardRepo.On("FindActiveCardByClient", ctx, int64(302)).
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockCardRepo.On("FindActiveCardByClient", ctx, int64(303)).
		Return(&domain.LoanCard{CardCode: "TAR-303-cccc", ClientCode: 303, Principal: 500, Status: domain.CardActive, Position: 2}, nil).Once()
	suite.mockLedgerRepo.On("FindLatestEntryByCard", ctx, "TAR-301-aaaa").
		Return(&domain.LedgerEntry{CardCode: "TAR-301-aaaa", Balance: 400}, nil).Once()
	suite.mockLedgerRepo.On("FindLatestEntryByCard", ctx, "TAR-303-cccc").
		Return(nil, apperrors.ErrNotFound).Once()

	overviews, err := suite.service.ListClients(ctx)

	suite.Require().NoError(err)
	suite.Require().Len(overviews, 3)
	suite.Equal(int64(303), overviews[0].ClientCode)
	suite.Equal(int64(500), overviews[0].Outstanding) // empty ledger falls back to principal
	suite.Equal(int64(301), overviews[1].ClientCode)
	suite.Equal(int64(400), overviews[1].Outstanding)
	suite.Equal(int64(302), overviews[2].ClientCode) // no active card sorts last
	suite.Nil(overviews[2].ActiveCard)
}

func (suite *ClientServiceTestSuite) TestNavigate_ResolvesCardOwner() {
	ctx := context.Background()
	card := &domain.LoanCard{CardCode: "TAR-305-eeee", ClientCode: 305, Principal: 800, Status: domain.CardActive, Position: 4}

	suite.mockCardRepo.On("FindNeighborActiveCard", ctx, 3, domain.Next, (*string)(nil)).
		Return(card, nil).Once()
	suite.mockClientRepo.On("FindClientByCode", ctx, int64(305)).
		Return(&domain.Client{ClientCode: 305, Name: "Jorge Mena", Status: domain.ClientActive}, nil).Once()
	suite.mockLedgerRepo.On("FindLatestEntryByCard", ctx, "TAR-305-eeee").
		Return(&domain.LedgerEntry{CardCode: "TAR-305-eeee", Balance: 650}, nil).Once()

	overview, err := suite.service.Navigate(ctx, 3, domain.Next, nil)

	suite.Require().NoError(err)
	suite.Equal(int64(305), overview.ClientCode)
	suite.Equal(4, overview.Position)
	suite.Equal(int64(650), overview.Outstanding)
}

func (suite *ClientServiceTestSuite) TestNavigate_EndOfRoute() {
	ctx := context.Background()

	suite.mockCardRepo.On("FindNeighborActiveCard", ctx, 20, domain.Next, (*string)(nil)).
		Return(nil, apperrors.ErrNoMoreInDirection).Once()

	overview, err := suite.service.Navigate(ctx, 20, domain.Next, nil)

	suite.Require().Error(err)
	suite.Nil(overview)
	suite.ErrorIs(err, apperrors.ErrNoMoreInDirection)
	suite.mockClientRepo.AssertNotCalled(suite.T(), "FindClientByCode", mock.Anything, mock.Anything)
}

func (suite *ClientServiceTestSuite) TestGetClientHistory_AggregatesCards() {
	ctx := context.Background()
	cards := []domain.LoanCard{
		{CardCode: "TAR-301-old1", ClientCode: 301, Principal: 500, Status: domain.CardPaid},
		{CardCode: "TAR-301-aaaa", ClientCode: 301, Principal: 1000, Status: domain.CardActive, Position: 7},
	}

	suite.mockClientRepo.On("FindClientByCode", ctx, int64(301)).
		Return(&domain.Client{ClientCode: 301, Name: "Marta Diaz", Status: domain.ClientActive}, nil).Once()
	suite.mockCardRepo.On("ListCardsByClient", ctx, int64(301)).Return(cards, nil).Once()
	suite.mockLedgerRepo.On("FindLatestEntryByCard", ctx, "TAR-301-old1").
		Return(&domain.LedgerEntry{CardCode: "TAR-301-old1", Balance: 0}, nil).Once()
	suite.mockLedgerRepo.On("FindLatestEntryByCard", ctx, "TAR-301-aaaa").
		Return(&domain.LedgerEntry{CardCode: "TAR-301-aaaa", Balance: 400}, nil).Once()

	history, err := suite.service.GetClientHistory(ctx, 301)

	suite.Require().NoError(err)
	suite.Equal(2, history.Summary.TotalCards)
	suite.Equal(1, history.Summary.ActiveCards)
	suite.Equal(1, history.Summary.PaidCards)
	suite.Equal(int64(1500), history.Summary.TotalLent)
	suite.Equal(int64(1100), history.Summary.TotalPaid)
	suite.Equal(int64(400), history.Summary.TotalOutstanding)
}

func (suite *ClientServiceTestSuite) TestUpdateActiveCardTerms_RederivesInstallment() {
	ctx := context.Background()
	card := &domain.LoanCard{
		CardCode: "TAR-301-aaaa", ClientCode: 301, Principal: 1000,
		TermDays: 30, Frequency: domain.Daily, Installment: 34, InstallmentCount: 30,
		Status: domain.CardActive, Position: 7,
	}
	req := dto.UpdateCardTermsRequest{TermDays: 60, Frequency: "WEEKLY"}

	suite.mockCardRepo.On("FindActiveCardByClient", ctx, int64(301)).Return(card, nil).Once()
	// 60 days weekly: ceil(60/7)=9 installments, ceil(1000/9)=112 each
	suite.mockCardRepo.On("UpdateCardTerms", ctx, "TAR-301-aaaa", 60, domain.Weekly, int64(112), 9, "admin", mock.Anything).
		Return(nil).Once()

	updated, err := suite.service.UpdateActiveCardTerms(ctx, 301, req, "admin")

	suite.Require().NoError(err)
	suite.Equal(60, updated.TermDays)
	suite.Equal(domain.Weekly, updated.Frequency)
	suite.Equal(int64(112), updated.Installment)
	suite.Equal(9, updated.InstallmentCount)
	suite.mockCardRepo.AssertExpectations(suite.T())
}

func (suite *ClientServiceTestSuite) TestUpdateActiveCardTerms_NoActiveCard() {
	ctx := context.Background()
	req := dto.UpdateCardTermsRequest{TermDays: 60, Frequency: "WEEKLY"}

	suite.mockCardRepo.On("FindActiveCardByClient", ctx, int64(302)).
		Return(nil, apperrors.ErrNotFound).Once()

	updated, err := suite.service.UpdateActiveCardTerms(ctx, 302, req, "admin")

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockCardRepo.AssertNotCalled(suite.T(), "UpdateCardTerms",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestClientServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ClientServiceTestSuite))
}

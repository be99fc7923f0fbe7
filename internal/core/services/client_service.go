package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/jdrojas/cobranza_app/internal/apperrors"
	"github.com/jdrojas/cobranza_app/internal/core/domain"
	portsrepo "github.com/jdrojas/cobranza_app/internal/core/ports/repositories"
	portssvc "github.com/jdrojas/cobranza_app/internal/core/ports/services"
	"github.com/jdrojas/cobranza_app/internal/dto"
	"github.com/jdrojas/cobranza_app/internal/middleware"
	"github.com/jdrojas/cobranza_app/internal/utils/schedule"
)

// clientService provides the client-facing read model (clients joined with
// their active-card standing) and the plain edits that do not touch the
// route order or the ledger.
type clientService struct {
	clientRepo portsrepo.ClientRepositoryFacade
	cardRepo   portsrepo.CardRepositoryWithTx
	ledgerRepo portsrepo.LedgerRepositoryFacade
}

// NewClientService creates a new ClientService.
func NewClientService(clientRepo portsrepo.ClientRepositoryFacade, cardRepo portsrepo.CardRepositoryWithTx, ledgerRepo portsrepo.LedgerRepositoryFacade) portssvc.ClientSvcFacade {
	return &clientService{
		clientRepo: clientRepo,
		cardRepo:   cardRepo,
		ledgerRepo: ledgerRepo,
	}
}

// Ensure clientService implements the portssvc.ClientSvcFacade interface
var _ portssvc.ClientSvcFacade = (*clientService)(nil)

// outstandingOf reads the running balance of a card outside a transaction.
func (s *clientService) outstandingOf(ctx context.Context, card *domain.LoanCard) (int64, error) {
	latest, err := s.ledgerRepo.FindLatestEntryByCard(ctx, card.CardCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return card.Principal, nil
		}
		return 0, fmt.Errorf("failed to read latest entry of card %s: %w", card.CardCode, err)
	}
	return latest.Balance, nil
}

// overviewFor joins one client with its active-card standing.
func (s *clientService) overviewFor(ctx context.Context, client domain.Client) (domain.ClientOverview, error) {
	overview := domain.ClientOverview{Client: client}

	active, err := s.cardRepo.FindActiveCardByClient(ctx, client.ClientCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return overview, nil
		}
		return overview, fmt.Errorf("failed to find active card of client %d: %w", client.ClientCode, err)
	}

	outstanding, err := s.outstandingOf(ctx, active)
	if err != nil {
		return overview, err
	}
	overview.ActiveCard = active
	overview.Position = active.Position
	overview.Outstanding = outstanding
	return overview, nil
}

// overviewsFor joins many clients and sorts them in route order, clients
// without an active card last.
func (s *clientService) overviewsFor(ctx context.Context, clients []domain.Client) ([]domain.ClientOverview, error) {
	overviews := make([]domain.ClientOverview, 0, len(clients))
	for _, client := range clients {
		overview, err := s.overviewFor(ctx, client)
		if err != nil {
			return nil, err
		}
		overviews = append(overviews, overview)
	}
	sort.SliceStable(overviews, func(i, j int) bool {
		pi, pj := overviews[i].Position, overviews[j].Position
		if pi == 0 {
			return false
		}
		if pj == 0 {
			return true
		}
		return pi < pj
	})
	return overviews, nil
}

// ListClients returns all clients in route order.
func (s *clientService) ListClients(ctx context.Context) ([]domain.ClientOverview, error) {
	clients, err := s.clientRepo.ListClients(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return s.overviewsFor(ctx, clients)
}

// ListClientsByCollector returns one collector's clients in route order.
func (s *clientService) ListClientsByCollector(ctx context.Context, collectorCode string) ([]domain.ClientOverview, error) {
	clients, err := s.clientRepo.ListClientsByCollector(ctx, collectorCode)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients of collector %s: %w", collectorCode, err)
	}
	return s.overviewsFor(ctx, clients)
}

// GetClientByCode returns one client with its standing.
func (s *clientService) GetClientByCode(ctx context.Context, clientCode int64) (*domain.ClientOverview, error) {
	client, err := s.clientRepo.FindClientByCode(ctx, clientCode)
	if err != nil {
		return nil, fmt.Errorf("failed to find client %d: %w", clientCode, err)
	}
	overview, err := s.overviewFor(ctx, *client)
	if err != nil {
		return nil, err
	}
	return &overview, nil
}

// GetClientByPosition resolves a route position to its client.
func (s *clientService) GetClientByPosition(ctx context.Context, position int) (*domain.ClientOverview, error) {
	card, err := s.cardRepo.FindActiveCardByPosition(ctx, position)
	if err != nil {
		return nil, fmt.Errorf("failed to find active card at position %d: %w", position, err)
	}
	return s.overviewOfCardOwner(ctx, card)
}

// Navigate returns the client at the neighboring route position.
func (s *clientService) Navigate(ctx context.Context, current int, direction domain.Direction, collectorCode *string) (*domain.ClientOverview, error) {
	card, err := s.cardRepo.FindNeighborActiveCard(ctx, current, direction, collectorCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNoMoreInDirection) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find neighbor of position %d: %w", current, err)
	}
	return s.overviewOfCardOwner(ctx, card)
}

// FirstByCollector returns the first client of a collector's route.
func (s *clientService) FirstByCollector(ctx context.Context, collectorCode string) (*domain.ClientOverview, error) {
	card, err := s.cardRepo.FirstActiveCardByCollector(ctx, collectorCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: collector %s has no active cards", apperrors.ErrNotFound, collectorCode)
		}
		return nil, fmt.Errorf("failed to find first active card of collector %s: %w", collectorCode, err)
	}
	return s.overviewOfCardOwner(ctx, card)
}

func (s *clientService) overviewOfCardOwner(ctx context.Context, card *domain.LoanCard) (*domain.ClientOverview, error) {
	client, err := s.clientRepo.FindClientByCode(ctx, card.ClientCode)
	if err != nil {
		return nil, fmt.Errorf("failed to find client %d of card %s: %w", card.ClientCode, card.CardCode, err)
	}

	outstanding, err := s.outstandingOf(ctx, card)
	if err != nil {
		return nil, err
	}
	return &domain.ClientOverview{
		Client:      *client,
		Outstanding: outstanding,
		Position:    card.Position,
		ActiveCard:  card,
	}, nil
}

// GetClientHistory returns every card the client has held with repayment
// summaries.
func (s *clientService) GetClientHistory(ctx context.Context, clientCode int64) (*domain.ClientHistory, error) {
	client, err := s.clientRepo.FindClientByCode(ctx, clientCode)
	if err != nil {
		return nil, fmt.Errorf("failed to find client %d: %w", clientCode, err)
	}
	cards, err := s.cardRepo.ListCardsByClient(ctx, clientCode)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards of client %d: %w", clientCode, err)
	}

	history := domain.ClientHistory{
		Client: *client,
		Cards:  make([]domain.CardWithSummary, 0, len(cards)),
	}
	for i := range cards {
		outstanding, err := s.outstandingOf(ctx, &cards[i])
		if err != nil {
			return nil, err
		}
		summary := domain.NewCardSummary(cards[i].Principal, outstanding)
		history.Cards = append(history.Cards, domain.CardWithSummary{
			LoanCard: cards[i],
			Summary:  summary,
		})

		history.Summary.TotalCards++
		if cards[i].IsActive() {
			history.Summary.ActiveCards++
		} else {
			history.Summary.PaidCards++
		}
		history.Summary.TotalLent += summary.Principal
		history.Summary.TotalPaid += summary.TotalPaid
		history.Summary.TotalOutstanding += summary.Outstanding
	}
	return &history, nil
}

// UpdateClientBasics rewrites name and street.
func (s *clientService) UpdateClientBasics(ctx context.Context, clientCode int64, req dto.UpdateClientRequest, userID string) (*domain.Client, error) {
	client, err := s.clientRepo.FindClientByCode(ctx, clientCode)
	if err != nil {
		return nil, fmt.Errorf("failed to find client %d: %w", clientCode, err)
	}

	now := time.Now().UTC()
	if err := s.clientRepo.UpdateClientBasics(ctx, clientCode, req.Name, req.Street, userID, now); err != nil {
		return nil, fmt.Errorf("failed to update client %d: %w", clientCode, err)
	}

	client.Name = req.Name
	client.Street = req.Street
	client.LastUpdatedAt = now
	client.LastUpdatedBy = userID
	return client, nil
}

// UpdateActiveCardTerms rewrites the schedule of the client's active card.
// The installment amount and count are re-derived from the new terms; the
// principal and the ledger are untouched.
func (s *clientService) UpdateActiveCardTerms(ctx context.Context, clientCode int64, req dto.UpdateCardTermsRequest, userID string) (*domain.LoanCard, error) {
	card, err := s.cardRepo.FindActiveCardByClient(ctx, clientCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: client %d has no active card", apperrors.ErrNotFound, clientCode)
		}
		return nil, fmt.Errorf("failed to find active card of client %d: %w", clientCode, err)
	}

	frequency := domain.PaymentFrequency(req.Frequency)
	terms, err := schedule.Derive(card.Principal, req.TermDays, frequency)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.cardRepo.UpdateCardTerms(ctx, card.CardCode, req.TermDays, frequency, terms.Installment, terms.InstallmentCount, userID, now); err != nil {
		return nil, fmt.Errorf("failed to update terms of card %s: %w", card.CardCode, err)
	}

	middleware.GetLoggerFromCtx(ctx).Info("Card terms updated",
		slog.String("card_code", card.CardCode),
		slog.Int("term_days", req.TermDays),
		slog.String("frequency", string(frequency)),
	)

	card.TermDays = req.TermDays
	card.Frequency = frequency
	card.Installment = terms.Installment
	card.InstallmentCount = terms.InstallmentCount
	card.LastUpdatedAt = now
	card.LastUpdatedBy = userID
	return card, nil
}

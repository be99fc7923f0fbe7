package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jdrojas/cobranza_app/internal/apperrors"
	"github.com/jdrojas/cobranza_app/internal/core/domain"
	portsrepo "github.com/jdrojas/cobranza_app/internal/core/ports/repositories"
	portssvc "github.com/jdrojas/cobranza_app/internal/core/ports/services"
	"github.com/jdrojas/cobranza_app/internal/middleware"
)

// positionService maintains the dense visiting order of active cards.
// Positions always form the exact sequence 1..N over active cards: claiming a
// position shifts the tail up by one, retiring a card shifts it back down.
// The shifts are single range UPDATEs issued inside the caller's transaction,
// so the order is never observable in a half-shifted state.
type positionService struct {
	cardRepo portsrepo.CardRepositoryWithTx
}

// NewPositionService creates a new PositionService.
func NewPositionService(cardRepo portsrepo.CardRepositoryWithTx) *positionService {
	return &positionService{cardRepo: cardRepo}
}

// Ensure positionService implements the portssvc.PositionSvcFacade interface
var _ portssvc.PositionSvcFacade = (*positionService)(nil)

// NextFreePosition returns the position a card appended to the end of the
// route would take.
func (s *positionService) NextFreePosition(ctx context.Context) (int, error) {
	var next int
	err := runInTx(ctx, s.cardRepo, func(tx pgx.Tx) error {
		maxPos, err := s.cardRepo.MaxActivePosition(ctx, tx)
		if err != nil {
			return fmt.Errorf("failed to read max active position: %w", err)
		}
		next = maxPos + 1
		return nil
	})
	if err != nil {
		return 0, err
	}
	return next, nil
}

// ListRoute returns every active card in position order.
func (s *positionService) ListRoute(ctx context.Context) ([]domain.LoanCard, error) {
	cards, err := s.cardRepo.ListActiveCards(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active cards: %w", err)
	}
	return cards, nil
}

// Traverse returns the neighboring active card from the current position in
// the given direction, optionally scoped to one collector's clients.
func (s *positionService) Traverse(ctx context.Context, current int, direction domain.Direction, collectorCode *string) (*domain.LoanCard, error) {
	if direction != domain.Next && direction != domain.Previous {
		return nil, fmt.Errorf("%w: unknown direction %q", apperrors.ErrValidation, direction)
	}
	card, err := s.cardRepo.FindNeighborActiveCard(ctx, current, direction, collectorCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNoMoreInDirection) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find neighbor of position %d: %w", current, err)
	}
	return card, nil
}

// FirstByCollector returns the lowest-positioned active card on a collector's
// route.
func (s *positionService) FirstByCollector(ctx context.Context, collectorCode string) (*domain.LoanCard, error) {
	card, err := s.cardRepo.FirstActiveCardByCollector(ctx, collectorCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: collector %s has no active cards", apperrors.ErrNotFound, collectorCode)
		}
		return nil, fmt.Errorf("failed to find first active card of collector %s: %w", collectorCode, err)
	}
	return card, nil
}

// PositionWithinScope returns the card's 1-based rank among the active cards
// in scope and the scope total. Recomputed from the stored positions on every
// call; the rank of a card changes whenever a lower-positioned card enters or
// leaves the route.
func (s *positionService) PositionWithinScope(ctx context.Context, cardCode string, collectorCode *string) (int, int, error) {
	card, err := s.cardRepo.FindCardByCode(ctx, cardCode)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to find card %s: %w", cardCode, err)
	}
	if !card.IsActive() {
		return 0, 0, fmt.Errorf("%w: card %s is not on the route", apperrors.ErrNotFound, cardCode)
	}

	rank, err := s.cardRepo.CountActiveCardsUpTo(ctx, card.Position, collectorCode)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to rank card %s: %w", cardCode, err)
	}
	total, err := s.cardRepo.CountActiveCards(ctx, collectorCode)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count active cards: %w", err)
	}
	return rank, total, nil
}

// claimPositionInTx makes room for a new card and returns the position it
// should take: max+1 when insert is nil, otherwise the slot immediately
// before or after the referenced card, shifting the tail up by one.
func (s *positionService) claimPositionInTx(ctx context.Context, tx pgx.Tx, insert *domain.InsertPosition) (int, error) {
	if insert == nil {
		maxPos, err := s.cardRepo.MaxActivePosition(ctx, tx)
		if err != nil {
			return 0, fmt.Errorf("failed to read max active position: %w", err)
		}
		return maxPos + 1, nil
	}

	ref, err := s.cardRepo.FindActiveCardByPositionForUpdate(ctx, tx, insert.Reference)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return 0, fmt.Errorf("%w: position %d", apperrors.ErrReferenceNotFound, insert.Reference)
		}
		return 0, fmt.Errorf("failed to resolve reference position %d: %w", insert.Reference, err)
	}

	target := ref.Position
	if insert.Mode == domain.InsertAfter {
		target++
	}
	if err := s.cardRepo.ShiftPositionsUpFrom(ctx, tx, target); err != nil {
		return 0, fmt.Errorf("failed to open position %d: %w", target, err)
	}
	return target, nil
}

// removeAndCompactInTx retires an active card and closes the gap it leaves,
// keeping the remaining positions dense. Retiring a card that is not active
// is a no-op.
func (s *positionService) removeAndCompactInTx(ctx context.Context, tx pgx.Tx, card *domain.LoanCard, userID string, now time.Time) error {
	if !card.IsActive() {
		return nil
	}
	if err := s.cardRepo.RetireCardInTx(ctx, tx, card.CardCode, userID, now); err != nil {
		return fmt.Errorf("failed to retire card %s: %w", card.CardCode, err)
	}
	if err := s.cardRepo.ShiftPositionsDownAfter(ctx, tx, card.Position); err != nil {
		return fmt.Errorf("failed to compact positions after %d: %w", card.Position, err)
	}
	middleware.GetLoggerFromCtx(ctx).Info("Card retired from route",
		slog.String("card_code", card.CardCode),
		slog.Int("freed_position", card.Position),
	)
	return nil
}

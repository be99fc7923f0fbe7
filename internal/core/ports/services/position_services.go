package services

import (
	"context"

	"github.com/jdrojas/cobranza_app/internal/core/domain"
)

// PositionSvcFacade answers queries over the dense route order of active
// cards. Structural edits to the order (insert, remove-and-compact) are not
// exposed here; they only happen inside loan lifecycle transactions.
type PositionSvcFacade interface {
	// NextFreePosition returns max(position)+1 over active cards, or 1 when
	// there are none.
	NextFreePosition(ctx context.Context) (int, error)

	// ListRoute returns every active card in position order, the full
	// visiting list.
	ListRoute(ctx context.Context) ([]domain.LoanCard, error)

	// Traverse returns the neighboring active card from the current position
	// in the given direction, optionally restricted to one collector's
	// clients. Returns apperrors.ErrNoMoreInDirection at the boundary.
	Traverse(ctx context.Context, current int, direction domain.Direction, collectorCode *string) (*domain.LoanCard, error)

	// FirstByCollector returns the lowest-positioned active card of a
	// collector's route.
	FirstByCollector(ctx context.Context, collectorCode string) (*domain.LoanCard, error)

	// PositionWithinScope returns the card's 1-based rank among the active
	// cards in scope and the scope's total, for "X of Y" display. Always
	// recomputed, never cached.
	PositionWithinScope(ctx context.Context, cardCode string, collectorCode *string) (rank int, total int, err error)
}

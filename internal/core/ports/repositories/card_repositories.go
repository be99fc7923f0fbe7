package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jdrojas/cobranza_app/internal/core/domain"
)

// CardReader defines plain read operations for loan card data.
type CardReader interface {
	// FindCardByCode retrieves a card by its unique code.
	FindCardByCode(ctx context.Context, cardCode string) (*domain.LoanCard, error)

	// FindActiveCardByClient retrieves the client's single active card, or
	// apperrors.ErrNotFound when the client has none.
	FindActiveCardByClient(ctx context.Context, clientCode int64) (*domain.LoanCard, error)

	// ListCardsByClient retrieves every card the client has ever held, most
	// recently issued first.
	ListCardsByClient(ctx context.Context, clientCode int64) ([]domain.LoanCard, error)

	// ListActiveCards retrieves all active cards ordered by position.
	ListActiveCards(ctx context.Context) ([]domain.LoanCard, error)
}

// CardWriter defines write operations that do not touch the position index.
type CardWriter interface {
	// UpdateCardTerms rewrites the schedule fields of a card.
	UpdateCardTerms(ctx context.Context, cardCode string, termDays int, frequency domain.PaymentFrequency, installment int64, installmentCount int, updatedBy string, now time.Time) error
}

// CardNavigator answers route-order queries over the active cards. Scope is
// an optional collector code; nil means the whole route.
type CardNavigator interface {
	// FindNeighborActiveCard returns the active card with the smallest
	// position greater than current (Next) or the largest position smaller
	// than current (Previous) within scope. Returns
	// apperrors.ErrNoMoreInDirection at either end.
	FindNeighborActiveCard(ctx context.Context, current int, direction domain.Direction, collectorCode *string) (*domain.LoanCard, error)

	// FindActiveCardByPosition returns the active card holding exactly the
	// given position.
	FindActiveCardByPosition(ctx context.Context, position int) (*domain.LoanCard, error)

	// FirstActiveCardByCollector returns the lowest-positioned active card
	// whose owning client belongs to the collector.
	FirstActiveCardByCollector(ctx context.Context, collectorCode string) (*domain.LoanCard, error)

	// CountActiveCards counts active cards within scope.
	CountActiveCards(ctx context.Context, collectorCode *string) (int, error)

	// CountActiveCardsUpTo counts active cards within scope whose position is
	// at or before the given one; this is the card's 1-based rank in scope.
	CountActiveCardsUpTo(ctx context.Context, position int, collectorCode *string) (int, error)
}

// CardTransactionSupport holds the operations that must run inside the
// caller's transaction because they read or rewrite the shared position
// index. All position shifts here are single range-predicate UPDATEs, never
// read-then-loop writes.
type CardTransactionSupport interface {
	// FindCardByCodeForUpdate selects a card and locks its row. Locking the
	// card row is what serializes concurrent payments against one card.
	FindCardByCodeForUpdate(ctx context.Context, tx pgx.Tx, cardCode string) (*domain.LoanCard, error)

	// FindActiveCardByClientForUpdate selects and locks the client's active card.
	FindActiveCardByClientForUpdate(ctx context.Context, tx pgx.Tx, clientCode int64) (*domain.LoanCard, error)

	// FindActiveCardByPositionForUpdate resolves a reference position to its
	// active card, locking the row.
	FindActiveCardByPositionForUpdate(ctx context.Context, tx pgx.Tx, position int) (*domain.LoanCard, error)

	// MaxActivePosition returns the highest position among active cards, or 0
	// when none exist.
	MaxActivePosition(ctx context.Context, tx pgx.Tx) (int, error)

	// ShiftPositionsUpFrom increments by one the position of every active
	// card at or after fromPosition, opening a gap.
	ShiftPositionsUpFrom(ctx context.Context, tx pgx.Tx, fromPosition int) error

	// ShiftPositionsDownAfter decrements by one the position of every active
	// card strictly after afterPosition, closing a gap.
	ShiftPositionsDownAfter(ctx context.Context, tx pgx.Tx, afterPosition int) error

	// SaveCardInTx inserts a new card.
	SaveCardInTx(ctx context.Context, tx pgx.Tx, card domain.LoanCard) error

	// ListCardsByClientInTx retrieves every card of a client under the
	// caller's transaction.
	ListCardsByClientInTx(ctx context.Context, tx pgx.Tx, clientCode int64) ([]domain.LoanCard, error)

	// RetireCardInTx marks a card paid and parks its position at 0.
	RetireCardInTx(ctx context.Context, tx pgx.Tx, cardCode string, updatedBy string, now time.Time) error

	// DeleteCardsByClientInTx hard-deletes every card of a client.
	// Administrative purge path only.
	DeleteCardsByClientInTx(ctx context.Context, tx pgx.Tx, clientCode int64) error
}

// CardRepositoryFacade combines all card-related repository interfaces.
type CardRepositoryFacade interface {
	CardReader
	CardWriter
	CardNavigator
	CardTransactionSupport
}

// CardRepositoryWithTx extends CardRepositoryFacade with transaction capabilities.
type CardRepositoryWithTx interface {
	CardRepositoryFacade
	TransactionManager
}

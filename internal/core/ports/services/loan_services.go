package services

import (
	"context"

	"github.com/jdrojas/cobranza_app/internal/core/domain"
	"github.com/jdrojas/cobranza_app/internal/dto"
)

// LoanSvcFacade coordinates clients, cards, ledgers and the position index.
// Every method is a single all-or-nothing unit of work.
type LoanSvcFacade interface {
	// OpenLoan creates the client if needed, derives the installment
	// schedule, claims a route position (end of route or relative to a
	// reference card) and issues the card with its anchoring ledger entry.
	// Fails with apperrors.ErrActiveLoanExists while the client's current
	// card still carries a balance.
	OpenLoan(ctx context.Context, req dto.OpenLoanRequest, userID string) (*domain.LoanGrant, error)

	// RecordPayment reconciles the declared remaining balance, appends the
	// ledger entry and, when the card is paid off, retires it from the route
	// and recomputes the client's activity state.
	RecordPayment(ctx context.Context, cardCode string, req dto.RecordPaymentRequest, userID string) (*domain.PaymentReceipt, error)

	// DeactivateClient soft-deactivates a zero-balance client, retiring its
	// card from the route order.
	DeactivateClient(ctx context.Context, clientCode int64, userID string) (*domain.Client, error)

	// PurgeClient hard-deletes a client with all cards and ledger entries,
	// compacting the route. Administrative operation: it bypasses the
	// zero-balance precondition.
	PurgeClient(ctx context.Context, clientCode int64, userID string) error

	// RefreshClientStatus recomputes the client's derived activity state
	// from its cards and persists it when stale.
	RefreshClientStatus(ctx context.Context, clientCode int64, userID string) (*domain.ClientOverview, error)
}

package services

import (
	"context"

	"github.com/jdrojas/cobranza_app/internal/core/domain"
	"github.com/jdrojas/cobranza_app/internal/dto"
)

// ClientReaderSvc defines the read side of client data: every result carries
// the derived activity state and active-card standing.
type ClientReaderSvc interface {
	// ListClients returns all clients in route order (clients without an
	// active card sort last).
	ListClients(ctx context.Context) ([]domain.ClientOverview, error)

	// ListClientsByCollector returns one collector's clients in route order.
	ListClientsByCollector(ctx context.Context, collectorCode string) ([]domain.ClientOverview, error)

	// GetClientByCode returns one client with its standing.
	GetClientByCode(ctx context.Context, clientCode int64) (*domain.ClientOverview, error)

	// GetClientByPosition resolves a route position to its client.
	GetClientByPosition(ctx context.Context, position int) (*domain.ClientOverview, error)

	// Navigate returns the client at the neighboring route position.
	// Returns apperrors.ErrNoMoreInDirection at either end of the route.
	Navigate(ctx context.Context, current int, direction domain.Direction, collectorCode *string) (*domain.ClientOverview, error)

	// FirstByCollector returns the first client of a collector's route.
	FirstByCollector(ctx context.Context, collectorCode string) (*domain.ClientOverview, error)

	// GetClientHistory returns every card the client has held with
	// repayment summaries.
	GetClientHistory(ctx context.Context, clientCode int64) (*domain.ClientHistory, error)
}

// ClientWriterSvc defines the plain-edit side of client data.
type ClientWriterSvc interface {
	// UpdateClientBasics rewrites name and street.
	UpdateClientBasics(ctx context.Context, clientCode int64, req dto.UpdateClientRequest, userID string) (*domain.Client, error)

	// UpdateActiveCardTerms rewrites the schedule fields of the client's
	// active card, re-deriving the installment amount.
	UpdateActiveCardTerms(ctx context.Context, clientCode int64, req dto.UpdateCardTermsRequest, userID string) (*domain.LoanCard, error)
}

// ClientSvcFacade combines all client-related service interfaces.
type ClientSvcFacade interface {
	ClientReaderSvc
	ClientWriterSvc
}

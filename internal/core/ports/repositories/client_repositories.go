package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jdrojas/cobranza_app/internal/core/domain"
)

// ClientReader defines read operations for client data.
type ClientReader interface {
	// FindClientByCode retrieves a client by its code.
	FindClientByCode(ctx context.Context, clientCode int64) (*domain.Client, error)

	// ListClients retrieves all clients.
	ListClients(ctx context.Context) ([]domain.Client, error)

	// ListClientsByCollector retrieves the clients of one collector.
	ListClientsByCollector(ctx context.Context, collectorCode string) ([]domain.Client, error)
}

// ClientWriter defines write operations for client data.
type ClientWriter interface {
	// UpdateClientBasics rewrites name and street.
	UpdateClientBasics(ctx context.Context, clientCode int64, name, street string, updatedBy string, now time.Time) error

	// UpdateClientStatus refreshes the denormalized activity state.
	UpdateClientStatus(ctx context.Context, clientCode int64, status domain.ClientStatus, updatedBy string, now time.Time) error
}

// ClientTransactionSupport holds the client writes that participate in the
// origination, payment and purge transactions.
type ClientTransactionSupport interface {
	// FindClientByCodeForUpdate selects a client and locks its row.
	FindClientByCodeForUpdate(ctx context.Context, tx pgx.Tx, clientCode int64) (*domain.Client, error)

	// SaveClientInTx inserts a new client.
	SaveClientInTx(ctx context.Context, tx pgx.Tx, client domain.Client) error

	// UpdateClientStatusInTx refreshes the activity state inside the caller's
	// transaction.
	UpdateClientStatusInTx(ctx context.Context, tx pgx.Tx, clientCode int64, status domain.ClientStatus, updatedBy string, now time.Time) error

	// DeleteClientInTx hard-deletes a client. Administrative purge path only.
	DeleteClientInTx(ctx context.Context, tx pgx.Tx, clientCode int64) error
}

// ClientRepositoryFacade combines all client-related repository interfaces.
type ClientRepositoryFacade interface {
	ClientReader
	ClientWriter
	ClientTransactionSupport
}

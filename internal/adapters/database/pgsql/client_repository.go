package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jdrojas/cobranza_app/internal/apperrors"
	"github.com/jdrojas/cobranza_app/internal/core/domain"
	portsrepo "github.com/jdrojas/cobranza_app/internal/core/ports/repositories"
)

const clientColumns = `client_code, name, street, collector_code, status, created_at, created_by, last_updated_at, last_updated_by`

type clientRepository struct {
	pool *pgxpool.Pool
}

// NewClientRepository creates a new repository for client data.
func NewClientRepository(pool *pgxpool.Pool) portsrepo.ClientRepositoryFacade {
	return &clientRepository{pool: pool}
}

var _ portsrepo.ClientRepositoryFacade = (*clientRepository)(nil)

func scanClient(row pgx.Row) (*domain.Client, error) {
	var client domain.Client
	err := row.Scan(
		&client.ClientCode,
		&client.Name,
		&client.Street,
		&client.CollectorCode,
		&client.Status,
		&client.CreatedAt,
		&client.CreatedBy,
		&client.LastUpdatedAt,
		&client.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, translateErr(err)
	}
	return &client, nil
}

func (r *clientRepository) findClientByCode(ctx context.Context, q dbtx, clientCode int64, forUpdate bool) (*domain.Client, error) {
	query := fmt.Sprintf(`SELECT %s FROM clients WHERE client_code = $1`, clientColumns)
	if forUpdate {
		query += ` FOR UPDATE`
	}
	client, err := scanClient(q.QueryRow(ctx, query, clientCode))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: client %d", apperrors.ErrNotFound, clientCode)
		}
		return nil, fmt.Errorf("failed to find client %d: %w", clientCode, err)
	}
	return client, nil
}

// FindClientByCode retrieves a client by its code.
func (r *clientRepository) FindClientByCode(ctx context.Context, clientCode int64) (*domain.Client, error) {
	return r.findClientByCode(ctx, r.pool, clientCode, false)
}

// FindClientByCodeForUpdate selects a client and locks its row.
func (r *clientRepository) FindClientByCodeForUpdate(ctx context.Context, tx pgx.Tx, clientCode int64) (*domain.Client, error) {
	return r.findClientByCode(ctx, tx, clientCode, true)
}

func (r *clientRepository) listClients(ctx context.Context, query string, args ...any) ([]domain.Client, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query clients: %w", translateErr(err))
	}
	defer rows.Close()

	clients := []domain.Client{}
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, *client)
	}
	if err := rows.Err(); err != nil {
		return nil, translateErr(err)
	}
	return clients, nil
}

// ListClients retrieves all clients.
func (r *clientRepository) ListClients(ctx context.Context) ([]domain.Client, error) {
	query := fmt.Sprintf(`SELECT %s FROM clients ORDER BY client_code`, clientColumns)
	return r.listClients(ctx, query)
}

// ListClientsByCollector retrieves the clients of one collector.
func (r *clientRepository) ListClientsByCollector(ctx context.Context, collectorCode string) ([]domain.Client, error) {
	query := fmt.Sprintf(`SELECT %s FROM clients WHERE collector_code = $1 ORDER BY client_code`, clientColumns)
	return r.listClients(ctx, query, collectorCode)
}

// UpdateClientBasics rewrites name and street.
func (r *clientRepository) UpdateClientBasics(ctx context.Context, clientCode int64, name, street string, updatedBy string, now time.Time) error {
	query := `
		UPDATE clients
		SET name = $2, street = $3, last_updated_at = $4, last_updated_by = $5
		WHERE client_code = $1;
	`
	tag, err := r.pool.Exec(ctx, query, clientCode, name, street, now, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to update client %d: %w", clientCode, translateErr(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: client %d", apperrors.ErrNotFound, clientCode)
	}
	return nil
}

func (r *clientRepository) updateClientStatus(ctx context.Context, q dbtx, clientCode int64, status domain.ClientStatus, updatedBy string, now time.Time) error {
	query := `
		UPDATE clients
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE client_code = $1;
	`
	tag, err := q.Exec(ctx, query, clientCode, status, now, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to update status of client %d: %w", clientCode, translateErr(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: client %d", apperrors.ErrNotFound, clientCode)
	}
	return nil
}

// UpdateClientStatus refreshes the denormalized activity state.
func (r *clientRepository) UpdateClientStatus(ctx context.Context, clientCode int64, status domain.ClientStatus, updatedBy string, now time.Time) error {
	return r.updateClientStatus(ctx, r.pool, clientCode, status, updatedBy, now)
}

// UpdateClientStatusInTx refreshes the activity state inside the caller's
// transaction.
func (r *clientRepository) UpdateClientStatusInTx(ctx context.Context, tx pgx.Tx, clientCode int64, status domain.ClientStatus, updatedBy string, now time.Time) error {
	return r.updateClientStatus(ctx, tx, clientCode, status, updatedBy, now)
}

// SaveClientInTx inserts a new client.
func (r *clientRepository) SaveClientInTx(ctx context.Context, tx pgx.Tx, client domain.Client) error {
	query := `
		INSERT INTO clients (client_code, name, street, collector_code, status, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := tx.Exec(ctx, query,
		client.ClientCode,
		client.Name,
		client.Street,
		client.CollectorCode,
		client.Status,
		client.CreatedAt,
		client.CreatedBy,
		client.LastUpdatedAt,
		client.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save client %d: %w", client.ClientCode, translateErr(err))
	}
	return nil
}

// DeleteClientInTx hard-deletes a client.
func (r *clientRepository) DeleteClientInTx(ctx context.Context, tx pgx.Tx, clientCode int64) error {
	query := `DELETE FROM clients WHERE client_code = $1;`
	tag, err := tx.Exec(ctx, query, clientCode)
	if err != nil {
		return fmt.Errorf("failed to delete client %d: %w", clientCode, translateErr(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: client %d", apperrors.ErrNotFound, clientCode)
	}
	return nil
}

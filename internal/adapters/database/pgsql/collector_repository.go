package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jdrojas/cobranza_app/internal/apperrors"
	"github.com/jdrojas/cobranza_app/internal/core/domain"
	portsrepo "github.com/jdrojas/cobranza_app/internal/core/ports/repositories"
)

const collectorColumns = `collector_code, name, address, phone, motorbike, created_at, created_by, last_updated_at, last_updated_by`

type collectorRepository struct {
	pool *pgxpool.Pool
}

// NewCollectorRepository creates a new repository for collector data.
func NewCollectorRepository(pool *pgxpool.Pool) portsrepo.CollectorRepositoryFacade {
	return &collectorRepository{pool: pool}
}

var _ portsrepo.CollectorRepositoryFacade = (*collectorRepository)(nil)

func scanCollector(row pgx.Row) (*domain.Collector, error) {
	var collector domain.Collector
	err := row.Scan(
		&collector.CollectorCode,
		&collector.Name,
		&collector.Address,
		&collector.Phone,
		&collector.Motorbike,
		&collector.CreatedAt,
		&collector.CreatedBy,
		&collector.LastUpdatedAt,
		&collector.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, translateErr(err)
	}
	return &collector, nil
}

// FindCollectorByCode retrieves a collector by its code.
func (r *collectorRepository) FindCollectorByCode(ctx context.Context, collectorCode string) (*domain.Collector, error) {
	query := fmt.Sprintf(`SELECT %s FROM collectors WHERE collector_code = $1`, collectorColumns)
	collector, err := scanCollector(r.pool.QueryRow(ctx, query, collectorCode))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: collector %s", apperrors.ErrNotFound, collectorCode)
		}
		return nil, fmt.Errorf("failed to find collector %s: %w", collectorCode, err)
	}
	return collector, nil
}

// ListCollectors retrieves all collectors ordered by code.
func (r *collectorRepository) ListCollectors(ctx context.Context) ([]domain.Collector, error) {
	query := fmt.Sprintf(`SELECT %s FROM collectors ORDER BY collector_code`, collectorColumns)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query collectors: %w", translateErr(err))
	}
	defer rows.Close()

	collectors := []domain.Collector{}
	for rows.Next() {
		collector, err := scanCollector(rows)
		if err != nil {
			return nil, err
		}
		collectors = append(collectors, *collector)
	}
	if err := rows.Err(); err != nil {
		return nil, translateErr(err)
	}
	return collectors, nil
}

// SaveCollector persists a new collector.
func (r *collectorRepository) SaveCollector(ctx context.Context, collector domain.Collector) error {
	query := `
		INSERT INTO collectors (collector_code, name, address, phone, motorbike, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.pool.Exec(ctx, query,
		collector.CollectorCode,
		collector.Name,
		collector.Address,
		collector.Phone,
		collector.Motorbike,
		collector.CreatedAt,
		collector.CreatedBy,
		collector.LastUpdatedAt,
		collector.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save collector %s: %w", collector.CollectorCode, translateErr(err))
	}
	return nil
}

// UpdateCollector rewrites a collector's contact fields.
func (r *collectorRepository) UpdateCollector(ctx context.Context, collector domain.Collector) error {
	query := `
		UPDATE collectors
		SET name = $2, address = $3, phone = $4, motorbike = $5, last_updated_at = $6, last_updated_by = $7
		WHERE collector_code = $1;
	`
	tag, err := r.pool.Exec(ctx, query,
		collector.CollectorCode,
		collector.Name,
		collector.Address,
		collector.Phone,
		collector.Motorbike,
		collector.LastUpdatedAt,
		collector.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update collector %s: %w", collector.CollectorCode, translateErr(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: collector %s", apperrors.ErrNotFound, collector.CollectorCode)
	}
	return nil
}

// DeleteCollector removes a collector. The foreign key from clients turns
// into a validation error while clients still reference it.
func (r *collectorRepository) DeleteCollector(ctx context.Context, collectorCode string) error {
	query := `DELETE FROM collectors WHERE collector_code = $1;`
	tag, err := r.pool.Exec(ctx, query, collectorCode)
	if err != nil {
		return fmt.Errorf("failed to delete collector %s: %w", collectorCode, translateErr(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: collector %s", apperrors.ErrNotFound, collectorCode)
	}
	return nil
}

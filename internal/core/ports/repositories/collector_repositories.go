package repositories

import (
	"context"

	"github.com/jdrojas/cobranza_app/internal/core/domain"
)

// CollectorReader defines read operations for collector data.
type CollectorReader interface {
	// FindCollectorByCode retrieves a collector by its code.
	FindCollectorByCode(ctx context.Context, collectorCode string) (*domain.Collector, error)

	// ListCollectors retrieves all collectors ordered by code.
	ListCollectors(ctx context.Context) ([]domain.Collector, error)
}

// CollectorWriter defines write operations for collector data.
type CollectorWriter interface {
	// SaveCollector persists a new collector.
	SaveCollector(ctx context.Context, collector domain.Collector) error

	// UpdateCollector rewrites a collector's contact fields.
	UpdateCollector(ctx context.Context, collector domain.Collector) error

	// DeleteCollector removes a collector. Fails while clients still
	// reference it (FK).
	DeleteCollector(ctx context.Context, collectorCode string) error
}

// CollectorRepositoryFacade combines all collector-related repository interfaces.
type CollectorRepositoryFacade interface {
	CollectorReader
	CollectorWriter
}

package services

import (
	"context"

	"github.com/jdrojas/cobranza_app/internal/core/domain"
	"github.com/jdrojas/cobranza_app/internal/dto"
)

// CollectorSvcFacade is plain CRUD over collectors.
type CollectorSvcFacade interface {
	// ListCollectors returns all collectors ordered by code.
	ListCollectors(ctx context.Context) ([]domain.Collector, error)

	// GetCollectorByCode returns one collector.
	GetCollectorByCode(ctx context.Context, collectorCode string) (*domain.Collector, error)

	// CreateCollector persists a new collector.
	CreateCollector(ctx context.Context, req dto.CreateCollectorRequest, userID string) (*domain.Collector, error)

	// UpdateCollector rewrites contact fields.
	UpdateCollector(ctx context.Context, collectorCode string, req dto.UpdateCollectorRequest, userID string) (*domain.Collector, error)

	// DeleteCollector removes a collector that no client references.
	DeleteCollector(ctx context.Context, collectorCode string) error
}

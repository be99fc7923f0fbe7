package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jdrojas/cobranza_app/internal/core/domain"
	portsrepo "github.com/jdrojas/cobranza_app/internal/core/ports/repositories"
	portssvc "github.com/jdrojas/cobranza_app/internal/core/ports/services"
	"github.com/jdrojas/cobranza_app/internal/dto"
	"github.com/jdrojas/cobranza_app/internal/middleware"
)

// collectorService is plain CRUD over the route collectors.
type collectorService struct {
	collectorRepo portsrepo.CollectorRepositoryFacade
}

// NewCollectorService creates a new CollectorService.
func NewCollectorService(collectorRepo portsrepo.CollectorRepositoryFacade) portssvc.CollectorSvcFacade {
	return &collectorService{collectorRepo: collectorRepo}
}

// Ensure collectorService implements the portssvc.CollectorSvcFacade interface
var _ portssvc.CollectorSvcFacade = (*collectorService)(nil)

// ListCollectors returns all collectors ordered by code.
func (s *collectorService) ListCollectors(ctx context.Context) ([]domain.Collector, error) {
	collectors, err := s.collectorRepo.ListCollectors(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list collectors: %w", err)
	}
	return collectors, nil
}

// GetCollectorByCode returns one collector.
func (s *collectorService) GetCollectorByCode(ctx context.Context, collectorCode string) (*domain.Collector, error) {
	collector, err := s.collectorRepo.FindCollectorByCode(ctx, collectorCode)
	if err != nil {
		return nil, fmt.Errorf("failed to find collector %s: %w", collectorCode, err)
	}
	return collector, nil
}

// CreateCollector persists a new collector.
func (s *collectorService) CreateCollector(ctx context.Context, req dto.CreateCollectorRequest, userID string) (*domain.Collector, error) {
	now := time.Now().UTC()
	collector := domain.Collector{
		CollectorCode: req.CollectorCode,
		Name:          req.Name,
		Address:       req.Address,
		Phone:         req.Phone,
		Motorbike:     req.Motorbike,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.collectorRepo.SaveCollector(ctx, collector); err != nil {
		return nil, fmt.Errorf("failed to save collector %s: %w", req.CollectorCode, err)
	}

	middleware.GetLoggerFromCtx(ctx).Info("Collector created", slog.String("collector_code", req.CollectorCode))
	return &collector, nil
}

// UpdateCollector rewrites contact fields.
func (s *collectorService) UpdateCollector(ctx context.Context, collectorCode string, req dto.UpdateCollectorRequest, userID string) (*domain.Collector, error) {
	collector, err := s.collectorRepo.FindCollectorByCode(ctx, collectorCode)
	if err != nil {
		return nil, fmt.Errorf("failed to find collector %s: %w", collectorCode, err)
	}

	collector.Name = req.Name
	collector.Address = req.Address
	collector.Phone = req.Phone
	collector.Motorbike = req.Motorbike
	collector.LastUpdatedAt = time.Now().UTC()
	collector.LastUpdatedBy = userID

	if err := s.collectorRepo.UpdateCollector(ctx, *collector); err != nil {
		return nil, fmt.Errorf("failed to update collector %s: %w", collectorCode, err)
	}
	return collector, nil
}

// DeleteCollector removes a collector that no client references.
func (s *collectorService) DeleteCollector(ctx context.Context, collectorCode string) error {
	if err := s.collectorRepo.DeleteCollector(ctx, collectorCode); err != nil {
		return fmt.Errorf("failed to delete collector %s: %w", collectorCode, err)
	}
	middleware.GetLoggerFromCtx(ctx).Info("Collector deleted", slog.String("collector_code", collectorCode))
	return nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jdrojas/cobranza_app/internal/apperrors"
	"github.com/jdrojas/cobranza_app/internal/core/domain"
	portsrepo "github.com/jdrojas/cobranza_app/internal/core/ports/repositories"
	portssvc "github.com/jdrojas/cobranza_app/internal/core/ports/services"
	"github.com/jdrojas/cobranza_app/internal/dto"
)

// reportService is thin CRUD over end-of-day liquidation reports.
type reportService struct {
	reportRepo    portsrepo.ReportRepositoryFacade
	collectorRepo portsrepo.CollectorRepositoryFacade
}

// NewReportService creates a new ReportService.
func NewReportService(reportRepo portsrepo.ReportRepositoryFacade, collectorRepo portsrepo.CollectorRepositoryFacade) portssvc.ReportSvcFacade {
	return &reportService{
		reportRepo:    reportRepo,
		collectorRepo: collectorRepo,
	}
}

// Ensure reportService implements the portssvc.ReportSvcFacade interface
var _ portssvc.ReportSvcFacade = (*reportService)(nil)

// CreateReport persists a liquidation row, computing the cash delta from the
// submitted figures.
func (s *reportService) CreateReport(ctx context.Context, req dto.CreateReportRequest, userID string) (*domain.Report, error) {
	if _, err := s.collectorRepo.FindCollectorByCode(ctx, req.CollectorCode); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: collector %s does not exist", apperrors.ErrValidation, req.CollectorCode)
		}
		return nil, fmt.Errorf("failed to find collector %s: %w", req.CollectorCode, err)
	}

	now := time.Now().UTC()
	date := now
	if req.Date != nil {
		date = req.Date.UTC()
	}

	report := domain.Report{
		ReportID:      uuid.NewString(),
		CollectorCode: req.CollectorCode,
		Date:          date,
		Base:          req.Base,
		Collected:     req.Collected,
		Lent:          req.Lent,
		Expenses:      req.Expenses,
		Notes:         req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	report.CashDelta = report.ComputeCashDelta()

	if err := s.reportRepo.SaveReport(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to save report for collector %s: %w", req.CollectorCode, err)
	}
	return &report, nil
}

// ListReports returns all reports, newest first.
func (s *reportService) ListReports(ctx context.Context) ([]domain.Report, error) {
	reports, err := s.reportRepo.ListReports(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, nil
}

// ListReportsByCollector returns one collector's reports.
func (s *reportService) ListReportsByCollector(ctx context.Context, collectorCode string) ([]domain.Report, error) {
	reports, err := s.reportRepo.ListReportsByCollector(ctx, collectorCode)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports of collector %s: %w", collectorCode, err)
	}
	return reports, nil
}

// ListReportsByDate returns the reports of one calendar day.
func (s *reportService) ListReportsByDate(ctx context.Context, day time.Time) ([]domain.Report, error) {
	reports, err := s.reportRepo.ListReportsByDate(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports of %s: %w", day.Format("2006-01-02"), err)
	}
	return reports, nil
}

// DeleteReport removes a report row.
func (s *reportService) DeleteReport(ctx context.Context, reportID string) error {
	if err := s.reportRepo.DeleteReport(ctx, reportID); err != nil {
		return fmt.Errorf("failed to delete report %s: %w", reportID, err)
	}
	return nil
}

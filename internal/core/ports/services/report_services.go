package services

import (
	"context"
	"time"

	"github.com/jdrojas/cobranza_app/internal/core/domain"
	"github.com/jdrojas/cobranza_app/internal/dto"
)

// ReportSvcFacade is thin CRUD over end-of-day liquidation reports.
type ReportSvcFacade interface {
	// CreateReport persists a liquidation row, computing the cash delta.
	CreateReport(ctx context.Context, req dto.CreateReportRequest, userID string) (*domain.Report, error)

	// ListReports returns all reports, newest first.
	ListReports(ctx context.Context) ([]domain.Report, error)

	// ListReportsByCollector returns one collector's reports.
	ListReportsByCollector(ctx context.Context, collectorCode string) ([]domain.Report, error)

	// ListReportsByDate returns the reports of one calendar day.
	ListReportsByDate(ctx context.Context, day time.Time) ([]domain.Report, error)

	// DeleteReport removes a report row.
	DeleteReport(ctx context.Context, reportID string) error
}

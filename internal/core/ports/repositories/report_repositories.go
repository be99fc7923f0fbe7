package repositories

import (
	"context"
	"time"

	"github.com/jdrojas/cobranza_app/internal/core/domain"
)

// ReportReader defines read operations for liquidation reports.
type ReportReader interface {
	// ListReports retrieves all reports, newest first.
	ListReports(ctx context.Context) ([]domain.Report, error)

	// ListReportsByCollector retrieves one collector's reports, newest first.
	ListReportsByCollector(ctx context.Context, collectorCode string) ([]domain.Report, error)

	// ListReportsByDate retrieves the reports of one calendar day.
	ListReportsByDate(ctx context.Context, day time.Time) ([]domain.Report, error)
}

// ReportWriter defines write operations for liquidation reports.
type ReportWriter interface {
	// SaveReport persists a new report row.
	SaveReport(ctx context.Context, report domain.Report) error

	// DeleteReport removes a report row.
	DeleteReport(ctx context.Context, reportID string) error
}

// ReportRepositoryFacade combines all report-related repository interfaces.
type ReportRepositoryFacade interface {
	ReportReader
	ReportWriter
}

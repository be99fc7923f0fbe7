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

const reportColumns = `report_id, collector_code, report_date, base, collected, lent, expenses, cash_delta, notes, created_at, created_by, last_updated_at, last_updated_by`

type reportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository creates a new repository for liquidation report data.
func NewReportRepository(pool *pgxpool.Pool) portsrepo.ReportRepositoryFacade {
	return &reportRepository{pool: pool}
}

var _ portsrepo.ReportRepositoryFacade = (*reportRepository)(nil)

func scanReport(row pgx.Row) (*domain.Report, error) {
	var report domain.Report
	err := row.Scan(
		&report.ReportID,
		&report.CollectorCode,
		&report.Date,
		&report.Base,
		&report.Collected,
		&report.Lent,
		&report.Expenses,
		&report.CashDelta,
		&report.Notes,
		&report.CreatedAt,
		&report.CreatedBy,
		&report.LastUpdatedAt,
		&report.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, translateErr(err)
	}
	return &report, nil
}

func (r *reportRepository) queryReports(ctx context.Context, query string, args ...any) ([]domain.Report, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", translateErr(err))
	}
	defer rows.Close()

	reports := []domain.Report{}
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *report)
	}
	if err := rows.Err(); err != nil {
		return nil, translateErr(err)
	}
	return reports, nil
}

// ListReports retrieves all reports, newest first.
func (r *reportRepository) ListReports(ctx context.Context) ([]domain.Report, error) {
	query := fmt.Sprintf(`SELECT %s FROM reports ORDER BY report_date DESC`, reportColumns)
	return r.queryReports(ctx, query)
}

// ListReportsByCollector retrieves one collector's reports, newest first.
func (r *reportRepository) ListReportsByCollector(ctx context.Context, collectorCode string) ([]domain.Report, error) {
	query := fmt.Sprintf(`SELECT %s FROM reports WHERE collector_code = $1 ORDER BY report_date DESC`, reportColumns)
	return r.queryReports(ctx, query, collectorCode)
}

// ListReportsByDate retrieves the reports of one calendar day.
func (r *reportRepository) ListReportsByDate(ctx context.Context, day time.Time) ([]domain.Report, error) {
	query := fmt.Sprintf(`SELECT %s FROM reports WHERE report_date::date = $1::date ORDER BY report_date DESC`, reportColumns)
	return r.queryReports(ctx, query, day)
}

// SaveReport persists a new report row.
func (r *reportRepository) SaveReport(ctx context.Context, report domain.Report) error {
	query := `
		INSERT INTO reports (report_id, collector_code, report_date, base, collected, lent, expenses, cash_delta, notes, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.pool.Exec(ctx, query,
		report.ReportID,
		report.CollectorCode,
		report.Date,
		report.Base,
		report.Collected,
		report.Lent,
		report.Expenses,
		report.CashDelta,
		report.Notes,
		report.CreatedAt,
		report.CreatedBy,
		report.LastUpdatedAt,
		report.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save report %s: %w", report.ReportID, translateErr(err))
	}
	return nil
}

// DeleteReport removes a report row.
func (r *reportRepository) DeleteReport(ctx context.Context, reportID string) error {
	query := `DELETE FROM reports WHERE report_id = $1;`
	tag, err := r.pool.Exec(ctx, query, reportID)
	if err != nil {
		return fmt.Errorf("failed to delete report %s: %w", reportID, translateErr(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: report %s", apperrors.ErrNotFound, reportID)
	}
	return nil
}

package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateReportRequest persists one collector's end-of-day liquidation row.
// The cash delta is computed server-side from the submitted figures.
type CreateReportRequest struct {
	CollectorCode string          `json:"collectorCode" binding:"required"`
	Date          *time.Time      `json:"date"`
	Base          decimal.Decimal `json:"base"`
	Collected     decimal.Decimal `json:"collected"`
	Lent          decimal.Decimal `json:"lent"`
	Expenses      decimal.Decimal `json:"expenses"`
	Notes         string          `json:"notes"`
}

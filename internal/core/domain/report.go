package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Report is one collector's end-of-day liquidation row: what was collected,
// lent out and spent, and the cash difference that should be in the bag.
// Persisted as submitted; no hard logic lives here.
type Report struct {
	ReportID      string          `json:"reportID"`
	CollectorCode string          `json:"collectorCode"`
	Date          time.Time       `json:"date"`
	Base          decimal.Decimal `json:"base"` // cash handed out in the morning
	Collected     decimal.Decimal `json:"collected"`
	Lent          decimal.Decimal `json:"lent"`
	Expenses      decimal.Decimal `json:"expenses"`
	CashDelta     decimal.Decimal `json:"cashDelta"` // base + collected - lent - expenses
	Notes         string          `json:"notes"`
	AuditFields
}

// ComputeCashDelta recomputes the expected end-of-day cash difference.
func (r *Report) ComputeCashDelta() decimal.Decimal {
	return r.Base.Add(r.Collected).Sub(r.Lent).Sub(r.Expenses)
}

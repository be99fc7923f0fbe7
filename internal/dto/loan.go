package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// InsertPositionRequest asks for a route position relative to an existing
// active card instead of the end of the route.
type InsertPositionRequest struct {
	Reference int    `json:"reference" binding:"required,gt=0"`
	Mode      string `json:"mode" binding:"required,oneof=BEFORE AFTER"`
}

// OpenLoanRequest opens a loan: for a new client the identity fields are
// required, for a known client they are ignored. Amounts arrive as decimals
// so that fractional input can be rejected explicitly rather than silently
// truncated.
type OpenLoanRequest struct {
	ClientCode    int64                  `json:"clientCode" binding:"required,gt=0"`
	Name          string                 `json:"name"`
	Street        string                 `json:"street"`
	CollectorCode string                 `json:"collectorCode"`
	Principal     decimal.Decimal        `json:"principal" binding:"required"`
	TermDays      int                    `json:"termDays" binding:"required,gt=0"`
	Frequency     string                 `json:"frequency" binding:"required,oneof=DAILY WEEKLY BIWEEKLY MONTHLY"`
	IssuedAt      *time.Time             `json:"issuedAt"`
	Insert        *InsertPositionRequest `json:"insert"`
}

// RecordPaymentRequest records one installment payment. DeclaredBalance is
// the balance the operator computed by hand; the service refuses the payment
// when it disagrees with its own arithmetic.
type RecordPaymentRequest struct {
	Amount          decimal.Decimal  `json:"amount" binding:"required"`
	DeclaredBalance *decimal.Decimal `json:"declaredBalance" binding:"required"`
	EntryDate       *time.Time       `json:"entryDate"`
}

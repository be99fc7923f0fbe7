package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CorrectEntryRequest is the administrative correction of a ledger entry.
// Omitted fields keep their stored values; the service revalidates the
// arithmetic against the prior entry before committing.
type CorrectEntryRequest struct {
	Amount    *decimal.Decimal `json:"amount"`
	Balance   *decimal.Decimal `json:"balance"`
	EntryDate *time.Time       `json:"entryDate"`
}

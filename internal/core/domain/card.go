package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CardStatus is the lifecycle state of a loan card.
type CardStatus string

const (
	CardActive CardStatus = "ACTIVE"
	CardPaid   CardStatus = "PAID"
)

// PaymentFrequency is the installment cadence of a loan card.
type PaymentFrequency string

const (
	Daily    PaymentFrequency = "DAILY"
	Weekly   PaymentFrequency = "WEEKLY"
	Biweekly PaymentFrequency = "BIWEEKLY"
	Monthly  PaymentFrequency = "MONTHLY"
)

// Divisor returns the fixed day count one installment period spans.
func (f PaymentFrequency) Divisor() int64 {
	switch f {
	case Weekly:
		return 7
	case Biweekly:
		return 15
	case Monthly:
		return 30
	default: // Daily
		return 1
	}
}

// Valid reports whether f is one of the known frequencies.
func (f PaymentFrequency) Valid() bool {
	switch f {
	case Daily, Weekly, Biweekly, Monthly:
		return true
	}
	return false
}

// LoanCard is one loan instance: principal, schedule terms and a position in
// the shared visiting order. Position is meaningful only while the card is
// active; it is set to 0 when the card is retired. A client holds at most one
// active card at a time.
type LoanCard struct {
	CardCode         string           `json:"cardCode"` // e.g. TAR-<clientCode>-<uuid fragment>
	ClientCode       int64            `json:"clientCode"`
	Principal        int64            `json:"principal"`   // whole currency units
	Installment      int64            `json:"installment"` // ceil(principal / installmentCount)
	InstallmentCount int              `json:"installmentCount"`
	TermDays         int              `json:"termDays"`
	Frequency        PaymentFrequency `json:"frequency"`
	IssuedAt         time.Time        `json:"issuedAt"`
	Status           CardStatus       `json:"status"`
	Position         int              `json:"position"`
	BadDebt          bool             `json:"badDebt"` // "clavo": flagged as likely uncollectible
	AuditFields
}

// IsActive reports whether the card still participates in the route order.
func (c *LoanCard) IsActive() bool {
	return c.Status == CardActive
}

// InsertMode selects which side of the reference position a new card lands on.
type InsertMode string

const (
	InsertBefore InsertMode = "BEFORE"
	InsertAfter  InsertMode = "AFTER"
)

// InsertPosition names a reference position in the active order and the side
// of it a new card should take.
type InsertPosition struct {
	Reference int
	Mode      InsertMode
}

// Direction is a traversal direction along the route order.
type Direction string

const (
	Next     Direction = "NEXT"
	Previous Direction = "PREVIOUS"
)

// CardSummary is the repayment progress of a single card.
type CardSummary struct {
	Principal   int64           `json:"principal"`
	TotalPaid   int64           `json:"totalPaid"`
	Outstanding int64           `json:"outstanding"`
	PercentPaid decimal.Decimal `json:"percentPaid"`
}

// NewCardSummary computes repayment progress from a card's principal and the
// balance of its latest ledger entry.
func NewCardSummary(principal, outstanding int64) CardSummary {
	s := CardSummary{
		Principal:   principal,
		TotalPaid:   principal - outstanding,
		Outstanding: outstanding,
		PercentPaid: decimal.Zero,
	}
	if principal > 0 {
		s.PercentPaid = decimal.NewFromInt(s.TotalPaid).
			Div(decimal.NewFromInt(principal)).
			Mul(decimal.NewFromInt(100)).
			Round(0)
	}
	return s
}

// CardWithSummary pairs a card with its repayment summary.
type CardWithSummary struct {
	LoanCard
	Summary CardSummary `json:"summary"`
}

// LoanTerms is the derived installment schedule reported back on origination.
type LoanTerms struct {
	Frequency        PaymentFrequency `json:"frequency"`
	FrequencyDays    int64            `json:"frequencyDays"`
	InstallmentCount int              `json:"installmentCount"`
	Installment      int64            `json:"installment"`
}

// LoanGrant is the outcome of opening a loan: the (possibly new) client, the
// freshly issued card and its derived terms.
type LoanGrant struct {
	Client    Client    `json:"client"`
	Card      LoanCard  `json:"card"`
	Terms     LoanTerms `json:"terms"`
	NewClient bool      `json:"newClient"`
}

package domain

import "time"

// LedgerEntry is one event in a card's balance history: a payment amount and
// the balance that resulted from it. Entries are append-only; the sequence
// ordered by EntryDate (RecordID as tiebreaker) is the authoritative history,
// and each Balance must equal the previous Balance minus Amount, starting
// from the card's principal.
type LedgerEntry struct {
	EntryID    string    `json:"entryID"`  // UUID
	RecordID   int64     `json:"recordID"` // insertion sequence, assigned by the database
	CardCode   string    `json:"cardCode"`
	Amount     int64     `json:"amount"`  // payment ("abono"); 0 only for the seed entry
	Balance    int64     `json:"balance"` // resulting balance ("resta"), never negative
	EntryDate  time.Time `json:"entryDate"`
	RecordedAt time.Time `json:"recordedAt"`
}

// IsSeed reports whether the entry is the anchoring zero-payment entry
// written at card creation.
func (e *LedgerEntry) IsSeed() bool {
	return e.Amount == 0 && e.Balance > 0
}

// CardLedger is a card's full entry history plus its running summary.
type CardLedger struct {
	Card    LoanCard      `json:"card"`
	Entries []LedgerEntry `json:"entries"`
	Summary CardSummary   `json:"summary"`
}

// PaymentReceipt reports the effect of a recorded payment.
type PaymentReceipt struct {
	Entry           LedgerEntry `json:"entry"`
	PreviousBalance int64       `json:"previousBalance"`
	NewBalance      int64       `json:"newBalance"`
	CardPaidOff     bool        `json:"cardPaidOff"`
}

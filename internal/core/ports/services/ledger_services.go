package services

import (
	"context"

	"github.com/jdrojas/cobranza_app/internal/core/domain"
	"github.com/jdrojas/cobranza_app/internal/dto"
)

// LedgerReaderSvc defines read operations over card payment ledgers.
type LedgerReaderSvc interface {
	// CurrentBalance returns the outstanding balance of a card: the balance
	// of its latest entry, or the principal for an empty ledger.
	CurrentBalance(ctx context.Context, cardCode string) (int64, error)

	// GetCardLedger returns a card's entries in ledger order with the
	// running summary.
	GetCardLedger(ctx context.Context, cardCode string) (*domain.CardLedger, error)

	// ListEntries returns all entries across all cards, newest first.
	ListEntries(ctx context.Context) ([]domain.LedgerEntry, error)

	// GetEntry returns a single entry.
	GetEntry(ctx context.Context, entryID string) (*domain.LedgerEntry, error)
}

// LedgerWriterSvc defines the administrative mutations of a ledger. Normal
// payments do not pass through here; they go through LoanSvcFacade.RecordPayment.
type LedgerWriterSvc interface {
	// CorrectEntry rewrites an entry after revalidating its arithmetic
	// against the prior entry's balance, then re-derives card and client
	// state from the ledger tail.
	CorrectEntry(ctx context.Context, entryID string, req dto.CorrectEntryRequest, userID string) (*domain.LedgerEntry, error)

	// DeleteEntry removes an entry and re-derives card and client state from
	// whatever entry is now most recent (or the principal if none remain).
	DeleteEntry(ctx context.Context, entryID string, userID string) error
}

// LedgerSvcFacade combines all ledger-related service interfaces.
type LedgerSvcFacade interface {
	LedgerReaderSvc
	LedgerWriterSvc
}

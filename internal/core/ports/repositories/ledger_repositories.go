package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jdrojas/cobranza_app/internal/core/domain"
)

// LedgerReader defines plain read operations for ledger entry data.
type LedgerReader interface {
	// FindEntryByID retrieves a single entry.
	FindEntryByID(ctx context.Context, entryID string) (*domain.LedgerEntry, error)

	// FindLatestEntryByCard retrieves the most recent entry of a card by
	// entry date, or apperrors.ErrNotFound for an empty ledger.
	FindLatestEntryByCard(ctx context.Context, cardCode string) (*domain.LedgerEntry, error)

	// ListEntriesByCard retrieves a card's entries in ledger order (entry
	// date ascending, record id as tiebreaker).
	ListEntriesByCard(ctx context.Context, cardCode string) ([]domain.LedgerEntry, error)

	// ListEntries retrieves all entries, newest first.
	ListEntries(ctx context.Context) ([]domain.LedgerEntry, error)
}

// LedgerTransactionSupport holds every ledger operation that reads or writes
// balance state inside the caller's transaction. All mutations of a ledger go
// through here: appending a payment, correcting or deleting an entry, and the
// administrative purge are each read-then-write against the card's running
// balance and must not observe intermediate states.
type LedgerTransactionSupport interface {
	// SaveEntryInTx appends a new entry.
	SaveEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.LedgerEntry) error

	// FindEntryByIDInTx retrieves a single entry under the caller's transaction.
	FindEntryByIDInTx(ctx context.Context, tx pgx.Tx, entryID string) (*domain.LedgerEntry, error)

	// FindLatestEntryByCardInTx reads the latest entry under the caller's
	// transaction, after the card row has been locked.
	FindLatestEntryByCardInTx(ctx context.Context, tx pgx.Tx, cardCode string) (*domain.LedgerEntry, error)

	// FindEntryBeforeInTx retrieves the entry that precedes the given
	// (entry date, record id) pair in ledger order. Used to revalidate
	// arithmetic around a corrected or deleted entry.
	FindEntryBeforeInTx(ctx context.Context, tx pgx.Tx, cardCode string, beforeDate time.Time, beforeRecordID int64) (*domain.LedgerEntry, error)

	// UpdateEntryInTx rewrites an entry's amount, balance and entry date.
	UpdateEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.LedgerEntry) error

	// DeleteEntryInTx removes a single entry.
	DeleteEntryInTx(ctx context.Context, tx pgx.Tx, entryID string) error

	// DeleteEntriesByCardInTx hard-deletes a card's whole ledger.
	// Administrative purge path only.
	DeleteEntriesByCardInTx(ctx context.Context, tx pgx.Tx, cardCode string) error
}

// LedgerRepositoryFacade combines all ledger-related repository interfaces.
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerTransactionSupport
}

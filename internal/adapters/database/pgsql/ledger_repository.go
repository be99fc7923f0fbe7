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

const entryColumns = `entry_id, record_id, card_code, amount, balance, entry_date, recorded_at`

// Ledger order: entry date first, insertion sequence as tiebreaker for
// entries recorded in the same instant.
const ledgerOrder = `entry_date, record_id`

type ledgerRepository struct {
	pool *pgxpool.Pool
}

// NewLedgerRepository creates a new repository for ledger entry data.
func NewLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryFacade {
	return &ledgerRepository{pool: pool}
}

var _ portsrepo.LedgerRepositoryFacade = (*ledgerRepository)(nil)

func scanEntry(row pgx.Row) (*domain.LedgerEntry, error) {
	var entry domain.LedgerEntry
	err := row.Scan(
		&entry.EntryID,
		&entry.RecordID,
		&entry.CardCode,
		&entry.Amount,
		&entry.Balance,
		&entry.EntryDate,
		&entry.RecordedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, translateErr(err)
	}
	return &entry, nil
}

func scanEntries(rows pgx.Rows) ([]domain.LedgerEntry, error) {
	defer rows.Close()
	entries := []domain.LedgerEntry{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, translateErr(err)
	}
	return entries, nil
}

func (r *ledgerRepository) findEntryByID(ctx context.Context, q dbtx, entryID string) (*domain.LedgerEntry, error) {
	query := fmt.Sprintf(`SELECT %s FROM ledger_entries WHERE entry_id = $1`, entryColumns)
	entry, err := scanEntry(q.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: entry %s", apperrors.ErrNotFound, entryID)
		}
		return nil, fmt.Errorf("failed to find entry %s: %w", entryID, err)
	}
	return entry, nil
}

// FindEntryByID retrieves a single entry.
func (r *ledgerRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.LedgerEntry, error) {
	return r.findEntryByID(ctx, r.pool, entryID)
}

// FindEntryByIDInTx retrieves a single entry under the caller's transaction.
func (r *ledgerRepository) FindEntryByIDInTx(ctx context.Context, tx pgx.Tx, entryID string) (*domain.LedgerEntry, error) {
	return r.findEntryByID(ctx, tx, entryID)
}

func (r *ledgerRepository) findLatestEntryByCard(ctx context.Context, q dbtx, cardCode string) (*domain.LedgerEntry, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM ledger_entries
		WHERE card_code = $1
		ORDER BY %s DESC
		LIMIT 1;
	`, entryColumns, ledgerOrder)
	entry, err := scanEntry(q.QueryRow(ctx, query, cardCode))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find latest entry of card %s: %w", cardCode, err)
	}
	return entry, nil
}

// FindLatestEntryByCard retrieves the most recent entry of a card.
func (r *ledgerRepository) FindLatestEntryByCard(ctx context.Context, cardCode string) (*domain.LedgerEntry, error) {
	return r.findLatestEntryByCard(ctx, r.pool, cardCode)
}

// FindLatestEntryByCardInTx reads the latest entry under the caller's
// transaction.
func (r *ledgerRepository) FindLatestEntryByCardInTx(ctx context.Context, tx pgx.Tx, cardCode string) (*domain.LedgerEntry, error) {
	return r.findLatestEntryByCard(ctx, tx, cardCode)
}

// FindEntryBeforeInTx retrieves the entry that precedes the given
// (entry date, record id) pair in ledger order.
func (r *ledgerRepository) FindEntryBeforeInTx(ctx context.Context, tx pgx.Tx, cardCode string, beforeDate time.Time, beforeRecordID int64) (*domain.LedgerEntry, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM ledger_entries
		WHERE card_code = $1 AND (entry_date, record_id) < ($2, $3)
		ORDER BY %s DESC
		LIMIT 1;
	`, entryColumns, ledgerOrder)
	entry, err := scanEntry(tx.QueryRow(ctx, query, cardCode, beforeDate, beforeRecordID))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find entry of card %s before %s: %w", cardCode, beforeDate, err)
	}
	return entry, nil
}

// ListEntriesByCard retrieves a card's entries in ledger order.
func (r *ledgerRepository) ListEntriesByCard(ctx context.Context, cardCode string) ([]domain.LedgerEntry, error) {
	query := fmt.Sprintf(`SELECT %s FROM ledger_entries WHERE card_code = $1 ORDER BY %s`, entryColumns, ledgerOrder)
	rows, err := r.pool.Query(ctx, query, cardCode)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries of card %s: %w", cardCode, translateErr(err))
	}
	return scanEntries(rows)
}

// ListEntries retrieves all entries, newest first.
func (r *ledgerRepository) ListEntries(ctx context.Context) ([]domain.LedgerEntry, error) {
	query := fmt.Sprintf(`SELECT %s FROM ledger_entries ORDER BY %s DESC`, entryColumns, ledgerOrder)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger entries: %w", translateErr(err))
	}
	return scanEntries(rows)
}

// SaveEntryInTx appends a new entry. The record id comes from the database
// sequence.
func (r *ledgerRepository) SaveEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.LedgerEntry) error {
	query := `
		INSERT INTO ledger_entries (entry_id, card_code, amount, balance, entry_date, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err := tx.Exec(ctx, query,
		entry.EntryID,
		entry.CardCode,
		entry.Amount,
		entry.Balance,
		entry.EntryDate,
		entry.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save entry %s: %w", entry.EntryID, translateErr(err))
	}
	return nil
}

// UpdateEntryInTx rewrites an entry's amount, balance and entry date.
func (r *ledgerRepository) UpdateEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.LedgerEntry) error {
	query := `
		UPDATE ledger_entries
		SET amount = $2, balance = $3, entry_date = $4
		WHERE entry_id = $1;
	`
	tag, err := tx.Exec(ctx, query, entry.EntryID, entry.Amount, entry.Balance, entry.EntryDate)
	if err != nil {
		return fmt.Errorf("failed to update entry %s: %w", entry.EntryID, translateErr(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: entry %s", apperrors.ErrNotFound, entry.EntryID)
	}
	return nil
}

// DeleteEntryInTx removes a single entry.
func (r *ledgerRepository) DeleteEntryInTx(ctx context.Context, tx pgx.Tx, entryID string) error {
	query := `DELETE FROM ledger_entries WHERE entry_id = $1;`
	tag, err := tx.Exec(ctx, query, entryID)
	if err != nil {
		return fmt.Errorf("failed to delete entry %s: %w", entryID, translateErr(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: entry %s", apperrors.ErrNotFound, entryID)
	}
	return nil
}

// DeleteEntriesByCardInTx hard-deletes a card's whole ledger.
func (r *ledgerRepository) DeleteEntriesByCardInTx(ctx context.Context, tx pgx.Tx, cardCode string) error {
	query := `DELETE FROM ledger_entries WHERE card_code = $1;`
	if _, err := tx.Exec(ctx, query, cardCode); err != nil {
		return fmt.Errorf("failed to delete entries of card %s: %w", cardCode, translateErr(err))
	}
	return nil
}

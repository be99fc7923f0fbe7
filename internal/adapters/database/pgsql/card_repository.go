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

const cardColumns = `card_code, client_code, principal, installment, installment_count, term_days, frequency, issued_at, status, route_position, bad_debt, created_at, created_by, last_updated_at, last_updated_by`

type cardRepository struct {
	pool *pgxpool.Pool
}

// NewCardRepository creates a new repository for loan card data. It also
// serves as the transaction manager: loan lifecycle transactions open here
// with serializable isolation so concurrent position shifts abort instead of
// interleaving.
func NewCardRepository(pool *pgxpool.Pool) portsrepo.CardRepositoryWithTx {
	return &cardRepository{pool: pool}
}

var _ portsrepo.CardRepositoryWithTx = (*cardRepository)(nil)

// Begin starts a new serializable transaction.
func (r *cardRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return nil, translateErr(err)
	}
	return tx, nil
}

// Commit commits a transaction.
func (r *cardRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return translateErr(err)
	}
	return nil
}

// Rollback rolls back a transaction.
func (r *cardRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return translateErr(err)
	}
	return nil
}

func scanCard(row pgx.Row) (*domain.LoanCard, error) {
	var card domain.LoanCard
	err := row.Scan(
		&card.CardCode,
		&card.ClientCode,
		&card.Principal,
		&card.Installment,
		&card.InstallmentCount,
		&card.TermDays,
		&card.Frequency,
		&card.IssuedAt,
		&card.Status,
		&card.Position,
		&card.BadDebt,
		&card.CreatedAt,
		&card.CreatedBy,
		&card.LastUpdatedAt,
		&card.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, translateErr(err)
	}
	return &card, nil
}

func scanCards(rows pgx.Rows) ([]domain.LoanCard, error) {
	defer rows.Close()
	cards := []domain.LoanCard{}
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, *card)
	}
	if err := rows.Err(); err != nil {
		return nil, translateErr(err)
	}
	return cards, nil
}

func (r *cardRepository) findCardByCode(ctx context.Context, q dbtx, cardCode string, forUpdate bool) (*domain.LoanCard, error) {
	query := fmt.Sprintf(`SELECT %s FROM loan_cards WHERE card_code = $1`, cardColumns)
	if forUpdate {
		query += ` FOR UPDATE`
	}
	card, err := scanCard(q.QueryRow(ctx, query, cardCode))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: card %s", apperrors.ErrNotFound, cardCode)
		}
		return nil, fmt.Errorf("failed to find card %s: %w", cardCode, err)
	}
	return card, nil
}

// FindCardByCode retrieves a card by its unique code.
func (r *cardRepository) FindCardByCode(ctx context.Context, cardCode string) (*domain.LoanCard, error) {
	return r.findCardByCode(ctx, r.pool, cardCode, false)
}

// FindCardByCodeForUpdate selects a card and locks its row.
func (r *cardRepository) FindCardByCodeForUpdate(ctx context.Context, tx pgx.Tx, cardCode string) (*domain.LoanCard, error) {
	return r.findCardByCode(ctx, tx, cardCode, true)
}

func (r *cardRepository) findActiveCardByClient(ctx context.Context, q dbtx, clientCode int64, forUpdate bool) (*domain.LoanCard, error) {
	query := fmt.Sprintf(`SELECT %s FROM loan_cards WHERE client_code = $1 AND status = 'ACTIVE'`, cardColumns)
	if forUpdate {
		query += ` FOR UPDATE`
	}
	card, err := scanCard(q.QueryRow(ctx, query, clientCode))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find active card of client %d: %w", clientCode, err)
	}
	return card, nil
}

// FindActiveCardByClient retrieves the client's single active card.
func (r *cardRepository) FindActiveCardByClient(ctx context.Context, clientCode int64) (*domain.LoanCard, error) {
	return r.findActiveCardByClient(ctx, r.pool, clientCode, false)
}

// FindActiveCardByClientForUpdate selects and locks the client's active card.
func (r *cardRepository) FindActiveCardByClientForUpdate(ctx context.Context, tx pgx.Tx, clientCode int64) (*domain.LoanCard, error) {
	return r.findActiveCardByClient(ctx, tx, clientCode, true)
}

func (r *cardRepository) listCardsByClient(ctx context.Context, q dbtx, clientCode int64) ([]domain.LoanCard, error) {
	query := fmt.Sprintf(`SELECT %s FROM loan_cards WHERE client_code = $1 ORDER BY issued_at DESC`, cardColumns)
	rows, err := q.Query(ctx, query, clientCode)
	if err != nil {
		return nil, fmt.Errorf("failed to query cards of client %d: %w", clientCode, translateErr(err))
	}
	return scanCards(rows)
}

// ListCardsByClient retrieves every card the client has ever held.
func (r *cardRepository) ListCardsByClient(ctx context.Context, clientCode int64) ([]domain.LoanCard, error) {
	return r.listCardsByClient(ctx, r.pool, clientCode)
}

// ListCardsByClientInTx retrieves every card of a client under the caller's
// transaction.
func (r *cardRepository) ListCardsByClientInTx(ctx context.Context, tx pgx.Tx, clientCode int64) ([]domain.LoanCard, error) {
	return r.listCardsByClient(ctx, tx, clientCode)
}

// ListActiveCards retrieves all active cards ordered by position.
func (r *cardRepository) ListActiveCards(ctx context.Context) ([]domain.LoanCard, error) {
	query := fmt.Sprintf(`SELECT %s FROM loan_cards WHERE status = 'ACTIVE' ORDER BY route_position`, cardColumns)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query active cards: %w", translateErr(err))
	}
	return scanCards(rows)
}

// UpdateCardTerms rewrites the schedule fields of a card.
func (r *cardRepository) UpdateCardTerms(ctx context.Context, cardCode string, termDays int, frequency domain.PaymentFrequency, installment int64, installmentCount int, updatedBy string, now time.Time) error {
	query := `
		UPDATE loan_cards
		SET term_days = $2, frequency = $3, installment = $4, installment_count = $5, last_updated_at = $6, last_updated_by = $7
		WHERE card_code = $1;
	`
	tag, err := r.pool.Exec(ctx, query, cardCode, termDays, frequency, installment, installmentCount, now, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to update terms of card %s: %w", cardCode, translateErr(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: card %s", apperrors.ErrNotFound, cardCode)
	}
	return nil
}

// FindNeighborActiveCard returns the closest active card beyond the current
// position in the given direction, optionally scoped to one collector.
func (r *cardRepository) FindNeighborActiveCard(ctx context.Context, current int, direction domain.Direction, collectorCode *string) (*domain.LoanCard, error) {
	cmp, order := ">", "ASC"
	if direction == domain.Previous {
		cmp, order = "<", "DESC"
	}
	query := fmt.Sprintf(`
		SELECT c.%s
		FROM loan_cards c
		JOIN clients cl ON cl.client_code = c.client_code
		WHERE c.status = 'ACTIVE' AND c.route_position %s $1
		  AND ($2::text IS NULL OR cl.collector_code = $2)
		ORDER BY c.route_position %s
		LIMIT 1;
	`, cardColumnsQualified("c"), cmp, order)

	card, err := scanCard(r.pool.QueryRow(ctx, query, current, collectorCode))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNoMoreInDirection
		}
		return nil, fmt.Errorf("failed to find neighbor of position %d: %w", current, err)
	}
	return card, nil
}

func cardColumnsQualified(alias string) string {
	return fmt.Sprintf("card_code, %[1]s.client_code, principal, installment, installment_count, term_days, frequency, issued_at, %[1]s.status, route_position, bad_debt, %[1]s.created_at, %[1]s.created_by, %[1]s.last_updated_at, %[1]s.last_updated_by", alias)
}

func (r *cardRepository) findActiveCardByPosition(ctx context.Context, q dbtx, position int, forUpdate bool) (*domain.LoanCard, error) {
	query := fmt.Sprintf(`SELECT %s FROM loan_cards WHERE status = 'ACTIVE' AND route_position = $1`, cardColumns)
	if forUpdate {
		query += ` FOR UPDATE`
	}
	card, err := scanCard(q.QueryRow(ctx, query, position))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: position %d", apperrors.ErrNotFound, position)
		}
		return nil, fmt.Errorf("failed to find active card at position %d: %w", position, err)
	}
	return card, nil
}

// FindActiveCardByPosition returns the active card holding exactly the given
// position.
func (r *cardRepository) FindActiveCardByPosition(ctx context.Context, position int) (*domain.LoanCard, error) {
	return r.findActiveCardByPosition(ctx, r.pool, position, false)
}

// FindActiveCardByPositionForUpdate resolves a reference position to its
// active card, locking the row.
func (r *cardRepository) FindActiveCardByPositionForUpdate(ctx context.Context, tx pgx.Tx, position int) (*domain.LoanCard, error) {
	return r.findActiveCardByPosition(ctx, tx, position, true)
}

// FirstActiveCardByCollector returns the lowest-positioned active card whose
// owning client belongs to the collector.
func (r *cardRepository) FirstActiveCardByCollector(ctx context.Context, collectorCode string) (*domain.LoanCard, error) {
	query := fmt.Sprintf(`
		SELECT c.%s
		FROM loan_cards c
		JOIN clients cl ON cl.client_code = c.client_code
		WHERE c.status = 'ACTIVE' AND cl.collector_code = $1
		ORDER BY c.route_position
		LIMIT 1;
	`, cardColumnsQualified("c"))

	card, err := scanCard(r.pool.QueryRow(ctx, query, collectorCode))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find first active card of collector %s: %w", collectorCode, err)
	}
	return card, nil
}

// CountActiveCards counts active cards within scope.
func (r *cardRepository) CountActiveCards(ctx context.Context, collectorCode *string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM loan_cards c
		JOIN clients cl ON cl.client_code = c.client_code
		WHERE c.status = 'ACTIVE' AND ($1::text IS NULL OR cl.collector_code = $1);
	`
	var count int
	if err := r.pool.QueryRow(ctx, query, collectorCode).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count active cards: %w", translateErr(err))
	}
	return count, nil
}

// CountActiveCardsUpTo counts active cards within scope whose position is at
// or before the given one.
func (r *cardRepository) CountActiveCardsUpTo(ctx context.Context, position int, collectorCode *string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM loan_cards c
		JOIN clients cl ON cl.client_code = c.client_code
		WHERE c.status = 'ACTIVE' AND c.route_position <= $1
		  AND ($2::text IS NULL OR cl.collector_code = $2);
	`
	var count int
	if err := r.pool.QueryRow(ctx, query, position, collectorCode).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count active cards up to position %d: %w", position, translateErr(err))
	}
	return count, nil
}

// MaxActivePosition returns the highest position among active cards, or 0
// when none exist.
func (r *cardRepository) MaxActivePosition(ctx context.Context, tx pgx.Tx) (int, error) {
	var maxPos int
	query := `SELECT COALESCE(MAX(route_position), 0) FROM loan_cards WHERE status = 'ACTIVE';`
	if err := tx.QueryRow(ctx, query).Scan(&maxPos); err != nil {
		return 0, fmt.Errorf("failed to read max active position: %w", translateErr(err))
	}
	return maxPos, nil
}

// ShiftPositionsUpFrom increments by one the position of every active card at
// or after fromPosition. One range UPDATE, never a read-then-loop.
func (r *cardRepository) ShiftPositionsUpFrom(ctx context.Context, tx pgx.Tx, fromPosition int) error {
	query := `UPDATE loan_cards SET route_position = route_position + 1 WHERE status = 'ACTIVE' AND route_position >= $1;`
	if _, err := tx.Exec(ctx, query, fromPosition); err != nil {
		return fmt.Errorf("failed to shift positions up from %d: %w", fromPosition, translateErr(err))
	}
	return nil
}

// ShiftPositionsDownAfter decrements by one the position of every active card
// strictly after afterPosition.
func (r *cardRepository) ShiftPositionsDownAfter(ctx context.Context, tx pgx.Tx, afterPosition int) error {
	query := `UPDATE loan_cards SET route_position = route_position - 1 WHERE status = 'ACTIVE' AND route_position > $1;`
	if _, err := tx.Exec(ctx, query, afterPosition); err != nil {
		return fmt.Errorf("failed to shift positions down after %d: %w", afterPosition, translateErr(err))
	}
	return nil
}

// SaveCardInTx inserts a new card.
func (r *cardRepository) SaveCardInTx(ctx context.Context, tx pgx.Tx, card domain.LoanCard) error {
	query := `
		INSERT INTO loan_cards (card_code, client_code, principal, installment, installment_count, term_days, frequency, issued_at, status, route_position, bad_debt, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := tx.Exec(ctx, query,
		card.CardCode,
		card.ClientCode,
		card.Principal,
		card.Installment,
		card.InstallmentCount,
		card.TermDays,
		card.Frequency,
		card.IssuedAt,
		card.Status,
		card.Position,
		card.BadDebt,
		card.CreatedAt,
		card.CreatedBy,
		card.LastUpdatedAt,
		card.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save card %s: %w", card.CardCode, translateErr(err))
	}
	return nil
}

// RetireCardInTx marks a card paid and parks its position at 0.
func (r *cardRepository) RetireCardInTx(ctx context.Context, tx pgx.Tx, cardCode string, updatedBy string, now time.Time) error {
	query := `
		UPDATE loan_cards
		SET status = 'PAID', route_position = 0, last_updated_at = $2, last_updated_by = $3
		WHERE card_code = $1;
	`
	tag, err := tx.Exec(ctx, query, cardCode, now, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to retire card %s: %w", cardCode, translateErr(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: card %s", apperrors.ErrNotFound, cardCode)
	}
	return nil
}

// DeleteCardsByClientInTx hard-deletes every card of a client.
func (r *cardRepository) DeleteCardsByClientInTx(ctx context.Context, tx pgx.Tx, clientCode int64) error {
	query := `DELETE FROM loan_cards WHERE client_code = $1;`
	if _, err := tx.Exec(ctx, query, clientCode); err != nil {
		return fmt.Errorf("failed to delete cards of client %d: %w", clientCode, translateErr(err))
	}
	return nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jdrojas/cobranza_app/internal/apperrors"
	"github.com/jdrojas/cobranza_app/internal/core/domain"
	portsrepo "github.com/jdrojas/cobranza_app/internal/core/ports/repositories"
	portssvc "github.com/jdrojas/cobranza_app/internal/core/ports/services"
	"github.com/jdrojas/cobranza_app/internal/dto"
	"github.com/jdrojas/cobranza_app/internal/middleware"
)

// ledgerService owns the append-only balance history of loan cards. A card's
// outstanding balance is always the balance of its latest entry, falling back
// to the principal while the ledger is empty; nothing else stores a balance.
type ledgerService struct {
	ledgerRepo portsrepo.LedgerRepositoryFacade
	cardRepo   portsrepo.CardRepositoryWithTx
	clientRepo portsrepo.ClientRepositoryFacade
	position   *positionService
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(ledgerRepo portsrepo.LedgerRepositoryFacade, cardRepo portsrepo.CardRepositoryWithTx, clientRepo portsrepo.ClientRepositoryFacade, position *positionService) *ledgerService {
	return &ledgerService{
		ledgerRepo: ledgerRepo,
		cardRepo:   cardRepo,
		clientRepo: clientRepo,
		position:   position,
	}
}

// Ensure ledgerService implements the portssvc.LedgerSvcFacade interface
var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// wholeUnits converts an operator-typed decimal into whole currency units.
// Balances and payments are integral; a fractional figure is a typo, not a
// rounding request.
func wholeUnits(d decimal.Decimal) (int64, error) {
	if !d.IsInteger() {
		return 0, fmt.Errorf("%w: %s has a fractional part", apperrors.ErrInvalidAmount, d.String())
	}
	return d.IntPart(), nil
}

// CurrentBalance returns the outstanding balance of a card.
func (s *ledgerService) CurrentBalance(ctx context.Context, cardCode string) (int64, error) {
	card, err := s.cardRepo.FindCardByCode(ctx, cardCode)
	if err != nil {
		return 0, fmt.Errorf("failed to find card %s: %w", cardCode, err)
	}

	latest, err := s.ledgerRepo.FindLatestEntryByCard(ctx, cardCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return card.Principal, nil
		}
		return 0, fmt.Errorf("failed to read latest entry of card %s: %w", cardCode, err)
	}
	return latest.Balance, nil
}

// GetCardLedger returns a card's entries in ledger order with the running
// summary.
func (s *ledgerService) GetCardLedger(ctx context.Context, cardCode string) (*domain.CardLedger, error) {
	card, err := s.cardRepo.FindCardByCode(ctx, cardCode)
	if err != nil {
		return nil, fmt.Errorf("failed to find card %s: %w", cardCode, err)
	}

	entries, err := s.ledgerRepo.ListEntriesByCard(ctx, cardCode)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries of card %s: %w", cardCode, err)
	}

	outstanding := card.Principal
	if len(entries) > 0 {
		outstanding = entries[len(entries)-1].Balance
	}

	return &domain.CardLedger{
		Card:    *card,
		Entries: entries,
		Summary: domain.NewCardSummary(card.Principal, outstanding),
	}, nil
}

// ListEntries returns all entries across all cards, newest first.
func (s *ledgerService) ListEntries(ctx context.Context) ([]domain.LedgerEntry, error) {
	entries, err := s.ledgerRepo.ListEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	return entries, nil
}

// GetEntry returns a single entry.
func (s *ledgerService) GetEntry(ctx context.Context, entryID string) (*domain.LedgerEntry, error) {
	entry, err := s.ledgerRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find entry %s: %w", entryID, err)
	}
	return entry, nil
}

// CorrectEntry rewrites an entry's amount, balance or entry date, after
// checking the corrected figures against the entry that precedes it in
// ledger order. The card row is locked first so corrections serialize with
// in-flight payments on the same card.
func (s *ledgerService) CorrectEntry(ctx context.Context, entryID string, req dto.CorrectEntryRequest, userID string) (*domain.LedgerEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	now := time.Now().UTC()

	var corrected domain.LedgerEntry
	err := runInTx(ctx, s.cardRepo, func(tx pgx.Tx) error {
		entry, err := s.ledgerRepo.FindEntryByIDInTx(ctx, tx, entryID)
		if err != nil {
			return fmt.Errorf("failed to find entry %s: %w", entryID, err)
		}
		card, err := s.cardRepo.FindCardByCodeForUpdate(ctx, tx, entry.CardCode)
		if err != nil {
			return fmt.Errorf("failed to find card %s: %w", entry.CardCode, err)
		}

		corrected = *entry
		if req.Amount != nil {
			amount, err := wholeUnits(*req.Amount)
			if err != nil {
				return err
			}
			if amount < 0 {
				return fmt.Errorf("%w: amount %d is negative", apperrors.ErrInvalidAmount, amount)
			}
			corrected.Amount = amount
		}
		if req.Balance != nil {
			balance, err := wholeUnits(*req.Balance)
			if err != nil {
				return err
			}
			corrected.Balance = balance
		}
		if req.EntryDate != nil {
			corrected.EntryDate = req.EntryDate.UTC()
		}

		priorBalance := card.Principal
		prior, err := s.ledgerRepo.FindEntryBeforeInTx(ctx, tx, card.CardCode, corrected.EntryDate, corrected.RecordID)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("failed to read prior entry of card %s: %w", card.CardCode, err)
		}
		if err == nil {
			priorBalance = prior.Balance
		}

		if corrected.Amount > priorBalance {
			return fmt.Errorf("%w: prior balance is %d, amount is %d", apperrors.ErrInsufficientBalance, priorBalance, corrected.Amount)
		}
		if computed := priorBalance - corrected.Amount; corrected.Balance != computed {
			return fmt.Errorf("%w: computed %d, declared %d", apperrors.ErrReconciliationMismatch, computed, corrected.Balance)
		}

		if err := s.ledgerRepo.UpdateEntryInTx(ctx, tx, corrected); err != nil {
			return fmt.Errorf("failed to update entry %s: %w", entryID, err)
		}
		return s.refreshCardStateInTx(ctx, tx, card, userID, now)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Ledger entry corrected",
		slog.String("entry_id", entryID),
		slog.String("card_code", corrected.CardCode),
	)
	return &corrected, nil
}

// DeleteEntry removes an entry and re-derives card and client state from
// whatever entry is now most recent.
func (s *ledgerService) DeleteEntry(ctx context.Context, entryID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)
	now := time.Now().UTC()

	err := runInTx(ctx, s.cardRepo, func(tx pgx.Tx) error {
		entry, err := s.ledgerRepo.FindEntryByIDInTx(ctx, tx, entryID)
		if err != nil {
			return fmt.Errorf("failed to find entry %s: %w", entryID, err)
		}
		card, err := s.cardRepo.FindCardByCodeForUpdate(ctx, tx, entry.CardCode)
		if err != nil {
			return fmt.Errorf("failed to find card %s: %w", entry.CardCode, err)
		}

		if err := s.ledgerRepo.DeleteEntryInTx(ctx, tx, entryID); err != nil {
			return fmt.Errorf("failed to delete entry %s: %w", entryID, err)
		}
		return s.refreshCardStateInTx(ctx, tx, card, userID, now)
	})
	if err != nil {
		return err
	}

	logger.Info("Ledger entry deleted", slog.String("entry_id", entryID))
	return nil
}

// currentBalanceInTx reads the running balance of a card under the caller's
// transaction. The card row must already be locked.
func (s *ledgerService) currentBalanceInTx(ctx context.Context, tx pgx.Tx, card *domain.LoanCard) (int64, error) {
	latest, err := s.ledgerRepo.FindLatestEntryByCardInTx(ctx, tx, card.CardCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return card.Principal, nil
		}
		return 0, fmt.Errorf("failed to read latest entry of card %s: %w", card.CardCode, err)
	}
	return latest.Balance, nil
}

// seedLedgerInTx writes the anchoring zero-payment entry of a fresh card.
// Every later balance chains down from it.
func (s *ledgerService) seedLedgerInTx(ctx context.Context, tx pgx.Tx, card *domain.LoanCard, now time.Time) (*domain.LedgerEntry, error) {
	seed := domain.LedgerEntry{
		EntryID:    uuid.NewString(),
		CardCode:   card.CardCode,
		Amount:     0,
		Balance:    card.Principal,
		EntryDate:  card.IssuedAt,
		RecordedAt: now,
	}
	if err := s.ledgerRepo.SaveEntryInTx(ctx, tx, seed); err != nil {
		return nil, fmt.Errorf("failed to seed ledger of card %s: %w", card.CardCode, err)
	}
	return &seed, nil
}

// appendPaymentInTx validates a payment against the running balance, checks
// the operator's declared remaining balance when present and appends the
// entry. Returns the entry and the balance before it.
func (s *ledgerService) appendPaymentInTx(ctx context.Context, tx pgx.Tx, card *domain.LoanCard, amount int64, declared *int64, entryDate, now time.Time) (*domain.LedgerEntry, int64, error) {
	if amount <= 0 {
		return nil, 0, fmt.Errorf("%w: payment of %d", apperrors.ErrInvalidAmount, amount)
	}

	current, err := s.currentBalanceInTx(ctx, tx, card)
	if err != nil {
		return nil, 0, err
	}
	if amount > current {
		return nil, 0, fmt.Errorf("%w: balance is %d, payment is %d", apperrors.ErrInsufficientBalance, current, amount)
	}

	newBalance := current - amount
	if declared != nil && *declared != newBalance {
		return nil, 0, fmt.Errorf("%w: computed %d, declared %d", apperrors.ErrReconciliationMismatch, newBalance, *declared)
	}

	entry := domain.LedgerEntry{
		EntryID:    uuid.NewString(),
		CardCode:   card.CardCode,
		Amount:     amount,
		Balance:    newBalance,
		EntryDate:  entryDate,
		RecordedAt: now,
	}
	if err := s.ledgerRepo.SaveEntryInTx(ctx, tx, entry); err != nil {
		return nil, 0, fmt.Errorf("failed to save entry for card %s: %w", card.CardCode, err)
	}
	return &entry, current, nil
}

// refreshCardStateInTx re-derives card and client state from the ledger tail
// after an administrative edit. A card whose balance reaches zero is retired
// from the route; a retired card whose balance climbs back above zero stays
// retired and is only reported, never reactivated.
func (s *ledgerService) refreshCardStateInTx(ctx context.Context, tx pgx.Tx, card *domain.LoanCard, userID string, now time.Time) error {
	balance, err := s.currentBalanceInTx(ctx, tx, card)
	if err != nil {
		return err
	}

	if balance == 0 && card.IsActive() {
		if err := s.position.removeAndCompactInTx(ctx, tx, card, userID, now); err != nil {
			return err
		}
		if err := s.clientRepo.UpdateClientStatusInTx(ctx, tx, card.ClientCode, domain.DeriveClientStatus(0), userID, now); err != nil {
			return fmt.Errorf("failed to refresh status of client %d: %w", card.ClientCode, err)
		}
		return nil
	}

	if balance > 0 && !card.IsActive() {
		middleware.GetLoggerFromCtx(ctx).Warn("Retired card carries a balance after ledger edit; card stays retired",
			slog.String("card_code", card.CardCode),
			slog.Int64("balance", balance),
		)
	}
	return nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jdrojas/cobranza_app/internal/apperrors"
	"github.com/jdrojas/cobranza_app/internal/core/domain"
	portsrepo "github.com/jdrojas/cobranza_app/internal/core/ports/repositories"
	portssvc "github.com/jdrojas/cobranza_app/internal/core/ports/services"
	"github.com/jdrojas/cobranza_app/internal/dto"
	"github.com/jdrojas/cobranza_app/internal/middleware"
	"github.com/jdrojas/cobranza_app/internal/utils/schedule"
)

// loanService coordinates the loan lifecycle: origination, payments and
// client retirement. Each operation runs as one serializable transaction so
// the route order, the ledger and the derived statuses move together.
type loanService struct {
	cardRepo      portsrepo.CardRepositoryWithTx
	clientRepo    portsrepo.ClientRepositoryFacade
	collectorRepo portsrepo.CollectorRepositoryFacade
	ledgerRepo    portsrepo.LedgerRepositoryFacade
	ledger        *ledgerService
	position      *positionService
}

// NewLoanService creates a new LoanService.
func NewLoanService(
	cardRepo portsrepo.CardRepositoryWithTx,
	clientRepo portsrepo.ClientRepositoryFacade,
	collectorRepo portsrepo.CollectorRepositoryFacade,
	ledgerRepo portsrepo.LedgerRepositoryFacade,
	ledger *ledgerService,
	position *positionService,
) portssvc.LoanSvcFacade {
	return &loanService{
		cardRepo:      cardRepo,
		clientRepo:    clientRepo,
		collectorRepo: collectorRepo,
		ledgerRepo:    ledgerRepo,
		ledger:        ledger,
		position:      position,
	}
}

// Ensure loanService implements the portssvc.LoanSvcFacade interface
var _ portssvc.LoanSvcFacade = (*loanService)(nil)

// newCardCode builds a card code from the owning client and a random
// fragment. The client code prefix keeps codes readable on paper cards.
func newCardCode(clientCode int64) string {
	return fmt.Sprintf("TAR-%d-%s", clientCode, uuid.NewString()[:8])
}

// OpenLoan opens a loan for a new or known client, claiming a route position
// and anchoring the card's ledger.
func (s *loanService) OpenLoan(ctx context.Context, req dto.OpenLoanRequest, userID string) (*domain.LoanGrant, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	principal, err := wholeUnits(req.Principal)
	if err != nil {
		return nil, err
	}
	terms, err := schedule.Derive(principal, req.TermDays, domain.PaymentFrequency(req.Frequency))
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	issuedAt := now
	if req.IssuedAt != nil {
		issuedAt = req.IssuedAt.UTC()
	}
	var insert *domain.InsertPosition
	if req.Insert != nil {
		insert = &domain.InsertPosition{
			Reference: req.Insert.Reference,
			Mode:      domain.InsertMode(req.Insert.Mode),
		}
	}

	var grant domain.LoanGrant
	err = runInTx(ctx, s.cardRepo, func(tx pgx.Tx) error {
		client, err := s.clientRepo.FindClientByCodeForUpdate(ctx, tx, req.ClientCode)
		newClient := errors.Is(err, apperrors.ErrNotFound)
		if err != nil && !newClient {
			return fmt.Errorf("failed to find client %d: %w", req.ClientCode, err)
		}

		if newClient {
			if req.Name == "" || req.CollectorCode == "" {
				return fmt.Errorf("%w: name and collectorCode are required for a new client", apperrors.ErrValidation)
			}
			if _, err := s.collectorRepo.FindCollectorByCode(ctx, req.CollectorCode); err != nil {
				if errors.Is(err, apperrors.ErrNotFound) {
					return fmt.Errorf("%w: collector %s does not exist", apperrors.ErrValidation, req.CollectorCode)
				}
				return fmt.Errorf("failed to find collector %s: %w", req.CollectorCode, err)
			}
			client = &domain.Client{
				ClientCode:    req.ClientCode,
				Name:          req.Name,
				Street:        req.Street,
				CollectorCode: req.CollectorCode,
				Status:        domain.ClientActive,
				AuditFields: domain.AuditFields{
					CreatedAt:     now,
					CreatedBy:     userID,
					LastUpdatedAt: now,
					LastUpdatedBy: userID,
				},
			}
			if err := s.clientRepo.SaveClientInTx(ctx, tx, *client); err != nil {
				return fmt.Errorf("failed to save client %d: %w", req.ClientCode, err)
			}
		} else {
			// One active card per client: a replacement is only allowed once
			// the current one is fully repaid.
			active, err := s.cardRepo.FindActiveCardByClientForUpdate(ctx, tx, req.ClientCode)
			if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
				return fmt.Errorf("failed to find active card of client %d: %w", req.ClientCode, err)
			}
			if err == nil {
				balance, err := s.ledger.currentBalanceInTx(ctx, tx, active)
				if err != nil {
					return err
				}
				if balance > 0 {
					return &apperrors.ActiveLoanError{
						ClientCode:  client.ClientCode,
						ClientName:  client.Name,
						Outstanding: balance,
					}
				}
				if err := s.position.removeAndCompactInTx(ctx, tx, active, userID, now); err != nil {
					return err
				}
			}
		}

		pos, err := s.position.claimPositionInTx(ctx, tx, insert)
		if err != nil {
			return err
		}

		card := domain.LoanCard{
			CardCode:         newCardCode(req.ClientCode),
			ClientCode:       req.ClientCode,
			Principal:        principal,
			Installment:      terms.Installment,
			InstallmentCount: terms.InstallmentCount,
			TermDays:         req.TermDays,
			Frequency:        terms.Frequency,
			IssuedAt:         issuedAt,
			Status:           domain.CardActive,
			Position:         pos,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
		if err := s.cardRepo.SaveCardInTx(ctx, tx, card); err != nil {
			return fmt.Errorf("failed to save card %s: %w", card.CardCode, err)
		}
		if _, err := s.ledger.seedLedgerInTx(ctx, tx, &card, now); err != nil {
			return err
		}

		if !newClient && client.Status != domain.ClientActive {
			if err := s.clientRepo.UpdateClientStatusInTx(ctx, tx, client.ClientCode, domain.ClientActive, userID, now); err != nil {
				return fmt.Errorf("failed to reactivate client %d: %w", client.ClientCode, err)
			}
			client.Status = domain.ClientActive
		}

		grant = domain.LoanGrant{
			Client:    *client,
			Card:      card,
			Terms:     terms,
			NewClient: newClient,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Loan opened",
		slog.Int64("client_code", grant.Client.ClientCode),
		slog.String("card_code", grant.Card.CardCode),
		slog.Int64("principal", grant.Card.Principal),
		slog.Int("position", grant.Card.Position),
		slog.Bool("new_client", grant.NewClient),
	)
	return &grant, nil
}

// RecordPayment reconciles and appends one payment. A payment that clears the
// balance retires the card from the route and deactivates the client in the
// same transaction.
func (s *loanService) RecordPayment(ctx context.Context, cardCode string, req dto.RecordPaymentRequest, userID string) (*domain.PaymentReceipt, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	amount, err := wholeUnits(req.Amount)
	if err != nil {
		return nil, err
	}
	var declared *int64
	if req.DeclaredBalance != nil {
		v, err := wholeUnits(*req.DeclaredBalance)
		if err != nil {
			return nil, err
		}
		declared = &v
	}

	now := time.Now().UTC()
	entryDate := now
	if req.EntryDate != nil {
		entryDate = req.EntryDate.UTC()
	}

	var receipt domain.PaymentReceipt
	err = runInTx(ctx, s.cardRepo, func(tx pgx.Tx) error {
		card, err := s.cardRepo.FindCardByCodeForUpdate(ctx, tx, cardCode)
		if err != nil {
			return fmt.Errorf("failed to find card %s: %w", cardCode, err)
		}
		if !card.IsActive() {
			return fmt.Errorf("%w: card %s is already paid off", apperrors.ErrValidation, cardCode)
		}

		entry, previous, err := s.ledger.appendPaymentInTx(ctx, tx, card, amount, declared, entryDate, now)
		if err != nil {
			return err
		}

		receipt = domain.PaymentReceipt{
			Entry:           *entry,
			PreviousBalance: previous,
			NewBalance:      entry.Balance,
			CardPaidOff:     entry.Balance == 0,
		}
		if !receipt.CardPaidOff {
			return nil
		}

		if err := s.position.removeAndCompactInTx(ctx, tx, card, userID, now); err != nil {
			return err
		}
		if err := s.clientRepo.UpdateClientStatusInTx(ctx, tx, card.ClientCode, domain.DeriveClientStatus(0), userID, now); err != nil {
			return fmt.Errorf("failed to deactivate client %d: %w", card.ClientCode, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Payment recorded",
		slog.String("card_code", cardCode),
		slog.Int64("amount", amount),
		slog.Int64("new_balance", receipt.NewBalance),
		slog.Bool("paid_off", receipt.CardPaidOff),
	)
	return &receipt, nil
}

// DeactivateClient retires a zero-balance client from the route. Fails while
// the client's active card still carries a balance.
func (s *loanService) DeactivateClient(ctx context.Context, clientCode int64, userID string) (*domain.Client, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	now := time.Now().UTC()

	var client domain.Client
	err := runInTx(ctx, s.cardRepo, func(tx pgx.Tx) error {
		found, err := s.clientRepo.FindClientByCodeForUpdate(ctx, tx, clientCode)
		if err != nil {
			return fmt.Errorf("failed to find client %d: %w", clientCode, err)
		}

		active, err := s.cardRepo.FindActiveCardByClientForUpdate(ctx, tx, clientCode)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("failed to find active card of client %d: %w", clientCode, err)
		}
		if err == nil {
			balance, err := s.ledger.currentBalanceInTx(ctx, tx, active)
			if err != nil {
				return err
			}
			if balance > 0 {
				return fmt.Errorf("%w: client %d still owes %d", apperrors.ErrValidation, clientCode, balance)
			}
			if err := s.position.removeAndCompactInTx(ctx, tx, active, userID, now); err != nil {
				return err
			}
		}

		if err := s.clientRepo.UpdateClientStatusInTx(ctx, tx, clientCode, domain.ClientInactive, userID, now); err != nil {
			return fmt.Errorf("failed to deactivate client %d: %w", clientCode, err)
		}

		client = *found
		client.Status = domain.ClientInactive
		client.LastUpdatedAt = now
		client.LastUpdatedBy = userID
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Client deactivated", slog.Int64("client_code", clientCode))
	return &client, nil
}

// PurgeClient hard-deletes a client with every card and ledger entry,
// compacting the route. Administrative path: it does not require a zero
// balance.
func (s *loanService) PurgeClient(ctx context.Context, clientCode int64, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	err := runInTx(ctx, s.cardRepo, func(tx pgx.Tx) error {
		if _, err := s.clientRepo.FindClientByCodeForUpdate(ctx, tx, clientCode); err != nil {
			return fmt.Errorf("failed to find client %d: %w", clientCode, err)
		}

		cards, err := s.cardRepo.ListCardsByClientInTx(ctx, tx, clientCode)
		if err != nil {
			return fmt.Errorf("failed to list cards of client %d: %w", clientCode, err)
		}

		freedPosition := 0
		for i := range cards {
			if cards[i].IsActive() {
				freedPosition = cards[i].Position
			}
			if err := s.ledgerRepo.DeleteEntriesByCardInTx(ctx, tx, cards[i].CardCode); err != nil {
				return fmt.Errorf("failed to delete entries of card %s: %w", cards[i].CardCode, err)
			}
		}

		if err := s.cardRepo.DeleteCardsByClientInTx(ctx, tx, clientCode); err != nil {
			return fmt.Errorf("failed to delete cards of client %d: %w", clientCode, err)
		}
		if err := s.clientRepo.DeleteClientInTx(ctx, tx, clientCode); err != nil {
			return fmt.Errorf("failed to delete client %d: %w", clientCode, err)
		}

		if freedPosition > 0 {
			if err := s.cardRepo.ShiftPositionsDownAfter(ctx, tx, freedPosition); err != nil {
				return fmt.Errorf("failed to compact positions after %d: %w", freedPosition, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("Client purged", slog.Int64("client_code", clientCode))
	return nil
}

// RefreshClientStatus recomputes the derived activity state from the client's
// active card and persists it when the stored value is stale.
func (s *loanService) RefreshClientStatus(ctx context.Context, clientCode int64, userID string) (*domain.ClientOverview, error) {
	client, err := s.clientRepo.FindClientByCode(ctx, clientCode)
	if err != nil {
		return nil, fmt.Errorf("failed to find client %d: %w", clientCode, err)
	}

	var outstanding int64
	active, err := s.cardRepo.FindActiveCardByClient(ctx, clientCode)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to find active card of client %d: %w", clientCode, err)
	}
	if err == nil {
		outstanding = active.Principal
		latest, err := s.ledgerRepo.FindLatestEntryByCard(ctx, active.CardCode)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("failed to read latest entry of card %s: %w", active.CardCode, err)
		}
		if err == nil {
			outstanding = latest.Balance
		}
	} else {
		active = nil
	}

	derived := domain.DeriveClientStatus(outstanding)
	if derived != client.Status {
		now := time.Now().UTC()
		if err := s.clientRepo.UpdateClientStatus(ctx, clientCode, derived, userID, now); err != nil {
			return nil, fmt.Errorf("failed to refresh status of client %d: %w", clientCode, err)
		}
		middleware.GetLoggerFromCtx(ctx).Info("Client status refreshed",
			slog.Int64("client_code", clientCode),
			slog.String("from", string(client.Status)),
			slog.String("to", string(derived)),
		)
		client.Status = derived
	}

	overview := domain.ClientOverview{
		Client:      *client,
		Outstanding: outstanding,
		ActiveCard:  active,
	}
	if active != nil {
		overview.Position = active.Position
	}
	return &overview, nil
}

package services_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"

	"github.com/jdrojas/cobranza_app/internal/core/domain"
)

// --- Mock CardRepository (with transaction manager) ---

type MockCardRepository struct {
	mock.Mock
}

func (m *MockCardRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockCardRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockCardRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockCardRepository) FindCardByCode(ctx context.Context, cardCode string) (*domain.LoanCard, error) {
	args := m.Called(ctx, cardCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoanCard), args.Error(1)
}

func (m *MockCardRepository) FindActiveCardByClient(ctx context.Context, clientCode int64) (*domain.LoanCard, error) {
	args := m.Called(ctx, clientCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoanCard), args.Error(1)
}

func (m *MockCardRepository) ListCardsByClient(ctx context.Context, clientCode int64) ([]domain.LoanCard, error) {
	args := m.Called(ctx, clientCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LoanCard), args.Error(1)
}

func (m *MockCardRepository) ListActiveCards(ctx context.Context) ([]domain.LoanCard, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LoanCard), args.Error(1)
}

func (m *MockCardRepository) UpdateCardTerms(ctx context.Context, cardCode string, termDays int, frequency domain.PaymentFrequency, installment int64, installmentCount int, updatedBy string, now time.Time) error {
	args := m.Called(ctx, cardCode, termDays, frequency, installment, installmentCount, updatedBy, now)
	return args.Error(0)
}

func (m *MockCardRepository) FindNeighborActiveCard(ctx context.Context, current int, direction domain.Direction, collectorCode *string) (*domain.LoanCard, error) {
	args := m.Called(ctx, current, direction, collectorCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoanCard), args.Error(1)
}

func (m *MockCardRepository) FindActiveCardByPosition(ctx context.Context, position int) (*domain.LoanCard, error) {
	args := m.Called(ctx, position)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoanCard), args.Error(1)
}

func (m *MockCardRepository) FirstActiveCardByCollector(ctx context.Context, collectorCode string) (*domain.LoanCard, error) {
	args := m.Called(ctx, collectorCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoanCard), args.Error(1)
}

func (m *MockCardRepository) CountActiveCards(ctx context.Context, collectorCode *string) (int, error) {
	args := m.Called(ctx, collectorCode)
	return args.Int(0), args.Error(1)
}

func (m *MockCardRepository) CountActiveCardsUpTo(ctx context.Context, position int, collectorCode *string) (int, error) {
	args := m.Called(ctx, position, collectorCode)
	return args.Int(0), args.Error(1)
}

func (m *MockCardRepository) FindCardByCodeForUpdate(ctx context.Context, tx pgx.Tx, cardCode string) (*domain.LoanCard, error) {
	args := m.Called(ctx, tx, cardCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoanCard), args.Error(1)
}

func (m *MockCardRepository) FindActiveCardByClientForUpdate(ctx context.Context, tx pgx.Tx, clientCode int64) (*domain.LoanCard, error) {
	args := m.Called(ctx, tx, clientCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoanCard), args.Error(1)
}

func (m *MockCardRepository) FindActiveCardByPositionForUpdate(ctx context.Context, tx pgx.Tx, position int) (*domain.LoanCard, error) {
	args := m.Called(ctx, tx, position)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoanCard), args.Error(1)
}

func (m *MockCardRepository) MaxActivePosition(ctx context.Context, tx pgx.Tx) (int, error) {
	args := m.Called(ctx, tx)
	return args.Int(0), args.Error(1)
}

func (m *MockCardRepository) ShiftPositionsUpFrom(ctx context.Context, tx pgx.Tx, fromPosition int) error {
	args := m.Called(ctx, tx, fromPosition)
	return args.Error(0)
}

func (m *MockCardRepository) ShiftPositionsDownAfter(ctx context.Context, tx pgx.Tx, afterPosition int) error {
	args := m.Called(ctx, tx, afterPosition)
	return args.Error(0)
}

func (m *MockCardRepository) SaveCardInTx(ctx context.Context, tx pgx.Tx, card domain.LoanCard) error {
	args := m.Called(ctx, tx, card)
	return args.Error(0)
}

func (m *MockCardRepository) ListCardsByClientInTx(ctx context.Context, tx pgx.Tx, clientCode int64) ([]domain.LoanCard, error) {
	args := m.Called(ctx, tx, clientCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LoanCard), args.Error(1)
}

func (m *MockCardRepository) RetireCardInTx(ctx context.Context, tx pgx.Tx, cardCode string, updatedBy string, now time.Time) error {
	args := m.Called(ctx, tx, cardCode, updatedBy, now)
	return args.Error(0)
}

func (m *MockCardRepository) DeleteCardsByClientInTx(ctx context.Context, tx pgx.Tx, clientCode int64) error {
	args := m.Called(ctx, tx, clientCode)
	return args.Error(0)
}

// --- Mock LedgerRepository ---

type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) FindLatestEntryByCard(ctx context.Context, cardCode string) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, cardCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) ListEntriesByCard(ctx context.Context, cardCode string) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, cardCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) ListEntries(ctx context.Context) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) SaveEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.LedgerEntry) error {
	args := m.Called(ctx, tx, entry)
	return args.Error(0)
}

func (m *MockLedgerRepository) FindEntryByIDInTx(ctx context.Context, tx pgx.Tx, entryID string) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, tx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) FindLatestEntryByCardInTx(ctx context.Context, tx pgx.Tx, cardCode string) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, tx, cardCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) FindEntryBeforeInTx(ctx context.Context, tx pgx.Tx, cardCode string, beforeDate time.Time, beforeRecordID int64) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, tx, cardCode, beforeDate, beforeRecordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) UpdateEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.LedgerEntry) error {
	args := m.Called(ctx, tx, entry)
	return args.Error(0)
}

func (m *MockLedgerRepository) DeleteEntryInTx(ctx context.Context, tx pgx.Tx, entryID string) error {
	args := m.Called(ctx, tx, entryID)
	return args.Error(0)
}

func (m *MockLedgerRepository) DeleteEntriesByCardInTx(ctx context.Context, tx pgx.Tx, cardCode string) error {
	args := m.Called(ctx, tx, cardCode)
	return args.Error(0)
}

// --- Mock ClientRepository ---

type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) FindClientByCode(ctx context.Context, clientCode int64) (*domain.Client, error) {
	args := m.Called(ctx, clientCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientRepository) ListClients(ctx context.Context) ([]domain.Client, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Client), args.Error(1)
}

func (m *MockClientRepository) ListClientsByCollector(ctx context.Context, collectorCode string) ([]domain.Client, error) {
	args := m.Called(ctx, collectorCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Client), args.Error(1)
}

func (m *MockClientRepository) UpdateClientBasics(ctx context.Context, clientCode int64, name, street string, updatedBy string, now time.Time) error {
	args := m.Called(ctx, clientCode, name, street, updatedBy, now)
	return args.Error(0)
}

func (m *MockClientRepository) UpdateClientStatus(ctx context.Context, clientCode int64, status domain.ClientStatus, updatedBy string, now time.Time) error {
	args := m.Called(ctx, clientCode, status, updatedBy, now)
	return args.Error(0)
}

func (m *MockClientRepository) FindClientByCodeForUpdate(ctx context.Context, tx pgx.Tx, clientCode int64) (*domain.Client, error) {
	args := m.Called(ctx, tx, clientCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientRepository) SaveClientInTx(ctx context.Context, tx pgx.Tx, client domain.Client) error {
	args := m.Called(ctx, tx, client)
	return args.Error(0)
}

func (m *MockClientRepository) UpdateClientStatusInTx(ctx context.Context, tx pgx.Tx, clientCode int64, status domain.ClientStatus, updatedBy string, now time.Time) error {
	args := m.Called(ctx, tx, clientCode, status, updatedBy, now)
	return args.Error(0)
}

func (m *MockClientRepository) DeleteClientInTx(ctx context.Context, tx pgx.Tx, clientCode int64) error {
	args := m.Called(ctx, tx, clientCode)
	return args.Error(0)
}

// --- Mock CollectorRepository ---

type MockCollectorRepository struct {
	mock.Mock
}

func (m *MockCollectorRepository) FindCollectorByCode(ctx context.Context, collectorCode string) (*domain.Collector, error) {
	args := m.Called(ctx, collectorCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Collector), args.Error(1)
}

func (m *MockCollectorRepository) ListCollectors(ctx context.Context) ([]domain.Collector, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Collector), args.Error(1)
}

func (m *MockCollectorRepository) SaveCollector(ctx context.Context, collector domain.Collector) error {
	args := m.Called(ctx, collector)
	return args.Error(0)
}

func (m *MockCollectorRepository) UpdateCollector(ctx context.Context, collector domain.Collector) error {
	args := m.Called(ctx, collector)
	return args.Error(0)
}

func (m *MockCollectorRepository) DeleteCollector(ctx context.Context, collectorCode string) error {
	args := m.Called(ctx, collectorCode)
	return args.Error(0)
}

// --- Mock ReportRepository ---

type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) ListReports(ctx context.Context) ([]domain.Report, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Report), args.Error(1)
}

func (m *MockReportRepository) ListReportsByCollector(ctx context.Context, collectorCode string) ([]domain.Report, error) {
	args := m.Called(ctx, collectorCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Report), args.Error(1)
}

func (m *MockReportRepository) ListReportsByDate(ctx context.Context, day time.Time) ([]domain.Report, error) {
	args := m.Called(ctx, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Report), args.Error(1)
}

func (m *MockReportRepository) SaveReport(ctx context.Context, report domain.Report) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockReportRepository) DeleteReport(ctx context.Context, reportID string) error {
	args := m.Called(ctx, reportID)
	return args.Error(0)
}

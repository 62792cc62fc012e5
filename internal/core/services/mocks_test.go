package services_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/dto"
)

// --- Mock AccountRepository ---

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error {
	args := m.Called(ctx, accountID, userID, now)
	return args.Error(0)
}

func (m *MockAccountRepository) DeleteAccount(ctx context.Context, accountID string) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, limit int, offset int, includeInactive bool) ([]domain.Account, error) {
	args := m.Called(ctx, limit, offset, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) CountLinesByAccountID(ctx context.Context, accountID string) (int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(int64), args.Error(1)
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

// --- Mock EntryRepository ---

type MockEntryRepository struct {
	mock.Mock
}

func (m *MockEntryRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockEntryRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalEntryLine, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntryLine), args.Error(1)
}

func (m *MockEntryRepository) FindEntryBySource(ctx context.Context, sourceType domain.SourceType, sourceID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, sourceType, sourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockEntryRepository) ListEntries(ctx context.Context, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	args := m.Called(ctx, limit, nextToken)
	var entries []domain.JournalEntry
	if args.Get(0) != nil {
		entries = args.Get(0).([]domain.JournalEntry)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return entries, token, args.Error(2)
}

func (m *MockEntryRepository) CountDraftsInRange(ctx context.Context, from, to time.Time) (int64, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEntryRepository) SaveDraft(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalEntryLine) error {
	args := m.Called(ctx, entry, lines)
	return args.Error(0)
}

func (m *MockEntryRepository) PostEntry(ctx context.Context, entryID string, userID string, now time.Time) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID, userID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockEntryRepository) ReverseEntry(ctx context.Context, originalID string, reversal domain.JournalEntry, lines []domain.JournalEntryLine) (*domain.JournalEntry, error) {
	args := m.Called(ctx, originalID, reversal, lines)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

var _ portsrepo.EntryRepositoryFacade = (*MockEntryRepository)(nil)

// --- Mock PeriodRepository ---

type MockPeriodRepository struct {
	mock.Mock
}

func (m *MockPeriodRepository) FindPeriodByID(ctx context.Context, periodID string) (*domain.FiscalPeriod, error) {
	args := m.Called(ctx, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalPeriod), args.Error(1)
}

func (m *MockPeriodRepository) FindPeriodByDate(ctx context.Context, date time.Time) (*domain.FiscalPeriod, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalPeriod), args.Error(1)
}

func (m *MockPeriodRepository) ListPeriods(ctx context.Context) ([]domain.FiscalPeriod, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FiscalPeriod), args.Error(1)
}

func (m *MockPeriodRepository) SavePeriod(ctx context.Context, period domain.FiscalPeriod) error {
	args := m.Called(ctx, period)
	return args.Error(0)
}

func (m *MockPeriodRepository) SetPeriodLock(ctx context.Context, periodID string, locked bool, userID string, now time.Time) error {
	args := m.Called(ctx, periodID, locked, userID, now)
	return args.Error(0)
}

func (m *MockPeriodRepository) ClosePeriod(ctx context.Context, periodID string, notes string, closing domain.JournalEntry, lines []domain.JournalEntryLine, userID string, now time.Time) (*domain.JournalEntry, error) {
	args := m.Called(ctx, periodID, notes, closing, lines, userID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockPeriodRepository) ReopenPeriod(ctx context.Context, periodID string, reversal domain.JournalEntry, lines []domain.JournalEntryLine, userID string, now time.Time) (*domain.JournalEntry, error) {
	args := m.Called(ctx, periodID, reversal, lines, userID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

var _ portsrepo.PeriodRepositoryFacade = (*MockPeriodRepository)(nil)

// --- Mock ReportingRepository ---

type MockReportingRepository struct {
	mock.Mock
}

func (m *MockReportingRepository) GetBalanceSums(ctx context.Context, accountID string, asOf time.Time) (*domain.BalanceSums, error) {
	args := m.Called(ctx, accountID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BalanceSums), args.Error(1)
}

func (m *MockReportingRepository) GetTrialBalanceSums(ctx context.Context, asOf time.Time) ([]domain.BalanceSums, []domain.Account, error) {
	args := m.Called(ctx, asOf)
	var sums []domain.BalanceSums
	if args.Get(0) != nil {
		sums = args.Get(0).([]domain.BalanceSums)
	}
	var accounts []domain.Account
	if args.Get(1) != nil {
		accounts = args.Get(1).([]domain.Account)
	}
	return sums, accounts, args.Error(2)
}

func (m *MockReportingRepository) GetLedgerLines(ctx context.Context, accountID string, from, to time.Time) ([]portsrepo.LedgerLine, error) {
	args := m.Called(ctx, accountID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]portsrepo.LedgerLine), args.Error(1)
}

func (m *MockReportingRepository) GetActivityInRange(ctx context.Context, from, to time.Time, types []domain.AccountType) ([]domain.AccountActivity, error) {
	args := m.Called(ctx, from, to, types)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountActivity), args.Error(1)
}

var _ portsrepo.ReportingRepository = (*MockReportingRepository)(nil)

// --- Mock RecurringRepository ---

type MockRecurringRepository struct {
	mock.Mock
}

func (m *MockRecurringRepository) SaveRecurring(ctx context.Context, recurring domain.RecurringEntry, lines []domain.RecurringEntryLine) error {
	args := m.Called(ctx, recurring, lines)
	return args.Error(0)
}

func (m *MockRecurringRepository) FindRecurringByID(ctx context.Context, recurringID string) (*domain.RecurringEntry, error) {
	args := m.Called(ctx, recurringID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecurringEntry), args.Error(1)
}

func (m *MockRecurringRepository) ListRecurring(ctx context.Context, activeOnly bool) ([]domain.RecurringEntry, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RecurringEntry), args.Error(1)
}

func (m *MockRecurringRepository) ListDueRecurring(ctx context.Context, asOf time.Time) ([]domain.RecurringEntry, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RecurringEntry), args.Error(1)
}

func (m *MockRecurringRepository) AdvanceNextRun(ctx context.Context, recurringID string, nextRunDate time.Time, userID string, now time.Time) error {
	args := m.Called(ctx, recurringID, nextRunDate, userID, now)
	return args.Error(0)
}

func (m *MockRecurringRepository) DeactivateRecurring(ctx context.Context, recurringID string, userID string, now time.Time) error {
	args := m.Called(ctx, recurringID, userID, now)
	return args.Error(0)
}

var _ portsrepo.RecurringRepositoryFacade = (*MockRecurringRepository)(nil)

// --- Mock JournalService (for services composed on top of the journal store) ---

type MockJournalService struct {
	mock.Mock
}

func (m *MockJournalService) CreateEntry(ctx context.Context, input portssvc.NewEntryInput, creatorUserID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, input, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) PostEntry(ctx context.Context, entryID string, userID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) ReverseEntry(ctx context.Context, entryID string, req dto.ReverseEntryRequest, userID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) GetEntryBySource(ctx context.Context, sourceType domain.SourceType, sourceID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, sourceType, sourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) ListEntries(ctx context.Context, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListEntriesResponse), args.Error(1)
}

var _ portssvc.JournalSvcFacade = (*MockJournalService)(nil)

// --- Mock BalanceService (for the period service's checklist) ---

type MockBalanceService struct {
	mock.Mock
}

func (m *MockBalanceService) AccountBalance(ctx context.Context, accountID string, asOf time.Time) (int64, error) {
	args := m.Called(ctx, accountID, asOf)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBalanceService) AccountLedger(ctx context.Context, accountID string, from, to time.Time) (int64, []domain.LedgerRow, error) {
	args := m.Called(ctx, accountID, from, to)
	var rows []domain.LedgerRow
	if args.Get(1) != nil {
		rows = args.Get(1).([]domain.LedgerRow)
	}
	return args.Get(0).(int64), rows, args.Error(2)
}

func (m *MockBalanceService) TrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalance, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrialBalance), args.Error(1)
}

func (m *MockBalanceService) IncomeStatement(ctx context.Context, from, to time.Time) ([]domain.IncomeStatementLine, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.IncomeStatementLine), args.Error(1)
}

var _ portssvc.BalanceSvcFacade = (*MockBalanceService)(nil)

package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/finbooks/finbooks_backend/internal/core/services"
	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/dto"
)

// --- Test Suite Setup ---

type JournalServiceTestSuite struct {
	suite.Suite
	mockEntryRepo   *MockEntryRepository
	mockAccountRepo *MockAccountRepository
	mockPeriodRepo  *MockPeriodRepository
	service         portssvc.JournalSvcFacade

	openPeriod *domain.FiscalPeriod
}

func (suite *JournalServiceTestSuite) SetupTest() {
	suite.mockEntryRepo = new(MockEntryRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockPeriodRepo = new(MockPeriodRepository)
	suite.service = services.NewJournalService(suite.mockEntryRepo, suite.mockAccountRepo, suite.mockPeriodRepo)

	suite.openPeriod = &domain.FiscalPeriod{
		PeriodID:  uuid.NewString(),
		Name:      "FY2026-Q1",
		StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
	}
}

// activeAccounts builds the account lookup the service fetches for line validation.
func activeAccounts(ids ...string) map[string]domain.Account {
	accounts := make(map[string]domain.Account, len(ids))
	for _, id := range ids {
		accounts[id] = domain.Account{
			AccountID:   id,
			Code:        uuid.NewString(),
			AccountType: domain.Asset,
			IsActive:    true,
		}
	}
	return accounts
}

func balancedInput(debitAccount, creditAccount string, amount int64) portssvc.NewEntryInput {
	return portssvc.NewEntryInput{
		Date:        time.Date(2026, 2, 15, 10, 30, 0, 0, time.UTC),
		Description: "Test entry",
		Lines: []domain.JournalEntryLine{
			{AccountID: debitAccount, Debit: amount},
			{AccountID: creditAccount, Credit: amount},
		},
	}
}

// --- CreateEntry ---

func (suite *JournalServiceTestSuite) TestCreateEntry_Draft() {
	ctx := context.Background()
	userID := uuid.NewString()
	acc1, acc2 := uuid.NewString(), uuid.NewString()
	input := balancedInput(acc1, acc2, 50000)

	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, []string{acc1, acc2}).
		Return(activeAccounts(acc1, acc2), nil).Once()
	suite.mockPeriodRepo.On("FindPeriodByDate", ctx, domain.DateOnly(input.Date)).
		Return(suite.openPeriod, nil).Once()
	suite.mockEntryRepo.On("SaveDraft", ctx,
		mock.MatchedBy(func(e domain.JournalEntry) bool {
			return e.Status == domain.Draft &&
				e.PeriodID == suite.openPeriod.PeriodID &&
				e.SourceType == domain.SourceManual &&
				e.EntryNumber == "" &&
				e.EntryDate.Equal(time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC))
		}),
		mock.MatchedBy(func(lines []domain.JournalEntryLine) bool {
			return len(lines) == 2 && lines[0].LineID != "" && lines[0].EntryID != ""
		}),
	).Return(nil).Once()

	entry, err := suite.service.CreateEntry(ctx, input, userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(entry)
	suite.Equal(domain.Draft, entry.Status)
	suite.Empty(entry.EntryNumber)
	suite.Len(entry.Lines, 2)
	suite.Equal(userID, entry.CreatedBy)
	suite.mockEntryRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestCreateEntry_Unbalanced() {
	ctx := context.Background()
	input := portssvc.NewEntryInput{
		Date:        time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC),
		Description: "Unbalanced",
		Lines: []domain.JournalEntryLine{
			{AccountID: uuid.NewString(), Debit: 100},
			{AccountID: uuid.NewString(), Credit: 99},
		},
	}

	entry, err := suite.service.CreateEntry(ctx, input, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, apperrors.ErrUnbalancedEntry)
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "SaveDraft", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestCreateEntry_SingleLine() {
	ctx := context.Background()
	input := portssvc.NewEntryInput{
		Date:        time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC),
		Description: "One line",
		Lines: []domain.JournalEntryLine{
			{AccountID: uuid.NewString(), Debit: 100},
		},
	}

	entry, err := suite.service.CreateEntry(ctx, input, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *JournalServiceTestSuite) TestCreateEntry_BothSidesSet() {
	ctx := context.Background()
	input := portssvc.NewEntryInput{
		Date:        time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC),
		Description: "Both sides",
		Lines: []domain.JournalEntryLine{
			{AccountID: uuid.NewString(), Debit: 100, Credit: 100},
			{AccountID: uuid.NewString(), Credit: 0},
		},
	}

	entry, err := suite.service.CreateEntry(ctx, input, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *JournalServiceTestSuite) TestCreateEntry_MissingAccount() {
	ctx := context.Background()
	acc1, acc2 := uuid.NewString(), uuid.NewString()
	input := balancedInput(acc1, acc2, 100)

	// Only the first account exists.
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, []string{acc1, acc2}).
		Return(activeAccounts(acc1), nil).Once()

	entry, err := suite.service.CreateEntry(ctx, input, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "SaveDraft", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestCreateEntry_InactiveAccount() {
	ctx := context.Background()
	acc1, acc2 := uuid.NewString(), uuid.NewString()
	input := balancedInput(acc1, acc2, 100)

	accounts := activeAccounts(acc1, acc2)
	inactive := accounts[acc2]
	inactive.IsActive = false
	accounts[acc2] = inactive

	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, []string{acc1, acc2}).
		Return(accounts, nil).Once()

	entry, err := suite.service.CreateEntry(ctx, input, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "SaveDraft", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestCreateEntry_LockedPeriod() {
	ctx := context.Background()
	acc1, acc2 := uuid.NewString(), uuid.NewString()
	input := balancedInput(acc1, acc2, 100)

	locked := *suite.openPeriod
	locked.IsLocked = true

	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, []string{acc1, acc2}).
		Return(activeAccounts(acc1, acc2), nil).Once()
	suite.mockPeriodRepo.On("FindPeriodByDate", ctx, domain.DateOnly(input.Date)).
		Return(&locked, nil).Once()

	entry, err := suite.service.CreateEntry(ctx, input, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, apperrors.ErrPeriodClosed)
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "SaveDraft", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestCreateEntry_NoPeriodForDate() {
	ctx := context.Background()
	acc1, acc2 := uuid.NewString(), uuid.NewString()
	input := balancedInput(acc1, acc2, 100)

	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, []string{acc1, acc2}).
		Return(activeAccounts(acc1, acc2), nil).Once()
	suite.mockPeriodRepo.On("FindPeriodByDate", ctx, domain.DateOnly(input.Date)).
		Return(nil, apperrors.ErrPeriodNotFound).Once()

	entry, err := suite.service.CreateEntry(ctx, input, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, apperrors.ErrPeriodNotFound)
}

func (suite *JournalServiceTestSuite) TestCreateEntry_AutoPost() {
	ctx := context.Background()
	userID := uuid.NewString()
	acc1, acc2 := uuid.NewString(), uuid.NewString()
	input := balancedInput(acc1, acc2, 2500)
	input.AutoPost = true

	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, []string{acc1, acc2}).
		Return(activeAccounts(acc1, acc2), nil).Once()
	suite.mockPeriodRepo.On("FindPeriodByDate", ctx, domain.DateOnly(input.Date)).
		Return(suite.openPeriod, nil).Once()
	suite.mockEntryRepo.On("SaveDraft", ctx,
		mock.AnythingOfType("domain.JournalEntry"),
		mock.AnythingOfType("[]domain.JournalEntryLine"),
	).Return(nil).Once()

	postedAt := time.Now().UTC()
	posted := &domain.JournalEntry{
		EntryID:     uuid.NewString(),
		EntryNumber: "JE-000042",
		Status:      domain.Posted,
		PostedAt:    &postedAt,
	}
	suite.mockEntryRepo.On("PostEntry", ctx, mock.AnythingOfType("string"), userID, mock.AnythingOfType("time.Time")).
		Return(posted, nil).Once()

	entry, err := suite.service.CreateEntry(ctx, input, userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(entry)
	suite.Equal(domain.Posted, entry.Status)
	suite.Equal("JE-000042", entry.EntryNumber)
	suite.mockEntryRepo.AssertExpectations(suite.T())
}

// --- PostEntry ---

func (suite *JournalServiceTestSuite) TestPostEntry_Success() {
	ctx := context.Background()
	entryID := uuid.NewString()
	userID := uuid.NewString()

	postedAt := time.Now().UTC()
	posted := &domain.JournalEntry{
		EntryID:     entryID,
		EntryNumber: "JE-000001",
		Status:      domain.Posted,
		PostedAt:    &postedAt,
	}
	suite.mockEntryRepo.On("PostEntry", ctx, entryID, userID, mock.AnythingOfType("time.Time")).
		Return(posted, nil).Once()

	entry, err := suite.service.PostEntry(ctx, entryID, userID)

	suite.Require().NoError(err)
	suite.Equal(posted, entry)
	suite.mockEntryRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestPostEntry_AlreadyPosted() {
	ctx := context.Background()
	entryID := uuid.NewString()

	suite.mockEntryRepo.On("PostEntry", ctx, entryID, mock.Anything, mock.AnythingOfType("time.Time")).
		Return(nil, apperrors.ErrAlreadyPosted).Once()

	entry, err := suite.service.PostEntry(ctx, entryID, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, apperrors.ErrAlreadyPosted)
}

func (suite *JournalServiceTestSuite) TestPostEntry_PeriodClosedUnderTx() {
	ctx := context.Background()
	entryID := uuid.NewString()

	suite.mockEntryRepo.On("PostEntry", ctx, entryID, mock.Anything, mock.AnythingOfType("time.Time")).
		Return(nil, apperrors.ErrPeriodClosed).Once()

	entry, err := suite.service.PostEntry(ctx, entryID, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, apperrors.ErrPeriodClosed)
}

// --- ReverseEntry ---

func (suite *JournalServiceTestSuite) postedOriginal() *domain.JournalEntry {
	postedAt := time.Now().UTC()
	entryID := uuid.NewString()
	return &domain.JournalEntry{
		EntryID:     entryID,
		EntryNumber: "JE-000007",
		EntryDate:   time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
		PeriodID:    suite.openPeriod.PeriodID,
		Description: "Original",
		SourceType:  domain.SourceManual,
		Status:      domain.Posted,
		PostedAt:    &postedAt,
	}
}

func (suite *JournalServiceTestSuite) TestReverseEntry_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	original := suite.postedOriginal()
	acc1, acc2 := uuid.NewString(), uuid.NewString()
	originalLines := []domain.JournalEntryLine{
		{LineID: uuid.NewString(), EntryID: original.EntryID, AccountID: acc1, Debit: 300},
		{LineID: uuid.NewString(), EntryID: original.EntryID, AccountID: acc2, Credit: 300},
	}

	suite.mockEntryRepo.On("FindEntryByID", ctx, original.EntryID).Return(original, nil).Once()
	suite.mockEntryRepo.On("FindLinesByEntryID", ctx, original.EntryID).Return(originalLines, nil).Once()
	suite.mockPeriodRepo.On("FindPeriodByDate", ctx, mock.AnythingOfType("time.Time")).
		Return(suite.openPeriod, nil).Once()

	suite.mockEntryRepo.On("ReverseEntry", ctx, original.EntryID,
		mock.MatchedBy(func(rev domain.JournalEntry) bool {
			return rev.Status == domain.Posted &&
				rev.ReversalOf != nil && *rev.ReversalOf == original.EntryID &&
				rev.Description == "Reversal of JE-000007"
		}),
		mock.MatchedBy(func(lines []domain.JournalEntryLine) bool {
			// Sides are mirrored: the debit becomes a credit and vice versa.
			return len(lines) == 2 &&
				lines[0].AccountID == acc1 && lines[0].Credit == 300 && lines[0].Debit == 0 &&
				lines[1].AccountID == acc2 && lines[1].Debit == 300 && lines[1].Credit == 0
		}),
	).Return(&domain.JournalEntry{
		EntryID:     uuid.NewString(),
		EntryNumber: "JE-000008",
		Status:      domain.Posted,
		ReversalOf:  &original.EntryID,
	}, nil).Once()

	reversal, err := suite.service.ReverseEntry(ctx, original.EntryID, dto.ReverseEntryRequest{}, userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(reversal)
	suite.Equal("JE-000008", reversal.EntryNumber)
	suite.Require().NotNil(reversal.ReversalOf)
	suite.Equal(original.EntryID, *reversal.ReversalOf)
	suite.mockEntryRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestReverseEntry_Draft() {
	ctx := context.Background()
	draft := suite.postedOriginal()
	draft.Status = domain.Draft
	draft.PostedAt = nil

	suite.mockEntryRepo.On("FindEntryByID", ctx, draft.EntryID).Return(draft, nil).Once()
	suite.mockEntryRepo.On("FindLinesByEntryID", ctx, draft.EntryID).Return([]domain.JournalEntryLine{}, nil).Once()

	reversal, err := suite.service.ReverseEntry(ctx, draft.EntryID, dto.ReverseEntryRequest{}, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(reversal)
	suite.ErrorIs(err, apperrors.ErrNotPosted)
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "ReverseEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestReverseEntry_AlreadyReversed() {
	ctx := context.Background()
	original := suite.postedOriginal()
	reversedBy := uuid.NewString()
	original.ReversedBy = &reversedBy

	suite.mockEntryRepo.On("FindEntryByID", ctx, original.EntryID).Return(original, nil).Once()
	suite.mockEntryRepo.On("FindLinesByEntryID", ctx, original.EntryID).Return([]domain.JournalEntryLine{}, nil).Once()

	reversal, err := suite.service.ReverseEntry(ctx, original.EntryID, dto.ReverseEntryRequest{}, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(reversal)
	suite.ErrorIs(err, apperrors.ErrAlreadyReversed)
}

func (suite *JournalServiceTestSuite) TestReverseEntry_OfReversal() {
	ctx := context.Background()
	reversalEntry := suite.postedOriginal()
	originalID := uuid.NewString()
	reversalEntry.ReversalOf = &originalID

	suite.mockEntryRepo.On("FindEntryByID", ctx, reversalEntry.EntryID).Return(reversalEntry, nil).Once()
	suite.mockEntryRepo.On("FindLinesByEntryID", ctx, reversalEntry.EntryID).Return([]domain.JournalEntryLine{}, nil).Once()

	reversal, err := suite.service.ReverseEntry(ctx, reversalEntry.EntryID, dto.ReverseEntryRequest{}, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(reversal)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *JournalServiceTestSuite) TestReverseEntry_ClosedPeriod() {
	ctx := context.Background()
	original := suite.postedOriginal()
	originalLines := []domain.JournalEntryLine{
		{AccountID: uuid.NewString(), Debit: 100},
		{AccountID: uuid.NewString(), Credit: 100},
	}

	closed := *suite.openPeriod
	closed.IsClosed = true
	closed.IsLocked = true

	suite.mockEntryRepo.On("FindEntryByID", ctx, original.EntryID).Return(original, nil).Once()
	suite.mockEntryRepo.On("FindLinesByEntryID", ctx, original.EntryID).Return(originalLines, nil).Once()
	suite.mockPeriodRepo.On("FindPeriodByDate", ctx, mock.AnythingOfType("time.Time")).
		Return(&closed, nil).Once()

	reversal, err := suite.service.ReverseEntry(ctx, original.EntryID, dto.ReverseEntryRequest{}, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(reversal)
	suite.ErrorIs(err, apperrors.ErrPeriodClosed)
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "ReverseEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- ListEntries ---

func (suite *JournalServiceTestSuite) TestListEntries_LimitClamped() {
	ctx := context.Background()

	suite.mockEntryRepo.On("ListEntries", ctx, 50, (*string)(nil)).
		Return([]domain.JournalEntry{}, nil, nil).Once()

	resp, err := suite.service.ListEntries(ctx, dto.ListEntriesParams{Limit: 0})

	suite.Require().NoError(err)
	suite.Require().NotNil(resp)
	suite.Empty(resp.Entries)
	suite.Nil(resp.NextToken)
	suite.mockEntryRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestListEntries_PassesToken() {
	ctx := context.Background()
	token := "b3BhcXVl"
	next := "bmV4dA"

	entries := []domain.JournalEntry{{EntryID: uuid.NewString(), Status: domain.Posted}}
	suite.mockEntryRepo.On("ListEntries", ctx, 25, &token).
		Return(entries, &next, nil).Once()

	resp, err := suite.service.ListEntries(ctx, dto.ListEntriesParams{Limit: 25, NextToken: &token})

	suite.Require().NoError(err)
	suite.Len(resp.Entries, 1)
	suite.Require().NotNil(resp.NextToken)
	suite.Equal(next, *resp.NextToken)
	suite.mockEntryRepo.AssertExpectations(suite.T())
}

// --- Run Test Suite ---

func TestJournalService(t *testing.T) {
	suite.Run(t, new(JournalServiceTestSuite))
}

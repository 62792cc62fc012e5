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
	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/core/services"
	"github.com/finbooks/finbooks_backend/internal/dto"
)

// --- Test Suite Setup ---

type RecurringServiceTestSuite struct {
	suite.Suite
	mockRepo       *MockRecurringRepository
	mockPeriodRepo *MockPeriodRepository
	mockJournal    *MockJournalService
	service        portssvc.RecurringSvcFacade
}

func (suite *RecurringServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockRecurringRepository)
	suite.mockPeriodRepo = new(MockPeriodRepository)
	suite.mockJournal = new(MockJournalService)
	suite.service = services.NewRecurringService(suite.mockRepo, suite.mockPeriodRepo, suite.mockJournal)
}

func weeklyTemplate() domain.RecurringEntry {
	id := uuid.NewString()
	return domain.RecurringEntry{
		RecurringID: id,
		Description: "Weekly office rent",
		Frequency:   domain.RecurWeekly,
		NextRunDate: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		IsActive:    true,
		Lines: []domain.RecurringEntryLine{
			{LineID: uuid.NewString(), RecurringID: id, AccountID: uuid.NewString(), Debit: 50000},
			{LineID: uuid.NewString(), RecurringID: id, AccountID: uuid.NewString(), Credit: 50000},
		},
	}
}

// --- CreateRecurring ---

func (suite *RecurringServiceTestSuite) TestCreateRecurring_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	req := dto.CreateRecurringRequest{
		Description: "Monthly insurance accrual",
		Frequency:   "MONTHLY",
		StartDate:   time.Date(2026, 3, 1, 15, 45, 0, 0, time.UTC),
		Lines: []dto.CreateRecurringLineRequest{
			{AccountID: uuid.NewString(), Debit: 20000},
			{AccountID: uuid.NewString(), Credit: 20000},
		},
	}

	suite.mockRepo.On("SaveRecurring", ctx,
		mock.MatchedBy(func(r domain.RecurringEntry) bool {
			// Start date collapses to midnight UTC.
			return r.Frequency == domain.RecurMonthly &&
				r.IsActive &&
				r.NextRunDate.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
		}),
		mock.MatchedBy(func(lines []domain.RecurringEntryLine) bool {
			return len(lines) == 2 && lines[0].Debit == 20000 && lines[1].Credit == 20000
		}),
	).Return(nil).Once()

	recurring, err := suite.service.CreateRecurring(ctx, req, userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(recurring)
	suite.NotEmpty(recurring.RecurringID)
	suite.Len(recurring.Lines, 2)
	suite.Equal(userID, recurring.CreatedBy)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *RecurringServiceTestSuite) TestCreateRecurring_InvalidFrequency() {
	ctx := context.Background()
	req := dto.CreateRecurringRequest{
		Description: "Fortnightly payroll",
		Frequency:   "FORTNIGHTLY",
		StartDate:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Lines: []dto.CreateRecurringLineRequest{
			{AccountID: uuid.NewString(), Debit: 100},
			{AccountID: uuid.NewString(), Credit: 100},
		},
	}

	recurring, err := suite.service.CreateRecurring(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(recurring)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveRecurring", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RecurringServiceTestSuite) TestCreateRecurring_Unbalanced() {
	ctx := context.Background()
	req := dto.CreateRecurringRequest{
		Description: "Broken template",
		Frequency:   "DAILY",
		StartDate:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Lines: []dto.CreateRecurringLineRequest{
			{AccountID: uuid.NewString(), Debit: 100},
			{AccountID: uuid.NewString(), Credit: 99},
		},
	}

	recurring, err := suite.service.CreateRecurring(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(recurring)
	suite.ErrorIs(err, apperrors.ErrUnbalancedEntry)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveRecurring", mock.Anything, mock.Anything, mock.Anything)
}

// --- DeactivateRecurring ---

func (suite *RecurringServiceTestSuite) TestDeactivateRecurring_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	template := weeklyTemplate()

	suite.mockRepo.On("FindRecurringByID", ctx, template.RecurringID).Return(&template, nil).Once()
	suite.mockRepo.On("DeactivateRecurring", ctx, template.RecurringID, userID, mock.AnythingOfType("time.Time")).
		Return(nil).Once()

	err := suite.service.DeactivateRecurring(ctx, template.RecurringID, userID)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *RecurringServiceTestSuite) TestDeactivateRecurring_NotFound() {
	ctx := context.Background()
	recurringID := uuid.NewString()

	suite.mockRepo.On("FindRecurringByID", ctx, recurringID).Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.DeactivateRecurring(ctx, recurringID, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertNotCalled(suite.T(), "DeactivateRecurring", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- RunDue ---

func (suite *RecurringServiceTestSuite) TestRunDue_CatchesUpMissedOccurrences() {
	ctx := context.Background()
	userID := uuid.NewString()
	asOf := time.Date(2026, 2, 10, 8, 0, 0, 0, time.UTC)
	template := weeklyTemplate() // next run 2026-02-01, weekly

	feb1 := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	feb8 := time.Date(2026, 2, 8, 0, 0, 0, 0, time.UTC)
	feb15 := time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC)

	suite.mockRepo.On("ListDueRecurring", ctx, domain.DateOnly(asOf)).
		Return([]domain.RecurringEntry{template}, nil).Once()

	for _, runDate := range []time.Time{feb1, feb8} {
		runDate := runDate
		suite.mockJournal.On("CreateEntry", ctx, mock.MatchedBy(func(input portssvc.NewEntryInput) bool {
			return input.Date.Equal(runDate) &&
				input.SourceType == domain.SourceRecurring &&
				input.SourceID == template.RecurringID &&
				!input.AutoPost &&
				len(input.Lines) == 2
		}), userID).Return(&domain.JournalEntry{EntryID: uuid.NewString(), Status: domain.Draft}, nil).Once()
	}
	suite.mockRepo.On("AdvanceNextRun", ctx, template.RecurringID, feb8, userID, mock.AnythingOfType("time.Time")).
		Return(nil).Once()
	suite.mockRepo.On("AdvanceNextRun", ctx, template.RecurringID, feb15, userID, mock.AnythingOfType("time.Time")).
		Return(nil).Once()

	created, err := suite.service.RunDue(ctx, asOf, userID)

	suite.Require().NoError(err)
	suite.Equal(2, created)
	suite.mockJournal.AssertExpectations(suite.T())
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *RecurringServiceTestSuite) TestRunDue_RetriesLockedPeriod() {
	ctx := context.Background()
	userID := uuid.NewString()
	asOf := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	template := weeklyTemplate()
	feb1 := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	suite.mockRepo.On("ListDueRecurring", ctx, asOf).
		Return([]domain.RecurringEntry{template}, nil).Once()
	suite.mockJournal.On("CreateEntry", ctx, mock.Anything, userID).
		Return(nil, apperrors.ErrPeriodClosed).Once()
	// Locked but not closed: the period may unlock, so the schedule must not move.
	suite.mockPeriodRepo.On("FindPeriodByDate", ctx, feb1).
		Return(&domain.FiscalPeriod{
			PeriodID:  uuid.NewString(),
			Name:      "FY2026-Q1",
			StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
			IsLocked:  true,
		}, nil).Once()

	created, err := suite.service.RunDue(ctx, asOf, userID)

	suite.Require().NoError(err)
	suite.Equal(0, created)
	suite.mockRepo.AssertNotCalled(suite.T(), "AdvanceNextRun",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RecurringServiceTestSuite) TestRunDue_AdvancesPastClosedPeriod() {
	ctx := context.Background()
	userID := uuid.NewString()
	asOf := time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC)
	template := weeklyTemplate()
	feb1 := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	feb8 := time.Date(2026, 2, 8, 0, 0, 0, 0, time.UTC)

	suite.mockRepo.On("ListDueRecurring", ctx, asOf).
		Return([]domain.RecurringEntry{template}, nil).Once()
	suite.mockJournal.On("CreateEntry", ctx, mock.Anything, userID).
		Return(nil, apperrors.ErrPeriodClosed).Once()
	suite.mockPeriodRepo.On("FindPeriodByDate", ctx, feb1).
		Return(&domain.FiscalPeriod{
			PeriodID:  uuid.NewString(),
			Name:      "FY2026-Jan-Feb",
			StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2026, 2, 5, 0, 0, 0, 0, time.UTC),
			IsClosed:  true,
			IsLocked:  true,
		}, nil).Once()
	// The closed-period occurrence is dropped and the schedule moves on, so the
	// template stops showing up as due.
	suite.mockRepo.On("AdvanceNextRun", ctx, template.RecurringID, feb8, userID, mock.AnythingOfType("time.Time")).
		Return(nil).Once()

	created, err := suite.service.RunDue(ctx, asOf, userID)

	suite.Require().NoError(err)
	suite.Equal(0, created)
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockJournal.AssertExpectations(suite.T())
}

func (suite *RecurringServiceTestSuite) TestRunDue_OtherErrorAborts() {
	ctx := context.Background()
	userID := uuid.NewString()
	asOf := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	template := weeklyTemplate()

	suite.mockRepo.On("ListDueRecurring", ctx, asOf).
		Return([]domain.RecurringEntry{template}, nil).Once()
	suite.mockJournal.On("CreateEntry", ctx, mock.Anything, userID).
		Return(nil, apperrors.ErrUnbalancedEntry).Once()

	created, err := suite.service.RunDue(ctx, asOf, userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnbalancedEntry)
	suite.Equal(0, created)
}

func (suite *RecurringServiceTestSuite) TestRunDue_NothingDue() {
	ctx := context.Background()
	asOf := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)

	suite.mockRepo.On("ListDueRecurring", ctx, asOf).Return([]domain.RecurringEntry{}, nil).Once()

	created, err := suite.service.RunDue(ctx, asOf, uuid.NewString())

	suite.Require().NoError(err)
	suite.Equal(0, created)
	suite.mockJournal.AssertNotCalled(suite.T(), "CreateEntry", mock.Anything, mock.Anything, mock.Anything)
}

// --- Run Test Suite ---

func TestRecurringService(t *testing.T) {
	suite.Run(t, new(RecurringServiceTestSuite))
}

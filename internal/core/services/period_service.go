package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/dto"
	"github.com/finbooks/finbooks_backend/internal/utils/accounting"
)

// Checklist item names reported by the pre-close verification.
const (
	ChecklistNoDrafts     = "no_draft_entries"
	ChecklistTrialBalance = "trial_balance_balanced"
	ChecklistNotClosed    = "period_not_closed"
)

// periodService implements the fiscal period state machine and the closing
// process that zeroes revenue and expenses into retained earnings.
type periodService struct {
	BaseService
	periodRepo    portsrepo.PeriodRepositoryFacade
	entryRepo     portsrepo.EntryRepositoryFacade
	reportingRepo portsrepo.ReportingRepository
	accountRepo   portsrepo.AccountRepositoryFacade
	balanceSvc    portssvc.BalanceSvcFacade
}

// NewPeriodService creates a new fiscal period service.
func NewPeriodService(
	periodRepo portsrepo.PeriodRepositoryFacade,
	entryRepo portsrepo.EntryRepositoryFacade,
	reportingRepo portsrepo.ReportingRepository,
	accountRepo portsrepo.AccountRepositoryFacade,
	balanceSvc portssvc.BalanceSvcFacade,
) portssvc.PeriodSvcFacade {
	return &periodService{
		periodRepo:    periodRepo,
		entryRepo:     entryRepo,
		reportingRepo: reportingRepo,
		accountRepo:   accountRepo,
		balanceSvc:    balanceSvc,
	}
}

var _ portssvc.PeriodSvcFacade = (*periodService)(nil)

// CreatePeriod registers a non-overlapping period. The unique range is also
// enforced by the database, so concurrent creates cannot slip past this check.
func (s *periodService) CreatePeriod(ctx context.Context, req dto.CreatePeriodRequest, userID string) (*domain.FiscalPeriod, error) {
	start := domain.DateOnly(req.StartDate)
	end := domain.DateOnly(req.EndDate)
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end date precedes start date", apperrors.ErrValidation)
	}

	existing, err := s.periodRepo.ListPeriods(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list periods: %w", err)
	}
	for i := range existing {
		if existing[i].Overlaps(start, end) {
			return nil, fmt.Errorf("%w: overlaps %s", apperrors.ErrOverlappingPeriod, existing[i].Name)
		}
	}

	period := domain.FiscalPeriod{
		PeriodID:    uuid.NewString(),
		Name:        req.Name,
		StartDate:   start,
		EndDate:     end,
		AuditFields: domain.NewAuditFields(userID, time.Now().UTC()),
	}
	if err := s.periodRepo.SavePeriod(ctx, period); err != nil {
		if errors.Is(err, apperrors.ErrOverlappingPeriod) {
			return nil, err
		}
		s.LogError(ctx, err, "Failed to save period", slog.String("name", req.Name))
		return nil, fmt.Errorf("failed to save period: %w", err)
	}
	s.LogInfo(ctx, "Period created", slog.String("period_id", period.PeriodID), slog.String("name", period.Name))
	return &period, nil
}

// GetPeriodByID retrieves a period.
func (s *periodService) GetPeriodByID(ctx context.Context, periodID string) (*domain.FiscalPeriod, error) {
	return s.periodRepo.FindPeriodByID(ctx, periodID)
}

// ResolvePeriod finds the period covering a date.
func (s *periodService) ResolvePeriod(ctx context.Context, date time.Time) (*domain.FiscalPeriod, error) {
	return s.periodRepo.FindPeriodByDate(ctx, domain.DateOnly(date))
}

// ListPeriods retrieves all periods ordered by start date.
func (s *periodService) ListPeriods(ctx context.Context) ([]domain.FiscalPeriod, error) {
	return s.periodRepo.ListPeriods(ctx)
}

// LockPeriod blocks new postings into the period.
func (s *periodService) LockPeriod(ctx context.Context, periodID string, userID string) (*domain.FiscalPeriod, error) {
	period, err := s.periodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		return nil, err
	}
	if period.IsClosed {
		return nil, fmt.Errorf("%w: period %s is closed", apperrors.ErrConflict, period.Name)
	}
	if period.IsLocked {
		return nil, fmt.Errorf("%w: period %s is already locked", apperrors.ErrConflict, period.Name)
	}

	now := time.Now().UTC()
	if err := s.periodRepo.SetPeriodLock(ctx, periodID, true, userID, now); err != nil {
		s.LogError(ctx, err, "Failed to lock period", slog.String("period_id", periodID))
		return nil, fmt.Errorf("failed to lock period: %w", err)
	}
	period.IsLocked = true
	period.Touch(userID, now)
	s.LogInfo(ctx, "Period locked", slog.String("period_id", periodID))
	return period, nil
}

// UnlockPeriod re-opens a locked period for posting. Closed periods cannot be
// unlocked; they must be reopened, which reverses the closing entry.
func (s *periodService) UnlockPeriod(ctx context.Context, periodID string, userID string) (*domain.FiscalPeriod, error) {
	period, err := s.periodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		return nil, err
	}
	if period.IsClosed {
		return nil, fmt.Errorf("%w: period %s is closed, reopen it instead", apperrors.ErrConflict, period.Name)
	}
	if !period.IsLocked {
		return nil, fmt.Errorf("%w: period %s is not locked", apperrors.ErrConflict, period.Name)
	}

	now := time.Now().UTC()
	if err := s.periodRepo.SetPeriodLock(ctx, periodID, false, userID, now); err != nil {
		s.LogError(ctx, err, "Failed to unlock period", slog.String("period_id", periodID))
		return nil, fmt.Errorf("failed to unlock period: %w", err)
	}
	period.IsLocked = false
	period.Touch(userID, now)
	s.LogInfo(ctx, "Period unlocked", slog.String("period_id", periodID))
	return period, nil
}

// ClosingChecklist runs the pre-close verification without closing anything.
func (s *periodService) ClosingChecklist(ctx context.Context, periodID string) (*domain.ClosingChecklist, error) {
	period, err := s.periodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		return nil, err
	}
	return s.buildChecklist(ctx, period)
}

func (s *periodService) buildChecklist(ctx context.Context, period *domain.FiscalPeriod) (*domain.ClosingChecklist, error) {
	checklist := &domain.ClosingChecklist{PeriodID: period.PeriodID}

	notClosed := domain.ChecklistItem{Name: ChecklistNotClosed, Passed: !period.IsClosed, Blocking: true}
	if period.IsClosed {
		notClosed.Detail = "period is already closed"
	}
	checklist.Items = append(checklist.Items, notClosed)

	drafts, err := s.entryRepo.CountDraftsInRange(ctx, period.StartDate, period.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to count draft entries: %w", err)
	}
	noDrafts := domain.ChecklistItem{Name: ChecklistNoDrafts, Passed: drafts == 0, Blocking: true}
	if drafts > 0 {
		noDrafts.Detail = fmt.Sprintf("%d draft entries dated inside the period must be posted or deleted", drafts)
	}
	checklist.Items = append(checklist.Items, noDrafts)

	tb, err := s.balanceSvc.TrialBalance(ctx, period.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to run trial balance: %w", err)
	}
	balanced := domain.ChecklistItem{Name: ChecklistTrialBalance, Passed: tb.IsBalanced, Blocking: true}
	if !tb.IsBalanced {
		balanced.Detail = fmt.Sprintf("debits %d != credits %d as of period end", tb.TotalDebit, tb.TotalCredit)
	}
	checklist.Items = append(checklist.Items, balanced)

	return checklist, nil
}

// buildClosingLines nets each revenue and expense account's activity over the
// period into a line set that zeroes them against retained earnings. Revenue
// net movement is debited away, expense net movement is credited away, and the
// difference lands on retained earnings: credit for profit, debit for loss.
func (s *periodService) buildClosingLines(ctx context.Context, period *domain.FiscalPeriod) ([]domain.JournalEntryLine, error) {
	activity, err := s.reportingRepo.GetActivityInRange(ctx, period.StartDate, period.EndDate,
		[]domain.AccountType{domain.Revenue, domain.Expense})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch period activity: %w", err)
	}

	var lines []domain.JournalEntryLine
	var netIncome int64
	for _, a := range activity {
		net := a.NetMovement()
		if net == 0 {
			continue
		}
		line := domain.JournalEntryLine{AccountID: a.AccountID, Description: "Period close"}
		if a.AccountType == domain.Revenue {
			// Debit revenue to zero it; negative net means the account holds a
			// debit balance, so the closing side flips.
			if net > 0 {
				line.Debit = net
			} else {
				line.Credit = -net
			}
			netIncome += net
		} else {
			if net > 0 {
				line.Credit = net
			} else {
				line.Debit = -net
			}
			netIncome -= net
		}
		lines = append(lines, line)
	}

	if len(lines) == 0 {
		return nil, nil
	}

	retained, err := s.accountRepo.FindAccountByCode(ctx, domain.SystemAccountRetainedEarnings)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: retained earnings account %s is missing",
				apperrors.ErrInternal, domain.SystemAccountRetainedEarnings)
		}
		return nil, err
	}
	if netIncome != 0 {
		line := domain.JournalEntryLine{AccountID: retained.AccountID, Description: "Net income for the period"}
		if netIncome > 0 {
			line.Credit = netIncome
		} else {
			line.Debit = -netIncome
		}
		lines = append(lines, line)
	}

	if err := accounting.ValidateBalanced(lines); err != nil {
		return nil, fmt.Errorf("closing entry construction: %w", err)
	}
	return lines, nil
}

// ClosePeriod runs the checklist, posts the closing entry dated on the
// period's last day, and marks the period closed and locked. A period with no
// revenue or expense activity closes without a closing entry.
func (s *periodService) ClosePeriod(ctx context.Context, periodID string, req dto.ClosePeriodRequest, userID string) (*domain.FiscalPeriod, *domain.JournalEntry, error) {
	period, err := s.periodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		return nil, nil, err
	}
	if period.IsClosed {
		return nil, nil, fmt.Errorf("%w: period %s is already closed", apperrors.ErrConflict, period.Name)
	}

	checklist, err := s.buildChecklist(ctx, period)
	if err != nil {
		return nil, nil, err
	}
	if !checklist.Ready() {
		for _, item := range checklist.Items {
			if item.Blocking && !item.Passed {
				return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrPeriodNotReady, item.Detail)
			}
		}
		return nil, nil, apperrors.ErrPeriodNotReady
	}

	lines, err := s.buildClosingLines(ctx, period)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	var closing domain.JournalEntry
	if len(lines) > 0 {
		closing = domain.JournalEntry{
			EntryID:     uuid.NewString(),
			EntryDate:   period.EndDate,
			PeriodID:    period.PeriodID,
			Description: fmt.Sprintf("Closing entry for %s", period.Name),
			SourceType:  domain.SourceClosing,
			SourceID:    period.PeriodID,
			Status:      domain.Posted,
			AuditFields: domain.NewAuditFields(userID, now),
		}
		for i := range lines {
			lines[i].LineID = uuid.NewString()
			lines[i].EntryID = closing.EntryID
			lines[i].AuditFields = closing.AuditFields
		}
	}

	posted, err := s.periodRepo.ClosePeriod(ctx, periodID, req.Notes, closing, lines, userID, now)
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, nil, err
		}
		s.LogError(ctx, err, "Failed to close period", slog.String("period_id", periodID))
		return nil, nil, fmt.Errorf("failed to close period: %w", err)
	}

	period.IsClosed = true
	period.IsLocked = true
	period.Notes = req.Notes
	if posted != nil {
		period.ClosingEntryID = &posted.EntryID
	}
	period.Touch(userID, now)

	s.LogInfo(ctx, "Period closed", slog.String("period_id", periodID), slog.String("name", period.Name))
	return period, posted, nil
}

// ReopenPeriod reverses the closing entry and clears the closed and locked
// flags, returning the period to the open state.
func (s *periodService) ReopenPeriod(ctx context.Context, periodID string, userID string) (*domain.FiscalPeriod, error) {
	period, err := s.periodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		return nil, err
	}
	if !period.IsClosed {
		return nil, fmt.Errorf("%w: period %s is not closed", apperrors.ErrConflict, period.Name)
	}

	now := time.Now().UTC()
	var reversal domain.JournalEntry
	var lines []domain.JournalEntryLine
	if period.ClosingEntryID != nil {
		closing, err := s.entryRepo.FindEntryByID(ctx, *period.ClosingEntryID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch closing entry: %w", err)
		}
		closingLines, err := s.entryRepo.FindLinesByEntryID(ctx, closing.EntryID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch closing entry lines: %w", err)
		}

		reversal = domain.JournalEntry{
			EntryID:     uuid.NewString(),
			EntryDate:   closing.EntryDate,
			PeriodID:    period.PeriodID,
			Description: fmt.Sprintf("Reopen %s: reversal of %s", period.Name, closing.EntryNumber),
			SourceType:  domain.SourceClosing,
			SourceID:    period.PeriodID,
			Status:      domain.Posted,
			ReversalOf:  &closing.EntryID,
			AuditFields: domain.NewAuditFields(userID, now),
		}
		lines = accounting.SwapSides(closingLines)
		for i := range lines {
			lines[i].LineID = uuid.NewString()
			lines[i].EntryID = reversal.EntryID
			lines[i].AuditFields = reversal.AuditFields
		}
	}

	if _, err := s.periodRepo.ReopenPeriod(ctx, periodID, reversal, lines, userID, now); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, err
		}
		s.LogError(ctx, err, "Failed to reopen period", slog.String("period_id", periodID))
		return nil, fmt.Errorf("failed to reopen period: %w", err)
	}

	period.IsClosed = false
	period.IsLocked = false
	period.ClosingEntryID = nil
	period.Touch(userID, now)

	s.LogInfo(ctx, "Period reopened", slog.String("period_id", periodID), slog.String("name", period.Name))
	return period, nil
}

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

// recurringService manages recurring entry templates and materializes the due
// ones into draft journal entries through the journal store.
type recurringService struct {
	BaseService
	recurringRepo portsrepo.RecurringRepositoryFacade
	periodRepo    portsrepo.PeriodRepositoryFacade
	journalSvc    portssvc.JournalSvcFacade
}

// NewRecurringService creates a new recurring entry service.
func NewRecurringService(recurringRepo portsrepo.RecurringRepositoryFacade, periodRepo portsrepo.PeriodRepositoryFacade, journalSvc portssvc.JournalSvcFacade) portssvc.RecurringSvcFacade {
	return &recurringService{recurringRepo: recurringRepo, periodRepo: periodRepo, journalSvc: journalSvc}
}

var _ portssvc.RecurringSvcFacade = (*recurringService)(nil)

// CreateRecurring registers a template. The line set must balance up front so
// that a template never produces an invalid draft later.
func (s *recurringService) CreateRecurring(ctx context.Context, req dto.CreateRecurringRequest, userID string) (*domain.RecurringEntry, error) {
	frequency := domain.RecurringFrequency(req.Frequency)
	if !frequency.Valid() {
		return nil, fmt.Errorf("%w: unknown frequency %q", apperrors.ErrValidation, req.Frequency)
	}

	check := make([]domain.JournalEntryLine, len(req.Lines))
	for i, line := range req.Lines {
		check[i] = domain.JournalEntryLine{AccountID: line.AccountID, Debit: line.Debit, Credit: line.Credit}
	}
	if err := accounting.ValidateBalanced(check); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	recurring := domain.RecurringEntry{
		RecurringID: uuid.NewString(),
		Description: req.Description,
		Frequency:   frequency,
		NextRunDate: domain.DateOnly(req.StartDate),
		IsActive:    true,
		AuditFields: domain.NewAuditFields(userID, now),
	}
	lines := make([]domain.RecurringEntryLine, len(req.Lines))
	for i, line := range req.Lines {
		lines[i] = domain.RecurringEntryLine{
			LineID:      uuid.NewString(),
			RecurringID: recurring.RecurringID,
			AccountID:   line.AccountID,
			Debit:       line.Debit,
			Credit:      line.Credit,
			Description: line.Description,
		}
	}

	if err := s.recurringRepo.SaveRecurring(ctx, recurring, lines); err != nil {
		s.LogError(ctx, err, "Failed to save recurring template", slog.String("recurring_id", recurring.RecurringID))
		return nil, fmt.Errorf("failed to save recurring template: %w", err)
	}
	recurring.Lines = lines
	s.LogInfo(ctx, "Recurring template created",
		slog.String("recurring_id", recurring.RecurringID),
		slog.String("frequency", string(frequency)))
	return &recurring, nil
}

// ListRecurring retrieves templates.
func (s *recurringService) ListRecurring(ctx context.Context, activeOnly bool) ([]domain.RecurringEntry, error) {
	return s.recurringRepo.ListRecurring(ctx, activeOnly)
}

// DeactivateRecurring disables a template.
func (s *recurringService) DeactivateRecurring(ctx context.Context, recurringID string, userID string) error {
	if _, err := s.recurringRepo.FindRecurringByID(ctx, recurringID); err != nil {
		return err
	}
	if err := s.recurringRepo.DeactivateRecurring(ctx, recurringID, userID, time.Now().UTC()); err != nil {
		s.LogError(ctx, err, "Failed to deactivate recurring template", slog.String("recurring_id", recurringID))
		return fmt.Errorf("failed to deactivate recurring template: %w", err)
	}
	s.LogInfo(ctx, "Recurring template deactivated", slog.String("recurring_id", recurringID))
	return nil
}

// RunDue materializes every due template into a draft entry dated on its
// scheduled run date and advances the schedules. Occurrences dated in a
// permanently closed period are dropped and the schedule moves on; a locked
// period or a missing period leaves the occurrence to be retried next run.
func (s *recurringService) RunDue(ctx context.Context, asOf time.Time, userID string) (int, error) {
	asOf = domain.DateOnly(asOf)
	due, err := s.recurringRepo.ListDueRecurring(ctx, asOf)
	if err != nil {
		return 0, fmt.Errorf("failed to list due templates: %w", err)
	}

	created := 0
	for i := range due {
		template := &due[i]

		// Catch up one occurrence per run date until the template is ahead of asOf.
		runDate := domain.DateOnly(template.NextRunDate)
		for !runDate.After(asOf) {
			lines := make([]domain.JournalEntryLine, len(template.Lines))
			for j, line := range template.Lines {
				lines[j] = domain.JournalEntryLine{
					AccountID:   line.AccountID,
					Debit:       line.Debit,
					Credit:      line.Credit,
					Description: line.Description,
				}
			}

			_, err := s.journalSvc.CreateEntry(ctx, portssvc.NewEntryInput{
				Date:        runDate,
				Description: template.Description,
				SourceType:  domain.SourceRecurring,
				SourceID:    template.RecurringID,
				Lines:       lines,
			}, userID)
			if err != nil {
				if errors.Is(err, apperrors.ErrPeriodClosed) {
					// A closed period never accepts the occurrence, so advance
					// past it or the template stays due forever. A locked
					// period may unlock, so that occurrence is retried.
					period, perr := s.periodRepo.FindPeriodByDate(ctx, runDate)
					if perr == nil && period.IsClosed {
						s.GetLogger(ctx).Warn("Dropping recurring occurrence in closed period",
							slog.String("recurring_id", template.RecurringID),
							slog.Time("run_date", runDate),
							slog.String("period", period.Name))
						next := template.NextAfter(runDate)
						if err := s.recurringRepo.AdvanceNextRun(ctx, template.RecurringID, next, userID, time.Now().UTC()); err != nil {
							return created, fmt.Errorf("failed to advance recurring schedule: %w", err)
						}
						runDate = next
						continue
					}
					s.GetLogger(ctx).Warn("Skipping recurring occurrence",
						slog.String("recurring_id", template.RecurringID),
						slog.Time("run_date", runDate),
						slog.String("reason", err.Error()))
					break
				}
				if errors.Is(err, apperrors.ErrPeriodNotFound) {
					s.GetLogger(ctx).Warn("Skipping recurring occurrence",
						slog.String("recurring_id", template.RecurringID),
						slog.Time("run_date", runDate),
						slog.String("reason", err.Error()))
					break
				}
				s.LogError(ctx, err, "Failed to materialize recurring entry",
					slog.String("recurring_id", template.RecurringID))
				return created, fmt.Errorf("failed to materialize recurring entry: %w", err)
			}
			created++

			next := template.NextAfter(runDate)
			if err := s.recurringRepo.AdvanceNextRun(ctx, template.RecurringID, next, userID, time.Now().UTC()); err != nil {
				return created, fmt.Errorf("failed to advance recurring schedule: %w", err)
			}
			runDate = next
		}
	}

	if created > 0 {
		s.LogInfo(ctx, "Recurring run complete", slog.Int("entries_created", created))
	}
	return created, nil
}

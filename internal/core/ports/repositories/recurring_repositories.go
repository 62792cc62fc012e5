package repositories

import (
	"context"
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
)

// RecurringRepositoryFacade defines storage for recurring entry templates.
type RecurringRepositoryFacade interface {
	// SaveRecurring persists a new template with its lines.
	SaveRecurring(ctx context.Context, recurring domain.RecurringEntry, lines []domain.RecurringEntryLine) error

	// FindRecurringByID retrieves a template with its lines.
	FindRecurringByID(ctx context.Context, recurringID string) (*domain.RecurringEntry, error)

	// ListRecurring retrieves all templates.
	ListRecurring(ctx context.Context, activeOnly bool) ([]domain.RecurringEntry, error)

	// ListDueRecurring retrieves active templates with next_run_date <= asOf,
	// lines included.
	ListDueRecurring(ctx context.Context, asOf time.Time) ([]domain.RecurringEntry, error)

	// AdvanceNextRun moves a template's next run date forward.
	AdvanceNextRun(ctx context.Context, recurringID string, nextRunDate time.Time, userID string, now time.Time) error

	// DeactivateRecurring disables a template.
	DeactivateRecurring(ctx context.Context, recurringID string, userID string, now time.Time) error
}

package services

import (
	"context"
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/finbooks/finbooks_backend/internal/dto"
)

// RecurringSvcFacade defines recurring entry template operations.
type RecurringSvcFacade interface {
	// CreateRecurring registers a new template after validating its line set
	// balances.
	CreateRecurring(ctx context.Context, req dto.CreateRecurringRequest, userID string) (*domain.RecurringEntry, error)

	// ListRecurring retrieves templates.
	ListRecurring(ctx context.Context, activeOnly bool) ([]domain.RecurringEntry, error)

	// DeactivateRecurring disables a template.
	DeactivateRecurring(ctx context.Context, recurringID string, userID string) error

	// RunDue materializes every template due at asOf into draft journal
	// entries through the journal store and advances the schedules. Returns
	// the number of entries created.
	RunDue(ctx context.Context, asOf time.Time, userID string) (int, error)
}

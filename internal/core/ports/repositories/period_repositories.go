package repositories

import (
	"context"
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
)

// PeriodReader defines read operations for fiscal period data
type PeriodReader interface {
	// FindPeriodByID retrieves a specific fiscal period.
	FindPeriodByID(ctx context.Context, periodID string) (*domain.FiscalPeriod, error)

	// FindPeriodByDate resolves the period covering the given date. Returns
	// apperrors.ErrPeriodNotFound when no period covers it.
	FindPeriodByDate(ctx context.Context, date time.Time) (*domain.FiscalPeriod, error)

	// ListPeriods retrieves all periods ordered by start date.
	ListPeriods(ctx context.Context) ([]domain.FiscalPeriod, error)
}

// PeriodWriter defines write operations for fiscal period data
type PeriodWriter interface {
	// SavePeriod persists a new period. Returns apperrors.ErrOverlappingPeriod
	// when the range intersects an existing period.
	SavePeriod(ctx context.Context, period domain.FiscalPeriod) error

	// SetPeriodLock flips the is_locked flag.
	SetPeriodLock(ctx context.Context, periodID string, locked bool, userID string, now time.Time) error

	// ClosePeriod atomically posts the prepared closing entry and marks the
	// period closed and locked. The period row is locked and its not-closed
	// state re-verified under the transaction. Returns the posted closing entry.
	ClosePeriod(ctx context.Context, periodID string, notes string, closing domain.JournalEntry, lines []domain.JournalEntryLine, userID string, now time.Time) (*domain.JournalEntry, error)

	// ReopenPeriod atomically posts the prepared reversal of the closing entry,
	// links the pair, and clears the period's closed/locked flags and closing
	// entry reference. Returns the posted reversal entry.
	ReopenPeriod(ctx context.Context, periodID string, reversal domain.JournalEntry, lines []domain.JournalEntryLine, userID string, now time.Time) (*domain.JournalEntry, error)
}

// PeriodRepositoryFacade combines all fiscal-period repository interfaces
type PeriodRepositoryFacade interface {
	PeriodReader
	PeriodWriter
}

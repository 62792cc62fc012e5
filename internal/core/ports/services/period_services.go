package services

import (
	"context"
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/finbooks/finbooks_backend/internal/dto"
)

// PeriodSvcFacade defines the fiscal period controller.
type PeriodSvcFacade interface {
	// CreatePeriod registers a new non-overlapping period.
	CreatePeriod(ctx context.Context, req dto.CreatePeriodRequest, userID string) (*domain.FiscalPeriod, error)

	// GetPeriodByID retrieves a period.
	GetPeriodByID(ctx context.Context, periodID string) (*domain.FiscalPeriod, error)

	// ResolvePeriod finds the period covering a date.
	ResolvePeriod(ctx context.Context, date time.Time) (*domain.FiscalPeriod, error)

	// ListPeriods retrieves all periods ordered by start date.
	ListPeriods(ctx context.Context) ([]domain.FiscalPeriod, error)

	// LockPeriod blocks new postings into the period. Fails if closed or
	// already locked.
	LockPeriod(ctx context.Context, periodID string, userID string) (*domain.FiscalPeriod, error)

	// UnlockPeriod re-opens a locked period. Fails if closed.
	UnlockPeriod(ctx context.Context, periodID string, userID string) (*domain.FiscalPeriod, error)

	// ClosingChecklist runs the pre-close verification without closing.
	ClosingChecklist(ctx context.Context, periodID string) (*domain.ClosingChecklist, error)

	// ClosePeriod runs the checklist, posts the closing entry zeroing revenue
	// and expenses into retained earnings, and marks the period closed+locked.
	ClosePeriod(ctx context.Context, periodID string, req dto.ClosePeriodRequest, userID string) (*domain.FiscalPeriod, *domain.JournalEntry, error)

	// ReopenPeriod reverses the closing entry and clears the closed/locked flags.
	ReopenPeriod(ctx context.Context, periodID string, userID string) (*domain.FiscalPeriod, error)
}

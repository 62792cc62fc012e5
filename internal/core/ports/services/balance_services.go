package services

import (
	"context"
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
)

// BalanceSvcFacade defines the read-only balance and ledger query engine.
// All results are computed from posted lines; drafts are invisible.
type BalanceSvcFacade interface {
	// AccountBalance computes an account's polarity-applied balance as of a date.
	AccountBalance(ctx context.Context, accountID string, asOf time.Time) (int64, error)

	// AccountLedger produces the ordered running ledger of an account over a
	// range, seeded from the balance just before `from`.
	AccountLedger(ctx context.Context, accountID string, from, to time.Time) (openingBalance int64, rows []domain.LedgerRow, err error)

	// TrialBalance buckets every active account into debit/credit columns as of
	// a date and verifies the system-wide Σdebit == Σcredit invariant.
	TrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalance, error)

	// IncomeStatement nets revenue and expense activity over a range.
	IncomeStatement(ctx context.Context, from, to time.Time) ([]domain.IncomeStatementLine, error)
}

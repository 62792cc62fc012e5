package repositories

import (
	"context"
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
)

// LedgerLine is the raw repository shape of one ledger row before the running
// balance is applied by the service.
type LedgerLine struct {
	EntryDate   time.Time
	EntryNumber string
	Description string
	Debit       int64
	Credit      int64
}

// ReportingRepository defines the read-only aggregate queries of the balance
// and ledger engine. All of them see posted lines only; drafts never appear.
type ReportingRepository interface {
	// GetBalanceSums returns the opening balance and posted debit/credit totals
	// for one account with entry_date <= asOf.
	GetBalanceSums(ctx context.Context, accountID string, asOf time.Time) (*domain.BalanceSums, error)

	// GetTrialBalanceSums returns the balance inputs for every active account
	// as of a date, including accounts with no lines.
	GetTrialBalanceSums(ctx context.Context, asOf time.Time) ([]domain.BalanceSums, []domain.Account, error)

	// GetLedgerLines returns posted lines for one account within [from, to],
	// ordered by entry date then entry number.
	GetLedgerLines(ctx context.Context, accountID string, from, to time.Time) ([]LedgerLine, error)

	// GetActivityInRange returns posted debit/credit movement per account of
	// the given types within [from, to].
	GetActivityInRange(ctx context.Context, from, to time.Time, types []domain.AccountType) ([]domain.AccountActivity, error)
}

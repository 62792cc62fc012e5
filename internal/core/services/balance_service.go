package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/utils/accounting"
)

// balanceService implements the read-only balance and ledger query engine.
// Nothing here is cached or persisted; every answer is computed from posted
// lines at call time.
type balanceService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
	accountRepo   portsrepo.AccountRepositoryFacade
}

// NewBalanceService creates a new balance query service.
func NewBalanceService(reportingRepo portsrepo.ReportingRepository, accountRepo portsrepo.AccountRepositoryFacade) portssvc.BalanceSvcFacade {
	return &balanceService{reportingRepo: reportingRepo, accountRepo: accountRepo}
}

var _ portssvc.BalanceSvcFacade = (*balanceService)(nil)

// AccountBalance computes an account's polarity-applied balance as of a date.
func (s *balanceService) AccountBalance(ctx context.Context, accountID string, asOf time.Time) (int64, error) {
	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return 0, err
	}
	sums, err := s.reportingRepo.GetBalanceSums(ctx, accountID, domain.DateOnly(asOf))
	if err != nil {
		return 0, fmt.Errorf("failed to compute balance: %w", err)
	}
	return accounting.BalanceFromSums(sums.AccountType, sums.OpeningBalance, sums.TotalDebit, sums.TotalCredit), nil
}

// AccountLedger produces the ordered running ledger of an account over
// [from, to]. The opening balance anchors the running column at the balance
// held just before the range.
func (s *balanceService) AccountLedger(ctx context.Context, accountID string, from, to time.Time) (int64, []domain.LedgerRow, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return 0, nil, err
	}

	from = domain.DateOnly(from)
	to = domain.DateOnly(to)
	opening, err := s.AccountBalance(ctx, accountID, from.AddDate(0, 0, -1))
	if err != nil {
		return 0, nil, err
	}

	lines, err := s.reportingRepo.GetLedgerLines(ctx, accountID, from, to)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to fetch ledger lines: %w", err)
	}

	running := opening
	rows := make([]domain.LedgerRow, len(lines))
	for i, line := range lines {
		running += accounting.SignedAmount(account.AccountType, line.Debit, line.Credit)
		rows[i] = domain.LedgerRow{
			EntryDate:      line.EntryDate,
			EntryNumber:    line.EntryNumber,
			Description:    line.Description,
			Debit:          line.Debit,
			Credit:         line.Credit,
			RunningBalance: running,
		}
	}
	return opening, rows, nil
}

// TrialBalance buckets every active account into the debit or credit column
// as of a date. A totals mismatch is reported in the result instead of failing
// the call, and logged loudly: it means the posting pipeline let an unbalanced
// write through.
func (s *balanceService) TrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalance, error) {
	asOf = domain.DateOnly(asOf)
	sums, accounts, err := s.reportingRepo.GetTrialBalanceSums(ctx, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch trial balance sums: %w", err)
	}

	sumsByID := make(map[string]domain.BalanceSums, len(sums))
	for _, su := range sums {
		sumsByID[su.AccountID] = su
	}

	tb := &domain.TrialBalance{AsOf: asOf}
	for _, account := range accounts {
		su := sumsByID[account.AccountID]
		balance := accounting.BalanceFromSums(account.AccountType, account.OpeningBalance, su.TotalDebit, su.TotalCredit)
		debitCol, creditCol := accounting.TrialBuckets(account.AccountType, balance)
		if debitCol == 0 && creditCol == 0 {
			continue
		}
		tb.Rows = append(tb.Rows, domain.TrialBalanceRow{
			AccountID:     account.AccountID,
			AccountCode:   account.Code,
			AccountName:   account.Name,
			AccountType:   account.AccountType,
			DebitBalance:  debitCol,
			CreditBalance: creditCol,
		})
		tb.TotalDebit += debitCol
		tb.TotalCredit += creditCol
	}
	sort.Slice(tb.Rows, func(i, j int) bool { return tb.Rows[i].AccountCode < tb.Rows[j].AccountCode })

	tb.IsBalanced = tb.TotalDebit == tb.TotalCredit
	if !tb.IsBalanced {
		s.GetLogger(ctx).Error("Trial balance out of balance",
			slog.Int64("total_debit", tb.TotalDebit),
			slog.Int64("total_credit", tb.TotalCredit),
			slog.Time("as_of", asOf))
	}
	return tb, nil
}

// IncomeStatement nets posted revenue and expense activity over [from, to].
func (s *balanceService) IncomeStatement(ctx context.Context, from, to time.Time) ([]domain.IncomeStatementLine, error) {
	activity, err := s.reportingRepo.GetActivityInRange(ctx,
		domain.DateOnly(from), domain.DateOnly(to),
		[]domain.AccountType{domain.Revenue, domain.Expense})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch income statement activity: %w", err)
	}

	lines := make([]domain.IncomeStatementLine, 0, len(activity))
	for _, a := range activity {
		net := a.NetMovement()
		if net == 0 {
			continue
		}
		lines = append(lines, domain.IncomeStatementLine{
			AccountID:   a.AccountID,
			AccountCode: a.AccountCode,
			AccountType: a.AccountType,
			Net:         net,
		})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].AccountCode < lines[j].AccountCode })
	return lines, nil
}

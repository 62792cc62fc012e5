package pgsql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
	"github.com/finbooks/finbooks_backend/internal/models"
	"github.com/finbooks/finbooks_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxReportingRepository struct {
	pool *pgxpool.Pool
}

// newPgxReportingRepository creates the read-only aggregate query repository.
func newPgxReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingRepository {
	return &PgxReportingRepository{pool: pool}
}

var _ portsrepo.ReportingRepository = (*PgxReportingRepository)(nil)

// GetBalanceSums returns the opening balance and posted debit/credit totals
// for one account with entry_date <= asOf. Draft entries never count.
func (r *PgxReportingRepository) GetBalanceSums(ctx context.Context, accountID string, asOf time.Time) (*domain.BalanceSums, error) {
	query := `
		SELECT a.account_id, a.account_type, a.opening_balance,
		       COALESCE(SUM(l.debit) FILTER (WHERE e.status = 'POSTED' AND e.entry_date <= $2), 0),
		       COALESCE(SUM(l.credit) FILTER (WHERE e.status = 'POSTED' AND e.entry_date <= $2), 0)
		FROM accounts a
		LEFT JOIN journal_lines l ON l.account_id = a.account_id
		LEFT JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE a.account_id = $1
		GROUP BY a.account_id, a.account_type, a.opening_balance;
	`
	var sums domain.BalanceSums
	err := r.pool.QueryRow(ctx, query, accountID, asOf).Scan(
		&sums.AccountID,
		&sums.AccountType,
		&sums.OpeningBalance,
		&sums.TotalDebit,
		&sums.TotalCredit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to sum balances for account %s: %w", accountID, err)
	}
	return &sums, nil
}

// GetTrialBalanceSums returns the balance inputs for every active account as
// of a date. Accounts without any lines still appear with zero sums so their
// opening balances reach the trial balance.
func (r *PgxReportingRepository) GetTrialBalanceSums(ctx context.Context, asOf time.Time) ([]domain.BalanceSums, []domain.Account, error) {
	query := `
		SELECT a.account_id, a.code, a.name, a.account_type, a.subtype, a.parent_account_id,
		       a.description, a.opening_balance, a.is_active, a.is_system,
		       a.created_at, a.created_by, a.last_updated_at, a.last_updated_by,
		       COALESCE(SUM(l.debit) FILTER (WHERE e.status = 'POSTED' AND e.entry_date <= $1), 0),
		       COALESCE(SUM(l.credit) FILTER (WHERE e.status = 'POSTED' AND e.entry_date <= $1), 0)
		FROM accounts a
		LEFT JOIN journal_lines l ON l.account_id = a.account_id
		LEFT JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE a.is_active = TRUE
		GROUP BY a.account_id
		ORDER BY a.code;
	`
	rows, err := r.pool.Query(ctx, query, asOf)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query trial balance sums: %w", err)
	}
	defer rows.Close()

	var sums []domain.BalanceSums
	var accounts []domain.Account
	for rows.Next() {
		var m models.Account
		var subtype, parentID, description sql.NullString
		var totalDebit, totalCredit int64
		err := rows.Scan(
			&m.AccountID,
			&m.Code,
			&m.Name,
			&m.AccountType,
			&subtype,
			&parentID,
			&description,
			&m.OpeningBalance,
			&m.IsActive,
			&m.IsSystem,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
			&totalDebit,
			&totalCredit,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan trial balance row: %w", err)
		}
		m.Subtype = subtype.String
		m.ParentAccountID = parentID.String
		m.Description = description.String
		account := mapping.ToDomainAccount(m)
		accounts = append(accounts, account)
		sums = append(sums, domain.BalanceSums{
			AccountID:      account.AccountID,
			AccountType:    account.AccountType,
			OpeningBalance: account.OpeningBalance,
			TotalDebit:     totalDebit,
			TotalCredit:    totalCredit,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating trial balance rows: %w", err)
	}
	return sums, accounts, nil
}

// GetLedgerLines returns posted lines for one account within [from, to],
// ordered by entry date then entry number.
func (r *PgxReportingRepository) GetLedgerLines(ctx context.Context, accountID string, from, to time.Time) ([]portsrepo.LedgerLine, error) {
	query := `
		SELECT e.entry_date, e.entry_number, COALESCE(l.description, e.description), l.debit, l.credit
		FROM journal_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE l.account_id = $1 AND e.status = 'POSTED'
		  AND e.entry_date BETWEEN $2 AND $3
		ORDER BY e.entry_date, e.entry_number, l.line_id;
	`
	rows, err := r.pool.Query(ctx, query, accountID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger lines for account %s: %w", accountID, err)
	}
	defer rows.Close()

	var lines []portsrepo.LedgerLine
	for rows.Next() {
		var line portsrepo.LedgerLine
		if err := rows.Scan(&line.EntryDate, &line.EntryNumber, &line.Description, &line.Debit, &line.Credit); err != nil {
			return nil, fmt.Errorf("failed to scan ledger line: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger lines: %w", err)
	}
	return lines, nil
}

// GetActivityInRange returns posted debit/credit movement per account of the
// given types within [from, to]. Accounts without movement are omitted.
func (r *PgxReportingRepository) GetActivityInRange(ctx context.Context, from, to time.Time, types []domain.AccountType) ([]domain.AccountActivity, error) {
	typeStrings := make([]string, len(types))
	for i, t := range types {
		typeStrings[i] = string(t)
	}
	query := `
		SELECT a.account_id, a.code, a.account_type,
		       COALESCE(SUM(l.debit), 0), COALESCE(SUM(l.credit), 0)
		FROM journal_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		JOIN accounts a ON a.account_id = l.account_id
		WHERE e.status = 'POSTED'
		  AND e.entry_date BETWEEN $1 AND $2
		  AND a.account_type = ANY($3)
		GROUP BY a.account_id, a.code, a.account_type
		ORDER BY a.code;
	`
	rows, err := r.pool.Query(ctx, query, from, to, typeStrings)
	if err != nil {
		return nil, fmt.Errorf("failed to query account activity: %w", err)
	}
	defer rows.Close()

	var activity []domain.AccountActivity
	for rows.Next() {
		var a domain.AccountActivity
		if err := rows.Scan(&a.AccountID, &a.AccountCode, &a.AccountType, &a.TotalDebit, &a.TotalCredit); err != nil {
			return nil, fmt.Errorf("failed to scan activity row: %w", err)
		}
		activity = append(activity, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity rows: %w", err)
	}
	return activity, nil
}

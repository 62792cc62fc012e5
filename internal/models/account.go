package models

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// Account is the persistence shape of a chart-of-accounts row. Balances are
// never stored here; the opening_balance column is the anchor at ledger epoch.
type Account struct {
	AccountID       string      `db:"account_id"`
	Code            string      `db:"code"`
	Name            string      `db:"name"`
	AccountType     AccountType `db:"account_type"`
	Subtype         string      `db:"subtype"`
	ParentAccountID string      `db:"parent_account_id"` // Nullable
	Description     string      `db:"description"`
	OpeningBalance  int64       `db:"opening_balance"`
	IsActive        bool        `db:"is_active"`
	IsSystem        bool        `db:"is_system"`
	AuditFields
}

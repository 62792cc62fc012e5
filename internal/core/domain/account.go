package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// NormalSide is the side on which an account's balance naturally increases.
type NormalSide string

const (
	DebitNormal  NormalSide = "DEBIT"
	CreditNormal NormalSide = "CREDIT"
)

// NormalSide derives the balance polarity from the account type. The polarity
// is fixed by type and never stored.
func (t AccountType) NormalSide() NormalSide {
	switch t {
	case Asset, Expense:
		return DebitNormal
	default:
		return CreditNormal
	}
}

// Valid reports whether t is one of the five fundamental account types.
func (t AccountType) Valid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// Codes of the system accounts seeded with the chart of accounts. Posting
// rules and period close resolve these by code at runtime.
const (
	SystemAccountCash             = "1-1000"
	SystemAccountReceivable       = "1-1100"
	SystemAccountTaxReceivable    = "1-1200"
	SystemAccountPayable          = "2-1000"
	SystemAccountTaxPayable       = "2-1100"
	SystemAccountRetainedEarnings = "3-9000"
)

// Account represents a single node of the chart of accounts.
// Balances are never stored on the account; they are always computed from
// posted journal lines combined with OpeningBalance.
type Account struct {
	AccountID       string      `json:"accountID"`       // Primary key (UUID)
	Code            string      `json:"code"`            // Human-assigned unique code, e.g. "1-1000"
	Name            string      `json:"name"`            // User-defined name
	AccountType     AccountType `json:"accountType"`     // ASSET, LIABILITY, etc.
	Subtype         string      `json:"subtype"`         // Optional free-form refinement
	ParentAccountID string      `json:"parentAccountID"` // Nullable self-reference, display rollup only
	Description     string      `json:"description"`
	OpeningBalance  int64       `json:"openingBalance"` // Signed, minor currency units, anchor at ledger epoch
	IsActive        bool        `json:"isActive"`
	IsSystem        bool        `json:"isSystem"` // System accounts cannot be recoded or deleted
	AuditFields
}

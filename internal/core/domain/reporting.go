package domain

import "time"

// BalanceSums holds the raw inputs of a balance computation for one account:
// the opening anchor plus debit/credit totals over posted lines.
type BalanceSums struct {
	AccountID      string
	AccountType    AccountType
	OpeningBalance int64
	TotalDebit     int64
	TotalCredit    int64
}

// TrialBalanceRow is one account bucketed into the debit or credit column of
// a trial balance. Exactly one of DebitBalance/CreditBalance is nonzero unless
// the balance itself is zero.
type TrialBalanceRow struct {
	AccountID     string      `json:"accountID"`
	AccountCode   string      `json:"accountCode"`
	AccountName   string      `json:"accountName"`
	AccountType   AccountType `json:"accountType"`
	DebitBalance  int64       `json:"debitBalance"`
	CreditBalance int64       `json:"creditBalance"`
}

// TrialBalance asserts total debits equal total credits across all active
// accounts as of a date. A false IsBalanced indicates a data-integrity fault
// in the posting pipeline, not a user error.
type TrialBalance struct {
	AsOf        time.Time         `json:"asOf"`
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  int64             `json:"totalDebit"`
	TotalCredit int64             `json:"totalCredit"`
	IsBalanced  bool              `json:"isBalanced"`
}

// LedgerRow is one line of an account's running ledger.
type LedgerRow struct {
	EntryDate      time.Time `json:"entryDate"`
	EntryNumber    string    `json:"entryNumber"`
	Description    string    `json:"description"`
	Debit          int64     `json:"debit"`
	Credit         int64     `json:"credit"`
	RunningBalance int64     `json:"runningBalance"`
}

// AccountActivity is the posted debit/credit movement of one account within a
// date range. Used to build the closing entry for a fiscal period.
type AccountActivity struct {
	AccountID   string
	AccountCode string
	AccountType AccountType
	TotalDebit  int64
	TotalCredit int64
}

// NetMovement is the activity netted onto the account's normal side:
// positive means the balance grew over the range.
func (a AccountActivity) NetMovement() int64 {
	if a.AccountType.NormalSide() == DebitNormal {
		return a.TotalDebit - a.TotalCredit
	}
	return a.TotalCredit - a.TotalDebit
}

// IncomeStatementLine is one revenue or expense account's net for a range.
type IncomeStatementLine struct {
	AccountID   string      `json:"accountID"`
	AccountCode string      `json:"accountCode"`
	AccountType AccountType `json:"accountType"`
	Net         int64       `json:"net"`
}

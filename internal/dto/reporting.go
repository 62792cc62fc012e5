package dto

import (
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
)

// TrialBalanceRowResponse is one bucketed account row.
type TrialBalanceRowResponse struct {
	AccountID     string `json:"accountID"`
	AccountCode   string `json:"accountCode"`
	AccountName   string `json:"accountName"`
	AccountType   string `json:"accountType"`
	DebitBalance  int64  `json:"debitBalance"`
	CreditBalance int64  `json:"creditBalance"`
}

// TrialBalanceResponse is the full trial balance report.
type TrialBalanceResponse struct {
	AsOf        time.Time                 `json:"asOf"`
	Rows        []TrialBalanceRowResponse `json:"rows"`
	TotalDebit  int64                     `json:"totalDebit"`
	TotalCredit int64                     `json:"totalCredit"`
	IsBalanced  bool                      `json:"isBalanced"`
}

// LedgerRowResponse is one running-ledger row.
type LedgerRowResponse struct {
	Date           time.Time `json:"date"`
	EntryNumber    string    `json:"entryNumber"`
	Description    string    `json:"description"`
	Debit          int64     `json:"debit"`
	Credit         int64     `json:"credit"`
	RunningBalance int64     `json:"runningBalance"`
}

// LedgerResponse is an account's running ledger over a date range.
type LedgerResponse struct {
	AccountID      string              `json:"accountID"`
	From           time.Time           `json:"from"`
	To             time.Time           `json:"to"`
	OpeningBalance int64               `json:"openingBalance"` // Balance just before From
	Rows           []LedgerRowResponse `json:"rows"`
}

// IncomeStatementLineResponse is one revenue or expense net line.
type IncomeStatementLineResponse struct {
	AccountID   string `json:"accountID"`
	AccountCode string `json:"accountCode"`
	AccountType string `json:"accountType"`
	Net         int64  `json:"net"`
}

// IncomeStatementResponse nets revenue against expenses over a range.
type IncomeStatementResponse struct {
	From         time.Time                     `json:"from"`
	To           time.Time                     `json:"to"`
	Lines        []IncomeStatementLineResponse `json:"lines"`
	TotalRevenue int64                         `json:"totalRevenue"`
	TotalExpense int64                         `json:"totalExpense"`
	NetIncome    int64                         `json:"netIncome"`
}

// ToTrialBalanceResponse converts a domain.TrialBalance.
func ToTrialBalanceResponse(tb *domain.TrialBalance) TrialBalanceResponse {
	rows := make([]TrialBalanceRowResponse, len(tb.Rows))
	for i, row := range tb.Rows {
		rows[i] = TrialBalanceRowResponse{
			AccountID:     row.AccountID,
			AccountCode:   row.AccountCode,
			AccountName:   row.AccountName,
			AccountType:   string(row.AccountType),
			DebitBalance:  row.DebitBalance,
			CreditBalance: row.CreditBalance,
		}
	}
	return TrialBalanceResponse{
		AsOf:        tb.AsOf,
		Rows:        rows,
		TotalDebit:  tb.TotalDebit,
		TotalCredit: tb.TotalCredit,
		IsBalanced:  tb.IsBalanced,
	}
}

// ToLedgerRowResponses converts domain ledger rows.
func ToLedgerRowResponses(rows []domain.LedgerRow) []LedgerRowResponse {
	responses := make([]LedgerRowResponse, len(rows))
	for i, row := range rows {
		responses[i] = LedgerRowResponse{
			Date:           row.EntryDate,
			EntryNumber:    row.EntryNumber,
			Description:    row.Description,
			Debit:          row.Debit,
			Credit:         row.Credit,
			RunningBalance: row.RunningBalance,
		}
	}
	return responses
}

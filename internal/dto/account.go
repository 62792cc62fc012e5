package dto

import (
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
)

// CreateAccountRequest defines the payload for creating an account.
type CreateAccountRequest struct {
	Code            string `json:"code" binding:"required"`
	Name            string `json:"name" binding:"required"`
	AccountType     string `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	Subtype         string `json:"subtype"`
	ParentAccountID string `json:"parentAccountID"`
	Description     string `json:"description"`
	OpeningBalance  int64  `json:"openingBalance"` // Minor currency units
}

// UpdateAccountRequest defines the payload for updating an account. Nil fields
// are left unchanged.
type UpdateAccountRequest struct {
	Code            *string `json:"code"`
	Name            *string `json:"name"`
	AccountType     *string `json:"accountType" binding:"omitempty,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	Subtype         *string `json:"subtype"`
	ParentAccountID *string `json:"parentAccountID"`
	Description     *string `json:"description"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID       string    `json:"accountID"`
	Code            string    `json:"code"`
	Name            string    `json:"name"`
	AccountType     string    `json:"accountType"`
	NormalSide      string    `json:"normalSide"`
	Subtype         string    `json:"subtype,omitempty"`
	ParentAccountID string    `json:"parentAccountID,omitempty"`
	Description     string    `json:"description,omitempty"`
	OpeningBalance  int64     `json:"openingBalance"`
	IsActive        bool      `json:"isActive"`
	IsSystem        bool      `json:"isSystem"`
	CreatedAt       time.Time `json:"createdAt"`
}

// ListAccountsResponse wraps a page of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// BalanceResponse is the computed balance of one account as of a date.
type BalanceResponse struct {
	AccountID string    `json:"accountID"`
	AsOf      time.Time `json:"asOf"`
	Balance   int64     `json:"balance"` // Minor currency units, polarity applied
}

// ToAccountResponse converts a domain.Account to AccountResponse.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:       a.AccountID,
		Code:            a.Code,
		Name:            a.Name,
		AccountType:     string(a.AccountType),
		NormalSide:      string(a.AccountType.NormalSide()),
		Subtype:         a.Subtype,
		ParentAccountID: a.ParentAccountID,
		Description:     a.Description,
		OpeningBalance:  a.OpeningBalance,
		IsActive:        a.IsActive,
		IsSystem:        a.IsSystem,
		CreatedAt:       a.CreatedAt,
	}
}

// ToAccountResponses converts a slice of domain accounts.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	responses := make([]AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = ToAccountResponse(&accounts[i])
	}
	return responses
}

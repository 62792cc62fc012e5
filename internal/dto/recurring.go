package dto

import (
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
)

// CreateRecurringLineRequest is one template line.
type CreateRecurringLineRequest struct {
	AccountID   string `json:"accountID" binding:"required"`
	Debit       int64  `json:"debit" binding:"gte=0"`
	Credit      int64  `json:"credit" binding:"gte=0"`
	Description string `json:"description"`
}

// CreateRecurringRequest defines the payload for a recurring entry template.
type CreateRecurringRequest struct {
	Description string                       `json:"description" binding:"required"`
	Frequency   string                       `json:"frequency" binding:"required,oneof=DAILY WEEKLY MONTHLY"`
	StartDate   time.Time                    `json:"startDate" binding:"required"`
	Lines       []CreateRecurringLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// RecurringResponse defines the data returned for a recurring template.
type RecurringResponse struct {
	RecurringID string    `json:"recurringID"`
	Description string    `json:"description"`
	Frequency   string    `json:"frequency"`
	NextRunDate time.Time `json:"nextRunDate"`
	IsActive    bool      `json:"isActive"`
}

// RunRecurringResponse reports how many draft entries a run materialized.
type RunRecurringResponse struct {
	EntriesCreated int `json:"entriesCreated"`
}

// ToRecurringResponse converts a domain.RecurringEntry.
func ToRecurringResponse(r *domain.RecurringEntry) RecurringResponse {
	return RecurringResponse{
		RecurringID: r.RecurringID,
		Description: r.Description,
		Frequency:   string(r.Frequency),
		NextRunDate: r.NextRunDate,
		IsActive:    r.IsActive,
	}
}

// ToRecurringResponses converts a slice of domain templates.
func ToRecurringResponses(list []domain.RecurringEntry) []RecurringResponse {
	responses := make([]RecurringResponse, len(list))
	for i := range list {
		responses[i] = ToRecurringResponse(&list[i])
	}
	return responses
}

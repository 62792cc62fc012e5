package dto

import (
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
)

// CreatePeriodRequest defines the payload for creating a fiscal period.
type CreatePeriodRequest struct {
	Name      string    `json:"name" binding:"required"`
	StartDate time.Time `json:"startDate" binding:"required"`
	EndDate   time.Time `json:"endDate" binding:"required"`
}

// ClosePeriodRequest carries optional close notes.
type ClosePeriodRequest struct {
	Notes string `json:"notes"`
}

// PeriodResponse defines the data returned for a fiscal period.
type PeriodResponse struct {
	PeriodID       string    `json:"periodID"`
	Name           string    `json:"name"`
	StartDate      time.Time `json:"startDate"`
	EndDate        time.Time `json:"endDate"`
	IsClosed       bool      `json:"isClosed"`
	IsLocked       bool      `json:"isLocked"`
	ClosingEntryID *string   `json:"closingEntryID,omitempty"`
	Notes          string    `json:"notes,omitempty"`
}

// ChecklistItemResponse is one pre-close verification result.
type ChecklistItemResponse struct {
	Name     string `json:"name"`
	Passed   bool   `json:"passed"`
	Blocking bool   `json:"blocking"`
	Detail   string `json:"detail,omitempty"`
}

// ChecklistResponse is the itemized pre-close checklist.
type ChecklistResponse struct {
	PeriodID string                  `json:"periodID"`
	Ready    bool                    `json:"ready"`
	Items    []ChecklistItemResponse `json:"items"`
}

// ClosePeriodResponse reports the outcome of closing a period.
type ClosePeriodResponse struct {
	Success      bool           `json:"success"`
	Message      string         `json:"message"`
	ClosingEntry *EntryResponse `json:"closingEntry,omitempty"`
}

// ToPeriodResponse converts a domain.FiscalPeriod.
func ToPeriodResponse(p *domain.FiscalPeriod) PeriodResponse {
	return PeriodResponse{
		PeriodID:       p.PeriodID,
		Name:           p.Name,
		StartDate:      p.StartDate,
		EndDate:        p.EndDate,
		IsClosed:       p.IsClosed,
		IsLocked:       p.IsLocked,
		ClosingEntryID: p.ClosingEntryID,
		Notes:          p.Notes,
	}
}

// ToPeriodResponses converts a slice of domain periods.
func ToPeriodResponses(periods []domain.FiscalPeriod) []PeriodResponse {
	responses := make([]PeriodResponse, len(periods))
	for i := range periods {
		responses[i] = ToPeriodResponse(&periods[i])
	}
	return responses
}

// ToChecklistResponse converts a domain.ClosingChecklist.
func ToChecklistResponse(c *domain.ClosingChecklist) ChecklistResponse {
	items := make([]ChecklistItemResponse, len(c.Items))
	for i, item := range c.Items {
		items[i] = ChecklistItemResponse{
			Name:     item.Name,
			Passed:   item.Passed,
			Blocking: item.Blocking,
			Detail:   item.Detail,
		}
	}
	return ChecklistResponse{
		PeriodID: c.PeriodID,
		Ready:    c.Ready(),
		Items:    items,
	}
}

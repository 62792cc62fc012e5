package dto

import (
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
)

// CreateEntryLineRequest is one debit or credit line of a new entry.
type CreateEntryLineRequest struct {
	AccountID   string `json:"accountID" binding:"required"`
	Debit       int64  `json:"debit" binding:"gte=0"`
	Credit      int64  `json:"credit" binding:"gte=0"`
	Description string `json:"description"`
}

// CreateEntryRequest defines the payload for creating a journal entry.
type CreateEntryRequest struct {
	Date        time.Time                `json:"date" binding:"required"`
	Description string                   `json:"description" binding:"required"`
	Reference   string                   `json:"reference"`
	Lines       []CreateEntryLineRequest `json:"lines" binding:"required,min=2,dive"`
	AutoPost    bool                     `json:"autoPost"`
}

// ReverseEntryRequest defines the optional overrides for a reversal.
type ReverseEntryRequest struct {
	Description string     `json:"description"`
	Date        *time.Time `json:"date"` // Defaults to today
}

// EntryLineResponse defines the data returned for a journal line.
type EntryLineResponse struct {
	LineID      string `json:"lineID"`
	AccountID   string `json:"accountID"`
	Debit       int64  `json:"debit"`
	Credit      int64  `json:"credit"`
	Description string `json:"description,omitempty"`
}

// EntryResponse defines the data returned for a journal entry.
type EntryResponse struct {
	EntryID     string              `json:"entryID"`
	EntryNumber string              `json:"entryNumber,omitempty"`
	Date        time.Time           `json:"date"`
	PeriodID    string              `json:"periodID"`
	Description string              `json:"description"`
	Reference   string              `json:"reference,omitempty"`
	SourceType  string              `json:"sourceType"`
	SourceID    string              `json:"sourceID,omitempty"`
	Status      string              `json:"status"`
	PostedAt    *time.Time          `json:"postedAt,omitempty"`
	ReversalOf  *string             `json:"reversalOf,omitempty"`
	ReversedBy  *string             `json:"reversedBy,omitempty"`
	Lines       []EntryLineResponse `json:"lines,omitempty"`
	CreatedAt   time.Time           `json:"createdAt"`
	CreatedBy   string              `json:"createdBy"`
}

// ListEntriesParams holds parameters for listing entries.
type ListEntriesParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListEntriesResponse wraps a page of entries with the next pagination token.
type ListEntriesResponse struct {
	Entries   []EntryResponse `json:"entries"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// ToEntryLineResponse converts a domain line.
func ToEntryLineResponse(l *domain.JournalEntryLine) EntryLineResponse {
	return EntryLineResponse{
		LineID:      l.LineID,
		AccountID:   l.AccountID,
		Debit:       l.Debit,
		Credit:      l.Credit,
		Description: l.Description,
	}
}

// ToEntryResponse converts a domain.JournalEntry, including lines when loaded.
func ToEntryResponse(e *domain.JournalEntry) EntryResponse {
	resp := EntryResponse{
		EntryID:     e.EntryID,
		EntryNumber: e.EntryNumber,
		Date:        e.EntryDate,
		PeriodID:    e.PeriodID,
		Description: e.Description,
		Reference:   e.Reference,
		SourceType:  string(e.SourceType),
		SourceID:    e.SourceID,
		Status:      string(e.Status),
		PostedAt:    e.PostedAt,
		ReversalOf:  e.ReversalOf,
		ReversedBy:  e.ReversedBy,
		CreatedAt:   e.CreatedAt,
		CreatedBy:   e.CreatedBy,
	}
	if len(e.Lines) > 0 {
		resp.Lines = make([]EntryLineResponse, len(e.Lines))
		for i := range e.Lines {
			resp.Lines[i] = ToEntryLineResponse(&e.Lines[i])
		}
	}
	return resp
}

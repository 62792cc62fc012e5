package services

import (
	"context"
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/finbooks/finbooks_backend/internal/dto"
)

// NewEntryInput is the service-level input for creating a journal entry on
// behalf of a business document or a manual request.
type NewEntryInput struct {
	Date        time.Time
	Description string
	Reference   string
	SourceType  domain.SourceType
	SourceID    string
	Lines       []domain.JournalEntryLine
	AutoPost    bool
}

// JournalSvcFacade defines the journal entry store operations.
type JournalSvcFacade interface {
	// CreateEntry validates the line and balance invariants and the period gate,
	// persists a draft, and optionally posts it immediately.
	CreateEntry(ctx context.Context, input NewEntryInput, creatorUserID string) (*domain.JournalEntry, error)

	// PostEntry makes a draft permanent: re-validates the time-sensitive
	// invariants, assigns the entry number, and stamps posted_at.
	PostEntry(ctx context.Context, entryID string, userID string) (*domain.JournalEntry, error)

	// ReverseEntry creates, posts, and links the mirror entry of a posted entry.
	ReverseEntry(ctx context.Context, entryID string, req dto.ReverseEntryRequest, userID string) (*domain.JournalEntry, error)

	// GetEntryByID retrieves an entry with its lines.
	GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// GetEntryBySource retrieves the active posting entry of a document.
	GetEntryBySource(ctx context.Context, sourceType domain.SourceType, sourceID string) (*domain.JournalEntry, error)

	// ListEntries retrieves a token-paginated page of entries.
	ListEntries(ctx context.Context, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)
}

package repositories

import (
	"context"
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
)

// EntryReader defines read operations for journal entry data
type EntryReader interface {
	// FindEntryByID retrieves a specific journal entry header by its identifier.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// FindLinesByEntryID retrieves all lines belonging to an entry.
	FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalEntryLine, error)

	// FindEntryBySource retrieves the non-reversed posting entry linked to a
	// business document, if any.
	FindEntryBySource(ctx context.Context, sourceType domain.SourceType, sourceID string) (*domain.JournalEntry, error)

	// ListEntries retrieves a token-paginated list of entries ordered by entry
	// date then creation time.
	ListEntries(ctx context.Context, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)

	// CountDraftsInRange counts draft entries dated within [from, to]. Used by
	// the pre-close checklist.
	CountDraftsInRange(ctx context.Context, from, to time.Time) (int64, error)
}

// EntryWriter defines the mutating operations of the journal entry store.
// Every method runs inside a single database transaction; partial writes are
// impossible.
type EntryWriter interface {
	// SaveDraft persists a new draft entry with its lines. The owning fiscal
	// period is resolved and its open state verified inside the transaction.
	SaveDraft(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalEntryLine) error

	// PostEntry transitions a draft to posted: re-validates the balance and
	// period-open invariants under the transaction, assigns the next entry
	// number, and stamps posted_at. Returns the updated entry.
	PostEntry(ctx context.Context, entryID string, userID string, now time.Time) (*domain.JournalEntry, error)

	// ReverseEntry atomically creates the prepared reversal entry as posted,
	// assigns it a number, and links the pair bidirectionally. The original is
	// locked and its posted/unreversed state re-verified under the transaction.
	ReverseEntry(ctx context.Context, originalID string, reversal domain.JournalEntry, lines []domain.JournalEntryLine) (*domain.JournalEntry, error)
}

// EntryRepositoryFacade combines all journal-entry repository interfaces
type EntryRepositoryFacade interface {
	EntryReader
	EntryWriter
}

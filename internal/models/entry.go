package models

import "time"

// EntryStatus indicates the lifecycle state of a journal entry row.
type EntryStatus string

const (
	Draft  EntryStatus = "DRAFT"
	Posted EntryStatus = "POSTED"
)

// JournalEntry is the persistence shape of a journal entry header.
type JournalEntry struct {
	EntryID     string      `db:"entry_id"`
	EntryNumber string      `db:"entry_number"` // Nullable until posted
	EntryDate   time.Time   `db:"entry_date"`
	PeriodID    string      `db:"period_id"`
	Description string      `db:"description"`
	Reference   string      `db:"reference"`
	SourceType  string      `db:"source_type"`
	SourceID    string      `db:"source_id"` // Nullable
	Status      EntryStatus `db:"status"`
	PostedAt    *time.Time  `db:"posted_at"`
	ReversalOf  *string     `db:"reversal_of_entry_id"`
	ReversedBy  *string     `db:"reversed_by_entry_id"`
	AuditFields
}

// JournalEntryLine is the persistence shape of a single debit/credit line.
type JournalEntryLine struct {
	LineID      string `db:"line_id"`
	EntryID     string `db:"entry_id"`
	AccountID   string `db:"account_id"`
	Debit       int64  `db:"debit"`
	Credit      int64  `db:"credit"`
	Description string `db:"description"`
	AuditFields
}

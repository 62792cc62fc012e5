package domain

import "time"

// EntryStatus indicates the lifecycle state of a journal entry.
type EntryStatus string

const (
	Draft  EntryStatus = "DRAFT"
	Posted EntryStatus = "POSTED"
	// Reversed entries stay POSTED; reversal is tracked via ReversedByID so the
	// original row is never mutated beyond the link.
)

// SourceType identifies the kind of business document an entry originated from.
type SourceType string

const (
	SourceManual    SourceType = "MANUAL"
	SourceInvoice   SourceType = "INVOICE"
	SourceBill      SourceType = "BILL"
	SourcePayment   SourceType = "PAYMENT"
	SourceClosing   SourceType = "CLOSING"
	SourceRecurring SourceType = "RECURRING"
)

// JournalEntry is a balanced set of debit/credit lines dated into a fiscal
// period. Once posted it is immutable; the only permitted change afterwards is
// the ReversedByID link set when a reversal entry is created.
type JournalEntry struct {
	EntryID     string      `json:"entryID"`     // Primary key (UUID)
	EntryNumber string      `json:"entryNumber"` // Sequential human-readable number, assigned at post time
	EntryDate   time.Time   `json:"entryDate"`   // Day granularity, UTC
	PeriodID    string      `json:"periodID"`    // Fiscal period resolved from EntryDate
	Description string      `json:"description"`
	Reference   string      `json:"reference"`
	SourceType  SourceType  `json:"sourceType"`
	SourceID    string      `json:"sourceID"` // Nullable id of the originating document
	Status      EntryStatus `json:"status"`
	PostedAt    *time.Time  `json:"postedAt"`
	ReversalOf  *string     `json:"reversalOf"` // Entry this one reverses
	ReversedBy  *string     `json:"reversedBy"` // Entry that reverses this one

	Lines []JournalEntryLine `json:"lines,omitempty"`
	AuditFields
}

// IsPosted reports whether the entry has been made permanent.
func (e *JournalEntry) IsPosted() bool {
	return e.Status == Posted
}

// JournalEntryLine is a single debit or credit against one account. Amounts
// are integers in minor currency units; exactly one of Debit/Credit is
// positive and the other is zero.
type JournalEntryLine struct {
	LineID      string `json:"lineID"`
	EntryID     string `json:"entryID"`
	AccountID   string `json:"accountID"`
	Debit       int64  `json:"debit"`
	Credit      int64  `json:"credit"`
	Description string `json:"description"`
	AuditFields
}

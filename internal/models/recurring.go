package models

import "time"

// RecurringEntry is the persistence shape of a recurring entry template.
type RecurringEntry struct {
	RecurringID string    `db:"recurring_id"`
	Description string    `db:"description"`
	Frequency   string    `db:"frequency"`
	NextRunDate time.Time `db:"next_run_date"`
	IsActive    bool      `db:"is_active"`
	AuditFields
}

// RecurringEntryLine is one template line.
type RecurringEntryLine struct {
	LineID      string `db:"line_id"`
	RecurringID string `db:"recurring_id"`
	AccountID   string `db:"account_id"`
	Debit       int64  `db:"debit"`
	Credit      int64  `db:"credit"`
	Description string `db:"description"`
}

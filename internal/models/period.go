package models

import "time"

// FiscalPeriod is the persistence shape of a fiscal period row.
type FiscalPeriod struct {
	PeriodID       string    `db:"period_id"`
	Name           string    `db:"name"`
	StartDate      time.Time `db:"start_date"`
	EndDate        time.Time `db:"end_date"`
	IsClosed       bool      `db:"is_closed"`
	IsLocked       bool      `db:"is_locked"`
	ClosingEntryID *string   `db:"closing_entry_id"` // Nullable
	Notes          string    `db:"notes"`
	AuditFields
}

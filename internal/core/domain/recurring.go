package domain

import "time"

// RecurringFrequency is how often a recurring entry template materializes.
type RecurringFrequency string

const (
	RecurDaily   RecurringFrequency = "DAILY"
	RecurWeekly  RecurringFrequency = "WEEKLY"
	RecurMonthly RecurringFrequency = "MONTHLY"
)

// Valid reports whether f is a known frequency.
func (f RecurringFrequency) Valid() bool {
	switch f {
	case RecurDaily, RecurWeekly, RecurMonthly:
		return true
	}
	return false
}

// RecurringEntry is a template that a scheduled job turns into draft journal
// entries through the regular posting APIs.
type RecurringEntry struct {
	RecurringID string             `json:"recurringID"`
	Description string             `json:"description"`
	Frequency   RecurringFrequency `json:"frequency"`
	NextRunDate time.Time          `json:"nextRunDate"`
	IsActive    bool               `json:"isActive"`

	Lines []RecurringEntryLine `json:"lines,omitempty"`
	AuditFields
}

// NextAfter returns the run date following the given one.
func (r *RecurringEntry) NextAfter(date time.Time) time.Time {
	d := DateOnly(date)
	switch r.Frequency {
	case RecurDaily:
		return d.AddDate(0, 0, 1)
	case RecurWeekly:
		return d.AddDate(0, 0, 7)
	default:
		return d.AddDate(0, 1, 0)
	}
}

// RecurringEntryLine mirrors JournalEntryLine for the template.
type RecurringEntryLine struct {
	LineID      string `json:"lineID"`
	RecurringID string `json:"recurringID"`
	AccountID   string `json:"accountID"`
	Debit       int64  `json:"debit"`
	Credit      int64  `json:"credit"`
	Description string `json:"description"`
}

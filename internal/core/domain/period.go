package domain

import "time"

// FiscalPeriod is a bounded, non-overlapping date range gating postings.
// State machine: open -> locked -> closed, with unlock (locked -> open) and
// reopen (closed -> open, reversing the closing entry) as the only backward
// transitions.
type FiscalPeriod struct {
	PeriodID       string    `json:"periodID"`
	Name           string    `json:"name"`
	StartDate      time.Time `json:"startDate"`
	EndDate        time.Time `json:"endDate"`
	IsClosed       bool      `json:"isClosed"`
	IsLocked       bool      `json:"isLocked"`
	ClosingEntryID *string   `json:"closingEntryID"` // Set while the period is closed
	Notes          string    `json:"notes"`
	AuditFields
}

// Contains reports whether the given date falls inside the period, inclusive
// on both ends.
func (p *FiscalPeriod) Contains(date time.Time) bool {
	d := DateOnly(date)
	return !d.Before(DateOnly(p.StartDate)) && !d.After(DateOnly(p.EndDate))
}

// Overlaps reports whether [start, end] intersects the period's range.
func (p *FiscalPeriod) Overlaps(start, end time.Time) bool {
	return !DateOnly(end).Before(DateOnly(p.StartDate)) && !DateOnly(start).After(DateOnly(p.EndDate))
}

// AllowsPosting reports whether entries may be created or posted into the period.
func (p *FiscalPeriod) AllowsPosting() bool {
	return !p.IsClosed && !p.IsLocked
}

// ChecklistItem is one pre-close verification result.
type ChecklistItem struct {
	Name     string `json:"name"`
	Passed   bool   `json:"passed"`
	Blocking bool   `json:"blocking"`
	Detail   string `json:"detail"`
}

// ClosingChecklist is the itemized result of the pre-close verification.
type ClosingChecklist struct {
	PeriodID string          `json:"periodID"`
	Items    []ChecklistItem `json:"items"`
}

// Ready reports whether no blocking item failed.
func (c *ClosingChecklist) Ready() bool {
	for _, item := range c.Items {
		if item.Blocking && !item.Passed {
			return false
		}
	}
	return true
}

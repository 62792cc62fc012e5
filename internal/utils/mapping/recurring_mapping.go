package mapping

import (
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/finbooks/finbooks_backend/internal/models"
)

// ToModelRecurring converts a domain RecurringEntry to a model RecurringEntry
func ToModelRecurring(d domain.RecurringEntry) models.RecurringEntry {
	return models.RecurringEntry{
		RecurringID: d.RecurringID,
		Description: d.Description,
		Frequency:   string(d.Frequency),
		NextRunDate: d.NextRunDate,
		IsActive:    d.IsActive,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainRecurring converts a model RecurringEntry to a domain RecurringEntry
func ToDomainRecurring(m models.RecurringEntry) domain.RecurringEntry {
	return domain.RecurringEntry{
		RecurringID: m.RecurringID,
		Description: m.Description,
		Frequency:   domain.RecurringFrequency(m.Frequency),
		NextRunDate: m.NextRunDate,
		IsActive:    m.IsActive,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainRecurringLine converts a model RecurringEntryLine to its domain shape
func ToDomainRecurringLine(m models.RecurringEntryLine) domain.RecurringEntryLine {
	return domain.RecurringEntryLine{
		LineID:      m.LineID,
		RecurringID: m.RecurringID,
		AccountID:   m.AccountID,
		Debit:       m.Debit,
		Credit:      m.Credit,
		Description: m.Description,
	}
}

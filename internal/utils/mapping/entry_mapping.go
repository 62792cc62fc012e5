package mapping

import (
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/finbooks/finbooks_backend/internal/models"
)

// ToModelEntry converts a domain JournalEntry to a model JournalEntry
func ToModelEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:     d.EntryID,
		EntryNumber: d.EntryNumber,
		EntryDate:   d.EntryDate,
		PeriodID:    d.PeriodID,
		Description: d.Description,
		Reference:   d.Reference,
		SourceType:  string(d.SourceType),
		SourceID:    d.SourceID,
		Status:      models.EntryStatus(d.Status),
		PostedAt:    d.PostedAt,
		ReversalOf:  d.ReversalOf,
		ReversedBy:  d.ReversedBy,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainEntry converts a model JournalEntry to a domain JournalEntry
func ToDomainEntry(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:     m.EntryID,
		EntryNumber: m.EntryNumber,
		EntryDate:   m.EntryDate,
		PeriodID:    m.PeriodID,
		Description: m.Description,
		Reference:   m.Reference,
		SourceType:  domain.SourceType(m.SourceType),
		SourceID:    m.SourceID,
		Status:      domain.EntryStatus(m.Status),
		PostedAt:    m.PostedAt,
		ReversalOf:  m.ReversalOf,
		ReversedBy:  m.ReversedBy,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelEntryLine converts a domain JournalEntryLine to a model JournalEntryLine
func ToModelEntryLine(d domain.JournalEntryLine) models.JournalEntryLine {
	return models.JournalEntryLine{
		LineID:      d.LineID,
		EntryID:     d.EntryID,
		AccountID:   d.AccountID,
		Debit:       d.Debit,
		Credit:      d.Credit,
		Description: d.Description,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainEntryLine converts a model JournalEntryLine to a domain JournalEntryLine
func ToDomainEntryLine(m models.JournalEntryLine) domain.JournalEntryLine {
	return domain.JournalEntryLine{
		LineID:      m.LineID,
		EntryID:     m.EntryID,
		AccountID:   m.AccountID,
		Debit:       m.Debit,
		Credit:      m.Credit,
		Description: m.Description,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

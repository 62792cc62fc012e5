package mapping

import (
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/finbooks/finbooks_backend/internal/models"
)

// ToModelPeriod converts a domain FiscalPeriod to a model FiscalPeriod
func ToModelPeriod(d domain.FiscalPeriod) models.FiscalPeriod {
	return models.FiscalPeriod{
		PeriodID:       d.PeriodID,
		Name:           d.Name,
		StartDate:      d.StartDate,
		EndDate:        d.EndDate,
		IsClosed:       d.IsClosed,
		IsLocked:       d.IsLocked,
		ClosingEntryID: d.ClosingEntryID,
		Notes:          d.Notes,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPeriod converts a model FiscalPeriod to a domain FiscalPeriod
func ToDomainPeriod(m models.FiscalPeriod) domain.FiscalPeriod {
	return domain.FiscalPeriod{
		PeriodID:       m.PeriodID,
		Name:           m.Name,
		StartDate:      m.StartDate,
		EndDate:        m.EndDate,
		IsClosed:       m.IsClosed,
		IsLocked:       m.IsLocked,
		ClosingEntryID: m.ClosingEntryID,
		Notes:          m.Notes,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

package mapping

import (
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/finbooks/finbooks_backend/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:       d.AccountID,
		Code:            d.Code,
		Name:            d.Name,
		AccountType:     models.AccountType(d.AccountType),
		Subtype:         d.Subtype,
		ParentAccountID: d.ParentAccountID,
		Description:     d.Description,
		OpeningBalance:  d.OpeningBalance,
		IsActive:        d.IsActive,
		IsSystem:        d.IsSystem,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:       m.AccountID,
		Code:            m.Code,
		Name:            m.Name,
		AccountType:     domain.AccountType(m.AccountType),
		Subtype:         m.Subtype,
		ParentAccountID: m.ParentAccountID,
		Description:     m.Description,
		OpeningBalance:  m.OpeningBalance,
		IsActive:        m.IsActive,
		IsSystem:        m.IsSystem,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

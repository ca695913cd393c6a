package mapping

import (
	"github.com/buildledger/construction_ledger/internal/core/domain"
	"github.com/buildledger/construction_ledger/internal/models"
)

// ToModelAccount converts a domain account to its row shape.
func ToModelAccount(a domain.Account) models.Account {
	return models.Account{
		AccountID:     a.AccountID,
		CompanyID:     a.CompanyID,
		AccountNumber: a.AccountNumber,
		Name:          a.Name,
		AccountType:   string(a.AccountType),
		SubType:       a.SubType,
		NormalBalance: string(a.NormalBalance),
		IsActive:      a.IsActive,
		CreatedAt:     a.CreatedAt,
		CreatedBy:     a.CreatedBy,
		LastUpdatedAt: a.LastUpdatedAt,
		LastUpdatedBy: a.LastUpdatedBy,
	}
}

// ToDomainAccount converts a row back to the domain representation.
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:     m.AccountID,
		CompanyID:     m.CompanyID,
		AccountNumber: m.AccountNumber,
		Name:          m.Name,
		AccountType:   domain.AccountType(m.AccountType),
		SubType:       m.SubType,
		NormalBalance: domain.NormalBalance(m.NormalBalance),
		IsActive:      m.IsActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

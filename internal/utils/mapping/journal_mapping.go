package mapping

import (
	"github.com/buildledger/construction_ledger/internal/core/domain"
	"github.com/buildledger/construction_ledger/internal/models"
)

// ToModelEntry converts a domain entry header to its row shape.
func ToModelEntry(e domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:       e.EntryID,
		CompanyID:     e.CompanyID,
		EntryNumber:   e.EntryNumber,
		EntryDate:     e.EntryDate,
		Description:   e.Description,
		Reference:     e.Reference,
		Status:        string(e.Status),
		CreatedAt:     e.CreatedAt,
		CreatedBy:     e.CreatedBy,
		LastUpdatedAt: e.LastUpdatedAt,
		LastUpdatedBy: e.LastUpdatedBy,
	}
}

// ToDomainEntry converts an entry row back to the domain representation.
func ToDomainEntry(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:     m.EntryID,
		CompanyID:   m.CompanyID,
		EntryNumber: m.EntryNumber,
		EntryDate:   m.EntryDate,
		Description: m.Description,
		Reference:   m.Reference,
		Status:      domain.EntryStatus(m.Status),
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

// ToModelLine converts a domain line to its row shape.
func ToModelLine(l domain.JournalEntryLine) models.JournalEntryLine {
	return models.JournalEntryLine{
		LineID:      l.LineID,
		EntryID:     l.EntryID,
		AccountID:   l.AccountID,
		Debit:       l.Debit,
		Credit:      l.Credit,
		Description: l.Description,
		ProjectID:   l.ProjectID,
		PropertyID:  l.PropertyID,
	}
}

// ToDomainLine converts a line row back to the domain representation.
func ToDomainLine(m models.JournalEntryLine) domain.JournalEntryLine {
	return domain.JournalEntryLine{
		LineID:      m.LineID,
		EntryID:     m.EntryID,
		AccountID:   m.AccountID,
		Debit:       m.Debit,
		Credit:      m.Credit,
		Description: m.Description,
		ProjectID:   m.ProjectID,
		PropertyID:  m.PropertyID,
	}
}

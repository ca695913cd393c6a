package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/buildledger/construction_ledger/internal/apperrors"
	"github.com/buildledger/construction_ledger/internal/core/domain"
	portsrepo "github.com/buildledger/construction_ledger/internal/core/ports/repositories"
	portssvc "github.com/buildledger/construction_ledger/internal/core/ports/services"
	"github.com/buildledger/construction_ledger/internal/middleware"
)

// ledgerService posts validated, balanced journal entries.
type ledgerService struct {
	journalRepo portsrepo.JournalRepositoryFacade
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(journalRepo portsrepo.JournalRepositoryFacade) portssvc.LedgerSvcFacade {
	return &ledgerService{journalRepo: journalRepo}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// PostEntry validates the draft entry, stamps identifiers and audit fields,
// and persists it as POSTED. The assigned entry number comes back from the
// repository.
func (s *ledgerService) PostEntry(ctx context.Context, companyID, userID string, entry domain.JournalEntry) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if len(entry.Lines) < 2 {
		return nil, apperrors.NewValidationError("journal entry requires at least two lines")
	}
	for i, line := range entry.Lines {
		if line.Debit.IsNegative() || line.Credit.IsNegative() {
			return nil, apperrors.NewValidationError(fmt.Sprintf("line %d has a negative amount", i+1))
		}
		if line.Debit.IsPositive() && line.Credit.IsPositive() {
			return nil, apperrors.NewValidationError(fmt.Sprintf("line %d has both a debit and a credit", i+1))
		}
		if line.Debit.IsZero() && line.Credit.IsZero() {
			return nil, apperrors.NewValidationError(fmt.Sprintf("line %d has no amount", i+1))
		}
		if line.AccountID == "" {
			return nil, apperrors.NewValidationError(fmt.Sprintf("line %d has no account", i+1))
		}
	}
	if !entry.IsBalanced() {
		return nil, apperrors.NewAppError(400,
			fmt.Sprintf("journal entry is unbalanced: debits %s, credits %s", entry.TotalDebits(), entry.TotalCredits()),
			apperrors.ErrUnbalancedEntry)
	}

	now := time.Now().UTC()
	entry.EntryID = uuid.NewString()
	entry.CompanyID = companyID
	entry.Status = domain.Posted
	entry.CreatedAt = now
	entry.CreatedBy = userID
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = userID
	for i := range entry.Lines {
		entry.Lines[i].LineID = uuid.NewString()
		entry.Lines[i].EntryID = entry.EntryID
	}

	saved, err := s.journalRepo.SaveEntry(ctx, entry)
	if err != nil {
		return nil, err
	}
	logger.Info("Posted journal entry",
		slog.String("entry_id", saved.EntryID),
		slog.String("entry_number", saved.EntryNumber),
		slog.String("company_id", companyID))
	return saved, nil
}

// GetEntry fetches a single journal entry with its lines.
func (s *ledgerService) GetEntry(ctx context.Context, companyID, entryID string) (*domain.JournalEntry, error) {
	return s.journalRepo.FindEntryByID(ctx, companyID, entryID)
}

// FindPostedReferences reports which of the given idempotency references
// already have a posted entry.
func (s *ledgerService) FindPostedReferences(ctx context.Context, companyID string, references []string) (map[string]struct{}, error) {
	return s.journalRepo.FindPostedReferences(ctx, companyID, references)
}

// twoLine builds the common debit-one-credit-one entry shape used by the
// event generators.
func twoLine(entryDate time.Time, description, reference string, debitAccount, creditAccount string, amount decimal.Decimal, projectID, propertyID *string) domain.JournalEntry {
	ref := reference
	return domain.JournalEntry{
		EntryDate:   entryDate,
		Description: description,
		Reference:   &ref,
		Lines: []domain.JournalEntryLine{
			{AccountID: debitAccount, Debit: amount, Credit: decimal.Zero, Description: description, ProjectID: projectID, PropertyID: propertyID},
			{AccountID: creditAccount, Debit: decimal.Zero, Credit: amount, Description: description, ProjectID: projectID, PropertyID: propertyID},
		},
	}
}

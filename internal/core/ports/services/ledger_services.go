package services

import (
	"context"

	"github.com/buildledger/construction_ledger/internal/core/domain"
	"github.com/buildledger/construction_ledger/internal/dto"
)

// AccountResolverSvcFacade maps semantic roles onto a tenant's chart of
// accounts, creating missing standard accounts on demand.
type AccountResolverSvcFacade interface {
	// EnsureStandardAccounts creates any standard account with no fuzzy match
	// in the tenant's chart. Idempotent; returns the number created.
	EnsureStandardAccounts(ctx context.Context, companyID, userID string) (int, error)

	// ResolveRoles builds the role -> account ID map. Returns
	// apperrors.ErrNoUsableChart when none of cash, AR or AP resolve.
	ResolveRoles(ctx context.Context, companyID string) (domain.RoleMap, error)

	// ListAccounts returns the tenant's chart of accounts.
	ListAccounts(ctx context.Context, companyID string) ([]domain.Account, error)
}

// LedgerSvcFacade is the idempotent poster plus entry reads.
type LedgerSvcFacade interface {
	// PostEntry validates balance and persists the draft directly in POSTED
	// status. Callers must have deduplicated the draft's reference against
	// FindPostedReferences beforehand.
	PostEntry(ctx context.Context, companyID, userID string, draft domain.JournalEntry) (*domain.JournalEntry, error)

	// GetEntry retrieves a posted or voided entry with its lines.
	GetEntry(ctx context.Context, companyID, entryID string) (*domain.JournalEntry, error)

	// FindPostedReferences reports which of the given reference keys already
	// have a posted entry.
	FindPostedReferences(ctx context.Context, companyID string, refs []string) (map[string]struct{}, error)
}

// DepreciationSvcFacade runs property depreciation schedules.
type DepreciationSvcFacade interface {
	// GenerateAllDepreciationJEs posts one entry per calendar month of the
	// property's useful life, skipping months already posted.
	GenerateAllDepreciationJEs(ctx context.Context, companyID, userID string, attrs domain.PropertyAttributes) (*dto.DepreciationRunResult, error)
}

// BackfillSvcFacade scans business events and derives missing entries.
type BackfillSvcFacade interface {
	// BackfillMissingJournalEntries is safe to re-run; a fully backfilled
	// tenant yields all-zero counts.
	BackfillMissingJournalEntries(ctx context.Context, companyID, userID string) (*dto.BackfillResult, error)
}

// SectionSvcFacade builds unified per-domain transaction feeds.
type SectionSvcFacade interface {
	GetSectionTransactions(ctx context.Context, companyID string, section domain.Section) (*dto.SectionTransactionSummary, error)
}

// ServiceContainer bundles every service facade the HTTP layer depends on.
type ServiceContainer struct {
	Resolver     AccountResolverSvcFacade
	Ledger       LedgerSvcFacade
	Generator    EntryGeneratorSvcFacade
	Depreciation DepreciationSvcFacade
	Backfill     BackfillSvcFacade
	Sections     SectionSvcFacade
}

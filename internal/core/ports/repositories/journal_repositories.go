package repositories

import (
	"context"

	"github.com/buildledger/construction_ledger/internal/core/domain"
)

// JournalEntryReader defines read operations for journal entry data.
type JournalEntryReader interface {
	// FindEntryByID retrieves an entry with its lines.
	FindEntryByID(ctx context.Context, companyID, entryID string) (*domain.JournalEntry, error)

	// FindPostedReferences returns the subset of the given reference keys that
	// already have a POSTED entry in the company. Implementations chunk the
	// lookup to respect IN-list cardinality limits.
	FindPostedReferences(ctx context.Context, companyID string, refs []string) (map[string]struct{}, error)

	// FindPostedEntriesByReferences resolves reference keys to their posted
	// entry headers (no lines), keyed by reference. Chunked like
	// FindPostedReferences.
	FindPostedEntriesByReferences(ctx context.Context, companyID string, refs []string) (map[string]domain.JournalEntry, error)

	// ListPostedLines retrieves posted entry lines joined with their entry
	// headers, optionally narrowed to project- or property-linked lines.
	ListPostedLines(ctx context.Context, companyID string, filter domain.LineLinkFilter) ([]domain.PostedLine, error)
}

// JournalEntryWriter defines write operations for journal entry data.
type JournalEntryWriter interface {
	// SaveEntry persists the entry and its lines atomically, assigning the
	// per-company entry number. The posted-reference uniqueness constraint is
	// enforced by the store; a violation surfaces as apperrors.ErrDuplicate.
	SaveEntry(ctx context.Context, entry domain.JournalEntry) (*domain.JournalEntry, error)
}

// JournalRepositoryFacade combines all journal repository interfaces.
type JournalRepositoryFacade interface {
	JournalEntryReader
	JournalEntryWriter
}

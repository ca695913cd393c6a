package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the state of a journal entry.
type EntryStatus string

const (
	Draft  EntryStatus = "DRAFT"
	Posted EntryStatus = "POSTED"
	Voided EntryStatus = "VOIDED"
)

// JournalEntry represents a single, balanced financial event composed of lines.
// Only POSTED entries participate in ledger reconciliation.
type JournalEntry struct {
	EntryID     string             `json:"entryID"`     // Primary Key (UUID)
	CompanyID   string             `json:"companyID"`   // Tenant scope (NON-NULL)
	EntryNumber string             `json:"entryNumber"` // Display id, e.g. "JE-0042", unique per company
	EntryDate   time.Time          `json:"entryDate"`
	Description string             `json:"description"`
	Reference   *string            `json:"reference"` // Deterministic event key; nil for manual entries
	Status      EntryStatus        `json:"status"`
	Lines       []JournalEntryLine `json:"lines,omitempty"`
	AuditFields
}

// JournalEntryLine is a single debit or credit against one account.
type JournalEntryLine struct {
	LineID      string          `json:"lineID"`
	EntryID     string          `json:"entryID"`
	AccountID   string          `json:"accountID"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
	ProjectID   *string         `json:"projectID,omitempty"`
	PropertyID  *string         `json:"propertyID,omitempty"`
}

// TotalDebits sums the debit side of the entry's lines.
func (e JournalEntry) TotalDebits() decimal.Decimal {
	total := decimal.Zero
	for _, l := range e.Lines {
		total = total.Add(l.Debit)
	}
	return total
}

// TotalCredits sums the credit side of the entry's lines.
func (e JournalEntry) TotalCredits() decimal.Decimal {
	total := decimal.Zero
	for _, l := range e.Lines {
		total = total.Add(l.Credit)
	}
	return total
}

// IsBalanced reports whether debits equal credits across all lines.
func (e JournalEntry) IsBalanced() bool {
	return e.TotalDebits().Equal(e.TotalCredits())
}

// PostedLine is an aggregation-time view of a line joined with its parent
// entry's header fields. Produced by the repository for section feeds.
type PostedLine struct {
	JournalEntryLine
	CompanyID   string    `json:"companyID"`
	EntryNumber string    `json:"entryNumber"`
	EntryDate   time.Time `json:"entryDate"`
	EntryDesc   string    `json:"entryDescription"`
	Reference   *string   `json:"reference"`
}

// LineLinkFilter narrows which posted lines a repository fetch returns.
type LineLinkFilter int

const (
	AllLines LineLinkFilter = iota
	ProjectLines
	PropertyLines
)

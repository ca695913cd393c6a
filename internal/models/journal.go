package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is the journal_entries row shape.
type JournalEntry struct {
	EntryID       string    `db:"entry_id"`
	CompanyID     string    `db:"company_id"`
	EntryNumber   string    `db:"entry_number"`
	EntryDate     time.Time `db:"entry_date"`
	Description   string    `db:"description"`
	Reference     *string   `db:"reference"`
	Status        string    `db:"status"`
	CreatedAt     time.Time `db:"created_at"`
	CreatedBy     string    `db:"created_by"`
	LastUpdatedAt time.Time `db:"last_updated_at"`
	LastUpdatedBy string    `db:"last_updated_by"`
}

// JournalEntryLine is the journal_entry_lines row shape.
type JournalEntryLine struct {
	LineID      string          `db:"line_id"`
	EntryID     string          `db:"entry_id"`
	AccountID   string          `db:"account_id"`
	Debit       decimal.Decimal `db:"debit"`
	Credit      decimal.Decimal `db:"credit"`
	Description string          `db:"description"`
	ProjectID   *string         `db:"project_id"`
	PropertyID  *string         `db:"property_id"`
}

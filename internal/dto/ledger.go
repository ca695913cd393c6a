package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/buildledger/construction_ledger/internal/core/domain"
)

// BackfillResult reports per-event-type generation counts for one backfill
// run. Partial per-record failures reduce counts; they never fail the run.
type BackfillResult struct {
	CoGenerated            int `json:"coGenerated"`
	InvGenerated           int `json:"invGenerated"`
	ContractsGenerated     int `json:"contractsGenerated"`
	LeaseScheduled         int `json:"leaseScheduled"`
	RentPaymentGenerated   int `json:"rentPaymentGenerated"`
	EquipPurchaseGenerated int `json:"equipPurchaseGenerated"`
	DepreciationGenerated  int `json:"depreciationGenerated"`
	PayrollGenerated       int `json:"payrollGenerated"`
	MaintenanceGenerated   int `json:"maintenanceGenerated"`
	// SkippedNoChart distinguishes "tenant has no usable chart of accounts"
	// from "nothing left to backfill".
	SkippedNoChart bool `json:"skippedNoChart"`
}

// Total sums every generated count.
func (r BackfillResult) Total() int {
	return r.CoGenerated + r.InvGenerated + r.ContractsGenerated +
		r.LeaseScheduled + r.RentPaymentGenerated + r.EquipPurchaseGenerated +
		r.DepreciationGenerated + r.PayrollGenerated + r.MaintenanceGenerated
}

// DepreciationRunResult reports one property depreciation run.
type DepreciationRunResult struct {
	Created       int             `json:"created"`
	Skipped       int             `json:"skipped"`
	TotalMonths   int             `json:"totalMonths"`
	MonthlyAmount decimal.Decimal `json:"monthlyAmount"`
}

// ScheduleRequest asks for a yearly depreciation schedule preview.
type ScheduleRequest struct {
	Basis           decimal.Decimal `json:"basis" binding:"required"`
	UsefulLifeYears float64         `json:"usefulLifeYears" binding:"required,gt=0"`
	StartDate       string          `json:"startDate" binding:"required,localdate"`
}

// DepreciationRunRequest carries the property attributes for a run.
type DepreciationRunRequest struct {
	PropertyID    string           `json:"propertyID" binding:"required"`
	Name          string           `json:"name"`
	PropertyType  string           `json:"propertyType" binding:"required"`
	PurchasePrice decimal.Decimal  `json:"purchasePrice" binding:"required"`
	LandValue     *decimal.Decimal `json:"landValue"`
	StartDate     string           `json:"startDate" binding:"required,localdate"`
}

// ToPropertyAttributes maps the request onto the domain snapshot.
func (r DepreciationRunRequest) ToPropertyAttributes() domain.PropertyAttributes {
	return domain.PropertyAttributes{
		PropertyID:    r.PropertyID,
		Name:          r.Name,
		PropertyType:  r.PropertyType,
		PurchasePrice: r.PurchasePrice,
		LandValue:     r.LandValue,
		StartDate:     r.StartDate,
	}
}

// SectionTransactionSummary is the aggregator's unified feed plus totals.
type SectionTransactionSummary struct {
	Section           string                      `json:"section"`
	Transactions      []domain.SectionTransaction `json:"transactions"`
	TotalTransactions int                         `json:"totalTransactions"`
	TotalDebits       decimal.Decimal             `json:"totalDebits"`
	TotalCredits      decimal.Decimal             `json:"totalCredits"`
	NetAmount         decimal.Decimal             `json:"netAmount"`
}

// CreateEntryLineRequest is one manual journal entry line.
type CreateEntryLineRequest struct {
	AccountID   string          `json:"accountID" binding:"required"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
	ProjectID   *string         `json:"projectID"`
	PropertyID  *string         `json:"propertyID"`
}

// CreateJournalEntryRequest is an operator-supplied balanced entry. Manual
// entries carry no reference key and list as standalone lines in section feeds.
type CreateJournalEntryRequest struct {
	EntryDate   time.Time                `json:"entryDate" binding:"required"`
	Description string                   `json:"description" binding:"required"`
	Lines       []CreateEntryLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// ToDomainEntry maps the request onto a draft entry.
func (r CreateJournalEntryRequest) ToDomainEntry(companyID string) domain.JournalEntry {
	lines := make([]domain.JournalEntryLine, len(r.Lines))
	for i, l := range r.Lines {
		lines[i] = domain.JournalEntryLine{
			AccountID:   l.AccountID,
			Debit:       l.Debit,
			Credit:      l.Credit,
			Description: l.Description,
			ProjectID:   l.ProjectID,
			PropertyID:  l.PropertyID,
		}
	}
	return domain.JournalEntry{
		CompanyID:   companyID,
		EntryDate:   r.EntryDate,
		Description: r.Description,
		Lines:       lines,
	}
}

// AccountResponse mirrors domain.Account for the accounts listing.
type AccountResponse struct {
	AccountID     string `json:"accountID"`
	AccountNumber string `json:"accountNumber"`
	Name          string `json:"name"`
	AccountType   string `json:"accountType"`
	SubType       string `json:"subType"`
	NormalBalance string `json:"normalBalance"`
	IsActive      bool   `json:"isActive"`
}

// ToAccountResponses maps domain accounts for transport.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	out := make([]AccountResponse, len(accounts))
	for i, a := range accounts {
		out[i] = AccountResponse{
			AccountID:     a.AccountID,
			AccountNumber: a.AccountNumber,
			Name:          a.Name,
			AccountType:   string(a.AccountType),
			SubType:       a.SubType,
			NormalBalance: string(a.NormalBalance),
			IsActive:      a.IsActive,
		}
	}
	return out
}

package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildledger/construction_ledger/internal/apperrors"
	"github.com/buildledger/construction_ledger/internal/core/domain"
)

func newSectionsFixture(t *testing.T) (*ledgerFixture, *backfillService, *sectionsService) {
	t.Helper()
	f, backfill := newBackfillFixture(t)
	sections := NewSectionsService(f.journal, f.events, f.resolver).(*sectionsService)
	return f, backfill, sections
}

func rowByID(rows []domain.SectionTransaction, id string) *domain.SectionTransaction {
	for i := range rows {
		if rows[i].ID == id {
			return &rows[i]
		}
	}
	return nil
}

func TestSectionTransactions_ProjectsFeed(t *testing.T) {
	f, backfill, sections := newSectionsFixture(t)
	seedMinimalChart(t, f.accounts)
	seedBackfillEvents(f)
	f.events.rfis = []domain.RFI{
		{RFIID: "rfi-1", ProjectID: "proj-1", Number: "RFI-7", Subject: "Footing depth",
			Status: "open", CostImpact: decimal.NewFromInt(1500),
			RaisedDate: time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)},
	}
	_, err := backfill.BackfillMissingJournalEntries(context.Background(), testCompanyID, testUserID)
	require.NoError(t, err)

	summary, err := sections.GetSectionTransactions(context.Background(), testCompanyID, domain.SectionProjects)
	require.NoError(t, err)
	assert.Equal(t, "projects", summary.Section)

	co := rowByID(summary.Transactions, "co-1")
	require.NotNil(t, co)
	assert.NotNil(t, co.JENumber, "approved change order links to its entry")
	assert.Nil(t, co.JEExpected)

	pending := rowByID(summary.Transactions, "co-pending")
	require.NotNil(t, pending)
	assert.Nil(t, pending.JENumber)
	require.NotNil(t, pending.JEExpected)
	assert.False(t, *pending.JEExpected, "pending change orders never generate")

	rfi := rowByID(summary.Transactions, "rfi-1")
	require.NotNil(t, rfi)
	assert.Nil(t, rfi.JENumber)
	require.NotNil(t, rfi.JEExpected)
	assert.False(t, *rfi.JEExpected, "RFIs are forecasts, no entry is ever expected")

	inv := rowByID(summary.Transactions, "inv-1")
	require.NotNil(t, inv)
	assert.NotNil(t, inv.JENumber)
	assert.True(t, inv.Debit.Equal(decimal.NewFromInt(25000)))
}

func TestSectionTransactions_NoDoubleCounting(t *testing.T) {
	f, backfill, sections := newSectionsFixture(t)
	seedMinimalChart(t, f.accounts)
	seedBackfillEvents(f)
	_, err := backfill.BackfillMissingJournalEntries(context.Background(), testCompanyID, testUserID)
	require.NoError(t, err)

	summary, err := sections.GetSectionTransactions(context.Background(), testCompanyID, domain.SectionProjects)
	require.NoError(t, err)

	// Every generated entry for a project source is covered by its source row;
	// no line of those entries may also appear standalone.
	seen := make(map[string]int)
	for _, tx := range summary.Transactions {
		if tx.Reference != nil {
			seen[*tx.Reference]++
		}
	}
	for ref, n := range seen {
		assert.Equal(t, 1, n, "reference %s appears %d times", ref, n)
	}
}

func TestSectionTransactions_ManualEntryListsStandalone(t *testing.T) {
	f, _, sections := newSectionsFixture(t)
	seedMinimalChart(t, f.accounts)

	draft := balancedDraft("acct-a", "acct-b", decimal.NewFromInt(333))
	draft.Description = "Opening balance adjustment"
	posted, err := f.ledger.PostEntry(context.Background(), testCompanyID, testUserID, draft)
	require.NoError(t, err)

	summary, err := sections.GetSectionTransactions(context.Background(), testCompanyID, domain.SectionFinancial)
	require.NoError(t, err)
	require.Len(t, summary.Transactions, 2, "both lines of the manual entry list")
	for _, tx := range summary.Transactions {
		assert.Equal(t, "Journal Entry", tx.Source)
		require.NotNil(t, tx.JENumber)
		assert.Equal(t, posted.EntryNumber, *tx.JENumber)
	}
	assert.True(t, summary.TotalDebits.Equal(decimal.NewFromInt(333)))
	assert.True(t, summary.TotalCredits.Equal(decimal.NewFromInt(333)))
	assert.True(t, summary.NetAmount.IsZero())
}

func TestSectionTransactions_FinancialCoversInvoicesAndPayments(t *testing.T) {
	f, backfill, sections := newSectionsFixture(t)
	seedMinimalChart(t, f.accounts)
	seedBackfillEvents(f)
	_, err := backfill.BackfillMissingJournalEntries(context.Background(), testCompanyID, testUserID)
	require.NoError(t, err)

	summary, err := sections.GetSectionTransactions(context.Background(), testCompanyID, domain.SectionFinancial)
	require.NoError(t, err)

	inv := rowByID(summary.Transactions, "inv-2")
	require.NotNil(t, inv)
	assert.NotNil(t, inv.JENumber)
	assert.True(t, inv.Credit.Equal(decimal.NewFromInt(8000)), "payables sit in the credit column")

	pay := rowByID(summary.Transactions, "pay-1")
	require.NotNil(t, pay)
	assert.NotNil(t, pay.JENumber)

	draftInv := rowByID(summary.Transactions, "inv-draft")
	require.NotNil(t, draftInv)
	require.NotNil(t, draftInv.JEExpected)
	assert.False(t, *draftInv.JEExpected)

	// Entries from non-financial sources (payroll, depreciation...) surface as
	// standalone lines, so the feed is a complete ledger view.
	var payrollLines int
	for _, tx := range summary.Transactions {
		if tx.Source == "Payroll Run" {
			payrollLines++
		}
	}
	assert.Equal(t, 3, payrollLines, "payroll entry's three lines list standalone")
}

func TestSectionTransactions_EquipmentFeedFiltersDepreciation(t *testing.T) {
	f, backfill, sections := newSectionsFixture(t)
	seedMinimalChart(t, f.accounts)
	seedBackfillEvents(f)
	_, err := backfill.BackfillMissingJournalEntries(context.Background(), testCompanyID, testUserID)
	require.NoError(t, err)

	// Add property depreciation, which must stay out of the equipment feed.
	depreciation := NewDepreciationService(f.resolver, f.ledger, f.generator, 4).(*depreciationService)
	land := decimal.NewFromInt(50000)
	_, err = depreciation.GenerateAllDepreciationJEs(context.Background(), testCompanyID, testUserID,
		domain.PropertyAttributes{
			PropertyID: "prop-9", Name: "Yard office", PropertyType: "commercial",
			PurchasePrice: decimal.NewFromInt(250000), LandValue: &land, StartDate: "2024-01-01",
		})
	require.NoError(t, err)

	summary, err := sections.GetSectionTransactions(context.Background(), testCompanyID, domain.SectionEquipment)
	require.NoError(t, err)

	eq := rowByID(summary.Transactions, "eq-1")
	require.NotNil(t, eq)
	assert.NotNil(t, eq.JENumber)

	var equipDep, propertyDep int
	for _, tx := range summary.Transactions {
		if tx.Source != "Depreciation" {
			continue
		}
		require.NotNil(t, tx.Reference)
		kind, eventID, _, ok := domain.ParseReference(*tx.Reference)
		require.True(t, ok)
		require.Equal(t, domain.KindDepreciation, kind)
		if eventID == "eq-1" {
			equipDep++
		} else {
			propertyDep++
		}
	}
	assert.Equal(t, 6, equipDep, "three months, two lines each")
	assert.Zero(t, propertyDep, "property depreciation stays in the properties feed")
}

func TestSectionTransactions_PropertiesFeed(t *testing.T) {
	f, backfill, sections := newSectionsFixture(t)
	seedMinimalChart(t, f.accounts)
	seedBackfillEvents(f)
	f.events.leases = []domain.Lease{
		{LeaseID: "lease-1", PropertyID: "prop-1", TenantName: "Acme",
			MonthlyRent: decimal.NewFromInt(2000),
			StartDate:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			Status:      "active", HasSchedule: true},
		{LeaseID: "lease-2", PropertyID: "prop-2", TenantName: "Globex",
			MonthlyRent: decimal.NewFromInt(3500),
			StartDate:   time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
			Status:      "active", HasSchedule: false},
	}
	_, err := backfill.BackfillMissingJournalEntries(context.Background(), testCompanyID, testUserID)
	require.NoError(t, err)

	summary, err := sections.GetSectionTransactions(context.Background(), testCompanyID, domain.SectionProperties)
	require.NoError(t, err)

	assert.Nil(t, rowByID(summary.Transactions, "lease-1"), "scheduled lease is represented by its rows")

	bare := rowByID(summary.Transactions, "lease-2")
	require.NotNil(t, bare)
	require.NotNil(t, bare.JEExpected)
	assert.False(t, *bare.JEExpected, "a lease without a schedule has nothing to post")

	accrual := rowByID(summary.Transactions, "row-1")
	require.NotNil(t, accrual)
	assert.NotNil(t, accrual.JENumber)

	rent := rowByID(summary.Transactions, "rent-1")
	require.NotNil(t, rent)
	assert.NotNil(t, rent.JENumber)

	req := rowByID(summary.Transactions, "req-1")
	require.NotNil(t, req)
	assert.NotNil(t, req.JENumber)
	assert.True(t, req.Credit.Equal(decimal.NewFromInt(350)))
}

func TestSectionTransactions_PeopleFeed(t *testing.T) {
	f, backfill, sections := newSectionsFixture(t)
	seedMinimalChart(t, f.accounts)
	seedBackfillEvents(f)
	_, err := backfill.BackfillMissingJournalEntries(context.Background(), testCompanyID, testUserID)
	require.NoError(t, err)

	summary, err := sections.GetSectionTransactions(context.Background(), testCompanyID, domain.SectionPeople)
	require.NoError(t, err)

	run := rowByID(summary.Transactions, "run-1")
	require.NotNil(t, run)
	assert.NotNil(t, run.JENumber)
	assert.True(t, run.Credit.Equal(decimal.NewFromInt(40000)))

	// The payroll entry is covered by its run; nothing else hits this feed.
	assert.Len(t, summary.Transactions, 1)
}

func TestSectionTransactions_SafetyFeedFiltersByAccount(t *testing.T) {
	f, _, sections := newSectionsFixture(t)
	seedMinimalChart(t, f.accounts)
	_, err := f.resolver.EnsureStandardAccounts(context.Background(), testCompanyID, testUserID)
	require.NoError(t, err)
	roles, err := f.resolver.ResolveRoles(context.Background(), testCompanyID)
	require.NoError(t, err)

	draft := balancedDraft(roles[domain.RoleSafetyExpense], roles[domain.RoleCash], decimal.NewFromInt(250))
	draft.Description = "Hard hats and vests"
	_, err = f.ledger.PostEntry(context.Background(), testCompanyID, testUserID, draft)
	require.NoError(t, err)

	summary, err := sections.GetSectionTransactions(context.Background(), testCompanyID, domain.SectionSafety)
	require.NoError(t, err)
	require.Len(t, summary.Transactions, 1, "only the safety expense line lists")
	assert.True(t, summary.Transactions[0].Debit.Equal(decimal.NewFromInt(250)))

	docs, err := sections.GetSectionTransactions(context.Background(), testCompanyID, domain.SectionDocuments)
	require.NoError(t, err)
	assert.Empty(t, docs.Transactions)
}

func TestSectionTransactions_SafetyFeedEmptyWithoutChart(t *testing.T) {
	_, _, sections := newSectionsFixture(t)

	summary, err := sections.GetSectionTransactions(context.Background(), testCompanyID, domain.SectionSafety)
	require.NoError(t, err)
	assert.Empty(t, summary.Transactions)
}

func TestSectionTransactions_SafetyFeedPropagatesStoreErrors(t *testing.T) {
	f, _, sections := newSectionsFixture(t)
	f.accounts.listErr = errors.New("connection reset by peer")

	_, err := sections.GetSectionTransactions(context.Background(), testCompanyID, domain.SectionSafety)
	require.Error(t, err, "a store failure must not read as an empty feed")
	assert.NotErrorIs(t, err, apperrors.ErrNoUsableChart)
}

func TestSectionTransactions_SortedNewestFirst(t *testing.T) {
	f, backfill, sections := newSectionsFixture(t)
	seedMinimalChart(t, f.accounts)
	seedBackfillEvents(f)
	_, err := backfill.BackfillMissingJournalEntries(context.Background(), testCompanyID, testUserID)
	require.NoError(t, err)

	summary, err := sections.GetSectionTransactions(context.Background(), testCompanyID, domain.SectionFinancial)
	require.NoError(t, err)
	for i := 1; i < len(summary.Transactions); i++ {
		assert.False(t, summary.Transactions[i-1].Date.Before(summary.Transactions[i].Date),
			"feed must be ordered newest first")
	}
}

func TestSectionTransactions_UnknownSection(t *testing.T) {
	_, _, sections := newSectionsFixture(t)
	_, err := sections.GetSectionTransactions(context.Background(), testCompanyID, domain.Section("warehouse"))
	assert.Error(t, err)
}

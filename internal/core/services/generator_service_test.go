package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildledger/construction_ledger/internal/core/domain"
	"github.com/buildledger/construction_ledger/internal/utils/accounting"
)

// fullChart seeds cash/AR/AP, ensures the rest and resolves every role.
func fullChart(t *testing.T, f *ledgerFixture) domain.RoleMap {
	t.Helper()
	seedMinimalChart(t, f.accounts)
	_, err := f.resolver.EnsureStandardAccounts(context.Background(), testCompanyID, testUserID)
	require.NoError(t, err)
	roles, err := f.resolver.ResolveRoles(context.Background(), testCompanyID)
	require.NoError(t, err)
	return roles
}

func lineAmount(t *testing.T, entry *domain.JournalEntry, accountID string) (debit, credit decimal.Decimal) {
	t.Helper()
	debit, credit = decimal.Zero, decimal.Zero
	for _, l := range entry.Lines {
		if l.AccountID == accountID {
			debit = debit.Add(l.Debit)
			credit = credit.Add(l.Credit)
		}
	}
	return debit, credit
}

func strPtr(s string) *string { return &s }

func TestInvoiceEntry_ReceivableProjectLinked(t *testing.T) {
	f := newLedgerFixture()
	roles := fullChart(t, f)
	inv := domain.Invoice{
		InvoiceID:     "inv-1",
		CompanyID:     testCompanyID,
		InvoiceNumber: "INV-1001",
		InvoiceType:   domain.Receivable,
		InvoiceDate:   time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
		Amount:        decimal.NewFromInt(25000),
		Status:        "sent",
		ProjectID:     strPtr("proj-1"),
	}

	entry, err := f.generator.InvoiceEntry(context.Background(), testCompanyID, testUserID, inv, roles)
	require.NoError(t, err)
	require.NotNil(t, entry)

	assert.True(t, entry.IsBalanced())
	assert.Equal(t, domain.Posted, entry.Status)
	require.NotNil(t, entry.Reference)
	assert.Equal(t, "invoice:inv-1", *entry.Reference)

	arDebit, _ := lineAmount(t, entry, roles[domain.RoleAccountsReceivable])
	_, revCredit := lineAmount(t, entry, roles[domain.RoleConstructionRevenue])
	assert.True(t, arDebit.Equal(inv.Amount))
	assert.True(t, revCredit.Equal(inv.Amount))

	// back-reference written for display
	assert.Equal(t, entry.EntryID, f.events.backrefs["inv-1"])
}

func TestInvoiceEntry_ReceivablePropertyLinkedUsesRentalRevenue(t *testing.T) {
	f := newLedgerFixture()
	roles := fullChart(t, f)
	inv := domain.Invoice{
		InvoiceID: "inv-2", InvoiceNumber: "INV-1002", InvoiceType: domain.Receivable,
		InvoiceDate: time.Now().UTC(), Amount: decimal.NewFromInt(1800),
		Status: "sent", PropertyID: strPtr("prop-1"),
	}
	entry, err := f.generator.InvoiceEntry(context.Background(), testCompanyID, testUserID, inv, roles)
	require.NoError(t, err)
	require.NotNil(t, entry)
	_, revCredit := lineAmount(t, entry, roles[domain.RoleRentalRevenue])
	assert.True(t, revCredit.Equal(inv.Amount))
}

func TestInvoiceEntry_PayableSplitsRetainage(t *testing.T) {
	f := newLedgerFixture()
	roles := fullChart(t, f)
	inv := domain.Invoice{
		InvoiceID: "inv-3", InvoiceNumber: "INV-2001", InvoiceType: domain.Payable,
		InvoiceDate:   time.Now().UTC(),
		Amount:        decimal.NewFromInt(10000),
		RetainageHeld: decimal.NewFromInt(1000),
		Status:        "approved",
		ProjectID:     strPtr("proj-1"),
	}
	entry, err := f.generator.InvoiceEntry(context.Background(), testCompanyID, testUserID, inv, roles)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.True(t, entry.IsBalanced())

	expDebit, _ := lineAmount(t, entry, roles[domain.RoleConstructionCosts])
	_, apCredit := lineAmount(t, entry, roles[domain.RoleAccountsPayable])
	_, retCredit := lineAmount(t, entry, roles[domain.RoleRetainagePayable])
	assert.True(t, expDebit.Equal(decimal.NewFromInt(10000)))
	assert.True(t, apCredit.Equal(decimal.NewFromInt(9000)))
	assert.True(t, retCredit.Equal(decimal.NewFromInt(1000)))
}

func TestInvoiceEntry_ReceivableSplitsRetainage(t *testing.T) {
	f := newLedgerFixture()
	roles := fullChart(t, f)
	inv := domain.Invoice{
		InvoiceID: "inv-4", InvoiceNumber: "INV-1002", InvoiceType: domain.Receivable,
		InvoiceDate:   time.Now().UTC(),
		Amount:        decimal.NewFromInt(50000),
		RetainageHeld: decimal.NewFromInt(5000),
		Status:        "sent",
		ProjectID:     strPtr("proj-1"),
	}
	entry, err := f.generator.InvoiceEntry(context.Background(), testCompanyID, testUserID, inv, roles)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.True(t, entry.IsBalanced())

	arDebit, _ := lineAmount(t, entry, roles[domain.RoleAccountsReceivable])
	retDebit, _ := lineAmount(t, entry, roles[domain.RoleRetainageReceivable])
	_, revCredit := lineAmount(t, entry, roles[domain.RoleConstructionRevenue])
	assert.True(t, arDebit.Equal(decimal.NewFromInt(45000)), "AR is booked net of retainage")
	assert.True(t, retDebit.Equal(decimal.NewFromInt(5000)))
	assert.True(t, revCredit.Equal(decimal.NewFromInt(50000)))
}

func TestInvoiceEntry_SkipsIneligible(t *testing.T) {
	f := newLedgerFixture()
	roles := fullChart(t, f)
	for _, inv := range []domain.Invoice{
		{InvoiceID: "d", InvoiceType: domain.Receivable, Amount: decimal.NewFromInt(100), Status: "draft"},
		{InvoiceID: "c", InvoiceType: domain.Receivable, Amount: decimal.NewFromInt(100), Status: "cancelled"},
		{InvoiceID: "z", InvoiceType: domain.Receivable, Amount: decimal.Zero, Status: "sent"},
	} {
		entry, err := f.generator.InvoiceEntry(context.Background(), testCompanyID, testUserID, inv, roles)
		require.NoError(t, err)
		assert.Nil(t, entry, "invoice %s should not generate", inv.InvoiceID)
	}
	assert.Zero(t, f.journal.postedCount(testCompanyID))
}

func TestPaymentEntry_OrientsByInvoiceType(t *testing.T) {
	f := newLedgerFixture()
	roles := fullChart(t, f)

	in := domain.Payment{PaymentID: "pay-1", InvoiceID: "inv-1", InvoiceType: domain.Receivable,
		PaymentDate: time.Now().UTC(), Amount: decimal.NewFromInt(500), Method: "check"}
	entry, err := f.generator.PaymentEntry(context.Background(), testCompanyID, testUserID, in, roles)
	require.NoError(t, err)
	require.NotNil(t, entry)
	cashDebit, _ := lineAmount(t, entry, roles[domain.RoleCash])
	_, arCredit := lineAmount(t, entry, roles[domain.RoleAccountsReceivable])
	assert.True(t, cashDebit.Equal(in.Amount))
	assert.True(t, arCredit.Equal(in.Amount))

	out := domain.Payment{PaymentID: "pay-2", InvoiceID: "inv-2", InvoiceType: domain.Payable,
		PaymentDate: time.Now().UTC(), Amount: decimal.NewFromInt(750), Method: "ach"}
	entry, err = f.generator.PaymentEntry(context.Background(), testCompanyID, testUserID, out, roles)
	require.NoError(t, err)
	require.NotNil(t, entry)
	apDebit, _ := lineAmount(t, entry, roles[domain.RoleAccountsPayable])
	_, cashCredit := lineAmount(t, entry, roles[domain.RoleCash])
	assert.True(t, apDebit.Equal(out.Amount))
	assert.True(t, cashCredit.Equal(out.Amount))
}

func TestChangeOrderEntry_NegativeAmountReversesSides(t *testing.T) {
	f := newLedgerFixture()
	roles := fullChart(t, f)
	co := domain.ChangeOrder{
		ChangeOrderID: "co-1", ProjectID: "proj-1", Number: "CO-003",
		Status: "approved", Amount: decimal.NewFromInt(-4000),
		OrderDate: time.Now().UTC(),
	}
	entry, err := f.generator.ChangeOrderEntry(context.Background(), testCompanyID, testUserID, co, roles)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.True(t, entry.IsBalanced())

	revDebit, _ := lineAmount(t, entry, roles[domain.RoleConstructionRevenue])
	_, arCredit := lineAmount(t, entry, roles[domain.RoleAccountsReceivable])
	assert.True(t, revDebit.Equal(decimal.NewFromInt(4000)))
	assert.True(t, arCredit.Equal(decimal.NewFromInt(4000)))
}

func TestChangeOrderEntry_OnlyApprovedGenerate(t *testing.T) {
	f := newLedgerFixture()
	roles := fullChart(t, f)
	co := domain.ChangeOrder{ChangeOrderID: "co-2", ProjectID: "p", Status: "pending",
		Amount: decimal.NewFromInt(1000), OrderDate: time.Now().UTC()}
	entry, err := f.generator.ChangeOrderEntry(context.Background(), testCompanyID, testUserID, co, roles)
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestLeaseScheduleEntry_AccrualAndRecognition(t *testing.T) {
	f := newLedgerFixture()
	roles := fullChart(t, f)
	period := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	accrual := domain.LeaseScheduleRow{RowID: "row-1", LeaseID: "lease-1", PropertyID: "prop-1",
		Kind: domain.ScheduleAccrual, PeriodDate: period, Amount: decimal.NewFromInt(2000), TenantName: "Acme"}
	entry, err := f.generator.LeaseScheduleEntry(context.Background(), testCompanyID, testUserID, accrual, roles)
	require.NoError(t, err)
	require.NotNil(t, entry)
	rrDebit, _ := lineAmount(t, entry, roles[domain.RoleRentReceivable])
	assert.True(t, rrDebit.Equal(accrual.Amount))
	assert.Equal(t, "lease_accrual:row-1", *entry.Reference)

	recognition := domain.LeaseScheduleRow{RowID: "row-2", LeaseID: "lease-1", PropertyID: "prop-1",
		Kind: domain.ScheduleRecognition, PeriodDate: period, Amount: decimal.NewFromInt(2000), TenantName: "Acme"}
	entry, err = f.generator.LeaseScheduleEntry(context.Background(), testCompanyID, testUserID, recognition, roles)
	require.NoError(t, err)
	require.NotNil(t, entry)
	defDebit, _ := lineAmount(t, entry, roles[domain.RoleDeferredRevenue])
	_, revCredit := lineAmount(t, entry, roles[domain.RoleRentalRevenue])
	assert.True(t, defDebit.Equal(recognition.Amount))
	assert.True(t, revCredit.Equal(recognition.Amount))
	assert.Equal(t, "lease_recognition:row-2", *entry.Reference)
}

func TestPayrollRunEntry_SplitsTaxWithholding(t *testing.T) {
	f := newLedgerFixture()
	roles := fullChart(t, f)
	run := domain.PayrollRun{
		PayrollRunID:  "run-1",
		PeriodStart:   time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:     time.Date(2025, 5, 15, 0, 0, 0, 0, time.UTC),
		PayDate:       time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC),
		GrossPay:      decimal.NewFromInt(50000),
		TaxWithheld:   decimal.NewFromInt(12000),
		NetPay:        decimal.NewFromInt(38000),
		EmployeeCount: 14,
		Status:        "paid",
	}
	entry, err := f.generator.PayrollRunEntry(context.Background(), testCompanyID, testUserID, run, roles)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.True(t, entry.IsBalanced())
	require.Len(t, entry.Lines, 3)

	expDebit, _ := lineAmount(t, entry, roles[domain.RolePayrollExpense])
	_, liabCredit := lineAmount(t, entry, roles[domain.RolePayrollLiabilities])
	_, cashCredit := lineAmount(t, entry, roles[domain.RoleCash])
	assert.True(t, expDebit.Equal(decimal.NewFromInt(50000)))
	assert.True(t, liabCredit.Equal(decimal.NewFromInt(12000)))
	assert.True(t, cashCredit.Equal(decimal.NewFromInt(38000)))
}

func TestEquipmentDepreciationEntry_MonthEndDateAndPeriodRef(t *testing.T) {
	f := newLedgerFixture()
	roles := fullChart(t, f)
	eq := domain.Equipment{EquipmentID: "eq-1", Name: "Excavator",
		PurchaseDate: "2024-01-15", PurchasePrice: decimal.NewFromInt(120000), UsefulLifeMonths: 60}
	period := accounting.YearMonth{Year: 2024, Month: time.February}

	entry, err := f.generator.EquipmentDepreciationEntry(context.Background(), testCompanyID, testUserID,
		eq, roles, period, decimal.NewFromInt(2000))
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "depreciation:eq-1:2024-02", *entry.Reference)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), entry.EntryDate)
	expDebit, _ := lineAmount(t, entry, roles[domain.RoleDepreciationExpense])
	_, accCredit := lineAmount(t, entry, roles[domain.RoleAccumulatedDepreciation])
	assert.True(t, expDebit.Equal(decimal.NewFromInt(2000)))
	assert.True(t, accCredit.Equal(decimal.NewFromInt(2000)))
}

func TestMaintenanceRequestEntry_OnlyCompletedWithCost(t *testing.T) {
	f := newLedgerFixture()
	roles := fullChart(t, f)

	open := domain.MaintenanceRequest{RequestID: "req-1", PropertyID: "prop-1",
		RequestDate: time.Now().UTC(), ActualCost: decimal.NewFromInt(300), Status: "open"}
	entry, err := f.generator.MaintenanceRequestEntry(context.Background(), testCompanyID, testUserID, open, roles)
	require.NoError(t, err)
	assert.Nil(t, entry)

	done := open
	done.RequestID = "req-2"
	done.Status = "completed"
	entry, err = f.generator.MaintenanceRequestEntry(context.Background(), testCompanyID, testUserID, done, roles)
	require.NoError(t, err)
	require.NotNil(t, entry)
	rmDebit, _ := lineAmount(t, entry, roles[domain.RoleRepairsMaintenance])
	assert.True(t, rmDebit.Equal(done.ActualCost))
}

func TestGenerators_MissingRoleFailsWithoutPosting(t *testing.T) {
	f := newLedgerFixture()
	// AR only: no revenue account for a receivable invoice to credit.
	ar := seedAccount(t, f.accounts, "Accounts Receivable", domain.Asset, "accounts_receivable", domain.DebitBalance)
	roles := domain.RoleMap{domain.RoleAccountsReceivable: ar.AccountID}

	inv := domain.Invoice{InvoiceID: "inv-9", InvoiceType: domain.Receivable,
		InvoiceDate: time.Now().UTC(), Amount: decimal.NewFromInt(100), Status: "sent"}
	_, err := f.generator.InvoiceEntry(context.Background(), testCompanyID, testUserID, inv, roles)
	assert.Error(t, err)
	assert.Zero(t, f.journal.postedCount(testCompanyID))
}

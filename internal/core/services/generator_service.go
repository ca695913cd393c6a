package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/buildledger/construction_ledger/internal/apperrors"
	"github.com/buildledger/construction_ledger/internal/core/domain"
	portsrepo "github.com/buildledger/construction_ledger/internal/core/ports/repositories"
	portssvc "github.com/buildledger/construction_ledger/internal/core/ports/services"
	"github.com/buildledger/construction_ledger/internal/middleware"
	"github.com/buildledger/construction_ledger/internal/utils/accounting"
)

// generatorService turns business events into posted journal entries. One
// method per event kind; each encodes that kind's debit/credit rule and its
// eligibility conditions.
type generatorService struct {
	ledger    portssvc.LedgerSvcFacade
	eventRepo portsrepo.EventRepositoryFacade
}

// NewGeneratorService creates a new journal entry generator.
func NewGeneratorService(ledger portssvc.LedgerSvcFacade, eventRepo portsrepo.EventRepositoryFacade) portssvc.EntryGeneratorSvcFacade {
	return &generatorService{ledger: ledger, eventRepo: eventRepo}
}

var _ portssvc.EntryGeneratorSvcFacade = (*generatorService)(nil)

func missingRole(role domain.AccountRole) error {
	return apperrors.NewValidationError(fmt.Sprintf("chart of accounts has no %s account", role))
}

func requireRoles(roles domain.RoleMap, required ...domain.AccountRole) error {
	for _, r := range required {
		if !roles.Has(r) {
			return missingRole(r)
		}
	}
	return nil
}

// InvoiceEntry posts accrual recognition for an invoice: receivables debit AR
// and credit revenue, payables debit expense and credit AP. Retainage held is
// split off to Retainage Receivable or Retainage Payable on the matching side.
// Once posted, the invoice's display back-reference is updated best-effort.
func (g *generatorService) InvoiceEntry(ctx context.Context, companyID, userID string, inv domain.Invoice, roles domain.RoleMap) (*domain.JournalEntry, error) {
	if !invoiceEligible(inv) {
		return nil, nil
	}
	ref := domain.KindInvoice.Ref(inv.InvoiceID)
	desc := fmt.Sprintf("Invoice %s - %s", inv.InvoiceNumber, inv.Description)

	var entry domain.JournalEntry
	switch inv.InvoiceType {
	case domain.Receivable:
		revenueRole := domain.RoleConstructionRevenue
		if inv.ProjectID == nil && inv.PropertyID != nil {
			revenueRole = domain.RoleRentalRevenue
		}
		if err := requireRoles(roles, domain.RoleAccountsReceivable, revenueRole); err != nil {
			return nil, err
		}
		retainage := inv.RetainageHeld
		if retainage.IsNegative() || !roles.Has(domain.RoleRetainageReceivable) {
			retainage = decimal.Zero
		}
		if retainage.GreaterThan(inv.Amount) {
			retainage = inv.Amount
		}
		var lines []domain.JournalEntryLine
		if receivable := inv.Amount.Sub(retainage); receivable.IsPositive() {
			lines = append(lines, domain.JournalEntryLine{
				AccountID: roles[domain.RoleAccountsReceivable], Debit: receivable, Credit: decimal.Zero,
				Description: desc, ProjectID: inv.ProjectID, PropertyID: inv.PropertyID,
			})
		}
		if retainage.IsPositive() {
			lines = append(lines, domain.JournalEntryLine{
				AccountID: roles[domain.RoleRetainageReceivable], Debit: retainage, Credit: decimal.Zero,
				Description: fmt.Sprintf("Retainage held on invoice %s", inv.InvoiceNumber), ProjectID: inv.ProjectID, PropertyID: inv.PropertyID,
			})
		}
		lines = append(lines, domain.JournalEntryLine{
			AccountID: roles[revenueRole], Debit: decimal.Zero, Credit: inv.Amount,
			Description: desc, ProjectID: inv.ProjectID, PropertyID: inv.PropertyID,
		})
		refCopy := ref
		entry = domain.JournalEntry{EntryDate: inv.InvoiceDate, Description: desc, Reference: &refCopy, Lines: lines}

	case domain.Payable:
		expenseRole := domain.RoleConstructionCosts
		if inv.ProjectID == nil && inv.PropertyID != nil {
			expenseRole = domain.RoleRepairsMaintenance
		}
		if err := requireRoles(roles, domain.RoleAccountsPayable, expenseRole); err != nil {
			return nil, err
		}
		retainage := inv.RetainageHeld
		if retainage.IsNegative() || !roles.Has(domain.RoleRetainagePayable) {
			retainage = decimal.Zero
		}
		if retainage.GreaterThan(inv.Amount) {
			retainage = inv.Amount
		}
		lines := []domain.JournalEntryLine{
			{AccountID: roles[expenseRole], Debit: inv.Amount, Credit: decimal.Zero, Description: desc, ProjectID: inv.ProjectID, PropertyID: inv.PropertyID},
		}
		if payable := inv.Amount.Sub(retainage); payable.IsPositive() {
			lines = append(lines, domain.JournalEntryLine{
				AccountID: roles[domain.RoleAccountsPayable], Debit: decimal.Zero, Credit: payable,
				Description: desc, ProjectID: inv.ProjectID, PropertyID: inv.PropertyID,
			})
		}
		if retainage.IsPositive() {
			lines = append(lines, domain.JournalEntryLine{
				AccountID: roles[domain.RoleRetainagePayable], Debit: decimal.Zero, Credit: retainage,
				Description: fmt.Sprintf("Retainage held on invoice %s", inv.InvoiceNumber), ProjectID: inv.ProjectID, PropertyID: inv.PropertyID,
			})
		}
		refCopy := ref
		entry = domain.JournalEntry{EntryDate: inv.InvoiceDate, Description: desc, Reference: &refCopy, Lines: lines}

	default:
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown invoice type %q", inv.InvoiceType))
	}

	posted, err := g.ledger.PostEntry(ctx, companyID, userID, entry)
	if err != nil {
		return nil, err
	}
	if err := g.eventRepo.SetInvoiceJournalEntryID(ctx, companyID, inv.InvoiceID, posted.EntryID); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Failed to update invoice journal entry back-reference",
			slog.String("invoice_id", inv.InvoiceID), slog.String("error", err.Error()))
	}
	return posted, nil
}

func invoiceEligible(inv domain.Invoice) bool {
	switch inv.Status {
	case "draft", "cancelled", "void":
		return false
	}
	return inv.Amount.IsPositive()
}

// PaymentEntry posts cash movement against the invoice's open balance:
// receivable payments debit Cash and credit AR, payable payments debit AP and
// credit Cash.
func (g *generatorService) PaymentEntry(ctx context.Context, companyID, userID string, p domain.Payment, roles domain.RoleMap) (*domain.JournalEntry, error) {
	if !p.Amount.IsPositive() {
		return nil, nil
	}
	ref := domain.KindPayment.Ref(p.PaymentID)
	var entry domain.JournalEntry
	switch p.InvoiceType {
	case domain.Receivable:
		if err := requireRoles(roles, domain.RoleCash, domain.RoleAccountsReceivable); err != nil {
			return nil, err
		}
		desc := fmt.Sprintf("Payment received (%s)", p.Method)
		entry = twoLine(p.PaymentDate, desc, ref, roles[domain.RoleCash], roles[domain.RoleAccountsReceivable], p.Amount, p.ProjectID, p.PropertyID)
	case domain.Payable:
		if err := requireRoles(roles, domain.RoleCash, domain.RoleAccountsPayable); err != nil {
			return nil, err
		}
		desc := fmt.Sprintf("Payment issued (%s)", p.Method)
		entry = twoLine(p.PaymentDate, desc, ref, roles[domain.RoleAccountsPayable], roles[domain.RoleCash], p.Amount, p.ProjectID, p.PropertyID)
	default:
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown invoice type %q on payment", p.InvoiceType))
	}
	return g.ledger.PostEntry(ctx, companyID, userID, entry)
}

// ChangeOrderEntry posts approved change orders as contract revenue
// adjustments. Negative amounts (deductive change orders) reverse the sides.
func (g *generatorService) ChangeOrderEntry(ctx context.Context, companyID, userID string, co domain.ChangeOrder, roles domain.RoleMap) (*domain.JournalEntry, error) {
	if !changeOrderEligible(co) {
		return nil, nil
	}
	if err := requireRoles(roles, domain.RoleAccountsReceivable, domain.RoleConstructionRevenue); err != nil {
		return nil, err
	}
	ref := domain.KindChangeOrder.Ref(co.ChangeOrderID)
	desc := fmt.Sprintf("Change order %s - %s", co.Number, co.Description)
	projectID := co.ProjectID

	debit, credit := roles[domain.RoleAccountsReceivable], roles[domain.RoleConstructionRevenue]
	amount := co.Amount
	if amount.IsNegative() {
		debit, credit = credit, debit
		amount = amount.Abs()
	}
	entry := twoLine(co.OrderDate, desc, ref, debit, credit, amount, &projectID, nil)
	return g.ledger.PostEntry(ctx, companyID, userID, entry)
}

func changeOrderEligible(co domain.ChangeOrder) bool {
	return co.Status == "approved" && !co.Amount.IsZero()
}

// ContractEntry recognizes executed contract value as construction revenue.
func (g *generatorService) ContractEntry(ctx context.Context, companyID, userID string, c domain.Contract, roles domain.RoleMap) (*domain.JournalEntry, error) {
	if !contractEligible(c) {
		return nil, nil
	}
	if err := requireRoles(roles, domain.RoleAccountsReceivable, domain.RoleConstructionRevenue); err != nil {
		return nil, err
	}
	ref := domain.KindContract.Ref(c.ContractID)
	desc := fmt.Sprintf("Contract %s - %s", c.Number, c.Title)
	entry := twoLine(c.StartDate, desc, ref, roles[domain.RoleAccountsReceivable], roles[domain.RoleConstructionRevenue], c.Amount, c.ProjectID, nil)
	return g.ledger.PostEntry(ctx, companyID, userID, entry)
}

func contractEligible(c domain.Contract) bool {
	return (c.Status == "executed" || c.Status == "completed") && c.Amount.IsPositive()
}

// LeaseScheduleEntry posts one lease schedule row: accrual rows debit Rent
// Receivable, recognition rows release Deferred Rental Revenue. Both credit
// Rental Income.
func (g *generatorService) LeaseScheduleEntry(ctx context.Context, companyID, userID string, row domain.LeaseScheduleRow, roles domain.RoleMap) (*domain.JournalEntry, error) {
	if !row.Amount.IsPositive() {
		return nil, nil
	}
	propertyID := row.PropertyID

	var ref, desc string
	var debitRole domain.AccountRole
	switch row.Kind {
	case domain.ScheduleAccrual:
		ref = domain.KindLeaseAccrual.Ref(row.RowID)
		desc = fmt.Sprintf("Rent accrual %s - %s", row.PeriodDate.Format("2006-01"), row.TenantName)
		debitRole = domain.RoleRentReceivable
	case domain.ScheduleRecognition:
		ref = domain.KindLeaseRecognition.Ref(row.RowID)
		desc = fmt.Sprintf("Rent revenue recognition %s - %s", row.PeriodDate.Format("2006-01"), row.TenantName)
		debitRole = domain.RoleDeferredRevenue
	default:
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown lease schedule kind %q", row.Kind))
	}
	if err := requireRoles(roles, debitRole, domain.RoleRentalRevenue); err != nil {
		return nil, err
	}
	entry := twoLine(row.PeriodDate, desc, ref, roles[debitRole], roles[domain.RoleRentalRevenue], row.Amount, nil, &propertyID)
	return g.ledger.PostEntry(ctx, companyID, userID, entry)
}

// RentPaymentEntry posts tenant cash receipts against accrued rent.
func (g *generatorService) RentPaymentEntry(ctx context.Context, companyID, userID string, rp domain.RentPayment, roles domain.RoleMap) (*domain.JournalEntry, error) {
	if !rp.Amount.IsPositive() {
		return nil, nil
	}
	if err := requireRoles(roles, domain.RoleCash, domain.RoleRentReceivable); err != nil {
		return nil, err
	}
	ref := domain.KindRentPayment.Ref(rp.RentPaymentID)
	desc := fmt.Sprintf("Rent payment - %s", rp.TenantName)
	propertyID := rp.PropertyID
	entry := twoLine(rp.PaymentDate, desc, ref, roles[domain.RoleCash], roles[domain.RoleRentReceivable], rp.Amount, nil, &propertyID)
	return g.ledger.PostEntry(ctx, companyID, userID, entry)
}

// EquipmentPurchaseEntry capitalizes the asset at cost against cash.
func (g *generatorService) EquipmentPurchaseEntry(ctx context.Context, companyID, userID string, eq domain.Equipment, roles domain.RoleMap) (*domain.JournalEntry, error) {
	if !eq.PurchasePrice.IsPositive() {
		return nil, nil
	}
	if err := requireRoles(roles, domain.RoleEquipment, domain.RoleCash); err != nil {
		return nil, err
	}
	purchased, err := accounting.ParseLocalDate(eq.PurchaseDate)
	if err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("equipment %s has invalid purchase date %q", eq.EquipmentID, eq.PurchaseDate))
	}
	ref := domain.KindEquipmentPurchase.Ref(eq.EquipmentID)
	desc := fmt.Sprintf("Equipment purchase - %s", eq.Name)
	entry := twoLine(purchased.Time(), desc, ref, roles[domain.RoleEquipment], roles[domain.RoleCash], eq.PurchasePrice, eq.ProjectID, nil)
	return g.ledger.PostEntry(ctx, companyID, userID, entry)
}

// EquipmentDepreciationEntry posts one month of straight-line depreciation for
// one equipment asset, dated at month end.
func (g *generatorService) EquipmentDepreciationEntry(ctx context.Context, companyID, userID string, eq domain.Equipment, roles domain.RoleMap, period accounting.YearMonth, monthly decimal.Decimal) (*domain.JournalEntry, error) {
	if !monthly.IsPositive() {
		return nil, nil
	}
	if err := requireRoles(roles, domain.RoleDepreciationExpense, domain.RoleAccumulatedDepreciation); err != nil {
		return nil, err
	}
	ref := domain.KindDepreciation.PeriodRef(eq.EquipmentID, period.Year, period.Month)
	desc := fmt.Sprintf("Depreciation %s - %s", period, eq.Name)
	entry := twoLine(period.MonthEnd(), desc, ref, roles[domain.RoleDepreciationExpense], roles[domain.RoleAccumulatedDepreciation], monthly, eq.ProjectID, nil)
	return g.ledger.PostEntry(ctx, companyID, userID, entry)
}

// PropertyDepreciationEntry is the property-side monthly depreciation entry.
func (g *generatorService) PropertyDepreciationEntry(ctx context.Context, companyID, userID string, attrs domain.PropertyAttributes, roles domain.RoleMap, period accounting.YearMonth, monthly decimal.Decimal) (*domain.JournalEntry, error) {
	if !monthly.IsPositive() {
		return nil, nil
	}
	if err := requireRoles(roles, domain.RoleDepreciationExpense, domain.RoleAccumulatedDepreciation); err != nil {
		return nil, err
	}
	ref := domain.KindDepreciation.PeriodRef(attrs.PropertyID, period.Year, period.Month)
	desc := fmt.Sprintf("Depreciation %s - %s", period, attrs.Name)
	propertyID := attrs.PropertyID
	entry := twoLine(period.MonthEnd(), desc, ref, roles[domain.RoleDepreciationExpense], roles[domain.RoleAccumulatedDepreciation], monthly, nil, &propertyID)
	return g.ledger.PostEntry(ctx, companyID, userID, entry)
}

// PayrollRunEntry posts gross pay as expense, withholdings as a liability and
// the remainder as cash out. The cash line is derived as gross minus
// withholding so the entry balances even when the stored net drifts.
func (g *generatorService) PayrollRunEntry(ctx context.Context, companyID, userID string, run domain.PayrollRun, roles domain.RoleMap) (*domain.JournalEntry, error) {
	if !payrollEligible(run) {
		return nil, nil
	}
	if err := requireRoles(roles, domain.RolePayrollExpense, domain.RoleCash); err != nil {
		return nil, err
	}
	tax := run.TaxWithheld
	if tax.IsNegative() || !roles.Has(domain.RolePayrollLiabilities) {
		tax = decimal.Zero
	}
	if tax.GreaterThan(run.GrossPay) {
		tax = run.GrossPay
	}
	cash := run.GrossPay.Sub(tax)

	ref := domain.KindPayrollRun.Ref(run.PayrollRunID)
	desc := fmt.Sprintf("Payroll %s to %s (%d employees)",
		run.PeriodStart.Format("2006-01-02"), run.PeriodEnd.Format("2006-01-02"), run.EmployeeCount)
	lines := []domain.JournalEntryLine{
		{AccountID: roles[domain.RolePayrollExpense], Debit: run.GrossPay, Credit: decimal.Zero, Description: desc},
	}
	if tax.IsPositive() {
		lines = append(lines, domain.JournalEntryLine{
			AccountID: roles[domain.RolePayrollLiabilities], Debit: decimal.Zero, Credit: tax,
			Description: "Payroll tax withheld",
		})
	}
	if cash.IsPositive() {
		lines = append(lines, domain.JournalEntryLine{
			AccountID: roles[domain.RoleCash], Debit: decimal.Zero, Credit: cash,
			Description: "Net pay disbursed",
		})
	}
	entry := domain.JournalEntry{EntryDate: run.PayDate, Description: desc, Reference: &ref, Lines: lines}
	return g.ledger.PostEntry(ctx, companyID, userID, entry)
}

func payrollEligible(run domain.PayrollRun) bool {
	return run.Status != "draft" && run.GrossPay.IsPositive()
}

// MaintenanceRequestEntry expenses completed property maintenance work.
func (g *generatorService) MaintenanceRequestEntry(ctx context.Context, companyID, userID string, req domain.MaintenanceRequest, roles domain.RoleMap) (*domain.JournalEntry, error) {
	if !maintenanceEligible(req) {
		return nil, nil
	}
	if err := requireRoles(roles, domain.RoleRepairsMaintenance, domain.RoleCash); err != nil {
		return nil, err
	}
	ref := domain.KindMaintenance.Ref(req.RequestID)
	desc := fmt.Sprintf("Maintenance - %s", req.Description)
	propertyID := req.PropertyID
	entry := twoLine(req.RequestDate, desc, ref, roles[domain.RoleRepairsMaintenance], roles[domain.RoleCash], req.ActualCost, nil, &propertyID)
	return g.ledger.PostEntry(ctx, companyID, userID, entry)
}

func maintenanceEligible(req domain.MaintenanceRequest) bool {
	return req.Status == "completed" && req.ActualCost.IsPositive()
}

// EquipMaintenanceEntry expenses an equipment service log.
func (g *generatorService) EquipMaintenanceEntry(ctx context.Context, companyID, userID string, log domain.EquipmentMaintenanceLog, roles domain.RoleMap) (*domain.JournalEntry, error) {
	if !log.Cost.IsPositive() {
		return nil, nil
	}
	if err := requireRoles(roles, domain.RoleRepairsMaintenance, domain.RoleCash); err != nil {
		return nil, err
	}
	ref := domain.KindEquipMaintenance.Ref(log.LogID)
	desc := fmt.Sprintf("Equipment maintenance - %s", log.Description)
	entry := twoLine(log.ServiceDate, desc, ref, roles[domain.RoleRepairsMaintenance], roles[domain.RoleCash], log.Cost, nil, nil)
	return g.ledger.PostEntry(ctx, companyID, userID, entry)
}

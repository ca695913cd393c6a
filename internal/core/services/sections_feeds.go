package services

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/buildledger/construction_ledger/internal/apperrors"
	"github.com/buildledger/construction_ledger/internal/core/domain"
	"github.com/buildledger/construction_ledger/internal/dto"
	"github.com/buildledger/construction_ledger/internal/utils/accounting"
)

// projectTransactions: change orders, project-linked invoices, payments and
// contracts, RFIs, plus standalone project-linked lines.
func (s *sectionsService) projectTransactions(ctx context.Context, companyID string) (*dto.SectionTransactionSummary, error) {
	var (
		changeOrders []domain.ChangeOrder
		invoices     []domain.Invoice
		payments     []domain.Payment
		contracts    []domain.Contract
		rfis         []domain.RFI
		lines        []domain.PostedLine
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { changeOrders, err = s.eventRepo.ListChangeOrders(gctx, companyID); return })
	g.Go(func() (err error) { invoices, err = s.eventRepo.ListInvoices(gctx, companyID); return })
	g.Go(func() (err error) { payments, err = s.eventRepo.ListPayments(gctx, companyID); return })
	g.Go(func() (err error) { contracts, err = s.eventRepo.ListContracts(gctx, companyID); return })
	g.Go(func() (err error) { rfis, err = s.eventRepo.ListRFIs(gctx, companyID); return })
	g.Go(func() (err error) {
		lines, err = s.journalRepo.ListPostedLines(gctx, companyID, domain.ProjectLines)
		return
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	invoices = filterInvoices(invoices, func(inv domain.Invoice) bool { return inv.ProjectID != nil })
	payments = filterPayments(payments, func(p domain.Payment) bool { return p.ProjectID != nil })
	contracts = filterContracts(contracts, func(c domain.Contract) bool { return c.ProjectID != nil })

	refs := make([]string, 0, len(changeOrders)+len(invoices)+len(payments)+len(contracts))
	for _, co := range changeOrders {
		refs = append(refs, domain.KindChangeOrder.Ref(co.ChangeOrderID))
	}
	for _, inv := range invoices {
		refs = append(refs, domain.KindInvoice.Ref(inv.InvoiceID))
	}
	for _, p := range payments {
		refs = append(refs, domain.KindPayment.Ref(p.PaymentID))
	}
	for _, c := range contracts {
		refs = append(refs, domain.KindContract.Ref(c.ContractID))
	}
	byRef, err := s.journalRepo.FindPostedEntriesByReferences(ctx, companyID, refs)
	if err != nil {
		return nil, err
	}

	b := newFeedBuilder()
	for _, co := range changeOrders {
		debit, credit := co.Amount, decimal.Zero
		if co.Amount.IsNegative() {
			debit, credit = decimal.Zero, co.Amount.Abs()
		}
		tx := sourceRow(domain.KindChangeOrder, co.ChangeOrderID, co.OrderDate,
			"Change order "+co.Number+" - "+co.Description, debit, credit)
		b.addSource(tx, entryFor(byRef, domain.KindChangeOrder.Ref(co.ChangeOrderID)), changeOrderEligible(co))
	}
	for _, inv := range invoices {
		b.addSource(invoiceRow(inv), entryFor(byRef, domain.KindInvoice.Ref(inv.InvoiceID)), invoiceEligible(inv))
	}
	for _, p := range payments {
		b.addSource(paymentRow(p), entryFor(byRef, domain.KindPayment.Ref(p.PaymentID)), p.Amount.IsPositive())
	}
	for _, c := range contracts {
		tx := sourceRow(domain.KindContract, c.ContractID, c.StartDate,
			"Contract "+c.Number+" - "+c.Title, c.Amount, decimal.Zero)
		b.addSource(tx, entryFor(byRef, domain.KindContract.Ref(c.ContractID)), contractEligible(c))
	}
	for _, rfi := range rfis {
		// RFIs are cost forecasts: shown for completeness, never posted.
		tx := sourceRow(domain.KindRFI, rfi.RFIID, rfi.RaisedDate,
			"RFI "+rfi.Number+" - "+rfi.Subject, decimal.Zero, rfi.CostImpact)
		b.addSource(tx, nil, false)
	}
	b.addStandaloneLines(lines, nil)
	return b.summary(domain.SectionProjects), nil
}

// propertyTransactions: property-linked invoices, lease schedule rows, leases
// without a schedule, rent payments, maintenance requests, plus standalone
// property-linked lines.
func (s *sectionsService) propertyTransactions(ctx context.Context, companyID string) (*dto.SectionTransactionSummary, error) {
	var (
		invoices     []domain.Invoice
		schedule     []domain.LeaseScheduleRow
		leases       []domain.Lease
		rentPayments []domain.RentPayment
		maintenance  []domain.MaintenanceRequest
		lines        []domain.PostedLine
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { invoices, err = s.eventRepo.ListInvoices(gctx, companyID); return })
	g.Go(func() (err error) { schedule, err = s.eventRepo.ListLeaseScheduleRows(gctx, companyID); return })
	g.Go(func() (err error) { leases, err = s.eventRepo.ListLeases(gctx, companyID); return })
	g.Go(func() (err error) { rentPayments, err = s.eventRepo.ListRentPayments(gctx, companyID); return })
	g.Go(func() (err error) { maintenance, err = s.eventRepo.ListMaintenanceRequests(gctx, companyID); return })
	g.Go(func() (err error) {
		lines, err = s.journalRepo.ListPostedLines(gctx, companyID, domain.PropertyLines)
		return
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	invoices = filterInvoices(invoices, func(inv domain.Invoice) bool { return inv.PropertyID != nil })

	refs := make([]string, 0, len(invoices)+len(schedule)+len(rentPayments)+len(maintenance))
	for _, inv := range invoices {
		refs = append(refs, domain.KindInvoice.Ref(inv.InvoiceID))
	}
	for _, row := range schedule {
		refs = append(refs, leaseScheduleRef(row))
	}
	for _, rp := range rentPayments {
		refs = append(refs, domain.KindRentPayment.Ref(rp.RentPaymentID))
	}
	for _, req := range maintenance {
		refs = append(refs, domain.KindMaintenance.Ref(req.RequestID))
	}
	byRef, err := s.journalRepo.FindPostedEntriesByReferences(ctx, companyID, refs)
	if err != nil {
		return nil, err
	}

	b := newFeedBuilder()
	for _, inv := range invoices {
		b.addSource(invoiceRow(inv), entryFor(byRef, domain.KindInvoice.Ref(inv.InvoiceID)), invoiceEligible(inv))
	}
	for _, row := range schedule {
		kind := domain.KindLeaseAccrual
		desc := "Rent accrual " + row.PeriodDate.Format("2006-01") + " - " + row.TenantName
		if row.Kind == domain.ScheduleRecognition {
			kind = domain.KindLeaseRecognition
			desc = "Rent revenue recognition " + row.PeriodDate.Format("2006-01") + " - " + row.TenantName
		}
		tx := sourceRow(kind, row.RowID, row.PeriodDate, desc, row.Amount, decimal.Zero)
		b.addSource(tx, entryFor(byRef, leaseScheduleRef(row)), row.Amount.IsPositive())
	}
	for _, lease := range leases {
		if lease.HasSchedule {
			continue // represented by its schedule rows above
		}
		tx := sourceRow(domain.KindLease, lease.LeaseID, lease.StartDate,
			"Lease - "+lease.TenantName, lease.MonthlyRent, decimal.Zero)
		b.addSource(tx, nil, false)
	}
	for _, rp := range rentPayments {
		tx := sourceRow(domain.KindRentPayment, rp.RentPaymentID, rp.PaymentDate,
			"Rent payment - "+rp.TenantName, rp.Amount, decimal.Zero)
		b.addSource(tx, entryFor(byRef, domain.KindRentPayment.Ref(rp.RentPaymentID)), rp.Amount.IsPositive())
	}
	for _, req := range maintenance {
		tx := sourceRow(domain.KindMaintenance, req.RequestID, req.RequestDate,
			"Maintenance - "+req.Description, decimal.Zero, req.ActualCost)
		b.addSource(tx, entryFor(byRef, domain.KindMaintenance.Ref(req.RequestID)), maintenanceEligible(req))
	}
	b.addStandaloneLines(lines, nil)
	return b.summary(domain.SectionProperties), nil
}

// financialTransactions: every invoice and payment, plus every posted line
// not covered by one of them, manual entries included.
func (s *sectionsService) financialTransactions(ctx context.Context, companyID string) (*dto.SectionTransactionSummary, error) {
	var (
		invoices []domain.Invoice
		payments []domain.Payment
		lines    []domain.PostedLine
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { invoices, err = s.eventRepo.ListInvoices(gctx, companyID); return })
	g.Go(func() (err error) { payments, err = s.eventRepo.ListPayments(gctx, companyID); return })
	g.Go(func() (err error) {
		lines, err = s.journalRepo.ListPostedLines(gctx, companyID, domain.AllLines)
		return
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	refs := make([]string, 0, len(invoices)+len(payments))
	for _, inv := range invoices {
		refs = append(refs, domain.KindInvoice.Ref(inv.InvoiceID))
	}
	for _, p := range payments {
		refs = append(refs, domain.KindPayment.Ref(p.PaymentID))
	}
	byRef, err := s.journalRepo.FindPostedEntriesByReferences(ctx, companyID, refs)
	if err != nil {
		return nil, err
	}

	b := newFeedBuilder()
	for _, inv := range invoices {
		b.addSource(invoiceRow(inv), entryFor(byRef, domain.KindInvoice.Ref(inv.InvoiceID)), invoiceEligible(inv))
	}
	for _, p := range payments {
		b.addSource(paymentRow(p), entryFor(byRef, domain.KindPayment.Ref(p.PaymentID)), p.Amount.IsPositive())
	}
	b.addStandaloneLines(lines, nil)
	return b.summary(domain.SectionFinancial), nil
}

// peopleTransactions: payroll runs plus standalone payroll and labor lines.
func (s *sectionsService) peopleTransactions(ctx context.Context, companyID string) (*dto.SectionTransactionSummary, error) {
	var (
		runs  []domain.PayrollRun
		lines []domain.PostedLine
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { runs, err = s.eventRepo.ListPayrollRuns(gctx, companyID); return })
	g.Go(func() (err error) {
		lines, err = s.journalRepo.ListPostedLines(gctx, companyID, domain.AllLines)
		return
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	refs := make([]string, 0, len(runs))
	for _, run := range runs {
		refs = append(refs, domain.KindPayrollRun.Ref(run.PayrollRunID))
	}
	byRef, err := s.journalRepo.FindPostedEntriesByReferences(ctx, companyID, refs)
	if err != nil {
		return nil, err
	}

	b := newFeedBuilder()
	for _, run := range runs {
		desc := "Payroll " + run.PeriodStart.Format("2006-01-02") + " to " + run.PeriodEnd.Format("2006-01-02")
		tx := sourceRow(domain.KindPayrollRun, run.PayrollRunID, run.PayDate, desc, decimal.Zero, run.GrossPay)
		b.addSource(tx, entryFor(byRef, domain.KindPayrollRun.Ref(run.PayrollRunID)), payrollEligible(run))
	}
	b.addStandaloneLines(lines, func(line domain.PostedLine) bool {
		return kindIn(line, domain.KindPayrollRun, domain.KindLabor)
	})
	return b.summary(domain.SectionPeople), nil
}

// equipmentTransactions: equipment purchases and service logs, plus standalone
// purchase, maintenance and non-property depreciation lines.
func (s *sectionsService) equipmentTransactions(ctx context.Context, companyID string) (*dto.SectionTransactionSummary, error) {
	var (
		equipment []domain.Equipment
		logs      []domain.EquipmentMaintenanceLog
		lines     []domain.PostedLine
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { equipment, err = s.eventRepo.ListEquipment(gctx, companyID); return })
	g.Go(func() (err error) { logs, err = s.eventRepo.ListEquipmentMaintenanceLogs(gctx, companyID); return })
	g.Go(func() (err error) {
		lines, err = s.journalRepo.ListPostedLines(gctx, companyID, domain.AllLines)
		return
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	refs := make([]string, 0, len(equipment)+len(logs))
	for _, eq := range equipment {
		refs = append(refs, domain.KindEquipmentPurchase.Ref(eq.EquipmentID))
	}
	for _, mlog := range logs {
		refs = append(refs, domain.KindEquipMaintenance.Ref(mlog.LogID))
	}
	byRef, err := s.journalRepo.FindPostedEntriesByReferences(ctx, companyID, refs)
	if err != nil {
		return nil, err
	}

	b := newFeedBuilder()
	for _, eq := range equipment {
		purchased, perr := parseEquipmentDate(eq.PurchaseDate)
		tx := sourceRow(domain.KindEquipmentPurchase, eq.EquipmentID, purchased,
			"Equipment purchase - "+eq.Name, decimal.Zero, eq.PurchasePrice)
		b.addSource(tx, entryFor(byRef, domain.KindEquipmentPurchase.Ref(eq.EquipmentID)),
			perr == nil && eq.PurchasePrice.IsPositive())
	}
	for _, mlog := range logs {
		tx := sourceRow(domain.KindEquipMaintenance, mlog.LogID, mlog.ServiceDate,
			"Equipment maintenance - "+mlog.Description, decimal.Zero, mlog.Cost)
		b.addSource(tx, entryFor(byRef, domain.KindEquipMaintenance.Ref(mlog.LogID)), mlog.Cost.IsPositive())
	}
	b.addStandaloneLines(lines, func(line domain.PostedLine) bool {
		if kindIn(line, domain.KindEquipmentPurchase, domain.KindEquipMaintenance) {
			return true
		}
		// Depreciation references carry either an equipment or a property ID;
		// only the equipment ones (no property-linked line) belong here.
		return kindIn(line, domain.KindDepreciation) && line.PropertyID == nil
	})
	return b.summary(domain.SectionEquipment), nil
}

// expenseAccountTransactions serves the safety and documents sections, which
// have no source event tables: their feed is the posted lines hitting their
// dedicated expense account.
func (s *sectionsService) expenseAccountTransactions(ctx context.Context, companyID string, section domain.Section, role domain.AccountRole) (*dto.SectionTransactionSummary, error) {
	roles, err := s.resolver.ResolveRoles(ctx, companyID)
	if errors.Is(err, apperrors.ErrNoUsableChart) {
		// No usable chart means no posted entries either; serve an empty feed.
		return newFeedBuilder().summary(section), nil
	}
	if err != nil {
		return nil, err
	}
	accountID, ok := roles[role]
	if !ok {
		return newFeedBuilder().summary(section), nil
	}

	lines, err := s.journalRepo.ListPostedLines(ctx, companyID, domain.AllLines)
	if err != nil {
		return nil, err
	}
	b := newFeedBuilder()
	b.addStandaloneLines(lines, func(line domain.PostedLine) bool {
		return line.AccountID == accountID
	})
	return b.summary(section), nil
}

// crmTransactions: contracts plus standalone contract lines.
func (s *sectionsService) crmTransactions(ctx context.Context, companyID string) (*dto.SectionTransactionSummary, error) {
	var (
		contracts []domain.Contract
		lines     []domain.PostedLine
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { contracts, err = s.eventRepo.ListContracts(gctx, companyID); return })
	g.Go(func() (err error) {
		lines, err = s.journalRepo.ListPostedLines(gctx, companyID, domain.AllLines)
		return
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	refs := make([]string, 0, len(contracts))
	for _, c := range contracts {
		refs = append(refs, domain.KindContract.Ref(c.ContractID))
	}
	byRef, err := s.journalRepo.FindPostedEntriesByReferences(ctx, companyID, refs)
	if err != nil {
		return nil, err
	}

	b := newFeedBuilder()
	for _, c := range contracts {
		tx := sourceRow(domain.KindContract, c.ContractID, c.StartDate,
			"Contract "+c.Number+" - "+c.Title, c.Amount, decimal.Zero)
		b.addSource(tx, entryFor(byRef, domain.KindContract.Ref(c.ContractID)), contractEligible(c))
	}
	b.addStandaloneLines(lines, func(line domain.PostedLine) bool {
		return kindIn(line, domain.KindContract)
	})
	return b.summary(domain.SectionCRM), nil
}

// invoiceRow orients the invoice amount: receivables are money in (debit
// column), payables money out (credit column).
func invoiceRow(inv domain.Invoice) domain.SectionTransaction {
	debit, credit := inv.Amount, decimal.Zero
	if inv.InvoiceType == domain.Payable {
		debit, credit = decimal.Zero, inv.Amount
	}
	return sourceRow(domain.KindInvoice, inv.InvoiceID, inv.InvoiceDate,
		"Invoice "+inv.InvoiceNumber+" - "+inv.Description, debit, credit)
}

func paymentRow(p domain.Payment) domain.SectionTransaction {
	debit, credit := p.Amount, decimal.Zero
	desc := "Payment received (" + p.Method + ")"
	if p.InvoiceType == domain.Payable {
		debit, credit = decimal.Zero, p.Amount
		desc = "Payment issued (" + p.Method + ")"
	}
	return sourceRow(domain.KindPayment, p.PaymentID, p.PaymentDate, desc, debit, credit)
}

func leaseScheduleRef(row domain.LeaseScheduleRow) string {
	if row.Kind == domain.ScheduleRecognition {
		return domain.KindLeaseRecognition.Ref(row.RowID)
	}
	return domain.KindLeaseAccrual.Ref(row.RowID)
}

func filterInvoices(invoices []domain.Invoice, keep func(domain.Invoice) bool) []domain.Invoice {
	out := invoices[:0:0]
	for _, inv := range invoices {
		if keep(inv) {
			out = append(out, inv)
		}
	}
	return out
}

func filterPayments(payments []domain.Payment, keep func(domain.Payment) bool) []domain.Payment {
	out := payments[:0:0]
	for _, p := range payments {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

func filterContracts(contracts []domain.Contract, keep func(domain.Contract) bool) []domain.Contract {
	out := contracts[:0:0]
	for _, c := range contracts {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

func parseEquipmentDate(s string) (time.Time, error) {
	d, err := accounting.ParseLocalDate(s)
	if err != nil {
		return time.Time{}, err
	}
	return d.Time(), nil
}

package services

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/buildledger/construction_ledger/internal/apperrors"
	"github.com/buildledger/construction_ledger/internal/core/domain"
	portsrepo "github.com/buildledger/construction_ledger/internal/core/ports/repositories"
	portssvc "github.com/buildledger/construction_ledger/internal/core/ports/services"
	"github.com/buildledger/construction_ledger/internal/dto"
	"github.com/buildledger/construction_ledger/internal/middleware"
	"github.com/buildledger/construction_ledger/internal/utils/accounting"
)

// backfillService scans every business-event table for a tenant and derives
// the journal entries that are missing. Coverage is decided solely by posted
// reference keys, so re-running against a fully covered tenant writes nothing.
type backfillService struct {
	resolver      portssvc.AccountResolverSvcFacade
	ledger        portssvc.LedgerSvcFacade
	generator     portssvc.EntryGeneratorSvcFacade
	eventRepo     portsrepo.EventRepositoryFacade
	recordTimeout time.Duration
	postLimit     int
	now           func() time.Time // injectable for tests
}

// NewBackfillService creates a new backfill orchestrator. recordTimeout bounds
// each single-record generation; postLimit caps concurrent depreciation posts.
func NewBackfillService(resolver portssvc.AccountResolverSvcFacade, ledger portssvc.LedgerSvcFacade, generator portssvc.EntryGeneratorSvcFacade, eventRepo portsrepo.EventRepositoryFacade, recordTimeout time.Duration, postLimit int) portssvc.BackfillSvcFacade {
	if recordTimeout <= 0 {
		recordTimeout = 10 * time.Second
	}
	if postLimit <= 0 {
		postLimit = 50
	}
	return &backfillService{
		resolver:      resolver,
		ledger:        ledger,
		generator:     generator,
		eventRepo:     eventRepo,
		recordTimeout: recordTimeout,
		postLimit:     postLimit,
		now:           time.Now,
	}
}

var _ portssvc.BackfillSvcFacade = (*backfillService)(nil)

// tenantEvents is one consistent snapshot of every event table.
type tenantEvents struct {
	invoices     []domain.Invoice
	payments     []domain.Payment
	changeOrders []domain.ChangeOrder
	contracts    []domain.Contract
	schedule     []domain.LeaseScheduleRow
	rentPayments []domain.RentPayment
	equipment    []domain.Equipment
	equipLogs    []domain.EquipmentMaintenanceLog
	maintenance  []domain.MaintenanceRequest
	payrollRuns  []domain.PayrollRun
}

func (s *backfillService) BackfillMissingJournalEntries(ctx context.Context, companyID, userID string) (*dto.BackfillResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	result := &dto.BackfillResult{}

	if _, err := s.resolver.EnsureStandardAccounts(ctx, companyID, userID); err != nil {
		return nil, err
	}
	roles, err := s.resolver.ResolveRoles(ctx, companyID)
	if errors.Is(err, apperrors.ErrNoUsableChart) {
		logger.Warn("Skipping backfill: no usable chart of accounts", slog.String("company_id", companyID))
		result.SkippedNoChart = true
		return result, nil
	}
	if err != nil {
		return nil, err
	}

	events, err := s.fetchEvents(ctx, companyID)
	if err != nil {
		return nil, err
	}

	// Equipment depreciation months are computed up front so one reference
	// prefetch covers every candidate, event-level and per-month alike.
	equipMonths := s.equipmentDepreciationPlan(events.equipment)

	existing, err := s.ledger.FindPostedReferences(ctx, companyID, candidateReferences(events, equipMonths))
	if err != nil {
		return nil, err
	}
	covered := func(ref string) bool {
		_, ok := existing[ref]
		return ok
	}

	for _, co := range events.changeOrders {
		if covered(domain.KindChangeOrder.Ref(co.ChangeOrderID)) {
			continue
		}
		co := co
		if s.generateOne(ctx, logger, "change order", co.ChangeOrderID, func(rctx context.Context) (*domain.JournalEntry, error) {
			return s.generator.ChangeOrderEntry(rctx, companyID, userID, co, roles)
		}) {
			result.CoGenerated++
		}
	}

	for _, inv := range events.invoices {
		if covered(domain.KindInvoice.Ref(inv.InvoiceID)) {
			continue
		}
		inv := inv
		if s.generateOne(ctx, logger, "invoice", inv.InvoiceID, func(rctx context.Context) (*domain.JournalEntry, error) {
			return s.generator.InvoiceEntry(rctx, companyID, userID, inv, roles)
		}) {
			result.InvGenerated++
		}
	}

	for _, p := range events.payments {
		if covered(domain.KindPayment.Ref(p.PaymentID)) {
			continue
		}
		p := p
		if s.generateOne(ctx, logger, "payment", p.PaymentID, func(rctx context.Context) (*domain.JournalEntry, error) {
			return s.generator.PaymentEntry(rctx, companyID, userID, p, roles)
		}) {
			result.InvGenerated++
		}
	}

	for _, c := range events.contracts {
		if covered(domain.KindContract.Ref(c.ContractID)) {
			continue
		}
		c := c
		if s.generateOne(ctx, logger, "contract", c.ContractID, func(rctx context.Context) (*domain.JournalEntry, error) {
			return s.generator.ContractEntry(rctx, companyID, userID, c, roles)
		}) {
			result.ContractsGenerated++
		}
	}

	for _, row := range events.schedule {
		ref := domain.KindLeaseAccrual.Ref(row.RowID)
		if row.Kind == domain.ScheduleRecognition {
			ref = domain.KindLeaseRecognition.Ref(row.RowID)
		}
		if covered(ref) {
			continue
		}
		row := row
		if s.generateOne(ctx, logger, "lease schedule row", row.RowID, func(rctx context.Context) (*domain.JournalEntry, error) {
			return s.generator.LeaseScheduleEntry(rctx, companyID, userID, row, roles)
		}) {
			result.LeaseScheduled++
		}
	}

	for _, rp := range events.rentPayments {
		if covered(domain.KindRentPayment.Ref(rp.RentPaymentID)) {
			continue
		}
		rp := rp
		if s.generateOne(ctx, logger, "rent payment", rp.RentPaymentID, func(rctx context.Context) (*domain.JournalEntry, error) {
			return s.generator.RentPaymentEntry(rctx, companyID, userID, rp, roles)
		}) {
			result.RentPaymentGenerated++
		}
	}

	for _, eq := range events.equipment {
		if covered(domain.KindEquipmentPurchase.Ref(eq.EquipmentID)) {
			continue
		}
		eq := eq
		if s.generateOne(ctx, logger, "equipment purchase", eq.EquipmentID, func(rctx context.Context) (*domain.JournalEntry, error) {
			return s.generator.EquipmentPurchaseEntry(rctx, companyID, userID, eq, roles)
		}) {
			result.EquipPurchaseGenerated++
		}
	}

	result.DepreciationGenerated = s.backfillEquipmentDepreciation(ctx, logger, companyID, userID, roles, equipMonths, covered)

	for _, run := range events.payrollRuns {
		if covered(domain.KindPayrollRun.Ref(run.PayrollRunID)) {
			continue
		}
		run := run
		if s.generateOne(ctx, logger, "payroll run", run.PayrollRunID, func(rctx context.Context) (*domain.JournalEntry, error) {
			return s.generator.PayrollRunEntry(rctx, companyID, userID, run, roles)
		}) {
			result.PayrollGenerated++
		}
	}

	for _, req := range events.maintenance {
		if covered(domain.KindMaintenance.Ref(req.RequestID)) {
			continue
		}
		req := req
		if s.generateOne(ctx, logger, "maintenance request", req.RequestID, func(rctx context.Context) (*domain.JournalEntry, error) {
			return s.generator.MaintenanceRequestEntry(rctx, companyID, userID, req, roles)
		}) {
			result.MaintenanceGenerated++
		}
	}

	for _, mlog := range events.equipLogs {
		if covered(domain.KindEquipMaintenance.Ref(mlog.LogID)) {
			continue
		}
		mlog := mlog
		if s.generateOne(ctx, logger, "equipment maintenance log", mlog.LogID, func(rctx context.Context) (*domain.JournalEntry, error) {
			return s.generator.EquipMaintenanceEntry(rctx, companyID, userID, mlog, roles)
		}) {
			result.MaintenanceGenerated++
		}
	}

	logger.Info("Backfill finished",
		slog.String("company_id", companyID),
		slog.Int("total_generated", result.Total()))
	return result, nil
}

// fetchEvents loads every event table concurrently.
func (s *backfillService) fetchEvents(ctx context.Context, companyID string) (*tenantEvents, error) {
	events := &tenantEvents{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { events.invoices, err = s.eventRepo.ListInvoices(gctx, companyID); return })
	g.Go(func() (err error) { events.payments, err = s.eventRepo.ListPayments(gctx, companyID); return })
	g.Go(func() (err error) { events.changeOrders, err = s.eventRepo.ListChangeOrders(gctx, companyID); return })
	g.Go(func() (err error) { events.contracts, err = s.eventRepo.ListContracts(gctx, companyID); return })
	g.Go(func() (err error) { events.schedule, err = s.eventRepo.ListLeaseScheduleRows(gctx, companyID); return })
	g.Go(func() (err error) { events.rentPayments, err = s.eventRepo.ListRentPayments(gctx, companyID); return })
	g.Go(func() (err error) { events.equipment, err = s.eventRepo.ListEquipment(gctx, companyID); return })
	g.Go(func() (err error) {
		events.equipLogs, err = s.eventRepo.ListEquipmentMaintenanceLogs(gctx, companyID)
		return
	})
	g.Go(func() (err error) {
		events.maintenance, err = s.eventRepo.ListMaintenanceRequests(gctx, companyID)
		return
	})
	g.Go(func() (err error) { events.payrollRuns, err = s.eventRepo.ListPayrollRuns(gctx, companyID); return })
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return events, nil
}

// equipmentDepreciationMonth is one pending (asset, month) depreciation post.
type equipmentDepreciationMonth struct {
	equipment domain.Equipment
	period    accounting.YearMonth
	ref       string
}

// equipmentDepreciationPlan expands each depreciable asset into the months
// elapsed so far, capped at the asset's useful life. Future months are never
// posted; assets with unparseable dates are skipped, not fatal.
func (s *backfillService) equipmentDepreciationPlan(equipment []domain.Equipment) []equipmentDepreciationMonth {
	nowUTC := s.now().UTC()
	var plan []equipmentDepreciationMonth
	for _, eq := range equipment {
		if !eq.PurchasePrice.IsPositive() || eq.UsefulLifeMonths <= 0 {
			continue
		}
		start, err := accounting.ParseLocalDate(eq.PurchaseDate)
		if err != nil {
			continue
		}
		n := accounting.ElapsedMonths(start, nowUTC.Year(), nowUTC.Month(), eq.UsefulLifeMonths)
		for _, ym := range accounting.MonthSequence(start, n) {
			plan = append(plan, equipmentDepreciationMonth{
				equipment: eq,
				period:    ym,
				ref:       domain.KindDepreciation.PeriodRef(eq.EquipmentID, ym.Year, ym.Month),
			})
		}
	}
	return plan
}

// backfillEquipmentDepreciation posts uncovered months in bounded-concurrency
// waves. Failures are logged per month and never abort the run.
func (s *backfillService) backfillEquipmentDepreciation(ctx context.Context, logger *slog.Logger, companyID, userID string, roles domain.RoleMap, plan []equipmentDepreciationMonth, covered func(string) bool) int {
	var created atomic.Int64
	g := &errgroup.Group{}
	g.SetLimit(s.postLimit)
	for _, m := range plan {
		if covered(m.ref) {
			continue
		}
		m := m
		g.Go(func() error {
			monthly := m.equipment.PurchasePrice.DivRound(decimalFromInt(m.equipment.UsefulLifeMonths), 2)
			if s.generateOne(ctx, logger, "equipment depreciation", m.ref, func(rctx context.Context) (*domain.JournalEntry, error) {
				return s.generator.EquipmentDepreciationEntry(rctx, companyID, userID, m.equipment, roles, m.period, monthly)
			}) {
				created.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()
	return int(created.Load())
}

// generateOne runs a single-record generation under its own timeout. Errors
// are logged and swallowed so one bad record cannot stall the whole run.
// Returns true only when an entry was actually posted.
func (s *backfillService) generateOne(ctx context.Context, logger *slog.Logger, kind, id string, fn func(context.Context) (*domain.JournalEntry, error)) bool {
	rctx, cancel := context.WithTimeout(ctx, s.recordTimeout)
	defer cancel()
	entry, err := fn(rctx)
	if err != nil {
		logger.Warn("Skipping record after generation failure",
			slog.String("record_kind", kind),
			slog.String("record_id", id),
			slog.String("error", err.Error()))
		return false
	}
	return entry != nil
}

// candidateReferences collects the reference key of every event that could
// need an entry, for one bulk posted-reference prefetch.
func candidateReferences(events *tenantEvents, equipMonths []equipmentDepreciationMonth) []string {
	refs := make([]string, 0,
		len(events.invoices)+len(events.payments)+len(events.changeOrders)+
			len(events.contracts)+len(events.schedule)+len(events.rentPayments)+
			len(events.equipment)+len(events.equipLogs)+len(events.maintenance)+
			len(events.payrollRuns)+len(equipMonths))
	for _, inv := range events.invoices {
		refs = append(refs, domain.KindInvoice.Ref(inv.InvoiceID))
	}
	for _, p := range events.payments {
		refs = append(refs, domain.KindPayment.Ref(p.PaymentID))
	}
	for _, co := range events.changeOrders {
		refs = append(refs, domain.KindChangeOrder.Ref(co.ChangeOrderID))
	}
	for _, c := range events.contracts {
		refs = append(refs, domain.KindContract.Ref(c.ContractID))
	}
	for _, row := range events.schedule {
		if row.Kind == domain.ScheduleRecognition {
			refs = append(refs, domain.KindLeaseRecognition.Ref(row.RowID))
		} else {
			refs = append(refs, domain.KindLeaseAccrual.Ref(row.RowID))
		}
	}
	for _, rp := range events.rentPayments {
		refs = append(refs, domain.KindRentPayment.Ref(rp.RentPaymentID))
	}
	for _, eq := range events.equipment {
		refs = append(refs, domain.KindEquipmentPurchase.Ref(eq.EquipmentID))
	}
	for _, mlog := range events.equipLogs {
		refs = append(refs, domain.KindEquipMaintenance.Ref(mlog.LogID))
	}
	for _, req := range events.maintenance {
		refs = append(refs, domain.KindMaintenance.Ref(req.RequestID))
	}
	for _, run := range events.payrollRuns {
		refs = append(refs, domain.KindPayrollRun.Ref(run.PayrollRunID))
	}
	for _, m := range equipMonths {
		refs = append(refs, m.ref)
	}
	return refs
}

func decimalFromInt(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}

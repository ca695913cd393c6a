package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/buildledger/construction_ledger/internal/apperrors"
	"github.com/buildledger/construction_ledger/internal/core/domain"
)

// In-memory repository fakes. They reproduce the store behaviors the services
// depend on (entry numbering, posted-reference uniqueness, line joins) so the
// service stack can be exercised end to end without a database.

type fakeAccountRepo struct {
	mu       sync.Mutex
	accounts []domain.Account
	listErr  error // forced failure for ListAccountsByCompany
}

func (f *fakeAccountRepo) ListAccountsByCompany(_ context.Context, companyID string) ([]domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []domain.Account
	for _, a := range f.accounts {
		if a.CompanyID == companyID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAccountRepo) FindAccountByID(_ context.Context, accountID string) (*domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.accounts {
		if a.AccountID == accountID {
			acc := a
			return &acc, nil
		}
	}
	return nil, apperrors.NewNotFoundError("account not found")
}

func (f *fakeAccountRepo) SaveAccount(_ context.Context, account domain.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accounts = append(f.accounts, account)
	return nil
}

type fakeJournalRepo struct {
	mu      sync.Mutex
	entries []domain.JournalEntry
	nextNum int
}

func (f *fakeJournalRepo) SaveEntry(_ context.Context, entry domain.JournalEntry) (*domain.JournalEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if entry.Reference != nil && entry.Status == domain.Posted {
		for _, e := range f.entries {
			if e.CompanyID == entry.CompanyID && e.Status == domain.Posted &&
				e.Reference != nil && *e.Reference == *entry.Reference {
				return nil, apperrors.NewAppError(409, "duplicate posted reference", apperrors.ErrDuplicate)
			}
		}
	}
	f.nextNum++
	entry.EntryNumber = fmt.Sprintf("JE-%04d", f.nextNum)
	f.entries = append(f.entries, entry)
	saved := entry
	return &saved, nil
}

func (f *fakeJournalRepo) FindEntryByID(_ context.Context, companyID, entryID string) (*domain.JournalEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.entries {
		if e.CompanyID == companyID && e.EntryID == entryID {
			entry := e
			return &entry, nil
		}
	}
	return nil, apperrors.NewNotFoundError("journal entry not found")
}

func (f *fakeJournalRepo) FindPostedReferences(_ context.Context, companyID string, refs []string) (map[string]struct{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	want := make(map[string]struct{}, len(refs))
	for _, r := range refs {
		want[r] = struct{}{}
	}
	out := make(map[string]struct{})
	for _, e := range f.entries {
		if e.CompanyID != companyID || e.Status != domain.Posted || e.Reference == nil {
			continue
		}
		if _, ok := want[*e.Reference]; ok {
			out[*e.Reference] = struct{}{}
		}
	}
	return out, nil
}

func (f *fakeJournalRepo) FindPostedEntriesByReferences(_ context.Context, companyID string, refs []string) (map[string]domain.JournalEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	want := make(map[string]struct{}, len(refs))
	for _, r := range refs {
		want[r] = struct{}{}
	}
	out := make(map[string]domain.JournalEntry)
	for _, e := range f.entries {
		if e.CompanyID != companyID || e.Status != domain.Posted || e.Reference == nil {
			continue
		}
		if _, ok := want[*e.Reference]; ok {
			header := e
			header.Lines = nil
			out[*e.Reference] = header
		}
	}
	return out, nil
}

func (f *fakeJournalRepo) ListPostedLines(_ context.Context, companyID string, filter domain.LineLinkFilter) ([]domain.PostedLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.PostedLine
	for _, e := range f.entries {
		if e.CompanyID != companyID || e.Status != domain.Posted {
			continue
		}
		for _, l := range e.Lines {
			switch filter {
			case domain.ProjectLines:
				if l.ProjectID == nil {
					continue
				}
			case domain.PropertyLines:
				if l.PropertyID == nil {
					continue
				}
			}
			out = append(out, domain.PostedLine{
				JournalEntryLine: l,
				CompanyID:        e.CompanyID,
				EntryNumber:      e.EntryNumber,
				EntryDate:        e.EntryDate,
				EntryDesc:        e.Description,
				Reference:        e.Reference,
			})
		}
	}
	return out, nil
}

func (f *fakeJournalRepo) postedCount(companyID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, e := range f.entries {
		if e.CompanyID == companyID && e.Status == domain.Posted {
			n++
		}
	}
	return n
}

func (f *fakeJournalRepo) entryByReference(companyID, ref string) *domain.JournalEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.entries {
		if e.CompanyID == companyID && e.Reference != nil && *e.Reference == ref {
			entry := e
			return &entry
		}
	}
	return nil
}

type fakeEventRepo struct {
	mu           sync.Mutex
	invoices     []domain.Invoice
	payments     []domain.Payment
	changeOrders []domain.ChangeOrder
	contracts    []domain.Contract
	rfis         []domain.RFI
	leases       []domain.Lease
	schedule     []domain.LeaseScheduleRow
	rentPayments []domain.RentPayment
	equipment    []domain.Equipment
	equipLogs    []domain.EquipmentMaintenanceLog
	maintenance  []domain.MaintenanceRequest
	payrollRuns  []domain.PayrollRun
	backrefs     map[string]string // invoiceID -> entryID
}

func (f *fakeEventRepo) ListInvoices(_ context.Context, _ string) ([]domain.Invoice, error) {
	return f.invoices, nil
}
func (f *fakeEventRepo) ListPayments(_ context.Context, _ string) ([]domain.Payment, error) {
	return f.payments, nil
}
func (f *fakeEventRepo) ListChangeOrders(_ context.Context, _ string) ([]domain.ChangeOrder, error) {
	return f.changeOrders, nil
}
func (f *fakeEventRepo) ListContracts(_ context.Context, _ string) ([]domain.Contract, error) {
	return f.contracts, nil
}
func (f *fakeEventRepo) ListRFIs(_ context.Context, _ string) ([]domain.RFI, error) {
	return f.rfis, nil
}
func (f *fakeEventRepo) ListLeases(_ context.Context, _ string) ([]domain.Lease, error) {
	return f.leases, nil
}
func (f *fakeEventRepo) ListLeaseScheduleRows(_ context.Context, _ string) ([]domain.LeaseScheduleRow, error) {
	return f.schedule, nil
}
func (f *fakeEventRepo) ListRentPayments(_ context.Context, _ string) ([]domain.RentPayment, error) {
	return f.rentPayments, nil
}
func (f *fakeEventRepo) ListEquipment(_ context.Context, _ string) ([]domain.Equipment, error) {
	return f.equipment, nil
}
func (f *fakeEventRepo) ListEquipmentMaintenanceLogs(_ context.Context, _ string) ([]domain.EquipmentMaintenanceLog, error) {
	return f.equipLogs, nil
}
func (f *fakeEventRepo) ListMaintenanceRequests(_ context.Context, _ string) ([]domain.MaintenanceRequest, error) {
	return f.maintenance, nil
}
func (f *fakeEventRepo) ListPayrollRuns(_ context.Context, _ string) ([]domain.PayrollRun, error) {
	return f.payrollRuns, nil
}

func (f *fakeEventRepo) SetInvoiceJournalEntryID(_ context.Context, _, invoiceID, entryID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.backrefs == nil {
		f.backrefs = make(map[string]string)
	}
	f.backrefs[invoiceID] = entryID
	return nil
}

// ledgerFixture wires the full service stack over the fakes.
type ledgerFixture struct {
	accounts  *fakeAccountRepo
	journal   *fakeJournalRepo
	events    *fakeEventRepo
	resolver  *resolverService
	ledger    *ledgerService
	generator *generatorService
}

func newLedgerFixture() *ledgerFixture {
	accounts := &fakeAccountRepo{}
	journal := &fakeJournalRepo{}
	events := &fakeEventRepo{}
	resolver := NewResolverService(accounts).(*resolverService)
	ledger := NewLedgerService(journal).(*ledgerService)
	generator := NewGeneratorService(ledger, events).(*generatorService)
	return &ledgerFixture{
		accounts:  accounts,
		journal:   journal,
		events:    events,
		resolver:  resolver,
		ledger:    ledger,
		generator: generator,
	}
}

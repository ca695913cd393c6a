package repositories

import (
	"context"

	"github.com/buildledger/construction_ledger/internal/core/domain"
)

// BusinessEventReader exposes tenant-scoped reads over every business-event
// table the ledger engine derives entries from. All snapshots are mapped from
// their rows once, at this edge.
type BusinessEventReader interface {
	ListInvoices(ctx context.Context, companyID string) ([]domain.Invoice, error)
	ListPayments(ctx context.Context, companyID string) ([]domain.Payment, error)
	ListChangeOrders(ctx context.Context, companyID string) ([]domain.ChangeOrder, error)
	ListContracts(ctx context.Context, companyID string) ([]domain.Contract, error)
	ListRFIs(ctx context.Context, companyID string) ([]domain.RFI, error)
	ListLeases(ctx context.Context, companyID string) ([]domain.Lease, error)
	ListLeaseScheduleRows(ctx context.Context, companyID string) ([]domain.LeaseScheduleRow, error)
	ListRentPayments(ctx context.Context, companyID string) ([]domain.RentPayment, error)
	ListEquipment(ctx context.Context, companyID string) ([]domain.Equipment, error)
	ListEquipmentMaintenanceLogs(ctx context.Context, companyID string) ([]domain.EquipmentMaintenanceLog, error)
	ListMaintenanceRequests(ctx context.Context, companyID string) ([]domain.MaintenanceRequest, error)
	ListPayrollRuns(ctx context.Context, companyID string) ([]domain.PayrollRun, error)
}

// InvoiceBackrefWriter updates the display-only journal_entry_id
// back-reference on invoices. Coverage decisions never read it; reference
// lookup against journal_entries is the single source of truth.
type InvoiceBackrefWriter interface {
	SetInvoiceJournalEntryID(ctx context.Context, companyID, invoiceID, entryID string) error
}

// EventRepositoryFacade combines the business-event interfaces.
type EventRepositoryFacade interface {
	BusinessEventReader
	InvoiceBackrefWriter
}

package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/buildledger/construction_ledger/internal/core/domain"
	"github.com/buildledger/construction_ledger/internal/utils/accounting"
)

// EntryGeneratorSvcFacade derives one posted journal entry per business
// event. Every method is pure except for the final post: a (nil, nil) return
// means the event is out of scope for generation (zero amount, ineligible
// status) and nothing was written.
type EntryGeneratorSvcFacade interface {
	InvoiceEntry(ctx context.Context, companyID, userID string, inv domain.Invoice, roles domain.RoleMap) (*domain.JournalEntry, error)
	PaymentEntry(ctx context.Context, companyID, userID string, p domain.Payment, roles domain.RoleMap) (*domain.JournalEntry, error)
	ChangeOrderEntry(ctx context.Context, companyID, userID string, co domain.ChangeOrder, roles domain.RoleMap) (*domain.JournalEntry, error)
	ContractEntry(ctx context.Context, companyID, userID string, c domain.Contract, roles domain.RoleMap) (*domain.JournalEntry, error)
	LeaseScheduleEntry(ctx context.Context, companyID, userID string, row domain.LeaseScheduleRow, roles domain.RoleMap) (*domain.JournalEntry, error)
	RentPaymentEntry(ctx context.Context, companyID, userID string, rp domain.RentPayment, roles domain.RoleMap) (*domain.JournalEntry, error)
	EquipmentPurchaseEntry(ctx context.Context, companyID, userID string, eq domain.Equipment, roles domain.RoleMap) (*domain.JournalEntry, error)
	EquipmentDepreciationEntry(ctx context.Context, companyID, userID string, eq domain.Equipment, roles domain.RoleMap, period accounting.YearMonth, monthly decimal.Decimal) (*domain.JournalEntry, error)
	PropertyDepreciationEntry(ctx context.Context, companyID, userID string, attrs domain.PropertyAttributes, roles domain.RoleMap, period accounting.YearMonth, monthly decimal.Decimal) (*domain.JournalEntry, error)
	PayrollRunEntry(ctx context.Context, companyID, userID string, run domain.PayrollRun, roles domain.RoleMap) (*domain.JournalEntry, error)
	MaintenanceRequestEntry(ctx context.Context, companyID, userID string, req domain.MaintenanceRequest, roles domain.RoleMap) (*domain.JournalEntry, error)
	EquipMaintenanceEntry(ctx context.Context, companyID, userID string, log domain.EquipmentMaintenanceLog, roles domain.RoleMap) (*domain.JournalEntry, error)
}

package domain

import (
	"fmt"
	"strings"
	"time"
)

// EventKind identifies the business-event type a journal entry derives from.
// It is the first segment of every deterministic reference key.
type EventKind string

const (
	KindInvoice           EventKind = "invoice"
	KindPayment           EventKind = "payment"
	KindChangeOrder       EventKind = "change_order"
	KindContract          EventKind = "contract"
	KindRFI               EventKind = "rfi"
	KindPayrollRun        EventKind = "payroll_run"
	KindLabor             EventKind = "labor"
	KindLeaseAccrual      EventKind = "lease_accrual"
	KindLeaseRecognition  EventKind = "lease_recognition"
	KindLease             EventKind = "lease"
	KindRentPayment       EventKind = "rent_payment"
	KindEquipmentPurchase EventKind = "equipment_purchase"
	KindDepreciation      EventKind = "depreciation"
	KindMaintenance       EventKind = "maintenance"
	KindEquipMaintenance  EventKind = "equip_maintenance"
)

// Ref builds the deterministic reference key "{kind}:{eventID}".
// At most one posted entry may exist per key per company.
func (k EventKind) Ref(eventID string) string {
	return string(k) + ":" + eventID
}

// PeriodRef builds "{kind}:{eventID}:{YYYY-MM}" for recurring entries.
func (k EventKind) PeriodRef(eventID string, year int, month time.Month) string {
	return fmt.Sprintf("%s:%s:%04d-%02d", k, eventID, year, int(month))
}

// ParseReference splits a reference key into kind, event ID and optional
// period. Returns ok=false for manual or foreign references.
func ParseReference(ref string) (kind EventKind, eventID string, period string, ok bool) {
	parts := strings.SplitN(ref, ":", 3)
	if len(parts) < 2 {
		return "", "", "", false
	}
	kind = EventKind(parts[0])
	if _, known := sourceLabels[kind]; !known {
		return "", "", "", false
	}
	eventID = parts[1]
	if len(parts) == 3 {
		period = parts[2]
	}
	return kind, eventID, period, true
}

// SourceLabel is the display attribution for a standalone journal entry line.
type SourceLabel struct {
	Label      string
	HrefPrefix string // joined with the event ID for drill-down links
}

// sourceLabels is the exhaustive kind -> display mapping. Adding a new
// EventKind without a row here makes ParseReference reject its keys, which
// the aggregator tests catch.
var sourceLabels = map[EventKind]SourceLabel{
	KindInvoice:           {Label: "Invoice", HrefPrefix: "/financial/invoices/"},
	KindPayment:           {Label: "Payment", HrefPrefix: "/financial/payments/"},
	KindChangeOrder:       {Label: "Change Order", HrefPrefix: "/projects/change-orders/"},
	KindContract:          {Label: "Contract", HrefPrefix: "/crm/contracts/"},
	KindRFI:               {Label: "RFI", HrefPrefix: "/projects/rfis/"},
	KindPayrollRun:        {Label: "Payroll Run", HrefPrefix: "/people/payroll/"},
	KindLabor:             {Label: "Labor", HrefPrefix: "/people/labor/"},
	KindLeaseAccrual:      {Label: "Lease Accrual", HrefPrefix: "/properties/leases/"},
	KindLeaseRecognition:  {Label: "Lease Recognition", HrefPrefix: "/properties/leases/"},
	KindLease:             {Label: "Lease", HrefPrefix: "/properties/leases/"},
	KindRentPayment:       {Label: "Rent Payment", HrefPrefix: "/properties/rent-payments/"},
	KindEquipmentPurchase: {Label: "Equipment Purchase", HrefPrefix: "/equipment/"},
	KindDepreciation:      {Label: "Depreciation", HrefPrefix: "/equipment/"},
	KindMaintenance:       {Label: "Maintenance", HrefPrefix: "/properties/maintenance/"},
	KindEquipMaintenance:  {Label: "Equipment Maintenance", HrefPrefix: "/equipment/maintenance/"},
}

// Source returns the display attribution for the kind.
func (k EventKind) Source() (SourceLabel, bool) {
	l, ok := sourceLabels[k]
	return l, ok
}

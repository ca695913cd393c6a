package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Business-event snapshots consumed by the journal entry generators. Each is
// mapped once at the persistence edge from its table row; the ledger engine
// never mutates them except to backfill the invoice journal_entry_id
// back-reference.

// InvoiceType distinguishes money owed to the company from money it owes.
type InvoiceType string

const (
	Receivable InvoiceType = "receivable"
	Payable    InvoiceType = "payable"
)

type Invoice struct {
	InvoiceID      string          `json:"invoiceID"`
	CompanyID      string          `json:"companyID"`
	InvoiceNumber  string          `json:"invoiceNumber"`
	InvoiceType    InvoiceType     `json:"invoiceType"`
	InvoiceDate    time.Time       `json:"invoiceDate"`
	Amount         decimal.Decimal `json:"amount"`
	RetainageHeld  decimal.Decimal `json:"retainageHeld"`
	Description    string          `json:"description"`
	Status         string          `json:"status"`
	ProjectID      *string         `json:"projectID,omitempty"`
	PropertyID     *string         `json:"propertyID,omitempty"`
	JournalEntryID *string         `json:"journalEntryID,omitempty"` // display-only back-reference
}

type Payment struct {
	PaymentID   string          `json:"paymentID"`
	CompanyID   string          `json:"companyID"`
	InvoiceID   string          `json:"invoiceID"`
	InvoiceType InvoiceType     `json:"invoiceType"` // joined from the invoice at the edge
	PaymentDate time.Time       `json:"paymentDate"`
	Amount      decimal.Decimal `json:"amount"`
	Method      string          `json:"method"`
	ProjectID   *string         `json:"projectID,omitempty"`
	PropertyID  *string         `json:"propertyID,omitempty"`
}

type ChangeOrder struct {
	ChangeOrderID string          `json:"changeOrderID"`
	CompanyID     string          `json:"companyID"`
	ProjectID     string          `json:"projectID"`
	Number        string          `json:"number"`
	Description   string          `json:"description"`
	Status        string          `json:"status"`
	Amount        decimal.Decimal `json:"amount"` // may be negative
	OrderDate     time.Time       `json:"orderDate"`
}

type Contract struct {
	ContractID string          `json:"contractID"`
	CompanyID  string          `json:"companyID"`
	Number     string          `json:"number"`
	Title      string          `json:"title"`
	PartyName  string          `json:"partyName"`
	Amount     decimal.Decimal `json:"amount"`
	Status     string          `json:"status"` // draft | executed | completed
	ProjectID  *string         `json:"projectID,omitempty"`
	StartDate  time.Time       `json:"startDate"`
}

type RFI struct {
	RFIID      string          `json:"rfiID"`
	CompanyID  string          `json:"companyID"`
	ProjectID  string          `json:"projectID"`
	Number     string          `json:"number"`
	Subject    string          `json:"subject"`
	Status     string          `json:"status"`
	CostImpact decimal.Decimal `json:"costImpact"`
	RaisedDate time.Time       `json:"raisedDate"`
}

type Lease struct {
	LeaseID     string          `json:"leaseID"`
	CompanyID   string          `json:"companyID"`
	PropertyID  string          `json:"propertyID"`
	TenantName  string          `json:"tenantName"`
	MonthlyRent decimal.Decimal `json:"monthlyRent"`
	StartDate   time.Time       `json:"startDate"`
	EndDate     *time.Time      `json:"endDate,omitempty"`
	Status      string          `json:"status"`
	HasSchedule bool            `json:"hasSchedule"` // joined at the edge: any schedule rows exist
}

// LeaseScheduleKind selects accrual vs. deferred-revenue recognition rows.
type LeaseScheduleKind string

const (
	ScheduleAccrual     LeaseScheduleKind = "accrual"
	ScheduleRecognition LeaseScheduleKind = "recognition"
)

type LeaseScheduleRow struct {
	RowID      string            `json:"rowID"`
	CompanyID  string            `json:"companyID"`
	LeaseID    string            `json:"leaseID"`
	PropertyID string            `json:"propertyID"`
	Kind       LeaseScheduleKind `json:"kind"`
	PeriodDate time.Time         `json:"periodDate"`
	Amount     decimal.Decimal   `json:"amount"`
	TenantName string            `json:"tenantName"`
}

type RentPayment struct {
	RentPaymentID string          `json:"rentPaymentID"`
	CompanyID     string          `json:"companyID"`
	LeaseID       string          `json:"leaseID"`
	PropertyID    string          `json:"propertyID"`
	PaymentDate   time.Time       `json:"paymentDate"`
	Amount        decimal.Decimal `json:"amount"`
	TenantName    string          `json:"tenantName"`
}

type Equipment struct {
	EquipmentID      string          `json:"equipmentID"`
	CompanyID        string          `json:"companyID"`
	Name             string          `json:"name"`
	PurchaseDate     string          `json:"purchaseDate"` // local calendar date YYYY-MM-DD
	PurchasePrice    decimal.Decimal `json:"purchasePrice"`
	UsefulLifeMonths int             `json:"usefulLifeMonths"`
	Status           string          `json:"status"`
	ProjectID        *string         `json:"projectID,omitempty"`
}

type EquipmentMaintenanceLog struct {
	LogID       string          `json:"logID"`
	CompanyID   string          `json:"companyID"`
	EquipmentID string          `json:"equipmentID"`
	ServiceDate time.Time       `json:"serviceDate"`
	Cost        decimal.Decimal `json:"cost"`
	Description string          `json:"description"`
}

type MaintenanceRequest struct {
	RequestID   string          `json:"requestID"`
	CompanyID   string          `json:"companyID"`
	PropertyID  string          `json:"propertyID"`
	RequestDate time.Time       `json:"requestDate"`
	ActualCost  decimal.Decimal `json:"actualCost"`
	Description string          `json:"description"`
	Status      string          `json:"status"`
}

type PayrollRun struct {
	PayrollRunID  string          `json:"payrollRunID"`
	CompanyID     string          `json:"companyID"`
	PeriodStart   time.Time       `json:"periodStart"`
	PeriodEnd     time.Time       `json:"periodEnd"`
	PayDate       time.Time       `json:"payDate"`
	GrossPay      decimal.Decimal `json:"grossPay"`
	TaxWithheld   decimal.Decimal `json:"taxWithheld"`
	NetPay        decimal.Decimal `json:"netPay"`
	EmployeeCount int             `json:"employeeCount"`
	Status        string          `json:"status"`
}

package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// NormalBalance is the side on which an account naturally increases.
type NormalBalance string

const (
	DebitBalance  NormalBalance = "DEBIT"
	CreditBalance NormalBalance = "CREDIT"
)

// Account represents one row of a tenant's chart of accounts.
type Account struct {
	AccountID     string        `json:"accountID"`     // Primary Key (UUID)
	CompanyID     string        `json:"companyID"`     // Tenant scope (NON-NULL)
	AccountNumber string        `json:"accountNumber"` // Display number, e.g. "1010"
	Name          string        `json:"name"`
	AccountType   AccountType   `json:"accountType"`
	SubType       string        `json:"subType"` // e.g. "cash", "fixed_asset"
	NormalBalance NormalBalance `json:"normalBalance"`
	IsActive      bool          `json:"isActive"`
	AuditFields
}

// AccountRole is a semantic role the ledger engine needs an account for.
// The resolver maps each role to exactly one active account per tenant.
type AccountRole string

const (
	RoleCash                    AccountRole = "cash"
	RoleAccountsReceivable      AccountRole = "accounts_receivable"
	RoleRetainageReceivable     AccountRole = "retainage_receivable"
	RoleRentReceivable          AccountRole = "rent_receivable"
	RoleEquipment               AccountRole = "equipment"
	RoleBuildings               AccountRole = "buildings"
	RoleAccumulatedDepreciation AccountRole = "accumulated_depreciation"
	RoleAccountsPayable         AccountRole = "accounts_payable"
	RoleRetainagePayable        AccountRole = "retainage_payable"
	RolePayrollLiabilities      AccountRole = "payroll_liabilities"
	RoleDeferredRevenue         AccountRole = "deferred_revenue"
	RoleConstructionRevenue     AccountRole = "construction_revenue"
	RoleRentalRevenue           AccountRole = "rental_revenue"
	RoleConstructionCosts       AccountRole = "construction_costs"
	RolePayrollExpense          AccountRole = "payroll_expense"
	RoleRepairsMaintenance      AccountRole = "repairs_maintenance"
	RoleSafetyExpense           AccountRole = "safety_expense"
	RoleOfficeDocsExpense       AccountRole = "office_docs_expense"
	RoleDepreciationExpense     AccountRole = "depreciation_expense"
)

// RoleMap maps semantic roles to resolved account IDs for one tenant.
type RoleMap map[AccountRole]string

// Has reports whether every given role resolved to an account.
func (m RoleMap) Has(roles ...AccountRole) bool {
	for _, r := range roles {
		if _, ok := m[r]; !ok {
			return false
		}
	}
	return true
}

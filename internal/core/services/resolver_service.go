package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/buildledger/construction_ledger/internal/apperrors"
	"github.com/buildledger/construction_ledger/internal/core/domain"
	portsrepo "github.com/buildledger/construction_ledger/internal/core/ports/repositories"
	portssvc "github.com/buildledger/construction_ledger/internal/core/ports/services"
	"github.com/buildledger/construction_ledger/internal/middleware"
)

// standardAccountSpec describes one semantic role: the fuzzy hints used to
// find it in an existing chart and the fixed tuple used to create it when no
// account matches.
type standardAccountSpec struct {
	role          domain.AccountRole
	number        string
	name          string
	accountType   domain.AccountType
	subType       string
	normalBalance domain.NormalBalance
	nameHints     []string // lowercase substrings, any match qualifies
	nameExcludes  []string // lowercase substrings, any match disqualifies
	subTypeHints  []string // exact sub_type values that qualify on their own
	// autoCreate is false only for cash/AR/AP: tenants missing all three are
	// treated as having no usable chart rather than silently seeded.
	autoCreate bool
}

// standardAccounts is ordered: earlier specs claim accounts first, so the
// contra and specialty accounts are listed before the generic ones they would
// otherwise collide with.
var standardAccounts = []standardAccountSpec{
	{role: domain.RoleAccumulatedDepreciation, number: "1540", name: "Accumulated Depreciation", accountType: domain.Asset, subType: "fixed_asset", normalBalance: domain.CreditBalance,
		nameHints: []string{"accumulated depreciation"}, autoCreate: true},
	{role: domain.RoleRentReceivable, number: "1100", name: "Rent Receivable", accountType: domain.Asset, subType: "accounts_receivable", normalBalance: domain.DebitBalance,
		nameHints: []string{"rent receivable", "tenant receivable"}, autoCreate: true},
	{role: domain.RoleRetainageReceivable, number: "1020", name: "Retainage Receivable", accountType: domain.Asset, subType: "accounts_receivable", normalBalance: domain.DebitBalance,
		nameHints: []string{"retainage receivable", "retention receivable"}, autoCreate: true},
	{role: domain.RoleRetainagePayable, number: "2010", name: "Retainage Payable", accountType: domain.Liability, subType: "accounts_payable", normalBalance: domain.CreditBalance,
		nameHints: []string{"retainage payable"}, autoCreate: true},
	{role: domain.RoleCash, number: "1000", name: "Cash", accountType: domain.Asset, subType: "cash", normalBalance: domain.DebitBalance,
		nameHints: []string{"cash", "checking", "bank"}, subTypeHints: []string{"cash"}},
	{role: domain.RoleAccountsReceivable, number: "1010", name: "Accounts Receivable", accountType: domain.Asset, subType: "accounts_receivable", normalBalance: domain.DebitBalance,
		nameHints: []string{"receivable"}, nameExcludes: []string{"rent", "tenant", "retainage"}, subTypeHints: []string{"accounts_receivable"}},
	{role: domain.RoleAccountsPayable, number: "2000", name: "Accounts Payable", accountType: domain.Liability, subType: "accounts_payable", normalBalance: domain.CreditBalance,
		nameHints: []string{"payable"}, nameExcludes: []string{"retainage", "tax", "payroll"}, subTypeHints: []string{"accounts_payable"}},
	{role: domain.RoleEquipment, number: "1500", name: "Equipment", accountType: domain.Asset, subType: "fixed_asset", normalBalance: domain.DebitBalance,
		nameHints: []string{"equipment", "machinery", "vehicle"}, nameExcludes: []string{"accumulated", "depreciation", "maintenance", "financing"}, autoCreate: true},
	{role: domain.RoleBuildings, number: "1510", name: "Buildings", accountType: domain.Asset, subType: "fixed_asset", normalBalance: domain.DebitBalance,
		nameHints: []string{"building", "real property"}, nameExcludes: []string{"accumulated", "depreciation"}, autoCreate: true},
	{role: domain.RolePayrollLiabilities, number: "2040", name: "Payroll Liabilities", accountType: domain.Liability, subType: "other_liability", normalBalance: domain.CreditBalance,
		nameHints: []string{"payroll liabilit", "payroll tax", "fica", "withholding"}, autoCreate: true},
	{role: domain.RoleDeferredRevenue, number: "2060", name: "Deferred Rental Revenue", accountType: domain.Liability, subType: "other_liability", normalBalance: domain.CreditBalance,
		nameHints: []string{"deferred"}, autoCreate: true},
	{role: domain.RoleRentalRevenue, number: "4100", name: "Rental Income", accountType: domain.Revenue, subType: "operating_revenue", normalBalance: domain.CreditBalance,
		nameHints: []string{"rental", "rent income", "lease income"}, nameExcludes: []string{"deferred"}, autoCreate: true},
	{role: domain.RoleConstructionRevenue, number: "4000", name: "Construction Revenue", accountType: domain.Revenue, subType: "operating_revenue", normalBalance: domain.CreditBalance,
		nameHints: []string{"revenue", "income", "sales"}, nameExcludes: []string{"rental", "rent", "lease", "deferred"}, autoCreate: true},
	{role: domain.RoleConstructionCosts, number: "5000", name: "Construction Costs", accountType: domain.Expense, subType: "cost_of_revenue", normalBalance: domain.DebitBalance,
		nameHints: []string{"construction cost", "subcontractor", "materials", "direct cost", "cost of"}, autoCreate: true},
	{role: domain.RolePayrollExpense, number: "6000", name: "Payroll Expense", accountType: domain.Expense, subType: "operating_expense", normalBalance: domain.DebitBalance,
		nameHints: []string{"payroll", "salar", "wage", "fica"}, nameExcludes: []string{"liabilit", "payable", "withholding"}, autoCreate: true},
	{role: domain.RoleRepairsMaintenance, number: "6250", name: "Repairs & Maintenance", accountType: domain.Expense, subType: "operating_expense", normalBalance: domain.DebitBalance,
		nameHints: []string{"repair", "maintenance"}, autoCreate: true},
	{role: domain.RoleSafetyExpense, number: "6300", name: "Safety Expense", accountType: domain.Expense, subType: "operating_expense", normalBalance: domain.DebitBalance,
		nameHints: []string{"safety", "ppe", "protective"}, autoCreate: true},
	{role: domain.RoleOfficeDocsExpense, number: "6400", name: "Office & Documents Expense", accountType: domain.Expense, subType: "operating_expense", normalBalance: domain.DebitBalance,
		nameHints: []string{"office", "document", "printing", "supplies"}, autoCreate: true},
	{role: domain.RoleDepreciationExpense, number: "6700", name: "Depreciation Expense", accountType: domain.Expense, subType: "operating_expense", normalBalance: domain.DebitBalance,
		nameHints: []string{"depreciation"}, nameExcludes: []string{"accumulated"}, autoCreate: true},
}

func (spec standardAccountSpec) matches(acc domain.Account) bool {
	if !acc.IsActive || acc.AccountType != spec.accountType {
		return false
	}
	name := strings.ToLower(acc.Name)
	for _, ex := range spec.nameExcludes {
		if strings.Contains(name, ex) {
			return false
		}
	}
	for _, hint := range spec.nameHints {
		if strings.Contains(name, hint) {
			return true
		}
	}
	for _, st := range spec.subTypeHints {
		if acc.SubType == st {
			return true
		}
	}
	return false
}

// resolverService maps semantic roles to a tenant's chart of accounts.
type resolverService struct {
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewResolverService creates a new account resolver.
func NewResolverService(accountRepo portsrepo.AccountRepositoryFacade) portssvc.AccountResolverSvcFacade {
	return &resolverService{accountRepo: accountRepo}
}

var _ portssvc.AccountResolverSvcFacade = (*resolverService)(nil)

// ListAccounts returns the tenant's chart of accounts.
func (s *resolverService) ListAccounts(ctx context.Context, companyID string) ([]domain.Account, error) {
	return s.accountRepo.ListAccountsByCompany(ctx, companyID)
}

// EnsureStandardAccounts creates every auto-creatable standard account with no
// fuzzy match in the tenant's chart. Runs before backfill so generators never
// fail purely due to missing accounts.
func (s *resolverService) EnsureStandardAccounts(ctx context.Context, companyID, userID string) (int, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	accounts, err := s.accountRepo.ListAccountsByCompany(ctx, companyID)
	if err != nil {
		return 0, err
	}

	created := 0
	now := time.Now().UTC()
	for _, spec := range standardAccounts {
		if !spec.autoCreate {
			continue
		}
		if findMatch(spec, accounts) != nil {
			continue
		}
		account := domain.Account{
			AccountID:     uuid.NewString(),
			CompanyID:     companyID,
			AccountNumber: spec.number,
			Name:          spec.name,
			AccountType:   spec.accountType,
			SubType:       spec.subType,
			NormalBalance: spec.normalBalance,
			IsActive:      true,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
		if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
			return created, err
		}
		accounts = append(accounts, account)
		created++
		logger.Info("Created standard account",
			slog.String("company_id", companyID),
			slog.String("account_number", spec.number),
			slog.String("name", spec.name))
	}
	return created, nil
}

// ResolveRoles builds the role -> account ID map by fuzzy matching against the
// tenant's chart. Returns apperrors.ErrNoUsableChart when none of cash, AR or
// AP resolve, which backfill treats as "nothing to do" rather than a failure.
func (s *resolverService) ResolveRoles(ctx context.Context, companyID string) (domain.RoleMap, error) {
	accounts, err := s.accountRepo.ListAccountsByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	roles := make(domain.RoleMap, len(standardAccounts))
	for _, spec := range standardAccounts {
		if acc := findMatch(spec, accounts); acc != nil {
			roles[spec.role] = acc.AccountID
		}
	}

	if !roles.Has(domain.RoleCash) && !roles.Has(domain.RoleAccountsReceivable) && !roles.Has(domain.RoleAccountsPayable) {
		return nil, apperrors.ErrNoUsableChart
	}
	return roles, nil
}

func findMatch(spec standardAccountSpec, accounts []domain.Account) *domain.Account {
	for i := range accounts {
		if spec.matches(accounts[i]) {
			return &accounts[i]
		}
	}
	return nil
}

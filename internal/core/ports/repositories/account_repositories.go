package repositories

import (
	"context"

	"github.com/buildledger/construction_ledger/internal/core/domain"
)

// AccountReader defines read operations for chart-of-accounts data.
type AccountReader interface {
	// ListAccountsByCompany retrieves every account in a tenant's chart,
	// active and inactive.
	ListAccountsByCompany(ctx context.Context, companyID string) ([]domain.Account, error)

	// FindAccountByID retrieves a single account.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
}

// AccountWriter defines write operations for chart-of-accounts data.
type AccountWriter interface {
	// SaveAccount persists a newly created account.
	SaveAccount(ctx context.Context, account domain.Account) error
}

// AccountRepositoryFacade combines all account repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}

package services

import (
	"time"

	portsrepo "github.com/buildledger/construction_ledger/internal/core/ports/repositories"
	portssvc "github.com/buildledger/construction_ledger/internal/core/ports/services"
)

// ContainerConfig carries the engine tunables the services need.
type ContainerConfig struct {
	PostBatchSize int
	RecordTimeout time.Duration
}

// NewServiceContainer wires the full service stack over the repositories.
func NewServiceContainer(repos portsrepo.RepositoryProvider, cfg ContainerConfig) *portssvc.ServiceContainer {
	resolver := NewResolverService(repos.AccountRepo)
	ledger := NewLedgerService(repos.JournalRepo)
	generator := NewGeneratorService(ledger, repos.EventRepo)
	return &portssvc.ServiceContainer{
		Resolver:     resolver,
		Ledger:       ledger,
		Generator:    generator,
		Depreciation: NewDepreciationService(resolver, ledger, generator, cfg.PostBatchSize),
		Backfill:     NewBackfillService(resolver, ledger, generator, repos.EventRepo, cfg.RecordTimeout, cfg.PostBatchSize),
		Sections:     NewSectionsService(repos.JournalRepo, repos.EventRepo, resolver),
	}
}

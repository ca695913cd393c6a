package repositories

// RepositoryProvider bundles the repositories the service container needs.
type RepositoryProvider struct {
	AccountRepo AccountRepositoryFacade
	JournalRepo JournalRepositoryFacade
	EventRepo   EventRepositoryFacade
}

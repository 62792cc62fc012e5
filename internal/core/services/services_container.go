package services

import (
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Account and journal come first since the rest depend on them
	container.Account = NewAccountService(repos.AccountRepo)
	container.Journal = NewJournalService(repos.EntryRepo, repos.AccountRepo, repos.PeriodRepo)

	container.Balance = NewBalanceService(repos.ReportingRepo, repos.AccountRepo)
	container.Posting = NewPostingService(container.Journal, repos.AccountRepo)
	container.Period = NewPeriodService(repos.PeriodRepo, repos.EntryRepo, repos.ReportingRepo, repos.AccountRepo, container.Balance)
	container.Recurring = NewRecurringService(repos.RecurringRepo, repos.PeriodRepo, container.Journal)

	return container
}

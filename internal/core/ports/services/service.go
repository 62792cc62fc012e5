package services

// ServiceContainer holds all service facades wired together at startup.
type ServiceContainer struct {
	Account   AccountSvcFacade
	Journal   JournalSvcFacade
	Posting   PostingSvcFacade
	Balance   BalanceSvcFacade
	Period    PeriodSvcFacade
	Recurring RecurringSvcFacade
}

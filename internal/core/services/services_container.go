package services

import (
	portsrepo "github.com/jdrojas/cobranza_app/internal/core/ports/repositories"
	portssvc "github.com/jdrojas/cobranza_app/internal/core/ports/services"
	"github.com/jdrojas/cobranza_app/internal/platform/config"
)

// NewServiceContainer wires every service with its dependencies and returns
// the container the handlers consume.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	position := NewPositionService(repos.CardRepo)
	ledger := NewLedgerService(repos.LedgerRepo, repos.CardRepo, repos.ClientRepo, position)
	loan := NewLoanService(repos.CardRepo, repos.ClientRepo, repos.CollectorRepo, repos.LedgerRepo, ledger, position)

	return &portssvc.ServiceContainer{
		Client:    NewClientService(repos.ClientRepo, repos.CardRepo, repos.LedgerRepo),
		Collector: NewCollectorService(repos.CollectorRepo),
		Ledger:    ledger,
		Loan:      loan,
		Position:  position,
		Report:    NewReportService(repos.ReportRepo, repos.CollectorRepo),
		Token:     NewTokenService(cfg),
	}
}

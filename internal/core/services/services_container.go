package services

import (
	portsevents "github.com/evalladares-t/transaction-service/internal/core/ports/events"
	portsgw "github.com/evalladares-t/transaction-service/internal/core/ports/gateways"
	portsrepo "github.com/evalladares-t/transaction-service/internal/core/ports/repositories"
	portssvc "github.com/evalladares-t/transaction-service/internal/core/ports/services"
	"github.com/evalladares-t/transaction-service/pkg/config"
)

// NewServiceContainer creates the service container with properly wired
// dependencies. The publisher may be nil when no broker is configured.
func NewServiceContainer(
	cfg *config.Config,
	txnRepo portsrepo.TransactionRepository,
	accountGw portsgw.AccountGateway,
	creditGw portsgw.CreditGateway,
	publisher portsevents.TransactionPublisher,
) *portssvc.ServiceContainer {
	policy := NewBalancePatchPolicy(cfg.BalancePatchPolicy)

	container := &portssvc.ServiceContainer{}

	container.Transaction = NewTransactionService(
		txnRepo,
		accountGw,
		creditGw,
		WithPatchPolicy(policy),
		WithEventPublisher(publisher),
	)

	container.Maintenance = NewMaintenanceService(
		txnRepo,
		accountGw,
		WithMaintenancePatchPolicy(policy),
		WithMaintenanceEventPublisher(publisher),
	)

	return container
}

package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/evalladares-t/transaction-service/internal/core/domain"
	portsevents "github.com/evalladares-t/transaction-service/internal/core/ports/events"
	portsgw "github.com/evalladares-t/transaction-service/internal/core/ports/gateways"
	portsrepo "github.com/evalladares-t/transaction-service/internal/core/ports/repositories"
	portssvc "github.com/evalladares-t/transaction-service/internal/core/ports/services"
)

// maintenanceService charges the monthly maintenance fee on active current
// accounts. The trigger is external; the service only knows how to run one
// pass over the account list.
type maintenanceService struct {
	BaseService
	txnRepo     portsrepo.TransactionWriter
	accountGw   portsgw.AccountGateway
	patchPolicy BalancePatchPolicy
	publisher   portsevents.TransactionPublisher
	clock       Clock
}

// MaintenanceServiceOption is a functional option for configuring the job.
type MaintenanceServiceOption func(*maintenanceService)

// WithMaintenancePatchPolicy overrides the balance-patch policy.
func WithMaintenancePatchPolicy(p BalancePatchPolicy) MaintenanceServiceOption {
	return func(s *maintenanceService) {
		s.patchPolicy = p
	}
}

// WithMaintenanceEventPublisher adds an optional transaction event publisher.
func WithMaintenanceEventPublisher(p portsevents.TransactionPublisher) MaintenanceServiceOption {
	return func(s *maintenanceService) {
		s.publisher = p
	}
}

// WithMaintenanceClock overrides the job's time source.
func WithMaintenanceClock(c Clock) MaintenanceServiceOption {
	return func(s *maintenanceService) {
		s.clock = c
	}
}

// NewMaintenanceService creates the maintenance-fee job.
func NewMaintenanceService(
	txnRepo portsrepo.TransactionWriter,
	accountGw portsgw.AccountGateway,
	options ...MaintenanceServiceOption,
) portssvc.MaintenanceSvcFacade {
	svc := &maintenanceService{
		txnRepo:     txnRepo,
		accountGw:   accountGw,
		patchPolicy: FireAndForgetPolicy{},
		clock:       SystemClock(),
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

var _ portssvc.MaintenanceSvcFacade = (*maintenanceService)(nil)

// ApplyMaintenanceFees lists all accounts and charges the commission on each
// active CURRENT account. Accounts are processed independently: a failure is
// logged and the pass moves on, with no retry and no rollback of earlier fees.
func (s *maintenanceService) ApplyMaintenanceFees(ctx context.Context) error {
	accounts, err := s.accountGw.ListAccounts(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts for maintenance fees")
		return fmt.Errorf("listing accounts: %w", err)
	}

	charged := 0
	for _, account := range accounts {
		if account.AccountType != domain.Current || !account.Active {
			continue
		}
		if err := s.applyFeeToAccount(ctx, account); err != nil {
			s.LogError(ctx, err, "Failed to charge maintenance fee", slog.String("account_id", account.AccountID))
			continue
		}
		charged++
	}

	s.LogInfo(ctx, "Maintenance fee pass completed", slog.Int("accounts_charged", charged))
	return nil
}

func (s *maintenanceService) applyFeeToAccount(ctx context.Context, account domain.Account) error {
	// The fee record keeps the source system's sign convention: a positive
	// commission amount, with the balance patched downward by the same value.
	txn := domain.Transaction{
		TransactionID:    uuid.NewString(),
		Amount:           account.CommissionRate,
		Created:          s.clock.Now(),
		TransactionType:  domain.MaintenancePayment,
		AccountID:        account.AccountID,
		OwnerTransaction: true,
		Active:           true,
	}

	newBalance := account.AmountAvailable.Sub(account.CommissionRate)
	err := s.patchPolicy.Apply(ctx, "account "+account.AccountID, func(ctx context.Context) error {
		_, err := s.accountGw.PatchAccountBalance(ctx, account.AccountID, newBalance)
		return err
	})
	if err != nil {
		return err
	}

	if err := s.txnRepo.SaveTransaction(ctx, txn); err != nil {
		return err
	}

	if s.publisher != nil {
		if err := s.publisher.TransactionCreated(ctx, txn); err != nil {
			s.LogError(ctx, err, "Failed to publish maintenance fee event", slog.String("transaction_id", txn.TransactionID))
		}
	}

	s.LogDebug(ctx, "Maintenance fee charged",
		slog.String("account_id", account.AccountID),
		slog.String("amount", account.CommissionRate.String()))
	return nil
}

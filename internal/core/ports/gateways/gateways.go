package gateways

import (
	"context"

	"github.com/evalladares-t/transaction-service/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountGateway consumes the externally-owned account service. Fetches
// return apperrors.ErrNotFound when the remote answers with an empty result.
type AccountGateway interface {
	FetchAccount(ctx context.Context, accountID string) (*domain.Account, error)
	ListAccounts(ctx context.Context) ([]domain.Account, error)
	// PatchAccountBalance sets the account's available balance. The returned
	// snapshot is ignored by fire-and-forget callers.
	PatchAccountBalance(ctx context.Context, accountID string, amountAvailable decimal.Decimal) (*domain.Account, error)
}

// CreditGateway consumes the externally-owned credit service.
type CreditGateway interface {
	FetchCredit(ctx context.Context, creditID string) (*domain.Credit, error)
	PatchCreditBalance(ctx context.Context, creditID string, amountAvailable decimal.Decimal) (*domain.Credit, error)
}

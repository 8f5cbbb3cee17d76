package events

import (
	"context"

	"github.com/evalladares-t/transaction-service/internal/core/domain"
)

// TransactionPublisher emits events about persisted transactions to whatever
// downstream consumers exist (analytics, notifications). Implementations must
// be safe for concurrent use.
type TransactionPublisher interface {
	TransactionCreated(ctx context.Context, txn domain.Transaction) error
}

package repositories

import (
	"context"
	"time"

	"github.com/evalladares-t/transaction-service/internal/core/domain"
)

// TransactionReader defines read operations over stored transactions.
type TransactionReader interface {
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)
	FindAllTransactions(ctx context.Context) ([]domain.Transaction, error)
	FindTransactionsByAccountID(ctx context.Context, accountID string) ([]domain.Transaction, error)
	FindTransactionsByCreditID(ctx context.Context, creditID string) ([]domain.Transaction, error)
	// CountOwnerTransactionsInRange counts owner-flagged transactions for one
	// account whose creation timestamp falls in [start, end].
	CountOwnerTransactionsInRange(ctx context.Context, accountID string, start, end time.Time) (int64, error)
}

// TransactionWriter defines write operations over stored transactions.
type TransactionWriter interface {
	InsertTransaction(ctx context.Context, txn domain.Transaction) error
	SaveTransaction(ctx context.Context, txn domain.Transaction) error
	DeleteTransactionByID(ctx context.Context, transactionID string) error
}

// TransactionRepository is the full store facade consumed by the engine.
type TransactionRepository interface {
	TransactionReader
	TransactionWriter
}

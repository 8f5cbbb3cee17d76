package services

import (
	"context"

	"github.com/evalladares-t/transaction-service/internal/core/domain"
	"github.com/evalladares-t/transaction-service/internal/dto"
)

// TransactionSvcFacade is the engine interface consumed by the HTTP layer.
// CreateTransaction returns one persisted transaction, or two for a bank
// transfer (origin leg first, destination leg second).
type TransactionSvcFacade interface {
	CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest) ([]domain.Transaction, error)
	GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)
	ListTransactions(ctx context.Context) ([]domain.Transaction, error)
	UpdateTransaction(ctx context.Context, transactionID string, req dto.UpdateTransactionRequest) (*domain.Transaction, error)
	PatchTransaction(ctx context.Context, transactionID string, req dto.PatchTransactionRequest) (*domain.Transaction, error)
	DeleteTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error)
	ListTransactionsByAccountID(ctx context.Context, accountID string) ([]domain.Transaction, error)
	ListTransactionsByCreditID(ctx context.Context, creditID string) ([]domain.Transaction, error)
}

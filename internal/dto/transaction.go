package dto

import (
	"time"

	"github.com/evalladares-t/transaction-service/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest is the inbound draft for a new transaction.
// Exactly one of AccountID / CreditID must be set; the service enforces this
// together with the non-zero amount rule.
type CreateTransactionRequest struct {
	Amount               decimal.Decimal        `json:"amount" binding:"required"`
	TransactionType      domain.TransactionType `json:"transactionType" binding:"required,oneof=WITHDRAWAL DEPOSIT BANK_TRANSFER INTERBANK_TRANSFER MAINTENANCE_PAYMENT"`
	AccountID            string                 `json:"accountID"`
	DestinationAccountID string                 `json:"destinationAccountID"`
	CreditID             string                 `json:"creditID"`
}

// UpdateTransactionRequest replaces every mutable field of a stored
// transaction. The id and creation timestamp are never client-settable.
type UpdateTransactionRequest struct {
	Amount               decimal.Decimal        `json:"amount" binding:"required"`
	TransactionType      domain.TransactionType `json:"transactionType" binding:"required,oneof=WITHDRAWAL DEPOSIT BANK_TRANSFER INTERBANK_TRANSFER MAINTENANCE_PAYMENT"`
	AccountID            string                 `json:"accountID"`
	DestinationAccountID string                 `json:"destinationAccountID"`
	CreditID             string                 `json:"creditID"`
	OwnerTransaction     bool                   `json:"ownerTransaction"`
	Active               bool                   `json:"active"`
}

// PatchTransactionRequest carries a partial update. Pointer fields distinguish
// "set to zero value" from "not provided"; the merge is enumerated field by
// field in ApplyTo, so there is no runtime introspection.
type PatchTransactionRequest struct {
	Amount               *decimal.Decimal        `json:"amount"`
	TransactionType      *domain.TransactionType `json:"transactionType" binding:"omitempty,oneof=WITHDRAWAL DEPOSIT BANK_TRANSFER INTERBANK_TRANSFER MAINTENANCE_PAYMENT"`
	AccountID            *string                 `json:"accountID"`
	DestinationAccountID *string                 `json:"destinationAccountID"`
	CreditID             *string                 `json:"creditID"`
	OwnerTransaction     *bool                   `json:"ownerTransaction"`
	Active               *bool                   `json:"active"`
}

// ApplyTo copies every provided field onto the stored transaction and reports
// whether anything changed.
func (r PatchTransactionRequest) ApplyTo(txn *domain.Transaction) bool {
	updated := false
	if r.Amount != nil {
		txn.Amount = *r.Amount
		updated = true
	}
	if r.TransactionType != nil {
		txn.TransactionType = *r.TransactionType
		updated = true
	}
	if r.AccountID != nil {
		txn.AccountID = *r.AccountID
		updated = true
	}
	if r.DestinationAccountID != nil {
		txn.DestinationAccountID = *r.DestinationAccountID
		updated = true
	}
	if r.CreditID != nil {
		txn.CreditID = *r.CreditID
		updated = true
	}
	if r.OwnerTransaction != nil {
		txn.OwnerTransaction = *r.OwnerTransaction
		updated = true
	}
	if r.Active != nil {
		txn.Active = *r.Active
		updated = true
	}
	return updated
}

// TransactionResponse mirrors domain.Transaction for the API surface.
type TransactionResponse struct {
	TransactionID        string                 `json:"transactionID"`
	Amount               decimal.Decimal        `json:"amount"`
	Created              time.Time              `json:"created"`
	TransactionType      domain.TransactionType `json:"transactionType"`
	AccountID            string                 `json:"accountID,omitempty"`
	DestinationAccountID string                 `json:"destinationAccountID,omitempty"`
	CreditID             string                 `json:"creditID,omitempty"`
	OwnerTransaction     bool                   `json:"ownerTransaction"`
	Active               bool                   `json:"active"`
}

// ToTransactionResponse converts a domain.Transaction to its response DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:        txn.TransactionID,
		Amount:               txn.Amount,
		Created:              txn.Created,
		TransactionType:      txn.TransactionType,
		AccountID:            txn.AccountID,
		DestinationAccountID: txn.DestinationAccountID,
		CreditID:             txn.CreditID,
		OwnerTransaction:     txn.OwnerTransaction,
		Active:               txn.Active,
	}
}

// ToListTransactionResponse converts a slice of transactions.
func ToListTransactionResponse(txns []domain.Transaction) []TransactionResponse {
	res := make([]TransactionResponse, len(txns))
	for i := range txns {
		res[i] = ToTransactionResponse(&txns[i])
	}
	return res
}

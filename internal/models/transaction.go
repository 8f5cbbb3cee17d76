package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType mirrors the domain transaction type for DB storage.
type TransactionType string

// Transaction is the database representation of a transaction record.
// account_id, destination_account_id and credit_id are nullable columns;
// empty strings map to NULL at the repository boundary.
type Transaction struct {
	TransactionID        string          `json:"transactionID"`
	Amount               decimal.Decimal `json:"amount"`
	Created              time.Time       `json:"created"`
	TransactionType      TransactionType `json:"transactionType"`
	AccountID            string          `json:"accountID"`
	DestinationAccountID string          `json:"destinationAccountID"`
	CreditID             string          `json:"creditID"`
	OwnerTransaction     bool            `json:"ownerTransaction"`
	Active               bool            `json:"active"`
}

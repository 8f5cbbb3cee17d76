package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies the monetary movement recorded by a transaction.
type TransactionType string

const (
	Withdrawal         TransactionType = "WITHDRAWAL"
	Deposit            TransactionType = "DEPOSIT"
	BankTransfer       TransactionType = "BANK_TRANSFER"
	InterbankTransfer  TransactionType = "INTERBANK_TRANSFER"
	MaintenancePayment TransactionType = "MAINTENANCE_PAYMENT"
)

// Transaction is a recorded monetary movement against exactly one account or
// credit line. Amounts are signed: debits negative, deposits positive.
type Transaction struct {
	TransactionID        string          `json:"transactionID"`
	Amount               decimal.Decimal `json:"amount"`
	Created              time.Time       `json:"created"`
	TransactionType      TransactionType `json:"transactionType"`
	AccountID            string          `json:"accountID,omitempty"`
	DestinationAccountID string          `json:"destinationAccountID,omitempty"`
	CreditID             string          `json:"creditID,omitempty"`
	OwnerTransaction     bool            `json:"ownerTransaction"`
	Active               bool            `json:"active"`
}

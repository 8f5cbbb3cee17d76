package domain

import "github.com/shopspring/decimal"

// Credit is a read-only snapshot of a credit line owned by the credit service.
type Credit struct {
	CreditID        string          `json:"id"`
	Currency        string          `json:"currency"`
	CreditLimit     decimal.Decimal `json:"creditLimit"`
	AmountAvailable decimal.Decimal `json:"amountAvailable"`
	Active          bool            `json:"active"`
}

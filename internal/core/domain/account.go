package domain

import "github.com/shopspring/decimal"

// AccountType is the product type of an externally-owned bank account.
type AccountType string

const (
	Saving    AccountType = "SAVING"
	Current   AccountType = "CURRENT"
	FixedTerm AccountType = "FIXED_TERM"
)

// Account is a read-only snapshot of an account owned by the account service.
// The engine never mutates it directly; balance changes go through the
// account gateway as patch calls.
type Account struct {
	AccountID              string          `json:"id"`
	AccountNumber          string          `json:"accountNumber"`
	AccountType            AccountType     `json:"accountType"`
	Currency               string          `json:"currency"`
	AmountAvailable        decimal.Decimal `json:"amountAvailable"`
	TransactionLimit       int             `json:"transactionLimit"`       // monthly cap, meaningful for SAVING
	CommissionRate         decimal.Decimal `json:"commissionRate"`         // monthly maintenance fee, meaningful for CURRENT
	Active                 bool            `json:"active"`
	DateAllowedTransaction int             `json:"dateAllowedTransaction"` // day-of-month, meaningful for FIXED_TERM
}

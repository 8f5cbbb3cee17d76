package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrLimitExceeded indicates that the account's monthly transaction limit was reached.
var ErrLimitExceeded = errors.New("monthly transaction limit exceeded")

// ErrTransferNotAllowed indicates that one leg of a bank transfer failed validation.
var ErrTransferNotAllowed = errors.New("transfer not allowed")

// ErrInsufficientFunds indicates that the product's available balance cannot cover the amount.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrProductInactive indicates that the target account or credit line is not active.
var ErrProductInactive = errors.New("product is not active")

// ErrDateNotAllowed indicates that the account only admits transactions on a
// different day of the month.
var ErrDateNotAllowed = errors.New("transaction date not allowed for this account")

// ErrRemoteUnavailable indicates that an external balance service call failed.
var ErrRemoteUnavailable = errors.New("remote service unavailable")

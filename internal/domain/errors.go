package domain

import "errors"

var (
	// Account errors
	ErrAccountNotFound = errors.New("account not found")
	ErrAccountFrozen   = errors.New("account is frozen")

	// Entry errors
	ErrEntryNotFound    = errors.New("entry not found")
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrInvalidEntryKind = errors.New("entry kind must be credit or debit")

	// Certificate errors
	ErrCDNotFound        = errors.New("certificate of deposit not found")
	ErrInvalidCDState    = errors.New("certificate is not in a valid state for this transition")
	ErrInvalidTerm       = errors.New("term must be at least one day")
	ErrInvalidRate       = errors.New("interest rate must not be negative")
	ErrInsufficientFunds = errors.New("insufficient funds")

	// Loan errors
	ErrLoanNotFound     = errors.New("loan not found")
	ErrInvalidLoanState = errors.New("loan is not in a valid state for this transition")

	// Recurring charge errors
	ErrChargeNotFound  = errors.New("recurring charge not found")
	ErrInvalidInterval = errors.New("interval must be at least one day")
)

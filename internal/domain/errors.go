package domain

import "errors"

var (
	// Account errors
	ErrAccountNotFound        = errors.New("account not found")
	ErrDuplicateAccountNumber = errors.New("account already exists")
	ErrAccountHasMovements    = errors.New("account has transactions")
	ErrInvalidAccountType     = errors.New("invalid account type")
	ErrInvalidAccountNumber   = errors.New("invalid account number")
	ErrNegativeInitialBalance = errors.New("initial balance cannot be negative")

	// Movement errors
	ErrMovementNotFound    = errors.New("movement not found")
	ErrInsufficientBalance = errors.New("unavailable balance")
	ErrInvalidMovementType = errors.New("invalid movement type")
	ErrInvalidAmount       = errors.New("value must be positive")

	// Customer projection errors
	ErrCustomerNotFound = errors.New("customer not found")

	// Report errors
	ErrInvalidDateRange = errors.New("the start date cannot be later than the end date")
)

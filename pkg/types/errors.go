package types

import "errors"

// Pipeline error taxonomy. Components wrap these with context; callers match with errors.Is.
var (
	// ErrInvalidAmount is returned for malformed, negative or unrepresentable amounts
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrPoolNotFound is returned when no pool exists for the pair and fee tier
	ErrPoolNotFound = errors.New("pool not found")
	// ErrSubmissionFailed is returned when a transaction is rejected before inclusion
	ErrSubmissionFailed = errors.New("transaction submission failed")
	// ErrApprovalRejected is returned when the token contract reverts an approval
	ErrApprovalRejected = errors.New("approval rejected")
	// ErrSwapReverted is returned when the router reverts the swap
	ErrSwapReverted = errors.New("swap reverted")
	// ErrDepositReverted is returned when the lending pool reverts the supply
	ErrDepositReverted = errors.New("deposit reverted")
	// ErrInvariantViolation is returned when balance differencing yields a negative output
	ErrInvariantViolation = errors.New("invariant violation")
)

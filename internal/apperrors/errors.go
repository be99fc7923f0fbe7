package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrInvalidAmount indicates a payment amount that is not a positive whole number.
var ErrInvalidAmount = errors.New("amount must be a positive whole number")

// ErrInsufficientBalance indicates a payment larger than the card's outstanding balance.
var ErrInsufficientBalance = errors.New("payment exceeds the outstanding balance")

// ErrReconciliationMismatch indicates that the declared remaining balance does
// not equal the computed one. The operator typed both numbers; neither is trusted.
var ErrReconciliationMismatch = errors.New("declared remaining balance does not match the computed balance")

// ErrActiveLoanExists indicates an attempt to open a second loan for a client
// whose current card still carries a balance. Use errors.As with
// *ActiveLoanError to get the outstanding amount for display.
var ErrActiveLoanExists = errors.New("client already has an active card with outstanding balance")

// ErrReferenceNotFound indicates that a positional insert named a position
// with no currently-active card on it.
var ErrReferenceNotFound = errors.New("no active card at the reference position")

// ErrNoMoreInDirection is the traversal boundary: there is no active card
// beyond the current position in the requested direction. This is an expected
// outcome, not a failure; handlers render it as a neutral message.
var ErrNoMoreInDirection = errors.New("no more clients in that direction")

// ErrTransactionConflict indicates a transaction aborted by a concurrent
// structural edit (serialization failure). Retryable.
var ErrTransactionConflict = errors.New("operation conflicted with a concurrent update")

// ActiveLoanError carries display details for ErrActiveLoanExists.
type ActiveLoanError struct {
	ClientCode  int64
	ClientName  string
	Outstanding int64
}

func (e *ActiveLoanError) Error() string {
	return fmt.Sprintf("client %q (%d) already has an active card with an outstanding balance of %d",
		e.ClientName, e.ClientCode, e.Outstanding)
}

// Unwrap lets errors.Is(err, ErrActiveLoanExists) match.
func (e *ActiveLoanError) Unwrap() error {
	return ErrActiveLoanExists
}

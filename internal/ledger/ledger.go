package ledger

import (
	"errors"
)

// The errors below explain why Engine.Apply left the state untouched. They
// describe expected partner traffic and are never surfaced in the output.
var (
	// ErrInsufficientFunds occurs when a withdrawal or dispute needs more than
	// the available balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrDuplicateTransaction indicates a transfer reused a transaction id that
	// was already seen in this run.
	ErrDuplicateTransaction = errors.New("duplicate transaction")

	// ErrAccountLocked indicates the client account was frozen by a chargeback.
	ErrAccountLocked = errors.New("account locked")

	// ErrTransactionNotFound indicates a dispute-class record referenced an
	// unknown transaction, a withdrawal, or a deposit of another client.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrNotDisputed indicates a resolve or chargeback on a deposit that is not
	// under dispute.
	ErrNotDisputed = errors.New("transaction not disputed")

	// ErrAlreadyDisputed indicates a dispute on a deposit already under dispute.
	ErrAlreadyDisputed = errors.New("transaction already disputed")
)

// ClientID identifies an account holder.
type ClientID uint16

// TransactionID identifies a deposit or withdrawal.
type TransactionID uint32

// IsIgnored reports whether err is one of the no-op outcomes of Engine.Apply.
func IsIgnored(err error) bool {
	switch {
	case errors.Is(err, ErrInsufficientFunds),
		errors.Is(err, ErrDuplicateTransaction),
		errors.Is(err, ErrAccountLocked),
		errors.Is(err, ErrTransactionNotFound),
		errors.Is(err, ErrNotDisputed),
		errors.Is(err, ErrAlreadyDisputed):
		return true
	default:
		return false
	}
}

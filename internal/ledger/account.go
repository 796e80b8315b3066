package ledger

import (
	"github.com/congo-pay/txreplay/internal/amount"
)

// Account is the mutable balance state of one client. Total always equals
// Available + Held after any mutation below.
//
// The methods do not look at Locked; the engine decides whether a locked
// account may be touched.
type Account struct {
	Available amount.Amount
	Held      amount.Amount
	Total     amount.Amount
	Locked    bool
}

// Deposit credits the available and total balances.
func (a *Account) Deposit(amt amount.Amount) {
	a.Available = a.Available.Add(amt)
	a.Total = a.Total.Add(amt)
}

// Withdraw debits the available and total balances. When amt exceeds the
// available balance nothing changes and ErrInsufficientFunds is returned.
func (a *Account) Withdraw(amt amount.Amount) error {
	if amt > a.Available {
		return ErrInsufficientFunds
	}
	a.Available = a.Available.Sub(amt)
	a.Total = a.Total.Sub(amt)
	return nil
}

// Dispute moves amt from available to held. The caller must check that amt
// does not exceed the available balance.
func (a *Account) Dispute(amt amount.Amount) {
	a.Held = a.Held.Add(amt)
	a.Available = a.Available.Sub(amt)
}

// Resolve releases amt from held back to available.
func (a *Account) Resolve(amt amount.Amount) {
	a.Held = a.Held.Sub(amt)
	a.Available = a.Available.Add(amt)
}

// Chargeback removes amt from held and total and locks the account.
func (a *Account) Chargeback(amt amount.Amount) {
	a.Held = a.Held.Sub(amt)
	a.Total = a.Total.Sub(amt)
	a.Locked = true
}

// AccountState is the final, reportable state of one client.
type AccountState struct {
	Client    ClientID      `json:"client"`
	Available amount.Amount `json:"available"`
	Held      amount.Amount `json:"held"`
	Total     amount.Amount `json:"total"`
	Locked    bool          `json:"locked"`
}

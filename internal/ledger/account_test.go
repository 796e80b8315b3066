package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/congo-pay/txreplay/internal/amount"
)

func TestAccountDepositAndWithdraw(t *testing.T) {
	var acct Account
	acct.Deposit(amount.MustParse("10"))
	require.NoError(t, acct.Withdraw(amount.MustParse("1.5")))

	assert.Equal(t, "8.5", acct.Available.String())
	assert.Equal(t, "8.5", acct.Total.String())
	assert.Equal(t, amount.Zero(), acct.Held)
}

func TestAccountWithdrawInsufficientFunds(t *testing.T) {
	acct := Account{}
	acct.Deposit(amount.MustParse("1"))

	err := acct.Withdraw(amount.MustParse("2"))
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, "1", acct.Available.String())
	assert.Equal(t, "1", acct.Total.String())
}

func TestAccountDisputeLifecycle(t *testing.T) {
	acct := Account{}
	acct.Deposit(amount.MustParse("100"))
	acct.Deposit(amount.MustParse("50"))

	acct.Dispute(amount.MustParse("50"))
	assert.Equal(t, Account{
		Available: amount.MustParse("100"),
		Held:      amount.MustParse("50"),
		Total:     amount.MustParse("150"),
	}, acct)

	acct.Resolve(amount.MustParse("50"))
	assert.Equal(t, "150", acct.Available.String())
	assert.Equal(t, amount.Zero(), acct.Held)

	acct.Dispute(amount.MustParse("50"))
	acct.Chargeback(amount.MustParse("50"))
	assert.Equal(t, Account{
		Available: amount.MustParse("100"),
		Total:     amount.MustParse("100"),
		Locked:    true,
	}, acct)
}

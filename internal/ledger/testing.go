package ledger

// SeedAccount is a test helper that overwrites the account of client in e.
func SeedAccount(e *Engine, client ClientID, acct Account) {
	stored := acct
	e.accounts[client] = &stored
}

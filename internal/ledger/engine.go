package ledger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
)

// Engine replays transaction records against the accounts of a single run.
// It owns the transfer table and the account table exclusively and is not
// safe for concurrent use; records must be applied in input order.
type Engine struct {
	accounts  map[ClientID]*Account
	transfers map[TransactionID]*Transfer
	logger    *slog.Logger
	stats     Stats
}

// Stats counts the records an engine has seen.
type Stats struct {
	Records int
	Ignored int
}

// NewEngine creates an engine with empty tables. A nil logger disables the
// debug trail of ignored records.
func NewEngine(logger *slog.Logger) *Engine {
	return &Engine{
		accounts:  make(map[ClientID]*Account),
		transfers: make(map[TransactionID]*Transfer),
		logger:    logger,
	}
}

// Apply folds one record into the engine state. A non-nil error is always one
// of the package sentinels and means the record changed nothing.
func (e *Engine) Apply(rec Record) error {
	var err error
	switch r := rec.(type) {
	case *Transfer:
		err = e.applyTransfer(r)
	case *Dispute:
		err = e.applyDispute(r)
	default:
		panic(fmt.Sprintf("ledger: unsupported record %T", rec))
	}

	e.stats.Records++
	if err != nil {
		e.stats.Ignored++
	}
	return err
}

func (e *Engine) applyTransfer(tx *Transfer) error {
	if _, seen := e.transfers[tx.ID]; seen {
		return ErrDuplicateTransaction
	}

	stored := *tx
	stored.Disputed = false
	// Stored even when the account is locked so the id stays taken.
	e.transfers[tx.ID] = &stored

	acct := e.account(tx.ClientID)
	if acct.Locked {
		return ErrAccountLocked
	}
	switch tx.Kind {
	case KindDeposit:
		acct.Deposit(tx.Amount)
		return nil
	case KindWithdrawal:
		return acct.Withdraw(tx.Amount)
	default:
		panic(fmt.Sprintf("ledger: unsupported transfer kind %d", tx.Kind))
	}
}

func (e *Engine) applyDispute(d *Dispute) error {
	deposit := e.depositFor(d)
	if deposit == nil {
		return ErrTransactionNotFound
	}
	acct := e.account(d.ClientID)

	switch d.Action {
	case ActionDispute:
		if deposit.Disputed {
			return ErrAlreadyDisputed
		}
		if acct.Locked {
			return ErrAccountLocked
		}
		if acct.Available < deposit.Amount {
			return ErrInsufficientFunds
		}
		acct.Dispute(deposit.Amount)
		deposit.Disputed = true
	case ActionResolve:
		if !deposit.Disputed {
			return ErrNotDisputed
		}
		acct.Resolve(deposit.Amount)
		deposit.Disputed = false
	case ActionChargeback:
		if !deposit.Disputed {
			return ErrNotDisputed
		}
		if acct.Locked {
			return ErrAccountLocked
		}
		acct.Chargeback(deposit.Amount)
		deposit.Disputed = false
	default:
		panic(fmt.Sprintf("ledger: unsupported dispute action %d", d.Action))
	}
	return nil
}

// depositFor returns the stored deposit a dispute-class record refers to, or
// nil when the id is unknown, names a withdrawal, or belongs to another client.
func (e *Engine) depositFor(d *Dispute) *Transfer {
	tx, ok := e.transfers[d.TxID]
	if !ok || tx.Kind != KindDeposit || tx.ClientID != d.ClientID {
		return nil
	}
	return tx
}

func (e *Engine) account(id ClientID) *Account {
	acct, ok := e.accounts[id]
	if !ok {
		acct = &Account{}
		e.accounts[id] = acct
	}
	return acct
}

// Accounts returns the state of every client seen so far, ordered by client id.
func (e *Engine) Accounts() []AccountState {
	out := make([]AccountState, 0, len(e.accounts))
	for id, acct := range e.accounts {
		out = append(out, AccountState{
			Client:    id,
			Available: acct.Available,
			Held:      acct.Held,
			Total:     acct.Total,
			Locked:    acct.Locked,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Client < out[j].Client })
	return out
}

// Stats reports how many records were applied and how many were no-ops.
func (e *Engine) Stats() Stats {
	return e.stats
}

// RecordSource yields records in input order and io.EOF once exhausted.
type RecordSource interface {
	Next() (Record, error)
}

// Replay drains src into a fresh engine. Business no-ops are absorbed; the
// first error from src aborts the run and no account state is returned.
func Replay(src RecordSource, logger *slog.Logger) ([]AccountState, Stats, error) {
	engine := NewEngine(logger)
	for {
		rec, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, Stats{}, err
		}
		if err := engine.Apply(rec); err != nil {
			engine.logIgnored(rec, err)
		}
	}
	return engine.Accounts(), engine.Stats(), nil
}

func (e *Engine) logIgnored(rec Record, err error) {
	if e.logger == nil {
		return
	}
	attrs := []any{slog.String("reason", err.Error())}
	switch r := rec.(type) {
	case *Transfer:
		attrs = append(attrs,
			slog.String("type", r.Kind.String()),
			slog.Int("client", int(r.ClientID)),
			slog.Uint64("tx", uint64(r.ID)),
		)
	case *Dispute:
		attrs = append(attrs,
			slog.String("type", r.Action.String()),
			slog.Int("client", int(r.ClientID)),
			slog.Uint64("tx", uint64(r.TxID)),
		)
	}
	e.logger.Debug("record ignored", attrs...)
}

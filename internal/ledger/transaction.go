package ledger

import (
	"github.com/congo-pay/txreplay/internal/amount"
)

// TransferKind tells deposits and withdrawals apart.
type TransferKind int

const (
	KindDeposit TransferKind = iota + 1
	KindWithdrawal
)

func (k TransferKind) String() string {
	switch k {
	case KindDeposit:
		return "deposit"
	case KindWithdrawal:
		return "withdrawal"
	default:
		return "unknown"
	}
}

// DisputeAction is the instruction carried by a dispute-class record.
type DisputeAction int

const (
	ActionDispute DisputeAction = iota + 1
	ActionResolve
	ActionChargeback
)

func (a DisputeAction) String() string {
	switch a {
	case ActionDispute:
		return "dispute"
	case ActionResolve:
		return "resolve"
	case ActionChargeback:
		return "chargeback"
	default:
		return "unknown"
	}
}

// Record is one parsed input row: a *Transfer or a *Dispute.
type Record interface {
	record()
}

// Transfer is a deposit or a withdrawal. The engine keeps every transfer for
// the whole run so later disputes can reference it and duplicate ids are
// detected.
//
//	type       ,client ,tx , amount
//	deposit    ,1      ,3  , 100.0
//	withdrawal ,1      ,4  , 50.0
type Transfer struct {
	ID       TransactionID
	ClientID ClientID
	Kind     TransferKind
	Amount   amount.Amount

	// Disputed is the two-state dispute flag; only deposits ever set it.
	Disputed bool
}

// Dispute references an earlier deposit. It is consumed immediately and
// never stored.
//
//	type       ,client ,tx , amount
//	dispute    ,1      ,3
//	resolve    ,1      ,3
//	chargeback ,1      ,3
type Dispute struct {
	TxID     TransactionID
	ClientID ClientID
	Action   DisputeAction
}

func (*Transfer) record() {}
func (*Dispute) record()  {}

// NewDeposit builds an undisputed deposit record.
func NewDeposit(id TransactionID, client ClientID, amt amount.Amount) *Transfer {
	return &Transfer{ID: id, ClientID: client, Kind: KindDeposit, Amount: amt}
}

// NewWithdrawal builds a withdrawal record.
func NewWithdrawal(id TransactionID, client ClientID, amt amount.Amount) *Transfer {
	return &Transfer{ID: id, ClientID: client, Kind: KindWithdrawal, Amount: amt}
}

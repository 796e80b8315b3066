// Package csvio converts between the partner CSV feed and ledger records, and
// renders the final account table.
package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/congo-pay/txreplay/internal/amount"
	"github.com/congo-pay/txreplay/internal/ledger"
)

// ErrHeader is returned when the first row is not type, client, tx, amount.
var ErrHeader = errors.New("Expected columns: type, client, tx, amount")

var expectedHeader = [...]string{"type", "client", "tx", "amount"}

// ParseError describes a malformed data row. Line counts data rows from 1,
// excluding the header.
type ParseError struct {
	Line  int
	Field string
	Value string
}

func (e *ParseError) Error() string {
	if e.Field == "type" {
		return fmt.Sprintf("Invalid transaction type: %s at line %d", e.Value, e.Line)
	}
	return fmt.Sprintf("Invalid %s at line %d", e.Field, e.Line)
}

// Reader parses transaction rows and implements ledger.RecordSource.
type Reader struct {
	csv        *csv.Reader
	line       int
	headerRead bool
}

// NewReader wraps r. Rows may have any number of fields and surrounding
// whitespace.
func NewReader(r io.Reader) *Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true
	cr.ReuseRecord = true
	return &Reader{csv: cr}
}

// Next returns the next record, io.EOF after the last row, or the error that
// must abort the run.
func (r *Reader) Next() (ledger.Record, error) {
	if !r.headerRead {
		if err := r.readHeader(); err != nil {
			return nil, err
		}
	}

	row, err := r.csv.Read()
	if err != nil {
		return nil, err
	}
	r.line++
	return parseRow(r.line, row)
}

func (r *Reader) readHeader() error {
	row, err := r.csv.Read()
	if errors.Is(err, io.EOF) {
		return ErrHeader
	}
	if err != nil {
		return err
	}
	r.headerRead = true

	if len(row) != len(expectedHeader) {
		return ErrHeader
	}
	for i, name := range expectedHeader {
		if !strings.EqualFold(strings.TrimSpace(row[i]), name) {
			return ErrHeader
		}
	}
	return nil
}

func parseRow(line int, row []string) (ledger.Record, error) {
	field := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	typ := field(0)
	client, err := parseID(field(1), 16)
	if err != nil {
		return nil, &ParseError{Line: line, Field: "Client ID", Value: field(1)}
	}
	tx, err := parseID(field(2), 32)
	if err != nil {
		return nil, &ParseError{Line: line, Field: "Transaction ID", Value: field(2)}
	}
	clientID, txID := ledger.ClientID(client), ledger.TransactionID(tx)

	switch typ {
	case "deposit", "withdrawal":
		amt, ok := amount.Parse(field(3))
		if !ok {
			return nil, &ParseError{Line: line, Field: "amount", Value: field(3)}
		}
		if typ == "deposit" {
			return ledger.NewDeposit(txID, clientID, amt), nil
		}
		return ledger.NewWithdrawal(txID, clientID, amt), nil
	case "dispute":
		return &ledger.Dispute{TxID: txID, ClientID: clientID, Action: ledger.ActionDispute}, nil
	case "resolve":
		return &ledger.Dispute{TxID: txID, ClientID: clientID, Action: ledger.ActionResolve}, nil
	case "chargeback":
		return &ledger.Dispute{TxID: txID, ClientID: clientID, Action: ledger.ActionChargeback}, nil
	default:
		return nil, &ParseError{Line: line, Field: "type", Value: typ}
	}
}

// parseID reads an unsigned decimal id of the given bit size. A single
// leading '+' is accepted.
func parseID(s string, bitSize int) (uint64, error) {
	return strconv.ParseUint(strings.TrimPrefix(s, "+"), 10, bitSize)
}

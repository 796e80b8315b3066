package csvio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/congo-pay/txreplay/internal/ledger"
)

const outputHeader = "client, available, held, total, locked"

// WriteAccounts renders the account table in the order given. Callers pass
// the engine output, which is already sorted by client id.
func WriteAccounts(w io.Writer, accounts []ledger.AccountState) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, outputHeader); err != nil {
		return err
	}
	for _, acct := range accounts {
		if _, err := fmt.Fprintf(bw, "%d,%s,%s,%s,%s\n",
			acct.Client, acct.Available, acct.Held, acct.Total, strconv.FormatBool(acct.Locked)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteError renders the single line that replaces the table on failure.
func WriteError(w io.Writer, err error) error {
	_, werr := fmt.Fprintf(w, "Error: %s\n", err)
	return werr
}

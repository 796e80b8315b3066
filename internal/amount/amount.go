// Package amount implements the fixed-point money type used by the ledger.
//
// An Amount stores a non-negative value scaled by 10 000, which keeps exactly
// four decimal places. Extra precision is truncated when an Amount is built,
// never rounded.
package amount

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// Places is the number of fractional digits an Amount keeps.
	Places = 4
	scale  = 10_000
	// maxIntDigits is the number of integer digits in Max.
	maxIntDigits = 16
)

// Amount is a non-negative fixed-point value with four decimal places.
type Amount uint64

// Max is the largest representable Amount (1844674407370955.1615).
const Max = Amount(^uint64(0))

var maxUnits = new(big.Int).SetUint64(uint64(Max))

// Zero returns the zero Amount.
func Zero() Amount {
	return 0
}

// FromDecimal converts d to an Amount, truncating past the fourth decimal
// place. Negative values become zero and values above Max saturate at Max.
func FromDecimal(d decimal.Decimal) Amount {
	if d.Sign() <= 0 {
		return 0
	}
	// d < 10^magnitude; settle out-of-range exponents before Shift
	// materialises a power of ten of that size.
	magnitude := int64(d.Exponent()) + int64(d.NumDigits())
	if magnitude > maxIntDigits {
		return Max
	}
	if magnitude <= -Places {
		return 0
	}
	units := d.Shift(Places).BigInt()
	if units.Cmp(maxUnits) > 0 {
		return Max
	}
	return Amount(units.Uint64())
}

// Parse reads a decimal number such as "12.5" or "0.0001". The boolean is
// false when text is not a valid number.
func Parse(text string) (Amount, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(text))
	if err != nil {
		return 0, false
	}
	return FromDecimal(d), true
}

// MustParse is like Parse but panics on invalid input. Intended for tests
// and constants.
func MustParse(text string) Amount {
	a, ok := Parse(text)
	if !ok {
		panic("amount: invalid decimal " + strconv.Quote(text))
	}
	return a
}

// Add returns a + b, saturating at Max.
func (a Amount) Add(b Amount) Amount {
	if a > Max-b {
		return Max
	}
	return a + b
}

// Sub returns a - b. The caller must ensure b <= a; the result wraps otherwise.
func (a Amount) Sub(b Amount) Amount {
	return a - b
}

// Decimal returns the exact decimal value of a.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(uint64(a)), -Places)
}

// String renders the integer part and, when non-zero, the significant
// fractional digits: 123, 2.5, 0.0001.
func (a Amount) String() string {
	units := uint64(a)
	intPart := units / scale
	rest := units - intPart*scale

	var b strings.Builder
	b.WriteString(strconv.FormatUint(intPart, 10))
	if rest == 0 {
		return b.String()
	}
	b.WriteByte('.')
	for div := uint64(scale / 10); rest > 0; div /= 10 {
		digit := rest / div
		b.WriteByte(byte('0' + digit))
		rest -= digit * div
	}
	return b.String()
}

// MarshalText renders a the same way as String so JSON output matches the CSV.
func (a Amount) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

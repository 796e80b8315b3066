package amount

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"123.456", "123.456"},
		{"123.45678", "123.4567"},
		{"0.0001", "0.0001"},
		{"0.0000001", "0"},
		{"2.99991", "2.9999"},
		{"123.0000", "123"},
		{" 1.5 ", "1.5"},
		{"-123.45678", "0"},
		{"-0.00001", "0"},
		{"1e3", "1000"},
		{".5", "0.5"},
		{"1844674407370955.1615", "1844674407370955.1615"},
		{"1844674407370955.1616", "1844674407370955.1615"},
		{"991844674407370955.9999", "1844674407370955.1615"},
		{"9999999999999999", "1844674407370955.1615"},
		{"0.00009", "0"},
		{"1e20000000", "1844674407370955.1615"},
		{"1e-20000000", "0"},
		{"12345e2147483000", "1844674407370955.1615"},
		{"12345e-2147483000", "0"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			start := time.Now()
			got, ok := Parse(tc.in)
			require.True(t, ok)
			assert.Less(t, time.Since(start), 100*time.Millisecond)
			assert.Equal(t, tc.want, got.String())
		})
	}
}

func TestParseRejectsNonNumbers(t *testing.T) {
	for _, in := range []string{"", "abc", "1.2.3", "ccc", "1,5"} {
		_, ok := Parse(in)
		assert.False(t, ok, "input %q", in)
	}
}

func TestFromDecimalTruncatesNeverRounds(t *testing.T) {
	for _, in := range []string{"0.99999", "7.12345678", "42.00009"} {
		d := decimal.RequireFromString(in)
		assert.Equal(t, FromDecimal(d.Truncate(Places)), FromDecimal(d), in)
	}
	assert.Equal(t, "0.9999", FromDecimal(decimal.RequireFromString("0.99999")).String())
}

func TestArithmetic(t *testing.T) {
	a := MustParse("0.456").Add(MustParse("123"))
	assert.Equal(t, "123.456", a.String())

	a = a.Sub(MustParse("123"))
	assert.Equal(t, "0.456", a.String())

	sum := Zero()
	for i := 0; i < 3; i++ {
		sum = sum.Add(MustParse("0.1"))
	}
	assert.Equal(t, "0.3", sum.String())

	assert.Equal(t, "5", MustParse("2.1111").Add(MustParse("2.8889")).String())
	assert.Equal(t, Max, Max.Add(MustParse("0.0001")))
}

func TestString(t *testing.T) {
	assert.Equal(t, "0", Zero().String())
	assert.Equal(t, "1844674407370955.1615", Max.String())
	assert.Equal(t, "2.05", MustParse("2.05").String())
	assert.Equal(t, "10.001", MustParse("10.0010").String())
}

func TestDecimalRoundTrip(t *testing.T) {
	a := MustParse("8.5")
	assert.True(t, a.Decimal().Equal(decimal.RequireFromString("8.5")))
	assert.Equal(t, a, FromDecimal(a.Decimal()))
}

func TestMarshalJSON(t *testing.T) {
	out, err := json.Marshal(map[string]Amount{"available": MustParse("1.50")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"available":"1.5"}`, string(out))
}

func TestMustParsePanics(t *testing.T) {
	assert.Panics(t, func() { MustParse("nope") })
}

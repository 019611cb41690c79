package finance

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a decimal money value that encodes as a bare JSON number.
//
// Decoding never fails: numbers and numeric strings are parsed, anything
// else (null, booleans, garbage) becomes zero.
type Amount struct {
	decimal.Decimal
}

func NewAmount(d decimal.Decimal) Amount {
	return Amount{Decimal: d}
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal.String()), nil
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	a.Decimal = ParseAmount(string(bytes.Trim(b, `"`)))
	return nil
}

// ParseAmount coerces s into a decimal, returning zero when s is not numeric.
func ParseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" || s == "null" {
		return decimal.Zero
	}

	var n json.Number
	if err := json.Unmarshal([]byte(s), &n); err != nil {
		return decimal.Zero
	}

	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return decimal.Zero
	}

	return d
}

// MaxAmount is the largest value the NUMERIC(12, 2) money columns hold.
var MaxAmount = decimal.RequireFromString("9999999999.99")

// RoundMoney rounds d to cents and reports whether the result is a positive
// amount that fits the money columns.
func RoundMoney(d decimal.Decimal) (decimal.Decimal, bool) {
	d = d.Round(2)

	return d, d.IsPositive() && d.LessThanOrEqual(MaxAmount)
}

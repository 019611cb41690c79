package importer

import (
	"strings"

	"github.com/shopspring/decimal"
)

// parseAmount parses a signed amount. With decimalComma "1.234,56" reads as
// 1234.56, otherwise "1,234.56" does. Currency symbols and spaces are ignored.
func parseAmount(s string, decimalComma bool) (decimal.Decimal, error) {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r == '-', r == '+', r == '.', r == ',':
			return r
		case r == '(' || r == ')':
			return r
		}

		return -1
	}, s)

	// Accounting notation: (12.50) is a debit.
	if strings.HasPrefix(clean, "(") && strings.HasSuffix(clean, ")") {
		clean = "-" + strings.Trim(clean, "()")
	}

	clean = strings.TrimPrefix(clean, "+")

	if decimalComma {
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	} else {
		clean = strings.ReplaceAll(clean, ",", "")
	}

	return decimal.NewFromString(clean)
}

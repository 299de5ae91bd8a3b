package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatBRL renders a decimal as Brazilian currency: "R$ 1.234,56".
// Negative values keep the sign in front of the symbol: "-R$ 10,00".
func FormatBRL(d decimal.Decimal) string {
	negative := d.IsNegative()
	fixed := d.Abs().StringFixed(2)

	parts := strings.SplitN(fixed, ".", 2)
	intPart, decPart := parts[0], parts[1]

	var b strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(digit)
	}

	out := "R$ " + b.String() + "," + decPart
	if negative {
		return "-" + out
	}
	return out
}

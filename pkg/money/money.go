// Package money formats monetary amounts for presentation. Stored
// amounts stay plain numbers; only this package produces strings.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

const nbsp = "\u00a0"

// FormatARS renders amount as Argentine pesos in the es-AR convention,
// e.g. "$ 1.234,56".
func FormatARS(amount float64) string {
	return Format(decimal.NewFromFloat(amount))
}

// Format renders an already-summed decimal as es-AR pesos.
func Format(d decimal.Decimal) string {
	r := d.Round(2)
	neg := r.IsNegative()
	if neg {
		r = r.Neg()
	}

	whole, frac, _ := strings.Cut(r.StringFixed(2), ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString("$" + nbsp)
	b.WriteString(groupThousands(whole))
	b.WriteByte(',')
	b.WriteString(frac)
	return b.String()
}

// Sum adds float amounts without accumulating binary rounding error.
func Sum(amounts ...float64) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(decimal.NewFromFloat(a))
	}
	return total
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head := len(digits) % 3
	var b strings.Builder
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// Package money formats amounts the way the cooperative's back office
// prints them: rupiah with a dot as the thousands separator and a comma
// before the two decimal digits.
package money

import (
	"strconv"
	"strings"
)

// FormatRupiah renders v as e.g. "Rp 1.234.567,89".
func FormatRupiah(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}

	s := strconv.FormatFloat(v, 'f', 2, 64)
	intPart, fracPart, _ := strings.Cut(s, ".")

	var b strings.Builder
	b.WriteString("Rp ")
	if neg {
		b.WriteByte('-')
	}

	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
		if len(intPart) > lead {
			b.WriteByte('.')
		}
	}
	for i := lead; i < len(intPart); i += 3 {
		b.WriteString(intPart[i : i+3])
		if i+3 < len(intPart) {
			b.WriteByte('.')
		}
	}

	b.WriteByte(',')
	b.WriteString(fracPart)
	return b.String()
}

package invoice

import (
	"strings"

	"github.com/shopspring/decimal"
)

var (
	smallNumbers = []string{
		"zero", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine",
		"ten", "eleven", "twelve", "thirteen", "fourteen", "fifteen", "sixteen",
		"seventeen", "eighteen", "nineteen",
	}
	tens   = []string{"", "", "twenty", "thirty", "forty", "fifty", "sixty", "seventy", "eighty", "ninety"}
	scales = []string{"", "thousand", "million", "billion", "trillion"}
)

// Words spells out the integer part of amount in British English with the first
// letter capitalised: 45 becomes "Forty-five", 1005 "One thousand and five".
func Words(amount decimal.Decimal) string {
	n := amount.Abs().IntPart()
	s := spell(n)

	if amount.IsNegative() && n > 0 {
		s = "minus " + s
	}

	return strings.ToUpper(s[:1]) + s[1:]
}

func spell(n int64) string {
	if n == 0 {
		return smallNumbers[0]
	}

	var groups []int64
	for n > 0 {
		groups = append(groups, n%1000)
		n /= 1000
	}

	var parts []string

	for i := len(groups) - 1; i >= 0; i-- {
		g := groups[i]
		if g == 0 {
			continue
		}

		part := hundreds(g)
		if i > 0 && i < len(scales) {
			part += " " + scales[i]
		}

		// A trailing group below one hundred joins with "and".
		if i == 0 && len(parts) > 0 && g < 100 {
			parts[len(parts)-1] += " and " + part
			continue
		}

		parts = append(parts, part)
	}

	return strings.Join(parts, ", ")
}

func hundreds(n int64) string {
	var b strings.Builder

	if n >= 100 {
		b.WriteString(smallNumbers[n/100])
		b.WriteString(" hundred")

		n %= 100
		if n == 0 {
			return b.String()
		}

		b.WriteString(" and ")
	}

	switch {
	case n < 20:
		b.WriteString(smallNumbers[n])
	default:
		b.WriteString(tens[n/10])

		if n%10 != 0 {
			b.WriteString("-")
			b.WriteString(smallNumbers[n%10])
		}
	}

	return b.String()
}

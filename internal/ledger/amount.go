package ledger

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/school-ledger-api/pkg/numeral"
)

var termPattern = regexp.MustCompile(`([+-]?)\s*(\d+(?:\.\d+)?)`)

// ParseAmount reads a fee typed into a ledger cell. Bengali digits and thousands separators are
// accepted. A plain number is taken as is; otherwise the numbers in the text are summed, a minus
// immediately before a number subtracting it, so "50 + 20" or "50 20" yields 70 and "100 - 20"
// yields 80. Text without digits yields zero.
func ParseAmount(raw string) decimal.Decimal {
	s := strings.TrimSpace(numeral.ToArabic(raw))
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return decimal.Zero
	}
	if d, err := decimal.NewFromString(s); err == nil {
		return d
	}
	sum := decimal.Zero
	for _, m := range termPattern.FindAllStringSubmatch(s, -1) {
		term := decimal.RequireFromString(m[2])
		if m[1] == "-" {
			term = term.Neg()
		}
		sum = sum.Add(term)
	}
	return sum
}

// Package numeral converts between ASCII digits and Bengali digit glyphs for display.
package numeral

import (
	"strings"

	"github.com/shopspring/decimal"
)

var bengaliDigits = [10]rune{'০', '১', '২', '৩', '৪', '৫', '৬', '৭', '৮', '৯'}

// ToBengali replaces every ASCII digit in s with its Bengali glyph. Other runes are kept.
func ToBengali(s string) string {
	var b strings.Builder
	b.Grow(len(s) * 3)
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(bengaliDigits[r-'0'])
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ToArabic replaces Bengali digit glyphs with ASCII digits.
func ToArabic(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= bengaliDigits[0] && r <= bengaliDigits[9] {
			return '0' + (r - bengaliDigits[0])
		}
		return r
	}, s)
}

// FormatCurrency renders an amount rounded to whole units in Bengali digits.
func FormatCurrency(amount decimal.Decimal) string {
	return ToBengali(amount.StringFixed(0))
}

// FormatInt renders an integer in Bengali digits.
func FormatInt(n int) string {
	return ToBengali(decimal.NewFromInt(int64(n)).String())
}

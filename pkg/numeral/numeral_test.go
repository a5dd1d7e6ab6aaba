package numeral

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestToBengali(t *testing.T) {
	assert.Equal(t, "২০২৫", ToBengali("2025"))
	assert.Equal(t, "Class ১০-A", ToBengali("Class 10-A"))
	assert.Equal(t, "", ToBengali(""))
}

func TestToArabicRoundTrip(t *testing.T) {
	assert.Equal(t, "1234567890", ToArabic(ToBengali("1234567890")))
	assert.Equal(t, "50 + 20", ToArabic("৫০ + ২০"))
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "১৮৫০", FormatCurrency(decimal.NewFromInt(1850)))
	assert.Equal(t, "১৩", FormatCurrency(decimal.RequireFromString("12.5")))
	assert.Equal(t, "০", FormatCurrency(decimal.Zero))
	assert.Equal(t, "৩০", FormatInt(30))
}

package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAmount(t *testing.T) {
	cases := map[string]string{
		"":         "0",
		"   ":      "0",
		"500":      "500",
		"৫০০":      "500",
		"1,250":    "1250",
		"12.5":     "12.5",
		"50 + 20":  "70",
		"৫০+২০":    "70",
		"Tk 300/-": "300",
		"abc":      "0",
		"-40":      "-40",
		"100 - 20": "80",
		"-50 + 10": "-40",
		"৫০০-১০০":  "400",
	}
	for raw, want := range cases {
		got := ParseAmount(raw)
		assert.Equal(t, want, got.String(), "input %q", raw)
	}
}

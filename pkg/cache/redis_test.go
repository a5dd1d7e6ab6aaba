package cache

import (
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLedgerKeys(t *testing.T) {
	key := LedgerKey("Five", "A", "2025")
	assert.Equal(t, "ledger:Five:A:2025", key)

	matched, err := path.Match(LedgerPattern("2025"), key)
	assert.NoError(t, err)
	assert.True(t, matched)

	matched, _ = path.Match(LedgerPattern("2024"), key)
	assert.False(t, matched)
}

func TestLedgerClassPattern(t *testing.T) {
	for _, key := range []string{LedgerKey("Five", "A", "2025"), LedgerKey("Five", "", "2024")} {
		matched, err := path.Match(LedgerClassPattern("Five"), key)
		assert.NoError(t, err)
		assert.True(t, matched, key)
	}
	matched, _ := path.Match(LedgerClassPattern("Five"), LedgerKey("Six", "A", "2025"))
	assert.False(t, matched)
}

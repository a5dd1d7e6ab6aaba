package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunk(t *testing.T) {
	items := make([]int, 23)
	chunks := Chunk(items, 10)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 10)
	assert.Len(t, chunks[2], 3)
	assert.Empty(t, Chunk([]int{}, 10))
}

func TestBuildGridNumbersAcrossCards(t *testing.T) {
	ids := make([]string, 12)
	for i := range ids {
		ids[i] = string(rune('a' + i))
	}
	students := cohort(ids...)
	summary := Aggregate("2025", students, nil)

	grid := BuildGrid(Filter{Year: "2025"}, students, summary, 10)

	require.Len(t, grid.Cards, 2)
	assert.Len(t, grid.Cards[1].Rows, 2)
	assert.Equal(t, 11, grid.Cards[1].Rows[0].Serial)
	assert.Equal(t, "১১", grid.Cards[1].Rows[0].SerialDisplay)
	assert.Equal(t, "২", grid.Cards[1].NumberDisplay)
	assert.Equal(t, "০", grid.GrandTotalDisplay)
}

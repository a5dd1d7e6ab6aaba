package ledger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-ledger-api/internal/models"
)

var (
	cellA = Cell{StudentID: "A", Month: "January", Field: models.FieldSalary}
	cellB = Cell{StudentID: "B", Month: "January", Field: models.FieldSalary}
)

func step(t *testing.T, s GridState, a Action) (GridState, *CommitCmd) {
	t.Helper()
	next, cmd, err := Reduce(s, a)
	require.NoError(t, err)
	return next, cmd
}

func TestReduceEditCommitCycle(t *testing.T) {
	s := NewState(Filter{Class: "Five", Section: "A", Year: "2025"})

	s, cmd := step(t, s, SelectCell{Cell: cellA})
	assert.Nil(t, cmd)
	assert.Equal(t, PhaseEditing, s.Phase)

	s, _ = step(t, s, Input{Text: "500"})
	s, cmd = step(t, s, Commit{})
	require.NotNil(t, cmd)
	assert.Equal(t, CommitCmd{Cell: cellA, Text: "500"}, *cmd)
	assert.Equal(t, PhaseSaving, s.Phase)

	s, _ = step(t, s, SaveDone{})
	assert.Equal(t, PhaseViewing, s.Phase)
}

func TestReduceSelectOtherCellCommitsFirst(t *testing.T) {
	s := NewState(Filter{Year: "2025"})
	s, _ = step(t, s, SelectCell{Cell: cellA})
	s, _ = step(t, s, Input{Text: "300"})

	s, cmd := step(t, s, SelectCell{Cell: cellB})
	require.NotNil(t, cmd)
	assert.Equal(t, cellA, cmd.Cell)
	assert.Equal(t, PhaseSaving, s.Phase)

	_, _, err := Reduce(s, SelectCell{Cell: cellA})
	assert.ErrorIs(t, err, ErrEditInProgress)

	s, _ = step(t, s, SaveDone{})
	assert.Equal(t, PhaseEditing, s.Phase)
	assert.Equal(t, cellB, s.Cell)
	assert.Empty(t, s.Draft)
	assert.Nil(t, s.Queued)
}

func TestReduceFailedSaveKeepsDraft(t *testing.T) {
	s := NewState(Filter{Year: "2025"})
	s, _ = step(t, s, SelectCell{Cell: cellA})
	s, _ = step(t, s, Input{Text: "42"})
	s, _ = step(t, s, SelectCell{Cell: cellB})

	s, _ = step(t, s, SaveDone{Err: errors.New("network")})
	assert.Equal(t, PhaseEditing, s.Phase)
	assert.Equal(t, cellA, s.Cell)
	assert.Equal(t, "42", s.Draft)
	assert.Nil(t, s.Queued)
}

func TestReduceGuards(t *testing.T) {
	s := NewState(Filter{Year: "2025"})

	_, _, err := Reduce(s, Input{Text: "1"})
	assert.ErrorIs(t, err, ErrNotEditing)

	_, cmd, err := Reduce(s, Commit{})
	assert.NoError(t, err)
	assert.Nil(t, cmd)

	_, _, err = Reduce(s, SaveDone{})
	assert.ErrorIs(t, err, ErrNotEditing)

	editing, _ := step(t, s, SelectCell{Cell: cellA})
	same, cmd := step(t, editing, SelectCell{Cell: cellA})
	assert.Nil(t, cmd)
	assert.Equal(t, editing, same)

	_, _, err = Reduce(editing, SetFilter{Filter: Filter{Year: "2024"}})
	assert.ErrorIs(t, err, ErrEditInProgress)

	viewing, _ := step(t, editing, Cancel{})
	assert.Equal(t, PhaseViewing, viewing.Phase)

	saving, _ := step(t, editing, Commit{})
	_, _, err = Reduce(saving, Cancel{})
	assert.ErrorIs(t, err, ErrEditInProgress)
}

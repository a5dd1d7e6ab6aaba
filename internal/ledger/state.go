package ledger

import (
	"net/http"

	"github.com/noah-isme/school-ledger-api/internal/models"
	appErrors "github.com/noah-isme/school-ledger-api/pkg/errors"
)

// Phase is the inline-edit state of the grid.
type Phase string

// Grid phases.
const (
	PhaseViewing Phase = "viewing"
	PhaseEditing Phase = "editing"
	PhaseSaving  Phase = "saving"
)

// Reducer errors.
var (
	ErrEditInProgress = appErrors.ErrEditInProgress
	ErrNotEditing     = appErrors.New("NOT_EDITING", http.StatusConflict, "no cell is being edited")
)

// Filter selects the cohort and year shown in the grid.
type Filter struct {
	Class   string `json:"class"`
	Section string `json:"section"`
	Year    string `json:"year"`
}

// Cell addresses one input of the grid.
type Cell struct {
	StudentID string              `json:"student_id"`
	Month     string              `json:"month"`
	Field     models.PaymentField `json:"field"`
}

// GridState is the immutable view state. Cell and Draft are meaningful while editing or saving.
// Queued holds a cell selected while the previous one was being committed.
type GridState struct {
	Filter Filter `json:"filter"`
	Phase  Phase  `json:"phase"`
	Cell   Cell   `json:"cell"`
	Draft  string `json:"draft"`
	Queued *Cell  `json:"queued,omitempty"`
}

// CommitCmd asks the caller to persist Text into Cell.
type CommitCmd struct {
	Cell Cell
	Text string
}

// Action is an input to Reduce.
type Action interface{ isAction() }

// SelectCell focuses a cell. Selecting while another cell is being edited commits that cell first.
type SelectCell struct{ Cell Cell }

// Input replaces the draft text of the focused cell.
type Input struct{ Text string }

// Commit saves the focused cell.
type Commit struct{}

// Cancel drops the draft and returns to viewing.
type Cancel struct{}

// SaveDone reports the outcome of a CommitCmd.
type SaveDone struct{ Err error }

// SetFilter changes the cohort or year.
type SetFilter struct{ Filter Filter }

func (SelectCell) isAction() {}
func (Input) isAction() {}
func (Commit) isAction() {}
func (Cancel) isAction() {}
func (SaveDone) isAction() {}
func (SetFilter) isAction() {}

// NewState returns a viewing state for filter.
func NewState(filter Filter) GridState {
	return GridState{Filter: filter, Phase: PhaseViewing}
}

// Reduce applies action to s. At most one cell is ever editing or saving. A non-nil CommitCmd must
// be executed by the caller and answered with SaveDone.
func Reduce(s GridState, action Action) (GridState, *CommitCmd, error) {
	switch a := action.(type) {
	case SelectCell:
		switch s.Phase {
		case PhaseViewing:
			return GridState{Filter: s.Filter, Phase: PhaseEditing, Cell: a.Cell}, nil, nil
		case PhaseEditing:
			if a.Cell == s.Cell {
				return s, nil, nil
			}
			next := a.Cell
			cmd := &CommitCmd{Cell: s.Cell, Text: s.Draft}
			s.Phase = PhaseSaving
			s.Queued = &next
			return s, cmd, nil
		default:
			return s, nil, ErrEditInProgress
		}
	case Input:
		if s.Phase != PhaseEditing {
			return s, nil, ErrNotEditing
		}
		s.Draft = a.Text
		return s, nil, nil
	case Commit:
		switch s.Phase {
		case PhaseViewing:
			return s, nil, nil
		case PhaseEditing:
			cmd := &CommitCmd{Cell: s.Cell, Text: s.Draft}
			s.Phase = PhaseSaving
			return s, cmd, nil
		default:
			return s, nil, ErrEditInProgress
		}
	case Cancel:
		if s.Phase == PhaseSaving {
			return s, nil, ErrEditInProgress
		}
		return NewState(s.Filter), nil, nil
	case SaveDone:
		if s.Phase != PhaseSaving {
			return s, nil, ErrNotEditing
		}
		if a.Err != nil {
			s.Phase = PhaseEditing
			s.Queued = nil
			return s, nil, nil
		}
		if s.Queued != nil {
			return GridState{Filter: s.Filter, Phase: PhaseEditing, Cell: *s.Queued}, nil, nil
		}
		return NewState(s.Filter), nil, nil
	case SetFilter:
		if s.Phase != PhaseViewing {
			return s, nil, ErrEditInProgress
		}
		return NewState(a.Filter), nil, nil
	}
	return s, nil, nil
}

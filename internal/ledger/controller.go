package ledger

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/school-ledger-api/internal/models"
)

// Store is the narrow persistence surface the grid needs.
type Store interface {
	Cohort(ctx context.Context, class, section string) ([]models.Student, error)
	Payments(ctx context.Context, filter models.PaymentFilter) ([]models.Payment, error)
	UpsertPayment(ctx context.Context, payment models.Payment) (models.Payment, error)
}

// Controller runs the fetch, edit and save cycle of one ledger editor. It is not safe for
// concurrent use; one Controller serves one editing session.
type Controller struct {
	store    Store
	logger   *zap.Logger
	state    GridState
	students []models.Student
	payments []models.Payment
}

// NewController constructs a controller in the viewing phase.
func NewController(store Store, filter Filter, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{store: store, logger: logger, state: NewState(filter)}
}

// State returns the current view state.
func (c *Controller) State() GridState { return c.state }

// Students returns the loaded cohort in roll order.
func (c *Controller) Students() []models.Student {
	return append([]models.Student(nil), c.students...)
}

// Payments returns a copy of the in-memory payment rows.
func (c *Controller) Payments() []models.Payment {
	return append([]models.Payment(nil), c.payments...)
}

// Summary recomputes the totals from the in-memory rows.
func (c *Controller) Summary() Summary {
	return Aggregate(c.state.Filter.Year, c.students, c.payments)
}

// Load fetches the cohort and its payments for the current filter. On failure the previously
// loaded data is kept.
func (c *Controller) Load(ctx context.Context) error {
	students, err := c.store.Cohort(ctx, c.state.Filter.Class, c.state.Filter.Section)
	if err != nil {
		return fmt.Errorf("load cohort: %w", err)
	}
	ids := make([]string, len(students))
	for i, s := range students {
		ids[i] = s.ID
	}
	payments, err := c.store.Payments(ctx, models.PaymentFilter{Year: c.state.Filter.Year, StudentIDs: ids})
	if err != nil {
		return fmt.Errorf("load payments: %w", err)
	}
	c.students = students
	c.payments = payments
	return nil
}

// SetFilter switches the cohort or year and reloads.
func (c *Controller) SetFilter(ctx context.Context, filter Filter) error {
	next, _, err := Reduce(c.state, SetFilter{Filter: filter})
	if err != nil {
		return err
	}
	prev := c.state
	c.state = next
	if err := c.Load(ctx); err != nil {
		c.state = prev
		return err
	}
	return nil
}

// Select focuses cell, committing the previously edited cell first.
func (c *Controller) Select(ctx context.Context, cell Cell) error {
	return c.dispatch(ctx, SelectCell{Cell: cell})
}

// Input updates the draft of the focused cell.
func (c *Controller) Input(text string) error {
	return c.dispatch(context.Background(), Input{Text: text})
}

// Commit saves the focused cell.
func (c *Controller) Commit(ctx context.Context) error {
	return c.dispatch(ctx, Commit{})
}

// Cancel drops the current draft.
func (c *Controller) Cancel() error {
	return c.dispatch(context.Background(), Cancel{})
}

func (c *Controller) dispatch(ctx context.Context, action Action) error {
	next, cmd, err := Reduce(c.state, action)
	if err != nil {
		return err
	}
	c.state = next
	if cmd == nil {
		return nil
	}
	saveErr := c.save(ctx, *cmd)
	next, _, err = Reduce(c.state, SaveDone{Err: saveErr})
	if err != nil {
		return err
	}
	c.state = next
	return saveErr
}

func (c *Controller) save(ctx context.Context, cmd CommitCmd) error {
	edit := CellEdit{
		Key:   models.PaymentKey{StudentID: cmd.Cell.StudentID, Year: c.state.Filter.Year, Month: cmd.Cell.Month},
		Field: cmd.Cell.Field,
		Value: ParseAmount(cmd.Text),
	}
	row, write := Merge(Find(c.payments, edit.Key), edit)
	if !write {
		c.logger.Debug("ledger cell unchanged", zap.String("student_id", edit.Key.StudentID), zap.String("month", edit.Key.Month), zap.String("field", string(edit.Field)))
		return nil
	}
	saved, err := c.store.UpsertPayment(ctx, row)
	if err != nil {
		return fmt.Errorf("save ledger cell: %w", err)
	}
	c.payments = Splice(c.payments, saved)
	return nil
}

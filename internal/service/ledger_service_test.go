package service

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-ledger-api/internal/ledger"
	"github.com/noah-isme/school-ledger-api/internal/models"
	appErrors "github.com/noah-isme/school-ledger-api/pkg/errors"
)

type fakeCohortRepo struct {
	students []models.Student
	calls    int
}

func (f *fakeCohortRepo) Cohort(ctx context.Context, class, section string) ([]models.Student, error) {
	f.calls++
	var out []models.Student
	for _, s := range f.students {
		if s.Class == class && (section == "" || s.Section == section) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeCohortRepo) FindByID(ctx context.Context, id string) (*models.Student, error) {
	for _, s := range f.students {
		if s.ID == id {
			s := s
			return &s, nil
		}
	}
	return nil, sql.ErrNoRows
}

type fakePaymentRepo struct {
	rows      map[models.PaymentKey]models.Payment
	upserts   []models.Payment
	upsertErr error
}

func newFakePaymentRepo(rows ...models.Payment) *fakePaymentRepo {
	f := &fakePaymentRepo{rows: map[models.PaymentKey]models.Payment{}}
	for _, r := range rows {
		f.rows[r.Key()] = r
	}
	return f
}

func (f *fakePaymentRepo) List(ctx context.Context, filter models.PaymentFilter) ([]models.Payment, error) {
	ids := map[string]bool{}
	for _, id := range filter.StudentIDs {
		ids[id] = true
	}
	var out []models.Payment
	for _, r := range f.rows {
		if r.Year == filter.Year && ids[r.StudentID] {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakePaymentRepo) FindByKey(ctx context.Context, key models.PaymentKey) (*models.Payment, error) {
	r, ok := f.rows[key]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &r, nil
}

func (f *fakePaymentRepo) Upsert(ctx context.Context, payment models.Payment) (models.Payment, error) {
	if f.upsertErr != nil {
		return models.Payment{}, f.upsertErr
	}
	if payment.ID == "" {
		payment.ID = "pay-" + payment.Month
	}
	f.rows[payment.Key()] = payment
	f.upserts = append(f.upserts, payment)
	return payment, nil
}

func amount(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func ledgerFixture() (*fakeCohortRepo, *fakePaymentRepo) {
	students := &fakeCohortRepo{students: []models.Student{
		{ID: "a", SLNo: "1", Class: "Five", Section: "A"},
		{ID: "b", SLNo: "2", Class: "Five", Section: "A"},
		{ID: "c", SLNo: "3", Class: "Six", Section: "A"},
	}}
	payments := newFakePaymentRepo(
		models.Payment{ID: "p1", StudentID: "a", Year: "2025", Month: "January", Salary: amount(500), ExamFee: amount(200), Backdue: amount(150)},
		models.Payment{ID: "p2", StudentID: "a", Year: "2025", Month: "February", Salary: amount(500), AdmissionFee: amount(1000)},
		models.Payment{ID: "p3", StudentID: "a", Year: "2024", Month: "March", Salary: amount(999)},
		models.Payment{ID: "p4", StudentID: "c", Year: "2025", Month: "January", Salary: amount(777)},
	)
	return students, payments
}

func TestLedgerServiceGrid(t *testing.T) {
	students, payments := ledgerFixture()
	svc := NewLedgerService(students, payments, nil, nil, LedgerConfig{}, nil, nil)

	grid, _, err := svc.Grid(context.Background(), LedgerQuery{Class: "Five", Section: "A", Year: "2025"})
	require.NoError(t, err)
	require.Len(t, grid.Cards, 1)
	require.Len(t, grid.Cards[0].Rows, 2)

	a := grid.Cards[0].Rows[0].Totals
	assert.True(t, a.Categories.Salary.Equal(amount(1000)))
	assert.True(t, a.Categories.ExamFee.Equal(amount(200)))
	assert.True(t, a.Categories.Backdue.Equal(amount(150)))
	assert.True(t, a.Categories.AdmissionFee.Equal(amount(1000)))
	assert.True(t, a.GrandTotal.Equal(amount(2350)))
	assert.True(t, grid.Cards[0].Rows[1].Totals.GrandTotal.IsZero())
	assert.True(t, grid.GrandTotal.Equal(amount(2350)))
	assert.Equal(t, "২৩৫০", grid.GrandTotalDisplay)
}

func TestLedgerServiceGridUsesCache(t *testing.T) {
	students, payments := ledgerFixture()
	cacheSvc := NewCacheService(newMemoryCacheRepo(), nil, 0, nil, true)
	svc := NewLedgerService(students, payments, cacheSvc, nil, LedgerConfig{}, nil, nil)
	q := LedgerQuery{Class: "Five", Section: "A", Year: "2025"}

	first, hit, err := svc.Grid(context.Background(), q)
	require.NoError(t, err)
	assert.False(t, hit)
	second, hit, err := svc.Grid(context.Background(), q)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 1, students.calls)
	assert.True(t, first.GrandTotal.Equal(second.GrandTotal))

	_, err = svc.CommitCell(context.Background(), CommitCellRequest{StudentID: "b", Year: "2025", Month: "May", Field: models.FieldSalary, Value: "300"})
	require.NoError(t, err)
	third, _, err := svc.Grid(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, 2, students.calls)
	assert.True(t, third.GrandTotal.Equal(amount(2650)))
}

func TestLedgerServiceGridValidation(t *testing.T) {
	students, payments := ledgerFixture()
	svc := NewLedgerService(students, payments, nil, nil, LedgerConfig{}, nil, nil)

	_, _, err := svc.Grid(context.Background(), LedgerQuery{Class: "Five", Year: "25"})
	assert.Equal(t, http.StatusBadRequest, appErrors.FromError(err).Status)
}

func TestLedgerServiceCommitPreservesSiblings(t *testing.T) {
	students, payments := ledgerFixture()
	metrics := NewMetricsService()
	svc := NewLedgerService(students, payments, nil, metrics, LedgerConfig{}, nil, nil)

	res, err := svc.CommitCell(context.Background(), CommitCellRequest{StudentID: "a", Year: "2025", Month: "January", Field: models.FieldSalary, Value: "৬০০"})
	require.NoError(t, err)
	assert.True(t, res.Written)
	assert.True(t, res.Payment.Salary.Equal(amount(600)))
	assert.True(t, res.Payment.ExamFee.Equal(amount(200)))
	assert.True(t, res.Payment.Backdue.Equal(amount(150)))
	assert.Equal(t, "p1", res.Payment.ID)
	assert.True(t, res.RowTotal.Equal(amount(950)))
	assert.Len(t, payments.rows, 4)
	assert.Equal(t, uint64(1), metrics.Snapshot().LedgerWrites)
}

func TestLedgerServiceCommitIdempotent(t *testing.T) {
	students, payments := ledgerFixture()
	metrics := NewMetricsService()
	svc := NewLedgerService(students, payments, nil, metrics, LedgerConfig{}, nil, nil)
	req := CommitCellRequest{StudentID: "a", Year: "2025", Month: "January", Field: models.FieldExamFee, Value: "150 + 50"}

	res, err := svc.CommitCell(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, res.Written)
	assert.Empty(t, payments.upserts)
	assert.Equal(t, uint64(1), metrics.Snapshot().LedgerSkipped)
}

func TestLedgerServiceCommitMaterialisesMissingRow(t *testing.T) {
	students, payments := ledgerFixture()
	svc := NewLedgerService(students, payments, nil, nil, LedgerConfig{}, nil, nil)

	res, err := svc.CommitCell(context.Background(), CommitCellRequest{StudentID: "b", Year: "2025", Month: "June", Field: models.FieldMiscellaneous, Value: ""})
	require.NoError(t, err)
	assert.True(t, res.Written)
	require.Len(t, payments.upserts, 1)
	assert.True(t, payments.upserts[0].Total().IsZero())
}

func TestLedgerServiceCommitValidation(t *testing.T) {
	students, payments := ledgerFixture()
	svc := NewLedgerService(students, payments, nil, nil, LedgerConfig{}, nil, nil)

	cases := []struct {
		name   string
		req    CommitCellRequest
		status int
	}{
		{"unknown month", CommitCellRequest{StudentID: "a", Year: "2025", Month: "Jan", Field: models.FieldSalary}, http.StatusBadRequest},
		{"unknown field", CommitCellRequest{StudentID: "a", Year: "2025", Month: "January", Field: "tuition"}, http.StatusBadRequest},
		{"bad year", CommitCellRequest{StudentID: "a", Year: "twenty", Month: "January", Field: models.FieldSalary}, http.StatusBadRequest},
		{"unknown student", CommitCellRequest{StudentID: "zz", Year: "2025", Month: "January", Field: models.FieldSalary}, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CommitCell(context.Background(), tc.req)
			require.Error(t, err)
			assert.Equal(t, tc.status, appErrors.FromError(err).Status)
		})
	}
	assert.Empty(t, payments.upserts)
}

func TestLedgerServiceCommitStoreFailure(t *testing.T) {
	students, payments := ledgerFixture()
	payments.upsertErr = errors.New("connection reset")
	svc := NewLedgerService(students, payments, nil, nil, LedgerConfig{}, nil, nil)

	_, err := svc.CommitCell(context.Background(), CommitCellRequest{StudentID: "a", Year: "2025", Month: "January", Field: models.FieldSalary, Value: "1"})
	assert.Equal(t, http.StatusInternalServerError, appErrors.FromError(err).Status)
	stored := payments.rows[models.PaymentKey{StudentID: "a", Year: "2025", Month: "January"}]
	assert.True(t, stored.Salary.Equal(amount(500)))
}

func TestLedgerStoreDrivesController(t *testing.T) {
	students, payments := ledgerFixture()
	store := NewLedgerStore(students, payments, nil)
	ctrl := ledger.NewController(store, ledger.Filter{Class: "Five", Section: "A", Year: "2025"}, nil)
	require.NoError(t, ctrl.Load(context.Background()))

	cell := ledger.Cell{StudentID: "b", Month: "March", Field: models.FieldSalary}
	require.NoError(t, ctrl.Select(context.Background(), cell))
	require.NoError(t, ctrl.Input("450"))
	require.NoError(t, ctrl.Commit(context.Background()))

	assert.Equal(t, ledger.PhaseViewing, ctrl.State().Phase)
	assert.True(t, ctrl.Summary().Students["b"].GrandTotal.Equal(amount(450)))
	assert.Len(t, payments.upserts, 1)
}

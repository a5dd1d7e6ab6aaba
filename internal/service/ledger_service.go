package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/noah-isme/school-ledger-api/internal/ledger"
	"github.com/noah-isme/school-ledger-api/internal/models"
	"github.com/noah-isme/school-ledger-api/pkg/cache"
	appErrors "github.com/noah-isme/school-ledger-api/pkg/errors"
)

type ledgerStudentRepository interface {
	Cohort(ctx context.Context, class, section string) ([]models.Student, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

type paymentRepository interface {
	List(ctx context.Context, filter models.PaymentFilter) ([]models.Payment, error)
	FindByKey(ctx context.Context, key models.PaymentKey) (*models.Payment, error)
	Upsert(ctx context.Context, payment models.Payment) (models.Payment, error)
}

// LedgerQuery selects the cohort and year of a ledger grid.
type LedgerQuery struct {
	Class   string `form:"class" json:"class" validate:"required"`
	Section string `form:"section" json:"section" validate:"omitempty,oneof=A B C D"`
	Year    string `form:"year" json:"year" validate:"required,numeric,len=4"`
}

// Filter converts the query to the grid filter.
func (q LedgerQuery) Filter() ledger.Filter {
	return ledger.Filter{Class: q.Class, Section: q.Section, Year: q.Year}
}

// CommitCellRequest commits the typed text of one ledger cell.
type CommitCellRequest struct {
	StudentID string              `json:"student_id" validate:"required"`
	Year      string              `json:"year" validate:"required,numeric,len=4"`
	Month     string              `json:"month" validate:"required"`
	Field     models.PaymentField `json:"field" validate:"required"`
	Value     string              `json:"value"`
}

// CommitCellResult reports the stored row. Written is false when the value was already stored.
type CommitCellResult struct {
	Payment  models.Payment  `json:"payment"`
	Written  bool            `json:"written"`
	RowTotal decimal.Decimal `json:"row_total"`
}

// LedgerConfig tunes grid layout and caching.
type LedgerConfig struct {
	CardSize int
	CacheTTL time.Duration
}

// LedgerService serves the fee ledger grid and commits single-cell edits.
type LedgerService struct {
	students  ledgerStudentRepository
	payments  paymentRepository
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       LedgerConfig
}

// NewLedgerService constructs the ledger service. cache and metrics may be nil.
func NewLedgerService(students ledgerStudentRepository, payments paymentRepository, cacheSvc *CacheService, metrics *MetricsService, cfg LedgerConfig, validate *validator.Validate, logger *zap.Logger) *LedgerService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CardSize <= 0 {
		cfg.CardSize = ledger.DefaultCardSize
	}
	return &LedgerService{
		students:  students,
		payments:  payments,
		cache:     cacheSvc,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
	}
}

// Grid returns the cohort grid for a year. cacheHit reports whether it was served from cache.
func (s *LedgerService) Grid(ctx context.Context, q LedgerQuery) (grid *ledger.Grid, cacheHit bool, err error) {
	if err := s.validator.Struct(q); err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid ledger query")
	}
	key := cache.LedgerKey(q.Class, q.Section, q.Year)
	var cached ledger.Grid
	if s.cache.Get(ctx, key, &cached) {
		return &cached, true, nil
	}

	students, err := s.students.Cohort(ctx, q.Class, q.Section)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load cohort")
	}
	ids := make([]string, len(students))
	for i, st := range students {
		ids[i] = st.ID
	}
	var payments []models.Payment
	if len(ids) > 0 {
		payments, err = s.payments.List(ctx, models.PaymentFilter{Year: q.Year, StudentIDs: ids})
		if err != nil {
			return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load payments")
		}
	}

	summary := ledger.Aggregate(q.Year, students, payments)
	built := ledger.BuildGrid(q.Filter(), students, summary, s.cfg.CardSize)
	s.cache.Set(ctx, key, built, s.cfg.CacheTTL)
	return &built, false, nil
}

// CommitCell parses the typed value and merges it into the stored row of (student, year, month).
// Sibling categories of the row are preserved and an unchanged value is not written.
func (s *LedgerService) CommitCell(ctx context.Context, req CommitCellRequest) (*CommitCellResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid ledger cell")
	}
	if models.MonthIndex(req.Month) < 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown month %q", req.Month))
	}
	if !req.Field.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown payment field %q", req.Field))
	}
	if _, err := s.students.FindByID(ctx, req.StudentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	edit := ledger.CellEdit{
		Key:   models.PaymentKey{StudentID: req.StudentID, Year: req.Year, Month: req.Month},
		Field: req.Field,
		Value: ledger.ParseAmount(req.Value),
	}
	existing, err := s.payments.FindByKey(ctx, edit.Key)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load payment")
		}
		existing = nil
	}

	row, write := ledger.Merge(existing, edit)
	if !write {
		s.metrics.RecordLedgerCommit(LedgerWriteSkipped)
		s.logger.Debug("ledger cell unchanged", zap.String("student_id", req.StudentID), zap.String("month", req.Month), zap.String("field", string(req.Field)))
		return &CommitCellResult{Payment: row, Written: false, RowTotal: row.Total()}, nil
	}

	saved, err := s.payments.Upsert(ctx, row)
	if err != nil {
		s.metrics.RecordLedgerCommit(LedgerWriteFailed)
		s.logger.Error("ledger cell save failed", zap.String("student_id", req.StudentID), zap.String("month", req.Month), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save payment")
	}
	s.metrics.RecordLedgerCommit(LedgerWriteSaved)
	s.cache.Invalidate(ctx, cache.LedgerPattern(req.Year))
	return &CommitCellResult{Payment: saved, Written: true, RowTotal: saved.Total()}, nil
}

// LedgerStore adapts the repositories to ledger.Store for interactive editors. Writes drop the
// cached grids of the affected year.
type LedgerStore struct {
	students ledgerStudentRepository
	payments paymentRepository
	cache    *CacheService
}

// NewLedgerStore constructs a LedgerStore. cache may be nil.
func NewLedgerStore(students ledgerStudentRepository, payments paymentRepository, cacheSvc *CacheService) *LedgerStore {
	return &LedgerStore{students: students, payments: payments, cache: cacheSvc}
}

// Cohort implements ledger.Store.
func (s *LedgerStore) Cohort(ctx context.Context, class, section string) ([]models.Student, error) {
	return s.students.Cohort(ctx, class, section)
}

// Payments implements ledger.Store.
func (s *LedgerStore) Payments(ctx context.Context, filter models.PaymentFilter) ([]models.Payment, error) {
	if len(filter.StudentIDs) == 0 {
		return nil, nil
	}
	return s.payments.List(ctx, filter)
}

// UpsertPayment implements ledger.Store.
func (s *LedgerStore) UpsertPayment(ctx context.Context, payment models.Payment) (models.Payment, error) {
	saved, err := s.payments.Upsert(ctx, payment)
	if err != nil {
		return models.Payment{}, err
	}
	s.cache.Invalidate(ctx, cache.LedgerPattern(payment.Year))
	return saved, nil
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/school-ledger-api/internal/grading"
	"github.com/noah-isme/school-ledger-api/internal/models"
	appErrors "github.com/noah-isme/school-ledger-api/pkg/errors"
)

type resultRepository interface {
	List(ctx context.Context, filter models.ResultFilter) ([]models.ResultCard, error)
	BulkUpsert(ctx context.Context, rows []models.ResultCard) error
}

type studentFinder interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

type subjectCatalogue interface {
	Catalogue(ctx context.Context) ([]models.Subject, error)
}

// SheetQuery selects the exam of a session.
type SheetQuery struct {
	Session  string `form:"session" json:"session" validate:"required,numeric,len=4"`
	ExamType string `form:"exam_type" json:"exam_type" validate:"required"`
}

// MarkEntry holds the marks typed for one subject. Values are free text and may use Bengali digits.
type MarkEntry struct {
	Subject  string `json:"subject" validate:"required"`
	Tutorial string `json:"tutorial_marks"`
	CQ       string `json:"sub_marks"`
	MCQ      string `json:"obj_marks"`
}

// SaveSheetRequest carries the full subject set of one exam.
type SaveSheetRequest struct {
	SheetQuery
	Rows []MarkEntry `json:"rows" validate:"dive"`
}

// ResultSheet is the editable sheet of one exam with the running totals of every exam.
type ResultSheet struct {
	Student models.Student        `json:"student"`
	Sheet   grading.Sheet         `json:"sheet"`
	Summary []grading.ExamSummary `json:"summary"`
}

// ResultCardView is the cumulative card of a session.
type ResultCardView struct {
	Student models.Student        `json:"student"`
	Session string                `json:"session"`
	Rows    []grading.CardRow     `json:"rows"`
	Summary []grading.ExamSummary `json:"summary"`
	Legend  []grading.Tier        `json:"legend"`
}

// ResultService loads, recomputes and saves exam mark sheets.
type ResultService struct {
	results   resultRepository
	students  studentFinder
	subjects  subjectCatalogue
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewResultService constructs the result service.
func NewResultService(results resultRepository, students studentFinder, subjects subjectCatalogue, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *ResultService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResultService{results: results, students: students, subjects: subjects, metrics: metrics, validator: validate, logger: logger}
}

// LoadSheet projects the stored rows of one exam onto the catalogue. Subjects without marks are
// zero-filled.
func (s *ResultService) LoadSheet(ctx context.Context, studentID string, q SheetQuery) (*ResultSheet, error) {
	if err := s.validateQuery(q); err != nil {
		return nil, err
	}
	student, catalogue, stored, err := s.load(ctx, studentID, q.Session)
	if err != nil {
		return nil, err
	}
	sheet := grading.NewSheet(*student, q.Session, q.ExamType, catalogue, stored)
	return s.view(*student, sheet, catalogue, stored), nil
}

// Preview recomputes the submitted marks without saving them.
func (s *ResultService) Preview(ctx context.Context, studentID string, req SaveSheetRequest) (*ResultSheet, error) {
	if err := s.validateSave(req); err != nil {
		return nil, err
	}
	student, catalogue, stored, err := s.load(ctx, studentID, req.Session)
	if err != nil {
		return nil, err
	}
	sheet := grading.NewSheet(*student, req.Session, req.ExamType, catalogue, stored).Merge(entriesToRows(req.Rows))
	return s.view(*student, sheet, catalogue, stored), nil
}

// SaveSheet recomputes every subject of the exam and writes the whole set in one transaction.
// Grades sent by clients are never trusted.
func (s *ResultService) SaveSheet(ctx context.Context, studentID string, req SaveSheetRequest) (*ResultSheet, error) {
	if err := s.validateSave(req); err != nil {
		return nil, err
	}
	student, catalogue, stored, err := s.load(ctx, studentID, req.Session)
	if err != nil {
		return nil, err
	}
	sheet := grading.NewSheet(*student, req.Session, req.ExamType, catalogue, stored).Merge(entriesToRows(req.Rows))
	if err := s.results.BulkUpsert(ctx, sheet.Rows); err != nil {
		s.logger.Error("result sheet save failed", zap.String("student_id", studentID), zap.String("exam_type", req.ExamType), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save results")
	}
	s.metrics.RecordResultRows(len(sheet.Rows))
	s.logger.Info("result sheet saved", zap.String("student_id", studentID), zap.String("session", req.Session), zap.String("exam_type", req.ExamType), zap.Int("subjects", len(sheet.Rows)))
	return s.view(*student, sheet, catalogue, stored), nil
}

// Card builds the cumulative result card of a session across every exam.
func (s *ResultService) Card(ctx context.Context, studentID, session string) (*ResultCardView, error) {
	if err := s.validator.Var(session, "required,numeric,len=4"); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid session")
	}
	student, catalogue, stored, err := s.load(ctx, studentID, session)
	if err != nil {
		return nil, err
	}
	rows := recomputeAll(stored, catalogue, student.Class)
	return &ResultCardView{
		Student: *student,
		Session: session,
		Rows:    grading.Card(rows, catalogue),
		Summary: grading.Summarize(rows, catalogue),
		Legend:  grading.GradingIndex(grading.CohortOf(student.Class)),
	}, nil
}

func (s *ResultService) load(ctx context.Context, studentID, session string) (*models.Student, []models.Subject, []models.ResultCard, error) {
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	catalogue, err := s.subjects.Catalogue(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	stored, err := s.results.List(ctx, models.ResultFilter{StudentID: studentID, Session: session})
	if err != nil {
		return nil, nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load results")
	}
	return student, catalogue, stored, nil
}

func (s *ResultService) view(student models.Student, sheet grading.Sheet, catalogue []models.Subject, stored []models.ResultCard) *ResultSheet {
	all := make([]models.ResultCard, 0, len(stored)+len(sheet.Rows))
	for _, r := range recomputeAll(stored, catalogue, student.Class) {
		if r.ExamType != sheet.ExamType {
			all = append(all, r)
		}
	}
	all = append(all, sheet.Rows...)
	return &ResultSheet{Student: student, Sheet: sheet, Summary: grading.Summarize(all, catalogue)}
}

func (s *ResultService) validateQuery(q SheetQuery) error {
	if err := s.validator.Struct(q); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid sheet query")
	}
	if !grading.ValidExamType(q.ExamType) {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown exam type %q", q.ExamType))
	}
	return nil
}

func (s *ResultService) validateSave(req SaveSheetRequest) error {
	if err := s.validateQuery(req.SheetQuery); err != nil {
		return err
	}
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid result rows")
	}
	return nil
}

func entriesToRows(entries []MarkEntry) []models.ResultCard {
	rows := make([]models.ResultCard, len(entries))
	for i, e := range entries {
		rows[i] = models.ResultCard{
			Subject:       e.Subject,
			TutorialMarks: grading.ParseMark(e.Tutorial),
			SubMarks:      grading.ParseMark(e.CQ),
			ObjMarks:      grading.ParseMark(e.MCQ),
		}
	}
	return rows
}

// recomputeAll re-derives stored rows against the current catalogue and drops rows of subjects
// that are no longer offered.
func recomputeAll(rows []models.ResultCard, catalogue []models.Subject, classLabel string) []models.ResultCard {
	bySubject := make(map[string]models.Subject, len(catalogue))
	for _, subj := range catalogue {
		bySubject[subj.Name] = subj
	}
	out := make([]models.ResultCard, 0, len(rows))
	for _, r := range rows {
		subj, ok := bySubject[r.Subject]
		if !ok {
			continue
		}
		out = append(out, grading.Recompute(r, subj, classLabel))
	}
	return out
}

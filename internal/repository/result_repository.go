package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/school-ledger-api/internal/models"
)

const resultColumns = `id, student_id, session, exam_type, subject, tutorial_marks, sub_marks, obj_marks, total_marks, grade, grade_point, created_at, updated_at`

// ResultRepository persists per-subject exam marks.
type ResultRepository struct {
	db *sqlx.DB
}

// NewResultRepository constructs a ResultRepository.
func NewResultRepository(db *sqlx.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

// List returns result rows for a student, optionally narrowed by session and exam.
func (r *ResultRepository) List(ctx context.Context, filter models.ResultFilter) ([]models.ResultCard, error) {
	conditions := []string{"student_id = $1"}
	args := []interface{}{filter.StudentID}
	if filter.Session != "" {
		conditions = append(conditions, fmt.Sprintf("session = $%d", len(args)+1))
		args = append(args, filter.Session)
	}
	if filter.ExamType != "" {
		conditions = append(conditions, fmt.Sprintf("exam_type = $%d", len(args)+1))
		args = append(args, filter.ExamType)
	}
	query := fmt.Sprintf("SELECT %s FROM result_cards WHERE %s ORDER BY exam_type, subject", resultColumns, strings.Join(conditions, " AND "))

	var rows []models.ResultCard
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	return rows, nil
}

// BulkUpsert writes every row in one transaction keyed by (student_id, session, exam_type, subject).
// Nothing is committed when any row fails.
func (r *ResultRepository) BulkUpsert(ctx context.Context, rows []models.ResultCard) error {
	if len(rows) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin results tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const query = `INSERT INTO result_cards (id, student_id, session, exam_type, subject, tutorial_marks, sub_marks, obj_marks, total_marks, grade, grade_point, created_at, updated_at)
        VALUES (:id, :student_id, :session, :exam_type, :subject, :tutorial_marks, :sub_marks, :obj_marks, :total_marks, :grade, :grade_point, :created_at, :updated_at)
        ON CONFLICT (student_id, session, exam_type, subject) DO UPDATE SET
            tutorial_marks = EXCLUDED.tutorial_marks,
            sub_marks = EXCLUDED.sub_marks,
            obj_marks = EXCLUDED.obj_marks,
            total_marks = EXCLUDED.total_marks,
            grade = EXCLUDED.grade,
            grade_point = EXCLUDED.grade_point,
            updated_at = EXCLUDED.updated_at`

	now := time.Now().UTC()
	for i := range rows {
		row := rows[i]
		if row.ID == "" {
			row.ID = uuid.NewString()
		}
		if row.CreatedAt.IsZero() {
			row.CreatedAt = now
		}
		row.UpdatedAt = now
		if _, err = tx.NamedExecContext(ctx, query, row); err != nil {
			return fmt.Errorf("upsert result %s: %w", row.Subject, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit results: %w", err)
	}
	return nil
}

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/school-ledger-api/internal/models"
)

const studentColumns = `id, sl_no, name_bengali, name_english, father_name, father_occupation, mother_name, mother_occupation,
        present_address, present_phone, permanent_address, permanent_phone, date_of_birth, class, section, shift,
        previous_institute, previous_address, previous_class, session, photo_url, created_at, updated_at`

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns students matching the provided filters ordered by serial number.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	args := []interface{}{}
	conditions := []string{"1=1"}

	if filter.Class != "" {
		conditions = append(conditions, fmt.Sprintf("class = $%d", len(args)+1))
		args = append(args, filter.Class)
	}
	if filter.Section != "" {
		conditions = append(conditions, fmt.Sprintf("section = $%d", len(args)+1))
		args = append(args, filter.Section)
	}
	if filter.Session != "" {
		conditions = append(conditions, fmt.Sprintf("session = $%d", len(args)+1))
		args = append(args, filter.Session)
	}
	if filter.Search != "" {
		n := len(args) + 1
		conditions = append(conditions, fmt.Sprintf("(name_bengali ILIKE $%d OR name_english ILIKE $%d OR sl_no ILIKE $%d)", n, n, n))
		args = append(args, "%"+filter.Search+"%")
	}

	where := "WHERE " + strings.Join(conditions, " AND ")

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s FROM students %s ORDER BY sl_no ASC LIMIT %d OFFSET %d", studentColumns, where, size, offset)

	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM students "+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}
	return students, total, nil
}

// Cohort returns every student of a class and section in roll order. An empty section selects the whole class.
func (r *StudentRepository) Cohort(ctx context.Context, class, section string) ([]models.Student, error) {
	query := fmt.Sprintf("SELECT %s FROM students WHERE class = $1", studentColumns)
	args := []interface{}{class}
	if section != "" {
		query += " AND section = $2"
		args = append(args, section)
	}
	query += " ORDER BY sl_no ASC"

	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, fmt.Errorf("list cohort: %w", err)
	}
	return students, nil
}

// FindByID fetches a student by ID.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	query := fmt.Sprintf("SELECT %s FROM students WHERE id = $1", studentColumns)
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// Create inserts a new student record.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if student.CreatedAt.IsZero() {
		student.CreatedAt = now
	}
	student.UpdatedAt = now
	const query = `INSERT INTO students (id, sl_no, name_bengali, name_english, father_name, father_occupation, mother_name, mother_occupation,
        present_address, present_phone, permanent_address, permanent_phone, date_of_birth, class, section, shift,
        previous_institute, previous_address, previous_class, session, photo_url, created_at, updated_at)
        VALUES (:id, :sl_no, :name_bengali, :name_english, :father_name, :father_occupation, :mother_name, :mother_occupation,
        :present_address, :present_phone, :permanent_address, :permanent_phone, :date_of_birth, :class, :section, :shift,
        :previous_institute, :previous_address, :previous_class, :session, :photo_url, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// Update modifies an existing student.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	student.UpdatedAt = time.Now().UTC()
	const query = `UPDATE students SET sl_no = :sl_no, name_bengali = :name_bengali, name_english = :name_english,
        father_name = :father_name, father_occupation = :father_occupation, mother_name = :mother_name,
        mother_occupation = :mother_occupation, present_address = :present_address, present_phone = :present_phone,
        permanent_address = :permanent_address, permanent_phone = :permanent_phone, date_of_birth = :date_of_birth,
        class = :class, section = :section, shift = :shift, previous_institute = :previous_institute,
        previous_address = :previous_address, previous_class = :previous_class, session = :session,
        photo_url = :photo_url, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	return nil
}

// Delete removes a student. Payments and result rows cascade.
func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

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

const paymentColumns = `id, student_id, year, month, admission_fee, backdue, salary, exam_fee, miscellaneous, created_at, updated_at`

// PaymentRepository persists monthly fee rows keyed by (student_id, year, month).
type PaymentRepository struct {
	db *sqlx.DB
}

// NewPaymentRepository constructs a PaymentRepository.
func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// List returns the payments of a year, optionally restricted to a set of students.
func (r *PaymentRepository) List(ctx context.Context, filter models.PaymentFilter) ([]models.Payment, error) {
	query := fmt.Sprintf("SELECT %s FROM payments WHERE year = $1", paymentColumns)
	args := []interface{}{filter.Year}
	if len(filter.StudentIDs) > 0 {
		placeholders := make([]string, len(filter.StudentIDs))
		for i, id := range filter.StudentIDs {
			args = append(args, id)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		query += " AND student_id IN (" + strings.Join(placeholders, ", ") + ")"
	}
	query += " ORDER BY student_id, month"

	var payments []models.Payment
	if err := r.db.SelectContext(ctx, &payments, query, args...); err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return payments, nil
}

// FindByKey fetches one row by its natural key.
func (r *PaymentRepository) FindByKey(ctx context.Context, key models.PaymentKey) (*models.Payment, error) {
	query := fmt.Sprintf("SELECT %s FROM payments WHERE student_id = $1 AND year = $2 AND month = $3", paymentColumns)
	var payment models.Payment
	if err := r.db.GetContext(ctx, &payment, query, key.StudentID, key.Year, key.Month); err != nil {
		return nil, err
	}
	return &payment, nil
}

// Upsert writes the full row, replacing every category of an existing row with the same key.
func (r *PaymentRepository) Upsert(ctx context.Context, payment models.Payment) (models.Payment, error) {
	if payment.ID == "" {
		payment.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = now
	}
	payment.UpdatedAt = now

	const query = `INSERT INTO payments (id, student_id, year, month, admission_fee, backdue, salary, exam_fee, miscellaneous, created_at, updated_at)
        VALUES (:id, :student_id, :year, :month, :admission_fee, :backdue, :salary, :exam_fee, :miscellaneous, :created_at, :updated_at)
        ON CONFLICT (student_id, year, month) DO UPDATE SET
            admission_fee = EXCLUDED.admission_fee,
            backdue = EXCLUDED.backdue,
            salary = EXCLUDED.salary,
            exam_fee = EXCLUDED.exam_fee,
            miscellaneous = EXCLUDED.miscellaneous,
            updated_at = EXCLUDED.updated_at
        RETURNING ` + paymentColumns

	rows, err := r.db.NamedQueryContext(ctx, query, payment)
	if err != nil {
		return models.Payment{}, fmt.Errorf("upsert payment: %w", err)
	}
	defer rows.Close()

	var saved models.Payment
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return models.Payment{}, fmt.Errorf("upsert payment: %w", err)
		}
		return models.Payment{}, fmt.Errorf("upsert payment: no row returned")
	}
	if err := rows.StructScan(&saved); err != nil {
		return models.Payment{}, fmt.Errorf("scan upserted payment: %w", err)
	}
	return saved, nil
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Months are the ledger column keys in calendar order.
var Months = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// MonthIndex returns the zero-based position of month or -1 when it is not a month name.
func MonthIndex(month string) int {
	for i, m := range Months {
		if m == month {
			return i
		}
	}
	return -1
}

// PaymentField names one category column of a payment row.
type PaymentField string

// Payment categories.
const (
	FieldAdmissionFee  PaymentField = "admission_fee"
	FieldBackdue       PaymentField = "backdue"
	FieldSalary        PaymentField = "salary"
	FieldExamFee       PaymentField = "exam_fee"
	FieldMiscellaneous PaymentField = "miscellaneous"
)

// PaymentFields lists every category in display order.
var PaymentFields = []PaymentField{FieldAdmissionFee, FieldBackdue, FieldSalary, FieldExamFee, FieldMiscellaneous}

// Valid reports whether f is a known category.
func (f PaymentField) Valid() bool {
	for _, known := range PaymentFields {
		if f == known {
			return true
		}
	}
	return false
}

// PaymentKey is the natural key of a payment row.
type PaymentKey struct {
	StudentID string `json:"student_id"`
	Year      string `json:"year"`
	Month     string `json:"month"`
}

// Payment records money received for one student in one month of one year.
type Payment struct {
	ID            string          `db:"id" json:"id"`
	StudentID     string          `db:"student_id" json:"student_id"`
	Year          string          `db:"year" json:"year"`
	Month         string          `db:"month" json:"month"`
	AdmissionFee  decimal.Decimal `db:"admission_fee" json:"admission_fee"`
	Backdue       decimal.Decimal `db:"backdue" json:"backdue"`
	Salary        decimal.Decimal `db:"salary" json:"salary"`
	ExamFee       decimal.Decimal `db:"exam_fee" json:"exam_fee"`
	Miscellaneous decimal.Decimal `db:"miscellaneous" json:"miscellaneous"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
}

// Key returns the natural key of the row.
func (p Payment) Key() PaymentKey {
	return PaymentKey{StudentID: p.StudentID, Year: p.Year, Month: p.Month}
}

// Amount returns the value stored for field.
func (p Payment) Amount(field PaymentField) decimal.Decimal {
	switch field {
	case FieldAdmissionFee:
		return p.AdmissionFee
	case FieldBackdue:
		return p.Backdue
	case FieldSalary:
		return p.Salary
	case FieldExamFee:
		return p.ExamFee
	case FieldMiscellaneous:
		return p.Miscellaneous
	}
	return decimal.Zero
}

// WithAmount returns a copy of p with field set to value.
func (p Payment) WithAmount(field PaymentField, value decimal.Decimal) Payment {
	switch field {
	case FieldAdmissionFee:
		p.AdmissionFee = value
	case FieldBackdue:
		p.Backdue = value
	case FieldSalary:
		p.Salary = value
	case FieldExamFee:
		p.ExamFee = value
	case FieldMiscellaneous:
		p.Miscellaneous = value
	}
	return p
}

// Total is the derived row total. It is never stored.
func (p Payment) Total() decimal.Decimal {
	return p.AdmissionFee.Add(p.Backdue).Add(p.Salary).Add(p.ExamFee).Add(p.Miscellaneous)
}

// PaymentFilter scopes payment queries.
type PaymentFilter struct {
	Year       string
	StudentIDs []string
}

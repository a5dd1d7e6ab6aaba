// Package ledger computes fee ledger totals and reconciles single-cell edits of the ledger grid.
package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/noah-isme/school-ledger-api/internal/models"
)

// Amounts holds one value per payment category.
type Amounts struct {
	AdmissionFee  decimal.Decimal `json:"admission_fee"`
	Backdue       decimal.Decimal `json:"backdue"`
	Salary        decimal.Decimal `json:"salary"`
	ExamFee       decimal.Decimal `json:"exam_fee"`
	Miscellaneous decimal.Decimal `json:"miscellaneous"`
}

func amountsOf(p models.Payment) Amounts {
	return Amounts{
		AdmissionFee:  p.AdmissionFee,
		Backdue:       p.Backdue,
		Salary:        p.Salary,
		ExamFee:       p.ExamFee,
		Miscellaneous: p.Miscellaneous,
	}
}

// Add returns the category-wise sum of a and b.
func (a Amounts) Add(b Amounts) Amounts {
	return Amounts{
		AdmissionFee:  a.AdmissionFee.Add(b.AdmissionFee),
		Backdue:       a.Backdue.Add(b.Backdue),
		Salary:        a.Salary.Add(b.Salary),
		ExamFee:       a.ExamFee.Add(b.ExamFee),
		Miscellaneous: a.Miscellaneous.Add(b.Miscellaneous),
	}
}

// Get returns the value of one category.
func (a Amounts) Get(field models.PaymentField) decimal.Decimal {
	switch field {
	case models.FieldAdmissionFee:
		return a.AdmissionFee
	case models.FieldBackdue:
		return a.Backdue
	case models.FieldSalary:
		return a.Salary
	case models.FieldExamFee:
		return a.ExamFee
	case models.FieldMiscellaneous:
		return a.Miscellaneous
	}
	return decimal.Zero
}

// Total sums every category.
func (a Amounts) Total() decimal.Decimal {
	return a.AdmissionFee.Add(a.Backdue).Add(a.Salary).Add(a.ExamFee).Add(a.Miscellaneous)
}

// StudentTotals is one ledger row.
type StudentTotals struct {
	StudentID  string             `json:"student_id"`
	Categories Amounts            `json:"categories"`
	Months     map[string]Amounts `json:"months"`
	GrandTotal decimal.Decimal    `json:"grand_total"`
}

// MonthTotals is one ledger column summed over the cohort.
type MonthTotals struct {
	Categories Amounts         `json:"categories"`
	Total      decimal.Decimal `json:"total"`
}

// Summary is the aggregate of a cohort's payments for one year.
type Summary struct {
	Year       string                   `json:"year"`
	Students   map[string]StudentTotals `json:"students"`
	Months     map[string]MonthTotals   `json:"months"`
	Categories Amounts                  `json:"categories"`
	GrandTotal decimal.Decimal          `json:"grand_total"`
}

// Aggregate folds payments into per-student, per-month and overall totals in one pass.
// Every cohort student and every month is present with zero totals even without payments.
// Payments of students outside the cohort, of another year, or with an unknown month are skipped.
// An empty year accepts payments of any year.
func Aggregate(year string, students []models.Student, payments []models.Payment) Summary {
	rows := make(map[string]*StudentTotals, len(students))
	for _, s := range students {
		rows[s.ID] = &StudentTotals{StudentID: s.ID, Months: zeroMonths()}
	}
	columns := make(map[string]Amounts, len(models.Months))
	var overall Amounts

	for _, p := range payments {
		row, ok := rows[p.StudentID]
		if !ok {
			continue
		}
		if year != "" && p.Year != year {
			continue
		}
		if models.MonthIndex(p.Month) < 0 {
			continue
		}
		amt := amountsOf(p)
		row.Categories = row.Categories.Add(amt)
		row.Months[p.Month] = row.Months[p.Month].Add(amt)
		columns[p.Month] = columns[p.Month].Add(amt)
		overall = overall.Add(amt)
	}

	summary := Summary{
		Year:       year,
		Students:   make(map[string]StudentTotals, len(rows)),
		Months:     make(map[string]MonthTotals, len(models.Months)),
		Categories: overall,
		GrandTotal: overall.Total(),
	}
	for id, row := range rows {
		row.GrandTotal = row.Categories.Total()
		summary.Students[id] = *row
	}
	for _, m := range models.Months {
		col := columns[m]
		summary.Months[m] = MonthTotals{Categories: col, Total: col.Total()}
	}
	return summary
}

func zeroMonths() map[string]Amounts {
	months := make(map[string]Amounts, len(models.Months))
	for _, m := range models.Months {
		months[m] = Amounts{}
	}
	return months
}

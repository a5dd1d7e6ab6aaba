package grading

import (
	"math"

	"github.com/noah-isme/school-ledger-api/internal/models"
)

// ExamSummary totals one exam of a session for the printed card.
type ExamSummary struct {
	ExamType         string  `json:"exam_type"`
	Subjects         int     `json:"subjects"`
	TotalMarks       float64 `json:"total_marks"`
	TotalGradePoints float64 `json:"total_grade_points"`
	GPA              float64 `json:"gpa"`
}

// CardRow is one subject line of the cumulative result card.
type CardRow struct {
	Subject  string                        `json:"subject"`
	MaxMarks float64                       `json:"max_marks"`
	Exams    map[string]*models.ResultCard `json:"exams"`
}

// Summarize totals every exam type. GPA divides by the size of the catalogue, not by the number of
// graded subjects, so a missing subject counts as zero points.
func Summarize(all []models.ResultCard, catalogue []models.Subject) []ExamSummary {
	out := make([]ExamSummary, 0, len(models.ExamTypes))
	for _, exam := range models.ExamTypes {
		sum := ExamSummary{ExamType: exam}
		for _, r := range all {
			if r.ExamType != exam {
				continue
			}
			sum.Subjects++
			sum.TotalMarks += r.TotalMarks
			sum.TotalGradePoints += r.GradePoint
		}
		if sum.Subjects > 0 && len(catalogue) > 0 {
			sum.GPA = round2(sum.TotalGradePoints / float64(len(catalogue)))
		}
		sum.TotalGradePoints = round2(sum.TotalGradePoints)
		out = append(out, sum)
	}
	return out
}

// Card lays out every catalogue subject against the marks of each exam.
func Card(all []models.ResultCard, catalogue []models.Subject) []CardRow {
	rows := make([]CardRow, len(catalogue))
	index := make(map[string]int, len(catalogue))
	for i, subj := range catalogue {
		rows[i] = CardRow{Subject: subj.Name, MaxMarks: subj.TotalMarks, Exams: make(map[string]*models.ResultCard)}
		index[subj.Name] = i
	}
	for i := range all {
		r := all[i]
		idx, ok := index[r.Subject]
		if !ok {
			continue
		}
		rows[idx].Exams[r.ExamType] = &r
	}
	return rows
}

// ValidExamType reports whether exam is one of the session exams.
func ValidExamType(exam string) bool {
	for _, e := range models.ExamTypes {
		if e == exam {
			return true
		}
	}
	return false
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

package grading

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/noah-isme/school-ledger-api/internal/models"
	"github.com/noah-isme/school-ledger-api/pkg/numeral"
)

var leadingNumber = regexp.MustCompile(`^[+-]?\d+(\.\d+)?`)

// ParseMark reads free-text mark input. Unparseable text counts as zero.
func ParseMark(raw string) float64 {
	s := strings.TrimSpace(numeral.ToArabic(raw))
	if v, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
		return v
	}
	if m := leadingNumber.FindString(s); m != "" {
		v, _ := strconv.ParseFloat(m, 64)
		return v
	}
	return 0
}

// Recompute derives total, grade and point for row. Components the subject does not use are zeroed,
// so a stored grade is never trusted over its inputs.
func Recompute(row models.ResultCard, subject models.Subject, classLabel string) models.ResultCard {
	if !subject.HasTutorial {
		row.TutorialMarks = 0
	}
	if !subject.HasCQ {
		row.SubMarks = 0
	}
	if !subject.HasMCQ {
		row.ObjMarks = 0
	}
	row.TotalMarks = row.TutorialMarks + row.SubMarks + row.ObjMarks
	res := Calculate(row.TotalMarks, subject.TotalMarks, classLabel)
	row.Grade = res.Grade
	row.GradePoint = res.Point
	return row
}

// Sheet is the editable mark sheet of one student for one exam, one row per catalogue subject.
type Sheet struct {
	StudentID  string              `json:"student_id"`
	ClassLabel string              `json:"class"`
	Session    string              `json:"session"`
	ExamType   string              `json:"exam_type"`
	Subjects   []models.Subject    `json:"subjects"`
	Rows       []models.ResultCard `json:"rows"`
}

// NewSheet projects the rows of examType out of existing, zero-filling subjects that have no row.
// existing may hold rows of other exams; they are ignored here.
func NewSheet(student models.Student, session, examType string, catalogue []models.Subject, existing []models.ResultCard) Sheet {
	bySubject := make(map[string]models.ResultCard)
	for _, r := range existing {
		if r.ExamType == examType && r.Session == session {
			bySubject[r.Subject] = r
		}
	}
	sheet := Sheet{
		StudentID:  student.ID,
		ClassLabel: student.Class,
		Session:    session,
		ExamType:   examType,
		Subjects:   append([]models.Subject(nil), catalogue...),
		Rows:       make([]models.ResultCard, len(catalogue)),
	}
	for i, subj := range catalogue {
		row, ok := bySubject[subj.Name]
		if !ok {
			row = models.ResultCard{Subject: subj.Name}
		}
		row.StudentID = student.ID
		row.Session = session
		row.ExamType = examType
		sheet.Rows[i] = Recompute(row, subj, student.Class)
	}
	return sheet
}

// SetComponent returns a copy of the sheet with one component of one subject changed and that row
// recomputed.
func (s Sheet) SetComponent(subject string, component models.MarkComponent, value float64) (Sheet, error) {
	idx := s.indexOf(subject)
	if idx < 0 {
		return s, fmt.Errorf("unknown subject %q", subject)
	}
	row := s.Rows[idx]
	switch component {
	case models.ComponentTutorial:
		row.TutorialMarks = value
	case models.ComponentCQ:
		row.SubMarks = value
	case models.ComponentMCQ:
		row.ObjMarks = value
	default:
		return s, fmt.Errorf("unknown component %q", component)
	}
	out := s.clone()
	out.Rows[idx] = Recompute(row, s.Subjects[idx], s.ClassLabel)
	return out, nil
}

// Merge overlays the components of rows onto the sheet by subject name and recomputes every row.
// Rows naming subjects outside the catalogue are dropped.
func (s Sheet) Merge(rows []models.ResultCard) Sheet {
	out := s.clone()
	for _, r := range rows {
		idx := s.indexOf(r.Subject)
		if idx < 0 {
			continue
		}
		row := out.Rows[idx]
		row.TutorialMarks = r.TutorialMarks
		row.SubMarks = r.SubMarks
		row.ObjMarks = r.ObjMarks
		out.Rows[idx] = row
	}
	for i := range out.Rows {
		out.Rows[i] = Recompute(out.Rows[i], out.Subjects[i], out.ClassLabel)
	}
	return out
}

func (s Sheet) indexOf(subject string) int {
	for i, subj := range s.Subjects {
		if subj.Name == subject {
			return i
		}
	}
	return -1
}

func (s Sheet) clone() Sheet {
	out := s
	out.Rows = append([]models.ResultCard(nil), s.Rows...)
	out.Subjects = append([]models.Subject(nil), s.Subjects...)
	return out
}

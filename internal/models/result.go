package models

import "time"

// Exam names in the order they appear on the printed card.
const (
	ExamFirstTerminal  = "First Terminal"
	ExamSecondTerminal = "Second Terminal"
	ExamAnnual         = "Annual"
)

// ExamTypes lists the exams of a session.
var ExamTypes = []string{ExamFirstTerminal, ExamSecondTerminal, ExamAnnual}

// MarkComponent names one score component of a result row.
type MarkComponent string

// Mark components.
const (
	ComponentTutorial MarkComponent = "tutorial_marks"
	ComponentCQ       MarkComponent = "sub_marks"
	ComponentMCQ      MarkComponent = "obj_marks"
)

// ResultCard is one subject's marks for a student in one exam of a session.
// TotalMarks, Grade and GradePoint are derived from the components and the subject maximum.
type ResultCard struct {
	ID            string    `db:"id" json:"id,omitempty"`
	StudentID     string    `db:"student_id" json:"student_id"`
	Session       string    `db:"session" json:"session"`
	ExamType      string    `db:"exam_type" json:"exam_type"`
	Subject       string    `db:"subject" json:"subject"`
	TutorialMarks float64   `db:"tutorial_marks" json:"tutorial_marks"`
	SubMarks      float64   `db:"sub_marks" json:"sub_marks"`
	ObjMarks      float64   `db:"obj_marks" json:"obj_marks"`
	TotalMarks    float64   `db:"total_marks" json:"total_marks"`
	Grade         string    `db:"grade" json:"grade"`
	GradePoint    float64   `db:"grade_point" json:"grade_point"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// ResultFilter scopes result queries.
type ResultFilter struct {
	StudentID string
	Session   string
	ExamType  string
}

package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-ledger-api/internal/models"
)

func testCatalogue() []models.Subject {
	return []models.Subject{
		{Name: "Bangla", TotalMarks: 100, HasTutorial: true, HasCQ: true, HasMCQ: true},
		{Name: "Drawing", TotalMarks: 20, HasTutorial: false, HasCQ: true, HasMCQ: false},
	}
}

func TestParseMark(t *testing.T) {
	assert.Equal(t, 42.5, ParseMark(" 42.5 "))
	assert.Equal(t, 12.0, ParseMark("12abc"))
	assert.Equal(t, 0.0, ParseMark("abc"))
	assert.Equal(t, 0.0, ParseMark("NaN"))
	assert.Equal(t, 45.0, ParseMark("৪৫"))
}

func TestNewSheetZeroFillsMissingSubjects(t *testing.T) {
	student := models.Student{ID: "s1", Class: "Seven"}
	existing := []models.ResultCard{
		{StudentID: "s1", Session: "2025", ExamType: models.ExamFirstTerminal, Subject: "Bangla", TutorialMarks: 10, SubMarks: 50, ObjMarks: 22, Grade: "stale", GradePoint: 9},
		{StudentID: "s1", Session: "2025", ExamType: models.ExamAnnual, Subject: "Drawing", SubMarks: 18},
	}
	sheet := NewSheet(student, "2025", models.ExamFirstTerminal, testCatalogue(), existing)

	require.Len(t, sheet.Rows, 2)
	assert.Equal(t, 82.0, sheet.Rows[0].TotalMarks)
	assert.Equal(t, "A+", sheet.Rows[0].Grade)
	assert.Equal(t, 5.0, sheet.Rows[0].GradePoint)

	assert.Equal(t, "Drawing", sheet.Rows[1].Subject)
	assert.Equal(t, 0.0, sheet.Rows[1].TotalMarks)
	assert.Equal(t, "F", sheet.Rows[1].Grade)
	assert.Equal(t, models.ExamFirstTerminal, sheet.Rows[1].ExamType)
}

func TestSheetSetComponentRecomputes(t *testing.T) {
	sheet := NewSheet(models.Student{ID: "s1", Class: "Two"}, "2025", models.ExamFirstTerminal, testCatalogue(), nil)

	updated, err := sheet.SetComponent("Bangla", models.ComponentCQ, 60)
	require.NoError(t, err)
	updated, err = updated.SetComponent("Bangla", models.ComponentMCQ, 36)
	require.NoError(t, err)

	assert.Equal(t, 96.0, updated.Rows[0].TotalMarks)
	assert.Equal(t, "A++", updated.Rows[0].Grade)
	assert.Equal(t, 0.0, sheet.Rows[0].TotalMarks, "original sheet must not change")
}

func TestSheetSetComponentIgnoresUnusedComponent(t *testing.T) {
	sheet := NewSheet(models.Student{ID: "s1", Class: "Six"}, "2025", models.ExamAnnual, testCatalogue(), nil)

	updated, err := sheet.SetComponent("Drawing", models.ComponentTutorial, 15)
	require.NoError(t, err)
	assert.Equal(t, 0.0, updated.Rows[1].TotalMarks)

	updated, err = updated.SetComponent("Drawing", models.ComponentCQ, 16)
	require.NoError(t, err)
	assert.Equal(t, "A+", updated.Rows[1].Grade)
}

func TestSheetSetComponentErrors(t *testing.T) {
	sheet := NewSheet(models.Student{ID: "s1"}, "2025", models.ExamAnnual, testCatalogue(), nil)
	_, err := sheet.SetComponent("Physics", models.ComponentCQ, 1)
	assert.Error(t, err)
	_, err = sheet.SetComponent("Bangla", models.MarkComponent("oral"), 1)
	assert.Error(t, err)
}

func TestSheetMergeIgnoresClientGrades(t *testing.T) {
	sheet := NewSheet(models.Student{ID: "s1", Class: "Seven"}, "2025", models.ExamAnnual, testCatalogue(), nil)
	merged := sheet.Merge([]models.ResultCard{
		{Subject: "Bangla", SubMarks: 65, Grade: "A+", GradePoint: 5},
		{Subject: "Unknown", SubMarks: 10},
	})
	assert.Equal(t, "A-", merged.Rows[0].Grade)
	assert.Equal(t, 3.5, merged.Rows[0].GradePoint)
	assert.Len(t, merged.Rows, 2)
}

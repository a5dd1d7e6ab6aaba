// Package grading derives letter grades and grade points from raw marks.
package grading

import "strings"

// Cohort selects the tier table used for a class.
type Cohort string

// Cohorts.
const (
	CohortJunior Cohort = "junior"
	CohortSenior Cohort = "senior"
)

// DefaultMaxMarks is used when a subject maximum is missing or not positive.
const DefaultMaxMarks = 100.0

var seniorClasses = []string{"Five", "Six", "Seven", "Eight", "Nine", "Ten"}

// Tier is one row of a grading table. A percentage at or above MinPercent earns Grade.
type Tier struct {
	MinPercent float64 `json:"min_percent"`
	Grade      string  `json:"grade"`
	Point      float64 `json:"point"`
}

// Tables are ordered highest threshold first; the last tier catches everything.
var (
	seniorTiers = []Tier{
		{80, "A+", 5.00},
		{70, "A", 4.00},
		{60, "A-", 3.50},
		{50, "B", 3.00},
		{40, "C", 2.00},
		{33, "D", 1.00},
		{0, "F", 0.00},
	}
	juniorTiers = []Tier{
		{95, "A++", 5.00},
		{80, "A+", 4.50},
		{70, "A", 4.00},
		{60, "B+", 3.50},
		{50, "B", 3.00},
		{40, "C", 2.00},
		{33, "D", 1.00},
		{0, "F", 0.00},
	}
)

// Result is a computed grade.
type Result struct {
	Grade string  `json:"grade"`
	Point float64 `json:"point"`
}

// CohortOf classifies a class label. Labels containing a senior class name are senior.
func CohortOf(classLabel string) Cohort {
	for _, c := range seniorClasses {
		if strings.Contains(classLabel, c) {
			return CohortSenior
		}
	}
	return CohortJunior
}

// GradingIndex returns a copy of the tier table for cohort, for printed legends.
func GradingIndex(cohort Cohort) []Tier {
	src := juniorTiers
	if cohort == CohortSenior {
		src = seniorTiers
	}
	out := make([]Tier, len(src))
	copy(out, src)
	return out
}

// Calculate maps marks out of maxMarks to a grade for the cohort of classLabel.
// It never fails: anything below the lowest threshold, including negative or NaN percentages, is F.
func Calculate(marks, maxMarks float64, classLabel string) Result {
	if maxMarks <= 0 {
		maxMarks = DefaultMaxMarks
	}
	percentage := marks / maxMarks * 100

	tiers := juniorTiers
	if CohortOf(classLabel) == CohortSenior {
		tiers = seniorTiers
	}
	for _, tier := range tiers[:len(tiers)-1] {
		if percentage >= tier.MinPercent {
			return Result{Grade: tier.Grade, Point: tier.Point}
		}
	}
	last := tiers[len(tiers)-1]
	return Result{Grade: last.Grade, Point: last.Point}
}

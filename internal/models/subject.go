package models

import "time"

// Subject is a catalogue entry driving mark entry shape and grade denominators.
type Subject struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	TotalMarks  float64   `db:"total_marks" json:"total_marks"`
	HasTutorial bool      `db:"has_tutorial" json:"has_tutorial"`
	HasMCQ      bool      `db:"has_mcq" json:"has_mcq"`
	HasCQ       bool      `db:"has_cq" json:"has_cq"`
	OrderIndex  int       `db:"order_index" json:"order_index"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// DefaultSubjects is the catalogue used when no subjects are configured.
func DefaultSubjects() []Subject {
	entries := []struct {
		name  string
		total float64
	}{
		{"Bangla 1st paper", 100},
		{"Bangla 2nd paper", 100},
		{"English 1st paper", 100},
		{"English 2nd paper", 100},
		{"General Math.", 100},
		{"Social Science", 100},
		{"General Science", 100},
		{"Agriculture/Home Eco./Higher Math/Computer", 100},
		{"Religion", 100},
		{"History/Business Entrepreneurship/Physics", 100},
		{"Economics/civics/Finance & Banking/Chemistry", 100},
		{"Geography/Accounting/Biology", 100},
		{"Physical Studies", 100},
		{"Education For Work", 50},
		{"Music/Fine Art & craft", 50},
		{"Activity/Information & Communication Technology", 50},
		{"General Knowledge", 30},
		{"Drawing", 20},
	}
	subjects := make([]Subject, len(entries))
	for i, e := range entries {
		subjects[i] = Subject{
			Name:        e.name,
			TotalMarks:  e.total,
			HasTutorial: true,
			HasMCQ:      true,
			HasCQ:       true,
			OrderIndex:  i + 1,
		}
	}
	return subjects
}

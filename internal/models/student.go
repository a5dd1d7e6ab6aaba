package models

import "time"

// Student is an admission record. (class, section, session) groups students into a ledger cohort.
type Student struct {
	ID                string    `db:"id" json:"id"`
	SLNo              string    `db:"sl_no" json:"sl_no"`
	NameBengali       string    `db:"name_bengali" json:"name_bengali"`
	NameEnglish       string    `db:"name_english" json:"name_english"`
	FatherName        string    `db:"father_name" json:"father_name"`
	FatherOccupation  string    `db:"father_occupation" json:"father_occupation"`
	MotherName        string    `db:"mother_name" json:"mother_name"`
	MotherOccupation  string    `db:"mother_occupation" json:"mother_occupation"`
	PresentAddress    string    `db:"present_address" json:"present_address"`
	PresentPhone      string    `db:"present_phone" json:"present_phone"`
	PermanentAddress  string    `db:"permanent_address" json:"permanent_address"`
	PermanentPhone    string    `db:"permanent_phone" json:"permanent_phone"`
	DateOfBirth       string    `db:"date_of_birth" json:"date_of_birth"`
	Class             string    `db:"class" json:"class"`
	Section           string    `db:"section" json:"section"`
	Shift             string    `db:"shift" json:"shift"`
	PreviousInstitute string    `db:"previous_institute" json:"previous_institute"`
	PreviousAddress   string    `db:"previous_address" json:"previous_address"`
	PreviousClass     string    `db:"previous_class" json:"previous_class"`
	Session           string    `db:"session" json:"session"`
	PhotoURL          string    `db:"photo_url" json:"photo_url,omitempty"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	Search   string
	Class    string
	Section  string
	Session  string
	Page     int
	PageSize int
}

// Classes lists the class labels offered by the school, youngest first.
var Classes = []string{"Play Group", "Nursery", "K.G", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine", "Ten"}

// Sections lists the available class sections.
var Sections = []string{"A", "B", "C", "D"}

// Shifts lists the school shifts.
var Shifts = []string{"Morning", "Day"}

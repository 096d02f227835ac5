package models

import "time"

// AcademicPeriod represents one semester-length calendar window, e.g. "Fall 2025".
// Unique per (academic year, semester); StartDate must precede EndDate.
type AcademicPeriod struct {
	ID           int64     `json:"id" db:"id"`
	AcademicYear string    `json:"academicYear" db:"academic_year"`
	Semester     Semester  `json:"semester" db:"semester"`
	StartDate    time.Time `json:"startDate" db:"start_date"`
	EndDate      time.Time `json:"endDate" db:"end_date"`
}

// Label returns the human-readable period name, e.g. "FALL 2025-2026".
func (p *AcademicPeriod) Label() string {
	return string(p.Semester) + " " + p.AcademicYear
}

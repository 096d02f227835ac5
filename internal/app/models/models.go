package models

// Semester identifies the calendar half of an academic period.
type Semester string

const (
	SemesterFall   Semester = "FALL"
	SemesterWinter Semester = "WINTER"
)

// AcademicStatus is a student's standing within a department for a period.
type AcademicStatus string

const (
	StatusEnrolled  AcademicStatus = "ENROLLED"
	StatusProbation AcademicStatus = "PROBATION"
	StatusDismissed AcademicStatus = "DISMISSED"
	StatusGraduated AcademicStatus = "GRADUATED"
)

// DefaultSectionCapacity is the seat limit applied to newly created sections
// unless configuration overrides it.
const DefaultSectionCapacity = 30

package models

// CourseOffering is a course taught by a department in a given academic period
// for students at a given semester number (progression index, 1..12).
// Unique per (course-department, period, semester number).
type CourseOffering struct {
	ID                 int64 `json:"id" db:"id"`
	CourseDepartmentID int64 `json:"courseDepartmentId" db:"course_department_id"`
	AcademicPeriodID   int64 `json:"academicPeriodId" db:"academic_period_id"`
	SemesterNumber     int   `json:"semesterNumber" db:"semester_number"`

	// Relations (populated when needed)
	Course     *Course         `json:"course,omitempty"`
	Department *Department     `json:"department,omitempty"`
	Period     *AcademicPeriod `json:"period,omitempty"`
}

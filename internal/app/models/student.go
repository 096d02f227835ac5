package models

// Student defines the student identity surface consumed by the registration
// engine. Authentication beyond a seeded login lives outside this service.
type Student struct {
	ID           int64  `json:"id" db:"id"`
	FullName     string `json:"fullName" db:"full_name"`
	Email        string `json:"email" db:"email"`
	PasswordHash string `json:"-" db:"password_hash"`
}

// Teacher defines the teacher model, referenced by departments and sections.
type Teacher struct {
	ID       int64  `json:"id" db:"id"`
	FullName string `json:"fullName" db:"full_name"`
	Email    string `json:"email" db:"email"`
}

// StudentAcademicRecord is a student's standing in one department for one
// academic period. Unique per (student, period); at most one record per
// student may be current.
type StudentAcademicRecord struct {
	ID               int64          `json:"id" db:"id"`
	StudentID        int64          `json:"studentId" db:"student_id"`
	DepartmentID     int64          `json:"departmentId" db:"department_id"`
	AcademicPeriodID int64          `json:"academicPeriodId" db:"academic_period_id"`
	Status           AcademicStatus `json:"status" db:"academic_status"`
	SemesterNumber   int            `json:"semesterNumber" db:"semester_number"`
	Year             int            `json:"year" db:"year"`
	IsCurrent        bool           `json:"isCurrent" db:"is_current"`

	// Relations (populated when needed)
	Student    *Student        `json:"student,omitempty"`
	Department *Department     `json:"department,omitempty"`
	Period     *AcademicPeriod `json:"period,omitempty"`
}

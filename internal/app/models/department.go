package models

// Department represents an academic department.
type Department struct {
	ID             int64   `json:"id" db:"id"`
	Name           string  `json:"name" db:"name"`
	HeadTeacherID  *int64  `json:"headTeacherId,omitempty" db:"head_teacher_id"` // Nullable
	Description    *string `json:"description,omitempty" db:"description"`
	OfficeLocation *string `json:"officeLocation,omitempty" db:"office_location"`

	// Relations (populated when needed)
	HeadTeacher *Teacher `json:"headTeacher,omitempty"`
}

// CourseDepartment links a course to a department that teaches it.
// Unique per (course, department).
type CourseDepartment struct {
	ID           int64 `json:"id" db:"id"`
	CourseID     int64 `json:"courseId" db:"course_id"`
	DepartmentID int64 `json:"departmentId" db:"department_id"`

	// Relations (populated when needed)
	Course     *Course     `json:"course,omitempty"`
	Department *Department `json:"department,omitempty"`
}

package models

// Course represents a course in the catalog. Code is unique; CreditHours is
// constrained to 1..6. PrerequisiteCourseID is nil when the course has none.
type Course struct {
	ID                   int64   `json:"id" db:"id"`
	Name                 string  `json:"name" db:"name"`
	Code                 string  `json:"code" db:"code"`
	Description          *string `json:"description,omitempty" db:"description"` // Nullable
	CreditHours          int     `json:"creditHours" db:"credit_hours"`
	PrerequisiteCourseID *int64  `json:"prerequisiteCourseId,omitempty" db:"prerequisite_course_id"`

	// Relations (populated when needed)
	Prerequisite *Course `json:"prerequisite,omitempty"`
}

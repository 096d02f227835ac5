package models

import "time"

// Section is a capacity-bounded cohort of students that attends a shared set
// of course offerings together. Sections are created lazily by the allocator
// and never mutated once full; an exhausted cohort spawns a new section.
type Section struct {
	ID          int64  `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	MaxStudents int    `json:"maxStudents" db:"max_students"`

	// Relations (populated when needed)
	Offerings []*CourseOffering `json:"offerings,omitempty"`
}

// SectionCourseOffering links a section to one offering of its shared
// schedule. Unique per (section, offering).
type SectionCourseOffering struct {
	ID               int64 `json:"id" db:"id"`
	SectionID        int64 `json:"sectionId" db:"section_id"`
	CourseOfferingID int64 `json:"courseOfferingId" db:"course_offering_id"`
}

// TeacherAssignment assigns a teacher to a section. Unique per (teacher, section).
type TeacherAssignment struct {
	ID        int64 `json:"id" db:"id"`
	TeacherID int64 `json:"teacherId" db:"teacher_id"`
	SectionID int64 `json:"sectionId" db:"section_id"`
}

// Enrollment binds a student academic record to one leg of a section's
// schedule. Unique per (student record, section-course-offering).
type Enrollment struct {
	ID                      int64     `json:"id" db:"id"`
	StudentRecordID         int64     `json:"studentRecordId" db:"student_record_id"`
	SectionCourseOfferingID int64     `json:"sectionCourseOfferingId" db:"section_course_offering_id"`
	RegistrationDate        time.Time `json:"registrationDate" db:"registration_date"`
	IsRetake                bool      `json:"isRetake" db:"is_retake"`

	// Relations (populated when needed)
	Section  *Section        `json:"section,omitempty"`
	Offering *CourseOffering `json:"offering,omitempty"`
}

package services

import (
	"context"

	"github.com/campusreg/registrar/internal/app/models"
)

// Services defined in this package:
// - EligibilityService: resolves which offerings a student record may enroll in
// - SectionAllocator: finds or creates a cohort section with remaining capacity
// - EnrollmentService: records enrollments idempotently, one transaction per call
// - RegistrationService: orchestrates a batch of offering selections

// RegistrationStore is the persistence surface the registration engine works
// against. The pgx implementation lives in the repositories package; tests use
// an in-memory fake. Entities stay plain data, services operate on them.
type RegistrationStore interface {
	// OfferingByID loads an offering with its Course and Department populated.
	// Returns apperrors.ErrOfferingNotFound when absent.
	OfferingByID(ctx context.Context, id int64) (*models.CourseOffering, error)

	// CompatibleOfferings lists offerings for a department, period and
	// semester number, with Course and Department populated, ordered by id.
	CompatibleOfferings(ctx context.Context, departmentID, periodID int64, semesterNumber int) ([]*models.CourseOffering, error)

	// EnrolledOfferingIDs lists the offering ids a record is enrolled in.
	EnrolledOfferingIDs(ctx context.Context, recordID int64) ([]int64, error)

	// ExactMatchSections returns sections whose linked offering set equals
	// exactly the given set, ordered by id ascending. Inside a transaction the
	// returned rows are locked until commit.
	ExactMatchSections(ctx context.Context, offeringIDs []int64) ([]*models.Section, error)

	// CountEnrolledStudents counts distinct students enrolled in any offering
	// of the section for the given period and semester number.
	CountEnrolledStudents(ctx context.Context, sectionID, periodID int64, semesterNumber int) (int, error)

	// CreateSection persists a new section, filling in its id.
	CreateSection(ctx context.Context, section *models.Section) error

	// GetOrCreateSectionOffering ensures a section-offering link exists.
	GetOrCreateSectionOffering(ctx context.Context, sectionID, offeringID int64) (*models.SectionCourseOffering, bool, error)

	// AssignTeacher assigns a teacher to a section, idempotently.
	AssignTeacher(ctx context.Context, teacherID, sectionID int64) error

	// CurrentSectionFor returns the section of the record's existing
	// enrollment for the period and semester number, or nil when none exists.
	CurrentSectionFor(ctx context.Context, recordID, periodID int64, semesterNumber int) (*models.Section, error)

	// GetOrCreateEnrollment ensures an enrollment row exists, filling in the
	// id. Reports whether the row was newly created.
	GetOrCreateEnrollment(ctx context.Context, enrollment *models.Enrollment) (bool, error)

	// HasPriorCourseEnrollment reports whether the student already attempted
	// the course under an earlier, non-current academic record.
	HasPriorCourseEnrollment(ctx context.Context, studentID, courseID, currentRecordID int64) (bool, error)
}

// TxStore extends RegistrationStore with atomic execution. Everything done by
// fn either commits as a whole or rolls back; the store passed to fn is scoped
// to the running transaction.
type TxStore interface {
	RegistrationStore

	InTx(ctx context.Context, fn func(ctx context.Context, store RegistrationStore) error) error
}

package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/campusreg/registrar/internal/app/models"
	"github.com/campusreg/registrar/internal/app/services"
	"github.com/campusreg/registrar/internal/db"
)

// Store implements services.TxStore on PostgreSQL. A Store built from the
// pool runs each call on its own connection; InTx hands the callback a store
// whose repositories share one transaction, so the allocator's capacity check
// and the recorder's writes commit or roll back together.
type Store struct {
	database *db.PostgresDB
	offering *OfferingRepository
	section  *SectionRepository
	enroll   *EnrollmentRepository
}

// NewStore creates a pool-scoped store.
func NewStore(database *db.PostgresDB) *Store {
	return &Store{
		database: database,
		offering: NewOfferingRepository(database.Pool),
		section:  NewSectionRepository(database.Pool),
		enroll:   NewEnrollmentRepository(database.Pool),
	}
}

// InTx runs fn against a transaction-scoped store.
func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context, store services.RegistrationStore) error) error {
	return s.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		txStore := &Store{
			database: s.database,
			offering: NewOfferingRepository(tx),
			section:  NewSectionRepository(tx),
			enroll:   NewEnrollmentRepository(tx),
		}
		return fn(ctx, txStore)
	})
}

func (s *Store) OfferingByID(ctx context.Context, id int64) (*models.CourseOffering, error) {
	return s.offering.GetByID(ctx, id)
}

func (s *Store) CompatibleOfferings(ctx context.Context, departmentID, periodID int64, semesterNumber int) ([]*models.CourseOffering, error) {
	return s.offering.GetCompatible(ctx, departmentID, periodID, semesterNumber)
}

func (s *Store) EnrolledOfferingIDs(ctx context.Context, recordID int64) ([]int64, error) {
	return s.enroll.EnrolledOfferingIDs(ctx, recordID)
}

func (s *Store) ExactMatchSections(ctx context.Context, offeringIDs []int64) ([]*models.Section, error) {
	return s.section.ExactMatchSections(ctx, offeringIDs)
}

func (s *Store) CountEnrolledStudents(ctx context.Context, sectionID, periodID int64, semesterNumber int) (int, error) {
	return s.section.CountEnrolledStudents(ctx, sectionID, periodID, semesterNumber)
}

func (s *Store) CreateSection(ctx context.Context, section *models.Section) error {
	return s.section.Create(ctx, section)
}

func (s *Store) GetOrCreateSectionOffering(ctx context.Context, sectionID, offeringID int64) (*models.SectionCourseOffering, bool, error) {
	return s.section.GetOrCreateOffering(ctx, sectionID, offeringID)
}

func (s *Store) AssignTeacher(ctx context.Context, teacherID, sectionID int64) error {
	return s.section.AssignTeacher(ctx, teacherID, sectionID)
}

func (s *Store) CurrentSectionFor(ctx context.Context, recordID, periodID int64, semesterNumber int) (*models.Section, error) {
	return s.enroll.CurrentSectionFor(ctx, recordID, periodID, semesterNumber)
}

func (s *Store) GetOrCreateEnrollment(ctx context.Context, enrollment *models.Enrollment) (bool, error) {
	return s.enroll.GetOrCreate(ctx, enrollment)
}

func (s *Store) HasPriorCourseEnrollment(ctx context.Context, studentID, courseID, currentRecordID int64) (bool, error) {
	return s.enroll.HasPriorCourseEnrollment(ctx, studentID, courseID, currentRecordID)
}

var _ services.TxStore = (*Store)(nil)

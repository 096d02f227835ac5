package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/campusreg/registrar/internal/app/models"
	"github.com/campusreg/registrar/internal/pkg/apperrors"
)

// EnrollmentService converts an allocated section plus chosen offerings into
// persisted enrollment records. Every call runs in a single transaction, so a
// capacity check can never be overtaken by a concurrent registration and a
// partial write (section without enrollments) can never survive a failure.
type EnrollmentService struct {
	store     TxStore
	allocator *SectionAllocator
	logger    zerolog.Logger
}

// NewEnrollmentService creates a new enrollment service.
func NewEnrollmentService(store TxStore, allocator *SectionAllocator, logger zerolog.Logger) *EnrollmentService {
	return &EnrollmentService{
		store:     store,
		allocator: allocator,
		logger:    logger,
	}
}

// Enroll places the student record into a section for the requested offerings
// and records one enrollment per offering. A record that already has an
// enrollment for the period and semester number stays with its existing
// section; the allocator is only consulted for a first enrollment. Links and
// enrollments are get-or-create, so repeating a call creates nothing and
// returns an empty slice.
func (s *EnrollmentService) Enroll(ctx context.Context, record *models.StudentAcademicRecord, offerings []*models.CourseOffering) ([]*models.Enrollment, error) {
	if record == nil {
		return nil, apperrors.ErrRecordNotFound
	}
	if len(offerings) == 0 {
		return nil, apperrors.ErrNoOfferings
	}

	periodID := offerings[0].AcademicPeriodID
	semesterNumber := offerings[0].SemesterNumber

	var created []*models.Enrollment
	err := s.store.InTx(ctx, func(ctx context.Context, store RegistrationStore) error {
		section, err := store.CurrentSectionFor(ctx, record.ID, periodID, semesterNumber)
		if err != nil {
			return fmt.Errorf("error looking up existing section: %w", err)
		}
		if section == nil {
			section, err = s.allocator.FindOrCreateSection(ctx, store, offerings)
			if err != nil {
				return err
			}
		}

		for _, off := range offerings {
			link, _, err := store.GetOrCreateSectionOffering(ctx, section.ID, off.ID)
			if err != nil {
				return fmt.Errorf("error ensuring section link for offering %d: %w", off.ID, err)
			}

			isRetake, err := s.isRetake(ctx, store, record, off)
			if err != nil {
				return err
			}

			enrollment := &models.Enrollment{
				StudentRecordID:         record.ID,
				SectionCourseOfferingID: link.ID,
				IsRetake:                isRetake,
			}
			wasCreated, err := store.GetOrCreateEnrollment(ctx, enrollment)
			if err != nil {
				return fmt.Errorf("error creating enrollment for offering %d: %w", off.ID, err)
			}
			if wasCreated {
				created = append(created, enrollment)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(created) > 0 {
		s.logger.Info().
			Int64("recordId", record.ID).
			Int("enrollments", len(created)).
			Msg("Recorded enrollments")
	}
	return created, nil
}

// isRetake reports whether the offering's course was already attempted under
// an earlier academic record of the same student.
func (s *EnrollmentService) isRetake(ctx context.Context, store RegistrationStore, record *models.StudentAcademicRecord, off *models.CourseOffering) (bool, error) {
	if off.Course == nil {
		return false, nil
	}
	retake, err := store.HasPriorCourseEnrollment(ctx, record.StudentID, off.Course.ID, record.ID)
	if err != nil {
		return false, fmt.Errorf("error checking prior enrollment: %w", err)
	}
	return retake, nil
}

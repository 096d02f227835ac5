package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/campusreg/registrar/internal/app/models"
	"github.com/campusreg/registrar/internal/pkg/apperrors"
)

// RegistrationService is the outward-facing batch enrollment operation.
//
// All requested offerings that resolve and match the student's period,
// semester number and department are enrolled through a single recorder call,
// so one registration request lands the student in one section. Identifiers
// that fail to resolve or to validate contribute an error message without
// aborting the rest of the batch.
type RegistrationService struct {
	store      TxStore
	enrollment *EnrollmentService
	logger     zerolog.Logger
}

// NewRegistrationService creates a new registration service.
func NewRegistrationService(store TxStore, enrollment *EnrollmentService, logger zerolog.Logger) *RegistrationService {
	return &RegistrationService{
		store:      store,
		enrollment: enrollment,
		logger:     logger,
	}
}

// BatchEnroll enrolls the record in the offerings named by ids, best effort.
// It returns the number of newly created enrollments and one human-readable
// message per failed identifier. A repeated request is harmless: already
// enrolled offerings create nothing and count nothing.
func (s *RegistrationService) BatchEnroll(ctx context.Context, record *models.StudentAcademicRecord, offeringIDs []int64) (int, []string) {
	if record == nil {
		return 0, []string{apperrors.ErrNoCurrentRecord.Error()}
	}

	var (
		valid       []*models.CourseOffering
		errMessages []string
		seen        = make(map[int64]bool)
	)

	for _, id := range offeringIDs {
		if seen[id] {
			continue
		}
		seen[id] = true

		offering, err := s.store.OfferingByID(ctx, id)
		if err != nil {
			if errors.Is(err, apperrors.ErrOfferingNotFound) {
				errMessages = append(errMessages, fmt.Sprintf("course offering %d not found", id))
			} else {
				s.logger.Error().Err(err).Int64("offeringId", id).Msg("Failed to resolve offering")
				errMessages = append(errMessages, fmt.Sprintf("course offering %d could not be loaded", id))
			}
			continue
		}

		if err := validateOffering(record, offering); err != nil {
			errMessages = append(errMessages, err.Error())
			continue
		}

		valid = append(valid, offering)
	}

	if len(valid) == 0 {
		return 0, errMessages
	}

	created, err := s.enrollment.Enroll(ctx, record, valid)
	if err != nil {
		s.logger.Error().Err(err).Int64("recordId", record.ID).Msg("Batch enrollment failed")
		errMessages = append(errMessages, fmt.Sprintf("enrollment failed: %v", err))
		return 0, errMessages
	}

	return len(created), errMessages
}

// validateOffering checks an offering against the record's cohort key; a
// mismatch in period, semester number or department is a per-item validation
// failure, not a batch abort.
func validateOffering(record *models.StudentAcademicRecord, offering *models.CourseOffering) error {
	if offering.AcademicPeriodID != record.AcademicPeriodID || offering.SemesterNumber != record.SemesterNumber {
		return apperrors.NewCustomError(apperrors.ErrPeriodMismatch,
			fmt.Sprintf("course offering %d is not available in your current period and semester", offering.ID))
	}
	if offering.Department != nil && offering.Department.ID != record.DepartmentID {
		return apperrors.NewCustomError(apperrors.ErrValidationFailed,
			fmt.Sprintf("course offering %d belongs to another department", offering.ID))
	}
	return nil
}

package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/campusreg/registrar/internal/app/models"
	"github.com/campusreg/registrar/internal/pkg/apperrors"
)

// SectionAllocator places a cohort of students requesting the same offering
// set into a shared section. It trusts the first offering's period and
// semester number as the cohort key; grouping offerings consistently is the
// caller's job.
type SectionAllocator struct {
	capacity int
	logger   zerolog.Logger
}

// NewSectionAllocator creates a section allocator with the given seat limit.
func NewSectionAllocator(capacity int, logger zerolog.Logger) *SectionAllocator {
	if capacity <= 0 {
		capacity = models.DefaultSectionCapacity
	}
	return &SectionAllocator{
		capacity: capacity,
		logger:   logger,
	}
}

// FindOrCreateSection returns an existing section whose offering set matches
// the request exactly and still has room, or creates a new one. Candidates
// are tried in id order; a section whose linked set is a superset or subset
// of the request never qualifies. Must run inside the caller's transaction so
// the capacity check and section creation are atomic.
func (a *SectionAllocator) FindOrCreateSection(ctx context.Context, store RegistrationStore, offerings []*models.CourseOffering) (*models.Section, error) {
	if len(offerings) == 0 {
		return nil, apperrors.ErrNoOfferings
	}

	periodID := offerings[0].AcademicPeriodID
	semesterNumber := offerings[0].SemesterNumber

	// Duplicated ids in the request would make an exact-cardinality match
	// impossible, so the set is deduplicated first.
	offeringIDs := make([]int64, 0, len(offerings))
	seen := make(map[int64]bool, len(offerings))
	for _, off := range offerings {
		if !seen[off.ID] {
			seen[off.ID] = true
			offeringIDs = append(offeringIDs, off.ID)
		}
	}

	candidates, err := store.ExactMatchSections(ctx, offeringIDs)
	if err != nil {
		return nil, fmt.Errorf("error finding candidate sections: %w", err)
	}

	for _, candidate := range candidates {
		enrolled, err := store.CountEnrolledStudents(ctx, candidate.ID, periodID, semesterNumber)
		if err != nil {
			return nil, fmt.Errorf("error counting section enrollment: %w", err)
		}
		// Each section carries its own seat limit; the configured capacity
		// only applies to sections created from here on.
		limit := candidate.MaxStudents
		if limit <= 0 {
			limit = a.capacity
		}
		if enrolled < limit {
			return candidate, nil
		}
	}

	section := &models.Section{
		Name:        sectionName(offerings[0], len(candidates)+1),
		MaxStudents: a.capacity,
	}
	if err := store.CreateSection(ctx, section); err != nil {
		return nil, fmt.Errorf("error creating section: %w", err)
	}

	for _, id := range offeringIDs {
		if _, _, err := store.GetOrCreateSectionOffering(ctx, section.ID, id); err != nil {
			return nil, fmt.Errorf("error linking offering %d to section: %w", id, err)
		}
	}

	// The department head supervises the cohort until a dedicated teacher is
	// assigned.
	if dept := offerings[0].Department; dept != nil && dept.HeadTeacherID != nil {
		if err := store.AssignTeacher(ctx, *dept.HeadTeacherID, section.ID); err != nil {
			return nil, fmt.Errorf("error assigning teacher to section: %w", err)
		}
	}

	a.logger.Info().
		Str("section", section.Name).
		Int64("sectionId", section.ID).
		Int("offerings", len(offerings)).
		Msg("Created new section")

	return section, nil
}

// sectionName builds the generated cohort name, e.g. "Com-1sem(2)" for the
// first Computer Science section at semester number 2.
func sectionName(offering *models.CourseOffering, ordinal int) string {
	prefix := "SEC"
	if offering.Department != nil {
		prefix = offering.Department.Name
	}
	if runes := []rune(prefix); len(runes) > 3 {
		prefix = string(runes[:3])
	}
	return fmt.Sprintf("%s-%dsem(%d)", prefix, ordinal, offering.SemesterNumber)
}

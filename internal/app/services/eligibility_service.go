package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/campusreg/registrar/internal/app/models"
	"github.com/campusreg/registrar/internal/pkg/apperrors"
)

// EligibilityService computes which course offerings a student record may
// enroll in: those matching the record's department, academic period and
// semester number. Prerequisite and passing-grade filtering is not performed.
type EligibilityService struct {
	store  RegistrationStore
	cache  *redis.Client // nil disables caching
	ttl    time.Duration
	logger zerolog.Logger
}

// NewEligibilityService creates a new eligibility service. cache may be nil.
func NewEligibilityService(store RegistrationStore, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) *EligibilityService {
	return &EligibilityService{
		store:  store,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

// CompatibleOfferings returns the offerings the record is permitted to enroll
// in. Results are cached briefly per record when redis is configured; cache
// errors fall through to the store.
func (s *EligibilityService) CompatibleOfferings(ctx context.Context, record *models.StudentAcademicRecord) ([]*models.CourseOffering, error) {
	if record == nil {
		return nil, apperrors.ErrRecordNotFound
	}

	cacheKey := fmt.Sprintf("eligibility:record:%d", record.ID)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Bytes(); err == nil {
			var offerings []*models.CourseOffering
			if err := json.Unmarshal(cached, &offerings); err == nil {
				return offerings, nil
			}
		}
	}

	offerings, err := s.store.CompatibleOfferings(ctx, record.DepartmentID, record.AcademicPeriodID, record.SemesterNumber)
	if err != nil {
		return nil, fmt.Errorf("error loading compatible offerings: %w", err)
	}

	if s.cache != nil {
		if data, err := json.Marshal(offerings); err == nil {
			if err := s.cache.Set(ctx, cacheKey, data, s.ttl).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("Failed to cache compatible offerings")
			}
		}
	}

	return offerings, nil
}

// EnrolledOfferingIDs returns the ids of offerings the record is already
// enrolled in, for re-rendering current selections.
func (s *EligibilityService) EnrolledOfferingIDs(ctx context.Context, record *models.StudentAcademicRecord) ([]int64, error) {
	if record == nil {
		return nil, apperrors.ErrRecordNotFound
	}

	ids, err := s.store.EnrolledOfferingIDs(ctx, record.ID)
	if err != nil {
		return nil, fmt.Errorf("error loading enrolled offering ids: %w", err)
	}
	return ids, nil
}

// InvalidateCache drops the cached offerings for a record, called after a
// successful enrollment changes what re-renders.
func (s *EligibilityService) InvalidateCache(ctx context.Context, recordID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, fmt.Sprintf("eligibility:record:%d", recordID)).Err(); err != nil {
		s.logger.Warn().Err(err).Int64("recordId", recordID).Msg("Failed to invalidate eligibility cache")
	}
}

package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusreg/registrar/internal/app/models"
	"github.com/campusreg/registrar/internal/pkg/apperrors"
)

func newTestResolver(store RegistrationStore) *EligibilityService {
	return NewEligibilityService(store, nil, 0, zerolog.Nop())
}

func TestCompatibleOfferingsFiltersOnAllThreeFields(t *testing.T) {
	store := newFakeStore()
	dept := store.addDepartment("Computer Science")
	otherDept := store.addDepartment("Mathematics")

	matching := store.addOffering(dept, courseFixture(1, "CS101"), testPeriodID, 1)
	otherSemester := store.addOffering(dept, courseFixture(2, "CS201"), testPeriodID, 2)
	otherPeriod := store.addOffering(dept, courseFixture(3, "CS103"), testPeriodID+1, 1)
	otherDepartment := store.addOffering(otherDept, courseFixture(4, "MATH101"), testPeriodID, 1)

	record := store.addRecord(100, dept.ID, testPeriodID, 1, true)

	resolver := newTestResolver(store)
	offerings, err := resolver.CompatibleOfferings(context.Background(), record)
	require.NoError(t, err)

	require.Len(t, offerings, 1)
	assert.Equal(t, matching.ID, offerings[0].ID)

	for _, excluded := range []*models.CourseOffering{otherSemester, otherPeriod, otherDepartment} {
		assert.NotEqual(t, excluded.ID, offerings[0].ID)
	}
}

func TestCompatibleOfferingsRequiresRecord(t *testing.T) {
	resolver := newTestResolver(newFakeStore())

	_, err := resolver.CompatibleOfferings(context.Background(), nil)
	assert.ErrorIs(t, err, apperrors.ErrRecordNotFound)
}

func TestEnrolledOfferingIDs(t *testing.T) {
	store := newFakeStore()
	dept := store.addDepartment("Computer Science")
	offA := store.addOffering(dept, courseFixture(1, "CS101"), testPeriodID, 1)
	offB := store.addOffering(dept, courseFixture(2, "CS102"), testPeriodID, 1)
	record := store.addRecord(100, dept.ID, testPeriodID, 1, true)

	recorder := newTestRecorder(store)
	ctx := context.Background()

	_, err := recorder.Enroll(ctx, record, []*models.CourseOffering{offA, offB})
	require.NoError(t, err)

	resolver := newTestResolver(store)
	ids, err := resolver.EnrolledOfferingIDs(ctx, record)
	require.NoError(t, err)
	assert.Equal(t, []int64{offA.ID, offB.ID}, ids)

	// A record with no enrollments renders an empty selection
	emptyRecord := store.addRecord(101, dept.ID, testPeriodID, 1, true)
	ids, err = resolver.EnrolledOfferingIDs(ctx, emptyRecord)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

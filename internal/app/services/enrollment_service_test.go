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

func newTestRecorder(store TxStore) *EnrollmentService {
	return NewEnrollmentService(store, newTestAllocator(30), zerolog.Nop())
}

func TestEnrollIsIdempotent(t *testing.T) {
	store := newFakeStore()
	dept := store.addDepartment("Computer Science")
	off := store.addOffering(dept, courseFixture(1, "CS101"), testPeriodID, 1)
	record := store.addRecord(100, dept.ID, testPeriodID, 1, true)

	recorder := newTestRecorder(store)
	ctx := context.Background()

	first, err := recorder.Enroll(ctx, record, []*models.CourseOffering{off})
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := recorder.Enroll(ctx, record, []*models.CourseOffering{off})
	require.NoError(t, err)
	assert.Empty(t, second)
	assert.Len(t, store.enrollments, 1)
}

func TestEnrollKeepsStudentWithExistingCohort(t *testing.T) {
	store := newFakeStore()
	dept := store.addDepartment("Computer Science")
	offA := store.addOffering(dept, courseFixture(1, "CS101"), testPeriodID, 1)
	offB := store.addOffering(dept, courseFixture(2, "CS102"), testPeriodID, 1)
	record := store.addRecord(100, dept.ID, testPeriodID, 1, true)

	recorder := newTestRecorder(store)
	ctx := context.Background()

	first, err := recorder.Enroll(ctx, record, []*models.CourseOffering{offA})
	require.NoError(t, err)
	require.Len(t, first, 1)
	require.Len(t, store.sections, 1)

	// The second request would allocate a fresh section for {B}; the existing
	// cohort takes priority and B is added to it instead.
	second, err := recorder.Enroll(ctx, record, []*models.CourseOffering{offB})
	require.NoError(t, err)
	require.Len(t, second, 1)

	assert.Len(t, store.sections, 1)

	linkA := store.linkByID(first[0].SectionCourseOfferingID)
	linkB := store.linkByID(second[0].SectionCourseOfferingID)
	require.NotNil(t, linkA)
	require.NotNil(t, linkB)
	assert.Equal(t, linkA.SectionID, linkB.SectionID)
}

func TestEnrollRequiresRecordAndOfferings(t *testing.T) {
	store := newFakeStore()
	recorder := newTestRecorder(store)
	ctx := context.Background()

	_, err := recorder.Enroll(ctx, nil, []*models.CourseOffering{{ID: 1}})
	assert.ErrorIs(t, err, apperrors.ErrRecordNotFound)

	record := store.addRecord(100, 1, testPeriodID, 1, true)
	_, err = recorder.Enroll(ctx, record, nil)
	assert.ErrorIs(t, err, apperrors.ErrNoOfferings)
}

func TestEnrollFlagsRetake(t *testing.T) {
	store := newFakeStore()
	dept := store.addDepartment("Computer Science")
	course := courseFixture(1, "CS101")

	priorPeriod := int64(900)
	priorOff := store.addOffering(dept, course, priorPeriod, 1)
	priorRecord := store.addRecord(100, dept.ID, priorPeriod, 1, false)

	recorder := newTestRecorder(store)
	ctx := context.Background()

	// Attempt under the earlier, non-current record
	_, err := recorder.Enroll(ctx, priorRecord, []*models.CourseOffering{priorOff})
	require.NoError(t, err)

	// Same course offered again in the current period
	currentOff := store.addOffering(dept, course, testPeriodID, 2)
	currentRecord := store.addRecord(100, dept.ID, testPeriodID, 2, true)

	created, err := recorder.Enroll(ctx, currentRecord, []*models.CourseOffering{currentOff})
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.True(t, created[0].IsRetake)

	// A different student taking the course for the first time is not flagged
	freshRecord := store.addRecord(101, dept.ID, testPeriodID, 2, true)
	created, err = recorder.Enroll(ctx, freshRecord, []*models.CourseOffering{currentOff})
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.False(t, created[0].IsRetake)
}

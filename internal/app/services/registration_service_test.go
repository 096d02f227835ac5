package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusreg/registrar/internal/pkg/apperrors"
)

func newTestRegistration(store TxStore) *RegistrationService {
	return NewRegistrationService(store, newTestRecorder(store), zerolog.Nop())
}

func TestBatchEnrollPartialSuccess(t *testing.T) {
	store := newFakeStore()
	dept := store.addDepartment("Computer Science")
	off := store.addOffering(dept, courseFixture(1, "CS101"), testPeriodID, 1)
	record := store.addRecord(100, dept.ID, testPeriodID, 1, true)

	registration := newTestRegistration(store)
	successCount, errMessages := registration.BatchEnroll(context.Background(), record, []int64{off.ID, 99999})

	assert.Equal(t, 1, successCount)
	require.Len(t, errMessages, 1)
	assert.Contains(t, errMessages[0], "99999")
	assert.Contains(t, errMessages[0], "not found")

	// The valid enrollment persisted despite the bad identifier
	assert.Len(t, store.enrollments, 1)
}

func TestBatchEnrollPlacesBatchInOneSection(t *testing.T) {
	store := newFakeStore()
	dept := store.addDepartment("Computer Science")
	offA := store.addOffering(dept, courseFixture(1, "CS101"), testPeriodID, 1)
	offB := store.addOffering(dept, courseFixture(2, "CS102"), testPeriodID, 1)
	offC := store.addOffering(dept, courseFixture(3, "CS103"), testPeriodID, 1)
	record := store.addRecord(100, dept.ID, testPeriodID, 1, true)

	registration := newTestRegistration(store)
	successCount, errMessages := registration.BatchEnroll(context.Background(), record,
		[]int64{offA.ID, offB.ID, offC.ID})

	assert.Equal(t, 3, successCount)
	assert.Empty(t, errMessages)

	// One allocator pass for the whole batch: a single section holds all three
	assert.Len(t, store.sections, 1)
}

func TestBatchEnrollRejectsMismatchedOfferings(t *testing.T) {
	store := newFakeStore()
	dept := store.addDepartment("Computer Science")
	otherDept := store.addDepartment("Mathematics")

	valid := store.addOffering(dept, courseFixture(1, "CS101"), testPeriodID, 1)
	wrongPeriod := store.addOffering(dept, courseFixture(2, "CS102"), testPeriodID+1, 1)
	wrongSemester := store.addOffering(dept, courseFixture(3, "CS103"), testPeriodID, 2)
	wrongDepartment := store.addOffering(otherDept, courseFixture(4, "MATH101"), testPeriodID, 1)

	record := store.addRecord(100, dept.ID, testPeriodID, 1, true)

	registration := newTestRegistration(store)
	successCount, errMessages := registration.BatchEnroll(context.Background(), record,
		[]int64{valid.ID, wrongPeriod.ID, wrongSemester.ID, wrongDepartment.ID})

	assert.Equal(t, 1, successCount)
	assert.Len(t, errMessages, 3)
	assert.Len(t, store.enrollments, 1)
}

func TestValidateOfferingReturnsSentinels(t *testing.T) {
	store := newFakeStore()
	dept := store.addDepartment("Computer Science")
	otherDept := store.addDepartment("Mathematics")
	record := store.addRecord(100, dept.ID, testPeriodID, 1, true)

	matching := store.addOffering(dept, courseFixture(1, "CS101"), testPeriodID, 1)
	assert.NoError(t, validateOffering(record, matching))

	wrongPeriod := store.addOffering(dept, courseFixture(2, "CS102"), testPeriodID+1, 1)
	assert.ErrorIs(t, validateOffering(record, wrongPeriod), apperrors.ErrPeriodMismatch)

	wrongSemester := store.addOffering(dept, courseFixture(3, "CS103"), testPeriodID, 2)
	assert.ErrorIs(t, validateOffering(record, wrongSemester), apperrors.ErrPeriodMismatch)

	wrongDepartment := store.addOffering(otherDept, courseFixture(4, "MATH101"), testPeriodID, 1)
	assert.ErrorIs(t, validateOffering(record, wrongDepartment), apperrors.ErrValidationFailed)
}

func TestBatchEnrollIsRepeatSafe(t *testing.T) {
	store := newFakeStore()
	dept := store.addDepartment("Computer Science")
	off := store.addOffering(dept, courseFixture(1, "CS101"), testPeriodID, 1)
	record := store.addRecord(100, dept.ID, testPeriodID, 1, true)

	registration := newTestRegistration(store)
	ctx := context.Background()

	successCount, errMessages := registration.BatchEnroll(ctx, record, []int64{off.ID})
	assert.Equal(t, 1, successCount)
	assert.Empty(t, errMessages)

	// Same request again: nothing new is created, nothing fails
	successCount, errMessages = registration.BatchEnroll(ctx, record, []int64{off.ID})
	assert.Equal(t, 0, successCount)
	assert.Empty(t, errMessages)
	assert.Len(t, store.enrollments, 1)
}

func TestBatchEnrollDeduplicatesIdentifiers(t *testing.T) {
	store := newFakeStore()
	dept := store.addDepartment("Computer Science")
	off := store.addOffering(dept, courseFixture(1, "CS101"), testPeriodID, 1)
	record := store.addRecord(100, dept.ID, testPeriodID, 1, true)

	registration := newTestRegistration(store)
	successCount, errMessages := registration.BatchEnroll(context.Background(), record,
		[]int64{off.ID, off.ID, off.ID})

	assert.Equal(t, 1, successCount)
	assert.Empty(t, errMessages)
	assert.Len(t, store.enrollments, 1)
}

func TestBatchEnrollWithoutRecord(t *testing.T) {
	registration := newTestRegistration(newFakeStore())

	successCount, errMessages := registration.BatchEnroll(context.Background(), nil, []int64{1})
	assert.Zero(t, successCount)
	require.Len(t, errMessages, 1)
	assert.Contains(t, errMessages[0], "no active academic record")
}

func TestBatchEnrollEmptySelection(t *testing.T) {
	store := newFakeStore()
	dept := store.addDepartment("Computer Science")
	record := store.addRecord(100, dept.ID, testPeriodID, 1, true)

	registration := newTestRegistration(store)
	successCount, errMessages := registration.BatchEnroll(context.Background(), record, nil)

	assert.Zero(t, successCount)
	assert.Empty(t, errMessages)
	assert.Empty(t, store.enrollments)
}

// Capacity interacts with batching: when a full cohort exists for the
// requested set, a new student's batch goes to a fresh section as a whole.
func TestBatchEnrollSpillsWholeBatch(t *testing.T) {
	store := newFakeStore()
	dept := store.addDepartment("Computer Science")
	offA := store.addOffering(dept, courseFixture(1, "CS101"), testPeriodID, 1)
	offB := store.addOffering(dept, courseFixture(2, "CS102"), testPeriodID, 1)

	allocator := newTestAllocator(1)
	recorder := NewEnrollmentService(store, allocator, zerolog.Nop())
	registration := NewRegistrationService(store, recorder, zerolog.Nop())
	ctx := context.Background()

	first := store.addRecord(100, dept.ID, testPeriodID, 1, true)
	successCount, errMessages := registration.BatchEnroll(ctx, first, []int64{offA.ID, offB.ID})
	require.Equal(t, 2, successCount)
	require.Empty(t, errMessages)
	require.Len(t, store.sections, 1)

	second := store.addRecord(101, dept.ID, testPeriodID, 1, true)
	successCount, errMessages = registration.BatchEnroll(ctx, second, []int64{offA.ID, offB.ID})
	assert.Equal(t, 2, successCount)
	assert.Empty(t, errMessages)
	assert.Len(t, store.sections, 2)

	var sectionsOfSecond []int64
	for _, e := range store.enrollments {
		if e.StudentRecordID == second.ID {
			link := store.linkByID(e.SectionCourseOfferingID)
			require.NotNil(t, link)
			sectionsOfSecond = append(sectionsOfSecond, link.SectionID)
		}
	}
	require.Len(t, sectionsOfSecond, 2)
	assert.Equal(t, sectionsOfSecond[0], sectionsOfSecond[1])
}

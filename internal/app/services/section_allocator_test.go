package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusreg/registrar/internal/app/models"
	"github.com/campusreg/registrar/internal/pkg/apperrors"
)

const testPeriodID = int64(1000)

func newTestAllocator(capacity int) *SectionAllocator {
	return NewSectionAllocator(capacity, zerolog.Nop())
}

func courseFixture(id int64, code string) *models.Course {
	return &models.Course{ID: id, Name: "Course " + code, Code: code, CreditHours: 3}
}

func TestFindOrCreateSectionCreatesNamedSection(t *testing.T) {
	store := newFakeStore()
	dept := store.addDepartment("Computer Science")
	offA := store.addOffering(dept, courseFixture(1, "CS101"), testPeriodID, 2)
	offB := store.addOffering(dept, courseFixture(2, "CS102"), testPeriodID, 2)

	allocator := newTestAllocator(30)
	section, err := allocator.FindOrCreateSection(context.Background(), store, []*models.CourseOffering{offA, offB})
	require.NoError(t, err)

	assert.Equal(t, "Com-1sem(2)", section.Name)
	assert.Equal(t, 30, section.MaxStudents)

	linked := store.sectionOfferingIDs(section.ID)
	assert.ElementsMatch(t, []int64{offA.ID, offB.ID}, linked)
}

func TestFindOrCreateSectionShortDepartmentName(t *testing.T) {
	store := newFakeStore()
	dept := store.addDepartment("IT")
	off := store.addOffering(dept, courseFixture(1, "IT101"), testPeriodID, 1)

	allocator := newTestAllocator(30)
	section, err := allocator.FindOrCreateSection(context.Background(), store, []*models.CourseOffering{off})
	require.NoError(t, err)

	assert.Equal(t, "IT-1sem(1)", section.Name)
}

func TestFindOrCreateSectionRejectsEmptyRequest(t *testing.T) {
	store := newFakeStore()
	allocator := newTestAllocator(30)

	_, err := allocator.FindOrCreateSection(context.Background(), store, nil)
	assert.ErrorIs(t, err, apperrors.ErrNoOfferings)
}

func TestFindOrCreateSectionReusesSectionWithRoom(t *testing.T) {
	store := newFakeStore()
	dept := store.addDepartment("Mathematics")
	off := store.addOffering(dept, courseFixture(1, "MATH201"), testPeriodID, 3)

	allocator := newTestAllocator(30)
	ctx := context.Background()

	first, err := allocator.FindOrCreateSection(ctx, store, []*models.CourseOffering{off})
	require.NoError(t, err)

	second, err := allocator.FindOrCreateSection(ctx, store, []*models.CourseOffering{off})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, store.sections, 1)
}

func TestFindOrCreateSectionExactMatchOnly(t *testing.T) {
	store := newFakeStore()
	dept := store.addDepartment("Computer Science")
	offA := store.addOffering(dept, courseFixture(1, "CS101"), testPeriodID, 1)
	offB := store.addOffering(dept, courseFixture(2, "CS102"), testPeriodID, 1)
	offC := store.addOffering(dept, courseFixture(3, "CS103"), testPeriodID, 1)

	allocator := newTestAllocator(30)
	ctx := context.Background()

	pair, err := allocator.FindOrCreateSection(ctx, store, []*models.CourseOffering{offA, offB})
	require.NoError(t, err)

	// A subset request never reuses the {A,B} section
	single, err := allocator.FindOrCreateSection(ctx, store, []*models.CourseOffering{offA})
	require.NoError(t, err)
	assert.NotEqual(t, pair.ID, single.ID)

	// Neither does a superset request
	triple, err := allocator.FindOrCreateSection(ctx, store, []*models.CourseOffering{offA, offB, offC})
	require.NoError(t, err)
	assert.NotEqual(t, pair.ID, triple.ID)

	assert.Len(t, store.sections, 3)
}

func TestFindOrCreateSectionDeduplicatesOfferings(t *testing.T) {
	store := newFakeStore()
	dept := store.addDepartment("Computer Science")
	off := store.addOffering(dept, courseFixture(1, "CS101"), testPeriodID, 1)

	allocator := newTestAllocator(30)
	ctx := context.Background()

	// A repeated id must not break the exact-cardinality match
	first, err := allocator.FindOrCreateSection(ctx, store, []*models.CourseOffering{off, off})
	require.NoError(t, err)
	assert.Equal(t, []int64{off.ID}, store.sectionOfferingIDs(first.ID))

	second, err := allocator.FindOrCreateSection(ctx, store, []*models.CourseOffering{off})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, store.sections, 1)
}

func TestFindOrCreateSectionHonorsStoredSectionCapacity(t *testing.T) {
	store := newFakeStore()
	dept := store.addDepartment("Computer Science")
	off := store.addOffering(dept, courseFixture(1, "CS101"), testPeriodID, 1)
	ctx := context.Background()

	// A section persisted with a single seat keeps that limit even when the
	// configured capacity is later raised.
	tight := NewEnrollmentService(store, newTestAllocator(1), zerolog.Nop())
	record := store.addRecord(100, dept.ID, testPeriodID, 1, true)
	created, err := tight.Enroll(ctx, record, []*models.CourseOffering{off})
	require.NoError(t, err)
	require.Len(t, created, 1)
	require.Len(t, store.sections, 1)

	roomy := newTestAllocator(30)
	section, err := roomy.FindOrCreateSection(ctx, store, []*models.CourseOffering{off})
	require.NoError(t, err)

	assert.Len(t, store.sections, 2)
	assert.Equal(t, 30, section.MaxStudents)
}

func TestFindOrCreateSectionAssignsDepartmentHead(t *testing.T) {
	store := newFakeStore()
	dept := store.addDepartment("Computer Science")
	headID := int64(77)
	dept.HeadTeacherID = &headID
	off := store.addOffering(dept, courseFixture(1, "CS101"), testPeriodID, 1)

	allocator := newTestAllocator(30)
	section, err := allocator.FindOrCreateSection(context.Background(), store, []*models.CourseOffering{off})
	require.NoError(t, err)

	require.Len(t, store.assignments, 1)
	assert.Equal(t, headID, store.assignments[0].TeacherID)
	assert.Equal(t, section.ID, store.assignments[0].SectionID)
}

func TestFindOrCreateSectionSpillsToNewSectionWhenFull(t *testing.T) {
	store := newFakeStore()
	dept := store.addDepartment("Computer Science")
	off := store.addOffering(dept, courseFixture(1, "CS101"), testPeriodID, 2)

	const capacity = 3
	allocator := newTestAllocator(capacity)
	recorder := NewEnrollmentService(store, allocator, zerolog.Nop())
	ctx := context.Background()

	// Fill the first section to capacity with distinct students
	for i := 0; i < capacity; i++ {
		record := store.addRecord(int64(5000+i), dept.ID, testPeriodID, 2, true)
		created, err := recorder.Enroll(ctx, record, []*models.CourseOffering{off})
		require.NoError(t, err)
		require.Len(t, created, 1, fmt.Sprintf("student %d should create one enrollment", i))
	}
	require.Len(t, store.sections, 1)

	// The next distinct student spills into a second section
	section, err := allocator.FindOrCreateSection(ctx, store, []*models.CourseOffering{off})
	require.NoError(t, err)

	assert.Len(t, store.sections, 2)
	assert.Equal(t, "Com-2sem(2)", section.Name)
}

package services

import (
	"context"
	"sort"
	"time"

	"github.com/campusreg/registrar/internal/app/models"
	"github.com/campusreg/registrar/internal/pkg/apperrors"
)

// fakeStore is an in-memory TxStore used by the service tests. InTx runs the
// callback directly; rollback behavior is covered by the repository layer,
// not here.
type fakeStore struct {
	departments map[int64]*models.Department
	offerings   map[int64]*models.CourseOffering
	sections    map[int64]*models.Section
	links       []*models.SectionCourseOffering
	enrollments []*models.Enrollment
	records     map[int64]*models.StudentAcademicRecord
	assignments []*models.TeacherAssignment
	nextID      int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		departments: make(map[int64]*models.Department),
		offerings:   make(map[int64]*models.CourseOffering),
		sections:    make(map[int64]*models.Section),
		records:     make(map[int64]*models.StudentAcademicRecord),
	}
}

func (f *fakeStore) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeStore) addDepartment(name string) *models.Department {
	d := &models.Department{ID: f.id(), Name: name}
	f.departments[d.ID] = d
	return d
}

func (f *fakeStore) addOffering(dept *models.Department, course *models.Course, periodID int64, semesterNumber int) *models.CourseOffering {
	off := &models.CourseOffering{
		ID:                 f.id(),
		CourseDepartmentID: f.id(),
		AcademicPeriodID:   periodID,
		SemesterNumber:     semesterNumber,
		Course:             course,
		Department:         dept,
	}
	f.offerings[off.ID] = off
	return off
}

func (f *fakeStore) addRecord(studentID, deptID, periodID int64, semesterNumber int, isCurrent bool) *models.StudentAcademicRecord {
	rec := &models.StudentAcademicRecord{
		ID:               f.id(),
		StudentID:        studentID,
		DepartmentID:     deptID,
		AcademicPeriodID: periodID,
		Status:           models.StatusEnrolled,
		SemesterNumber:   semesterNumber,
		Year:             1,
		IsCurrent:        isCurrent,
	}
	f.records[rec.ID] = rec
	return rec
}

func (f *fakeStore) InTx(ctx context.Context, fn func(ctx context.Context, store RegistrationStore) error) error {
	return fn(ctx, f)
}

func (f *fakeStore) OfferingByID(ctx context.Context, id int64) (*models.CourseOffering, error) {
	off, ok := f.offerings[id]
	if !ok {
		return nil, apperrors.ErrOfferingNotFound
	}
	return off, nil
}

func (f *fakeStore) CompatibleOfferings(ctx context.Context, departmentID, periodID int64, semesterNumber int) ([]*models.CourseOffering, error) {
	var out []*models.CourseOffering
	for _, off := range f.offerings {
		if off.Department != nil && off.Department.ID == departmentID &&
			off.AcademicPeriodID == periodID && off.SemesterNumber == semesterNumber {
			out = append(out, off)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) EnrolledOfferingIDs(ctx context.Context, recordID int64) ([]int64, error) {
	seen := make(map[int64]bool)
	var ids []int64
	for _, e := range f.enrollments {
		if e.StudentRecordID != recordID {
			continue
		}
		link := f.linkByID(e.SectionCourseOfferingID)
		if link != nil && !seen[link.CourseOfferingID] {
			seen[link.CourseOfferingID] = true
			ids = append(ids, link.CourseOfferingID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (f *fakeStore) ExactMatchSections(ctx context.Context, offeringIDs []int64) ([]*models.Section, error) {
	want := make(map[int64]bool, len(offeringIDs))
	for _, id := range offeringIDs {
		want[id] = true
	}

	var out []*models.Section
	for _, section := range f.sections {
		linked := f.sectionOfferingIDs(section.ID)
		if len(linked) != len(want) {
			continue
		}
		match := true
		for _, id := range linked {
			if !want[id] {
				match = false
				break
			}
		}
		if match {
			out = append(out, section)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) CountEnrolledStudents(ctx context.Context, sectionID, periodID int64, semesterNumber int) (int, error) {
	students := make(map[int64]bool)
	for _, e := range f.enrollments {
		link := f.linkByID(e.SectionCourseOfferingID)
		if link == nil || link.SectionID != sectionID {
			continue
		}
		off := f.offerings[link.CourseOfferingID]
		if off == nil || off.AcademicPeriodID != periodID || off.SemesterNumber != semesterNumber {
			continue
		}
		if rec := f.records[e.StudentRecordID]; rec != nil {
			students[rec.StudentID] = true
		}
	}
	return len(students), nil
}

func (f *fakeStore) CreateSection(ctx context.Context, section *models.Section) error {
	section.ID = f.id()
	f.sections[section.ID] = section
	return nil
}

func (f *fakeStore) GetOrCreateSectionOffering(ctx context.Context, sectionID, offeringID int64) (*models.SectionCourseOffering, bool, error) {
	for _, link := range f.links {
		if link.SectionID == sectionID && link.CourseOfferingID == offeringID {
			return link, false, nil
		}
	}
	link := &models.SectionCourseOffering{
		ID:               f.id(),
		SectionID:        sectionID,
		CourseOfferingID: offeringID,
	}
	f.links = append(f.links, link)
	return link, true, nil
}

func (f *fakeStore) AssignTeacher(ctx context.Context, teacherID, sectionID int64) error {
	for _, a := range f.assignments {
		if a.TeacherID == teacherID && a.SectionID == sectionID {
			return nil
		}
	}
	f.assignments = append(f.assignments, &models.TeacherAssignment{
		ID:        f.id(),
		TeacherID: teacherID,
		SectionID: sectionID,
	})
	return nil
}

func (f *fakeStore) CurrentSectionFor(ctx context.Context, recordID, periodID int64, semesterNumber int) (*models.Section, error) {
	for _, e := range f.enrollments {
		if e.StudentRecordID != recordID {
			continue
		}
		link := f.linkByID(e.SectionCourseOfferingID)
		if link == nil {
			continue
		}
		off := f.offerings[link.CourseOfferingID]
		if off != nil && off.AcademicPeriodID == periodID && off.SemesterNumber == semesterNumber {
			return f.sections[link.SectionID], nil
		}
	}
	return nil, nil
}

func (f *fakeStore) GetOrCreateEnrollment(ctx context.Context, enrollment *models.Enrollment) (bool, error) {
	for _, e := range f.enrollments {
		if e.StudentRecordID == enrollment.StudentRecordID &&
			e.SectionCourseOfferingID == enrollment.SectionCourseOfferingID {
			*enrollment = *e
			return false, nil
		}
	}
	enrollment.ID = f.id()
	enrollment.RegistrationDate = time.Now()
	stored := *enrollment
	f.enrollments = append(f.enrollments, &stored)
	return true, nil
}

func (f *fakeStore) HasPriorCourseEnrollment(ctx context.Context, studentID, courseID, currentRecordID int64) (bool, error) {
	for _, e := range f.enrollments {
		rec := f.records[e.StudentRecordID]
		if rec == nil || rec.StudentID != studentID || rec.ID == currentRecordID || rec.IsCurrent {
			continue
		}
		link := f.linkByID(e.SectionCourseOfferingID)
		if link == nil {
			continue
		}
		off := f.offerings[link.CourseOfferingID]
		if off != nil && off.Course != nil && off.Course.ID == courseID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) linkByID(id int64) *models.SectionCourseOffering {
	for _, link := range f.links {
		if link.ID == id {
			return link
		}
	}
	return nil
}

func (f *fakeStore) sectionOfferingIDs(sectionID int64) []int64 {
	var ids []int64
	for _, link := range f.links {
		if link.SectionID == sectionID {
			ids = append(ids, link.CourseOfferingID)
		}
	}
	return ids
}

var _ TxStore = (*fakeStore)(nil)

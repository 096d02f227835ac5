package seed

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/campusreg/registrar/internal/app/models"
	appRepos "github.com/campusreg/registrar/internal/app/repositories"
	"github.com/campusreg/registrar/internal/pkg/apperrors"
	"github.com/campusreg/registrar/internal/pkg/auth"
)

type courseSeed struct {
	name        string
	code        string
	creditHours int
	prereqCode  string
	departments []string
	offerings   map[string][]int // semester -> semester numbers
}

// CreateDefaultData seeds periods, departments, courses, offerings and demo
// accounts so a fresh database is immediately usable. Every step is
// idempotent; existing rows are looked up instead of recreated.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	repos := appRepos.NewRepositories(dbPool)

	lgr.Info().Msg("Checking/Creating default data...")
	var finalErr error

	// --- Academic periods --- //
	fall, err := ensurePeriod(ctx, repos, "2025-2026", appModels.SemesterFall,
		time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC))
	if err != nil {
		lgr.Error().Err(err).Msg("Error seeding fall period")
		finalErr = errors.Join(finalErr, err)
	}
	winter, err := ensurePeriod(ctx, repos, "2025-2026", appModels.SemesterWinter,
		time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC))
	if err != nil {
		lgr.Error().Err(err).Msg("Error seeding winter period")
		finalErr = errors.Join(finalErr, err)
	}
	periods := map[string]*appModels.AcademicPeriod{}
	if fall != nil {
		periods["FALL"] = fall
	}
	if winter != nil {
		periods["WINTER"] = winter
	}

	// --- Teachers and departments --- //
	turing, err := ensureTeacher(ctx, repos, "Alan Turing", "alan.turing@campus.edu")
	if err != nil {
		lgr.Error().Err(err).Msg("Error seeding teacher")
		finalErr = errors.Join(finalErr, err)
	}
	noether, err := ensureTeacher(ctx, repos, "Emmy Noether", "emmy.noether@campus.edu")
	if err != nil {
		lgr.Error().Err(err).Msg("Error seeding teacher")
		finalErr = errors.Join(finalErr, err)
	}

	departments := map[string]*appModels.Department{}
	for _, d := range []struct {
		name string
		head *appModels.Teacher
	}{
		{"Computer Science", turing},
		{"Mathematics", noether},
	} {
		dept, err := ensureDepartment(ctx, repos, d.name, d.head)
		if err != nil {
			lgr.Error().Err(err).Str("department", d.name).Msg("Error seeding department")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		departments[d.name] = dept
	}

	// --- Courses, department links and offerings --- //
	courses := []courseSeed{
		{
			name: "Introduction to Programming", code: "CS101", creditHours: 3,
			departments: []string{"Computer Science"},
			offerings:   map[string][]int{"FALL": {1}},
		},
		{
			name: "Data Structures", code: "CS102", creditHours: 4, prereqCode: "CS101",
			departments: []string{"Computer Science"},
			offerings:   map[string][]int{"WINTER": {2}},
		},
		{
			name: "Algorithms", code: "CS201", creditHours: 4, prereqCode: "CS102",
			departments: []string{"Computer Science"},
			offerings:   map[string][]int{"FALL": {3}},
		},
		{
			name: "Database Systems", code: "CS210", creditHours: 3,
			departments: []string{"Computer Science"},
			offerings:   map[string][]int{"FALL": {3}},
		},
		{
			name: "Calculus I", code: "MATH101", creditHours: 4,
			departments: []string{"Mathematics", "Computer Science"},
			offerings:   map[string][]int{"FALL": {1}},
		},
		{
			name: "Linear Algebra", code: "MATH102", creditHours: 3,
			departments: []string{"Mathematics"},
			offerings:   map[string][]int{"FALL": {1}},
		},
		{
			name: "Calculus II", code: "MATH201", creditHours: 4, prereqCode: "MATH101",
			departments: []string{"Mathematics"},
			offerings:   map[string][]int{"WINTER": {2}},
		},
	}

	byCode := map[string]*appModels.Course{}
	for _, cs := range courses {
		course, err := ensureCourse(ctx, repos, cs, byCode)
		if err != nil {
			lgr.Error().Err(err).Str("code", cs.code).Msg("Error seeding course")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		byCode[cs.code] = course

		for _, deptName := range cs.departments {
			dept, ok := departments[deptName]
			if !ok {
				continue
			}
			linkID, err := repos.CourseRepository.LinkDepartment(ctx, course.ID, dept.ID)
			if err != nil {
				lgr.Error().Err(err).Str("code", cs.code).Str("department", deptName).
					Msg("Error linking course to department")
				finalErr = errors.Join(finalErr, err)
				continue
			}

			for semester, semesterNumbers := range cs.offerings {
				period, ok := periods[semester]
				if !ok {
					continue
				}
				for _, n := range semesterNumbers {
					offering := &appModels.CourseOffering{
						CourseDepartmentID: linkID,
						AcademicPeriodID:   period.ID,
						SemesterNumber:     n,
					}
					err := repos.OfferingRepository.Create(ctx, offering)
					if err != nil && !errors.Is(err, apperrors.ErrConflict) {
						lgr.Error().Err(err).Str("code", cs.code).Int("semesterNumber", n).
							Msg("Error seeding course offering")
						finalErr = errors.Join(finalErr, err)
					}
				}
			}
		}
	}

	// --- Demo students with current academic records --- //
	if fall != nil {
		for _, s := range []struct {
			name, email, password string
			department            string
			semesterNumber, year  int
		}{
			{"Ada Lovelace", "ada@campus.edu", "password123", "Computer Science", 1, 1},
			{"Grace Hopper", "grace@campus.edu", "password123", "Computer Science", 3, 2},
			{"Sofia Kovalevskaya", "sofia@campus.edu", "password123", "Mathematics", 1, 1},
		} {
			dept, ok := departments[s.department]
			if !ok {
				continue
			}
			if err := ensureStudentWithRecord(ctx, repos, s.name, s.email, s.password,
				dept.ID, fall.ID, s.semesterNumber, s.year); err != nil {
				lgr.Error().Err(err).Str("email", s.email).Msg("Error seeding student")
				finalErr = errors.Join(finalErr, err)
			}
		}
	}

	if finalErr == nil {
		lgr.Info().Msg("Default data in place")
	}
	return finalErr
}

func ensurePeriod(ctx context.Context, repos *appRepos.Repositories, year string,
	semester appModels.Semester, start, end time.Time) (*appModels.AcademicPeriod, error) {

	existing, err := repos.PeriodRepository.GetByYearAndSemester(ctx, year, semester)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, apperrors.ErrPeriodNotFound) {
		return nil, err
	}

	period := &appModels.AcademicPeriod{
		AcademicYear: year,
		Semester:     semester,
		StartDate:    start,
		EndDate:      end,
	}
	if err := repos.PeriodRepository.Create(ctx, period); err != nil {
		return nil, err
	}
	return period, nil
}

func ensureTeacher(ctx context.Context, repos *appRepos.Repositories, name, email string) (*appModels.Teacher, error) {
	existing, err := repos.StudentRepository.GetTeacherByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, apperrors.ErrResourceNotFound) {
		return nil, err
	}

	teacher := &appModels.Teacher{FullName: name, Email: email}
	if err := repos.StudentRepository.CreateTeacher(ctx, teacher); err != nil {
		return nil, err
	}
	return teacher, nil
}

func ensureDepartment(ctx context.Context, repos *appRepos.Repositories, name string,
	head *appModels.Teacher) (*appModels.Department, error) {

	existing, err := repos.DepartmentRepository.GetByName(ctx, name)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, apperrors.ErrDepartmentNotFound) {
		return nil, err
	}

	department := &appModels.Department{Name: name}
	if head != nil {
		department.HeadTeacherID = &head.ID
	}
	if err := repos.DepartmentRepository.Create(ctx, department); err != nil {
		return nil, err
	}
	return department, nil
}

func ensureCourse(ctx context.Context, repos *appRepos.Repositories, cs courseSeed,
	byCode map[string]*appModels.Course) (*appModels.Course, error) {

	existing, err := repos.CourseRepository.GetByCode(ctx, cs.code)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, apperrors.ErrCourseNotFound) {
		return nil, err
	}

	course := &appModels.Course{
		Name:        cs.name,
		Code:        cs.code,
		CreditHours: cs.creditHours,
	}
	if cs.prereqCode != "" {
		if prereq, ok := byCode[cs.prereqCode]; ok {
			course.PrerequisiteCourseID = &prereq.ID
		}
	}
	if err := repos.CourseRepository.Create(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

func ensureStudentWithRecord(ctx context.Context, repos *appRepos.Repositories,
	name, email, password string, departmentID, periodID int64, semesterNumber, year int) error {

	student, err := repos.StudentRepository.GetStudentByEmail(ctx, email)
	if errors.Is(err, apperrors.ErrStudentNotFound) {
		hash, hashErr := auth.HashPassword(password)
		if hashErr != nil {
			return hashErr
		}
		student = &appModels.Student{FullName: name, Email: email, PasswordHash: hash}
		if err := repos.StudentRepository.CreateStudent(ctx, student); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	record := &appModels.StudentAcademicRecord{
		StudentID:        student.ID,
		DepartmentID:     departmentID,
		AcademicPeriodID: periodID,
		Status:           appModels.StatusEnrolled,
		SemesterNumber:   semesterNumber,
		Year:             year,
		IsCurrent:        true,
	}
	err = repos.RecordRepository.Create(ctx, record)
	if err != nil && !errors.Is(err, apperrors.ErrConflict) {
		return err
	}
	return nil
}

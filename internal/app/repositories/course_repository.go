package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/campusreg/registrar/internal/app/models"
	"github.com/campusreg/registrar/internal/pkg/apperrors"
	"github.com/campusreg/registrar/internal/pkg/dberrors"
)

// CourseRepository handles database operations for courses
type CourseRepository struct {
	db Querier
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(db Querier) *CourseRepository {
	return &CourseRepository{
		db: db,
	}
}

// Create creates a new course
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	query := `
		INSERT INTO courses (name, code, description, credit_hours, prerequisite_course_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		course.Name, course.Code, course.Description, course.CreditHours, course.PrerequisiteCourseID,
	).Scan(&course.ID)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.NewConflictError("course with this code already exists")
		}
		return fmt.Errorf("error creating course: %w", err)
	}

	return nil
}

// GetByID retrieves a course by ID
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	query := `
		SELECT id, name, code, description, credit_hours, prerequisite_course_id
		FROM courses
		WHERE id = $1
	`

	var course models.Course
	err := r.db.QueryRow(ctx, query, id).Scan(
		&course.ID,
		&course.Name,
		&course.Code,
		&course.Description,
		&course.CreditHours,
		&course.PrerequisiteCourseID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}

	return &course, nil
}

// GetByCode retrieves a course by its unique code
func (r *CourseRepository) GetByCode(ctx context.Context, code string) (*models.Course, error) {
	query := `
		SELECT id, name, code, description, credit_hours, prerequisite_course_id
		FROM courses
		WHERE code = $1
	`

	var course models.Course
	err := r.db.QueryRow(ctx, query, code).Scan(
		&course.ID,
		&course.Name,
		&course.Code,
		&course.Description,
		&course.CreditHours,
		&course.PrerequisiteCourseID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}

	return &course, nil
}

// GetAll retrieves all courses
func (r *CourseRepository) GetAll(ctx context.Context) ([]*models.Course, error) {
	query := `
		SELECT id, name, code, description, credit_hours, prerequisite_course_id
		FROM courses
		ORDER BY code
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []*models.Course
	for rows.Next() {
		var course models.Course
		if err := rows.Scan(
			&course.ID,
			&course.Name,
			&course.Code,
			&course.Description,
			&course.CreditHours,
			&course.PrerequisiteCourseID,
		); err != nil {
			return nil, err
		}
		courses = append(courses, &course)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return courses, nil
}

// LinkDepartment ensures a course-department pair exists and returns its id
func (r *CourseRepository) LinkDepartment(ctx context.Context, courseID, departmentID int64) (int64, error) {
	query := `
		INSERT INTO course_departments (course_id, department_id)
		VALUES ($1, $2)
		ON CONFLICT (course_id, department_id) DO NOTHING
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(ctx, query, courseID, departmentID).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("error linking course to department: %w", err)
	}

	// Pair already existed, fetch it
	err = r.db.QueryRow(ctx,
		`SELECT id FROM course_departments WHERE course_id = $1 AND department_id = $2`,
		courseID, departmentID).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("error retrieving course-department link: %w", err)
	}

	return id, nil
}

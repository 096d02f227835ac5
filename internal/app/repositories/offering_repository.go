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

// OfferingRepository handles database operations for course offerings
type OfferingRepository struct {
	db Querier
}

// NewOfferingRepository creates a new offering repository
func NewOfferingRepository(db Querier) *OfferingRepository {
	return &OfferingRepository{
		db: db,
	}
}

const offeringSelect = `
	SELECT co.id, co.course_department_id, co.academic_period_id, co.semester_number,
	       c.id, c.name, c.code, c.credit_hours,
	       d.id, d.name, d.head_teacher_id
	FROM course_offerings co
	JOIN course_departments cd ON cd.id = co.course_department_id
	JOIN courses c ON c.id = cd.course_id
	JOIN departments d ON d.id = cd.department_id
`

func scanOffering(row pgx.Row) (*models.CourseOffering, error) {
	var (
		offering   models.CourseOffering
		course     models.Course
		department models.Department
	)
	err := row.Scan(
		&offering.ID,
		&offering.CourseDepartmentID,
		&offering.AcademicPeriodID,
		&offering.SemesterNumber,
		&course.ID,
		&course.Name,
		&course.Code,
		&course.CreditHours,
		&department.ID,
		&department.Name,
		&department.HeadTeacherID,
	)
	if err != nil {
		return nil, err
	}
	offering.Course = &course
	offering.Department = &department
	return &offering, nil
}

// Create creates a new course offering
func (r *OfferingRepository) Create(ctx context.Context, offering *models.CourseOffering) error {
	query := `
		INSERT INTO course_offerings (course_department_id, academic_period_id, semester_number)
		VALUES ($1, $2, $3)
		ON CONFLICT (course_department_id, academic_period_id, semester_number) DO NOTHING
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		offering.CourseDepartmentID, offering.AcademicPeriodID, offering.SemesterNumber,
	).Scan(&offering.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewConflictError("course offering already exists for this period and semester number")
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.NewValidationError("course offering references an unknown course-department or period")
		}
		return fmt.Errorf("error creating course offering: %w", err)
	}

	return nil
}

// GetByID retrieves an offering by ID with its course and department populated
func (r *OfferingRepository) GetByID(ctx context.Context, id int64) (*models.CourseOffering, error) {
	offering, err := scanOffering(r.db.QueryRow(ctx, offeringSelect+` WHERE co.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrOfferingNotFound
		}
		return nil, fmt.Errorf("error retrieving course offering: %w", err)
	}

	return offering, nil
}

// GetCompatible retrieves offerings matching a department, period and
// semester number, ordered by id.
func (r *OfferingRepository) GetCompatible(ctx context.Context, departmentID, periodID int64, semesterNumber int) ([]*models.CourseOffering, error) {
	query := offeringSelect + `
		WHERE cd.department_id = $1
		  AND co.academic_period_id = $2
		  AND co.semester_number = $3
		ORDER BY co.id
	`

	rows, err := r.db.Query(ctx, query, departmentID, periodID, semesterNumber)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var offerings []*models.CourseOffering
	for rows.Next() {
		offering, err := scanOffering(rows)
		if err != nil {
			return nil, err
		}
		offerings = append(offerings, offering)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return offerings, nil
}

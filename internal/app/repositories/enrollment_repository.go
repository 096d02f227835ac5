package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/campusreg/registrar/internal/app/models"
)

// EnrollmentRepository handles database operations for enrollments
type EnrollmentRepository struct {
	db Querier
}

// NewEnrollmentRepository creates a new enrollment repository
func NewEnrollmentRepository(db Querier) *EnrollmentRepository {
	return &EnrollmentRepository{
		db: db,
	}
}

// GetOrCreate ensures an enrollment exists for the record and section link,
// reporting whether it was newly created. The unique constraint on
// (student_record_id, section_course_offering_id) makes this duplicate-safe
// under concurrency.
func (r *EnrollmentRepository) GetOrCreate(ctx context.Context, enrollment *models.Enrollment) (bool, error) {
	insertQuery := `
		INSERT INTO enrollments (student_record_id, section_course_offering_id, is_retake)
		VALUES ($1, $2, $3)
		ON CONFLICT (student_record_id, section_course_offering_id) DO NOTHING
		RETURNING id, registration_date
	`

	err := r.db.QueryRow(ctx, insertQuery,
		enrollment.StudentRecordID, enrollment.SectionCourseOfferingID, enrollment.IsRetake,
	).Scan(&enrollment.ID, &enrollment.RegistrationDate)
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return false, fmt.Errorf("error creating enrollment: %w", err)
	}

	err = r.db.QueryRow(ctx, `
		SELECT id, registration_date, is_retake
		FROM enrollments
		WHERE student_record_id = $1 AND section_course_offering_id = $2`,
		enrollment.StudentRecordID, enrollment.SectionCourseOfferingID,
	).Scan(&enrollment.ID, &enrollment.RegistrationDate, &enrollment.IsRetake)
	if err != nil {
		return false, fmt.Errorf("error retrieving enrollment: %w", err)
	}

	return false, nil
}

// CurrentSectionFor returns the section of the record's existing enrollment
// for the given period and semester number, or nil when there is none. The
// earliest enrollment wins, keeping the student with their original cohort.
func (r *EnrollmentRepository) CurrentSectionFor(ctx context.Context, recordID, periodID int64, semesterNumber int) (*models.Section, error) {
	query := `
		SELECT s.id, s.name, s.max_students
		FROM enrollments e
		JOIN section_course_offerings sco ON sco.id = e.section_course_offering_id
		JOIN sections s ON s.id = sco.section_id
		JOIN course_offerings co ON co.id = sco.course_offering_id
		WHERE e.student_record_id = $1
		  AND co.academic_period_id = $2
		  AND co.semester_number = $3
		ORDER BY e.id
		LIMIT 1
	`

	var section models.Section
	err := r.db.QueryRow(ctx, query, recordID, periodID, semesterNumber).Scan(
		&section.ID,
		&section.Name,
		&section.MaxStudents,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error retrieving current section: %w", err)
	}

	return &section, nil
}

// EnrolledOfferingIDs lists the offering ids a record is enrolled in.
func (r *EnrollmentRepository) EnrolledOfferingIDs(ctx context.Context, recordID int64) ([]int64, error) {
	query := `
		SELECT DISTINCT sco.course_offering_id
		FROM enrollments e
		JOIN section_course_offerings sco ON sco.id = e.section_course_offering_id
		WHERE e.student_record_id = $1
		ORDER BY sco.course_offering_id
	`

	rows, err := r.db.Query(ctx, query, recordID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ids, nil
}

// HasPriorCourseEnrollment reports whether the student attempted the course
// under an earlier, non-current academic record.
func (r *EnrollmentRepository) HasPriorCourseEnrollment(ctx context.Context, studentID, courseID, currentRecordID int64) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1
			FROM enrollments e
			JOIN student_academic_records sar ON sar.id = e.student_record_id
			JOIN section_course_offerings sco ON sco.id = e.section_course_offering_id
			JOIN course_offerings co ON co.id = sco.course_offering_id
			JOIN course_departments cd ON cd.id = co.course_department_id
			WHERE sar.student_id = $1
			  AND cd.course_id = $2
			  AND sar.id <> $3
			  AND sar.is_current = false
		)
	`

	var exists bool
	err := r.db.QueryRow(ctx, query, studentID, courseID, currentRecordID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking prior course enrollment: %w", err)
	}

	return exists, nil
}

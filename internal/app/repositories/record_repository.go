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

// RecordRepository handles database operations for student academic records
type RecordRepository struct {
	db Querier
}

// NewRecordRepository creates a new record repository
func NewRecordRepository(db Querier) *RecordRepository {
	return &RecordRepository{
		db: db,
	}
}

// Create creates a new student academic record
func (r *RecordRepository) Create(ctx context.Context, record *models.StudentAcademicRecord) error {
	query := `
		INSERT INTO student_academic_records
			(student_id, department_id, academic_period_id, academic_status, semester_number, year, is_current)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		record.StudentID,
		record.DepartmentID,
		record.AcademicPeriodID,
		record.Status,
		record.SemesterNumber,
		record.Year,
		record.IsCurrent,
	).Scan(&record.ID)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.NewConflictError("academic record already exists for this student and period")
		}
		return fmt.Errorf("error creating academic record: %w", err)
	}

	return nil
}

// GetByID retrieves an academic record by ID
func (r *RecordRepository) GetByID(ctx context.Context, id int64) (*models.StudentAcademicRecord, error) {
	query := `
		SELECT id, student_id, department_id, academic_period_id, academic_status,
		       semester_number, year, is_current
		FROM student_academic_records
		WHERE id = $1
	`

	record, err := scanRecord(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrRecordNotFound
		}
		return nil, fmt.Errorf("error retrieving academic record: %w", err)
	}

	return record, nil
}

// GetCurrentByStudent retrieves the student's single current academic record.
// Returns apperrors.ErrNoCurrentRecord when the student has none.
func (r *RecordRepository) GetCurrentByStudent(ctx context.Context, studentID int64) (*models.StudentAcademicRecord, error) {
	query := `
		SELECT id, student_id, department_id, academic_period_id, academic_status,
		       semester_number, year, is_current
		FROM student_academic_records
		WHERE student_id = $1 AND is_current = true
	`

	record, err := scanRecord(r.db.QueryRow(ctx, query, studentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNoCurrentRecord
		}
		return nil, fmt.Errorf("error retrieving current academic record: %w", err)
	}

	return record, nil
}

func scanRecord(row pgx.Row) (*models.StudentAcademicRecord, error) {
	var record models.StudentAcademicRecord
	err := row.Scan(
		&record.ID,
		&record.StudentID,
		&record.DepartmentID,
		&record.AcademicPeriodID,
		&record.Status,
		&record.SemesterNumber,
		&record.Year,
		&record.IsCurrent,
	)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

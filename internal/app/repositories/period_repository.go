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

// PeriodRepository handles database operations for academic periods
type PeriodRepository struct {
	db Querier
}

// NewPeriodRepository creates a new period repository
func NewPeriodRepository(db Querier) *PeriodRepository {
	return &PeriodRepository{
		db: db,
	}
}

// Create creates a new academic period
func (r *PeriodRepository) Create(ctx context.Context, period *models.AcademicPeriod) error {
	query := `
		INSERT INTO academic_periods (academic_year, semester, start_date, end_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		period.AcademicYear, period.Semester, period.StartDate, period.EndDate,
	).Scan(&period.ID)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.NewConflictError("academic period already exists for this year and semester")
		}
		return fmt.Errorf("error creating academic period: %w", err)
	}

	return nil
}

// GetByID retrieves an academic period by ID
func (r *PeriodRepository) GetByID(ctx context.Context, id int64) (*models.AcademicPeriod, error) {
	query := `
		SELECT id, academic_year, semester, start_date, end_date
		FROM academic_periods
		WHERE id = $1
	`

	var period models.AcademicPeriod
	err := r.db.QueryRow(ctx, query, id).Scan(
		&period.ID,
		&period.AcademicYear,
		&period.Semester,
		&period.StartDate,
		&period.EndDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPeriodNotFound
		}
		return nil, fmt.Errorf("error retrieving academic period: %w", err)
	}

	return &period, nil
}

// GetAll retrieves all academic periods ordered by year and semester
func (r *PeriodRepository) GetAll(ctx context.Context) ([]*models.AcademicPeriod, error) {
	query := `
		SELECT id, academic_year, semester, start_date, end_date
		FROM academic_periods
		ORDER BY academic_year, semester
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var periods []*models.AcademicPeriod
	for rows.Next() {
		var period models.AcademicPeriod
		if err := rows.Scan(
			&period.ID,
			&period.AcademicYear,
			&period.Semester,
			&period.StartDate,
			&period.EndDate,
		); err != nil {
			return nil, err
		}
		periods = append(periods, &period)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return periods, nil
}

// GetByYearAndSemester retrieves a period by its unique (year, semester) pair
func (r *PeriodRepository) GetByYearAndSemester(ctx context.Context, year string, semester models.Semester) (*models.AcademicPeriod, error) {
	query := `
		SELECT id, academic_year, semester, start_date, end_date
		FROM academic_periods
		WHERE academic_year = $1 AND semester = $2
	`

	var period models.AcademicPeriod
	err := r.db.QueryRow(ctx, query, year, semester).Scan(
		&period.ID,
		&period.AcademicYear,
		&period.Semester,
		&period.StartDate,
		&period.EndDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPeriodNotFound
		}
		return nil, fmt.Errorf("error retrieving academic period: %w", err)
	}

	return &period, nil
}

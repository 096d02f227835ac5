package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the subset of pgx used by repositories. Both *pgxpool.Pool and
// pgx.Tx satisfy it, so every repository works inside or outside a
// transaction.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Repositories holds all the repository instances
type Repositories struct {
	PeriodRepository     *PeriodRepository
	CourseRepository     *CourseRepository
	DepartmentRepository *DepartmentRepository
	OfferingRepository   *OfferingRepository
	SectionRepository    *SectionRepository
	RecordRepository     *RecordRepository
	EnrollmentRepository *EnrollmentRepository
	StudentRepository    *StudentRepository
}

// NewRepositories initializes all repositories against the given querier.
func NewRepositories(db Querier) *Repositories {
	return &Repositories{
		PeriodRepository:     NewPeriodRepository(db),
		CourseRepository:     NewCourseRepository(db),
		DepartmentRepository: NewDepartmentRepository(db),
		OfferingRepository:   NewOfferingRepository(db),
		SectionRepository:    NewSectionRepository(db),
		RecordRepository:     NewRecordRepository(db),
		EnrollmentRepository: NewEnrollmentRepository(db),
		StudentRepository:    NewStudentRepository(db),
	}
}

var _ Querier = (*pgxpool.Pool)(nil)
